package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"github.com/vfg2006/sales-manager-api/internal/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type Connection struct {
	Client *mongo.Client
	DB     *mongo.Database
}

func NewConnection(
	ctx context.Context,
	cfg config.Database,
) (*Connection, error) {
	opts := options.Client().ApplyURI(cfg.URL)
	if cfg.Timeout > 0 {
		opts.SetConnectTimeout(cfg.Timeout).SetServerSelectionTimeout(cfg.Timeout)
	}
	if cfg.User != "" {
		opts.SetAuth(options.Credential{
			Username: cfg.User,
			Password: cfg.Password,
		})
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao conectar ao MongoDB")
	}

	conn := &Connection{
		Client: client,
		DB:     client.Database(cfg.Name),
	}

	if err := conn.Ping(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return conn, nil
}

func (c *Connection) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx, readpref.Primary())
}

func (c *Connection) Close(ctx context.Context) error {
	return c.Client.Disconnect(ctx)
}
