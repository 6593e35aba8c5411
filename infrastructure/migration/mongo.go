package migration

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Código devolvido quando já existe um índice com as mesmas chaves sob outro nome
const indexOptionsConflict = 85

type mongoIndex struct {
	collection string
	model      mongo.IndexModel
}

var mongoIndexes = []mongoIndex{
	{
		collection: "users",
		model: mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	},
	{
		collection: "sales",
		model: mongo.IndexModel{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}},
		},
	},
}

// EnsureMongoIndexes cria os índices usados pelas consultas. Os nomes seguem o
// padrão do driver (email_1); um índice equivalente já existente com outro nome
// é aceito.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	for _, idx := range mongoIndexes {
		name, err := db.Collection(idx.collection).Indexes().CreateOne(ctx, idx.model)
		if err != nil {
			var cmdErr mongo.CommandError
			if errors.As(err, &cmdErr) && cmdErr.Code == indexOptionsConflict {
				logrus.WithFields(logrus.Fields{
					"collection": idx.collection,
					"error":      cmdErr.Message,
				}).Warn("Índice equivalente já existe com outro nome")
				continue
			}
			return errors.Wrapf(err, "erro ao criar índice em %s", idx.collection)
		}

		logrus.WithFields(logrus.Fields{
			"collection": idx.collection,
			"index":      name,
		}).Debug("Índice verificado")
	}

	return nil
}
