package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-manager-api/infrastructure/database/mongodb"
	"github.com/vfg2006/sales-manager-api/infrastructure/database/sqldb"
	"github.com/vfg2006/sales-manager-api/infrastructure/migration"
	"github.com/vfg2006/sales-manager-api/infrastructure/repository"
	"github.com/vfg2006/sales-manager-api/infrastructure/repository/mongostore"
	"github.com/vfg2006/sales-manager-api/infrastructure/repository/sqlstore"
	"github.com/vfg2006/sales-manager-api/internal/api"
	"github.com/vfg2006/sales-manager-api/internal/api/handler"
	"github.com/vfg2006/sales-manager-api/internal/config"
	"github.com/vfg2006/sales-manager-api/internal/scheduler"
	"github.com/vfg2006/sales-manager-api/internal/usecases/authenticating"
	"github.com/vfg2006/sales-manager-api/internal/usecases/cataloging"
	"github.com/vfg2006/sales-manager-api/internal/usecases/commissioning"
	"github.com/vfg2006/sales-manager-api/internal/usecases/selling"
	"github.com/vfg2006/sales-manager-api/pkg/log"
)

const cronJobTypeIncomeProgress = "income-progress"

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	log.Setup(cfg.App.LogLevel, cfg.App.Env)
	logrus.Infof("Nível de log configurado para: %s", logrus.GetLevel())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repos, ping, closeDB := openStorage(ctx, cfg)
	defer closeDB()

	authenticator := authenticating.NewService(repos.Users, cfg)
	cataloger := cataloging.NewService(repos.Products)
	commissioner := commissioning.NewService(repos.Commissions)
	seller := selling.NewService(repos.Sales, repos.Products, repos.Users)

	incomeProgressService := scheduler.NewIncomeProgressService(repos.Users, repos.Sales, cfg)
	if err := incomeProgressService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de metas mensais")
	} else {
		logrus.Info("Agendador de metas mensais iniciado com sucesso")
	}

	server, err := api.New(cfg, api.Services{
		Authenticator: authenticator,
		Cataloger:     cataloger,
		Commissioner:  commissioner,
		Seller:        seller,
		CronJobs: handler.CronJobServices{
			cronJobTypeIncomeProgress: incomeProgressService,
		},
		Ping: ping,
	})
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// openStorage conecta ao banco configurado e prepara índices ou tabelas
func openStorage(ctx context.Context, cfg *config.Config) (repository.Repositories, handler.Pinger, func()) {
	switch cfg.Database.Driver {
	case config.DriverMongo:
		conn, err := mongodb.NewConnection(ctx, cfg.Database)
		if err != nil {
			logrus.WithError(err).Fatal("Erro ao conectar ao MongoDB")
		}

		if err := migration.EnsureMongoIndexes(ctx, conn.DB); err != nil {
			logrus.WithError(err).Fatal("Erro ao criar índices do MongoDB")
		}

		logrus.WithField("database", cfg.Database.Name).Info("Conexão com MongoDB estabelecida com sucesso")

		closeFn := func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := conn.Close(shutdownCtx); err != nil {
				logrus.WithError(err).Error("Erro ao fechar conexão com MongoDB")
			}
		}
		return mongostore.New(conn.DB), conn.Ping, closeFn

	default:
		conn, err := sqldb.NewConnection(ctx, cfg.Database)
		if err != nil {
			logrus.WithError(err).Fatalf("Erro ao conectar ao %s", cfg.Database.Driver)
		}

		if err := conn.Ping(ctx); err != nil {
			logrus.WithError(err).Fatalf("Erro ao testar conexão com %s", cfg.Database.Driver)
		}

		if err := migration.ApplySQLSchema(ctx, conn, conn.Driver()); err != nil {
			logrus.WithError(err).Fatal("Erro ao aplicar o schema do banco")
		}

		logrus.WithField("driver", conn.Driver()).Info("Conexão com banco relacional estabelecida com sucesso")

		closeFn := func() {
			if err := conn.Close(); err != nil {
				logrus.WithError(err).Error("Erro ao fechar conexão com o banco")
			}
		}
		return sqlstore.New(conn), conn.Ping, closeFn
	}
}
