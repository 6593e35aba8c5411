package migration

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-manager-api/internal/config"
)

func TestApplySQLSchema(t *testing.T) {
	t.Run("executa todas as instruções do driver", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		statements, err := Schema(config.DriverPostgres)
		require.NoError(t, err)
		for range statements {
			mock.ExpectExec("CREATE").WillReturnResult(sqlmock.NewResult(0, 0))
		}

		err = ApplySQLSchema(context.Background(), sqlx.NewDb(db, "postgres"), config.DriverPostgres)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("interrompe na primeira falha", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").WillReturnError(errors.New("permission denied"))

		err = ApplySQLSchema(context.Background(), sqlx.NewDb(db, "mysql"), config.DriverMySQL)

		assert.ErrorContains(t, err, "instrução 1")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("driver não suportado", func(t *testing.T) {
		_, err := Schema(config.DriverMongo)
		assert.Error(t, err)
	})
}
