package migration

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-manager-api/infrastructure/database/sqldb"
	"github.com/vfg2006/sales-manager-api/internal/config"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id VARCHAR(24) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		expected_monthly_income NUMERIC(14,2) NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id VARCHAR(24) PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
		image TEXT NULL,
		price NUMERIC(14,2) NOT NULL DEFAULT 0,
		commissions TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS commissions (
		id VARCHAR(24) PRIMARY KEY,
		number INTEGER NOT NULL,
		percentage NUMERIC(9,4) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sales (
		id VARCHAR(24) PRIMARY KEY,
		product_id VARCHAR(24) NOT NULL,
		user_id VARCHAR(24) NOT NULL,
		total NUMERIC(14,2) NOT NULL,
		sold_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_user_sold_at ON sales (user_id, sold_at)`,
}

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id VARCHAR(24) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		expected_monthly_income DECIMAL(14,2) NOT NULL DEFAULT 0,
		created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		updated_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6)
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id VARCHAR(24) PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		description TEXT NOT NULL,
		stock INT NOT NULL DEFAULT 0 CHECK (stock >= 0),
		image TEXT NULL,
		price DECIMAL(14,2) NOT NULL DEFAULT 0,
		commissions TEXT NOT NULL,
		created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
		updated_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6)
	)`,
	`CREATE TABLE IF NOT EXISTS commissions (
		id VARCHAR(24) PRIMARY KEY,
		number INT NOT NULL,
		percentage DECIMAL(9,4) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sales (
		id VARCHAR(24) PRIMARY KEY,
		product_id VARCHAR(24) NOT NULL,
		user_id VARCHAR(24) NOT NULL,
		total DECIMAL(14,2) NOT NULL,
		sold_at DATETIME(6) NOT NULL,
		INDEX idx_sales_user_sold_at (user_id, sold_at)
	)`,
}

// Schema retorna as instruções DDL do driver
func Schema(driver string) ([]string, error) {
	switch driver {
	case config.DriverPostgres:
		return postgresSchema, nil
	case config.DriverMySQL:
		return mysqlSchema, nil
	default:
		return nil, fmt.Errorf("driver SQL não suportado: %s", driver)
	}
}

// ApplySQLSchema cria as tabelas ausentes. As instruções são idempotentes.
func ApplySQLSchema(ctx context.Context, conn sqldb.Queryer, driver string) error {
	statements, err := Schema(driver)
	if err != nil {
		return err
	}

	for i, stmt := range statements {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "erro ao aplicar instrução %d do schema", i+1)
		}
	}

	logrus.WithField("driver", driver).Info("Schema SQL verificado")
	return nil
}
