package sqlstore

import (
	"database/sql"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/vfg2006/sales-manager-api/infrastructure/database/sqldb"
	"github.com/vfg2006/sales-manager-api/infrastructure/repository"
	"github.com/vfg2006/sales-manager-api/pkg/utils"
)

const (
	usersTable       = "users"
	productsTable    = "products"
	commissionsTable = "commissions"
	salesTable       = "sales"
)

const (
	pqUniqueViolation   = "23505"
	mysqlDuplicateEntry = 1062
)

// New cria os repositórios sobre a conexão informada
func New(conn sqldb.Conn) repository.Repositories {
	return repository.Repositories{
		Users:       NewUserRepository(conn),
		Products:    NewProductRepository(conn),
		Commissions: NewCommissionRepository(conn),
		Sales:       NewSaleRepository(conn),
	}
}

// translateError converte violações de unicidade dos drivers em ErrDuplicateKey
func translateError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		return repository.ErrDuplicateKey
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
		return repository.ErrDuplicateKey
	}

	return err
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func newID() (string, error) {
	id, err := utils.GenerateID()
	if err != nil {
		return "", errors.Wrap(err, "erro ao gerar ID")
	}
	return id, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
