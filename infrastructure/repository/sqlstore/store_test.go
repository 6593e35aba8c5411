package sqlstore

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-manager-api/infrastructure/database/sqldb"
	"github.com/vfg2006/sales-manager-api/infrastructure/repository"
	"github.com/vfg2006/sales-manager-api/internal/config"
	"github.com/vfg2006/sales-manager-api/internal/domain"
)

func newMockConn(t *testing.T, driver string) (*sqldb.Connection, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return sqldb.Wrap(sqlx.NewDb(db, driver), driver), mock
}

func productRows() *sqlmock.Rows {
	return sqlmock.NewRows(productColumns)
}

func TestProductRepository_DecrementStock(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	updateSQL := regexp.QuoteMeta("UPDATE products SET stock = stock - 1, updated_at = $1 WHERE id = $2 AND stock > 0")
	selectSQL := regexp.QuoteMeta("SELECT id, title, description, stock, image, price, commissions, created_at, updated_at FROM products WHERE id = $1")

	t.Run("baixa uma unidade", func(t *testing.T) {
		conn, mock := newMockConn(t, config.DriverPostgres)

		mock.ExpectBegin()
		mock.ExpectExec(updateSQL).
			WithArgs(sqlmock.AnyArg(), "p1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(selectSQL).
			WithArgs("p1").
			WillReturnRows(productRows().AddRow("p1", "Camiseta", "", 4, nil, "59.90", `[{"id":"c1","number":1,"percentage":5}]`, now, now))
		mock.ExpectCommit()

		product, err := NewProductRepository(conn).DecrementStock(ctx, "p1")

		require.NoError(t, err)
		require.NotNil(t, product)
		assert.Equal(t, 4, product.Stock)
		assert.Nil(t, product.Image)
		assert.True(t, decimal.RequireFromString("59.90").Equal(product.Price))
		require.Len(t, product.Commissions, 1)
		assert.Equal(t, "c1", product.Commissions[0].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("sem estoque", func(t *testing.T) {
		conn, mock := newMockConn(t, config.DriverPostgres)

		mock.ExpectBegin()
		mock.ExpectExec(updateSQL).
			WithArgs(sqlmock.AnyArg(), "p1").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(selectSQL).
			WithArgs("p1").
			WillReturnRows(productRows().AddRow("p1", "Camiseta", "", 0, nil, "59.90", "[]", now, now))
		mock.ExpectRollback()

		product, err := NewProductRepository(conn).DecrementStock(ctx, "p1")

		assert.ErrorIs(t, err, repository.ErrOutOfStock)
		assert.Nil(t, product)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("produto inexistente", func(t *testing.T) {
		conn, mock := newMockConn(t, config.DriverPostgres)

		mock.ExpectBegin()
		mock.ExpectExec(updateSQL).
			WithArgs(sqlmock.AnyArg(), "missing").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(selectSQL).
			WithArgs("missing").
			WillReturnRows(productRows())
		mock.ExpectCommit()

		product, err := NewProductRepository(conn).DecrementStock(ctx, "missing")

		assert.NoError(t, err)
		assert.Nil(t, product)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("usa placeholders do mysql", func(t *testing.T) {
		conn, mock := newMockConn(t, config.DriverMySQL)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("UPDATE products SET stock = stock - 1, updated_at = ? WHERE id = ? AND stock > 0")).
			WithArgs(sqlmock.AnyArg(), "p1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(regexp.QuoteMeta("FROM products WHERE id = ?")).
			WithArgs("p1").
			WillReturnRows(productRows().AddRow("p1", "Camiseta", "", 2, "https://cdn/x.png", "10", "[]", now, now))
		mock.ExpectCommit()

		product, err := NewProductRepository(conn).DecrementStock(ctx, "p1")

		require.NoError(t, err)
		require.NotNil(t, product.Image)
		assert.Equal(t, "https://cdn/x.png", *product.Image)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_CreateUser_DuplicateEmail(t *testing.T) {
	tests := []struct {
		name   string
		driver string
		err    error
	}{
		{name: "postgres", driver: config.DriverPostgres, err: &pq.Error{Code: "23505"}},
		{name: "mysql", driver: config.DriverMySQL, err: &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, mock := newMockConn(t, tt.driver)

			mock.ExpectExec("INSERT INTO users").WillReturnError(tt.err)

			_, err := NewUserRepository(conn).CreateUser(context.Background(), &domain.User{
				Name:         "Ana",
				Email:        "ana@example.com",
				PasswordHash: "hash",
			})

			assert.ErrorIs(t, err, repository.ErrDuplicateKey)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetUserByEmail(t *testing.T) {
	conn, mock := newMockConn(t, config.DriverPostgres)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("ana@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow("u1", "Ana", "ana@example.com", "hash", "2500.00", now, now))
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns))

	repo := NewUserRepository(conn)

	user, err := repo.GetUserByEmail(context.Background(), "ana@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "u1", user.ID)
	assert.True(t, decimal.NewFromInt(2500).Equal(user.ExpectedMonthlyIncome))

	user, err = repo.GetUserByEmail(context.Background(), "nobody@example.com")
	assert.NoError(t, err)
	assert.Nil(t, user)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateUser_WritesOnlyChangedColumns(t *testing.T) {
	conn, mock := newMockConn(t, config.DriverPostgres)
	repo := NewUserRepository(conn)
	hash := "novo-hash"
	income := decimal.NewFromInt(5000)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET updated_at = $1, password_hash = $2 WHERE id = $3")).
		WithArgs(sqlmock.AnyArg(), hash, "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET updated_at = $1, expected_monthly_income = $2 WHERE id = $3")).
		WithArgs(sqlmock.AnyArg(), income, "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateUser(context.Background(), "u1", &domain.UserUpdate{PasswordHash: &hash}))
	require.NoError(t, repo.UpdateUser(context.Background(), "u1", &domain.UserUpdate{ExpectedMonthlyIncome: &income}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaleRepository_FindSales(t *testing.T) {
	conn, mock := newMockConn(t, config.DriverPostgres)
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	soldAt := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, product_id, user_id, total, sold_at FROM sales WHERE user_id = $1 AND sold_at >= $2 ORDER BY sold_at ASC")).
		WithArgs("u1", from).
		WillReturnRows(sqlmock.NewRows(saleColumns).AddRow("s1", "p1", "u1", "120.50", soldAt))

	sales, err := NewSaleRepository(conn).FindSales(context.Background(), domain.SaleFilter{UserID: "u1", From: &from})

	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, "p1", sales[0].ProductID)
	assert.Equal(t, soldAt, sales[0].Date)
	assert.True(t, decimal.RequireFromString("120.5").Equal(sales[0].Total))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaleRepository_DeleteSale_NotFound(t *testing.T) {
	conn, mock := newMockConn(t, config.DriverPostgres)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM sales WHERE id = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(saleColumns))
	mock.ExpectCommit()

	sale, err := NewSaleRepository(conn).DeleteSale(context.Background(), "missing")

	assert.NoError(t, err)
	assert.Nil(t, sale)
	assert.NoError(t, mock.ExpectationsWereMet())
}
