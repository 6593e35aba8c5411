package sqlstore

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vfg2006/sales-manager-api/infrastructure/database/sqldb"
	"github.com/vfg2006/sales-manager-api/infrastructure/repository"
	"github.com/vfg2006/sales-manager-api/internal/domain"
)

var saleColumns = []string{"id", "product_id", "user_id", "total", "sold_at"}

type saleRow struct {
	ID        string          `db:"id"`
	ProductID string          `db:"product_id"`
	UserID    string          `db:"user_id"`
	Total     decimal.Decimal `db:"total"`
	SoldAt    time.Time       `db:"sold_at"`
}

func (r *saleRow) toDomain() *domain.Sale {
	return &domain.Sale{
		ID:        r.ID,
		ProductID: r.ProductID,
		UserID:    r.UserID,
		Total:     r.Total,
		Date:      r.SoldAt,
	}
}

type saleRepository struct {
	conn sqldb.Conn
}

func NewSaleRepository(conn sqldb.Conn) repository.SaleRepository {
	return &saleRepository{
		conn: conn,
	}
}

func (r *saleRepository) CreateSale(ctx context.Context, sale *domain.Sale) (*domain.Sale, error) {
	id, err := newID()
	if err != nil {
		return nil, err
	}

	row := saleRow{
		ID:        id,
		ProductID: sale.ProductID,
		UserID:    sale.UserID,
		Total:     sale.Total,
		SoldAt:    sale.Date.UTC(),
	}

	query, args, err := r.conn.Builder().
		Insert(salesTable).
		Columns(saleColumns...).
		Values(row.ID, row.ProductID, row.UserID, row.Total, row.SoldAt).
		ToSql()
	if err != nil {
		return nil, err
	}

	if _, err := r.conn.ExecContext(ctx, query, args...); err != nil {
		return nil, errors.Wrap(err, "erro ao inserir venda")
	}

	return row.toDomain(), nil
}

func (r *saleRepository) GetSaleByID(ctx context.Context, saleID string) (*domain.Sale, error) {
	return r.getSale(ctx, r.conn, saleID)
}

func (r *saleRepository) getSale(ctx context.Context, q sqldb.Queryer, saleID string) (*domain.Sale, error) {
	query, args, err := r.conn.Builder().
		Select(saleColumns...).
		From(salesTable).
		Where(squirrel.Eq{"id": saleID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var row saleRow
	if err := sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "erro ao buscar venda")
	}
	return row.toDomain(), nil
}

func (r *saleRepository) FindSales(ctx context.Context, filter domain.SaleFilter) ([]*domain.Sale, error) {
	builder := r.conn.Builder().
		Select(saleColumns...).
		From(salesTable).
		OrderBy("sold_at ASC")
	if filter.UserID != "" {
		builder = builder.Where(squirrel.Eq{"user_id": filter.UserID})
	}
	if filter.From != nil {
		builder = builder.Where(squirrel.GtOrEq{"sold_at": filter.From.UTC()})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var rows []saleRow
	if err := sqlx.SelectContext(ctx, r.conn, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "erro ao listar vendas")
	}

	sales := make([]*domain.Sale, 0, len(rows))
	for i := range rows {
		sales = append(sales, rows[i].toDomain())
	}
	return sales, nil
}

func (r *saleRepository) UpdateSale(ctx context.Context, saleID string, update *domain.SaleUpdate) (*domain.Sale, error) {
	builder := r.conn.Builder().
		Update(salesTable).
		Where(squirrel.Eq{"id": saleID})

	changed := false
	if update.ProductID != nil {
		builder = builder.Set("product_id", *update.ProductID)
		changed = true
	}
	if update.UserID != nil {
		builder = builder.Set("user_id", *update.UserID)
		changed = true
	}
	if update.Total != nil {
		builder = builder.Set("total", *update.Total)
		changed = true
	}
	if update.Date != nil {
		builder = builder.Set("sold_at", update.Date.UTC())
		changed = true
	}
	if !changed {
		return r.GetSaleByID(ctx, saleID)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var sale *domain.Sale
	err = r.conn.RunInTransaction(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return errors.Wrap(err, "erro ao atualizar venda")
		}

		sale, err = r.getSale(ctx, tx, saleID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

func (r *saleRepository) DeleteSale(ctx context.Context, saleID string) (*domain.Sale, error) {
	query, args, err := r.conn.Builder().
		Delete(salesTable).
		Where(squirrel.Eq{"id": saleID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var sale *domain.Sale
	err = r.conn.RunInTransaction(ctx, func(tx *sqlx.Tx) error {
		sale, err = r.getSale(ctx, tx, saleID)
		if err != nil || sale == nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return errors.Wrap(err, "erro ao remover venda")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}
