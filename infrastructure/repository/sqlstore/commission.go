package sqlstore

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vfg2006/sales-manager-api/infrastructure/database/sqldb"
	"github.com/vfg2006/sales-manager-api/infrastructure/repository"
	"github.com/vfg2006/sales-manager-api/internal/domain"
)

var commissionColumns = []string{"id", "number", "percentage"}

type commissionRow struct {
	ID         string          `db:"id"`
	Number     int             `db:"number"`
	Percentage decimal.Decimal `db:"percentage"`
}

func (r *commissionRow) toDomain() *domain.Commission {
	return &domain.Commission{
		ID:         r.ID,
		Number:     r.Number,
		Percentage: r.Percentage,
	}
}

type commissionRepository struct {
	conn sqldb.Conn
}

func NewCommissionRepository(conn sqldb.Conn) repository.CommissionRepository {
	return &commissionRepository{
		conn: conn,
	}
}

func (r *commissionRepository) CreateCommission(ctx context.Context, commission *domain.Commission) (*domain.Commission, error) {
	id, err := newID()
	if err != nil {
		return nil, err
	}

	row := commissionRow{
		ID:         id,
		Number:     commission.Number,
		Percentage: commission.Percentage,
	}

	query, args, err := r.conn.Builder().
		Insert(commissionsTable).
		Columns(commissionColumns...).
		Values(row.ID, row.Number, row.Percentage).
		ToSql()
	if err != nil {
		return nil, err
	}

	if _, err := r.conn.ExecContext(ctx, query, args...); err != nil {
		return nil, errors.Wrap(err, "erro ao inserir comissão")
	}

	return row.toDomain(), nil
}

func (r *commissionRepository) GetCommissionByID(ctx context.Context, commissionID string) (*domain.Commission, error) {
	return r.getCommission(ctx, r.conn, commissionID)
}

func (r *commissionRepository) getCommission(ctx context.Context, q sqldb.Queryer, commissionID string) (*domain.Commission, error) {
	query, args, err := r.conn.Builder().
		Select(commissionColumns...).
		From(commissionsTable).
		Where(squirrel.Eq{"id": commissionID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var row commissionRow
	if err := sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "erro ao buscar comissão")
	}
	return row.toDomain(), nil
}

func (r *commissionRepository) ListCommissions(ctx context.Context) ([]*domain.Commission, error) {
	query, args, err := r.conn.Builder().
		Select(commissionColumns...).
		From(commissionsTable).
		OrderBy("number ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []commissionRow
	if err := sqlx.SelectContext(ctx, r.conn, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "erro ao listar comissões")
	}

	commissions := make([]*domain.Commission, 0, len(rows))
	for i := range rows {
		commissions = append(commissions, rows[i].toDomain())
	}
	return commissions, nil
}

func (r *commissionRepository) UpdateCommission(ctx context.Context, commissionID string, update *domain.CommissionUpdate) (*domain.Commission, error) {
	if update.Number == nil && update.Percentage == nil {
		return r.GetCommissionByID(ctx, commissionID)
	}

	builder := r.conn.Builder().
		Update(commissionsTable).
		Where(squirrel.Eq{"id": commissionID})
	if update.Number != nil {
		builder = builder.Set("number", *update.Number)
	}
	if update.Percentage != nil {
		builder = builder.Set("percentage", *update.Percentage)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var commission *domain.Commission
	err = r.conn.RunInTransaction(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return errors.Wrap(err, "erro ao atualizar comissão")
		}

		commission, err = r.getCommission(ctx, tx, commissionID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return commission, nil
}

func (r *commissionRepository) DeleteCommission(ctx context.Context, commissionID string) (*domain.Commission, error) {
	query, args, err := r.conn.Builder().
		Delete(commissionsTable).
		Where(squirrel.Eq{"id": commissionID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var commission *domain.Commission
	err = r.conn.RunInTransaction(ctx, func(tx *sqlx.Tx) error {
		commission, err = r.getCommission(ctx, tx, commissionID)
		if err != nil || commission == nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return errors.Wrap(err, "erro ao remover comissão")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return commission, nil
}
