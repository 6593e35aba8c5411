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

var userColumns = []string{"id", "name", "email", "password_hash", "expected_monthly_income", "created_at", "updated_at"}

type userRow struct {
	ID                    string          `db:"id"`
	Name                  string          `db:"name"`
	Email                 string          `db:"email"`
	PasswordHash          string          `db:"password_hash"`
	ExpectedMonthlyIncome decimal.Decimal `db:"expected_monthly_income"`
	CreatedAt             time.Time       `db:"created_at"`
	UpdatedAt             time.Time       `db:"updated_at"`
}

func (r *userRow) toDomain() *domain.User {
	return &domain.User{
		ID:                    r.ID,
		Name:                  r.Name,
		Email:                 r.Email,
		PasswordHash:          r.PasswordHash,
		ExpectedMonthlyIncome: r.ExpectedMonthlyIncome,
		CreatedAt:             r.CreatedAt,
		UpdatedAt:             r.UpdatedAt,
	}
}

type userRepository struct {
	conn sqldb.Conn
}

func NewUserRepository(conn sqldb.Conn) repository.UserRepository {
	return &userRepository{
		conn: conn,
	}
}

func (r *userRepository) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	id, err := newID()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	row := userRow{
		ID:                    id,
		Name:                  user.Name,
		Email:                 user.Email,
		PasswordHash:          user.PasswordHash,
		ExpectedMonthlyIncome: user.ExpectedMonthlyIncome,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	query, args, err := r.conn.Builder().
		Insert(usersTable).
		Columns(userColumns...).
		Values(row.ID, row.Name, row.Email, row.PasswordHash, row.ExpectedMonthlyIncome, row.CreatedAt, row.UpdatedAt).
		ToSql()
	if err != nil {
		return nil, err
	}

	if _, err := r.conn.ExecContext(ctx, query, args...); err != nil {
		return nil, errors.Wrap(translateError(err), "erro ao inserir usuário")
	}

	return row.toDomain(), nil
}

func (r *userRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.getUser(ctx, squirrel.Eq{"id": userID})
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getUser(ctx, squirrel.Eq{"email": email})
}

func (r *userRepository) getUser(ctx context.Context, where squirrel.Eq) (*domain.User, error) {
	query, args, err := r.conn.Builder().
		Select(userColumns...).
		From(usersTable).
		Where(where).
		ToSql()
	if err != nil {
		return nil, err
	}

	var row userRow
	if err := sqlx.GetContext(ctx, r.conn, &row, query, args...); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "erro ao buscar usuário")
	}
	return row.toDomain(), nil
}

func (r *userRepository) GetUsersByIDs(ctx context.Context, userIDs []string) ([]*domain.User, error) {
	if len(userIDs) == 0 {
		return []*domain.User{}, nil
	}
	return r.listUsers(ctx, squirrel.Eq{"id": userIDs})
}

func (r *userRepository) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return r.listUsers(ctx, nil)
}

func (r *userRepository) listUsers(ctx context.Context, where squirrel.Sqlizer) ([]*domain.User, error) {
	builder := r.conn.Builder().
		Select(userColumns...).
		From(usersTable).
		OrderBy("created_at ASC")
	if where != nil {
		builder = builder.Where(where)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var rows []userRow
	if err := sqlx.SelectContext(ctx, r.conn, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "erro ao listar usuários")
	}

	users := make([]*domain.User, 0, len(rows))
	for i := range rows {
		users = append(users, rows[i].toDomain())
	}
	return users, nil
}

func (r *userRepository) UpdateUser(ctx context.Context, userID string, update *domain.UserUpdate) error {
	builder := r.conn.Builder().
		Update(usersTable).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": userID})

	if update.PasswordHash != nil {
		builder = builder.Set("password_hash", *update.PasswordHash)
	}
	if update.ExpectedMonthlyIncome != nil {
		builder = builder.Set("expected_monthly_income", *update.ExpectedMonthlyIncome)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	if _, err := r.conn.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(translateError(err), "erro ao atualizar usuário")
	}
	return nil
}

func (r *userRepository) DeleteUser(ctx context.Context, userID string) (bool, error) {
	query, args, err := r.conn.Builder().
		Delete(usersTable).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return false, err
	}

	result, err := r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return false, errors.Wrap(err, "erro ao remover usuário")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
