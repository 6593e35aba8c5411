package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vfg2006/sales-manager-api/infrastructure/database/sqldb"
	"github.com/vfg2006/sales-manager-api/infrastructure/repository"
	"github.com/vfg2006/sales-manager-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var productColumns = []string{"id", "title", "description", "stock", "image", "price", "commissions", "created_at", "updated_at"}

type productRow struct {
	ID          string          `db:"id"`
	Title       string          `db:"title"`
	Description string          `db:"description"`
	Stock       int             `db:"stock"`
	Image       sql.NullString  `db:"image"`
	Price       decimal.Decimal `db:"price"`
	Commissions string          `db:"commissions"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

func (r *productRow) toDomain() (*domain.Product, error) {
	commissions := []domain.Commission{}
	if r.Commissions != "" {
		if err := json.UnmarshalFromString(r.Commissions, &commissions); err != nil {
			return nil, errors.Wrapf(err, "comissões inválidas no produto %s", r.ID)
		}
	}

	return &domain.Product{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Stock:       r.Stock,
		Image:       stringPtr(r.Image),
		Price:       r.Price,
		Commissions: commissions,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}, nil
}

// encodeCommissions serializa os snapshots; itens sem ID recebem um novo
func encodeCommissions(commissions []domain.Commission) (string, error) {
	snapshots := make([]domain.Commission, 0, len(commissions))
	for _, c := range commissions {
		if c.ID == "" {
			id, err := newID()
			if err != nil {
				return "", err
			}
			c.ID = id
		}
		snapshots = append(snapshots, c)
	}
	return json.MarshalToString(snapshots)
}

type productRepository struct {
	conn sqldb.Conn
}

func NewProductRepository(conn sqldb.Conn) repository.ProductRepository {
	return &productRepository{
		conn: conn,
	}
}

func (r *productRepository) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	id, err := newID()
	if err != nil {
		return nil, err
	}

	commissions, err := encodeCommissions(product.Commissions)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	row := productRow{
		ID:          id,
		Title:       product.Title,
		Description: product.Description,
		Stock:       product.Stock,
		Image:       nullString(product.Image),
		Price:       product.Price,
		Commissions: commissions,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	query, args, err := r.conn.Builder().
		Insert(productsTable).
		Columns(productColumns...).
		Values(row.ID, row.Title, row.Description, row.Stock, row.Image, row.Price, row.Commissions, row.CreatedAt, row.UpdatedAt).
		ToSql()
	if err != nil {
		return nil, err
	}

	if _, err := r.conn.ExecContext(ctx, query, args...); err != nil {
		return nil, errors.Wrap(err, "erro ao inserir produto")
	}

	return row.toDomain()
}

func (r *productRepository) GetProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	return r.getProduct(ctx, r.conn, productID)
}

func (r *productRepository) getProduct(ctx context.Context, q sqldb.Queryer, productID string) (*domain.Product, error) {
	query, args, err := r.conn.Builder().
		Select(productColumns...).
		From(productsTable).
		Where(squirrel.Eq{"id": productID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var row productRow
	if err := sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "erro ao buscar produto")
	}
	return row.toDomain()
}

func (r *productRepository) GetProductsByIDs(ctx context.Context, productIDs []string) ([]*domain.Product, error) {
	if len(productIDs) == 0 {
		return []*domain.Product{}, nil
	}
	return r.listProducts(ctx, squirrel.Eq{"id": productIDs})
}

func (r *productRepository) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return r.listProducts(ctx, nil)
}

func (r *productRepository) listProducts(ctx context.Context, where squirrel.Sqlizer) ([]*domain.Product, error) {
	builder := r.conn.Builder().
		Select(productColumns...).
		From(productsTable).
		OrderBy("created_at ASC")
	if where != nil {
		builder = builder.Where(where)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var rows []productRow
	if err := sqlx.SelectContext(ctx, r.conn, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "erro ao listar produtos")
	}

	products := make([]*domain.Product, 0, len(rows))
	for i := range rows {
		product, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, productID string, update *domain.ProductUpdate) (*domain.Product, error) {
	builder := r.conn.Builder().
		Update(productsTable).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": productID})

	if update.Title != nil {
		builder = builder.Set("title", *update.Title)
	}
	if update.Description != nil {
		builder = builder.Set("description", *update.Description)
	}
	if update.Stock != nil {
		builder = builder.Set("stock", *update.Stock)
	}
	if update.Image != nil {
		builder = builder.Set("image", *update.Image)
	}
	if update.Price != nil {
		builder = builder.Set("price", *update.Price)
	}
	if update.Commissions != nil {
		commissions, err := encodeCommissions(*update.Commissions)
		if err != nil {
			return nil, err
		}
		builder = builder.Set("commissions", commissions)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var product *domain.Product
	err = r.conn.RunInTransaction(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return errors.Wrap(err, "erro ao atualizar produto")
		}

		product, err = r.getProduct(ctx, tx, productID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *productRepository) DeleteProduct(ctx context.Context, productID string) (*domain.Product, error) {
	query, args, err := r.conn.Builder().
		Delete(productsTable).
		Where(squirrel.Eq{"id": productID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var product *domain.Product
	err = r.conn.RunInTransaction(ctx, func(tx *sqlx.Tx) error {
		product, err = r.getProduct(ctx, tx, productID)
		if err != nil || product == nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return errors.Wrap(err, "erro ao remover produto")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *productRepository) DecrementStock(ctx context.Context, productID string) (*domain.Product, error) {
	query, args, err := r.conn.Builder().
		Update(productsTable).
		Set("stock", squirrel.Expr("stock - 1")).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": productID}).
		Where("stock > 0").
		ToSql()
	if err != nil {
		return nil, err
	}

	var product *domain.Product
	err = r.conn.RunInTransaction(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return errors.Wrap(err, "erro ao baixar estoque")
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}

		product, err = r.getProduct(ctx, tx, productID)
		if err != nil {
			return err
		}

		// nenhuma linha alterada com o produto existente significa estoque zerado
		if affected == 0 && product != nil {
			product = nil
			return repository.ErrOutOfStock
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}
