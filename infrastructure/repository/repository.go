package repository

import (
	"context"

	"github.com/pkg/errors"
	"github.com/vfg2006/sales-manager-api/internal/domain"
)

//go:generate mockgen -source=repository.go -destination=mocks/repository.go -package=mocks

// Convenção dos repositórios: registro inexistente é retornado como (nil, nil)
// e IDs em formato inválido são tratados como inexistentes.
var (
	ErrDuplicateKey = errors.New("registro duplicado")
	ErrOutOfStock   = errors.New("produto sem estoque")
	ErrInvalidID    = errors.New("identificador inválido")
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUsersByIDs(ctx context.Context, userIDs []string) ([]*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	UpdateUser(ctx context.Context, userID string, update *domain.UserUpdate) error
	DeleteUser(ctx context.Context, userID string) (bool, error)
}

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetProductByID(ctx context.Context, productID string) (*domain.Product, error)
	GetProductsByIDs(ctx context.Context, productIDs []string) ([]*domain.Product, error)
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	UpdateProduct(ctx context.Context, productID string, update *domain.ProductUpdate) (*domain.Product, error)
	DeleteProduct(ctx context.Context, productID string) (*domain.Product, error)
	// DecrementStock baixa uma unidade de forma atômica apenas se houver estoque.
	// Retorna ErrOutOfStock quando o produto existe com estoque zerado.
	DecrementStock(ctx context.Context, productID string) (*domain.Product, error)
}

type CommissionRepository interface {
	CreateCommission(ctx context.Context, commission *domain.Commission) (*domain.Commission, error)
	GetCommissionByID(ctx context.Context, commissionID string) (*domain.Commission, error)
	ListCommissions(ctx context.Context) ([]*domain.Commission, error)
	UpdateCommission(ctx context.Context, commissionID string, update *domain.CommissionUpdate) (*domain.Commission, error)
	DeleteCommission(ctx context.Context, commissionID string) (*domain.Commission, error)
}

type SaleRepository interface {
	CreateSale(ctx context.Context, sale *domain.Sale) (*domain.Sale, error)
	GetSaleByID(ctx context.Context, saleID string) (*domain.Sale, error)
	FindSales(ctx context.Context, filter domain.SaleFilter) ([]*domain.Sale, error)
	UpdateSale(ctx context.Context, saleID string, update *domain.SaleUpdate) (*domain.Sale, error)
	DeleteSale(ctx context.Context, saleID string) (*domain.Sale, error)
}

// Repositories agrupa os repositórios de um mesmo backend
type Repositories struct {
	Users       UserRepository
	Products    ProductRepository
	Commissions CommissionRepository
	Sales       SaleRepository
}
