package cataloging

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-manager-api/infrastructure/repository"
	"github.com/vfg2006/sales-manager-api/internal/domain"
)

var (
	ErrMissingTitle      = errors.New("o título do produto é obrigatório")
	ErrNegativeStock     = errors.New("o estoque não pode ser negativo")
	ErrDatabaseOperation = errors.New("erro ao realizar operação no banco de dados")
)

// IsValidationError indica erros causados pelos dados enviados
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMissingTitle) || errors.Is(err, ErrNegativeStock)
}

// Cataloger gerencia os produtos. Produto inexistente é retornado como (nil, nil).
type Cataloger interface {
	CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
	UpdateProduct(ctx context.Context, productID string, update *domain.ProductUpdate) (*domain.Product, error)
	DeleteProduct(ctx context.Context, productID string) (*domain.Product, error)
}

type Service struct {
	productRepo repository.ProductRepository
}

func NewService(productRepo repository.ProductRepository) *Service {
	return &Service{
		productRepo: productRepo,
	}
}

func (s *Service) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	product.Title = strings.TrimSpace(product.Title)
	if product.Title == "" {
		return nil, ErrMissingTitle
	}
	if product.Stock < 0 {
		return nil, ErrNegativeStock
	}
	if product.Commissions == nil {
		product.Commissions = []domain.Commission{}
	}

	created, err := s.productRepo.CreateProduct(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseOperation, err)
	}

	logrus.WithFields(logrus.Fields{
		"product_id": created.ID,
		"stock":      created.Stock,
	}).Info("Produto criado")

	return created, nil
}

func (s *Service) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.productRepo.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseOperation, err)
	}
	return products, nil
}

func (s *Service) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	product, err := s.productRepo.GetProductByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseOperation, err)
	}
	return product, nil
}

func (s *Service) UpdateProduct(ctx context.Context, productID string, update *domain.ProductUpdate) (*domain.Product, error) {
	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		if title == "" {
			return nil, ErrMissingTitle
		}
		update.Title = &title
	}
	if update.Stock != nil && *update.Stock < 0 {
		return nil, ErrNegativeStock
	}

	var (
		product *domain.Product
		err     error
	)
	if update.IsEmpty() {
		product, err = s.productRepo.GetProductByID(ctx, productID)
	} else {
		product, err = s.productRepo.UpdateProduct(ctx, productID, update)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseOperation, err)
	}
	return product, nil
}

func (s *Service) DeleteProduct(ctx context.Context, productID string) (*domain.Product, error) {
	product, err := s.productRepo.DeleteProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseOperation, err)
	}
	if product != nil {
		logrus.WithField("product_id", productID).Info("Produto removido")
	}
	return product, nil
}
