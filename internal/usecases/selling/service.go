package selling

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-manager-api/infrastructure/repository"
	"github.com/vfg2006/sales-manager-api/internal/domain"
	"github.com/vfg2006/sales-manager-api/pkg/apiErrors"
	"github.com/vfg2006/sales-manager-api/pkg/utils"
)

type Seller interface {
	CreateSale(ctx context.Context, req *domain.SaleRequest) (*domain.Sale, error)
	ListSales(ctx context.Context) ([]*domain.SaleDetail, error)
	GetSale(ctx context.Context, saleID string) (*domain.SaleDetail, error)
	UpdateSale(ctx context.Context, saleID string, update *domain.SaleUpdate) (*domain.Sale, error)
	DeleteSale(ctx context.Context, saleID string) (*domain.Sale, error)
	GetDailySales(ctx context.Context, userID string) ([]*domain.Sale, error)
	GetMonthlySales(ctx context.Context, userID string) ([]*domain.SaleDetail, error)
	GetSalesByUserID(ctx context.Context, userID string) ([]*domain.SaleDetail, error)
}

type Service struct {
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	now         func() time.Time
}

func NewService(saleRepo repository.SaleRepository, productRepo repository.ProductRepository, userRepo repository.UserRepository) *Service {
	return &Service{
		saleRepo:    saleRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		now:         time.Now,
	}
}

func (s *Service) CreateSale(ctx context.Context, req *domain.SaleRequest) (*domain.Sale, error) {
	if req.ProductID == "" || req.UserID == "" || req.Total == nil {
		return nil, NewSaleError(ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, "")
	}

	sale := &domain.Sale{
		ProductID: req.ProductID,
		UserID:    req.UserID,
		Total:     *req.Total,
		Date:      s.now(),
	}
	if req.Date != nil && !req.Date.IsZero() {
		sale.Date = *req.Date
	}

	created, err := s.saleRepo.CreateSale(ctx, sale)
	if err != nil {
		return nil, translateRepoError(err)
	}

	if err := s.adjustStock(ctx, created); err != nil {
		s.rollbackSale(ctx, created, err)
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"sale_id":    created.ID,
		"product_id": created.ProductID,
		"user_id":    created.UserID,
		"total":      created.Total.String(),
	}).Info("Venda registrada")

	return created, nil
}

func (s *Service) ListSales(ctx context.Context) ([]*domain.SaleDetail, error) {
	sales, err := s.saleRepo.FindSales(ctx, domain.SaleFilter{})
	if err != nil {
		return nil, translateRepoError(err)
	}
	return s.populate(ctx, sales, true)
}

func (s *Service) GetSale(ctx context.Context, saleID string) (*domain.SaleDetail, error) {
	sale, err := s.saleRepo.GetSaleByID(ctx, saleID)
	if err != nil {
		return nil, translateRepoError(err)
	}
	if sale == nil {
		return nil, nil
	}

	details, err := s.populate(ctx, []*domain.Sale{sale}, true)
	if err != nil {
		return nil, err
	}
	return details[0], nil
}

func (s *Service) UpdateSale(ctx context.Context, saleID string, update *domain.SaleUpdate) (*domain.Sale, error) {
	var (
		sale *domain.Sale
		err  error
	)
	if update.ProductID == nil && update.UserID == nil && update.Total == nil && update.Date == nil {
		sale, err = s.saleRepo.GetSaleByID(ctx, saleID)
	} else {
		sale, err = s.saleRepo.UpdateSale(ctx, saleID, update)
	}
	if err != nil {
		return nil, translateRepoError(err)
	}
	return sale, nil
}

func (s *Service) DeleteSale(ctx context.Context, saleID string) (*domain.Sale, error) {
	sale, err := s.saleRepo.DeleteSale(ctx, saleID)
	if err != nil {
		return nil, translateRepoError(err)
	}
	return sale, nil
}

// GetDailySales retorna as vendas do usuário a partir da meia-noite de hoje
func (s *Service) GetDailySales(ctx context.Context, userID string) ([]*domain.Sale, error) {
	from := utils.StartOfDay(s.now())

	sales, err := s.saleRepo.FindSales(ctx, domain.SaleFilter{UserID: userID, From: &from})
	if err != nil {
		return nil, translateRepoError(err)
	}
	return sales, nil
}

// GetMonthlySales retorna as vendas do usuário desde o primeiro dia do mês
func (s *Service) GetMonthlySales(ctx context.Context, userID string) ([]*domain.SaleDetail, error) {
	from := utils.StartOfMonth(s.now())

	sales, err := s.saleRepo.FindSales(ctx, domain.SaleFilter{UserID: userID, From: &from})
	if err != nil {
		return nil, translateRepoError(err)
	}
	return s.populate(ctx, sales, false)
}

func (s *Service) GetSalesByUserID(ctx context.Context, userID string) ([]*domain.SaleDetail, error) {
	sales, err := s.saleRepo.FindSales(ctx, domain.SaleFilter{UserID: userID})
	if err != nil {
		return nil, translateRepoError(err)
	}
	if len(sales) == 0 {
		return nil, NewSaleError(ErrSalesNotFound, apiErrors.ErrResourceNotFound, "usuário "+userID)
	}
	return s.populate(ctx, sales, true)
}

// populate resolve produto e, opcionalmente, usuário de cada venda.
// Referências apagadas ficam nulas.
func (s *Service) populate(ctx context.Context, sales []*domain.Sale, withUser bool) ([]*domain.SaleDetail, error) {
	details := make([]*domain.SaleDetail, 0, len(sales))
	if len(sales) == 0 {
		return details, nil
	}

	productIDs := make([]string, 0, len(sales))
	userIDs := make([]string, 0, len(sales))
	seenProducts := make(map[string]bool)
	seenUsers := make(map[string]bool)
	for _, sale := range sales {
		if !seenProducts[sale.ProductID] {
			seenProducts[sale.ProductID] = true
			productIDs = append(productIDs, sale.ProductID)
		}
		if !seenUsers[sale.UserID] {
			seenUsers[sale.UserID] = true
			userIDs = append(userIDs, sale.UserID)
		}
	}

	products, err := s.productRepo.GetProductsByIDs(ctx, productIDs)
	if err != nil {
		return nil, translateRepoError(err)
	}
	productsByID := make(map[string]*domain.Product, len(products))
	for _, p := range products {
		productsByID[p.ID] = p
	}

	usersByID := make(map[string]*domain.User)
	if withUser {
		users, err := s.userRepo.GetUsersByIDs(ctx, userIDs)
		if err != nil {
			return nil, translateRepoError(err)
		}
		for _, u := range users {
			usersByID[u.ID] = u
		}
	}

	for _, sale := range sales {
		details = append(details, &domain.SaleDetail{
			ID:      sale.ID,
			Product: productsByID[sale.ProductID],
			UserID:  sale.UserID,
			User:    usersByID[sale.UserID],
			Total:   sale.Total,
			Date:    sale.Date,
		})
	}
	return details, nil
}

func translateRepoError(err error) error {
	if errors.Is(err, repository.ErrInvalidID) {
		return NewSaleError(ErrInvalidReference, apiErrors.ErrInvalidFormat, err.Error())
	}
	return NewSaleError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, err.Error())
}
