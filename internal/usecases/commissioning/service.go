package commissioning

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-manager-api/infrastructure/repository"
	"github.com/vfg2006/sales-manager-api/internal/domain"
)

var (
	ErrMissingRequiredData = errors.New("number e percentage são obrigatórios")
	ErrDatabaseOperation   = errors.New("erro ao realizar operação no banco de dados")
)

// Commissioner gerencia as faixas de comissão. Registro inexistente é
// retornado como (nil, nil).
type Commissioner interface {
	CreateCommission(ctx context.Context, req *domain.CommissionRequest) (*domain.Commission, error)
	ListCommissions(ctx context.Context) ([]*domain.Commission, error)
	GetCommission(ctx context.Context, commissionID string) (*domain.Commission, error)
	UpdateCommission(ctx context.Context, commissionID string, update *domain.CommissionUpdate) (*domain.Commission, error)
	DeleteCommission(ctx context.Context, commissionID string) (*domain.Commission, error)
}

type Service struct {
	commissionRepo repository.CommissionRepository
}

func NewService(commissionRepo repository.CommissionRepository) *Service {
	return &Service{commissionRepo: commissionRepo}
}

func (s *Service) CreateCommission(ctx context.Context, req *domain.CommissionRequest) (*domain.Commission, error) {
	if req.Number == nil || req.Percentage == nil {
		return nil, ErrMissingRequiredData
	}

	created, err := s.commissionRepo.CreateCommission(ctx, &domain.Commission{
		Number:     *req.Number,
		Percentage: *req.Percentage,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseOperation, err)
	}

	logrus.WithFields(logrus.Fields{
		"commission_id": created.ID,
		"number":        created.Number,
	}).Info("Comissão criada")

	return created, nil
}

func (s *Service) ListCommissions(ctx context.Context) ([]*domain.Commission, error) {
	commissions, err := s.commissionRepo.ListCommissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseOperation, err)
	}
	return commissions, nil
}

func (s *Service) GetCommission(ctx context.Context, commissionID string) (*domain.Commission, error) {
	commission, err := s.commissionRepo.GetCommissionByID(ctx, commissionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseOperation, err)
	}
	return commission, nil
}

func (s *Service) UpdateCommission(ctx context.Context, commissionID string, update *domain.CommissionUpdate) (*domain.Commission, error) {
	var (
		commission *domain.Commission
		err        error
	)
	if update.Number == nil && update.Percentage == nil {
		commission, err = s.commissionRepo.GetCommissionByID(ctx, commissionID)
	} else {
		commission, err = s.commissionRepo.UpdateCommission(ctx, commissionID, update)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseOperation, err)
	}
	return commission, nil
}

func (s *Service) DeleteCommission(ctx context.Context, commissionID string) (*domain.Commission, error) {
	commission, err := s.commissionRepo.DeleteCommission(ctx, commissionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseOperation, err)
	}
	if commission != nil {
		logrus.WithField("commission_id", commissionID).Info("Comissão removida")
	}
	return commission, nil
}
