package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-manager-api/infrastructure/repository/mocks"
	"github.com/vfg2006/sales-manager-api/internal/config"
	"github.com/vfg2006/sales-manager-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func newTestService(t *testing.T) (*IncomeProgressService, *mocks.MockUserRepository, *mocks.MockSaleRepository) {
	ctrl := gomock.NewController(t)
	userRepo := mocks.NewMockUserRepository(ctrl)
	saleRepo := mocks.NewMockSaleRepository(ctrl)

	cfg := &config.Config{}
	cfg.IncomeProgress.CronSchedule = "0 7 * * *"
	cfg.IncomeProgress.Enabled = true

	service := NewIncomeProgressService(userRepo, saleRepo, cfg)
	service.now = func() time.Time { return time.Date(2024, time.May, 20, 7, 0, 0, 0, time.Local) }
	return service, userRepo, saleRepo
}

func TestIncomeProgressService_UpdateIncomeProgress(t *testing.T) {
	ctx := context.Background()
	service, userRepo, saleRepo := newTestService(t)
	startOfMonth := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.Local)

	userRepo.EXPECT().ListUsers(ctx).Return([]*domain.User{
		{ID: "u1", Name: "Ana", ExpectedMonthlyIncome: decimal.NewFromInt(1000)},
		{ID: "u2", Name: "Bruno", ExpectedMonthlyIncome: decimal.NewFromInt(400)},
		{ID: "u3", Name: "Carla"},
	}, nil)
	saleRepo.EXPECT().
		FindSales(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, filter domain.SaleFilter) ([]*domain.Sale, error) {
			assert.Empty(t, filter.UserID)
			require.NotNil(t, filter.From)
			assert.True(t, startOfMonth.Equal(*filter.From))
			return []*domain.Sale{
				{UserID: "u1", Total: decimal.RequireFromString("250.50")},
				{UserID: "u1", Total: decimal.RequireFromString("249.50")},
				{UserID: "u2", Total: decimal.NewFromInt(300)},
				{UserID: "u3", Total: decimal.NewFromInt(80)},
				{UserID: "removido", Total: decimal.NewFromInt(999)},
			}, nil
		})

	report, err := service.UpdateIncomeProgress(ctx)

	require.NoError(t, err)
	require.Len(t, report, 3)

	// ordenado pelo percentual atingido
	assert.Equal(t, "u2", report[0].UserID)
	assert.Equal(t, "75", report[0].Percentage.String())
	assert.Equal(t, "u1", report[1].UserID)
	assert.Equal(t, "500", report[1].Achieved.String())
	assert.Equal(t, "50", report[1].Percentage.String())
	assert.Equal(t, 2, report[1].SalesCount)
	assert.Equal(t, "u3", report[2].UserID)
	assert.True(t, report[2].Percentage.IsZero())
	assert.Equal(t, "2024-05", report[2].Month)

	status := service.Status()
	assert.False(t, status.Running)
	assert.Empty(t, status.LastError)
	assert.Len(t, service.Report(), 3)
}

func TestIncomeProgressService_UpdateIncomeProgress_Error(t *testing.T) {
	ctx := context.Background()
	service, userRepo, _ := newTestService(t)

	userRepo.EXPECT().ListUsers(ctx).Return(nil, errors.New("conexão recusada"))

	_, err := service.UpdateIncomeProgress(ctx)

	require.Error(t, err)
	status := service.Status()
	assert.Contains(t, status.LastError, "conexão recusada")
	assert.Nil(t, service.Report())
}

func TestIncomeProgressService_NoUsers(t *testing.T) {
	ctx := context.Background()
	service, userRepo, _ := newTestService(t)

	userRepo.EXPECT().ListUsers(ctx).Return([]*domain.User{}, nil)

	report, err := service.UpdateIncomeProgress(ctx)

	require.NoError(t, err)
	assert.Empty(t, report)
}

func TestIncomeProgressService_StartDisabled(t *testing.T) {
	service, _, _ := newTestService(t)
	service.config.Enabled = false

	assert.NoError(t, service.Start(context.Background()))
	assert.False(t, service.scheduler.IsRunning())
}
