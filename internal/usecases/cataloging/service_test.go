package cataloging

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-manager-api/infrastructure/repository/mocks"
	"github.com/vfg2006/sales-manager-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func TestService_CreateProduct(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		product *domain.Product
		setup   func(repo *mocks.MockProductRepository)
		wantErr error
	}{
		{
			name: "cria produto com comissões embutidas",
			product: &domain.Product{
				Title: " Camiseta ",
				Stock: 5,
				Price: decimal.RequireFromString("59.90"),
				Commissions: []domain.Commission{
					{ID: "c1", Number: 1, Percentage: decimal.NewFromInt(5)},
				},
			},
			setup: func(repo *mocks.MockProductRepository) {
				repo.EXPECT().
					CreateProduct(ctx, gomock.Any()).
					DoAndReturn(func(_ context.Context, p *domain.Product) (*domain.Product, error) {
						assert.Equal(t, "Camiseta", p.Title)
						p.ID = "p1"
						return p, nil
					})
			},
		},
		{
			name:    "título ausente",
			product: &domain.Product{Title: "  "},
			wantErr: ErrMissingTitle,
		},
		{
			name:    "estoque negativo",
			product: &domain.Product{Title: "Camiseta", Stock: -1},
			wantErr: ErrNegativeStock,
		},
		{
			name:    "falha no banco",
			product: &domain.Product{Title: "Camiseta"},
			setup: func(repo *mocks.MockProductRepository) {
				repo.EXPECT().CreateProduct(ctx, gomock.Any()).Return(nil, errors.New("timeout"))
			},
			wantErr: ErrDatabaseOperation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mocks.NewMockProductRepository(ctrl)
			if tt.setup != nil {
				tt.setup(repo)
			}

			product, err := NewService(repo).CreateProduct(ctx, tt.product)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "p1", product.ID)
			assert.Len(t, product.Commissions, 1)
		})
	}
}

func TestService_GetProduct_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockProductRepository(ctrl)

	repo.EXPECT().GetProductByID(gomock.Any(), "missing").Return(nil, nil)

	product, err := NewService(repo).GetProduct(context.Background(), "missing")

	require.NoError(t, err)
	assert.Nil(t, product)
}

func TestService_UpdateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("aplica apenas os campos enviados", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockProductRepository(ctrl)
		stock := 10

		repo.EXPECT().
			UpdateProduct(ctx, "p1", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, u *domain.ProductUpdate) (*domain.Product, error) {
				assert.Nil(t, u.Title)
				assert.Equal(t, 10, *u.Stock)
				return &domain.Product{ID: "p1", Title: "Camiseta", Stock: 10}, nil
			})

		product, err := NewService(repo).UpdateProduct(ctx, "p1", &domain.ProductUpdate{Stock: &stock})

		require.NoError(t, err)
		assert.Equal(t, 10, product.Stock)
	})

	t.Run("corpo vazio devolve o produto atual", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockProductRepository(ctrl)

		repo.EXPECT().GetProductByID(ctx, "p1").Return(&domain.Product{ID: "p1"}, nil)

		product, err := NewService(repo).UpdateProduct(ctx, "p1", &domain.ProductUpdate{})

		require.NoError(t, err)
		assert.Equal(t, "p1", product.ID)
	})

	t.Run("produto inexistente", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockProductRepository(ctrl)
		title := "Nova"

		repo.EXPECT().UpdateProduct(ctx, "missing", gomock.Any()).Return(nil, nil)

		product, err := NewService(repo).UpdateProduct(ctx, "missing", &domain.ProductUpdate{Title: &title})

		require.NoError(t, err)
		assert.Nil(t, product)
	})

	t.Run("título em branco", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockProductRepository(ctrl)
		title := " "

		_, err := NewService(repo).UpdateProduct(ctx, "p1", &domain.ProductUpdate{Title: &title})

		assert.True(t, IsValidationError(err))
	})
}

func TestService_DeleteProduct(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockProductRepository(ctrl)

	repo.EXPECT().DeleteProduct(ctx, "p1").Return(&domain.Product{ID: "p1"}, nil)
	repo.EXPECT().DeleteProduct(ctx, "p1").Return(nil, nil)

	service := NewService(repo)

	product, err := service.DeleteProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", product.ID)

	product, err = service.DeleteProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, product)
}
