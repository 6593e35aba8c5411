package selling

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-manager-api/infrastructure/repository"
	"github.com/vfg2006/sales-manager-api/internal/domain"
	"github.com/vfg2006/sales-manager-api/pkg/apiErrors"
)

// adjustStock baixa uma unidade do produto vendido. A verificação de saldo e
// o decremento acontecem na mesma operação do repositório.
func (s *Service) adjustStock(ctx context.Context, sale *domain.Sale) error {
	product, err := s.productRepo.DecrementStock(ctx, sale.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrOutOfStock) {
			return NewSaleError(ErrNoStockAvailable, apiErrors.ErrNoStockAvailable, "produto "+sale.ProductID)
		}
		return NewSaleError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, err.Error())
	}
	if product == nil {
		return NewSaleError(ErrProductNotFound, apiErrors.ErrSaleProductNotFound, "produto "+sale.ProductID)
	}

	logrus.WithFields(logrus.Fields{
		"sale_id":    sale.ID,
		"product_id": product.ID,
		"stock":      product.Stock,
	}).Debug("Estoque atualizado")

	return nil
}

// rollbackSale remove a venda cuja baixa de estoque falhou
func (s *Service) rollbackSale(ctx context.Context, sale *domain.Sale, cause error) {
	if _, err := s.saleRepo.DeleteSale(ctx, sale.ID); err != nil {
		logrus.WithFields(logrus.Fields{
			"sale_id":    sale.ID,
			"product_id": sale.ProductID,
			"cause":      cause.Error(),
		}).WithError(err).Error("Falha ao desfazer venda sem baixa de estoque")
		return
	}

	logrus.WithFields(logrus.Fields{
		"sale_id":    sale.ID,
		"product_id": sale.ProductID,
	}).Warn("Venda desfeita: " + cause.Error())
}
