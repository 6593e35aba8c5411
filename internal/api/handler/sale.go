package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/sales-manager-api/internal/domain"
	"github.com/vfg2006/sales-manager-api/internal/usecases/selling"
	"github.com/vfg2006/sales-manager-api/pkg/apiErrors"
	"github.com/vfg2006/sales-manager-api/pkg/log"
)

// periodSalesResponse é o envelope das consultas diária e mensal
type periodSalesResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func saleNotFound(w http.ResponseWriter) {
	apiErrors.WriteError(w, apiErrors.ErrResourceNotFound, "Venda não encontrada", nil)
}

func CreateSale(service selling.Seller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		logger.Info("INIT - CreateSale")

		var req domain.SaleRequest
		if err := decodeBody(r, &req); err != nil {
			logger.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		if req.ProductID == "" || req.UserID == "" || req.Total == nil {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "product, userId e total são obrigatórios", nil)
			return
		}

		sale, err := service.CreateSale(r.Context(), &req)
		if err != nil {
			if selling.IsStockError(err) {
				logger.WithField("product_id", req.ProductID).WithError(err).Warn("Venda recusada por falha no estoque")
			} else {
				logger.Error(err)
			}
			writeSaleError(w, err, "Erro ao registrar venda")
			return
		}

		writeJSON(w, http.StatusCreated, sale)
	}
}

func ListSales(service selling.Seller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		sales, err := service.ListSales(r.Context())
		if err != nil {
			logger.Error(err)
			writeSaleError(w, err, "Erro ao listar vendas")
			return
		}

		writeJSON(w, http.StatusOK, sales)
	}
}

func GetSale(service selling.Seller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		saleID := httprouter.ParamsFromContext(r.Context()).ByName("id")

		sale, err := service.GetSale(r.Context(), saleID)
		if err != nil {
			logger.Error(err)
			writeSaleError(w, err, "Erro ao buscar venda")
			return
		}
		if sale == nil {
			saleNotFound(w)
			return
		}

		writeJSON(w, http.StatusOK, sale)
	}
}

func UpdateSale(service selling.Seller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		logger.Info("INIT - UpdateSale")

		saleID := httprouter.ParamsFromContext(r.Context()).ByName("id")

		var update domain.SaleUpdate
		if err := decodeBody(r, &update); err != nil {
			logger.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		sale, err := service.UpdateSale(r.Context(), saleID, &update)
		if err != nil {
			logger.Error(err)
			writeSaleError(w, err, "Erro ao atualizar venda")
			return
		}
		if sale == nil {
			saleNotFound(w)
			return
		}

		writeJSON(w, http.StatusOK, sale)
	}
}

func DeleteSale(service selling.Seller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		logger.Info("INIT - DeleteSale")

		saleID := httprouter.ParamsFromContext(r.Context()).ByName("id")

		sale, err := service.DeleteSale(r.Context(), saleID)
		if err != nil {
			logger.Error(err)
			writeSaleError(w, err, "Erro ao remover venda")
			return
		}
		if sale == nil {
			saleNotFound(w)
			return
		}

		writeJSON(w, http.StatusOK, messageResponse{Message: "Venda removida com sucesso"})
	}
}

func GetDailySales(service selling.Seller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		userID := httprouter.ParamsFromContext(r.Context()).ByName("userId")

		sales, err := service.GetDailySales(r.Context(), userID)
		if err != nil {
			logger.Error(err)
			writeJSON(w, http.StatusInternalServerError, periodSalesResponse{
				Message: "Erro ao obter as vendas do dia",
				Error:   err.Error(),
			})
			return
		}

		writeJSON(w, http.StatusOK, periodSalesResponse{
			Success: true,
			Message: "Vendas do dia obtidas com sucesso",
			Data:    sales,
		})
	}
}

func GetMonthlySales(service selling.Seller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		userID := httprouter.ParamsFromContext(r.Context()).ByName("userId")

		sales, err := service.GetMonthlySales(r.Context(), userID)
		if err != nil {
			logger.Error(err)
			writeJSON(w, http.StatusInternalServerError, periodSalesResponse{
				Message: "Erro ao obter as vendas do mês",
				Error:   err.Error(),
			})
			return
		}

		writeJSON(w, http.StatusOK, periodSalesResponse{
			Success: true,
			Message: "Vendas do mês obtidas com sucesso",
			Data:    sales,
		})
	}
}

func GetSalesByUserID(service selling.Seller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		userID := httprouter.ParamsFromContext(r.Context()).ByName("userId")

		sales, err := service.GetSalesByUserID(r.Context(), userID)
		if err != nil {
			logger.Error(err)
			writeSaleError(w, err, "Erro ao obter as vendas do usuário")
			return
		}

		writeJSON(w, http.StatusOK, sales)
	}
}
