package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/vfg2006/sales-manager-api/internal/domain"
	"github.com/vfg2006/sales-manager-api/internal/usecases/commissioning"
	"github.com/vfg2006/sales-manager-api/pkg/apiErrors"
	"github.com/vfg2006/sales-manager-api/pkg/log"
)

func writeCommissionError(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, commissioning.ErrMissingRequiredData) {
		apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, err.Error(), nil)
		return
	}
	apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, fallback, nil)
}

func ListCommissions(service commissioning.Commissioner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		commissions, err := service.ListCommissions(r.Context())
		if err != nil {
			logger.Error(err)
			writeCommissionError(w, err, "Erro ao listar comissões")
			return
		}

		writeJSON(w, http.StatusOK, commissions)
	}
}

func GetCommission(service commissioning.Commissioner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		commissionID := httprouter.ParamsFromContext(r.Context()).ByName("id")

		commission, err := service.GetCommission(r.Context(), commissionID)
		if err != nil {
			logger.Error(err)
			writeCommissionError(w, err, "Erro ao buscar comissão")
			return
		}
		if commission == nil {
			apiErrors.WriteError(w, apiErrors.ErrResourceNotFound, "Comissão não encontrada", nil)
			return
		}

		writeJSON(w, http.StatusOK, commission)
	}
}

func CreateCommission(service commissioning.Commissioner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		logger.Info("INIT - CreateCommission")

		var req domain.CommissionRequest
		if err := decodeBody(r, &req); err != nil {
			logger.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		commission, err := service.CreateCommission(r.Context(), &req)
		if err != nil {
			logger.Error(err)
			writeCommissionError(w, err, "Erro ao criar comissão")
			return
		}

		writeJSON(w, http.StatusCreated, commission)
	}
}

func UpdateCommission(service commissioning.Commissioner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		logger.Info("INIT - UpdateCommission")

		commissionID := httprouter.ParamsFromContext(r.Context()).ByName("id")

		var update domain.CommissionUpdate
		if err := decodeBody(r, &update); err != nil {
			logger.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		commission, err := service.UpdateCommission(r.Context(), commissionID, &update)
		if err != nil {
			logger.Error(err)
			writeCommissionError(w, err, "Erro ao atualizar comissão")
			return
		}
		if commission == nil {
			apiErrors.WriteError(w, apiErrors.ErrResourceNotFound, "Comissão não encontrada", nil)
			return
		}

		writeJSON(w, http.StatusOK, commission)
	}
}

func DeleteCommission(service commissioning.Commissioner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		logger.Info("INIT - DeleteCommission")

		commissionID := httprouter.ParamsFromContext(r.Context()).ByName("id")

		commission, err := service.DeleteCommission(r.Context(), commissionID)
		if err != nil {
			logger.Error(err)
			writeCommissionError(w, err, "Erro ao remover comissão")
			return
		}
		if commission == nil {
			apiErrors.WriteError(w, apiErrors.ErrResourceNotFound, "Comissão não encontrada", nil)
			return
		}

		writeJSON(w, http.StatusOK, messageResponse{Message: "Comissão removida"})
	}
}
