package handler

import (
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/sales-manager-api/internal/domain"
	"github.com/vfg2006/sales-manager-api/internal/usecases/cataloging"
	"github.com/vfg2006/sales-manager-api/pkg/apiErrors"
	"github.com/vfg2006/sales-manager-api/pkg/log"
)

func productNotFound(w http.ResponseWriter, productID string) {
	apiErrors.WriteError(w, apiErrors.ErrResourceNotFound, fmt.Sprintf("Produto não encontrado com id: %s", productID), nil)
}

func writeCatalogError(w http.ResponseWriter, err error, fallback string) {
	if cataloging.IsValidationError(err) {
		apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, err.Error(), nil)
		return
	}
	apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, fallback, nil)
}

func ListProducts(service cataloging.Cataloger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		logger.Info("INIT - ListProducts")

		products, err := service.ListProducts(r.Context())
		if err != nil {
			logger.Error(err)
			writeCatalogError(w, err, "Erro ao listar produtos")
			return
		}

		writeJSON(w, http.StatusOK, products)
	}
}

func GetProduct(service cataloging.Cataloger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		productID := httprouter.ParamsFromContext(r.Context()).ByName("id")

		product, err := service.GetProduct(r.Context(), productID)
		if err != nil {
			logger.Error(err)
			writeCatalogError(w, err, fmt.Sprintf("Erro ao buscar produto com id: %s", productID))
			return
		}
		if product == nil {
			productNotFound(w, productID)
			return
		}

		writeJSON(w, http.StatusOK, product)
	}
}

func CreateProduct(service cataloging.Cataloger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		logger.Info("INIT - CreateProduct")

		var product domain.Product
		if err := decodeBody(r, &product); err != nil {
			logger.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		created, err := service.CreateProduct(r.Context(), &product)
		if err != nil {
			logger.Error(err)
			writeCatalogError(w, err, "Erro ao criar produto")
			return
		}

		writeJSON(w, http.StatusCreated, created)
	}
}

func UpdateProduct(service cataloging.Cataloger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		logger.Info("INIT - UpdateProduct")

		productID := httprouter.ParamsFromContext(r.Context()).ByName("id")

		var update domain.ProductUpdate
		if err := decodeBody(r, &update); err != nil {
			logger.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		product, err := service.UpdateProduct(r.Context(), productID, &update)
		if err != nil {
			logger.Error(err)
			writeCatalogError(w, err, fmt.Sprintf("Erro ao atualizar produto com id: %s", productID))
			return
		}
		if product == nil {
			productNotFound(w, productID)
			return
		}

		writeJSON(w, http.StatusOK, product)
	}
}

func DeleteProduct(service cataloging.Cataloger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		logger.Info("INIT - DeleteProduct")

		productID := httprouter.ParamsFromContext(r.Context()).ByName("id")

		product, err := service.DeleteProduct(r.Context(), productID)
		if err != nil {
			logger.Error(err)
			writeCatalogError(w, err, fmt.Sprintf("Erro ao remover produto com id: %s", productID))
			return
		}
		if product == nil {
			productNotFound(w, productID)
			return
		}

		writeJSON(w, http.StatusOK, messageResponse{
			Message: fmt.Sprintf("Produto com id: %s removido com sucesso", productID),
		})
	}
}
