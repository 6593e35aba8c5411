package handler

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-manager-api/internal/usecases/authenticating"
	"github.com/vfg2006/sales-manager-api/internal/usecases/selling"
	"github.com/vfg2006/sales-manager-api/pkg/apiErrors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logrus.WithError(err).Error("Erro ao enviar resposta")
	}
}

// decodeBody lê o corpo JSON da requisição. Corpo vazio é erro.
func decodeBody(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("corpo da requisição vazio")
	}
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.Wrap(err, "erro ao decodificar requisição")
	}
	return nil
}

// writeAuthError traduz os erros do authenticating. Resultados recuperáveis
// seguem para o cliente em details.error.
func writeAuthError(w http.ResponseWriter, err error, fallback string) {
	var authErr *authenticating.AuthError
	if !errors.As(err, &authErr) {
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, fallback, nil)
		return
	}

	message := authErr.Details
	if message == "" || apiErrors.StatusFor(authErr.Code) >= http.StatusInternalServerError {
		message = fallback
	}

	var details any
	if authErr.Result > 0 {
		details = map[string]int{"error": authErr.Result}
	}

	apiErrors.WriteError(w, authErr.Code, message, details)
}

func writeSaleError(w http.ResponseWriter, err error, fallback string) {
	var saleErr *selling.SaleError
	if !errors.As(err, &saleErr) {
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, fallback, nil)
		return
	}

	message := saleErr.Err.Error()
	if saleErr.Code == apiErrors.ErrDatabaseOperation {
		message = fallback
	}

	apiErrors.WriteError(w, saleErr.Code, message, nil)
}
