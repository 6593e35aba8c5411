package apiErrors

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Códigos de erro devolvidos ao cliente
const (
	// Erros de autenticação
	ErrInvalidCredentials     = "AUTH_001" // Credenciais inválidas
	ErrUserNotFound           = "AUTH_003" // Usuário não encontrado
	ErrInvalidToken           = "AUTH_006" // Token inválido
	ErrExpiredToken           = "AUTH_007" // Token expirado
	ErrUserAlreadyExists      = "AUTH_009" // Usuário já existe
	ErrInvalidCurrentPassword = "AUTH_010" // Senha atual incorreta
	ErrUserNotRegistered      = "AUTH_011" // Usuário inexistente em operação de conta

	// Erros de validação
	ErrInvalidRequest      = "VAL_001" // Requisição inválida
	ErrMissingRequiredData = "VAL_002" // Dados obrigatórios ausentes
	ErrInvalidFormat       = "VAL_003" // Formato de dados inválido

	// Erros de recurso
	ErrResourceNotFound = "RES_001" // Recurso não encontrado
	ErrRouteNotFound    = "RES_002" // Rota inexistente
	ErrMethodNotAllowed = "RES_003" // Método não suportado pela rota

	// Erros de venda
	ErrNoStockAvailable    = "SALE_001" // Produto sem estoque
	ErrSaleProductNotFound = "SALE_002" // Produto da venda não encontrado

	// Erros do servidor
	ErrInternalServer     = "SRV_001" // Erro interno do servidor
	ErrDatabaseOperation  = "SRV_002" // Erro de operação de banco de dados
	ErrServiceUnavailable = "SRV_004" // Dependência indisponível
)

// Mapeamento de códigos de erro para status HTTP
var httpStatusMap = map[string]int{
	ErrInvalidCredentials:     http.StatusUnauthorized,
	ErrUserNotFound:           http.StatusNotFound,
	ErrInvalidToken:           http.StatusUnauthorized,
	ErrExpiredToken:           http.StatusUnauthorized,
	ErrUserAlreadyExists:      http.StatusBadRequest,
	ErrInvalidCurrentPassword: http.StatusBadRequest,
	ErrUserNotRegistered:      http.StatusBadRequest,
	ErrInvalidRequest:         http.StatusBadRequest,
	ErrMissingRequiredData:    http.StatusBadRequest,
	ErrInvalidFormat:          http.StatusBadRequest,
	ErrResourceNotFound:       http.StatusNotFound,
	ErrRouteNotFound:          http.StatusNotFound,
	ErrMethodNotAllowed:       http.StatusMethodNotAllowed,
	ErrNoStockAvailable:       http.StatusInternalServerError,
	ErrSaleProductNotFound:    http.StatusInternalServerError,
	ErrInternalServer:         http.StatusInternalServerError,
	ErrDatabaseOperation:      http.StatusInternalServerError,
	ErrServiceUnavailable:     http.StatusServiceUnavailable,
}

// APIError representa um erro de API padronizado
type APIError struct {
	Code    string `json:"code"`              // Código de erro para o cliente
	Message string `json:"message,omitempty"` // Mensagem descritiva
	Details any    `json:"details,omitempty"` // Detalhes adicionais (opcional)
}

// StatusFor retorna o status HTTP associado ao código
func StatusFor(code string) int {
	status, exists := httpStatusMap[code]
	if !exists {
		return http.StatusInternalServerError
	}
	return status
}

// WriteError escreve o erro padronizado para a resposta HTTP
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	apiErr := APIError{
		Code:    code,
		Message: message,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusFor(code))
	_ = json.NewEncoder(w).Encode(apiErr)
}
