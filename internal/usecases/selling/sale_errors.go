package selling

import (
	"errors"
	"fmt"
)

var (
	ErrNoStockAvailable    = errors.New("produto sem estoque disponível")
	ErrProductNotFound     = errors.New("produto da venda não encontrado")
	ErrSalesNotFound       = errors.New("nenhuma venda encontrada para o usuário")
	ErrMissingRequiredData = errors.New("product, userId e total são obrigatórios")
	ErrInvalidReference    = errors.New("referência de produto ou usuário inválida")
	ErrDatabaseOperation   = errors.New("erro ao realizar operação no banco de dados")
)

// SaleError carrega o código de API junto do erro base
type SaleError struct {
	Err     error
	Code    string
	Details string
}

func (e *SaleError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *SaleError) Unwrap() error {
	return e.Err
}

func NewSaleError(baseErr error, code string, details string) *SaleError {
	return &SaleError{
		Err:     baseErr,
		Code:    code,
		Details: details,
	}
}

// IsStockError indica falha na baixa de estoque
func IsStockError(err error) bool {
	return errors.Is(err, ErrNoStockAvailable) || errors.Is(err, ErrProductNotFound)
}
