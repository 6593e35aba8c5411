package domain

import "github.com/shopspring/decimal"

// Commission é uma faixa de comissão. Produtos guardam uma cópia das faixas
// vigentes no momento do cadastro, sem referência ao registro original.
type Commission struct {
	ID         string          `json:"id"`
	Number     int             `json:"number"`
	Percentage decimal.Decimal `json:"percentage"`
}

type CommissionRequest struct {
	Number     *int             `json:"number"`
	Percentage *decimal.Decimal `json:"percentage"`
}

type CommissionUpdate struct {
	Number     *int             `json:"number"`
	Percentage *decimal.Decimal `json:"percentage"`
}
