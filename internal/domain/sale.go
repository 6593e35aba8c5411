package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Sale struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product"`
	UserID    string          `json:"userId"`
	Total     decimal.Decimal `json:"total"`
	Date      time.Time       `json:"date"`
}

type SaleRequest struct {
	ProductID string           `json:"product"`
	UserID    string           `json:"userId"`
	Total     *decimal.Decimal `json:"total"`
	Date      *time.Time       `json:"date"`
}

type SaleUpdate struct {
	ProductID *string          `json:"product"`
	UserID    *string          `json:"userId"`
	Total     *decimal.Decimal `json:"total"`
	Date      *time.Time       `json:"date"`
}

// SaleFilter restringe a busca de vendas. Campos vazios não filtram.
type SaleFilter struct {
	UserID string
	From   *time.Time
}

// SaleDetail é a venda com as referências resolvidas. Product e User ficam
// nulos quando o registro referenciado não existe mais.
type SaleDetail struct {
	ID      string          `json:"id"`
	Product *Product        `json:"product"`
	UserID  string          `json:"userId"`
	User    *User           `json:"user,omitempty"`
	Total   decimal.Decimal `json:"total"`
	Date    time.Time       `json:"date"`
}
