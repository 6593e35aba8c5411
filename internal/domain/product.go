package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Stock       int             `json:"stock"`
	Image       *string         `json:"image,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Commissions []Commission    `json:"commissions"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ProductUpdate contém apenas os campos enviados pelo cliente
type ProductUpdate struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Stock       *int             `json:"stock"`
	Image       *string          `json:"image"`
	Price       *decimal.Decimal `json:"price"`
	Commissions *[]Commission    `json:"commissions"`
}

// IsEmpty indica que nenhum campo foi enviado
func (u *ProductUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Stock == nil &&
		u.Image == nil && u.Price == nil && u.Commissions == nil
}
