package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
)

type User struct {
	ID                    string          `json:"id"`
	Name                  string          `json:"name"`
	Email                 string          `json:"email"`
	PasswordHash          string          `json:"-"`
	ExpectedMonthlyIncome decimal.Decimal `json:"expectedMonthlyIncome"`
	CreatedAt             time.Time       `json:"createdAt"`
	UpdatedAt             time.Time       `json:"updatedAt"`
}

// UserUpdate lista os campos alterados; campos nil não são gravados
type UserUpdate struct {
	PasswordHash          *string
	ExpectedMonthlyIncome *decimal.Decimal
}

type RegisterUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Message string `json:"message"`
	User    *User  `json:"user"`
	Token   string `json:"token"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type UpdateExpectedIncomeRequest struct {
	UserID                string           `json:"userId"`
	ExpectedMonthlyIncome *decimal.Decimal `json:"expectedMonthlyIncome"`
}

// Claims carrega apenas o ID do usuário; o restante do perfil é consultado quando necessário
type Claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}
