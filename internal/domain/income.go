package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// IncomeProgress é o acompanhamento da meta mensal de um vendedor
type IncomeProgress struct {
	UserID     string          `json:"userId"`
	UserName   string          `json:"userName"`
	Month      string          `json:"month"`
	Expected   decimal.Decimal `json:"expected"`
	Achieved   decimal.Decimal `json:"achieved"`
	Percentage decimal.Decimal `json:"percentage"`
	SalesCount int             `json:"salesCount"`
}

// JobStatus descreve o estado de um agendador
type JobStatus struct {
	Enabled         bool      `json:"enabled"`
	CronSchedule    string    `json:"cron"`
	Running         bool      `json:"running"`
	LastStartedAt   time.Time `json:"lastStartedAt"`
	LastCompletedAt time.Time `json:"lastCompletedAt"`
	LastError       string    `json:"lastError,omitempty"`
}
