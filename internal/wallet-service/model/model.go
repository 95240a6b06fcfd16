package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status de pagamentos e saques junto ao provedor
const (
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
)

type User struct {
	ID          string          `json:"id"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone"`
	Username    string          `json:"username"`
	Balance     decimal.Decimal `json:"balance"`
	IsSuspended bool            `json:"isSuspended"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Transaction é um registro de auditoria de evento que afeta saldo.
// Nunca é atualizado nem removido.
type Transaction struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
	Description string          `json:"description,omitempty"`
	ReferenceID string          `json:"referenceId,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Payment é um depósito iniciado junto ao provedor externo.
type Payment struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	Amount      decimal.Decimal `json:"amount"`
	Phone       string          `json:"phone"`
	TxRef       string          `json:"txRef"`
	Status      string          `json:"status"`
	CheckoutURL string          `json:"checkoutUrl,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Withdrawal é um saque para o provedor externo.
type Withdrawal struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	Amount      decimal.Decimal `json:"amount"`
	Phone       string          `json:"phone"`
	Status      string          `json:"status"`
	ProviderRef string          `json:"providerRef,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}
