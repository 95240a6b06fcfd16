package dto

import "github.com/shopspring/decimal"

type DepositRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type WithdrawRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Phone  string          `json:"phone_number" validate:"required"`
}

type InitiatePaymentRequest struct {
	UserID      string          `json:"user_id" validate:"required,uuid4"`
	Amount      decimal.Decimal `json:"amount"`
	Phone       string          `json:"phone_number" validate:"required"`
	CallbackURL string          `json:"callback_url,omitempty" validate:"omitempty,url"`
	ReturnURL   string          `json:"return_url,omitempty" validate:"omitempty,url"`
}

// WebhookPayload é o corpo que o provedor envia no callback de pagamento
type WebhookPayload struct {
	TxRef  string `json:"tx_ref" validate:"required"`
	Status string `json:"status" validate:"required,oneof=success failed"`
}

type UpdateUserRequest struct {
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone *string `json:"phone_number,omitempty"`
}
