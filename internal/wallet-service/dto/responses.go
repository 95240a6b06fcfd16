package dto

import (
	"github.com/shopspring/decimal"

	"github.com/radieske/prediction-market-poc/internal/wallet-service/model"
)

type ErrorResponse struct {
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type BalanceResponse struct {
	UserID  string          `json:"userId"`
	Balance decimal.Decimal `json:"balance"`
}

type DepositResponse struct {
	Message    string          `json:"message"`
	NewBalance decimal.Decimal `json:"newBalance"`
}

type WithdrawResponse struct {
	Message    string           `json:"message"`
	Withdrawal model.Withdrawal `json:"withdrawal"`
	NewBalance decimal.Decimal  `json:"newBalance"`
}

type HistoryResponse struct {
	Transactions []model.Transaction `json:"transactions"`
	Total        int                 `json:"total"`
	Page         int                 `json:"page"`
	Limit        int                 `json:"limit"`
}

type InitiatePaymentResponse struct {
	Message     string `json:"message"`
	TxRef       string `json:"txRef"`
	CheckoutURL string `json:"checkoutUrl"`
}

type PaymentStatusResponse struct {
	TxRef  string `json:"txRef"`
	Status string `json:"status"`
}

type UserListResponse struct {
	Users []model.User `json:"users"`
	Total int          `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}
