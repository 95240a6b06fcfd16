package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateMarketRequest struct {
	Title       string     `json:"title" validate:"required"`
	Contestant1 string     `json:"contestant1" validate:"required"`
	Contestant2 string     `json:"contestant2" validate:"required,nefield=Contestant1"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
}

type UpdateMarketRequest struct {
	Title     *string    `json:"title,omitempty"`
	Status    *string    `json:"status,omitempty"`
	StartTime *time.Time `json:"startTime,omitempty"`
	EndTime   *time.Time `json:"endTime,omitempty"`
}

type PlaceBetRequest struct {
	UserID   string          `json:"userId" validate:"required"`
	MarketID string          `json:"marketId" validate:"required"`
	Outcome  string          `json:"outcome" validate:"required"`
	Amount   decimal.Decimal `json:"amount"` // > 0, validado no handler
}

type ResolveMarketRequest struct {
	WinningOutcome string `json:"winningOutcome" validate:"required"`
}

type CreateCommentRequest struct {
	UserID   string `json:"userId" validate:"required"`
	MarketID string `json:"marketId" validate:"required"`
	Text     string `json:"text" validate:"required,max=2000"`
}
