package dto

import (
	"github.com/radieske/prediction-market-poc/internal/market-service/model"
)

type MarketResponse struct {
	Message string        `json:"message,omitempty"`
	Market  *model.Market `json:"market,omitempty"`
}

type MarketDetailResponse struct {
	Market    *model.Market `json:"market"`
	TotalPool string        `json:"total_pool"`
}

type BetResponse struct {
	Message string     `json:"message,omitempty"`
	Bet     *model.Bet `json:"bet,omitempty"`
}

type BetListResponse struct {
	Bets []model.Bet `json:"bets"`
}

type TotalResponse struct {
	TotalBetAmount string `json:"totalBetAmount"`
}

type ResolveResponse struct {
	Message        string `json:"message"`
	WinningOutcome string `json:"winningOutcome"`
	TotalPool      string `json:"total_pool"`
	WinningPool    string `json:"winning_pool"`
	WinnerCount    int    `json:"winner_count"`
	PayoutTotal    string `json:"payout_total"`
	StakesRefunded bool   `json:"stakes_refunded"`
}

type CommentListResponse struct {
	Comments []model.Comment `json:"comments"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
