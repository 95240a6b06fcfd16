package events

import "time"

// Evento emitido pelo market-service após o commit da liquidação de um mercado.
type MarketSettled struct {
	MarketID       string    `json:"marketId"`
	WinningOutcome string    `json:"winningOutcome"`
	TotalPool      string    `json:"total_pool"`
	WinningPool    string    `json:"winning_pool"`
	WinnerCount    int       `json:"winner_count"`
	PayoutTotal    string    `json:"payout_total"`
	StakesRefunded bool      `json:"stakes_refunded"` // true quando ninguém apostou no vencedor
	Ts             time.Time `json:"ts"`
}
