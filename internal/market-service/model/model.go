package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MarketStatus é o ciclo de vida de um mercado: UPCOMING -> OPEN -> SETTLED,
// ou CLOSED/CANCELLED por ação administrativa.
type MarketStatus string

const (
	MarketUpcoming  MarketStatus = "UPCOMING"
	MarketOpen      MarketStatus = "OPEN"
	MarketClosed    MarketStatus = "CLOSED"
	MarketSettled   MarketStatus = "SETTLED"
	MarketCancelled MarketStatus = "CANCELLED"
)

// ValidMarketStatus valida valores vindos de requests de update
func ValidMarketStatus(s string) bool {
	switch MarketStatus(s) {
	case MarketUpcoming, MarketOpen, MarketClosed, MarketSettled, MarketCancelled:
		return true
	}
	return false
}

type BetStatus string

const (
	BetPending  BetStatus = "PENDING"
	BetWon      BetStatus = "WON"
	BetLost     BetStatus = "LOST"
	BetRefunded BetStatus = "REFUNDED" // liquidação sem vencedores: stake devolvida
)

// Market é um evento de dois resultados aberto para apostas.
type Market struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	ParticipantA    string       `json:"participantA"`
	ParticipantB    string       `json:"participantB"`
	Status          MarketStatus `json:"status"`
	ResolvedOutcome *string      `json:"resolvedOutcome,omitempty"`
	StartTime       *time.Time   `json:"startTime,omitempty"`
	EndTime         *time.Time   `json:"endTime,omitempty"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

// HasParticipant diz se outcome é um dos dois participantes registrados
func (m *Market) HasParticipant(outcome string) bool {
	return outcome == m.ParticipantA || outcome == m.ParticipantB
}

// Bet é uma aposta persistida. Imutável após a criação, exceto os campos
// status/payout escritos uma única vez na liquidação.
type Bet struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	MarketID  string           `json:"marketId"`
	Amount    decimal.Decimal  `json:"amount"`
	Outcome   string           `json:"outcome"`
	Status    BetStatus        `json:"status"`
	Payout    *decimal.Decimal `json:"payout,omitempty"` // só vencedores
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// Comment é um comentário de usuário em um mercado.
type Comment struct {
	ID        string    `json:"id"`
	MarketID  string    `json:"marketId"`
	UserID    string    `json:"userId"`
	Username  string    `json:"user"`
	Text      string    `json:"text"`
	LikeCount int       `json:"likeCount"`
	Liked     bool      `json:"liked"` // em relação ao usuário da consulta
	CreatedAt time.Time `json:"createdAt"`
}
