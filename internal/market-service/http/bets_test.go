package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/prediction-market-poc/internal/market-service/model"
	"github.com/radieske/prediction-market-poc/internal/market-service/repo"
)

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPlaceBet_Success(t *testing.T) {
	var gotAmount decimal.Decimal
	bets := &fakeBetStore{
		placeFn: func(ctx context.Context, userID, marketID, outcome string, amount decimal.Decimal) (*model.Bet, error) {
			gotAmount = amount
			return &model.Bet{
				ID:       "3f5c0a6e-0000-0000-0000-000000000001",
				UserID:   userID,
				MarketID: marketID,
				Outcome:  outcome,
				Amount:   amount,
				Status:   model.BetPending,
			}, nil
		},
	}
	publ := &fakePublisher{}
	srv := newTestServer(nil, bets, nil, publ, nil)

	rec := postJSON(t, srv.Router(), "/v1/bets", map[string]any{
		"userId":   "3f5c0a6e-0000-0000-0000-0000000000aa",
		"marketId": "3f5c0a6e-0000-0000-0000-0000000000bb",
		"outcome":  "Alice",
		"amount":   "50.00",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, gotAmount.Equal(decimal.NewFromInt(50)))

	var resp struct {
		Message string     `json:"message"`
		Bet     *model.Bet `json:"bet"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Bet created successfully", resp.Message)
	require.NotNil(t, resp.Bet)
	assert.Equal(t, model.BetPending, resp.Bet.Status)

	// evento publicado após o commit
	require.Len(t, publ.betEvents, 1)
	assert.Equal(t, "50.00", publ.betEvents[0].Amount)
}

func TestPlaceBet_NegativeAmountRejected(t *testing.T) {
	called := false
	bets := &fakeBetStore{
		placeFn: func(ctx context.Context, userID, marketID, outcome string, amount decimal.Decimal) (*model.Bet, error) {
			called = true
			return nil, nil
		},
	}
	publ := &fakePublisher{}
	srv := newTestServer(nil, bets, nil, publ, nil)

	rec := postJSON(t, srv.Router(), "/v1/bets", map[string]any{
		"userId":   "3f5c0a6e-0000-0000-0000-0000000000aa",
		"marketId": "3f5c0a6e-0000-0000-0000-0000000000bb",
		"outcome":  "Alice",
		"amount":   "-10",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, called, "o repositório não deve ser chamado")
	assert.Empty(t, publ.betEvents)
}

func TestPlaceBet_MarketNotOpen(t *testing.T) {
	bets := &fakeBetStore{
		placeFn: func(ctx context.Context, userID, marketID, outcome string, amount decimal.Decimal) (*model.Bet, error) {
			return nil, repo.ErrMarketNotOpen
		},
	}
	publ := &fakePublisher{}
	srv := newTestServer(nil, bets, nil, publ, nil)

	rec := postJSON(t, srv.Router(), "/v1/bets", map[string]any{
		"userId":   "3f5c0a6e-0000-0000-0000-0000000000aa",
		"marketId": "3f5c0a6e-0000-0000-0000-0000000000bb",
		"outcome":  "Alice",
		"amount":   "50",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, publ.betEvents, "nenhum evento quando a aposta falha")
}

func TestPlaceBet_InsufficientFunds(t *testing.T) {
	bets := &fakeBetStore{
		placeFn: func(ctx context.Context, userID, marketID, outcome string, amount decimal.Decimal) (*model.Bet, error) {
			return nil, repo.ErrInsufficientFunds
		},
	}
	srv := newTestServer(nil, bets, nil, nil, nil)

	rec := postJSON(t, srv.Router(), "/v1/bets", map[string]any{
		"userId":   "3f5c0a6e-0000-0000-0000-0000000000aa",
		"marketId": "3f5c0a6e-0000-0000-0000-0000000000bb",
		"outcome":  "Alice",
		"amount":   "5000",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlaceBet_InvalidOutcome(t *testing.T) {
	bets := &fakeBetStore{
		placeFn: func(ctx context.Context, userID, marketID, outcome string, amount decimal.Decimal) (*model.Bet, error) {
			return nil, repo.ErrInvalidOutcome
		},
	}
	srv := newTestServer(nil, bets, nil, nil, nil)

	rec := postJSON(t, srv.Router(), "/v1/bets", map[string]any{
		"userId":   "3f5c0a6e-0000-0000-0000-0000000000aa",
		"marketId": "3f5c0a6e-0000-0000-0000-0000000000bb",
		"outcome":  "Carol",
		"amount":   "50",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
