package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/prediction-market-poc/internal/wallet-service/dto"
	"github.com/radieske/prediction-market-poc/internal/wallet-service/model"
	"github.com/radieske/prediction-market-poc/internal/wallet-service/provider"
	"github.com/radieske/prediction-market-poc/internal/wallet-service/repo"
)

const userID = "3f5c0a6e-0000-0000-0000-0000000000aa"

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestWithdraw_Success(t *testing.T) {
	completed := false
	wallet := &fakeWalletStore{
		beginWithdrawalFn: func(ctx context.Context, uid string, amount decimal.Decimal, phone string) (*model.Withdrawal, decimal.Decimal, error) {
			return &model.Withdrawal{ID: "w1", UserID: uid, Amount: amount, Phone: phone, Status: "PENDING"},
				decimal.NewFromInt(50), nil
		},
		completeWithdrawalFn: func(ctx context.Context, withdrawalID, providerRef string) error {
			completed = true
			assert.Equal(t, "w1", withdrawalID)
			assert.Equal(t, "PROV-w1", providerRef)
			return nil
		},
	}
	prov := &fakeProvider{
		transferFn: func(ctx context.Context, req provider.TransferRequest) (string, error) {
			assert.Equal(t, "50.00", req.Amount)
			return "PROV-" + req.Reference, nil
		},
	}
	srv := newTestServer(wallet, nil, prov)

	rec := doJSON(t, srv.Router(), http.MethodPost, "/v1/wallet/"+userID+"/withdraw",
		map[string]string{"amount": "50", "phone_number": "+5511999990000"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, completed)

	var resp dto.WithdrawResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "COMPLETED", resp.Withdrawal.Status)
	assert.Equal(t, "PROV-w1", resp.Withdrawal.ProviderRef)
	assert.True(t, resp.NewBalance.Equal(decimal.NewFromInt(50)))
}

func TestWithdraw_ProviderRejected_Refunds(t *testing.T) {
	refunded := false
	wallet := &fakeWalletStore{
		beginWithdrawalFn: func(ctx context.Context, uid string, amount decimal.Decimal, phone string) (*model.Withdrawal, decimal.Decimal, error) {
			return &model.Withdrawal{ID: "w1", UserID: uid, Amount: amount, Status: "PENDING"},
				decimal.Zero, nil
		},
		failWithdrawalFn: func(ctx context.Context, withdrawalID string) error {
			refunded = true
			assert.Equal(t, "w1", withdrawalID)
			return nil
		},
		completeWithdrawalFn: func(ctx context.Context, withdrawalID, providerRef string) error {
			t.Fatal("não deve completar saque recusado")
			return nil
		},
	}
	prov := &fakeProvider{
		transferFn: func(ctx context.Context, req provider.TransferRequest) (string, error) {
			return "", errors.New("provider transfer rejected: transfer_limit_exceeded")
		},
	}
	srv := newTestServer(wallet, nil, prov)

	rec := doJSON(t, srv.Router(), http.MethodPost, "/v1/wallet/"+userID+"/withdraw",
		map[string]string{"amount": "99999", "phone_number": "+5511999990000"})

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.True(t, refunded, "saque recusado deve ser estornado")
}

func TestWithdraw_InsufficientFunds(t *testing.T) {
	wallet := &fakeWalletStore{
		beginWithdrawalFn: func(ctx context.Context, uid string, amount decimal.Decimal, phone string) (*model.Withdrawal, decimal.Decimal, error) {
			return nil, decimal.Zero, repo.ErrInsufficientFunds
		},
	}
	transferCalled := false
	prov := &fakeProvider{
		transferFn: func(ctx context.Context, req provider.TransferRequest) (string, error) {
			transferCalled = true
			return "", nil
		},
	}
	srv := newTestServer(wallet, nil, prov)

	rec := doJSON(t, srv.Router(), http.MethodPost, "/v1/wallet/"+userID+"/withdraw",
		map[string]string{"amount": "500", "phone_number": "+5511999990000"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, transferCalled, "saldo insuficiente não chega ao provedor")
}

func TestGetBalance(t *testing.T) {
	wallet := &fakeWalletStore{
		getBalanceFn: func(ctx context.Context, uid string) (decimal.Decimal, error) {
			return decimal.RequireFromString("123.45"), nil
		},
	}
	srv := newTestServer(wallet, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/wallet/"+userID, nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.BalanceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, userID, resp.UserID)
	assert.True(t, resp.Balance.Equal(decimal.RequireFromString("123.45")))
}

func TestGetBalance_UnknownUser(t *testing.T) {
	wallet := &fakeWalletStore{
		getBalanceFn: func(ctx context.Context, uid string) (decimal.Decimal, error) {
			return decimal.Zero, repo.ErrUserNotFound
		},
	}
	srv := newTestServer(wallet, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/wallet/"+userID, nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
