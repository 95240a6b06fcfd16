package http

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/radieske/prediction-market-poc/internal/wallet-service/model"
	"github.com/radieske/prediction-market-poc/internal/wallet-service/provider"
)

// fakes com campos-função: cada teste sobrescreve só o que usa

type fakeWalletStore struct {
	getBalanceFn         func(ctx context.Context, userID string) (decimal.Decimal, error)
	depositFn            func(ctx context.Context, userID string, amount decimal.Decimal, description, refID string) (decimal.Decimal, error)
	beginWithdrawalFn    func(ctx context.Context, userID string, amount decimal.Decimal, phone string) (*model.Withdrawal, decimal.Decimal, error)
	completeWithdrawalFn func(ctx context.Context, withdrawalID, providerRef string) error
	failWithdrawalFn     func(ctx context.Context, withdrawalID string) error
	historyFn            func(ctx context.Context, userID string, page, limit int) ([]model.Transaction, int, error)
}

func (f *fakeWalletStore) GetBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	return f.getBalanceFn(ctx, userID)
}
func (f *fakeWalletStore) Deposit(ctx context.Context, userID string, amount decimal.Decimal, description, refID string) (decimal.Decimal, error) {
	return f.depositFn(ctx, userID, amount, description, refID)
}
func (f *fakeWalletStore) BeginWithdrawal(ctx context.Context, userID string, amount decimal.Decimal, phone string) (*model.Withdrawal, decimal.Decimal, error) {
	return f.beginWithdrawalFn(ctx, userID, amount, phone)
}
func (f *fakeWalletStore) CompleteWithdrawal(ctx context.Context, withdrawalID, providerRef string) error {
	return f.completeWithdrawalFn(ctx, withdrawalID, providerRef)
}
func (f *fakeWalletStore) FailWithdrawal(ctx context.Context, withdrawalID string) error {
	return f.failWithdrawalFn(ctx, withdrawalID)
}
func (f *fakeWalletStore) History(ctx context.Context, userID string, page, limit int) ([]model.Transaction, int, error) {
	if f.historyFn == nil {
		return nil, 0, nil
	}
	return f.historyFn(ctx, userID, page, limit)
}

type fakePaymentStore struct {
	createFn   func(ctx context.Context, userID string, amount decimal.Decimal, phone, txRef string) (*model.Payment, error)
	completeFn func(ctx context.Context, txRef string) error
	failFn     func(ctx context.Context, txRef string) error
	getFn      func(ctx context.Context, txRef string) (*model.Payment, error)
}

func (f *fakePaymentStore) CreatePayment(ctx context.Context, userID string, amount decimal.Decimal, phone, txRef string) (*model.Payment, error) {
	return f.createFn(ctx, userID, amount, phone, txRef)
}
func (f *fakePaymentStore) SetCheckoutURL(ctx context.Context, paymentID, url string) error {
	return nil
}
func (f *fakePaymentStore) GetPaymentByTxRef(ctx context.Context, txRef string) (*model.Payment, error) {
	return f.getFn(ctx, txRef)
}
func (f *fakePaymentStore) CompletePayment(ctx context.Context, txRef string) error {
	return f.completeFn(ctx, txRef)
}
func (f *fakePaymentStore) FailPayment(ctx context.Context, txRef string) error {
	return f.failFn(ctx, txRef)
}

type fakeUserStore struct{}

func (fakeUserStore) ListUsers(ctx context.Context, page, limit int, search string) ([]model.User, int, error) {
	return nil, 0, nil
}
func (fakeUserStore) GetUser(ctx context.Context, id string) (*model.User, error) { return nil, nil }
func (fakeUserStore) UpdateUser(ctx context.Context, id string, email, phone *string) (*model.User, error) {
	return nil, nil
}
func (fakeUserStore) SuspendUser(ctx context.Context, id string, suspended bool) (*model.User, error) {
	return nil, nil
}
func (fakeUserStore) DeleteUser(ctx context.Context, id string) error { return nil }

type fakeProvider struct {
	initializeFn func(ctx context.Context, req provider.InitializeRequest) (string, error)
	transferFn   func(ctx context.Context, req provider.TransferRequest) (string, error)
	verifyFn     func(ctx context.Context, txRef string) (*provider.VerifyResponse, error)
}

func (f *fakeProvider) Initialize(ctx context.Context, req provider.InitializeRequest) (string, error) {
	return f.initializeFn(ctx, req)
}
func (f *fakeProvider) Transfer(ctx context.Context, req provider.TransferRequest) (string, error) {
	return f.transferFn(ctx, req)
}
func (f *fakeProvider) Verify(ctx context.Context, txRef string) (*provider.VerifyResponse, error) {
	return f.verifyFn(ctx, txRef)
}

const testSecret = "test-webhook-secret"

func newTestServer(wallet *fakeWalletStore, payments *fakePaymentStore, prov *fakeProvider) *Server {
	if wallet == nil {
		wallet = &fakeWalletStore{}
	}
	if payments == nil {
		payments = &fakePaymentStore{}
	}
	if prov == nil {
		prov = &fakeProvider{}
	}
	return NewServer(zap.NewNop(), wallet, payments, fakeUserStore{}, prov, testSecret)
}
