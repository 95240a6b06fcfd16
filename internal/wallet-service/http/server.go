package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/radieske/prediction-market-poc/internal/wallet-service/dto"
	"github.com/radieske/prediction-market-poc/internal/wallet-service/model"
	"github.com/radieske/prediction-market-poc/internal/wallet-service/provider"
	"github.com/radieske/prediction-market-poc/internal/wallet-service/repo"
)

// WalletStore define as operações de carteira usadas pelos handlers
type WalletStore interface {
	GetBalance(ctx context.Context, userID string) (decimal.Decimal, error)
	Deposit(ctx context.Context, userID string, amount decimal.Decimal, description, refID string) (decimal.Decimal, error)
	BeginWithdrawal(ctx context.Context, userID string, amount decimal.Decimal, phone string) (*model.Withdrawal, decimal.Decimal, error)
	CompleteWithdrawal(ctx context.Context, withdrawalID, providerRef string) error
	FailWithdrawal(ctx context.Context, withdrawalID string) error
	History(ctx context.Context, userID string, page, limit int) ([]model.Transaction, int, error)
}

// PaymentStore define as operações de depósito via provedor
type PaymentStore interface {
	CreatePayment(ctx context.Context, userID string, amount decimal.Decimal, phone, txRef string) (*model.Payment, error)
	SetCheckoutURL(ctx context.Context, paymentID, url string) error
	GetPaymentByTxRef(ctx context.Context, txRef string) (*model.Payment, error)
	CompletePayment(ctx context.Context, txRef string) error
	FailPayment(ctx context.Context, txRef string) error
}

// UserStore define as operações administrativas de usuário
type UserStore interface {
	ListUsers(ctx context.Context, page, limit int, search string) ([]model.User, int, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	UpdateUser(ctx context.Context, id string, email, phone *string) (*model.User, error)
	SuspendUser(ctx context.Context, id string, suspended bool) (*model.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// PaymentProvider é o gateway externo de depósitos e saques
type PaymentProvider interface {
	Initialize(ctx context.Context, req provider.InitializeRequest) (string, error)
	Transfer(ctx context.Context, req provider.TransferRequest) (string, error)
	Verify(ctx context.Context, txRef string) (*provider.VerifyResponse, error)
}

// Server expõe a API REST de carteira, pagamentos e administração
type Server struct {
	log           *zap.Logger
	wallet        WalletStore
	payments      PaymentStore
	users         UserStore
	prov          PaymentProvider
	webhookSecret string
	validate      *validator.Validate
}

func NewServer(log *zap.Logger, wallet WalletStore, payments PaymentStore, users UserStore,
	prov PaymentProvider, webhookSecret string) *Server {
	return &Server{
		log:           log,
		wallet:        wallet,
		payments:      payments,
		users:         users,
		prov:          prov,
		webhookSecret: webhookSecret,
		validate:      validator.New(),
	}
}

// Router retorna o roteador HTTP com os endpoints REST do wallet-service
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Route("/v1", func(r chi.Router) {
		r.Route("/wallet/{userId}", func(r chi.Router) {
			r.Get("/", s.getBalance)
			r.Post("/deposit", s.deposit)
			r.Post("/withdraw", s.withdraw)
			r.Get("/history", s.history)
		})
		r.Route("/payments", func(r chi.Router) {
			r.Post("/initiate", s.initiatePayment)
			r.Post("/webhook", s.paymentWebhook)
			r.Get("/{txRef}", s.paymentStatus)
		})
		r.Route("/admin/users", func(r chi.Router) {
			r.Get("/", s.listUsers)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.getUser)
				r.Put("/", s.updateUser)
				r.Post("/suspend", s.suspendUser)
				r.Delete("/", s.deleteUser)
			})
		})
	})
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, dto.ErrorResponse{Message: msg})
}

func (s *Server) writeRepoError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repo.ErrUserNotFound),
		errors.Is(err, repo.ErrPaymentNotFound),
		errors.Is(err, repo.ErrWithdrawalNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, repo.ErrInsufficientFunds):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.log.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
