package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/radieske/prediction-market-poc/internal/wallet-service/dto"
	"github.com/radieske/prediction-market-poc/internal/wallet-service/model"
	"github.com/radieske/prediction-market-poc/internal/wallet-service/provider"
)

func (s *Server) getBalance(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	bal, err := s.wallet.GetBalance(r.Context(), userID)
	if err != nil {
		s.writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.BalanceResponse{UserID: userID, Balance: bal})
}

// deposit credita saldo diretamente (ajuste manual / teste). Depósitos reais
// passam pelo fluxo de pagamentos com o provedor.
func (s *Server) deposit(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	var req dto.DepositRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !req.Amount.IsPositive() {
		writeError(w, http.StatusBadRequest, "Invalid deposit amount")
		return
	}

	refID := fmt.Sprintf("DEP_%s_%d", userID, time.Now().UnixMilli())
	newBalance, err := s.wallet.Deposit(r.Context(), userID, req.Amount, "manual-deposit", refID)
	if err != nil {
		s.writeRepoError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.DepositResponse{
		Message:    "Deposit completed successfully",
		NewBalance: newBalance,
	})
}

// withdraw debita o saldo, chama o provedor e, se a transferência for
// recusada, estorna o valor em uma transação compensatória
func (s *Server) withdraw(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	var req dto.WithdrawRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !req.Amount.IsPositive() {
		writeError(w, http.StatusBadRequest, "Invalid withdrawal amount")
		return
	}

	wd, newBalance, err := s.wallet.BeginWithdrawal(r.Context(), userID, req.Amount, req.Phone)
	if err != nil {
		s.writeRepoError(w, err)
		return
	}
	withdrawalsRequested.Inc()

	providerRef, err := s.prov.Transfer(r.Context(), provider.TransferRequest{
		Amount:    req.Amount.StringFixed(2),
		Phone:     req.Phone,
		Reference: wd.ID,
	})
	if err != nil {
		s.log.Warn("provider transfer failed, refunding withdrawal",
			zap.String("withdrawal_id", wd.ID), zap.Error(err))
		withdrawalsFailed.Inc()
		if ferr := s.wallet.FailWithdrawal(r.Context(), wd.ID); ferr != nil {
			s.log.Error("failed to refund withdrawal", zap.String("withdrawal_id", wd.ID), zap.Error(ferr))
		}
		writeError(w, http.StatusBadGateway, "Withdrawal rejected by payment provider, amount refunded")
		return
	}

	if err = s.wallet.CompleteWithdrawal(r.Context(), wd.ID, providerRef); err != nil {
		s.writeRepoError(w, err)
		return
	}
	wd.Status = model.StatusCompleted
	wd.ProviderRef = providerRef

	writeJSON(w, http.StatusOK, dto.WithdrawResponse{
		Message:    "Withdrawal completed successfully",
		Withdrawal: *wd,
		NewBalance: newBalance,
	})
}

func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	txs, total, err := s.wallet.History(r.Context(), userID, page, limit)
	if err != nil {
		s.writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.HistoryResponse{
		Transactions: txs,
		Total:        total,
		Page:         page,
		Limit:        limit,
	})
}
