package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/radieske/prediction-market-poc/internal/market-service/dto"
	"github.com/radieske/prediction-market-poc/internal/market-service/model"
	"github.com/radieske/prediction-market-poc/internal/market-service/repo"
	"github.com/radieske/prediction-market-poc/pkg/contracts/events"
)

const marketListTTL = 15 * time.Second

// createMarket cria um mercado de dois participantes
func (s *Server) createMarket(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateMarketRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Title and two distinct contestants are required")
		return
	}

	m, err := s.markets.CreateMarket(r.Context(), req.Title, req.Contestant1, req.Contestant2, req.StartDate, req.EndDate)
	if err != nil {
		s.writeRepoError(w, err)
		return
	}

	_ = s.cache.Invalidate(r.Context(), string(model.MarketOpen), string(model.MarketUpcoming), "")
	writeJSON(w, http.StatusCreated, dto.MarketResponse{Message: "Market created successfully", Market: m})
}

// listMarkets retorna mercados, todos ou filtrados por status (?status=OPEN)
// A lista de mercados abertos é cacheada com TTL curto
func (s *Server) listMarkets(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && !model.ValidMarketStatus(status) {
		writeError(w, http.StatusBadRequest, "Invalid market status")
		return
	}

	if status == string(model.MarketOpen) {
		var cached []model.Market
		if ok, _ := s.cache.GetMarkets(r.Context(), status, &cached); ok {
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	markets, err := s.markets.ListMarkets(r.Context(), status)
	if err != nil {
		s.writeRepoError(w, err)
		return
	}
	if markets == nil {
		markets = []model.Market{}
	}

	if status == string(model.MarketOpen) {
		_ = s.cache.SetMarkets(r.Context(), status, markets, marketListTTL)
	}
	writeJSON(w, http.StatusOK, markets)
}

// getMarket retorna um mercado com o total do pool
func (s *Server) getMarket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	m, err := s.markets.GetMarket(r.Context(), id)
	if err != nil {
		s.writeRepoError(w, err)
		return
	}
	pool, err := s.markets.MarketPool(r.Context(), id)
	if err != nil {
		s.writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.MarketDetailResponse{Market: m, TotalPool: pool.StringFixed(2)})
}

// updateMarket aplica um update parcial em um mercado
func (s *Server) updateMarket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.UpdateMarketRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.Status != nil && !model.ValidMarketStatus(*req.Status) {
		writeError(w, http.StatusBadRequest, "Invalid market status")
		return
	}

	m, err := s.markets.UpdateMarket(r.Context(), id, repo.MarketUpdate{
		Title:     req.Title,
		Status:    req.Status,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		s.writeRepoError(w, err)
		return
	}

	_ = s.cache.Invalidate(r.Context(), string(model.MarketOpen), string(model.MarketUpcoming), "")
	writeJSON(w, http.StatusOK, dto.MarketResponse{Message: "Market updated successfully", Market: m})
}

// deleteMarket remove um mercado sem apostas
func (s *Server) deleteMarket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.markets.DeleteMarket(r.Context(), id); err != nil {
		s.writeRepoError(w, err)
		return
	}

	_ = s.cache.Invalidate(r.Context(), string(model.MarketOpen), string(model.MarketUpcoming), "")
	writeJSON(w, http.StatusOK, dto.MarketResponse{Message: "Market deleted successfully"})
}

// resolveMarket liquida um mercado: transição para SETTLED, cálculo e
// desembolso dos payouts e marcação won/lost de cada aposta, tudo em uma
// única transação no repositório
func (s *Server) resolveMarket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.ResolveMarketRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "winningOutcome is required")
		return
	}

	plan, err := s.bets.SettleMarket(r.Context(), id, req.WinningOutcome)
	if err != nil {
		s.writeRepoError(w, err)
		return
	}

	metricMarketsSettled.Inc()
	metricPayoutDisbursed.Add(plan.PayoutTotal.InexactFloat64())

	// Evento best-effort: a liquidação já está commitada
	if err := s.publ.PublishMarketSettled(r.Context(), events.MarketSettled{
		MarketID:       id,
		WinningOutcome: plan.WinningOutcome,
		TotalPool:      plan.TotalPool.StringFixed(2),
		WinningPool:    plan.WinningPool.StringFixed(2),
		WinnerCount:    len(plan.Payouts),
		PayoutTotal:    plan.PayoutTotal.StringFixed(2),
		StakesRefunded: plan.StakesRefunded(),
	}); err != nil {
		s.log.Warn("publish market_settled", zap.String("marketId", id), zap.Error(err))
	}

	_ = s.cache.Invalidate(r.Context(), string(model.MarketOpen), string(model.MarketSettled), "")

	writeJSON(w, http.StatusOK, dto.ResolveResponse{
		Message:        "Market resolved, payouts calculated, and balances updated successfully",
		WinningOutcome: plan.WinningOutcome,
		TotalPool:      plan.TotalPool.StringFixed(2),
		WinningPool:    plan.WinningPool.StringFixed(2),
		WinnerCount:    len(plan.Payouts),
		PayoutTotal:    plan.PayoutTotal.StringFixed(2),
		StakesRefunded: plan.StakesRefunded(),
	})
}
