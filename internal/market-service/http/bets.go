package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/radieske/prediction-market-poc/internal/market-service/dto"
	"github.com/radieske/prediction-market-poc/internal/market-service/model"
	"github.com/radieske/prediction-market-poc/pkg/contracts/events"
)

// placeBet registra uma stake: aposta, débito do saldo e linha no ledger
// em uma única transação no repositório
func (s *Server) placeBet(w http.ResponseWriter, r *http.Request) {
	var req dto.PlaceBetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input data")
		return
	}
	if !req.Amount.IsPositive() {
		writeError(w, http.StatusBadRequest, "Invalid bet amount")
		return
	}

	bet, err := s.bets.PlaceBet(r.Context(), req.UserID, req.MarketID, req.Outcome, req.Amount)
	if err != nil {
		s.writeRepoError(w, err)
		return
	}

	metricBetsPlaced.Inc()

	// Evento best-effort: a aposta já está commitada
	if err := s.publ.PublishBetPlaced(r.Context(), events.BetPlaced{
		BetID:    bet.ID,
		UserID:   bet.UserID,
		MarketID: bet.MarketID,
		Outcome:  bet.Outcome,
		Amount:   bet.Amount.StringFixed(2),
	}); err != nil {
		s.log.Warn("publish bet_placed", zap.String("betId", bet.ID), zap.Error(err))
	}

	writeJSON(w, http.StatusCreated, dto.BetResponse{Message: "Bet created successfully", Bet: bet})
}

// getBet retorna uma aposta pelo id
func (s *Server) getBet(w http.ResponseWriter, r *http.Request) {
	bet, err := s.bets.GetBet(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.BetResponse{Bet: bet})
}

func betList(bets []model.Bet) dto.BetListResponse {
	if bets == nil {
		bets = []model.Bet{}
	}
	return dto.BetListResponse{Bets: bets}
}

// listBetsByMarket retorna as apostas de um mercado, mais recentes primeiro
func (s *Server) listBetsByMarket(w http.ResponseWriter, r *http.Request) {
	bets, err := s.bets.ListBetsByMarket(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, betList(bets))
}

// listBetsByUser retorna as apostas de um usuário
func (s *Server) listBetsByUser(w http.ResponseWriter, r *http.Request) {
	bets, err := s.bets.ListBetsByUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, betList(bets))
}

// listAllBets retorna todas as apostas
func (s *Server) listAllBets(w http.ResponseWriter, r *http.Request) {
	bets, err := s.bets.ListAllBets(r.Context())
	if err != nil {
		s.writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, betList(bets))
}

// marketBetTotal retorna o pool total de um mercado
func (s *Server) marketBetTotal(w http.ResponseWriter, r *http.Request) {
	total, err := s.markets.MarketPool(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.TotalResponse{TotalBetAmount: total.StringFixed(2)})
}

// userBetTotal retorna o total apostado por um usuário
func (s *Server) userBetTotal(w http.ResponseWriter, r *http.Request) {
	total, err := s.bets.UserTotalStaked(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.TotalResponse{TotalBetAmount: total.StringFixed(2)})
}
