package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/radieske/prediction-market-poc/internal/market-service/broadcast"
	"github.com/radieske/prediction-market-poc/internal/market-service/dto"
	"github.com/radieske/prediction-market-poc/internal/market-service/model"
	"github.com/radieske/prediction-market-poc/internal/market-service/repo"
	"github.com/radieske/prediction-market-poc/internal/market-service/settlement"
	"github.com/radieske/prediction-market-poc/pkg/contracts/events"
)

// MarketStore define as operações de mercado usadas pelos handlers
type MarketStore interface {
	CreateMarket(ctx context.Context, title, participantA, participantB string, start, end *time.Time) (*model.Market, error)
	ListMarkets(ctx context.Context, status string) ([]model.Market, error)
	GetMarket(ctx context.Context, id string) (*model.Market, error)
	UpdateMarket(ctx context.Context, id string, upd repo.MarketUpdate) (*model.Market, error)
	DeleteMarket(ctx context.Context, id string) error
	MarketPool(ctx context.Context, marketID string) (decimal.Decimal, error)
}

// BetStore define as operações de aposta e liquidação usadas pelos handlers
type BetStore interface {
	PlaceBet(ctx context.Context, userID, marketID, outcome string, amount decimal.Decimal) (*model.Bet, error)
	GetBet(ctx context.Context, id string) (*model.Bet, error)
	ListBetsByMarket(ctx context.Context, marketID string) ([]model.Bet, error)
	ListBetsByUser(ctx context.Context, userID string) ([]model.Bet, error)
	ListAllBets(ctx context.Context) ([]model.Bet, error)
	UserTotalStaked(ctx context.Context, userID string) (decimal.Decimal, error)
	SettleMarket(ctx context.Context, marketID, winningOutcome string) (*settlement.Plan, error)
}

// CommentStore define as operações de comentário usadas pelos handlers
type CommentStore interface {
	CreateComment(ctx context.Context, marketID, userID, text string) (*model.Comment, error)
	ListCommentsByMarket(ctx context.Context, marketID, currentUserID string) ([]model.Comment, error)
	LikeComment(ctx context.Context, commentID, userID string) error
	UnlikeComment(ctx context.Context, commentID, userID string) error
	DeleteComment(ctx context.Context, commentID, userID string) error
}

// Publisher publica os eventos de domínio no Kafka após o commit
type Publisher interface {
	PublishBetPlaced(ctx context.Context, e events.BetPlaced) error
	PublishMarketSettled(ctx context.Context, e events.MarketSettled) error
}

// MarketCache guarda listas de mercados com TTL curto
type MarketCache interface {
	GetMarkets(ctx context.Context, status string, dst any) (bool, error)
	SetMarkets(ctx context.Context, status string, v any, ttl time.Duration) error
	Invalidate(ctx context.Context, statuses ...string) error
}

// Server expõe a API REST de mercados, apostas e comentários
type Server struct {
	log      *zap.Logger
	markets  MarketStore
	bets     BetStore
	comments CommentStore
	cache    MarketCache
	publ     Publisher
	events   broadcast.EventPublisher
	validate *validator.Validate
}

func NewServer(log *zap.Logger, markets MarketStore, bets BetStore, comments CommentStore,
	cache MarketCache, publ Publisher, events broadcast.EventPublisher) *Server {
	return &Server{
		log:      log,
		markets:  markets,
		bets:     bets,
		comments: comments,
		cache:    cache,
		publ:     publ,
		events:   events,
		validate: validator.New(),
	}
}

// Router retorna o roteador HTTP com os endpoints REST do market-service
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Route("/v1", func(r chi.Router) {
		r.Route("/markets", func(r chi.Router) {
			r.Post("/", s.createMarket)
			r.Get("/", s.listMarkets)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.getMarket)
				r.Put("/", s.updateMarket)
				r.Delete("/", s.deleteMarket)
				r.Post("/resolve", s.resolveMarket)
				r.Get("/bets", s.listBetsByMarket)
				r.Get("/bets/total", s.marketBetTotal)
				r.Get("/comments", s.listComments)
			})
		})
		r.Route("/bets", func(r chi.Router) {
			r.Post("/", s.placeBet)
			r.Get("/", s.listAllBets)
			r.Get("/{id}", s.getBet)
		})
		r.Route("/users/{id}", func(r chi.Router) {
			r.Get("/bets", s.listBetsByUser)
			r.Get("/bets/total", s.userBetTotal)
		})
		r.Route("/comments", func(r chi.Router) {
			r.Post("/", s.createComment)
			r.Delete("/{id}", s.deleteComment)
			r.Post("/{id}/like", s.likeComment)
			r.Delete("/{id}/like", s.unlikeComment)
		})
	})
	return r
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, dto.ErrorResponse{Message: msg})
}

// writeRepoError mapeia erros do repositório para status HTTP:
// validação -> 400, não encontrado -> 404, conflito -> 409, resto -> 500
func (s *Server) writeRepoError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repo.ErrMarketNotFound),
		errors.Is(err, repo.ErrBetNotFound),
		errors.Is(err, repo.ErrUserNotFound),
		errors.Is(err, repo.ErrCommentNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, repo.ErrMarketNotOpen),
		errors.Is(err, repo.ErrInvalidOutcome),
		errors.Is(err, repo.ErrInvalidAmount),
		errors.Is(err, repo.ErrInsufficientFunds),
		errors.Is(err, repo.ErrDuplicateMarket):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repo.ErrMarketHasBets):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, repo.ErrNotCommentAuthor):
		writeError(w, http.StatusForbidden, err.Error())
	default:
		s.log.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
