package http

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/radieske/prediction-market-poc/internal/market-service/model"
	"github.com/radieske/prediction-market-poc/internal/market-service/repo"
	"github.com/radieske/prediction-market-poc/internal/market-service/settlement"
	"github.com/radieske/prediction-market-poc/pkg/contracts/events"
)

// fakes com campos-função: cada teste sobrescreve só o que usa

type fakeMarketStore struct {
	createFn func(ctx context.Context, title, a, b string, start, end *time.Time) (*model.Market, error)
	listFn   func(ctx context.Context, status string) ([]model.Market, error)
	getFn    func(ctx context.Context, id string) (*model.Market, error)
	updateFn func(ctx context.Context, id string, upd repo.MarketUpdate) (*model.Market, error)
	deleteFn func(ctx context.Context, id string) error
	poolFn   func(ctx context.Context, marketID string) (decimal.Decimal, error)
}

func (f *fakeMarketStore) CreateMarket(ctx context.Context, title, a, b string, start, end *time.Time) (*model.Market, error) {
	return f.createFn(ctx, title, a, b, start, end)
}
func (f *fakeMarketStore) ListMarkets(ctx context.Context, status string) ([]model.Market, error) {
	return f.listFn(ctx, status)
}
func (f *fakeMarketStore) GetMarket(ctx context.Context, id string) (*model.Market, error) {
	return f.getFn(ctx, id)
}
func (f *fakeMarketStore) UpdateMarket(ctx context.Context, id string, upd repo.MarketUpdate) (*model.Market, error) {
	return f.updateFn(ctx, id, upd)
}
func (f *fakeMarketStore) DeleteMarket(ctx context.Context, id string) error {
	return f.deleteFn(ctx, id)
}
func (f *fakeMarketStore) MarketPool(ctx context.Context, marketID string) (decimal.Decimal, error) {
	if f.poolFn == nil {
		return decimal.Zero, nil
	}
	return f.poolFn(ctx, marketID)
}

type fakeBetStore struct {
	placeFn  func(ctx context.Context, userID, marketID, outcome string, amount decimal.Decimal) (*model.Bet, error)
	settleFn func(ctx context.Context, marketID, winningOutcome string) (*settlement.Plan, error)
}

func (f *fakeBetStore) PlaceBet(ctx context.Context, userID, marketID, outcome string, amount decimal.Decimal) (*model.Bet, error) {
	return f.placeFn(ctx, userID, marketID, outcome, amount)
}
func (f *fakeBetStore) GetBet(ctx context.Context, id string) (*model.Bet, error) {
	return nil, repo.ErrBetNotFound
}
func (f *fakeBetStore) ListBetsByMarket(ctx context.Context, marketID string) ([]model.Bet, error) {
	return nil, nil
}
func (f *fakeBetStore) ListBetsByUser(ctx context.Context, userID string) ([]model.Bet, error) {
	return nil, nil
}
func (f *fakeBetStore) ListAllBets(ctx context.Context) ([]model.Bet, error) { return nil, nil }
func (f *fakeBetStore) UserTotalStaked(ctx context.Context, userID string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}
func (f *fakeBetStore) SettleMarket(ctx context.Context, marketID, winningOutcome string) (*settlement.Plan, error) {
	return f.settleFn(ctx, marketID, winningOutcome)
}

type fakeCommentStore struct {
	createFn func(ctx context.Context, marketID, userID, text string) (*model.Comment, error)
}

func (f *fakeCommentStore) CreateComment(ctx context.Context, marketID, userID, text string) (*model.Comment, error) {
	return f.createFn(ctx, marketID, userID, text)
}
func (f *fakeCommentStore) ListCommentsByMarket(ctx context.Context, marketID, currentUserID string) ([]model.Comment, error) {
	return nil, nil
}
func (f *fakeCommentStore) LikeComment(ctx context.Context, commentID, userID string) error {
	return nil
}
func (f *fakeCommentStore) UnlikeComment(ctx context.Context, commentID, userID string) error {
	return nil
}
func (f *fakeCommentStore) DeleteComment(ctx context.Context, commentID, userID string) error {
	return nil
}

type fakePublisher struct {
	betEvents     []events.BetPlaced
	settledEvents []events.MarketSettled
}

func (f *fakePublisher) PublishBetPlaced(ctx context.Context, e events.BetPlaced) error {
	f.betEvents = append(f.betEvents, e)
	return nil
}
func (f *fakePublisher) PublishMarketSettled(ctx context.Context, e events.MarketSettled) error {
	f.settledEvents = append(f.settledEvents, e)
	return nil
}

type fakeCache struct{}

func (fakeCache) GetMarkets(ctx context.Context, status string, dst any) (bool, error) {
	return false, nil
}
func (fakeCache) SetMarkets(ctx context.Context, status string, v any, ttl time.Duration) error {
	return nil
}
func (fakeCache) Invalidate(ctx context.Context, statuses ...string) error { return nil }

type fakeBroadcast struct {
	comments []events.CommentPosted
}

func (f *fakeBroadcast) PublishComment(ctx context.Context, e events.CommentPosted) error {
	f.comments = append(f.comments, e)
	return nil
}

func newTestServer(markets *fakeMarketStore, bets *fakeBetStore, comments *fakeCommentStore,
	publ *fakePublisher, bc *fakeBroadcast) *Server {
	if markets == nil {
		markets = &fakeMarketStore{}
	}
	if bets == nil {
		bets = &fakeBetStore{}
	}
	if comments == nil {
		comments = &fakeCommentStore{}
	}
	if publ == nil {
		publ = &fakePublisher{}
	}
	if bc == nil {
		bc = &fakeBroadcast{}
	}
	return NewServer(zap.NewNop(), markets, bets, comments, fakeCache{}, publ, bc)
}
