package repo

import "errors"

var (
	ErrMarketNotFound    = errors.New("market not found")
	ErrMarketNotOpen     = errors.New("market is not open")
	ErrMarketHasBets     = errors.New("market has bets")
	ErrDuplicateMarket   = errors.New("market already exists")
	ErrInvalidOutcome    = errors.New("invalid outcome")
	ErrInvalidAmount     = errors.New("invalid bet amount")
	ErrUserNotFound      = errors.New("user not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrBetNotFound       = errors.New("bet not found")
	ErrCommentNotFound   = errors.New("comment not found")
	ErrNotCommentAuthor  = errors.New("not the comment author")
)
