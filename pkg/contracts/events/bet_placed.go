package events

type BetPlaced struct {
	BetID    string `json:"bet_id"`
	UserID   string `json:"user_id"`
	MarketID string `json:"market_id"`
	Outcome  string `json:"outcome"`
	Amount   string `json:"amount"` // decimal com 2 casas, ex: "25.00"
	TsUnixMs int64  `json:"ts_unix_ms"`
}
