package topics

const (
	// Bets
	BetPlaced = "bet_placed"

	// Settlement
	MarketSettled    = "market_settled"
	MarketSettledDLQ = "market_settled_dlq"
)
