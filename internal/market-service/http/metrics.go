package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricBetsPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "market_service_bets_placed_total",
		Help: "Apostas aceitas e commitadas",
	})
	metricMarketsSettled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "market_service_markets_settled_total",
		Help: "Mercados liquidados",
	})
	metricPayoutDisbursed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "market_service_payout_disbursed_total",
		Help: "Valor total de payouts creditados",
	})
	metricCommentsPosted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "market_service_comments_posted_total",
		Help: "Comentários criados",
	})
)
