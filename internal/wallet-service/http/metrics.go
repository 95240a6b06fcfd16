package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	depositsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wallet_service_deposits_completed_total",
		Help: "Total de depósitos confirmados via webhook do provedor",
	})
	withdrawalsRequested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wallet_service_withdrawals_requested_total",
		Help: "Total de saques solicitados",
	})
	withdrawalsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wallet_service_withdrawals_failed_total",
		Help: "Total de saques recusados pelo provedor e estornados",
	})
	webhooksRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wallet_service_webhooks_rejected_total",
		Help: "Total de webhooks com assinatura inválida",
	})
)
