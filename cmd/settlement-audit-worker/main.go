package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/prediction-market-poc/internal/market-service/ws"
	"github.com/radieske/prediction-market-poc/internal/shared/cache"
	"github.com/radieske/prediction-market-poc/internal/shared/config"
	"github.com/radieske/prediction-market-poc/internal/shared/db"
	"github.com/radieske/prediction-market-poc/internal/shared/kafka"
	"github.com/radieske/prediction-market-poc/internal/shared/logger"
	ev "github.com/radieske/prediction-market-poc/pkg/contracts/events"
)

var (
	settlementsAudited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "settlement_audit_processed_total",
		Help: "Total de liquidações auditadas",
	})
	settlementsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "settlement_audit_failed_total",
		Help: "Total de liquidações enviadas para a DLQ",
	})
	broadcastsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "settlement_audit_broadcasts_total",
		Help: "Total de broadcasts de liquidação publicados no Redis",
	})
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg connect", zap.Error(err))
	}
	defer pg.Close()

	rdb, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}
	defer rdb.Close()

	// Consome os eventos de liquidação publicados pelo market-service
	reader := kafka.NewReader(cfg.KafkaBrokers, cfg.TopicMarketSettled, "settlement-audit")
	defer reader.Close()

	var dlqWriter *kafkago.Writer
	if cfg.TopicMarketSettledDLQ != "" {
		dlqWriter = kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicMarketSettledDLQ)
		defer dlqWriter.Close()
	}

	// Servidor HTTP para métricas Prometheus e healthcheck
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
			defer cancel()
			if err := pg.PingContext(ctx); err != nil {
				http.Error(w, "pg", http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
		addr := ":" + cfg.MetricsPort
		log.Info("metrics/health", zap.String("addr", addr))
		_ = http.ListenAndServe(addr, mux)
	}()

	log.Info("settlement-audit-worker started",
		zap.String("consume", cfg.TopicMarketSettled),
		zap.String("broadcast", cfg.RedisPubSubChannel),
	)

	ctx := context.Background()

	for {
		_, value, err := kafka.ReadNext(ctx, reader)
		if err != nil {
			log.Warn("kafka read", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		var settled ev.MarketSettled
		if jerr := json.Unmarshal(value, &settled); jerr != nil {
			log.Error("unmarshal market_settled", zap.Error(jerr))
			continue
		}

		if err := processOne(ctx, log, pg, rdb, cfg, dlqWriter, &settled, value); err != nil {
			log.Error("process settlement", zap.String("marketId", settled.MarketID), zap.Error(err))
			time.Sleep(500 * time.Millisecond)
		}
	}
}

// processOne executa o fluxo de auditoria de uma liquidação:
// 1. Grava o registro de auditoria em market_settlements
// 2. Publica o broadcast no canal Redis para os clientes WS
// Em caso de falha persistente na gravação, envia o evento para a DLQ.
func processOne(
	ctx context.Context,
	log *zap.Logger,
	pg *sql.DB,
	rdb *redis.Client,
	cfg config.Config,
	dlqWriter *kafkago.Writer,
	settled *ev.MarketSettled,
	raw []byte,
) error {
	err := insertAuditRow(ctx, pg, settled)
	if err != nil {
		// Retry simples antes de desistir e mandar para a DLQ
		const retries = 3
		for i := 0; i < retries; i++ {
			time.Sleep(time.Duration(300*(i+1)) * time.Millisecond)
			if err = insertAuditRow(ctx, pg, settled); err == nil {
				break
			}
		}
		if err != nil {
			settlementsFailed.Inc()
			if dlqWriter != nil {
				_ = kafka.WriteJSON(ctx, dlqWriter, settled.MarketID, raw)
			}
			return err
		}
	}
	settlementsAudited.Inc()

	// Broadcast para os clientes WS inscritos no mercado
	update := ws.Update{
		MarketID: settled.MarketID,
		Type:     "market_settled",
		Payload:  settled,
	}
	if err := rdb.Publish(ctx, cfg.RedisPubSubChannel, mustJSON(update)).Err(); err != nil {
		log.Warn("redis publish", zap.String("marketId", settled.MarketID), zap.Error(err))
		return nil // auditoria já gravada, broadcast é melhor esforço
	}
	broadcastsSent.Inc()
	return nil
}

func insertAuditRow(ctx context.Context, pg *sql.DB, s *ev.MarketSettled) error {
	_, err := pg.ExecContext(ctx, `
		INSERT INTO market_settlements
			(id, market_id, winning_outcome, total_pool, winning_pool, winner_count, payout_total, stakes_refunded, settled_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (market_id) DO NOTHING`,
		uuid.NewString(), s.MarketID, s.WinningOutcome, s.TotalPool, s.WinningPool,
		s.WinnerCount, s.PayoutTotal, s.StakesRefunded, s.Ts)
	return err
}

func mustJSON(v any) []byte {
	b, _ := json.Marshal(v)
	return b
}
