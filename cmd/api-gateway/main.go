package main

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"

	"go.uber.org/zap"

	"github.com/radieske/prediction-market-poc/internal/shared/config"
	"github.com/radieske/prediction-market-poc/internal/shared/logger"
)

func rp(to string) *httputil.ReverseProxy {
	u, _ := url.Parse(to)
	return httputil.NewSingleHostReverseProxy(u)
}

func main() {
	cfg := config.Load()
	log, _ := logger.New(cfg.ServiceName, cfg.Env)
	defer log.Sync()

	// targets
	marketURL := os.Getenv("MARKET_URL")
	if marketURL == "" {
		marketURL = "http://localhost:8082"
	}
	walletURL := os.Getenv("WALLET_URL")
	if walletURL == "" {
		walletURL = "http://localhost:8083"
	}
	market := rp(marketURL)
	wallet := rp(walletURL)

	mux := http.NewServeMux()

	// market-service (ex.: /api/markets/* -> /v1/markets/*)
	mux.Handle("/api/markets/", http.StripPrefix("/api", addPrefix("/v1", market)))
	mux.Handle("/api/bets/", http.StripPrefix("/api", addPrefix("/v1", market)))
	mux.Handle("/api/comments/", http.StripPrefix("/api", addPrefix("/v1", market)))
	mux.Handle("/api/users/", http.StripPrefix("/api", addPrefix("/v1", market)))

	// wallet-service
	mux.Handle("/api/wallet/", http.StripPrefix("/api", addPrefix("/v1", wallet)))
	mux.Handle("/api/payments/", http.StripPrefix("/api", addPrefix("/v1", wallet)))
	mux.Handle("/api/admin/", http.StripPrefix("/api", addPrefix("/v1", wallet)))

	// WS pass-through direto para o market-service (upgrade não passa pelo proxy de path)
	mux.Handle("/ws", market)

	addr := ":" + cfg.HTTPPort
	log.Info("api-gateway listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, withCORS(mux)); err != nil && err != http.ErrServerClosed {
		log.Fatal("gateway failed", zap.Error(err))
	}
}

// addPrefix reescreve o path antes de repassar ao serviço de destino
func addPrefix(prefix string, h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r2 := r.Clone(r.Context())
		r2.URL.Path = prefix + r.URL.Path
		h.ServeHTTP(w, r2)
	})
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.ServeHTTP(w, r)
	})
}
