package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/radieske/prediction-market-poc/internal/shared/config"
	"github.com/radieske/prediction-market-poc/internal/shared/logger"
	"github.com/radieske/prediction-market-poc/internal/shared/metrics"
	"github.com/radieske/prediction-market-poc/internal/wallet-service/provider"

	pdto "github.com/radieske/prediction-market-poc/internal/payment-simulator/dto"
)

// Limite acima do qual transferências são recusadas (simula limite do provedor)
var transferLimit = decimal.NewFromInt(10000)

var (
	paymentsInitialized = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "provider_payments_initialized_total",
		Help: "Total de pagamentos iniciados no provedor simulado",
	})
	transfersApproved = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "provider_transfers_approved_total",
		Help: "Total de transferências aprovadas",
	})
	transfersRejected = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "provider_transfers_rejected_total",
		Help: "Total de transferências recusadas",
	})
)

// paymentRecord guarda o estado de um pagamento iniciado no simulador
type paymentRecord struct {
	TxRef       string
	Amount      string
	Status      string // pending | success | failed
	CallbackURL string
}

// server mantém os pagamentos em memória; o simulador não tem banco
type server struct {
	log    *zap.Logger
	secret string

	mu       sync.Mutex
	payments map[string]*paymentRecord
}

func newServer(log *zap.Logger, secret string) *server {
	return &server{log: log, secret: secret, payments: make(map[string]*paymentRecord)}
}

// initializeHandler registra o pagamento e devolve a URL de checkout.
// Pagamentos com callback são confirmados de forma assíncrona via webhook.
func (s *server) initializeHandler(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req pdto.InitializeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TxRef == "" {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.payments[req.TxRef] = &paymentRecord{
		TxRef:       req.TxRef,
		Amount:      req.Amount,
		Status:      "pending",
		CallbackURL: req.CallbackURL,
	}
	s.mu.Unlock()
	paymentsInitialized.Inc()

	if req.CallbackURL != "" {
		go s.settleLater(req.TxRef)
	}

	var resp pdto.InitializeResp
	resp.Status = "success"
	resp.Data.CheckoutURL = fmt.Sprintf("http://localhost:8084/checkout/%s", req.TxRef)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// settleLater marca o pagamento como pago após um atraso curto e entrega o
// webhook assinado, simulando o ciclo de confirmação do provedor real
func (s *server) settleLater(txRef string) {
	time.Sleep(2 * time.Second)

	s.mu.Lock()
	rec, ok := s.payments[txRef]
	if !ok || rec.Status != "pending" {
		s.mu.Unlock()
		return
	}
	rec.Status = "success"
	callback := rec.CallbackURL
	s.mu.Unlock()

	body, _ := json.Marshal(pdto.WebhookPayload{TxRef: txRef, Status: "success"})
	req, err := http.NewRequest(http.MethodPost, callback, bytes.NewReader(body))
	if err != nil {
		s.log.Warn("webhook request build failed", zap.String("tx_ref", txRef), zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Provider-Signature", provider.Sign(s.secret, body))

	client := &http.Client{Timeout: 5 * time.Second}
	res, err := client.Do(req)
	if err != nil {
		s.log.Warn("webhook delivery failed", zap.String("tx_ref", txRef), zap.Error(err))
		return
	}
	defer res.Body.Close()
	s.log.Info("webhook delivered", zap.String("tx_ref", txRef), zap.Int("status", res.StatusCode))
}

// transferHandler aprova saques até o limite e recusa acima dele
func (s *server) transferHandler(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req pdto.TransferReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Reference == "" {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		http.Error(w, "invalid amount", http.StatusBadRequest)
		return
	}

	resp := pdto.TransferResp{
		Status:      pdto.StatusApproved,
		ProviderRef: "PROV-" + req.Reference,
	}
	if amount.GreaterThan(transferLimit) {
		resp.Status = pdto.StatusRejected
		resp.ProviderRef = ""
		resp.Reason = "transfer_limit_exceeded"
		transfersRejected.Inc()
	} else {
		transfersApproved.Inc()
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// verifyHandler consulta o status de um pagamento pelo tx_ref
func (s *server) verifyHandler(w http.ResponseWriter, r *http.Request) {
	txRef := strings.TrimPrefix(r.URL.Path, "/provider/verify/")
	if txRef == "" {
		http.Error(w, "missing tx_ref", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	rec, ok := s.payments[txRef]
	s.mu.Unlock()
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(pdto.VerifyResp{TxRef: rec.TxRef, Status: rec.Status})
}

// checkoutHandler simula a página de checkout: abrir a URL confirma o pagamento
func (s *server) checkoutHandler(w http.ResponseWriter, r *http.Request) {
	txRef := strings.TrimPrefix(r.URL.Path, "/checkout/")

	s.mu.Lock()
	rec, ok := s.payments[txRef]
	if ok && rec.Status == "pending" {
		rec.Status = "success"
	}
	s.mu.Unlock()
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("payment confirmed"))
}

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	prometheus.MustRegister(paymentsInitialized, transfersApproved, transfersRejected)

	s := newServer(log, cfg.PaymentWebhookSecret)

	appMux := http.NewServeMux()
	appMux.HandleFunc("/provider/initialize", s.initializeHandler)
	appMux.HandleFunc("/provider/transfer", s.transferHandler)
	appMux.HandleFunc("/provider/verify/", s.verifyHandler)
	appMux.HandleFunc("/checkout/", s.checkoutHandler)

	metrics.StartMetricsServer(cfg.MetricsPort, nil)
	log.Info("payment provider simulator (metrics) running",
		zap.String("addr", fmt.Sprintf(":%s", cfg.MetricsPort)),
		zap.String("paths", "/healthz,/metrics"),
	)

	publicAddr := fmt.Sprintf(":%s", cfg.HTTPPort)
	log.Info("payment provider simulator (public) running",
		zap.String("addr", publicAddr),
		zap.String("paths", "/provider/*,/checkout/*"),
	)
	if err := http.ListenAndServe(publicAddr, appMux); err != nil {
		log.Fatal("public server error", zap.Error(err))
	}
}
