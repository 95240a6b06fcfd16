package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/radieske/prediction-market-poc/internal/wallet-service/dto"
	"github.com/radieske/prediction-market-poc/internal/wallet-service/model"
	"github.com/radieske/prediction-market-poc/internal/wallet-service/provider"
)

// initiatePayment cria o pagamento PENDING e pede a URL de checkout ao provedor
func (s *Server) initiatePayment(w http.ResponseWriter, r *http.Request) {
	var req dto.InitiatePaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !req.Amount.IsPositive() {
		writeError(w, http.StatusBadRequest, "Invalid payment amount")
		return
	}

	txRef := fmt.Sprintf("PAY_%d", time.Now().UnixNano())
	pm, err := s.payments.CreatePayment(r.Context(), req.UserID, req.Amount, req.Phone, txRef)
	if err != nil {
		s.writeRepoError(w, err)
		return
	}

	checkoutURL, err := s.prov.Initialize(r.Context(), provider.InitializeRequest{
		Amount:      req.Amount.StringFixed(2),
		Phone:       req.Phone,
		TxRef:       txRef,
		CallbackURL: req.CallbackURL,
		ReturnURL:   req.ReturnURL,
	})
	if err != nil {
		s.log.Error("provider initialize failed", zap.String("tx_ref", txRef), zap.Error(err))
		if ferr := s.payments.FailPayment(r.Context(), txRef); ferr != nil {
			s.log.Error("failed to mark payment failed", zap.String("tx_ref", txRef), zap.Error(ferr))
		}
		writeError(w, http.StatusBadGateway, "Payment provider unavailable")
		return
	}

	if err = s.payments.SetCheckoutURL(r.Context(), pm.ID, checkoutURL); err != nil {
		s.log.Error("failed to persist checkout url", zap.String("tx_ref", txRef), zap.Error(err))
	}

	writeJSON(w, http.StatusCreated, dto.InitiatePaymentResponse{
		Message:     "Payment initiated successfully",
		TxRef:       txRef,
		CheckoutURL: checkoutURL,
	})
}

// paymentWebhook recebe a confirmação do provedor. A assinatura HMAC do corpo
// vem no header X-Provider-Signature; sem assinatura válida nada é creditado.
func (s *Server) paymentWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sig := r.Header.Get("X-Provider-Signature")
	if !provider.VerifySignature(s.webhookSecret, body, sig) {
		webhooksRejected.Inc()
		s.log.Warn("webhook signature mismatch")
		writeError(w, http.StatusUnauthorized, "Invalid webhook signature")
		return
	}

	var payload dto.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid webhook payload")
		return
	}
	if err := s.validate.Struct(payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch payload.Status {
	case "success":
		if err := s.payments.CompletePayment(r.Context(), payload.TxRef); err != nil {
			s.writeRepoError(w, err)
			return
		}
		depositsCompleted.Inc()
	case "failed":
		if err := s.payments.FailPayment(r.Context(), payload.TxRef); err != nil {
			s.writeRepoError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Webhook processed"})
}

// paymentStatus retorna o status local e, quando ainda PENDING, consulta o
// provedor para reconciliar webhooks perdidos
func (s *Server) paymentStatus(w http.ResponseWriter, r *http.Request) {
	txRef := chi.URLParam(r, "txRef")

	pm, err := s.payments.GetPaymentByTxRef(r.Context(), txRef)
	if err != nil {
		s.writeRepoError(w, err)
		return
	}

	if pm.Status == model.StatusPending {
		v, err := s.prov.Verify(r.Context(), txRef)
		if err == nil {
			switch v.Status {
			case "success":
				if err := s.payments.CompletePayment(r.Context(), txRef); err == nil {
					pm.Status = model.StatusCompleted
					depositsCompleted.Inc()
				}
			case "failed":
				if err := s.payments.FailPayment(r.Context(), txRef); err == nil {
					pm.Status = model.StatusFailed
				}
			}
		} else {
			s.log.Warn("provider verify failed", zap.String("tx_ref", txRef), zap.Error(err))
		}
	}

	writeJSON(w, http.StatusOK, dto.PaymentStatusResponse{TxRef: pm.TxRef, Status: pm.Status})
}
