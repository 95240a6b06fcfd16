package provider

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client fala com a API HTTP do provedor de pagamento (simulador em local)
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Secret  string
}

func New(base, secret string) *Client {
	return &Client{
		BaseURL: base,
		HTTP:    &http.Client{Timeout: 5 * time.Second},
		Secret:  secret,
	}
}

type InitializeRequest struct {
	Amount      string `json:"amount"`
	Phone       string `json:"phone_number"`
	TxRef       string `json:"tx_ref"`
	CallbackURL string `json:"callback_url,omitempty"`
	ReturnURL   string `json:"return_url,omitempty"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	Email       string `json:"email,omitempty"`
}

type initializeResponse struct {
	Status string `json:"status"`
	Data   struct {
		CheckoutURL string `json:"checkout_url"`
	} `json:"data"`
}

// Initialize inicia um depósito e retorna a URL de checkout
func (c *Client) Initialize(ctx context.Context, req InitializeRequest) (string, error) {
	var out initializeResponse
	if err := c.post(ctx, "/provider/initialize", req, &out); err != nil {
		return "", err
	}
	return out.Data.CheckoutURL, nil
}

type TransferRequest struct {
	Amount    string `json:"amount"`
	Phone     string `json:"phone_number"`
	Reference string `json:"reference"`
}

type transferResponse struct {
	Status      string `json:"status"`
	ProviderRef string `json:"provider_ref"`
	Reason      string `json:"reason,omitempty"`
}

// Transfer envia um saque para o provedor; erro quando o provedor recusa
func (c *Client) Transfer(ctx context.Context, req TransferRequest) (string, error) {
	var out transferResponse
	if err := c.post(ctx, "/provider/transfer", req, &out); err != nil {
		return "", err
	}
	if out.Status != "approved" {
		return "", fmt.Errorf("provider transfer rejected: %s", out.Reason)
	}
	return out.ProviderRef, nil
}

type VerifyResponse struct {
	TxRef  string `json:"tx_ref"`
	Status string `json:"status"` // success | pending | failed
}

// Verify consulta o status de uma transação no provedor
func (c *Client) Verify(ctx context.Context, txRef string) (*VerifyResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/provider/verify/"+txRef, nil)
	if err != nil {
		return nil, err
	}
	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return nil, fmt.Errorf("provider verify http %d", res.StatusCode)
	}
	var out VerifyResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, body, dst any) error {
	b, _ := json.Marshal(body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return fmt.Errorf("provider http %d", res.StatusCode)
	}
	return json.NewDecoder(res.Body).Decode(dst)
}

// Sign calcula a assinatura HMAC-SHA256 (hex) de um corpo de webhook
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature compara a assinatura do header do webhook em tempo constante
func VerifySignature(secret string, body []byte, signature string) bool {
	expected := Sign(secret, body)
	return hmac.Equal([]byte(expected), []byte(signature))
}
