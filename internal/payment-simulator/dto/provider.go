package dto

type InitializeReq struct {
	Amount      string `json:"amount"`
	Phone       string `json:"phone_number"`
	TxRef       string `json:"tx_ref"`
	CallbackURL string `json:"callback_url,omitempty"`
	ReturnURL   string `json:"return_url,omitempty"`
}

type InitializeResp struct {
	Status string `json:"status"`
	Data   struct {
		CheckoutURL string `json:"checkout_url"`
	} `json:"data"`
}

type TransferReq struct {
	Amount    string `json:"amount"`
	Phone     string `json:"phone_number"`
	Reference string `json:"reference"`
}

type TransferResp struct {
	Status      string `json:"status"` // approved | rejected
	ProviderRef string `json:"provider_ref"`
	Reason      string `json:"reason,omitempty"`
}

type VerifyResp struct {
	TxRef  string `json:"tx_ref"`
	Status string `json:"status"` // success | pending | failed
}

type WebhookPayload struct {
	TxRef  string `json:"tx_ref"`
	Status string `json:"status"`
}

const (
	StatusApproved = "approved"
	StatusRejected = "rejected"
)
