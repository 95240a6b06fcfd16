package ws

// ClientMsg representa uma mensagem recebida do cliente WebSocket
// Type: subscribe | unsubscribe | ping
// MarketID: obrigatório para subscribe/unsubscribe
type ClientMsg struct {
	Type     string `json:"type"`     // subscribe | unsubscribe | ping
	MarketID string `json:"marketId"` // requerido em subscribe/unsubscribe
}

// Update representa um payload enviado aos clientes inscritos em um mercado
// Type: new_comment | market_settled
type Update struct {
	MarketID string      `json:"marketId"`
	Type     string      `json:"type"`
	Payload  interface{} `json:"payload"`
}
