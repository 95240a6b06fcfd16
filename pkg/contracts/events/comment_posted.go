package events

// CommentPosted é o payload publicado no canal Redis Pub/Sub para broadcast
// aos clientes WebSocket inscritos no mercado.
type CommentPosted struct {
	CommentID string `json:"id"`
	MarketID  string `json:"marketId"`
	User      string `json:"user"`
	Text      string `json:"text"`
	LikeCount int    `json:"likeCount"`
	CreatedAt string `json:"createdAt"`
}
