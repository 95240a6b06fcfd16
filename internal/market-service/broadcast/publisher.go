package broadcast

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/prediction-market-poc/internal/market-service/ws"
	"github.com/radieske/prediction-market-poc/pkg/contracts/events"
)

// EventPublisher é a dependência injetada nos handlers que precisam fazer
// broadcast para clientes conectados. Sem instância global: o ciclo de vida
// acompanha o bootstrap do serviço.
type EventPublisher interface {
	PublishComment(ctx context.Context, e events.CommentPosted) error
}

// RedisPublisher envia os payloads de broadcast pelo canal Pub/Sub que
// alimenta o hub WebSocket.
type RedisPublisher struct {
	r       *redis.Client
	channel string
}

func NewRedisPublisher(r *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{r: r, channel: channel}
}

func (p *RedisPublisher) PublishComment(ctx context.Context, e events.CommentPosted) error {
	upd := ws.Update{MarketID: e.MarketID, Type: "new_comment", Payload: e}
	b, _ := json.Marshal(upd)
	return p.r.Publish(ctx, p.channel, b).Err()
}
