package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache struct{ R *redis.Client }

func New(r *redis.Client) *Cache { return &Cache{R: r} }

func keyMarkets(status string) string { return "markets:list:" + status }

// GetMarkets lê a lista de mercados de um status do cache; (false, nil) em miss
func (c *Cache) GetMarkets(ctx context.Context, status string, dst any) (bool, error) {
	b, err := c.R.Get(ctx, keyMarkets(status)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(b, dst)
}

// SetMarkets grava a lista de mercados de um status com TTL curto
func (c *Cache) SetMarkets(ctx context.Context, status string, v any, ttl time.Duration) error {
	b, _ := json.Marshal(v)
	return c.R.Set(ctx, keyMarkets(status), b, ttl).Err()
}

// Invalidate remove as listas cacheadas após qualquer mutação de mercado
func (c *Cache) Invalidate(ctx context.Context, statuses ...string) error {
	keys := make([]string, 0, len(statuses))
	for _, s := range statuses {
		keys = append(keys, keyMarkets(s))
	}
	if len(keys) == 0 {
		return nil
	}
	return c.R.Del(ctx, keys...).Err()
}
