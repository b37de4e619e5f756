package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultCheckoutTTL = 24 * time.Hour

// RedisCheckoutCache maps Idempotency-Key headers to the order they created.
type RedisCheckoutCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisCheckoutCache(client *redis.Client, ttl time.Duration) *RedisCheckoutCache {
	if ttl <= 0 {
		ttl = DefaultCheckoutTTL
	}
	return &RedisCheckoutCache{Client: client, TTL: ttl}
}

func (c *RedisCheckoutCache) CheckoutKey(idempotencyKey string) string {
	return "checkout:" + idempotencyKey
}

func (c *RedisCheckoutCache) Recall(ctx context.Context, idempotencyKey string) (string, error) {
	orderNumber, err := c.Client.Get(ctx, c.CheckoutKey(idempotencyKey)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return orderNumber, err
}

// Remember keeps the first order number stored for a key.
func (c *RedisCheckoutCache) Remember(ctx context.Context, idempotencyKey, orderNumber string) error {
	return c.Client.SetNX(ctx, c.CheckoutKey(idempotencyKey), orderNumber, c.TTL).Err()
}
