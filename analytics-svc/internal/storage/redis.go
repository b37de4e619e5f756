package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"tablehouse/analytics-svc/internal/domain"
	"tablehouse/config"

	"github.com/redis/go-redis/v9"
)

const DefaultSnapshotTTL = 30 * time.Second

type RedisSnapshotCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisSnapshotCache(client *redis.Client, ttl time.Duration) *RedisSnapshotCache {
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	return &RedisSnapshotCache{Client: client, TTL: ttl}
}

func (c *RedisSnapshotCache) Load(ctx context.Context) (*domain.Dashboard, error) {
	data, err := c.Client.Get(ctx, config.DashboardSnapshotKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var dashboard domain.Dashboard
	if err := json.Unmarshal(data, &dashboard); err != nil {
		return nil, err
	}
	return &dashboard, nil
}

func (c *RedisSnapshotCache) Store(ctx context.Context, dashboard *domain.Dashboard) error {
	data, err := json.Marshal(dashboard)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, config.DashboardSnapshotKey, data, c.TTL).Err()
}
