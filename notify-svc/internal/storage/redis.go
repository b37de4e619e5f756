package storage

import (
	"context"

	"tablehouse/config"

	"github.com/redis/go-redis/v9"
)

// RedisInvalidator drops the cached admin dashboard so the next read recomputes it.
type RedisInvalidator struct {
	Client *redis.Client
}

func NewRedisInvalidator(client *redis.Client) *RedisInvalidator {
	return &RedisInvalidator{Client: client}
}

func (r *RedisInvalidator) InvalidateDashboard(ctx context.Context) error {
	return r.Client.Del(ctx, config.DashboardSnapshotKey).Err()
}
