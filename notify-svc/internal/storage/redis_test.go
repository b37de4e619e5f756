package storage

import (
	"context"
	"testing"

	"tablehouse/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvalidateDashboard(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })
	invalidator := NewRedisInvalidator(client)

	require.NoError(t, srv.Set(config.DashboardSnapshotKey, `{"today_orders":3}`))
	require.NoError(t, srv.Set("checkout:abc", "ORD_20240305_001"))

	require.NoError(t, invalidator.InvalidateDashboard(context.Background()))
	assert.False(t, srv.Exists(config.DashboardSnapshotKey))
	assert.True(t, srv.Exists("checkout:abc"))

	// Deleting a missing key is not an error.
	assert.NoError(t, invalidator.InvalidateDashboard(context.Background()))
}
