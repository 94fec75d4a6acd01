//go:build integration

package redis_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"meridian/internal/platform/config"
	"meridian/internal/platform/redis"
	"meridian/pkg/testutil/containers"
)

func TestClientAgainstContainer(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()
	container := containers.GetManager().GetRedis(t)

	client, err := redis.New(ctx, config.RedisConfig{URL: container.URL, PoolSize: 4})
	require.NoError(t, err)
	require.NotNil(t, client)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Health(ctx))
	require.NoError(t, client.Set(ctx, "meridian:probe", "1", 0).Err())
	client.RecordPoolStats()
	client.RecordPoolStats()
	require.Equal(t, 4, client.Options().PoolSize)
}
