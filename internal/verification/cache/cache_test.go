package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meridian/pkg/platform/sentinel"
)

func TestInMemoryCache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewInMemory(time.Hour)
	c.now = func() time.Time { return now }

	_, err := c.Get(ctx, "inv-1")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	require.NoError(t, c.Set(ctx, "inv-1", "app-1"))
	got, err := c.Get(ctx, "inv-1")
	require.NoError(t, err)
	assert.Equal(t, "app-1", got)

	now = now.Add(time.Hour)
	_, err = c.Get(ctx, "inv-1")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestInMemoryCache_NoTTL(t *testing.T) {
	ctx := context.Background()
	c := NewInMemory(0)
	require.NoError(t, c.Set(ctx, "inv-1", "app-1"))
	got, err := c.Get(ctx, "inv-1")
	require.NoError(t, err)
	assert.Equal(t, "app-1", got)
}
