package requestcontext

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAccessors(t *testing.T) {
	t.Run("empty context returns zero values", func(t *testing.T) {
		ctx := context.Background()
		assert.Empty(t, RequestID(ctx))
		assert.Empty(t, ActorID(ctx))
		assert.WithinDuration(t, time.Now(), Now(ctx), time.Second)
	})

	t.Run("injected values round trip", func(t *testing.T) {
		fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		ctx := WithTime(WithActorID(WithRequestID(context.Background(), "req-1"), "reviewer-7"), fixed)
		assert.Equal(t, "req-1", RequestID(ctx))
		assert.Equal(t, "reviewer-7", ActorID(ctx))
		assert.Equal(t, fixed, Now(ctx))
	})

	t.Run("wrong value type is ignored", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), ContextKeyActorID, 42)
		assert.Empty(t, ActorID(ctx))
	})
}
