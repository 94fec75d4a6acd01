package sync

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShardedMutex_LockUnlock(t *testing.T) {
	m := NewShardedMutex()

	m.Lock("investor-1")
	m.Unlock("investor-1")

	// Empty key maps to shard 0
	m.Lock("")
	m.Unlock("")
}

func TestShardedMutex_SameKeySerializes(t *testing.T) {
	m := NewShardedMutex()
	counter := 0
	var wg sync.WaitGroup

	for range 200 {
		wg.Go(func() {
			_ = m.WithLock("same-investor", func() error {
				counter++
				return nil
			})
		})
	}
	wg.Wait()

	assert.Equal(t, 200, counter)
}

func TestShardedMutex_WithLockReturnsError(t *testing.T) {
	m := NewShardedMutex()
	sentinel := errors.New("boom")

	err := m.WithLock("k", func() error { return sentinel })
	assert.ErrorIs(t, err, sentinel)

	// Lock must have been released.
	m.Lock("k")
	m.Unlock("k")
}

func TestShardFor_Stable(t *testing.T) {
	assert.Equal(t, shardFor("abc"), shardFor("abc"))
	assert.Equal(t, 0, shardFor(""))
	for _, key := range []string{"a", "b", "investor-42", "deal-9"} {
		s := shardFor(key)
		assert.GreaterOrEqual(t, s, 0)
		assert.Less(t, s, shardCount)
	}
}
