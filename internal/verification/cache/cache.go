// Package cache stores externalID -> applicantID mappings. The provider
// never reassigns an applicant id, so entries only expire to bound memory.
// Review status is never cached.
package cache

import (
	"context"
	"sync"
	"time"

	"meridian/pkg/platform/sentinel"
)

// InMemoryCache is the process-local applicant cache.
type InMemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

type entry struct {
	applicantID string
	expiresAt   time.Time
}

func NewInMemory(ttl time.Duration) *InMemoryCache {
	return &InMemoryCache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns sentinel.ErrNotFound on a miss.
func (c *InMemoryCache) Get(_ context.Context, externalID string) (string, error) {
	c.mu.RLock()
	e, ok := c.entries[externalID]
	c.mu.RUnlock()
	if !ok || (c.ttl > 0 && !c.now().Before(e.expiresAt)) {
		return "", sentinel.ErrNotFound
	}
	return e.applicantID, nil
}

func (c *InMemoryCache) Set(_ context.Context, externalID, applicantID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[externalID] = entry{applicantID: applicantID, expiresAt: c.now().Add(c.ttl)}
	return nil
}
