package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"meridian/pkg/platform/sentinel"

	"github.com/redis/go-redis/v9"
)

const redisApplicantKeyPrefix = "verification:applicant:"

// RedisCache keeps applicant ids in Redis so all instances share lookups.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis constructs a Redis-backed applicant cache. A zero ttl keeps
// entries until evicted by Redis.
func NewRedis(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Get returns sentinel.ErrNotFound on a miss.
func (c *RedisCache) Get(ctx context.Context, externalID string) (string, error) {
	applicantID, err := c.client.Get(ctx, applicantKey(externalID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", sentinel.ErrNotFound
		}
		return "", fmt.Errorf("find applicant cache: %w", err)
	}
	return applicantID, nil
}

func (c *RedisCache) Set(ctx context.Context, externalID, applicantID string) error {
	if err := c.client.Set(ctx, applicantKey(externalID), applicantID, c.ttl).Err(); err != nil {
		return fmt.Errorf("save applicant cache: %w", err)
	}
	return nil
}

func applicantKey(externalID string) string {
	return redisApplicantKeyPrefix + externalID
}
