//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"meridian/internal/verification/cache"
	"meridian/pkg/platform/sentinel"
	"meridian/pkg/testutil/containers"
)

type RedisCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *cache.RedisCache
}

func TestRedisCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisCacheSuite))
}

func (s *RedisCacheSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.cache = cache.NewRedis(s.redis.Client, time.Minute)
}

func (s *RedisCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisCacheSuite) TestRoundTrip() {
	ctx := context.Background()
	_, err := s.cache.Get(ctx, "inv-1")
	s.ErrorIs(err, sentinel.ErrNotFound)

	s.Require().NoError(s.cache.Set(ctx, "inv-1", "app-1"))
	got, err := s.cache.Get(ctx, "inv-1")
	s.Require().NoError(err)
	s.Equal("app-1", got)

	ttl, err := s.redis.Client.TTL(ctx, "verification:applicant:inv-1").Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
}
