//go:build integration

// Package containers starts the Postgres, Redis and Redpanda fixtures used by
// integration suites. Each fixture starts once per test binary and is shared
// by every suite in it; suites isolate themselves by truncating or flushing.
package containers

import (
	"sync"
	"testing"
)

// Manager hands out the shared fixtures, starting each on first use.
type Manager struct {
	postgres lazy[*PostgresContainer]
	redis    lazy[*RedisContainer]
	kafka    lazy[*KafkaContainer]
}

var manager = &Manager{}

func GetManager() *Manager { return manager }

func (m *Manager) GetPostgres(t *testing.T) *PostgresContainer {
	t.Helper()
	return m.postgres.get(t, NewPostgresContainer)
}

func (m *Manager) GetRedis(t *testing.T) *RedisContainer {
	t.Helper()
	return m.redis.get(t, NewRedisContainer)
}

func (m *Manager) GetKafka(t *testing.T) *KafkaContainer {
	t.Helper()
	return m.kafka.get(t, NewKafkaContainer)
}

// lazy starts a fixture under a lock. A failed start calls t.Fatal inside
// start, so a later caller retries rather than receiving a zero value.
type lazy[T any] struct {
	mu    sync.Mutex
	ready bool
	value T
}

func (l *lazy[T]) get(t *testing.T, start func(*testing.T) T) T {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.ready {
		l.value = start(t)
		l.ready = true
	}
	return l.value
}
