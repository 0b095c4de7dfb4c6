package cache

import (
	"context"
	"testing"
	"time"

	"github.com/kaizen/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A port nothing listens on, so the Redis ping fails fast
var unreachableRedis = config.RedisConfig{Host: "127.0.0.1", Port: 1}

func TestIdempotencyStoreFactory_Memory(t *testing.T) {
	f := NewIdempotencyStoreFactory(config.EventConfig{IdempotencyStore: "memory", CleanupInterval: time.Minute}, unreachableRedis)

	store, err := f.CreateStore(context.Background())
	require.NoError(t, err)
	defer store.Close()

	assert.IsType(t, &InMemoryIdempotencyStore{}, store)
}

func TestIdempotencyStoreFactory_RedisFallsBack(t *testing.T) {
	f := NewIdempotencyStoreFactory(config.EventConfig{IdempotencyStore: "redis"}, unreachableRedis)

	store, err := f.CreateStore(context.Background())
	require.NoError(t, err)
	defer store.Close()

	assert.IsType(t, &InMemoryIdempotencyStore{}, store)
}

func TestIdempotencyStoreFactory_RedisRequired(t *testing.T) {
	f := NewIdempotencyStoreFactory(config.EventConfig{IdempotencyStore: "redis"}, unreachableRedis, WithInMemoryFallback(false))

	store, err := f.CreateStore(context.Background())
	assert.Error(t, err)
	assert.Nil(t, store)
}
