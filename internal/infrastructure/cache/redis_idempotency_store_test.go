package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mdusmanhanifkhan/hikarimed-backend-v2/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func configRedis() config.RedisConfig {
	return config.RedisConfig{Host: "127.0.0.1", Port: 1}
}

// fakeRedis answers commands from a map so the store can be tested without a server.
type fakeRedis struct {
	redis.UniversalClient
	keys   map[string]time.Duration
	failOn string
	closed bool
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{keys: map[string]time.Duration{}}
}

func (f *fakeRedis) SetNX(ctx context.Context, key string, _ interface{}, ttl time.Duration) *redis.BoolCmd {
	cmd := redis.NewBoolCmd(ctx)
	if f.failOn == "setnx" {
		cmd.SetErr(errors.New("connection refused"))
		return cmd
	}
	if _, ok := f.keys[key]; ok {
		cmd.SetVal(false)
		return cmd
	}
	f.keys[key] = ttl
	cmd.SetVal(true)
	return cmd
}

func (f *fakeRedis) Exists(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	var n int64
	for _, k := range keys {
		if _, ok := f.keys[k]; ok {
			n++
		}
	}
	cmd.SetVal(n)
	return cmd
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	for _, k := range keys {
		delete(f.keys, k)
	}
	cmd.SetVal(int64(len(keys)))
	return cmd
}

func (f *fakeRedis) Close() error {
	f.closed = true
	return nil
}

func TestRedisIdempotencyStore(t *testing.T) {
	client := newFakeRedis()
	store := NewRedisIdempotencyStoreWithClient(client, "")
	ctx := context.Background()

	isNew, err := store.MarkProcessed(ctx, "abc", time.Hour)
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.Equal(t, time.Hour, client.keys[DefaultKeyPrefix+"abc"])

	isNew, err = store.MarkProcessed(ctx, "abc", time.Hour)
	require.NoError(t, err)
	assert.False(t, isNew)

	processed, err := store.IsProcessed(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, processed)

	require.NoError(t, store.Release(ctx, "abc"))
	processed, err = store.IsProcessed(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, processed)

	require.NoError(t, store.Close())
	assert.True(t, client.closed)
}

func TestRedisIdempotencyStore_Errors(t *testing.T) {
	client := newFakeRedis()
	client.failOn = "setnx"
	store := NewRedisIdempotencyStoreWithClient(client, "test:")

	_, err := store.MarkProcessed(context.Background(), "abc", time.Hour)
	assert.ErrorContains(t, err, "failed to mark idempotency key")
}

func TestIdempotencyStoreFactory_RedisUnavailable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	store, err := NewIdempotencyStoreFactory(configRedis()).Create(ctx, "redis")
	require.NoError(t, err)
	defer store.Close()
	_, ok := store.(*InMemoryIdempotencyStore)
	assert.True(t, ok, "falls back to memory")

	_, err = NewIdempotencyStoreFactory(configRedis(), WithInMemoryFallback(false)).Create(ctx, "redis")
	assert.Error(t, err)
}
