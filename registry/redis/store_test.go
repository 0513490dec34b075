package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolever/automaton"
	"github.com/wolever/automaton/registry"
	"github.com/wolever/automaton/registry/redis"
	"github.com/wolever/automaton/registry/storetest"
)

func newStore(t *testing.T, opts ...redis.Option) (*redis.Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	store := redis.NewFromClient(client, opts...)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisStore_Contract(t *testing.T) {
	store, _ := newStore(t)
	storetest.RunStoreContract(t, store)
}

func TestRedisStore_Keys(t *testing.T) {
	ctx := context.Background()
	store, mr := newStore(t, redis.WithPrefix("test:"))

	require.NoError(t, store.Ping(ctx))
	require.NoError(t, store.Save(ctx, "letter", automaton.ByLetter("a")))

	val, err := mr.Get("test:letter")
	require.NoError(t, err)
	assert.Equal(t, "0 1\n0\n0 a 1\nf 1\n", val)
	assert.True(t, mr.Exists("test::index"))
}

func TestRedisStore_TTL(t *testing.T) {
	ctx := context.Background()
	store, mr := newStore(t, redis.WithTTL(time.Minute))

	require.NoError(t, store.Save(ctx, "short", automaton.ByLetter("a")))
	assert.Equal(t, time.Minute, mr.TTL("automaton:short"))

	mr.FastForward(2 * time.Minute)
	_, err := store.Load(ctx, "short")
	assert.ErrorIs(t, err, registry.ErrNotFound)
}

func TestRedisStore_CorruptValue(t *testing.T) {
	ctx := context.Background()
	store, mr := newStore(t)

	require.NoError(t, mr.Set("automaton:bad", "nonsense"))
	_, err := store.Load(ctx, "bad")
	var ferr *automaton.FormatError
	assert.ErrorAs(t, err, &ferr)
}

func TestRedisStore_InvalidName(t *testing.T) {
	store, _ := newStore(t)
	err := store.Save(context.Background(), "no spaces", automaton.New())
	assert.ErrorIs(t, err, registry.ErrInvalidName)
}
