package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/graficador/pkg/adapters/redis"
	"github.com/aretw0/graficador/pkg/domain"
	"github.com/aretw0/graficador/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := setup(t)

	store := redis.NewFromClient(client)
	ports.RunDesignStoreContract(t, store)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := setup(t)

	now := time.Now()
	clock := func() time.Time { return now }

	store := redis.NewFromClient(client, redis.WithTTL(time.Second), redis.WithClock(clock))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.NewDesign("design-ttl", "")))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids, "design-ttl")

	// Expire the key in redis and move the index clock past the deadline.
	mr.FastForward(2 * time.Second)
	now = now.Add(2 * time.Second)

	_, err = store.Load(ctx, "design-ttl")
	assert.ErrorIs(t, err, domain.ErrDesignNotFound)

	ids, err = store.List(ctx)
	require.NoError(t, err)
	assert.NotContains(t, ids, "design-ttl")
}

func TestRedisStore_NoTTLNeverPruned(t *testing.T) {
	_, client := setup(t)

	now := time.Now()
	store := redis.NewFromClient(client, redis.WithClock(func() time.Time { return now }))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.NewDesign("forever", "")))
	now = now.AddDate(10, 0, 0)

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"forever"}, ids)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := setup(t)

	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.NewDesign("my-design", "")))

	assert.True(t, mr.Exists("custom:app:my-design"), "Key should exist with custom prefix")
	assert.True(t, mr.Exists("custom:app:index"), "Index should exist with custom prefix")
	assert.False(t, mr.Exists(redis.DefaultPrefix+"my-design"))
}

func TestRedisStore_CorruptValue(t *testing.T) {
	mr, client := setup(t)
	require.NoError(t, mr.Set(redis.DefaultPrefix+"bad", "{not json"))

	_, err := redis.NewFromClient(client).Load(context.Background(), "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrDesignNotFound)
}
