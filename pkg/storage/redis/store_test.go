package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calyptra/synapse/pkg/plasm"
	"github.com/calyptra/synapse/pkg/storage"
	"github.com/calyptra/synapse/pkg/storage/redis"
)

func newStore(t *testing.T, opts ...redis.Option) (*redis.Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	return redis.NewFromClient(client, opts...), mr
}

func TestRedisStore_Contract(t *testing.T) {
	store, _ := newStore(t)
	storage.RunTopologyStoreContract(t, store)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	store, mr := newStore(t, redis.WithTTL(time.Second))
	ctx := context.Background()

	doc := plasm.Document{Cells: []plasm.CellDoc{{Name: "gen", Type: "Generate"}}}
	require.NoError(t, store.Save(ctx, "ephemeral", doc))

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, names, "ephemeral")

	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, "ephemeral")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	names, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestRedisStore_CustomPrefix(t *testing.T) {
	store, mr := newStore(t, redis.WithPrefix("myapp:graphs"))
	ctx := context.Background()

	doc := plasm.Document{Cells: []plasm.CellDoc{{Name: "gen", Type: "Generate"}}}
	require.NoError(t, store.Save(ctx, "g", doc))
	assert.True(t, mr.Exists("myapp:graphs:g"))
}
