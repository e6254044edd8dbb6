package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	store := NewRedisStoreWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test:")
	t.Cleanup(func() { store.Close() })
	return store, mr
}

func entry(body string) Entry {
	return Entry{Data: json.RawMessage(body), FetchedAt: time.Now().UTC().Truncate(time.Second)}
}

func testStore(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("miss", func(t *testing.T) {
		_, ok, err := store.Get(ctx, "articles|latest")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("put and get", func(t *testing.T) {
		ok, err := store.Put(ctx, "articles", "articles|latest", 0, entry(`[1,2]`), time.Minute)
		require.NoError(t, err)
		require.True(t, ok)

		got, ok, err := store.Get(ctx, "articles|latest")
		require.NoError(t, err)
		require.True(t, ok)
		assert.JSONEq(t, `[1,2]`, string(got.Data))
	})

	t.Run("invalidate drops only the resource", func(t *testing.T) {
		_, err := store.Put(ctx, "article", "article|x", 0, entry(`{"slug":"x"}`), time.Minute)
		require.NoError(t, err)

		require.NoError(t, store.Invalidate(ctx, "articles"))

		_, ok, err := store.Get(ctx, "articles|latest")
		require.NoError(t, err)
		assert.False(t, ok)

		_, ok, err = store.Get(ctx, "article|x")
		require.NoError(t, err)
		assert.True(t, ok)

		gen, err := store.Generation(ctx, "articles")
		require.NoError(t, err)
		assert.Equal(t, uint64(1), gen)
	})

	t.Run("invalidate is idempotent", func(t *testing.T) {
		require.NoError(t, store.Invalidate(ctx, "ads"))
		require.NoError(t, store.Invalidate(ctx, "ads"))

		_, ok, err := store.Get(ctx, "ads|active")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("stale generation is rejected", func(t *testing.T) {
		gen, err := store.Generation(ctx, "categories")
		require.NoError(t, err)

		require.NoError(t, store.Invalidate(ctx, "categories"))

		ok, err := store.Put(ctx, "categories", "categories|menu", gen, entry(`[]`), time.Minute)
		require.NoError(t, err)
		assert.False(t, ok)

		_, found, err := store.Get(ctx, "categories|menu")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, store.Ping(ctx))
	})
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestRedisStore(t *testing.T) {
	store, _ := newRedisStore(t)
	testStore(t, store)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }

	ctx := context.Background()
	_, err := store.Put(ctx, "articles", "articles|latest", 0, entry(`[]`), time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())

	now = now.Add(2 * time.Minute)
	_, ok, err := store.Get(ctx, "articles|latest")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStoreClosed(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Close())

	_, _, err := store.Get(context.Background(), "articles|latest")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, store.Ping(context.Background()), ErrClosed)
}

func TestRedisStoreExpiry(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	_, err := store.Put(ctx, "articles", "articles|latest", 0, entry(`[]`), time.Minute)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, ok, err := store.Get(ctx, "articles|latest")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStoreKeyLayout(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	_, err := store.Put(ctx, "articles", "articles|search?q=ঢাকা", 0, entry(`[]`), time.Minute)
	require.NoError(t, err)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.Regexp(t, `^test:q:articles\|[0-9a-f]{64}$`, keys[0])
}

func TestResourceOf(t *testing.T) {
	assert.Equal(t, "articles", ResourceOf("articles|latest"))
	assert.Equal(t, "dashboard", ResourceOf("dashboard"))
}
