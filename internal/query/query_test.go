package query

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bilgisen/newsportal/internal/cache"
)

const articles Resource = "articles"

type counter struct {
	calls atomic.Int32
	body  atomic.Value
}

func newCounter(body string) *counter {
	c := &counter{}
	c.body.Store(body)
	return c
}

func (c *counter) fetch(ctx context.Context) (json.RawMessage, error) {
	c.calls.Add(1)
	return json.RawMessage(c.body.Load().(string)), nil
}

func newTestClient() (*Client, *time.Time) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c := New(cache.NewMemoryStore(), Config{StaleTime: time.Minute})
	c.now = func() time.Time { return now }
	return c, &now
}

func TestKeyString(t *testing.T) {
	a := NewKey(articles, "list").With(Params{"status": "published", "limit": 12, "category": ""})
	b := NewKey(articles, "list").With(Params{"limit": 12, "status": "published", "q": nil})

	assert.Equal(t, a.String(), b.String())
	assert.Equal(t, "articles|list?limit=12&status=published", a.String())
	assert.Equal(t, "articles|", NewKey(articles).String())
}

func TestParamsValues(t *testing.T) {
	yes := true
	v := Params{"isActive": &yes, "showInMenu": true, "page": 2, "skip": (*int)(nil)}.Values()
	assert.Equal(t, "true", v.Get("isActive"))
	assert.Equal(t, "true", v.Get("showInMenu"))
	assert.Equal(t, "2", v.Get("page"))
	assert.False(t, v.Has("skip"))
}

func TestFetchServesFreshEntryWithoutNetwork(t *testing.T) {
	c, _ := newTestClient()
	api := newCounter(`["a","b"]`)
	key := NewKey(articles, "latest")

	first := Fetch[[]string](context.Background(), c, key, api.fetch)
	require.True(t, first.Ready())
	assert.Equal(t, []string{"a", "b"}, first.Data)

	second := Fetch[[]string](context.Background(), c, key, api.fetch)
	require.True(t, second.Ready())
	assert.False(t, second.Stale)
	assert.Equal(t, int32(1), api.calls.Load())
}

func TestFetchServesStaleAndRefetches(t *testing.T) {
	c, now := newTestClient()
	api := newCounter(`["old"]`)
	key := NewKey(articles, "latest")

	Fetch[[]string](context.Background(), c, key, api.fetch)

	*now = now.Add(2 * time.Minute)
	api.body.Store(`["new"]`)

	stale := Fetch[[]string](context.Background(), c, key, api.fetch)
	require.True(t, stale.Ready())
	assert.True(t, stale.Stale)
	assert.Equal(t, []string{"old"}, stale.Data)

	c.Wait()

	fresh := Fetch[[]string](context.Background(), c, key, api.fetch)
	assert.False(t, fresh.Stale)
	assert.Equal(t, []string{"new"}, fresh.Data)
	assert.Equal(t, int32(2), api.calls.Load())
}

func TestFetchDisabled(t *testing.T) {
	c, _ := newTestClient()
	api := newCounter(`[]`)

	res := Fetch[[]string](context.Background(), c, NewKey(articles, "search"), api.fetch, Enabled(false))
	assert.True(t, res.Idle())
	assert.Zero(t, api.calls.Load())
}

func TestFetchError(t *testing.T) {
	c, _ := newTestClient()
	boom := errors.New("boom")

	res := Fetch[[]string](context.Background(), c, NewKey(articles), func(ctx context.Context) (json.RawMessage, error) {
		return nil, boom
	})
	require.True(t, res.Failed())
	assert.ErrorIs(t, res.Err, boom)

	// Errors are not cached.
	api := newCounter(`[]`)
	res = Fetch[[]string](context.Background(), c, NewKey(articles), api.fetch)
	assert.True(t, res.Ready())
	assert.Equal(t, int32(1), api.calls.Load())
}

func TestFetchDecodeError(t *testing.T) {
	c, _ := newTestClient()
	api := newCounter(`{"not":"a list"}`)

	res := Fetch[[]string](context.Background(), c, NewKey(articles), api.fetch)
	assert.True(t, res.Failed())
}

func TestFetchBudgetExpiresWhileFetchCompletes(t *testing.T) {
	c, _ := newTestClient()
	release := make(chan struct{})
	key := NewKey(articles, "slow")

	slow := func(ctx context.Context) (json.RawMessage, error) {
		<-release
		return json.RawMessage(`["late"]`), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	res := Fetch[[]string](ctx, c, key, slow)
	assert.True(t, res.Loading())

	close(release)
	require.Eventually(t, func() bool {
		_, ok, _ := c.Store().Get(context.Background(), key.String())
		return ok
	}, time.Second, 5*time.Millisecond)

	api := newCounter(`["unused"]`)
	res = Fetch[[]string](context.Background(), c, key, api.fetch)
	assert.Equal(t, []string{"late"}, res.Data)
	assert.Zero(t, api.calls.Load())
}

func TestFetchDeduplicatesConcurrentMisses(t *testing.T) {
	c, _ := newTestClient()
	var calls atomic.Int32
	release := make(chan struct{})

	fetch := func(ctx context.Context) (json.RawMessage, error) {
		calls.Add(1)
		<-release
		return json.RawMessage(`["x"]`), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := Fetch[[]string](context.Background(), c, NewKey(articles, "featured"), fetch)
			assert.True(t, res.Ready())
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestMutateInvalidatesDeclaredResources(t *testing.T) {
	c, _ := newTestClient()
	public := newCounter(`["a"]`)
	admin := newCounter(`["a"]`)
	other := newCounter(`["c"]`)

	read := func() {
		Fetch[[]string](context.Background(), c, NewKey(articles, "latest"), public.fetch)
		Fetch[[]string](context.Background(), c, NewKey("admin-articles"), admin.fetch)
		Fetch[[]string](context.Background(), c, NewKey("categories"), other.fetch)
	}
	read()

	m := Mutation{Name: "save article", Invalidates: []Resource{articles, "admin-articles"}}
	out, err := Mutate(context.Background(), c, m, func(ctx context.Context) (string, error) {
		return "saved", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "saved", out)

	read()
	assert.Equal(t, int32(2), public.calls.Load())
	assert.Equal(t, int32(2), admin.calls.Load())
	assert.Equal(t, int32(1), other.calls.Load())
}

func TestMutateFailureKeepsCache(t *testing.T) {
	c, _ := newTestClient()
	api := newCounter(`["a"]`)
	Fetch[[]string](context.Background(), c, NewKey(articles), api.fetch)

	boom := errors.New("rejected")
	_, err := Mutate(context.Background(), c, Mutation{Name: "save article", Invalidates: []Resource{articles}},
		func(ctx context.Context) (struct{}, error) { return struct{}{}, boom })
	assert.ErrorIs(t, err, boom)

	Fetch[[]string](context.Background(), c, NewKey(articles), api.fetch)
	assert.Equal(t, int32(1), api.calls.Load())
}

func TestFetchStartedBeforeInvalidationIsDiscarded(t *testing.T) {
	c, _ := newTestClient()
	started := make(chan struct{})
	release := make(chan struct{})
	key := NewKey(articles, "latest")

	slow := func(ctx context.Context) (json.RawMessage, error) {
		close(started)
		<-release
		return json.RawMessage(`["before"]`), nil
	}

	done := make(chan Result[[]string])
	go func() { done <- Fetch[[]string](context.Background(), c, key, slow) }()

	<-started
	require.NoError(t, c.Invalidate(context.Background(), articles))
	close(release)

	// The caller still gets its answer, but the cache stays empty.
	res := <-done
	assert.Equal(t, []string{"before"}, res.Data)

	api := newCounter(`["after"]`)
	res = Fetch[[]string](context.Background(), c, key, api.fetch)
	assert.Equal(t, []string{"after"}, res.Data)
	assert.Equal(t, int32(1), api.calls.Load())
}

func TestReadAfterMutationDoesNotJoinOlderFetch(t *testing.T) {
	c, _ := newTestClient()
	started := make(chan struct{})
	release := make(chan struct{})
	key := NewKey(articles, "latest")

	old := func(ctx context.Context) (json.RawMessage, error) {
		close(started)
		<-release
		return json.RawMessage(`"old"`), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.True(t, Fetch[string](ctx, c, key, old).Loading())
	<-started

	m := Mutation{Name: "save article", Invalidates: []Resource{articles}}
	_, err := Mutate(context.Background(), c, m, func(ctx context.Context) (string, error) {
		return "saved", nil
	})
	require.NoError(t, err)

	done := make(chan Result[string])
	go func() {
		done <- Fetch[string](context.Background(), c, key, func(ctx context.Context) (json.RawMessage, error) {
			return json.RawMessage(`"new"`), nil
		})
	}()

	res := <-done
	close(release)
	require.True(t, res.Ready())
	assert.Equal(t, "new", res.Data)

	// The older fetch finishing later must not replace the fresh entry.
	time.Sleep(20 * time.Millisecond)
	res = Fetch[string](context.Background(), c, key, newCounter(`"unused"`).fetch)
	assert.Equal(t, "new", res.Data)
}
