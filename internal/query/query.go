package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/bilgisen/newsportal/internal/cache"
	"github.com/bilgisen/newsportal/internal/logger"
)

// Status is the state of a read as seen by the page that asked for it.
type Status int

const (
	// StatusIdle means the read was disabled and nothing was fetched.
	StatusIdle Status = iota
	// StatusLoading means the render budget ran out before the fetch
	// finished. The fetch keeps going and fills the cache.
	StatusLoading
	StatusError
	StatusSuccess
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	case StatusSuccess:
		return "success"
	}
	return "unknown"
}

// Result is the outcome of a read.
type Result[T any] struct {
	Status    Status
	Data      T
	Err       error
	Stale     bool
	FetchedAt time.Time
}

func (r Result[T]) Idle() bool    { return r.Status == StatusIdle }
func (r Result[T]) Loading() bool { return r.Status == StatusLoading }
func (r Result[T]) Failed() bool  { return r.Status == StatusError }
func (r Result[T]) Ready() bool   { return r.Status == StatusSuccess }

// Fetcher performs the network call of a read and returns the raw payload.
type Fetcher func(ctx context.Context) (json.RawMessage, error)

type options struct {
	enabled   bool
	staleTime time.Duration
}

// Option tunes a single read.
type Option func(*options)

// Enabled turns the read off when false; the result is StatusIdle and no
// request is made.
func Enabled(enabled bool) Option {
	return func(o *options) { o.enabled = enabled }
}

// StaleTime overrides how long a cached result is served without a refetch.
func StaleTime(d time.Duration) Option {
	return func(o *options) { o.staleTime = d }
}

// Config holds the engine defaults.
type Config struct {
	StaleTime    time.Duration
	TTL          time.Duration
	FetchTimeout time.Duration
}

// Client runs reads through the shared cache store.
type Client struct {
	store cache.Store
	group singleflight.Group
	cfg   Config
	log   *zerolog.Logger
	now   func() time.Time
	wg    sync.WaitGroup
}

// New creates a client over store.
func New(store cache.Store, cfg Config) *Client {
	if cfg.StaleTime <= 0 {
		cfg.StaleTime = time.Minute
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 10 * time.Minute
	}
	if cfg.TTL < cfg.StaleTime {
		cfg.TTL = cfg.StaleTime
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30 * time.Second
	}
	return &Client{
		store: store,
		cfg:   cfg,
		log:   logger.Get(),
		now:   time.Now,
	}
}

// Store returns the underlying cache store.
func (c *Client) Store() cache.Store {
	return c.store
}

// Wait blocks until background fetches have finished.
func (c *Client) Wait() {
	c.wg.Wait()
}

// Fetch serves key from the cache or through fetch and decodes the payload
// into T. ctx bounds how long the caller waits, not the fetch itself: when
// ctx ends first the result is StatusLoading and the fetch completes in the
// background.
func Fetch[T any](ctx context.Context, c *Client, key Key, fetch Fetcher, opts ...Option) Result[T] {
	o := options{enabled: true, staleTime: c.cfg.StaleTime}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.enabled {
		return Result[T]{Status: StatusIdle}
	}

	entry, stale, err := c.load(ctx, key, fetch, o)
	switch {
	case errors.Is(err, errPending):
		return Result[T]{Status: StatusLoading}
	case err != nil:
		return Result[T]{Status: StatusError, Err: err}
	}

	var data T
	if err := json.Unmarshal(entry.Data, &data); err != nil {
		return Result[T]{Status: StatusError, Err: fmt.Errorf("decode %s: %w", key.Resource, err)}
	}
	return Result[T]{Status: StatusSuccess, Data: data, Stale: stale, FetchedAt: entry.FetchedAt}
}

var errPending = errors.New("query: fetch still in flight")

func (c *Client) load(ctx context.Context, key Key, fetch Fetcher, o options) (*cache.Entry, bool, error) {
	k := key.String()

	entry, ok, err := c.store.Get(ctx, k)
	if err != nil {
		c.log.Warn().Err(err).Str("key", k).Msg("Cache read failed")
		ok = false
	}
	if ok {
		if c.now().Sub(entry.FetchedAt) < o.staleTime {
			return entry, false, nil
		}
		c.refresh(ctx, key, k, fetch)
		return entry, true, nil
	}

	c.log.Debug().Str("key", k).Msg("Cache miss")
	gen := c.generation(ctx, key.Resource)
	ch := c.group.DoChan(flightKey(k, gen), func() (any, error) {
		return c.fetchAndStore(ctx, key.Resource, k, gen, fetch)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		return res.Val.(*cache.Entry), false, nil
	case <-ctx.Done():
		return nil, false, errPending
	}
}

// flightKey scopes de-duplication to one generation: a read issued after
// an invalidation never joins a fetch that started before it.
func flightKey(k string, gen uint64) string {
	return k + "#" + strconv.FormatUint(gen, 10)
}

func (c *Client) generation(ctx context.Context, r Resource) uint64 {
	gen, err := c.store.Generation(context.WithoutCancel(ctx), string(r))
	if err != nil {
		c.log.Warn().Err(err).Str("resource", string(r)).Msg("Cache generation read failed")
	}
	return gen
}

// refresh refetches a stale entry without blocking the caller.
func (c *Client) refresh(ctx context.Context, key Key, k string, fetch Fetcher) {
	gen := c.generation(ctx, key.Resource)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		_, err, _ := c.group.Do(flightKey(k, gen), func() (any, error) {
			return c.fetchAndStore(ctx, key.Resource, k, gen, fetch)
		})
		if err != nil {
			c.log.Warn().Err(err).Str("key", k).Msg("Background refetch failed")
		}
	}()
}

// fetchAndStore runs fetch detached from the caller's cancellation and
// stores the result under k unless the resource moved past gen meanwhile.
func (c *Client) fetchAndStore(parent context.Context, resource Resource, k string, gen uint64, fetch Fetcher) (*cache.Entry, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), c.cfg.FetchTimeout)
	defer cancel()

	raw, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	entry := &cache.Entry{Data: raw, FetchedAt: c.now()}
	if len(entry.Data) == 0 {
		entry.Data = json.RawMessage("null")
	}

	stored, err := c.store.Put(ctx, string(resource), k, gen, *entry, c.cfg.TTL)
	switch {
	case err != nil:
		c.log.Warn().Err(err).Str("key", k).Msg("Cache write failed")
	case !stored:
		c.log.Debug().Str("key", k).Msg("Discarded result fetched before invalidation")
	}
	return entry, nil
}

// Invalidate marks every cached read of the given resources stale. It is
// idempotent.
func (c *Client) Invalidate(ctx context.Context, resources ...Resource) error {
	var errs []error
	for _, r := range resources {
		if err := c.store.Invalidate(ctx, string(r)); err != nil {
			errs = append(errs, fmt.Errorf("invalidate %s: %w", r, err))
			continue
		}
		c.log.Debug().Str("resource", string(r)).Msg("Cache invalidated")
	}
	return errors.Join(errs...)
}

// Mutation describes a write and the resources it makes stale.
type Mutation struct {
	Name        string
	Invalidates []Resource
}

// Mutate runs a write. On success every resource the mutation declares is
// invalidated before Mutate returns, so reads issued afterwards refetch.
// Writes are never retried.
func Mutate[T any](ctx context.Context, c *Client, m Mutation, run func(ctx context.Context) (T, error)) (T, error) {
	out, err := run(ctx)
	if err != nil {
		c.log.Warn().Err(err).Str("mutation", m.Name).Msg("Mutation failed")
		return out, fmt.Errorf("%s: %w", m.Name, err)
	}

	if err := c.Invalidate(context.WithoutCancel(ctx), m.Invalidates...); err != nil {
		c.log.Error().Err(err).Str("mutation", m.Name).Msg("Invalidation after mutation failed")
		return out, err
	}
	return out, nil
}
