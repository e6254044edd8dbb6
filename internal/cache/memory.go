package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

type memoryEntry struct {
	entry   Entry
	expires time.Time
}

// MemoryStore keeps entries in process memory. It is the default store when
// no Redis URL is configured and the store used by tests.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string]memoryEntry
	gens   map[string]uint64
	puts   int
	closed bool
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]memoryEntry),
		gens: make(map[string]uint64),
		now:  time.Now,
	}
}

func (m *MemoryStore) Get(ctx context.Context, key string) (*Entry, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, false, ErrClosed
	}
	e, ok := m.data[key]
	if !ok || (!e.expires.IsZero() && !m.now().Before(e.expires)) {
		return nil, false, nil
	}
	entry := e.entry
	return &entry, true, nil
}

func (m *MemoryStore) Put(ctx context.Context, resource, key string, gen uint64, entry Entry, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return false, ErrClosed
	}
	if m.gens[resource] != gen {
		return false, nil
	}

	var expires time.Time
	if ttl > 0 {
		expires = m.now().Add(ttl)
	}
	m.data[key] = memoryEntry{entry: entry, expires: expires}
	if m.puts++; m.puts%64 == 0 {
		m.sweep()
	}
	return true, nil
}

func (m *MemoryStore) Generation(ctx context.Context, resource string) (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return 0, ErrClosed
	}
	return m.gens[resource], nil
}

func (m *MemoryStore) Invalidate(ctx context.Context, resource string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	m.gens[resource]++

	prefix := resource + Separator
	for key := range m.data {
		if strings.HasPrefix(key, prefix) {
			delete(m.data, key)
		}
	}
	return nil
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return ErrClosed
	}
	return nil
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.data = make(map[string]memoryEntry)
	return nil
}

// Len returns the number of live entries.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	now := m.now()
	for _, e := range m.data {
		if e.expires.IsZero() || now.Before(e.expires) {
			n++
		}
	}
	return n
}

// sweep drops expired entries. Callers hold the write lock.
func (m *MemoryStore) sweep() {
	now := m.now()
	for key, e := range m.data {
		if !e.expires.IsZero() && !now.Before(e.expires) {
			delete(m.data, key)
		}
	}
}
