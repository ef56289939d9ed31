package cache

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-sitekit/pkg/interfaces"
)

type memoryEntry struct {
	value     any
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryProvider is a process-local cache with per-entry TTL. Entries are
// evicted lazily on read; a zero TTL never expires.
type MemoryProvider struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemory constructs an empty in-memory cache.
func NewMemory() *MemoryProvider {
	return &MemoryProvider{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

var _ interfaces.CacheProvider = (*MemoryProvider)(nil)

// Get returns the cached value, or nil when absent or expired. Misses are
// not errors.
func (m *MemoryProvider) Get(_ context.Context, key string) (any, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if entry.expired(m.now()) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return nil, nil
	}
	return entry.value, nil
}

func (m *MemoryProvider) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.entries[key] = entry
	m.mu.Unlock()
	return nil
}

func (m *MemoryProvider) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

func (m *MemoryProvider) Clear(context.Context) error {
	m.mu.Lock()
	m.entries = make(map[string]memoryEntry)
	m.mu.Unlock()
	return nil
}

// NoOp returns a cache that stores nothing; every read is a miss.
func NoOp() interfaces.CacheProvider {
	return noopProvider{}
}

type noopProvider struct{}

func (noopProvider) Get(context.Context, string) (any, error) {
	return nil, nil
}

func (noopProvider) Set(context.Context, string, any, time.Duration) error {
	return nil
}

func (noopProvider) Delete(context.Context, string) error {
	return nil
}

func (noopProvider) Clear(context.Context) error {
	return nil
}
