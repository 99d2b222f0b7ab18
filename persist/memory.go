package persist

import (
	"context"
	"fmt"
	"sync"

	"github.com/patrickmn/go-cache"
)

// MemoryStore is a Store holding content in memory. Entries never expire.
type MemoryStore struct {
	mx    sync.Mutex // serializes quota checks
	cache *cache.Cache
	quota int // max. number of bytes, 0 for unlimited
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithQuota limits the total size of the values of a MemoryStore to
// n bytes. Writes beyond the limit fail with ErrQuotaExceeded.
func WithQuota(n int) MemoryOption {
	return func(m *MemoryStore) {
		m.quota = n
	}
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	m := &MemoryStore{
		cache: cache.New(cache.NoExpiration, 0),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get is part of interface Store.
func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	if x, found := m.cache.Get(key); found {
		return x.(string), true, nil
	}
	return "", false, nil
}

// Set is part of interface Store.
func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mx.Lock()
	defer m.mx.Unlock()
	if m.quota > 0 {
		if used := m.usage(key) + len(value); used > m.quota {
			return fmt.Errorf("%w: %d of %d bytes", ErrQuotaExceeded, used, m.quota)
		}
	}
	m.cache.Set(key, value, cache.NoExpiration)
	return nil
}

// Delete removes the value for key, if any.
func (m *MemoryStore) Delete(key string) {
	m.cache.Delete(key)
}

// usage counts the bytes of all values except the one for key.
func (m *MemoryStore) usage(key string) int {
	n := 0
	for k, item := range m.cache.Items() {
		if k == key {
			continue
		}
		if s, ok := item.Object.(string); ok {
			n += len(s)
		}
	}
	return n
}
