package cache

import (
	"context"
	"sort"
	"sync"
	"time"
)

type memoryItem struct {
	entry     *Entry
	expiresAt time.Time
}

// MemoryCache is an in-process Cache.
// Expired items are purged lazily on Get and Keys.
type MemoryCache struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   Clock
	items map[string]memoryItem
}

// MemoryOption configures MemoryCache
type MemoryOption func(*MemoryCache)

// WithClock injects the time source, mainly for tests
func WithClock(clock Clock) MemoryOption {
	return func(c *MemoryCache) {
		if clock != nil {
			c.now = clock
		}
	}
}

// NewMemoryCache creates an empty cache whose entries live for ttl
func NewMemoryCache(ttl time.Duration, opts ...MemoryOption) *MemoryCache {
	c := &MemoryCache{
		ttl:   normalizeTTL(ttl),
		now:   time.Now,
		items: make(map[string]memoryItem),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c
}

// Get returns the live entry stored under key
func (c *MemoryCache) Get(_ context.Context, key string) (*Entry, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[key]
	if !ok {
		return nil, false, nil
	}
	if !c.now().Before(item.expiresAt) {
		delete(c.items, key)
		return nil, false, nil
	}

	return item.entry, true, nil
}

// Set stores entry under key, replacing any previous value
func (c *MemoryCache) Set(_ context.Context, key string, entry *Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = memoryItem{
		entry:     entry,
		expiresAt: c.now().Add(c.ttl),
	}
	return nil
}

// Keys lists live keys in lexical order
func (c *MemoryCache) Keys(_ context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	keys := make([]string, 0, len(c.items))
	for key, item := range c.items {
		if !now.Before(item.expiresAt) {
			delete(c.items, key)
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return keys, nil
}
