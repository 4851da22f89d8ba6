package templates

import (
	"context"
	"log/slog"
	"time"
)

const (
	defaultTTL = 24 * time.Hour
	maxStrikes = 3
)

// CacheOption configures a Cache.
type CacheOption func(*Cache)

func WithTTL(d time.Duration) CacheOption {
	return func(c *Cache) {
		if d > 0 {
			c.ttl = d
		}
	}
}

func WithLogger(log *slog.Logger) CacheOption {
	return func(c *Cache) { c.log = log }
}

// WithStore attaches SQLite persistence: reads fall back to the store on
// a memory miss, writes and evictions pass through. A nil store keeps the
// cache memory-only.
func WithStore(s *Store) CacheOption {
	return func(c *Cache) { c.store = s }
}

// WithClock replaces the time source, for tests.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) { c.now = now }
}

type cacheEntry struct {
	data      Data
	updatedAt time.Time
	strikes   int
}

// Cache holds learned templates in memory with optional write-through
// persistence. Like the page cache it assumes one writer per session and
// is not internally synchronized.
type Cache struct {
	ttl     time.Duration
	now     func() time.Time
	log     *slog.Logger
	store   *Store
	entries map[Key]*cacheEntry
}

func NewCache(opts ...CacheOption) *Cache {
	c := &Cache{
		ttl:     defaultTTL,
		now:     time.Now,
		log:     slog.Default(),
		entries: make(map[Key]*cacheEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the template for k if one exists and is fresh. Expired
// entries are dropped silently; a memory miss consults the store.
func (c *Cache) Get(k Key) (Data, bool) {
	if e, ok := c.entries[k]; ok {
		if c.now().Sub(e.updatedAt) > c.ttl {
			c.evict(k, "ttl")
			return Data{}, false
		}
		return e.data, true
	}
	if c.store == nil {
		return Data{}, false
	}
	d, updatedAt, err := c.store.Get(context.Background(), k)
	if err != nil {
		return Data{}, false
	}
	if c.now().Sub(updatedAt) > c.ttl {
		c.evict(k, "ttl")
		return Data{}, false
	}
	c.entries[k] = &cacheEntry{data: d, updatedAt: updatedAt}
	return d, true
}

// Put stores a freshly learned template and clears any strike history.
// Persistence failures are logged and otherwise ignored: losing a hint
// costs a slower next visit, nothing more.
func (c *Cache) Put(k Key, d Data) {
	now := c.now()
	c.entries[k] = &cacheEntry{data: d, updatedAt: now}
	if c.store != nil {
		if err := c.store.Put(context.Background(), k, d, now); err != nil {
			c.log.Warn("template persist failed", "domain", k.Domain, "page_type", string(k.PageType), "error", err)
		}
	}
}

// Observe validates this build's measurements against the stored
// template. A match resets the strike counter; the third consecutive
// mismatch evicts the template. Reports whether an eviction happened.
func (c *Cache) Observe(k Key, observed Data) (evicted bool) {
	e, ok := c.entries[k]
	if !ok {
		return false
	}
	if e.data.Matches(observed) {
		e.strikes = 0
		return false
	}
	e.strikes++
	c.log.Debug("template mismatch", "domain", k.Domain, "page_type", string(k.PageType), "strikes", e.strikes)
	if e.strikes >= maxStrikes {
		c.evict(k, "strikes")
		return true
	}
	return false
}

// Evict removes the template for k from memory and the store.
func (c *Cache) Evict(k Key) { c.evict(k, "explicit") }

func (c *Cache) evict(k Key, cause string) {
	delete(c.entries, k)
	if c.store != nil {
		if err := c.store.Delete(context.Background(), k); err != nil {
			c.log.Warn("template delete failed", "domain", k.Domain, "error", err)
		}
	}
	c.log.Debug("template evicted", "domain", k.Domain, "page_type", string(k.PageType), "cause", cause)
}

// Len reports how many templates are held in memory.
func (c *Cache) Len() int { return len(c.entries) }
