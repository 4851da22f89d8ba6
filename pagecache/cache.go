// CLAUDE:SUMMARY Tiered fingerprint cache: active slot + URL-keyed LRU, hard/soft invalidation.
// Package pagecache decides how much of a previous build can be reused
// for the current page state. It keeps one active slot for the page the
// session is on, plus a bounded URL-keyed LRU of recent pages for instant
// revisits.
//
// The cache is not internally synchronized: it assumes one active writer
// per logical session. Give each session its own Cache rather than
// sharing one across goroutines.
package pagecache

import (
	"container/list"
	"log/slog"
	"time"

	"github.com/hazyhaar/domap/page"
)

// Tier is the reuse decision for one lookup.
type Tier int

const (
	// TierA: exact fingerprint match, return the cached artifact unchanged.
	TierA Tier = iota
	// TierB: structural match with incidental drift. Cached interactables
	// and their refs stay valid; only compression and metadata re-run.
	TierB
	// TierC: no usable entry, full pipeline rebuild.
	TierC
)

func (t Tier) String() string {
	switch t {
	case TierA:
		return "A"
	case TierB:
		return "B"
	default:
		return "C"
	}
}

// Entry is one cached build. PrunedHTML is retained so a Tier-B refresh
// can re-run compression without re-filtering the DOM.
type Entry struct {
	Map          page.PageMap
	Fingerprint  page.DomFingerprint
	PrunedHTML   string
	Generation   string
	ScrollOffset int
	CreatedAt    time.Time
}

// Stats counts cache outcomes for one session.
type Stats struct {
	ExactHits       int `json:"exact_hits"`
	StructuralHits  int `json:"structural_hits"`
	Misses          int `json:"misses"`
	Expired         int `json:"expired"`
	HardInvalidated int `json:"hard_invalidated"`
	SoftInvalidated int `json:"soft_invalidated"`
	Evicted         int `json:"evicted"`
}

const (
	defaultCapacity = 20
	defaultTTL      = 90 * time.Second
)

// Option configures a Cache.
type Option func(*Cache)

func WithCapacity(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.capacity = n
		}
	}
}

func WithTTL(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.ttl = d
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(c *Cache) { c.log = log }
}

// WithClock replaces the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

type lruItem struct {
	key   string
	entry *Entry
}

// Cache is the two-layer page cache. The active slot tracks the page the
// session currently shows; the LRU keeps history keyed by normalized URL.
type Cache struct {
	capacity int
	ttl      time.Duration
	now      func() time.Time
	log      *slog.Logger

	active    *Entry
	activeURL string

	ll    *list.List // front is most recently used
	items map[string]*list.Element

	stats Stats
}

func New(opts ...Option) *Cache {
	c := &Cache{
		capacity: defaultCapacity,
		ttl:      defaultTTL,
		now:      time.Now,
		log:      slog.Default(),
		ll:       list.New(),
		items:    make(map[string]*list.Element),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup classifies how much of the cached build for rawURL survives the
// live fingerprint. Returns the entry for tiers A and B, nil for C.
// TTL expiry is a silent miss, never an error.
func (c *Cache) Lookup(rawURL string, live page.DomFingerprint) (Tier, *Entry) {
	key := NormalizeURL(rawURL)
	entry := c.lookupEntry(key)
	if entry == nil || live.IsZero() {
		c.stats.Misses++
		return TierC, nil
	}

	switch {
	case live.Equal(entry.Fingerprint):
		c.stats.ExactHits++
		c.log.Debug("cache hit", "tier", "A", "url", key)
		return TierA, entry
	case live.StructurallyEqual(entry.Fingerprint):
		c.stats.StructuralHits++
		c.log.Debug("cache hit", "tier", "B", "url", key)
		return TierB, entry
	default:
		c.stats.Misses++
		return TierC, nil
	}
}

// lookupEntry prefers the active slot, falls back to the LRU, and drops
// entries past their TTL.
func (c *Cache) lookupEntry(key string) *Entry {
	var entry *Entry
	if c.active != nil && c.activeURL == key {
		entry = c.active
	} else if el, ok := c.items[key]; ok {
		c.ll.MoveToFront(el)
		entry = el.Value.(*lruItem).entry
	}
	if entry == nil {
		return nil
	}
	if c.now().Sub(entry.CreatedAt) > c.ttl {
		c.stats.Expired++
		c.removeKey(key)
		if c.activeURL == key {
			c.active = nil
			c.activeURL = ""
		}
		return nil
	}
	return entry
}

// Store records a fresh build as both the active page and an LRU entry.
func (c *Cache) Store(rawURL string, e Entry) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = c.now()
	}
	key := NormalizeURL(rawURL)
	c.active = &e
	c.activeURL = key

	if el, ok := c.items[key]; ok {
		el.Value.(*lruItem).entry = &e
		c.ll.MoveToFront(el)
	} else {
		c.items[key] = c.ll.PushFront(&lruItem{key: key, entry: &e})
	}
	for c.ll.Len() > c.capacity {
		oldest := c.ll.Back()
		c.removeElement(oldest)
		c.stats.Evicted++
	}
}

// Invalidate applies an invalidation event. Hard reasons clear the active
// slot and the URL's LRU entry; soft reasons clear only the active slot,
// so the LRU still serves an instant revisit.
func (c *Cache) Invalidate(rawURL string, reason Reason) {
	key := NormalizeURL(rawURL)
	c.active = nil
	c.activeURL = ""
	if reason.Hard() {
		c.removeKey(key)
		c.stats.HardInvalidated++
		c.log.Debug("cache invalidated", "reason", string(reason), "hard", true, "url", key)
		return
	}
	c.stats.SoftInvalidated++
	c.log.Debug("cache invalidated", "reason", string(reason), "hard", false, "url", key)
}

// Active returns the current active entry, if any.
func (c *Cache) Active() *Entry { return c.active }

// Len reports the LRU population.
func (c *Cache) Len() int { return c.ll.Len() }

func (c *Cache) Stats() Stats { return c.stats }

func (c *Cache) removeKey(key string) {
	if el, ok := c.items[key]; ok {
		c.removeElement(el)
	}
}

func (c *Cache) removeElement(el *list.Element) {
	item := el.Value.(*lruItem)
	delete(c.items, item.key)
	c.ll.Remove(el)
}
