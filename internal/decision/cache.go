package decision

import (
	"container/list"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spec-kit/parts-assistant/internal/domain"
)

const (
	// DefaultCacheTTL is how long a decision stays valid after insertion.
	DefaultCacheTTL = 5 * time.Minute
	// DefaultCacheEntries bounds the in-memory cache.
	DefaultCacheEntries = 100
)

// Cache stores decisions keyed by CacheKey.
type Cache interface {
	Get(ctx context.Context, key string) (domain.Decision, bool)
	Set(ctx context.Context, key string, decision domain.Decision)
}

// CacheKey is the lower-cased, whitespace-collapsed message plus the history length.
func CacheKey(message string, historyLen int) string {
	return fmt.Sprintf("%s_%d", strings.Join(strings.Fields(strings.ToLower(message)), " "), historyLen)
}

type cacheEntry struct {
	key      string
	decision domain.Decision
	created  time.Time
}

// MemoryCache is a process-local TTL cache that evicts the oldest insertion
// once it holds max entries.
type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	max     int
	now     func() time.Time
	order   *list.List
	entries map[string]*list.Element
}

// NewMemoryCache creates a cache. Non-positive ttl or max fall back to the defaults.
func NewMemoryCache(ttl time.Duration, max int) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if max <= 0 {
		max = DefaultCacheEntries
	}
	return &MemoryCache{
		ttl:     ttl,
		max:     max,
		now:     time.Now,
		order:   list.New(),
		entries: make(map[string]*list.Element),
	}
}

// Get returns the decision under key. Expired entries are removed on lookup.
func (c *MemoryCache) Get(_ context.Context, key string) (domain.Decision, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return domain.Decision{}, false
	}
	entry := el.Value.(*cacheEntry)
	if c.now().Sub(entry.created) > c.ttl {
		c.remove(el)
		return domain.Decision{}, false
	}
	return entry.decision, true
}

// Set stores decision under key, evicting the oldest entry when full.
func (c *MemoryCache) Set(_ context.Context, key string, decision domain.Decision) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.remove(el)
	}
	for c.order.Len() >= c.max {
		c.remove(c.order.Front())
	}
	c.entries[key] = c.order.PushBack(&cacheEntry{key: key, decision: decision, created: c.now()})
}

// Len is the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *MemoryCache) remove(el *list.Element) {
	c.order.Remove(el)
	delete(c.entries, el.Value.(*cacheEntry).key)
}
