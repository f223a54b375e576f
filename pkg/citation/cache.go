package citation

import (
	"context"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/platinummonkey/kgsearch/pkg/observability"
)

// Store is a shared second level cache
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Clear(ctx context.Context) error
}

// Cache level names reported to observers
const (
	LevelMemory = "memory"
	LevelShared = "shared"
)

// CacheStats holds cache statistics
type CacheStats struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Entries int   `json:"entries"`
}

// Cache is a two level cache: an in-process LRU in front of an optional
// shared Store. Failures of the store degrade to misses.
type Cache struct {
	memory  *lru.LRU[string, string]
	shared  Store
	hits    atomic.Int64
	misses  atomic.Int64
	observe func(level string, hit bool)
	logger  *observability.Logger
}

// NewCache creates a cache holding up to size entries in memory for ttl
func NewCache(size int, ttl time.Duration, shared Store, logger *observability.Logger) *Cache {
	if size < 10 {
		size = 10
	}
	return &Cache{
		memory: lru.NewLRU[string, string](size, nil, ttl),
		shared: shared,
		logger: logger,
	}
}

// Get returns a cached citation
func (c *Cache) Get(ctx context.Context, key string) (string, bool) {
	if v, ok := c.memory.Get(key); ok {
		c.record(LevelMemory, true)
		return v, true
	}
	c.record(LevelMemory, false)
	if c.shared == nil {
		return "", false
	}
	v, ok, err := c.shared.Get(ctx, key)
	if err != nil {
		c.logger.WithError(err).Warn("Citation cache lookup failed")
		ok = false
	}
	c.record(LevelShared, ok)
	if !ok {
		return "", false
	}
	c.memory.Add(key, v)
	return v, true
}

// Set stores a citation in both levels
func (c *Cache) Set(ctx context.Context, key, value string) {
	c.memory.Add(key, value)
	if c.shared == nil {
		return
	}
	if err := c.shared.Set(ctx, key, value); err != nil {
		c.logger.WithError(err).Warn("Citation cache write failed")
	}
}

// Clear empties both levels
func (c *Cache) Clear(ctx context.Context) error {
	c.memory.Purge()
	if c.shared == nil {
		return nil
	}
	return c.shared.Clear(ctx)
}

// Stats returns the statistics of the memory level
func (c *Cache) Stats() CacheStats {
	return CacheStats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Entries: c.memory.Len(),
	}
}

func (c *Cache) record(level string, hit bool) {
	if level == LevelMemory {
		if hit {
			c.hits.Add(1)
		} else {
			c.misses.Add(1)
		}
	}
	if c.observe != nil {
		c.observe(level, hit)
	}
}
