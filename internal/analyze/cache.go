package analyze

import (
	"context"
	"sync"
	"time"

	"github.com/tahmarrrr23/tappval/internal/model"
)

// cacheEntry holds a result with the time it was fetched.
type cacheEntry struct {
	result    *model.AnalyzeResult
	timestamp time.Time
}

// Cache is an Analyzer that keeps results per target URL for a TTL.
type Cache struct {
	next    Analyzer
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewCache wraps next. A ttl of 0 disables caching.
func NewCache(next Analyzer, ttl time.Duration) *Cache {
	return &Cache{
		next:    next,
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Analyze returns the cached result if within TTL, otherwise analyzes fresh.
// Failures are not cached.
func (c *Cache) Analyze(ctx context.Context, target string) (*model.AnalyzeResult, error) {
	if c.ttl == 0 {
		return c.next.Analyze(ctx, target)
	}

	c.mu.Lock()
	if entry, ok := c.entries[target]; ok && c.now().Sub(entry.timestamp) < c.ttl {
		result := entry.result
		c.mu.Unlock()
		return result, nil
	}
	c.mu.Unlock()

	result, err := c.next.Analyze(ctx, target)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[target] = cacheEntry{result: result, timestamp: c.now()}
	c.mu.Unlock()

	return result, nil
}

// Invalidate removes the entry for target.
func (c *Cache) Invalidate(target string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, target)
}

// InvalidateAll clears the entire cache.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// Len returns the number of cached targets, expired ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
