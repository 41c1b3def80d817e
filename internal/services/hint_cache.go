package services

import (
	"strings"
	"sync"
	"time"

	"github.com/Conceptual-Machines/melodycraft-api/internal/composer"
)

// hintCache memoises hints per prompt for a fixed TTL
type hintCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]hintCacheEntry
	now     func() time.Time
}

type hintCacheEntry struct {
	hint    composer.Hint
	expires time.Time
}

func newHintCache(ttl time.Duration) *hintCache {
	return &hintCache{
		ttl:     ttl,
		entries: make(map[string]hintCacheEntry),
		now:     time.Now,
	}
}

func cacheKey(prompt string) string {
	return strings.TrimSpace(prompt)
}

// get returns a copy of a live entry. A non-positive TTL disables the cache.
func (c *hintCache) get(prompt string) (*composer.Hint, bool) {
	if c == nil || c.ttl <= 0 {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(prompt)
	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(entry.expires) {
		delete(c.entries, key)
		return nil, false
	}
	return cloneHint(entry.hint), true
}

func (c *hintCache) set(prompt string, hint *composer.Hint) {
	if c == nil || c.ttl <= 0 || hint == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	// Sweep expired entries on write so the map cannot grow without bound
	for k, e := range c.entries {
		if !now.Before(e.expires) {
			delete(c.entries, k)
		}
	}
	c.entries[cacheKey(prompt)] = hintCacheEntry{hint: *cloneHint(*hint), expires: now.Add(c.ttl)}
}

func (c *hintCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func cloneHint(h composer.Hint) *composer.Hint {
	h.Instruments = append([]string(nil), h.Instruments...)
	return &h
}
