package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"sync"
	"time"
)

// cacheEntry represents a cached completion.
type cacheEntry struct {
	expiry     time.Time
	completion string
}

// responseCache is a TTL cache of completions. Expired entries are dropped
// lazily: on lookup, and by a sweep on insert at most once per TTL.
type responseCache struct {
	entries   map[string]cacheEntry
	now       func() time.Time
	lastSweep time.Time
	ttl       time.Duration
	mu        sync.Mutex
}

// newResponseCache creates a cache. A zero ttl selects 15 minutes.
func newResponseCache(ttl time.Duration) *responseCache {
	if ttl == 0 {
		ttl = 15 * time.Minute
	}
	return &responseCache{
		entries:   make(map[string]cacheEntry),
		now:       time.Now,
		lastSweep: time.Now(),
		ttl:       ttl,
	}
}

func (c *responseCache) get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if c.now().After(entry.expiry) {
		delete(c.entries, key)
		return "", false
	}
	return entry.completion, true
}

func (c *responseCache) set(key string, completion string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if now.Sub(c.lastSweep) >= c.ttl {
		for k, e := range c.entries {
			if now.After(e.expiry) {
				delete(c.entries, k)
			}
		}
		c.lastSweep = now
	}
	c.entries[key] = cacheEntry{completion: completion, expiry: now.Add(c.ttl)}
}

func (c *responseCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

func (c *responseCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// cacheKey hashes every field that influences the completion.
func cacheKey(req Request) string {
	h := sha256.New()
	h.Write([]byte(req.System))
	h.Write([]byte{0})
	h.Write([]byte(req.Prompt))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatFloat(req.Temperature, 'f', -1, 64)))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(req.MaxTokens)))
	return hex.EncodeToString(h.Sum(nil))
}

// cachedClient serves repeated identical requests from memory.
type cachedClient struct {
	next  Client
	cache *responseCache
}

func newCachedClient(next Client, ttl time.Duration) *cachedClient {
	return &cachedClient{next: next, cache: newResponseCache(ttl)}
}

// Complete returns a cached completion or delegates to the wrapped client.
// Failed completions are never cached.
func (c *cachedClient) Complete(ctx context.Context, req Request) (string, error) {
	key := cacheKey(req)
	if completion, ok := c.cache.get(key); ok {
		return completion, nil
	}

	completion, err := c.next.Complete(ctx, req)
	if err != nil {
		return "", err
	}

	c.cache.set(key, completion)
	return completion, nil
}
