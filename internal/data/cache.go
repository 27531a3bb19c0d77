package data

import (
	"sync"
	"time"

	"github.com/xuefei993/renewables/internal/model"
)

// CacheEntry represents a cached calculation response
type CacheEntry struct {
	Response  *model.ComparisonResponse
	ExpiresAt time.Time
}

// ResponseCache keeps calculation responses in memory, keyed by request fingerprint.
// Identical requests within the TTL are answered without calling the service again.
type ResponseCache struct {
	mu    sync.RWMutex
	store map[string]*CacheEntry
	ttl   time.Duration
	stop  chan struct{}
	once  sync.Once
}

// NewResponseCache creates a cache and starts its cleanup goroutine. Call Close to stop it.
func NewResponseCache(ttl time.Duration) *ResponseCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	c := &ResponseCache{
		store: make(map[string]*CacheEntry),
		ttl:   ttl,
		stop:  make(chan struct{}),
	}
	go c.cleanup(cleanupInterval(ttl))
	return c
}

// Get retrieves a cached response if available and not expired
func (c *ResponseCache) Get(key string) (*model.ComparisonResponse, bool) {
	if c == nil {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.store[key]
	if !exists || time.Now().After(entry.ExpiresAt) {
		return nil, false
	}
	return entry.Response, true
}

// Set stores a response in the cache
func (c *ResponseCache) Set(key string, response *model.ComparisonResponse) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store[key] = &CacheEntry{
		Response:  response,
		ExpiresAt: time.Now().Add(c.ttl),
	}
}

// Len counts entries, including expired ones not yet swept.
func (c *ResponseCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

func (c *ResponseCache) Close() {
	c.once.Do(func() { close(c.stop) })
}

// cleanup periodically removes expired entries
func (c *ResponseCache) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.sweep(time.Now())
		}
	}
}

func (c *ResponseCache) sweep(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, entry := range c.store {
		if now.After(entry.ExpiresAt) {
			delete(c.store, key)
		}
	}
}

func cleanupInterval(ttl time.Duration) time.Duration {
	if ttl < 5*time.Minute {
		return ttl
	}
	return 5 * time.Minute
}
