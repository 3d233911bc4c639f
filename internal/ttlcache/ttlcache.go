package ttlcache

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

type item[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is a thread-safe map whose entries expire after a fixed TTL.
// Expired entries are invisible to Get immediately and are swept by a
// background loop until Stop is called.
type Cache[K comparable, V any] struct {
	mu        sync.RWMutex
	items     map[K]*item[V]
	ttl       time.Duration
	now       func() time.Time
	logger    *zap.Logger
	stopChan  chan struct{}
	stopOnce  sync.Once
	cleanupWg sync.WaitGroup
}

// New creates a cache and starts its cleanup loop.
func New[K comparable, V any](ttl, cleanupInterval time.Duration, logger *zap.Logger) *Cache[K, V] {
	c := &Cache[K, V]{
		items:    make(map[K]*item[V]),
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
		stopChan: make(chan struct{}),
	}

	if cleanupInterval <= 0 {
		cleanupInterval = 10 * time.Second
	}
	c.cleanupWg.Add(1)
	go c.cleanupLoop(cleanupInterval)

	return c
}

// Set stores or replaces value under key and restarts its TTL.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = &item[V]{value: value, expiresAt: c.now().Add(c.ttl)}
}

// Get retrieves a value if it exists and hasn't expired.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, ok := c.items[key]
	if !ok || c.now().After(it.expiresAt) {
		var zero V
		return zero, false
	}
	return it.value, true
}

// Take removes and returns a live value in one step.
func (c *Cache[K, V]) Take(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	it, ok := c.items[key]
	var zero V
	if !ok {
		return zero, false
	}
	delete(c.items, key)
	if c.now().After(it.expiresAt) {
		return zero, false
	}
	return it.value, true
}

func (c *Cache[K, V]) cleanupLoop(interval time.Duration) {
	defer c.cleanupWg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Cache[K, V]) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	expiredCount := 0

	for key, it := range c.items {
		if now.After(it.expiresAt) {
			delete(c.items, key)
			expiredCount++
		}
	}

	if expiredCount > 0 {
		c.logger.Debug("Cleaned up expired entries",
			zap.Int("count", expiredCount),
		)
	}
}

// Stop ends the cleanup loop. It is safe to call more than once.
func (c *Cache[K, V]) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopChan)
	})
	c.cleanupWg.Wait()
}
