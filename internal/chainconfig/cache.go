package chainconfig

import (
	"sync"
	"time"
)

// Cache remembers the outcome of the last verification. It only ever
// shortcuts a success; an invalid cache always forces a recheck.
type Cache struct {
	mu            sync.RWMutex
	lastCheckedAt time.Time
	valid         bool
}

// Fresh reports whether a valid result younger than ttl is cached.
func (c *Cache) Fresh(ttl time.Duration, now time.Time) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.valid && now.Sub(c.lastCheckedAt) < ttl
}

// Refresh records the outcome of a verification at now.
func (c *Cache) Refresh(valid bool, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = valid
	c.lastCheckedAt = now
}

// Invalidate forces the next check.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = false
}
