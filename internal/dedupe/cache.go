// ABOUTME: Thread-safe TTL cache for deduplicating retried Slack events
// ABOUTME: Slack redelivers events on slow acks; duplicates are dropped at the handler door

package dedupe

import (
	"sync"
	"time"
)

// DefaultTTL comfortably covers Slack's events retry window.
const DefaultTTL = 5 * time.Minute

// MentionKey identifies one inbound mention event. Slack retries carry
// the same channel and event timestamp.
type MentionKey struct {
	Channel string
	EventTS string
}

// Cache tracks recently handled mention keys for a TTL. Entries are
// swept by a background goroutine; Slack's retry window is short, so no
// size bound is needed beyond the sweep.
type Cache struct {
	mu     sync.Mutex
	seen   map[MentionKey]time.Time
	ttl    time.Duration
	done   chan struct{}
	closed bool
}

// New creates a cache with the given TTL and starts the sweeper.
func New(ttl time.Duration) *Cache {
	c := &Cache{
		seen: make(map[MentionKey]time.Time),
		ttl:  ttl,
		done: make(chan struct{}),
	}
	go c.sweep()
	return c
}

// CheckAndMark atomically checks whether the key was handled within the
// TTL and marks it if not. Returns true for a duplicate that should be
// dropped, false for a fresh event now marked as handled.
func (c *Cache) CheckAndMark(key MentionKey) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if at, ok := c.seen[key]; ok && time.Since(at) < c.ttl {
		return true
	}
	c.seen[key] = time.Now()
	return false
}

// sweep periodically removes expired entries.
func (c *Cache) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for key, at := range c.seen {
				if now.Sub(at) > c.ttl {
					delete(c.seen, key)
				}
			}
			c.mu.Unlock()
		case <-c.done:
			return
		}
	}
}

// Close stops the sweeper. Safe to call multiple times.
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		close(c.done)
		c.closed = true
	}
}
