package resolver

import (
	"sync"
	"time"
)

// lookupCache is a keyed registry of resolved values with a TTL. In-flight
// lookups are tracked in pending so concurrent requests for the same key
// share one upstream call; completed lookups are promoted to ready and
// evicted when their TTL lapses.
type lookupCache struct {
	ttl     time.Duration
	ready   map[string]cacheEntry
	pending map[string]*inflight
	mu      sync.Mutex
}

type cacheEntry struct {
	value   string
	expires time.Time
}

type inflight struct {
	done  chan struct{}
	value string
	err   error
}

func newLookupCache(ttl time.Duration) *lookupCache {
	return &lookupCache{
		ttl:     ttl,
		ready:   make(map[string]cacheEntry),
		pending: make(map[string]*inflight),
	}
}

// do returns the cached value for key or runs fn once to obtain it. Errors
// are not cached; a failed lookup is retried by the next caller.
func (c *lookupCache) do(key string, fn func() (string, error)) (string, error) {
	c.mu.Lock()

	if entry, ok := c.ready[key]; ok {
		if time.Now().Before(entry.expires) {
			c.mu.Unlock()
			return entry.value, nil
		}
		delete(c.ready, key)
	}

	if call, ok := c.pending[key]; ok {
		c.mu.Unlock()
		<-call.done
		return call.value, call.err
	}

	call := &inflight{done: make(chan struct{})}
	c.pending[key] = call
	c.mu.Unlock()

	call.value, call.err = fn()

	c.mu.Lock()
	delete(c.pending, key)
	if call.err == nil {
		c.ready[key] = cacheEntry{value: call.value, expires: time.Now().Add(c.ttl)}
	}
	c.mu.Unlock()

	close(call.done)
	return call.value, call.err
}
