package secrets

import (
	"sync"
	"time"

	"github.com/kevin07696/gocardless-go/internal/adapters/ports"
)

// DefaultCacheTTL is how long a resolved secret is reused before the backend is asked again
const DefaultCacheTTL = 5 * time.Minute

// secretCache is a TTL cache shared by the remote adapters. A zero ttl disables it.
type secretCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

type cacheEntry struct {
	secret    *ports.Secret
	expiresAt time.Time
}

func newSecretCache(ttl time.Duration) *secretCache {
	return &secretCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *secretCache) get(key string) *ports.Secret {
	if c.ttl <= 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil
	}
	if c.now().After(entry.expiresAt) {
		delete(c.entries, key)
		return nil
	}
	return entry.secret
}

func (c *secretCache) set(key string, secret *ports.Secret) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{
		secret:    secret,
		expiresAt: c.now().Add(c.ttl),
	}
}
