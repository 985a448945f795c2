package rediscache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	seconds   float64
	expiresAt time.Time // zero means no expiry
}

// MemoryDurationCache is the fallback backend used when no Redis
// address is configured. Expired entries are dropped lazily on read.
type MemoryDurationCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryDurationCache() *MemoryDurationCache {
	return &MemoryDurationCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (c *MemoryDurationCache) Get(ctx context.Context, videoName string) (float64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[videoName]
	if !ok {
		return 0, false, nil
	}
	if c.expired(entry) {
		delete(c.entries, videoName)
		return 0, false, nil
	}
	return entry.seconds, true, nil
}

func (c *MemoryDurationCache) GetMany(ctx context.Context, videoNames []string) (map[string]float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]float64, len(videoNames))
	for _, name := range videoNames {
		entry, ok := c.entries[name]
		if !ok {
			continue
		}
		if c.expired(entry) {
			delete(c.entries, name)
			continue
		}
		out[name] = entry.seconds
	}
	return out, nil
}

func (c *MemoryDurationCache) Set(ctx context.Context, videoName string, seconds float64, ttl time.Duration) error {
	entry := memoryEntry{seconds: seconds}
	if ttl > 0 {
		entry.expiresAt = c.now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[videoName] = entry
	return nil
}

func (c *MemoryDurationCache) expired(entry memoryEntry) bool {
	return !entry.expiresAt.IsZero() && c.now().After(entry.expiresAt)
}
