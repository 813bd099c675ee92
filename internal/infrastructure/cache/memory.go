package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"
)

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// MemoryCache is a process-local cache bounded by entry count (least
// recently used entries are evicted first) and by TTL. Expired entries are
// dropped lazily when looked up.
type MemoryCache struct {
	entries *lru.Cache
	ttl     time.Duration
	now     func() time.Time
	logger  *zap.Logger
}

// NewMemoryCache creates an in-process cache holding at most size entries
func NewMemoryCache(size int, ttl time.Duration, logger *zap.Logger) (*MemoryCache, error) {
	if size <= 0 {
		return nil, fmt.Errorf("cache size must be positive, got %d", size)
	}

	entries, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("failed to create lru cache: %w", err)
	}

	logger.Info("Using in-memory response cache",
		zap.Int("max_entries", size),
		zap.Duration("ttl", ttl),
	)

	return &MemoryCache{
		entries: entries,
		ttl:     ttl,
		now:     time.Now,
		logger:  logger,
	}, nil
}

// Get retrieves a value from cache
func (c *MemoryCache) Get(_ context.Context, key string, dest interface{}) error {
	v, ok := c.entries.Get(key)
	if !ok {
		return ErrCacheMiss
	}

	entry := v.(memoryEntry)
	if !c.now().Before(entry.expiresAt) {
		c.entries.Remove(key)
		return ErrCacheMiss
	}

	if err := json.Unmarshal(entry.payload, dest); err != nil {
		return fmt.Errorf("failed to unmarshal cached value: %w", err)
	}
	return nil
}

// Set stores a snapshot of value in cache
func (c *MemoryCache) Set(_ context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	c.entries.Add(key, memoryEntry{
		payload:   data,
		expiresAt: c.now().Add(c.ttl),
	})
	return nil
}

// Len returns the number of entries, expired ones included
func (c *MemoryCache) Len() int {
	return c.entries.Len()
}

// HealthCheck always succeeds for the in-process cache
func (c *MemoryCache) HealthCheck(context.Context) error {
	return nil
}

// Close drops all entries
func (c *MemoryCache) Close() error {
	c.entries.Purge()
	return nil
}
