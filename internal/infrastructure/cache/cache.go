package cache

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/bimakw/reputation-leaderboard/internal/config"
)

// ErrCacheMiss indicates the key was not found in cache
var ErrCacheMiss = fmt.Errorf("cache miss")

// Store is a TTL-bounded response cache
type Store interface {
	// Get decodes the value stored under key into dest
	Get(ctx context.Context, key string, dest interface{}) error

	// Set stores value under key with the store's TTL
	Set(ctx context.Context, key string, value interface{}) error

	// HealthCheck reports whether the backend is usable
	HealthCheck(ctx context.Context) error

	// Close releases backend resources
	Close() error
}

// NewStore creates the backend selected by cfg. It returns a nil Store
// when caching is disabled.
func NewStore(cfg config.CacheConfig, redisCfg config.RedisConfig, logger *zap.Logger) (Store, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "memory":
		store, err := NewMemoryCache(cfg.MaxEntries, cfg.TTL, logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "redis":
		store, err := NewRedisCache(redisCfg, cfg.KeyPrefix, cfg.TTL, logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "none", "off":
		logger.Info("Response cache disabled")
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
