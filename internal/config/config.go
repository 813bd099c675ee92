package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the application
type Config struct {
	// Upstream history API configuration
	Upstream UpstreamConfig

	// Leaderboard query defaults
	Leaderboard LeaderboardConfig

	// Response cache configuration
	Cache CacheConfig

	// Redis configuration
	Redis RedisConfig

	// API server configuration
	API APIConfig

	// Logging configuration
	Log LogConfig
}

// UpstreamConfig holds the history API endpoints and HTTP client settings
type UpstreamConfig struct {
	NFTTransfersURL string        `envconfig:"UPSTREAM_NFT_TRANSFERS_URL" default:"https://dialog-tbot.com/history/nft-transfers/"`
	FTTransfersURL  string        `envconfig:"UPSTREAM_FT_TRANSFERS_URL" default:"https://dialog-tbot.com/history/ft-transfers/"`
	ReputationURL   string        `envconfig:"UPSTREAM_REPUTATION_URL" default:"https://dialog-tbot.com/nft/unique-reputation/"`
	RequestTimeout  time.Duration `envconfig:"UPSTREAM_REQUEST_TIMEOUT" default:"30s"`
	UserAgent       string        `envconfig:"UPSTREAM_USER_AGENT" default:"reputation-leaderboard/1.0"`
}

// LeaderboardConfig holds defaults applied to incoming leaderboard queries
type LeaderboardConfig struct {
	DefaultPageSize int    `envconfig:"LEADERBOARD_DEFAULT_PAGE_SIZE" default:"200"`
	MaxPageSize     int    `envconfig:"LEADERBOARD_MAX_PAGE_SIZE" default:"1000"`
	DefaultSymbol   string `envconfig:"LEADERBOARD_DEFAULT_SYMBOL" default:"YUM"`
	DefaultMode     string `envconfig:"LEADERBOARD_DEFAULT_MODE" default:"token+nft+rep"`

	// Accepted token symbols (comma-separated)
	Symbols []string `envconfig:"LEADERBOARD_SYMBOLS" default:"YUM"`
}

// CacheConfig holds response cache settings
type CacheConfig struct {
	// Backend is one of "memory", "redis" or "none"
	Backend    string        `envconfig:"CACHE_BACKEND" default:"memory"`
	TTL        time.Duration `envconfig:"CACHE_TTL" default:"60s"`
	MaxEntries int           `envconfig:"CACHE_MAX_ENTRIES" default:"1024"`
	KeyPrefix  string        `envconfig:"CACHE_KEY_PREFIX" default:"repboard:"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// APIConfig holds API server settings
type APIConfig struct {
	Host            string        `envconfig:"API_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"API_PORT" default:"8081"`
	ReadTimeout     time.Duration `envconfig:"API_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"API_WRITE_TIMEOUT" default:"120s"`
	ShutdownTimeout time.Duration `envconfig:"API_SHUTDOWN_TIMEOUT" default:"30s"`
	RateLimitRPS    int           `envconfig:"API_RATE_LIMIT_RPS" default:"20"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"json"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
