package runtimeconfig

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrStorageDriverUnknown reports an unrecognized storage driver name.
	ErrStorageDriverUnknown = errors.New("runtimeconfig: unknown storage driver")
	// ErrStorageDSNRequired reports a sqlite configuration without a DSN.
	ErrStorageDSNRequired = errors.New("runtimeconfig: storage dsn required")
	// ErrCacheProviderUnknown reports an unrecognized cache provider name.
	ErrCacheProviderUnknown = errors.New("runtimeconfig: unknown cache provider")
	// ErrAssetsBucketRequired reports enabled assets without a bucket.
	ErrAssetsBucketRequired = errors.New("runtimeconfig: assets bucket required")
	// ErrAIKeyRequired reports an enabled AI provider without an API key.
	ErrAIKeyRequired = errors.New("runtimeconfig: ai api key required")
)

// Storage driver names.
const (
	StorageDriverMemory = "memory"
	StorageDriverSQLite = "sqlite"
)

// Cache provider names.
const (
	CacheProviderNone   = "none"
	CacheProviderMemory = "memory"
	CacheProviderRedis  = "redis"
)

// StorageConfig selects and configures the page record store.
type StorageConfig struct {
	Driver string `json:"driver"`
	DSN    string `json:"dsn"`
	// RetryAttempts caps transient-error retries at the store boundary.
	RetryAttempts int `json:"retry_attempts"`
}

// RedisConfig connects the redis cache provider.
type RedisConfig struct {
	Address   string `json:"address"`
	Password  string `json:"password"`
	DB        int    `json:"db"`
	KeyPrefix string `json:"key_prefix"`
}

// CacheConfig selects the cache provider behind published reads, the media
// usage index, and settings.
type CacheConfig struct {
	Provider string        `json:"provider"`
	TTL      time.Duration `json:"ttl"`
	Redis    RedisConfig   `json:"redis"`
}

// AssetsConfig configures the S3-compatible binary asset store.
type AssetsConfig struct {
	Enabled       bool   `json:"enabled"`
	Bucket        string `json:"bucket"`
	Region        string `json:"region"`
	EndpointURL   string `json:"endpoint_url"`
	AccessKey     string `json:"access_key"`
	SecretKey     string `json:"secret_key"`
	KeyPrefix     string `json:"key_prefix"`
	PublicBaseURL string `json:"public_base_url"`
}

// AIConfig configures the editorial AI collaborator.
type AIConfig struct {
	Enabled bool   `json:"enabled"`
	APIKey  string `json:"api_key"`
	Model   string `json:"model"`
	BaseURL string `json:"base_url"`
}

// HTTPConfig configures the API surface.
type HTTPConfig struct {
	BasePath string        `json:"base_path"`
	CacheTTL time.Duration `json:"cache_ttl"`
}

// LoggingConfig configures the go-logger provider.
type LoggingConfig struct {
	Level     string   `json:"level"`
	Format    string   `json:"format"`
	AddSource bool     `json:"add_source"`
	Focus     []string `json:"focus,omitempty"`
}

// Config is the full engine configuration.
type Config struct {
	Storage StorageConfig `json:"storage"`
	Cache   CacheConfig   `json:"cache"`
	Assets  AssetsConfig  `json:"assets"`
	AI      AIConfig      `json:"ai"`
	HTTP    HTTPConfig    `json:"http"`
	Logging LoggingConfig `json:"logging"`
}

// DefaultConfig returns a configuration suitable for local development:
// in-memory storage and cache, no external collaborators.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Driver:        StorageDriverMemory,
			RetryAttempts: 3,
		},
		Cache: CacheConfig{
			Provider: CacheProviderMemory,
			TTL:      30 * time.Second,
		},
		HTTP: HTTPConfig{
			BasePath: "/api",
			CacheTTL: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate rejects configurations the engine cannot wire.
func (c Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Storage.Driver)) {
	case StorageDriverMemory:
	case StorageDriverSQLite:
		if strings.TrimSpace(c.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	default:
		return ErrStorageDriverUnknown
	}

	switch strings.ToLower(strings.TrimSpace(c.Cache.Provider)) {
	case "", CacheProviderNone, CacheProviderMemory, CacheProviderRedis:
	default:
		return ErrCacheProviderUnknown
	}

	if c.Assets.Enabled && strings.TrimSpace(c.Assets.Bucket) == "" {
		return ErrAssetsBucketRequired
	}
	if c.AI.Enabled && strings.TrimSpace(c.AI.APIKey) == "" {
		return ErrAIKeyRequired
	}
	return nil
}
