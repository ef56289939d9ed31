package sitekit

import "github.com/goliatone/go-sitekit/internal/runtimeconfig"

var (
	ErrStorageDriverUnknown = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired   = runtimeconfig.ErrStorageDSNRequired
	ErrCacheProviderUnknown = runtimeconfig.ErrCacheProviderUnknown
	ErrAssetsBucketRequired = runtimeconfig.ErrAssetsBucketRequired
	ErrAIKeyRequired        = runtimeconfig.ErrAIKeyRequired
)

type (
	Config        = runtimeconfig.Config
	StorageConfig = runtimeconfig.StorageConfig
	CacheConfig   = runtimeconfig.CacheConfig
	RedisConfig   = runtimeconfig.RedisConfig
	AssetsConfig  = runtimeconfig.AssetsConfig
	AIConfig      = runtimeconfig.AIConfig
	HTTPConfig    = runtimeconfig.HTTPConfig
	LoggingConfig = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
