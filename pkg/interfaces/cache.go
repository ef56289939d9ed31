package interfaces

import (
	"context"
	"time"
)

// CacheProvider is the minimal cache contract consumed by read paths that
// tolerate stale data (published snapshots, media usage lookups).
type CacheProvider interface {
	Get(ctx context.Context, key string) (any, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
