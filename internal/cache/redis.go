package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-sitekit/pkg/interfaces"
	"github.com/redis/go-redis/v9"
)

// RedisOptions configures the redis-backed provider.
type RedisOptions struct {
	// Address is the redis server address, host:port.
	Address string
	// Password, empty when the server has none.
	Password string
	// DB index.
	DB int
	// KeyPrefix namespaces every key so Clear only touches our entries.
	KeyPrefix string
}

// DefaultRedisOptions returns options for a local unauthenticated server.
func DefaultRedisOptions() RedisOptions {
	return RedisOptions{
		Address:   "localhost:6379",
		KeyPrefix: "sitekit:",
	}
}

// RedisProvider adapts a redis client to the cache contract. Values are
// stored as JSON; Get returns the raw payload as []byte for the caller to
// decode.
type RedisProvider struct {
	client *redis.Client
	prefix string
}

// NewRedis connects a provider to the given server.
func NewRedis(opts RedisOptions) *RedisProvider {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Address,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return NewRedisWithClient(client, opts.KeyPrefix)
}

// NewRedisWithClient wraps an existing client, e.g. one shared with other
// subsystems.
func NewRedisWithClient(client *redis.Client, keyPrefix string) *RedisProvider {
	return &RedisProvider{client: client, prefix: keyPrefix}
}

var _ interfaces.CacheProvider = (*RedisProvider)(nil)

func (r *RedisProvider) Get(ctx context.Context, key string) (any, error) {
	payload, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapRedisError(err, "cache get failed")
	}
	return payload, nil
}

func (r *RedisProvider) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	payload, err := encodeValue(value)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.prefix+key, payload, ttl).Err(); err != nil {
		return wrapRedisError(err, "cache set failed")
	}
	return nil
}

func (r *RedisProvider) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return wrapRedisError(err, "cache delete failed")
	}
	return nil
}

// Clear removes every key under the provider's prefix, leaving the rest of
// the database alone.
func (r *RedisProvider) Clear(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return wrapRedisError(err, "cache clear failed")
		}
	}
	if err := iter.Err(); err != nil {
		return wrapRedisError(err, "cache clear failed")
	}
	return nil
}

// Ping verifies connectivity, for startup health checks.
func (r *RedisProvider) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return wrapRedisError(err, "cache ping failed")
	}
	return nil
}

func encodeValue(value any) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		payload, err := json.Marshal(value)
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "cache value is not serializable").
				WithTextCode("CACHE_VALUE_INVALID")
		}
		return payload, nil
	}
}

func wrapRedisError(err error, msg string) error {
	return goerrors.Wrap(err, goerrors.CategoryExternal, msg).
		WithTextCode("CACHE_UNAVAILABLE")
}
