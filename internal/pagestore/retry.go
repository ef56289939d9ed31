package pagestore

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
)

// RetryConfig bounds the retry decorator. Zero values fall back to defaults.
type RetryConfig struct {
	MaxAttempts uint64
	BaseDelay   time.Duration
}

// WithRetry decorates a Repository so transient store failures are retried
// with fibonacci backoff before surfacing. Only errors classified as
// ErrStoreUnavailable are retried; not-found and decode errors pass through.
func WithRetry(inner Repository, cfg RetryConfig) Repository {
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = 100 * time.Millisecond
	}
	return &retryingRepository{inner: inner, cfg: cfg}
}

type retryingRepository struct {
	inner Repository
	cfg   RetryConfig
}

func (r *retryingRepository) Get(ctx context.Context, pageID string, state State) (*PageRecord, error) {
	var record *PageRecord
	err := r.do(ctx, func(ctx context.Context) error {
		var innerErr error
		record, innerErr = r.inner.Get(ctx, pageID, state)
		return innerErr
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *retryingRepository) Put(ctx context.Context, record *PageRecord) error {
	return r.do(ctx, func(ctx context.Context) error {
		return r.inner.Put(ctx, record)
	})
}

func (r *retryingRepository) ScanByPrefix(ctx context.Context, prefix string) ([]*PageRecord, error) {
	var records []*PageRecord
	err := r.do(ctx, func(ctx context.Context) error {
		var innerErr error
		records, innerErr = r.inner.ScanByPrefix(ctx, prefix)
		return innerErr
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *retryingRepository) Delete(ctx context.Context, pageID string) error {
	return r.do(ctx, func(ctx context.Context) error {
		return r.inner.Delete(ctx, pageID)
	})
}

func (r *retryingRepository) do(ctx context.Context, op func(context.Context) error) error {
	backoff := retry.NewFibonacci(r.cfg.BaseDelay)
	return retry.Do(ctx, retry.WithMaxRetries(r.cfg.MaxAttempts, backoff), func(ctx context.Context) error {
		err := op(ctx)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrStoreUnavailable) {
			return retry.RetryableError(err)
		}
		return err
	})
}
