package mediaindex

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-sitekit/internal/logging"
	"github.com/goliatone/go-sitekit/pkg/interfaces"
)

// ErrAssetInUse reports a delete refused because content still references
// the asset.
var ErrAssetInUse = errors.New("mediaindex: asset is in use")

// AssetInUseError carries the referencing locations so the caller can show
// the editor exactly what still points at the asset.
type AssetInUseError struct {
	AssetID string
	Usage   []Usage
}

func (e *AssetInUseError) Error() string {
	if e == nil {
		return ErrAssetInUse.Error()
	}
	return fmt.Sprintf("%s: %q referenced by %d location(s)", ErrAssetInUse.Error(), e.AssetID, len(e.Usage))
}

func (e *AssetInUseError) Unwrap() error {
	return ErrAssetInUse
}

// ManagerOption customises the manager.
type ManagerOption func(*Manager)

// WithManagerLogger attaches a logger; the default drops everything.
func WithManagerLogger(logger interfaces.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// Manager gates asset deletion on the usage index. The index is advisory,
// so force always wins.
type Manager struct {
	index  *Index
	store  interfaces.AssetStore
	logger interfaces.Logger
}

// NewManager wires the index to the binary asset store.
func NewManager(index *Index, store interfaces.AssetStore, opts ...ManagerOption) *Manager {
	m := &Manager{index: index, store: store, logger: logging.NoOp()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// UsageOf exposes the underlying lookup for read-only callers.
func (m *Manager) UsageOf(ctx context.Context, assetID string) []Usage {
	return m.index.UsageOf(ctx, assetID)
}

// Delete removes the asset from storage. A referenced asset is refused
// with AssetInUseError unless force is set; with force the delete proceeds
// regardless of usage count.
func (m *Manager) Delete(ctx context.Context, assetID string, force bool) error {
	usage := m.index.UsageOf(ctx, assetID)
	if len(usage) > 0 && !force {
		return &AssetInUseError{AssetID: assetID, Usage: usage}
	}
	if len(usage) > 0 {
		m.logger.Warn("force-deleting referenced asset",
			"asset_id", assetID,
			"usage_count", len(usage),
		)
	}

	if err := m.store.Delete(ctx, assetID); err != nil {
		return err
	}
	m.index.Invalidate(ctx, assetID)
	return nil
}
