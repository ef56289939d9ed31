package mediaindex

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-sitekit/internal/logging"
	"github.com/goliatone/go-sitekit/internal/pagestore"
	"github.com/goliatone/go-sitekit/internal/sections"
	"github.com/goliatone/go-sitekit/pkg/interfaces"
)

// AssetScheme prefixes opaque asset references embedded in field values.
const AssetScheme = "asset://"

// DefaultTTL bounds how stale a cached usage lookup may be.
const DefaultTTL = 30 * time.Second

// Usage is one content location referencing a media asset.
type Usage struct {
	PageID    string `json:"page_id"`
	SectionID string `json:"section_id"`
}

// IndexOption customises the index.
type IndexOption func(*Index)

// WithCache enables read-through caching of usage lookups.
func WithCache(cache interfaces.CacheProvider) IndexOption {
	return func(i *Index) {
		if cache != nil {
			i.cache = cache
		}
	}
}

// WithTTL overrides the cache window.
func WithTTL(ttl time.Duration) IndexOption {
	return func(i *Index) {
		if ttl > 0 {
			i.ttl = ttl
		}
	}
}

// WithPublished additionally scans PUBLISHED records. Drafts alone cover
// the safe-delete case since every published page had a draft first, but
// force-deleted drafts can leave published-only references.
func WithPublished() IndexOption {
	return func(i *Index) {
		i.includePublished = true
	}
}

// WithLogger attaches a logger; the default drops everything.
func WithLogger(logger interfaces.Logger) IndexOption {
	return func(i *Index) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// Index derives media usage by scanning page records. It is advisory and
// never authoritative: the page record content is the source of truth, the
// index is recomputed on demand and cached briefly.
type Index struct {
	store            pagestore.Repository
	cache            interfaces.CacheProvider
	ttl              time.Duration
	includePublished bool
	logger           interfaces.Logger
}

// New constructs an index over the record store.
func New(store pagestore.Repository, opts ...IndexOption) *Index {
	i := &Index{
		store:  store,
		ttl:    DefaultTTL,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// UsageOf returns every (page, section) location referencing the media id.
// A store failure degrades to an empty result with a logged warning rather
// than surfacing an error; callers treat the index as best-effort.
func (i *Index) UsageOf(ctx context.Context, mediaID string) []Usage {
	mediaID = strings.TrimSpace(mediaID)
	if mediaID == "" {
		return nil
	}

	if cached, ok := i.cachedUsage(ctx, mediaID); ok {
		return cached
	}

	records, err := i.store.ScanByPrefix(ctx, pagestore.PagePrefix)
	if err != nil {
		i.logger.Warn("media usage scan failed, reporting zero usage",
			"media_id", mediaID,
			"error", err,
		)
		return nil
	}

	usage := make([]Usage, 0)
	for _, record := range records {
		if record.State == pagestore.StatePublished && !i.includePublished {
			continue
		}
		for _, section := range record.Sections {
			if sectionReferences(section, mediaID) {
				usage = appendUnique(usage, Usage{PageID: record.PageID, SectionID: section.ID})
			}
		}
	}

	i.storeUsage(ctx, mediaID, usage)
	return usage
}

// Invalidate drops the cached lookup for a media id, e.g. after a delete.
func (i *Index) Invalidate(ctx context.Context, mediaID string) {
	if i.cache == nil {
		return
	}
	if err := i.cache.Delete(ctx, cacheKey(mediaID)); err != nil {
		i.logger.Warn("media usage cache invalidation failed",
			"media_id", mediaID,
			"error", err,
		)
	}
}

func (i *Index) cachedUsage(ctx context.Context, mediaID string) ([]Usage, bool) {
	if i.cache == nil {
		return nil, false
	}
	raw, err := i.cache.Get(ctx, cacheKey(mediaID))
	if err != nil || raw == nil {
		return nil, false
	}
	switch v := raw.(type) {
	case []Usage:
		return v, true
	case []byte:
		var usage []Usage
		if err := json.Unmarshal(v, &usage); err == nil {
			return usage, true
		}
	case string:
		var usage []Usage
		if err := json.Unmarshal([]byte(v), &usage); err == nil {
			return usage, true
		}
	}
	return nil, false
}

func (i *Index) storeUsage(ctx context.Context, mediaID string, usage []Usage) {
	if i.cache == nil {
		return
	}
	if err := i.cache.Set(ctx, cacheKey(mediaID), usage, i.ttl); err != nil {
		i.logger.Warn("media usage cache write failed",
			"media_id", mediaID,
			"error", err,
		)
	}
}

func cacheKey(mediaID string) string {
	return "media:usage:" + mediaID
}

func appendUnique(usage []Usage, candidate Usage) []Usage {
	for _, existing := range usage {
		if existing == candidate {
			return usage
		}
	}
	return append(usage, candidate)
}

func sectionReferences(section sections.Section, mediaID string) bool {
	for _, value := range section.Fields {
		if valueReferences(value, mediaID) {
			return true
		}
	}
	return false
}

// valueReferences walks nested maps and slices so gallery items and other
// structured fields are covered, not just top-level strings.
func valueReferences(value any, mediaID string) bool {
	switch v := value.(type) {
	case string:
		return stringReferences(v, mediaID)
	case map[string]any:
		for _, nested := range v {
			if valueReferences(nested, mediaID) {
				return true
			}
		}
	case []any:
		for _, nested := range v {
			if valueReferences(nested, mediaID) {
				return true
			}
		}
	}
	return false
}

// stringReferences matches both the opaque asset scheme and plain URLs
// whose path carries the asset id as a segment (with or without a file
// extension).
func stringReferences(s, mediaID string) bool {
	if s == "" {
		return false
	}
	if strings.Contains(s, AssetScheme+mediaID) {
		return true
	}
	parsed, err := url.Parse(s)
	if err != nil || parsed.Path == "" {
		return false
	}
	for _, segment := range strings.Split(parsed.Path, "/") {
		if segment == mediaID {
			return true
		}
		if base, _, found := strings.Cut(segment, "."); found && base == mediaID {
			return true
		}
	}
	return false
}
