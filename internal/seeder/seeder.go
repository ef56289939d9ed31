package seeder

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-sitekit/internal/lifecycle"
	"github.com/goliatone/go-sitekit/internal/logging"
	"github.com/goliatone/go-sitekit/internal/pagestore"
	"github.com/goliatone/go-sitekit/internal/sections"
	"github.com/goliatone/go-sitekit/pkg/interfaces"
)

// PageResult reports the outcome of seeding one page.
type PageResult struct {
	PageID  string `json:"page_id"`
	OK      bool   `json:"ok"`
	Created bool   `json:"created"`
	Error   string `json:"error,omitempty"`
}

// Report is the per-page table plus aggregate counts for a seeding run.
type Report struct {
	Pages     []PageResult `json:"pages"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Total     int          `json:"total"`
}

// SeederOption customises the seeder.
type SeederOption func(*Seeder)

// WithLogger attaches a logger; the default drops everything.
func WithLogger(logger interfaces.Logger) SeederOption {
	return func(s *Seeder) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides time.Now for deterministic tests.
func WithClock(now func() time.Time) SeederOption {
	return func(s *Seeder) {
		if now != nil {
			s.now = now
		}
	}
}

// Seeder bulk-initializes the store from the static page registry. Pages
// are processed strictly sequentially to respect the store's write
// throughput limits; this is deliberate throttling, not a correctness
// requirement.
type Seeder struct {
	store     pagestore.Repository
	registry  *StaticRegistry
	variants  *sections.Registry
	publisher lifecycle.Service
	logger    interfaces.Logger
	now       func() time.Time
}

// New constructs a seeder.
func New(store pagestore.Repository, registry *StaticRegistry, variants *sections.Registry, publisher lifecycle.Service, opts ...SeederOption) *Seeder {
	s := &Seeder{
		store:     store,
		registry:  registry,
		variants:  variants,
		publisher: publisher,
		logger:    logging.NoOp(),
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Seed resolves the requested ids ("all" expands to the full registry),
// rejecting the entire call before any writes when an explicit id is
// unknown. Each resolved page gets a DRAFT write followed by a publish;
// one page's failure is recorded and does not abort the rest.
func (s *Seeder) Seed(ctx context.Context, ids []string) (Report, error) {
	resolved, err := s.registry.Resolve(ids)
	if err != nil {
		return Report{}, err
	}

	report := Report{
		Pages: make([]PageResult, 0, len(resolved)),
		Total: len(resolved),
	}

	compose := s.registry.Compose(s.variants)
	for _, pageID := range resolved {
		result := s.seedPage(ctx, pageID, compose)
		if result.OK {
			report.Succeeded++
		} else {
			report.Failed++
		}
		report.Pages = append(report.Pages, result)
	}

	s.logger.Info("seed run complete",
		"total", report.Total,
		"succeeded", report.Succeeded,
		"failed", report.Failed,
	)
	return report, nil
}

// seedPage is idempotent: an existing draft is kept as-is (editor changes
// are never clobbered by a reseed), a missing draft is created from the
// default composition, and the current draft is published either way.
func (s *Seeder) seedPage(ctx context.Context, pageID string, compose lifecycle.PageDefaults) PageResult {
	result := PageResult{PageID: pageID}

	_, err := s.store.Get(ctx, pageID, pagestore.StateDraft)
	switch {
	case err == nil:
		// Draft already present; republish below.
	case errors.Is(err, pagestore.ErrRecordNotFound):
		composed, seo, ok := compose(pageID)
		if !ok {
			result.Error = (&UnknownPagesError{Unknown: []string{pageID}, Valid: s.registry.PageIDs()}).Error()
			return result
		}
		now := s.now()
		draft := &pagestore.PageRecord{
			PageID:    pageID,
			State:     pagestore.StateDraft,
			Sections:  composed,
			SEO:       seo,
			Version:   1,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.store.Put(ctx, draft); err != nil {
			result.Error = err.Error()
			return result
		}
		result.Created = true
	default:
		result.Error = err.Error()
		return result
	}

	if _, err := s.publisher.Publish(ctx, pageID); err != nil {
		result.Error = err.Error()
		return result
	}

	result.OK = true
	return result
}
