package settings

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-sitekit/internal/logging"
	"github.com/goliatone/go-sitekit/internal/pagestore"
	"github.com/goliatone/go-sitekit/pkg/interfaces"
)

// ErrSettingsInvalid reports a rejected settings update.
var ErrSettingsInvalid = errors.New("settings: invalid settings")

const cacheKey = "site:settings"

// DefaultTTL bounds how stale a cached settings read may be; writes
// invalidate eagerly so the TTL only matters for out-of-band edits.
const DefaultTTL = time.Minute

// UpdateRequest carries the mutable settings fields. Nil pointers leave
// the stored value untouched.
type UpdateRequest struct {
	SiteName      *string `json:"site_name,omitempty"`
	DefaultLocale *string `json:"default_locale,omitempty"`
	ContactEmail  *string `json:"contact_email,omitempty"`
	AnalyticsID   *string `json:"analytics_id,omitempty"`
	MaintenanceOn *bool   `json:"maintenance_on,omitempty"`
}

// Validate rejects updates that would blank required fields.
func (r UpdateRequest) Validate() error {
	errs := validation.Errors{}
	if r.SiteName != nil && *r.SiteName == "" {
		errs["site_name"] = validation.NewError("settings.site_name_required", "site_name cannot be empty")
	}
	if r.DefaultLocale != nil && *r.DefaultLocale == "" {
		errs["default_locale"] = validation.NewError("settings.default_locale_required", "default_locale cannot be empty")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Service reads and updates the single-row site configuration.
type Service interface {
	Load(ctx context.Context) (*pagestore.SiteSettings, error)
	Update(ctx context.Context, req UpdateRequest) (*pagestore.SiteSettings, error)
}

// ServiceOption customises the service.
type ServiceOption func(*service)

// WithCache enables cached reads with invalidation on write.
func WithCache(cache interfaces.CacheProvider, ttl time.Duration) ServiceOption {
	return func(s *service) {
		s.cache = cache
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithLogger attaches a logger; the default drops everything.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides time.Now for deterministic tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

type service struct {
	store  pagestore.SettingsRepository
	cache  interfaces.CacheProvider
	ttl    time.Duration
	logger interfaces.Logger
	now    func() time.Time
}

// NewService constructs the settings service.
func NewService(store pagestore.SettingsRepository, opts ...ServiceOption) Service {
	s := &service{
		store:  store,
		ttl:    DefaultTTL,
		logger: logging.NoOp(),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the stored settings, or sensible defaults when none have
// ever been written.
func (s *service) Load(ctx context.Context) (*pagestore.SiteSettings, error) {
	if cached, ok := s.cachedSettings(ctx); ok {
		return cached, nil
	}

	settings, err := s.store.LoadSettings(ctx)
	if err != nil {
		if errors.Is(err, pagestore.ErrSettingsNotFound) {
			return defaultSettings(), nil
		}
		return nil, err
	}

	s.storeCached(ctx, settings)
	return settings, nil
}

// Update applies the request on top of the current settings, persists the
// merged record, and invalidates the cache before returning.
func (s *service) Update(ctx context.Context, req UpdateRequest) (*pagestore.SiteSettings, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	current, err := s.store.LoadSettings(ctx)
	if err != nil {
		if !errors.Is(err, pagestore.ErrSettingsNotFound) {
			return nil, err
		}
		current = defaultSettings()
	}

	if req.SiteName != nil {
		current.SiteName = *req.SiteName
	}
	if req.DefaultLocale != nil {
		current.DefaultLocale = *req.DefaultLocale
	}
	if req.ContactEmail != nil {
		current.ContactEmail = *req.ContactEmail
	}
	if req.AnalyticsID != nil {
		current.AnalyticsID = *req.AnalyticsID
	}
	if req.MaintenanceOn != nil {
		current.MaintenanceOn = *req.MaintenanceOn
	}
	current.UpdatedAt = s.now()

	if err := s.store.SaveSettings(ctx, current); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	s.logger.Info("site settings updated", "site_name", current.SiteName)
	return current, nil
}

func (s *service) cachedSettings(ctx context.Context) (*pagestore.SiteSettings, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, cacheKey)
	if err != nil || raw == nil {
		return nil, false
	}
	switch v := raw.(type) {
	case *pagestore.SiteSettings:
		copied := *v
		return &copied, true
	case []byte:
		var settings pagestore.SiteSettings
		if err := json.Unmarshal(v, &settings); err == nil {
			return &settings, true
		}
	}
	return nil, false
}

func (s *service) storeCached(ctx context.Context, settings *pagestore.SiteSettings) {
	if s.cache == nil {
		return
	}
	copied := *settings
	if err := s.cache.Set(ctx, cacheKey, &copied, s.ttl); err != nil {
		s.logger.Warn("settings cache write failed", "error", err)
	}
}

func (s *service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cacheKey); err != nil {
		s.logger.Warn("settings cache invalidation failed", "error", err)
	}
}

func defaultSettings() *pagestore.SiteSettings {
	return &pagestore.SiteSettings{
		SiteName:       "Untitled Site",
		DefaultLocale:  "en",
		SchemaRevision: 1,
	}
}
