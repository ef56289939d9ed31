package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-sitekit/internal/batch"
	"github.com/goliatone/go-sitekit/internal/lifecycle"
	"github.com/goliatone/go-sitekit/internal/logging"
	"github.com/goliatone/go-sitekit/internal/mediaindex"
	"github.com/goliatone/go-sitekit/internal/seeder"
	"github.com/goliatone/go-sitekit/internal/settings"
	"github.com/goliatone/go-sitekit/pkg/interfaces"
)

// DefaultCacheTTL bounds published-snapshot caching on the public read path.
const DefaultCacheTTL = 30 * time.Second

// API registers the editing and delivery endpoints. Mutating routes are
// gated by the authorizer; the published read path is public and cacheable.
type API struct {
	basePath   string
	editor     lifecycle.Service
	pipeline   *batch.Pipeline
	seeds      *seeder.Seeder
	media      *mediaindex.Manager
	assets     interfaces.AssetStore
	ai         interfaces.AIProvider
	settings   settings.Service
	authorizer interfaces.Authorizer
	cache      interfaces.CacheProvider
	cacheTTL   time.Duration
	logger     interfaces.Logger
}

// Option mutates the API configuration.
type Option func(*API)

// NewAPI constructs an API instance.
func NewAPI(opts ...Option) *API {
	api := &API{
		basePath: "/api",
		cacheTTL: DefaultCacheTTL,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithBasePath overrides the base API path (defaults to "/api").
func WithBasePath(path string) Option {
	return func(api *API) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

// WithEditor wires the draft/publish service.
func WithEditor(service lifecycle.Service) Option {
	return func(api *API) {
		api.editor = service
	}
}

// WithBatchPipeline wires the batch change pipeline.
func WithBatchPipeline(pipeline *batch.Pipeline) Option {
	return func(api *API) {
		api.pipeline = pipeline
	}
}

// WithSeeder wires the schema seeding pipeline.
func WithSeeder(s *seeder.Seeder) Option {
	return func(api *API) {
		api.seeds = s
	}
}

// WithMediaManager wires the usage-gated media manager.
func WithMediaManager(manager *mediaindex.Manager) Option {
	return func(api *API) {
		api.media = manager
	}
}

// WithAssetStore wires the binary asset store for upload issuance.
func WithAssetStore(store interfaces.AssetStore) Option {
	return func(api *API) {
		api.assets = store
	}
}

// WithAIProvider wires the editorial AI collaborator.
func WithAIProvider(provider interfaces.AIProvider) Option {
	return func(api *API) {
		api.ai = provider
	}
}

// WithAuthorizer gates every mutating route. Without one, mutations are
// open; the embedding application decides.
func WithAuthorizer(authorizer interfaces.Authorizer) Option {
	return func(api *API) {
		api.authorizer = authorizer
	}
}

// WithCache enables published-snapshot caching on the read path.
func WithCache(cache interfaces.CacheProvider, ttl time.Duration) Option {
	return func(api *API) {
		api.cache = cache
		if ttl > 0 {
			api.cacheTTL = ttl
		}
	}
}

// WithLogger attaches a logger; the default drops everything.
func WithLogger(logger interfaces.Logger) Option {
	return func(api *API) {
		if logger != nil {
			api.logger = logger
		}
	}
}

// Register attaches the endpoints to the provided mux.
func (api *API) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("httpapi: mux is required")
	}
	if api == nil {
		return fmt.Errorf("httpapi: api is nil")
	}

	base := joinPath(api.basePath, "")

	api.registerSectionRoutes(mux, base)
	api.registerPageRoutes(mux, base)
	api.registerMediaRoutes(mux, base)
	api.registerAIRoutes(mux, base)
	api.registerSettingsRoutes(mux, base)

	return nil
}

// requireAuthorized enforces the capability check on mutating routes.
func (api *API) requireAuthorized(w http.ResponseWriter, r *http.Request) bool {
	if api.authorizer == nil {
		return true
	}
	if !api.authorizer.Authorize(r.Context(), r) {
		writeJSON(w, http.StatusUnauthorized, errorResponse{
			Error:   "unauthorized",
			Message: "missing or invalid capability token",
		})
		return false
	}
	return true
}
