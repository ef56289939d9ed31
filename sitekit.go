// Package sitekit is a content versioning and section composition engine:
// pages are ordered lists of typed sections, edited field-by-field through
// content keys, promoted from DRAFT to PUBLISHED as whole snapshots.
package sitekit

import (
	"context"
	"database/sql"
	"net/http"
	"strings"

	"github.com/goliatone/go-sitekit/internal/ai"
	"github.com/goliatone/go-sitekit/internal/assets"
	"github.com/goliatone/go-sitekit/internal/batch"
	"github.com/goliatone/go-sitekit/internal/cache"
	"github.com/goliatone/go-sitekit/internal/httpapi"
	"github.com/goliatone/go-sitekit/internal/lifecycle"
	"github.com/goliatone/go-sitekit/internal/logging"
	"github.com/goliatone/go-sitekit/internal/mediaindex"
	"github.com/goliatone/go-sitekit/internal/pagestore"
	"github.com/goliatone/go-sitekit/internal/runtimeconfig"
	"github.com/goliatone/go-sitekit/internal/sections"
	"github.com/goliatone/go-sitekit/internal/seeder"
	"github.com/goliatone/go-sitekit/internal/settings"
	"github.com/goliatone/go-sitekit/pkg/interfaces"

	_ "github.com/mattn/go-sqlite3"
)

// Service contract re-exports for consumers of the sitekit package.
type (
	EditorService   = lifecycle.Service
	SettingsService = settings.Service
	FieldChange     = lifecycle.FieldChange
	PageRecord      = pagestore.PageRecord
	PageState       = pagestore.State
	Section         = sections.Section
	SeedReport      = seeder.Report
	BatchChange     = batch.Change
	BatchResult     = batch.Result
	MediaUsage      = mediaindex.Usage
)

// Lifecycle state re-exports.
const (
	StateDraft     = pagestore.StateDraft
	StatePublished = pagestore.StatePublished
)

// ModuleOption overrides a collaborator the config would otherwise wire.
type ModuleOption func(*Module)

// WithAuthorizer gates mutating HTTP routes.
func WithAuthorizer(authorizer interfaces.Authorizer) ModuleOption {
	return func(m *Module) {
		m.authorizer = authorizer
	}
}

// WithLoggerProvider supplies module-scoped loggers; the default is no-op.
func WithLoggerProvider(provider interfaces.LoggerProvider) ModuleOption {
	return func(m *Module) {
		m.loggers = provider
	}
}

// WithAssetStore overrides the S3 adapter, e.g. with a local stub.
func WithAssetStore(store interfaces.AssetStore) ModuleOption {
	return func(m *Module) {
		m.assets = store
	}
}

// WithAIProvider overrides the Anthropic adapter.
func WithAIProvider(provider interfaces.AIProvider) ModuleOption {
	return func(m *Module) {
		m.ai = provider
	}
}

// WithCacheProvider overrides the configured cache.
func WithCacheProvider(provider interfaces.CacheProvider) ModuleOption {
	return func(m *Module) {
		m.cache = provider
	}
}

// WithPageRegistry replaces the default marketing site registry.
func WithPageRegistry(registry *seeder.StaticRegistry) ModuleOption {
	return func(m *Module) {
		if registry != nil {
			m.pages = registry
		}
	}
}

// WithSectionRegistry replaces the built-in section variant registry.
func WithSectionRegistry(registry *sections.Registry) ModuleOption {
	return func(m *Module) {
		if registry != nil {
			m.variants = registry
		}
	}
}

// Module is the top-level engine facade: it owns the wired services and
// registers the HTTP surface.
type Module struct {
	cfg        Config
	db         *sql.DB
	store      pagestore.Repository
	settings   settings.Service
	variants   *sections.Registry
	pages      *seeder.StaticRegistry
	editor     lifecycle.Service
	pipeline   *batch.Pipeline
	seeder     *seeder.Seeder
	mediaIndex *mediaindex.Index
	media      *mediaindex.Manager
	assets     interfaces.AssetStore
	ai         interfaces.AIProvider
	cache      interfaces.CacheProvider
	authorizer interfaces.Authorizer
	loggers    interfaces.LoggerProvider
	api        *httpapi.API
}

// New wires the engine from configuration. The returned module owns any
// database handle it opened; call Close when done.
func New(cfg Config, opts ...ModuleOption) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Module{
		cfg:      cfg,
		variants: sections.Default(),
		pages:    seeder.DefaultSite(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}

	if err := m.wireStorage(); err != nil {
		return nil, err
	}
	m.wireCache()
	m.wireCollaborators()
	m.wireServices()
	m.wireHTTP()

	return m, nil
}

func (m *Module) wireStorage() error {
	var settingsStore pagestore.SettingsRepository

	switch strings.ToLower(strings.TrimSpace(m.cfg.Storage.Driver)) {
	case runtimeconfig.StorageDriverSQLite:
		sqldb, err := sql.Open("sqlite3", m.cfg.Storage.DSN)
		if err != nil {
			return err
		}
		repo := pagestore.NewBunRepository(pagestore.NewBunDB(sqldb))
		if err := repo.EnsureSchema(context.Background()); err != nil {
			sqldb.Close()
			return err
		}
		m.db = sqldb
		m.store = pagestore.WithRetry(repo, pagestore.RetryConfig{
			MaxAttempts: uint64(m.cfg.Storage.RetryAttempts),
		})
		settingsStore = repo
	default:
		repo := pagestore.NewMemoryRepository()
		m.store = repo
		settingsStore = repo
	}

	m.settings = settings.NewService(settingsStore,
		settings.WithLogger(logging.StoreLogger(m.loggers)),
	)
	return nil
}

func (m *Module) wireCache() {
	if m.cache != nil {
		return
	}
	switch strings.ToLower(strings.TrimSpace(m.cfg.Cache.Provider)) {
	case runtimeconfig.CacheProviderRedis:
		m.cache = cache.NewRedis(cache.RedisOptions{
			Address:   m.cfg.Cache.Redis.Address,
			Password:  m.cfg.Cache.Redis.Password,
			DB:        m.cfg.Cache.Redis.DB,
			KeyPrefix: m.cfg.Cache.Redis.KeyPrefix,
		})
	case runtimeconfig.CacheProviderMemory:
		m.cache = cache.NewMemory()
	default:
		m.cache = cache.NoOp()
	}
}

func (m *Module) wireCollaborators() {
	if m.assets == nil && m.cfg.Assets.Enabled {
		m.assets = assets.NewS3Store(assets.Config{
			Bucket:        m.cfg.Assets.Bucket,
			Region:        m.cfg.Assets.Region,
			EndpointURL:   m.cfg.Assets.EndpointURL,
			AccessKey:     m.cfg.Assets.AccessKey,
			SecretKey:     m.cfg.Assets.SecretKey,
			KeyPrefix:     m.cfg.Assets.KeyPrefix,
			PublicBaseURL: m.cfg.Assets.PublicBaseURL,
		})
	}
	if m.ai == nil && m.cfg.AI.Enabled {
		provider := ai.NewAnthropic(ai.Config{
			APIKey:  m.cfg.AI.APIKey,
			Model:   m.cfg.AI.Model,
			BaseURL: m.cfg.AI.BaseURL,
		})
		m.ai = ai.NewDegrading(provider, logging.ModuleLogger(m.loggers, "sitekit.ai"))
	}
}

func (m *Module) wireServices() {
	m.editor = lifecycle.NewService(m.store, m.variants,
		lifecycle.WithPageDefaults(m.pages.Compose(m.variants)),
		lifecycle.WithLogger(logging.LifecycleLogger(m.loggers)),
	)
	m.pipeline = batch.New(m.editor,
		batch.WithLogger(logging.BatchLogger(m.loggers)),
	)
	m.seeder = seeder.New(m.store, m.pages, m.variants, m.editor,
		seeder.WithLogger(logging.SeederLogger(m.loggers)),
	)
	m.mediaIndex = mediaindex.New(m.store,
		mediaindex.WithCache(m.cache),
		mediaindex.WithTTL(m.cfg.Cache.TTL),
		mediaindex.WithLogger(logging.MediaLogger(m.loggers)),
	)
	if m.assets != nil {
		m.media = mediaindex.NewManager(m.mediaIndex, m.assets,
			mediaindex.WithManagerLogger(logging.MediaLogger(m.loggers)),
		)
	}
}

func (m *Module) wireHTTP() {
	opts := []httpapi.Option{
		httpapi.WithBasePath(m.cfg.HTTP.BasePath),
		httpapi.WithEditor(m.editor),
		httpapi.WithBatchPipeline(m.pipeline),
		httpapi.WithSeeder(m.seeder),
		httpapi.WithSettings(m.settings),
		httpapi.WithCache(m.cache, m.cfg.HTTP.CacheTTL),
		httpapi.WithLogger(logging.HTTPLogger(m.loggers)),
	}
	if m.media != nil {
		opts = append(opts, httpapi.WithMediaManager(m.media))
	}
	if m.assets != nil {
		opts = append(opts, httpapi.WithAssetStore(m.assets))
	}
	if m.ai != nil {
		opts = append(opts, httpapi.WithAIProvider(m.ai))
	}
	if m.authorizer != nil {
		opts = append(opts, httpapi.WithAuthorizer(m.authorizer))
	}
	m.api = httpapi.NewAPI(opts...)
}

// Editor returns the draft/publish service.
func (m *Module) Editor() EditorService {
	return m.editor
}

// Batch returns the batch change pipeline.
func (m *Module) Batch() *batch.Pipeline {
	return m.pipeline
}

// Seeder returns the schema seeding pipeline.
func (m *Module) Seeder() *seeder.Seeder {
	return m.seeder
}

// MediaUsageOf exposes the derived usage index lookup.
func (m *Module) MediaUsageOf(ctx context.Context, mediaID string) []MediaUsage {
	return m.mediaIndex.UsageOf(ctx, mediaID)
}

// Settings returns the site settings service.
func (m *Module) Settings() SettingsService {
	return m.settings
}

// Register attaches the HTTP API to the provided mux.
func (m *Module) Register(mux *http.ServeMux) error {
	return m.api.Register(mux)
}

// Close releases any database handle the module opened.
func (m *Module) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
