package mediaindex_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-sitekit/internal/cache"
	"github.com/goliatone/go-sitekit/internal/mediaindex"
	"github.com/goliatone/go-sitekit/internal/pagestore"
	"github.com/goliatone/go-sitekit/internal/sections"
	"github.com/goliatone/go-sitekit/pkg/interfaces"
)

func seedStore(t *testing.T) pagestore.Repository {
	t.Helper()
	store := pagestore.NewMemoryRepository()
	ctx := context.Background()

	records := []*pagestore.PageRecord{
		{
			PageID: "home",
			State:  pagestore.StateDraft,
			Sections: []sections.Section{
				{
					ID:   "hero-1",
					Type: sections.TypeHero,
					Fields: map[string]any{
						"headline":         "Welcome",
						"background_image": "asset://img-hero",
					},
				},
				{
					ID:   "image_gallery-1",
					Type: sections.TypeImageGallery,
					Fields: map[string]any{
						"images": []any{
							map[string]any{"url": "https://cdn.example.com/assets/img-team.jpg", "alt": "The team"},
							map[string]any{"url": "asset://img-office", "alt": "The office"},
						},
					},
				},
			},
			Version: 1,
		},
		{
			PageID: "about",
			State:  pagestore.StateDraft,
			Sections: []sections.Section{
				{
					ID:   "hero-1",
					Type: sections.TypeHero,
					Fields: map[string]any{
						"background_image": "asset://img-hero",
					},
				},
			},
			Version: 1,
		},
		{
			PageID: "services",
			State:  pagestore.StatePublished,
			Sections: []sections.Section{
				{
					ID:   "hero-1",
					Type: sections.TypeHero,
					Fields: map[string]any{
						"background_image": "asset://img-published-only",
					},
				},
			},
			Version: 1,
		},
	}
	for _, record := range records {
		if err := store.Put(ctx, record); err != nil {
			t.Fatalf("seed store: %v", err)
		}
	}
	return store
}

func TestUsageOfFindsAssetReferences(t *testing.T) {
	index := mediaindex.New(seedStore(t))
	ctx := context.Background()

	usage := index.UsageOf(ctx, "img-hero")
	if len(usage) != 2 {
		t.Fatalf("expected 2 usage sites, got %v", usage)
	}
	want := map[mediaindex.Usage]bool{
		{PageID: "home", SectionID: "hero-1"}:  true,
		{PageID: "about", SectionID: "hero-1"}: true,
	}
	for _, u := range usage {
		if !want[u] {
			t.Fatalf("unexpected usage site %+v", u)
		}
	}
}

func TestUsageOfMatchesNestedGalleryItems(t *testing.T) {
	index := mediaindex.New(seedStore(t))
	ctx := context.Background()

	// Opaque asset reference nested inside a gallery item.
	usage := index.UsageOf(ctx, "img-office")
	if len(usage) != 1 || usage[0].SectionID != "image_gallery-1" {
		t.Fatalf("expected gallery usage, got %v", usage)
	}

	// Plain URL whose last path segment is the asset id plus extension.
	usage = index.UsageOf(ctx, "img-team")
	if len(usage) != 1 || usage[0].PageID != "home" {
		t.Fatalf("expected URL-matched usage, got %v", usage)
	}
}

func TestUsageOfUnreferencedAsset(t *testing.T) {
	index := mediaindex.New(seedStore(t))

	if usage := index.UsageOf(context.Background(), "img-unknown"); len(usage) != 0 {
		t.Fatalf("expected no usage, got %v", usage)
	}
}

func TestUsageOfSkipsPublishedByDefault(t *testing.T) {
	store := seedStore(t)
	ctx := context.Background()

	draftsOnly := mediaindex.New(store)
	if usage := draftsOnly.UsageOf(ctx, "img-published-only"); len(usage) != 0 {
		t.Fatalf("published record leaked into draft scan: %v", usage)
	}

	withPublished := mediaindex.New(store, mediaindex.WithPublished())
	if usage := withPublished.UsageOf(ctx, "img-published-only"); len(usage) != 1 {
		t.Fatalf("expected published usage with WithPublished, got %v", usage)
	}
}

type brokenRepository struct {
	pagestore.Repository
}

func (brokenRepository) ScanByPrefix(context.Context, string) ([]*pagestore.PageRecord, error) {
	return nil, &pagestore.StoreUnavailableError{Op: "scan records", Cause: errors.New("connection reset")}
}

func TestUsageOfDegradesToEmptyOnStoreFailure(t *testing.T) {
	index := mediaindex.New(brokenRepository{Repository: pagestore.NewMemoryRepository()})

	if usage := index.UsageOf(context.Background(), "img-hero"); usage != nil {
		t.Fatalf("expected empty degraded result, got %v", usage)
	}
}

type countingRepository struct {
	pagestore.Repository
	mu    sync.Mutex
	scans int
}

func (c *countingRepository) ScanByPrefix(ctx context.Context, prefix string) ([]*pagestore.PageRecord, error) {
	c.mu.Lock()
	c.scans++
	c.mu.Unlock()
	return c.Repository.ScanByPrefix(ctx, prefix)
}

func TestUsageOfCachesWithinTTL(t *testing.T) {
	store := &countingRepository{Repository: seedStore(t)}
	index := mediaindex.New(store,
		mediaindex.WithCache(cache.NewMemory()),
		mediaindex.WithTTL(time.Minute),
	)
	ctx := context.Background()

	first := index.UsageOf(ctx, "img-hero")
	second := index.UsageOf(ctx, "img-hero")
	if len(first) != len(second) {
		t.Fatalf("cached lookup diverged: %v vs %v", first, second)
	}
	if store.scans != 1 {
		t.Fatalf("expected one scan with warm cache, got %d", store.scans)
	}

	index.Invalidate(ctx, "img-hero")
	index.UsageOf(ctx, "img-hero")
	if store.scans != 2 {
		t.Fatalf("expected rescan after invalidation, got %d scans", store.scans)
	}
}

type fakeAssetStore struct {
	deleted []string
	fail    error
}

func (f *fakeAssetStore) IssueUploadURL(context.Context, string, string) (*interfaces.UploadGrant, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAssetStore) PublicURL(assetID string) string {
	return "https://cdn.example.com/assets/" + assetID
}

func (f *fakeAssetStore) Delete(_ context.Context, assetID string) error {
	if f.fail != nil {
		return f.fail
	}
	f.deleted = append(f.deleted, assetID)
	return nil
}

func TestManagerRefusesDeleteOfReferencedAsset(t *testing.T) {
	store := &fakeAssetStore{}
	manager := mediaindex.NewManager(mediaindex.New(seedStore(t)), store)

	err := manager.Delete(context.Background(), "img-hero", false)
	if !errors.Is(err, mediaindex.ErrAssetInUse) {
		t.Fatalf("expected ErrAssetInUse, got %v", err)
	}

	var typed *mediaindex.AssetInUseError
	if !errors.As(err, &typed) {
		t.Fatalf("expected AssetInUseError, got %T", err)
	}
	if typed.AssetID != "img-hero" || len(typed.Usage) != 2 {
		t.Fatalf("unexpected error detail: %+v", typed)
	}
	if len(store.deleted) != 0 {
		t.Fatalf("refused delete must not touch storage: %v", store.deleted)
	}
}

func TestManagerForceDeletesRegardlessOfUsage(t *testing.T) {
	store := &fakeAssetStore{}
	manager := mediaindex.NewManager(mediaindex.New(seedStore(t)), store)

	if err := manager.Delete(context.Background(), "img-hero", true); err != nil {
		t.Fatalf("force delete: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != "img-hero" {
		t.Fatalf("expected storage delete, got %v", store.deleted)
	}
}

func TestManagerDeletesUnreferencedAssetWithoutForce(t *testing.T) {
	store := &fakeAssetStore{}
	manager := mediaindex.NewManager(mediaindex.New(seedStore(t)), store)

	if err := manager.Delete(context.Background(), "img-orphan", false); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != "img-orphan" {
		t.Fatalf("expected storage delete, got %v", store.deleted)
	}
}
