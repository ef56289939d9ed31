package pagestore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-sitekit/internal/pagestore"
	"github.com/goliatone/go-sitekit/internal/sections"
)

func draftRecord(pageID string, version int) *pagestore.PageRecord {
	now := time.Now().UTC()
	return &pagestore.PageRecord{
		PageID: pageID,
		State:  pagestore.StateDraft,
		Sections: []sections.Section{
			{
				ID:    "hero-1",
				Type:  sections.TypeHero,
				Order: 0,
				Fields: map[string]any{
					"headline": "Welcome",
				},
			},
		},
		SEO:       pagestore.SEO{Title: pageID, Description: "test page"},
		Version:   version,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestMemoryRepositoryRoundTrip(t *testing.T) {
	repo := pagestore.NewMemoryRepository()
	ctx := context.Background()

	if _, err := repo.Get(ctx, "home", pagestore.StateDraft); !errors.Is(err, pagestore.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}

	record := draftRecord("home", 1)
	if err := repo.Put(ctx, record); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := repo.Get(ctx, "home", pagestore.StateDraft)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Version != 1 || len(got.Sections) != 1 {
		t.Fatalf("unexpected record: %+v", got)
	}

	// Reads must be isolated from caller mutations.
	got.Sections[0].Fields["headline"] = "mutated"
	fresh, err := repo.Get(ctx, "home", pagestore.StateDraft)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if fresh.Sections[0].Fields["headline"] != "Welcome" {
		t.Fatal("repository leaked internal state to caller")
	}
}

func TestMemoryRepositoryLastWriteWins(t *testing.T) {
	repo := pagestore.NewMemoryRepository()
	ctx := context.Background()

	if err := repo.Put(ctx, draftRecord("home", 1)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := repo.Put(ctx, draftRecord("home", 2)); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := repo.Get(ctx, "home", pagestore.StateDraft)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Version != 2 {
		t.Fatalf("expected last write to win, got version %d", got.Version)
	}
}

func TestMemoryRepositoryScanAndDelete(t *testing.T) {
	repo := pagestore.NewMemoryRepository()
	ctx := context.Background()

	for _, pageID := range []string{"about", "home", "services"} {
		if err := repo.Put(ctx, draftRecord(pageID, 1)); err != nil {
			t.Fatalf("put %s: %v", pageID, err)
		}
	}
	published := draftRecord("home", 1)
	published.State = pagestore.StatePublished
	if err := repo.Put(ctx, published); err != nil {
		t.Fatalf("put published: %v", err)
	}

	all, err := repo.ScanByPrefix(ctx, pagestore.PagePrefix)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 records, got %d", len(all))
	}

	one, err := repo.ScanByPrefix(ctx, pagestore.PartitionKey("home"))
	if err != nil {
		t.Fatalf("scan home: %v", err)
	}
	if len(one) != 2 {
		t.Fatalf("expected draft+published for home, got %d", len(one))
	}

	if err := repo.Delete(ctx, "home"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, "home", pagestore.StateDraft); !errors.Is(err, pagestore.ErrRecordNotFound) {
		t.Fatalf("expected draft gone, got %v", err)
	}
	if _, err := repo.Get(ctx, "home", pagestore.StatePublished); !errors.Is(err, pagestore.ErrRecordNotFound) {
		t.Fatalf("expected published gone, got %v", err)
	}
	// Idempotent delete.
	if err := repo.Delete(ctx, "home"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestMemoryRepositorySettings(t *testing.T) {
	repo := pagestore.NewMemoryRepository()
	ctx := context.Background()

	if _, err := repo.LoadSettings(ctx); !errors.Is(err, pagestore.ErrSettingsNotFound) {
		t.Fatalf("expected ErrSettingsNotFound, got %v", err)
	}

	if err := repo.SaveSettings(ctx, &pagestore.SiteSettings{SiteName: "Acme", DefaultLocale: "en"}); err != nil {
		t.Fatalf("save settings: %v", err)
	}
	settings, err := repo.LoadSettings(ctx)
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if settings.SiteName != "Acme" {
		t.Fatalf("unexpected settings: %+v", settings)
	}
}

type flakyRepository struct {
	pagestore.Repository
	failures int
	calls    int
}

func (f *flakyRepository) Get(ctx context.Context, pageID string, state pagestore.State) (*pagestore.PageRecord, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, &pagestore.StoreUnavailableError{Op: "get record", Cause: errors.New("connection reset")}
	}
	return f.Repository.Get(ctx, pageID, state)
}

func TestRetryRecoversFromTransientFailures(t *testing.T) {
	inner := pagestore.NewMemoryRepository()
	ctx := context.Background()
	if err := inner.Put(ctx, draftRecord("home", 3)); err != nil {
		t.Fatalf("put: %v", err)
	}

	flaky := &flakyRepository{Repository: inner, failures: 2}
	repo := pagestore.WithRetry(flaky, pagestore.RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond})

	got, err := repo.Get(ctx, "home", pagestore.StateDraft)
	if err != nil {
		t.Fatalf("get after retries: %v", err)
	}
	if got.Version != 3 {
		t.Fatalf("unexpected record: %+v", got)
	}
	if flaky.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", flaky.calls)
	}
}

func TestRetryDoesNotRetryNotFound(t *testing.T) {
	inner := pagestore.NewMemoryRepository()
	counting := &countingRepository{Repository: inner}
	repo := pagestore.WithRetry(counting, pagestore.RetryConfig{MaxAttempts: 5, BaseDelay: time.Millisecond})

	if _, err := repo.Get(context.Background(), "missing", pagestore.StateDraft); !errors.Is(err, pagestore.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
	if counting.gets != 1 {
		t.Fatalf("not-found should not retry, got %d attempts", counting.gets)
	}
}

type countingRepository struct {
	pagestore.Repository
	gets int
}

func (c *countingRepository) Get(ctx context.Context, pageID string, state pagestore.State) (*pagestore.PageRecord, error) {
	c.gets++
	return c.Repository.Get(ctx, pageID, state)
}
