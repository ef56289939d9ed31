package seeder_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/goliatone/go-sitekit/internal/contentkey"
	"github.com/goliatone/go-sitekit/internal/lifecycle"
	"github.com/goliatone/go-sitekit/internal/pagestore"
	"github.com/goliatone/go-sitekit/internal/sections"
	"github.com/goliatone/go-sitekit/internal/seeder"
)

func mustKey(t *testing.T, pageID, sectionID, fieldKey string) contentkey.Key {
	t.Helper()
	key, err := contentkey.New(pageID, sectionID, fieldKey)
	if err != nil {
		t.Fatalf("content key: %v", err)
	}
	return key
}

// recordingRepository logs every write so tests can assert on count and order.
type recordingRepository struct {
	pagestore.Repository
	mu  sync.Mutex
	ops []string
}

func (r *recordingRepository) Put(ctx context.Context, record *pagestore.PageRecord) error {
	r.mu.Lock()
	r.ops = append(r.ops, "put:"+record.PageID+"/"+string(record.State))
	r.mu.Unlock()
	return r.Repository.Put(ctx, record)
}

func (r *recordingRepository) writes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ops...)
}

func newSeeder(t *testing.T) (*seeder.Seeder, *recordingRepository, lifecycle.Service) {
	t.Helper()
	store := &recordingRepository{Repository: pagestore.NewMemoryRepository()}
	variants := sections.Default()
	registry := seeder.DefaultSite()
	publisher := lifecycle.NewService(store, variants, lifecycle.WithPageDefaults(registry.Compose(variants)))
	return seeder.New(store, registry, variants, publisher), store, publisher
}

func TestSeedAllWritesEveryPageSequentially(t *testing.T) {
	s, store, _ := newSeeder(t)

	report, err := s.Seed(context.Background(), []string{"all"})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	pageIDs := seeder.DefaultSite().PageIDs()
	if report.Total != len(pageIDs) || report.Succeeded != len(pageIDs) || report.Failed != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}

	writes := store.writes()
	if len(writes) != 2*len(pageIDs) {
		t.Fatalf("expected %d writes (draft+publish per page), got %d: %v", 2*len(pageIDs), len(writes), writes)
	}
	// Strictly sequential: each page's draft write is immediately followed
	// by its publish write, in registry order.
	for i, pageID := range pageIDs {
		if writes[2*i] != "put:"+pageID+"/draft" {
			t.Fatalf("write %d: expected draft for %s, got %s", 2*i, pageID, writes[2*i])
		}
		if writes[2*i+1] != "put:"+pageID+"/published" {
			t.Fatalf("write %d: expected publish for %s, got %s", 2*i+1, pageID, writes[2*i+1])
		}
	}
}

func TestSeedUnknownPageRejectsBeforeAnyWrite(t *testing.T) {
	s, store, _ := newSeeder(t)

	_, err := s.Seed(context.Background(), []string{"home", "unknown-slug"})
	if !errors.Is(err, seeder.ErrUnknownPage) {
		t.Fatalf("expected ErrUnknownPage, got %v", err)
	}

	var typed *seeder.UnknownPagesError
	if !errors.As(err, &typed) {
		t.Fatalf("expected UnknownPagesError, got %T", err)
	}
	if len(typed.Unknown) != 1 || typed.Unknown[0] != "unknown-slug" {
		t.Fatalf("unexpected unknown list: %v", typed.Unknown)
	}
	if len(typed.Valid) != len(seeder.DefaultSite().PageIDs()) {
		t.Fatalf("expected full valid list, got %v", typed.Valid)
	}
	if !strings.Contains(err.Error(), "unknown-slug") {
		t.Fatalf("error should name the unknown slug: %v", err)
	}

	if writes := store.writes(); len(writes) != 0 {
		t.Fatalf("expected zero writes, got %v", writes)
	}
}

func TestSeedIsIdempotentAndKeepsEdits(t *testing.T) {
	s, _, publisher := newSeeder(t)
	ctx := context.Background()

	if _, err := s.Seed(ctx, []string{"home"}); err != nil {
		t.Fatalf("first seed: %v", err)
	}

	// Editor changes a field after the first seed.
	key := lifecycle.FieldChange{
		Key:       mustKey(t, "home", "hero-1", "headline"),
		Value:     "Edited Headline",
		FieldType: sections.FieldText,
	}
	if _, err := publisher.Edit(ctx, key); err != nil {
		t.Fatalf("edit: %v", err)
	}

	report, err := s.Seed(ctx, []string{"home"})
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if report.Pages[0].Created {
		t.Fatal("reseed must not recreate an existing draft")
	}

	draft, err := publisher.Read(ctx, "home", pagestore.StateDraft)
	if err != nil {
		t.Fatalf("read draft: %v", err)
	}
	hero, _ := sections.Find(draft.Sections, "hero-1")
	if hero.Fields["headline"] != "Edited Headline" {
		t.Fatalf("reseed clobbered editor changes: %+v", hero.Fields)
	}

	// The reseed republishes the current draft.
	published, err := publisher.Read(ctx, "home", pagestore.StatePublished)
	if err != nil {
		t.Fatalf("read published: %v", err)
	}
	heroPub, _ := sections.Find(published.Sections, "hero-1")
	if heroPub.Fields["headline"] != "Edited Headline" {
		t.Fatalf("reseed did not republish the edited draft: %+v", heroPub.Fields)
	}
}

func TestSeedContinuesPastPageFailure(t *testing.T) {
	store := &failingOnPageRepository{
		recordingRepository: recordingRepository{Repository: pagestore.NewMemoryRepository()},
		failPage:            "about",
	}
	variants := sections.Default()
	registry := seeder.DefaultSite()
	publisher := lifecycle.NewService(store, variants)
	s := seeder.New(store, registry, variants, publisher)

	report, err := s.Seed(context.Background(), []string{"all"})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if report.Failed != 1 || report.Succeeded != report.Total-1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	for _, page := range report.Pages {
		if page.PageID == "about" {
			if page.OK || page.Error == "" {
				t.Fatalf("expected about to fail with reason, got %+v", page)
			}
		} else if !page.OK {
			t.Fatalf("expected %s to succeed, got %+v", page.PageID, page)
		}
	}
}

type failingOnPageRepository struct {
	recordingRepository
	failPage string
}

func (f *failingOnPageRepository) Put(ctx context.Context, record *pagestore.PageRecord) error {
	if record.PageID == f.failPage {
		return &pagestore.StoreUnavailableError{Op: "put record", Cause: errors.New("throughput exceeded")}
	}
	return f.recordingRepository.Put(ctx, record)
}
