package settings_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-sitekit/internal/cache"
	"github.com/goliatone/go-sitekit/internal/pagestore"
	"github.com/goliatone/go-sitekit/internal/settings"
)

type countingSettingsRepo struct {
	pagestore.SettingsRepository
	mu    sync.Mutex
	loads int
}

func (c *countingSettingsRepo) LoadSettings(ctx context.Context) (*pagestore.SiteSettings, error) {
	c.mu.Lock()
	c.loads++
	c.mu.Unlock()
	return c.SettingsRepository.LoadSettings(ctx)
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestLoadReturnsDefaultsWhenUnset(t *testing.T) {
	service := settings.NewService(pagestore.NewMemoryRepository())

	loaded, err := service.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.SiteName == "" || loaded.DefaultLocale == "" {
		t.Fatalf("expected defaults, got %+v", loaded)
	}
}

func TestUpdateMergesAndPersists(t *testing.T) {
	service := settings.NewService(pagestore.NewMemoryRepository())
	ctx := context.Background()

	updated, err := service.Update(ctx, settings.UpdateRequest{
		SiteName:     strPtr("Acme Inc"),
		ContactEmail: strPtr("hello@acme.test"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.SiteName != "Acme Inc" || updated.ContactEmail != "hello@acme.test" {
		t.Fatalf("unexpected merge: %+v", updated)
	}

	// A second partial update leaves earlier fields untouched.
	if _, err := service.Update(ctx, settings.UpdateRequest{MaintenanceOn: boolPtr(true)}); err != nil {
		t.Fatalf("second update: %v", err)
	}
	loaded, err := service.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.SiteName != "Acme Inc" || !loaded.MaintenanceOn {
		t.Fatalf("partial update clobbered fields: %+v", loaded)
	}
}

func TestUpdateRejectsBlankRequiredFields(t *testing.T) {
	service := settings.NewService(pagestore.NewMemoryRepository())

	if _, err := service.Update(context.Background(), settings.UpdateRequest{SiteName: strPtr("")}); err == nil {
		t.Fatal("expected validation error for blank site name")
	}
}

func TestCachedReadsInvalidateOnWrite(t *testing.T) {
	repo := &countingSettingsRepo{SettingsRepository: pagestore.NewMemoryRepository()}
	service := settings.NewService(repo, settings.WithCache(cache.NewMemory(), time.Minute))
	ctx := context.Background()

	if _, err := service.Update(ctx, settings.UpdateRequest{SiteName: strPtr("Acme Inc")}); err != nil {
		t.Fatalf("update: %v", err)
	}
	loadsAfterUpdate := repo.loads

	service.Load(ctx)
	service.Load(ctx)
	if repo.loads != loadsAfterUpdate+1 {
		t.Fatalf("expected one store load with warm cache, got %d extra", repo.loads-loadsAfterUpdate)
	}

	// A write invalidates, so the next read goes back to the store.
	if _, err := service.Update(ctx, settings.UpdateRequest{AnalyticsID: strPtr("ua-1")}); err != nil {
		t.Fatalf("update: %v", err)
	}
	before := repo.loads
	loaded, err := service.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if repo.loads != before+1 {
		t.Fatalf("expected store load after invalidation")
	}
	if loaded.AnalyticsID != "ua-1" || loaded.SiteName != "Acme Inc" {
		t.Fatalf("stale read after write: %+v", loaded)
	}
}
