package pagestore

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrRecordNotFound reports a missing (pageID, state) record.
	ErrRecordNotFound = errors.New("pagestore: record not found")
	// ErrStoreUnavailable reports a transient store failure; idempotent
	// operations are safe to retry.
	ErrStoreUnavailable = errors.New("pagestore: store unavailable")
	// ErrSettingsNotFound reports that the site settings record has never
	// been written.
	ErrSettingsNotFound = errors.New("pagestore: site settings not found")
)

// RecordNotFoundError carries the missing record's address.
type RecordNotFoundError struct {
	PageID string
	State  State
}

func (e *RecordNotFoundError) Error() string {
	if e == nil {
		return ErrRecordNotFound.Error()
	}
	return fmt.Sprintf("%s: %s/%s", ErrRecordNotFound.Error(), e.PageID, e.State)
}

func (e *RecordNotFoundError) Unwrap() error {
	return ErrRecordNotFound
}

// Repository is the thin contract over the underlying document store. Put is
// a full-record overwrite with last-write-wins semantics; Get is strongly
// consistent after Put on the same key; no multi-key transactions exist.
type Repository interface {
	Get(ctx context.Context, pageID string, state State) (*PageRecord, error)
	Put(ctx context.Context, record *PageRecord) error
	ScanByPrefix(ctx context.Context, prefix string) ([]*PageRecord, error)
	Delete(ctx context.Context, pageID string) error
}

// SiteSettings is the single-row site configuration record, stored under a
// well-known key in the same table as page records.
type SiteSettings struct {
	SiteName       string    `json:"site_name"`
	DefaultLocale  string    `json:"default_locale"`
	ContactEmail   string    `json:"contact_email,omitempty"`
	AnalyticsID    string    `json:"analytics_id,omitempty"`
	MaintenanceOn  bool      `json:"maintenance_on"`
	UpdatedAt      time.Time `json:"updated_at"`
	SchemaRevision int       `json:"schema_revision"`
}

// SettingsRepository reads and replaces the well-known settings record.
// Writes are full overwrites; callers layer invalidation-on-write caching.
type SettingsRepository interface {
	LoadSettings(ctx context.Context) (*SiteSettings, error)
	SaveSettings(ctx context.Context, settings *SiteSettings) error
}

const (
	settingsPK = "SITE#settings"
	settingsSK = "config"
)
