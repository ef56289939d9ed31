package pagestore

import (
	"strings"
	"time"

	"github.com/goliatone/go-sitekit/internal/sections"
	"github.com/google/uuid"
)

// State is the lifecycle state of a page record. Exactly two states exist;
// there is no history, branching, or trash.
type State string

const (
	StateDraft     State = "draft"
	StatePublished State = "published"
)

// PagePrefix is the partition key namespace for page records.
const PagePrefix = "PAGE#"

// SEO is the page-level metadata snapshot carried by both lifecycle states.
type SEO struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	CanonicalURL string `json:"canonical_url,omitempty"`
}

// PageRecord is the unit of storage and mutation: one (pageID, state) pair
// holding the ordered section list, page SEO, a monotonically increasing
// version counter, and audit fields.
type PageRecord struct {
	PageID      string             `json:"page_id"`
	State       State              `json:"state"`
	Sections    []sections.Section `json:"sections"`
	SEO         SEO                `json:"seo"`
	Version     int                `json:"version"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	UpdatedBy   *uuid.UUID         `json:"updated_by,omitempty"`
	PublishedAt *time.Time         `json:"published_at,omitempty"`
}

// PartitionKey derives the storage partition key for a page id.
func PartitionKey(pageID string) string {
	return PagePrefix + pageID
}

// PageIDFromPartitionKey reverses PartitionKey; it returns "" for keys
// outside the page namespace.
func PageIDFromPartitionKey(pk string) string {
	if !strings.HasPrefix(pk, PagePrefix) {
		return ""
	}
	return strings.TrimPrefix(pk, PagePrefix)
}

// Clone deep-copies the record so callers can mutate drafts freely.
func (r *PageRecord) Clone() *PageRecord {
	if r == nil {
		return nil
	}
	copied := *r
	copied.Sections = sections.CloneSections(r.Sections)
	if r.UpdatedBy != nil {
		id := *r.UpdatedBy
		copied.UpdatedBy = &id
	}
	if r.PublishedAt != nil {
		at := *r.PublishedAt
		copied.PublishedAt = &at
	}
	return &copied
}
