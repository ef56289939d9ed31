package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-sitekit/internal/contentkey"
	"github.com/goliatone/go-sitekit/internal/logging"
	"github.com/goliatone/go-sitekit/internal/pagestore"
	"github.com/goliatone/go-sitekit/internal/sections"
	"github.com/goliatone/go-sitekit/pkg/interfaces"
	"github.com/google/uuid"
)

// PageStatus is the observable state of a page in the draft/publish machine.
type PageStatus string

const (
	StatusNoDraft              PageStatus = "no_draft"
	StatusHasDraft             PageStatus = "has_draft"
	StatusHasDraftAndPublished PageStatus = "has_draft_and_published"
)

// FieldChange is one atomic field-level edit addressed by a content key.
type FieldChange struct {
	Key       contentkey.Key
	Value     any
	FieldType sections.FieldType
	Author    *uuid.UUID
}

// PageDefaults supplies the default composition for a known page id. The
// static page registry plugs in here; unknown pages start empty and grow
// sections on demand.
type PageDefaults func(pageID string) ([]sections.Section, pagestore.SEO, bool)

// Service orchestrates reading, mutating, and promoting page records.
//
// Every mutation is a read-modify-write of the full DRAFT record; the store
// stays last-write-wins per (pageID, state) key with no finer locking.
type Service interface {
	Edit(ctx context.Context, change FieldChange) (*pagestore.PageRecord, error)
	InsertSection(ctx context.Context, pageID string, tag sections.Type, position int, author *uuid.UUID) (*pagestore.PageRecord, error)
	RemoveSection(ctx context.Context, pageID, sectionID string, author *uuid.UUID) (*pagestore.PageRecord, error)
	MoveSection(ctx context.Context, pageID, sectionID string, position int, author *uuid.UUID) (*pagestore.PageRecord, error)
	Publish(ctx context.Context, pageID string) (*pagestore.PageRecord, error)
	Read(ctx context.Context, pageID string, state pagestore.State) (*pagestore.PageRecord, error)
	Status(ctx context.Context, pageID string) (PageStatus, error)
	DeletePage(ctx context.Context, pageID string) error
}

// ServiceOption customises the lifecycle service.
type ServiceOption func(*service)

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

// WithPageDefaults wires the static page registry's default compositions.
func WithPageDefaults(defaults PageDefaults) ServiceOption {
	return func(s *service) {
		s.defaults = defaults
	}
}

type service struct {
	store    pagestore.Repository
	registry *sections.Registry
	defaults PageDefaults
	logger   interfaces.Logger
	now      func() time.Time
}

// NewService constructs the draft/publish service.
func NewService(store pagestore.Repository, registry *sections.Registry, opts ...ServiceOption) Service {
	s := &service{
		store:    store,
		registry: registry,
		logger:   logging.NoOp(),
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Edit applies one field change to the page's DRAFT, creating the draft
// from registry defaults when the page has never been edited. The draft
// version increments on every applied change.
func (s *service) Edit(ctx context.Context, change FieldChange) (*pagestore.PageRecord, error) {
	if err := change.Key.Validate(); err != nil {
		return nil, err
	}

	draft, err := s.loadOrCreateDraft(ctx, change.Key.PageID)
	if err != nil {
		return nil, err
	}

	section, ok := sections.Find(draft.Sections, change.Key.SectionID)
	if !ok {
		created, err := s.appendDefaultSection(draft, change.Key.SectionID)
		if err != nil {
			return nil, err
		}
		section = created
	}

	if err := s.registry.ValidateFieldValue(section.Type, change.Key.FieldKey, change.Value, change.FieldType); err != nil {
		return nil, err
	}

	for i := range draft.Sections {
		if draft.Sections[i].ID != change.Key.SectionID {
			continue
		}
		if draft.Sections[i].Fields == nil {
			draft.Sections[i].Fields = make(map[string]any)
		}
		draft.Sections[i].Fields[change.Key.FieldKey] = change.Value
	}

	s.touch(draft, change.Author)
	if err := s.store.Put(ctx, draft); err != nil {
		return nil, err
	}

	s.logger.Debug("draft edited",
		"page_id", change.Key.PageID,
		"section_id", change.Key.SectionID,
		"field_key", change.Key.FieldKey,
		"version", draft.Version,
	)
	return draft, nil
}

// InsertSection adds a default instance of the variant at the position and
// renumbers the draft contiguously.
func (s *service) InsertSection(ctx context.Context, pageID string, tag sections.Type, position int, author *uuid.UUID) (*pagestore.PageRecord, error) {
	draft, err := s.loadOrCreateDraft(ctx, pageID)
	if err != nil {
		return nil, err
	}

	sectionID := nextSectionID(draft.Sections, tag)
	section, err := s.registry.DefaultInstance(tag, sectionID, 0)
	if err != nil {
		return nil, err
	}

	draft.Sections = sections.Insert(draft.Sections, section, position)
	s.touch(draft, author)
	if err := s.store.Put(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// RemoveSection drops a section from the draft and renumbers.
func (s *service) RemoveSection(ctx context.Context, pageID, sectionID string, author *uuid.UUID) (*pagestore.PageRecord, error) {
	draft, err := s.store.Get(ctx, pageID, pagestore.StateDraft)
	if err != nil {
		return nil, err
	}

	remaining, err := sections.Remove(draft.Sections, sectionID)
	if err != nil {
		return nil, err
	}
	draft.Sections = remaining
	s.touch(draft, author)
	if err := s.store.Put(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// MoveSection relocates a section within the draft and renumbers.
func (s *service) MoveSection(ctx context.Context, pageID, sectionID string, position int, author *uuid.UUID) (*pagestore.PageRecord, error) {
	draft, err := s.store.Get(ctx, pageID, pagestore.StateDraft)
	if err != nil {
		return nil, err
	}

	moved, err := sections.Move(draft.Sections, sectionID, position)
	if err != nil {
		return nil, err
	}
	draft.Sections = moved
	s.touch(draft, author)
	if err := s.store.Put(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// Publish copies the DRAFT's sections and SEO verbatim into the PUBLISHED
// record. The published version equals the draft version; republishing an
// unchanged draft is a no-op overwrite with the same content.
func (s *service) Publish(ctx context.Context, pageID string) (*pagestore.PageRecord, error) {
	pageID = strings.TrimSpace(pageID)
	if pageID == "" {
		return nil, ErrPageIDRequired
	}

	draft, err := s.store.Get(ctx, pageID, pagestore.StateDraft)
	if err != nil {
		if errors.Is(err, pagestore.ErrRecordNotFound) {
			return nil, &NoDraftToPublishError{PageID: pageID}
		}
		return nil, err
	}

	now := s.now()
	published := draft.Clone()
	published.State = pagestore.StatePublished
	published.PublishedAt = &now
	published.UpdatedAt = now

	if err := s.store.Put(ctx, published); err != nil {
		return nil, err
	}

	s.logger.Info("page published", "page_id", pageID, "version", published.Version)
	return published, nil
}

// Read is a pure lookup; it never mutates state.
func (s *service) Read(ctx context.Context, pageID string, state pagestore.State) (*pagestore.PageRecord, error) {
	return s.store.Get(ctx, pageID, state)
}

// Status reports which of the three machine states the page occupies.
func (s *service) Status(ctx context.Context, pageID string) (PageStatus, error) {
	if _, err := s.store.Get(ctx, pageID, pagestore.StateDraft); err != nil {
		if errors.Is(err, pagestore.ErrRecordNotFound) {
			return StatusNoDraft, nil
		}
		return "", err
	}
	if _, err := s.store.Get(ctx, pageID, pagestore.StatePublished); err != nil {
		if errors.Is(err, pagestore.ErrRecordNotFound) {
			return StatusHasDraft, nil
		}
		return "", err
	}
	return StatusHasDraftAndPublished, nil
}

// DeletePage removes both lifecycle records. There is no soft delete.
func (s *service) DeletePage(ctx context.Context, pageID string) error {
	pageID = strings.TrimSpace(pageID)
	if pageID == "" {
		return ErrPageIDRequired
	}
	if err := s.store.Delete(ctx, pageID); err != nil {
		return err
	}
	s.logger.Info("page deleted", "page_id", pageID)
	return nil
}

func (s *service) loadOrCreateDraft(ctx context.Context, pageID string) (*pagestore.PageRecord, error) {
	draft, err := s.store.Get(ctx, pageID, pagestore.StateDraft)
	if err == nil {
		return draft, nil
	}
	if !errors.Is(err, pagestore.ErrRecordNotFound) {
		return nil, err
	}

	now := s.now()
	draft = &pagestore.PageRecord{
		PageID:    pageID,
		State:     pagestore.StateDraft,
		SEO:       pagestore.SEO{Title: pageID},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if s.defaults != nil {
		if composed, seo, ok := s.defaults(pageID); ok {
			draft.Sections = sections.Normalize(composed)
			draft.SEO = seo
		}
	}
	return draft, nil
}

// appendDefaultSection materializes a section addressed by an edit when the
// draft does not hold it yet. The variant tag is the section id without its
// numeric suffix ("hero-1" -> "hero").
func (s *service) appendDefaultSection(draft *pagestore.PageRecord, sectionID string) (sections.Section, error) {
	tag := sectionTag(sectionID)
	section, err := s.registry.DefaultInstance(tag, sectionID, len(draft.Sections))
	if err != nil {
		return sections.Section{}, err
	}
	draft.Sections = append(draft.Sections, section)
	return section, nil
}

func (s *service) touch(draft *pagestore.PageRecord, author *uuid.UUID) {
	draft.Version++
	draft.UpdatedAt = s.now()
	if author != nil {
		id := *author
		draft.UpdatedBy = &id
	}
}

func sectionTag(sectionID string) sections.Type {
	if idx := strings.LastIndex(sectionID, "-"); idx > 0 {
		return sections.Type(sectionID[:idx])
	}
	return sections.Type(sectionID)
}

func nextSectionID(list []sections.Section, tag sections.Type) string {
	max := 0
	prefix := string(tag) + "-"
	for _, section := range list {
		if !strings.HasPrefix(section.ID, prefix) {
			continue
		}
		var n int
		if _, err := fmt.Sscanf(strings.TrimPrefix(section.ID, prefix), "%d", &n); err == nil && n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s-%d", string(tag), max+1)
}
