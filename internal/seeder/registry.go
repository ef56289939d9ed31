package seeder

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-sitekit/internal/pagestore"
	"github.com/goliatone/go-sitekit/internal/sections"
)

// ErrUnknownPage reports a page id absent from the static site registry.
var ErrUnknownPage = errors.New("seeder: unknown page")

// UnknownPagesError lists the rejected ids alongside the valid set so bulk
// callers can correct their input in one round trip.
type UnknownPagesError struct {
	Unknown []string
	Valid   []string
}

func (e *UnknownPagesError) Error() string {
	if e == nil {
		return ErrUnknownPage.Error()
	}
	return fmt.Sprintf("%s: %s (valid: %s)",
		ErrUnknownPage.Error(),
		strings.Join(e.Unknown, ", "),
		strings.Join(e.Valid, ", "),
	)
}

func (e *UnknownPagesError) Unwrap() error {
	return ErrUnknownPage
}

// SectionSpec names one section in a page's default composition.
type SectionSpec struct {
	Tag sections.Type
	ID  string
}

// PageDefinition declares one known page and its default composition.
type PageDefinition struct {
	PageID      string
	Title       string
	Description string
	Sections    []SectionSpec
}

// StaticRegistry is the closed set of marketing pages the site ships with.
// It is the single source for seed resolution and default drafts.
type StaticRegistry struct {
	pages map[string]PageDefinition
	order []string
}

// NewStaticRegistry constructs a registry from definitions, preserving
// declaration order for deterministic seeding.
func NewStaticRegistry(defs ...PageDefinition) *StaticRegistry {
	registry := &StaticRegistry{pages: make(map[string]PageDefinition, len(defs))}
	for _, def := range defs {
		pageID := strings.TrimSpace(def.PageID)
		if pageID == "" {
			continue
		}
		def.PageID = pageID
		if _, exists := registry.pages[pageID]; !exists {
			registry.order = append(registry.order, pageID)
		}
		registry.pages[pageID] = def
	}
	return registry
}

// PageIDs returns every known page id in declaration order.
func (r *StaticRegistry) PageIDs() []string {
	return append([]string(nil), r.order...)
}

// Has reports whether the page id is known.
func (r *StaticRegistry) Has(pageID string) bool {
	_, ok := r.pages[pageID]
	return ok
}

// Resolve expands the "all" token and validates explicit ids. It rejects
// the whole request, before any writes happen, when any explicit id is
// unknown.
func (r *StaticRegistry) Resolve(ids []string) ([]string, error) {
	if len(ids) == 1 && strings.EqualFold(strings.TrimSpace(ids[0]), "all") {
		return r.PageIDs(), nil
	}

	unknown := make([]string, 0)
	resolved := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, raw := range ids {
		pageID := strings.TrimSpace(raw)
		if pageID == "" || seen[pageID] {
			continue
		}
		seen[pageID] = true
		if !r.Has(pageID) {
			unknown = append(unknown, pageID)
			continue
		}
		resolved = append(resolved, pageID)
	}

	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, &UnknownPagesError{Unknown: unknown, Valid: r.PageIDs()}
	}
	return resolved, nil
}

// Compose builds the default section list and SEO for a known page using
// the variant registry's factories. It satisfies lifecycle.PageDefaults.
func (r *StaticRegistry) Compose(variants *sections.Registry) func(pageID string) ([]sections.Section, pagestore.SEO, bool) {
	return func(pageID string) ([]sections.Section, pagestore.SEO, bool) {
		def, ok := r.pages[pageID]
		if !ok {
			return nil, pagestore.SEO{}, false
		}

		composed := make([]sections.Section, 0, len(def.Sections))
		for i, spec := range def.Sections {
			sectionID := spec.ID
			if sectionID == "" {
				sectionID = fmt.Sprintf("%s-%d", string(spec.Tag), i+1)
			}
			section, err := variants.DefaultInstance(spec.Tag, sectionID, i)
			if err != nil {
				// Unregistered variants in a composition are a wiring bug;
				// skip them rather than block every page edit.
				continue
			}
			composed = append(composed, section)
		}
		return composed, pagestore.SEO{Title: def.Title, Description: def.Description}, true
	}
}

// DefaultSite returns the marketing site's built-in page registry.
func DefaultSite() *StaticRegistry {
	return NewStaticRegistry(
		PageDefinition{
			PageID:      "home",
			Title:       "Home",
			Description: "Everything your team needs, on one page.",
			Sections: []SectionSpec{
				{Tag: sections.TypeHero, ID: "hero-1"},
				{Tag: sections.TypeFeatureGrid, ID: "feature_grid-1"},
				{Tag: sections.TypeTestimonials, ID: "testimonials-1"},
				{Tag: sections.TypeCTA, ID: "cta-1"},
			},
		},
		PageDefinition{
			PageID:      "about",
			Title:       "About us",
			Description: "Who we are and why we do this.",
			Sections: []SectionSpec{
				{Tag: sections.TypeHero, ID: "hero-1"},
				{Tag: sections.TypeTextBlock, ID: "text_block-1"},
				{Tag: sections.TypeImageGallery, ID: "image_gallery-1"},
			},
		},
		PageDefinition{
			PageID:      "services",
			Title:       "Services",
			Description: "What we can do for you.",
			Sections: []SectionSpec{
				{Tag: sections.TypeHero, ID: "hero-1"},
				{Tag: sections.TypeFeatureGrid, ID: "feature_grid-1"},
				{Tag: sections.TypeFAQ, ID: "faq-1"},
				{Tag: sections.TypeCTA, ID: "cta-1"},
			},
		},
		PageDefinition{
			PageID:      "contact",
			Title:       "Contact",
			Description: "Get in touch with the team.",
			Sections: []SectionSpec{
				{Tag: sections.TypeHero, ID: "hero-1"},
				{Tag: sections.TypeTextBlock, ID: "text_block-1"},
				{Tag: sections.TypeCTA, ID: "cta-1"},
			},
		},
	)
}
