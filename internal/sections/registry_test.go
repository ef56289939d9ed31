package sections_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-sitekit/internal/sections"
)

func TestDefaultRegistryInstances(t *testing.T) {
	registry := sections.Default()

	tags := registry.Types()
	if len(tags) != 7 {
		t.Fatalf("expected 7 built-in variants, got %d", len(tags))
	}

	for _, tag := range tags {
		section, err := registry.DefaultInstance(tag, "sec-1", 3)
		if err != nil {
			t.Fatalf("default instance %s: %v", tag, err)
		}
		if section.ID != "sec-1" {
			t.Fatalf("%s: expected id sec-1, got %q", tag, section.ID)
		}
		if section.Type != tag {
			t.Fatalf("%s: expected type tag preserved, got %q", tag, section.Type)
		}
		if section.Order != 3 {
			t.Fatalf("%s: expected order 3, got %d", tag, section.Order)
		}
		if len(section.Fields) == 0 {
			t.Fatalf("%s: default instance has no fields", tag)
		}

		meta, err := registry.Metadata(tag)
		if err != nil {
			t.Fatalf("metadata %s: %v", tag, err)
		}
		if meta.Label == "" || meta.Icon == "" {
			t.Fatalf("%s: metadata missing label or icon", tag)
		}
		if len(meta.Fields) == 0 {
			t.Fatalf("%s: metadata has no field constraints", tag)
		}
	}
}

func TestUnknownVariant(t *testing.T) {
	registry := sections.Default()

	if _, err := registry.DefaultInstance("carousel", "sec-1", 0); !errors.Is(err, sections.ErrUnknownVariant) {
		t.Fatalf("expected ErrUnknownVariant, got %v", err)
	}
	if _, err := registry.Metadata("carousel"); !errors.Is(err, sections.ErrUnknownVariant) {
		t.Fatalf("expected ErrUnknownVariant, got %v", err)
	}
}

func TestRegisterAdditionalVariant(t *testing.T) {
	registry := sections.Default()

	err := registry.Register(sections.Definition{
		Metadata: sections.Metadata{
			Type:  "pricing_table",
			Label: "Pricing table",
			Icon:  "credit-card",
			Fields: []sections.FieldConstraint{
				{Key: "heading", Label: "Heading", Type: sections.FieldText, MaxLength: 120},
			},
		},
		Factory: func(id string, order int) sections.Section {
			return sections.Section{Fields: map[string]any{"heading": "Plans"}}
		},
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	section, err := registry.DefaultInstance("pricing_table", "pricing-1", 0)
	if err != nil {
		t.Fatalf("default instance: %v", err)
	}
	if section.Fields["heading"] != "Plans" {
		t.Fatalf("unexpected default fields: %+v", section.Fields)
	}

	if err := registry.Register(sections.Definition{
		Metadata: sections.Metadata{Type: "pricing_table"},
		Factory: func(id string, order int) sections.Section {
			return sections.Section{}
		},
	}); !errors.Is(err, sections.ErrVariantExists) {
		t.Fatalf("expected ErrVariantExists, got %v", err)
	}
}

func TestRegisterRequiresFactory(t *testing.T) {
	registry := sections.NewRegistry()
	err := registry.Register(sections.Definition{
		Metadata: sections.Metadata{Type: "broken"},
	})
	if !errors.Is(err, sections.ErrFactoryRequired) {
		t.Fatalf("expected ErrFactoryRequired, got %v", err)
	}
}

func TestDefaultInstanceIsIsolated(t *testing.T) {
	registry := sections.Default()

	first, err := registry.DefaultInstance(sections.TypeFeatureGrid, "grid-1", 0)
	if err != nil {
		t.Fatalf("default instance: %v", err)
	}
	items := first.Fields["items"].([]any)
	items[0].(map[string]any)["title"] = "mutated"

	second, err := registry.DefaultInstance(sections.TypeFeatureGrid, "grid-2", 1)
	if err != nil {
		t.Fatalf("default instance: %v", err)
	}
	fresh := second.Fields["items"].([]any)
	if fresh[0].(map[string]any)["title"] == "mutated" {
		t.Fatal("default instances share nested field values")
	}
}
