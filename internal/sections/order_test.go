package sections_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-sitekit/internal/sections"
)

func sectionList(ids ...string) []sections.Section {
	out := make([]sections.Section, len(ids))
	for i, id := range ids {
		out[i] = sections.Section{ID: id, Type: sections.TypeTextBlock, Order: i}
	}
	return out
}

func assertOrder(t *testing.T, list []sections.Section, ids ...string) {
	t.Helper()
	if len(list) != len(ids) {
		t.Fatalf("expected %d sections, got %d", len(ids), len(list))
	}
	for i, id := range ids {
		if list[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, list[i].ID)
		}
		if list[i].Order != i {
			t.Fatalf("section %s: expected contiguous order %d, got %d", id, i, list[i].Order)
		}
	}
}

func TestNormalizeRenumbersGaps(t *testing.T) {
	list := []sections.Section{
		{ID: "c", Order: 10},
		{ID: "a", Order: 2},
		{ID: "b", Order: 7},
	}
	assertOrder(t, sections.Normalize(list), "a", "b", "c")
}

func TestInsertClampsPosition(t *testing.T) {
	list := sectionList("a", "b", "c")

	inserted := sections.Insert(list, sections.Section{ID: "x"}, 1)
	assertOrder(t, inserted, "a", "x", "b", "c")

	appended := sections.Insert(list, sections.Section{ID: "y"}, -1)
	assertOrder(t, appended, "a", "b", "c", "y")

	beyond := sections.Insert(list, sections.Section{ID: "z"}, 99)
	assertOrder(t, beyond, "a", "b", "c", "z")
}

func TestRemoveRenumbers(t *testing.T) {
	list := sectionList("a", "b", "c")

	out, err := sections.Remove(list, "b")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	assertOrder(t, out, "a", "c")

	if _, err := sections.Remove(list, "missing"); !errors.Is(err, sections.ErrSectionNotFound) {
		t.Fatalf("expected ErrSectionNotFound, got %v", err)
	}
}

func TestMoveRelocates(t *testing.T) {
	list := sectionList("a", "b", "c", "d")

	out, err := sections.Move(list, "d", 0)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	assertOrder(t, out, "d", "a", "b", "c")

	out, err = sections.Move(list, "a", 2)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	assertOrder(t, out, "b", "c", "a", "d")

	if _, err := sections.Move(list, "missing", 0); !errors.Is(err, sections.ErrSectionNotFound) {
		t.Fatalf("expected ErrSectionNotFound, got %v", err)
	}
}
