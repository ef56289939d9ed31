package batch_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-sitekit/internal/batch"
	"github.com/goliatone/go-sitekit/internal/lifecycle"
	"github.com/goliatone/go-sitekit/internal/pagestore"
	"github.com/goliatone/go-sitekit/internal/sections"
)

func newPipeline(t *testing.T) (*batch.Pipeline, lifecycle.Service) {
	t.Helper()
	store := pagestore.NewMemoryRepository()
	editor := lifecycle.NewService(store, sections.Default())
	return batch.New(editor), editor
}

func TestApplyAllChangesSucceed(t *testing.T) {
	pipeline, editor := newPipeline(t)
	ctx := context.Background()

	result := pipeline.Apply(ctx, []batch.Change{
		{PageID: "home", SectionID: "hero-1", FieldKey: "headline", Value: "One", FieldType: sections.FieldText},
		{PageID: "home", SectionID: "hero-1", FieldKey: "subheadline", Value: "Two", FieldType: sections.FieldText},
		{PageID: "about", SectionID: "text_block-1", FieldKey: "body_html", Value: "<p>Three</p>", FieldType: sections.FieldHTML},
	}, nil)

	if result.Status != batch.StatusOK {
		t.Fatalf("expected ok status, got %s", result.Status)
	}
	if result.Succeeded != 3 || result.Failed != 0 || result.Total != 3 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if result.Err() != nil {
		t.Fatalf("expected nil aggregate error, got %v", result.Err())
	}

	draft, err := editor.Read(ctx, "home", pagestore.StateDraft)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	hero, _ := sections.Find(draft.Sections, "hero-1")
	if hero.Fields["headline"] != "One" || hero.Fields["subheadline"] != "Two" {
		t.Fatalf("changes not applied: %+v", hero.Fields)
	}
}

func TestApplyPartialFailure(t *testing.T) {
	pipeline, editor := newPipeline(t)
	ctx := context.Background()

	changes := []batch.Change{
		{PageID: "home", SectionID: "hero-1", FieldKey: "headline", Value: "Kept", FieldType: sections.FieldText},
		// Malformed: missing field key.
		{PageID: "home", SectionID: "hero-1", Value: "dropped", FieldType: sections.FieldText},
		{PageID: "home", SectionID: "hero-1", FieldKey: "cta_label", Value: "Go", FieldType: sections.FieldText},
	}

	result := pipeline.Apply(ctx, changes, nil)

	if result.Status != batch.StatusPartial {
		t.Fatalf("expected partial status, got %s", result.Status)
	}
	if result.Succeeded != 2 || result.Failed != 1 || result.Total != 3 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if !errors.Is(result.Err(), batch.ErrPartialBatchFailure) {
		t.Fatalf("expected ErrPartialBatchFailure, got %v", result.Err())
	}
	if result.Items[1].OK || result.Items[1].Error == "" {
		t.Fatalf("expected failed second item with reason, got %+v", result.Items[1])
	}

	// The successes must be durable despite the batch-level failure.
	draft, err := editor.Read(ctx, "home", pagestore.StateDraft)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	hero, _ := sections.Find(draft.Sections, "hero-1")
	if hero.Fields["headline"] != "Kept" || hero.Fields["cta_label"] != "Go" {
		t.Fatalf("successful changes missing on re-read: %+v", hero.Fields)
	}
}

func TestApplyTotalFailureDistinctFromPartial(t *testing.T) {
	pipeline, _ := newPipeline(t)

	result := pipeline.Apply(context.Background(), []batch.Change{
		{PageID: "", SectionID: "hero-1", FieldKey: "headline"},
		{PageID: "home", SectionID: "", FieldKey: "headline"},
	}, nil)

	if result.Status != batch.StatusFailed {
		t.Fatalf("expected failed status, got %s", result.Status)
	}
	if errors.Is(result.Err(), batch.ErrPartialBatchFailure) {
		t.Fatal("total failure must not report as partial")
	}
	if result.Err() == nil {
		t.Fatal("total failure must carry an error")
	}
}

func TestApplySameKeyLastWriteWins(t *testing.T) {
	pipeline, editor := newPipeline(t)
	ctx := context.Background()

	result := pipeline.Apply(ctx, []batch.Change{
		{PageID: "home", SectionID: "hero-1", FieldKey: "headline", Value: "first", FieldType: sections.FieldText},
		{PageID: "home", SectionID: "hero-1", FieldKey: "headline", Value: "second", FieldType: sections.FieldText},
		{PageID: "home", SectionID: "hero-1", FieldKey: "headline", Value: "third", FieldType: sections.FieldText},
	}, nil)

	if result.Status != batch.StatusOK {
		t.Fatalf("expected ok status, got %s", result.Status)
	}

	draft, err := editor.Read(ctx, "home", pagestore.StateDraft)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	hero, _ := sections.Find(draft.Sections, "hero-1")
	if hero.Fields["headline"] != "third" {
		t.Fatalf("expected last write to win, got %v", hero.Fields["headline"])
	}
	if draft.Version != 3 {
		t.Fatalf("expected one version bump per applied change, got %d", draft.Version)
	}
}

func TestApplyEmptyBatch(t *testing.T) {
	pipeline, _ := newPipeline(t)

	result := pipeline.Apply(context.Background(), nil, nil)
	if result.Status != batch.StatusOK || result.Total != 0 {
		t.Fatalf("unexpected empty batch result: %+v", result)
	}
}

func TestChangeValidate(t *testing.T) {
	valid := batch.Change{PageID: "home", SectionID: "hero-1", FieldKey: "headline", FieldType: sections.FieldText}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid change rejected: %v", err)
	}

	unknownType := batch.Change{PageID: "home", SectionID: "hero-1", FieldKey: "headline", FieldType: "binary"}
	if err := unknownType.Validate(); err == nil {
		t.Fatal("expected validation error for unknown field type")
	}
}
