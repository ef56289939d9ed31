package batch

import (
	"context"
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-sitekit/internal/contentkey"
	"github.com/goliatone/go-sitekit/internal/lifecycle"
	"github.com/goliatone/go-sitekit/internal/logging"
	"github.com/goliatone/go-sitekit/internal/sections"
	"github.com/goliatone/go-sitekit/pkg/interfaces"
	"github.com/google/uuid"
)

// ErrPartialBatchFailure is the aggregate signal that at least one change in
// a batch failed while others succeeded. It never describes a single change.
var ErrPartialBatchFailure = errors.New("batch: partial failure")

// Status classifies the aggregate outcome of a batch.
type Status string

const (
	StatusOK      Status = "ok"
	StatusPartial Status = "partial"
	StatusFailed  Status = "failed"
)

// Change is one atomic field-level edit submitted by the editing client.
type Change struct {
	PageID    string             `json:"page_id"`
	SectionID string             `json:"section_id"`
	FieldKey  string             `json:"field_key"`
	Value     any                `json:"value"`
	FieldType sections.FieldType `json:"field_type"`
}

// Validate checks the addressing fields before any store round trip.
func (c Change) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(c.PageID) == "" {
		errs["page_id"] = validation.NewError("batch.change.page_id_required", "page_id is required")
	}
	if strings.TrimSpace(c.SectionID) == "" {
		errs["section_id"] = validation.NewError("batch.change.section_id_required", "section_id is required")
	}
	if strings.TrimSpace(c.FieldKey) == "" {
		errs["field_key"] = validation.NewError("batch.change.field_key_required", "field_key is required")
	}
	switch c.FieldType {
	case "", sections.FieldText, sections.FieldHTML, sections.FieldImage, sections.FieldJSON:
	default:
		errs["field_type"] = validation.NewError("batch.change.field_type_unknown", "field_type is not recognized")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ChangeResult reports the outcome of one change, keyed by its encoded
// content key so callers can retry exactly the failed subset.
type ChangeResult struct {
	Key   string `json:"key"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Result is the aggregate outcome. Items preserve submission order.
type Result struct {
	Items     []ChangeResult `json:"items"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
	Total     int            `json:"total"`
	Status    Status         `json:"status"`
}

// Err maps the aggregate status to the error taxonomy: nil when everything
// landed, ErrPartialBatchFailure on a mixed outcome, and a terminal error
// when every change failed.
func (r Result) Err() error {
	switch r.Status {
	case StatusPartial:
		return ErrPartialBatchFailure
	case StatusFailed:
		return errors.New("batch: all changes failed")
	default:
		return nil
	}
}

// PipelineOption customises the pipeline.
type PipelineOption func(*Pipeline)

// WithLogger attaches a logger; the default drops everything.
func WithLogger(logger interfaces.Logger) PipelineOption {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Pipeline applies a set of field-level edits, each independently. One
// change's failure never blocks or rolls back any other change; there is no
// cross-change transactionality.
type Pipeline struct {
	editor lifecycle.Service
	logger interfaces.Logger
}

// New constructs the pipeline on top of the draft/publish service.
func New(editor lifecycle.Service, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{editor: editor, logger: logging.NoOp()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Apply processes changes in submission order. Changes targeting the same
// content key apply in order, last write wins.
func (p *Pipeline) Apply(ctx context.Context, changes []Change, author *uuid.UUID) Result {
	result := Result{
		Items: make([]ChangeResult, 0, len(changes)),
		Total: len(changes),
	}

	for _, change := range changes {
		item := ChangeResult{Key: changeToken(change)}

		if err := p.applyOne(ctx, change, author); err != nil {
			item.Error = err.Error()
			result.Failed++
			p.logger.Warn("batch change failed",
				"key", item.Key,
				"error", err,
			)
		} else {
			item.OK = true
			result.Succeeded++
		}
		result.Items = append(result.Items, item)
	}

	switch {
	case result.Total == 0 || result.Failed == 0:
		result.Status = StatusOK
	case result.Succeeded == 0:
		result.Status = StatusFailed
	default:
		result.Status = StatusPartial
	}
	return result
}

func (p *Pipeline) applyOne(ctx context.Context, change Change, author *uuid.UUID) error {
	if err := change.Validate(); err != nil {
		return err
	}
	key, err := contentkey.New(change.PageID, change.SectionID, change.FieldKey)
	if err != nil {
		return err
	}
	_, err = p.editor.Edit(ctx, lifecycle.FieldChange{
		Key:       key,
		Value:     change.Value,
		FieldType: change.FieldType,
		Author:    author,
	})
	return err
}

// changeToken renders the addressing triple even when it would not encode,
// so failed items stay identifiable in the result.
func changeToken(change Change) string {
	if token, err := contentkey.Encode(change.PageID, change.SectionID, change.FieldKey); err == nil {
		return token
	}
	return contentkey.Key{
		PageID:    change.PageID,
		SectionID: change.SectionID,
		FieldKey:  change.FieldKey,
	}.String()
}
