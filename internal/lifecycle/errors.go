package lifecycle

import (
	"errors"
	"fmt"
)

var (
	// ErrNoDraftToPublish reports a publish request for a page without a
	// DRAFT record. Publish never creates drafts.
	ErrNoDraftToPublish = errors.New("lifecycle: no draft to publish")
	// ErrPageIDRequired reports an operation without a page id.
	ErrPageIDRequired = errors.New("lifecycle: page id is required")
)

// NoDraftToPublishError carries the page id that had no draft.
type NoDraftToPublishError struct {
	PageID string
}

func (e *NoDraftToPublishError) Error() string {
	if e == nil {
		return ErrNoDraftToPublish.Error()
	}
	return fmt.Sprintf("%s: %q", ErrNoDraftToPublish.Error(), e.PageID)
}

func (e *NoDraftToPublishError) Unwrap() error {
	return ErrNoDraftToPublish
}
