package contentkey

import (
	"errors"
	"fmt"
	"strings"
)

// Delimiter separates the three components of an encoded content key. Page,
// section, and field identifiers are slug-like (lowercase, digits, dash,
// underscore) and never carry colons, which keeps the encoding bijective.
const Delimiter = "::"

// ErrMalformedKey reports a token that does not decode into exactly three
// well-formed components.
var ErrMalformedKey = errors.New("contentkey: malformed key")

// MalformedKeyError carries the offending token alongside the parse failure.
type MalformedKeyError struct {
	Token  string
	Reason string
}

func (e *MalformedKeyError) Error() string {
	if e == nil {
		return ErrMalformedKey.Error()
	}
	reason := strings.TrimSpace(e.Reason)
	if reason == "" {
		return fmt.Sprintf("%s: %q", ErrMalformedKey.Error(), e.Token)
	}
	return fmt.Sprintf("%s: %q (%s)", ErrMalformedKey.Error(), e.Token, reason)
}

func (e *MalformedKeyError) Unwrap() error {
	return ErrMalformedKey
}

// Key addresses one editable value: a named field inside an ordered section
// of a page.
type Key struct {
	PageID    string `json:"page_id"`
	SectionID string `json:"section_id"`
	FieldKey  string `json:"field_key"`
}

// New validates the triple and returns a Key.
func New(pageID, sectionID, fieldKey string) (Key, error) {
	key := Key{PageID: pageID, SectionID: sectionID, FieldKey: fieldKey}
	if err := key.Validate(); err != nil {
		return Key{}, err
	}
	return key, nil
}

// Validate checks every component for emptiness and reserved characters.
func (k Key) Validate() error {
	for _, component := range []struct {
		name  string
		value string
	}{
		{"page id", k.PageID},
		{"section id", k.SectionID},
		{"field key", k.FieldKey},
	} {
		if err := validateComponent(component.name, component.value); err != nil {
			return err
		}
	}
	return nil
}

// Encode produces the deterministic token for the triple. Two distinct
// triples can never encode to the same token because no component may
// contain a colon.
func (k Key) Encode() (string, error) {
	if err := k.Validate(); err != nil {
		return "", err
	}
	return k.PageID + Delimiter + k.SectionID + Delimiter + k.FieldKey, nil
}

// String renders the key for logs and error messages. Invalid keys render
// with the same delimiter so failures remain debuggable.
func (k Key) String() string {
	return k.PageID + Delimiter + k.SectionID + Delimiter + k.FieldKey
}

// Encode is the package-level convenience for Key.Encode.
func Encode(pageID, sectionID, fieldKey string) (string, error) {
	return Key{PageID: pageID, SectionID: sectionID, FieldKey: fieldKey}.Encode()
}

// Decode parses a token back into its triple. It fails with ErrMalformedKey
// unless the token contains exactly three non-empty, colon-free components.
func Decode(token string) (Key, error) {
	parts := strings.Split(token, Delimiter)
	if len(parts) != 3 {
		return Key{}, &MalformedKeyError{
			Token:  token,
			Reason: fmt.Sprintf("expected 3 components, got %d", len(parts)),
		}
	}
	key := Key{PageID: parts[0], SectionID: parts[1], FieldKey: parts[2]}
	if err := key.Validate(); err != nil {
		return Key{}, &MalformedKeyError{Token: token, Reason: err.Error()}
	}
	return key, nil
}

func validateComponent(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return &MalformedKeyError{Reason: name + " is required"}
	}
	if strings.Contains(value, ":") {
		return &MalformedKeyError{Reason: name + " contains a reserved character"}
	}
	if value != strings.TrimSpace(value) {
		return &MalformedKeyError{Reason: name + " has surrounding whitespace"}
	}
	return nil
}
