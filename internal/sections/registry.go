package sections

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrUnknownVariant reports a section type tag without a registry entry.
	ErrUnknownVariant = errors.New("sections: unknown section variant")
	// ErrVariantExists reports a duplicate registration for a type tag.
	ErrVariantExists = errors.New("sections: variant already registered")
	// ErrFactoryRequired reports a registration without a default factory.
	ErrFactoryRequired = errors.New("sections: default factory is required")
	// ErrUnknownField reports a field key absent from the variant's constraints.
	ErrUnknownField = errors.New("sections: unknown field for variant")
)

// UnknownVariantError carries the rejected tag.
type UnknownVariantError struct {
	Tag Type
}

func (e *UnknownVariantError) Error() string {
	if e == nil {
		return ErrUnknownVariant.Error()
	}
	return fmt.Sprintf("%s: %q", ErrUnknownVariant.Error(), string(e.Tag))
}

func (e *UnknownVariantError) Unwrap() error {
	return ErrUnknownVariant
}

// FieldConstraint describes one editable field of a variant: its payload
// type, whether the editor must supply it, and bounds the editing UI
// enforces. JSON fields may attach a schema validated on write.
type FieldConstraint struct {
	Key       string         `json:"key"`
	Label     string         `json:"label"`
	Type      FieldType      `json:"type"`
	Required  bool           `json:"required"`
	MaxLength int            `json:"max_length,omitempty"`
	Schema    map[string]any `json:"schema,omitempty"`
}

// Metadata is the presentation/validation contract for one variant,
// consumed by the external editing UI. The registry is the single source of
// truth for field shapes; no other component hardcodes them.
type Metadata struct {
	Type   Type              `json:"type"`
	Label  string            `json:"label"`
	Icon   string            `json:"icon"`
	Fields []FieldConstraint `json:"fields"`
}

// Factory produces a structurally valid, non-empty default instance for a
// variant. The registry supplies the stable identifier and render order.
type Factory func(id string, order int) Section

// Definition couples a variant's metadata with its default factory.
type Definition struct {
	Metadata Metadata
	Factory  Factory
}

// Registry holds the closed set of section variants. Adding a variant means
// registering a tag, a factory, and field constraints; nothing else changes.
type Registry struct {
	mu      sync.RWMutex
	entries map[Type]Definition
}

// NewRegistry constructs an empty variant registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[Type]Definition)}
}

// Register records a variant definition.
func (r *Registry) Register(def Definition) error {
	tag := Type(strings.TrimSpace(string(def.Metadata.Type)))
	if tag == "" {
		return &UnknownVariantError{Tag: def.Metadata.Type}
	}
	if def.Factory == nil {
		return fmt.Errorf("%w: %q", ErrFactoryRequired, string(tag))
	}
	def.Metadata.Type = tag

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[tag]; exists {
		return fmt.Errorf("%w: %q", ErrVariantExists, string(tag))
	}
	r.entries[tag] = def
	return nil
}

// DefaultInstance returns a valid default section for the tag, failing with
// ErrUnknownVariant for unregistered tags.
func (r *Registry) DefaultInstance(tag Type, id string, order int) (Section, error) {
	r.mu.RLock()
	def, ok := r.entries[tag]
	r.mu.RUnlock()
	if !ok {
		return Section{}, &UnknownVariantError{Tag: tag}
	}
	section := def.Factory(id, order)
	section.ID = id
	section.Type = tag
	section.Order = order
	return section, nil
}

// Metadata returns the presentation/validation hints for a tag.
func (r *Registry) Metadata(tag Type) (Metadata, error) {
	r.mu.RLock()
	def, ok := r.entries[tag]
	r.mu.RUnlock()
	if !ok {
		return Metadata{}, &UnknownVariantError{Tag: tag}
	}
	return cloneMetadata(def.Metadata), nil
}

// Constraint resolves one field's constraint for a tag.
func (r *Registry) Constraint(tag Type, fieldKey string) (FieldConstraint, error) {
	r.mu.RLock()
	def, ok := r.entries[tag]
	r.mu.RUnlock()
	if !ok {
		return FieldConstraint{}, &UnknownVariantError{Tag: tag}
	}
	for _, constraint := range def.Metadata.Fields {
		if constraint.Key == fieldKey {
			return constraint, nil
		}
	}
	return FieldConstraint{}, fmt.Errorf("%w: %s.%s", ErrUnknownField, string(tag), fieldKey)
}

// Types lists every registered tag in stable order.
func (r *Registry) Types() []Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Type, 0, len(r.entries))
	for tag := range r.entries {
		out = append(out, tag)
	}
	sortTypes(out)
	return out
}

// Has reports whether the tag is registered.
func (r *Registry) Has(tag Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[tag]
	return ok
}

func cloneMetadata(meta Metadata) Metadata {
	copied := meta
	copied.Fields = make([]FieldConstraint, len(meta.Fields))
	for i, field := range meta.Fields {
		cloned := field
		cloned.Schema = cloneFieldMap(field.Schema)
		copied.Fields[i] = cloned
	}
	return copied
}

func sortTypes(tags []Type) {
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
}
