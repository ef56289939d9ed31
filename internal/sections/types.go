package sections

// Type tags one section variant. The set is closed: a tag without a registry
// entry is rejected everywhere it appears.
type Type string

const (
	TypeHero         Type = "hero"
	TypeTextBlock    Type = "text_block"
	TypeFeatureGrid  Type = "feature_grid"
	TypeImageGallery Type = "image_gallery"
	TypeCTA          Type = "cta"
	TypeTestimonials Type = "testimonials"
	TypeFAQ          Type = "faq"
)

// FieldType classifies the payload carried by one editable field.
type FieldType string

const (
	FieldText  FieldType = "text"
	FieldHTML  FieldType = "html"
	FieldImage FieldType = "image"
	FieldJSON  FieldType = "json"
)

// SEOAttributes are the optional per-section SEO hints surfaced to templates.
type SEOAttributes struct {
	HeadingLevel int    `json:"heading_level,omitempty"`
	AnchorID     string `json:"anchor_id,omitempty"`
}

// Section is one typed, ordered block of page content. Fields hold the
// variant-specific values keyed by field key; their shapes are owned by the
// registry, never by callers.
type Section struct {
	ID     string         `json:"id"`
	Type   Type           `json:"type"`
	Order  int            `json:"order"`
	Fields map[string]any `json:"fields"`
	SEO    *SEOAttributes `json:"seo,omitempty"`
}

// Clone returns a deep copy so callers can mutate drafts without sharing
// nested field values.
func (s Section) Clone() Section {
	copied := s
	copied.Fields = cloneFieldMap(s.Fields)
	if s.SEO != nil {
		seo := *s.SEO
		copied.SEO = &seo
	}
	return copied
}

// CloneSections deep-copies an ordered section list.
func CloneSections(list []Section) []Section {
	if list == nil {
		return nil
	}
	out := make([]Section, len(list))
	for i, section := range list {
		out[i] = section.Clone()
	}
	return out
}

func cloneFieldMap(fields map[string]any) map[string]any {
	if fields == nil {
		return nil
	}
	out := make(map[string]any, len(fields))
	for key, value := range fields {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return cloneFieldMap(typed)
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return typed
	}
}
