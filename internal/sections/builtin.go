package sections

// Default returns a registry pre-loaded with the marketing site's built-in
// variants. Hosts can register additional variants on top.
func Default() *Registry {
	registry := NewRegistry()
	for _, def := range builtinDefinitions() {
		// Built-in tags are unique by construction.
		_ = registry.Register(def)
	}
	return registry
}

func builtinDefinitions() []Definition {
	return []Definition{
		{
			Metadata: Metadata{
				Type:  TypeHero,
				Label: "Hero",
				Icon:  "sparkles",
				Fields: []FieldConstraint{
					{Key: "headline", Label: "Headline", Type: FieldText, Required: true, MaxLength: 120},
					{Key: "subheadline", Label: "Subheadline", Type: FieldText, MaxLength: 240},
					{Key: "background_image", Label: "Background image", Type: FieldImage},
					{Key: "cta_label", Label: "CTA label", Type: FieldText, MaxLength: 40},
					{Key: "cta_href", Label: "CTA link", Type: FieldText, MaxLength: 200},
				},
			},
			Factory: func(id string, order int) Section {
				return Section{
					Fields: map[string]any{
						"headline":         "Welcome",
						"subheadline":      "Tell visitors what you do in one sentence.",
						"background_image": "",
						"cta_label":        "Get started",
						"cta_href":         "/contact",
					},
					SEO: &SEOAttributes{HeadingLevel: 1},
				}
			},
		},
		{
			Metadata: Metadata{
				Type:  TypeTextBlock,
				Label: "Text block",
				Icon:  "align-left",
				Fields: []FieldConstraint{
					{Key: "heading", Label: "Heading", Type: FieldText, MaxLength: 120},
					{Key: "body_html", Label: "Body", Type: FieldHTML, Required: true},
				},
			},
			Factory: func(id string, order int) Section {
				return Section{
					Fields: map[string]any{
						"heading":   "About this section",
						"body_html": "<p>Write something useful here.</p>",
					},
					SEO: &SEOAttributes{HeadingLevel: 2},
				}
			},
		},
		{
			Metadata: Metadata{
				Type:  TypeFeatureGrid,
				Label: "Feature grid",
				Icon:  "grid",
				Fields: []FieldConstraint{
					{Key: "heading", Label: "Heading", Type: FieldText, MaxLength: 120},
					{
						Key:      "items",
						Label:    "Features",
						Type:     FieldJSON,
						Required: true,
						Schema: map[string]any{
							"type":     "array",
							"minItems": 1,
							"items": map[string]any{
								"type":     "object",
								"required": []any{"title"},
								"properties": map[string]any{
									"title":       map[string]any{"type": "string", "maxLength": 80},
									"description": map[string]any{"type": "string", "maxLength": 300},
									"icon":        map[string]any{"type": "string"},
								},
							},
						},
					},
				},
			},
			Factory: func(id string, order int) Section {
				return Section{
					Fields: map[string]any{
						"heading": "What we offer",
						"items": []any{
							map[string]any{"title": "Feature one", "description": "Describe the first feature.", "icon": "star"},
							map[string]any{"title": "Feature two", "description": "Describe the second feature.", "icon": "bolt"},
							map[string]any{"title": "Feature three", "description": "Describe the third feature.", "icon": "shield"},
						},
					},
					SEO: &SEOAttributes{HeadingLevel: 2},
				}
			},
		},
		{
			Metadata: Metadata{
				Type:  TypeImageGallery,
				Label: "Image gallery",
				Icon:  "image",
				Fields: []FieldConstraint{
					{Key: "heading", Label: "Heading", Type: FieldText, MaxLength: 120},
					{
						Key:      "images",
						Label:    "Images",
						Type:     FieldJSON,
						Required: true,
						Schema: map[string]any{
							"type": "array",
							"items": map[string]any{
								"type":     "object",
								"required": []any{"src"},
								"properties": map[string]any{
									"src":     map[string]any{"type": "string"},
									"alt":     map[string]any{"type": "string", "maxLength": 200},
									"caption": map[string]any{"type": "string", "maxLength": 300},
								},
							},
						},
					},
				},
			},
			Factory: func(id string, order int) Section {
				return Section{
					Fields: map[string]any{
						"heading": "Gallery",
						"images":  []any{},
					},
					SEO: &SEOAttributes{HeadingLevel: 2},
				}
			},
		},
		{
			Metadata: Metadata{
				Type:  TypeCTA,
				Label: "Call to action",
				Icon:  "megaphone",
				Fields: []FieldConstraint{
					{Key: "heading", Label: "Heading", Type: FieldText, Required: true, MaxLength: 120},
					{Key: "body", Label: "Body", Type: FieldText, MaxLength: 300},
					{Key: "button_label", Label: "Button label", Type: FieldText, Required: true, MaxLength: 40},
					{Key: "button_href", Label: "Button link", Type: FieldText, Required: true, MaxLength: 200},
				},
			},
			Factory: func(id string, order int) Section {
				return Section{
					Fields: map[string]any{
						"heading":      "Ready to talk?",
						"body":         "We usually reply within one business day.",
						"button_label": "Contact us",
						"button_href":  "/contact",
					},
					SEO: &SEOAttributes{HeadingLevel: 2},
				}
			},
		},
		{
			Metadata: Metadata{
				Type:  TypeTestimonials,
				Label: "Testimonials",
				Icon:  "quote",
				Fields: []FieldConstraint{
					{Key: "heading", Label: "Heading", Type: FieldText, MaxLength: 120},
					{
						Key:      "quotes",
						Label:    "Quotes",
						Type:     FieldJSON,
						Required: true,
						Schema: map[string]any{
							"type": "array",
							"items": map[string]any{
								"type":     "object",
								"required": []any{"quote", "author"},
								"properties": map[string]any{
									"quote":  map[string]any{"type": "string", "maxLength": 500},
									"author": map[string]any{"type": "string", "maxLength": 80},
									"role":   map[string]any{"type": "string", "maxLength": 120},
									"avatar": map[string]any{"type": "string"},
								},
							},
						},
					},
				},
			},
			Factory: func(id string, order int) Section {
				return Section{
					Fields: map[string]any{
						"heading": "What clients say",
						"quotes":  []any{},
					},
					SEO: &SEOAttributes{HeadingLevel: 2},
				}
			},
		},
		{
			Metadata: Metadata{
				Type:  TypeFAQ,
				Label: "FAQ",
				Icon:  "help-circle",
				Fields: []FieldConstraint{
					{Key: "heading", Label: "Heading", Type: FieldText, MaxLength: 120},
					{
						Key:      "items",
						Label:    "Questions",
						Type:     FieldJSON,
						Required: true,
						Schema: map[string]any{
							"type":     "array",
							"minItems": 1,
							"items": map[string]any{
								"type":     "object",
								"required": []any{"question", "answer"},
								"properties": map[string]any{
									"question": map[string]any{"type": "string", "maxLength": 200},
									"answer":   map[string]any{"type": "string", "maxLength": 2000},
								},
							},
						},
					},
				},
			},
			Factory: func(id string, order int) Section {
				return Section{
					Fields: map[string]any{
						"heading": "Frequently asked questions",
						"items": []any{
							map[string]any{
								"question": "How do I get started?",
								"answer":   "Reach out through the contact form and we will set up a call.",
							},
						},
					},
					SEO: &SEOAttributes{HeadingLevel: 2},
				}
			},
		},
	}
}
