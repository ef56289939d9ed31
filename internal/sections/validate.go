package sections

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	// ErrFieldInvalid reports a field value that violates its constraint.
	ErrFieldInvalid = errors.New("sections: field validation failed")
	// ErrFieldTypeMismatch reports a change whose declared field type does
	// not match the registry constraint.
	ErrFieldTypeMismatch = errors.New("sections: field type mismatch")
)

// ValidationIssue captures a single validation failure.
type ValidationIssue struct {
	Location string `json:"location"`
	Message  string `json:"message"`
}

// FieldValidationError surfaces constraint violations with their locations.
type FieldValidationError struct {
	Issues []ValidationIssue
	Cause  error
}

func (e *FieldValidationError) Error() string {
	if e == nil || len(e.Issues) == 0 {
		return ErrFieldInvalid.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := strings.TrimSpace(issue.Location)
		if location == "" {
			location = "#"
		}
		if issue.Message == "" {
			parts = append(parts, location)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return fmt.Sprintf("%s: %s", ErrFieldInvalid.Error(), strings.Join(parts, "; "))
}

func (e *FieldValidationError) Unwrap() error {
	return ErrFieldInvalid
}

// ValidateFieldValue checks a proposed field value against the registry
// constraint for (tag, fieldKey). The declared field type must match the
// constraint; text-like payloads must be strings within bounds; JSON
// payloads validate against the constraint schema when one is attached.
func (r *Registry) ValidateFieldValue(tag Type, fieldKey string, value any, declared FieldType) error {
	constraint, err := r.Constraint(tag, fieldKey)
	if err != nil {
		return err
	}
	if declared != "" && declared != constraint.Type {
		return fmt.Errorf("%w: %s.%s declared %q, registry expects %q",
			ErrFieldTypeMismatch, string(tag), fieldKey, string(declared), string(constraint.Type))
	}

	switch constraint.Type {
	case FieldText, FieldHTML, FieldImage:
		text, ok := value.(string)
		if !ok {
			return &FieldValidationError{Issues: []ValidationIssue{{
				Location: fieldKey,
				Message:  fmt.Sprintf("expected string, got %T", value),
			}}}
		}
		if constraint.Required && strings.TrimSpace(text) == "" {
			return &FieldValidationError{Issues: []ValidationIssue{{
				Location: fieldKey,
				Message:  "value is required",
			}}}
		}
		if constraint.MaxLength > 0 && utf8.RuneCountInString(text) > constraint.MaxLength {
			return &FieldValidationError{Issues: []ValidationIssue{{
				Location: fieldKey,
				Message:  fmt.Sprintf("exceeds max length %d", constraint.MaxLength),
			}}}
		}
		return nil
	case FieldJSON:
		if value == nil {
			if constraint.Required {
				return &FieldValidationError{Issues: []ValidationIssue{{
					Location: fieldKey,
					Message:  "value is required",
				}}}
			}
			return nil
		}
		if constraint.Schema == nil {
			return nil
		}
		return validateAgainstSchema(fieldKey, constraint.Schema, value)
	default:
		return nil
	}
}

func validateAgainstSchema(fieldKey string, schema map[string]any, value any) error {
	compiled, err := compileSchema(schema)
	if err != nil {
		return fmt.Errorf("sections: compile %s schema: %w", fieldKey, err)
	}

	// Round-trip through JSON so json.Number and typed slices normalize to
	// the shapes the validator understands.
	normalized, err := normalizeJSONValue(value)
	if err != nil {
		return &FieldValidationError{
			Issues: []ValidationIssue{{Location: fieldKey, Message: "value is not valid JSON"}},
			Cause:  err,
		}
	}

	if err := compiled.Validate(normalized); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return &FieldValidationError{
				Issues: collectValidationIssues(fieldKey, validationErr),
				Cause:  err,
			}
		}
		return &FieldValidationError{
			Issues: []ValidationIssue{{Location: fieldKey, Message: err.Error()}},
			Cause:  err,
		}
	}
	return nil
}

func compileSchema(schema map[string]any) (*jsonschema.Schema, error) {
	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("schema.json", bytes.NewReader(raw)); err != nil {
		return nil, err
	}
	return compiler.Compile("schema.json")
}

func normalizeJSONValue(value any) (any, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var normalized any
	if err := json.Unmarshal(raw, &normalized); err != nil {
		return nil, err
	}
	return normalized, nil
}

func collectValidationIssues(fieldKey string, err *jsonschema.ValidationError) []ValidationIssue {
	if err == nil {
		return nil
	}
	issues := make([]ValidationIssue, 0, 4)
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			location := strings.TrimSpace(node.InstanceLocation)
			if location == "" {
				location = fieldKey
			} else {
				location = fieldKey + location
			}
			issues = append(issues, ValidationIssue{Location: location, Message: node.Message})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
