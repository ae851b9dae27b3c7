package validation

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formstudio/pkg/model"
	"github.com/goliatone/go-formstudio/pkg/runtime"
)

// Option configures a Validator.
type Option func(*Validator)

// WithPattern sets (or, with an empty pattern, clears) the regular expression
// applied to non-empty values of a free-text field type.
func WithPattern(t model.FieldType, pattern string) Option {
	return func(v *Validator) {
		if pattern == "" {
			delete(v.patterns, t)
			return
		}
		v.patterns[t] = pattern
	}
}

// Validator is an explicit submission policy: it enforces required fields,
// option membership for choice fields, numeric shape and bounds, and the
// configured text patterns. It satisfies runtime.Validator.
type Validator struct {
	patterns map[model.FieldType]string
}

var _ runtime.Validator = (*Validator)(nil)

// New constructs a Validator with the default email and color patterns.
func New(options ...Option) *Validator {
	v := &Validator{patterns: defaultPatterns()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(v)
	}
	return v
}

// Schema returns the payload schema the validator checks against.
func (v *Validator) Schema(fields []model.Field) *openapi3.Schema {
	return schemaFor(fields, v.patterns)
}

// Validate checks values against the schema derived from fields. Failures
// are reported as a *runtime.ValidationError listing one issue per problem,
// ordered by field position.
func (v *Validator) Validate(fields []model.Field, values runtime.Values) error {
	schema := v.Schema(fields)
	doc := Document(fields, values)

	err := schema.VisitJSON(doc, openapi3.MultiErrors())
	if err == nil {
		return nil
	}

	issues := collectIssues(err, nil)
	if len(issues) == 0 {
		issues = []runtime.Issue{{Message: err.Error()}}
	}
	sortIssues(issues, fields)
	return &runtime.ValidationError{Issues: issues}
}

// Document converts values into the JSON shape described by SchemaFor. Empty
// text is treated as absent, numeric text becomes a number, and values of
// fields not in fields are dropped.
func Document(fields []model.Field, values runtime.Values) map[string]any {
	doc := make(map[string]any, len(fields))
	for _, field := range fields {
		value, ok := values[field.ID]
		if !ok || value == nil {
			continue
		}
		if converted, keep := documentValue(field, value); keep {
			doc[string(field.ID)] = converted
		}
	}
	return doc
}

func documentValue(field model.Field, value model.Value) (any, bool) {
	switch typed := value.(type) {
	case model.Text:
		text := string(typed)
		if strings.TrimSpace(text) == "" {
			return nil, false
		}
		if field.Type == model.FieldTypeNumber || field.Type == model.FieldTypeRange {
			if n, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil {
				return n, true
			}
		}
		return text, true
	case model.Bool:
		return bool(typed), true
	case model.Selection:
		items := make([]any, len(typed))
		for i, item := range typed {
			items[i] = item
		}
		return items, true
	case model.Files:
		items := make([]any, len(typed))
		for i, ref := range typed {
			entry := map[string]any{"name": ref.Name}
			if ref.Size > 0 {
				entry["size"] = float64(ref.Size)
			}
			if ref.ContentType != "" {
				entry["contentType"] = ref.ContentType
			}
			items[i] = entry
		}
		return items, true
	default:
		return value.Interface(), true
	}
}

func collectIssues(err error, out []runtime.Issue) []runtime.Issue {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		for _, inner := range multi {
			out = collectIssues(inner, out)
		}
		return out
	}

	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		issue := runtime.Issue{Message: schemaErr.Reason}
		if issue.Message == "" {
			issue.Message = schemaErr.Error()
		}
		if pointer := schemaErr.JSONPointer(); len(pointer) > 0 {
			issue.FieldID = model.FieldID(pointer[0])
		}
		return append(out, issue)
	}

	return append(out, runtime.Issue{Message: err.Error()})
}

func sortIssues(issues []runtime.Issue, fields []model.Field) {
	position := make(map[model.FieldID]int, len(fields))
	for i, field := range fields {
		position[field.ID] = i
	}
	rank := func(id model.FieldID) int {
		if id == "" {
			return -1
		}
		if p, ok := position[id]; ok {
			return p
		}
		return len(fields)
	}
	sort.SliceStable(issues, func(i, j int) bool {
		return rank(issues[i].FieldID) < rank(issues[j].FieldID)
	})
}
