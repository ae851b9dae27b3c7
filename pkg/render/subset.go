package render

import (
	"encoding/json"
	"strings"

	"github.com/goliatone/go-formstudio/pkg/model"
)

// FieldSubset narrows the fields a renderer draws. A field is kept when it
// matches any filter; an empty subset keeps every field.
type FieldSubset struct {
	IDs   []model.FieldID
	Types []model.FieldType
}

// Empty reports whether the subset has no filters.
func (s FieldSubset) Empty() bool {
	return len(s.IDs) == 0 && len(s.Types) == 0
}

// ParseFieldSubset builds a subset from token lists as given on a command
// line or query string: comma separated ("name,email") or a JSON array
// (`["name","email"]`). Unknown type names are dropped.
func ParseFieldSubset(ids, types string) FieldSubset {
	var subset FieldSubset
	for _, token := range parseTokenList(ids) {
		subset.IDs = append(subset.IDs, model.FieldID(token))
	}
	for _, token := range parseTokenList(types) {
		if t, ok := model.ParseFieldType(token); ok {
			subset.Types = append(subset.Types, t)
		}
	}
	return subset
}

// ApplySubset returns form with only the fields matching subset, in their
// original order. The input form is not modified.
func ApplySubset(form Form, subset FieldSubset) Form {
	if subset.Empty() {
		return form
	}

	ids := make(map[model.FieldID]struct{}, len(subset.IDs))
	for _, id := range subset.IDs {
		ids[id] = struct{}{}
	}
	types := make(map[model.FieldType]struct{}, len(subset.Types))
	for _, t := range subset.Types {
		types[t] = struct{}{}
	}

	filtered := make([]model.Field, 0, len(form.Fields))
	for _, field := range form.Fields {
		_, byID := ids[field.ID]
		_, byType := types[field.Type]
		if byID || byType {
			filtered = append(filtered, field)
		}
	}
	form.Fields = filtered
	return form
}

func parseTokenList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if strings.HasPrefix(raw, "[") {
		var parsed []string
		if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
			return dedupe(trimAll(parsed))
		}
	}
	return dedupe(trimAll(strings.Split(raw, ",")))
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if token := strings.TrimSpace(value); token != "" {
			out = append(out, token)
		}
	}
	return out
}

func dedupe(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		if _, exists := seen[value]; exists {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
