package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formstudio/pkg/model"
)

// ControlKind names the concrete control a renderer draws for a field.
type ControlKind string

// Built-in control kinds. Every field type resolves to exactly one of them.
const (
	ControlText          ControlKind = "text"
	ControlTextArea      ControlKind = "textarea"
	ControlSelect        ControlKind = "select"
	ControlRadioGroup    ControlKind = "radio-group"
	ControlCheckboxGroup ControlKind = "checkbox-group"
	ControlToggle        ControlKind = "toggle"
	ControlSlider        ControlKind = "slider"
	ControlFilePicker    ControlKind = "file-picker"
)

// Matcher decides whether a control should handle the supplied field.
type Matcher func(field model.Field) bool

type rule struct {
	kind     ControlKind
	priority int
	match    Matcher
	order    int
}

// Registry selects the control for each field. Higher priority wins; ties
// fall back to registration order. The built-in rules run at priority 0 and
// cover every field type, so hosts can override a type by registering a
// matcher with a positive priority.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in mapping registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a matcher for kind with the provided priority.
func (r *Registry) Register(kind ControlKind, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := ControlKind(strings.TrimSpace(string(kind)))
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		kind:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the control kind for a field. A nil registry falls back to
// the built-in mapping.
func (r *Registry) Resolve(field model.Field) ControlKind {
	if r == nil {
		return builtinControl(field.Type)
	}
	r.mu.RLock()
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()

	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(field) {
			return entry.kind
		}
	}
	return builtinControl(field.Type)
}

func (r *Registry) registerBuiltins() {
	for _, info := range model.Types() {
		typ := info.Type
		r.Register(builtinControl(typ), 0, func(field model.Field) bool {
			return field.Type == typ
		})
	}
}

func builtinControl(t model.FieldType) ControlKind {
	switch t {
	case model.FieldTypeTextArea:
		return ControlTextArea
	case model.FieldTypeSelect:
		return ControlSelect
	case model.FieldTypeRadio:
		return ControlRadioGroup
	case model.FieldTypeCheckbox:
		return ControlCheckboxGroup
	case model.FieldTypeSwitch:
		return ControlToggle
	case model.FieldTypeRange:
		return ControlSlider
	case model.FieldTypeFile:
		return ControlFilePicker
	default:
		return ControlText
	}
}
