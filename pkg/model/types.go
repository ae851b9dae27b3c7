package model

import (
	"strconv"
	"strings"
)

// FieldType is the closed enumeration of supported field kinds. The string
// form matches the HTML input type where one exists.
type FieldType string

const (
	FieldTypeText          FieldType = "text"
	FieldTypeNumber        FieldType = "number"
	FieldTypeEmail         FieldType = "email"
	FieldTypePassword      FieldType = "password"
	FieldTypeTel           FieldType = "tel"
	FieldTypeURL           FieldType = "url"
	FieldTypeDate          FieldType = "date"
	FieldTypeTime          FieldType = "time"
	FieldTypeDateTimeLocal FieldType = "datetime-local"
	FieldTypeMonth         FieldType = "month"
	FieldTypeWeek          FieldType = "week"
	FieldTypeColor         FieldType = "color"
	FieldTypeRange         FieldType = "range"
	FieldTypeFile          FieldType = "file"
	FieldTypeTextArea      FieldType = "textarea"
	FieldTypeSelect        FieldType = "select"
	FieldTypeRadio         FieldType = "radio"
	FieldTypeCheckbox      FieldType = "checkbox"
	FieldTypeSwitch        FieldType = "switch"
)

// AuxKind identifies which auxiliary payload a field type carries.
type AuxKind int

const (
	AuxNone AuxKind = iota
	AuxOptions
	AuxRange
)

func (k AuxKind) String() string {
	switch k {
	case AuxOptions:
		return "options"
	case AuxRange:
		return "range"
	default:
		return "none"
	}
}

// Default auxiliary payload values applied when a field gains options or a
// range.
const (
	DefaultRangeMin  = 0
	DefaultRangeMax  = 100
	DefaultRangeStep = 1
)

// FieldID identifies a field for its whole lifetime within a schema.
type FieldID string

// Aux is the type-dependent payload attached to a Field. The concrete variant
// is always the one matching Field.Type: NoAux, Options or Range.
type Aux interface {
	Kind() AuxKind
	clone() Aux
}

// NoAux marks field types without auxiliary data.
type NoAux struct{}

func (NoAux) Kind() AuxKind { return AuxNone }
func (NoAux) clone() Aux    { return NoAux{} }

// Options is the ordered choice list of select, radio and checkbox fields.
type Options struct {
	Items []string
}

func (Options) Kind() AuxKind { return AuxOptions }
func (o Options) clone() Aux {
	return Options{Items: append([]string(nil), o.Items...)}
}

// Range bounds a slider control.
type Range struct {
	Min  float64
	Max  float64
	Step float64
}

func (Range) Kind() AuxKind { return AuxRange }
func (r Range) clone() Aux  { return r }

// Field is one form field descriptor.
type Field struct {
	ID       FieldID
	Type     FieldType
	Label    string
	Required bool
	Aux      Aux
}

// Options returns a copy of the option list when the field carries one.
func (f Field) Options() ([]string, bool) {
	opts, ok := f.Aux.(Options)
	if !ok {
		return nil, false
	}
	return append([]string(nil), opts.Items...), true
}

// Range returns the slider bounds when the field is a range field.
func (f Field) Range() (Range, bool) {
	r, ok := f.Aux.(Range)
	return r, ok
}

// Clone returns a deep copy so callers never alias the owner's option slice.
func (f Field) Clone() Field {
	if f.Aux != nil {
		f.Aux = f.Aux.clone()
	}
	return f
}

// CloneFields deep copies a field slice.
func CloneFields(fields []Field) []Field {
	if fields == nil {
		return nil
	}
	out := make([]Field, len(fields))
	for i, field := range fields {
		out[i] = field.Clone()
	}
	return out
}

// OptionLabel formats the default label of the n-th option (1-based).
func OptionLabel(n int) string {
	return "Option " + strconv.Itoa(n)
}

// DefaultAux returns the payload a freshly created field of type t carries.
func DefaultAux(t FieldType) Aux {
	switch t.AuxKind() {
	case AuxOptions:
		return Options{Items: []string{OptionLabel(1)}}
	case AuxRange:
		return Range{Min: DefaultRangeMin, Max: DefaultRangeMax, Step: DefaultRangeStep}
	default:
		return NoAux{}
	}
}

// Reconcile converts a field to newType, keeping the auxiliary payload when
// the variant is unchanged and replacing it with type defaults otherwise. An
// option-bearing result always holds at least one option.
func Reconcile(field Field, newType FieldType) Field {
	out := field.Clone()
	out.Type = newType

	want := newType.AuxKind()
	if out.Aux == nil || out.Aux.Kind() != want {
		out.Aux = DefaultAux(newType)
		return out
	}
	if opts, ok := out.Aux.(Options); ok && len(opts.Items) == 0 {
		out.Aux = DefaultAux(newType)
	}
	return out
}

// NewField builds a field with type-appropriate auxiliary defaults.
func NewField(id FieldID, t FieldType, label string) Field {
	return Field{
		ID:    id,
		Type:  t,
		Label: strings.TrimSpace(label),
		Aux:   DefaultAux(t),
	}
}
