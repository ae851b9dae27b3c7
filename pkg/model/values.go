package model

// Value is the live answer held for one field. The concrete variant follows
// the field type: Bool for switch, Selection for checkbox, Files for file and
// Text for everything else.
type Value interface {
	// Interface returns the JSON-friendly representation.
	Interface() any
	clone() Value
}

// Text holds scalar input, including numeric, range and date inputs, exactly
// as entered.
type Text string

func (t Text) Interface() any { return string(t) }
func (t Text) clone() Value   { return t }

// Bool holds a switch state.
type Bool bool

func (b Bool) Interface() any { return bool(b) }
func (b Bool) clone() Value   { return b }

// Selection holds the checked options of a checkbox group in toggle order.
type Selection []string

func (s Selection) Interface() any { return append([]string{}, s...) }
func (s Selection) clone() Value   { return append(Selection{}, s...) }

// Contains reports whether option is selected.
func (s Selection) Contains(option string) bool {
	for _, item := range s {
		if item == option {
			return true
		}
	}
	return false
}

// FileRef is a placeholder for an uploaded file handle; the payload itself
// stays with the host.
type FileRef struct {
	Name        string `json:"name"`
	Size        int64  `json:"size,omitempty"`
	ContentType string `json:"contentType,omitempty"`
}

// Files holds the file handles picked for a file field.
type Files []FileRef

func (f Files) Interface() any { return append([]FileRef{}, f...) }
func (f Files) clone() Value   { return append(Files{}, f...) }

// DefaultValue returns the initial value of a field of type t.
func DefaultValue(t FieldType) Value {
	switch t {
	case FieldTypeSwitch:
		return Bool(false)
	case FieldTypeCheckbox:
		return Selection{}
	case FieldTypeFile:
		return Files{}
	default:
		return Text("")
	}
}

// CloneValue copies v so the caller cannot mutate shared slices.
func CloneValue(v Value) Value {
	if v == nil {
		return nil
	}
	return v.clone()
}
