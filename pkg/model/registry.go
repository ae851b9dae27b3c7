package model

import "strings"

// TypeInfo describes a registry entry.
type TypeInfo struct {
	Type  FieldType
	Label string
	Aux   AuxKind
}

var builtinTypes = []TypeInfo{
	{Type: FieldTypeText, Label: "Text"},
	{Type: FieldTypeNumber, Label: "Number"},
	{Type: FieldTypeEmail, Label: "Email"},
	{Type: FieldTypePassword, Label: "Password"},
	{Type: FieldTypeTel, Label: "Telephone"},
	{Type: FieldTypeURL, Label: "URL"},
	{Type: FieldTypeDate, Label: "Date"},
	{Type: FieldTypeTime, Label: "Time"},
	{Type: FieldTypeDateTimeLocal, Label: "Date and Time"},
	{Type: FieldTypeMonth, Label: "Month"},
	{Type: FieldTypeWeek, Label: "Week"},
	{Type: FieldTypeColor, Label: "Color"},
	{Type: FieldTypeRange, Label: "Range", Aux: AuxRange},
	{Type: FieldTypeFile, Label: "File Upload"},
	{Type: FieldTypeTextArea, Label: "Text Area"},
	{Type: FieldTypeSelect, Label: "Select", Aux: AuxOptions},
	{Type: FieldTypeRadio, Label: "Radio Buttons", Aux: AuxOptions},
	{Type: FieldTypeCheckbox, Label: "Checkboxes", Aux: AuxOptions},
	{Type: FieldTypeSwitch, Label: "Switch"},
}

var typeIndex = func() map[FieldType]int {
	index := make(map[FieldType]int, len(builtinTypes))
	for i, info := range builtinTypes {
		index[info.Type] = i
	}
	return index
}()

// Types lists the supported field types with their default labels in display
// order. The returned slice is a fresh copy.
func Types() []TypeInfo {
	return append([]TypeInfo(nil), builtinTypes...)
}

// ParseFieldType resolves a raw type name, ignoring case and surrounding
// whitespace.
func ParseFieldType(raw string) (FieldType, bool) {
	t := FieldType(strings.ToLower(strings.TrimSpace(raw)))
	if !t.Valid() {
		return "", false
	}
	return t, true
}

// Valid reports whether t belongs to the enumeration.
func (t FieldType) Valid() bool {
	_, ok := typeIndex[t]
	return ok
}

// Label returns the registry default label, or "" for unknown types.
func (t FieldType) Label() string {
	if idx, ok := typeIndex[t]; ok {
		return builtinTypes[idx].Label
	}
	return ""
}

// AuxKind reports the auxiliary payload carried by fields of type t.
func (t FieldType) AuxKind() AuxKind {
	if idx, ok := typeIndex[t]; ok {
		return builtinTypes[idx].Aux
	}
	return AuxNone
}

// HasOptions reports whether t carries an option list.
func (t FieldType) HasOptions() bool {
	return t.AuxKind() == AuxOptions
}

// ResolveLabel returns the custom label for t when one is set and non-blank,
// otherwise the registry default.
func ResolveLabel(t FieldType, custom map[FieldType]string) string {
	if label := strings.TrimSpace(custom[t]); label != "" {
		return custom[t]
	}
	return t.Label()
}
