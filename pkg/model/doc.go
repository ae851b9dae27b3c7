// Package model defines the form schema vocabulary shared by the editor, the
// runtime and every renderer: the closed FieldType enumeration with its
// default labels, the Field descriptor whose auxiliary payload (Options,
// Range or NoAux) is a sum type keyed by the field type, and the Value
// variants held for each field while a form is filled in. Reconcile is the
// single conversion point between payload variants; callers changing a
// field's type must go through it so a select never loses its options and a
// text field never keeps stale slider bounds.
package model
