// Package template defines the template engine seam HTML renderers render
// through, plus a pongo2-backed implementation in the pongo subpackage.
package template
