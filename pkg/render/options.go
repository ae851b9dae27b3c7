package render

import (
	"github.com/goliatone/go-formstudio/pkg/model"
	"github.com/goliatone/go-formstudio/pkg/runtime"
)

// RenderOptions describe per-request data renderers use without touching the
// schema.
type RenderOptions struct {
	// Values pre-populates controls. Fields without an entry render their
	// type default.
	Values runtime.Values
	// Errors surfaces validation feedback keyed by field id. The empty id
	// carries form-level messages.
	Errors map[model.FieldID][]string
	// Hidden lists extra hidden inputs (CSRF tokens and the like) for
	// renderers that emit HTML.
	Hidden []HiddenField
	// Action and Method override the submission target of HTML renderers.
	Action string
	Method string
}
