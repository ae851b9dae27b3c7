package render

import (
	"context"

	"github.com/goliatone/go-formstudio/pkg/model"
	"github.com/goliatone/go-formstudio/pkg/runtime"
	"github.com/goliatone/go-formstudio/pkg/schema"
)

// Form is the read-only view of a schema a renderer draws from. Build it from
// a fresh Store read after every mutation; it is never updated in place.
type Form struct {
	Title        string
	Fields       []model.Field
	CustomLabels map[model.FieldType]string
}

// FormFromStore snapshots store.
func FormFromStore(store *schema.Store) Form {
	if store == nil {
		return Form{}
	}
	return Form{
		Title:        store.Title(),
		Fields:       store.Fields(),
		CustomLabels: store.CustomLabels(),
	}
}

// Renderer converts a Form plus current values into a byte representation
// (HTML, a terminal transcript, a JSON payload).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form Form, options RenderOptions) ([]byte, error)
}

// Recorder receives user edits from interactive controls.
// *runtime.Runtime satisfies it.
type Recorder interface {
	SetValue(id model.FieldID, value model.Value)
	ToggleOption(id model.FieldID, option string, checked bool)
}

var _ Recorder = (*runtime.Runtime)(nil)
