package render

import (
	"strconv"

	"github.com/goliatone/go-formstudio/pkg/model"
	"github.com/goliatone/go-formstudio/pkg/widgets"
)

// Control is the per-field view model shared by renderers: the descriptor,
// the control kind it maps to, and its current value in the shapes the
// control needs.
type Control struct {
	Field    model.Field
	Kind     widgets.ControlKind
	Label    string
	Required bool

	// Text is the scalar value for text-like, select, radio and slider
	// controls. Sliders without a value fall back to their minimum.
	Text string
	// Checked is the switch state.
	Checked bool
	// Options lists the choices of select, radio and checkbox controls, with
	// Selected marking the current choice(s).
	Options []Choice
	// Range bounds slider controls.
	Range model.Range
	// Files lists picked file names.
	Files []model.FileRef

	Errors []string
}

// Choice is one option of a choice control.
type Choice struct {
	Index    int
	Value    string
	Selected bool
}

// Controls builds the control view of every field in form order.
func Controls(form Form, options RenderOptions, registry *widgets.Registry) []Control {
	controls := make([]Control, 0, len(form.Fields))
	for _, field := range form.Fields {
		value, ok := options.Values[field.ID]
		if !ok || value == nil {
			value = model.DefaultValue(field.Type)
		}
		controls = append(controls, BuildControl(field, value, registry, options.Errors[field.ID]))
	}
	return controls
}

// BuildControl maps one descriptor and value to its control view.
func BuildControl(field model.Field, value model.Value, registry *widgets.Registry, errs []string) Control {
	ctrl := Control{
		Field:    field,
		Kind:     registry.Resolve(field),
		Label:    field.Label,
		Required: field.Required,
		Errors:   append([]string(nil), errs...),
	}

	switch typed := value.(type) {
	case model.Text:
		ctrl.Text = string(typed)
	case model.Bool:
		ctrl.Checked = bool(typed)
	case model.Files:
		ctrl.Files = append([]model.FileRef(nil), typed...)
	}

	if opts, ok := field.Options(); ok {
		selection, _ := value.(model.Selection)
		ctrl.Options = make([]Choice, len(opts))
		for i, opt := range opts {
			selected := opt == ctrl.Text && ctrl.Text != ""
			if field.Type == model.FieldTypeCheckbox {
				selected = selection.Contains(opt)
			}
			ctrl.Options[i] = Choice{Index: i, Value: opt, Selected: selected}
		}
	}

	if r, ok := field.Range(); ok {
		ctrl.Range = r
		if ctrl.Text == "" {
			ctrl.Text = FormatNumber(r.Min)
		}
	}
	return ctrl
}

// FormatNumber renders a float without a trailing ".0".
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
