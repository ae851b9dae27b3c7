package render_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstudio/pkg/model"
	"github.com/goliatone/go-formstudio/pkg/render"
	"github.com/goliatone/go-formstudio/pkg/runtime"
	"github.com/goliatone/go-formstudio/pkg/schema"
	"github.com/goliatone/go-formstudio/pkg/widgets"
)

func TestControls_MapsValues(t *testing.T) {
	form := render.Form{
		Fields: []model.Field{
			{ID: "name", Type: model.FieldTypeText, Label: "Name", Required: true},
			{ID: "size", Type: model.FieldTypeRadio, Label: "Size", Aux: model.Options{Items: []string{"S", "M"}}},
			{ID: "tags", Type: model.FieldTypeCheckbox, Label: "Tags", Aux: model.Options{Items: []string{"A", "B", "C"}}},
			{ID: "on", Type: model.FieldTypeSwitch, Label: "On"},
			{ID: "vol", Type: model.FieldTypeRange, Label: "Volume", Aux: model.Range{Min: 2, Max: 8, Step: 2}},
		},
	}
	opts := render.RenderOptions{
		Values: runtime.Values{
			"name": model.Text("Alice"),
			"size": model.Text("M"),
			"tags": model.Selection{"C", "A"},
			"on":   model.Bool(true),
		},
		Errors: map[model.FieldID][]string{"name": {"too short"}},
	}

	controls := render.Controls(form, opts, widgets.NewRegistry())
	if len(controls) != 5 {
		t.Fatalf("expected 5 controls, got %d", len(controls))
	}

	name := controls[0]
	if name.Kind != widgets.ControlText || name.Text != "Alice" || !name.Required {
		t.Fatalf("unexpected name control: %+v", name)
	}
	if diff := cmp.Diff([]string{"too short"}, name.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	size := controls[1]
	want := []render.Choice{{Index: 0, Value: "S"}, {Index: 1, Value: "M", Selected: true}}
	if diff := cmp.Diff(want, size.Options); diff != "" {
		t.Fatalf("radio choices mismatch (-want +got):\n%s", diff)
	}

	tags := controls[2]
	var selected []string
	for _, choice := range tags.Options {
		if choice.Selected {
			selected = append(selected, choice.Value)
		}
	}
	if diff := cmp.Diff([]string{"A", "C"}, selected); diff != "" {
		t.Fatalf("checkbox selection mismatch (-want +got):\n%s", diff)
	}

	if !controls[3].Checked || controls[3].Kind != widgets.ControlToggle {
		t.Fatalf("unexpected switch control: %+v", controls[3])
	}

	vol := controls[4]
	if vol.Kind != widgets.ControlSlider || vol.Text != "2" || vol.Range.Max != 8 {
		t.Fatalf("slider should default to its minimum: %+v", vol)
	}
}

func TestFormFromStore_Snapshot(t *testing.T) {
	store := schema.NewStore(schema.WithTitle("Signup"))
	editor := schema.NewEditor(store)
	editor.AddField(model.FieldTypeEmail)

	form := render.FormFromStore(store)
	editor.AddField(model.FieldTypeText)

	if form.Title != "Signup" || len(form.Fields) != 1 {
		t.Fatalf("snapshot should not follow later edits: %+v", form)
	}
	if got := render.FormFromStore(store); len(got.Fields) != 2 {
		t.Fatalf("fresh read should see both fields")
	}
}

type namedRenderer string

func (n namedRenderer) Name() string        { return string(n) }
func (n namedRenderer) ContentType() string { return "text/plain" }
func (n namedRenderer) Render(context.Context, render.Form, render.RenderOptions) ([]byte, error) {
	return []byte(n), nil
}

func TestRegistry(t *testing.T) {
	reg, err := render.NewRegistry(namedRenderer("b"), namedRenderer("a"))
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	if err := reg.Register(namedRenderer("a")); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
	if err := reg.Register(nil); err == nil {
		t.Fatalf("expected nil renderer to fail")
	}
	if diff := cmp.Diff([]string{"a", "b"}, reg.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if _, err := reg.Get("missing"); err == nil {
		t.Fatalf("expected lookup of missing renderer to fail")
	}
}
