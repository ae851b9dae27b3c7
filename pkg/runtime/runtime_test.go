package runtime

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstudio/pkg/model"
	"github.com/goliatone/go-formstudio/pkg/schema"
)

func newEditor(t *testing.T) (*schema.Store, *schema.Editor) {
	t.Helper()
	n := 0
	store := schema.NewStore()
	editor := schema.NewEditor(store, schema.WithIDGenerator(func() model.FieldID {
		n++
		return model.FieldID(fmt.Sprintf("f%d", n))
	}))
	return store, editor
}

func TestInitialize_DefaultsPerType(t *testing.T) {
	fields := []model.Field{
		{ID: "1", Type: model.FieldTypeSwitch},
		{ID: "2", Type: model.FieldTypeCheckbox, Aux: model.Options{Items: []string{"X"}}},
		{ID: "3", Type: model.FieldTypeText},
	}

	rt := New()
	values := rt.Initialize(fields)

	want := map[string]any{"1": false, "2": []string{}, "3": ""}
	if diff := cmp.Diff(want, values.Map()); diff != "" {
		t.Fatalf("initial values mismatch (-want +got):\n%s", diff)
	}
}

func TestInitialize_DiscardsStaleEntries(t *testing.T) {
	rt := New()
	rt.Initialize([]model.Field{{ID: "old", Type: model.FieldTypeText}})
	rt.SetValue("old", model.Text("x"))

	values := rt.Initialize([]model.Field{{ID: "new", Type: model.FieldTypeText}})
	if _, ok := values["old"]; ok {
		t.Fatalf("stale entry survived reinitialisation")
	}
	if len(values) != 1 {
		t.Fatalf("expected one entry, got %d", len(values))
	}
}

func TestToggleOption_Idempotent(t *testing.T) {
	rt := New()
	rt.Initialize([]model.Field{{ID: "c", Type: model.FieldTypeCheckbox, Aux: model.Options{Items: []string{"A", "B"}}}})

	rt.ToggleOption("c", "A", true)
	rt.ToggleOption("c", "A", true)
	if diff := cmp.Diff(model.Selection{"A"}, mustValue(t, rt, "c")); diff != "" {
		t.Fatalf("selection mismatch (-want +got):\n%s", diff)
	}

	rt.ToggleOption("c", "B", true)
	rt.ToggleOption("c", "A", false)
	rt.ToggleOption("c", "A", false)
	if diff := cmp.Diff(model.Selection{"B"}, mustValue(t, rt, "c")); diff != "" {
		t.Fatalf("selection mismatch (-want +got):\n%s", diff)
	}
}

func TestToggleOption_IgnoresNonCheckbox(t *testing.T) {
	rt := New()
	rt.Initialize([]model.Field{{ID: "s", Type: model.FieldTypeSelect, Aux: model.Options{Items: []string{"A"}}}})

	rt.ToggleOption("s", "A", true)
	rt.ToggleOption("missing", "A", true)
	if diff := cmp.Diff(model.Text(""), mustValue(t, rt, "s")); diff != "" {
		t.Fatalf("select value changed (-want +got):\n%s", diff)
	}
}

func TestSetValue_ReplacesAndIgnoresUnknown(t *testing.T) {
	rt := New()
	rt.Initialize([]model.Field{
		{ID: "sw", Type: model.FieldTypeSwitch},
		{ID: "f", Type: model.FieldTypeFile},
	})

	rt.SetValue("sw", model.Bool(true))
	rt.SetValue("f", model.Files{{Name: "cv.pdf", Size: 10}})
	rt.SetValue("missing", model.Text("x"))

	want := map[string]any{
		"sw": true,
		"f":  []model.FileRef{{Name: "cv.pdf", Size: 10}},
	}
	if diff := cmp.Diff(want, rt.Values().Map()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestBind_FollowsStoreEdits(t *testing.T) {
	store, editor := newEditor(t)
	first := editor.AddField(model.FieldTypeText)

	rt := New()
	rt.Bind(store)
	rt.SetValue(first, model.Text("Alice"))

	second := editor.AddField(model.FieldTypeCheckbox)
	if v, ok := rt.Value(second); !ok || !cmp.Equal(v, model.Selection{}) {
		t.Fatalf("expected default for added field, got %#v (ok=%v)", v, ok)
	}

	label := "Full name"
	editor.UpdateField(first, schema.FieldUpdate{Label: &label})
	if diff := cmp.Diff(model.Text("Alice"), mustValue(t, rt, first)); diff != "" {
		t.Fatalf("value lost on field update (-want +got):\n%s", diff)
	}
	if got := rt.Fields()[0].Label; got != label {
		t.Fatalf("runtime descriptor not refreshed, got %q", got)
	}

	editor.RemoveField(first)
	if _, ok := rt.Value(first); ok {
		t.Fatalf("value of removed field survived")
	}

	editor.MoveField(second, 0)
	if len(rt.Values()) != 1 {
		t.Fatalf("expected exactly one value, got %d", len(rt.Values()))
	}
}

func TestBind_SameStoreKeepsValues(t *testing.T) {
	store, editor := newEditor(t)
	id := editor.AddField(model.FieldTypeText)

	rt := New()
	rt.Bind(store)
	rt.SetValue(id, model.Text("kept"))

	values := rt.Bind(store)
	if diff := cmp.Diff(model.Text("kept"), values[id]); diff != "" {
		t.Fatalf("rebinding same store reset values (-want +got):\n%s", diff)
	}
}

func TestBind_NewStoreReinitialises(t *testing.T) {
	storeA, editorA := newEditor(t)
	a := editorA.AddField(model.FieldTypeText)

	storeB, editorB := newEditor(t)
	editorB.AddField(model.FieldTypeSwitch)
	b := editorB.AddField(model.FieldTypeSwitch)

	rt := New()
	rt.Bind(storeA)
	rt.SetValue(a, model.Text("x"))

	values := rt.Bind(storeB)
	if len(values) != 2 {
		t.Fatalf("expected values for the new schema only, got %v", values)
	}
	if diff := cmp.Diff(model.Bool(false), values[b]); diff != "" {
		t.Fatalf("unexpected default (-want +got):\n%s", diff)
	}

	// Edits to the old store no longer reach the runtime.
	editorA.AddField(model.FieldTypeText)
	if len(rt.Values()) != 2 {
		t.Fatalf("runtime still follows the previous store")
	}
}

func TestToggleOption_AfterRetypeToCheckbox(t *testing.T) {
	store, editor := newEditor(t)
	id := editor.AddField(model.FieldTypeText)

	rt := New()
	rt.Bind(store)
	rt.SetValue(id, model.Text("typed"))

	checkbox := model.FieldTypeCheckbox
	editor.UpdateField(id, schema.FieldUpdate{Type: &checkbox})
	if diff := cmp.Diff(model.Selection{}, mustValue(t, rt, id)); diff != "" {
		t.Fatalf("retype should reset the value (-want +got):\n%s", diff)
	}

	rt.ToggleOption(id, "Option 1", true)
	if diff := cmp.Diff(model.Selection{"Option 1"}, mustValue(t, rt, id)); diff != "" {
		t.Fatalf("toggle after retype (-want +got):\n%s", diff)
	}
}

func TestUpdateField_RetypeKeepsCompatibleValue(t *testing.T) {
	store, editor := newEditor(t)
	id := editor.AddField(model.FieldTypeText)

	rt := New()
	rt.Bind(store)
	rt.SetValue(id, model.Text("ada@example.com"))

	email := model.FieldTypeEmail
	editor.UpdateField(id, schema.FieldUpdate{Type: &email})
	if diff := cmp.Diff(model.Text("ada@example.com"), mustValue(t, rt, id)); diff != "" {
		t.Fatalf("text value should survive text to email (-want +got):\n%s", diff)
	}

	label := "Contact"
	editor.UpdateField(id, schema.FieldUpdate{Label: &label})
	if diff := cmp.Diff(model.Text("ada@example.com"), mustValue(t, rt, id)); diff != "" {
		t.Fatalf("relabel should keep the value (-want +got):\n%s", diff)
	}
}

func TestUpdateField_RetypeToSwitchResetsValue(t *testing.T) {
	store, editor := newEditor(t)
	id := editor.AddField(model.FieldTypeText)

	rt := New()
	rt.Bind(store)
	rt.SetValue(id, model.Text("yes please"))

	toggle := model.FieldTypeSwitch
	editor.UpdateField(id, schema.FieldUpdate{Type: &toggle})
	if diff := cmp.Diff(model.Bool(false), mustValue(t, rt, id)); diff != "" {
		t.Fatalf("retype should reset the value (-want +got):\n%s", diff)
	}

	values, err := rt.Submit()
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if diff := cmp.Diff(map[string]any{string(id): false}, values.Map()); diff != "" {
		t.Fatalf("submitted values (-want +got):\n%s", diff)
	}
}

func TestSubmit_Scenario(t *testing.T) {
	store, editor := newEditor(t)
	id := editor.AddField(model.FieldTypeText)
	label := "Name"
	required := true
	editor.UpdateField(id, schema.FieldUpdate{Label: &label, Required: &required})

	var received []Values
	rt := New(WithSink(func(values Values) {
		received = append(received, values)
	}))
	rt.Bind(store)
	rt.SetValue(id, model.Text("Alice"))

	if _, err := rt.Submit(); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(received) != 1 {
		t.Fatalf("expected sink to be called once, got %d", len(received))
	}
	if diff := cmp.Diff(map[string]any{string(id): "Alice"}, received[0].Map()); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}

	field, _ := store.Field(id)
	if !field.Required || field.Label != "Name" {
		t.Fatalf("descriptor changed by submit: %+v", field)
	}

	// Submitting again re-sends the same data.
	rt.Submit()
	if len(received) != 2 || !cmp.Equal(received[0].Map(), received[1].Map()) {
		t.Fatalf("resubmission should send identical data")
	}
}

func TestSubmit_NoRequiredEnforcementByDefault(t *testing.T) {
	rt := New()
	rt.Initialize([]model.Field{{ID: "n", Type: model.FieldTypeText, Required: true}})
	if _, err := rt.Submit(); err != nil {
		t.Fatalf("expected submit without validator to succeed, got %v", err)
	}
}

func TestSubmit_ValidatorBlocksSink(t *testing.T) {
	called := false
	rt := New(
		WithSink(func(Values) { called = true }),
		WithValidator(ValidatorFunc(func(fields []model.Field, values Values) error {
			return errors.New("nope")
		})),
	)
	rt.Initialize([]model.Field{{ID: "n", Type: model.FieldTypeText}})

	_, err := rt.Submit()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Issues) != 1 || verr.Issues[0].Message != "nope" {
		t.Fatalf("unexpected issues: %+v", verr.Issues)
	}
	if called {
		t.Fatalf("sink called despite validation failure")
	}
}

func TestSubmit_SinkReceivesCopy(t *testing.T) {
	var got Values
	rt := New(WithSink(func(values Values) { got = values }))
	rt.Initialize([]model.Field{{ID: "c", Type: model.FieldTypeCheckbox, Aux: model.Options{Items: []string{"A"}}}})
	rt.ToggleOption("c", "A", true)
	rt.Submit()

	got["c"] = model.Selection{"tampered"}
	if diff := cmp.Diff(model.Selection{"A"}, mustValue(t, rt, "c")); diff != "" {
		t.Fatalf("sink mutation leaked into runtime (-want +got):\n%s", diff)
	}
}

func TestValues_MarshalJSON(t *testing.T) {
	values := Values{"a": model.Text("x"), "b": model.Bool(true), "c": model.Selection{"A"}}
	data, err := json.Marshal(values)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"a":"x","b":true,"c":["A"]}` {
		t.Fatalf("unexpected json: %s", data)
	}
}

func mustValue(t *testing.T, rt *Runtime, id model.FieldID) model.Value {
	t.Helper()
	v, ok := rt.Value(id)
	if !ok {
		t.Fatalf("no value for %q", id)
	}
	return v
}
