package validation

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstudio/pkg/model"
	"github.com/goliatone/go-formstudio/pkg/runtime"
)

func sampleFields() []model.Field {
	return []model.Field{
		{ID: "name", Type: model.FieldTypeText, Label: "Name", Required: true},
		{ID: "email", Type: model.FieldTypeEmail, Label: "Email"},
		{ID: "size", Type: model.FieldTypeSelect, Label: "Size", Aux: model.Options{Items: []string{"S", "M", "L"}}},
		{ID: "tags", Type: model.FieldTypeCheckbox, Label: "Tags", Required: true, Aux: model.Options{Items: []string{"A", "B"}}},
		{ID: "volume", Type: model.FieldTypeRange, Label: "Volume", Aux: model.Range{Min: 0, Max: 10, Step: 1}},
		{ID: "terms", Type: model.FieldTypeSwitch, Label: "Terms", Required: true},
	}
}

func issueFields(t *testing.T, err error) []model.FieldID {
	t.Helper()
	var verr *runtime.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *runtime.ValidationError, got %v", err)
	}
	var out []model.FieldID
	seen := map[model.FieldID]bool{}
	for _, issue := range verr.Issues {
		if issue.Message == "" {
			t.Fatalf("issue without message: %+v", issue)
		}
		if !seen[issue.FieldID] {
			seen[issue.FieldID] = true
			out = append(out, issue.FieldID)
		}
	}
	return out
}

func TestValidate_AcceptsCompleteSubmission(t *testing.T) {
	values := runtime.Values{
		"name":   model.Text("Alice"),
		"email":  model.Text("alice@example.com"),
		"size":   model.Text("M"),
		"tags":   model.Selection{"B"},
		"volume": model.Text("7"),
		"terms":  model.Bool(true),
	}
	if err := New().Validate(sampleFields(), values); err != nil {
		t.Fatalf("expected valid submission, got %v", err)
	}
}

func TestValidate_ReportsIssuesInFieldOrder(t *testing.T) {
	values := runtime.Values{
		"name":   model.Text(""),
		"email":  model.Text("not-an-email"),
		"size":   model.Text("XL"),
		"tags":   model.Selection{},
		"volume": model.Text("42"),
		"terms":  model.Bool(false),
	}
	err := New().Validate(sampleFields(), values)

	want := []model.FieldID{"name", "email", "size", "tags", "volume", "terms"}
	if diff := cmp.Diff(want, issueFields(t, err)); diff != "" {
		t.Fatalf("issue fields mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_OptionalEmptyValuesPass(t *testing.T) {
	fields := []model.Field{
		{ID: "email", Type: model.FieldTypeEmail},
		{ID: "volume", Type: model.FieldTypeRange, Aux: model.Range{Min: 0, Max: 10, Step: 1}},
		{ID: "size", Type: model.FieldTypeRadio, Aux: model.Options{Items: []string{"S"}}},
	}
	values := runtime.Values{
		"email":  model.Text(""),
		"volume": model.Text(""),
		"size":   model.Text(""),
	}
	if err := New().Validate(fields, values); err != nil {
		t.Fatalf("expected empty optional values to pass, got %v", err)
	}
}

func TestValidate_NumberShape(t *testing.T) {
	fields := []model.Field{{ID: "age", Type: model.FieldTypeNumber}}
	if err := New().Validate(fields, runtime.Values{"age": model.Text("12.5")}); err != nil {
		t.Fatalf("expected numeric text to pass, got %v", err)
	}
	err := New().Validate(fields, runtime.Values{"age": model.Text("twelve")})
	if diff := cmp.Diff([]model.FieldID{"age"}, issueFields(t, err)); diff != "" {
		t.Fatalf("issue fields mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_RequiredFile(t *testing.T) {
	fields := []model.Field{{ID: "cv", Type: model.FieldTypeFile, Required: true}}

	err := New().Validate(fields, runtime.Values{"cv": model.Files{}})
	if diff := cmp.Diff([]model.FieldID{"cv"}, issueFields(t, err)); diff != "" {
		t.Fatalf("issue fields mismatch (-want +got):\n%s", diff)
	}

	if err := New().Validate(fields, runtime.Values{"cv": model.Files{{Name: "cv.pdf", Size: 12}}}); err != nil {
		t.Fatalf("expected attached file to pass, got %v", err)
	}
}

func TestWithPattern_OverridesAndClears(t *testing.T) {
	fields := []model.Field{{ID: "phone", Type: model.FieldTypeTel}, {ID: "mail", Type: model.FieldTypeEmail}}
	v := New(WithPattern(model.FieldTypeTel, `^\+?[0-9 ]+$`), WithPattern(model.FieldTypeEmail, ""))

	err := v.Validate(fields, runtime.Values{"phone": model.Text("call me"), "mail": model.Text("whatever")})
	if diff := cmp.Diff([]model.FieldID{"phone"}, issueFields(t, err)); diff != "" {
		t.Fatalf("issue fields mismatch (-want +got):\n%s", diff)
	}
}

func TestRuntimeIntegration_BlocksSink(t *testing.T) {
	called := false
	rt := runtime.New(
		runtime.WithValidator(New()),
		runtime.WithSink(func(runtime.Values) { called = true }),
	)
	rt.Initialize([]model.Field{{ID: "name", Type: model.FieldTypeText, Required: true}})

	if _, err := rt.Submit(); err == nil {
		t.Fatalf("expected required field to block submission")
	}
	if called {
		t.Fatalf("sink should not be called")
	}

	rt.SetValue("name", model.Text("Bob"))
	if _, err := rt.Submit(); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !called {
		t.Fatalf("expected sink call after fixing the value")
	}
}

func TestSchemaFor_RequiredAndEnums(t *testing.T) {
	schema := SchemaFor(sampleFields())

	if diff := cmp.Diff([]string{"name", "tags", "terms"}, schema.Required); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}
	size := schema.Properties["size"].Value
	if diff := cmp.Diff([]any{"S", "M", "L"}, size.Enum); diff != "" {
		t.Fatalf("enum mismatch (-want +got):\n%s", diff)
	}
	if size.Title != "Size" {
		t.Fatalf("expected title from label, got %q", size.Title)
	}
	volume := schema.Properties["volume"].Value
	if volume.Min == nil || *volume.Min != 0 || volume.Max == nil || *volume.Max != 10 {
		t.Fatalf("unexpected range bounds: min=%v max=%v", volume.Min, volume.Max)
	}
}
