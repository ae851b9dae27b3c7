package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstudio/pkg/model"
	"github.com/goliatone/go-formstudio/pkg/runtime"
	"github.com/goliatone/go-formstudio/pkg/schemafile"
	"github.com/goliatone/go-formstudio/pkg/testsupport"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeSample(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := schemafile.Save(path, testsupport.SampleStore(t)); err != nil {
		t.Fatalf("save sample: %v", err)
	}
	return path
}

func TestTypesCommand(t *testing.T) {
	out, err := execute(t, "types")
	if err != nil {
		t.Fatalf("types: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if got, want := len(lines), len(model.Types())+1; got != want {
		t.Fatalf("expected %d lines, got %d:\n%s", want, got, out)
	}
	if !strings.HasPrefix(lines[0], "TYPE") {
		t.Fatalf("missing header: %q", lines[0])
	}
	if !strings.Contains(out, "checkbox") || !strings.Contains(out, "options") {
		t.Fatalf("expected checkbox with options payload:\n%s", out)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if want := "formstudio version " + Version + "\n"; out != want {
		t.Fatalf("got %q want %q", out, want)
	}
}

func TestRenderCommand(t *testing.T) {
	path := writeSample(t, "form.yaml")
	target := filepath.Join(t.TempDir(), "form.html")

	out, err := execute(t, "render", path,
		"--output", target,
		"--action", "/submit",
		"--theme", "acme",
		"--css-var=--brand=#123456",
	)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "" {
		t.Fatalf("expected no stdout output when writing a file, got %q", out)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	doc := string(data)
	for _, fragment := range []string{
		`action="/submit"`,
		`data-theme="acme"`,
		`style="--brand: #123456"`,
		`<h1 class="fs-form__title">Event Registration</h1>`,
	} {
		if !strings.Contains(doc, fragment) {
			t.Fatalf("expected %q in output:\n%s", fragment, doc)
		}
	}
}

func TestRenderCommand_Subset(t *testing.T) {
	path := writeSample(t, "form.json")

	out, err := execute(t, "render", path, "--fields", "name", "--types", "switch")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Count(out, `data-field-id=`) != 2 {
		t.Fatalf("expected two fields:\n%s", out)
	}
	if !strings.Contains(out, `data-field-id="name"`) || !strings.Contains(out, `data-field-id="newsletter"`) {
		t.Fatalf("unexpected fields:\n%s", out)
	}
}

func TestRenderCommand_Errors(t *testing.T) {
	path := writeSample(t, "form.json")

	if _, err := execute(t, "render", path, "--css-var", "brand=red"); err == nil {
		t.Fatalf("expected invalid css var to fail")
	}
	if _, err := execute(t, "render", filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected missing file to fail")
	}
	if _, err := execute(t, "render", path, "--renderer", "pdf"); err == nil {
		t.Fatalf("expected unknown renderer to fail")
	}
	if _, err := execute(t, "fill", path, "--format", "xml"); err == nil {
		t.Fatalf("expected unknown format to fail")
	}
}

func TestSchemaCommand(t *testing.T) {
	path := writeSample(t, "form.json")

	out, err := execute(t, "schema", path)
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	var doc struct {
		Type       string         `json:"type"`
		Required   []string       `json:"required"`
		Properties map[string]any `json:"properties"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if diff := cmp.Diff([]string{"name", "email"}, doc.Required); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}
	if len(doc.Properties) != len(testsupport.SampleFields()) {
		t.Fatalf("expected one property per field, got %d", len(doc.Properties))
	}
}

func TestServeMux(t *testing.T) {
	mux := newMux(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/formstudio.css", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected stylesheet, got %d", rec.Code)
	}
	if !strings.Contains(rec.Header().Get("Content-Type"), "text/css") {
		t.Fatalf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected form handler, got %d", rec.Code)
	}
}

func TestSubmissionLog(t *testing.T) {
	logger, logs := testsupport.CaptureLogger()
	path := filepath.Join(t.TempDir(), "submissions.jsonl")

	l, err := newSubmissionLog(path, logger)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	l.Record(runtime.Values{"name": model.Text("Ada")})
	l.Record(runtime.Values{"name": model.Text("Grace"), "pw": model.Text("hunter2")})
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(lines))
	}

	var entry struct {
		ID     string            `json:"id"`
		Values map[string]string `json:"values"`
	}
	if err := json.Unmarshal([]byte(lines[1]), &entry); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if entry.ID == "" || entry.Values["name"] != "Grace" {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if !strings.Contains(logs.String(), "submission received") {
		t.Fatalf("expected submission to be logged:\n%s", logs.String())
	}
	if strings.Contains(logs.String(), "hunter2") || strings.Contains(logs.String(), "Grace") {
		t.Fatalf("submitted values leaked into the log:\n%s", logs.String())
	}
	if entry.Values["pw"] != "hunter2" {
		t.Fatalf("record file should keep every value, got %+v", entry.Values)
	}
}
