package html_test

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formstudio/pkg/model"
	"github.com/goliatone/go-formstudio/pkg/render"
	"github.com/goliatone/go-formstudio/pkg/renderers/html"
	"github.com/goliatone/go-formstudio/pkg/runtime"
	"github.com/goliatone/go-formstudio/pkg/testsupport"
	"github.com/goliatone/go-formstudio/pkg/widgets"
)

func newRenderer(t *testing.T, options ...html.Option) *html.Renderer {
	t.Helper()
	r, err := html.New(options...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func assertContains(t *testing.T, out string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected output to contain %q\n%s", fragment, out)
		}
	}
}

func TestRender_Controls(t *testing.T) {
	r := newRenderer(t)
	form := render.FormFromStore(testsupport.SampleStore(t))

	out, err := r.Render(context.Background(), form, render.RenderOptions{
		Values: runtime.Values{
			"name":       model.Text("Ada"),
			"ticket":     model.Text("VIP"),
			"meals":      model.Selection{"Dinner"},
			"newsletter": model.Bool(true),
		},
		Errors: map[model.FieldID][]string{
			"email": {"must be an email"},
			"":      {"try again"},
		},
		Hidden: []render.HiddenField{render.CSRFToken("_csrf", "tok")},
		Action: "/signup",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if r.ContentType() != "text/html; charset=utf-8" || r.Name() != "html" {
		t.Fatalf("unexpected renderer identity %s / %s", r.Name(), r.ContentType())
	}

	doc := string(out)
	assertContains(t, doc,
		`<form class="fs-form" method="post" action="/signup"`,
		`<h1 class="fs-form__title">Event Registration</h1>`,
		`<p class="fs-error fs-error--form" role="alert">try again</p>`,
		`<input type="hidden" name="_csrf" value="tok">`,
		`<label for="fs-name">Full name <span class="fs-required">*</span></label>`,
		`<input type="text" id="fs-name" name="name" value="Ada" required>`,
		`<input type="email" id="fs-email" name="email" value="" required>`,
		`fs-field--invalid" data-field-id="email"`,
		`<p class="fs-error" role="alert">must be an email</p>`,
		`<option value="VIP" selected>VIP</option>`,
		`<option value="Standard">Standard</option>`,
		`<input type="checkbox" id="fs-meals-1" name="meals" value="Dinner" checked> Dinner</label>`,
		`<input type="checkbox" id="fs-meals-0" name="meals" value="Lunch"> Lunch</label>`,
		`<input type="checkbox" role="switch" id="fs-newsletter" name="newsletter" value="true" checked>`,
		`<input type="range" id="fs-guests" name="guests" min="0" max="4" step="1" value="0">`,
		`<button type="submit" class="fs-submit">Submit</button>`,
	)
	if strings.Contains(doc, "enctype") {
		t.Fatalf("form without file fields should not be multipart")
	}
}

func TestRender_SanitisesAuthoredText(t *testing.T) {
	r := newRenderer(t)
	form := render.Form{
		Title: `<img src=x onerror=alert(1)>Survey`,
		Fields: []model.Field{
			{ID: "q", Type: model.FieldTypeRadio, Label: `<script>alert(1)</script>Pick <b>one</b>`, Aux: model.Options{Items: []string{`A & B`, `<i>C</i>`}}},
			{ID: "bio", Type: model.FieldTypeTextArea, Label: "Bio", Aux: model.NoAux{}},
		},
	}

	out, err := r.Render(context.Background(), form, render.RenderOptions{
		Values: runtime.Values{"bio": model.Text(`</textarea><script>x</script>`)},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	doc := string(out)
	for _, banned := range []string{"<script", "<img", "onerror", "<b>", "<i>"} {
		if strings.Contains(doc, banned) {
			t.Fatalf("output contains %q:\n%s", banned, doc)
		}
	}
	assertContains(t, doc,
		`<h1 class="fs-form__title">Survey</h1>`,
		`<legend>Pick one</legend>`,
		`value="A &amp; B"> A &amp; B</label>`,
		`&lt;/textarea&gt;&lt;script&gt;x&lt;/script&gt;</textarea>`,
	)
}

func TestRender_RequiredChoiceGroups(t *testing.T) {
	r := newRenderer(t)
	form := render.Form{Fields: []model.Field{
		{ID: "rsvp", Type: model.FieldTypeRadio, Label: "Attending", Required: true, Aux: model.Options{Items: []string{"Yes", "No"}}},
		{ID: "days", Type: model.FieldTypeCheckbox, Label: "Days", Required: true, Aux: model.Options{Items: []string{"Mon", "Tue"}}},
	}}

	out, err := r.Render(context.Background(), form, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	doc := string(out)
	assertContains(t, doc,
		`<input type="radio" id="fs-rsvp-0" name="rsvp" value="Yes" required> Yes</label>`,
		`<input type="radio" id="fs-rsvp-1" name="rsvp" value="No" required> No</label>`,
		`<input type="checkbox" id="fs-days-0" name="days" value="Mon"> Mon</label>`,
	)
	if strings.Contains(doc, `name="days" value="Tue" required`) {
		t.Fatalf("checkbox groups must not require every box:\n%s", doc)
	}
}

func TestRender_Theme(t *testing.T) {
	r := newRenderer(t, html.WithTheme(&theme.RendererConfig{
		Theme:   "acme",
		Variant: "dark",
		CSSVars: map[string]string{"--brand": "#123456", "--accent": "red", "color": "ignored"},
		AssetURL: func(key string) string {
			return "/themes/acme/" + key
		},
	}), html.WithSubmitLabel("Send"))

	form := render.Form{Fields: []model.Field{
		{ID: "doc", Type: model.FieldTypeFile, Label: "Document", Aux: model.NoAux{}},
	}}
	out, err := r.Render(context.Background(), form, render.RenderOptions{
		Values: runtime.Values{"doc": model.Files{{Name: "cv.pdf"}}},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	assertContains(t, string(out),
		`enctype="multipart/form-data"`,
		`data-theme="acme" data-variant="dark" style="--accent: red; --brand: #123456"`,
		`<link rel="stylesheet" href="/themes/acme/formstudio.css">`,
		`<input type="file" id="fs-doc" name="doc" multiple>`,
		`<li>cv.pdf</li>`,
		`>Send</button>`,
	)
}

func TestRender_ThemePartialAndCustomTemplates(t *testing.T) {
	files := fstest.MapFS{
		"compact.tpl": {Data: []byte(`{% for control in form.Controls %}[{{ control.Kind }}:{{ control.Name }}]{% endfor %}`)},
		"form.tpl":    {Data: []byte(`default`)},
	}
	registry := widgets.NewRegistry()
	registry.Register(widgets.ControlTextArea, 10, func(f model.Field) bool { return f.ID == "long" })

	r := newRenderer(t,
		html.WithTemplatesFS(files),
		html.WithRegistry(registry),
		html.WithTheme(&theme.RendererConfig{Partials: map[string]string{"form": "compact"}}),
	)
	form := render.Form{Fields: []model.Field{
		{ID: "long", Type: model.FieldTypeText, Label: "Long", Aux: model.NoAux{}},
		{ID: "on", Type: model.FieldTypeSwitch, Label: "On", Aux: model.NoAux{}},
	}}

	out, err := r.Render(context.Background(), form, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := string(out); got != "[textarea:long][toggle:on]" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestRender_CancelledContext(t *testing.T) {
	r := newRenderer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Render(ctx, render.Form{}, render.RenderOptions{}); err == nil {
		t.Fatalf("expected cancelled context to fail")
	}
}

func TestAssetsFS(t *testing.T) {
	r := newRenderer(t, html.WithStylesheetURL("/assets/formstudio.css"))
	out, err := r.Render(context.Background(), render.Form{}, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	assertContains(t, string(out), `<link rel="stylesheet" href="/assets/formstudio.css">`)

	f, err := html.AssetsFS().Open(html.StylesheetName)
	if err != nil {
		t.Fatalf("open stylesheet: %v", err)
	}
	_ = f.Close()
}
