package html

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formstudio/pkg/render"
	rendertemplate "github.com/goliatone/go-formstudio/pkg/render/template"
	"github.com/goliatone/go-formstudio/pkg/render/template/pongo"
	"github.com/goliatone/go-formstudio/pkg/widgets"
)

// DefaultSubmitLabel is the submit button text.
const DefaultSubmitLabel = "Submit"

const formTemplate = "form"

// Renderer draws a form as an HTML document fragment.
type Renderer struct {
	templates   rendertemplate.TemplateRenderer
	theme       *theme.RendererConfig
	registry    *widgets.Registry
	policy      *bluemonday.Policy
	stylesheet  string
	submitLabel string
	logger      *slog.Logger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS:  TemplatesFS(),
		registry:    widgets.NewRegistry(),
		policy:      bluemonday.StrictPolicy(),
		submitLabel: DefaultSubmitLabel,
		logger:      slog.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	templates := cfg.templateRenderer
	if templates == nil {
		engine, err := pongo.New(pongo.WithFS(cfg.templateFS))
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		templates = engine
	}

	return &Renderer{
		templates:   templates,
		theme:       cfg.theme,
		registry:    cfg.registry,
		policy:      cfg.policy,
		stylesheet:  cfg.stylesheet,
		submitLabel: cfg.submitLabel,
		logger:      cfg.logger,
	}, nil
}

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render draws form with the values, errors and hidden inputs in options.
func (r *Renderer) Render(ctx context.Context, form render.Form, options render.RenderOptions) ([]byte, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	return r.render(form, options, "")
}

func (r *Renderer) render(form render.Form, options render.RenderOptions, notice string) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}

	view := r.buildView(form, options)
	view.Notice = notice

	name := formTemplate
	if r.theme != nil && r.theme.Partials[formTemplate] != "" {
		name = r.theme.Partials[formTemplate]
	}

	out, err := r.templates.RenderTemplate(name, map[string]any{"form": view})
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	r.logger.Debug("html: rendered form", "fields", len(view.Controls), "template", name)
	return []byte(out), nil
}

func defaultMethod(method string) string {
	if method == "" {
		return http.MethodPost
	}
	return method
}
