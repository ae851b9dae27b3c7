package html

import (
	"io/fs"
	"log/slog"
	"os"

	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"

	rendertemplate "github.com/goliatone/go-formstudio/pkg/render/template"
	"github.com/goliatone/go-formstudio/pkg/widgets"
)

// Option configures the HTML renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	theme            *theme.RendererConfig
	registry         *widgets.Registry
	policy           *bluemonday.Policy
	stylesheet       string
	submitLabel      string
	logger           *slog.Logger
}

// WithTemplatesFS supplies an alternate template bundle. It must provide
// form.tpl and control.tpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template engine.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithTheme applies a go-theme renderer configuration: the theme name and
// variant become data attributes, CSS variables are inlined on the form,
// AssetURL resolves the stylesheet and Partials["form"] replaces the form
// template name.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(c *config) {
		c.theme = cfg
	}
}

// WithRegistry overrides the control registry.
func WithRegistry(registry *widgets.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.registry = registry
		}
	}
}

// WithPolicy replaces the sanitiser applied to the title, labels and option
// text. The default is bluemonday's strict policy.
func WithPolicy(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.policy = policy
		}
	}
}

// WithStylesheetURL links a stylesheet from the rendered form. A theme
// AssetURL takes precedence.
func WithStylesheetURL(url string) Option {
	return func(cfg *config) {
		cfg.stylesheet = url
	}
}

// WithSubmitLabel overrides the submit button text.
func WithSubmitLabel(label string) Option {
	return func(cfg *config) {
		if label != "" {
			cfg.submitLabel = label
		}
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}
