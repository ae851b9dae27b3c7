package main

import (
	"fmt"
	"strings"

	theme "github.com/goliatone/go-theme"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formstudio/pkg/render"
	"github.com/goliatone/go-formstudio/pkg/renderers/html"
	"github.com/goliatone/go-formstudio/pkg/renderers/tui"
	"github.com/goliatone/go-formstudio/pkg/schema"
	"github.com/goliatone/go-formstudio/pkg/schemafile"
	"github.com/goliatone/go-formstudio/pkg/validation"
)

// htmlFlags are shared by render and serve.
type htmlFlags struct {
	templates  string
	stylesheet string
	theme      string
	variant    string
	cssVars    []string
	submit     string
}

func (f *htmlFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.templates, "templates", "", "Directory with form.tpl and control.tpl overrides")
	cmd.Flags().StringVar(&f.stylesheet, "stylesheet", "", "Stylesheet URL linked from the form")
	cmd.Flags().StringVar(&f.theme, "theme", "", "Theme name exposed as data-theme")
	cmd.Flags().StringVar(&f.variant, "variant", "", "Theme variant exposed as data-variant")
	cmd.Flags().StringSliceVar(&f.cssVars, "css-var", nil, "CSS custom property as --name=value (repeatable)")
	cmd.Flags().StringVar(&f.submit, "submit-label", "", "Submit button text")
}

func (f *htmlFlags) renderer(a *app) (*html.Renderer, error) {
	options := []html.Option{
		html.WithLogger(a.logger),
		html.WithTemplatesDir(f.templates),
		html.WithStylesheetURL(f.stylesheet),
		html.WithSubmitLabel(f.submit),
	}
	cfg, err := f.themeConfig()
	if err != nil {
		return nil, err
	}
	if cfg != nil {
		options = append(options, html.WithTheme(cfg))
	}
	return html.New(options...)
}

func (f *htmlFlags) themeConfig() (*theme.RendererConfig, error) {
	if f.theme == "" && f.variant == "" && len(f.cssVars) == 0 {
		return nil, nil
	}
	cfg := &theme.RendererConfig{
		Theme:   f.theme,
		Variant: f.variant,
		CSSVars: make(map[string]string, len(f.cssVars)),
	}
	for _, raw := range f.cssVars {
		key, value, ok := strings.Cut(raw, "=")
		key = strings.TrimSpace(key)
		if !ok || !strings.HasPrefix(key, "--") {
			return nil, fmt.Errorf("invalid --css-var %q, want --name=value", raw)
		}
		cfg.CSSVars[key] = strings.TrimSpace(value)
	}
	return cfg, nil
}

func newRenderCmd(a *app) *cobra.Command {
	var (
		flags  htmlFlags
		using  string
		output string
		action string
		fields string
		types  string
		watch  bool
	)

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a form to HTML or fill it in the terminal",
		Long: `render draws the form at <file> with the selected renderer: "html" (the
default) writes an HTML fragment and "tui" prompts for every field and writes
the JSON submission. With --watch the form is rendered again every time the
document changes on disk.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			registry, err := newRenderRegistry(a, &flags)
			if err != nil {
				return err
			}
			renderer, err := registry.Get(using)
			if err != nil {
				return err
			}
			subset := render.ParseFieldSubset(fields, types)
			draw := func(store *schema.Store) error {
				form := render.ApplySubset(render.FormFromStore(store), subset)
				out, err := renderer.Render(cmd.Context(), form, render.RenderOptions{Action: action})
				if err != nil {
					return err
				}
				return writeOutput(cmd, output, out)
			}

			store, err := schemafile.Load(path, storeLogger(a))
			if err != nil {
				return err
			}
			if err := draw(store); err != nil {
				return err
			}
			if !watch {
				return nil
			}

			a.logger.Info("watching for changes", "path", path)
			return schemafile.Watch(cmd.Context(), path, func(store *schema.Store) {
				if err := draw(store); err != nil && cmd.Context().Err() == nil {
					a.logger.Error("render failed", "path", path, "error", err)
				}
			}, schemafile.WithWatchLogger(a.logger), schemafile.WithStoreOptions(storeLogger(a)))
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&using, "renderer", "r", "html", "Renderer to use (html, tui)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (stdout if empty)")
	cmd.Flags().StringVar(&action, "action", "", "Form action URL")
	cmd.Flags().StringVar(&fields, "fields", "", "Only render these field ids (comma separated)")
	cmd.Flags().StringVar(&types, "types", "", "Only render fields of these types (comma separated)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Render again whenever the document changes")
	return cmd
}

func newRenderRegistry(a *app, flags *htmlFlags) (*render.Registry, error) {
	htmlRenderer, err := flags.renderer(a)
	if err != nil {
		return nil, err
	}
	return render.NewRegistry(
		htmlRenderer,
		tui.New(tui.WithLogger(a.logger), tui.WithValidator(validation.New())),
	)
}
