package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goliatone/go-formstudio/pkg/model"
	"github.com/goliatone/go-formstudio/pkg/render"
	"github.com/goliatone/go-formstudio/pkg/runtime"
	"github.com/goliatone/go-formstudio/pkg/widgets"
)

// Renderer fills forms interactively in a terminal. Render drives a private
// runtime and serialises the submitted values; Fill reports edits to any
// render.Recorder so hosts can keep their own runtime.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	registry          *widgets.Registry
	validator         runtime.Validator
	submitTransformer SubmitTransformer
	theme             Theme
	logger            *slog.Logger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) *Renderer {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		registry:     widgets.NewRegistry(),
		logger:       slog.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver()
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render prompts for every field, submits the answers and returns them in
// the configured output format. options.Values seed the prompt defaults and
// options.Errors are shown before the matching prompts.
func (r *Renderer) Render(ctx context.Context, form render.Form, options render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if len(form.Fields) == 0 {
		return nil, ErrNoFields
	}

	rtOpts := []runtime.Option{runtime.WithLogger(r.logger)}
	if r.validator != nil {
		rtOpts = append(rtOpts, runtime.WithValidator(r.validator))
	}
	rt := runtime.New(rtOpts...)
	rt.Initialize(form.Fields)
	for id, value := range options.Values {
		rt.SetValue(id, value)
	}

	if form.Title != "" {
		if err := r.info(ctx, form.Title); err != nil {
			return nil, err
		}
	}

	values, err := r.Collect(ctx, rt, options.Errors)
	if err != nil {
		return nil, err
	}
	return r.serialize(rt.Fields(), values)
}

// Collect fills rt's fields and submits. When the runtime rejects the values
// the offending fields are prompted again with their issues shown.
func (r *Renderer) Collect(ctx context.Context, rt *runtime.Runtime, issues map[model.FieldID][]string) (runtime.Values, error) {
	pending := rt.Fields()
	for {
		if err := r.fill(ctx, pending, rt.Values(), rt, issues); err != nil {
			return nil, err
		}

		values, err := rt.Submit()
		if err == nil {
			return values, nil
		}
		var verr *runtime.ValidationError
		if !errors.As(err, &verr) {
			return nil, err
		}

		issues = verr.FieldErrors()
		pending = fieldsWithIssues(rt.Fields(), issues)
		if len(pending) == 0 {
			return nil, err
		}
		r.logger.Debug("tui: re-prompting rejected fields", "count", len(pending))
	}
}

// Fill prompts each field with values as defaults and reports every answer to
// rec.
func (r *Renderer) Fill(ctx context.Context, fields []model.Field, values runtime.Values, rec render.Recorder) error {
	if ctx == nil {
		return errors.New("tui: context is required")
	}
	if len(fields) == 0 {
		return ErrNoFields
	}
	if rec == nil {
		return errors.New("tui: recorder is required")
	}
	return r.fill(ctx, fields, values, rec, nil)
}

func (r *Renderer) fill(ctx context.Context, fields []model.Field, values runtime.Values, rec render.Recorder, issues map[model.FieldID][]string) error {
	for _, field := range fields {
		value, ok := values[field.ID]
		if !ok || value == nil {
			value = model.DefaultValue(field.Type)
		}
		ctrl := render.BuildControl(field, value, r.registry, issues[field.ID])
		for _, msg := range ctrl.Errors {
			if err := r.errorf(ctx, "%s: %s", ctrl.Label, msg); err != nil {
				return err
			}
		}
		if err := r.promptControl(ctx, ctrl, rec); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) promptControl(ctx context.Context, ctrl render.Control, rec render.Recorder) error {
	id := ctrl.Field.ID
	switch ctrl.Kind {
	case widgets.ControlTextArea:
		resp, err := r.promptString(ctx, ctrl, func(ctx context.Context, cfg InputConfig) (string, error) {
			return r.driver.TextArea(ctx, TextAreaConfig{Message: cfg.Message, Default: cfg.Default})
		})
		if err != nil {
			return err
		}
		rec.SetValue(id, model.Text(resp))
	case widgets.ControlSelect, widgets.ControlRadioGroup:
		return r.promptChoice(ctx, ctrl, rec)
	case widgets.ControlCheckboxGroup:
		return r.promptMulti(ctx, ctrl, rec)
	case widgets.ControlToggle:
		resp, err := r.driver.Confirm(ctx, ConfirmConfig{Message: ctrl.Label, Default: ctrl.Checked})
		if err != nil {
			return err
		}
		rec.SetValue(id, model.Bool(resp))
	case widgets.ControlSlider:
		resp, err := r.promptString(ctx, ctrl, r.driver.Input)
		if err != nil {
			return err
		}
		n, _ := strconv.ParseFloat(strings.TrimSpace(resp), 64)
		rec.SetValue(id, model.Text(render.FormatNumber(n)))
	case widgets.ControlFilePicker:
		return r.promptFiles(ctx, ctrl, rec)
	default:
		ask := r.driver.Input
		if ctrl.Field.Type == model.FieldTypePassword {
			ask = r.driver.Password
		}
		resp, err := r.promptString(ctx, ctrl, ask)
		if err != nil {
			return err
		}
		rec.SetValue(id, model.Text(resp))
	}
	return nil
}

func (r *Renderer) promptString(ctx context.Context, ctrl render.Control, ask func(context.Context, InputConfig) (string, error)) (string, error) {
	check := checkFor(ctrl)
	cfg := InputConfig{
		Message:   promptLabel(ctrl),
		Default:   ctrl.Text,
		Help:      helpFor(ctrl),
		Validator: check,
	}
	for {
		resp, err := ask(ctx, cfg)
		if err != nil {
			return "", err
		}
		if err := check(resp); err != nil {
			if err := r.errorf(ctx, "%s: %v", ctrl.Label, err); err != nil {
				return "", err
			}
			continue
		}
		return resp, nil
	}
}

func (r *Renderer) promptChoice(ctx context.Context, ctrl render.Control, rec render.Recorder) error {
	options := make([]string, len(ctrl.Options))
	defaultIndex := 0
	for i, choice := range ctrl.Options {
		options[i] = choice.Value
		if choice.Selected {
			defaultIndex = i
		}
	}
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      promptLabel(ctrl),
		Options:      options,
		DefaultIndex: defaultIndex,
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(options) {
		r.logger.Debug("tui: selection out of range", "field", ctrl.Field.ID, "index", idx)
		return nil
	}
	rec.SetValue(ctrl.Field.ID, model.Text(options[idx]))
	return nil
}

func (r *Renderer) promptMulti(ctx context.Context, ctrl render.Control, rec render.Recorder) error {
	options := make([]string, len(ctrl.Options))
	var defaults []int
	for i, choice := range ctrl.Options {
		options[i] = choice.Value
		if choice.Selected {
			defaults = append(defaults, i)
		}
	}
	picked, err := r.driver.MultiSelect(ctx, SelectConfig{
		Message:  promptLabel(ctrl),
		Options:  options,
		Defaults: defaults,
	})
	if err != nil {
		return err
	}

	chosen := make(map[int]bool, len(picked))
	for _, idx := range picked {
		chosen[idx] = true
	}
	for i, option := range options {
		rec.ToggleOption(ctrl.Field.ID, option, chosen[i])
	}
	return nil
}

func (r *Renderer) promptFiles(ctx context.Context, ctrl render.Control, rec render.Recorder) error {
	names := make([]string, 0, len(ctrl.Files))
	for _, file := range ctrl.Files {
		names = append(names, file.Name)
	}
	ctrl.Text = strings.Join(names, ", ")
	resp, err := r.promptString(ctx, ctrl, r.driver.Input)
	if err != nil {
		return err
	}
	rec.SetValue(ctrl.Field.ID, filesFromPaths(resp))
	return nil
}

// filesFromPaths turns a comma separated path list into file references. Size
// is filled in when the path exists locally.
func filesFromPaths(raw string) model.Files {
	files := model.Files{}
	for _, part := range strings.Split(raw, ",") {
		path := strings.TrimSpace(part)
		if path == "" {
			continue
		}
		ref := model.FileRef{
			Name:        filepath.Base(path),
			ContentType: mime.TypeByExtension(filepath.Ext(path)),
		}
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			ref.Size = info.Size()
		}
		files = append(files, ref)
	}
	return files
}

func checkFor(ctrl render.Control) func(string) error {
	field := ctrl.Field
	return func(resp string) error {
		trimmed := strings.TrimSpace(resp)
		if trimmed == "" {
			if field.Required {
				return errors.New("a value is required")
			}
			if ctrl.Kind != widgets.ControlSlider {
				return nil
			}
		}
		switch {
		case ctrl.Kind == widgets.ControlSlider:
			n, err := strconv.ParseFloat(trimmed, 64)
			if err != nil {
				return fmt.Errorf("%q is not a number", resp)
			}
			if n < ctrl.Range.Min || n > ctrl.Range.Max {
				return fmt.Errorf("must be between %s and %s", render.FormatNumber(ctrl.Range.Min), render.FormatNumber(ctrl.Range.Max))
			}
		case field.Type == model.FieldTypeNumber:
			if _, err := strconv.ParseFloat(trimmed, 64); err != nil {
				return fmt.Errorf("%q is not a number", resp)
			}
		}
		return nil
	}
}

func promptLabel(ctrl render.Control) string {
	if ctrl.Required {
		return ctrl.Label + " *"
	}
	return ctrl.Label
}

func helpFor(ctrl render.Control) string {
	switch ctrl.Kind {
	case widgets.ControlSlider:
		return fmt.Sprintf("%s to %s in steps of %s",
			render.FormatNumber(ctrl.Range.Min), render.FormatNumber(ctrl.Range.Max), render.FormatNumber(ctrl.Range.Step))
	case widgets.ControlFilePicker:
		return "Comma separated file paths"
	}
	if ctrl.Field.Type.Valid() {
		return ctrl.Field.Type.Label()
	}
	return ""
}

func fieldsWithIssues(fields []model.Field, issues map[model.FieldID][]string) []model.Field {
	var out []model.Field
	for _, field := range fields {
		if len(issues[field.ID]) > 0 {
			out = append(out, field)
		}
	}
	return out
}

func (r *Renderer) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func (r *Renderer) errorf(ctx context.Context, format string, args ...any) error {
	return r.driver.Info(ctx, r.theme.ErrorPrefix+fmt.Sprintf(format, args...))
}

func (r *Renderer) serialize(fields []model.Field, values runtime.Values) ([]byte, error) {
	payload := values.Map()
	if r.submitTransformer != nil {
		var err error
		payload, err = r.submitTransformer(payload)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}

	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(payload)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(fields, payload)), nil
	default:
		out, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("tui: encode json: %w", err)
		}
		return out, nil
	}
}

func flattenForm(values map[string]any) string {
	out := url.Values{}
	for key, value := range values {
		switch v := value.(type) {
		case []string:
			for _, item := range v {
				out.Add(key, item)
			}
		case []model.FileRef:
			for _, file := range v {
				out.Add(key, file.Name)
			}
		default:
			out.Set(key, fmt.Sprint(v))
		}
	}
	return out.Encode()
}

// prettyPrint writes one line per field in form order. Keys that match no
// field are omitted.
func prettyPrint(fields []model.Field, values map[string]any) string {
	var b strings.Builder
	for _, field := range fields {
		value, ok := values[string(field.ID)]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", field.Label, prettyValue(value))
	}
	return b.String()
}

func prettyValue(value any) string {
	switch v := value.(type) {
	case bool:
		if v {
			return "yes"
		}
		return "no"
	case []string:
		return strings.Join(v, ", ")
	case []model.FileRef:
		names := make([]string, 0, len(v))
		for _, file := range v {
			names = append(names, file.Name)
		}
		return strings.Join(names, ", ")
	default:
		return fmt.Sprint(v)
	}
}
