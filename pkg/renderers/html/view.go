package html

import (
	"sort"
	"strconv"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formstudio/pkg/model"
	"github.com/goliatone/go-formstudio/pkg/render"
	"github.com/goliatone/go-formstudio/pkg/widgets"
)

// formView is the template context. Strings marked sanitised have been
// through the bluemonday policy and are emitted unescaped.
type formView struct {
	Title       string // sanitised
	Action      string
	Method      string
	Multipart   bool
	Stylesheet  string
	SubmitLabel string
	Notice      string
	FormErrors  []string
	Hidden      []render.HiddenField
	Controls    []controlView
	Theme       themeView
}

type controlView struct {
	ID        string
	Name      string
	Kind      string
	Type      string
	InputType string
	Grouped   bool
	Label     string // sanitised
	Required  bool
	Value     string
	Checked   bool
	Choices   []choiceView
	Min       string
	Max       string
	Step      string
	Files     []string
	Errors    []string
}

type choiceView struct {
	ID       string
	Value    string
	Label    string // sanitised
	Selected bool
}

type themeView struct {
	Name         string
	Variant      string
	CSSVarsStyle string
}

func (r *Renderer) buildView(form render.Form, options render.RenderOptions) formView {
	view := formView{
		Title:       r.sanitize(form.Title),
		Action:      options.Action,
		Method:      strings.ToLower(defaultMethod(options.Method)),
		Stylesheet:  r.stylesheetURL(),
		SubmitLabel: r.submitLabel,
		FormErrors:  options.Errors[""],
		Hidden:      render.NormalizeHidden(options.Hidden),
		Theme:       buildThemeView(r.theme),
	}

	for _, ctrl := range render.Controls(form, options, r.registry) {
		cv := r.controlView(ctrl)
		if ctrl.Kind == widgets.ControlFilePicker {
			view.Multipart = true
		}
		view.Controls = append(view.Controls, cv)
	}
	return view
}

func (r *Renderer) controlView(ctrl render.Control) controlView {
	id := controlID(ctrl.Field.ID)
	cv := controlView{
		ID:        id,
		Name:      string(ctrl.Field.ID),
		Kind:      string(ctrl.Kind),
		Type:      string(ctrl.Field.Type),
		InputType: inputType(ctrl),
		Label:     r.sanitize(ctrl.Label),
		Required:  ctrl.Required,
		Value:     ctrl.Text,
		Checked:   ctrl.Checked,
		Errors:    ctrl.Errors,
	}

	switch ctrl.Kind {
	case widgets.ControlRadioGroup, widgets.ControlCheckboxGroup:
		cv.Grouped = true
	case widgets.ControlSlider:
		cv.Min = render.FormatNumber(ctrl.Range.Min)
		cv.Max = render.FormatNumber(ctrl.Range.Max)
		cv.Step = render.FormatNumber(ctrl.Range.Step)
	case widgets.ControlFilePicker:
		for _, file := range ctrl.Files {
			cv.Files = append(cv.Files, file.Name)
		}
	}

	for _, choice := range ctrl.Options {
		cv.Choices = append(cv.Choices, choiceView{
			ID:       id + "-" + strconv.Itoa(choice.Index),
			Value:    choice.Value,
			Label:    r.sanitize(choice.Value),
			Selected: choice.Selected,
		})
	}
	return cv
}

func (r *Renderer) sanitize(text string) string {
	return strings.TrimSpace(r.policy.Sanitize(text))
}

func (r *Renderer) stylesheetURL() string {
	if r.theme != nil && r.theme.AssetURL != nil {
		if url := r.theme.AssetURL(StylesheetName); url != "" {
			return url
		}
	}
	return r.stylesheet
}

func controlID(id model.FieldID) string {
	return "fs-" + string(id)
}

func inputType(ctrl render.Control) string {
	switch ctrl.Kind {
	case widgets.ControlRadioGroup:
		return "radio"
	case widgets.ControlCheckboxGroup:
		return "checkbox"
	case widgets.ControlText:
		switch ctrl.Field.Type {
		case model.FieldTypeText, model.FieldTypeNumber, model.FieldTypeEmail, model.FieldTypePassword,
			model.FieldTypeTel, model.FieldTypeURL, model.FieldTypeDate, model.FieldTypeTime,
			model.FieldTypeDateTimeLocal, model.FieldTypeMonth, model.FieldTypeWeek, model.FieldTypeColor:
			return string(ctrl.Field.Type)
		}
	}
	return "text"
}

func buildThemeView(cfg *theme.RendererConfig) themeView {
	if cfg == nil {
		return themeView{}
	}
	return themeView{
		Name:         cfg.Theme,
		Variant:      cfg.Variant,
		CSSVarsStyle: cssVarsStyle(cfg.CSSVars),
	}
}

// cssVarsStyle renders custom properties in key order. Keys that are not
// custom properties are skipped.
func cssVarsStyle(vars map[string]string) string {
	keys := make([]string, 0, len(vars))
	for key := range vars {
		if strings.HasPrefix(key, "--") {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+vars[key])
	}
	return strings.Join(parts, "; ")
}
