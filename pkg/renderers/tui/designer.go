package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formstudio/pkg/model"
	"github.com/goliatone/go-formstudio/pkg/render"
	"github.com/goliatone/go-formstudio/pkg/schema"
)

// Designer menu entries, in display order.
const (
	ActionAddField     = "Add field"
	ActionEditField    = "Edit field"
	ActionMoveField    = "Move field"
	ActionRemoveField  = "Remove field"
	ActionRemoveLast   = "Remove last field"
	ActionEditOptions  = "Edit options"
	ActionRenameForm   = "Rename form"
	ActionCustomLabel  = "Customize type label"
	ActionPreview      = "Preview"
	ActionDone         = "Done"
	optionActionAdd    = "Add option"
	optionActionRename = "Rename option"
	optionActionRemove = "Remove option"
	optionActionBack   = "Back"
)

var designerActions = []string{
	ActionAddField,
	ActionEditField,
	ActionMoveField,
	ActionRemoveField,
	ActionRemoveLast,
	ActionEditOptions,
	ActionRenameForm,
	ActionCustomLabel,
	ActionPreview,
	ActionDone,
}

// Design runs the schema designer menu until the user picks Done. Every
// change goes through editor, so subscribers of its store observe the same
// events a graphical designer would produce.
func (r *Renderer) Design(ctx context.Context, editor *schema.Editor) error {
	if ctx == nil {
		return errors.New("tui: context is required")
	}
	if editor == nil {
		return errors.New("tui: editor is required")
	}

	for {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message: fmt.Sprintf("%s (%d fields)", editor.Store().Title(), editor.Store().Len()),
			Options: designerActions,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(designerActions) {
			continue
		}

		action := designerActions[idx]
		if action == ActionDone {
			return nil
		}
		r.logger.Debug("tui: designer action", "action", action)
		if err := r.runAction(ctx, editor, action); err != nil {
			return err
		}
	}
}

func (r *Renderer) runAction(ctx context.Context, editor *schema.Editor, action string) error {
	store := editor.Store()
	switch action {
	case ActionAddField:
		typ, err := r.pickType(ctx, store, "Field type", "")
		if err != nil || typ == "" {
			return err
		}
		id := editor.AddField(typ)
		return r.info(ctx, fmt.Sprintf("Added %s", id))
	case ActionEditField:
		field, ok, err := r.pickField(ctx, store, "Field to edit", nil)
		if err != nil || !ok {
			return err
		}
		return r.editField(ctx, editor, field)
	case ActionMoveField:
		field, ok, err := r.pickField(ctx, store, "Field to move", nil)
		if err != nil || !ok {
			return err
		}
		position, err := r.askPosition(ctx, store.Len())
		if err != nil {
			return err
		}
		editor.MoveField(field.ID, position-1)
	case ActionRemoveField:
		field, ok, err := r.pickField(ctx, store, "Field to remove", nil)
		if err != nil || !ok {
			return err
		}
		confirm, err := r.driver.Confirm(ctx, ConfirmConfig{Message: fmt.Sprintf("Remove %q?", field.Label)})
		if err != nil {
			return err
		}
		if confirm {
			editor.RemoveField(field.ID)
		}
	case ActionRemoveLast:
		if !editor.RemoveLastField() {
			return r.info(ctx, "No fields to remove")
		}
	case ActionEditOptions:
		field, ok, err := r.pickField(ctx, store, "Field", func(f model.Field) bool { return f.Type.HasOptions() })
		if err != nil || !ok {
			return err
		}
		return r.editOptions(ctx, editor, field.ID)
	case ActionRenameForm:
		title, err := r.driver.Input(ctx, InputConfig{Message: "Form title", Default: store.Title()})
		if err != nil {
			return err
		}
		store.SetTitle(strings.TrimSpace(title))
	case ActionCustomLabel:
		typ, err := r.pickType(ctx, store, "Type to relabel", "")
		if err != nil || typ == "" {
			return err
		}
		label, err := r.driver.Input(ctx, InputConfig{
			Message: "Label (blank restores the default)",
			Default: store.ResolveLabel(typ),
		})
		if err != nil {
			return err
		}
		store.SetCustomLabel(typ, strings.TrimSpace(label))
	case ActionPreview:
		return r.preview(ctx, store)
	}
	return nil
}

func (r *Renderer) editField(ctx context.Context, editor *schema.Editor, field model.Field) error {
	label, err := r.driver.Input(ctx, InputConfig{Message: "Label", Default: field.Label})
	if err != nil {
		return err
	}
	typ, err := r.pickType(ctx, editor.Store(), "Type", field.Type)
	if err != nil {
		return err
	}
	required, err := r.driver.Confirm(ctx, ConfirmConfig{Message: "Required?", Default: field.Required})
	if err != nil {
		return err
	}

	label = strings.TrimSpace(label)
	update := schema.FieldUpdate{Label: &label, Required: &required}
	if typ != "" {
		update.Type = &typ
	}

	if typ == model.FieldTypeRange {
		current, ok := field.Range()
		if !ok {
			current = model.DefaultAux(model.FieldTypeRange).(model.Range)
		}
		bounds := []struct {
			name string
			dst  **float64
			def  float64
		}{
			{"Minimum", &update.Min, current.Min},
			{"Maximum", &update.Max, current.Max},
			{"Step", &update.Step, current.Step},
		}
		for _, b := range bounds {
			n, err := r.askNumber(ctx, b.name, b.def)
			if err != nil {
				return err
			}
			*b.dst = &n
		}
	}

	editor.UpdateField(field.ID, update)
	return nil
}

func (r *Renderer) editOptions(ctx context.Context, editor *schema.Editor, id model.FieldID) error {
	actions := []string{optionActionAdd, optionActionRename, optionActionRemove, optionActionBack}
	for {
		field, ok := editor.Store().Field(id)
		if !ok {
			return nil
		}
		options, _ := field.Options()

		idx, err := r.driver.Select(ctx, SelectConfig{
			Message: fmt.Sprintf("%s: %s", field.Label, strings.Join(options, ", ")),
			Options: actions,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(actions) {
			continue
		}

		switch actions[idx] {
		case optionActionAdd:
			editor.AddOption(id)
		case optionActionRename:
			pos, err := r.driver.Select(ctx, SelectConfig{Message: "Option", Options: options})
			if err != nil {
				return err
			}
			if pos < 0 || pos >= len(options) {
				continue
			}
			value, err := r.driver.Input(ctx, InputConfig{Message: "Option text", Default: options[pos]})
			if err != nil {
				return err
			}
			editor.UpdateOption(id, pos, value)
		case optionActionRemove:
			pos, err := r.driver.Select(ctx, SelectConfig{Message: "Option to remove", Options: options})
			if err != nil {
				return err
			}
			if !editor.RemoveOption(id, pos) {
				if err := r.info(ctx, "The last option cannot be removed"); err != nil {
					return err
				}
			}
		case optionActionBack:
			return nil
		}
	}
}

// pickType returns "" when the selection is out of range.
func (r *Renderer) pickType(ctx context.Context, store *schema.Store, message string, current model.FieldType) (model.FieldType, error) {
	types := model.Types()
	labels := make([]string, len(types))
	defaultIndex := 0
	for i, info := range types {
		labels[i] = store.ResolveLabel(info.Type)
		if info.Type == current {
			defaultIndex = i
		}
	}
	idx, err := r.driver.Select(ctx, SelectConfig{Message: message, Options: labels, DefaultIndex: defaultIndex, PageSize: 10})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(types) {
		return "", nil
	}
	return types[idx].Type, nil
}

func (r *Renderer) pickField(ctx context.Context, store *schema.Store, message string, filter func(model.Field) bool) (model.Field, bool, error) {
	var candidates []model.Field
	for _, field := range store.Fields() {
		if filter == nil || filter(field) {
			candidates = append(candidates, field)
		}
	}
	if len(candidates) == 0 {
		return model.Field{}, false, r.info(ctx, "No matching fields")
	}

	labels := make([]string, len(candidates))
	for i, field := range candidates {
		labels[i] = fmt.Sprintf("%d. %s (%s)", i+1, field.Label, store.ResolveLabel(field.Type))
	}
	idx, err := r.driver.Select(ctx, SelectConfig{Message: message, Options: labels})
	if err != nil {
		return model.Field{}, false, err
	}
	if idx < 0 || idx >= len(candidates) {
		return model.Field{}, false, nil
	}
	return candidates[idx], true, nil
}

func (r *Renderer) askPosition(ctx context.Context, count int) (int, error) {
	check := func(raw string) error {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || n < 1 || n > count {
			return fmt.Errorf("enter a position between 1 and %d", count)
		}
		return nil
	}
	for {
		raw, err := r.driver.Input(ctx, InputConfig{Message: "New position", Validator: check})
		if err != nil {
			return 0, err
		}
		if err := check(raw); err != nil {
			if err := r.errorf(ctx, "%v", err); err != nil {
				return 0, err
			}
			continue
		}
		n, _ := strconv.Atoi(strings.TrimSpace(raw))
		return n, nil
	}
}

func (r *Renderer) askNumber(ctx context.Context, message string, def float64) (float64, error) {
	check := func(raw string) error {
		if _, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err != nil {
			return fmt.Errorf("%q is not a number", raw)
		}
		return nil
	}
	for {
		raw, err := r.driver.Input(ctx, InputConfig{Message: message, Default: render.FormatNumber(def), Validator: check})
		if err != nil {
			return 0, err
		}
		if err := check(raw); err != nil {
			if err := r.errorf(ctx, "%v", err); err != nil {
				return 0, err
			}
			continue
		}
		n, _ := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		return n, nil
	}
}

func (r *Renderer) preview(ctx context.Context, store *schema.Store) error {
	controls := render.Controls(render.FormFromStore(store), render.RenderOptions{}, r.registry)
	if len(controls) == 0 {
		return r.info(ctx, "No fields yet")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", store.Title())
	for i, ctrl := range controls {
		fmt.Fprintf(&b, "%d. %s [%s]", i+1, promptLabel(ctrl), ctrl.Kind)
		if len(ctrl.Options) > 0 {
			values := make([]string, len(ctrl.Options))
			for j, choice := range ctrl.Options {
				values[j] = choice.Value
			}
			fmt.Fprintf(&b, " %s", strings.Join(values, " | "))
		}
		if ctrl.Field.Type == model.FieldTypeRange {
			fmt.Fprintf(&b, " %s", helpFor(ctrl))
		}
		b.WriteString("\n")
	}
	return r.info(ctx, strings.TrimRight(b.String(), "\n"))
}
