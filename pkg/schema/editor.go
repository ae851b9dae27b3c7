package schema

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/goliatone/go-formstudio/pkg/model"
)

// IDGenerator returns a new field id. Ids must be unique for the lifetime of
// the store they are used with.
type IDGenerator func() model.FieldID

// FieldUpdate is a partial update applied by Editor.UpdateField. Nil members
// are left unchanged.
type FieldUpdate struct {
	Label    *string
	Type     *model.FieldType
	Required *bool
	Min      *float64
	Max      *float64
	Step     *float64
}

// Editor applies the authoring operations to a Store. Every operation
// reports whether the schema changed; references to missing fields, option
// operations on fields without options and out-of-range indices are absorbed
// as no-ops.
type Editor struct {
	store  *Store
	newID  IDGenerator
	logger *slog.Logger
}

// EditorOption configures an Editor.
type EditorOption func(*Editor)

// WithIDGenerator overrides the default UUID-based id generator.
func WithIDGenerator(gen IDGenerator) EditorOption {
	return func(e *Editor) {
		if gen != nil {
			e.newID = gen
		}
	}
}

// WithLogger sets the logger used to trace no-op outcomes.
func WithLogger(logger *slog.Logger) EditorOption {
	return func(e *Editor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEditor binds an editor to store.
func NewEditor(store *Store, options ...EditorOption) *Editor {
	e := &Editor{
		store:  store,
		newID:  func() model.FieldID { return model.FieldID(uuid.NewString()) },
		logger: slog.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e
}

// Store returns the schema the editor mutates.
func (e *Editor) Store() *Store {
	return e.store
}

// AddField appends a new field of type t labelled "New <Label> field" and
// returns its id. Unknown types add nothing and return "".
func (e *Editor) AddField(t model.FieldType) model.FieldID {
	if !t.Valid() {
		e.noop("add_field", "", reasonTypeMismatch)
		return ""
	}

	var id model.FieldID
	e.store.mutate(func() []Event {
		id = e.uniqueID()
		label := "New " + model.ResolveLabel(t, e.store.customLabels) + " field"
		field := model.NewField(id, t, label)
		e.store.fields = append(e.store.fields, field)
		return []Event{{Kind: EventFieldAdded, Field: field.Clone(), Index: len(e.store.fields) - 1}}
	})
	return id
}

// maxIDAttempts bounds calls to a custom generator before falling back to
// random ids.
const maxIDAttempts = 8

// uniqueID must be called with the store lock held.
func (e *Editor) uniqueID() model.FieldID {
	for range maxIDAttempts {
		if id := e.newID(); id != "" && e.store.indexOf(id) < 0 {
			return id
		}
	}
	e.store.logger.Warn("schema: id generator keeps colliding, using random ids", "attempts", maxIDAttempts)
	for {
		if id := model.FieldID(uuid.NewString()); e.store.indexOf(id) < 0 {
			return id
		}
	}
}

// UpdateField merges update into the field with the given id. A type change
// is applied first through model.Reconcile; range bounds are only applied
// when the resulting type is range.
func (e *Editor) UpdateField(id model.FieldID, update FieldUpdate) bool {
	var reason noopReason
	changed := e.store.mutate(func() []Event {
		idx := e.store.indexOf(id)
		if idx < 0 {
			reason = reasonLookupMiss
			return nil
		}
		previous := e.store.fields[idx]
		next := previous.Clone()

		if update.Type != nil && *update.Type != next.Type {
			if !update.Type.Valid() {
				reason = reasonTypeMismatch
				return nil
			}
			next = model.Reconcile(next, *update.Type)
		}
		if update.Label != nil {
			next.Label = *update.Label
		}
		if update.Required != nil {
			next.Required = *update.Required
		}
		if update.Min != nil || update.Max != nil || update.Step != nil {
			if r, ok := next.Range(); ok {
				if update.Min != nil {
					r.Min = *update.Min
				}
				if update.Max != nil {
					r.Max = *update.Max
				}
				if update.Step != nil {
					r.Step = *update.Step
				}
				next.Aux = r
			} else {
				e.logger.Debug("schema: range update ignored", "field", id, "type", next.Type, "reason", string(reasonTypeMismatch))
			}
		}

		if fieldsEqual(previous, next) {
			return nil
		}
		e.store.fields[idx] = next
		return []Event{{Kind: EventFieldUpdated, Field: next.Clone(), Previous: previous, Index: idx}}
	})
	if reason != "" {
		e.noop("update_field", id, reason)
	}
	return changed
}

// RemoveField drops the field with the given id, preserving the order of the
// remaining fields.
func (e *Editor) RemoveField(id model.FieldID) bool {
	changed := e.store.mutate(func() []Event {
		idx := e.store.indexOf(id)
		if idx < 0 {
			return nil
		}
		return []Event{e.removeAt(idx)}
	})
	if !changed {
		e.noop("remove_field", id, reasonLookupMiss)
	}
	return changed
}

// RemoveLastField pops the last field. It is a no-op on an empty schema.
func (e *Editor) RemoveLastField() bool {
	changed := e.store.mutate(func() []Event {
		if len(e.store.fields) == 0 {
			return nil
		}
		return []Event{e.removeAt(len(e.store.fields) - 1)}
	})
	if !changed {
		e.noop("remove_last_field", "", reasonBoundary)
	}
	return changed
}

// removeAt must be called with the store lock held.
func (e *Editor) removeAt(idx int) Event {
	removed := e.store.fields[idx]
	e.store.fields = append(e.store.fields[:idx], e.store.fields[idx+1:]...)
	return Event{Kind: EventFieldRemoved, Field: removed, Index: idx}
}

// MoveField moves the field with the given id to index, clamped to the
// field list bounds.
func (e *Editor) MoveField(id model.FieldID, index int) bool {
	var reason noopReason
	changed := e.store.mutate(func() []Event {
		from := e.store.indexOf(id)
		if from < 0 {
			reason = reasonLookupMiss
			return nil
		}
		to := index
		if to < 0 {
			to = 0
		}
		if last := len(e.store.fields) - 1; to > last {
			to = last
		}
		if to == from {
			reason = reasonBoundary
			return nil
		}

		field := e.store.fields[from]
		fields := append(e.store.fields[:from:from], e.store.fields[from+1:]...)
		fields = append(fields, model.Field{})
		copy(fields[to+1:], fields[to:])
		fields[to] = field
		e.store.fields = fields
		return []Event{{Kind: EventFieldMoved, Field: field.Clone(), Index: to}}
	})
	if reason != "" {
		e.noop("move_field", id, reason)
	}
	return changed
}

// AddOption appends "Option <n+1>" to an option-bearing field.
func (e *Editor) AddOption(id model.FieldID) bool {
	return e.editOptions("add_option", id, func(items []string) ([]string, noopReason) {
		return append(items, model.OptionLabel(len(items)+1)), ""
	})
}

// UpdateOption replaces the option at index.
func (e *Editor) UpdateOption(id model.FieldID, index int, value string) bool {
	return e.editOptions("update_option", id, func(items []string) ([]string, noopReason) {
		if index < 0 || index >= len(items) {
			return nil, reasonBoundary
		}
		items[index] = value
		return items, ""
	})
}

// RemoveOption deletes the option at index, shifting later options left. The
// last remaining option cannot be removed.
func (e *Editor) RemoveOption(id model.FieldID, index int) bool {
	return e.editOptions("remove_option", id, func(items []string) ([]string, noopReason) {
		if index < 0 || index >= len(items) || len(items) == 1 {
			return nil, reasonBoundary
		}
		return append(items[:index], items[index+1:]...), ""
	})
}

func (e *Editor) editOptions(op string, id model.FieldID, fn func([]string) ([]string, noopReason)) bool {
	var reason noopReason
	changed := e.store.mutate(func() []Event {
		idx := e.store.indexOf(id)
		if idx < 0 {
			reason = reasonLookupMiss
			return nil
		}
		previous := e.store.fields[idx]
		items, ok := previous.Options()
		if !ok {
			reason = reasonTypeMismatch
			return nil
		}
		updated, why := fn(items)
		if why != "" {
			reason = why
			return nil
		}
		next := previous.Clone()
		next.Aux = model.Options{Items: updated}
		if fieldsEqual(previous, next) {
			return nil
		}
		e.store.fields[idx] = next
		return []Event{{Kind: EventFieldUpdated, Field: next.Clone(), Previous: previous, Index: idx}}
	})
	if reason != "" {
		e.noop(op, id, reason)
	}
	return changed
}

func (e *Editor) noop(op string, id model.FieldID, reason noopReason) {
	e.logger.Debug("schema: editor no-op", "op", op, "field", id, "reason", string(reason))
}

func fieldsEqual(a, b model.Field) bool {
	if a.ID != b.ID || a.Type != b.Type || a.Label != b.Label || a.Required != b.Required {
		return false
	}
	switch av := a.Aux.(type) {
	case model.Options:
		bv, ok := b.Aux.(model.Options)
		if !ok || len(av.Items) != len(bv.Items) {
			return false
		}
		for i := range av.Items {
			if av.Items[i] != bv.Items[i] {
				return false
			}
		}
		return true
	case model.Range:
		bv, ok := b.Aux.(model.Range)
		return ok && av == bv
	default:
		return b.Aux == nil || b.Aux.Kind() == model.AuxNone
	}
}
