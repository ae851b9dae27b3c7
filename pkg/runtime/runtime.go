package runtime

import (
	"log/slog"
	"reflect"
	"sync"

	"github.com/goliatone/go-formstudio/pkg/model"
	"github.com/goliatone/go-formstudio/pkg/schema"
)

// Sink receives the submitted values. It is supplied by the host and called
// exactly once per successful Submit.
type Sink func(Values)

// Validator is an optional policy run by Submit before the sink is invoked.
// Returning a non-nil error aborts the submission.
type Validator interface {
	Validate(fields []model.Field, values Values) error
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc func(fields []model.Field, values Values) error

// Validate calls fn.
func (fn ValidatorFunc) Validate(fields []model.Field, values Values) error {
	return fn(fields, values)
}

// Runtime keeps the live value map of a form being filled in. It is bound to
// one schema.Store at a time: binding a different store discards every value
// and starts from type defaults, while edits to the bound store only add
// defaults for new fields and drop values of removed fields.
type Runtime struct {
	mu     sync.RWMutex
	values Values
	fields []model.Field

	store       *schema.Store
	unsubscribe func()

	sink      Sink
	validator Validator
	logger    *slog.Logger
}

// New constructs an unbound runtime.
func New(options ...Option) *Runtime {
	r := &Runtime{
		values: make(Values),
		logger: slog.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Bind attaches the runtime to store. Binding a different store (or the first
// store) reinitialises every value; binding the already bound store is a
// no-op. The returned map is a snapshot.
func (r *Runtime) Bind(store *schema.Store) Values {
	r.mu.Lock()
	if store == r.store {
		snapshot := r.values.Clone()
		r.mu.Unlock()
		return snapshot
	}
	previous := r.unsubscribe
	r.store = store
	r.unsubscribe = nil
	r.mu.Unlock()

	if previous != nil {
		previous()
	}
	if store == nil {
		return r.Initialize(nil)
	}

	// Subscribe before reading the fields so no mutation in between is lost.
	unsubscribe := store.Subscribe(r.handleEvent)
	r.mu.Lock()
	r.unsubscribe = unsubscribe
	r.mu.Unlock()

	values := r.Initialize(store.Fields())
	r.logger.Info("runtime: bound schema", "title", store.Title(), "fields", len(values))
	return values
}

// Close detaches the runtime from its store.
func (r *Runtime) Close() {
	r.mu.Lock()
	unsubscribe := r.unsubscribe
	r.unsubscribe = nil
	r.store = nil
	r.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

// Initialize discards every value and seeds one default per field. It does
// not change the bound store.
func (r *Runtime) Initialize(fields []model.Field) Values {
	values := make(Values, len(fields))
	for _, field := range fields {
		values[field.ID] = model.DefaultValue(field.Type)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.fields = model.CloneFields(fields)
	r.values = values
	return values.Clone()
}

func (r *Runtime) handleEvent(event schema.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch event.Kind {
	case schema.EventFieldAdded:
		if _, exists := r.values[event.Field.ID]; !exists {
			r.values[event.Field.ID] = model.DefaultValue(event.Field.Type)
		}
		if idx := indexOf(r.fields, event.Field.ID); idx < 0 {
			r.fields = insertAt(r.fields, event.Index, event.Field.Clone())
		}
	case schema.EventFieldRemoved:
		delete(r.values, event.Field.ID)
		if idx := indexOf(r.fields, event.Field.ID); idx >= 0 {
			r.fields = append(r.fields[:idx], r.fields[idx+1:]...)
		}
	case schema.EventFieldUpdated:
		// A value survives reconfiguration unless the new type stores a
		// different variant, in which case it starts over from the default.
		if idx := indexOf(r.fields, event.Field.ID); idx >= 0 {
			r.fields[idx] = event.Field.Clone()
		}
		if current, ok := r.values[event.Field.ID]; ok && event.Previous.Type != event.Field.Type {
			if next := model.DefaultValue(event.Field.Type); !sameVariant(current, next) {
				r.values[event.Field.ID] = next
			}
		}
	case schema.EventFieldMoved:
		if idx := indexOf(r.fields, event.Field.ID); idx >= 0 {
			field := r.fields[idx]
			r.fields = append(r.fields[:idx], r.fields[idx+1:]...)
			r.fields = insertAt(r.fields, event.Index, field)
		}
	}
}

// Fields returns the descriptors the runtime currently tracks.
func (r *Runtime) Fields() []model.Field {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return model.CloneFields(r.fields)
}

// SetValue replaces the value of a field. Unknown ids are ignored.
func (r *Runtime) SetValue(id model.FieldID, value model.Value) {
	if value == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.values[id]; !ok {
		r.logger.Debug("runtime: set value ignored", "field", id, "reason", "lookup_miss")
		return
	}
	r.values[id] = model.CloneValue(value)
}

// ToggleOption adds option to (checked) or removes it from (unchecked) the
// selection of a checkbox field. Repeating a toggle has no further effect.
// Fields of other types are ignored.
func (r *Runtime) ToggleOption(id model.FieldID, option string, checked bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.values[id]
	if !ok {
		r.logger.Debug("runtime: toggle ignored", "field", id, "reason", "lookup_miss")
		return
	}
	if idx := indexOf(r.fields, id); idx < 0 || r.fields[idx].Type != model.FieldTypeCheckbox {
		r.logger.Debug("runtime: toggle ignored", "field", id, "reason", "type_mismatch")
		return
	}

	selection, _ := current.(model.Selection)
	has := selection.Contains(option)
	switch {
	case checked && !has:
		next := append(model.Selection{}, selection...)
		r.values[id] = append(next, option)
	case !checked && has:
		next := make(model.Selection, 0, len(selection))
		for _, item := range selection {
			if item != option {
				next = append(next, item)
			}
		}
		r.values[id] = next
	case !checked && selection == nil:
		r.values[id] = model.Selection{}
	}
}

// Value returns a copy of one field's value.
func (r *Runtime) Value(id model.FieldID) (model.Value, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[id]
	if !ok {
		return nil, false
	}
	return model.CloneValue(v), true
}

// Values returns a snapshot of the value map.
func (r *Runtime) Values() Values {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.values.Clone()
}

// Submit hands a snapshot of the values to the sink and returns it. When a
// validator is configured and rejects the values, the sink is not called and
// the validator error is returned wrapped in a *ValidationError when it is not
// one already. Values are never cleared by Submit.
func (r *Runtime) Submit() (Values, error) {
	r.mu.RLock()
	snapshot := r.values.Clone()
	fields := model.CloneFields(r.fields)
	sink := r.sink
	validator := r.validator
	r.mu.RUnlock()

	if validator != nil {
		if err := validator.Validate(fields, snapshot); err != nil {
			r.logger.Info("runtime: submission rejected", "error", err)
			return snapshot, asValidationError(err)
		}
	}

	if sink != nil {
		sink(snapshot.Clone())
	}
	r.logger.Info("runtime: submitted", "fields", len(snapshot))
	return snapshot, nil
}

func indexOf(fields []model.Field, id model.FieldID) int {
	for i := range fields {
		if fields[i].ID == id {
			return i
		}
	}
	return -1
}

func insertAt(fields []model.Field, index int, field model.Field) []model.Field {
	if index < 0 || index > len(fields) {
		index = len(fields)
	}
	fields = append(fields, model.Field{})
	copy(fields[index+1:], fields[index:])
	fields[index] = field
	return fields
}

func sameVariant(a, b model.Value) bool {
	return reflect.TypeOf(a) == reflect.TypeOf(b)
}
