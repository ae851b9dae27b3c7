package schema

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/goliatone/go-formstudio/pkg/model"
)

// DefaultTitle is the title of a freshly created form.
const DefaultTitle = "Untitled Form"

// Store is the single mutable form schema shared by an Editor and any number
// of read-only observers. Readers always receive copies; observers learn about
// changes through Subscribe rather than by holding on to earlier reads.
type Store struct {
	mu           sync.RWMutex
	title        string
	fields       []model.Field
	customLabels map[model.FieldType]string

	listenersMu sync.Mutex
	listeners   []listenerEntry
	nextToken   int

	logger *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithTitle overrides the default title.
func WithTitle(title string) StoreOption {
	return func(s *Store) {
		s.title = title
	}
}

// WithStoreLogger sets the logger used for lifecycle messages.
func WithStoreLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore creates an empty schema titled DefaultTitle.
func NewStore(options ...StoreOption) *Store {
	s := &Store{
		title:        DefaultTitle,
		customLabels: make(map[model.FieldType]string),
		logger:       slog.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// NewStoreFrom builds a store from previously authored fields, typically a
// loaded document. Every field is passed through model.Reconcile so its
// auxiliary payload matches its type. Blank or unknown types, blank ids and
// duplicate ids are rejected.
func NewStoreFrom(title string, fields []model.Field, labels map[model.FieldType]string, options ...StoreOption) (*Store, error) {
	s := NewStore(options...)
	if strings.TrimSpace(title) != "" {
		s.title = title
	}

	seen := make(map[model.FieldID]struct{}, len(fields))
	s.fields = make([]model.Field, 0, len(fields))
	for idx, field := range fields {
		if strings.TrimSpace(string(field.ID)) == "" {
			return nil, fmt.Errorf("%w: field %d has no id", ErrInvalidField, idx)
		}
		if !field.Type.Valid() {
			return nil, fmt.Errorf("%w: field %q has unknown type %q", ErrInvalidField, field.ID, field.Type)
		}
		if _, exists := seen[field.ID]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateField, field.ID)
		}
		seen[field.ID] = struct{}{}
		s.fields = append(s.fields, model.Reconcile(field, field.Type))
	}

	for typ, label := range labels {
		if !typ.Valid() {
			return nil, fmt.Errorf("%w: custom label for unknown type %q", ErrInvalidField, typ)
		}
		if strings.TrimSpace(label) == "" {
			continue
		}
		s.customLabels[typ] = label
	}
	return s, nil
}

// Title returns the form title.
func (s *Store) Title() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.title
}

// SetTitle replaces the form title.
func (s *Store) SetTitle(title string) {
	s.mu.Lock()
	if s.title == title {
		s.mu.Unlock()
		return
	}
	s.title = title
	s.mu.Unlock()

	s.publish(Event{Kind: EventTitleChanged, Title: title})
}

// CustomLabels returns a copy of the per-type label overrides.
func (s *Store) CustomLabels() map[model.FieldType]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[model.FieldType]string, len(s.customLabels))
	for typ, label := range s.customLabels {
		out[typ] = label
	}
	return out
}

// SetCustomLabel overrides the display label of a field type. A blank label
// removes the override. Unknown types are ignored.
func (s *Store) SetCustomLabel(t model.FieldType, label string) {
	if !t.Valid() {
		s.logger.Debug("schema: custom label ignored", "type", t, "reason", string(reasonTypeMismatch))
		return
	}

	s.mu.Lock()
	current, exists := s.customLabels[t]
	if strings.TrimSpace(label) == "" {
		if !exists {
			s.mu.Unlock()
			return
		}
		delete(s.customLabels, t)
	} else {
		if exists && current == label {
			s.mu.Unlock()
			return
		}
		s.customLabels[t] = label
	}
	s.mu.Unlock()

	s.publish(Event{Kind: EventLabelChanged, FieldType: t, Label: label})
}

// ResolveLabel returns the effective display label of a field type.
func (s *Store) ResolveLabel(t model.FieldType) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.ResolveLabel(t, s.customLabels)
}

// Fields returns a deep copy of the ordered field list.
func (s *Store) Fields() []model.Field {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.CloneFields(s.fields)
}

// Field returns a copy of the field with the given id.
func (s *Store) Field(id model.FieldID) (model.Field, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return model.Field{}, false
	}
	return s.fields[idx].Clone(), true
}

// Len returns the number of fields.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.fields)
}

// indexOf must be called with mu held.
func (s *Store) indexOf(id model.FieldID) int {
	for i := range s.fields {
		if s.fields[i].ID == id {
			return i
		}
	}
	return -1
}

// mutate runs fn under the write lock and publishes the returned events once
// the lock is released.
func (s *Store) mutate(fn func() []Event) bool {
	s.mu.Lock()
	events := fn()
	s.mu.Unlock()

	for _, event := range events {
		s.publish(event)
	}
	return len(events) > 0
}
