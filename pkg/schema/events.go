package schema

import "github.com/goliatone/go-formstudio/pkg/model"

// EventKind identifies a schema change.
type EventKind string

const (
	EventFieldAdded   EventKind = "field.added"
	EventFieldUpdated EventKind = "field.updated"
	EventFieldRemoved EventKind = "field.removed"
	EventFieldMoved   EventKind = "field.moved"
	EventTitleChanged EventKind = "title.changed"
	EventLabelChanged EventKind = "label.changed"
)

// Event describes one applied mutation. Field carries the post-mutation
// descriptor for added/updated/moved events and the removed descriptor for
// EventFieldRemoved. Index is the field position after the change (or before
// it, for removals).
type Event struct {
	Kind      EventKind
	Field     model.Field
	Previous  model.Field
	Index     int
	Title     string
	FieldType model.FieldType
	Label     string
}

// Listener observes schema events. Listeners run synchronously on the
// mutating goroutine, in subscription order, after the store lock has been
// released; they may read the store but should not mutate it.
type Listener func(Event)

type listenerEntry struct {
	token int
	fn    Listener
}

// Subscribe registers a listener and returns a function removing it. Calling
// the returned function more than once is harmless.
func (s *Store) Subscribe(fn Listener) func() {
	if fn == nil {
		return func() {}
	}
	s.listenersMu.Lock()
	s.nextToken++
	token := s.nextToken
	s.listeners = append(s.listeners, listenerEntry{token: token, fn: fn})
	s.listenersMu.Unlock()

	return func() {
		s.listenersMu.Lock()
		defer s.listenersMu.Unlock()
		for i, entry := range s.listeners {
			if entry.token == token {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) publish(event Event) {
	s.listenersMu.Lock()
	listeners := make([]listenerEntry, len(s.listeners))
	copy(listeners, s.listeners)
	s.listenersMu.Unlock()

	for _, entry := range listeners {
		entry.fn(event)
	}
}
