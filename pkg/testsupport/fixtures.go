package testsupport

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstudio/pkg/model"
	"github.com/goliatone/go-formstudio/pkg/schema"
)

// SampleTitle is the title SampleStore uses.
const SampleTitle = "Event Registration"

// SampleFields returns one field per value shape: plain text, a required
// email, a select, a checkbox group, a switch and a range.
func SampleFields() []model.Field {
	return []model.Field{
		{ID: "name", Type: model.FieldTypeText, Label: "Full name", Required: true, Aux: model.NoAux{}},
		{ID: "email", Type: model.FieldTypeEmail, Label: "Email", Required: true, Aux: model.NoAux{}},
		{ID: "ticket", Type: model.FieldTypeSelect, Label: "Ticket", Aux: model.Options{Items: []string{"Standard", "VIP"}}},
		{ID: "meals", Type: model.FieldTypeCheckbox, Label: "Meals", Aux: model.Options{Items: []string{"Lunch", "Dinner"}}},
		{ID: "newsletter", Type: model.FieldTypeSwitch, Label: "Newsletter", Aux: model.NoAux{}},
		{ID: "guests", Type: model.FieldTypeRange, Label: "Guests", Aux: model.Range{Min: 0, Max: 4, Step: 1}},
	}
}

// SampleStore returns a store seeded with SampleFields and a custom label for
// the email type.
func SampleStore(t testing.TB) *schema.Store {
	t.Helper()

	store, err := schema.NewStoreFrom(SampleTitle, SampleFields(), map[model.FieldType]string{
		model.FieldTypeEmail: "E-mail address",
	})
	if err != nil {
		t.Fatalf("sample store: %v", err)
	}
	return store
}

// SequentialIDs returns a generator yielding prefix-1, prefix-2, ...
func SequentialIDs(prefix string) schema.IDGenerator {
	var (
		mu sync.Mutex
		n  int
	)
	return func() model.FieldID {
		mu.Lock()
		defer mu.Unlock()
		n++
		return model.FieldID(fmt.Sprintf("%s-%d", prefix, n))
	}
}

// FieldIDs lists the ids of fields in order.
func FieldIDs(fields []model.Field) []model.FieldID {
	out := make([]model.FieldID, 0, len(fields))
	for _, field := range fields {
		out = append(out, field.ID)
	}
	return out
}

// AssertFieldIDs fails the test when the store order differs from want.
func AssertFieldIDs(t testing.TB, store *schema.Store, want ...model.FieldID) {
	t.Helper()
	if diff := cmp.Diff(want, FieldIDs(store.Fields())); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// LogBuffer is a concurrency-safe sink for slog output.
type LogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// String returns everything logged so far.
func (b *LogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// CaptureLogger returns a debug-level text logger writing into a LogBuffer.
func CaptureLogger() (*slog.Logger, *LogBuffer) {
	buf := &LogBuffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, buf
}
