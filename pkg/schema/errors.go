package schema

import "errors"

var (
	// ErrInvalidField is returned when a loaded field lacks an id or names an
	// unknown type.
	ErrInvalidField = errors.New("schema: invalid field")
	// ErrDuplicateField is returned when two loaded fields share an id.
	ErrDuplicateField = errors.New("schema: duplicate field id")
)

// noopReason classifies why an editor operation left the schema unchanged.
// No-ops are never surfaced as errors; the reason is only logged.
type noopReason string

const (
	reasonLookupMiss   noopReason = "lookup_miss"
	reasonTypeMismatch noopReason = "type_mismatch"
	reasonBoundary     noopReason = "boundary"
)
