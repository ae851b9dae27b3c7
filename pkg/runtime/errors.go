package runtime

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formstudio/pkg/model"
)

// Issue is one validation failure. An empty FieldID marks a form-level issue.
type Issue struct {
	FieldID model.FieldID `json:"field,omitempty"`
	Message string        `json:"message"`
}

// ValidationError aggregates the issues that stopped a submission.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Issues) == 0 {
		return "runtime: validation failed"
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		if issue.FieldID == "" {
			parts = append(parts, issue.Message)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", issue.FieldID, issue.Message))
	}
	return "runtime: validation failed: " + strings.Join(parts, "; ")
}

// FieldErrors groups issue messages by field id for renderers.
func (e *ValidationError) FieldErrors() map[model.FieldID][]string {
	if e == nil || len(e.Issues) == 0 {
		return nil
	}
	out := make(map[model.FieldID][]string)
	for _, issue := range e.Issues {
		out[issue.FieldID] = append(out[issue.FieldID], issue.Message)
	}
	return out
}

func asValidationError(err error) error {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return err
	}
	return &ValidationError{Issues: []Issue{{Message: err.Error()}}}
}
