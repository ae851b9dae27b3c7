package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoFields is returned when Fill or Render receive an empty form.
	ErrNoFields = errors.New("tui: form has no fields")
)
