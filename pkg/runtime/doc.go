// Package runtime holds the live answers of a form being filled in. A
// Runtime is bound to a schema.Store and follows its events; renderers report
// user edits through SetValue and ToggleOption, and Submit hands a snapshot of
// the values to the host's Sink.
package runtime
