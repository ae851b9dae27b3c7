package runtime

import "log/slog"

// Option configures a Runtime.
type Option func(*Runtime)

// WithSink sets the submission sink.
func WithSink(sink Sink) Option {
	return func(r *Runtime) {
		r.sink = sink
	}
}

// WithValidator opts into a validation pass before the sink is invoked. No
// validation, including required-field checks, happens without one.
func WithValidator(validator Validator) Option {
	return func(r *Runtime) {
		r.validator = validator
	}
}

// WithLogger sets the logger used for lifecycle and no-op messages.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) {
		if logger != nil {
			r.logger = logger
		}
	}
}
