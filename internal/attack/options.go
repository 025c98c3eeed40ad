package attack

import (
	"log/slog"
	"time"
)

// DefaultCheckInterval is how many candidates are tried between two checks
// of the context and the time budget.
const DefaultCheckInterval = 1024

// options holds the settings shared by both engines.
type options struct {
	checkInterval uint64
	now           func() time.Time
	logger        *slog.Logger
}

// Option configures an engine.
type Option func(*options)

// WithCheckInterval sets how many candidates are tried between cancellation
// and time budget checks. Values below 1 are ignored.
func WithCheckInterval(n uint64) Option {
	return func(o *options) {
		if n > 0 {
			o.checkInterval = n
		}
	}
}

// WithClock replaces time.Now. Tests use it to drive the time budget.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLogger sets the logger used for run start and end events.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		checkInterval: DefaultCheckInterval,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}
