package config

import "github.com/nao1215/smartpass/internal/model"

// Configuration validation errors.
// A bad configuration stops the process before it serves anything, so these
// are precondition errors.
var (
	// ErrInvalidAddr is returned when the listen address is empty.
	ErrInvalidAddr = model.NewError(model.ErrPrecondition, "invalid listen address: must not be empty")

	// ErrInvalidCharset is returned when the brute-force charset is empty or
	// contains duplicate characters.
	ErrInvalidCharset = model.NewError(model.ErrPrecondition, "invalid charset: must be non-empty without duplicates")

	// ErrInvalidLength is returned when the brute-force length range is
	// inverted, starts below 1 or exceeds the length ceiling.
	ErrInvalidLength = model.NewError(model.ErrPrecondition, "invalid brute-force length range")

	// ErrInvalidAttempts is returned when max attempts is zero or above its ceiling.
	ErrInvalidAttempts = model.NewError(model.ErrPrecondition, "invalid max attempts: must be positive and within the ceiling")

	// ErrInvalidTimeBudget is returned when a time budget is not positive or
	// above its ceiling.
	ErrInvalidTimeBudget = model.NewError(model.ErrPrecondition, "invalid time budget: must be positive and within the ceiling")

	// ErrInvalidConcurrency is returned when a concurrency setting is not positive.
	ErrInvalidConcurrency = model.NewError(model.ErrPrecondition, "invalid concurrency: must be positive")

	// ErrInvalidTimeout is returned when the request timeout is not positive.
	ErrInvalidTimeout = model.NewError(model.ErrPrecondition, "invalid request timeout: must be positive")

	// ErrInvalidMaxConnections is returned when the connection cap is negative.
	ErrInvalidMaxConnections = model.NewError(model.ErrPrecondition, "invalid max connections: must be non-negative")

	// ErrInvalidLogFormat is returned for a log format other than text or json.
	ErrInvalidLogFormat = model.NewError(model.ErrPrecondition, "invalid log format: must be text or json")

	// ErrInvalidEnv is returned when an environment variable cannot be parsed.
	ErrInvalidEnv = model.NewError(model.ErrPrecondition, "invalid environment variable")

	// ErrConfigNotFound is returned when an explicitly named configuration
	// file does not exist.
	ErrConfigNotFound = model.NewError(model.ErrPrecondition, "configuration file not found")
)
