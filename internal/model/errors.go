package model

import "errors"

// Error categories shared across SmartPass.
// Every package-level sentinel error belongs to exactly one category so the
// request layer can translate failures without knowing each package.
var (
	// ErrValidation marks missing or malformed caller input.
	// Requests failing with this category are rejected and never retried.
	ErrValidation = errors.New("validation error")

	// ErrPrecondition marks a start-up requirement that could not be met,
	// such as a classifier model that fails to load.
	ErrPrecondition = errors.New("precondition error")

	// ErrResource marks an unavailable or unusable resource: an unreadable
	// wordlist, a path outside the wordlist directory, a malformed digest.
	ErrResource = errors.New("resource error")
)

// kindError is a sentinel error that also matches its category with errors.Is.
type kindError struct {
	kind error
	msg  string
}

// NewError returns a sentinel error belonging to the given category.
// errors.Is matches both the returned value and kind.
func NewError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

// Error implements the error interface.
func (e *kindError) Error() string {
	return e.msg
}

// Is reports whether target is the category of this error.
func (e *kindError) Is(target error) bool {
	return target == e.kind
}

// Kind returns the category of err: ErrValidation, ErrPrecondition,
// ErrResource, or nil when err belongs to none of them.
func Kind(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrValidation):
		return ErrValidation
	case errors.Is(err, ErrPrecondition):
		return ErrPrecondition
	case errors.Is(err, ErrResource):
		return ErrResource
	default:
		return nil
	}
}
