package server

import (
	"errors"
	"net/http"

	"github.com/nao1215/smartpass/internal/model"
	"github.com/nao1215/smartpass/internal/wordlist"
)

var (
	// ErrInvalidRoute is returned for a route table entry without a name,
	// method, path or handler.
	ErrInvalidRoute = model.NewError(model.ErrPrecondition, "invalid route")

	// ErrDuplicateRoute is returned when two routes share a name or a
	// method and path.
	ErrDuplicateRoute = model.NewError(model.ErrPrecondition, "duplicate route")

	// ErrMissingDependency is returned by New when a required collaborator is nil.
	ErrMissingDependency = model.NewError(model.ErrPrecondition, "missing server dependency")

	// ErrInvalidBody is returned for a request body that is not valid JSON.
	ErrInvalidBody = model.NewError(model.ErrValidation, "invalid JSON body")

	// ErrNoPassword is returned when a verify request carries no password.
	ErrNoPassword = model.NewError(model.ErrValidation, "no password provided")

	// ErrNoDigest is returned when an attack request carries no hashed password.
	ErrNoDigest = model.NewError(model.ErrValidation, "no hashed password provided")

	// ErrBusy is returned when no attack slot frees up before the request times out.
	ErrBusy = errors.New("too many concurrent attacks")
)

// statusFor maps an error to its HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, wordlist.ErrWordlistNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrBusy):
		return http.StatusServiceUnavailable
	case errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrResource):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
