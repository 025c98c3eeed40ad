package attack

import "github.com/nao1215/smartpass/internal/model"

var (
	// ErrUnboundedSearch is returned when a brute-force run lacks a positive
	// attempt ceiling or time budget.
	ErrUnboundedSearch = model.NewError(model.ErrValidation, "max attempts and time budget must both be positive")

	// ErrInvalidSearchSpace is returned when the charset or length range is unusable.
	ErrInvalidSearchSpace = model.NewError(model.ErrValidation, "invalid search space")

	// ErrNoSource is returned when the dictionary engine is given a nil reader.
	ErrNoSource = model.NewError(model.ErrValidation, "no wordlist source")

	// ErrWordlistRead is returned when the wordlist cannot be read to the end.
	ErrWordlistRead = model.NewError(model.ErrResource, "wordlist read failed")
)
