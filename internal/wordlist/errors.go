package wordlist

import "github.com/nao1215/smartpass/internal/model"

var (
	// ErrOutsideWordlistDir is returned when a wordlist name would resolve
	// outside the configured directory.
	ErrOutsideWordlistDir = model.NewError(model.ErrResource, "wordlist is outside the wordlist directory")

	// ErrWordlistNotFound is returned when no wordlist exists under the name.
	ErrWordlistNotFound = model.NewError(model.ErrResource, "wordlist not found")

	// ErrWordlistUnreadable is returned when a wordlist exists but cannot be
	// opened or decoded.
	ErrWordlistUnreadable = model.NewError(model.ErrResource, "wordlist unreadable")
)
