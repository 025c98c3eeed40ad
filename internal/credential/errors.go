package credential

import "github.com/nao1215/smartpass/internal/model"

var (
	// ErrInvalidLength is returned when the requested password length cannot
	// hold one character of every class or exceeds MaxLength.
	ErrInvalidLength = model.NewError(model.ErrValidation, "invalid password length")

	// ErrRandomSource is returned when the random source fails.
	ErrRandomSource = model.NewError(model.ErrPrecondition, "random source failed")

	// ErrInvalidKey is returned when a key or IV has the wrong size or encoding.
	ErrInvalidKey = model.NewError(model.ErrResource, "invalid key material")

	// ErrDecryptionFailed is returned when a ciphertext cannot be decrypted.
	ErrDecryptionFailed = model.NewError(model.ErrResource, "decryption failed")
)
