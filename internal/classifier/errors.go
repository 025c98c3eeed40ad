package classifier

import "github.com/nao1215/smartpass/internal/model"

var (
	// ErrModelNotFound is returned when the model artifact file does not exist.
	ErrModelNotFound = model.NewError(model.ErrPrecondition, "classifier model not found")

	// ErrInvalidModel is returned when the artifact cannot be decoded or is
	// inconsistent: wrong feature version, k out of range, dimension mismatch,
	// unknown label.
	ErrInvalidModel = model.NewError(model.ErrPrecondition, "invalid classifier model")
)
