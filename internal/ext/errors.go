package ext

import "errors"

// Sentinel errors for composition. All of them are configuration errors
// raised before any page is processed.
var (
	ErrCyclicRequires     = errors.New("cyclic extension requirements")
	ErrMissingRequirement = errors.New("required extension not loaded")
	ErrDuplicateExtension = errors.New("duplicate extension")
	ErrUnknownExtension   = errors.New("unknown extension")
	ErrInvalidOption      = errors.New("invalid extension option")
)
