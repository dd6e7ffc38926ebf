package tokens

import "errors"

// Sentinel errors for token construction and tree edits.
var (
	ErrUnknownProperty = errors.New("unknown property")
	ErrPropertyType    = errors.New("invalid property type")
	ErrMissingProperty = errors.New("missing required property")
	ErrCycle           = errors.New("re-parenting would create a cycle")
)
