package simdoc

import "errors"

// Sentinel errors for library operations.
var (
	ErrNoSources        = errors.New("no source directories")
	ErrInvalidSource    = errors.New("invalid source directory")
	ErrInvalidAssetPath = errors.New("invalid asset path")
	ErrPDFRenderer      = errors.New("PDF output requires an HTML renderer")
)
