package render

import "errors"

// Sentinel errors for renderer configuration and rendering.
var (
	// ErrDuplicateBinding indicates a token kind is already bound on a renderer.
	ErrDuplicateBinding = errors.New("token kind already bound")

	// ErrUnsupportedComponent indicates a component implements no render
	// method usable by the renderer.
	ErrUnsupportedComponent = errors.New("component has no render method for renderer")

	// ErrRenderFailed indicates a render function failed and no Exception
	// binding was available to contain it.
	ErrRenderFailed = errors.New("render failed")

	// ErrTemplate indicates the page template could not be parsed or executed.
	ErrTemplate = errors.New("page template failed")

	// ErrUnknownRenderer indicates an unsupported renderer name.
	ErrUnknownRenderer = errors.New("unknown renderer")
)
