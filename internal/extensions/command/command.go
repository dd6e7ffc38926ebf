// Package command wires the generic command syntax into the reader. Every
// extension that adds a !name command requires it.
package command

import (
	"github.com/alnah/go-simdoc/internal/command"
	"github.com/alnah/go-simdoc/internal/ext"
	"github.com/alnah/go-simdoc/internal/extensions/core"
	"github.com/alnah/go-simdoc/internal/reader"
	"github.com/alnah/go-simdoc/internal/render"
	"github.com/alnah/go-simdoc/internal/settings"
)

// Name is the extension name.
const Name = "command"

// Grammar entry names.
const (
	BlockEntry  = "BlockCommand"
	InlineEntry = "InlineCommand"
)

// Extension adds the BlockCommand and InlineCommand grammar entries.
type Extension struct {
	ext.Base
}

// New returns the command extension.
func New() *Extension {
	return &Extension{Base: ext.Base{ExtName: Name, ExtRequires: []string{core.Name}}}
}

// Factory registers the extension for configuration by name.
func Factory() ext.Factory {
	return ext.Factory{
		Name: Name,
		New:  func(settings.Values) (ext.Extension, error) { return New(), nil },
	}
}

// Extend implements ext.Extension.
func (e *Extension) Extend(ctx *ext.Context, r *reader.Reader, _ render.Renderer) error {
	if err := r.AddBlock(BlockEntry, command.BlockPattern, command.NewBlockComponent(ctx.Commands), ">Code"); err != nil {
		return err
	}
	return r.AddInline(InlineEntry, command.InlinePattern, command.NewInlineComponent(ctx.Commands), "<Link")
}
