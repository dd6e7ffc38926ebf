// Package listing adds code listings: !listing path/to/file shows a file,
// or part of it, and the bang form !listing! ... !listing-end! shows its own
// content. Both create a numbered float holding one core Code token.
package listing

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-simdoc/internal/command"
	"github.com/alnah/go-simdoc/internal/ext"
	"github.com/alnah/go-simdoc/internal/extensions/core"
	"github.com/alnah/go-simdoc/internal/extensions/floats"
	"github.com/alnah/go-simdoc/internal/pages"
	"github.com/alnah/go-simdoc/internal/reader"
	"github.com/alnah/go-simdoc/internal/render"
	"github.com/alnah/go-simdoc/internal/settings"
	"github.com/alnah/go-simdoc/internal/tokens"

	cmdext "github.com/alnah/go-simdoc/internal/extensions/command"
)

// Name is the extension name.
const Name = "listing"

// Prefix is the default float prefix of listings.
const Prefix = "listing"

// Options declares the extension options.
var Options = settings.Schema{
	{Name: "root", Default: "", Type: settings.String, Description: "Directory file listings are relative to; defaults to the directory of the page."},
}

var common = settings.Schema{
	{Name: "caption", Default: "", Type: settings.String, Description: "Caption text; numbered when id is set."},
	{Name: "prefix", Default: Prefix, Type: settings.String, Description: "Float numbering prefix."},
	{Name: "language", Default: "", Type: settings.String, Description: "Highlighting language; detected from the file name when empty."},
	{Name: "max-height", Default: "350px", Type: settings.String, Description: "CSS max-height of the code box."},
}

var fileSettings = common.Merge(settings.Schema{
	{Name: "block", Default: "", Type: settings.String, Description: "Top-level [block] of a hierarchical input file to show."},
	{Name: "start", Default: "", Type: settings.String, Description: "Text of the first line to show."},
	{Name: "end", Default: "", Type: settings.String, Description: "Text of the line ending the listing."},
	{Name: "include-start", Default: true, Type: settings.Bool, Description: "Include the start line."},
	{Name: "include-end", Default: false, Type: settings.Bool, Description: "Include the end line."},
	{Name: "line", Default: "", Type: settings.String, Description: "Show only the first line containing this text."},
	{Name: "strip-header", Default: true, Type: settings.Bool, Description: "Remove the leading comment block of the file."},
})

// Extension registers the listing commands.
type Extension struct {
	ext.Base
	root string
}

// New returns the listing extension reading files under root; an empty
// root means the directory of each page.
func New(root string) *Extension {
	return &Extension{
		Base: ext.Base{ExtName: Name, ExtRequires: []string{cmdext.Name, floats.Name}},
		root: root,
	}
}

// Factory registers the extension for configuration by name.
func Factory() ext.Factory {
	return ext.Factory{
		Name:    Name,
		Options: Options,
		New: func(v settings.Values) (ext.Extension, error) {
			return New(v.String("root")), nil
		},
	}
}

// Extend implements ext.Extension.
func (e *Extension) Extend(ctx *ext.Context, _ *reader.Reader, _ render.Renderer) error {
	if err := ctx.Commands.Add(fileCommand{root: e.root}); err != nil {
		return err
	}
	return ctx.Commands.Add(contentCommand{})
}

// newListing creates the float and its single Code child.
func newListing(parent *tokens.Token, inv *command.Invocation, content, language string) (*tokens.Token, error) {
	f, err := floats.New(parent, inv.Scanner(), inv.Line(),
		inv.Settings.String("id"), inv.Settings.String("prefix"), inv.Settings.String("caption"))
	if err != nil {
		return nil, err
	}
	if _, err := core.Code.New(f, tokens.Props{
		"content":    content,
		"language":   language,
		"max-height": inv.Settings.String("max-height"),
	}); err != nil {
		return nil, err
	}
	return f, nil
}

// fileCommand is !listing path settings.
type fileCommand struct {
	root string
}

func (fileCommand) Name() string              { return "listing" }
func (fileCommand) Subcommands() []string     { return []string{command.Wildcard} }
func (fileCommand) Settings() settings.Schema { return fileSettings }

func (c fileCommand) CreateToken(parent *tokens.Token, inv *command.Invocation, page *pages.Page) (*tokens.Token, error) {
	name := c.path(inv.Subcommand, page)
	data, err := os.ReadFile(name) // #nosec G304 -- listings read user-named source files
	if err != nil {
		return nil, fmt.Errorf("listing: %w", err)
	}
	content, err := Extract(string(data), inv.Settings)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", inv.Subcommand, err)
	}
	lang := inv.Settings.String("language")
	if lang == "" {
		lang = core.DetectLanguage(name)
	}
	return newListing(parent, inv, content, lang)
}

func (c fileCommand) path(name string, page *pages.Page) string {
	if filepath.IsAbs(name) {
		return name
	}
	dir := c.root
	if dir == "" && page != nil && page.Source() != "" {
		dir = filepath.Dir(page.Source())
	}
	return filepath.Join(dir, filepath.FromSlash(name))
}

// Extract applies the block, start/end, line and strip-header settings to
// the content of a listed file, in that order.
func Extract(content string, v settings.Values) (string, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	if v.Bool("strip-header") {
		content = StripHeader(content)
	}
	var err error
	if b := v.String("block"); b != "" {
		if content, err = ExtractBlock(content, b); err != nil {
			return "", err
		}
	}
	if v.String("start") != "" || v.String("end") != "" {
		content, err = ExtractRange(content, v.String("start"), v.String("end"),
			v.Bool("include-start"), v.Bool("include-end"))
		if err != nil {
			return "", err
		}
	}
	if l := v.String("line"); l != "" {
		if content, err = ExtractLine(content, l); err != nil {
			return "", err
		}
	}
	return strings.TrimRight(content, "\n"), nil
}

// contentCommand is !listing! settings ... !listing-end!, showing the
// command content verbatim.
type contentCommand struct{}

func (contentCommand) Name() string              { return "listing" }
func (contentCommand) Subcommands() []string     { return []string{""} }
func (contentCommand) Settings() settings.Schema { return common }

func (contentCommand) CreateToken(parent *tokens.Token, inv *command.Invocation, _ *pages.Page) (*tokens.Token, error) {
	lang := inv.Settings.String("language")
	if lang == "" {
		lang = "text"
	}
	return newListing(parent, inv, strings.TrimRight(inv.Content, "\n"), lang)
}
