// Package appsyntax documents the application's objects from its syntax
// tree:
//
//	!syntax description /Kernels/Diffusion
//	!syntax parameters /Kernels/Diffusion groups=Advanced
//	!syntax children /Kernels
//
// and inline [!param](/Kernels/Diffusion/variable).
package appsyntax

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"golang.org/x/net/html"

	"github.com/alnah/go-simdoc/internal/appsyntax"
	"github.com/alnah/go-simdoc/internal/command"
	"github.com/alnah/go-simdoc/internal/dom"
	"github.com/alnah/go-simdoc/internal/ext"
	"github.com/alnah/go-simdoc/internal/extensions/core"
	"github.com/alnah/go-simdoc/internal/latex"
	"github.com/alnah/go-simdoc/internal/pages"
	"github.com/alnah/go-simdoc/internal/reader"
	"github.com/alnah/go-simdoc/internal/render"
	"github.com/alnah/go-simdoc/internal/settings"
	"github.com/alnah/go-simdoc/internal/tokens"

	cmdext "github.com/alnah/go-simdoc/internal/extensions/command"
)

// Name is the extension name.
const Name = "appsyntax"

// ErrNoSyntax is returned by syntax commands when no tree is loaded.
var ErrNoSyntax = errors.New("application syntax not loaded")

// Options declares the extension options.
var Options = settings.Schema{
	{Name: "artifact", Default: "", Type: settings.String, Description: "Application build artifact the syntax cache is keyed on."},
	{Name: "dump", Default: "", Type: settings.String, Description: "JSON syntax dump produced from the artifact."},
	{Name: "cache", Default: ".simdoc-cache", Type: settings.String, Description: "Directory holding the syntax cache."},
}

// Token kinds.
var (
	Parameters = tokens.NewKind("SyntaxParameters", tokens.Required(tokens.Str("path", "")), tokens.Strings("groups"))
	Children   = tokens.NewKind("SyntaxChildren", tokens.Required(tokens.Str("path", "")))
	Param      = tokens.NewKind("SyntaxParam", tokens.Required(tokens.Str("path", "")))
)

func init() {
	tokens.MarkInline(Param)
}

// Extension registers the syntax commands against one loaded tree.
type Extension struct {
	ext.Base
	tree *appsyntax.Tree
}

// New returns the extension reading tree; a nil tree makes every syntax
// command a tokenize error.
func New(tree *appsyntax.Tree) *Extension {
	return &Extension{
		Base: ext.Base{ExtName: Name, ExtRequires: []string{cmdext.Name}},
		tree: tree,
	}
}

// Factory loads the syntax tree from the configured artifact and dump.
func Factory() ext.Factory {
	return ext.Factory{
		Name:    Name,
		Options: Options,
		New: func(v settings.Values) (ext.Extension, error) {
			if v.String("artifact") == "" || v.String("dump") == "" {
				return New(nil), nil
			}
			tree, err := appsyntax.Load(context.Background(), v.String("cache"), v.String("artifact"),
				appsyntax.FileExtractor{Path: v.String("dump")})
			if err != nil {
				return nil, err
			}
			return New(tree), nil
		},
	}
}

// Extend implements ext.Extension.
func (e *Extension) Extend(ctx *ext.Context, _ *reader.Reader, rd render.Renderer) error {
	for _, c := range []command.Command{syntaxCommand{e: e}, paramCommand{e: e}} {
		if err := ctx.Commands.Add(c); err != nil {
			return err
		}
	}
	for kind, c := range map[*tokens.Kind]any{
		Parameters: parametersComponent{e: e},
		Children:   childrenComponent{e: e},
		Param:      paramComponent{e: e},
	} {
		if err := rd.Add(kind, c); err != nil {
			return err
		}
	}
	return nil
}

func (e *Extension) find(p string) (*appsyntax.Node, error) {
	if e.tree == nil {
		return nil, ErrNoSyntax
	}
	return e.tree.Find(p)
}

type syntaxCommand struct {
	e *Extension
}

func (syntaxCommand) Name() string { return "syntax" }
func (syntaxCommand) Subcommands() []string {
	return []string{"description", "parameters", "children"}
}
func (syntaxCommand) AcceptsArgs() bool { return true }
func (syntaxCommand) Settings() settings.Schema {
	return settings.Schema{
		{Name: "groups", Default: []string(nil), Type: settings.List, Description: "Parameter groups to list; all when empty."},
	}
}

func (c syntaxCommand) CreateToken(parent *tokens.Token, inv *command.Invocation, _ *pages.Page) (*tokens.Token, error) {
	p := strings.TrimSpace(inv.Args)
	if p == "" {
		return nil, fmt.Errorf("!syntax %s: missing object path", inv.Subcommand)
	}
	node, err := c.e.find(p)
	if err != nil {
		return nil, err
	}
	switch inv.Subcommand {
	case "description":
		if node.Description == "" {
			return nil, fmt.Errorf("%s has no description", node.Path())
		}
		para, err := core.Paragraph.New(parent, nil)
		if err != nil {
			return nil, err
		}
		inv.Scanner().Inline(para, node.Description, inv.Line())
		return para, nil
	case "parameters":
		return Parameters.New(parent, tokens.Props{"path": node.Path(), "groups": inv.Settings.List("groups")})
	default:
		return Children.New(parent, tokens.Props{"path": node.Path()})
	}
}

type paramCommand struct {
	e *Extension
}

func (paramCommand) Name() string              { return "param" }
func (paramCommand) Subcommands() []string     { return []string{""} }
func (paramCommand) Settings() settings.Schema { return nil }

func (c paramCommand) CreateToken(parent *tokens.Token, inv *command.Invocation, _ *pages.Page) (*tokens.Token, error) {
	if c.e.tree == nil {
		return nil, ErrNoSyntax
	}
	p := strings.TrimSpace(inv.Content)
	if _, _, err := c.e.tree.FindParameter(p); err != nil {
		return nil, err
	}
	return Param.New(parent, tokens.Props{"path": p})
}

// selected returns the parameter groups of node to list.
func selected(node *appsyntax.Node, only []string) ([]string, map[string][]appsyntax.Parameter) {
	names, byGroup := node.ParameterGroups()
	if len(only) == 0 {
		return names, byGroup
	}
	var out []string
	for _, g := range names {
		for _, o := range only {
			if strings.EqualFold(g, o) {
				out = append(out, g)
				break
			}
		}
	}
	return out, byGroup
}

func groupTitle(g string) string {
	if g == "" {
		return "Input Parameters"
	}
	return g + " Parameters"
}

type parametersComponent struct {
	e *Extension
}

func (c parametersComponent) RenderHTML(parent *html.Node, tok *tokens.Token, _ *pages.Page) (*html.Node, error) {
	node, err := c.e.find(tok.String("path"))
	if err != nil {
		return nil, err
	}
	div := dom.Element(parent, "div", "id", tok.String("id"), "class", tok.String("class"), "style", tok.String("style"))
	dom.AddClass(div, "simdoc-syntax-parameters")
	groups, byGroup := selected(node, tok.Strings("groups"))
	for _, g := range groups {
		dom.Text(dom.Element(div, "p", "class", "simdoc-syntax-group"), groupTitle(g))
		dl := dom.Element(div, "dl")
		for _, p := range byGroup[g] {
			dt := dom.Element(dl, "dt", "id", slug(node, p.Name))
			dom.Text(dom.Element(dt, "code"), p.Name)
			dd := dom.Element(dl, "dd")
			dom.Text(dom.Element(dd, "p"), p.Description)
			meta := "Type: " + p.Type
			if p.Default != "" {
				meta += ", default: " + p.Default
			}
			if p.Required {
				meta += ", required"
			}
			dom.Text(dom.Element(dd, "p", "class", "simdoc-syntax-meta"), meta)
		}
	}
	return div, nil
}

func (c parametersComponent) RenderLatex(parent *latex.Node, tok *tokens.Token, _ *pages.Page) (*latex.Node, error) {
	node, err := c.e.find(tok.String("path"))
	if err != nil {
		return nil, err
	}
	groups, byGroup := selected(node, tok.Strings("groups"))
	for _, g := range groups {
		latex.String(latex.Command(parent, "paragraph"), groupTitle(g))
		env := latex.Environment(parent, "description")
		for _, p := range byGroup[g] {
			item := latex.Bare(env, "item")
			item.Optional = p.Name
			latex.String(env, " "+p.Description+" ("+p.Type+")\n")
		}
	}
	return parent, nil
}

type childrenComponent struct {
	e *Extension
}

func (c childrenComponent) RenderHTML(parent *html.Node, tok *tokens.Token, _ *pages.Page) (*html.Node, error) {
	node, err := c.e.find(tok.String("path"))
	if err != nil {
		return nil, err
	}
	ul := dom.Element(parent, "ul", "id", tok.String("id"), "class", tok.String("class"), "style", tok.String("style"))
	dom.AddClass(ul, "simdoc-syntax-children")
	for _, child := range node.Children {
		li := dom.Element(ul, "li")
		dom.Text(dom.Element(li, "code"), child.Name)
		if child.Description != "" {
			dom.Text(li, ": "+child.Description)
		}
	}
	return ul, nil
}

func (c childrenComponent) RenderLatex(parent *latex.Node, tok *tokens.Token, _ *pages.Page) (*latex.Node, error) {
	node, err := c.e.find(tok.String("path"))
	if err != nil {
		return nil, err
	}
	env := latex.Environment(parent, "itemize")
	for _, child := range node.Children {
		latex.Bare(env, "item")
		latex.String(latex.Command(env, "texttt"), child.Name)
		latex.String(env, " "+child.Description+"\n")
	}
	return env, nil
}

type paramComponent struct {
	e *Extension
}

func (c paramComponent) RenderHTML(parent *html.Node, tok *tokens.Token, _ *pages.Page) (*html.Node, error) {
	node, p, err := c.e.tree.FindParameter(tok.String("path"))
	if err != nil {
		return nil, err
	}
	title := p.Description
	if p.Type != "" {
		title += " (" + p.Type + ")"
	}
	code := dom.Element(parent, "code", "class", "simdoc-param", "title", title, "data-object", node.Path())
	dom.Text(code, p.Name)
	return nil, nil
}

func (c paramComponent) RenderLatex(parent *latex.Node, tok *tokens.Token, _ *pages.Page) (*latex.Node, error) {
	_, p, err := c.e.tree.FindParameter(tok.String("path"))
	if err != nil {
		return nil, err
	}
	latex.String(latex.Command(parent, "texttt"), p.Name)
	return nil, nil
}

func slug(node *appsyntax.Node, param string) string {
	return "param-" + core.Slug(strings.TrimPrefix(path.Join(node.Path(), param), "/"))
}
