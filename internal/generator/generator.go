package generator

import (
	"io"
	"strings"

	"github.com/pipe01/tagtree/internal/parser/ast"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// DefaultSelfClosing is used when Options.SelfClosing is nil.
var DefaultSelfClosing = NewSet("img")

// HTMLVoidElements are the HTML elements that never have a closing tag.
var HTMLVoidElements = NewSet(
	"area",
	"base",
	"br",
	"col",
	"embed",
	"hr",
	"img",
	"input",
	"link",
	"meta",
	"param",
	"source",
	"track",
	"wbr",
)

func NewSet(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

type Options struct {
	// Tag names rendered as "<name />". Children of these elements are
	// dropped.
	SelfClosing map[string]struct{}
}

func (o Options) selfClosing() map[string]struct{} {
	if o.SelfClosing == nil {
		return DefaultSelfClosing
	}
	return o.SelfClosing
}

func (o Options) IsSelfClosing(name string) bool {
	_, ok := o.selfClosing()[name]
	return ok
}

// SelfClosingNames returns the configured self-closing names, sorted.
func (o Options) SelfClosingNames() []string {
	names := maps.Keys(o.selfClosing())
	slices.Sort(names)
	return names
}

// Visit writes the markup for every node of f to w.
func Visit(w io.Writer, f *ast.File, opts Options) error {
	return VisitNodes(w, f.Nodes, opts)
}

func VisitNodes(w io.Writer, nodes ast.Forest, opts Options) error {
	ctx := context{
		w:    &outputWriter{w: w},
		opts: opts,
	}

	ctx.visitNodes(nodes)

	return ctx.w.Err()
}

// Render returns the markup for a forest.
func Render(nodes ast.Forest, opts Options) string {
	var b strings.Builder

	// strings.Builder never fails to write
	_ = VisitNodes(&b, nodes, opts)

	return b.String()
}

type context struct {
	w    OutputWriter
	opts Options
}

func (c *context) visitNodes(nodes ast.Forest) {
	for _, n := range nodes {
		c.visitNode(n)
	}
}

func (c *context) visitNode(n *ast.Element) {
	if c.opts.IsSelfClosing(n.Name) {
		c.w.WriteSelfClosingTag(n.Name)
		return
	}

	c.w.WriteOpeningTag(n.Name)
	c.visitNodes(n.Children)
	c.w.WriteClosingTag(n.Name)
}
