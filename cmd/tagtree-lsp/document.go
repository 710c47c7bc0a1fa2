package main

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	poserrors "github.com/pipe01/tagtree/errors"
	"github.com/pipe01/tagtree/internal/lexer"
	"github.com/pipe01/tagtree/internal/parser/ast"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

var semanticTokenTypes = []string{
	"type",
}

// lineIndex maps lexer locations, which count runes, to LSP positions, which
// count UTF-16 code units.
type lineIndex []string

func newLineIndex(content string) lineIndex {
	return strings.Split(content, "\n")
}

func (li lineIndex) position(l lexer.Location) protocol.Position {
	p := protocol.Position{Line: uint32(l.Line)}

	col := 0
	if l.Line < len(li) {
		for _, r := range li[l.Line] {
			if col == l.Column {
				break
			}
			p.Character += uint32(utf16.RuneLen(r))
			col++
		}
	}

	// Past the end of the line
	p.Character += uint32(l.Column - col)

	return p
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// diagnostics converts a workspace load error into LSP diagnostics. A nil
// error yields an empty, non-nil list so stale diagnostics get cleared.
func diagnostics(doc lineIndex, err error) []protocol.Diagnostic {
	diag := []protocol.Diagnostic{}
	if err == nil {
		return diag
	}

	poserr, ok := poserrors.Situate(err)
	if !ok {
		return append(diag, protocol.Diagnostic{
			Severity: ptr(protocol.DiagnosticSeverityError),
			Source:   ptr(lsName),
			Message:  err.Error(),
		})
	}

	start := poserr.At()
	end := start
	if width, ok := poserrors.IndentationWidth(err); ok {
		end.Column += width
	}

	return append(diag, protocol.Diagnostic{
		Range: protocol.Range{
			Start: doc.position(start),
			End:   doc.position(end),
		},
		Severity: ptr(protocol.DiagnosticSeverityError),
		Source:   ptr(lsName),
		Message:  poserr.Unwrap().Error(),
	})
}

// semanticTokens encodes every tag name in content using the relative
// encoding of the LSP semantic tokens request. Tokens lexed before an error
// are returned along with it.
func semanticTokens(content, fileName string) ([]protocol.UInteger, error) {
	l := lexer.New([]byte(content), fileName, cfg.LexerOptions())
	doc := newLineIndex(content)

	tokens := make([]protocol.UInteger, 0)

	var prev protocol.Position
	for {
		tk, err := l.Next()
		if err != nil {
			return tokens, err
		}
		if tk.Type == lexer.TokenEOF {
			break
		}

		start := doc.position(tk.Start)

		startDelta := start.Character
		if start.Line == prev.Line {
			startDelta -= prev.Character
		}

		tokens = append(tokens,
			start.Line-prev.Line,
			startDelta,
			protocol.UInteger(utf16Len(tk.Contents)),
			0,
			0,
		)

		prev = start
	}

	return tokens, nil
}

// symbols mirrors the element tree as nested document symbols.
func symbols(doc lineIndex, nodes ast.Forest) []protocol.DocumentSymbol {
	ret := make([]protocol.DocumentSymbol, 0, len(nodes))

	for _, n := range nodes {
		start := n.Position()
		nameEnd := start
		nameEnd.Column += utf8.RuneCountInString(n.Name)

		sym := protocol.DocumentSymbol{
			Name: n.Name,
			Kind: protocol.SymbolKindObject,
			Range: protocol.Range{
				Start: doc.position(start),
				End:   doc.position(subtreeEnd(n)),
			},
			SelectionRange: protocol.Range{
				Start: doc.position(start),
				End:   doc.position(nameEnd),
			},
		}
		if len(n.Children) > 0 {
			sym.Children = symbols(doc, n.Children)
		}

		ret = append(ret, sym)
	}

	return ret
}

// subtreeEnd returns the location right after the last name in n's subtree.
func subtreeEnd(n *ast.Element) lexer.Location {
	end := n.Position()
	end.Column += utf8.RuneCountInString(n.Name)

	ast.Forest{n}.Walk(func(e *ast.Element, _ int) bool {
		p := e.Position()
		p.Column += utf8.RuneCountInString(e.Name)

		if p.Line > end.Line || (p.Line == end.Line && p.Column > end.Column) {
			end = p
		}
		return true
	})

	return end
}

func ptr[T any](v T) *T {
	return &v
}
