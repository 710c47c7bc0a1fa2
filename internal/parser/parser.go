package parser

import (
	"path/filepath"
	"strings"

	"github.com/pipe01/tagtree/internal/lexer"
	. "github.com/pipe01/tagtree/internal/parser/ast"
)

// frame is a pending range of tokens whose elements get appended to nodes.
type frame struct {
	nodes    *Forest
	pos, end int
}

// Parse builds the element forest for a token sequence.
//
// Each token owns the run of tokens following it whose depth differs from its
// own, up to the next token at the same depth. This means tokens that dedent
// below their parent without reaching its depth are still nested under it
// instead of being rejected.
func Parse(tokens []lexer.Token) Forest {
	var forest Forest

	siblings := nextSiblings(tokens)
	stack := []frame{{nodes: &forest, pos: 0, end: len(tokens)}}

	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		if f.pos >= f.end {
			stack = stack[:len(stack)-1]
			continue
		}

		tk := tokens[f.pos]
		childStart := f.pos + 1
		childEnd := min(siblings[f.pos], f.end)

		el := &Element{
			Pos:  Pos(tk.Start),
			Name: tk.Contents,
		}
		*f.nodes = append(*f.nodes, el)

		f.pos = childEnd

		if childStart < childEnd {
			stack = append(stack, frame{nodes: &el.Children, pos: childStart, end: childEnd})
		}
	}

	return forest
}

// nextSiblings returns, for every token, the index of the next token at the
// same depth, or len(tokens) if there is none.
func nextSiblings(tokens []lexer.Token) []int {
	next := make([]int, len(tokens))
	last := make(map[int]int)

	for i := len(tokens) - 1; i >= 0; i-- {
		depth := tokens[i].Depth

		if j, ok := last[depth]; ok {
			next[i] = j
		} else {
			next[i] = len(tokens)
		}
		last[depth] = i
	}

	return next
}

// ParseFile parses tokens into a File named after the source file name,
// without its extension.
func ParseFile(fileName string, tokens []lexer.Token) *File {
	fname := filepath.Base(fileName)

	return &File{
		Name:  strings.TrimSuffix(fname, filepath.Ext(fname)),
		Nodes: Parse(tokens),
	}
}
