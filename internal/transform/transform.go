// Package transform composes the lexer, parser and generator into a single
// outline to markup conversion.
package transform

import (
	"github.com/pipe01/tagtree/internal/generator"
	"github.com/pipe01/tagtree/internal/lexer"
	"github.com/pipe01/tagtree/internal/parser"
	"github.com/pipe01/tagtree/internal/parser/ast"
)

// Tokenize lexes an outline with the default indent width.
func Tokenize(src string) ([]lexer.Token, error) {
	return lexer.Tokenize(src)
}

func BuildAST(tokens []lexer.Token) ast.Forest {
	return parser.Parse(tokens)
}

// TransformFromAST renders a forest with the default self-closing names.
func TransformFromAST(nodes ast.Forest) string {
	return generator.Render(nodes, generator.Options{})
}

// Transform converts an outline into markup. The only possible error is a
// *lexer.LexerError wrapping a *lexer.MalformedIndentationError.
func Transform(src string) (string, error) {
	return Transformer{}.Transform(src)
}

// Transformer runs the pipeline with non-default options.
type Transformer struct {
	Lexer     lexer.Options
	Generator generator.Options
}

func (t Transformer) Transform(src string) (string, error) {
	tks, err := lexer.New([]byte(src), "", t.Lexer).Collect()
	if err != nil {
		return "", err
	}

	return generator.Render(parser.Parse(tks), t.Generator), nil
}
