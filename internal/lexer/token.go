package lexer

import "fmt"

type TokenType int

const (
	TokenTag TokenType = iota

	TokenEOF
)

func (t TokenType) String() string {
	switch t {
	case TokenTag:
		return "Tag"
	case TokenEOF:
		return "EOF"
	}

	return "<unknown>"
}

type Token struct {
	Type     TokenType
	Start    Location
	Depth    int
	Contents string
}

type Location struct {
	File string

	// 0-based
	Line, Column int
}

func (l *Location) String() string {
	if l.File == "" {
		return fmt.Sprintf("%d:%d", l.Line+1, l.Column+1)
	}

	return fmt.Sprintf("%s:%d:%d", l.File, l.Line+1, l.Column+1)
}
