package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// DefaultIndentWidth is the number of whitespace columns that make up one
// nesting level.
const DefaultIndentWidth = 4

type LexerError struct {
	Inner    error
	Location Location
}

func (e *LexerError) Unwrap() error {
	return e.Inner
}

func (e *LexerError) Error() string {
	return fmt.Sprintf("%s at %s", e.Inner, &e.Location)
}

func (e *LexerError) At() Location {
	return e.Location
}

// MalformedIndentationError is returned when a run of whitespace isn't an
// exact multiple of the indent width.
type MalformedIndentationError struct {
	Width int
	Unit  int
}

func (e *MalformedIndentationError) Error() string {
	return fmt.Sprintf("invalid indentation: width %d is not a multiple of %d", e.Width, e.Unit)
}

type Options struct {
	// Columns per nesting level, DefaultIndentWidth if zero.
	IndentWidth int
}

func (o Options) indentWidth() int {
	if o.IndentWidth <= 0 {
		return DefaultIndentWidth
	}
	return o.IndentWidth
}

type stateFunc func() stateFunc

type state struct {
	str      []rune
	strStart Location

	byteIndex int
	line, col int
	depth     int
}

type Lexer struct {
	filename string
	file     []byte

	indentWidth int

	state
	next    stateFunc
	pending []Token

	err *LexerError
}

func New(file []byte, fileName string, opts Options) *Lexer {
	lexer := &Lexer{
		file:        file,
		filename:    fileName,
		indentWidth: opts.indentWidth(),
	}
	lexer.next = lexer.lexAny
	lexer.discard()

	return lexer
}

// Tokenize lexes a whole source string using the default indent width.
func Tokenize(src string) ([]Token, error) {
	return New([]byte(src), "", Options{}).Collect()
}

// Next returns the next tag token, or a TokenEOF token once the input is
// exhausted.
func (l *Lexer) Next() (*Token, error) {
	for len(l.pending) == 0 {
		if l.err != nil {
			return nil, l.err
		}
		if l.next == nil {
			return &Token{
				Type:  TokenEOF,
				Start: l.location(),
			}, nil
		}

		l.next = l.next()
	}

	tk := l.pending[0]
	l.pending = l.pending[1:]

	return &tk, nil
}

// Collect returns every tag token in the input. The trailing EOF token is
// not included.
func (l *Lexer) Collect() ([]Token, error) {
	tks := []Token{}

	for {
		tk, err := l.Next()
		if err != nil {
			return nil, err
		}
		if tk.Type == TokenEOF {
			break
		}

		tks = append(tks, *tk)
	}

	return tks, nil
}

func (l *Lexer) location() Location {
	return Location{
		File:   l.filename,
		Line:   l.line,
		Column: l.col,
	}
}

// readRune decodes the rune at byte index i, reading "\r\n" as a single '\n'.
func (l *Lexer) readRune(i int) (r rune, size int) {
	if l.file[i] == '\r' && i+1 < len(l.file) && l.file[i+1] == '\n' {
		return '\n', 2
	}

	return utf8.DecodeRune(l.file[i:])
}

func (l *Lexer) take() (r rune, eof bool) {
	if l.byteIndex >= len(l.file) {
		return 0, true
	}

	r, size := l.readRune(l.byteIndex)

	l.str = append(l.str, r)

	l.col++
	l.byteIndex += size

	if r == '\n' {
		l.line++
		l.col = 0
	}

	return r, false
}

func (l *Lexer) peek() (r rune, eof bool) {
	if l.byteIndex >= len(l.file) {
		return 0, true
	}

	r, _ = l.readRune(l.byteIndex)
	return r, false
}

func (l *Lexer) emit(typ TokenType) {
	l.pending = append(l.pending, Token{
		Type:     typ,
		Start:    l.strStart,
		Contents: string(l.str),
		Depth:    l.depth,
	})

	l.discard()
}

func (l *Lexer) discard() {
	l.strStart = l.location()
	l.str = l.str[:0]
}

func (l *Lexer) lexError(err error) stateFunc {
	l.err = &LexerError{
		Inner:    err,
		Location: l.strStart,
	}
	return nil
}

// takeIndentation consumes a run of horizontal whitespace and returns its
// width in runes.
func (l *Lexer) takeIndentation() (width int) {
	for {
		r, eof := l.peek()
		if eof || !isIndentation(r) {
			return width
		}

		l.take()
		width++
	}
}

func (l *Lexer) lexAny() stateFunc {
	r, eof := l.peek()
	if eof {
		return nil
	}

	switch {
	case isIndentation(r):
		return l.lexIndentation

	case isASCIILetter(r):
		return l.lexTag
	}

	l.take()
	l.discard()

	return l.lexAny
}

func (l *Lexer) lexIndentation() stateFunc {
	width := l.takeIndentation()

	if width%l.indentWidth != 0 {
		return l.lexError(&MalformedIndentationError{
			Width: width,
			Unit:  l.indentWidth,
		})
	}

	l.depth = width / l.indentWidth
	l.discard()

	return l.lexAny
}

func (l *Lexer) lexTag() stateFunc {
	for {
		r, eof := l.peek()
		if eof || r == '\n' {
			break
		}

		l.take()
	}

	l.emit(TokenTag)
	l.depth = 0

	return l.lexAny
}

func isASCIILetter(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
}

func isIndentation(r rune) bool {
	return r != '\n' && unicode.IsSpace(r)
}
