package lexer

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func tag(depth int, name string) Token {
	return Token{Type: TokenTag, Depth: depth, Contents: name}
}

var ignoreStart = cmpopts.IgnoreFields(Token{}, "Start")

func TestLexer(t *testing.T) {
	tt := []struct {
		name   string
		input  string
		output []Token
	}{
		{
			name:   "empty",
			input:  "",
			output: []Token{},
		},
		{
			name:   "only blank lines",
			input:  "\n\n\n",
			output: []Token{},
		},
		{
			name:   "single tag",
			input:  "div",
			output: []Token{tag(0, "div")},
		},
		{
			name:  "nested siblings",
			input: "\ndiv\n    span\n    span\ndiv\n",
			output: []Token{
				tag(0, "div"),
				tag(1, "span"),
				tag(1, "span"),
				tag(0, "div"),
			},
		},
		{
			name:  "deep nesting",
			input: "a\n    b\n        c\n            d\n",
			output: []Token{
				tag(0, "a"),
				tag(1, "b"),
				tag(2, "c"),
				tag(3, "d"),
			},
		},
		{
			name:  "unindented tag resets depth",
			input: "a\n        b\nc\n    d",
			output: []Token{
				tag(0, "a"),
				tag(2, "b"),
				tag(0, "c"),
				tag(1, "d"),
			},
		},
		{
			name:   "name takes rest of line",
			input:  "h1 big title 2!\n",
			output: []Token{tag(0, "h1 big title 2!")},
		},
		{
			name:   "leading non letters are skipped",
			input:  "123-div\n",
			output: []Token{tag(0, "div")},
		},
		{
			name:   "tabs count as one column each",
			input:  "\t\t\t\tspan",
			output: []Token{tag(1, "span")},
		},
		{
			name:  "crlf line endings",
			input: "div\r\n    span\r\n\r\n",
			output: []Token{
				tag(0, "div"),
				tag(1, "span"),
			},
		},
		{
			name:   "whitespace only line before tag",
			input:  "    \ndiv",
			output: []Token{tag(1, "div")},
		},
		{
			name:  "whitespace only line between tags",
			input: "div\n    \nspan\n",
			output: []Token{
				tag(0, "div"),
				tag(1, "span"),
			},
		},
		{
			name:  "depth is kept until the next tag",
			input: "ul\n        \n\n    \nli\np",
			output: []Token{
				tag(0, "ul"),
				tag(1, "li"),
				tag(0, "p"),
			},
		},
		{
			name:   "trailing indentation is not a token",
			input:  "div\n        ",
			output: []Token{tag(0, "div")},
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Tokenize(tc.input)
			if err != nil {
				t.Fatalf("failed to tokenize: %s", err)
			}

			if diff := cmp.Diff(tc.output, got, ignoreStart); diff != "" {
				t.Errorf("tokens mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLexerLocations(t *testing.T) {
	l := New([]byte("div\n    span\n\nimg"), "page.tt", Options{})

	got, err := l.Collect()
	if err != nil {
		t.Fatalf("failed to tokenize: %s", err)
	}

	want := []Location{
		{File: "page.tt", Line: 0, Column: 0},
		{File: "page.tt", Line: 1, Column: 4},
		{File: "page.tt", Line: 3, Column: 0},
	}

	if len(got) != len(want) {
		t.Fatalf("expected %d tokens, got %d", len(want), len(got))
	}

	for i, tk := range got {
		if diff := cmp.Diff(want[i], tk.Start); diff != "" {
			t.Errorf("token %d location mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestLexerMalformedIndentation(t *testing.T) {
	tt := []struct {
		name   string
		input  string
		width  int
		line   int
		column int
	}{
		{name: "three spaces", input: "div\n   span", width: 3, line: 1},
		{name: "five spaces", input: "div\n     span", width: 5, line: 1},
		{name: "blank line", input: "div\n  \nspan", width: 2, line: 1},
		{name: "trailing run", input: "div\n    span\n      ", width: 6, line: 2},
		{name: "first line", input: " div", width: 1},
		{name: "after skipped text", input: "    1 div", width: 1, column: 5},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			tks, err := Tokenize(tc.input)
			if err == nil {
				t.Fatalf("expected error, got tokens %v", tks)
			}

			var indentErr *MalformedIndentationError
			if !errors.As(err, &indentErr) {
				t.Fatalf("expected MalformedIndentationError, got %T: %s", err, err)
			}

			if indentErr.Width != tc.width {
				t.Errorf("width does not match: want %d, got %d", tc.width, indentErr.Width)
			}
			if indentErr.Unit != DefaultIndentWidth {
				t.Errorf("unit does not match: want %d, got %d", DefaultIndentWidth, indentErr.Unit)
			}

			var lexErr *LexerError
			if !errors.As(err, &lexErr) {
				t.Fatalf("expected LexerError, got %T", err)
			}

			at := lexErr.At()
			if at.Line != tc.line || at.Column != tc.column {
				t.Errorf("location does not match: want %d:%d, got %d:%d", tc.line, tc.column, at.Line, at.Column)
			}
		})
	}
}

func TestLexerIndentWidth(t *testing.T) {
	l := New([]byte("ul\n  li\n    a"), "", Options{IndentWidth: 2})

	got, err := l.Collect()
	if err != nil {
		t.Fatalf("failed to tokenize: %s", err)
	}

	want := []Token{tag(0, "ul"), tag(1, "li"), tag(2, "a")}
	if diff := cmp.Diff(want, got, ignoreStart); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}

	_, err = New([]byte("ul\n  li"), "", Options{}).Collect()
	if err == nil {
		t.Fatal("expected default width to reject a 2 column indent")
	}
}

func TestLexerNext(t *testing.T) {
	l := New([]byte("a\n    b"), "", Options{})

	for _, want := range []string{"a", "b"} {
		tk, err := l.Next()
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if tk.Type != TokenTag || tk.Contents != want {
			t.Fatalf("expected tag %q, got %s %q", want, tk.Type, tk.Contents)
		}
	}

	for i := 0; i < 2; i++ {
		tk, err := l.Next()
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if tk.Type != TokenEOF {
			t.Fatalf("expected EOF, got %s", tk.Type)
		}
	}
}

func TestTokenCountMatchesTagLines(t *testing.T) {
	src := "html\n    head\n\n    body\n        div\n            img\n\n        p\n"

	tks, err := Tokenize(src)
	if err != nil {
		t.Fatalf("failed to tokenize: %s", err)
	}

	lines := 0
	for _, line := range strings.Split(src, "\n") {
		if strings.TrimSpace(line) != "" {
			lines++
		}
	}

	if len(tks) != lines {
		t.Errorf("expected %d tokens, got %d", lines, len(tks))
	}
}

func TestLocationString(t *testing.T) {
	l := Location{File: "a.tt", Line: 2, Column: 4}
	if got := l.String(); got != "a.tt:3:5" {
		t.Errorf("unexpected location string %q", got)
	}

	l.File = ""
	if got := l.String(); got != "3:5" {
		t.Errorf("unexpected location string %q", got)
	}
}
