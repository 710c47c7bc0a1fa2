package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pipe01/tagtree/internal/lexer"
)

func writeFile(t *testing.T, dir, name, contents string) {
	t.Helper()

	if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "index.tt", "div\n    span\n")

	ws := New(dir, lexer.Options{})

	f, err := ws.Load("index.tt")
	if err != nil {
		t.Fatalf("failed to load file: %s", err)
	}

	if f.Name != "index" {
		t.Errorf("expected file name %q, got %q", "index", f.Name)
	}
	if len(f.Nodes) != 1 || len(f.Nodes[0].Children) != 1 {
		t.Fatalf("unexpected tree shape")
	}
	if got := f.Nodes[0].Children[0].Position().File; got != "index.tt" {
		t.Errorf("expected positions to reference %q, got %q", "index.tt", got)
	}

	// Cached results are returned even after the file changes on disk.
	writeFile(t, dir, "index.tt", "p\n")

	again, err := ws.Load("index.tt")
	if err != nil {
		t.Fatal(err)
	}
	if again != f {
		t.Error("expected cached file to be returned")
	}

	ws.Forget("index.tt")

	fresh, err := ws.Load("index.tt")
	if err != nil {
		t.Fatal(err)
	}
	if fresh.Nodes[0].Name != "p" {
		t.Errorf("expected reloaded file, got root %q", fresh.Nodes[0].Name)
	}
}

func TestLoadMissingFile(t *testing.T) {
	ws := New(t.TempDir(), lexer.Options{})

	_, err := ws.Load("missing.tt")
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not exist error, got %v", err)
	}
}

func TestLoadWithContentsMalformed(t *testing.T) {
	ws := New(t.TempDir(), lexer.Options{})

	if _, err := ws.LoadWithContents("a.tt", []byte("div\n")); err != nil {
		t.Fatal(err)
	}

	_, err := ws.LoadWithContents("a.tt", []byte("div\n  span\n"))

	var lexErr *lexer.LexerError
	if !errors.As(err, &lexErr) {
		t.Fatalf("expected lexer error, got %v", err)
	}
	if lexErr.At().File != "a.tt" || lexErr.At().Line != 1 {
		t.Errorf("unexpected error location %s", lexErr.Location.String())
	}

	// A failed parse must not leave the previous version cached.
	if _, err := ws.Load("a.tt"); err == nil {
		t.Error("expected load to hit the disk and fail")
	}
}

func TestIndentWidthOption(t *testing.T) {
	ws := New(t.TempDir(), lexer.Options{IndentWidth: 2})

	f, err := ws.LoadWithContents("b.tt", []byte("ul\n  li\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Nodes[0].Children) != 1 {
		t.Error("expected li to nest under ul")
	}
}
