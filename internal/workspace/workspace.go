package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pipe01/tagtree/internal/lexer"
	"github.com/pipe01/tagtree/internal/parser"
	"github.com/pipe01/tagtree/internal/parser/ast"
)

type Workspace struct {
	rootPath string
	opts     lexer.Options

	mu          sync.Mutex
	parsedFiles map[string]*ast.File
}

func New(rootPath string, opts lexer.Options) *Workspace {
	return &Workspace{
		rootPath:    rootPath,
		opts:        opts,
		parsedFiles: make(map[string]*ast.File),
	}
}

func (w *Workspace) fullPath(relPath string) string {
	if filepath.IsAbs(relPath) {
		return filepath.Clean(relPath)
	}
	return filepath.Join(w.rootPath, relPath)
}

// Load parses the file at relPath, returning the cached result if it has
// already been parsed.
func (w *Workspace) Load(relPath string) (*ast.File, error) {
	fullPath := w.fullPath(relPath)

	w.mu.Lock()
	f, ok := w.parsedFiles[fullPath]
	w.mu.Unlock()

	if ok {
		return f, nil
	}

	bytes, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return w.LoadWithContents(relPath, bytes)
}

// LoadWithContents parses contents as the file at relPath, replacing any
// cached result for it.
func (w *Workspace) LoadWithContents(relPath string, contents []byte) (*ast.File, error) {
	fullPath := w.fullPath(relPath)

	l := lexer.New(contents, relPath, w.opts)
	tks, err := l.Collect()
	if err != nil {
		w.Forget(relPath)
		return nil, fmt.Errorf("lex file: %w", err)
	}

	file := parser.ParseFile(relPath, tks)

	w.mu.Lock()
	w.parsedFiles[fullPath] = file
	w.mu.Unlock()

	return file, nil
}

// Forget drops the cached result for relPath.
func (w *Workspace) Forget(relPath string) {
	w.mu.Lock()
	delete(w.parsedFiles, w.fullPath(relPath))
	w.mu.Unlock()
}
