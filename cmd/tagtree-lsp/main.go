package main

import (
	"fmt"
	"net/url"
	"path/filepath"
	"sync"

	"github.com/pipe01/tagtree/internal/config"
	"github.com/pipe01/tagtree/internal/workspace"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "tagtree"

var version string = "0.0.1"
var handler protocol.Handler

var (
	cfg = config.Load()
	log commonlog.Logger

	documentsMu sync.Mutex
	documents   = map[string]string{}
)

func main() {
	commonlog.Configure(cfg.LogVerbosity, nil)
	log = commonlog.GetLogger("tagtree.lsp")

	if err := cfg.Validate(); err != nil {
		log.Errorf("invalid configuration: %s", err)
		return
	}

	protocol.SetTraceValue(protocol.TraceValueMessage)

	handler = protocol.Handler{
		Initialize:  initialize,
		Initialized: initialized,
		Shutdown:    shutdown,
		SetTrace:    setTrace,
		TextDocumentDidOpen: func(context *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
			setDocument(params.TextDocument.URI, params.TextDocument.Text)

			return handleDocument(context, params.TextDocument.URI)
		},
		TextDocumentDidChange: func(context *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
			content, ok := getDocument(params.TextDocument.URI)
			if !ok {
				return nil
			}

			for _, change := range params.ContentChanges {
				switch change := change.(type) {
				case protocol.TextDocumentContentChangeEventWhole:
					content = change.Text

				case protocol.TextDocumentContentChangeEvent:
					startIndex, endIndex := change.Range.IndexesIn(content)
					content = content[:startIndex] + change.Text + content[endIndex:]
				}
			}
			setDocument(params.TextDocument.URI, content)

			return handleDocument(context, params.TextDocument.URI)
		},
		TextDocumentDidClose: func(context *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
			documentsMu.Lock()
			delete(documents, params.TextDocument.URI)
			documentsMu.Unlock()

			return nil
		},
		TextDocumentSemanticTokensFull: semanticTokensFull,
		TextDocumentDocumentSymbol:     documentSymbol,
	}

	server := server.NewServer(&handler, lsName, false)

	server.RunStdio()
}

func getDocument(uri string) (string, bool) {
	documentsMu.Lock()
	defer documentsMu.Unlock()

	content, ok := documents[uri]
	return content, ok
}

func setDocument(uri, content string) {
	documentsMu.Lock()
	defer documentsMu.Unlock()

	documents[uri] = content
}

func documentPath(docURI string) (string, error) {
	url, err := url.Parse(docURI)
	if err != nil {
		return "", fmt.Errorf("parse document uri: %w", err)
	}
	if url.Scheme != "file" {
		return "", fmt.Errorf("invalid document uri scheme %q", url.Scheme)
	}

	return url.Path, nil
}

func handleDocument(context *glsp.Context, docURI string) error {
	filePath, err := documentPath(docURI)
	if err != nil {
		return err
	}

	contents, ok := getDocument(docURI)
	if !ok {
		return nil
	}

	ws := workspace.New(filepath.Dir(filePath), cfg.LexerOptions())

	_, err = ws.LoadWithContents(filepath.Base(filePath), []byte(contents))
	if err != nil {
		log.Debugf("diagnostics for %s: %s", docURI, err)
	}

	context.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         docURI,
		Diagnostics: diagnostics(newLineIndex(contents), err),
	})

	return nil
}

func initialize(context *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := handler.CreateServerCapabilities()
	capabilities.SemanticTokensProvider = &protocol.SemanticTokensOptions{
		Legend: protocol.SemanticTokensLegend{
			TokenTypes:     semanticTokenTypes,
			TokenModifiers: []string{},
		},
		Range: false,
		Full:  true,
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &version,
		},
	}, nil
}

func initialized(context *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func shutdown(context *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func setTrace(context *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func semanticTokensFull(context *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	content, ok := getDocument(params.TextDocument.URI)
	if !ok {
		return nil, fmt.Errorf("document %q not found", params.TextDocument.URI)
	}

	data, err := semanticTokens(content, filepath.Base(params.TextDocument.URI))
	if err != nil {
		// Tokens before the malformed line are still useful
		log.Debugf("semantic tokens for %s: %s", params.TextDocument.URI, err)
	}

	return &protocol.SemanticTokens{
		Data: data,
	}, nil
}

func documentSymbol(context *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	content, ok := getDocument(params.TextDocument.URI)
	if !ok {
		return nil, fmt.Errorf("document %q not found", params.TextDocument.URI)
	}

	ws := workspace.New("", cfg.LexerOptions())

	f, err := ws.LoadWithContents(filepath.Base(params.TextDocument.URI), []byte(content))
	if err != nil {
		return []protocol.DocumentSymbol{}, nil
	}

	return symbols(newLineIndex(content), f.Nodes), nil
}
