package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	poserrors "github.com/pipe01/tagtree/errors"
	"github.com/pipe01/tagtree/internal/generator"
	"github.com/pipe01/tagtree/internal/lexer"
	"github.com/pipe01/tagtree/internal/parser"
	"github.com/pipe01/tagtree/internal/parser/ast"
)

type tokenJSON struct {
	Name   string `json:"name"`
	Depth  int    `json:"depth"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

type elementJSON struct {
	Name     string        `json:"name"`
	Line     int           `json:"line"`
	Column   int           `json:"column"`
	Children []elementJSON `json:"children,omitempty"`
}

type indentationErrorJSON struct {
	Error  string `json:"error"`
	Width  int    `json:"width"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTransform(w http.ResponseWriter, r *http.Request) {
	tks, ok := s.tokenize(w, r)
	if !ok {
		return
	}

	opts := s.cfg.GeneratorOptions()
	if q := r.URL.Query(); q.Has("selfClosing") {
		opts.SelfClosing = generator.NewSet(splitList(q.Get("selfClosing"))...)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	if err := generator.VisitNodes(w, parser.Parse(tks), opts); err != nil {
		s.log.Warningf("write response: %s", err)
	}
}

func (s *Server) handleTokens(w http.ResponseWriter, r *http.Request) {
	tks, ok := s.tokenize(w, r)
	if !ok {
		return
	}

	ret := make([]tokenJSON, 0, len(tks))
	for _, tk := range tks {
		ret = append(ret, tokenJSON{
			Name:   tk.Contents,
			Depth:  tk.Depth,
			Line:   tk.Start.Line + 1,
			Column: tk.Start.Column + 1,
		})
	}

	writeJSON(w, http.StatusOK, ret)
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	tks, ok := s.tokenize(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, toJSON(parser.Parse(tks)))
}

// tokenize reads the request body and lexes it, writing an error response
// and returning false on failure.
func (s *Server) tokenize(w http.ResponseWriter, r *http.Request) ([]lexer.Token, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			jsonError(w, "request body too large", http.StatusRequestEntityTooLarge)
			return nil, false
		}

		jsonError(w, "failed to read body", http.StatusBadRequest)
		return nil, false
	}

	opts := s.cfg.LexerOptions()
	if v := r.URL.Query().Get("indent"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			jsonError(w, "indent must be a positive integer", http.StatusBadRequest)
			return nil, false
		}
		opts.IndentWidth = n
	}

	tks, err := lexer.New(body, "", opts).Collect()
	if err != nil {
		width, _ := poserrors.IndentationWidth(err)

		resp := indentationErrorJSON{
			Error: err.Error(),
			Width: width,
		}
		if poserr, ok := poserrors.Situate(err); ok {
			resp.Error = poserr.Unwrap().Error()
			resp.Line = poserr.At().Line + 1
			resp.Column = poserr.At().Column + 1
		}

		s.log.Debugf("rejected outline: %s", err)
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return nil, false
	}

	return tks, true
}

func toJSON(nodes ast.Forest) []elementJSON {
	ret := make([]elementJSON, 0, len(nodes))

	for _, n := range nodes {
		pos := n.Position()

		e := elementJSON{
			Name:   n.Name,
			Line:   pos.Line + 1,
			Column: pos.Column + 1,
		}
		if len(n.Children) > 0 {
			e.Children = toJSON(n.Children)
		}

		ret = append(ret, e)
	}

	return ret
}

func splitList(v string) []string {
	var ret []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			ret = append(ret, s)
		}
	}
	return ret
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
