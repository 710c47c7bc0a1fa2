package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pipe01/tagtree/internal/config"
	"github.com/tliron/commonlog"
)

// Server exposes the outline pipeline over HTTP.
type Server struct {
	router chi.Router
	log    commonlog.Logger
	cfg    config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(log commonlog.Logger, cfg config.Config) *Server {
	s := &Server{
		log: log,
		cfg: cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)

	r.Post("/transform", s.handleTransform)
	r.Post("/tokens", s.handleTokens)
	r.Post("/tree", s.handleTree)

	s.router = r
}
