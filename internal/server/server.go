package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/HinanoAira/wildebeest/internal/store"
)

const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 30 * time.Second
	writeTimeout      = 60 * time.Second
	idleTimeout       = 60 * time.Second
)

// Server exposes the node-local HTTP surface over the object store:
// object documents at their canonical paths, alias lookups, peers, and
// local creation. The full client-facing API lives elsewhere.
type Server struct {
	addr   string
	store  *store.Store
	domain string
	logger *slog.Logger
}

// New creates a new server instance.
func New(addr string, st *store.Store, domain string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		addr:   addr,
		store:  st,
		domain: domain,
		logger: logger,
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	s.log().Info("starting server", "addr", s.addr, "domain", s.domain)
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	return server.ListenAndServe()
}

// ListenAddr converts a bind URL into a listen address.
func ListenAddr(bindURL string) (string, error) {
	if bindURL == "" {
		return "", fmt.Errorf("bind url is required")
	}
	u, err := url.Parse(bindURL)
	if err != nil {
		return "", fmt.Errorf("invalid bind url %q: %w", bindURL, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("bind url %q has no host", bindURL)
	}
	return u.Host, nil
}

func (s *Server) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}
