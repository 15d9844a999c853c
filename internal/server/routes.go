package server

import (
	"net/http"
)

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Health check.
	mux.HandleFunc("GET /health", s.handleHealth)

	// Object documents at their canonical paths.
	mux.HandleFunc("GET /ap/o/{token}", s.handleGetObject)

	// Node-local surface.
	mux.HandleFunc("POST /v1/objects", s.handleCreateObject)
	mux.HandleFunc("GET /v1/objects/{mastodonID}", s.handleGetObjectByAlias)
	mux.HandleFunc("GET /v1/peers", s.handleListPeers)

	return s.withRequestLogging(mux)
}
