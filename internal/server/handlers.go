package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/HinanoAira/wildebeest/internal/models"
	"github.com/HinanoAira/wildebeest/internal/sanitize"
	"github.com/HinanoAira/wildebeest/internal/store"
)

const (
	activityJSONContentType = `application/activity+json; charset=utf-8`
	createMaxBody           = 1 << 20 // 1 MiB
)

type errorResponse struct {
	Error string `json:"error"`
}

type createObjectRequest struct {
	Type            string         `json:"type"`
	Properties      map[string]any `json:"properties"`
	OriginalActorID string         `json:"original_actor_id"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleGetObject serves the public ActivityStreams projection of an
// object at its canonical path. Internal fields never appear here.
func (s *Server) handleGetObject(w http.ResponseWriter, r *http.Request) {
	uri := store.ObjectURI(s.domain, r.PathValue("token"))

	obj, err := s.store.GetObjectByID(r.Context(), uri)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	if obj == nil {
		s.writeError(w, r, http.StatusNotFound, fmt.Errorf("object not found"))
		return
	}

	w.Header().Set("Content-Type", activityJSONContentType)
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(obj.ActivityStream()); err != nil {
		s.log().Error("write object document", "id", obj.ID, "error", err)
	}
}

// handleGetObjectByAlias returns the full internal record for a
// Mastodon alias id. This feeds the compatibility API layer.
func (s *Server) handleGetObjectByAlias(w http.ResponseWriter, r *http.Request) {
	obj, err := s.store.GetObjectByMastodonID(r.Context(), r.PathValue("mastodonID"))
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	if obj == nil {
		s.writeError(w, r, http.StatusNotFound, fmt.Errorf("object not found"))
		return
	}
	s.writeJSON(w, http.StatusOK, obj)
}

func (s *Server) handleCreateObject(w http.ResponseWriter, r *http.Request) {
	var req createObjectRequest
	body := http.MaxBytesReader(w, r.Body, createMaxBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.Type == "" {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("type is required"))
		return
	}
	if req.OriginalActorID == "" {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("original_actor_id is required"))
		return
	}

	obj, err := s.store.CreateObject(r.Context(), s.domain, req.Type, req.Properties, req.OriginalActorID)
	if err != nil {
		if errors.Is(err, sanitize.ErrInvalidInput) {
			s.writeError(w, r, http.StatusBadRequest, err)
			return
		}
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, obj)
}

func (s *Server) handleListPeers(w http.ResponseWriter, r *http.Request) {
	peers, err := s.store.ListPeers(r.Context())
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	if peers == nil {
		peers = []models.Peer{}
	}
	s.writeJSON(w, http.StatusOK, peers)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	if err == nil {
		err = errors.New(http.StatusText(status))
	}

	message := err.Error()
	fields := []any{"status", status, "error", err, "method", r.Method, "path", r.URL.Path, "remote_addr", r.RemoteAddr}
	switch {
	case status >= 500:
		s.log().Error("request error", fields...)
		message = "internal error"
	default:
		s.log().Debug("request rejected", fields...)
	}

	s.writeJSON(w, status, errorResponse{Error: message})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("write json response", "status", status, "error", err)
	}
}
