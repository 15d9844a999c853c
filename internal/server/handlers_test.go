package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/HinanoAira/wildebeest/internal/models"
	"github.com/HinanoAira/wildebeest/internal/store"
)

const testDomain = "social.example"

func testServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return New("127.0.0.1:0", st, testDomain, nil), st
}

func TestHealth(t *testing.T) {
	srv, _ := testServer(t)
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestCreateAndServeObjectDocument(t *testing.T) {
	srv, _ := testServer(t)
	handler := srv.routes()

	body := `{"type":"Note","properties":{"content":"hello"},"original_actor_id":"https://social.example/ap/users/alice"}`
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/objects", strings.NewReader(body)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var obj models.Object
	if err := json.Unmarshal(rec.Body.Bytes(), &obj); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if obj.MastodonID == "" {
		t.Fatal("expected mastodon id in create response")
	}

	// The document must be served at its canonical path as the public
	// projection, without internal fields.
	token := strings.TrimPrefix(obj.ID, "https://"+testDomain+"/ap/o/")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ap/o/"+token, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/activity+json") {
		t.Fatalf("expected activity+json content type, got %q", ct)
	}

	var doc map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode document: %v", err)
	}
	if doc["id"] != obj.ID || doc["content"] != "hello" {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if _, ok := doc["mastodon_id"]; ok {
		t.Fatal("mastodon id leaked into public document")
	}

	// Alias lookup returns the internal record.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/objects/"+obj.MastodonID, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from alias lookup, got %d", rec.Code)
	}
	var aliased models.Object
	if err := json.Unmarshal(rec.Body.Bytes(), &aliased); err != nil {
		t.Fatalf("decode alias response: %v", err)
	}
	if aliased.ID != obj.ID {
		t.Fatalf("alias lookup returned %s, want %s", aliased.ID, obj.ID)
	}
}

func TestGetObjectNotFound(t *testing.T) {
	srv, _ := testServer(t)
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ap/o/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCreateObjectValidation(t *testing.T) {
	srv, _ := testServer(t)
	handler := srv.routes()

	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{`},
		{"missing type", `{"properties":{},"original_actor_id":"https://a.example/u/x"}`},
		{"missing actor", `{"type":"Note","properties":{}}`},
		{"nil properties", `{"type":"Note","original_actor_id":"https://a.example/u/x"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/objects", strings.NewReader(tc.body)))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestListPeers(t *testing.T) {
	srv, st := testServer(t)
	handler := srv.routes()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/peers", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty list, got %s", rec.Body.String())
	}

	if err := st.RegisterPeer(t.Context(), "remote.example"); err != nil {
		t.Fatalf("register peer: %v", err)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/peers", nil))

	var peers []models.Peer
	if err := json.Unmarshal(rec.Body.Bytes(), &peers); err != nil {
		t.Fatalf("decode peers: %v", err)
	}
	if len(peers) != 1 || peers[0].Domain != "remote.example" {
		t.Fatalf("unexpected peers: %+v", peers)
	}
}

func TestListenAddr(t *testing.T) {
	addr, err := ListenAddr("http://127.0.0.1:8787")
	if err != nil {
		t.Fatalf("listen addr: %v", err)
	}
	if addr != "127.0.0.1:8787" {
		t.Fatalf("unexpected addr %q", addr)
	}

	if _, err := ListenAddr(""); err == nil {
		t.Fatal("expected error for empty bind url")
	}
	if _, err := ListenAddr("not a url"); err == nil {
		t.Fatal("expected error for url without host")
	}
}
