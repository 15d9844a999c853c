package cache

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/HinanoAira/wildebeest/internal/sanitize"
	"github.com/HinanoAira/wildebeest/internal/store"
)

const testDomain = "social.example"

type recordingRegistry struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (r *recordingRegistry) RegisterPeer(ctx context.Context, domain string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.calls = append(r.calls, domain)
	return nil
}

func (r *recordingRegistry) registered() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func testCoordinator(t *testing.T) (*Coordinator, *recordingRegistry) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	registry := &recordingRegistry{}
	return New(st, registry, testDomain, nil), registry
}

func remoteNote(content string) map[string]any {
	return map[string]any{"type": "Note", "content": content}
}

func TestCacheObjectIdempotent(t *testing.T) {
	coord, registry := testCoordinator(t)
	ctx := context.Background()
	origin := "https://remote.example/notes/1"
	actor := "https://remote.example/users/bob"

	obj, created, err := coord.CacheObject(ctx, remoteNote("hi"), actor, origin)
	if err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	if !created {
		t.Fatal("expected created=true on first delivery")
	}

	for i := 0; i < 3; i++ {
		again, created, err := coord.CacheObject(ctx, remoteNote("hi"), actor, origin)
		if err != nil {
			t.Fatalf("repeated delivery: %v", err)
		}
		if created {
			t.Fatal("expected created=false on repeated delivery")
		}
		if again.ID != obj.ID {
			t.Fatalf("expected canonical id %s, got %s", obj.ID, again.ID)
		}
	}

	if calls := registry.registered(); len(calls) != 1 || calls[0] != "remote.example" {
		t.Fatalf("expected exactly one registration of remote.example, got %v", calls)
	}
}

func TestCacheObjectSanitizesPayload(t *testing.T) {
	coord, _ := testCoordinator(t)

	props := map[string]any{
		"type":    "Note",
		"content": `<div class="foo h-entry">x</div>`,
		"name":    "<p>Hello</p><p>World</p>",
	}
	obj, _, err := coord.CacheObject(context.Background(), props, "https://remote.example/users/bob", "https://remote.example/notes/2")
	if err != nil {
		t.Fatalf("cache: %v", err)
	}
	if obj.Properties["content"] != `<p class="h-entry">x</p>` {
		t.Fatalf("content not sanitized: %v", obj.Properties["content"])
	}
	if obj.Properties["name"] != "Hello World" {
		t.Fatalf("name not sanitized: %v", obj.Properties["name"])
	}
}

func TestCacheObjectRejectsInvalidPayload(t *testing.T) {
	coord, _ := testCoordinator(t)
	_, _, err := coord.CacheObject(context.Background(), nil, "https://remote.example/users/bob", "https://remote.example/notes/3")
	if !errors.Is(err, sanitize.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCacheObjectRequiresTypeTag(t *testing.T) {
	coord, _ := testCoordinator(t)
	_, _, err := coord.CacheObject(context.Background(), map[string]any{"content": "x"}, "https://remote.example/users/bob", "https://remote.example/notes/4")
	if err == nil {
		t.Fatal("expected error for payload without type")
	}
}

func TestCacheObjectRegistryFailureDoesNotFail(t *testing.T) {
	coord, registry := testCoordinator(t)
	registry.err = errors.New("registry down")

	obj, created, err := coord.CacheObject(context.Background(), remoteNote("x"), "https://remote.example/users/bob", "https://remote.example/notes/5")
	if err != nil {
		t.Fatalf("cache must not fail on registry error: %v", err)
	}
	if !created || obj == nil {
		t.Fatal("expected object to be created despite registry failure")
	}
}

func TestCacheObjectConcurrentDeliveries(t *testing.T) {
	coord, registry := testCoordinator(t)
	origin := "https://remote.example/notes/race"
	actor := "https://remote.example/users/bob"

	const n = 8
	type result struct {
		id      string
		created bool
		err     error
	}

	results := make(chan result, n)
	var start sync.WaitGroup
	start.Add(1)

	for i := 0; i < n; i++ {
		go func() {
			start.Wait()
			obj, created, err := coord.CacheObject(context.Background(), remoteNote("race"), actor, origin)
			if err != nil {
				results <- result{err: err}
				return
			}
			results <- result{id: obj.ID, created: created}
		}()
	}
	start.Done()

	createdCount := 0
	ids := make(map[string]struct{})
	for i := 0; i < n; i++ {
		res := <-results
		if res.err != nil {
			t.Fatalf("concurrent delivery failed: %v", res.err)
		}
		if res.created {
			createdCount++
		}
		ids[res.id] = struct{}{}
	}

	if createdCount != 1 {
		t.Fatalf("expected exactly one creator, got %d", createdCount)
	}
	if len(ids) != 1 {
		t.Fatalf("expected all callers to converge on one id, got %d", len(ids))
	}
	if calls := registry.registered(); len(calls) != 1 {
		t.Fatalf("expected one peer registration, got %v", calls)
	}
}
