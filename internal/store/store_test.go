package store

import (
	"path/filepath"
	"testing"
)

// testStore creates a temporary store for testing.
func testStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	st, err := Open(path)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatal("expected error for empty db path")
	}
}

func TestCloseNilStore(t *testing.T) {
	var st *Store
	if err := st.Close(); err != nil {
		t.Fatalf("closing nil store: %v", err)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	st, err := Open(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Reopening an existing database must not re-apply migrations.
	st, err = Open(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer st.Close()

	plan, err := st.MigrationPlan()
	if err != nil {
		t.Fatalf("migration plan: %v", err)
	}
	if len(plan.Pending) != 0 {
		t.Fatalf("expected no pending migrations, got %d", len(plan.Pending))
	}
	if plan.CurrentVersion != plan.AvailableVersion {
		t.Fatalf("expected current == available, got %d vs %d", plan.CurrentVersion, plan.AvailableVersion)
	}
}
