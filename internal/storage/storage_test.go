package storage

import (
	"path/filepath"
	"testing"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGetAbsentKey(t *testing.T) {
	s := setupTestStore(t)

	_, ok, err := s.Get("missing")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Error("expected ok=false for absent key")
	}
}

func TestSetAndGet(t *testing.T) {
	s := setupTestStore(t)

	if err := s.Set("user-database", `{"a":1}`); err != nil {
		t.Fatalf("set: %v", err)
	}

	v, ok, err := s.Get("user-database")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		t.Fatal("expected ok=true")
	}
	if v != `{"a":1}` {
		t.Errorf("value = %q, want %q", v, `{"a":1}`)
	}
}

func TestSetOverwrites(t *testing.T) {
	s := setupTestStore(t)

	if err := s.Set("k", "first"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set("k", "second"); err != nil {
		t.Fatalf("set again: %v", err)
	}

	v, ok, err := s.Get("k")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if v != "second" {
		t.Errorf("value = %q, want %q", v, "second")
	}
}

func TestRemove(t *testing.T) {
	s := setupTestStore(t)

	if err := s.Set("current-user", "{}"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Remove("current-user"); err != nil {
		t.Fatalf("remove: %v", err)
	}

	_, ok, err := s.Get("current-user")
	if err != nil {
		t.Fatalf("get after remove: %v", err)
	}
	if ok {
		t.Error("expected key to be gone after remove")
	}
}

func TestRemoveAbsentKey(t *testing.T) {
	s := setupTestStore(t)

	if err := s.Remove("never-set"); err != nil {
		t.Errorf("remove absent key: %v", err)
	}
}

func TestValuesSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Set("k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	v, ok, err := s2.Get("k")
	if err != nil || !ok {
		t.Fatalf("get after reopen: ok=%v err=%v", ok, err)
	}
	if v != "v" {
		t.Errorf("value = %q, want %q", v, "v")
	}
}
