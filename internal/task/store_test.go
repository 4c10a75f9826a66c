package task

import (
	"errors"
	"testing"
	"time"

	"github.com/lemonpay/lemontask/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	kv, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { kv.Close() })
	return NewStore(kv)
}

func TestListEmpty(t *testing.T) {
	s := newTestStore(t)

	tasks, err := s.List("u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("expected empty list, got %d tasks", len(tasks))
	}
}

func TestAddAndList(t *testing.T) {
	s := newTestStore(t)

	due := time.Date(2025, 6, 1, 9, 0, 0, 0, time.Local)
	created, err := s.Add("u1", "Buy groceries", "milk, eggs", &due)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if created.ID == "" {
		t.Fatal("add returned task without id")
	}
	if created.Completed {
		t.Error("new task should start pending")
	}

	tasks, err := s.List("u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	got := tasks[0]
	if got.Title != "Buy groceries" || got.Description != "milk, eggs" {
		t.Errorf("task content mismatch: %+v", got)
	}
	if got.DueDate == nil || !got.DueDate.Equal(due) {
		t.Errorf("due date mismatch: %v", got.DueDate)
	}
}

func TestGet(t *testing.T) {
	s := newTestStore(t)

	created, err := s.Add("u1", "Task", "", nil)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	got, err := s.Get("u1", created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("got task %q, want %q", got.ID, created.ID)
	}

	if _, err := s.Get("u1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("get missing = %v, want ErrNotFound", err)
	}
}

func TestUpdate(t *testing.T) {
	s := newTestStore(t)

	created, err := s.Add("u1", "Old title", "", nil)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	created.Title = "New title"
	created.Description = "now with detail"
	if err := s.Update("u1", created); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := s.Get("u1", created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "New title" || got.Description != "now with detail" {
		t.Errorf("update not persisted: %+v", got)
	}

	missing := created
	missing.ID = "missing"
	if err := s.Update("u1", missing); !errors.Is(err, ErrNotFound) {
		t.Errorf("update missing = %v, want ErrNotFound", err)
	}
}

func TestToggle(t *testing.T) {
	s := newTestStore(t)

	created, err := s.Add("u1", "Task", "", nil)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	toggled, err := s.Toggle("u1", created.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !toggled.Completed {
		t.Error("first toggle should complete the task")
	}

	toggled, err = s.Toggle("u1", created.ID)
	if err != nil {
		t.Fatalf("toggle back: %v", err)
	}
	if toggled.Completed {
		t.Error("second toggle should reopen the task")
	}

	if _, err := s.Toggle("u1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("toggle missing = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)

	keep, _ := s.Add("u1", "Keep", "", nil)
	drop, _ := s.Add("u1", "Drop", "", nil)

	if err := s.Delete("u1", drop.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	tasks, err := s.List("u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != keep.ID {
		t.Errorf("unexpected tasks after delete: %+v", tasks)
	}

	if err := s.Delete("u1", drop.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete missing = %v, want ErrNotFound", err)
	}
}

func TestClearCompleted(t *testing.T) {
	s := newTestStore(t)

	pending, _ := s.Add("u1", "Pending", "", nil)
	doneA, _ := s.Add("u1", "Done A", "", nil)
	doneB, _ := s.Add("u1", "Done B", "", nil)
	if _, err := s.Toggle("u1", doneA.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, err := s.Toggle("u1", doneB.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	removed, err := s.ClearCompleted("u1")
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}

	tasks, err := s.List("u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != pending.ID {
		t.Errorf("unexpected tasks after clear: %+v", tasks)
	}

	// Nothing left to remove
	removed, err = s.ClearCompleted("u1")
	if err != nil {
		t.Fatalf("clear again: %v", err)
	}
	if removed != 0 {
		t.Errorf("removed = %d, want 0", removed)
	}
}

func TestPerUserIsolation(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Add("u1", "Mine", "", nil); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := s.Add("u2", "Theirs", "", nil); err != nil {
		t.Fatalf("add: %v", err)
	}

	mine, err := s.List("u1")
	if err != nil {
		t.Fatalf("list u1: %v", err)
	}
	theirs, err := s.List("u2")
	if err != nil {
		t.Fatalf("list u2: %v", err)
	}

	if len(mine) != 1 || mine[0].Title != "Mine" {
		t.Errorf("u1 list polluted: %+v", mine)
	}
	if len(theirs) != 1 || theirs[0].Title != "Theirs" {
		t.Errorf("u2 list polluted: %+v", theirs)
	}

	// Clearing one user's completed tasks leaves the other untouched
	if _, err := s.Toggle("u2", theirs[0].ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, err := s.ClearCompleted("u2"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	mine, _ = s.List("u1")
	if len(mine) != 1 {
		t.Errorf("u1 affected by u2 clear: %+v", mine)
	}
}
