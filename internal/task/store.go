package task

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lemonpay/lemontask/internal/model"
	"github.com/lemonpay/lemontask/internal/storage"
)

// ErrNotFound is returned when a task id does not exist in the user's list.
var ErrNotFound = errors.New("task not found")

// Store persists each user's task list under a user-scoped key. Writes
// replace the whole list; on a single device the last writer wins.
type Store struct {
	kv storage.Store
}

// NewStore creates a task store over the given storage.
func NewStore(kv storage.Store) *Store {
	return &Store{kv: kv}
}

func listKey(userID string) string {
	return "tasks_" + userID
}

// List returns the user's tasks, empty when none have been stored.
func (s *Store) List(userID string) ([]model.Task, error) {
	raw, ok, err := s.kv.Get(listKey(userID))
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	if !ok {
		return []model.Task{}, nil
	}
	var tasks []model.Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		return nil, fmt.Errorf("parse tasks: %w", err)
	}
	return tasks, nil
}

func (s *Store) save(userID string, tasks []model.Task) error {
	raw, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("serialize tasks: %w", err)
	}
	if err := s.kv.Set(listKey(userID), string(raw)); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

// Get returns one task by id.
func (s *Store) Get(userID, taskID string) (model.Task, error) {
	tasks, err := s.List(userID)
	if err != nil {
		return model.Task{}, err
	}
	for _, t := range tasks {
		if t.ID == taskID {
			return t, nil
		}
	}
	return model.Task{}, ErrNotFound
}

// Add appends a new task and persists the list.
func (s *Store) Add(userID, title, description string, due *time.Time) (model.Task, error) {
	tasks, err := s.List(userID)
	if err != nil {
		return model.Task{}, err
	}

	t := model.NewTask(uuid.New().String(), title, description)
	t.DueDate = due
	tasks = append(tasks, t)

	if err := s.save(userID, tasks); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

// Update replaces the task with the same id and persists the list.
func (s *Store) Update(userID string, updated model.Task) error {
	tasks, err := s.List(userID)
	if err != nil {
		return err
	}
	for i, t := range tasks {
		if t.ID == updated.ID {
			tasks[i] = updated
			return s.save(userID, tasks)
		}
	}
	return ErrNotFound
}

// Toggle flips a task's completed flag.
func (s *Store) Toggle(userID, taskID string) (model.Task, error) {
	tasks, err := s.List(userID)
	if err != nil {
		return model.Task{}, err
	}
	for i, t := range tasks {
		if t.ID == taskID {
			tasks[i].Completed = !t.Completed
			if err := s.save(userID, tasks); err != nil {
				return model.Task{}, err
			}
			return tasks[i], nil
		}
	}
	return model.Task{}, ErrNotFound
}

// Delete removes a task by id.
func (s *Store) Delete(userID, taskID string) error {
	tasks, err := s.List(userID)
	if err != nil {
		return err
	}
	kept := tasks[:0]
	found := false
	for _, t := range tasks {
		if t.ID == taskID {
			found = true
			continue
		}
		kept = append(kept, t)
	}
	if !found {
		return ErrNotFound
	}
	return s.save(userID, kept)
}

// ClearCompleted removes all completed tasks and returns how many were removed.
func (s *Store) ClearCompleted(userID string) (int, error) {
	tasks, err := s.List(userID)
	if err != nil {
		return 0, err
	}
	kept := tasks[:0]
	removed := 0
	for _, t := range tasks {
		if t.Completed {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	if removed == 0 {
		return 0, nil
	}
	return removed, s.save(userID, kept)
}
