package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lemonpay/lemontask/internal/auth"
	"github.com/lemonpay/lemontask/internal/config"
	"github.com/lemonpay/lemontask/internal/model"
	"github.com/lemonpay/lemontask/internal/storage"
	"github.com/lemonpay/lemontask/internal/task"
)

// openSession loads config, opens the key-value store and restores any
// persisted session. Callers must Close the returned store.
func openSession() (*storage.SQLiteStore, *auth.Service, *task.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	var kv *storage.SQLiteStore
	if cfg.DatabasePath != "" {
		kv, err = storage.Open(cfg.DatabasePath)
	} else {
		kv, err = storage.OpenDefault()
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	tokens := auth.NewTokenManager([]byte(cfg.SessionSecret),
		time.Duration(cfg.SessionTTLHours)*time.Hour)

	session := auth.NewService(kv, tokens)
	if err := session.Initialize(); err != nil {
		_ = kv.Close()
		return nil, nil, nil, fmt.Errorf("failed to initialize session: %w", err)
	}

	return kv, session, task.NewStore(kv), nil
}

// withUser runs op for the logged-in user, refusing with a login hint when
// there is no session or the session token has expired.
func withUser(session *auth.Service, op func(user *model.SafeUser) error) error {
	user := session.CurrentUser()
	if user == nil {
		return fmt.Errorf("not logged in. Run: lemontask auth login")
	}

	err := session.WithAuth(func(string) error {
		return op(user)
	})
	if errors.Is(err, auth.ErrSessionExpired) || errors.Is(err, auth.ErrAuthRequired) {
		return fmt.Errorf("session expired. Run: lemontask auth login")
	}
	return err
}

// findTask resolves a full or unique prefix task ID within the user's list.
func findTask(tasks []model.Task, id string) (model.Task, error) {
	var matches []model.Task
	for _, t := range tasks {
		if t.ID == id {
			return t, nil
		}
		if strings.HasPrefix(t.ID, id) {
			matches = append(matches, t)
		}
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return model.Task{}, fmt.Errorf("task not found: %s", id)
	default:
		return model.Task{}, fmt.Errorf("task ID %q is ambiguous (%d matches)", id, len(matches))
	}
}
