package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/lemonpay/lemontask/internal/logger"
	"github.com/lemonpay/lemontask/internal/model"
	"github.com/lemonpay/lemontask/internal/storage"
)

// Key under which the active session's safe record is persisted.
const currentUserKey = "current-user"

// Result is the outcome of a login or signup. These operations never return
// errors directly; every failure is mapped into the Error message.
type Result struct {
	Success bool
	User    *model.SafeUser
	Error   string
}

// Service owns the session lifecycle: login, signup, logout, and the guard
// for authenticated operations. It is the single writer of the session state;
// callers invoke operations sequentially and read state between them.
type Service struct {
	kv     storage.Store
	creds  *CredentialStore
	tokens *TokenManager

	user    *model.SafeUser
	loading bool
	lastErr string
}

// NewService creates a session service over the given storage.
func NewService(kv storage.Store, tokens *TokenManager) *Service {
	return &Service{
		kv:     kv,
		creds:  NewCredentialStore(kv),
		tokens: tokens,
	}
}

// Initialize merges the seed users into the credential store and restores
// the persisted session if its token is still valid. A stale session is
// removed rather than kept around.
func (s *Service) Initialize() error {
	s.loading = true
	defer func() { s.loading = false }()

	if err := s.creds.Initialize(s.tokens); err != nil {
		return err
	}

	raw, ok, err := s.kv.Get(currentUserKey)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return nil
	}

	var user model.SafeUser
	if err := json.Unmarshal([]byte(raw), &user); err == nil && user.ID != "" && s.tokens.Validate(user.Token) {
		s.user = &user
		logger.Info("Session restored", logger.F("user", user.Email))
		return nil
	}

	// Stale or malformed session
	if err := s.kv.Remove(currentUserKey); err != nil {
		return fmt.Errorf("clear stale session: %w", err)
	}
	return nil
}

// Login authenticates an existing account. All failures are caught and
// mapped to the result shape; callers never need error handling here.
func (s *Service) Login(email, password string) Result {
	s.loading = true
	s.lastErr = ""

	user, err := s.login(email, password)
	s.loading = false
	if err != nil {
		s.lastErr = userMessage(err)
		logger.Debug("Login failed", logger.F("email", email), logger.F("error", err))
		return Result{Success: false, Error: s.lastErr}
	}

	logger.Info("User logged in", logger.F("email", user.Email))
	return Result{Success: true, User: user}
}

func (s *Service) login(email, password string) (*model.SafeUser, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	// Reload to pick up external writes since the last operation
	users, err := s.creds.Load()
	if err != nil {
		return nil, err
	}

	key, user, found := s.creds.FindByEmail(users, email)
	if !found {
		return nil, ErrNoAccount
	}

	// Seed records may still carry a plaintext password; that path exists
	// only as a migration shim for bundled defaults. On first successful
	// match the plaintext is consumed: a hash is backfilled and the
	// plaintext dropped, so later logins take the bcrypt path.
	valid := false
	if user.Seed && user.Password != "" && password == user.Password {
		valid = true
		if user.PasswordHash == "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return nil, fmt.Errorf("hash password: %w", err)
			}
			user.PasswordHash = string(hash)
		}
		user.Password = ""
		if err := s.creds.Upsert(users, key, user); err != nil {
			return nil, err
		}
	} else if user.PasswordHash != "" {
		valid = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
	}
	if !valid {
		return nil, ErrWrongPassword
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	user.Token = token
	if err := s.creds.Upsert(users, key, user); err != nil {
		return nil, err
	}

	safe := user.Safe()
	if err := s.persistSession(safe); err != nil {
		return nil, err
	}
	s.user = &safe
	return &safe, nil
}

// Signup creates a new account and logs it in. The duplicate-email check
// here is the authoritative one; any screen-level check is advisory.
func (s *Service) Signup(email, password string) Result {
	s.loading = true
	s.lastErr = ""

	user, err := s.signup(email, password)
	s.loading = false
	if err != nil {
		s.lastErr = userMessage(err)
		logger.Debug("Signup failed", logger.F("email", email), logger.F("error", err))
		return Result{Success: false, Error: s.lastErr}
	}

	logger.Info("User signed up", logger.F("email", user.Email))
	return Result{Success: true, User: user}
}

func (s *Service) signup(email, password string) (*model.SafeUser, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	users, err := s.creds.Load()
	if err != nil {
		return nil, err
	}
	if _, _, exists := s.creds.FindByEmail(users, email); exists {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := model.User{
		ID:           "user-" + uuid.New().String(),
		Email:        strings.ToLower(email),
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	user.Token = token

	if err := s.creds.Upsert(users, user.ID, user); err != nil {
		return nil, err
	}

	safe := user.Safe()
	if err := s.persistSession(safe); err != nil {
		return nil, err
	}
	s.user = &safe
	return &safe, nil
}

// Logout clears the persisted session and the in-memory state. Unlike login
// and signup it propagates storage failures, since there is no meaningful
// degraded result to return.
func (s *Service) Logout() error {
	if err := s.kv.Remove(currentUserKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.user = nil
	s.lastErr = ""
	logger.Info("User logged out")
	return nil
}

// WithAuth guards an authenticated-only operation. An expired token logs the
// session out as a side effect before failing.
func (s *Service) WithAuth(op func(token string) error) error {
	if s.user == nil || s.user.Token == "" {
		return ErrAuthRequired
	}
	if !s.tokens.Validate(s.user.Token) {
		if err := s.Logout(); err != nil {
			logger.Warn("Logout during session expiry failed", logger.F("error", err))
		}
		return ErrSessionExpired
	}
	return op(s.user.Token)
}

// Users returns all records with credential material stripped, sorted by
// creation time, for administrative listing.
func (s *Service) Users() ([]model.SafeUser, error) {
	users, err := s.creds.Load()
	if err != nil {
		return nil, err
	}

	safe := make([]model.SafeUser, 0, len(users))
	for _, u := range users {
		safe = append(safe, u.Safe())
	}
	sort.Slice(safe, func(i, j int) bool {
		if !safe[i].CreatedAt.Equal(safe[j].CreatedAt) {
			return safe[i].CreatedAt.Before(safe[j].CreatedAt)
		}
		return safe[i].Email < safe[j].Email
	})
	return safe, nil
}

// CurrentUser returns the active session's safe record, or nil.
func (s *Service) CurrentUser() *model.SafeUser {
	return s.user
}

// IsAuthenticated reports whether a user is logged in.
func (s *Service) IsAuthenticated() bool {
	return s.user != nil
}

// Loading reports whether an auth operation is in flight.
func (s *Service) Loading() bool {
	return s.loading
}

// LastError returns the last operation's failure message, if any.
func (s *Service) LastError() string {
	return s.lastErr
}

func (s *Service) persistSession(user model.SafeUser) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("serialize session: %w", err)
	}
	if err := s.kv.Set(currentUserKey, string(raw)); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func validateCredentials(email, password string) error {
	if !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	if len(password) < 6 {
		return ErrShortPassword
	}
	return nil
}

var userFacing = []error{
	ErrInvalidEmail,
	ErrShortPassword,
	ErrNoAccount,
	ErrWrongPassword,
	ErrEmailTaken,
	ErrAuthRequired,
	ErrSessionExpired,
}

// userMessage maps an internal error to display text. Storage and other
// unexpected failures get a generic message rather than leaking details.
func userMessage(err error) string {
	for _, sentinel := range userFacing {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "Operation failed. Please try again."
}
