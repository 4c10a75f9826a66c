package auth

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/lemonpay/lemontask/internal/logger"
	"github.com/lemonpay/lemontask/internal/model"
	"github.com/lemonpay/lemontask/internal/storage"
)

// Key under which the full user mapping is persisted.
const userDatabaseKey = "user-database"

//go:embed seed_users.json
var seedUsersJSON []byte

// CredentialStore is the durable mapping of user records, merged from the
// bundled seed set and previously persisted state.
type CredentialStore struct {
	kv storage.Store
}

// NewCredentialStore creates a credential store over the given storage.
func NewCredentialStore(kv storage.Store) *CredentialStore {
	return &CredentialStore{kv: kv}
}

// Load reads the persisted user mapping, returning an empty mapping when
// nothing has been stored yet.
func (s *CredentialStore) Load() (map[string]model.User, error) {
	raw, ok, err := s.kv.Get(userDatabaseKey)
	if err != nil {
		return nil, fmt.Errorf("load user database: %w", err)
	}
	users := map[string]model.User{}
	if !ok {
		return users, nil
	}
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		return nil, fmt.Errorf("parse user database: %w", err)
	}
	return users, nil
}

// Save serializes the whole mapping and replaces the persisted value. There
// is no partial-write transaction; the mapping is small and replace-on-write
// keeps the last writer authoritative.
func (s *CredentialStore) Save(users map[string]model.User) error {
	raw, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("serialize user database: %w", err)
	}
	if err := s.kv.Set(userDatabaseKey, string(raw)); err != nil {
		return fmt.Errorf("save user database: %w", err)
	}
	return nil
}

// Initialize merges the bundled seed users under whatever has been persisted
// and writes the result back. Seed users lacking a passwordHash get one
// computed from their plaintext password; seed users lacking a token get one
// issued. Persisted records win on key collision, which makes the seed set
// idempotent: the first run materializes hashes and tokens, later runs keep
// whatever logins have since written.
func (s *CredentialStore) Initialize(tokens *TokenManager) error {
	persisted, err := s.Load()
	if err != nil {
		return err
	}

	seeds := map[string]model.User{}
	if err := json.Unmarshal(seedUsersJSON, &seeds); err != nil {
		return fmt.Errorf("parse seed users: %w", err)
	}

	merged := make(map[string]model.User, len(seeds)+len(persisted))
	for key, seed := range seeds {
		if seed.PasswordHash == "" && seed.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash seed password: %w", err)
			}
			seed.PasswordHash = string(hash)
		}
		if seed.Token == "" {
			token, err := tokens.Generate(seed.ID)
			if err != nil {
				return fmt.Errorf("issue seed token: %w", err)
			}
			seed.Token = token
		}
		merged[key] = seed
	}
	// Persisted records override seeds with the same key
	for key, user := range persisted {
		merged[key] = user
	}

	if err := s.Save(merged); err != nil {
		return err
	}

	logger.Debug("Credential store initialized",
		logger.F("seeds", len(seeds)),
		logger.F("persisted", len(persisted)))
	return nil
}

// FindByEmail looks up a record by email, case-insensitively.
func (s *CredentialStore) FindByEmail(users map[string]model.User, email string) (string, model.User, bool) {
	needle := strings.ToLower(email)
	for key, u := range users {
		if strings.ToLower(u.Email) == needle {
			return key, u, true
		}
	}
	return "", model.User{}, false
}

// Upsert writes one record into the mapping and persists the full mapping.
func (s *CredentialStore) Upsert(users map[string]model.User, key string, user model.User) error {
	users[key] = user
	return s.Save(users)
}
