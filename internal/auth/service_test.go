package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lemonpay/lemontask/internal/storage"
)

func newTestService(t *testing.T, kv storage.Store) *Service {
	t.Helper()
	svc := NewService(kv, NewTokenManager([]byte("service-test-secret"), time.Hour))
	require.NoError(t, svc.Initialize())
	return svc
}

func TestSignupThenLogin(t *testing.T) {
	kv := newTestKV(t)
	svc := newTestService(t, kv)

	result := svc.Signup("alice@example.com", "hunter22")
	require.True(t, result.Success, "signup failed: %s", result.Error)
	require.NotNil(t, result.User)
	require.Equal(t, "alice@example.com", result.User.Email)
	require.NotEmpty(t, result.User.Token)
	signedUpID := result.User.ID

	require.NoError(t, svc.Logout())
	require.False(t, svc.IsAuthenticated())

	result = svc.Login("alice@example.com", "hunter22")
	require.True(t, result.Success, "login failed: %s", result.Error)
	require.Equal(t, signedUpID, result.User.ID)
	require.True(t, svc.IsAuthenticated())
}

func TestSignupNormalizesEmail(t *testing.T) {
	svc := newTestService(t, newTestKV(t))

	result := svc.Signup("Alice@Example.COM", "hunter22")
	require.True(t, result.Success)
	require.Equal(t, "alice@example.com", result.User.Email)

	// Login works regardless of the casing typed
	require.NoError(t, svc.Logout())
	result = svc.Login("ALICE@example.com", "hunter22")
	require.True(t, result.Success, "login failed: %s", result.Error)
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc := newTestService(t, newTestKV(t))

	require.True(t, svc.Signup("alice@example.com", "hunter22").Success)

	for _, email := range []string{"alice@example.com", "ALICE@EXAMPLE.COM"} {
		result := svc.Signup(email, "different1")
		require.False(t, result.Success)
		require.Equal(t, ErrEmailTaken.Error(), result.Error)
	}
}

func TestCredentialValidation(t *testing.T) {
	svc := newTestService(t, newTestKV(t))

	result := svc.Signup("no-at-sign", "hunter22")
	require.False(t, result.Success)
	require.Equal(t, ErrInvalidEmail.Error(), result.Error)

	result = svc.Signup("alice@example.com", "short")
	require.False(t, result.Success)
	require.Equal(t, ErrShortPassword.Error(), result.Error)

	result = svc.Login("no-at-sign", "hunter22")
	require.False(t, result.Success)
	require.Equal(t, ErrInvalidEmail.Error(), result.Error)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newTestService(t, newTestKV(t))

	result := svc.Login("nobody@example.com", "hunter22")
	require.False(t, result.Success)
	require.Equal(t, ErrNoAccount.Error(), result.Error)
	require.False(t, svc.IsAuthenticated())
}

func TestLoginWrongPasswordKeepsToken(t *testing.T) {
	kv := newTestKV(t)
	svc := newTestService(t, kv)

	require.True(t, svc.Signup("alice@example.com", "hunter22").Success)
	require.NoError(t, svc.Logout())

	users, err := svc.creds.Load()
	require.NoError(t, err)
	_, before, found := svc.creds.FindByEmail(users, "alice@example.com")
	require.True(t, found)

	result := svc.Login("alice@example.com", "wrongpass")
	require.False(t, result.Success)
	require.Equal(t, ErrWrongPassword.Error(), result.Error)
	require.False(t, svc.IsAuthenticated())

	// A failed login must not rotate the stored token
	users, err = svc.creds.Load()
	require.NoError(t, err)
	_, after, _ := svc.creds.FindByEmail(users, "alice@example.com")
	require.Equal(t, before.Token, after.Token)
}

func TestSeedPlaintextConsumedOnFirstLogin(t *testing.T) {
	kv := newTestKV(t)
	svc := newTestService(t, kv)

	result := svc.Login("admin@lemonpay.com", "admin123")
	require.True(t, result.Success, "seed login failed: %s", result.Error)
	require.Equal(t, "default-admin", result.User.ID)

	users, err := svc.creds.Load()
	require.NoError(t, err)
	admin := users["default-admin"]
	require.Empty(t, admin.Password, "plaintext should be cleared after first login")
	require.NotEmpty(t, admin.PasswordHash)

	// Second login has only the hash path left
	require.NoError(t, svc.Logout())
	result = svc.Login("admin@lemonpay.com", "admin123")
	require.True(t, result.Success, "hash-path login failed: %s", result.Error)

	require.NoError(t, svc.Logout())
	result = svc.Login("admin@lemonpay.com", "admin124")
	require.False(t, result.Success)
	require.Equal(t, ErrWrongPassword.Error(), result.Error)
}

func TestSessionRestoredAcrossRestart(t *testing.T) {
	kv := newTestKV(t)
	svc := newTestService(t, kv)

	result := svc.Signup("alice@example.com", "hunter22")
	require.True(t, result.Success)

	// A fresh service over the same storage restores the session
	restarted := newTestService(t, kv)
	require.True(t, restarted.IsAuthenticated())
	require.Equal(t, result.User.ID, restarted.CurrentUser().ID)
}

func TestStaleSessionDiscardedOnRestart(t *testing.T) {
	kv := newTestKV(t)
	svc := NewService(kv, &TokenManager{secret: []byte("service-test-secret"), ttl: -time.Hour})
	require.NoError(t, svc.Initialize())

	// The seed token was issued already expired, so the persisted session
	// is stale from the start
	users, err := svc.creds.Load()
	require.NoError(t, err)
	admin := users["default-admin"]
	require.NoError(t, svc.persistSession(admin.Safe()))

	restarted := newTestService(t, kv)
	require.False(t, restarted.IsAuthenticated())

	_, ok, err := kv.Get(currentUserKey)
	require.NoError(t, err)
	require.False(t, ok, "stale session should be removed from storage")
}

func TestLogoutClearsSession(t *testing.T) {
	kv := newTestKV(t)
	svc := newTestService(t, kv)

	require.True(t, svc.Signup("alice@example.com", "hunter22").Success)
	require.NoError(t, svc.Logout())

	require.False(t, svc.IsAuthenticated())
	require.Nil(t, svc.CurrentUser())

	_, ok, err := kv.Get(currentUserKey)
	require.NoError(t, err)
	require.False(t, ok)

	restarted := newTestService(t, kv)
	require.False(t, restarted.IsAuthenticated())
}

func TestWithAuthGuards(t *testing.T) {
	kv := newTestKV(t)
	svc := newTestService(t, kv)

	err := svc.WithAuth(func(string) error { return nil })
	require.ErrorIs(t, err, ErrAuthRequired)

	require.True(t, svc.Signup("alice@example.com", "hunter22").Success)

	var seen string
	require.NoError(t, svc.WithAuth(func(token string) error {
		seen = token
		return nil
	}))
	require.NotEmpty(t, seen)
	require.Equal(t, 3, len(strings.Split(seen, ".")), "expected a JWT-shaped token")
}

func TestWithAuthExpiredLogsOut(t *testing.T) {
	kv := newTestKV(t)
	svc := newTestService(t, kv)

	require.True(t, svc.Signup("alice@example.com", "hunter22").Success)

	// Swap the session token for one that is already expired
	expired := &TokenManager{secret: []byte("service-test-secret"), ttl: -time.Hour}
	staleToken, err := expired.Generate(svc.CurrentUser().ID)
	require.NoError(t, err)
	svc.user.Token = staleToken

	ran := false
	err = svc.WithAuth(func(string) error {
		ran = true
		return nil
	})
	require.ErrorIs(t, err, ErrSessionExpired)
	require.False(t, ran, "guarded operation must not run with an expired token")
	require.False(t, svc.IsAuthenticated(), "expiry should log the session out")

	_, ok, err := kv.Get(currentUserKey)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestUsersListsSafeRecords(t *testing.T) {
	svc := newTestService(t, newTestKV(t))

	require.True(t, svc.Signup("alice@example.com", "hunter22").Success)
	require.NoError(t, svc.Logout())
	require.True(t, svc.Signup("bob@example.com", "hunter22").Success)

	users, err := svc.Users()
	require.NoError(t, err)
	require.Len(t, users, 3) // seed admin plus the two signups

	emails := make([]string, 0, len(users))
	for _, u := range users {
		emails = append(emails, u.Email)
	}
	require.Contains(t, emails, "admin@lemonpay.com")
	require.Contains(t, emails, "alice@example.com")
	require.Contains(t, emails, "bob@example.com")

	// Seed admin predates the signups and sorts first
	require.Equal(t, "admin@lemonpay.com", users[0].Email)
}
