package model

import "time"

// User is a stored account record. Password holds the seed-only plaintext
// fallback for bundled default users; it is never set for signed-up accounts
// and becomes redundant once a hash has been backfilled.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Password     string    `json:"password,omitempty"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	Token        string    `json:"token,omitempty"`
	Seed         bool      `json:"seed,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// SafeUser is a User with credential material stripped, suitable for UI
// exposure and for persisting as the current session.
type SafeUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Token     string    `json:"token,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Safe returns a hash-stripped copy of the record.
func (u User) Safe() SafeUser {
	return SafeUser{
		ID:        u.ID,
		Email:     u.Email,
		Token:     u.Token,
		CreatedAt: u.CreatedAt,
	}
}
