package auth

import "errors"

// Sentinel errors for the auth operations. The messages double as the
// user-facing form text, so they keep their display capitalization.
var (
	ErrInvalidEmail   = errors.New("Please enter a valid email address")
	ErrShortPassword  = errors.New("Password must be at least 6 characters")
	ErrNoAccount      = errors.New("No account found with this email address")
	ErrWrongPassword  = errors.New("Incorrect password")
	ErrEmailTaken     = errors.New("Email address already in use")
	ErrAuthRequired   = errors.New("Authentication required")
	ErrSessionExpired = errors.New("Session expired. Please login again.")
)
