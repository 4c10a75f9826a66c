package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is how long a session token stays valid.
const DefaultTokenTTL = 24 * time.Hour

// Claims carries the standard registered claims plus the user identifier.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
}

// TokenManager issues and validates session tokens. Tokens are HS256 JWTs,
// so they carry a verifiable expiry and cannot be validated without the
// signing secret.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager creates a token manager with the given secret and ttl.
// A zero ttl falls back to DefaultTokenTTL.
func NewTokenManager(secret []byte, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenManager{secret: secret, ttl: ttl}
}

// Generate issues a signed token for userID expiring ttl from now.
func (tm *TokenManager) Generate(userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tm.ttl)),
		},
		UserID: userID,
	})
	return token.SignedString(tm.secret)
}

// Validate reports whether the token parses, verifies, and has not expired.
// Malformed input returns false (fails closed).
func (tm *TokenManager) Validate(tokenString string) bool {
	_, err := tm.parse(tokenString)
	return err == nil
}

// UserID extracts the user identifier from a valid token.
func (tm *TokenManager) UserID(tokenString string) (string, error) {
	claims, err := tm.parse(tokenString)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

func (tm *TokenManager) parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return tm.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
