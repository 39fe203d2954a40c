package ports

import "time"

type AuthClaims struct {
	UserID    string
	Email     string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenVerifier validates bearer tokens issued by the platform auth service.
type TokenVerifier interface {
	ParseAndValidate(raw string) (AuthClaims, error)
}
