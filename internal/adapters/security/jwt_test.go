package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func mintToken(t *testing.T, secret string, method jwt.SigningMethod, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(method, serviceJWTClaims{
		UserID: "u-1",
		Email:  "ops@example.com",
		Role:   "ADMIN",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().UTC()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	raw, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return raw
}

func TestParseAndValidateRoundTrip(t *testing.T) {
	t.Parallel()

	verifier, err := NewJWTVerifier("test-secret")
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	raw := mintToken(t, "test-secret", jwt.SigningMethodHS256, time.Now().UTC().Add(time.Hour))

	claims, err := verifier.ParseAndValidate(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "u-1" || claims.Email != "ops@example.com" || claims.Role != "ADMIN" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ExpiresAt.IsZero() {
		t.Fatal("expected expiry carried over")
	}
}

func TestParseAndValidateRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	verifier, _ := NewJWTVerifier("test-secret")
	raw := mintToken(t, "other-secret", jwt.SigningMethodHS256, time.Now().UTC().Add(time.Hour))

	if _, err := verifier.ParseAndValidate(raw); err == nil {
		t.Fatal("expected signature mismatch to fail")
	}
}

func TestParseAndValidateRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	verifier, _ := NewJWTVerifier("test-secret")
	raw := mintToken(t, "test-secret", jwt.SigningMethodHS256, time.Now().UTC().Add(-time.Hour))

	if _, err := verifier.ParseAndValidate(raw); err == nil {
		t.Fatal("expected expired token to fail")
	}
}

func TestNewJWTVerifierRequiresSecret(t *testing.T) {
	t.Parallel()

	if _, err := NewJWTVerifier(""); err == nil {
		t.Fatal("expected empty secret to be rejected")
	}
}
