package testutil

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TestJWTSecret signs tokens in tests; pair it with config.Config.SupabaseJWTSecret
const TestJWTSecret = "test-jwt-secret-with-enough-length"

// TestSupabaseURL is a project URL that is never dialled
const TestSupabaseURL = "https://project.supabase.test"

// SignSessionToken returns an HS256 access token shaped like the provider's
func SignSessionToken(t *testing.T, secret, issuer, subject string, ttl time.Duration) string {
	t.Helper()

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   subject,
		"iss":   issuer,
		"aud":   "authenticated",
		"role":  "authenticated",
		"email": subject + "@park.test",
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("Failed to sign test token: %v", err)
	}
	return signed
}

// ValidSessionToken signs a one-hour token for subject with the test secret and issuer
func ValidSessionToken(t *testing.T, subject string) string {
	t.Helper()
	return SignSessionToken(t, TestJWTSecret, TestSupabaseURL+"/auth/v1", subject, time.Hour)
}
