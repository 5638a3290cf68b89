package testutil

import (
	"os"
	"testing"

	"github.com/vincebiwott/safari-park-maintenance-v/config"
)

// RequireTestEnvironment fails the test unless GO_ENV is "test", so a
// developer's real project keys are never used by accident.
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env != "test" {
		t.Fatalf("SAFETY CHECK FAILED: Tests must run with GO_ENV=test. Current GO_ENV=%q.", env)
	}
}

// TestConfig returns a configuration pointing at the test project
func TestConfig() *config.Config {
	return &config.Config{
		Port:               "0",
		GoEnv:              "test",
		LogLevel:           "error",
		SupabaseURL:        TestSupabaseURL,
		SupabaseAnonKey:    "anon-key",
		SupabaseJWTSecret:  TestJWTSecret,
		ProfilesTable:      "profiles",
		CORSAllowedOrigins: []string{"http://localhost:3000"},
	}
}
