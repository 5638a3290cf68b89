package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vincebiwott/safari-park-maintenance-v/config"
)

// setupMockAuthServer simulates the provider's signup and token endpoints
func setupMockAuthServer(t *testing.T, handler http.HandlerFunc) (*SupabaseAuthService, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewSupabaseClient(&config.Config{SupabaseURL: server.URL, SupabaseAnonKey: "anon-key"})
	t.Cleanup(client.Close)
	return NewSupabaseAuthService(client), server
}

func TestSupabaseSignUpReturnsIdentity(t *testing.T) {
	service, _ := setupMockAuthServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/v1/signup", r.URL.Path)
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))

		var creds Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "new@park.test", creds.Email)
		assert.Equal(t, "pw-123456", creds.Password)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"9f1c","email":"new@park.test","aud":"authenticated"}`))
	})

	identity, err := service.SignUp(context.Background(), Credentials{Email: "new@park.test", Password: "pw-123456"})
	require.NoError(t, err)
	assert.Equal(t, "9f1c", identity.ID)
	assert.Equal(t, "new@park.test", identity.Email)
	assert.Empty(t, identity.AccessToken, "No session until the email is confirmed")
}

func TestSupabaseSignUpSessionShape(t *testing.T) {
	service, _ := setupMockAuthServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token":"jwt","user":{"id":"abc","email":"s@park.test"}}`))
	})

	identity, err := service.SignUp(context.Background(), Credentials{Email: "s@park.test", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "abc", identity.ID)
	assert.Equal(t, "jwt", identity.AccessToken)
}

func TestSupabaseSignUpProviderError(t *testing.T) {
	service, _ := setupMockAuthServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"code":422,"error_code":"user_already_exists","msg":"User already registered"}`))
	})

	_, err := service.SignUp(context.Background(), Credentials{Email: "dup@park.test", Password: "pw"})
	var perr *ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "User already registered", perr.Error())
	assert.Equal(t, "user_already_exists", perr.Code)
	assert.True(t, perr.IsConflict())
}

func TestSupabaseSignUpMissingID(t *testing.T) {
	service, _ := setupMockAuthServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	_, err := service.SignUp(context.Background(), Credentials{Email: "x@park.test", Password: "pw"})
	assert.EqualError(t, err, "auth provider returned no user id")
}

func TestSupabaseSignInWithPassword(t *testing.T) {
	service, _ := setupMockAuthServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		w.Write([]byte(`{"access_token":"jwt-1","token_type":"bearer","expires_in":3600,"refresh_token":"r-1","user":{"id":"u-1","email":"a@park.test"}}`))
	})

	session, err := service.SignInWithPassword(context.Background(), Credentials{Email: "a@park.test", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "jwt-1", session.AccessToken)
	assert.Equal(t, "r-1", session.RefreshToken)
	assert.Equal(t, time.Hour, session.ExpiresIn)
	assert.Equal(t, "u-1", session.User.ID)
}

func TestSupabaseSignInIncompleteSession(t *testing.T) {
	service, _ := setupMockAuthServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token_type":"bearer","user":{"id":"u-1"}}`))
	})

	_, err := service.SignInWithPassword(context.Background(), Credentials{Email: "a@park.test", Password: "pw"})

	var perr *ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "signin", perr.Op)
	assert.Equal(t, http.StatusOK, perr.StatusCode)
	assert.Equal(t, "auth provider returned an incomplete session", perr.Message)
}

// TestSignupInsertRunsAsNewUser checks which key the profile insert carries
// for both signup reply shapes
func TestSignupInsertRunsAsNewUser(t *testing.T) {
	tests := []struct {
		name       string
		signupBody string
		wantBearer string
	}{
		{"auto-confirmed session", `{"access_token":"user-session-jwt","token_type":"bearer","user":{"id":"u-1","email":"s@park.test"}}`, "Bearer user-session-jwt"},
		{"confirmation pending", `{"id":"u-1","email":"s@park.test"}`, "Bearer anon-key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var insertAuth string
			mux := http.NewServeMux()
			mux.HandleFunc("/auth/v1/signup", func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))
				w.Write([]byte(tt.signupBody))
			})
			mux.HandleFunc("/rest/v1/profiles", func(w http.ResponseWriter, r *http.Request) {
				insertAuth = r.Header.Get("Authorization")
				assert.Equal(t, "anon-key", r.Header.Get("apikey"))
				w.WriteHeader(http.StatusCreated)
			})
			server := httptest.NewServer(mux)
			t.Cleanup(server.Close)

			client := NewSupabaseClient(&config.Config{SupabaseURL: server.URL, SupabaseAnonKey: "anon-key"})
			t.Cleanup(client.Close)
			signup := NewSignupService(NewSupabaseAuthService(client), NewPostgrestProfileStore(client, "profiles"), zap.NewNop())

			profile, err := signup.Signup(context.Background(), SignupRequest{
				Email: "s@park.test", Password: "pw-123456", FullName: "Sam", Nickname: "Boss", Role: "Supervisor",
			})
			require.NoError(t, err)
			assert.Equal(t, "u-1", profile.ID)
			assert.Equal(t, tt.wantBearer, insertAuth)
		})
	}
}

func TestSupabaseSignInInvalidCredentials(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"current error shape", `{"code":400,"error_code":"invalid_credentials","msg":"Invalid login credentials"}`, "Invalid login credentials"},
		{"legacy error shape", `{"error":"invalid_grant","error_description":"Invalid login credentials"}`, "Invalid login credentials"},
		{"plain text", `upstream unavailable`, "upstream unavailable"},
		{"empty body", ``, "Bad Request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _ := setupMockAuthServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(tt.body))
			})

			session, err := service.SignInWithPassword(context.Background(), Credentials{Email: "a@park.test", Password: "bad"})
			assert.Nil(t, session)
			assert.EqualError(t, err, tt.want)
		})
	}
}

func TestSupabaseUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	service := NewSupabaseAuthService(NewSupabaseClient(&config.Config{SupabaseURL: url, SupabaseAnonKey: "k"}))
	_, err := service.SignInWithPassword(context.Background(), Credentials{Email: "a@park.test", Password: "pw"})

	var perr *ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "signin", perr.Op)
	assert.Contains(t, perr.Message, "failed to reach backend (signin)")
}
