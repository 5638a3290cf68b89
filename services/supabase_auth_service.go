package services

import (
	"context"
	"net/http"
	"time"
)

// signUpResponse covers both GoTrue signup replies: a bare user when email
// confirmation is on, or a session wrapping the user when it is off
type signUpResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	AccessToken string    `json:"access_token"`
	User        *Identity `json:"user"`
}

type tokenResponse struct {
	AccessToken  string   `json:"access_token"`
	TokenType    string   `json:"token_type"`
	ExpiresIn    int      `json:"expires_in"`
	RefreshToken string   `json:"refresh_token"`
	User         Identity `json:"user"`
}

// SupabaseAuthService implements AuthProvider against the project's GoTrue API
type SupabaseAuthService struct {
	client *SupabaseClient
}

// NewSupabaseAuthService creates a new auth service instance
func NewSupabaseAuthService(client *SupabaseClient) *SupabaseAuthService {
	return &SupabaseAuthService{client: client}
}

// SignUp creates a provider identity for the credentials
func (s *SupabaseAuthService) SignUp(ctx context.Context, creds Credentials) (*Identity, error) {
	resp, err := s.client.do(ctx, "signup", http.MethodPost, "/auth/v1/signup", creds, nil)
	if err != nil {
		return nil, err
	}

	var body signUpResponse
	if err := decodeJSON(resp, &body); err != nil {
		return nil, err
	}

	identity := Identity{ID: body.ID, Email: body.Email}
	if body.User != nil {
		identity = *body.User
	}
	if identity.ID == "" {
		return nil, &ProviderError{Op: "signup", StatusCode: resp.StatusCode, Message: "auth provider returned no user id"}
	}
	if identity.Email == "" {
		identity.Email = creds.Email
	}
	identity.AccessToken = body.AccessToken

	return &identity, nil
}

// SignInWithPassword exchanges credentials for a session
func (s *SupabaseAuthService) SignInWithPassword(ctx context.Context, creds Credentials) (*Session, error) {
	resp, err := s.client.do(ctx, "signin", http.MethodPost, "/auth/v1/token?grant_type=password", creds, nil)
	if err != nil {
		return nil, err
	}

	var body tokenResponse
	if err := decodeJSON(resp, &body); err != nil {
		return nil, err
	}
	if body.User.ID == "" || body.AccessToken == "" {
		return nil, &ProviderError{Op: "signin", StatusCode: resp.StatusCode, Message: "auth provider returned an incomplete session"}
	}

	return &Session{
		AccessToken:  body.AccessToken,
		RefreshToken: body.RefreshToken,
		ExpiresIn:    time.Duration(body.ExpiresIn) * time.Second,
		User:         body.User,
	}, nil
}
