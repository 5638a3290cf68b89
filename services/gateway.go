package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vincebiwott/safari-park-maintenance-v/models"
)

// Credentials is an email/password pair sent to the auth provider
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Identity is the provider-side account created at signup
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	// AccessToken is set when the provider signs the new user in straight
	// away (email confirmation off)
	AccessToken string `json:"-"`
}

// Session is the result of a successful password sign-in
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
	User         Identity
}

// RoleRecord is the slice of a profile needed to route a login
type RoleRecord struct {
	Role     *string `json:"role"`
	Approved bool    `json:"approved"`
}

// RoleValue returns the role or "" when unset
func (r *RoleRecord) RoleValue() string {
	if r == nil || r.Role == nil {
		return ""
	}
	return *r.Role
}

// AuthProvider creates identities and exchanges credentials for sessions
type AuthProvider interface {
	SignUp(ctx context.Context, creds Credentials) (*Identity, error)
	SignInWithPassword(ctx context.Context, creds Credentials) (*Session, error)
}

// ProfileStore persists and reads profile rows
type ProfileStore interface {
	Insert(ctx context.Context, profile *models.Profile) error
	// FindRole expects exactly one profile for id
	FindRole(ctx context.Context, id string) (*RoleRecord, error)
	List(ctx context.Context) ([]models.ProfileSummary, error)
}

var (
	// ErrProfileNotFound is returned when no profile exists for an id
	ErrProfileNotFound = errors.New("profile not found")
	// ErrProfileNotUnique is returned when a single-row read matched zero or many rows
	ErrProfileNotUnique = errors.New("expected exactly one profile")
	// ErrRoleLookup hides why the role of an authenticated user could not be read
	ErrRoleLookup = errors.New("Could not fetch user role")
	// ErrPendingApproval is returned at login for unapproved accounts when approval is enforced
	ErrPendingApproval = errors.New("Your account is pending admin approval")
	// ErrStorageDisabled is returned when no export bucket is configured
	ErrStorageDisabled = errors.New("profile export storage is not configured")
)

// ProviderError carries a message from the hosted backend, shown to users verbatim
type ProviderError struct {
	Op         string
	StatusCode int
	Code       string
	Message    string
}

func (e *ProviderError) Error() string {
	return e.Message
}

// IsConflict reports whether the provider rejected a duplicate
func (e *ProviderError) IsConflict() bool {
	return e.StatusCode == 409 || e.Code == "user_already_exists" || e.Code == "23505"
}

// ValidationError reports a bad or missing input field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type accessTokenKey struct{}

// WithAccessToken attaches the caller's provider access token to ctx so row
// reads run under the user's own row-level security policies
func WithAccessToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, accessTokenKey{}, token)
}

// AccessTokenFrom returns the token set by WithAccessToken
func AccessTokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(accessTokenKey{}).(string)
	return token
}
