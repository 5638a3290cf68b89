package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/vincebiwott/safari-park-maintenance-v/models"
)

// SignupRequest is the self-registration form
type SignupRequest struct {
	Email        string `json:"email" form:"email"`
	Password     string `json:"password" form:"password"`
	FullName     string `json:"full_name" form:"full_name"`
	Nickname     string `json:"nickname" form:"nickname"`
	Role         string `json:"role" form:"role"`
	TechCategory string `json:"tech_category" form:"tech_category"`
}

// Validate checks required fields and the technician category rule
func (r *SignupRequest) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"email", r.Email},
		{"password", r.Password},
		{"full_name", r.FullName},
		{"nickname", r.Nickname},
		{"role", r.Role},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return &ValidationError{Field: f.field, Message: "is required"}
		}
	}

	if !models.IsSignupRole(r.Role) {
		return &ValidationError{Field: "role", Message: "must be one of " + strings.Join(models.SignupRoles, ", ")}
	}

	if r.Role == models.SignupRoleTechnician {
		if r.TechCategory == "" {
			return &ValidationError{Field: "tech_category", Message: "is required for technicians"}
		}
		if !models.IsTechCategory(r.TechCategory) {
			return &ValidationError{Field: "tech_category", Message: "must be one of " + strings.Join(models.TechCategories, ", ")}
		}
	}
	return nil
}

// profile builds the pending profile row for identity
func (r *SignupRequest) profile(identityID string) *models.Profile {
	role := r.Role
	nickname := r.Nickname
	profile := &models.Profile{
		ID:       identityID,
		Email:    r.Email,
		FullName: r.FullName,
		Nickname: &nickname,
		Role:     &role,
		Approved: false,
	}
	if r.Role == models.SignupRoleTechnician {
		category := r.TechCategory
		profile.TechCategory = &category
	}
	return profile
}

// SignupService creates a provider identity and its pending profile
type SignupService struct {
	auth     AuthProvider
	profiles ProfileStore
	logger   *zap.Logger
}

// NewSignupService wires the signup workflow
func NewSignupService(auth AuthProvider, profiles ProfileStore, logger *zap.Logger) *SignupService {
	return &SignupService{auth: auth, profiles: profiles, logger: logger}
}

// Signup registers a new account awaiting admin approval.
//
// The identity is created first; if the profile insert then fails the
// identity is left behind without a profile and the insert error is returned.
func (s *SignupService) Signup(ctx context.Context, req SignupRequest) (*models.Profile, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	identity, err := s.auth.SignUp(ctx, Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		s.logger.Info("signup rejected by auth provider", zap.String("email", req.Email), zap.Error(err))
		return nil, err
	}

	// With an immediate session the row is written as the new user, so
	// "insert own row" policies apply; otherwise the anon key is used.
	profile := req.profile(identity.ID)
	if err := s.profiles.Insert(WithAccessToken(ctx, identity.AccessToken), profile); err != nil {
		s.logger.Warn("profile insert failed, identity left without profile",
			zap.String("user_id", identity.ID),
			zap.String("email", req.Email),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("signup pending approval",
		zap.String("user_id", profile.ID),
		zap.String("role", req.Role))
	return profile, nil
}
