package services

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// LoginRequest is the sign-in form
type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// LoginResult says where an authenticated user goes next
type LoginResult struct {
	UserID      string        `json:"user_id"`
	Role        string        `json:"role"`
	Destination string        `json:"destination"`
	AccessToken string        `json:"access_token"`
	ExpiresIn   time.Duration `json:"-"`
}

// LoginService signs users in and routes them by role
type LoginService struct {
	auth            AuthProvider
	profiles        ProfileStore
	requireApproval bool
	logger          *zap.Logger
}

// NewLoginService wires the login workflow. With requireApproval set,
// unapproved profiles are refused instead of routed.
func NewLoginService(auth AuthProvider, profiles ProfileStore, requireApproval bool, logger *zap.Logger) *LoginService {
	return &LoginService{
		auth:            auth,
		profiles:        profiles,
		requireApproval: requireApproval,
		logger:          logger,
	}
}

// Login exchanges credentials for a session, reads the user's role and
// picks a destination. Both provider calls run on every login.
func (s *LoginService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	session, err := s.auth.SignInWithPassword(ctx, Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		return nil, err
	}

	record, err := s.profiles.FindRole(WithAccessToken(ctx, session.AccessToken), session.User.ID)
	if err != nil {
		s.logger.Error("role lookup failed after sign-in",
			zap.String("user_id", session.User.ID),
			zap.Error(err))
		return nil, ErrRoleLookup
	}

	if s.requireApproval && !record.Approved {
		s.logger.Info("login refused, profile not approved", zap.String("user_id", session.User.ID))
		return nil, ErrPendingApproval
	}

	role := record.RoleValue()
	if role != "" && !IsRoutedRole(role) {
		s.logger.Warn("unrecognised role routed to default destination",
			zap.String("user_id", session.User.ID),
			zap.String("role", role))
	}

	return &LoginResult{
		UserID:      session.User.ID,
		Role:        role,
		Destination: Destination(role),
		AccessToken: session.AccessToken,
		ExpiresIn:   session.ExpiresIn,
	}, nil
}
