package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vincebiwott/safari-park-maintenance-v/config"
	"github.com/vincebiwott/safari-park-maintenance-v/services"
)

// SessionCookieName holds the provider access token for browser sessions
const SessionCookieName = "sb-access-token"

// tokenAudience is the audience the provider puts on user access tokens
const tokenAudience = "authenticated"

const (
	userIDKey      = "user_id"
	claimsKey      = "validated_claims"
	accessTokenKey = "access_token"
)

// SessionClaims are the provider-specific claims on an access token
type SessionClaims struct {
	Email string `json:"email"`
	// Role is the database role ("authenticated"), not the profile role
	Role string `json:"role"`
}

// Validate satisfies validator.CustomClaims; nothing to check beyond the
// registered claims.
func (c SessionClaims) Validate(ctx context.Context) error {
	return nil
}

// NewSessionValidator builds a validator for HS256 access tokens signed with
// the project JWT secret
func NewSessionValidator(cfg *config.Config) (*validator.Validator, error) {
	secret := []byte(cfg.SupabaseJWTSecret)
	keyFunc := func(ctx context.Context) (interface{}, error) {
		if len(secret) == 0 {
			return nil, fmt.Errorf("SUPABASE_JWT_SECRET is not configured")
		}
		return secret, nil
	}

	return validator.New(
		keyFunc,
		validator.HS256,
		cfg.AuthIssuer(),
		[]string{tokenAudience},
		validator.WithCustomClaims(
			func() validator.CustomClaims {
				return &SessionClaims{}
			},
		),
		validator.WithAllowedClockSkew(time.Minute),
	)
}

var sessionTokenExtractor = jwtmiddleware.MultiTokenExtractor(
	jwtmiddleware.AuthHeaderTokenExtractor,
	jwtmiddleware.CookieTokenExtractor(SessionCookieName),
)

// EnsureValidSession rejects API requests without a valid access token
func EnsureValidSession(v *validator.Validator, logger *zap.Logger) gin.HandlerFunc {
	return ensureSession(v, logger, func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_TOKEN",
				"message": "Failed to validate session token.",
			},
		})
	})
}

// EnsureValidPageSession sends browsers without a valid session to the login page
func EnsureValidPageSession(v *validator.Validator, logger *zap.Logger) gin.HandlerFunc {
	return ensureSession(v, logger, func(c *gin.Context) {
		c.Redirect(http.StatusSeeOther, "/login")
		c.Abort()
	})
}

func ensureSession(v *validator.Validator, logger *zap.Logger, reject func(*gin.Context)) gin.HandlerFunc {
	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Debug("session token rejected", zap.String("path", r.URL.Path), zap.Error(err))
	}

	mw := jwtmiddleware.New(
		v.ValidateToken,
		jwtmiddleware.WithTokenExtractor(sessionTokenExtractor),
		jwtmiddleware.WithErrorHandler(errorHandler),
	)

	return func(c *gin.Context) {
		passed := false
		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			claims, ok := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
			if !ok {
				return
			}
			token, _ := sessionTokenExtractor(r)

			c.Request = r
			c.Set(userIDKey, claims.RegisteredClaims.Subject)
			c.Set(claimsKey, claims)
			c.Set(accessTokenKey, token)
			passed = true
		}

		mw.CheckJWT(handler).ServeHTTP(c.Writer, c.Request)

		if !passed {
			reject(c)
			return
		}
		c.Next()
	}
}

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) (string, error) {
	userID, exists := c.Get(userIDKey)
	if !exists {
		return "", &AuthError{Code: "MISSING_USER_ID", Message: "User ID not found in context"}
	}

	userIDStr, ok := userID.(string)
	if !ok || userIDStr == "" {
		return "", &AuthError{Code: "INVALID_USER_ID", Message: "User ID is not a string"}
	}

	return userIDStr, nil
}

// GetAccessToken returns the raw token the session was validated from
func GetAccessToken(c *gin.Context) (string, error) {
	token := c.GetString(accessTokenKey)
	if token == "" {
		return "", &AuthError{Code: "MISSING_TOKEN", Message: "Access token not found in context"}
	}
	return token, nil
}

// GetClaims extracts the validated JWT claims from the Gin context
func GetClaims(c *gin.Context) (*validator.ValidatedClaims, error) {
	claims, exists := c.Get(claimsKey)
	if !exists {
		return nil, &AuthError{Code: "MISSING_CLAIMS", Message: "Claims not found in context"}
	}

	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return nil, &AuthError{Code: "INVALID_CLAIMS", Message: "Claims are not in the expected format"}
	}

	return validatedClaims, nil
}

// UserContext returns the request context carrying the caller's access token
func UserContext(c *gin.Context) context.Context {
	return services.WithAccessToken(c.Request.Context(), c.GetString(accessTokenKey))
}

// RequireRole allows the request through only when the caller's stored
// profile role is exactly role
func RequireRole(store services.ProfileStore, role string, logger *zap.Logger) gin.HandlerFunc {
	return requireRole(store, role, logger, func(c *gin.Context, record *services.RoleRecord) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INSUFFICIENT_ROLE",
				"message": "Insufficient permissions to access this resource",
			},
		})
	})
}

// RequireRolePage is RequireRole for pages: other roles are sent to their own
// destination, and a failed lookup goes back to login
func RequireRolePage(store services.ProfileStore, role string, logger *zap.Logger) gin.HandlerFunc {
	return requireRole(store, role, logger, func(c *gin.Context, record *services.RoleRecord) {
		target := "/login"
		if record != nil {
			target = services.Destination(record.RoleValue())
		}
		c.Redirect(http.StatusSeeOther, target)
		c.Abort()
	})
}

func requireRole(store services.ProfileStore, role string, logger *zap.Logger, deny func(*gin.Context, *services.RoleRecord)) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := GetUserID(c)
		if err != nil {
			deny(c, nil)
			return
		}

		record, err := store.FindRole(UserContext(c), userID)
		if err != nil {
			logger.Warn("role check failed", zap.String("user_id", userID), zap.Error(err))
			deny(c, nil)
			return
		}

		if record.RoleValue() != role {
			deny(c, record)
			return
		}

		c.Next()
	}
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
