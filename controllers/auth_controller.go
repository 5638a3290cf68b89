package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vincebiwott/safari-park-maintenance-v/middleware"
	"github.com/vincebiwott/safari-park-maintenance-v/models"
	"github.com/vincebiwott/safari-park-maintenance-v/services"
)

// SignupPendingNotice is shown on the login page after a successful signup
const SignupPendingNotice = "Signup successful! Please wait for admin approval."

// AuthController serves signup and login, as JSON and as pages
type AuthController struct {
	signup        *services.SignupService
	login         *services.LoginService
	secureCookies bool
	logger        *zap.Logger
}

// NewAuthController creates the controller. secureCookies marks the session
// cookie Secure and should be on behind HTTPS.
func NewAuthController(signup *services.SignupService, login *services.LoginService, secureCookies bool, logger *zap.Logger) *AuthController {
	return &AuthController{
		signup:        signup,
		login:         login,
		secureCookies: secureCookies,
		logger:        logger,
	}
}

// Signup handles POST /api/v1/auth/signup
func (ac *AuthController) Signup(c *gin.Context) {
	var req services.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	profile, err := ac.signup.Signup(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": SignupPendingNotice,
		"data":    profile,
	})
}

// Login handles POST /api/v1/auth/login and returns where to go next
func (ac *AuthController) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Email and password are required",
				"details": err.Error(),
			},
		})
		return
	}

	result, err := ac.login.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"user_id":      result.UserID,
			"role":         result.Role,
			"destination":  result.Destination,
			"access_token": result.AccessToken,
			"expires_in":   int(result.ExpiresIn.Seconds()),
		},
	})
}

// ShowLogin handles GET /login
func (ac *AuthController) ShowLogin(c *gin.Context) {
	notice := ""
	if c.Query("signup") == "pending" {
		notice = SignupPendingNotice
	}
	ac.renderLogin(c, http.StatusOK, "", "", notice)
}

// SubmitLogin handles POST /login. On success the access token goes into the
// session cookie and the browser is sent to the role's destination.
func (ac *AuthController) SubmitLogin(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		ac.renderLogin(c, http.StatusBadRequest, req.Email, "Email and password are required", "")
		return
	}

	result, err := ac.login.Login(c.Request.Context(), req)
	if err != nil {
		he := mapError(err)
		ac.renderLogin(c, he.Status, req.Email, he.Message, "")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, result.AccessToken, int(result.ExpiresIn.Seconds()), "/", "", ac.secureCookies, true)
	c.Redirect(http.StatusSeeOther, result.Destination)
}

// ShowSignup handles GET /signup
func (ac *AuthController) ShowSignup(c *gin.Context) {
	ac.renderSignup(c, http.StatusOK, services.SignupRequest{}, "")
}

// SubmitSignup handles POST /signup
func (ac *AuthController) SubmitSignup(c *gin.Context) {
	var req services.SignupRequest
	if err := c.ShouldBind(&req); err != nil {
		ac.renderSignup(c, http.StatusBadRequest, req, "Invalid form data")
		return
	}

	if _, err := ac.signup.Signup(c.Request.Context(), req); err != nil {
		he := mapError(err)
		ac.renderSignup(c, he.Status, req, he.Message)
		return
	}

	c.Redirect(http.StatusSeeOther, "/login?signup=pending")
}

// Logout handles POST /logout
func (ac *AuthController) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", ac.secureCookies, true)
	c.Redirect(http.StatusSeeOther, "/login")
}

func (ac *AuthController) renderLogin(c *gin.Context, status int, email, errMsg, notice string) {
	c.HTML(status, "login.html", gin.H{
		"Title":  "Login",
		"Email":  email,
		"Error":  errMsg,
		"Notice": notice,
	})
}

func (ac *AuthController) renderSignup(c *gin.Context, status int, form services.SignupRequest, errMsg string) {
	form.Password = ""
	c.HTML(status, "signup.html", gin.H{
		"Title":          "Sign Up",
		"Form":           form,
		"Error":          errMsg,
		"Roles":          models.SignupRoles,
		"TechCategories": models.TechCategories,
	})
}
