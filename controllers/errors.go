package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vincebiwott/safari-park-maintenance-v/services"
)

// httpError is the status, code and user-facing message for an error
type httpError struct {
	Status  int
	Code    string
	Message string
	Field   string
}

// mapError turns workflow errors into responses. Provider messages pass
// through verbatim; role lookup failures keep their generic text.
func mapError(err error) httpError {
	var verr *services.ValidationError
	var perr *services.ProviderError

	switch {
	case errors.As(err, &verr):
		return httpError{Status: http.StatusBadRequest, Code: "VALIDATION_ERROR", Message: verr.Error(), Field: verr.Field}
	case errors.Is(err, services.ErrRoleLookup):
		return httpError{Status: http.StatusForbidden, Code: "ROLE_LOOKUP_FAILED", Message: err.Error()}
	case errors.Is(err, services.ErrPendingApproval):
		return httpError{Status: http.StatusForbidden, Code: "PENDING_APPROVAL", Message: err.Error()}
	case errors.Is(err, services.ErrStorageDisabled):
		return httpError{Status: http.StatusServiceUnavailable, Code: "EXPORT_DISABLED", Message: err.Error()}
	case errors.As(err, &perr):
		return mapProviderError(perr)
	default:
		return httpError{Status: http.StatusInternalServerError, Code: "INTERNAL_ERROR", Message: "internal server error"}
	}
}

func mapProviderError(perr *services.ProviderError) httpError {
	switch {
	case perr.StatusCode == 0:
		return httpError{Status: http.StatusBadGateway, Code: "PROVIDER_UNAVAILABLE", Message: perr.Message}
	case perr.Op == "signin" && perr.StatusCode >= 400 && perr.StatusCode < 500:
		return httpError{Status: http.StatusUnauthorized, Code: "AUTH_FAILED", Message: perr.Message}
	case perr.IsConflict():
		return httpError{Status: http.StatusConflict, Code: "ACCOUNT_EXISTS", Message: perr.Message}
	case perr.StatusCode >= 400 && perr.StatusCode < 500:
		return httpError{Status: http.StatusBadRequest, Code: "PROVIDER_REJECTED", Message: perr.Message}
	default:
		return httpError{Status: http.StatusBadGateway, Code: "PROVIDER_ERROR", Message: perr.Message}
	}
}

// respondError writes the standard error envelope
func respondError(c *gin.Context, err error) {
	he := mapError(err)
	body := gin.H{
		"code":    he.Code,
		"message": he.Message,
	}
	if he.Field != "" {
		body["field"] = he.Field
	}
	c.JSON(he.Status, gin.H{
		"success": false,
		"error":   body,
	})
}
