package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vincebiwott/safari-park-maintenance-v/services"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
		expectedMsg    string
	}{
		{"validation", &services.ValidationError{Field: "role", Message: "is required"}, http.StatusBadRequest, "VALIDATION_ERROR", ""},
		{"role lookup", services.ErrRoleLookup, http.StatusForbidden, "ROLE_LOOKUP_FAILED", "Could not fetch user role"},
		{"pending approval", services.ErrPendingApproval, http.StatusForbidden, "PENDING_APPROVAL", ""},
		{"storage disabled", services.ErrStorageDisabled, http.StatusServiceUnavailable, "EXPORT_DISABLED", ""},
		{"unreachable provider", &services.ProviderError{Op: "signup", Message: "dial tcp: refused"}, http.StatusBadGateway, "PROVIDER_UNAVAILABLE", "dial tcp: refused"},
		{"bad credentials", &services.ProviderError{Op: "signin", StatusCode: 400, Message: "Invalid login credentials"}, http.StatusUnauthorized, "AUTH_FAILED", "Invalid login credentials"},
		{"existing account", &services.ProviderError{Op: "signup", StatusCode: 422, Code: "user_already_exists", Message: "User already registered"}, http.StatusConflict, "ACCOUNT_EXISTS", "User already registered"},
		{"weak password", &services.ProviderError{Op: "signup", StatusCode: 422, Code: "weak_password", Message: "Password should be at least 6 characters"}, http.StatusBadRequest, "PROVIDER_REJECTED", "Password should be at least 6 characters"},
		{"incomplete session", &services.ProviderError{Op: "signin", StatusCode: 200, Message: "auth provider returned an incomplete session"}, http.StatusBadGateway, "PROVIDER_ERROR", "auth provider returned an incomplete session"},
		{"provider outage at sign-in", &services.ProviderError{Op: "signin", StatusCode: 503, Message: "Service Unavailable"}, http.StatusBadGateway, "PROVIDER_ERROR", "Service Unavailable"},
		{"provider outage", &services.ProviderError{Op: "list", StatusCode: 503, Message: "Service Unavailable"}, http.StatusBadGateway, "PROVIDER_ERROR", "Service Unavailable"},
		{"wrapped provider error", fmt.Errorf("insert: %w", &services.ProviderError{Op: "insert", StatusCode: 409, Code: "23505", Message: "duplicate key"}), http.StatusConflict, "ACCOUNT_EXISTS", "duplicate key"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			he := mapError(tt.err)
			assert.Equal(t, tt.expectedStatus, he.Status)
			assert.Equal(t, tt.expectedCode, he.Code)
			if tt.expectedMsg != "" {
				assert.Equal(t, tt.expectedMsg, he.Message)
			}
		})
	}
}

func TestMapErrorValidationField(t *testing.T) {
	he := mapError(&services.ValidationError{Field: "tech_category", Message: "is required for technicians"})
	assert.Equal(t, "tech_category", he.Field)
	assert.Contains(t, he.Message, "tech_category")
}
