package authapi

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Error codes surfaced by the API. Invalid username and invalid password are
// deliberately the same code and description so callers cannot enumerate
// accounts.
const (
	CodeInvalidRequest        = "invalid_request"
	CodeInvalidCredentials    = "invalid_credentials"
	CodeTwoFactorRequired     = "two_factor_required"
	CodeInvalidTwoFactorCode  = "invalid_two_factor_code"
	CodeTwoFactorEnabled      = "two_factor_already_enabled"
	CodeTwoFactorNotProvision = "two_factor_not_provisioned"
	CodeInvalidToken          = "invalid_token"
	CodeServiceUnavailable    = "service_unavailable"
)

// APIError is the JSON error envelope returned on every failure. It
// implements the error interface so clients can surface it directly.
type APIError struct {
	// StatusCode is the HTTP status for this error.
	StatusCode int `json:"-"`

	Code        string `json:"error"`
	Description string `json:"error_description"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes this APIError to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(e)
}

var (
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        CodeInvalidRequest,
		Description: "Malformed or missing request parameters",
	}
	ErrInvalidCredentials = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        CodeInvalidCredentials,
		Description: "Invalid username or password",
	}
	ErrTwoFactorRequired = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        CodeTwoFactorRequired,
		Description: "A two-factor code is required to complete login",
	}
	ErrInvalidTwoFactorCode = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        CodeInvalidTwoFactorCode,
		Description: "The two-factor code is invalid or expired",
	}
	ErrTwoFactorAlreadyEnabled = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        CodeTwoFactorEnabled,
		Description: "Two-factor authentication is already enabled",
	}
	ErrTwoFactorNotProvisioned = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        CodeTwoFactorNotProvision,
		Description: "No pending two-factor setup; call setup first",
	}
	ErrInvalidToken = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        CodeInvalidToken,
		Description: "Missing or invalid access token",
	}
	ErrServiceUnavailable = &APIError{
		StatusCode:  http.StatusServiceUnavailable,
		Code:        CodeServiceUnavailable,
		Description: "A backing service failed; try again later",
	}
)
