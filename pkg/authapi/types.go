// Package authapi holds the wire types and error values of the HTTP API,
// shared by the server handlers and by clients/tests.
package authapi

import "time"

// LoginRequest is the JSON body for POST /v1/login. TOTPCode is only needed
// when the account has two-factor authentication enabled.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	TOTPCode string `json:"totp_code,omitempty"`
}

// TokenResponse is returned on successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"` // "Bearer"
	ExpiresIn   int64  `json:"expires_in"` // seconds
}

// UserResponse describes the authenticated user. The password hash is never
// part of this type.
type UserResponse struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	TOTPEnabled bool      `json:"totp_enabled"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TOTPSetupResponse carries the freshly provisioned secret. It is shown once;
// the secret does not become active until the enable step confirms a code.
type TOTPSetupResponse struct {
	Secret string `json:"secret"`
	URI    string `json:"uri"`
}

// TOTPEnableRequest is the JSON body for POST /v1/2fa/enable.
type TOTPEnableRequest struct {
	Code string `json:"code"`
}

// TOTPDisableRequest is the JSON body for POST /v1/2fa/disable. Disabling
// requires password re-verification.
type TOTPDisableRequest struct {
	Password string `json:"password"`
}

// ChangePasswordRequest is the JSON body for POST /v1/password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// SuccessResponse is the generic confirmation body.
type SuccessResponse struct {
	Message string `json:"message"`
}
