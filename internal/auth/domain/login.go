package domain

import "time"

// LoginRequest carries the credentials for a single authentication attempt.
// TOTPCode is optional; it is only consulted when the user has 2FA enabled.
type LoginRequest struct {
	Username string
	Password string
	TOTPCode string
}

// SessionToken is what a successful login returns. The token itself is an
// EdDSA-signed JWT minted by the token service; the core never stores it.
type SessionToken struct {
	Token     string
	ExpiresIn time.Duration
}

// TOTPSetup is the transient provisioning payload returned by 2FA setup.
// The secret stays unconfirmed (2FA off) until the enable step verifies a
// code generated from it.
type TOTPSetup struct {
	Secret string // base32, for manual entry
	URI    string // otpauth:// URL, rendered as a QR code by the client
}

// Login attempt outcomes recorded in the audit trail.
const (
	AttemptOK                = "ok"
	AttemptBadCredentials    = "bad_credentials"
	AttemptTwoFactorRequired = "two_factor_required"
	AttemptBadTwoFactorCode  = "bad_two_factor_code"
)

// LoginAttempt is one audit row per authentication attempt. Origin is the
// resolved client address (first X-Forwarded-For entry when present).
type LoginAttempt struct {
	ID        string
	Username  string
	Origin    string
	Outcome   string
	CreatedAt time.Time
}
