package domain

import "time"

type User struct {
	ID              string
	Username        string
	PasswordHash    string     // argon2id, PHC encoded
	TOTPSecret      *string    // base32 secret, present while provisioned (pending or enabled)
	TOTPConfirmedAt *time.Time // set once the secret has been verified; non-nil means 2FA is enforced
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TOTPState is the derived two-factor state of a user. The store only ever
// writes (secret, confirmed) pairs that map onto one of these three states,
// so the invalid pair (confirmed, no secret) cannot occur; the derivation
// treats it as TOTPDisabled regardless.
type TOTPState int

const (
	TOTPDisabled TOTPState = iota
	TOTPPendingSetup
	TOTPEnabled
)

func (s TOTPState) String() string {
	switch s {
	case TOTPPendingSetup:
		return "pending_setup"
	case TOTPEnabled:
		return "enabled"
	default:
		return "disabled"
	}
}

// TOTPState reports the user's two-factor state from the secret/confirmation pair.
func (u User) TOTPState() TOTPState {
	if u.TOTPSecret == nil || *u.TOTPSecret == "" {
		return TOTPDisabled
	}
	if u.TOTPConfirmedAt == nil {
		return TOTPPendingSetup
	}
	return TOTPEnabled
}

// TOTPRequired reports whether a login for this user must present a TOTP code.
func (u User) TOTPRequired() bool {
	return u.TOTPState() == TOTPEnabled
}
