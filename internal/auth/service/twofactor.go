package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lanternsec/lantern/internal/auth/domain"
	"github.com/lanternsec/lantern/internal/auth/store"
	"github.com/lanternsec/lantern/pkg/cryptox"
	"github.com/lanternsec/lantern/pkg/otpx"
	"github.com/lanternsec/lantern/pkg/slogx"
)

// TwoFactorService owns the TOTP lifecycle: setup provisions an unconfirmed
// secret, enable verifies a code and makes it durable, disable clears it
// after password re-verification.
type TwoFactorService struct {
	Store  store.Store
	Issuer string // issuer label in provisioning URIs (e.g. "Lantern")
}

// Setup generates a fresh TOTP secret for the user and stores it
// unconfirmed. Two-factor login stays off until Enable succeeds. Calling
// Setup again before enabling overwrites the pending secret, so concurrent
// setups race with last-write-wins and no stale secrets accumulate.
func (s *TwoFactorService) Setup(ctx context.Context, userID string) (domain.TOTPSetup, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.TOTPSetup{}, fmt.Errorf("load user: %w", err)
	}

	if user.TOTPState() == domain.TOTPEnabled {
		return domain.TOTPSetup{}, ErrTwoFactorAlreadyEnabled
	}

	setup, err := otpx.GenerateSecret(s.Issuer, user.Username)
	if err != nil {
		return domain.TOTPSetup{}, err
	}

	if err := s.Store.Users().SetTOTPSecret(ctx, userID, setup.Secret); err != nil {
		return domain.TOTPSetup{}, fmt.Errorf("store TOTP secret: %w", err)
	}

	slogx.FromContext(ctx).Info("TOTP secret provisioned", "user_id", userID)
	return domain.TOTPSetup{Secret: setup.Secret, URI: setup.URI}, nil
}

// Enable verifies code against the pending secret and, on success, turns
// two-factor login on. A wrong code leaves the state untouched.
func (s *TwoFactorService) Enable(ctx context.Context, userID, code string) error {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}

	switch user.TOTPState() {
	case domain.TOTPEnabled:
		return ErrTwoFactorAlreadyEnabled
	case domain.TOTPDisabled:
		return ErrTwoFactorNotProvisioned
	}

	if !otpx.ValidateCode(*user.TOTPSecret, strings.TrimSpace(code), time.Now()) {
		return ErrInvalidTwoFactorCode
	}

	if err := s.Store.Users().ConfirmTOTP(ctx, userID); err != nil {
		return fmt.Errorf("confirm TOTP: %w", err)
	}

	slogx.FromContext(ctx).Info("two-factor authentication enabled", "user_id", userID)
	return nil
}

// Disable re-verifies the password, then clears the secret and turns
// two-factor login off. Disabling an already-disabled account is a no-op
// success; the clear is unconditional either way.
func (s *TwoFactorService) Disable(ctx context.Context, userID, password string) error {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		return ErrInvalidCredentials
	}

	if err := s.Store.Users().ClearTOTP(ctx, userID); err != nil {
		return fmt.Errorf("clear TOTP: %w", err)
	}

	slogx.FromContext(ctx).Info("two-factor authentication disabled", "user_id", userID)
	return nil
}
