package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lanternsec/lantern/internal/auth/domain"
	"github.com/lanternsec/lantern/internal/auth/store"
	"github.com/lanternsec/lantern/pkg/cryptox"
	"github.com/lanternsec/lantern/pkg/idx"
	"github.com/lanternsec/lantern/pkg/otpx"
	"github.com/lanternsec/lantern/pkg/slogx"
)

var (
	// ErrInvalidCredentials covers unknown username and wrong password alike,
	// so the response never reveals whether an account exists.
	ErrInvalidCredentials = errors.New("invalid_credentials")

	// ErrTwoFactorRequired means the password checked out but the account
	// has 2FA enabled and no code was supplied.
	ErrTwoFactorRequired = errors.New("two_factor_required")

	// ErrInvalidTwoFactorCode means a code was supplied but is wrong or
	// outside the accepted time windows.
	ErrInvalidTwoFactorCode = errors.New("invalid_two_factor_code")

	ErrTwoFactorAlreadyEnabled = errors.New("two_factor_already_enabled")
	ErrTwoFactorNotProvisioned = errors.New("two_factor_not_provisioned")
)

// AuthService orchestrates login: password check, conditional TOTP challenge,
// then token issuance. All dependencies are injected; the service itself is
// stateless.
type AuthService struct {
	Store  store.Store
	Tokens *TokenService
}

// Authenticate validates the credentials and returns a freshly issued
// session token. origin is the resolved client address, recorded in the
// audit trail for every attempt.
//
// Failure order is fixed: username/password problems surface as
// ErrInvalidCredentials before any 2FA handling, a missing code for a
// 2FA-enabled account surfaces as ErrTwoFactorRequired, and a wrong code as
// ErrInvalidTwoFactorCode. No token is issued on any failure path.
func (s *AuthService) Authenticate(ctx context.Context, req domain.LoginRequest, origin string) (domain.SessionToken, error) {
	log := slogx.FromContext(ctx)
	now := time.Now()

	user, err := s.Store.Users().GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.recordAttempt(ctx, req.Username, origin, domain.AttemptBadCredentials)
			return domain.SessionToken{}, ErrInvalidCredentials
		}
		return domain.SessionToken{}, fmt.Errorf("load user: %w", err)
	}

	if err := cryptox.VerifyPassword(req.Password, user.PasswordHash); err != nil {
		log.Info("password verification failed", "username", req.Username, "origin", origin)
		s.recordAttempt(ctx, req.Username, origin, domain.AttemptBadCredentials)
		return domain.SessionToken{}, ErrInvalidCredentials
	}

	amr := []string{"pwd"}

	if user.TOTPRequired() {
		code := strings.TrimSpace(req.TOTPCode)
		if code == "" {
			s.recordAttempt(ctx, req.Username, origin, domain.AttemptTwoFactorRequired)
			return domain.SessionToken{}, ErrTwoFactorRequired
		}
		if !otpx.ValidateCode(*user.TOTPSecret, code, now) {
			log.Info("TOTP verification failed", "username", req.Username, "origin", origin)
			s.recordAttempt(ctx, req.Username, origin, domain.AttemptBadTwoFactorCode)
			return domain.SessionToken{}, ErrInvalidTwoFactorCode
		}
		amr = append(amr, "otp")
	}

	token, err := s.Tokens.Issue(user, amr, now)
	if err != nil {
		return domain.SessionToken{}, fmt.Errorf("issue token: %w", err)
	}

	s.recordAttempt(ctx, req.Username, origin, domain.AttemptOK)
	return token, nil
}

// recordAttempt appends an audit row. Auditing is best effort: a failing
// audit write never changes the authentication decision.
func (s *AuthService) recordAttempt(ctx context.Context, username, origin, outcome string) {
	attempt := domain.LoginAttempt{
		ID:       idx.New().String(),
		Username: username,
		Origin:   origin,
		Outcome:  outcome,
	}
	if err := s.Store.LoginAttempts().RecordAttempt(ctx, attempt); err != nil {
		slogx.FromContext(ctx).Warn("failed to record login attempt",
			"username", username, "outcome", outcome, "err", err)
	}
}
