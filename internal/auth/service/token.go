package service

import (
	"time"

	"github.com/lanternsec/lantern/internal/auth/domain"
	"github.com/lanternsec/lantern/pkg/jwtx"
)

// TokenService mints session tokens for verified identities. It never stores
// issued tokens; verification is purely cryptographic.
type TokenService struct {
	Signer    jwtx.Signer
	Issuer    string
	AccessTTL time.Duration
}

// Issue signs a session token bound to the user's id. amr lists the
// authentication methods that were actually performed ("pwd", "otp").
func (s *TokenService) Issue(u domain.User, amr []string, now time.Time) (domain.SessionToken, error) {
	claims := jwtx.NewSessionClaims(u.ID, u.Username, amr, s.Issuer, s.AccessTTL, now)

	signed, err := s.Signer.Sign(claims)
	if err != nil {
		return domain.SessionToken{}, err
	}

	return domain.SessionToken{Token: signed, ExpiresIn: s.AccessTTL}, nil
}
