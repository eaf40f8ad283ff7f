package service

import (
	"context"
	"fmt"

	"github.com/lanternsec/lantern/internal/auth/domain"
	"github.com/lanternsec/lantern/internal/auth/store"
	"github.com/lanternsec/lantern/pkg/cryptox"
	"github.com/lanternsec/lantern/pkg/idx"
	"github.com/lanternsec/lantern/pkg/slogx"
)

// BootstrapService creates the initial user on an empty database so a fresh
// deployment has something to log in with. Registration beyond this is
// handled elsewhere.
type BootstrapService struct {
	Store    store.Store
	Username string // empty disables bootstrap
}

// EnsureInitialUser creates the configured initial user when the users table
// is empty. The generated password is logged once; the operator is expected
// to change it immediately.
func (s *BootstrapService) EnsureInitialUser(ctx context.Context) error {
	if s.Username == "" {
		return nil
	}

	empty, err := s.Store.Users().IsEmpty(ctx)
	if err != nil {
		return fmt.Errorf("check users: %w", err)
	}
	if !empty {
		return nil
	}

	password, err := cryptox.GeneratePassword()
	if err != nil {
		return err
	}
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return err
	}

	user := domain.User{
		ID:           idx.New().String(),
		Username:     s.Username,
		PasswordHash: hash,
	}
	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		return fmt.Errorf("create initial user: %w", err)
	}

	slogx.FromContext(ctx).Warn("initial user created, change this password now",
		"username", s.Username, "password", password)
	return nil
}
