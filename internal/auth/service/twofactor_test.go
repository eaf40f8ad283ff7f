package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/lanternsec/lantern/internal/auth/domain"
	"github.com/lanternsec/lantern/pkg/otpx"
	"github.com/stretchr/testify/require"
)

func TestTwoFactorSetup(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &TwoFactorService{Store: st, Issuer: "Lantern"}

	user := createUser(t, st, "alice", "Secret1")

	t.Run("provisions a pending secret", func(t *testing.T) {
		setup, err := svc.Setup(ctx, user.ID)
		require.NoError(t, err)
		require.NotEmpty(t, setup.Secret)
		require.True(t, strings.HasPrefix(setup.URI, "otpauth://totp/"))

		got, err := st.Users().GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		require.Equal(t, domain.TOTPPendingSetup, got.TOTPState())
		require.False(t, got.TOTPRequired(), "pending setup must not gate login")
	})

	t.Run("repeat setup replaces the pending secret", func(t *testing.T) {
		first, err := svc.Setup(ctx, user.ID)
		require.NoError(t, err)
		second, err := svc.Setup(ctx, user.ID)
		require.NoError(t, err)
		require.NotEqual(t, first.Secret, second.Secret)

		// Only the latest secret can be confirmed.
		staleCode, err := otpx.GenerateCode(first.Secret, time.Now())
		require.NoError(t, err)
		require.ErrorIs(t, svc.Enable(ctx, user.ID, staleCode), ErrInvalidTwoFactorCode)

		code, err := otpx.GenerateCode(second.Secret, time.Now())
		require.NoError(t, err)
		require.NoError(t, svc.Enable(ctx, user.ID, code))
	})

	t.Run("setup refused once enabled", func(t *testing.T) {
		_, err := svc.Setup(ctx, user.ID)
		require.ErrorIs(t, err, ErrTwoFactorAlreadyEnabled)
	})
}

func TestTwoFactorEnable(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &TwoFactorService{Store: st, Issuer: "Lantern"}

	user := createUser(t, st, "bob", "Secret1")

	t.Run("enable without setup", func(t *testing.T) {
		require.ErrorIs(t, svc.Enable(ctx, user.ID, "123456"), ErrTwoFactorNotProvisioned)
	})

	setup, err := svc.Setup(ctx, user.ID)
	require.NoError(t, err)

	t.Run("wrong code leaves state pending", func(t *testing.T) {
		require.ErrorIs(t, svc.Enable(ctx, user.ID, "000000"), ErrInvalidTwoFactorCode)

		got, err := st.Users().GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		require.Equal(t, domain.TOTPPendingSetup, got.TOTPState())
	})

	t.Run("valid code enables", func(t *testing.T) {
		code, err := otpx.GenerateCode(setup.Secret, time.Now())
		require.NoError(t, err)
		require.NoError(t, svc.Enable(ctx, user.ID, code))

		got, err := st.Users().GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		require.Equal(t, domain.TOTPEnabled, got.TOTPState())
	})

	t.Run("enable twice", func(t *testing.T) {
		code, err := otpx.GenerateCode(setup.Secret, time.Now())
		require.NoError(t, err)
		require.ErrorIs(t, svc.Enable(ctx, user.ID, code), ErrTwoFactorAlreadyEnabled)
	})
}

func TestTwoFactorDisable(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &TwoFactorService{Store: st, Issuer: "Lantern"}

	user := createUser(t, st, "carol", "Secret1")

	setup, err := svc.Setup(ctx, user.ID)
	require.NoError(t, err)
	code, err := otpx.GenerateCode(setup.Secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, svc.Enable(ctx, user.ID, code))

	t.Run("wrong password keeps 2FA on", func(t *testing.T) {
		require.ErrorIs(t, svc.Disable(ctx, user.ID, "wrong"), ErrInvalidCredentials)

		got, err := st.Users().GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		require.Equal(t, domain.TOTPEnabled, got.TOTPState())
	})

	t.Run("correct password disables and discards the secret", func(t *testing.T) {
		require.NoError(t, svc.Disable(ctx, user.ID, "Secret1"))

		got, err := st.Users().GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		require.Equal(t, domain.TOTPDisabled, got.TOTPState())
		require.Nil(t, got.TOTPSecret)
	})

	t.Run("disable when already disabled succeeds", func(t *testing.T) {
		require.NoError(t, svc.Disable(ctx, user.ID, "Secret1"))
	})

	t.Run("disable clears a pending setup too", func(t *testing.T) {
		_, err := svc.Setup(ctx, user.ID)
		require.NoError(t, err)
		require.NoError(t, svc.Disable(ctx, user.ID, "Secret1"))

		got, err := st.Users().GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		require.Equal(t, domain.TOTPDisabled, got.TOTPState())
	})
}
