package sqlite

import (
	"context"
	"testing"

	"github.com/lanternsec/lantern/internal/auth/domain"
	"github.com/lanternsec/lantern/internal/auth/store"
	"github.com/lanternsec/lantern/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	st, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func seedUser(t *testing.T, st store.Store, username string) domain.User {
	t.Helper()

	u := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
	return u
}

func TestUsersCRUD(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	empty, err := st.Users().IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)

	u := seedUser(t, st, "alice")

	empty, err = st.Users().IsEmpty(ctx)
	require.NoError(t, err)
	require.False(t, empty)

	t.Run("lookup by id and username", func(t *testing.T) {
		byID, err := st.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "alice", byID.Username)
		require.Equal(t, u.PasswordHash, byID.PasswordHash)
		require.Nil(t, byID.TOTPSecret)
		require.Nil(t, byID.TOTPConfirmedAt)
		require.False(t, byID.CreatedAt.IsZero())

		byName, err := st.Users().GetUserByUsername(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, u.ID, byName.ID)
	})

	t.Run("missing user is not found", func(t *testing.T) {
		_, err := st.Users().GetUserByID(ctx, idx.New().String())
		require.ErrorIs(t, err, store.ErrNotFound)

		_, err = st.Users().GetUserByUsername(ctx, "nobody")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("duplicate username rejected", func(t *testing.T) {
		dup := domain.User{ID: idx.New().String(), Username: "alice", PasswordHash: "x"}
		require.ErrorIs(t, st.Users().CreateUser(ctx, dup), store.ErrAlreadyExists)
	})

	t.Run("password hash update", func(t *testing.T) {
		require.NoError(t, st.Users().UpdatePasswordHash(ctx, u.ID, "new-hash"))

		got, err := st.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "new-hash", got.PasswordHash)

		err = st.Users().UpdatePasswordHash(ctx, idx.New().String(), "h")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestUsersTOTPLifecycle(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, st, "bob")

	get := func() domain.User {
		got, err := st.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		return got
	}

	require.Equal(t, domain.TOTPDisabled, get().TOTPState())

	t.Run("set secret leaves user pending", func(t *testing.T) {
		require.NoError(t, st.Users().SetTOTPSecret(ctx, u.ID, "SECRET1"))

		got := get()
		require.Equal(t, domain.TOTPPendingSetup, got.TOTPState())
		require.NotNil(t, got.TOTPSecret)
		require.Equal(t, "SECRET1", *got.TOTPSecret)
		require.False(t, got.TOTPRequired())
	})

	t.Run("re-provisioning overwrites the pending secret", func(t *testing.T) {
		require.NoError(t, st.Users().SetTOTPSecret(ctx, u.ID, "SECRET2"))

		got := get()
		require.Equal(t, domain.TOTPPendingSetup, got.TOTPState())
		require.Equal(t, "SECRET2", *got.TOTPSecret)
	})

	t.Run("confirm enables", func(t *testing.T) {
		require.NoError(t, st.Users().ConfirmTOTP(ctx, u.ID))

		got := get()
		require.Equal(t, domain.TOTPEnabled, got.TOTPState())
		require.NotNil(t, got.TOTPConfirmedAt)
		require.True(t, got.TOTPRequired())
	})

	t.Run("clear disables and is idempotent", func(t *testing.T) {
		require.NoError(t, st.Users().ClearTOTP(ctx, u.ID))
		require.Equal(t, domain.TOTPDisabled, get().TOTPState())

		require.NoError(t, st.Users().ClearTOTP(ctx, u.ID))
		require.Equal(t, domain.TOTPDisabled, get().TOTPState())
	})

	t.Run("confirm without a secret is not found", func(t *testing.T) {
		err := st.Users().ConfirmTOTP(ctx, u.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestLoginAttempts(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	record := func(username, outcome string) {
		err := st.LoginAttempts().RecordAttempt(ctx, domain.LoginAttempt{
			ID:       idx.New().String(),
			Username: username,
			Origin:   "203.0.113.7",
			Outcome:  outcome,
		})
		require.NoError(t, err)
	}

	record("carol", domain.AttemptBadCredentials)
	record("carol", domain.AttemptBadTwoFactorCode)
	record("carol", domain.AttemptOK)
	record("dave", domain.AttemptBadCredentials)

	t.Run("counts only failures for the username", func(t *testing.T) {
		n, err := st.LoginAttempts().CountRecentFailures(ctx, "carol", 3600)
		require.NoError(t, err)
		require.Equal(t, 2, n)

		n, err = st.LoginAttempts().CountRecentFailures(ctx, "dave", 3600)
		require.NoError(t, err)
		require.Equal(t, 1, n)

		n, err = st.LoginAttempts().CountRecentFailures(ctx, "nobody", 3600)
		require.NoError(t, err)
		require.Equal(t, 0, n)
	})

	t.Run("retention keeps recent rows", func(t *testing.T) {
		require.NoError(t, st.LoginAttempts().DeleteOldAttempts(ctx, 3600))

		n, err := st.LoginAttempts().CountRecentFailures(ctx, "carol", 3600)
		require.NoError(t, err)
		require.Equal(t, 2, n)
	})

}

func TestWithTx(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	t.Run("commit persists", func(t *testing.T) {
		u := domain.User{ID: idx.New().String(), Username: "eve", PasswordHash: "h"}
		err := st.WithTx(ctx, func(tx store.Tx) error {
			return tx.Users().CreateUser(ctx, u)
		})
		require.NoError(t, err)

		_, err = st.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
	})

	t.Run("error rolls back", func(t *testing.T) {
		u := domain.User{ID: idx.New().String(), Username: "frank", PasswordHash: "h"}
		err := st.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.Users().CreateUser(ctx, u); err != nil {
				return err
			}
			return context.Canceled
		})
		require.ErrorIs(t, err, context.Canceled)

		_, err = st.Users().GetUserByID(ctx, u.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}
