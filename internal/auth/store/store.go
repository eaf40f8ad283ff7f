package store

import (
	"context"
	"errors"

	"github.com/lanternsec/lantern/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement this. Sub-repositories keep concerns tidy and let transactional
// code reuse the same repository surface.
type Store interface {
	Users() Users
	LoginAttempts() LoginAttempts

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, rolling back when fn returns
	// an error and committing otherwise. Prefer this over raw Tx.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. Same repositories plus Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is used during login.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// UpdatePasswordHash sets the password_hash (argon2id) and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error

	// SetTOTPSecret stores an unconfirmed secret, clearing any previous
	// confirmation. Calling it again before confirmation overwrites the
	// pending secret.
	SetTOTPSecret(ctx context.Context, userID string, secret string) error

	// ConfirmTOTP marks the pending secret as verified (sets totp_confirmed_at).
	ConfirmTOTP(ctx context.Context, userID string) error

	// ClearTOTP removes the secret and confirmation unconditionally.
	// Clearing an already-clear user is a no-op.
	ClearTOTP(ctx context.Context, userID string) error

	// IsEmpty returns true if there are no users.
	IsEmpty(ctx context.Context) (bool, error)
}

type LoginAttempts interface {
	// RecordAttempt appends one audit row.
	RecordAttempt(ctx context.Context, a domain.LoginAttempt) error

	// CountRecentFailures counts non-ok attempts for a username within the
	// trailing window, for operator visibility.
	CountRecentFailures(ctx context.Context, username string, windowSeconds int) (int, error)

	// DeleteOldAttempts drops audit rows older than the retention window.
	DeleteOldAttempts(ctx context.Context, retentionSeconds int) error
}
