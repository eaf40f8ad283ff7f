package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/lanternsec/lantern/internal/auth/domain"
	"github.com/lanternsec/lantern/internal/auth/store"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, username, password_hash, totp_secret, totp_confirmed_at, created_at, updated_at`

func scanUser(row *sql.Row) (domain.User, error) {
	var (
		u         domain.User
		secret    sql.NullString
		confirmed sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &secret, &confirmed, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.TOTPSecret = mapNullStringPtr(secret)
	u.TOTPConfirmedAt = mapNullTimePtr(confirmed)
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	return scanUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, totp_secret, totp_confirmed_at)
		 VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.PasswordHash, mapOptionalString(u.TOTPSecret), u.TOTPConfirmedAt)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID string, newHash string) error {
	return r.exec(ctx,
		`UPDATE users SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		newHash, userID)
}

func (r *usersRepo) SetTOTPSecret(ctx context.Context, userID string, secret string) error {
	return r.exec(ctx,
		`UPDATE users SET totp_secret = ?, totp_confirmed_at = NULL, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		secret, userID)
}

func (r *usersRepo) ConfirmTOTP(ctx context.Context, userID string) error {
	return r.exec(ctx,
		`UPDATE users SET totp_confirmed_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND totp_secret IS NOT NULL`,
		userID)
}

func (r *usersRepo) ClearTOTP(ctx context.Context, userID string) error {
	// Unconditional clear: already-disabled rows are updated to the same state.
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET totp_secret = NULL, totp_confirmed_at = NULL, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		userID)
	return err
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}

// exec runs an UPDATE that must match exactly one row, mapping a zero-row
// result to store.ErrNotFound.
func (r *usersRepo) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
