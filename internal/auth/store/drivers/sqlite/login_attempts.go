package sqlite

import (
	"context"

	"github.com/lanternsec/lantern/internal/auth/domain"
)

type loginAttemptsRepo struct {
	db dbtx
}

func (r *loginAttemptsRepo) RecordAttempt(ctx context.Context, a domain.LoginAttempt) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO login_attempts (id, username, origin, outcome) VALUES (?, ?, ?, ?)`,
		a.ID, a.Username, a.Origin, a.Outcome)
	return err
}

func (r *loginAttemptsRepo) CountRecentFailures(ctx context.Context, username string, windowSeconds int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM login_attempts
		 WHERE username = ? AND outcome != 'ok'
		   AND created_at >= DATETIME('now', '-' || ? || ' seconds')`,
		username, windowSeconds).Scan(&count)
	return count, err
}

func (r *loginAttemptsRepo) DeleteOldAttempts(ctx context.Context, retentionSeconds int) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM login_attempts
		 WHERE created_at < DATETIME('now', '-' || ? || ' seconds')`,
		retentionSeconds)
	return err
}
