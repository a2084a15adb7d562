package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/framehq/frame/internal/auth"
	apperrors "github.com/framehq/frame/internal/platform/errors"
)

// CreateSession inserts a login session.
func (s *Store) CreateSession(ctx context.Context, session auth.Session) error {
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO sessions (id, token, user_id, org_id, created_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		session.ID, session.Token, session.UserID, session.OrgID,
		timeToUnixMillis(session.CreatedAt), timeToUnixMillis(session.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// GetSessionByToken loads a session by its opaque token.
func (s *Store) GetSessionByToken(ctx context.Context, token string) (auth.Session, error) {
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, token, user_id, org_id, created_at, expires_at
		 FROM sessions WHERE token = ?`,
		token,
	)

	var session auth.Session
	var createdAt, expiresAt int64
	err := row.Scan(&session.ID, &session.Token, &session.UserID, &session.OrgID, &createdAt, &expiresAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return auth.Session{}, apperrors.New(apperrors.CodeNotFound, "session not found")
		}
		return auth.Session{}, fmt.Errorf("get session: %w", err)
	}
	session.CreatedAt = unixMillisToTime(createdAt)
	session.ExpiresAt = unixMillisToTime(expiresAt)
	return session, nil
}

// DeleteSession removes a session by token.
func (s *Store) DeleteSession(ctx context.Context, token string) error {
	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return requireRow(result, "session not found")
}

// DeleteExpiredSessions removes sessions that expired at or before the
// given time.
func (s *Store) DeleteExpiredSessions(ctx context.Context, before time.Time) error {
	_, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM sessions WHERE expires_at <= ?`,
		timeToUnixMillis(before),
	)
	if err != nil {
		return fmt.Errorf("delete expired sessions: %w", err)
	}
	return nil
}
