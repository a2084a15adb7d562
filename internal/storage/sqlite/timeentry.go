package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	apperrors "github.com/framehq/frame/internal/platform/errors"
	"github.com/framehq/frame/internal/timetrack"
)

const entryColumns = `id, org_id, user_id, project_id, task_id, started_at, ended_at, minutes, note, billable, created_at`

func scanEntry(row interface{ Scan(...any) error }) (timetrack.Entry, error) {
	var e timetrack.Entry
	var taskID sql.NullString
	var startedAt int64
	var endedAt sql.NullInt64
	var minutes sql.NullInt64
	var billable int64
	var createdAt int64
	err := row.Scan(
		&e.ID, &e.OrgID, &e.UserID, &e.ProjectID, &taskID,
		&startedAt, &endedAt, &minutes, &e.Note, &billable, &createdAt,
	)
	if err != nil {
		return timetrack.Entry{}, err
	}
	e.TaskID = taskID.String
	e.StartedAt = unixMillisToTime(startedAt)
	e.EndedAt = millisToNullableTime(endedAt)
	if minutes.Valid {
		m := int(minutes.Int64)
		e.Minutes = &m
	}
	e.Billable = billable != 0
	e.CreatedAt = unixMillisToTime(createdAt)
	return e, nil
}

// CreateEntry inserts a time entry. The partial unique index on running
// entries turns a duplicate open timer into TIMER_ALREADY_RUNNING.
func (s *Store) CreateEntry(ctx context.Context, e timetrack.Entry) error {
	var minutes sql.NullInt64
	if e.Minutes != nil {
		minutes = sql.NullInt64{Int64: int64(*e.Minutes), Valid: true}
	}
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO time_entries (id, org_id, user_id, project_id, task_id, started_at, ended_at, minutes, note, billable, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.OrgID, e.UserID, e.ProjectID, nullableString(e.TaskID),
		timeToUnixMillis(e.StartedAt), nullableTimeToMillis(e.EndedAt), minutes,
		e.Note, boolToInt(e.Billable), timeToUnixMillis(createdAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.New(apperrors.CodeTimerAlreadyRunning, "timer is already running")
		}
		return fmt.Errorf("create time entry: %w", err)
	}
	return nil
}

// GetEntry loads an org-scoped time entry by ID.
func (s *Store) GetEntry(ctx context.Context, orgID, entryID string) (timetrack.Entry, error) {
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+entryColumns+` FROM time_entries WHERE org_id = ? AND id = ?`,
		orgID, entryID,
	)
	e, err := scanEntry(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return timetrack.Entry{}, apperrors.New(apperrors.CodeNotFound, "time entry not found")
		}
		return timetrack.Entry{}, fmt.Errorf("get time entry: %w", err)
	}
	return e, nil
}

// GetRunningEntry loads the user's open entry.
func (s *Store) GetRunningEntry(ctx context.Context, orgID, userID string) (timetrack.Entry, error) {
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+entryColumns+` FROM time_entries
		 WHERE org_id = ? AND user_id = ? AND ended_at IS NULL`,
		orgID, userID,
	)
	e, err := scanEntry(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return timetrack.Entry{}, apperrors.New(apperrors.CodeNotFound, "no running entry")
		}
		return timetrack.Entry{}, fmt.Errorf("get running entry: %w", err)
	}
	return e, nil
}

// UpdateEntry persists an entry's mutable fields.
func (s *Store) UpdateEntry(ctx context.Context, e timetrack.Entry) error {
	var minutes sql.NullInt64
	if e.Minutes != nil {
		minutes = sql.NullInt64{Int64: int64(*e.Minutes), Valid: true}
	}
	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE time_entries
		 SET task_id = ?, started_at = ?, ended_at = ?, minutes = ?, note = ?, billable = ?
		 WHERE org_id = ? AND id = ?`,
		nullableString(e.TaskID), timeToUnixMillis(e.StartedAt),
		nullableTimeToMillis(e.EndedAt), minutes, e.Note, boolToInt(e.Billable),
		e.OrgID, e.ID,
	)
	if err != nil {
		return fmt.Errorf("update time entry: %w", err)
	}
	return requireRow(result, "time entry not found")
}

// DeleteEntry removes a time entry.
func (s *Store) DeleteEntry(ctx context.Context, orgID, entryID string) error {
	result, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM time_entries WHERE org_id = ? AND id = ?`,
		orgID, entryID,
	)
	if err != nil {
		return fmt.Errorf("delete time entry: %w", err)
	}
	return requireRow(result, "time entry not found")
}

// ListEntries returns an organization's entries matching the filter,
// ordered by start time.
func (s *Store) ListEntries(ctx context.Context, orgID string, filter timetrack.ListFilter) ([]timetrack.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM time_entries WHERE org_id = ?`
	args := []any{orgID}
	if filter.ProjectID != "" {
		query += ` AND project_id = ?`
		args = append(args, filter.ProjectID)
	}
	if filter.UserID != "" {
		query += ` AND user_id = ?`
		args = append(args, filter.UserID)
	}
	if !filter.From.IsZero() {
		query += ` AND started_at >= ?`
		args = append(args, timeToUnixMillis(filter.From))
	}
	if !filter.To.IsZero() {
		query += ` AND started_at < ?`
		args = append(args, timeToUnixMillis(filter.To))
	}
	query += ` ORDER BY started_at, id`

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list time entries: %w", err)
	}
	defer rows.Close()

	var entries []timetrack.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan time entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list time entries: %w", err)
	}
	return entries, nil
}
