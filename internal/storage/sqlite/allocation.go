package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/framehq/frame/internal/planning"
)

// UpsertAllocation writes one planning cell. Zero planned hours deletes
// the row so the grid stays sparse: absence means zero.
func (s *Store) UpsertAllocation(ctx context.Context, a planning.Allocation) error {
	if a.PlannedHours == 0 {
		_, err := s.sqlDB.ExecContext(
			ctx,
			`DELETE FROM allocations WHERE user_id = ? AND project_id = ? AND week_start = ?`,
			a.UserID, a.ProjectID, timeToUnixMillis(a.WeekStart),
		)
		if err != nil {
			return fmt.Errorf("delete allocation: %w", err)
		}
		return nil
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO allocations (id, org_id, user_id, project_id, week_start, planned_hours, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id, project_id, week_start)
		 DO UPDATE SET planned_hours = excluded.planned_hours`,
		a.ID, a.OrgID, a.UserID, a.ProjectID,
		timeToUnixMillis(a.WeekStart), a.PlannedHours, timeToUnixMillis(a.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert allocation: %w", err)
	}
	return nil
}

// ListAllocations returns an organization's allocations for week starts
// in [from, to), ordered by user, week, and project.
func (s *Store) ListAllocations(ctx context.Context, orgID string, from, to time.Time) ([]planning.Allocation, error) {
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, org_id, user_id, project_id, week_start, planned_hours, created_at
		 FROM allocations
		 WHERE org_id = ? AND week_start >= ? AND week_start < ?
		 ORDER BY user_id, week_start, project_id`,
		orgID, timeToUnixMillis(from), timeToUnixMillis(to),
	)
	if err != nil {
		return nil, fmt.Errorf("list allocations: %w", err)
	}
	defer rows.Close()

	var allocations []planning.Allocation
	for rows.Next() {
		var a planning.Allocation
		var weekStart int64
		var createdAt int64
		err := rows.Scan(&a.ID, &a.OrgID, &a.UserID, &a.ProjectID, &weekStart, &a.PlannedHours, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("scan allocation: %w", err)
		}
		a.WeekStart = unixMillisToTime(weekStart)
		a.CreatedAt = unixMillisToTime(createdAt)
		allocations = append(allocations, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list allocations: %w", err)
	}
	return allocations, nil
}
