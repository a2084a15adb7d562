package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/framehq/frame/internal/billing"
	"github.com/framehq/frame/internal/org"
)

// SetUserRateOverride upserts a per-user bill rate for a project.
func (s *Store) SetUserRateOverride(ctx context.Context, projectID, userID string, billRateCents int64) error {
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO rate_user_overrides (project_id, user_id, bill_rate_cents, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(project_id, user_id) DO UPDATE SET bill_rate_cents = excluded.bill_rate_cents`,
		projectID, userID, billRateCents, time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("set user rate override: %w", err)
	}
	return nil
}

// DeleteUserRateOverride removes a per-user bill rate. Missing rows are
// a no-op so clearing is idempotent.
func (s *Store) DeleteUserRateOverride(ctx context.Context, projectID, userID string) error {
	_, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM rate_user_overrides WHERE project_id = ? AND user_id = ?`,
		projectID, userID,
	)
	if err != nil {
		return fmt.Errorf("delete user rate override: %w", err)
	}
	return nil
}

// SetRoleRateOverride upserts a per-role bill rate for a project.
func (s *Store) SetRoleRateOverride(ctx context.Context, projectID string, role org.Role, billRateCents int64) error {
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO rate_role_overrides (project_id, role, bill_rate_cents, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(project_id, role) DO UPDATE SET bill_rate_cents = excluded.bill_rate_cents`,
		projectID, string(role), billRateCents, time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("set role rate override: %w", err)
	}
	return nil
}

// DeleteRoleRateOverride removes a per-role bill rate.
func (s *Store) DeleteRoleRateOverride(ctx context.Context, projectID string, role org.Role) error {
	_, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM rate_role_overrides WHERE project_id = ? AND role = ?`,
		projectID, string(role),
	)
	if err != nil {
		return fmt.Errorf("delete role rate override: %w", err)
	}
	return nil
}

// GetRateBook loads the full rate cascade for an organization: user
// overrides, role overrides, and project default rates.
func (s *Store) GetRateBook(ctx context.Context, orgID string) (billing.RateBook, error) {
	book := billing.RateBook{
		UserOverrides:   make(map[billing.UserRateKey]int64),
		RoleOverrides:   make(map[billing.RoleRateKey]int64),
		ProjectDefaults: make(map[string]int64),
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT o.project_id, o.user_id, o.bill_rate_cents
		 FROM rate_user_overrides o
		 JOIN projects p ON p.id = o.project_id
		 WHERE p.org_id = ?`,
		orgID,
	)
	if err != nil {
		return billing.RateBook{}, fmt.Errorf("list user rate overrides: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var key billing.UserRateKey
		var rate int64
		if err := rows.Scan(&key.ProjectID, &key.UserID, &rate); err != nil {
			return billing.RateBook{}, fmt.Errorf("scan user rate override: %w", err)
		}
		book.UserOverrides[key] = rate
	}
	if err := rows.Err(); err != nil {
		return billing.RateBook{}, fmt.Errorf("list user rate overrides: %w", err)
	}

	roleRows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT o.project_id, o.role, o.bill_rate_cents
		 FROM rate_role_overrides o
		 JOIN projects p ON p.id = o.project_id
		 WHERE p.org_id = ?`,
		orgID,
	)
	if err != nil {
		return billing.RateBook{}, fmt.Errorf("list role rate overrides: %w", err)
	}
	defer roleRows.Close()
	for roleRows.Next() {
		var key billing.RoleRateKey
		var role string
		var rate int64
		if err := roleRows.Scan(&key.ProjectID, &role, &rate); err != nil {
			return billing.RateBook{}, fmt.Errorf("scan role rate override: %w", err)
		}
		key.Role = org.Role(role)
		book.RoleOverrides[key] = rate
	}
	if err := roleRows.Err(); err != nil {
		return billing.RateBook{}, fmt.Errorf("list role rate overrides: %w", err)
	}

	defaultRows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, default_bill_rate_cents FROM projects WHERE org_id = ? AND default_bill_rate_cents > 0`,
		orgID,
	)
	if err != nil {
		return billing.RateBook{}, fmt.Errorf("list project default rates: %w", err)
	}
	defer defaultRows.Close()
	for defaultRows.Next() {
		var projectID string
		var rate int64
		if err := defaultRows.Scan(&projectID, &rate); err != nil {
			return billing.RateBook{}, fmt.Errorf("scan project default rate: %w", err)
		}
		book.ProjectDefaults[projectID] = rate
	}
	if err := defaultRows.Err(); err != nil {
		return billing.RateBook{}, fmt.Errorf("list project default rates: %w", err)
	}

	return book, nil
}
