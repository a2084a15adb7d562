package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/framehq/frame/internal/org"
	apperrors "github.com/framehq/frame/internal/platform/errors"
)

// CreateOrganization inserts an organization.
func (s *Store) CreateOrganization(ctx context.Context, o org.Organization) error {
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO organizations (id, name, timezone, week_start, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		o.ID, o.Name, o.Timezone, string(o.WeekStart), timeToUnixMillis(o.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create organization: %w", err)
	}
	return nil
}

// GetOrganization loads an organization by ID.
func (s *Store) GetOrganization(ctx context.Context, orgID string) (org.Organization, error) {
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, name, timezone, week_start, created_at
		 FROM organizations WHERE id = ?`,
		orgID,
	)

	var o org.Organization
	var weekStart string
	var createdAt int64
	if err := row.Scan(&o.ID, &o.Name, &o.Timezone, &weekStart, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return org.Organization{}, apperrors.New(apperrors.CodeNotFound, "organization not found")
		}
		return org.Organization{}, fmt.Errorf("get organization: %w", err)
	}
	o.WeekStart = org.WeekStart(weekStart)
	o.CreatedAt = unixMillisToTime(createdAt)
	return o, nil
}

// UpdateOrganization updates organization settings.
func (s *Store) UpdateOrganization(ctx context.Context, o org.Organization) error {
	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE organizations SET name = ?, timezone = ?, week_start = ? WHERE id = ?`,
		o.Name, o.Timezone, string(o.WeekStart), o.ID,
	)
	if err != nil {
		return fmt.Errorf("update organization: %w", err)
	}
	return requireRow(result, "organization not found")
}

// CreateUser inserts a user. Email addresses are unique across the
// system so a user resolves to exactly one account at sign-in.
func (s *Store) CreateUser(ctx context.Context, u org.User) error {
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO users (id, org_id, name, email, role, cost_rate_cents, bill_rate_cents, active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.OrgID, u.Name, u.Email, string(u.Role),
		u.CostRateCents, u.BillRateCents, boolToInt(u.Active), timeToUnixMillis(u.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.New(apperrors.CodeUserEmailTaken, "email is already in use")
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

const userColumns = `id, org_id, name, email, role, cost_rate_cents, bill_rate_cents, active, created_at`

func scanUser(row interface{ Scan(...any) error }) (org.User, error) {
	var u org.User
	var role string
	var active int64
	var createdAt int64
	err := row.Scan(
		&u.ID, &u.OrgID, &u.Name, &u.Email, &role,
		&u.CostRateCents, &u.BillRateCents, &active, &createdAt,
	)
	if err != nil {
		return org.User{}, err
	}
	u.Role = org.Role(role)
	u.Active = active != 0
	u.CreatedAt = unixMillisToTime(createdAt)
	return u, nil
}

// GetUser loads an org-scoped user by ID.
func (s *Store) GetUser(ctx context.Context, orgID, userID string) (org.User, error) {
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+userColumns+` FROM users WHERE org_id = ? AND id = ?`,
		orgID, userID,
	)
	u, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return org.User{}, apperrors.New(apperrors.CodeNotFound, "user not found")
		}
		return org.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetUserByEmail loads a user by normalized email across all orgs.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (org.User, error) {
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`,
		org.NormalizeEmail(email),
	)
	u, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return org.User{}, apperrors.New(apperrors.CodeNotFound, "user not found")
		}
		return org.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// ListUsers returns all users in an organization ordered by name.
func (s *Store) ListUsers(ctx context.Context, orgID string) ([]org.User, error) {
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT `+userColumns+` FROM users WHERE org_id = ? ORDER BY name, id`,
		orgID,
	)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []org.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// UpdateUser updates a user's profile, role, rates, and active flag.
func (s *Store) UpdateUser(ctx context.Context, u org.User) error {
	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE users
		 SET name = ?, email = ?, role = ?, cost_rate_cents = ?, bill_rate_cents = ?, active = ?
		 WHERE org_id = ? AND id = ?`,
		u.Name, u.Email, string(u.Role), u.CostRateCents, u.BillRateCents,
		boolToInt(u.Active), u.OrgID, u.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.New(apperrors.CodeUserEmailTaken, "email is already in use")
		}
		return fmt.Errorf("update user: %w", err)
	}
	return requireRow(result, "user not found")
}

// CreateInvitation inserts an invitation.
func (s *Store) CreateInvitation(ctx context.Context, inv org.Invitation) error {
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO invitations (id, org_id, email, role, token, invited_by, created_at, expires_at, accepted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.OrgID, inv.Email, string(inv.Role), inv.Token, inv.InvitedBy,
		timeToUnixMillis(inv.CreatedAt), timeToUnixMillis(inv.ExpiresAt),
		nullableTimeToMillis(inv.AcceptedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.New(apperrors.CodeInviteDuplicate, "invitation already pending for this email")
		}
		return fmt.Errorf("create invitation: %w", err)
	}
	return nil
}

const invitationColumns = `id, org_id, email, role, token, invited_by, created_at, expires_at, accepted_at`

func scanInvitation(row interface{ Scan(...any) error }) (org.Invitation, error) {
	var inv org.Invitation
	var role string
	var createdAt, expiresAt int64
	var acceptedAt sql.NullInt64
	err := row.Scan(
		&inv.ID, &inv.OrgID, &inv.Email, &role, &inv.Token, &inv.InvitedBy,
		&createdAt, &expiresAt, &acceptedAt,
	)
	if err != nil {
		return org.Invitation{}, err
	}
	inv.Role = org.Role(role)
	inv.CreatedAt = unixMillisToTime(createdAt)
	inv.ExpiresAt = unixMillisToTime(expiresAt)
	inv.AcceptedAt = millisToNullableTime(acceptedAt)
	return inv, nil
}

// GetInvitationByToken loads an invitation by its one-time token.
func (s *Store) GetInvitationByToken(ctx context.Context, token string) (org.Invitation, error) {
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+invitationColumns+` FROM invitations WHERE token = ?`,
		token,
	)
	inv, err := scanInvitation(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return org.Invitation{}, apperrors.New(apperrors.CodeNotFound, "invitation not found")
		}
		return org.Invitation{}, fmt.Errorf("get invitation: %w", err)
	}
	return inv, nil
}

// GetPendingInvitationByEmail finds an open invitation for an email in
// an organization.
func (s *Store) GetPendingInvitationByEmail(ctx context.Context, orgID, email string) (org.Invitation, error) {
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+invitationColumns+` FROM invitations
		 WHERE org_id = ? AND email = ? AND accepted_at IS NULL`,
		orgID, org.NormalizeEmail(email),
	)
	inv, err := scanInvitation(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return org.Invitation{}, apperrors.New(apperrors.CodeNotFound, "invitation not found")
		}
		return org.Invitation{}, fmt.Errorf("get pending invitation: %w", err)
	}
	return inv, nil
}

// ListInvitations returns an organization's invitations, newest first.
func (s *Store) ListInvitations(ctx context.Context, orgID string) ([]org.Invitation, error) {
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT `+invitationColumns+` FROM invitations
		 WHERE org_id = ? ORDER BY created_at DESC, id`,
		orgID,
	)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	defer rows.Close()

	var invitations []org.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invitation: %w", err)
		}
		invitations = append(invitations, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	return invitations, nil
}

// UpdateInvitation persists invitation acceptance.
func (s *Store) UpdateInvitation(ctx context.Context, inv org.Invitation) error {
	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE invitations SET accepted_at = ? WHERE id = ?`,
		nullableTimeToMillis(inv.AcceptedAt), inv.ID,
	)
	if err != nil {
		return fmt.Errorf("update invitation: %w", err)
	}
	return requireRow(result, "invitation not found")
}

// DeleteInvitation removes an invitation, revoking its token.
func (s *Store) DeleteInvitation(ctx context.Context, orgID, invitationID string) error {
	result, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM invitations WHERE org_id = ? AND id = ?`,
		orgID, invitationID,
	)
	if err != nil {
		return fmt.Errorf("delete invitation: %w", err)
	}
	return requireRow(result, "invitation not found")
}

// requireRow converts a zero-row update into a NOT_FOUND error.
func requireRow(result sql.Result, message string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.New(apperrors.CodeNotFound, message)
	}
	return nil
}
