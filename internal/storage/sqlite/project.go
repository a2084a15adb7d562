package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	apperrors "github.com/framehq/frame/internal/platform/errors"
	"github.com/framehq/frame/internal/project"
)

// CreateClient inserts a client.
func (s *Store) CreateClient(ctx context.Context, c project.Client) error {
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO clients (id, org_id, name, created_at) VALUES (?, ?, ?, ?)`,
		c.ID, c.OrgID, c.Name, timeToUnixMillis(c.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	return nil
}

// GetClient loads an org-scoped client by ID.
func (s *Store) GetClient(ctx context.Context, orgID, clientID string) (project.Client, error) {
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, org_id, name, created_at FROM clients WHERE org_id = ? AND id = ?`,
		orgID, clientID,
	)

	var c project.Client
	var createdAt int64
	if err := row.Scan(&c.ID, &c.OrgID, &c.Name, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return project.Client{}, apperrors.New(apperrors.CodeNotFound, "client not found")
		}
		return project.Client{}, fmt.Errorf("get client: %w", err)
	}
	c.CreatedAt = unixMillisToTime(createdAt)
	return c, nil
}

// ListClients returns an organization's clients ordered by name.
func (s *Store) ListClients(ctx context.Context, orgID string) ([]project.Client, error) {
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, org_id, name, created_at FROM clients WHERE org_id = ? ORDER BY name, id`,
		orgID,
	)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var clients []project.Client
	for rows.Next() {
		var c project.Client
		var createdAt int64
		if err := rows.Scan(&c.ID, &c.OrgID, &c.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		c.CreatedAt = unixMillisToTime(createdAt)
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return clients, nil
}

const projectColumns = `id, org_id, client_id, name, status, budget_type, budget_value, default_bill_rate_cents, is_retainer, created_at`

func scanProject(row interface{ Scan(...any) error }) (project.Project, error) {
	var p project.Project
	var clientID sql.NullString
	var status string
	var budgetType sql.NullString
	var budgetValue sql.NullFloat64
	var isRetainer int64
	var createdAt int64
	err := row.Scan(
		&p.ID, &p.OrgID, &clientID, &p.Name, &status,
		&budgetType, &budgetValue, &p.DefaultBillRateCents, &isRetainer, &createdAt,
	)
	if err != nil {
		return project.Project{}, err
	}
	p.ClientID = clientID.String
	p.Status = project.Status(status)
	if budgetType.Valid {
		p.Budget = &project.Budget{
			Type:  project.BudgetType(budgetType.String),
			Value: budgetValue.Float64,
		}
	}
	p.IsRetainer = isRetainer != 0
	p.CreatedAt = unixMillisToTime(createdAt)
	return p, nil
}

func nullableString(value string) sql.NullString {
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}

// CreateProject inserts a project.
func (s *Store) CreateProject(ctx context.Context, p project.Project) error {
	var budgetType sql.NullString
	var budgetValue sql.NullFloat64
	if p.Budget != nil {
		budgetType = sql.NullString{String: string(p.Budget.Type), Valid: true}
		budgetValue = sql.NullFloat64{Float64: p.Budget.Value, Valid: true}
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO projects (id, org_id, client_id, name, status, budget_type, budget_value, default_bill_rate_cents, is_retainer, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.OrgID, nullableString(p.ClientID), p.Name, string(p.Status),
		budgetType, budgetValue, p.DefaultBillRateCents, boolToInt(p.IsRetainer),
		timeToUnixMillis(p.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

// GetProject loads an org-scoped project by ID.
func (s *Store) GetProject(ctx context.Context, orgID, projectID string) (project.Project, error) {
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+projectColumns+` FROM projects WHERE org_id = ? AND id = ?`,
		orgID, projectID,
	)
	p, err := scanProject(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return project.Project{}, apperrors.New(apperrors.CodeNotFound, "project not found")
		}
		return project.Project{}, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

// ListProjects returns an organization's projects ordered by name.
func (s *Store) ListProjects(ctx context.Context, orgID string) ([]project.Project, error) {
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT `+projectColumns+` FROM projects WHERE org_id = ? ORDER BY name, id`,
		orgID,
	)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []project.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// UpdateProject updates a project's fields, including clearing or
// setting its budget.
func (s *Store) UpdateProject(ctx context.Context, p project.Project) error {
	var budgetType sql.NullString
	var budgetValue sql.NullFloat64
	if p.Budget != nil {
		budgetType = sql.NullString{String: string(p.Budget.Type), Valid: true}
		budgetValue = sql.NullFloat64{Float64: p.Budget.Value, Valid: true}
	}
	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE projects
		 SET client_id = ?, name = ?, status = ?, budget_type = ?, budget_value = ?, default_bill_rate_cents = ?, is_retainer = ?
		 WHERE org_id = ? AND id = ?`,
		nullableString(p.ClientID), p.Name, string(p.Status),
		budgetType, budgetValue, p.DefaultBillRateCents, boolToInt(p.IsRetainer),
		p.OrgID, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return requireRow(result, "project not found")
}

// CreateTask inserts a task.
func (s *Store) CreateTask(ctx context.Context, t project.Task) error {
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO tasks (id, org_id, project_id, name, active, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.OrgID, t.ProjectID, t.Name, boolToInt(t.Active), timeToUnixMillis(t.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func scanTask(row interface{ Scan(...any) error }) (project.Task, error) {
	var t project.Task
	var active int64
	var createdAt int64
	if err := row.Scan(&t.ID, &t.OrgID, &t.ProjectID, &t.Name, &active, &createdAt); err != nil {
		return project.Task{}, err
	}
	t.Active = active != 0
	t.CreatedAt = unixMillisToTime(createdAt)
	return t, nil
}

// GetTask loads an org-scoped task by ID.
func (s *Store) GetTask(ctx context.Context, orgID, taskID string) (project.Task, error) {
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, org_id, project_id, name, active, created_at FROM tasks WHERE org_id = ? AND id = ?`,
		orgID, taskID,
	)
	t, err := scanTask(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return project.Task{}, apperrors.New(apperrors.CodeNotFound, "task not found")
		}
		return project.Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// ListTasks returns a project's tasks ordered by name.
func (s *Store) ListTasks(ctx context.Context, orgID, projectID string) ([]project.Task, error) {
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, org_id, project_id, name, active, created_at
		 FROM tasks WHERE org_id = ? AND project_id = ? ORDER BY name, id`,
		orgID, projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []project.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// DeleteTask removes a task.
func (s *Store) DeleteTask(ctx context.Context, orgID, taskID string) error {
	result, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM tasks WHERE org_id = ? AND id = ?`,
		orgID, taskID,
	)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return requireRow(result, "task not found")
}
