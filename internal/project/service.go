package project

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/framehq/frame/internal/org"
	apperrors "github.com/framehq/frame/internal/platform/errors"
)

// Store is the persistence surface the project service needs.
type Store interface {
	CreateClient(ctx context.Context, c Client) error
	GetClient(ctx context.Context, orgID, clientID string) (Client, error)
	ListClients(ctx context.Context, orgID string) ([]Client, error)
	CreateProject(ctx context.Context, p Project) error
	GetProject(ctx context.Context, orgID, projectID string) (Project, error)
	ListProjects(ctx context.Context, orgID string) ([]Project, error)
	UpdateProject(ctx context.Context, p Project) error
	CreateTask(ctx context.Context, t Task) error
	GetTask(ctx context.Context, orgID, taskID string) (Task, error)
	ListTasks(ctx context.Context, orgID, projectID string) ([]Task, error)
	DeleteTask(ctx context.Context, orgID, taskID string) error
}

// Service manages projects, clients, and tasks.
type Service struct {
	store Store
	now   func() time.Time
	newID func() string
}

// NewService creates a project service.
func NewService(store Store) *Service {
	return &Service{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// CreateInput describes a new project.
type CreateInput struct {
	ClientID             string
	Name                 string
	Budget               *Budget
	DefaultBillRateCents int64
	IsRetainer           bool
}

// Create validates and persists a project. Manager access required.
func (s *Service) Create(ctx context.Context, actor org.User, in CreateInput) (Project, error) {
	if !org.HasPermission(actor.Role, org.PermProjectCreate) {
		return Project{}, apperrors.New(apperrors.CodePermissionDenied, "creating projects requires manager access")
	}
	if in.ClientID != "" {
		if _, err := s.store.GetClient(ctx, actor.OrgID, in.ClientID); err != nil {
			return Project{}, err
		}
	}

	p, err := New(s.newID(), actor.OrgID, in.ClientID, in.Name, in.Budget, in.DefaultBillRateCents, in.IsRetainer)
	if err != nil {
		return Project{}, err
	}
	p.CreatedAt = s.now().UTC()
	if err := s.store.CreateProject(ctx, p); err != nil {
		return Project{}, err
	}
	return p, nil
}

// UpdateInput carries the manager-editable fields of a project. Nil
// pointers leave the field unchanged.
type UpdateInput struct {
	ClientID             *string
	Name                 *string
	Status               *string
	DefaultBillRateCents *int64
	IsRetainer           *bool
}

// Update applies a partial update to a project.
func (s *Service) Update(ctx context.Context, actor org.User, projectID string, in UpdateInput) (Project, error) {
	if !org.HasPermission(actor.Role, org.PermProjectUpdate) {
		return Project{}, apperrors.New(apperrors.CodePermissionDenied, "updating projects requires manager access")
	}

	p, err := s.store.GetProject(ctx, actor.OrgID, projectID)
	if err != nil {
		return Project{}, err
	}

	if in.ClientID != nil {
		if *in.ClientID != "" {
			if _, err := s.store.GetClient(ctx, actor.OrgID, *in.ClientID); err != nil {
				return Project{}, err
			}
		}
		p.ClientID = *in.ClientID
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Project{}, apperrors.New(apperrors.CodeProjectNameEmpty, "project name is required")
		}
		p.Name = name
	}
	if in.Status != nil {
		status, err := ParseStatus(*in.Status)
		if err != nil {
			return Project{}, err
		}
		p.Status = status
	}
	if in.DefaultBillRateCents != nil {
		if *in.DefaultBillRateCents < 0 {
			return Project{}, apperrors.New(apperrors.CodeRateInvalid, "default bill rate must not be negative")
		}
		p.DefaultBillRateCents = *in.DefaultBillRateCents
	}
	if in.IsRetainer != nil {
		p.IsRetainer = *in.IsRetainer
	}

	if err := s.store.UpdateProject(ctx, p); err != nil {
		return Project{}, err
	}
	return p, nil
}

// SetBudget replaces a project's budget. A nil budget clears it.
func (s *Service) SetBudget(ctx context.Context, actor org.User, projectID string, budget *Budget) (Project, error) {
	if !org.HasPermission(actor.Role, org.PermProjectUpdate) {
		return Project{}, apperrors.New(apperrors.CodePermissionDenied, "updating budgets requires manager access")
	}
	if err := ValidateBudget(budget); err != nil {
		return Project{}, err
	}

	p, err := s.store.GetProject(ctx, actor.OrgID, projectID)
	if err != nil {
		return Project{}, err
	}
	p.Budget = budget
	if err := s.store.UpdateProject(ctx, p); err != nil {
		return Project{}, err
	}
	return p, nil
}

// Get loads one project for any org member.
func (s *Service) Get(ctx context.Context, actor org.User, projectID string) (Project, error) {
	return s.store.GetProject(ctx, actor.OrgID, projectID)
}

// List returns the org's projects.
func (s *Service) List(ctx context.Context, actor org.User) ([]Project, error) {
	return s.store.ListProjects(ctx, actor.OrgID)
}

// CreateClient persists a client name.
func (s *Service) CreateClient(ctx context.Context, actor org.User, name string) (Client, error) {
	if !org.HasPermission(actor.Role, org.PermProjectCreate) {
		return Client{}, apperrors.New(apperrors.CodePermissionDenied, "creating clients requires manager access")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Client{}, apperrors.New(apperrors.CodeProjectNameEmpty, "client name is required")
	}
	c := Client{
		ID:        s.newID(),
		OrgID:     actor.OrgID,
		Name:      name,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.CreateClient(ctx, c); err != nil {
		return Client{}, err
	}
	return c, nil
}

// ListClients returns the org's clients.
func (s *Service) ListClients(ctx context.Context, actor org.User) ([]Client, error) {
	return s.store.ListClients(ctx, actor.OrgID)
}

// CreateTask adds a task to an active project.
func (s *Service) CreateTask(ctx context.Context, actor org.User, projectID, name string) (Task, error) {
	if !org.HasPermission(actor.Role, org.PermProjectUpdate) {
		return Task{}, apperrors.New(apperrors.CodePermissionDenied, "creating tasks requires manager access")
	}
	p, err := s.store.GetProject(ctx, actor.OrgID, projectID)
	if err != nil {
		return Task{}, err
	}
	if p.Status == StatusArchived {
		return Task{}, apperrors.New(apperrors.CodeProjectArchived, "cannot add tasks to an archived project")
	}

	t, err := NewTask(s.newID(), actor.OrgID, projectID, name)
	if err != nil {
		return Task{}, err
	}
	t.CreatedAt = s.now().UTC()
	if err := s.store.CreateTask(ctx, t); err != nil {
		return Task{}, err
	}
	return t, nil
}

// ListTasks returns a project's tasks for any org member.
func (s *Service) ListTasks(ctx context.Context, actor org.User, projectID string) ([]Task, error) {
	if _, err := s.store.GetProject(ctx, actor.OrgID, projectID); err != nil {
		return nil, err
	}
	return s.store.ListTasks(ctx, actor.OrgID, projectID)
}

// DeleteTask removes a task.
func (s *Service) DeleteTask(ctx context.Context, actor org.User, taskID string) error {
	if !org.HasPermission(actor.Role, org.PermProjectUpdate) {
		return apperrors.New(apperrors.CodePermissionDenied, "deleting tasks requires manager access")
	}
	if _, err := s.store.GetTask(ctx, actor.OrgID, taskID); err != nil {
		return err
	}
	return s.store.DeleteTask(ctx, actor.OrgID, taskID)
}
