// Package project holds projects, clients, tasks, and budget rules.
package project

import (
	"strings"
	"time"

	apperrors "github.com/framehq/frame/internal/platform/errors"
)

// Status is a project's lifecycle state.
type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

// ParseStatus validates and normalizes a status string.
func ParseStatus(value string) (Status, error) {
	switch Status(value) {
	case StatusActive, StatusArchived:
		return Status(value), nil
	}
	return "", apperrors.WithMetadata(apperrors.CodeProjectInvalidStatus, "invalid project status", map[string]string{"Status": value})
}

// BudgetType distinguishes hour budgets from amount budgets.
type BudgetType string

const (
	BudgetHours  BudgetType = "hours"
	BudgetAmount BudgetType = "amount"
)

// Budget is an optional project budget. Type and Value are both set or
// both absent; a partially-set budget is invalid.
type Budget struct {
	Type  BudgetType
	Value float64
}

// Project is an org-scoped body of billable (or internal) work.
type Project struct {
	ID                   string
	OrgID                string
	ClientID             string // optional
	Name                 string
	Status               Status
	Budget               *Budget
	DefaultBillRateCents int64
	IsRetainer           bool
	CreatedAt            time.Time
}

// New validates and constructs a project.
func New(id, orgID, clientID, name string, budget *Budget, defaultBillRateCents int64, isRetainer bool) (Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Project{}, apperrors.New(apperrors.CodeProjectNameEmpty, "project name is required")
	}
	if err := ValidateBudget(budget); err != nil {
		return Project{}, err
	}
	if defaultBillRateCents < 0 {
		return Project{}, apperrors.New(apperrors.CodeRateInvalid, "default bill rate must not be negative")
	}
	return Project{
		ID:                   id,
		OrgID:                orgID,
		ClientID:             clientID,
		Name:                 name,
		Status:               StatusActive,
		Budget:               budget,
		DefaultBillRateCents: defaultBillRateCents,
		IsRetainer:           isRetainer,
	}, nil
}

// ValidateBudget enforces the both-or-neither budget invariant.
func ValidateBudget(budget *Budget) error {
	if budget == nil {
		return nil
	}
	switch budget.Type {
	case BudgetHours, BudgetAmount:
	default:
		return apperrors.WithMetadata(apperrors.CodeProjectInvalidBudget, "invalid budget type", map[string]string{"Type": string(budget.Type)})
	}
	if budget.Value <= 0 {
		return apperrors.New(apperrors.CodeProjectInvalidBudget, "budget value must be positive")
	}
	return nil
}

// Client is an org-scoped client name projects can be grouped under.
type Client struct {
	ID        string
	OrgID     string
	Name      string
	CreatedAt time.Time
}

// Task is a project-scoped work item time entries can point at.
type Task struct {
	ID        string
	OrgID     string
	ProjectID string
	Name      string
	Active    bool
	CreatedAt time.Time
}

// NewTask validates and constructs a task.
func NewTask(id, orgID, projectID, name string) (Task, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Task{}, apperrors.New(apperrors.CodeTaskNameEmpty, "task name is required")
	}
	return Task{
		ID:        id,
		OrgID:     orgID,
		ProjectID: projectID,
		Name:      name,
		Active:    true,
	}, nil
}
