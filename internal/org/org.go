package org

import (
	"strings"
	"time"

	apperrors "github.com/framehq/frame/internal/platform/errors"
)

// WeekStart is the day an organization's planning week begins on.
type WeekStart string

const (
	WeekStartMonday WeekStart = "Mon"
	WeekStartSunday WeekStart = "Sun"
)

// Organization is the tenancy unit. Every other record carries its ID.
type Organization struct {
	ID        string
	Name      string
	Timezone  string
	WeekStart WeekStart
	CreatedAt time.Time
}

// NewOrganization validates and constructs an organization.
func NewOrganization(id, name, timezone string, weekStart WeekStart) (Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Organization{}, apperrors.New(apperrors.CodeOrgNameEmpty, "organization name is required")
	}
	if timezone == "" {
		timezone = "UTC"
	}
	if weekStart != WeekStartSunday {
		weekStart = WeekStartMonday
	}
	return Organization{
		ID:        id,
		Name:      name,
		Timezone:  timezone,
		WeekStart: weekStart,
	}, nil
}

// User is an organization member.
type User struct {
	ID            string
	OrgID         string
	Name          string
	Email         string
	Role          Role
	CostRateCents int64
	BillRateCents int64
	Active        bool
	CreatedAt     time.Time
}

// NewUser validates and constructs a user.
func NewUser(id, orgID, name, email string, role Role) (User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return User{}, apperrors.New(apperrors.CodeUserNameEmpty, "user name is required")
	}
	email = NormalizeEmail(email)
	if email == "" {
		return User{}, apperrors.New(apperrors.CodeUserEmailEmpty, "user email is required")
	}
	if _, err := ParseRole(string(role)); err != nil {
		return User{}, err
	}
	return User{
		ID:     id,
		OrgID:  orgID,
		Name:   name,
		Email:  email,
		Role:   role,
		Active: true,
	}, nil
}

// NormalizeEmail trims and lowercases an email address for comparisons.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
