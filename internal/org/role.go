// Package org holds the multi-tenant core: organizations, users, roles,
// permissions, and invitation-based onboarding.
package org

import (
	apperrors "github.com/framehq/frame/internal/platform/errors"
)

// Role is a user's role within an organization.
type Role string

const (
	RoleMember  Role = "member"
	RoleManager Role = "manager"
	RoleOwner   Role = "owner"
)

// ParseRole validates and normalizes a role string.
func ParseRole(value string) (Role, error) {
	switch Role(value) {
	case RoleMember, RoleManager, RoleOwner:
		return Role(value), nil
	}
	return "", apperrors.WithMetadata(apperrors.CodeUserInvalidRole, "invalid role", map[string]string{"Role": value})
}

// ManagerAccess reports whether the role carries manager-level access.
func ManagerAccess(role Role) bool {
	return role == RoleManager || role == RoleOwner
}

// OwnerAccess reports whether the role carries owner-level access.
func OwnerAccess(role Role) bool {
	return role == RoleOwner
}
