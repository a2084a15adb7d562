// Package billing implements rate resolution and project profitability.
package billing

import "github.com/framehq/frame/internal/org"

// UserRateKey identifies a per-user project rate override.
type UserRateKey struct {
	ProjectID string
	UserID    string
}

// RoleRateKey identifies a per-role project rate override.
type RoleRateKey struct {
	ProjectID string
	Role      org.Role
}

// RateBook is the preloaded rate state for one organization: user
// overrides, role overrides, and project default rates. It is read-only
// and safe to share across goroutines.
type RateBook struct {
	UserOverrides   map[UserRateKey]int64
	RoleOverrides   map[RoleRateKey]int64
	ProjectDefaults map[string]int64
}

// ResolveBillRate returns the billing rate in cents for a user's work on
// a project. Precedence is strict and the first match wins: user-level
// override, then role-level override, then the project default. Absence
// at every tier resolves to zero.
func (b RateBook) ResolveBillRate(projectID, userID string, role org.Role) int64 {
	if rate, ok := b.UserOverrides[UserRateKey{ProjectID: projectID, UserID: userID}]; ok {
		return rate
	}
	if rate, ok := b.RoleOverrides[RoleRateKey{ProjectID: projectID, Role: role}]; ok {
		return rate
	}
	return b.ProjectDefaults[projectID]
}
