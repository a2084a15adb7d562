package org

// Permission names a guarded capability.
type Permission string

const (
	// Time entries
	PermTimeEntryCreate    Permission = "time:entry:create"
	PermTimeEntryReadOwn   Permission = "time:entry:read:own"
	PermTimeEntryReadAll   Permission = "time:entry:read:all"
	PermTimeEntryUpdateOwn Permission = "time:entry:update:own"
	PermTimeEntryUpdateAll Permission = "time:entry:update:all"
	PermTimeEntryDeleteOwn Permission = "time:entry:delete:own"
	PermTimeEntryDeleteAll Permission = "time:entry:delete:all"

	// Projects
	PermProjectCreate Permission = "project:create"
	PermProjectRead   Permission = "project:read"
	PermProjectUpdate Permission = "project:update"
	PermProjectDelete Permission = "project:delete"

	// Planning
	PermPlanningRead  Permission = "planning:read"
	PermPlanningWrite Permission = "planning:write"

	// Profitability
	PermProfitReadBasic    Permission = "profit:read:basic"
	PermProfitReadDetailed Permission = "profit:read:detailed"

	// Team management
	PermTeamRead   Permission = "team:read"
	PermTeamInvite Permission = "team:invite"
	PermTeamManage Permission = "team:manage"

	// Organization
	PermOrgRead   Permission = "org:read"
	PermOrgUpdate Permission = "org:update"
)

// Role permission sets are built in dependency order: member first, then
// manager extending member, then owner extending manager. Each list is an
// independent value; no list references itself during construction.
var memberPermissions = []Permission{
	PermTimeEntryCreate,
	PermTimeEntryReadOwn,
	PermTimeEntryUpdateOwn,
	PermTimeEntryDeleteOwn,
	PermProjectRead,
	PermOrgRead,
}

var managerPermissions = append(append([]Permission{}, memberPermissions...),
	PermTimeEntryReadAll,
	PermTimeEntryUpdateAll,
	PermPlanningRead,
	PermPlanningWrite,
	PermProfitReadBasic,
	PermProfitReadDetailed,
	PermTeamRead,
	PermTeamInvite,
	PermTeamManage,
	PermProjectCreate,
	PermProjectUpdate,
)

var ownerPermissions = append(append([]Permission{}, managerPermissions...),
	PermTimeEntryDeleteAll,
	PermProjectDelete,
	PermOrgUpdate,
)

var rolePermissions = map[Role][]Permission{
	RoleMember:  memberPermissions,
	RoleManager: managerPermissions,
	RoleOwner:   ownerPermissions,
}

// HasPermission reports whether a role grants the given permission.
func HasPermission(role Role, permission Permission) bool {
	for _, granted := range rolePermissions[role] {
		if granted == permission {
			return true
		}
	}
	return false
}

// Permissions returns a copy of the permission list for a role.
func Permissions(role Role) []Permission {
	granted := rolePermissions[role]
	out := make([]Permission, len(granted))
	copy(out, granted)
	return out
}
