package org

import "testing"

func TestRolePermissionsAreCumulative(t *testing.T) {
	// Every member permission must be held by managers and owners, and
	// every manager permission by owners.
	for _, perm := range Permissions(RoleMember) {
		if !HasPermission(RoleManager, perm) {
			t.Errorf("manager missing member permission %s", perm)
		}
		if !HasPermission(RoleOwner, perm) {
			t.Errorf("owner missing member permission %s", perm)
		}
	}
	for _, perm := range Permissions(RoleManager) {
		if !HasPermission(RoleOwner, perm) {
			t.Errorf("owner missing manager permission %s", perm)
		}
	}
}

func TestMemberPermissionBoundaries(t *testing.T) {
	cases := []struct {
		role Role
		perm Permission
		want bool
	}{
		{RoleMember, PermTimeEntryCreate, true},
		{RoleMember, PermTimeEntryReadAll, false},
		{RoleMember, PermPlanningWrite, false},
		{RoleMember, PermProfitReadDetailed, false},
		{RoleManager, PermProfitReadDetailed, true},
		{RoleManager, PermTeamManage, true},
		{RoleMember, PermTeamInvite, false},
		{RoleManager, PermTeamInvite, true},
		{RoleMember, PermOrgUpdate, false},
		{RoleManager, PermOrgUpdate, false},
		{RoleManager, PermTimeEntryDeleteAll, false},
		{RoleOwner, PermTimeEntryDeleteAll, true},
		{RoleOwner, PermOrgUpdate, true},
	}

	for _, tc := range cases {
		if got := HasPermission(tc.role, tc.perm); got != tc.want {
			t.Errorf("HasPermission(%s, %s) = %v, want %v", tc.role, tc.perm, got, tc.want)
		}
	}
}

func TestPermissionsReturnsCopy(t *testing.T) {
	perms := Permissions(RoleMember)
	if len(perms) == 0 {
		t.Fatal("expected member permissions")
	}
	perms[0] = Permission("mutated")
	if Permissions(RoleMember)[0] == Permission("mutated") {
		t.Fatal("Permissions must not expose internal state")
	}
}

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"member", "manager", "owner"} {
		if _, err := ParseRole(valid); err != nil {
			t.Errorf("ParseRole(%q): %v", valid, err)
		}
	}
	if _, err := ParseRole("admin"); err == nil {
		t.Error("ParseRole(admin) should fail")
	}
}

func TestAccessHelpers(t *testing.T) {
	if ManagerAccess(RoleMember) {
		t.Error("member should not have manager access")
	}
	if !ManagerAccess(RoleManager) || !ManagerAccess(RoleOwner) {
		t.Error("manager and owner should have manager access")
	}
	if OwnerAccess(RoleManager) {
		t.Error("manager should not have owner access")
	}
	if !OwnerAccess(RoleOwner) {
		t.Error("owner should have owner access")
	}
}
