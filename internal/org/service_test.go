package org

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	apperrors "github.com/framehq/frame/internal/platform/errors"
)

type fakeStore struct {
	orgs        map[string]Organization
	users       map[string]User
	invitations map[string]Invitation
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		orgs:        make(map[string]Organization),
		users:       make(map[string]User),
		invitations: make(map[string]Invitation),
	}
}

func (f *fakeStore) GetOrganization(_ context.Context, orgID string) (Organization, error) {
	o, ok := f.orgs[orgID]
	if !ok {
		return Organization{}, apperrors.New(apperrors.CodeNotFound, "organization not found")
	}
	return o, nil
}

func (f *fakeStore) UpdateOrganization(_ context.Context, o Organization) error {
	if _, ok := f.orgs[o.ID]; !ok {
		return apperrors.New(apperrors.CodeNotFound, "organization not found")
	}
	f.orgs[o.ID] = o
	return nil
}

func (f *fakeStore) CreateUser(_ context.Context, u User) error {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return apperrors.New(apperrors.CodeUserEmailTaken, "email is already in use")
		}
	}
	f.users[u.ID] = u
	return nil
}

func (f *fakeStore) GetUser(_ context.Context, orgID, userID string) (User, error) {
	u, ok := f.users[userID]
	if !ok || u.OrgID != orgID {
		return User{}, apperrors.New(apperrors.CodeNotFound, "user not found")
	}
	return u, nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (User, error) {
	for _, u := range f.users {
		if u.Email == NormalizeEmail(email) {
			return u, nil
		}
	}
	return User{}, apperrors.New(apperrors.CodeNotFound, "user not found")
}

func (f *fakeStore) ListUsers(_ context.Context, orgID string) ([]User, error) {
	var users []User
	for _, u := range f.users {
		if u.OrgID == orgID {
			users = append(users, u)
		}
	}
	return users, nil
}

func (f *fakeStore) UpdateUser(_ context.Context, u User) error {
	if _, ok := f.users[u.ID]; !ok {
		return apperrors.New(apperrors.CodeNotFound, "user not found")
	}
	f.users[u.ID] = u
	return nil
}

func (f *fakeStore) CreateInvitation(_ context.Context, inv Invitation) error {
	f.invitations[inv.ID] = inv
	return nil
}

func (f *fakeStore) GetInvitationByToken(_ context.Context, token string) (Invitation, error) {
	for _, inv := range f.invitations {
		if inv.Token == token {
			return inv, nil
		}
	}
	return Invitation{}, apperrors.New(apperrors.CodeNotFound, "invitation not found")
}

func (f *fakeStore) GetPendingInvitationByEmail(_ context.Context, orgID, email string) (Invitation, error) {
	for _, inv := range f.invitations {
		if inv.OrgID == orgID && inv.Email == NormalizeEmail(email) && inv.Pending() {
			return inv, nil
		}
	}
	return Invitation{}, apperrors.New(apperrors.CodeNotFound, "invitation not found")
}

func (f *fakeStore) ListInvitations(_ context.Context, orgID string) ([]Invitation, error) {
	var invitations []Invitation
	for _, inv := range f.invitations {
		if inv.OrgID == orgID {
			invitations = append(invitations, inv)
		}
	}
	return invitations, nil
}

func (f *fakeStore) UpdateInvitation(_ context.Context, inv Invitation) error {
	if _, ok := f.invitations[inv.ID]; !ok {
		return apperrors.New(apperrors.CodeNotFound, "invitation not found")
	}
	f.invitations[inv.ID] = inv
	return nil
}

func (f *fakeStore) DeleteInvitation(_ context.Context, orgID, invitationID string) error {
	inv, ok := f.invitations[invitationID]
	if !ok || inv.OrgID != orgID {
		return apperrors.New(apperrors.CodeNotFound, "invitation not found")
	}
	delete(f.invitations, invitationID)
	return nil
}

type fakeInviteSender struct {
	emails []string
	links  []string
}

func (f *fakeInviteSender) SendInvitation(_ context.Context, email, link string) error {
	f.emails = append(f.emails, email)
	f.links = append(f.links, link)
	return nil
}

func newTestTeamService() (*Service, *fakeStore, *fakeInviteSender) {
	store := newFakeStore()
	store.orgs["org-1"] = Organization{
		ID: "org-1", Name: "Acme Studio", Timezone: "UTC", WeekStart: WeekStartMonday,
	}
	store.users["owner-1"] = User{
		ID: "owner-1", OrgID: "org-1", Name: "Olive", Email: "olive@example.com",
		Role: RoleOwner, Active: true,
	}
	store.users["member-1"] = User{
		ID: "member-1", OrgID: "org-1", Name: "Mel", Email: "mel@example.com",
		Role: RoleMember, Active: true,
	}

	sender := &fakeInviteSender{}
	svc := NewService(store, sender, "https://frame.test")
	svc.now = func() time.Time { return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) }
	seq := 0
	svc.newID = func() string {
		seq++
		return "id-" + string(rune('0'+seq))
	}
	return svc, store, sender
}

func TestInviteSendsLink(t *testing.T) {
	svc, _, sender := newTestTeamService()
	manager := User{ID: "owner-1", OrgID: "org-1", Role: RoleManager}

	inv, err := svc.Invite(t.Context(), manager, "  New@Example.com ", RoleMember)
	if err != nil {
		t.Fatalf("Invite() error = %v", err)
	}
	if inv.Email != "new@example.com" {
		t.Errorf("Email = %q, want normalized", inv.Email)
	}
	if len(sender.links) != 1 || !strings.Contains(sender.links[0], inv.Token) {
		t.Errorf("links = %v, want one containing the token", sender.links)
	}
}

func TestInviteRejectsMembersAndDuplicates(t *testing.T) {
	svc, _, _ := newTestTeamService()
	manager := User{ID: "owner-1", OrgID: "org-1", Role: RoleManager}

	_, err := svc.Invite(t.Context(), manager, "mel@example.com", RoleMember)
	if !errors.Is(err, apperrors.New(apperrors.CodeInviteMemberExists, "")) {
		t.Errorf("existing member error = %v, want INVITE_MEMBER_EXISTS", err)
	}

	if _, err := svc.Invite(t.Context(), manager, "new@example.com", RoleMember); err != nil {
		t.Fatalf("first Invite() error = %v", err)
	}
	_, err = svc.Invite(t.Context(), manager, "new@example.com", RoleMember)
	if !errors.Is(err, apperrors.New(apperrors.CodeInviteDuplicate, "")) {
		t.Errorf("duplicate error = %v, want INVITE_DUPLICATE", err)
	}
}

func TestInviteRequiresManager(t *testing.T) {
	svc, _, _ := newTestTeamService()
	member := User{ID: "member-1", OrgID: "org-1", Role: RoleMember}

	_, err := svc.Invite(t.Context(), member, "new@example.com", RoleMember)
	if !errors.Is(err, apperrors.New(apperrors.CodePermissionDenied, "")) {
		t.Errorf("member Invite() error = %v, want PERMISSION_DENIED", err)
	}
}

func TestAcceptCreatesMember(t *testing.T) {
	svc, store, _ := newTestTeamService()
	manager := User{ID: "owner-1", OrgID: "org-1", Role: RoleManager}

	inv, err := svc.Invite(t.Context(), manager, "new@example.com", RoleManager)
	if err != nil {
		t.Fatalf("Invite() error = %v", err)
	}

	user, err := svc.Accept(t.Context(), inv.Token, "Nadia")
	if err != nil {
		t.Fatalf("Accept() error = %v", err)
	}
	if user.Role != RoleManager || user.OrgID != "org-1" || !user.Active {
		t.Errorf("user = %+v", user)
	}

	stored := store.invitations[inv.ID]
	if stored.Pending() {
		t.Error("invitation should be marked accepted")
	}

	// A consumed token cannot be accepted again.
	_, err = svc.Accept(t.Context(), inv.Token, "Nadia Again")
	if !errors.Is(err, apperrors.New(apperrors.CodeInviteAlreadyAccepted, "")) {
		t.Errorf("second Accept() error = %v, want INVITE_ALREADY_ACCEPTED", err)
	}
}

func TestAcceptExpiredToken(t *testing.T) {
	svc, _, _ := newTestTeamService()
	manager := User{ID: "owner-1", OrgID: "org-1", Role: RoleManager}

	inv, err := svc.Invite(t.Context(), manager, "new@example.com", RoleMember)
	if err != nil {
		t.Fatalf("Invite() error = %v", err)
	}

	svc.now = func() time.Time {
		return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC).Add(InvitationTTL + time.Hour)
	}
	_, err = svc.Accept(t.Context(), inv.Token, "Nadia")
	if !errors.Is(err, apperrors.New(apperrors.CodeInviteTokenExpired, "")) {
		t.Errorf("Accept() error = %v, want INVITE_TOKEN_EXPIRED", err)
	}
}

func TestValidateTokenUnknown(t *testing.T) {
	svc, _, _ := newTestTeamService()

	_, _, err := svc.ValidateToken(t.Context(), "bogus")
	if !errors.Is(err, apperrors.New(apperrors.CodeInviteTokenInvalid, "")) {
		t.Errorf("ValidateToken() error = %v, want INVITE_TOKEN_INVALID", err)
	}
}

func TestRevoke(t *testing.T) {
	svc, store, _ := newTestTeamService()
	manager := User{ID: "owner-1", OrgID: "org-1", Role: RoleManager}

	inv, err := svc.Invite(t.Context(), manager, "new@example.com", RoleMember)
	if err != nil {
		t.Fatalf("Invite() error = %v", err)
	}
	if err := svc.Revoke(t.Context(), manager, inv.ID); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}
	if _, ok := store.invitations[inv.ID]; ok {
		t.Error("invitation should be deleted")
	}
}

func TestUpdateMemberRates(t *testing.T) {
	svc, _, _ := newTestTeamService()
	manager := User{ID: "owner-1", OrgID: "org-1", Role: RoleManager}

	cost := int64(6000)
	bill := int64(12000)
	updated, err := svc.UpdateMember(t.Context(), manager, "member-1", MemberUpdate{
		CostRateCents: &cost,
		BillRateCents: &bill,
	})
	if err != nil {
		t.Fatalf("UpdateMember() error = %v", err)
	}
	if updated.CostRateCents != 6000 || updated.BillRateCents != 12000 {
		t.Errorf("rates = %d/%d, want 6000/12000", updated.CostRateCents, updated.BillRateCents)
	}

	negative := int64(-1)
	_, err = svc.UpdateMember(t.Context(), manager, "member-1", MemberUpdate{CostRateCents: &negative})
	if !errors.Is(err, apperrors.New(apperrors.CodeRateInvalid, "")) {
		t.Errorf("negative rate error = %v, want RATE_INVALID", err)
	}
}

func TestDeactivateRequiresOwner(t *testing.T) {
	svc, _, _ := newTestTeamService()
	manager := User{ID: "owner-1", OrgID: "org-1", Role: RoleManager}
	owner := User{ID: "owner-1", OrgID: "org-1", Role: RoleOwner}

	inactive := false
	_, err := svc.UpdateMember(t.Context(), manager, "member-1", MemberUpdate{Active: &inactive})
	if !errors.Is(err, apperrors.New(apperrors.CodePermissionDenied, "")) {
		t.Errorf("manager deactivate error = %v, want PERMISSION_DENIED", err)
	}

	updated, err := svc.UpdateMember(t.Context(), owner, "member-1", MemberUpdate{Active: &inactive})
	if err != nil {
		t.Fatalf("owner deactivate error = %v", err)
	}
	if updated.Active {
		t.Error("member should be inactive")
	}
}

func TestUpdateSettingsOwnerOnly(t *testing.T) {
	svc, _, _ := newTestTeamService()
	manager := User{ID: "owner-1", OrgID: "org-1", Role: RoleManager}
	owner := User{ID: "owner-1", OrgID: "org-1", Role: RoleOwner}

	_, err := svc.UpdateSettings(t.Context(), manager, "Acme", "UTC", WeekStartSunday)
	if !errors.Is(err, apperrors.New(apperrors.CodePermissionDenied, "")) {
		t.Errorf("manager settings error = %v, want PERMISSION_DENIED", err)
	}

	updated, err := svc.UpdateSettings(t.Context(), owner, "Acme Renamed", "America/Toronto", WeekStartSunday)
	if err != nil {
		t.Fatalf("UpdateSettings() error = %v", err)
	}
	if updated.Name != "Acme Renamed" || updated.WeekStart != WeekStartSunday {
		t.Errorf("updated = %+v", updated)
	}
}
