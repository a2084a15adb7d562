package org

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/framehq/frame/internal/platform/errors"
)

// Store is the persistence surface the team service needs.
type Store interface {
	GetOrganization(ctx context.Context, orgID string) (Organization, error)
	UpdateOrganization(ctx context.Context, o Organization) error
	CreateUser(ctx context.Context, u User) error
	GetUser(ctx context.Context, orgID, userID string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ListUsers(ctx context.Context, orgID string) ([]User, error)
	UpdateUser(ctx context.Context, u User) error
	CreateInvitation(ctx context.Context, inv Invitation) error
	GetInvitationByToken(ctx context.Context, token string) (Invitation, error)
	GetPendingInvitationByEmail(ctx context.Context, orgID, email string) (Invitation, error)
	ListInvitations(ctx context.Context, orgID string) ([]Invitation, error)
	UpdateInvitation(ctx context.Context, inv Invitation) error
	DeleteInvitation(ctx context.Context, orgID, invitationID string) error
}

// InviteSender delivers invitation links out of band.
type InviteSender interface {
	SendInvitation(ctx context.Context, email, link string) error
}

// Service manages organization membership and invitations.
type Service struct {
	store   Store
	sender  InviteSender
	baseURL string
	now     func() time.Time
	newID   func() string
}

// NewService creates a team service.
func NewService(store Store, sender InviteSender, baseURL string) *Service {
	return &Service{
		store:   store,
		sender:  sender,
		baseURL: baseURL,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Invite creates and sends an invitation. The actor must hold the
// team:invite permission; duplicate pending invitations and existing
// members are rejected.
func (s *Service) Invite(ctx context.Context, actor User, email string, role Role) (Invitation, error) {
	if !HasPermission(actor.Role, PermTeamInvite) {
		return Invitation{}, apperrors.New(apperrors.CodePermissionDenied, "inviting members requires manager access")
	}

	email = NormalizeEmail(email)
	if email == "" {
		return Invitation{}, apperrors.New(apperrors.CodeInviteEmailEmpty, "invitation email is required")
	}

	if existing, err := s.store.GetUserByEmail(ctx, email); err == nil {
		if existing.OrgID == actor.OrgID {
			return Invitation{}, apperrors.New(apperrors.CodeInviteMemberExists, "email already belongs to a member")
		}
		return Invitation{}, apperrors.New(apperrors.CodeInviteDuplicate, "email already has an account")
	} else if !isNotFoundErr(err) {
		return Invitation{}, err
	}

	if _, err := s.store.GetPendingInvitationByEmail(ctx, actor.OrgID, email); err == nil {
		return Invitation{}, apperrors.New(apperrors.CodeInviteDuplicate, "a pending invitation already exists for this email")
	} else if !isNotFoundErr(err) {
		return Invitation{}, err
	}

	inv, err := NewInvitation(s.newID(), actor.OrgID, email, role, actor.ID, s.now().UTC())
	if err != nil {
		return Invitation{}, err
	}
	if err := s.store.CreateInvitation(ctx, inv); err != nil {
		return Invitation{}, err
	}

	link := s.baseURL + "/invitations/accept?token=" + inv.Token
	if err := s.sender.SendInvitation(ctx, email, link); err != nil {
		return Invitation{}, err
	}
	return inv, nil
}

// ListInvitations returns the org's invitations for manager review.
func (s *Service) ListInvitations(ctx context.Context, actor User) ([]Invitation, error) {
	if !HasPermission(actor.Role, PermTeamInvite) {
		return nil, apperrors.New(apperrors.CodePermissionDenied, "listing invitations requires manager access")
	}
	return s.store.ListInvitations(ctx, actor.OrgID)
}

// Revoke deletes a pending invitation.
func (s *Service) Revoke(ctx context.Context, actor User, invitationID string) error {
	if !HasPermission(actor.Role, PermTeamInvite) {
		return apperrors.New(apperrors.CodePermissionDenied, "revoking invitations requires manager access")
	}
	return s.store.DeleteInvitation(ctx, actor.OrgID, invitationID)
}

// ValidateToken checks an invitation token without consuming it, so the
// accept page can show the org and role before the invitee commits.
func (s *Service) ValidateToken(ctx context.Context, token string) (Invitation, Organization, error) {
	inv, err := s.store.GetInvitationByToken(ctx, token)
	if err != nil {
		if isNotFoundErr(err) {
			return Invitation{}, Organization{}, apperrors.New(apperrors.CodeInviteTokenInvalid, "invitation token is invalid")
		}
		return Invitation{}, Organization{}, err
	}
	if err := inv.Validate(s.now().UTC()); err != nil {
		return Invitation{}, Organization{}, err
	}
	o, err := s.store.GetOrganization(ctx, inv.OrgID)
	if err != nil {
		return Invitation{}, Organization{}, err
	}
	return inv, o, nil
}

// Accept consumes an invitation token, creating the member with the
// invited role.
func (s *Service) Accept(ctx context.Context, token, name string) (User, error) {
	inv, _, err := s.ValidateToken(ctx, token)
	if err != nil {
		return User{}, err
	}

	user, err := NewUser(s.newID(), inv.OrgID, name, inv.Email, inv.Role)
	if err != nil {
		return User{}, err
	}
	user.CreatedAt = s.now().UTC()
	if err := s.store.CreateUser(ctx, user); err != nil {
		return User{}, err
	}

	acceptedAt := s.now().UTC()
	inv.AcceptedAt = &acceptedAt
	if err := s.store.UpdateInvitation(ctx, inv); err != nil {
		return User{}, err
	}
	return user, nil
}

// ListMembers returns the organization's users.
func (s *Service) ListMembers(ctx context.Context, actor User) ([]User, error) {
	return s.store.ListUsers(ctx, actor.OrgID)
}

// MemberUpdate carries the manager-editable fields of a member.
type MemberUpdate struct {
	Name          *string
	Role          *Role
	CostRateCents *int64
	BillRateCents *int64
	Active        *bool
}

// UpdateMember applies a partial update to a member. Role and rate
// changes require manager access; deactivation requires owner access.
func (s *Service) UpdateMember(ctx context.Context, actor User, userID string, update MemberUpdate) (User, error) {
	if !HasPermission(actor.Role, PermTeamManage) {
		return User{}, apperrors.New(apperrors.CodePermissionDenied, "managing members requires manager access")
	}

	user, err := s.store.GetUser(ctx, actor.OrgID, userID)
	if err != nil {
		return User{}, err
	}

	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Role != nil {
		role, err := ParseRole(string(*update.Role))
		if err != nil {
			return User{}, err
		}
		user.Role = role
	}
	if update.CostRateCents != nil {
		if *update.CostRateCents < 0 {
			return User{}, apperrors.New(apperrors.CodeRateInvalid, "cost rate must not be negative")
		}
		user.CostRateCents = *update.CostRateCents
	}
	if update.BillRateCents != nil {
		if *update.BillRateCents < 0 {
			return User{}, apperrors.New(apperrors.CodeRateInvalid, "bill rate must not be negative")
		}
		user.BillRateCents = *update.BillRateCents
	}
	if update.Active != nil && *update.Active != user.Active {
		if !OwnerAccess(actor.Role) {
			return User{}, apperrors.New(apperrors.CodePermissionDenied, "deactivating members requires owner access")
		}
		user.Active = *update.Active
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

// UpdateSettings changes org-level settings. Owner only.
func (s *Service) UpdateSettings(ctx context.Context, actor User, name, timezone string, weekStart WeekStart) (Organization, error) {
	if !HasPermission(actor.Role, PermOrgUpdate) {
		return Organization{}, apperrors.New(apperrors.CodePermissionDenied, "organization settings require owner access")
	}

	o, err := s.store.GetOrganization(ctx, actor.OrgID)
	if err != nil {
		return Organization{}, err
	}
	updated, err := NewOrganization(o.ID, name, timezone, weekStart)
	if err != nil {
		return Organization{}, err
	}
	updated.CreatedAt = o.CreatedAt
	if err := s.store.UpdateOrganization(ctx, updated); err != nil {
		return Organization{}, err
	}
	return updated, nil
}

func isNotFoundErr(err error) bool {
	return errors.Is(err, apperrors.New(apperrors.CodeNotFound, ""))
}
