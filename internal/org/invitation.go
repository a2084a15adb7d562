package org

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	apperrors "github.com/framehq/frame/internal/platform/errors"
)

// InvitationTTL is how long an invitation token remains valid.
const InvitationTTL = 7 * 24 * time.Hour

// Invitation is a pending offer to join an organization with a role.
type Invitation struct {
	ID         string
	OrgID      string
	Email      string
	Role       Role
	InvitedBy  string
	Token      string
	ExpiresAt  time.Time
	AcceptedAt *time.Time
	CreatedAt  time.Time
}

// NewInvitation validates and constructs an invitation with a fresh token.
func NewInvitation(id, orgID, email string, role Role, invitedBy string, now time.Time) (Invitation, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return Invitation{}, apperrors.New(apperrors.CodeInviteEmailEmpty, "invitation email is required")
	}
	if _, err := ParseRole(string(role)); err != nil {
		return Invitation{}, apperrors.WithMetadata(apperrors.CodeInviteInvalidRole, "invalid invitation role", map[string]string{"Role": string(role)})
	}
	token, err := newInvitationToken()
	if err != nil {
		return Invitation{}, err
	}
	return Invitation{
		ID:        id,
		OrgID:     orgID,
		Email:     email,
		Role:      role,
		InvitedBy: invitedBy,
		Token:     token,
		ExpiresAt: now.Add(InvitationTTL),
		CreatedAt: now,
	}, nil
}

// Pending reports whether the invitation is still open.
func (inv Invitation) Pending() bool {
	return inv.AcceptedAt == nil
}

// Validate checks that the invitation can still be accepted at the given time.
func (inv Invitation) Validate(now time.Time) error {
	if inv.AcceptedAt != nil {
		return apperrors.New(apperrors.CodeInviteAlreadyAccepted, "invitation was already accepted")
	}
	if now.After(inv.ExpiresAt) {
		return apperrors.New(apperrors.CodeInviteTokenExpired, "invitation has expired")
	}
	return nil
}

func newInvitationToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", apperrors.Wrap(apperrors.CodeUnknown, "generate invitation token", err)
	}
	return hex.EncodeToString(buf), nil
}
