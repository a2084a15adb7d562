package api

import (
	"net/http"
	"time"

	"github.com/framehq/frame/internal/api/httpx"
	"github.com/framehq/frame/internal/org"
	apperrors "github.com/framehq/frame/internal/platform/errors"
)

func (s *Server) handleInvitationsList(w http.ResponseWriter, r *http.Request, user org.User) {
	invitations, err := s.team.ListInvitations(r.Context(), user)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	payload := make([]map[string]any, 0, len(invitations))
	for _, inv := range invitations {
		payload = append(payload, invitationPayload(inv))
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{"invitations": payload})
}

func (s *Server) handleInvitationCreate(w http.ResponseWriter, r *http.Request, user org.User) {
	var body struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.WriteError(w, apperrors.Wrap(apperrors.CodeInvalidArgument, "invalid request body", err))
		return
	}

	inv, err := s.team.Invite(r.Context(), user, body.Email, org.Role(body.Role))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusCreated, invitationPayload(inv))
}

func (s *Server) handleInvitationRevoke(w http.ResponseWriter, r *http.Request, user org.User) {
	if err := s.team.Revoke(r.Context(), user, r.PathValue("invitationID")); err != nil {
		httpx.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleInvitationValidate is unauthenticated: the accept page calls it to
// show the org and role before the invitee commits.
func (s *Server) handleInvitationValidate(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		httpx.WriteError(w, apperrors.New(apperrors.CodeInviteTokenInvalid, "invitation token is required"))
		return
	}

	inv, o, err := s.team.ValidateToken(r.Context(), token)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"email":        inv.Email,
		"role":         inv.Role,
		"organization": o.Name,
		"expiresAt":    inv.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// handleInvitationAccept is unauthenticated: the invitee has no session yet.
func (s *Server) handleInvitationAccept(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token string `json:"token"`
		Name  string `json:"name"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.WriteError(w, apperrors.Wrap(apperrors.CodeInvalidArgument, "invalid request body", err))
		return
	}

	user, err := s.team.Accept(r.Context(), body.Token, body.Name)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusCreated, userPayload(user))
}

func invitationPayload(inv org.Invitation) map[string]any {
	payload := map[string]any{
		"id":        inv.ID,
		"email":     inv.Email,
		"role":      inv.Role,
		"invitedBy": inv.InvitedBy,
		"pending":   inv.Pending(),
		"expiresAt": inv.ExpiresAt.UTC().Format(time.RFC3339),
		"createdAt": inv.CreatedAt.UTC().Format(time.RFC3339),
	}
	if inv.AcceptedAt != nil {
		payload["acceptedAt"] = inv.AcceptedAt.UTC().Format(time.RFC3339)
	}
	return payload
}
