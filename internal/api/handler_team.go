package api

import (
	"net/http"

	"github.com/framehq/frame/internal/api/httpx"
	"github.com/framehq/frame/internal/org"
	apperrors "github.com/framehq/frame/internal/platform/errors"
)

func (s *Server) handleMembersList(w http.ResponseWriter, r *http.Request, user org.User) {
	members, err := s.team.ListMembers(r.Context(), user)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	payload := make([]map[string]any, 0, len(members))
	for _, member := range members {
		payload = append(payload, memberPayload(member, user.Role))
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{"members": payload})
}

func (s *Server) handleMemberUpdate(w http.ResponseWriter, r *http.Request, user org.User) {
	var body struct {
		Name          *string `json:"name"`
		Role          *string `json:"role"`
		CostRateCents *int64  `json:"costRateCents"`
		BillRateCents *int64  `json:"billRateCents"`
		Active        *bool   `json:"active"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.WriteError(w, apperrors.Wrap(apperrors.CodeInvalidArgument, "invalid request body", err))
		return
	}

	update := org.MemberUpdate{
		Name:          body.Name,
		CostRateCents: body.CostRateCents,
		BillRateCents: body.BillRateCents,
		Active:        body.Active,
	}
	if body.Role != nil {
		role := org.Role(*body.Role)
		update.Role = &role
	}

	member, err := s.team.UpdateMember(r.Context(), user, r.PathValue("userID"), update)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, memberPayload(member, user.Role))
}

func (s *Server) handleOrgSettings(w http.ResponseWriter, r *http.Request, user org.User) {
	var body struct {
		Name      *string `json:"name"`
		Timezone  *string `json:"timezone"`
		WeekStart *string `json:"weekStart"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.WriteError(w, apperrors.Wrap(apperrors.CodeInvalidArgument, "invalid request body", err))
		return
	}

	current, err := s.store.GetOrganization(r.Context(), user.OrgID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	name := current.Name
	if body.Name != nil {
		name = *body.Name
	}
	timezone := current.Timezone
	if body.Timezone != nil {
		timezone = *body.Timezone
	}
	weekStart := current.WeekStart
	if body.WeekStart != nil {
		weekStart = org.WeekStart(*body.WeekStart)
	}

	updated, err := s.team.UpdateSettings(r.Context(), user, name, timezone, weekStart)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"id":        updated.ID,
		"name":      updated.Name,
		"timezone":  updated.Timezone,
		"weekStart": updated.WeekStart,
	})
}

// memberPayload shapes a member for the caller's role. Rates are
// manager-only.
func memberPayload(member org.User, viewerRole org.Role) map[string]any {
	payload := map[string]any{
		"id":     member.ID,
		"name":   member.Name,
		"email":  member.Email,
		"role":   member.Role,
		"active": member.Active,
	}
	if org.ManagerAccess(viewerRole) {
		payload["costRateCents"] = member.CostRateCents
		payload["billRateCents"] = member.BillRateCents
	}
	return payload
}
