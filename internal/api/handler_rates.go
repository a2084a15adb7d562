package api

import (
	"net/http"
	"sort"

	"github.com/framehq/frame/internal/api/httpx"
	"github.com/framehq/frame/internal/org"
	apperrors "github.com/framehq/frame/internal/platform/errors"
)

func (s *Server) handleUserRatesList(w http.ResponseWriter, r *http.Request, user org.User) {
	if !org.HasPermission(user.Role, org.PermTeamManage) {
		httpx.WriteError(w, apperrors.New(apperrors.CodePermissionDenied, "rates require manager access"))
		return
	}

	users, err := s.store.ListUsers(r.Context(), user.OrgID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	payload := make([]map[string]any, 0, len(users))
	for _, u := range users {
		payload = append(payload, map[string]any{
			"userId":        u.ID,
			"name":          u.Name,
			"role":          u.Role,
			"costRateCents": u.CostRateCents,
			"billRateCents": u.BillRateCents,
		})
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{"rates": payload})
}

func (s *Server) handleUserRatesUpdate(w http.ResponseWriter, r *http.Request, user org.User) {
	var body struct {
		UserID        string `json:"userId"`
		CostRateCents *int64 `json:"costRateCents"`
		BillRateCents *int64 `json:"billRateCents"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.WriteError(w, apperrors.Wrap(apperrors.CodeInvalidArgument, "invalid request body", err))
		return
	}

	updated, err := s.team.UpdateMember(r.Context(), user, body.UserID, org.MemberUpdate{
		CostRateCents: body.CostRateCents,
		BillRateCents: body.BillRateCents,
	})
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"userId":        updated.ID,
		"costRateCents": updated.CostRateCents,
		"billRateCents": updated.BillRateCents,
	})
}

func (s *Server) handleRoleOverridesList(w http.ResponseWriter, r *http.Request, user org.User) {
	if !org.HasPermission(user.Role, org.PermTeamManage) {
		httpx.WriteError(w, apperrors.New(apperrors.CodePermissionDenied, "rates require manager access"))
		return
	}

	book, err := s.store.GetRateBook(r.Context(), user.OrgID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	projectID := r.URL.Query().Get("projectId")

	payload := make([]map[string]any, 0, len(book.RoleOverrides))
	for key, rate := range book.RoleOverrides {
		if projectID != "" && key.ProjectID != projectID {
			continue
		}
		payload = append(payload, map[string]any{
			"projectId":     key.ProjectID,
			"role":          key.Role,
			"billRateCents": rate,
		})
	}
	sort.Slice(payload, func(i, j int) bool {
		if payload[i]["projectId"] != payload[j]["projectId"] {
			return payload[i]["projectId"].(string) < payload[j]["projectId"].(string)
		}
		return payload[i]["role"].(org.Role) < payload[j]["role"].(org.Role)
	})
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{"overrides": payload})
}

func (s *Server) handleUserOverridesList(w http.ResponseWriter, r *http.Request, user org.User) {
	if !org.HasPermission(user.Role, org.PermTeamManage) {
		httpx.WriteError(w, apperrors.New(apperrors.CodePermissionDenied, "rates require manager access"))
		return
	}

	book, err := s.store.GetRateBook(r.Context(), user.OrgID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	projectID := r.URL.Query().Get("projectId")

	payload := make([]map[string]any, 0, len(book.UserOverrides))
	for key, rate := range book.UserOverrides {
		if projectID != "" && key.ProjectID != projectID {
			continue
		}
		payload = append(payload, map[string]any{
			"projectId":     key.ProjectID,
			"userId":        key.UserID,
			"billRateCents": rate,
		})
	}
	sort.Slice(payload, func(i, j int) bool {
		if payload[i]["projectId"] != payload[j]["projectId"] {
			return payload[i]["projectId"].(string) < payload[j]["projectId"].(string)
		}
		return payload[i]["userId"].(string) < payload[j]["userId"].(string)
	})
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{"overrides": payload})
}

func (s *Server) handleRoleOverrideSet(w http.ResponseWriter, r *http.Request, user org.User) {
	var body struct {
		ProjectID     string `json:"projectId"`
		Role          string `json:"role"`
		BillRateCents int64  `json:"billRateCents"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.WriteError(w, apperrors.Wrap(apperrors.CodeInvalidArgument, "invalid request body", err))
		return
	}

	role, err := s.rateOverrideScope(r, user, body.ProjectID, body.Role, body.BillRateCents)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	if err := s.store.SetRoleRateOverride(r.Context(), body.ProjectID, role, body.BillRateCents); err != nil {
		httpx.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRoleOverrideDelete(w http.ResponseWriter, r *http.Request, user org.User) {
	projectID := r.URL.Query().Get("projectId")
	role, err := s.rateOverrideScope(r, user, projectID, r.URL.Query().Get("role"), 0)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	if err := s.store.DeleteRoleRateOverride(r.Context(), projectID, role); err != nil {
		httpx.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUserOverrideSet(w http.ResponseWriter, r *http.Request, user org.User) {
	var body struct {
		ProjectID     string `json:"projectId"`
		UserID        string `json:"userId"`
		BillRateCents int64  `json:"billRateCents"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.WriteError(w, apperrors.Wrap(apperrors.CodeInvalidArgument, "invalid request body", err))
		return
	}

	if err := s.userOverrideScope(r, user, body.ProjectID, body.UserID, body.BillRateCents); err != nil {
		httpx.WriteError(w, err)
		return
	}
	if err := s.store.SetUserRateOverride(r.Context(), body.ProjectID, body.UserID, body.BillRateCents); err != nil {
		httpx.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUserOverrideDelete(w http.ResponseWriter, r *http.Request, user org.User) {
	projectID := r.URL.Query().Get("projectId")
	userID := r.URL.Query().Get("userId")
	if err := s.userOverrideScope(r, user, projectID, userID, 0); err != nil {
		httpx.WriteError(w, err)
		return
	}
	if err := s.store.DeleteUserRateOverride(r.Context(), projectID, userID); err != nil {
		httpx.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// rateOverrideScope checks that the actor may edit rates, that the rate is
// non-negative, the role parses, and the project belongs to the actor's org.
func (s *Server) rateOverrideScope(r *http.Request, actor org.User, projectID, rawRole string, billRateCents int64) (org.Role, error) {
	if !org.HasPermission(actor.Role, org.PermTeamManage) {
		return "", apperrors.New(apperrors.CodePermissionDenied, "rates require manager access")
	}
	if billRateCents < 0 {
		return "", apperrors.New(apperrors.CodeRateInvalid, "bill rate must not be negative")
	}
	role, err := org.ParseRole(rawRole)
	if err != nil {
		return "", err
	}
	if _, err := s.store.GetProject(r.Context(), actor.OrgID, projectID); err != nil {
		return "", err
	}
	return role, nil
}

// userOverrideScope is rateOverrideScope for per-user overrides: the
// target user must also belong to the actor's org.
func (s *Server) userOverrideScope(r *http.Request, actor org.User, projectID, userID string, billRateCents int64) error {
	if !org.HasPermission(actor.Role, org.PermTeamManage) {
		return apperrors.New(apperrors.CodePermissionDenied, "rates require manager access")
	}
	if billRateCents < 0 {
		return apperrors.New(apperrors.CodeRateInvalid, "bill rate must not be negative")
	}
	if _, err := s.store.GetProject(r.Context(), actor.OrgID, projectID); err != nil {
		return err
	}
	if _, err := s.store.GetUser(r.Context(), actor.OrgID, userID); err != nil {
		return err
	}
	return nil
}
