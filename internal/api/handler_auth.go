package api

import (
	"net/http"

	"github.com/framehq/frame/internal/api/httpx"
	"github.com/framehq/frame/internal/api/sessioncookie"
	"github.com/framehq/frame/internal/org"
	apperrors "github.com/framehq/frame/internal/platform/errors"
)

func (s *Server) handleMagicLink(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.WriteError(w, apperrors.Wrap(apperrors.CodeUserEmailEmpty, "invalid request body", err))
		return
	}
	if err := s.auth.RequestMagicLink(r.Context(), body.Email); err != nil {
		httpx.WriteError(w, err)
		return
	}
	// Always accepted: the endpoint must not reveal which emails exist.
	_ = httpx.WriteJSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token string `json:"token"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.WriteError(w, apperrors.Wrap(apperrors.CodeAuthTokenInvalid, "invalid request body", err))
		return
	}

	session, user, err := s.auth.VerifyMagicLink(r.Context(), body.Token)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	sessioncookie.Write(w, r, session.Token)
	_ = httpx.WriteJSON(w, http.StatusOK, userPayload(user))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token, ok := sessioncookie.Read(r); ok {
		if err := s.auth.Logout(r.Context(), token); err != nil {
			httpx.WriteError(w, err)
			return
		}
	}
	sessioncookie.Clear(w, r)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request, user org.User) {
	o, err := s.store.GetOrganization(r.Context(), user.OrgID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"user": userPayload(user),
		"organization": map[string]any{
			"id":        o.ID,
			"name":      o.Name,
			"timezone":  o.Timezone,
			"weekStart": o.WeekStart,
		},
		"permissions": org.Permissions(user.Role),
	})
}

func userPayload(user org.User) map[string]any {
	return map[string]any{
		"id":     user.ID,
		"orgId":  user.OrgID,
		"name":   user.Name,
		"email":  user.Email,
		"role":   user.Role,
		"active": user.Active,
	}
}
