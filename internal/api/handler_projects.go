package api

import (
	"net/http"

	"github.com/framehq/frame/internal/api/httpx"
	"github.com/framehq/frame/internal/org"
	apperrors "github.com/framehq/frame/internal/platform/errors"
	"github.com/framehq/frame/internal/project"
)

type budgetBody struct {
	Type  string  `json:"type"`
	Value float64 `json:"value"`
}

func (b *budgetBody) toBudget() *project.Budget {
	if b == nil {
		return nil
	}
	return &project.Budget{Type: project.BudgetType(b.Type), Value: b.Value}
}

func (s *Server) handleProjectsList(w http.ResponseWriter, r *http.Request, user org.User) {
	projects, err := s.projects.List(r.Context(), user)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	payload := make([]map[string]any, 0, len(projects))
	for _, p := range projects {
		payload = append(payload, projectPayload(p, user.Role))
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{"projects": payload})
}

func (s *Server) handleProjectCreate(w http.ResponseWriter, r *http.Request, user org.User) {
	var body struct {
		ClientID             string      `json:"clientId"`
		Name                 string      `json:"name"`
		Budget               *budgetBody `json:"budget"`
		DefaultBillRateCents int64       `json:"defaultBillRateCents"`
		IsRetainer           bool        `json:"isRetainer"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.WriteError(w, apperrors.Wrap(apperrors.CodeInvalidArgument, "invalid request body", err))
		return
	}

	p, err := s.projects.Create(r.Context(), user, project.CreateInput{
		ClientID:             body.ClientID,
		Name:                 body.Name,
		Budget:               body.Budget.toBudget(),
		DefaultBillRateCents: body.DefaultBillRateCents,
		IsRetainer:           body.IsRetainer,
	})
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusCreated, projectPayload(p, user.Role))
}

func (s *Server) handleProjectUpdate(w http.ResponseWriter, r *http.Request, user org.User) {
	var body struct {
		ClientID             *string `json:"clientId"`
		Name                 *string `json:"name"`
		Status               *string `json:"status"`
		DefaultBillRateCents *int64  `json:"defaultBillRateCents"`
		IsRetainer           *bool   `json:"isRetainer"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.WriteError(w, apperrors.Wrap(apperrors.CodeInvalidArgument, "invalid request body", err))
		return
	}

	p, err := s.projects.Update(r.Context(), user, r.PathValue("projectID"), project.UpdateInput{
		ClientID:             body.ClientID,
		Name:                 body.Name,
		Status:               body.Status,
		DefaultBillRateCents: body.DefaultBillRateCents,
		IsRetainer:           body.IsRetainer,
	})
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, projectPayload(p, user.Role))
}

func (s *Server) handleProjectBudget(w http.ResponseWriter, r *http.Request, user org.User) {
	var body struct {
		Budget *budgetBody `json:"budget"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.WriteError(w, apperrors.Wrap(apperrors.CodeInvalidArgument, "invalid request body", err))
		return
	}

	p, err := s.projects.SetBudget(r.Context(), user, r.PathValue("projectID"), body.Budget.toBudget())
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, projectPayload(p, user.Role))
}

func (s *Server) handleTasksList(w http.ResponseWriter, r *http.Request, user org.User) {
	tasks, err := s.projects.ListTasks(r.Context(), user, r.PathValue("projectID"))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	payload := make([]map[string]any, 0, len(tasks))
	for _, t := range tasks {
		payload = append(payload, map[string]any{
			"id":        t.ID,
			"projectId": t.ProjectID,
			"name":      t.Name,
			"active":    t.Active,
		})
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{"tasks": payload})
}

func (s *Server) handleTaskCreate(w http.ResponseWriter, r *http.Request, user org.User) {
	var body struct {
		Name string `json:"name"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.WriteError(w, apperrors.Wrap(apperrors.CodeInvalidArgument, "invalid request body", err))
		return
	}

	t, err := s.projects.CreateTask(r.Context(), user, r.PathValue("projectID"), body.Name)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusCreated, map[string]any{
		"id":        t.ID,
		"projectId": t.ProjectID,
		"name":      t.Name,
		"active":    t.Active,
	})
}

func (s *Server) handleClientsList(w http.ResponseWriter, r *http.Request, user org.User) {
	clients, err := s.projects.ListClients(r.Context(), user)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	payload := make([]map[string]any, 0, len(clients))
	for _, c := range clients {
		payload = append(payload, map[string]any{"id": c.ID, "name": c.Name})
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{"clients": payload})
}

func (s *Server) handleClientCreate(w http.ResponseWriter, r *http.Request, user org.User) {
	var body struct {
		Name string `json:"name"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.WriteError(w, apperrors.Wrap(apperrors.CodeInvalidArgument, "invalid request body", err))
		return
	}

	c, err := s.projects.CreateClient(r.Context(), user, body.Name)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusCreated, map[string]any{"id": c.ID, "name": c.Name})
}

// projectPayload shapes a project for the caller's role. Rate and
// budget-value fields are manager-only.
func projectPayload(p project.Project, role org.Role) map[string]any {
	payload := map[string]any{
		"id":         p.ID,
		"name":       p.Name,
		"status":     p.Status,
		"isRetainer": p.IsRetainer,
	}
	if p.ClientID != "" {
		payload["clientId"] = p.ClientID
	}
	if p.Budget != nil {
		payload["budgetType"] = p.Budget.Type
	}
	if org.ManagerAccess(role) {
		payload["defaultBillRateCents"] = p.DefaultBillRateCents
		if p.Budget != nil {
			payload["budgetValue"] = p.Budget.Value
		}
	}
	return payload
}
