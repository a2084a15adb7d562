package api

import (
	"net/http"
	"strconv"

	"github.com/framehq/frame/internal/api/httpx"
	"github.com/framehq/frame/internal/org"
	"github.com/framehq/frame/internal/planning"
	apperrors "github.com/framehq/frame/internal/platform/errors"
)

const defaultGridWeeks = 8

func (s *Server) handleAllocationsGrid(w http.ResponseWriter, r *http.Request, user org.User) {
	if !org.HasPermission(user.Role, org.PermPlanningRead) {
		httpx.WriteError(w, apperrors.New(apperrors.CodePermissionDenied, "planning requires manager access"))
		return
	}

	o, err := s.store.GetOrganization(r.Context(), user.OrgID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	start := planning.WeekStartOf(s.now().UTC(), o.WeekStart)
	if from := r.URL.Query().Get("from"); from != "" {
		start, err = planning.ParseWeekStart(from, o.WeekStart)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
	}

	weeks := defaultGridWeeks
	if raw := r.URL.Query().Get("weeks"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 26 {
			httpx.WriteError(w, apperrors.New(apperrors.CodeInvalidArgument, "weeks must be between 1 and 26"))
			return
		}
		weeks = parsed
	}

	weekStarts := planning.WeekWindow(start, weeks)
	end := start.AddDate(0, 0, 7*weeks)

	allocations, err := s.store.ListAllocations(r.Context(), user.OrgID, start, end)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	users, err := s.store.ListUsers(r.Context(), user.OrgID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	byUserWeek := make(map[string]map[string][]planning.Allocation)
	for _, a := range allocations {
		if byUserWeek[a.UserID] == nil {
			byUserWeek[a.UserID] = make(map[string][]planning.Allocation)
		}
		key := planning.WeekKey(a.WeekStart)
		byUserWeek[a.UserID][key] = append(byUserWeek[a.UserID][key], a)
	}

	rows := make([]planning.UserRow, 0, len(users))
	for _, u := range users {
		if !u.Active {
			continue
		}
		rows = append(rows, planning.AggregateUser(u.ID, weekStarts, byUserWeek[u.ID], planning.WeeklyCapacityHours))
	}

	weekKeys := make([]string, 0, len(weekStarts))
	for _, ws := range weekStarts {
		weekKeys = append(weekKeys, planning.WeekKey(ws))
	}

	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"weekStart": o.WeekStart,
		"weeks":     weekKeys,
		"rows":      rows,
	})
}

func (s *Server) handleAllocationUpsert(w http.ResponseWriter, r *http.Request, user org.User) {
	if !org.HasPermission(user.Role, org.PermPlanningWrite) {
		httpx.WriteError(w, apperrors.New(apperrors.CodePermissionDenied, "planning requires manager access"))
		return
	}

	var body struct {
		UserID       string  `json:"userId"`
		ProjectID    string  `json:"projectId"`
		WeekStart    string  `json:"weekStart"`
		PlannedHours float64 `json:"plannedHours"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.WriteError(w, apperrors.Wrap(apperrors.CodeInvalidArgument, "invalid request body", err))
		return
	}
	if err := planning.ValidatePlannedHours(body.PlannedHours); err != nil {
		httpx.WriteError(w, err)
		return
	}

	o, err := s.store.GetOrganization(r.Context(), user.OrgID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	weekStart, err := planning.ParseWeekStart(body.WeekStart, o.WeekStart)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	// Both sides of the cell must exist in the caller's org.
	if _, err := s.store.GetUser(r.Context(), user.OrgID, body.UserID); err != nil {
		httpx.WriteError(w, err)
		return
	}
	if _, err := s.store.GetProject(r.Context(), user.OrgID, body.ProjectID); err != nil {
		httpx.WriteError(w, err)
		return
	}

	allocation := planning.Allocation{
		ID:           s.newID(),
		OrgID:        user.OrgID,
		UserID:       body.UserID,
		ProjectID:    body.ProjectID,
		WeekStart:    weekStart,
		PlannedHours: body.PlannedHours,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.UpsertAllocation(r.Context(), allocation); err != nil {
		httpx.WriteError(w, err)
		return
	}

	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"userId":       allocation.UserID,
		"projectId":    allocation.ProjectID,
		"weekStart":    allocation.WeekStart.Format("2006-01-02"),
		"plannedHours": allocation.PlannedHours,
	})
}
