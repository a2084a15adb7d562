package api

import (
	"net/http"
	"time"

	"github.com/framehq/frame/internal/api/httpx"
	"github.com/framehq/frame/internal/org"
	apperrors "github.com/framehq/frame/internal/platform/errors"
	"github.com/framehq/frame/internal/timetrack"
)

func (s *Server) handleTimerStart(w http.ResponseWriter, r *http.Request, user org.User) {
	var body struct {
		ProjectID string `json:"projectId"`
		TaskID    string `json:"taskId"`
		Note      string `json:"note"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.WriteError(w, apperrors.Wrap(apperrors.CodeInvalidArgument, "invalid request body", err))
		return
	}

	entry, err := s.timers.Start(r.Context(), user.OrgID, user.ID, timetrack.StartInput{
		ProjectID: body.ProjectID,
		TaskID:    body.TaskID,
		Note:      body.Note,
	})
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusCreated, entryPayload(entry))
}

func (s *Server) handleTimerStop(w http.ResponseWriter, r *http.Request, user org.User) {
	var body struct {
		EntryID string `json:"entryId"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.WriteError(w, apperrors.Wrap(apperrors.CodeInvalidArgument, "invalid request body", err))
		return
	}

	entry, err := s.timers.Stop(r.Context(), user.OrgID, user.ID, body.EntryID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, entryPayload(entry))
}

func (s *Server) handleTimerSwitch(w http.ResponseWriter, r *http.Request, user org.User) {
	var body struct {
		FromEntryID string `json:"fromEntryId"`
		ProjectID   string `json:"projectId"`
		TaskID      string `json:"taskId"`
		Note        string `json:"note"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.WriteError(w, apperrors.Wrap(apperrors.CodeInvalidArgument, "invalid request body", err))
		return
	}

	entry, err := s.timers.Switch(r.Context(), user.OrgID, user.ID, timetrack.SwitchInput{
		FromEntryID: body.FromEntryID,
		ProjectID:   body.ProjectID,
		TaskID:      body.TaskID,
		Note:        body.Note,
	})
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusCreated, entryPayload(entry))
}

func (s *Server) handleTimerRunning(w http.ResponseWriter, r *http.Request, user org.User) {
	entry, running, err := s.timers.Running(r.Context(), user.OrgID, user.ID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	if !running {
		_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{"running": false})
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"running": true,
		"entry":   entryPayload(entry),
	})
}

func (s *Server) handleEntriesList(w http.ResponseWriter, r *http.Request, user org.User) {
	filter, err := parseEntryFilter(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	// Members see only their own entries.
	if !org.HasPermission(user.Role, org.PermTimeEntryReadAll) {
		filter.UserID = user.ID
	}

	entries, err := s.store.ListEntries(r.Context(), user.OrgID, filter)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	payload := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		payload = append(payload, entryPayload(entry))
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{"entries": payload})
}

func (s *Server) handleEntryCreate(w http.ResponseWriter, r *http.Request, user org.User) {
	var body struct {
		ProjectID string `json:"projectId"`
		TaskID    string `json:"taskId"`
		StartedAt string `json:"startedAt"`
		Minutes   int    `json:"minutes"`
		Note      string `json:"note"`
		Billable  bool   `json:"billable"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.WriteError(w, apperrors.Wrap(apperrors.CodeInvalidArgument, "invalid request body", err))
		return
	}

	var startedAt time.Time
	if body.StartedAt != "" {
		parsed, err := time.Parse(time.RFC3339, body.StartedAt)
		if err != nil {
			httpx.WriteError(w, apperrors.Wrap(apperrors.CodeInvalidArgument, "invalid startedAt timestamp", err))
			return
		}
		startedAt = parsed
	}

	entry, err := s.timers.CreateManual(r.Context(), user.OrgID, user.ID, timetrack.ManualInput{
		ProjectID: body.ProjectID,
		TaskID:    body.TaskID,
		StartedAt: startedAt,
		Minutes:   body.Minutes,
		Note:      body.Note,
		Billable:  body.Billable,
	})
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusCreated, entryPayload(entry))
}

func (s *Server) handleEntryUpdate(w http.ResponseWriter, r *http.Request, user org.User) {
	var body struct {
		TaskID   string `json:"taskId"`
		Minutes  int    `json:"minutes"`
		Note     string `json:"note"`
		Billable bool   `json:"billable"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.WriteError(w, apperrors.Wrap(apperrors.CodeInvalidArgument, "invalid request body", err))
		return
	}

	entry, err := s.timers.Update(r.Context(), user, r.PathValue("entryID"), timetrack.UpdateInput{
		TaskID:   body.TaskID,
		Minutes:  body.Minutes,
		Note:     body.Note,
		Billable: body.Billable,
	})
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, entryPayload(entry))
}

func (s *Server) handleEntryDelete(w http.ResponseWriter, r *http.Request, user org.User) {
	if err := s.timers.Delete(r.Context(), user, r.PathValue("entryID")); err != nil {
		httpx.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseEntryFilter reads list filters from query parameters. Dates are
// yyyy-mm-dd; "to" is exclusive of the following day's start.
func parseEntryFilter(r *http.Request) (timetrack.ListFilter, error) {
	filter := timetrack.ListFilter{
		ProjectID: r.URL.Query().Get("projectId"),
		UserID:    r.URL.Query().Get("userId"),
	}
	if from := r.URL.Query().Get("from"); from != "" {
		parsed, err := time.ParseInLocation("2006-01-02", from, time.UTC)
		if err != nil {
			return timetrack.ListFilter{}, apperrors.Wrap(apperrors.CodeInvalidArgument, "invalid from date", err)
		}
		filter.From = parsed
	}
	if to := r.URL.Query().Get("to"); to != "" {
		parsed, err := time.ParseInLocation("2006-01-02", to, time.UTC)
		if err != nil {
			return timetrack.ListFilter{}, apperrors.Wrap(apperrors.CodeInvalidArgument, "invalid to date", err)
		}
		filter.To = parsed.AddDate(0, 0, 1)
	}
	return filter, nil
}

func entryPayload(entry timetrack.Entry) map[string]any {
	payload := map[string]any{
		"id":        entry.ID,
		"userId":    entry.UserID,
		"projectId": entry.ProjectID,
		"startedAt": entry.StartedAt.UTC().Format(time.RFC3339),
		"note":      entry.Note,
		"billable":  entry.Billable,
		"running":   entry.Running(),
	}
	if entry.TaskID != "" {
		payload["taskId"] = entry.TaskID
	}
	if entry.EndedAt != nil {
		payload["endedAt"] = entry.EndedAt.UTC().Format(time.RFC3339)
	}
	if entry.Minutes != nil {
		payload["minutes"] = *entry.Minutes
	}
	return payload
}
