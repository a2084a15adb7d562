package api

import (
	"fmt"
	"net/http"

	"github.com/framehq/frame/internal/api/httpx"
	"github.com/framehq/frame/internal/billing"
	"github.com/framehq/frame/internal/org"
	apperrors "github.com/framehq/frame/internal/platform/errors"
	"github.com/framehq/frame/internal/project"
	"github.com/framehq/frame/internal/report"
)

// handleExport streams closed time entries as CSV (default) or JSON.
// Members export only their own entries.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request, user org.User) {
	format := report.FormatCSV
	switch r.URL.Query().Get("format") {
	case "", "csv":
	case "json":
		format = report.FormatJSON
	default:
		httpx.WriteError(w, apperrors.New(apperrors.CodeInvalidArgument, "format must be csv or json"))
		return
	}

	filter, err := parseEntryFilter(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	if !org.HasPermission(user.Role, org.PermTimeEntryReadAll) {
		filter.UserID = user.ID
	}

	entries, err := s.store.ListEntries(r.Context(), user.OrgID, filter)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	users, err := s.store.ListUsers(r.Context(), user.OrgID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	projects, err := s.store.ListProjects(r.Context(), user.OrgID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	clients, err := s.store.ListClients(r.Context(), user.OrgID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	usersByID := make(map[string]org.User, len(users))
	for _, u := range users {
		usersByID[u.ID] = u
	}
	projectsByID := make(map[string]project.Project, len(projects))
	for _, p := range projects {
		projectsByID[p.ID] = p
	}
	clientsByID := make(map[string]project.Client, len(clients))
	for _, c := range clients {
		clientsByID[c.ID] = c
	}

	taskNames := make(map[string]string)
	rows := make([]report.Row, 0, len(entries))
	for _, entry := range entries {
		if entry.Running() {
			continue
		}
		row := report.Row{Entry: entry}

		if u, ok := usersByID[entry.UserID]; ok {
			row.UserName = u.Name
			row.UserEmail = u.Email
		}
		if p, ok := projectsByID[entry.ProjectID]; ok {
			row.ProjectName = p.Name
			if c, ok := clientsByID[p.ClientID]; ok {
				row.ClientName = c.Name
			}
		}
		if entry.TaskID != "" {
			name, ok := taskNames[entry.TaskID]
			if !ok {
				if task, err := s.store.GetTask(r.Context(), user.OrgID, entry.TaskID); err == nil {
					name = task.Name
				}
				taskNames[entry.TaskID] = name
			}
			row.TaskName = name
		}
		rows = append(rows, row)
	}

	filename := "time-entries-" + s.now().UTC().Format("20060102")
	switch format {
	case report.FormatJSON:
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename+".json"))
		if err := report.WriteJSON(w, rows); err != nil {
			httpx.WriteError(w, err)
		}
	default:
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename+".csv"))
		if err := report.WriteCSV(w, rows); err != nil {
			httpx.WriteError(w, err)
		}
	}
}

// handleProjectSummaryExport streams active projects' financial
// summaries as CSV. Manager access only: every column is financial.
func (s *Server) handleProjectSummaryExport(w http.ResponseWriter, r *http.Request, user org.User) {
	if !org.HasPermission(user.Role, org.PermProfitReadDetailed) {
		httpx.WriteError(w, apperrors.New(apperrors.CodePermissionDenied, "project summaries require manager access"))
		return
	}

	filter, err := parseEntryFilter(r)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	filter.UserID = ""

	projects, err := s.store.ListProjects(r.Context(), user.OrgID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	entries, err := s.store.ListEntries(r.Context(), user.OrgID, filter)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	users, err := s.store.ListUsers(r.Context(), user.OrgID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	clients, err := s.store.ListClients(r.Context(), user.OrgID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	rates, err := s.store.GetRateBook(r.Context(), user.OrgID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	userRates := make(map[string]billing.UserRate, len(users))
	for _, u := range users {
		userRates[u.ID] = billing.UserRate{Role: u.Role, CostRateCents: u.CostRateCents}
	}
	clientNames := make(map[string]string, len(clients))
	for _, c := range clients {
		clientNames[c.ID] = c.Name
	}

	entriesByProject := make(map[string][]billing.Entry)
	for _, entry := range entries {
		entriesByProject[entry.ProjectID] = append(entriesByProject[entry.ProjectID], billing.Entry{
			UserID:   entry.UserID,
			Minutes:  entry.Minutes,
			Billable: entry.Billable,
		})
	}

	rows := make([]report.ProjectRow, 0, len(projects))
	for _, proj := range projects {
		if proj.Status != project.StatusActive {
			continue
		}
		rows = append(rows, report.ProjectRow{
			ProjectName: proj.Name,
			ClientName:  clientNames[proj.ClientID],
			Financials:  billing.Aggregate(proj, entriesByProject[proj.ID], userRates, rates),
		})
	}

	filename := "project-summary-" + s.now().UTC().Format("20060102") + ".csv"
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := report.WriteProjectSummaryCSV(w, rows); err != nil {
		httpx.WriteError(w, err)
	}
}
