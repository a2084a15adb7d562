package api

import (
	"net/http"

	"github.com/framehq/frame/internal/api/httpx"
	"github.com/framehq/frame/internal/billing"
	"github.com/framehq/frame/internal/org"
	"github.com/framehq/frame/internal/project"
)

// handleProfitability computes the profitability dashboard over active
// projects. The per-project shape depends on the caller's role: members
// get burn and budget health, managers get the full financial readout.
func (s *Server) handleProfitability(w http.ResponseWriter, r *http.Request, user org.User) {
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
	rates, err := s.store.GetRateBook(r.Context(), user.OrgID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	userRates := make(map[string]billing.UserRate, len(users))
	for _, u := range users {
		userRates[u.ID] = billing.UserRate{Role: u.Role, CostRateCents: u.CostRateCents}
	}

	entriesByProject := make(map[string][]billing.Entry)
	for _, entry := range entries {
		entriesByProject[entry.ProjectID] = append(entriesByProject[entry.ProjectID], billing.Entry{
			UserID:   entry.UserID,
			Minutes:  entry.Minutes,
			Billable: entry.Billable,
		})
	}

	views := make([]billing.ProjectView, 0, len(projects))
	for _, proj := range projects {
		if proj.Status != project.StatusActive {
			continue
		}
		fin := billing.Aggregate(proj, entriesByProject[proj.ID], userRates, rates)
		views = append(views, billing.ViewForRole(user.Role, proj, fin))
	}

	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"projects": views,
		"summary":  billing.Summarize(views),
	})
}
