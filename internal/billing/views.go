package billing

import (
	"math"

	"github.com/framehq/frame/internal/org"
	"github.com/framehq/frame/internal/project"
)

// ProjectView is the role-shaped profitability output for one project.
// Members and managers receive distinct variants rather than one struct
// with conditionally blanked fields.
type ProjectView interface {
	projectView()
	ViewHealth() Health
}

// MemberProjectView is the reduced readout members receive: burn and
// budget health, no financials.
type MemberProjectView struct {
	ProjectID  string  `json:"projectId"`
	Name       string  `json:"name"`
	ClientID   string  `json:"clientId,omitempty"`
	BudgetType string  `json:"budgetType,omitempty"`
	BurnHours  float64 `json:"burnHours"`
	Health     Health  `json:"budgetHealth,omitempty"`
	IsRetainer bool    `json:"isRetainer"`
}

func (MemberProjectView) projectView() {}

// ViewHealth returns the budget health bucket.
func (v MemberProjectView) ViewHealth() Health { return v.Health }

// ManagerProjectView is the full financial readout managers and owners
// receive.
type ManagerProjectView struct {
	ProjectID            string  `json:"projectId"`
	Name                 string  `json:"name"`
	ClientID             string  `json:"clientId,omitempty"`
	BudgetType           string  `json:"budgetType,omitempty"`
	BudgetValue          float64 `json:"budgetValue,omitempty"`
	BurnHours            float64 `json:"burnHours"`
	Health               Health  `json:"budgetHealth,omitempty"`
	IsRetainer           bool    `json:"isRetainer"`
	RemainingBudget      float64 `json:"remainingBudget"`
	TotalRevenueCents    float64 `json:"totalRevenueCents"`
	TotalCostCents       float64 `json:"totalCostCents"`
	GrossMarginCents     float64 `json:"grossMarginCents"`
	GrossMarginPercent   float64 `json:"grossMarginPercent"`
	EffectiveHourlyRate  float64 `json:"effectiveHourlyRate"`
	DefaultBillRateCents int64   `json:"defaultBillRateCents"`
	EntryCount           int     `json:"entryCount"`
}

func (ManagerProjectView) projectView() {}

// ViewHealth returns the budget health bucket.
func (v ManagerProjectView) ViewHealth() Health { return v.Health }

// ViewForRole shapes a project's financials for the caller's role.
func ViewForRole(role org.Role, proj project.Project, fin Financials) ProjectView {
	budgetType := ""
	budgetValue := 0.0
	if proj.Budget != nil {
		budgetType = string(proj.Budget.Type)
		budgetValue = proj.Budget.Value
	}

	if !org.ManagerAccess(role) {
		return MemberProjectView{
			ProjectID:  proj.ID,
			Name:       proj.Name,
			ClientID:   proj.ClientID,
			BudgetType: budgetType,
			BurnHours:  round1(fin.BurnHours),
			Health:     fin.Health,
			IsRetainer: proj.IsRetainer,
		}
	}

	return ManagerProjectView{
		ProjectID:            proj.ID,
		Name:                 proj.Name,
		ClientID:             proj.ClientID,
		BudgetType:           budgetType,
		BudgetValue:          budgetValue,
		BurnHours:            round1(fin.BurnHours),
		Health:               fin.Health,
		IsRetainer:           proj.IsRetainer,
		RemainingBudget:      fin.RemainingBudget,
		TotalRevenueCents:    fin.TotalRevenueCents,
		TotalCostCents:       fin.TotalCostCents,
		GrossMarginCents:     fin.GrossMarginCents,
		GrossMarginPercent:   round1(fin.GrossMarginPercent),
		EffectiveHourlyRate:  math.Round(fin.EffectiveHourlyRate),
		DefaultBillRateCents: proj.DefaultBillRateCents,
		EntryCount:           fin.EntryCount,
	}
}

// Summary aggregates health buckets across an organization's projects.
type Summary struct {
	TotalProjects   int `json:"totalProjects"`
	HealthyProjects int `json:"healthyProjects"`
	TightProjects   int `json:"tightProjects"`
	OverProjects    int `json:"overBudgetProjects"`
}

// Summarize counts budget health buckets over the shaped views.
func Summarize(views []ProjectView) Summary {
	summary := Summary{TotalProjects: len(views)}
	for _, view := range views {
		switch view.ViewHealth() {
		case HealthHealthy:
			summary.HealthyProjects++
		case HealthTight:
			summary.TightProjects++
		case HealthOver:
			summary.OverProjects++
		}
	}
	return summary
}
