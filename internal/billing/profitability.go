package billing

import (
	"math"

	"github.com/framehq/frame/internal/org"
	"github.com/framehq/frame/internal/project"
)

// Health classifies remaining budget.
type Health string

const (
	HealthHealthy Health = "Healthy"
	HealthTight   Health = "Tight"
	HealthOver    Health = "Over"
)

// ClassifyBudget maps a remaining-budget percentage to a health bucket.
// Both thresholds are strict: exactly 25% remaining is Healthy and
// exactly 0% remaining is Tight.
func ClassifyBudget(pct float64) Health {
	switch {
	case pct < 0:
		return HealthOver
	case pct < 25:
		return HealthTight
	default:
		return HealthHealthy
	}
}

// Entry is the slice of a time entry the aggregator needs. Minutes is nil
// while the entry's timer is still running.
type Entry struct {
	UserID   string
	Minutes  *int
	Billable bool
}

// UserRate carries the per-user inputs to cost and revenue accrual.
type UserRate struct {
	Role          org.Role
	CostRateCents int64
}

// Financials is the full profitability readout for one project.
type Financials struct {
	BurnHours           float64
	TotalCostCents      float64
	TotalRevenueCents   float64
	GrossMarginCents    float64
	GrossMarginPercent  float64
	EffectiveHourlyRate float64

	// Budget fields are meaningful only when HasBudget is true.
	HasBudget       bool
	RemainingBudget float64
	BudgetPercent   float64
	Health          Health

	EntryCount int
}

// Aggregate computes profitability for a project in a single pass over
// its time entries. Running entries (nil minutes) contribute nothing.
// Cost accrues for every closed entry whether or not it is billable;
// revenue accrues only for billable entries, at the resolved bill rate.
func Aggregate(proj project.Project, entries []Entry, users map[string]UserRate, rates RateBook) Financials {
	fin := Financials{EntryCount: len(entries)}

	for _, entry := range entries {
		if entry.Minutes == nil {
			continue
		}
		hours := float64(*entry.Minutes) / 60
		fin.BurnHours += hours

		user := users[entry.UserID]
		fin.TotalCostCents += hours * float64(user.CostRateCents)

		if entry.Billable {
			rate := rates.ResolveBillRate(proj.ID, entry.UserID, user.Role)
			fin.TotalRevenueCents += hours * float64(rate)
		}
	}

	fin.GrossMarginCents = fin.TotalRevenueCents - fin.TotalCostCents
	if fin.TotalRevenueCents > 0 {
		fin.GrossMarginPercent = fin.GrossMarginCents / fin.TotalRevenueCents * 100
	}
	if fin.BurnHours > 0 {
		fin.EffectiveHourlyRate = fin.TotalRevenueCents / fin.BurnHours
	}

	if proj.Budget != nil {
		fin.HasBudget = true
		switch proj.Budget.Type {
		case project.BudgetHours:
			fin.RemainingBudget = proj.Budget.Value - fin.BurnHours
		case project.BudgetAmount:
			fin.RemainingBudget = proj.Budget.Value - fin.TotalRevenueCents
		}
		fin.BudgetPercent = fin.RemainingBudget / proj.Budget.Value * 100
		fin.Health = ClassifyBudget(fin.BudgetPercent)
	}

	return fin
}

// round1 rounds to one decimal place for display fields.
func round1(value float64) float64 {
	return math.Round(value*10) / 10
}
