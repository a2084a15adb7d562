package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framehq/frame/internal/org"
	"github.com/framehq/frame/internal/project"
)

func minutes(m int) *int { return &m }

func hoursProject(t *testing.T, budgetHours float64) project.Project {
	t.Helper()
	proj, err := project.New("p1", "org-1", "", "Platform rebuild",
		&project.Budget{Type: project.BudgetHours, Value: budgetHours}, 10000, false)
	require.NoError(t, err)
	return proj
}

func TestAggregateWorkedScenario(t *testing.T) {
	// 80 billable hours at $100/hr bill and $50/hr cost against a
	// 100-hour budget.
	proj := hoursProject(t, 100)
	users := map[string]UserRate{
		"u1": {Role: org.RoleMember, CostRateCents: 5000},
	}
	var entries []Entry
	for i := 0; i < 8; i++ {
		entries = append(entries, Entry{UserID: "u1", Minutes: minutes(600), Billable: true})
	}

	fin := Aggregate(proj, entries, users, RateBook{ProjectDefaults: map[string]int64{"p1": 10000}})

	assert.Equal(t, 80.0, fin.BurnHours)
	assert.Equal(t, 800000.0, fin.TotalRevenueCents)
	assert.Equal(t, 400000.0, fin.TotalCostCents)
	assert.Equal(t, 400000.0, fin.GrossMarginCents)
	assert.Equal(t, 50.0, fin.GrossMarginPercent)
	assert.True(t, fin.HasBudget)
	assert.Equal(t, 20.0, fin.RemainingBudget)
	assert.Equal(t, 20.0, fin.BudgetPercent)
	assert.Equal(t, HealthTight, fin.Health)
}

func TestAggregateNonBillableAccruesCostOnly(t *testing.T) {
	proj := hoursProject(t, 100)
	users := map[string]UserRate{
		"u1": {Role: org.RoleMember, CostRateCents: 5000},
	}
	entries := []Entry{
		{UserID: "u1", Minutes: minutes(80 * 60), Billable: true},
		{UserID: "u1", Minutes: minutes(10 * 60), Billable: false},
	}

	fin := Aggregate(proj, entries, users, RateBook{ProjectDefaults: map[string]int64{"p1": 10000}})

	assert.Equal(t, 90.0, fin.BurnHours)
	assert.Equal(t, 800000.0, fin.TotalRevenueCents, "non-billable entry must not add revenue")
	assert.Equal(t, 450000.0, fin.TotalCostCents, "cost accrues for non-billable work too")
}

func TestAggregateRunningEntriesSkipped(t *testing.T) {
	proj := hoursProject(t, 10)
	entries := []Entry{
		{UserID: "u1", Minutes: nil, Billable: true},
		{UserID: "u1", Minutes: minutes(60), Billable: true},
	}

	fin := Aggregate(proj, entries, map[string]UserRate{"u1": {Role: org.RoleMember}}, RateBook{})

	assert.Equal(t, 1.0, fin.BurnHours)
	assert.Equal(t, 2, fin.EntryCount)
}

func TestAggregateNoRevenueNeverNaN(t *testing.T) {
	proj, err := project.New("p1", "org-1", "", "Internal ops", nil, 0, false)
	require.NoError(t, err)
	entries := []Entry{
		{UserID: "u1", Minutes: minutes(120), Billable: false},
	}

	fin := Aggregate(proj, entries, map[string]UserRate{"u1": {CostRateCents: 4000}}, RateBook{})

	assert.Equal(t, 0.0, fin.TotalRevenueCents)
	assert.Equal(t, 0.0, fin.GrossMarginPercent, "margin percent is defined as 0 without revenue")
	assert.Equal(t, 0.0, fin.EffectiveHourlyRate)
	assert.False(t, fin.HasBudget)
}

func TestAggregateAmountBudget(t *testing.T) {
	proj, err := project.New("p1", "org-1", "", "Fixed fee",
		&project.Budget{Type: project.BudgetAmount, Value: 1000000}, 10000, false)
	require.NoError(t, err)
	entries := []Entry{
		{UserID: "u1", Minutes: minutes(60 * 60), Billable: true},
	}

	fin := Aggregate(proj, entries, map[string]UserRate{"u1": {Role: org.RoleMember}},
		RateBook{ProjectDefaults: map[string]int64{"p1": 10000}})

	assert.Equal(t, 600000.0, fin.TotalRevenueCents)
	assert.Equal(t, 400000.0, fin.RemainingBudget)
	assert.Equal(t, 40.0, fin.BudgetPercent)
	assert.Equal(t, HealthHealthy, fin.Health)
}

func TestClassifyBudgetBoundaries(t *testing.T) {
	assert.Equal(t, HealthHealthy, ClassifyBudget(25))
	assert.Equal(t, HealthTight, ClassifyBudget(24.999))
	assert.Equal(t, HealthTight, ClassifyBudget(0))
	assert.Equal(t, HealthOver, ClassifyBudget(-0.01))
	assert.Equal(t, HealthHealthy, ClassifyBudget(100))
}

func TestViewForRoleShapesOutput(t *testing.T) {
	proj := hoursProject(t, 100)
	fin := Financials{
		BurnHours:         80.04,
		TotalRevenueCents: 800000,
		TotalCostCents:    400000,
		GrossMarginCents:  400000,
		HasBudget:         true,
		RemainingBudget:   20,
		BudgetPercent:     20,
		Health:            HealthTight,
		EntryCount:        8,
	}

	memberView := ViewForRole(org.RoleMember, proj, fin)
	mv, ok := memberView.(MemberProjectView)
	require.True(t, ok, "members get the member variant")
	assert.Equal(t, 80.0, mv.BurnHours)
	assert.Equal(t, HealthTight, mv.Health)

	managerView := ViewForRole(org.RoleManager, proj, fin)
	gv, ok := managerView.(ManagerProjectView)
	require.True(t, ok, "managers get the full variant")
	assert.Equal(t, 800000.0, gv.TotalRevenueCents)
	assert.Equal(t, 400000.0, gv.TotalCostCents)
	assert.Equal(t, 8, gv.EntryCount)
}

func TestSummarize(t *testing.T) {
	views := []ProjectView{
		MemberProjectView{Health: HealthHealthy},
		MemberProjectView{Health: HealthTight},
		ManagerProjectView{Health: HealthOver},
		ManagerProjectView{Health: HealthHealthy},
	}

	summary := Summarize(views)
	assert.Equal(t, Summary{TotalProjects: 4, HealthyProjects: 2, TightProjects: 1, OverProjects: 1}, summary)
}
