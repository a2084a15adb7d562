package planning

import (
	"math"
	"time"
)

// WeekCell is one user's aggregated plan for one week.
type WeekCell struct {
	WeekStart          time.Time    `json:"weekStart"`
	Allocations        []Allocation `json:"allocations"`
	TotalPlanned       float64      `json:"totalPlanned"`
	Capacity           float64      `json:"capacity"`
	Variance           float64      `json:"variance"`
	UtilizationPercent int          `json:"utilizationPercent"`
}

// UserRow is one user's plan across the requested week window.
type UserRow struct {
	UserID             string     `json:"userId"`
	Capacity           float64    `json:"capacity"`
	Weeks              []WeekCell `json:"weeks"`
	TotalPlanned       float64    `json:"totalPlanned"`
	AverageUtilization int        `json:"averageUtilization"`
}

// AggregateWeek reconciles one user's allocations for a week against
// capacity. Absent rows contribute zero by construction.
func AggregateWeek(weekStart time.Time, allocations []Allocation, capacity float64) WeekCell {
	cell := WeekCell{
		WeekStart:   weekStart,
		Allocations: allocations,
		Capacity:    capacity,
	}
	for _, allocation := range allocations {
		cell.TotalPlanned += allocation.PlannedHours
	}
	cell.Variance = capacity - cell.TotalPlanned
	if capacity > 0 {
		cell.UtilizationPercent = int(math.Round(cell.TotalPlanned / capacity * 100))
	}
	return cell
}

// AggregateUser builds a user's grid row over an ordered week window.
// allocationsByWeek is keyed by the yyyy-mm-dd week key.
func AggregateUser(userID string, weekStarts []time.Time, allocationsByWeek map[string][]Allocation, capacity float64) UserRow {
	row := UserRow{
		UserID:   userID,
		Capacity: capacity,
		Weeks:    make([]WeekCell, 0, len(weekStarts)),
	}

	var utilizationSum float64
	for _, weekStart := range weekStarts {
		cell := AggregateWeek(weekStart, allocationsByWeek[WeekKey(weekStart)], capacity)
		row.Weeks = append(row.Weeks, cell)
		row.TotalPlanned += cell.TotalPlanned
		utilizationSum += float64(cell.UtilizationPercent)
	}

	if len(weekStarts) > 0 {
		row.AverageUtilization = int(math.Round(utilizationSum / float64(len(weekStarts))))
	}
	return row
}

// WeekKey formats a week start as its yyyy-mm-dd map key.
func WeekKey(weekStart time.Time) string {
	return weekStart.Format("2006-01-02")
}

// WeekWindow returns n consecutive week starts beginning at start.
func WeekWindow(start time.Time, n int) []time.Time {
	weeks := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		weeks = append(weeks, start.AddDate(0, 0, 7*i))
	}
	return weeks
}
