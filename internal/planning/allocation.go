// Package planning holds weekly resource allocations and the
// capacity/utilization grid aggregation.
package planning

import (
	"time"

	"github.com/framehq/frame/internal/org"
	apperrors "github.com/framehq/frame/internal/platform/errors"
)

// WeeklyCapacityHours is each user's planning capacity per week.
// A per-user column can replace this constant without touching the
// aggregation below.
const WeeklyCapacityHours = 40.0

// MaxPlannedHours bounds a single allocation cell.
const MaxPlannedHours = 80.0

// Allocation plans hours for one user on one project in one week. Rows
// with zero planned hours are never stored: absence means zero.
type Allocation struct {
	ID           string
	OrgID        string
	UserID       string
	ProjectID    string
	WeekStart    time.Time
	PlannedHours float64
	CreatedAt    time.Time
}

// ValidatePlannedHours bounds an allocation write. Zero is valid input:
// it means "remove the allocation".
func ValidatePlannedHours(hours float64) error {
	if hours < 0 || hours > MaxPlannedHours {
		return apperrors.New(apperrors.CodeAllocationInvalidHours, "planned hours must be between 0 and 80")
	}
	return nil
}

// WeekStartOf truncates a date to the start of its planning week in UTC,
// honoring the organization's configured week start day.
func WeekStartOf(date time.Time, weekStart org.WeekStart) time.Time {
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	firstDay := time.Monday
	if weekStart == org.WeekStartSunday {
		firstDay = time.Sunday
	}
	offset := (int(date.Weekday()) - int(firstDay) + 7) % 7
	return date.AddDate(0, 0, -offset)
}

// ParseWeekStart parses a yyyy-mm-dd week key and verifies it is aligned
// to the organization's week start day.
func ParseWeekStart(value string, weekStart org.WeekStart) (time.Time, error) {
	parsed, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		return time.Time{}, apperrors.Wrap(apperrors.CodeAllocationInvalidWeek, "invalid week start date", err)
	}
	if !WeekStartOf(parsed, weekStart).Equal(parsed) {
		return time.Time{}, apperrors.New(apperrors.CodeAllocationInvalidWeek, "date is not the start of a planning week")
	}
	return parsed, nil
}
