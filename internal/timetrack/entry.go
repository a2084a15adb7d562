// Package timetrack holds time entries and the timer lifecycle:
// start, stop, switch, and manual entry editing.
package timetrack

import (
	"time"

	"github.com/framehq/frame/internal/org"
)

// Entry is a span of tracked work. A running entry has a nil EndedAt and
// nil Minutes; closing it sets both.
type Entry struct {
	ID        string
	OrgID     string
	UserID    string
	ProjectID string
	TaskID    string // optional
	StartedAt time.Time
	EndedAt   *time.Time
	Minutes   *int
	Note      string
	Billable  bool
	CreatedAt time.Time
}

// Running reports whether the entry's timer is still open.
func (e Entry) Running() bool {
	return e.EndedAt == nil
}

// ClosedMinutes computes the stored duration for a stopped timer.
// Durations round down to whole minutes with a floor of one minute, so
// even an immediately-stopped timer records work.
func ClosedMinutes(startedAt, endedAt time.Time) int {
	minutes := int(endedAt.Sub(startedAt) / time.Minute)
	if minutes < 1 {
		return 1
	}
	return minutes
}

// ListFilter narrows entry listings. Zero values mean "no filter"; To
// is exclusive.
type ListFilter struct {
	ProjectID string
	UserID    string
	From      time.Time
	To        time.Time
}

// CanModify reports whether the actor may edit the entry. Managers edit
// any entry in their org; members only their own.
func CanModify(actor org.User, entry Entry) bool {
	if actor.OrgID != entry.OrgID {
		return false
	}
	if org.HasPermission(actor.Role, org.PermTimeEntryUpdateAll) {
		return true
	}
	return org.HasPermission(actor.Role, org.PermTimeEntryUpdateOwn) && actor.ID == entry.UserID
}

// CanDelete reports whether the actor may delete the entry. Deleting
// others' entries requires owner access.
func CanDelete(actor org.User, entry Entry) bool {
	if actor.OrgID != entry.OrgID {
		return false
	}
	if org.HasPermission(actor.Role, org.PermTimeEntryDeleteAll) {
		return true
	}
	return org.HasPermission(actor.Role, org.PermTimeEntryDeleteOwn) && actor.ID == entry.UserID
}
