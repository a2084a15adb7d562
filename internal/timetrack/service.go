package timetrack

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/framehq/frame/internal/org"
	apperrors "github.com/framehq/frame/internal/platform/errors"
	"github.com/framehq/frame/internal/project"
)

// switchMergeWindow is how young a running entry may be for a switch to
// discard it and carry its start time into the replacement, instead of
// recording a sub-15-second sliver.
const switchMergeWindow = 15 * time.Second

// EntryStore is the persistence surface the timer service needs.
type EntryStore interface {
	CreateEntry(ctx context.Context, entry Entry) error
	GetEntry(ctx context.Context, orgID, entryID string) (Entry, error)
	// GetRunningEntry returns the user's open entry, or a NOT_FOUND
	// error when no timer is running.
	GetRunningEntry(ctx context.Context, orgID, userID string) (Entry, error)
	UpdateEntry(ctx context.Context, entry Entry) error
	DeleteEntry(ctx context.Context, orgID, entryID string) error
}

// ProjectGetter resolves org-scoped projects for timer validation.
type ProjectGetter interface {
	GetProject(ctx context.Context, orgID, projectID string) (project.Project, error)
}

// Service drives the timer lifecycle over an entry store.
type Service struct {
	entries  EntryStore
	projects ProjectGetter
	now      func() time.Time
	newID    func() string
}

// NewService creates a timer service.
func NewService(entries EntryStore, projects ProjectGetter) *Service {
	return &Service{
		entries:  entries,
		projects: projects,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// StartInput describes a timer start request.
type StartInput struct {
	ProjectID string
	TaskID    string
	Note      string
}

// Start opens a running entry for the user. It fails when a timer is
// already running; the storage layer's uniqueness rule backs this check
// under concurrent duplicate requests.
func (s *Service) Start(ctx context.Context, orgID, userID string, in StartInput) (Entry, error) {
	proj, err := s.projects.GetProject(ctx, orgID, in.ProjectID)
	if err != nil {
		return Entry{}, err
	}
	if proj.Status == project.StatusArchived {
		return Entry{}, apperrors.New(apperrors.CodeProjectArchived, "cannot track time on an archived project")
	}

	if _, err := s.entries.GetRunningEntry(ctx, orgID, userID); err == nil {
		return Entry{}, apperrors.New(apperrors.CodeTimerAlreadyRunning, "timer is already running")
	} else if !isNotFound(err) {
		return Entry{}, err
	}

	entry := Entry{
		ID:        s.newID(),
		OrgID:     orgID,
		UserID:    userID,
		ProjectID: in.ProjectID,
		TaskID:    in.TaskID,
		StartedAt: s.now(),
		Note:      in.Note,
		Billable:  true,
	}
	if err := s.entries.CreateEntry(ctx, entry); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// Stop closes the user's entry, computing its duration with a one-minute
// floor.
func (s *Service) Stop(ctx context.Context, orgID, userID, entryID string) (Entry, error) {
	entry, err := s.ownedEntry(ctx, orgID, userID, entryID)
	if err != nil {
		return Entry{}, err
	}
	if !entry.Running() {
		return Entry{}, apperrors.New(apperrors.CodeTimerAlreadyStopped, "timer is already stopped")
	}

	endedAt := s.now()
	minutes := ClosedMinutes(entry.StartedAt, endedAt)
	entry.EndedAt = &endedAt
	entry.Minutes = &minutes
	if err := s.entries.UpdateEntry(ctx, entry); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// SwitchInput describes a timer switch request.
type SwitchInput struct {
	FromEntryID string
	ProjectID   string
	TaskID      string
	Note        string
}

// Switch stops the running entry and starts a new one in a single
// operation. A switch within the merge window discards the
// barely-started entry and hands its start time to the replacement.
func (s *Service) Switch(ctx context.Context, orgID, userID string, in SwitchInput) (Entry, error) {
	proj, err := s.projects.GetProject(ctx, orgID, in.ProjectID)
	if err != nil {
		return Entry{}, err
	}
	if proj.Status == project.StatusArchived {
		return Entry{}, apperrors.New(apperrors.CodeProjectArchived, "cannot track time on an archived project")
	}

	current, err := s.ownedEntry(ctx, orgID, userID, in.FromEntryID)
	if err != nil {
		return Entry{}, err
	}
	if !current.Running() {
		return Entry{}, apperrors.New(apperrors.CodeTimerAlreadyStopped, "timer is already stopped")
	}

	now := s.now()
	startedAt := now
	if now.Sub(current.StartedAt) < switchMergeWindow {
		if err := s.entries.DeleteEntry(ctx, orgID, current.ID); err != nil {
			return Entry{}, err
		}
		startedAt = current.StartedAt
	} else {
		endedAt := now
		minutes := ClosedMinutes(current.StartedAt, endedAt)
		current.EndedAt = &endedAt
		current.Minutes = &minutes
		if err := s.entries.UpdateEntry(ctx, current); err != nil {
			return Entry{}, err
		}
	}

	next := Entry{
		ID:        s.newID(),
		OrgID:     orgID,
		UserID:    userID,
		ProjectID: in.ProjectID,
		TaskID:    in.TaskID,
		StartedAt: startedAt,
		Note:      in.Note,
		Billable:  true,
	}
	if err := s.entries.CreateEntry(ctx, next); err != nil {
		return Entry{}, err
	}
	return next, nil
}

// Running returns the user's open entry, if any. The boolean reports
// whether a timer is running.
func (s *Service) Running(ctx context.Context, orgID, userID string) (Entry, bool, error) {
	entry, err := s.entries.GetRunningEntry(ctx, orgID, userID)
	if err != nil {
		if isNotFound(err) {
			return Entry{}, false, nil
		}
		return Entry{}, false, err
	}
	return entry, true, nil
}

// ManualInput describes a closed entry created without a timer.
type ManualInput struct {
	ProjectID string
	TaskID    string
	StartedAt time.Time
	Minutes   int
	Note      string
	Billable  bool
}

// CreateManual records a closed entry with an explicit duration.
func (s *Service) CreateManual(ctx context.Context, orgID, userID string, in ManualInput) (Entry, error) {
	if in.Minutes < 1 {
		return Entry{}, apperrors.New(apperrors.CodeEntryInvalidMinutes, "minutes must be at least 1")
	}
	proj, err := s.projects.GetProject(ctx, orgID, in.ProjectID)
	if err != nil {
		return Entry{}, err
	}
	if proj.Status == project.StatusArchived {
		return Entry{}, apperrors.New(apperrors.CodeProjectArchived, "cannot track time on an archived project")
	}

	startedAt := in.StartedAt
	if startedAt.IsZero() {
		startedAt = s.now()
	}
	endedAt := startedAt.Add(time.Duration(in.Minutes) * time.Minute)
	minutes := in.Minutes
	entry := Entry{
		ID:        s.newID(),
		OrgID:     orgID,
		UserID:    userID,
		ProjectID: in.ProjectID,
		TaskID:    in.TaskID,
		StartedAt: startedAt,
		EndedAt:   &endedAt,
		Minutes:   &minutes,
		Note:      in.Note,
		Billable:  in.Billable,
	}
	if err := s.entries.CreateEntry(ctx, entry); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// UpdateInput carries the editable fields of a closed entry.
type UpdateInput struct {
	TaskID   string
	Minutes  int
	Note     string
	Billable bool
}

// Update edits a closed entry on the actor's behalf. Members edit their
// own entries; managers edit anyone's in the org.
func (s *Service) Update(ctx context.Context, actor org.User, entryID string, in UpdateInput) (Entry, error) {
	entry, err := s.entries.GetEntry(ctx, actor.OrgID, entryID)
	if err != nil {
		return Entry{}, err
	}
	if !CanModify(actor, entry) {
		return Entry{}, apperrors.New(apperrors.CodePermissionDenied, "cannot edit this time entry")
	}

	entry.TaskID = in.TaskID
	entry.Note = in.Note
	entry.Billable = in.Billable
	// Minutes apply to closed entries only; running entries keep
	// accruing until stopped.
	if !entry.Running() {
		if in.Minutes < 1 {
			return Entry{}, apperrors.New(apperrors.CodeEntryInvalidMinutes, "minutes must be at least 1")
		}
		minutes := in.Minutes
		endedAt := entry.StartedAt.Add(time.Duration(minutes) * time.Minute)
		entry.Minutes = &minutes
		entry.EndedAt = &endedAt
	}
	if err := s.entries.UpdateEntry(ctx, entry); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// Delete removes an entry on the actor's behalf. Deleting another
// user's entry requires owner access.
func (s *Service) Delete(ctx context.Context, actor org.User, entryID string) error {
	entry, err := s.entries.GetEntry(ctx, actor.OrgID, entryID)
	if err != nil {
		return err
	}
	if !CanDelete(actor, entry) {
		return apperrors.New(apperrors.CodePermissionDenied, "cannot delete this time entry")
	}
	return s.entries.DeleteEntry(ctx, actor.OrgID, entry.ID)
}

func (s *Service) ownedEntry(ctx context.Context, orgID, userID, entryID string) (Entry, error) {
	entry, err := s.entries.GetEntry(ctx, orgID, entryID)
	if err != nil {
		return Entry{}, err
	}
	// Hide other users' entries from timer operations.
	if entry.UserID != userID {
		return Entry{}, apperrors.New(apperrors.CodeNotFound, "time entry not found")
	}
	return entry, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, apperrors.New(apperrors.CodeNotFound, ""))
}
