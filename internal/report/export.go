// Package report renders time entries into exportable reports: CSV and
// JSON detail exports plus per-project financial summaries.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/framehq/frame/internal/timetrack"
)

// Format selects the export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// csvHeader is the column layout of the detail export.
var csvHeader = []string{
	"Date",
	"Start Time",
	"End Time",
	"Duration h:mm",
	"Duration Minutes",
	"Duration Hours",
	"User",
	"User Email",
	"Client",
	"Project",
	"Task",
	"Description",
	"Billable",
	"Created At",
}

// Row is one exported time entry joined with its display names.
type Row struct {
	Entry       timetrack.Entry
	UserName    string
	UserEmail   string
	ClientName  string
	ProjectName string
	TaskName    string
}

// Filter narrows the exported entries. Zero values mean "no filter".
// Running entries are always excluded: only closed work is reported.
type Filter struct {
	From      time.Time
	To        time.Time
	ProjectID string
	UserID    string
}

// Matches reports whether a closed entry falls inside the filter.
func (f Filter) Matches(entry timetrack.Entry) bool {
	if entry.Running() {
		return false
	}
	if !f.From.IsZero() && entry.StartedAt.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !entry.StartedAt.Before(f.To) {
		return false
	}
	if f.ProjectID != "" && entry.ProjectID != f.ProjectID {
		return false
	}
	if f.UserID != "" && entry.UserID != f.UserID {
		return false
	}
	return true
}

// WriteCSV streams rows as a CSV document.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(csvRecord(row)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvRecord(row Row) []string {
	entry := row.Entry
	minutes := 0
	if entry.Minutes != nil {
		minutes = *entry.Minutes
	}

	endTime := ""
	if entry.EndedAt != nil {
		endTime = entry.EndedAt.UTC().Format("15:04:05")
	}

	billable := "No"
	if entry.Billable {
		billable = "Yes"
	}

	return []string{
		entry.StartedAt.UTC().Format("2006-01-02"),
		entry.StartedAt.UTC().Format("15:04:05"),
		endTime,
		fmt.Sprintf("%d:%02d", minutes/60, minutes%60),
		fmt.Sprintf("%d", minutes),
		fmt.Sprintf("%.2f", float64(minutes)/60),
		row.UserName,
		row.UserEmail,
		row.ClientName,
		row.ProjectName,
		row.TaskName,
		entry.Note,
		billable,
		entry.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// jsonRow is the JSON export shape for one entry.
type jsonRow struct {
	ID              string  `json:"id"`
	Date            string  `json:"date"`
	StartTime       string  `json:"startTime"`
	EndTime         string  `json:"endTime,omitempty"`
	DurationMinutes int     `json:"durationMinutes"`
	DurationHours   float64 `json:"durationHours"`
	User            string  `json:"user"`
	UserEmail       string  `json:"userEmail"`
	Client          string  `json:"client,omitempty"`
	Project         string  `json:"project"`
	Task            string  `json:"task,omitempty"`
	Description     string  `json:"description,omitempty"`
	Billable        bool    `json:"billable"`
	CreatedAt       string  `json:"createdAt"`
}

// WriteJSON streams rows as a JSON array.
func WriteJSON(w io.Writer, rows []Row) error {
	out := make([]jsonRow, 0, len(rows))
	for _, row := range rows {
		entry := row.Entry
		minutes := 0
		if entry.Minutes != nil {
			minutes = *entry.Minutes
		}
		jr := jsonRow{
			ID:              entry.ID,
			Date:            entry.StartedAt.UTC().Format("2006-01-02"),
			StartTime:       entry.StartedAt.UTC().Format("15:04:05"),
			DurationMinutes: minutes,
			DurationHours:   float64(minutes) / 60,
			User:            row.UserName,
			UserEmail:       row.UserEmail,
			Client:          row.ClientName,
			Project:         row.ProjectName,
			Task:            row.TaskName,
			Description:     entry.Note,
			Billable:        entry.Billable,
			CreatedAt:       entry.CreatedAt.UTC().Format(time.RFC3339),
		}
		if entry.EndedAt != nil {
			jr.EndTime = entry.EndedAt.UTC().Format("15:04:05")
		}
		out = append(out, jr)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
