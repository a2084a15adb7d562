package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/framehq/frame/internal/billing"
	"github.com/framehq/frame/internal/project"
	"github.com/framehq/frame/internal/timetrack"
)

func closedEntry(start string, minutes int) timetrack.Entry {
	startedAt, _ := time.Parse(time.RFC3339, start)
	endedAt := startedAt.Add(time.Duration(minutes) * time.Minute)
	return timetrack.Entry{
		ID:        "entry-1",
		OrgID:     "org-1",
		UserID:    "user-1",
		ProjectID: "proj-1",
		StartedAt: startedAt,
		EndedAt:   &endedAt,
		Minutes:   &minutes,
		Billable:  true,
		CreatedAt: startedAt,
	}
}

func TestWriteCSV(t *testing.T) {
	entry := closedEntry("2026-03-02T09:30:00Z", 95)
	entry.Note = "wireframes, round two"
	rows := []Row{{
		Entry:       entry,
		UserName:    "Ana",
		UserEmail:   "ana@example.com",
		ClientName:  "Acme",
		ProjectName: "Website",
		TaskName:    "Design",
	}}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want header + 1 row", len(records))
	}

	row := records[1]
	want := []string{
		"2026-03-02", "09:30:00", "11:05:00",
		"1:35", "95", "1.58",
		"Ana", "ana@example.com",
		"Acme", "Website", "Design",
		"wireframes, round two", "Yes",
		"2026-03-02T09:30:00Z",
	}
	for i, field := range want {
		if row[i] != field {
			t.Errorf("column %q = %q, want %q", records[0][i], row[i], field)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	rows := []Row{{
		Entry:       closedEntry("2026-03-02T09:30:00Z", 60),
		UserName:    "Ana",
		UserEmail:   "ana@example.com",
		ProjectName: "Website",
	}}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, rows); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(decoded) != 1 {
		t.Fatalf("got %d rows, want 1", len(decoded))
	}
	if decoded[0]["durationMinutes"] != float64(60) {
		t.Errorf("durationMinutes = %v, want 60", decoded[0]["durationMinutes"])
	}
	if decoded[0]["project"] != "Website" {
		t.Errorf("project = %v, want Website", decoded[0]["project"])
	}
}

func TestFilterMatches(t *testing.T) {
	entry := closedEntry("2026-03-02T09:30:00Z", 60)

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"no filter", Filter{}, true},
		{"project match", Filter{ProjectID: "proj-1"}, true},
		{"project mismatch", Filter{ProjectID: "proj-2"}, false},
		{"user match", Filter{UserID: "user-1"}, true},
		{"user mismatch", Filter{UserID: "user-2"}, false},
		{
			"inside range",
			Filter{
				From: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
				To:   time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
			},
			true,
		},
		{
			"before range",
			Filter{From: time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)},
			false,
		},
		{
			"to is exclusive",
			Filter{To: time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)},
			false,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.filter.Matches(entry); got != tc.want {
				t.Errorf("Matches() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFilterExcludesRunningEntries(t *testing.T) {
	running := timetrack.Entry{
		ID:        "entry-2",
		StartedAt: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}
	if (Filter{}).Matches(running) {
		t.Error("running entry should never be exported")
	}
}

func TestFormatCents(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{1234550, "$12,345.50"},
		{100, "$1.00"},
		{5, "$0.05"},
		{-250075, "-$2,500.75"},
		{0, "$0.00"},
	}
	for _, tc := range tests {
		if got := FormatCents(tc.cents); got != tc.want {
			t.Errorf("FormatCents(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

func TestWriteProjectSummaryCSV(t *testing.T) {
	proj := project.Project{
		ID:    "proj-1",
		OrgID: "org-1",
		Name:  "Website",
		Budget: &project.Budget{
			Type:  project.BudgetHours,
			Value: 100,
		},
	}
	minutes := 80 * 60
	fin := billing.Aggregate(proj, []billing.Entry{
		{UserID: "user-1", Minutes: &minutes, Billable: true},
	}, map[string]billing.UserRate{
		"user-1": {CostRateCents: 5000},
	}, billing.RateBook{
		ProjectDefaults: map[string]int64{"proj-1": 10000},
	})

	var buf bytes.Buffer
	err := WriteProjectSummaryCSV(&buf, []ProjectRow{{
		ProjectName: "Website",
		ClientName:  "Acme",
		Financials:  fin,
	}})
	if err != nil {
		t.Fatalf("WriteProjectSummaryCSV() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Website", "Acme", "80.0h", "$8,000.00", "$4,000.00", "50.0%", "Tight"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q in:\n%s", want, out)
		}
	}
}
