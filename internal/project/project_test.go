package project

import (
	"errors"
	"testing"

	apperrors "github.com/framehq/frame/internal/platform/errors"
)

func TestNewProjectValidation(t *testing.T) {
	if _, err := New("p1", "org-1", "", "  ", nil, 0, false); !errors.Is(err, apperrors.New(apperrors.CodeProjectNameEmpty, "")) {
		t.Fatalf("empty name err = %v", err)
	}
	if _, err := New("p1", "org-1", "", "Site build", nil, -100, false); !errors.Is(err, apperrors.New(apperrors.CodeRateInvalid, "")) {
		t.Fatalf("negative rate err = %v", err)
	}

	p, err := New("p1", "org-1", "c1", "Site build", &Budget{Type: BudgetHours, Value: 100}, 15000, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p.Status != StatusActive {
		t.Fatalf("Status = %s, want active", p.Status)
	}
}

func TestValidateBudget(t *testing.T) {
	cases := []struct {
		name   string
		budget *Budget
		ok     bool
	}{
		{"absent", nil, true},
		{"hours", &Budget{Type: BudgetHours, Value: 40}, true},
		{"amount", &Budget{Type: BudgetAmount, Value: 500000}, true},
		{"bad type", &Budget{Type: "days", Value: 5}, false},
		{"zero value", &Budget{Type: BudgetHours, Value: 0}, false},
		{"negative value", &Budget{Type: BudgetAmount, Value: -1}, false},
	}

	for _, tc := range cases {
		err := ValidateBudget(tc.budget)
		if tc.ok && err != nil {
			t.Errorf("%s: unexpected error %v", tc.name, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestParseStatus(t *testing.T) {
	if _, err := ParseStatus("active"); err != nil {
		t.Fatalf("active: %v", err)
	}
	if _, err := ParseStatus("archived"); err != nil {
		t.Fatalf("archived: %v", err)
	}
	if _, err := ParseStatus("paused"); err == nil {
		t.Fatal("paused should be invalid")
	}
}

func TestNewTask(t *testing.T) {
	if _, err := NewTask("t1", "org-1", "p1", " "); err == nil {
		t.Fatal("blank task name should fail")
	}
	task, err := NewTask("t1", "org-1", "p1", "Design review")
	if err != nil {
		t.Fatalf("NewTask: %v", err)
	}
	if !task.Active {
		t.Fatal("new task should be active")
	}
}
