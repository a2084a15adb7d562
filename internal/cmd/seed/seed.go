// Package seed populates a local development database with a demo
// organization: a small team, clients, projects with budgets, a few weeks
// of time entries, and a planning grid.
package seed

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/framehq/frame/internal/org"
	"github.com/framehq/frame/internal/planning"
	entrypoint "github.com/framehq/frame/internal/platform/cmd"
	"github.com/framehq/frame/internal/project"
	"github.com/framehq/frame/internal/storage/sqlite"
	"github.com/framehq/frame/internal/timetrack"
)

// Config holds seed command configuration.
type Config struct {
	DBPath  string `env:"FRAME_DB_PATH" envDefault:"frame.db"`
	Weeks   int    `env:"FRAME_SEED_WEEKS" envDefault:"4"`
	Verbose bool
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "The SQLite database path")
	fs.IntVar(&cfg.Weeks, "weeks", cfg.Weeks, "Weeks of history to generate")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "verbose output")

	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run seeds the database at cfg.DBPath.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	s := seeder{store: store, now: time.Now().UTC()}
	if err := s.run(ctx, cfg); err != nil {
		return err
	}

	fmt.Fprintf(out, "seeded %s: org %q, sign in as %s\n", cfg.DBPath, s.org.Name, s.owner.Email)
	return nil
}

type seeder struct {
	store *sqlite.Store
	now   time.Time

	org      org.Organization
	owner    org.User
	manager  org.User
	members  []org.User
	projects []project.Project
}

func (s *seeder) run(ctx context.Context, cfg Config) error {
	if err := s.createOrg(ctx); err != nil {
		return err
	}
	if err := s.createTeam(ctx); err != nil {
		return err
	}
	if err := s.createProjects(ctx); err != nil {
		return err
	}
	if err := s.createEntries(ctx, cfg.Weeks); err != nil {
		return err
	}
	return s.createAllocations(ctx)
}

func (s *seeder) createOrg(ctx context.Context) error {
	o, err := org.NewOrganization(uuid.NewString(), "Acme Studio", "UTC", org.WeekStartMonday)
	if err != nil {
		return err
	}
	o.CreatedAt = s.now
	if err := s.store.CreateOrganization(ctx, o); err != nil {
		return fmt.Errorf("create org: %w", err)
	}
	s.org = o
	return nil
}

func (s *seeder) createTeam(ctx context.Context) error {
	team := []struct {
		name  string
		email string
		role  org.Role
		cost  int64
		bill  int64
	}{
		{"Olive Owner", "olive@acme.test", org.RoleOwner, 9000, 18000},
		{"Morgan Manager", "morgan@acme.test", org.RoleManager, 8000, 16000},
		{"Devin Developer", "devin@acme.test", org.RoleMember, 6000, 12000},
		{"Dana Designer", "dana@acme.test", org.RoleMember, 5500, 11000},
	}

	for _, member := range team {
		u, err := org.NewUser(uuid.NewString(), s.org.ID, member.name, member.email, member.role)
		if err != nil {
			return err
		}
		u.CostRateCents = member.cost
		u.BillRateCents = member.bill
		u.CreatedAt = s.now
		if err := s.store.CreateUser(ctx, u); err != nil {
			return fmt.Errorf("create user %s: %w", member.email, err)
		}
		switch member.role {
		case org.RoleOwner:
			s.owner = u
		case org.RoleManager:
			s.manager = u
		default:
			s.members = append(s.members, u)
		}
	}
	return nil
}

func (s *seeder) createProjects(ctx context.Context) error {
	client := project.Client{
		ID:        uuid.NewString(),
		OrgID:     s.org.ID,
		Name:      "Globex",
		CreatedAt: s.now,
	}
	if err := s.store.CreateClient(ctx, client); err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	specs := []struct {
		name     string
		budget   *project.Budget
		rate     int64
		retainer bool
	}{
		{"Website Redesign", &project.Budget{Type: project.BudgetHours, Value: 200}, 15000, false},
		{"Mobile App", &project.Budget{Type: project.BudgetAmount, Value: 5000000}, 17500, false},
		{"Support Retainer", nil, 12000, true},
	}

	for _, spec := range specs {
		p, err := project.New(uuid.NewString(), s.org.ID, client.ID, spec.name, spec.budget, spec.rate, spec.retainer)
		if err != nil {
			return err
		}
		p.CreatedAt = s.now
		if err := s.store.CreateProject(ctx, p); err != nil {
			return fmt.Errorf("create project %s: %w", spec.name, err)
		}
		s.projects = append(s.projects, p)

		for _, taskName := range []string{"Discovery", "Build", "Review"} {
			t, err := project.NewTask(uuid.NewString(), s.org.ID, p.ID, taskName)
			if err != nil {
				return err
			}
			t.CreatedAt = s.now
			if err := s.store.CreateTask(ctx, t); err != nil {
				return fmt.Errorf("create task: %w", err)
			}
		}
	}

	// One per-role override so the rate cascade has data to show.
	if err := s.store.SetRoleRateOverride(ctx, s.projects[0].ID, org.RoleMember, 13000); err != nil {
		return fmt.Errorf("seed role override: %w", err)
	}
	return nil
}

// createEntries writes weeks of closed workday entries for every member,
// rotating through projects.
func (s *seeder) createEntries(ctx context.Context, weeks int) error {
	users := append([]org.User{s.manager}, s.members...)
	start := planning.WeekStartOf(s.now.AddDate(0, 0, -7*weeks), s.org.WeekStart)

	for week := 0; week < weeks; week++ {
		for day := 0; day < 5; day++ {
			dayStart := start.AddDate(0, 0, 7*week+day)
			for idx, u := range users {
				proj := s.projects[(week+idx)%len(s.projects)]
				startedAt := dayStart.Add(9 * time.Hour)
				minutes := 6 * 60
				endedAt := startedAt.Add(time.Duration(minutes) * time.Minute)

				entry := timetrack.Entry{
					ID:        uuid.NewString(),
					OrgID:     s.org.ID,
					UserID:    u.ID,
					ProjectID: proj.ID,
					StartedAt: startedAt,
					EndedAt:   &endedAt,
					Minutes:   &minutes,
					Note:      "seeded work",
					Billable:  !proj.IsRetainer || day%2 == 0,
					CreatedAt: startedAt,
				}
				if err := s.store.CreateEntry(ctx, entry); err != nil {
					return fmt.Errorf("create entry: %w", err)
				}
			}
		}
	}
	return nil
}

// createAllocations plans the next four weeks for every member.
func (s *seeder) createAllocations(ctx context.Context) error {
	users := append([]org.User{s.manager}, s.members...)
	start := planning.WeekStartOf(s.now, s.org.WeekStart)

	for week := 0; week < 4; week++ {
		weekStart := start.AddDate(0, 0, 7*week)
		for idx, u := range users {
			proj := s.projects[(week+idx)%len(s.projects)]
			allocation := planning.Allocation{
				ID:           uuid.NewString(),
				OrgID:        s.org.ID,
				UserID:       u.ID,
				ProjectID:    proj.ID,
				WeekStart:    weekStart,
				PlannedHours: 24 + float64(4*idx),
				CreatedAt:    s.now,
			}
			if err := s.store.UpsertAllocation(ctx, allocation); err != nil {
				return fmt.Errorf("create allocation: %w", err)
			}
		}
	}
	return nil
}
