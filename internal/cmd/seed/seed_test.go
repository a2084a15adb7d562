package seed

import (
	"flag"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.DBPath != "frame.db" {
		t.Fatalf("db path = %q, want frame.db", cfg.DBPath)
	}
	if cfg.Weeks != 4 {
		t.Fatalf("weeks = %d, want 4", cfg.Weeks)
	}
}

func TestRunSeedsDemoOrg(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "seed.db")
	cfg := Config{DBPath: dbPath, Weeks: 1}

	var out strings.Builder
	if err := Run(t.Context(), cfg, &out); err != nil {
		t.Fatalf("run seed: %v", err)
	}
	if !strings.Contains(out.String(), "olive@acme.test") {
		t.Fatalf("output missing owner login hint: %q", out.String())
	}
}
