package server

import (
	"flag"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 8080 {
		t.Fatalf("port = %d, want 8080", cfg.Port)
	}
	if cfg.DBPath != "frame.db" {
		t.Fatalf("db path = %q, want frame.db", cfg.DBPath)
	}
	if cfg.BaseURL != "http://localhost:8080" {
		t.Fatalf("base url = %q, want http://localhost:8080", cfg.BaseURL)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("FRAME_SERVER_PORT", "9000")
	t.Setenv("FRAME_DB_PATH", "/tmp/env.db")

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{
		"-port", "9001",
		"-base-url", "https://frame.example",
	})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 9001 {
		t.Fatalf("port = %d, want flag override 9001", cfg.Port)
	}
	if cfg.DBPath != "/tmp/env.db" {
		t.Fatalf("db path = %q, want /tmp/env.db", cfg.DBPath)
	}
	if cfg.BaseURL != "https://frame.example" {
		t.Fatalf("base url = %q, want https://frame.example", cfg.BaseURL)
	}
}
