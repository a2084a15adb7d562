package sqlitemigrate

import (
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "migrate.db")
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return sqlDB
}

func TestApplyMigrationsRunsInOrder(t *testing.T) {
	sqlDB := openTestDB(t)

	migrationFS := fstest.MapFS{
		"0002_add_column.sql": &fstest.MapFile{Data: []byte(`
-- +migrate Up
ALTER TABLE widgets ADD COLUMN label TEXT;
-- +migrate Down
`)},
		"0001_init.sql": &fstest.MapFile{Data: []byte(`
-- +migrate Up
CREATE TABLE widgets (id INTEGER PRIMARY KEY);
-- +migrate Down
DROP TABLE widgets;
`)},
	}

	if err := ApplyMigrations(sqlDB, migrationFS); err != nil {
		t.Fatalf("ApplyMigrations: %v", err)
	}

	if _, err := sqlDB.Exec("INSERT INTO widgets (id, label) VALUES (1, 'a')"); err != nil {
		t.Fatalf("expected both migrations applied: %v", err)
	}
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	sqlDB := openTestDB(t)

	migrationFS := fstest.MapFS{
		"0001_init.sql": &fstest.MapFile{Data: []byte(`
-- +migrate Up
CREATE TABLE widgets (id INTEGER PRIMARY KEY);
`)},
	}

	for i := 0; i < 2; i++ {
		if err := ApplyMigrations(sqlDB, migrationFS); err != nil {
			t.Fatalf("ApplyMigrations run %d: %v", i+1, err)
		}
	}

	var count int
	if err := sqlDB.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if count != 1 {
		t.Fatalf("recorded migrations = %d, want 1", count)
	}
}

func TestExtractUpMigration(t *testing.T) {
	content := "-- +migrate Up\nCREATE TABLE a (id INTEGER);\n-- +migrate Down\nDROP TABLE a;\n"
	up := ExtractUpMigration(content)
	if up != "\nCREATE TABLE a (id INTEGER);\n" {
		t.Fatalf("unexpected up section: %q", up)
	}
}
