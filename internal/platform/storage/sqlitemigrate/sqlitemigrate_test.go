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
	sqlDB, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return sqlDB
}

func TestApplyMigrationsRunsInOrder(t *testing.T) {
	migrationFS := fstest.MapFS{
		"0002_add_column.sql": {Data: []byte(`-- +migrate Up
ALTER TABLE pets ADD COLUMN legs INTEGER NOT NULL DEFAULT 4;
-- +migrate Down
`)},
		"0001_create_table.sql": {Data: []byte(`-- +migrate Up
CREATE TABLE pets (name TEXT PRIMARY KEY);
-- +migrate Down
DROP TABLE pets;
`)},
	}

	sqlDB := openTestDB(t)
	if err := ApplyMigrations(sqlDB, migrationFS); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	if _, err := sqlDB.Exec("INSERT INTO pets (name, legs) VALUES ('gryphon', 4)"); err != nil {
		t.Fatalf("expected migrated schema to be usable: %v", err)
	}
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	migrationFS := fstest.MapFS{
		"0001_create_table.sql": {Data: []byte(`-- +migrate Up
CREATE TABLE pets (name TEXT PRIMARY KEY);
INSERT INTO pets (name) VALUES ('gryphon');
-- +migrate Down
DROP TABLE pets;
`)},
	}

	sqlDB := openTestDB(t)
	if err := ApplyMigrations(sqlDB, migrationFS); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	if err := ApplyMigrations(sqlDB, migrationFS); err != nil {
		t.Fatalf("second apply: %v", err)
	}

	var count int
	if err := sqlDB.QueryRow("SELECT COUNT(*) FROM pets").Scan(&count); err != nil {
		t.Fatalf("count pets: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected seed row to exist once, got %d", count)
	}
}

func TestExtractUpMigration(t *testing.T) {
	content := `-- +migrate Up
CREATE TABLE a (id INTEGER);
-- +migrate Down
DROP TABLE a;
`
	up := ExtractUpMigration(content)
	if up != "\nCREATE TABLE a (id INTEGER);\n" {
		t.Fatalf("unexpected up section: %q", up)
	}

	plain := "CREATE TABLE b (id INTEGER);"
	if ExtractUpMigration(plain) != plain {
		t.Fatal("expected content without markers to pass through")
	}
}
