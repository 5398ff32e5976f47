package migration

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testMigrationFS() fstest.MapFS {
	return fstest.MapFS{
		"001_create_notes.sql": &fstest.MapFile{Data: []byte("CREATE TABLE notes (id TEXT PRIMARY KEY);")},
		"002_add_body.sql":     &fstest.MapFile{Data: []byte("ALTER TABLE notes ADD COLUMN body TEXT;")},
	}
}

func TestGetCurrentVersionFreshDatabase(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, testMigrationFS())

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("failed to get current version: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0 on a fresh database, got %d", version)
	}
}

func TestApplyMigrations(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, testMigrationFS())

	applied, err := runner.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}
	if applied != 2 {
		t.Errorf("expected 2 migrations applied, got %d", applied)
	}

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("failed to get current version: %v", err)
	}
	if version != 2 {
		t.Errorf("expected version 2 after migrating, got %d", version)
	}

	// The migrated schema is usable, including the column from the
	// second migration.
	if _, err := db.Exec("INSERT INTO notes (id, body) VALUES ('n1', 'hello')"); err != nil {
		t.Errorf("migrated schema rejected an insert: %v", err)
	}
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, testMigrationFS())

	if _, err := runner.ApplyMigrations(nil); err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}

	applied, err := runner.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("second apply returned unexpected error: %v", err)
	}
	if applied != 0 {
		t.Errorf("expected 0 migrations on second run, got %d", applied)
	}

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("failed to get current version: %v", err)
	}
	if version != 2 {
		t.Errorf("expected version to stay at 2, got %d", version)
	}
}

func TestApplyMigrationsResumesFromCurrentVersion(t *testing.T) {
	db := setupTestDB(t)

	firstOnly := fstest.MapFS{
		"001_create_notes.sql": testMigrationFS()["001_create_notes.sql"],
	}
	if _, err := NewRunner(db, firstOnly).ApplyMigrations(nil); err != nil {
		t.Fatalf("failed to apply first migration: %v", err)
	}

	applied, err := NewRunner(db, testMigrationFS()).ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("failed to apply remaining migrations: %v", err)
	}
	if applied != 1 {
		t.Errorf("expected only the pending migration applied, got %d", applied)
	}

	version, err := NewRunner(db, testMigrationFS()).GetCurrentVersion()
	if err != nil {
		t.Fatalf("failed to get current version: %v", err)
	}
	if version != 2 {
		t.Errorf("expected version 2, got %d", version)
	}
}

func TestApplyMigrationsLogsProgress(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, testMigrationFS())

	var lines []string
	if _, err := runner.ApplyMigrations(func(msg string) { lines = append(lines, msg) }); err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}

	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "Applying 2 migration(s)") {
		t.Errorf("expected progress log, got:\n%s", joined)
	}
	if !strings.Contains(joined, "create_notes") {
		t.Errorf("expected migration name in log, got:\n%s", joined)
	}
}

func TestApplyMigrationsRejectsNewerSchema(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, testMigrationFS())

	if _, err := db.Exec("CREATE TABLE schema_version (version INTEGER PRIMARY KEY)"); err != nil {
		t.Fatalf("failed to create version table: %v", err)
	}
	if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (99)"); err != nil {
		t.Fatalf("failed to set version: %v", err)
	}

	if _, err := runner.ApplyMigrations(nil); err == nil {
		t.Error("expected an error applying migrations to a newer schema")
	}
	if err := runner.ValidateVersion(); err == nil {
		t.Error("expected ValidateVersion to reject a newer schema")
	}
}

func TestApplyMigrationsRollsBackFailure(t *testing.T) {
	db := setupTestDB(t)
	badFS := fstest.MapFS{
		"001_create_notes.sql": testMigrationFS()["001_create_notes.sql"],
		"002_broken.sql":       &fstest.MapFile{Data: []byte("THIS IS NOT SQL;")},
	}
	runner := NewRunner(db, badFS)

	applied, err := runner.ApplyMigrations(nil)
	if err == nil {
		t.Fatal("expected an error from the broken migration")
	}
	if applied != 1 {
		t.Errorf("expected 1 migration applied before the failure, got %d", applied)
	}

	version, verErr := runner.GetCurrentVersion()
	if verErr != nil {
		t.Fatalf("failed to get current version: %v", verErr)
	}
	if version != 1 {
		t.Errorf("expected version 1 after rollback, got %d", version)
	}
}

func TestReadMigrationFilesRejectsBadNames(t *testing.T) {
	db := setupTestDB(t)

	cases := []struct {
		name string
		fs   fstest.MapFS
	}{
		{
			name: "missing underscore",
			fs:   fstest.MapFS{"bogus.sql": &fstest.MapFile{Data: []byte("SELECT 1;")}},
		},
		{
			name: "non-numeric version",
			fs:   fstest.MapFS{"abc_name.sql": &fstest.MapFile{Data: []byte("SELECT 1;")}},
		},
		{
			name: "zero version",
			fs:   fstest.MapFS{"000_name.sql": &fstest.MapFile{Data: []byte("SELECT 1;")}},
		},
		{
			name: "duplicate version",
			fs: fstest.MapFS{
				"001_a.sql": &fstest.MapFile{Data: []byte("SELECT 1;")},
				"1_b.sql":   &fstest.MapFile{Data: []byte("SELECT 1;")},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewRunner(db, tc.fs).ReadMigrationFiles(); err == nil {
				t.Errorf("expected an error for %s", tc.name)
			}
		})
	}
}

func TestReadMigrationFilesIgnoresNonSQL(t *testing.T) {
	db := setupTestDB(t)
	mixedFS := fstest.MapFS{
		"001_create_notes.sql": testMigrationFS()["001_create_notes.sql"],
		"README.md":            &fstest.MapFile{Data: []byte("docs")},
	}

	migrations, err := NewRunner(db, mixedFS).ReadMigrationFiles()
	if err != nil {
		t.Fatalf("failed to read migrations: %v", err)
	}
	if len(migrations) != 1 {
		t.Errorf("expected 1 migration, got %d", len(migrations))
	}
	if migrations[0].Name != "create_notes" {
		t.Errorf("expected name 'create_notes', got %q", migrations[0].Name)
	}
}
