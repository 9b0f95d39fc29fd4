package migration

import (
	"database/sql"
	"errors"
	"io/fs"
	"path/filepath"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/basket/migrations"
)

func setupTestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	return db, func() { db.Close() }
}

func migrationFS(files map[string]string) fstest.MapFS {
	m := fstest.MapFS{}
	for name, content := range files {
		m[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return m
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", name).Scan(&count)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	return count == 1
}

func TestApplyMigrationsFromScratch(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	runner := NewRunner(db, migrationFS(map[string]string{
		"00001_users.sql": "-- +goose Up\nCREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT);\n",
		"00002_posts.sql": "-- +goose Up\nCREATE TABLE posts (id INTEGER PRIMARY KEY, user_id INTEGER);\n",
	}), "sqlite3")

	var logged []string
	count, err := runner.ApplyMigrations(func(s string) { logged = append(logged, s) })
	if err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 migrations applied, got %d", count)
	}
	if len(logged) == 0 {
		t.Error("expected migration progress to be logged")
	}

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 2 {
		t.Errorf("expected version 2, got %d", version)
	}
	if !tableExists(t, db, "users") || !tableExists(t, db, "posts") {
		t.Error("migrated tables were not created")
	}
}

func TestApplyMigrationsIncremental(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	files := migrationFS(map[string]string{
		"00001_users.sql": "-- +goose Up\nCREATE TABLE users (id INTEGER PRIMARY KEY);\n",
	})
	if count, err := NewRunner(db, files, "sqlite3").ApplyMigrations(nil); err != nil || count != 1 {
		t.Fatalf("first ApplyMigrations = %d, %v", count, err)
	}

	files["00002_posts.sql"] = &fstest.MapFile{Data: []byte("-- +goose Up\nCREATE TABLE posts (id INTEGER PRIMARY KEY);\n")}
	count, err := NewRunner(db, files, "sqlite3").ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("second ApplyMigrations failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 more migration applied, got %d", count)
	}

	count, err = NewRunner(db, files, "sqlite3").ApplyMigrations(nil)
	if err != nil || count != 0 {
		t.Errorf("no-op ApplyMigrations = %d, %v; want 0, nil", count, err)
	}
}

func TestMigrationRollbackOnError(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	runner := NewRunner(db, migrationFS(map[string]string{
		"00001_broken.sql": "-- +goose Up\nCREATE TABLE users (id INTEGER PRIMARY KEY);\nTHIS IS INVALID SQL;\n",
	}), "sqlite3")

	if _, err := runner.ApplyMigrations(nil); err == nil {
		t.Fatal("ApplyMigrations should have failed with invalid SQL")
	}

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0 after failed migration, got %d", version)
	}
	if tableExists(t, db, "users") {
		t.Error("table should not exist after failed migration")
	}
}

func TestValidateVersionNewerDatabase(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	runner := NewRunner(db, migrationFS(map[string]string{
		"00001_users.sql": "-- +goose Up\nCREATE TABLE users (id INTEGER PRIMARY KEY);\n",
	}), "sqlite3")

	if _, err := runner.ApplyMigrations(nil); err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}
	if err := runner.ValidateVersion(); err != nil {
		t.Fatalf("ValidateVersion on current schema failed: %v", err)
	}

	if _, err := db.Exec("INSERT INTO goose_db_version (version_id, is_applied) VALUES (10, 1)"); err != nil {
		t.Fatalf("failed to bump version: %v", err)
	}

	if err := runner.ValidateVersion(); !errors.Is(err, ErrSchemaTooNew) {
		t.Errorf("ValidateVersion() error = %v, want ErrSchemaTooNew", err)
	}
	if _, err := runner.ApplyMigrations(nil); !errors.Is(err, ErrSchemaTooNew) {
		t.Errorf("ApplyMigrations() error = %v, want ErrSchemaTooNew", err)
	}
}

func TestGetLatestVersion(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	runner := NewRunner(db, migrationFS(map[string]string{
		"00001_users.sql":  "-- +goose Up\nCREATE TABLE users (id INTEGER);\n",
		"00003_posts.sql":  "-- +goose Up\nCREATE TABLE posts (id INTEGER);\n",
		"00002_update.sql": "-- +goose Up\nALTER TABLE users ADD COLUMN name TEXT;\n",
	}), "sqlite3")

	latest, err := runner.GetLatestVersion()
	if err != nil {
		t.Fatalf("GetLatestVersion failed: %v", err)
	}
	if latest != 3 {
		t.Errorf("expected latest version 3, got %d", latest)
	}
}

func TestEmbeddedSQLiteMigrations(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	sub, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		t.Fatalf("fs.Sub failed: %v", err)
	}
	if _, err := NewRunner(db, sub, "sqlite3").ApplyMigrations(nil); err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}

	for _, table := range []string{"settings", "households", "users", "shopping_lists", "shopping_sessions", "grocery_items"} {
		if !tableExists(t, db, table) {
			t.Errorf("table %s was not created", table)
		}
	}
}

func TestEmbeddedMigrationsMatchAcrossDialects(t *testing.T) {
	var versions []int
	for _, dir := range []string{"sqlite", "postgres", "mysql"} {
		entries, err := fs.ReadDir(migrations.FS, dir)
		if err != nil {
			t.Fatalf("ReadDir(%s) failed: %v", dir, err)
		}
		versions = append(versions, len(entries))
	}
	if versions[0] != versions[1] || versions[1] != versions[2] {
		t.Errorf("dialects have different migration counts: %v", versions)
	}
}
