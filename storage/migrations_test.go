package storage

import (
	"database/sql"
	"testing"
)

func TestMigrations(t *testing.T) {
	tempDir := t.TempDir()

	storage := NewSQLiteStorage(tempDir)
	err := storage.Initialize()
	if err != nil {
		t.Fatalf("Failed to initialize storage: %v", err)
	}
	defer storage.Close()

	version, err := storage.GetDatabaseVersion()
	if err != nil {
		t.Fatalf("Failed to get database version: %v", err)
	}

	if version < 1 {
		t.Errorf("Expected database version >= 1, got %d", version)
	}

	db, err := storage.GetDB()
	if err != nil {
		t.Fatalf("Failed to get database: %v", err)
	}

	// Check if posts table exists
	var tableName string
	err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='posts'").Scan(&tableName)
	if err != nil {
		t.Fatalf("Posts table was not created: %v", err)
	}

	if tableName != "posts" {
		t.Errorf("Expected table name 'posts', got '%s'", tableName)
	}

	// Running migrations again should be idempotent
	err = storage.RunMigrations()
	if err != nil {
		t.Fatalf("Failed to run migrations again: %v", err)
	}

	newVersion, err := storage.GetDatabaseVersion()
	if err != nil {
		t.Fatalf("Failed to get database version after re-running migrations: %v", err)
	}

	if newVersion < version {
		t.Errorf("Database version went backwards: %d -> %d", version, newVersion)
	}
}

func TestMigrationManager(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	defer db.Close()

	migrationManager := NewMigrationManager(db)
	err = migrationManager.Initialize()
	if err != nil {
		t.Fatalf("Failed to initialize migration manager: %v", err)
	}

	version, err := migrationManager.Version()
	if err != nil {
		t.Fatalf("Failed to get initial version: %v", err)
	}

	if version != 0 {
		t.Errorf("Expected initial version 0, got %d", version)
	}

	err = migrationManager.Up()
	if err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	version, err = migrationManager.Version()
	if err != nil {
		t.Fatalf("Failed to get version after migrations: %v", err)
	}

	if version < 1 {
		t.Errorf("Expected version >= 1 after migrations, got %d", version)
	}

	err = migrationManager.Down()
	if err != nil {
		t.Fatalf("Failed to rollback migration: %v", err)
	}

	newVersion, err := migrationManager.Version()
	if err != nil {
		t.Fatalf("Failed to get version after rollback: %v", err)
	}

	if newVersion >= version {
		t.Errorf("Expected version to decrease after rollback: %d -> %d", version, newVersion)
	}
}
