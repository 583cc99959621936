package database

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestDB(t *testing.T) *Database {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func TestOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
	if err := db.Close(); err != nil {
		t.Fatalf("failed to close database: %v", err)
	}
}

func TestOpen_LockContention(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	first, err := Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open first handle: %v", err)
	}
	defer first.Close()

	_, err = Open(dbPath)
	if err == nil {
		t.Fatal("expected second Open against the same path to fail with lock contention")
	}
}

func TestInitSchema_CreatesCoreTables(t *testing.T) {
	db := newTestDB(t)

	version, err := db.GetSchemaVersion()
	if err != nil {
		t.Fatalf("failed to get schema version: %v", err)
	}
	if version != SchemaVersion {
		t.Errorf("expected schema version %d, got %d", SchemaVersion, version)
	}

	for _, table := range []string{"nodes", "edges", "observations", "aliases", "schema_version"} {
		exists, err := db.TableExists(table)
		if err != nil {
			t.Fatalf("failed to check table %s: %v", table, err)
		}
		if !exists {
			t.Errorf("table %s should exist after InitSchema", table)
		}
	}
}

func TestInitSchema_Idempotent(t *testing.T) {
	db := newTestDB(t)

	if err := db.InitSchema(); err != nil {
		t.Fatalf("second InitSchema call should be a no-op, got error: %v", err)
	}
}

func TestGetStats(t *testing.T) {
	db := newTestDB(t)

	if _, err := db.CreateNodes([]NodeInput{{Name: "alpha", NodeType: string(NodeEntity)}}); err != nil {
		t.Fatalf("CreateNodes failed: %v", err)
	}

	stats, err := db.GetStats()
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.NodeCount != 1 {
		t.Errorf("expected 1 node, got %d", stats.NodeCount)
	}
	if stats.SchemaVersion != SchemaVersion {
		t.Errorf("expected schema version %d, got %d", SchemaVersion, stats.SchemaVersion)
	}
	if stats.FileSizeBytes <= 0 {
		t.Error("expected non-zero file size")
	}
}
