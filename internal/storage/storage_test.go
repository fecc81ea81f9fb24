package storage

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"modgraph/internal/logging"
)

func setupTestDB(t *testing.T) (*DB, string) {
	t.Helper()
	tmpDir := t.TempDir()

	db, err := Open(tmpDir, "", logging.Discard())
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close database: %v", err)
		}
	})

	return db, tmpDir
}

func sampleSnapshot() *Snapshot {
	return &Snapshot{
		RepoRoot: "/repo",
		Acyclic:  false,
		Modules: []SnapshotModule{
			{ID: "web", Name: "@acme/web", RootPath: "web", Dependencies: []string{"ui"}},
			{ID: "ui", Name: "@acme/ui", RootPath: "ui", Dependencies: []string{"web"}},
			{ID: "core", Name: "core", RootPath: "libs/core"},
		},
		Edges:      []Edge{{From: "web", To: "ui"}, {From: "ui", To: "web"}},
		Components: [][]string{{"web", "ui"}, {"core"}},
		BuildOrder: []string{"core", "ui", "web"},
	}
}

func TestDatabaseInitialization(t *testing.T) {
	db, tmpDir := setupTestDB(t)

	dbPath := filepath.Join(tmpDir, ".modgraph", "modgraph.db")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Fatalf("Database file was not created at %s", dbPath)
	}
	if db.Path() != dbPath {
		t.Errorf("Path() = %q, want %q", db.Path(), dbPath)
	}

	version, err := db.getSchemaVersion()
	if err != nil {
		t.Fatalf("Failed to get schema version: %v", err)
	}
	if version != currentSchemaVersion {
		t.Errorf("Expected schema version %d, got %d", currentSchemaVersion, version)
	}
}

func TestReopenExistingDatabase(t *testing.T) {
	tmpDir := t.TempDir()

	db, err := Open(tmpDir, "custom/graph.db", nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	s := sampleSnapshot()
	if err := NewSnapshotRepository(db).Save(s); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	db, err = Open(tmpDir, "custom/graph.db", nil)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := NewSnapshotRepository(db).Get(s.ID); err != nil {
		t.Errorf("Snapshot lost across reopen: %v", err)
	}
}

func TestSnapshotSaveAndGet(t *testing.T) {
	db, _ := setupTestDB(t)
	repo := NewSnapshotRepository(db)

	s := sampleSnapshot()
	if err := repo.Save(s); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := uuid.Parse(s.ID); err != nil {
		t.Errorf("Save should assign a UUID, got %q", s.ID)
	}
	if s.CreatedAt.IsZero() {
		t.Error("Save should set CreatedAt")
	}

	got, err := repo.Get(s.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if got.RepoRoot != "/repo" || got.Acyclic {
		t.Errorf("Header mismatch: %+v", got)
	}
	if !got.CreatedAt.Equal(s.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, s.CreatedAt)
	}
	if len(got.Modules) != 3 || got.Modules[0].Name != "@acme/web" {
		t.Errorf("Modules = %+v", got.Modules)
	}
	if len(got.Modules[0].Dependencies) != 1 || got.Modules[0].Dependencies[0] != "ui" {
		t.Errorf("Dependencies = %v", got.Modules[0].Dependencies)
	}
	if len(got.Edges) != 2 || got.Edges[1] != (Edge{From: "ui", To: "web"}) {
		t.Errorf("Edges = %+v", got.Edges)
	}
	if len(got.Components) != 2 || len(got.Components[0]) != 2 {
		t.Errorf("Components = %v", got.Components)
	}
	if len(got.BuildOrder) != 3 || got.BuildOrder[0] != "core" {
		t.Errorf("BuildOrder = %v", got.BuildOrder)
	}
}

func TestSnapshotSaveKeepsExplicitID(t *testing.T) {
	db, _ := setupTestDB(t)
	repo := NewSnapshotRepository(db)

	s := sampleSnapshot()
	s.ID = "fixed-id"
	if err := repo.Save(s); err != nil {
		t.Fatal(err)
	}
	if s.ID != "fixed-id" {
		t.Errorf("ID = %q, want fixed-id", s.ID)
	}

	dup := sampleSnapshot()
	dup.ID = "fixed-id"
	if err := repo.Save(dup); err == nil {
		t.Error("Saving a duplicate id should fail")
	}
}

func TestSnapshotGetMissing(t *testing.T) {
	db, _ := setupTestDB(t)

	_, err := NewSnapshotRepository(db).Get("nope")
	if !errors.Is(err, ErrSnapshotNotFound) {
		t.Errorf("err = %v, want ErrSnapshotNotFound", err)
	}
}

func TestSnapshotList(t *testing.T) {
	db, _ := setupTestDB(t)
	repo := NewSnapshotRepository(db)

	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		s := sampleSnapshot()
		s.ID = []string{"first", "second", "third"}[i]
		s.CreatedAt = base.Add(time.Duration(i) * time.Second)
		if i == 2 {
			s.CreatedAt = s.CreatedAt.Add(500 * time.Millisecond)
		}
		if err := repo.Save(s); err != nil {
			t.Fatal(err)
		}
	}

	all, err := repo.List(0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("List(0) returned %d, want 3", len(all))
	}
	if all[0].ID != "third" || all[2].ID != "first" {
		t.Errorf("List should be newest first, got %s..%s", all[0].ID, all[2].ID)
	}
	if all[0].ModuleCount != 3 || all[0].EdgeCount != 2 || all[0].Acyclic {
		t.Errorf("Summary = %+v", all[0])
	}

	limited, err := repo.List(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 2 || limited[1].ID != "second" {
		t.Errorf("List(2) = %+v", limited)
	}
}

func TestSnapshotDelete(t *testing.T) {
	db, _ := setupTestDB(t)
	repo := NewSnapshotRepository(db)

	s := sampleSnapshot()
	if err := repo.Save(s); err != nil {
		t.Fatal(err)
	}

	if err := repo.Delete(s.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.Get(s.ID); !errors.Is(err, ErrSnapshotNotFound) {
		t.Errorf("Get after delete err = %v, want ErrSnapshotNotFound", err)
	}
	if err := repo.Delete(s.ID); !errors.Is(err, ErrSnapshotNotFound) {
		t.Errorf("Second delete err = %v, want ErrSnapshotNotFound", err)
	}
}

func TestWithTxRollback(t *testing.T) {
	db, _ := setupTestDB(t)
	repo := NewSnapshotRepository(db)

	s := sampleSnapshot()
	if err := repo.Save(s); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("boom")
	err := db.WithTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM snapshots"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("WithTx err = %v, want boom", err)
	}
	if _, err := repo.Get(s.ID); err != nil {
		t.Errorf("Rolled back delete should keep the snapshot: %v", err)
	}
}
