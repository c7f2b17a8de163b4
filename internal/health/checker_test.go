package health

import (
	"context"
	"testing"

	"github.com/studygram-app/studygram/internal/infra/sqlite"
)

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewChecker(t *testing.T) {
	db := newTestDB(t)

	c := NewChecker(db, t.TempDir())
	if c == nil {
		t.Fatal("NewChecker() returned nil")
	}
	if len(c.checks) != 3 {
		t.Errorf("checks = %d, want 3", len(c.checks))
	}
}

func TestChecker_RunAllHealthy(t *testing.T) {
	db := newTestDB(t)

	c := NewChecker(db, t.TempDir())
	c.runAll(context.Background())

	statuses := c.Statuses()
	if len(statuses) != 3 {
		t.Fatalf("Statuses() = %d, want 3", len(statuses))
	}
	for _, s := range statuses {
		if !s.Healthy {
			t.Errorf("check %q should be healthy, got error: %s", s.Name, s.Error)
		}
	}
	if !c.IsHealthy() {
		t.Error("IsHealthy() = false, want true")
	}
}

func TestChecker_UnhealthyOnClosedDB(t *testing.T) {
	db := newTestDB(t)
	c := NewChecker(db, t.TempDir())

	db.Close()
	c.runAll(context.Background())

	if c.IsHealthy() {
		t.Error("IsHealthy() = true with a closed database")
	}
}

func TestChecker_MissingDataDirIsHealthy(t *testing.T) {
	db := newTestDB(t)
	c := NewChecker(db, "/nonexistent/studygram-data")
	c.runAll(context.Background())

	for _, s := range c.Statuses() {
		if s.Name == "data_dir" && !s.Healthy {
			t.Errorf("missing data dir should pass, got: %s", s.Error)
		}
	}
}
