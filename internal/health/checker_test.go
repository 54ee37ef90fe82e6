package health

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/taskdeck/taskdeck/internal/domain"
	"github.com/taskdeck/taskdeck/internal/infra/sqlite"
)

func newTestDB(t *testing.T) (*sqlite.DB, string) {
	t.Helper()
	dir := t.TempDir()
	db, err := sqlite.Open(dir)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, dir
}

func statusOf(t *testing.T, c *Checker, name string) Status {
	t.Helper()
	for _, s := range c.Statuses() {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("check %q not found in statuses", name)
	return Status{}
}

// ─── Checker Tests ──────────────────────────────────────────────────────────

func TestNewChecker(t *testing.T) {
	db, dir := newTestDB(t)

	c := NewChecker(db, dir)
	if len(c.checks) != 4 {
		t.Errorf("checks = %d, want 4", len(c.checks))
	}
}

func TestChecker_RunOnceHealthy(t *testing.T) {
	db, dir := newTestDB(t)

	c := NewChecker(db, dir)
	c.RunOnce(context.Background())

	statuses := c.Statuses()
	if len(statuses) != 4 {
		t.Fatalf("Statuses() = %d, want 4", len(statuses))
	}
	for _, s := range statuses {
		if !s.Healthy {
			t.Errorf("check %q should be healthy, got error: %s", s.Name, s.Error)
		}
	}
	if !c.IsHealthy() {
		t.Error("IsHealthy() should be true when all checks pass")
	}
}

func TestChecker_IsHealthy_BeforeRun(t *testing.T) {
	db, dir := newTestDB(t)
	c := NewChecker(db, dir)

	// No statuses yet, so vacuously healthy
	if !c.IsHealthy() {
		t.Error("IsHealthy() should be true before first run")
	}
}

func TestChecker_DataDirMissingRecovers(t *testing.T) {
	db, _ := newTestDB(t)
	missing := filepath.Join(t.TempDir(), "gone")

	c := NewChecker(db, missing)
	c.RunOnce(context.Background())
	if statusOf(t, c, "data_dir").Healthy {
		t.Error("data_dir should fail when the directory is missing")
	}

	// RecoverFn recreated it
	c.RunOnce(context.Background())
	if s := statusOf(t, c, "data_dir"); !s.Healthy {
		t.Errorf("data_dir should recover, got error: %s", s.Error)
	}
}

func TestChecker_DataDirIsFile(t *testing.T) {
	db, _ := newTestDB(t)
	path := filepath.Join(t.TempDir(), "data")
	os.WriteFile(path, []byte("not a dir"), 0644)

	c := NewChecker(db, path)
	c.RunOnce(context.Background())
	if statusOf(t, c, "data_dir").Healthy {
		t.Error("data_dir should fail when path is a file")
	}
}

func TestChecker_PurgesExpiredTokens(t *testing.T) {
	db, dir := newTestDB(t)
	ctx := context.Background()
	db.CreateUser(ctx, domain.User{Username: "ana", Role: domain.RoleAdmin}, "h")
	db.InsertToken(ctx, "old", "ana", time.Now().Add(-time.Hour).Unix())

	c := NewChecker(db, dir)
	c.RunOnce(ctx)

	n, err := db.PurgeExpiredTokens(ctx, time.Now().Unix())
	if err != nil {
		t.Fatalf("PurgeExpiredTokens() error: %v", err)
	}
	if n != 0 {
		t.Errorf("expired tokens left after check = %d, want 0", n)
	}
}

func TestChecker_SQLiteClosed(t *testing.T) {
	db, dir := newTestDB(t)
	db.Close()

	c := NewChecker(db, dir)
	c.RunOnce(context.Background())
	if statusOf(t, c, "sqlite").Healthy {
		t.Error("sqlite should fail on a closed database")
	}
	if c.IsHealthy() {
		t.Error("IsHealthy() should be false")
	}
}

func TestChecker_FailingCheck(t *testing.T) {
	recovered := false
	c := &Checker{
		checks: []Check{
			{
				Name: "always_fail",
				CheckFn: func(ctx context.Context) error {
					return os.ErrPermission
				},
				RecoverFn: func(ctx context.Context) error {
					recovered = true
					return nil
				},
			},
		},
	}

	c.RunOnce(context.Background())

	statuses := c.Statuses()
	if statuses[0].Healthy {
		t.Error("always_fail check should not be healthy")
	}
	if statuses[0].Error == "" {
		t.Error("error message should be populated")
	}
	if !recovered {
		t.Error("RecoverFn should run after a failure")
	}
}

func TestChecker_StatusesCopy(t *testing.T) {
	db, dir := newTestDB(t)
	c := NewChecker(db, dir)
	c.RunOnce(context.Background())

	s1 := c.Statuses()
	s2 := c.Statuses()
	s1[0].Healthy = false
	if !s2[0].Healthy {
		t.Error("Statuses() should return a copy, not a reference")
	}
}

func TestChecker_RunStopsOnCancel(t *testing.T) {
	db, dir := newTestDB(t)
	c := NewChecker(db, dir)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for len(c.Statuses()) == 0 {
		select {
		case <-deadline:
			t.Fatal("Run() did not record statuses")
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}
