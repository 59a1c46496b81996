package history

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/haunted-sh/haunted/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	if !store.Available() {
		t.Fatal("store should be available")
	}
	return store
}

func record(text, command string, ts time.Time) domain.HistoryRecord {
	return domain.HistoryRecord{
		RequestText: text,
		Command:     command,
		WorkingDir:  "/home/dev",
		ExitCode:    0,
		Timestamp:   ts,
		Elapsed:     42 * time.Millisecond,
	}
}

func TestSaveAndRecent(t *testing.T) {
	store := newTestStore(t)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	if err := store.SaveCommand(record("list files", "ls -la", base)); err != nil {
		t.Fatalf("SaveCommand: %v", err)
	}
	if err := store.SaveCommand(record("disk usage", "df -h", base.Add(time.Minute))); err != nil {
		t.Fatalf("SaveCommand: %v", err)
	}

	got, err := store.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Recent returned %d records, want 2", len(got))
	}
	// newest first
	if got[0].Command != "df -h" || got[1].Command != "ls -la" {
		t.Errorf("wrong ordering: %q then %q", got[0].Command, got[1].Command)
	}
	if got[0].Elapsed != 42*time.Millisecond {
		t.Errorf("Elapsed = %v, want 42ms", got[0].Elapsed)
	}
}

func TestSaveCommandRefusesFailures(t *testing.T) {
	store := newTestStore(t)
	rec := record("list files", "ls -la", time.Now())
	rec.ExitCode = 1
	if err := store.SaveCommand(rec); err == nil {
		t.Fatal("expected error storing a failed command")
	}
	got, err := store.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("failed command leaked into history: %+v", got)
	}
}

func TestRejectionsLifecycle(t *testing.T) {
	store := newTestStore(t)
	now := time.Now()

	for _, cmd := range []string{"rm data", "rm -i data"} {
		err := store.RecordRejection(domain.RejectionRecord{
			RequestText: "delete the data file",
			Command:     cmd,
			Timestamp:   now,
		})
		if err != nil {
			t.Fatalf("RecordRejection: %v", err)
		}
		now = now.Add(time.Second)
	}

	got, err := store.Rejections("delete the data file", 5)
	if err != nil {
		t.Fatalf("Rejections: %v", err)
	}
	want := []string{"rm -i data", "rm data"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Rejections mismatch (-want +got):\n%s", diff)
	}

	// other request texts are untouched by a clear
	if err := store.ClearRejections("delete the data file"); err != nil {
		t.Fatalf("ClearRejections: %v", err)
	}
	got, err = store.Rejections("delete the data file", 5)
	if err != nil {
		t.Fatalf("Rejections: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("rejections survived clear: %v", got)
	}

	// clearing again is a no-op, not an error
	if err := store.ClearRejections("delete the data file"); err != nil {
		t.Fatalf("second ClearRejections: %v", err)
	}
}

func TestSimilarGroupsByCommand(t *testing.T) {
	store := newTestStore(t)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		if err := store.SaveCommand(record("show python files", `find . -name "*.py"`, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("SaveCommand: %v", err)
		}
	}
	if err := store.SaveCommand(record("show python processes", "ps aux | grep python", base)); err != nil {
		t.Fatalf("SaveCommand: %v", err)
	}

	got, err := store.Similar("python", 10)
	if err != nil {
		t.Fatalf("Similar: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Similar returned %d groups, want 2", len(got))
	}
	if got[0].Frequency != 3 {
		t.Errorf("top group frequency = %d, want 3", got[0].Frequency)
	}
	if got[0].Command != `find . -name "*.py"` {
		t.Errorf("top group command = %q", got[0].Command)
	}
}

func TestFrequentInDir(t *testing.T) {
	store := newTestStore(t)
	base := time.Now()

	other := record("list files", "ls", base)
	other.WorkingDir = "/tmp"
	if err := store.SaveCommand(other); err != nil {
		t.Fatalf("SaveCommand: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := store.SaveCommand(record("git status", "git status", base.Add(time.Duration(i)*time.Second))); err != nil {
			t.Fatalf("SaveCommand: %v", err)
		}
	}

	got, err := store.FrequentInDir("/home/dev", 10)
	if err != nil {
		t.Fatalf("FrequentInDir: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("FrequentInDir returned %d records, want 1", len(got))
	}
	if got[0].Command != "git status" || got[0].Frequency != 2 {
		t.Errorf("got %q freq %d", got[0].Command, got[0].Frequency)
	}
}

func TestAliases(t *testing.T) {
	store := newTestStore(t)

	if err := store.SaveAlias("pyfiles", `find . -name "*.py"`); err != nil {
		t.Fatalf("SaveAlias: %v", err)
	}
	cmd, ok := store.Alias("pyfiles")
	if !ok || cmd != `find . -name "*.py"` {
		t.Fatalf("Alias = %q, %v", cmd, ok)
	}

	// replace
	if err := store.SaveAlias("pyfiles", "fd -e py"); err != nil {
		t.Fatalf("SaveAlias replace: %v", err)
	}
	cmd, _ = store.Alias("pyfiles")
	if cmd != "fd -e py" {
		t.Errorf("alias not replaced: %q", cmd)
	}

	if err := store.SaveAlias("", "ls"); err == nil {
		t.Error("expected error for empty alias name")
	}

	removed, err := store.RemoveAlias("pyfiles")
	if err != nil || !removed {
		t.Fatalf("RemoveAlias = %v, %v", removed, err)
	}
	removed, err = store.RemoveAlias("pyfiles")
	if err != nil {
		t.Fatalf("second RemoveAlias: %v", err)
	}
	if removed {
		t.Error("RemoveAlias reported true for missing alias")
	}
}

func TestClear(t *testing.T) {
	store := newTestStore(t)
	if err := store.SaveCommand(record("list", "ls", time.Now())); err != nil {
		t.Fatalf("SaveCommand: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	got, err := store.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("records survived Clear: %+v", got)
	}
}

func TestExportJSON(t *testing.T) {
	store := newTestStore(t)
	if err := store.SaveCommand(record("list files", "ls -la", time.Now())); err != nil {
		t.Fatalf("SaveCommand: %v", err)
	}
	dest := filepath.Join(t.TempDir(), "export.jsonl")
	if err := store.ExportJSON(dest); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("export file is empty")
	}
}

func TestUnavailableStoreDegrades(t *testing.T) {
	store := &SQLiteStore{path: "/nowhere/history.db"}
	if store.Available() {
		t.Fatal("nil-db store must report unavailable")
	}
	if err := store.SaveCommand(record("x", "ls", time.Now())); !errors.Is(err, ErrUnavailable) {
		t.Errorf("SaveCommand err = %v, want ErrUnavailable", err)
	}
	if _, err := store.Recent(5); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Recent err = %v, want ErrUnavailable", err)
	}
	if _, ok := store.Alias("x"); ok {
		t.Error("Alias lookup on unavailable store must miss")
	}
}
