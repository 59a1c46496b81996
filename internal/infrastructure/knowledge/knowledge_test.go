package knowledge

import (
	"os"
	"path/filepath"
	"testing"
)

func writeKnowledge(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "knowledge.txt")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestLookupExactMatch(t *testing.T) {
	path := writeKnowledge(t, `# personal overrides
deploy to staging -> ./scripts/deploy.sh staging

show big files -> du -ah . | sort -rh | head -20
`)
	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	cmd, ok := store.Lookup("deploy to staging")
	if !ok || cmd != "./scripts/deploy.sh staging" {
		t.Fatalf("Lookup = %q, %v", cmd, ok)
	}

	// case and whitespace insensitive
	cmd, ok = store.Lookup("  Deploy  TO Staging ")
	if !ok || cmd != "./scripts/deploy.sh staging" {
		t.Fatalf("normalized Lookup = %q, %v", cmd, ok)
	}

	if _, ok := store.Lookup("deploy to production"); ok {
		t.Error("partial match must not hit")
	}
}

func TestMalformedLinesSkipped(t *testing.T) {
	path := writeKnowledge(t, `no separator here
 -> command without request
request without command ->
good one -> ls -la
`)
	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if got := len(store.Entries()); got != 1 {
		t.Fatalf("Entries() returned %d, want 1", got)
	}
}

func TestMissingFileYieldsEmptyStore(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "absent.txt"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if _, ok := store.Lookup("anything"); ok {
		t.Error("empty store produced a hit")
	}
	if got := store.Entries(); len(got) != 0 {
		t.Errorf("Entries() = %v, want empty", got)
	}
}

func TestSearch(t *testing.T) {
	path := writeKnowledge(t, `deploy to staging -> ./scripts/deploy.sh staging
deploy to prod -> ./scripts/deploy.sh prod
show big files -> du -ah . | sort -rh | head -20
`)
	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	results := store.Search("deploy", 10)
	if len(results) != 2 {
		t.Fatalf("Search returned %d results, want 2", len(results))
	}
	if got := store.Search("deploy", 1); len(got) != 1 {
		t.Errorf("limit not applied: %d results", len(got))
	}
}

func TestAddPersistsAndReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "knowledge.txt")
	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := store.Add("restart the api", "systemctl restart api"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	cmd, ok := store.Lookup("restart the api")
	if !ok || cmd != "systemctl restart api" {
		t.Fatalf("Lookup after Add = %q, %v", cmd, ok)
	}

	reloaded, err := NewStore(path)
	if err != nil {
		t.Fatalf("reloading: %v", err)
	}
	if _, ok := reloaded.Lookup("restart the api"); !ok {
		t.Error("added mapping did not persist")
	}

	if err := store.Add("bad -> entry", "ls"); err == nil {
		t.Error("expected error for request containing the separator")
	}
	if err := store.Add("", "ls"); err == nil {
		t.Error("expected error for empty request")
	}
}
