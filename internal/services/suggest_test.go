package services

import (
	"testing"
	"time"

	"github.com/haunted-sh/haunted/internal/domain"
)

func historyWith(records ...domain.HistoryRecord) *fakeHistory {
	return &fakeHistory{available: true, saved: records}
}

func TestRankOrdersByTokenOverlap(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	ranker := &SuggestionRanker{History: historyWith(
		domain.HistoryRecord{RequestText: "list python files", Command: `find . -name "*.py"`, Timestamp: base},
		domain.HistoryRecord{RequestText: "show disk usage", Command: "df -h", Timestamp: base},
		domain.HistoryRecord{RequestText: "list all files", Command: "ls -la", Timestamp: base},
	)}

	got := ranker.Rank("list python files by size", 5)
	if len(got) == 0 {
		t.Fatal("no suggestions")
	}
	if got[0].Command != `find . -name "*.py"` {
		t.Errorf("top suggestion = %q", got[0].Command)
	}
}

func TestRankDropsZeroOverlap(t *testing.T) {
	ranker := &SuggestionRanker{History: historyWith(
		domain.HistoryRecord{RequestText: "show disk usage", Command: "df -h", Timestamp: time.Now()},
	)}
	if got := ranker.Rank("compress the logs", 5); len(got) != 0 {
		t.Errorf("unrelated history suggested: %v", got)
	}
}

func TestRankTieBreaksOnRecency(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	ranker := &SuggestionRanker{History: historyWith(
		domain.HistoryRecord{RequestText: "list files", Command: "ls", Timestamp: base},
		domain.HistoryRecord{RequestText: "list files", Command: "ls -la", Timestamp: base.Add(time.Hour)},
	)}

	got := ranker.Rank("list files", 5)
	if len(got) != 2 {
		t.Fatalf("got %d suggestions, want 2", len(got))
	}
	if got[0].Command != "ls -la" {
		t.Errorf("newer record should rank first, got %q", got[0].Command)
	}
}

func TestRankRespectsLimit(t *testing.T) {
	base := time.Now()
	ranker := &SuggestionRanker{History: historyWith(
		domain.HistoryRecord{RequestText: "list files", Command: "ls", Timestamp: base},
		domain.HistoryRecord{RequestText: "list files please", Command: "ls -la", Timestamp: base},
		domain.HistoryRecord{RequestText: "list files now", Command: "ls -lah", Timestamp: base},
	)}
	if got := ranker.Rank("list files", 2); len(got) > 2 {
		t.Errorf("limit ignored: %d suggestions", len(got))
	}
}

func TestRankUnavailableHistory(t *testing.T) {
	ranker := &SuggestionRanker{History: &fakeHistory{available: false}}
	if got := ranker.Rank("list files", 5); got != nil {
		t.Errorf("unavailable history produced %v", got)
	}
}

func TestLearnedConvertsToMappings(t *testing.T) {
	ranker := &SuggestionRanker{History: historyWith(
		domain.HistoryRecord{RequestText: "list files", Command: "ls -la", Timestamp: time.Now()},
	)}
	got := ranker.Learned("list files", 3)
	if len(got) != 1 || got[0].Command != "ls -la" {
		t.Errorf("Learned = %v", got)
	}
}
