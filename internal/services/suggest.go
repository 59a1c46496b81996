package services

import (
	"sort"
	"strings"

	"github.com/haunted-sh/haunted/internal/domain"
	"github.com/haunted-sh/haunted/internal/ports"
)

// SuggestionRanker scores past successes against the current request text.
// It reads history only; a broken store yields an empty ranking, never an
// error surfaced to the turn.
type SuggestionRanker struct {
	History ports.HistoryRepository
}

// Rank returns up to limit history records ordered by relevance to text.
// Relevance is token overlap between the request texts; ties break on
// recency, then frequency.
func (r *SuggestionRanker) Rank(text string, limit int) []domain.HistoryRecord {
	if r.History == nil || !r.History.Available() || limit <= 0 {
		return nil
	}

	candidates := r.gather(text)
	if len(candidates) == 0 {
		return nil
	}

	queryTokens := tokenSet(text)
	type scored struct {
		record domain.HistoryRecord
		score  float64
	}
	ranked := make([]scored, 0, len(candidates))
	for _, rec := range candidates {
		ranked = append(ranked, scored{record: rec, score: jaccard(queryTokens, tokenSet(rec.RequestText))})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		if !ranked[i].record.Timestamp.Equal(ranked[j].record.Timestamp) {
			return ranked[i].record.Timestamp.After(ranked[j].record.Timestamp)
		}
		return ranked[i].record.Frequency > ranked[j].record.Frequency
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	results := make([]domain.HistoryRecord, 0, len(ranked))
	for _, s := range ranked {
		if s.score == 0 {
			continue
		}
		results = append(results, s.record)
	}
	return results
}

// Learned converts the top-ranked records into prompt mappings.
func (r *SuggestionRanker) Learned(text string, limit int) []domain.Mapping {
	records := r.Rank(text, limit)
	mappings := make([]domain.Mapping, 0, len(records))
	for _, rec := range records {
		mappings = append(mappings, domain.Mapping{Request: rec.RequestText, Command: rec.Command})
	}
	return mappings
}

// gather merges substring matches with a bounded scan of recent history,
// deduplicated by command (the substring match wins: it carries frequency).
func (r *SuggestionRanker) gather(text string) []domain.HistoryRecord {
	var candidates []domain.HistoryRecord
	seen := map[string]bool{}

	if similar, err := r.History.Similar(text, domain.HistoryScanLimit); err == nil {
		for _, rec := range similar {
			if !seen[rec.Command] {
				seen[rec.Command] = true
				candidates = append(candidates, rec)
			}
		}
	}
	if recent, err := r.History.Recent(domain.HistoryScanLimit); err == nil {
		for _, rec := range recent {
			if !seen[rec.Command] {
				seen[rec.Command] = true
				candidates = append(candidates, rec)
			}
		}
	}
	return candidates
}

func tokenSet(text string) map[string]bool {
	set := map[string]bool{}
	for _, field := range strings.Fields(strings.ToLower(text)) {
		set[field] = true
	}
	return set
}

func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	shared := 0
	for token := range a {
		if b[token] {
			shared++
		}
	}
	union := len(a) + len(b) - shared
	return float64(shared) / float64(union)
}
