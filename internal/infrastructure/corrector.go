package infrastructure

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/haunted-sh/haunted/internal/ports"
)

// FuzzyCorrector rewrites non-existent path arguments by matching against
// the files in the working directory. Pipelines, redirections, and chains
// are left untouched: rewriting inside them is too risky.
type FuzzyCorrector struct {
	cutoff float64
}

// NewFuzzyCorrector builds a corrector. cutoff is the minimum similarity
// (0..1) for a fuzzy rewrite; 0 selects the default of 0.6.
func NewFuzzyCorrector(cutoff float64) *FuzzyCorrector {
	if cutoff <= 0 {
		cutoff = 0.6
	}
	return &FuzzyCorrector{cutoff: cutoff}
}

// Correct implements ports.PathCorrector.
func (c *FuzzyCorrector) Correct(command, workingDir string) string {
	if strings.ContainsAny(command, "|>") || strings.Contains(command, "&&") {
		return command
	}

	words, ok := splitWords(command)
	if !ok || len(words) < 2 {
		return command
	}

	dirEntries, err := os.ReadDir(workingDir)
	if err != nil {
		return command
	}
	names := make([]string, 0, len(dirEntries))
	for _, entry := range dirEntries {
		names = append(names, entry.Name())
	}

	modified := false
	corrected := []string{words[0]}
	for _, word := range words[1:] {
		if strings.HasPrefix(word, "-") {
			corrected = append(corrected, word)
			continue
		}
		replacement, changed := c.correctWord(word, workingDir, names)
		corrected = append(corrected, replacement)
		modified = modified || changed
	}

	if !modified {
		return command
	}
	return joinWords(corrected)
}

func (c *FuzzyCorrector) correctWord(word, workingDir string, names []string) (string, bool) {
	if _, err := os.Stat(filepath.Join(workingDir, word)); err == nil {
		// exists; on case-insensitive filesystems the casing may still
		// differ from the directory listing
		if containsExact(names, word) || strings.ContainsRune(word, '/') {
			return word, false
		}
		if match := caseInsensitiveMatch(word, names); match != "" {
			return match, true
		}
		return word, false
	}

	if match := caseInsensitiveMatch(word, names); match != "" {
		return match, true
	}
	if match := closestMatch(word, names, c.cutoff); match != "" {
		return match, true
	}
	return word, false
}

func containsExact(names []string, word string) bool {
	for _, name := range names {
		if name == word {
			return true
		}
	}
	return false
}

func caseInsensitiveMatch(word string, names []string) string {
	for _, name := range names {
		if strings.EqualFold(name, word) {
			return name
		}
	}
	return ""
}

// closestMatch picks the name with the highest similarity to word, provided
// it clears the cutoff. Similarity is 1 - d/max(len) with d the edit
// distance.
func closestMatch(word string, names []string, cutoff float64) string {
	best := ""
	bestScore := cutoff
	for _, name := range names {
		score := similarity(word, name)
		if score > bestScore {
			best = name
			bestScore = score
		}
	}
	return best
}

func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(editDistance(a, b))/float64(longest)
}

func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// splitWords splits on whitespace honoring quotes; unbalanced quotes fail.
func splitWords(command string) ([]string, bool) {
	var words []string
	var word strings.Builder
	var quote rune
	hasWord := false

	for _, r := range command {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				word.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			hasWord = true
		case r == ' ' || r == '\t':
			if hasWord {
				words = append(words, word.String())
				word.Reset()
				hasWord = false
			}
		default:
			word.WriteRune(r)
			hasWord = true
		}
	}
	if quote != 0 {
		return nil, false
	}
	if hasWord {
		words = append(words, word.String())
	}
	return words, true
}

func joinWords(words []string) string {
	quoted := make([]string, len(words))
	for i, word := range words {
		if strings.ContainsAny(word, " \t") {
			quoted[i] = `"` + word + `"`
		} else {
			quoted[i] = word
		}
	}
	return strings.Join(quoted, " ")
}

var _ ports.PathCorrector = (*FuzzyCorrector)(nil)
