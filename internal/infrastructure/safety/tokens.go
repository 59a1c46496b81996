// Package safety assigns a risk tier to command strings using an ordered list
// of data rules evaluated against the tokenized command, not raw substrings.
package safety

import "strings"

// Segment is one pipeline stage of a command: the word in command position
// and its arguments, with quoting resolved. Matching against segments rather
// than the raw string keeps a filename that merely contains "rm" from
// triggering classification.
type Segment struct {
	Command string
	Args    []string
	// Sep is the operator that followed this segment ("|", "&&", ";", ...),
	// empty for the last one.
	Sep string
}

// wrapper commands whose real command is the next token.
var commandPrefixes = map[string]bool{
	"sudo":  true,
	"doas":  true,
	"env":   true,
	"nohup": true,
	"time":  true,
	"nice":  true,
}

// Tokenize splits a command line into pipeline segments, honoring single and
// double quotes. Separators: |, ||, &&, ;, &.
func Tokenize(command string) []Segment {
	var segments []Segment
	var current []string
	var word strings.Builder
	var quote rune

	flushWord := func() {
		if word.Len() > 0 {
			current = append(current, word.String())
			word.Reset()
		}
	}
	flushSegment := func(sep string) {
		flushWord()
		if len(current) > 0 {
			seg := newSegment(current)
			seg.Sep = sep
			segments = append(segments, seg)
			current = nil
		}
	}

	runes := []rune(command)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				word.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '|' || r == ';' || r == '&':
			// every chaining form starts a new segment; keep the operator so
			// whole-chain rules see what actually joins the stages
			sep := string(r)
			if i+1 < len(runes) && runes[i+1] == r {
				sep += string(r)
				i++
			}
			flushSegment(sep)
		case r == ' ' || r == '\t':
			flushWord()
		default:
			word.WriteRune(r)
		}
	}
	flushSegment("")
	return segments
}

func newSegment(words []string) Segment {
	idx := 0
	for idx < len(words)-1 && commandPrefixes[strings.ToLower(words[idx])] {
		idx++
		// env VAR=x cmd: skip assignments too
		for idx < len(words)-1 && strings.Contains(words[idx], "=") {
			idx++
		}
	}
	return Segment{
		Command: strings.ToLower(words[idx]),
		Args:    words[idx+1:],
	}
}

// ArgString joins a segment's arguments for regexp matching.
func (s Segment) ArgString() string {
	return strings.Join(s.Args, " ")
}

// Normalize rebuilds the whole command from its segments with quoting
// stripped, keeping the original operators between stages, for rules that
// need to see the full chain (e.g. piping a download into sudo).
func Normalize(segments []Segment) string {
	var b strings.Builder
	for i, seg := range segments {
		if i > 0 {
			b.WriteString(" ")
		}
		fields := append([]string{seg.Command}, seg.Args...)
		b.WriteString(strings.Join(fields, " "))
		if seg.Sep != "" {
			b.WriteString(" " + seg.Sep)
		}
	}
	return b.String()
}
