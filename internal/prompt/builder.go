package prompt

import (
	"fmt"
	"strings"

	"github.com/haunted-sh/haunted/internal/domain"
)

// systemRules are the global safety and style constraints, emitted first in
// every prompt regardless of domain.
const systemRules = `You are a shell command interpreter. Convert natural language descriptions into shell commands.

Rules:
- Return ONLY the shell command, nothing else
- No explanations, no markdown, no code blocks
- Use standard POSIX sh/bash syntax
- Prefer safe, non-destructive operations when ambiguous
- For find/grep commands that may hit permission errors, add '2>/dev/null' to suppress error messages
- When searching home directory or system paths, always suppress stderr with '2>/dev/null'
- Use proper quoting for filenames with spaces or special characters
- Match file name casing exactly as it exists on disk
- When the user implies multiple filters, combine them with AND (implicit in find), NEVER with -o (OR)
- CORRECT: find . -name "*.py" -mtime -7 (python files modified in last 7 days)
- WRONG: find with -o between -name and -mtime (this finds ALL python files OR all recent files)`

// BuildInput carries everything the builder composes into one payload.
type BuildInput struct {
	Request string
	Domains []Domain
	// Overrides are user-declared mappings from the knowledge base; they are
	// emitted ahead of worked examples and take precedence over them.
	Overrides []domain.Mapping
	// Learned are ranked successful mappings from history.
	Learned []domain.Mapping
	// Rejections are commands that must not be repeated for this request,
	// both persisted ones and those accumulated during this turn.
	Rejections []string
	// Blacklist patterns must never appear in any generated command.
	Blacklist []string
}

// Build composes the instruction payload in a fixed order: rules, override
// mappings, worked examples, learned patterns, do-not-repeat list, blacklist,
// then the request itself. The order is fixed for determinism; identical
// input always yields an identical prompt.
func Build(in BuildInput) string {
	var b strings.Builder
	b.WriteString(systemRules)

	exactOverride := false
	if len(in.Overrides) > 0 {
		b.WriteString("\n\nUser-defined mappings (these take precedence over everything below):")
		for _, m := range in.Overrides {
			fmt.Fprintf(&b, "\nUser: %q\nResponse: %s", m.Request, m.Command)
			if strings.EqualFold(strings.TrimSpace(m.Request), strings.TrimSpace(in.Request)) {
				exactOverride = true
			}
		}
	}

	// An exact override match short-circuits the example section; the mapping
	// already answers the request verbatim.
	if !exactOverride {
		examples := ExamplesFor(in.Domains, domain.PromptExamplesPerDomain)
		b.WriteString("\n\nExamples (follow these patterns):")
		for _, ex := range examples {
			fmt.Fprintf(&b, "\nUser: %q\nResponse: %s", ex.Request, ex.Command)
		}
	}

	if len(in.Learned) > 0 {
		b.WriteString("\n\nLearned patterns (these worked for this user before):")
		for i, m := range in.Learned {
			if i == domain.PromptHistoryLimit {
				break
			}
			fmt.Fprintf(&b, "\nUser: %q\nResponse: %s", m.Request, m.Command)
		}
	}

	if len(in.Rejections) > 0 {
		b.WriteString("\n\nREJECTED COMMANDS (the user rejected these - generate a COMPLETELY DIFFERENT command):")
		for i, cmd := range in.Rejections {
			if i == domain.PromptRejectionLimit {
				break
			}
			fmt.Fprintf(&b, "\n- REJECTED: %s", cmd)
		}
		b.WriteString("\nDo NOT generate the same or a similar command. Try a different approach.")
	}

	if len(in.Blacklist) > 0 {
		b.WriteString("\n\nBLACKLIST (NEVER include these patterns in ANY command):")
		for _, pattern := range in.Blacklist {
			fmt.Fprintf(&b, "\n- NEVER use: %s", pattern)
		}
	}

	b.WriteString("\n\nNow interpret this command:")
	fmt.Fprintf(&b, "\nUser: %s\nResponse:", in.Request)
	return b.String()
}
