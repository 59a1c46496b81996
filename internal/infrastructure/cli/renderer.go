package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/haunted-sh/haunted/internal/domain"
)

// Renderer formats pipeline results for the terminal.
type Renderer struct {
	out io.Writer
}

// NewRenderer writes to out, defaulting to stdout.
func NewRenderer(out io.Writer) *Renderer {
	if out == nil {
		out = os.Stdout
	}
	return &Renderer{out: out}
}

// Result prints what a turn produced: the command output when it ran, the
// proposed command when it did not.
func (r *Renderer) Result(res domain.TurnResult) {
	for _, warning := range res.Warnings {
		fmt.Fprintf(r.out, "⚠ %s\n", warning)
	}

	if res.Outcome != nil {
		if res.Outcome.Stdout != "" {
			fmt.Fprint(r.out, res.Outcome.Stdout)
			if !strings.HasSuffix(res.Outcome.Stdout, "\n") {
				fmt.Fprintln(r.out)
			}
		}
		if res.Outcome.Stderr != "" {
			fmt.Fprint(os.Stderr, res.Outcome.Stderr)
			if !strings.HasSuffix(res.Outcome.Stderr, "\n") {
				fmt.Fprintln(os.Stderr)
			}
		}
		if !res.Outcome.Succeeded() {
			fmt.Fprintf(r.out, "✗ exited with code %d\n", res.Outcome.ExitCode)
		}
		return
	}

	switch res.Decision {
	case domain.DecisionProposed:
		// non-interactive: surface the command without running it
		fmt.Fprintf(r.out, "%s\n", res.Interpretation.Command)
	case domain.DecisionRejected, domain.DecisionDeclined:
		fmt.Fprintln(r.out, "cancelled")
	}
}

// History prints records with relative timestamps and frequency counts.
func (r *Renderer) History(records []domain.HistoryRecord) {
	if len(records) == 0 {
		fmt.Fprintln(r.out, "no history yet")
		return
	}
	for _, rec := range records {
		when := humanize.Time(rec.Timestamp)
		if rec.Frequency > 1 {
			fmt.Fprintf(r.out, "%-40q  %s  (%s, used %d times)\n", rec.RequestText, rec.Command, when, rec.Frequency)
		} else {
			fmt.Fprintf(r.out, "%-40q  %s  (%s)\n", rec.RequestText, rec.Command, when)
		}
	}
}

// Suggestions prints ranked suggestions for a request.
func (r *Renderer) Suggestions(records []domain.HistoryRecord) {
	if len(records) == 0 {
		fmt.Fprintln(r.out, "no suggestions")
		return
	}
	for i, rec := range records {
		fmt.Fprintf(r.out, "%d. %s  (for %q, %s)\n", i+1, rec.Command, rec.RequestText, humanize.Time(rec.Timestamp))
	}
}

// Aliases prints the alias table.
func (r *Renderer) Aliases(aliases []domain.Alias) {
	if len(aliases) == 0 {
		fmt.Fprintln(r.out, "no aliases defined")
		return
	}
	for _, a := range aliases {
		fmt.Fprintf(r.out, "%-20s %s\n", a.Name, a.Command)
	}
}

// Mappings prints knowledge base entries.
func (r *Renderer) Mappings(mappings []domain.Mapping) {
	if len(mappings) == 0 {
		fmt.Fprintln(r.out, "no mappings defined")
		return
	}
	for _, m := range mappings {
		fmt.Fprintf(r.out, "%q -> %s\n", m.Request, m.Command)
	}
}
