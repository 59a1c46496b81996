package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/haunted-sh/haunted/internal/domain"
	"github.com/haunted-sh/haunted/internal/ports"
)

// Prompter implements ConfirmationPrompter over stdio. The questions escalate
// with the tier: safe defaults to yes, moderate defaults to no, destructive
// demands the typed confirmation phrase.
type Prompter struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
}

// NewPrompter constructs a prompter referencing stdio. With nil arguments it
// binds to the process terminal and reports Enabled only when stdin is a TTY.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	interactive := true
	if in == nil {
		in = os.Stdin
		interactive = isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}
	if out == nil {
		out = os.Stdout
	}
	return &Prompter{
		in:          bufio.NewReader(in),
		out:         out,
		interactive: interactive,
	}
}

// Enabled indicates the prompter can actually ask questions.
func (p *Prompter) Enabled() bool {
	return p.interactive
}

// Confirm asks the user about a proposed command.
func (p *Prompter) Confirm(command string, tier domain.RiskTier) (domain.Decision, error) {
	fmt.Fprintf(p.out, "\n  %s\n", command)

	switch tier {
	case domain.RiskDestructive:
		return p.confirmDestructive()
	case domain.RiskModerate:
		fmt.Fprintln(p.out, "  ⚠ this command modifies or removes data")
		return p.ask("Run it? [y/N/r]: ", domain.DecisionRejected)
	default:
		return p.ask("Run it? [Y/n/r]: ", domain.DecisionAccepted)
	}
}

func (p *Prompter) ask(question string, onEmpty domain.Decision) (domain.Decision, error) {
	fmt.Fprint(p.out, question)
	line, err := p.readLine()
	if err != nil {
		return domain.DecisionRejected, err
	}
	switch strings.ToLower(line) {
	case "":
		return onEmpty, nil
	case "y", "yes":
		return domain.DecisionAccepted, nil
	case "r", "retry":
		return domain.DecisionRetry, nil
	default:
		return domain.DecisionRejected, nil
	}
}

// confirmDestructive accepts only the exact confirmation phrase. A bare
// "yes" declines; so does everything else except the retry shortcut.
func (p *Prompter) confirmDestructive() (domain.Decision, error) {
	fmt.Fprintln(p.out, "  ☠ DESTRUCTIVE COMMAND - this may permanently delete or overwrite data")
	fmt.Fprintf(p.out, "Type %s to run it, r to retry, anything else to cancel: ", domain.ConfirmationPhrase)
	line, err := p.readLine()
	if err != nil {
		return domain.DecisionDeclined, err
	}
	if line == domain.ConfirmationPhrase {
		return domain.DecisionConfirmed, nil
	}
	switch strings.ToLower(line) {
	case "r", "retry":
		return domain.DecisionRetry, nil
	default:
		return domain.DecisionDeclined, nil
	}
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

var _ ports.ConfirmationPrompter = (*Prompter)(nil)
