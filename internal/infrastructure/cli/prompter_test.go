package cli

import (
	"strings"
	"testing"

	"github.com/haunted-sh/haunted/internal/domain"
)

func confirm(t *testing.T, input string, tier domain.RiskTier) domain.Decision {
	t.Helper()
	var out strings.Builder
	p := NewPrompter(strings.NewReader(input), &out)
	decision, err := p.Confirm("rm -rf build", tier)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	return decision
}

func TestConfirmSafeDefaultsToAccept(t *testing.T) {
	if got := confirm(t, "\n", domain.RiskSafe); got != domain.DecisionAccepted {
		t.Errorf("empty input on safe tier = %s", got)
	}
	if got := confirm(t, "n\n", domain.RiskSafe); got != domain.DecisionRejected {
		t.Errorf("n on safe tier = %s", got)
	}
	if got := confirm(t, "r\n", domain.RiskSafe); got != domain.DecisionRetry {
		t.Errorf("r on safe tier = %s", got)
	}
}

func TestConfirmModerateDefaultsToReject(t *testing.T) {
	if got := confirm(t, "\n", domain.RiskModerate); got != domain.DecisionRejected {
		t.Errorf("empty input on moderate tier = %s", got)
	}
	if got := confirm(t, "Y\n", domain.RiskModerate); got != domain.DecisionAccepted {
		t.Errorf("Y on moderate tier = %s", got)
	}
}

func TestConfirmDestructiveRequiresPhrase(t *testing.T) {
	if got := confirm(t, "EXECUTE\n", domain.RiskDestructive); got != domain.DecisionConfirmed {
		t.Errorf("phrase on destructive tier = %s", got)
	}
	// a bare yes never confirms a destructive command
	for _, input := range []string{"yes\n", "y\n", "execute\n", "\n", "EXECUTE \nextra"} {
		got := confirm(t, input, domain.RiskDestructive)
		if input == "EXECUTE \nextra" {
			// trailing whitespace is trimmed, so this one confirms
			if got != domain.DecisionConfirmed {
				t.Errorf("%q = %s, want confirmed", input, got)
			}
			continue
		}
		if got != domain.DecisionDeclined {
			t.Errorf("%q = %s, want declined", input, got)
		}
	}
	if got := confirm(t, "r\n", domain.RiskDestructive); got != domain.DecisionRetry {
		t.Errorf("r on destructive tier = %s", got)
	}
}

func TestPrompterEnabledWithExplicitStreams(t *testing.T) {
	p := NewPrompter(strings.NewReader(""), &strings.Builder{})
	if !p.Enabled() {
		t.Error("explicit streams should be interactive")
	}
}
