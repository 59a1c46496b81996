package safety

import (
	"strings"

	"github.com/haunted-sh/haunted/internal/domain"
	"github.com/haunted-sh/haunted/internal/ports"
)

// Classifier implements the SecurityClassifier port.
type Classifier struct {
	rules []compiledRule
}

// NewClassifier loads rules from path (or the compiled-in defaults when the
// file is missing) and compiles them.
func NewClassifier(path string) (*Classifier, error) {
	rules, err := loadRules(path)
	if err != nil {
		return nil, err
	}
	compiled, err := compile(rules.Rules)
	if err != nil {
		return nil, err
	}
	return &Classifier{rules: compiled}, nil
}

// Classify assigns exactly one tier to the command. The function is pure and
// total: every string maps to a tier, highest matching tier wins, and an
// empty command is safe.
func (c *Classifier) Classify(command string) domain.RiskTier {
	if strings.TrimSpace(command) == "" {
		return domain.RiskSafe
	}

	segments := Tokenize(command)
	whole := Normalize(segments)

	tier := domain.RiskSafe
	for _, rule := range c.rules {
		if rule.matches(segments, whole) && rule.tier.MoreSevere(tier) {
			tier = rule.tier
		}
	}
	return tier
}

func (r compiledRule) matches(segments []Segment, whole string) bool {
	if r.whole != nil {
		return r.whole.MatchString(whole)
	}
	for _, seg := range segments {
		if !r.command.MatchString(seg.Command) {
			continue
		}
		if r.args == nil || r.args.MatchString(seg.ArgString()) {
			return true
		}
	}
	return false
}

var _ ports.SecurityClassifier = (*Classifier)(nil)
