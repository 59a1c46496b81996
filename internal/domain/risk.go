package domain

// RiskTier classifies a command string by the damage it can do. Tiers are
// totally ordered: Safe < Moderate < Destructive. A tier is always recomputed
// from the command text and never persisted on its own.
type RiskTier string

const (
	RiskSafe        RiskTier = "safe"
	RiskModerate    RiskTier = "moderate"
	RiskDestructive RiskTier = "destructive"
)

var riskOrder = map[RiskTier]int{
	RiskSafe:        0,
	RiskModerate:    1,
	RiskDestructive: 2,
}

// MoreSevere reports whether t outranks other.
func (t RiskTier) MoreSevere(other RiskTier) bool {
	return riskOrder[t] > riskOrder[other]
}

// RequiresExplicitConfirm reports whether the tier demands the typed
// confirmation phrase rather than a plain yes.
func (t RiskTier) RequiresExplicitConfirm() bool {
	return t == RiskDestructive
}
