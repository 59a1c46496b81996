package domain

// Decision is the outcome of the confirmation state machine for one proposed
// interpretation. Every interpretation starts at DecisionProposed; safe and
// moderate commands resolve through Accepted/Rejected/Retry, destructive ones
// through Confirmed/Declined after the typed confirmation phrase.
type Decision string

const (
	DecisionProposed  Decision = "proposed"
	DecisionAccepted  Decision = "accepted"
	DecisionRejected  Decision = "rejected"
	DecisionRetry     Decision = "retry"
	DecisionConfirmed Decision = "confirmed"
	DecisionDeclined  Decision = "declined"
)

// Executes reports whether the decision hands the command to the runner.
func (d Decision) Executes() bool {
	return d == DecisionAccepted || d == DecisionConfirmed
}

// Abandons reports whether the turn ends with no execution and no writes.
func (d Decision) Abandons() bool {
	return d == DecisionRejected || d == DecisionDeclined
}
