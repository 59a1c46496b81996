package domain

import "time"

// Request is one free-text user turn, captured once and never mutated.
type Request struct {
	Text       string
	WorkingDir string
	CapturedAt time.Time
}

// Interpretation pairs a request with the command derived for it and the risk
// tier assigned to that command. It lives only for the duration of a turn;
// only a successful execution persists anything derived from it.
type Interpretation struct {
	RequestText string
	Command     string
	Tier        RiskTier
	// Confidence is optional; zero means the completion service supplied none.
	Confidence float64
	// FromOverride marks interpretations resolved from the knowledge base
	// without consulting the completion service.
	FromOverride bool
}

// ExecutionOutcome wraps what the process runner observed. A non-zero exit
// code is a normal result here, not an error.
type ExecutionOutcome struct {
	Command   string
	Stdout    string
	Stderr    string
	ExitCode  int
	Elapsed   time.Duration
	Timestamp time.Time
}

// Succeeded reports whether the command exited cleanly.
func (o ExecutionOutcome) Succeeded() bool {
	return o.ExitCode == 0
}
