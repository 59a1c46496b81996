package domain

import "fmt"

// TurnRequest carries one user turn into the pipeline.
type TurnRequest struct {
	Text       string
	WorkingDir string
	// AutoExecute skips confirmation for safe commands only; destructive
	// commands always require the typed phrase.
	AutoExecute bool
}

// TurnResult is what a completed (or abandoned) turn reports back.
type TurnResult struct {
	Request        Request
	Interpretation Interpretation
	Decision       Decision
	Outcome        *ExecutionOutcome
	Suggestions    []HistoryRecord
	Warnings       []string
}

// TurnFailure enumerates the recoverable ways a turn can end before a
// decision is reached. None of them is fatal to the process.
type TurnFailure string

const (
	FailInvalidRequest     TurnFailure = "invalid_request"
	FailGatewayUnavailable TurnFailure = "gateway_unavailable"
	FailGatewayTimeout     TurnFailure = "gateway_timeout"
	FailGatewayUnparsable  TurnFailure = "gateway_unparsable"
	FailBlacklistViolation TurnFailure = "blacklist_violation"
)

// TurnError is the single outward-facing failure shape for a turn. Internal
// error identity stays behind it; callers branch on Reason only.
type TurnError struct {
	Reason TurnFailure
	Detail string
	Err    error
}

func (e *TurnError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("turn failed (%s): %s", e.Reason, e.Detail)
	}
	return fmt.Sprintf("turn failed (%s)", e.Reason)
}

func (e *TurnError) Unwrap() error { return e.Err }
