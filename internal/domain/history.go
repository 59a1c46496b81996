package domain

import "time"

// HistoryRecord is a persisted successful (request -> command) mapping.
// Invariant: a command whose exit code was non-zero is never stored here.
type HistoryRecord struct {
	ID          int64
	RequestText string
	Command     string
	WorkingDir  string
	ExitCode    int
	Timestamp   time.Time
	Elapsed     time.Duration
	// Frequency is how many times this (request, command) pair succeeded;
	// populated by grouped queries, zero on plain rows.
	Frequency int
}

// RejectionRecord marks a command that was rejected or failed for a given
// request text. Rejections are transient negative signal: they are all
// deleted the moment the same request text later succeeds.
type RejectionRecord struct {
	RequestText string
	Command     string
	Timestamp   time.Time
}

// Alias is a user-named shortcut expanded before interpretation.
type Alias struct {
	Name      string
	Command   string
	CreatedAt time.Time
}

// Mapping is a (request text, command) pair used as prompt material, either
// from the knowledge base or from learned history.
type Mapping struct {
	Request string
	Command string
}
