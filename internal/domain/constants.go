package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Request validation limits
const (
	// MaxRequestLength is the longest request text accepted by the pipeline.
	// Longer input is rejected before the completion service is consulted.
	MaxRequestLength = 1000
)

// Completion gateway constants
const (
	// DefaultGatewayTimeout is the hard deadline on a completion call.
	DefaultGatewayTimeout = 10 * time.Second
	// DefaultEndpoint is the loopback completion service address.
	DefaultEndpoint = "http://127.0.0.1:11434"
	// DefaultModelName is the completion model used when none is configured.
	DefaultModelName = "llama3.2"
)

// Prompt composition limits
const (
	// PromptHistoryLimit caps learned (request, command) pairs per prompt.
	PromptHistoryLimit = 3
	// PromptRejectionLimit caps "do not repeat" entries per prompt.
	PromptRejectionLimit = 3
	// PromptExamplesPerDomain caps worked examples per detected domain.
	PromptExamplesPerDomain = 4
)

// Confirmation constants
const (
	// ConfirmationPhrase must be typed verbatim to run a destructive command.
	// A bare "yes" never confirms a destructive command.
	ConfirmationPhrase = "EXECUTE"
)

// History constants
const (
	// DefaultSuggestionLimit is how many ranked hints a turn surfaces.
	DefaultSuggestionLimit = 5
	// DefaultHistoryLimit is the default number of records to display.
	DefaultHistoryLimit = 20
	// HistoryScanLimit bounds how many recent rows the ranker scores.
	HistoryScanLimit = 200
)

// Time formats
const (
	// TimestampFormat is the standard timestamp format
	TimestampFormat = time.RFC3339
)
