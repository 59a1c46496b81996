// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// The interpretation pipeline depends only on these abstractions; concrete
// adapters (the Ollama gateway, the SQLite store, the stdin prompter) live in
// the infrastructure layer. Everything the pipeline needs from the outside
// world — the completion service, persistence, the process runner, the user —
// crosses one of these boundaries, so the pipeline can be tested against
// in-memory fakes.
package ports

import (
	"context"
	"errors"

	"github.com/haunted-sh/haunted/internal/domain"
)

// Typed completion gateway failures. All of them end the current turn and
// leave the session usable; callers branch with errors.Is.
var (
	ErrGatewayUnavailable = errors.New("completion service unreachable")
	ErrGatewayTimeout     = errors.New("completion service timed out")
	ErrGatewayUnparsable  = errors.New("completion reply contains no command")
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.haunted/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// CompletionGateway turns a built prompt into a single command-line string.
// Interpret enforces a hard deadline and returns one of the typed gateway
// failures when the service is unreachable, too slow, or its reply carries
// no extractable command. The endpoint must be a loopback address.
type CompletionGateway interface {
	Interpret(ctx context.Context, prompt string) (string, error)
	Explain(ctx context.Context, command string) (string, error)
}

// SecurityClassifier assigns exactly one risk tier to a command string.
// Classification is pure and total: every command maps to a tier, never to
// an error.
type SecurityClassifier interface {
	Classify(command string) domain.RiskTier
}

// CommandExecutor runs a command in the configured shell and reports what
// happened. A non-zero exit code is a normal outcome, not an error; Execute
// only errors when the shell itself cannot be started.
type CommandExecutor interface {
	Execute(ctx context.Context, command string) (domain.ExecutionOutcome, error)
}

// ConfirmationPrompter drives the user through the accept/reject/retry choice
// for a proposed command. For destructive tiers implementations must demand
// the typed confirmation phrase; a bare "yes" maps to DecisionDeclined.
type ConfirmationPrompter interface {
	Confirm(command string, tier domain.RiskTier) (domain.Decision, error)
	Enabled() bool
}

// HistoryRepository persists successful mappings, rejections, and aliases.
// Writes happen only from the outcome recorder; reads feed the suggestion
// ranker and the prompt builder.
type HistoryRepository interface {
	SaveCommand(record domain.HistoryRecord) error
	RecordRejection(record domain.RejectionRecord) error
	// ClearRejections removes every rejection for the exact request text.
	// Deleting zero rows is not an error.
	ClearRejections(requestText string) error
	Rejections(requestText string, limit int) ([]string, error)
	Recent(limit int) ([]domain.HistoryRecord, error)
	Similar(text string, limit int) ([]domain.HistoryRecord, error)
	FrequentInDir(dir string, limit int) ([]domain.HistoryRecord, error)

	Alias(name string) (string, bool)
	SaveAlias(name, command string) error
	RemoveAlias(name string) (bool, error)
	Aliases() ([]domain.Alias, error)

	Clear() error
	ExportJSON(dest string) error
	Available() bool
	Path() string
}

// KnowledgeBase is the read-only user override table consulted before the
// completion service. An exact key match takes absolute precedence.
type KnowledgeBase interface {
	Lookup(text string) (string, bool)
	Search(query string, limit int) []domain.Mapping
	Entries() []domain.Mapping
	Add(request, command string) error
	Path() string
}

// Blacklist is the read-only set of forbidden patterns. A match on the final
// extracted command aborts the turn before confirmation is offered.
type Blacklist interface {
	Patterns() []string
	Match(command string) (pattern string, ok bool)
	Add(pattern string) error
	Path() string
}

// PathCorrector rewrites non-existent path arguments against the working
// directory. Implementations must leave pipelines and redirections alone.
type PathCorrector interface {
	Correct(command, workingDir string) string
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
