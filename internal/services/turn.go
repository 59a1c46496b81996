// Package services orchestrates the interpretation pipeline end-to-end.
package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/haunted-sh/haunted/internal/domain"
	"github.com/haunted-sh/haunted/internal/ports"
	"github.com/haunted-sh/haunted/internal/prompt"
)

// duplicateRetryBudget bounds silent re-asks when the completion service
// keeps proposing a command the user already rejected this turn.
const duplicateRetryBudget = 1

// TurnService drives one user turn: interpret, classify, confirm, execute,
// record. All side effects cross ports, so the whole pipeline is testable
// against in-memory fakes.
type TurnService struct {
	Gateway    ports.CompletionGateway
	Classifier ports.SecurityClassifier
	Executor   ports.CommandExecutor
	Prompter   ports.ConfirmationPrompter
	History    ports.HistoryRepository
	Knowledge  ports.KnowledgeBase
	Blacklist  ports.Blacklist
	Corrector  ports.PathCorrector
	Ranker     *SuggestionRanker
	Logger     ports.Logger

	// AutoExecuteSafe runs safe-tier commands without prompting. It never
	// applies to moderate or destructive tiers.
	AutoExecuteSafe bool
	SuggestionLimit int

	// historyOff flips once after the first persistence failure; the rest of
	// the session runs without history instead of failing every turn.
	historyOff bool
}

// Run processes a single turn. The returned error, when non-nil, is always a
// *domain.TurnError.
func (s *TurnService) Run(ctx context.Context, req domain.TurnRequest) (domain.TurnResult, error) {
	if s.Gateway == nil || s.Classifier == nil || s.Executor == nil || s.Logger == nil {
		return domain.TurnResult{}, &domain.TurnError{
			Reason: domain.FailInvalidRequest, Detail: "turn service dependencies not satisfied",
		}
	}

	text := strings.TrimSpace(req.Text)
	if err := validateRequest(text); err != nil {
		return domain.TurnResult{}, err
	}

	result := domain.TurnResult{
		Request: domain.Request{
			Text:       text,
			WorkingDir: req.WorkingDir,
			CapturedAt: time.Now(),
		},
		Decision: domain.DecisionProposed,
	}

	if s.Ranker != nil {
		result.Suggestions = s.Ranker.Rank(text, s.suggestionLimit())
	}

	command, fromOverride, err := s.resolveCommand(ctx, text, nil)
	if err != nil {
		return result, err
	}
	command = s.correct(command, req.WorkingDir, &result)

	if terr := s.checkBlacklist(command); terr != nil {
		return result, terr
	}

	result.Interpretation = s.interpretation(text, command, fromOverride)

	autoExecute := (req.AutoExecute || s.AutoExecuteSafe) &&
		result.Interpretation.Tier == domain.RiskSafe

	decision, interp, terr := s.decide(ctx, text, req.WorkingDir, result.Interpretation, autoExecute, &result)
	if terr != nil {
		result.Decision = decision
		return result, terr
	}
	result.Decision = decision
	result.Interpretation = interp

	if !decision.Executes() {
		// rejected, declined, or left at proposed (non-interactive): the
		// turn is abandoned and nothing is written
		return result, nil
	}

	outcome := s.execute(ctx, interp.Command)
	result.Outcome = &outcome
	s.recordOutcome(text, req.WorkingDir, outcome, &result)
	return result, nil
}

// Explain asks the completion service to describe a command.
func (s *TurnService) Explain(ctx context.Context, command string) (string, error) {
	explanation, err := s.Gateway.Explain(ctx, command)
	if err != nil {
		return "", mapGatewayError(err)
	}
	return explanation, nil
}

func validateRequest(text string) *domain.TurnError {
	if text == "" {
		return &domain.TurnError{Reason: domain.FailInvalidRequest, Detail: "request text is empty"}
	}
	if utf8.RuneCountInString(text) > domain.MaxRequestLength {
		return &domain.TurnError{Reason: domain.FailInvalidRequest, Detail: "request text exceeds the length limit"}
	}
	return nil
}

// resolveCommand produces a candidate command: alias first, then the exact
// knowledge override, then the completion service.
func (s *TurnService) resolveCommand(ctx context.Context, text string, turnRejections []string) (string, bool, error) {
	if s.History != nil && !s.historyOff && s.History.Available() {
		if command, ok := s.History.Alias(text); ok {
			return command, true, nil
		}
	}
	if s.Knowledge != nil {
		if command, ok := s.Knowledge.Lookup(text); ok {
			return command, true, nil
		}
	}
	command, err := s.interpret(ctx, text, turnRejections)
	return command, false, err
}

func (s *TurnService) interpret(ctx context.Context, text string, turnRejections []string) (string, error) {
	in := prompt.BuildInput{
		Request:    text,
		Domains:    prompt.Categorize(text),
		Rejections: turnRejections,
	}
	if s.Knowledge != nil {
		in.Overrides = s.Knowledge.Search(text, domain.PromptHistoryLimit)
	}
	if s.Ranker != nil {
		in.Learned = s.Ranker.Learned(text, domain.PromptHistoryLimit)
	}
	if s.History != nil && !s.historyOff && s.History.Available() {
		if persisted, err := s.History.Rejections(text, domain.PromptRejectionLimit); err == nil {
			in.Rejections = append(persisted, in.Rejections...)
		}
	}
	if s.Blacklist != nil {
		in.Blacklist = s.Blacklist.Patterns()
	}

	command, err := s.Gateway.Interpret(ctx, prompt.Build(in))
	if err != nil {
		return "", mapGatewayError(err)
	}
	return command, nil
}

func mapGatewayError(err error) *domain.TurnError {
	switch {
	case errors.Is(err, ports.ErrGatewayTimeout):
		return &domain.TurnError{Reason: domain.FailGatewayTimeout, Detail: err.Error(), Err: err}
	case errors.Is(err, ports.ErrGatewayUnparsable):
		return &domain.TurnError{Reason: domain.FailGatewayUnparsable, Detail: err.Error(), Err: err}
	default:
		return &domain.TurnError{Reason: domain.FailGatewayUnavailable, Detail: err.Error(), Err: err}
	}
}

// correct rewrites broken path arguments and announces the rewrite; a
// silent correction would execute something the user never saw.
func (s *TurnService) correct(command, workingDir string, result *domain.TurnResult) string {
	if s.Corrector == nil || workingDir == "" {
		return command
	}
	corrected := s.Corrector.Correct(command, workingDir)
	if corrected != command {
		result.Warnings = append(result.Warnings, "corrected path: "+command+" -> "+corrected)
	}
	return corrected
}

func (s *TurnService) checkBlacklist(command string) *domain.TurnError {
	if s.Blacklist == nil {
		return nil
	}
	if pattern, ok := s.Blacklist.Match(command); ok {
		s.Logger.Warn("blacklisted command refused", map[string]interface{}{
			"pattern": pattern,
		})
		return &domain.TurnError{
			Reason: domain.FailBlacklistViolation,
			Detail: "command matches blacklisted pattern: " + pattern,
		}
	}
	return nil
}

func (s *TurnService) interpretation(text, command string, fromOverride bool) domain.Interpretation {
	return domain.Interpretation{
		RequestText:  text,
		Command:      command,
		Tier:         s.Classifier.Classify(command),
		FromOverride: fromOverride,
	}
}

// decide drives the confirmation state machine, including the retry loop.
// Retried commands accumulate in a per-turn rejection list fed back into the
// next prompt; a duplicate proposal is silently re-asked a bounded number of
// times before the turn fails.
func (s *TurnService) decide(
	ctx context.Context,
	text, workingDir string,
	interp domain.Interpretation,
	autoExecute bool,
	result *domain.TurnResult,
) (domain.Decision, domain.Interpretation, *domain.TurnError) {
	if autoExecute {
		return domain.DecisionAccepted, interp, nil
	}
	if s.Prompter == nil || !s.Prompter.Enabled() {
		// no interactive channel: propose only, never execute
		return domain.DecisionProposed, interp, nil
	}

	var turnRejections []string
	for {
		decision, err := s.Prompter.Confirm(interp.Command, interp.Tier)
		if err != nil {
			return domain.DecisionProposed, interp, &domain.TurnError{
				Reason: domain.FailInvalidRequest, Detail: "confirmation aborted", Err: err,
			}
		}
		if decision != domain.DecisionRetry {
			return decision, interp, nil
		}

		// retries reject for this turn only; nothing is persisted unless an
		// execution later fails
		turnRejections = append(turnRejections, interp.Command)

		next, terr := s.reinterpret(ctx, text, turnRejections)
		if terr != nil {
			var te *domain.TurnError
			if errors.As(terr, &te) {
				return domain.DecisionProposed, interp, te
			}
			return domain.DecisionProposed, interp, &domain.TurnError{
				Reason: domain.FailGatewayUnavailable, Detail: terr.Error(), Err: terr,
			}
		}
		next = s.correct(next, workingDir, result)
		if berr := s.checkBlacklist(next); berr != nil {
			return domain.DecisionProposed, interp, berr
		}
		interp = s.interpretation(text, next, false)
		result.Interpretation = interp
	}
}

// reinterpret asks for a fresh command, tolerating a bounded number of
// duplicate proposals.
func (s *TurnService) reinterpret(ctx context.Context, text string, turnRejections []string) (string, error) {
	rejected := map[string]bool{}
	for _, cmd := range turnRejections {
		rejected[cmd] = true
	}

	attempts := turnRejections
	for extra := 0; ; extra++ {
		command, err := s.interpret(ctx, text, attempts)
		if err != nil {
			return "", err
		}
		if !rejected[command] {
			return command, nil
		}
		if extra == duplicateRetryBudget {
			return "", &domain.TurnError{
				Reason: domain.FailGatewayUnparsable,
				Detail: "completion service keeps proposing rejected commands",
			}
		}
		attempts = append(attempts, command)
	}
}

// execute folds a spawn failure into a synthetic outcome so the recorder
// treats it like any other failed run.
func (s *TurnService) execute(ctx context.Context, command string) domain.ExecutionOutcome {
	outcome, err := s.Executor.Execute(ctx, command)
	if err != nil {
		s.Logger.Error("command could not be started", err, map[string]interface{}{})
		outcome.Command = command
		outcome.ExitCode = 127
		if outcome.Stderr == "" {
			outcome.Stderr = err.Error()
		}
		if outcome.Timestamp.IsZero() {
			outcome.Timestamp = time.Now()
		}
	}
	return outcome
}

// recordOutcome applies the persistence rules: a clean exit stores the
// mapping and clears its rejections, a failed exit stores a rejection.
func (s *TurnService) recordOutcome(text, workingDir string, outcome domain.ExecutionOutcome, result *domain.TurnResult) {
	if !s.historyAvailable() {
		return
	}
	if outcome.Succeeded() {
		err := s.History.SaveCommand(domain.HistoryRecord{
			RequestText: text,
			Command:     outcome.Command,
			WorkingDir:  workingDir,
			ExitCode:    outcome.ExitCode,
			Timestamp:   outcome.Timestamp,
			Elapsed:     outcome.Elapsed,
		})
		if err != nil {
			s.disableHistory(err, result)
			return
		}
		if err := s.History.ClearRejections(text); err != nil {
			s.disableHistory(err, result)
		}
		return
	}
	s.recordRejection(text, outcome.Command, result)
}

func (s *TurnService) recordRejection(text, command string, result *domain.TurnResult) {
	if !s.historyAvailable() {
		return
	}
	err := s.History.RecordRejection(domain.RejectionRecord{
		RequestText: text,
		Command:     command,
		Timestamp:   time.Now(),
	})
	if err != nil {
		s.disableHistory(err, result)
	}
}

func (s *TurnService) historyAvailable() bool {
	return s.History != nil && !s.historyOff && s.History.Available()
}

func (s *TurnService) disableHistory(err error, result *domain.TurnResult) {
	s.historyOff = true
	result.Warnings = append(result.Warnings, "history disabled for this session: "+err.Error())
	s.Logger.Warn("history persistence failed", map[string]interface{}{
		"error": err.Error(),
	})
}

func (s *TurnService) suggestionLimit() int {
	if s.SuggestionLimit > 0 {
		return s.SuggestionLimit
	}
	return domain.DefaultSuggestionLimit
}
