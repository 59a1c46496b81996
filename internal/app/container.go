package app

import (
	"context"

	"github.com/google/uuid"

	"github.com/haunted-sh/haunted/internal/infrastructure"
	"github.com/haunted-sh/haunted/internal/infrastructure/blacklist"
	"github.com/haunted-sh/haunted/internal/infrastructure/config"
	"github.com/haunted-sh/haunted/internal/infrastructure/gateway"
	"github.com/haunted-sh/haunted/internal/infrastructure/history"
	"github.com/haunted-sh/haunted/internal/infrastructure/knowledge"
	"github.com/haunted-sh/haunted/internal/infrastructure/safety"
	"github.com/haunted-sh/haunted/internal/pkg/logger"
	"github.com/haunted-sh/haunted/internal/ports"
	"github.com/haunted-sh/haunted/internal/services"
)

// Container wires application services with infrastructure adapters.
type Container struct {
	TurnService *services.TurnService
	Ranker      *services.SuggestionRanker
	History     ports.HistoryRepository
	Knowledge   ports.KnowledgeBase
	Blacklist   ports.Blacklist
	SessionID   string
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, verbose bool) (*Container, error) {
	cfgLoader := config.NewFileLoader("")
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	sessionID := uuid.NewString()
	log := logger.NewStd(verbose, sessionID)
	log.Info("session started", nil)

	gw, err := gateway.NewClient(cfg.Model)
	if err != nil {
		return nil, err
	}

	classifier, err := safety.NewClassifier(cfg.Safety.RulesFile)
	if err != nil {
		// a broken user rules file must not brick the tool
		log.Warn("safety rules unusable, using defaults", map[string]interface{}{"error": err.Error()})
		classifier, err = safety.NewClassifier("/nonexistent")
		if err != nil {
			return nil, err
		}
	}

	kb, err := knowledge.NewStore(cfg.Knowledge.Path)
	if err != nil {
		return nil, err
	}
	bl, err := blacklist.NewList(cfg.Safety.Blacklist)
	if err != nil {
		return nil, err
	}

	var historyStore ports.HistoryRepository = history.Disabled()
	if cfg.History.Enabled {
		historyStore = history.NewSQLiteStore(cfg.History.Path)
	}

	ranker := &services.SuggestionRanker{History: historyStore}

	turnService := &services.TurnService{
		Gateway:         gw,
		Classifier:      classifier,
		Executor:        infrastructure.NewLocalExecutor(cfg.Execution.Shell),
		History:         historyStore,
		Knowledge:       kb,
		Blacklist:       bl,
		Corrector:       infrastructure.NewFuzzyCorrector(0),
		Ranker:          ranker,
		Logger:          log,
		AutoExecuteSafe: cfg.Execution.AutoExecuteSafe,
		SuggestionLimit: cfg.History.SuggestionLimit,
	}

	return &Container{
		TurnService: turnService,
		Ranker:      ranker,
		History:     historyStore,
		Knowledge:   kb,
		Blacklist:   bl,
		SessionID:   sessionID,
	}, nil
}
