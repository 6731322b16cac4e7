package commands

import (
	"context"
	"fmt"

	"github.com/fatali-fataliyev/budget_assistant/internal/assistant"
	"github.com/fatali-fataliyev/budget_assistant/internal/config"
	"github.com/fatali-fataliyev/budget_assistant/internal/history"
	"github.com/fatali-fataliyev/budget_assistant/internal/storage"
	"github.com/fatali-fataliyev/budget_assistant/logging"
)

type app struct {
	cfg      *config.Config
	store    storage.Storage
	history  history.Store
	sessions *assistant.Manager
}

// newApp loads configuration and wires logging, storage, history and the
// assistant pipeline.
func newApp(ctx context.Context, envFile string) (*app, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := logging.Init(cfg.LogLevel, cfg.AppEnv, cfg.LogDir); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	rules, err := assistant.LoadRules(cfg.RulesPath)
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	var hist history.Store
	if cfg.HistoryPath != "" {
		hist, err = history.OpenBolt(cfg.HistoryPath)
		if err != nil {
			store.Close()
			return nil, err
		}
	} else {
		hist = history.NewMemoryStore()
	}

	exec := assistant.NewExecutor(store, store, store)
	a := assistant.NewAssistant(rules, exec, store, hist, logging.Component("assistant"))

	return &app{
		cfg:      cfg,
		store:    store,
		history:  hist,
		sessions: assistant.NewManager(a, assistant.WithIdleTimeout(cfg.SessionIdle)),
	}, nil
}

func (a *app) Close() {
	if err := a.history.Close(); err != nil {
		logging.Logger.Errorf("failed to close history: %v", err)
	}
	if err := a.store.Close(); err != nil {
		logging.Logger.Errorf("failed to close storage: %v", err)
	}
}
