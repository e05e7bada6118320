// Package bootstrap wires configuration into the agent and its capabilities.
// Both binaries build their orchestrator here.
package bootstrap

import (
	"fmt"
	"log/slog"

	"wareongo/internal/agent"
	"wareongo/internal/config"
	"wareongo/internal/service"
	"wareongo/internal/session"
)

// AIClient returns the chat model client, or nil when no key is configured
func AIClient(cfg *config.Config, logger *slog.Logger) service.AIClient {
	if !cfg.OpenAI.Enabled {
		logger.Warn("OpenAI is disabled; using rule-based extraction and template questions",
			"hint", "set OPENAI_API_KEY to enable AI features")
		return nil
	}
	return service.NewOpenAIClient(&cfg.OpenAI, logger)
}

// NewOrchestrator builds the dialogue engine around searcher. A nil ai
// client gives the fully offline configuration.
func NewOrchestrator(
	cfg *config.Config,
	ai service.AIClient,
	searcher agent.Searcher,
	observer agent.Observer,
	logger *slog.Logger,
) *agent.Orchestrator {
	extractorClient := ai
	if cfg.Agent.RulesOnly {
		extractorClient = nil
	}

	opts := []agent.Option{
		agent.WithConfig(agent.Config{
			MaxDepth:      cfg.Agent.MaxDepth,
			MaxPages:      cfg.Agent.MaxPages,
			PageSize:      cfg.Search.PageSize,
			ContextWindow: cfg.Agent.ContextWindow,
		}),
		agent.WithLogger(logger),
		agent.WithObserver(observer),
	}
	if ai != nil && ai.IsEnabled() {
		opts = append(opts, agent.WithPhraser(service.NewPhraser(ai)))
	}

	return agent.New(
		service.NewIntentParser(extractorClient, logger),
		service.NewLocationService(ai, logger),
		searcher,
		opts...,
	)
}

// OpenSessionStore opens the store selected by cfg
func OpenSessionStore(cfg config.SessionConfig, logger *slog.Logger) (session.Store, error) {
	switch cfg.Store {
	case "", "memory":
		return session.NewMemoryStore(cfg.TTL), nil
	case "badger":
		return session.OpenBadgerStore(session.BadgerConfig{
			Path:           cfg.Path,
			TTL:            cfg.TTL,
			Logger:         logger,
			GCInterval:     cfg.TTL / 2,
			GCDiscardRatio: 0.5,
		})
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Store)
	}
}
