package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pollinet/knowledgebot/db"
	"github.com/pollinet/knowledgebot/internal/config"
	"github.com/pollinet/knowledgebot/internal/log"
	"github.com/pollinet/knowledgebot/internal/provider"
	"github.com/pollinet/knowledgebot/internal/rag"
	"github.com/pollinet/knowledgebot/internal/store"
)

// app bundles the wired-up application: configuration, logger, database
// pool, and the RAG engine. Commands build it once via setup and tear it
// down with Close.
type app struct {
	cfg    *config.Config
	logger log.Logger
	pool   *pgxpool.Pool
	store  *store.Store
	engine *rag.Engine
}

// setup loads configuration, runs migrations, connects the pool, and wires
// the engine. Log level is controlled by the DEBUG environment variable.
func setup(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger := log.New(log.Config{Level: logLevel()})

	if err := db.Migrate(cfg.PostgresURL()); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	pool, err := store.NewPool(ctx, cfg.PostgresConnectionString())
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	st := store.New(pool, logger)

	providerCfg := provider.Config{
		APIKey:         cfg.OpenAIAPIKey,
		BaseURL:        cfg.OpenAIBaseURL,
		EmbeddingModel: cfg.EmbeddingModel,
		ChatModel:      cfg.ChatModel,
	}
	embedder, err := provider.NewEmbeddingClient(providerCfg)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating embedding client: %w", err)
	}
	chat, err := provider.NewChatClient(providerCfg)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating chat client: %w", err)
	}

	engine := rag.NewEngine(embedder, chat, st, rag.Options{
		TopK:              cfg.TopK,
		ChunkSize:         cfg.ChunkSize,
		ChunkOverlap:      cfg.ChunkOverlap,
		MaxHistory:        cfg.MaxHistory,
		MaxFallbackChunks: cfg.MaxFallbackChunks,
	}, logger)

	return &app{
		cfg:    cfg,
		logger: logger,
		pool:   pool,
		store:  st,
		engine: engine,
	}, nil
}

// Close releases the application's resources.
func (a *app) Close() {
	a.pool.Close()
}

// logLevel maps the DEBUG environment variable to a log level.
func logLevel() slog.Level {
	if os.Getenv("DEBUG") != "" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
