package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/d-okonkwo/fridgewise/internal/config"
	"github.com/d-okonkwo/fridgewise/internal/logging"
	"github.com/d-okonkwo/fridgewise/internal/recipes"
	"github.com/d-okonkwo/fridgewise/internal/storage"
)

// App wires the application components together. Everything is constructed
// explicitly here and passed down by value; no package-level singletons.
type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	DB      *storage.DB
	Client  *recipes.Client
	Recipes *recipes.Service
}

// NewApp initializes and returns a new App instance.
func NewApp() (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.NewLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := storage.NewDB(cfg.DBPath)
	if err != nil {
		logger.Error("Failed to initialize database", zap.Error(err))
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	client := recipes.NewClient(cfg, logger)
	service := recipes.NewService(db, client, cfg, logger)

	return &App{
		Config:  cfg,
		Logger:  logger,
		DB:      db,
		Client:  client,
		Recipes: service,
	}, nil
}

// Close gracefully shuts down the application resources.
func (a *App) Close() {
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Logger.Error("Failed to close database connection", zap.Error(err))
		}
	}
	if a.Logger != nil {
		// Sync failures on stderr are expected on some platforms.
		_ = a.Logger.Sync()
	}
}

// ContextWithLogger returns a new context with the application's logger.
func (a *App) ContextWithLogger(ctx context.Context) context.Context {
	return logging.ContextWithLogger(ctx, a.Logger)
}
