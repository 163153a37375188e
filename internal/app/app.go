// Package app wires configuration, logging, storage, and services together.
package app

import (
	"fmt"

	"github.com/bobmccarthy/chainfolio/internal/common"
	"github.com/bobmccarthy/chainfolio/internal/interfaces"
	"github.com/bobmccarthy/chainfolio/internal/services/positions"
	"github.com/bobmccarthy/chainfolio/internal/storage"
)

// App holds the application's long-lived components.
type App struct {
	Config    *common.Config
	Logger    *common.Logger
	Storage   interfaces.StorageManager
	Positions interfaces.PositionService
}

// NewApp initializes the application from an optional config file path.
func NewApp(configPath string) (*App, error) {
	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLogger(config.Logging.Level)

	store, err := storage.NewManager(logger, &config.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	resolver := positions.NewMapResolver(config.Tokens)
	positionService := positions.NewService(resolver, logger)

	logger.Info().
		Str("environment", config.Environment).
		Str("data", config.Storage.Path).
		Int("tokens", len(config.Tokens)).
		Msg("Application initialized")

	return &App{
		Config:    config,
		Logger:    logger,
		Storage:   store,
		Positions: positionService,
	}, nil
}

// Close releases application resources.
func (a *App) Close() {
	if err := a.Storage.Close(); err != nil {
		a.Logger.Error().Err(err).Msg("Failed to close storage")
	}
}
