// Package app wires configuration, logging, storage and services into the
// shared core used by cmd/finmodel.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/finmodel/internal/common"
	"github.com/bobmcallan/finmodel/internal/interfaces"
	"github.com/bobmcallan/finmodel/internal/services/analysis"
	"github.com/bobmcallan/finmodel/internal/services/financials"
	"github.com/bobmcallan/finmodel/internal/storage"
)

// Options controls which parts of the App are initialised.
type Options struct {
	// ConfigPath may be empty, in which case the default resolution logic is used.
	ConfigPath string
	// WithStorage opens the configured record store. Commands that neither
	// read stored statements nor save runs leave it closed.
	WithStorage bool
}

// App holds the initialised services.
type App struct {
	Config            *common.Config
	Logger            *common.Logger
	Storage           interfaces.StorageManager
	FinancialsService interfaces.FinancialsService
	AnalysisService   interfaces.AnalysisService
	StartupTime       time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// ResolveConfigPath picks the config file: explicit path, FINMODEL_CONFIG,
// finmodel.toml next to the binary, then config/finmodel.toml.
func ResolveConfigPath(configPath string) string {
	if configPath != "" {
		return configPath
	}
	if env := os.Getenv("FINMODEL_CONFIG"); env != "" {
		return env
	}
	configPath = filepath.Join(getBinaryDir(), "finmodel.toml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		configPath = "config/finmodel.toml" // fallback for development
	}
	return configPath
}

// NewApp loads configuration and initialises logging, storage and services.
func NewApp(ctx context.Context, opts Options) (*App, error) {
	startupStart := time.Now()

	// Load version from .version file (fallback if ldflags not set)
	common.LoadVersionFromFile()

	configPath := ResolveConfigPath(opts.ConfigPath)
	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative badger path to binary directory
	if config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(getBinaryDir(), config.Storage.Path)
	}

	logger := common.NewLoggerFromConfig(config.Logging)
	return newApp(ctx, config, logger, opts.WithStorage, startupStart)
}

// NewAppWithConfig builds an App from an already loaded config.
func NewAppWithConfig(ctx context.Context, config *common.Config, logger *common.Logger, withStorage bool) (*App, error) {
	return newApp(ctx, config, logger, withStorage, time.Now())
}

func newApp(ctx context.Context, config *common.Config, logger *common.Logger, withStorage bool, started time.Time) (*App, error) {
	a := &App{
		Config:      config,
		Logger:      logger,
		StartupTime: started,
	}

	var analyses interfaces.AnalysisStore
	var statements interfaces.StatementStore
	if withStorage {
		storageManager, err := storage.NewManager(ctx, logger, config)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		a.Storage = storageManager
		analyses = storageManager.Analyses()
		statements = storageManager.Statements()
	}

	if statements != nil {
		a.FinancialsService = financials.NewService(statements, config.Estimation, logger)
	}
	a.AnalysisService = analysis.NewService(analyses, config, logger)

	logger.Debug().
		Bool("storage", withStorage).
		Dur("startup", time.Since(started)).
		Msg("App initialized")
	return a, nil
}

// Close releases all resources held by the App.
func (a *App) Close() {
	if a.Storage != nil {
		if err := a.Storage.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close storage")
		}
		a.Storage = nil
	}
}
