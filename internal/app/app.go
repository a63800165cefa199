// Package app wires configuration, clients, and services into the
// runnable analysis core shared by cmd/artha-server.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/anupamdhas/artha/internal/clients/eodhd"
	"github.com/anupamdhas/artha/internal/common"
	"github.com/anupamdhas/artha/internal/interfaces"
	"github.com/anupamdhas/artha/internal/services/holdings"
	"github.com/anupamdhas/artha/internal/services/optimizer"
	"github.com/anupamdhas/artha/internal/services/refdata"
)

// App holds all initialized clients and services.
type App struct {
	Config       *common.Config
	Logger       *common.Logger
	MarketClient interfaces.MarketDataClient
	Reference    interfaces.ReferenceStore
	Holdings     interfaces.HoldingsAnalyzer
	Optimizer    interfaces.PortfolioOptimizer
	StartupTime  time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, clients, and services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	// Load version from .version file (fallback if ldflags not set)
	common.LoadVersionFromFile()

	binDir := getBinaryDir()

	// Load configuration - check provided path, ARTHA_CONFIG, then binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("ARTHA_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "artha.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/artha.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLogger(config.Logging.Level)

	apiKey, err := common.ResolveAPIKey("eodhd_api_key", config.Clients.EODHD.APIKey)
	if err != nil {
		logger.Warn().Msg("EODHD API key not configured - live price resolution will fail")
	}

	client := eodhd.NewClient(apiKey,
		eodhd.WithBaseURL(config.Clients.EODHD.BaseURL),
		eodhd.WithLogger(logger),
		eodhd.WithRateLimit(config.Clients.EODHD.RateLimit),
		eodhd.WithTimeout(config.Clients.EODHD.GetTimeout()),
	)

	reference, err := refdata.NewStore(config.Reference.UniverseCSV, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load reference data: %w", err)
	}

	a := &App{
		Config:       config,
		Logger:       logger,
		MarketClient: client,
		Reference:    reference,
		Holdings:     holdings.NewAnalyzer(client, reference, logger),
		Optimizer:    optimizer.NewService(client, reference, config, logger),
		StartupTime:  time.Now(),
	}

	logger.Info().
		Str("environment", config.Environment).
		Str("universe", config.Reference.UniverseCSV).
		Str("benchmark", config.Market.Benchmark).
		Msg("Application initialized")

	return a, nil
}

// Close releases application resources.
func (a *App) Close() {
	a.Logger.Debug().Msg("Application closed")
}
