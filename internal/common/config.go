package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Artha
type Config struct {
	Environment string          `toml:"environment"`
	Server      ServerConfig    `toml:"server"`
	Clients     ClientsConfig   `toml:"clients"`
	Market      MarketConfig    `toml:"market"`
	Reference   ReferenceConfig `toml:"reference"`
	Logging     LoggingConfig   `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	EODHD EODHDConfig `toml:"eodhd"`
}

// EODHDConfig holds EODHD API configuration
type EODHDConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *EODHDConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// MarketConfig holds the statistical parameters of the analysis core.
type MarketConfig struct {
	Benchmark      string  `toml:"benchmark"`        // benchmark index ticker
	LookbackYears  int     `toml:"lookback_years"`   // history window for optimization
	PeriodsPerYear int     `toml:"periods_per_year"` // trading periods for annualization
	RiskFreeRate   float64 `toml:"risk_free_rate"`
}

// ReferenceConfig holds reference data configuration
type ReferenceConfig struct {
	UniverseCSV string `toml:"universe_csv"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `toml:"level"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Clients: ClientsConfig{
			EODHD: EODHDConfig{
				BaseURL:   "https://eodhd.com/api",
				RateLimit: 10,
				Timeout:   "30s",
			},
		},
		Market: MarketConfig{
			Benchmark:      "NSEI.INDX",
			LookbackYears:  1,
			PeriodsPerYear: 252,
			RiskFreeRate:   0.0,
		},
		Reference: ReferenceConfig{
			UniverseCSV: "data/nifty100.csv",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("ARTHA_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("ARTHA_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("ARTHA_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("ARTHA_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if csv := os.Getenv("ARTHA_UNIVERSE_CSV"); csv != "" {
		config.Reference.UniverseCSV = csv
	}

	if bench := os.Getenv("ARTHA_BENCHMARK"); bench != "" {
		config.Market.Benchmark = bench
	}

	if rf := os.Getenv("ARTHA_RISK_FREE_RATE"); rf != "" {
		if v, err := strconv.ParseFloat(rf, 64); err == nil {
			config.Market.RiskFreeRate = v
		}
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// ResolveAPIKey resolves an API key from environment variables with a
// config-file fallback.
func ResolveAPIKey(name string, fallback string) (string, error) {
	keyToEnvMapping := map[string][]string{
		"eodhd_api_key": {"EODHD_API_KEY", "ARTHA_EODHD_API_KEY"},
	}

	if envVarNames, ok := keyToEnvMapping[name]; ok {
		for _, envVarName := range envVarNames {
			if envValue := os.Getenv(envVarName); envValue != "" {
				return envValue, nil
			}
		}
	}

	if fallback != "" {
		return fallback, nil
	}

	return "", fmt.Errorf("API key '%s' not found in environment or config", name)
}
