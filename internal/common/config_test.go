package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "NSEI.INDX", cfg.Market.Benchmark)
	assert.Equal(t, 252, cfg.Market.PeriodsPerYear)
	assert.Equal(t, 1, cfg.Market.LookbackYears)
	assert.Equal(t, "data/nifty100.csv", cfg.Reference.UniverseCSV)
	assert.Equal(t, 30*time.Second, cfg.Clients.EODHD.GetTimeout())
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfig_MergesFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artha.toml")
	content := `
environment = "production"

[server]
port = 9090

[market]
benchmark = "GSPC.INDX"
risk_free_rate = 0.04

[clients.eodhd]
timeout = "5s"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host, "unset keys keep defaults")
	assert.Equal(t, "GSPC.INDX", cfg.Market.Benchmark)
	assert.Equal(t, 0.04, cfg.Market.RiskFreeRate)
	assert.Equal(t, 252, cfg.Market.PeriodsPerYear)
	assert.Equal(t, 5*time.Second, cfg.Clients.EODHD.GetTimeout())
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/artha.toml")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artha.toml")
	require.NoError(t, os.WriteFile(path, []byte("not [valid toml"), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("ARTHA_ENV", "prod")
	t.Setenv("ARTHA_PORT", "7000")
	t.Setenv("ARTHA_BENCHMARK", "BSE.INDX")
	t.Setenv("ARTHA_RISK_FREE_RATE", "0.065")
	t.Setenv("ARTHA_UNIVERSE_CSV", "/tmp/universe.csv")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Environment)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "BSE.INDX", cfg.Market.Benchmark)
	assert.Equal(t, 0.065, cfg.Market.RiskFreeRate)
	assert.Equal(t, "/tmp/universe.csv", cfg.Reference.UniverseCSV)
}

func TestGetTimeout_Invalid(t *testing.T) {
	c := EODHDConfig{Timeout: "soon"}
	assert.Equal(t, 30*time.Second, c.GetTimeout())
}

func TestResolveAPIKey(t *testing.T) {
	t.Setenv("EODHD_API_KEY", "")
	t.Setenv("ARTHA_EODHD_API_KEY", "")

	_, err := ResolveAPIKey("eodhd_api_key", "")
	require.Error(t, err)

	key, err := ResolveAPIKey("eodhd_api_key", "from-config")
	require.NoError(t, err)
	assert.Equal(t, "from-config", key)

	t.Setenv("EODHD_API_KEY", "from-env")
	key, err = ResolveAPIKey("eodhd_api_key", "from-config")
	require.NoError(t, err)
	assert.Equal(t, "from-env", key, "environment wins over config")
}
