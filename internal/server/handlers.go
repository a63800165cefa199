package server

import (
	"net/http"
	"time"

	"github.com/anupamdhas/artha/internal/common"
)

// handleHealth handles GET /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.app.StartupTime).Round(time.Second).String(),
	})
}

// handleVersion handles GET /api/version.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// handleConfig handles GET /api/config. Secrets are masked.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	cfg := s.app.Config
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"environment": cfg.Environment,
		"server": map[string]interface{}{
			"host": cfg.Server.Host,
			"port": cfg.Server.Port,
		},
		"clients": map[string]interface{}{
			"eodhd": map[string]interface{}{
				"base_url":   cfg.Clients.EODHD.BaseURL,
				"api_key":    maskSecret(cfg.Clients.EODHD.APIKey),
				"rate_limit": cfg.Clients.EODHD.RateLimit,
				"timeout":    cfg.Clients.EODHD.Timeout,
			},
		},
		"market": map[string]interface{}{
			"benchmark":        cfg.Market.Benchmark,
			"lookback_years":   cfg.Market.LookbackYears,
			"periods_per_year": cfg.Market.PeriodsPerYear,
			"risk_free_rate":   cfg.Market.RiskFreeRate,
		},
		"reference": map[string]interface{}{
			"universe_csv": cfg.Reference.UniverseCSV,
		},
		"logging": map[string]interface{}{
			"level": cfg.Logging.Level,
		},
	})
}

func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:4] + "****"
}
