package server

import (
	"fmt"
	"net/http"
)

// handleSectors handles GET /api/sectors.
func (s *Server) handleSectors(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, s.app.Reference.AllSectors())
}

// handleAssetClasses handles GET /api/asset-classes.
func (s *Server) handleAssetClasses(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, s.app.Reference.AllAssetClasses())
}

// handleTickers handles GET /api/tickers.
func (s *Server) handleTickers(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, s.app.Reference.Records())
}

// handleReferenceReload handles POST /api/reference/reload.
func (s *Server) handleReferenceReload(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	loaded, err := s.app.Reference.Reload()
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Reload failed: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"loaded": loaded,
	})
}
