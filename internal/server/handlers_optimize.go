package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/anupamdhas/artha/internal/models"
)

// handleOptimize handles POST /api/optimize.
func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var filter models.UniverseFilter
	if !DecodeJSON(w, r, &filter) {
		return
	}

	result, err := s.app.Optimizer.Optimize(r.Context(), filter)
	if err != nil {
		writeOptimizeError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

// handleOptimizeChart handles POST /api/optimize/chart. The period
// label defaults to 1Y and is selected via the "period" query parameter.
func (s *Server) handleOptimizeChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	period := r.URL.Query().Get("period")
	if period == "" {
		period = "1Y"
	}

	var filter models.UniverseFilter
	if !DecodeJSON(w, r, &filter) {
		return
	}

	result, err := s.app.Optimizer.Optimize(r.Context(), filter)
	if err != nil {
		writeOptimizeError(w, err)
		return
	}

	png, err := s.app.Optimizer.RenderComparisonChart(result, period)
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, fmt.Sprintf("Chart error: %v", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// writeOptimizeError maps the optimizer error taxonomy to HTTP statuses.
func writeOptimizeError(w http.ResponseWriter, err error) {
	var invalidFilter *models.InvalidFilterError
	var insufficient *models.InsufficientDataError
	var solver *models.SolverError

	switch {
	case errors.As(err, &invalidFilter):
		WriteErrorWithCode(w, http.StatusBadRequest, invalidFilter.Error(), "invalid_filter")
	case errors.As(err, &insufficient):
		WriteErrorWithCode(w, http.StatusUnprocessableEntity, insufficient.Error(), "insufficient_data")
	case errors.As(err, &solver):
		WriteErrorWithCode(w, http.StatusInternalServerError, solver.Error(), "solver_failed")
	default:
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Optimization error: %v", err))
	}
}
