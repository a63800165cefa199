package server

import (
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/anupamdhas/artha/internal/models"
	"github.com/anupamdhas/artha/internal/services/holdings"
)

// maxUploadBytes bounds a holdings CSV upload.
const maxUploadBytes = 4 << 20 // 4MB

// analyzeResponse is the holdings analysis envelope: the summary plus
// the aggregate parse error count, so partially invalid uploads are
// never silently accepted.
type analyzeResponse struct {
	*models.PortfolioSummary
	RejectedRows int               `json:"rejectedRows"`
	RowErrors    []models.RowError `json:"rowErrors,omitempty"`
}

// handleHoldingsAnalyze handles POST /api/holdings/analyze. The body is
// either a multipart form with a "file" part or a raw CSV body.
func (s *Server) handleHoldingsAnalyze(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	body, err := holdingsBody(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer body.Close()

	parsed, report, err := holdings.ParseCSV(body)
	if err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("Invalid holdings CSV: %v", err))
		return
	}

	summary, err := s.app.Holdings.Analyze(r.Context(), parsed)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Analysis error: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, analyzeResponse{
		PortfolioSummary: summary,
		RejectedRows:     len(report.Rejected),
		RowErrors:        report.Rejected,
	})
}

// holdingsBody extracts the CSV stream from the request, accepting
// either a multipart "file" part or the raw body.
func holdingsBody(r *http.Request) (io.ReadCloser, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return nil, fmt.Errorf("invalid multipart form: %w", err)
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, fmt.Errorf("missing holdings file part (key \"file\")")
		}
		return file, nil
	}

	if r.Body == nil {
		return nil, fmt.Errorf("request body is required")
	}
	return http.MaxBytesReader(nil, r.Body, maxUploadBytes), nil
}
