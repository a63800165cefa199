// Package holdings implements the holdings analyzer: CSV parsing of
// user positions and valuation against live market prices.
package holdings

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/anupamdhas/artha/internal/models"
)

// ParseReport aggregates per-row parse failures for one upload. Bad
// rows are rejected individually and recorded here, never silently
// dropped.
type ParseReport struct {
	TotalRows int               `json:"total_rows"`
	Rejected  []models.RowError `json:"rejected"`
}

var expectedHeader = []string{"Ticker", "EntryDate", "EntryPrice", "Quantity"}

// ParseCSV parses a holdings upload. The header row is required, with
// columns Ticker, EntryDate, EntryPrice, Quantity in order. EntryDate
// is YYYY-MM-DD; price and quantity must be positive decimals. An
// upload where every row fails returns an error.
func ParseCSV(r io.Reader) ([]models.Holding, *ParseReport, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("missing header row: %w", err)
	}
	if !isHeader(header) {
		return nil, nil, fmt.Errorf("header row must name columns %s", strings.Join(expectedHeader, ", "))
	}

	report := &ParseReport{Rejected: []models.RowError{}}
	var holdings []models.Holding

	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			report.TotalRows++
			report.Rejected = append(report.Rejected, models.RowError{Line: line, Reason: err.Error()})
			continue
		}
		if isBlank(row) {
			continue
		}

		report.TotalRows++
		holding, rowErr := parseRow(row, line)
		if rowErr != nil {
			report.Rejected = append(report.Rejected, *rowErr)
			continue
		}
		holdings = append(holdings, holding)
	}

	if len(holdings) == 0 && report.TotalRows > 0 {
		return nil, report, fmt.Errorf("no valid holdings: all %d rows failed to parse", report.TotalRows)
	}

	return holdings, report, nil
}

func isHeader(row []string) bool {
	if len(row) < 4 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(row[0]))
	return first == "ticker" || first == "symbol"
}

func isBlank(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func parseRow(row []string, line int) (models.Holding, *models.RowError) {
	fail := func(format string, args ...interface{}) (models.Holding, *models.RowError) {
		return models.Holding{}, &models.RowError{Line: line, Reason: fmt.Sprintf(format, args...)}
	}

	if len(row) < 4 {
		return fail("expected 4 columns, got %d", len(row))
	}

	ticker := strings.ToUpper(strings.TrimSpace(row[0]))
	if ticker == "" {
		return fail("ticker is empty")
	}

	entryDate, err := time.Parse("2006-01-02", strings.TrimSpace(row[1]))
	if err != nil {
		return fail("malformed entry date %q, want YYYY-MM-DD", strings.TrimSpace(row[1]))
	}

	entryPrice, err := decimal.NewFromString(strings.TrimSpace(row[2]))
	if err != nil {
		return fail("entry price %q is not numeric", strings.TrimSpace(row[2]))
	}
	if !entryPrice.IsPositive() {
		return fail("entry price must be positive, got %s", entryPrice)
	}

	quantity, err := decimal.NewFromString(strings.TrimSpace(row[3]))
	if err != nil {
		return fail("quantity %q is not numeric", strings.TrimSpace(row[3]))
	}
	if !quantity.IsPositive() {
		return fail("quantity must be positive, got %s", quantity)
	}

	return models.Holding{
		Ticker:     ticker,
		EntryDate:  entryDate,
		EntryPrice: entryPrice.InexactFloat64(),
		Quantity:   quantity.InexactFloat64(),
	}, nil
}
