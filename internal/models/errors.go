package models

import (
	"errors"
	"fmt"
)

// ErrTickerNotFound reports a ticker the market data source cannot
// resolve. Callers downgrade it to a per-ticker flag, never a request
// failure.
var ErrTickerNotFound = errors.New("ticker not found")

// InvalidFilterError rejects an optimization request before any data is
// fetched.
type InvalidFilterError struct {
	Reason string
}

func (e *InvalidFilterError) Error() string {
	return "invalid filter: " + e.Reason
}

// InsufficientDataError aborts an optimization when fewer than two
// viable candidates remain after filtering degenerate series.
type InsufficientDataError struct {
	Viable int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: %d viable candidates, need at least %d", e.Viable, MinUniverseSize)
}

// SolverError reports non-convergence of the constrained weight search.
type SolverError struct {
	Objective Objective
	Detail    string
}

func (e *SolverError) Error() string {
	return fmt.Sprintf("solver failed for objective %q: %s", e.Objective, e.Detail)
}

// RowError is a CSV parse failure localized to one row.
type RowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Line, e.Reason)
}
