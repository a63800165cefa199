package interfaces

import (
	"context"

	"github.com/anupamdhas/artha/internal/models"
)

// ReferenceStore maps tickers to the sector and asset-class taxonomy
// and enumerates the optimization universe. Lookup results are
// deterministic for identical reference data.
type ReferenceStore interface {
	// SectorOf returns the ticker's sector, or models.UnknownCategory.
	SectorOf(ticker string) string

	// AssetClassOf returns the ticker's asset class, or models.UnknownCategory.
	AssetClassOf(ticker string) string

	// AllSectors returns the known sectors, sorted and de-duplicated.
	AllSectors() []string

	// AllAssetClasses returns the known asset classes, sorted and de-duplicated.
	AllAssetClasses() []string

	// Candidates returns tickers whose sector AND asset class are both
	// selected, in ascending ticker order.
	Candidates(sectors, assetClasses []string) []string

	// Record returns the full universe row for a ticker.
	Record(ticker string) (models.UniverseRecord, bool)

	// Records returns all universe rows in ascending ticker order.
	Records() []models.UniverseRecord

	// Reload re-reads the universe file, returning the record count.
	Reload() (int, error)
}

// HoldingsAnalyzer values a set of holdings against live prices and
// summarizes performance.
type HoldingsAnalyzer interface {
	Analyze(ctx context.Context, holdings []models.Holding) (*models.PortfolioSummary, error)
}

// PortfolioOptimizer constructs an objective-optimal allocation over a
// filtered universe and compares it to the benchmark index.
type PortfolioOptimizer interface {
	Optimize(ctx context.Context, filter models.UniverseFilter) (*models.AllocationResult, error)

	// RenderComparisonChart renders the portfolio-vs-benchmark growth
	// chart for one period label as PNG bytes.
	RenderComparisonChart(result *models.AllocationResult, period string) ([]byte, error)
}
