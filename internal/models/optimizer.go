package models

// WeightRow is one allocation entry enriched with reference data.
type WeightRow struct {
	Ticker     string  `json:"ticker"`
	Symbol     string  `json:"symbol"`
	Sector     string  `json:"sector"`
	AssetClass string  `json:"asset_class"`
	Weight     float64 `json:"weight"`
}

// AllocationMetrics are the realized metrics for the chosen weights.
type AllocationMetrics struct {
	AnnualizedReturn     float64 `json:"annualized_return"`
	AnnualizedVolatility float64 `json:"annualized_volatility"`
	Sharpe               float64 `json:"sharpe"`
}

// PeriodComparison pairs the portfolio and benchmark trailing returns for
// one period label. Nil means the window had insufficient data and is
// serialized as JSON null, never zero.
type PeriodComparison struct {
	Portfolio *float64 `json:"Portfolio"`
	Benchmark *float64 `json:"Nifty"`
}

// ChartSeries holds the aligned cumulative growth indexes for one period,
// used by the comparison chart renderer.
type ChartSeries struct {
	Dates     []string  `json:"dates"`
	Portfolio []float64 `json:"portfolio"`
	Benchmark []float64 `json:"nifty"`
}

// AllocationResult is the output of the portfolio optimizer.
type AllocationResult struct {
	SelectedStocks   []string                    `json:"selected_stocks"`
	Weights          map[string]float64          `json:"weights"`
	WeightTable      []WeightRow                 `json:"weight_table"`
	Metrics          AllocationMetrics           `json:"metrics"`
	BenchmarkReturns map[string]PeriodComparison `json:"benchmark_returns"`
	ChartData        map[string]ChartSeries      `json:"chart_data"`
}
