// Package optimizer selects a candidate universe from filters, solves
// for objective-optimal weights on the probability simplex, and reports
// performance metrics plus a benchmark comparison.
package optimizer

import (
	"context"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/anupamdhas/artha/internal/common"
	"github.com/anupamdhas/artha/internal/interfaces"
	"github.com/anupamdhas/artha/internal/models"
	"github.com/anupamdhas/artha/internal/services/marketdata"
	"github.com/anupamdhas/artha/internal/services/stats"
)

// Service is the portfolio optimizer.
type Service struct {
	client    interfaces.MarketDataClient
	reference interfaces.ReferenceStore
	config    *common.Config
	logger    *common.Logger
	now       func() time.Time
}

// NewService creates a portfolio optimizer.
func NewService(client interfaces.MarketDataClient, reference interfaces.ReferenceStore, config *common.Config, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{
		client:    client,
		reference: reference,
		config:    config,
		logger:    logger,
		now:       time.Now,
	}
}

// Optimize runs the full pipeline: validate the filter, select
// candidates, fetch histories, estimate mu and Sigma, solve for
// weights, and assemble metrics plus the benchmark comparison.
//
// The filter is validated before any fetch. Candidates come back in
// deterministic ticker order and are truncated to NumStocks; fewer
// available candidates reduce the universe rather than erroring.
// Candidates whose return series are degenerate are dropped; fewer than
// two survivors abort with InsufficientDataError.
func (s *Service) Optimize(ctx context.Context, filter models.UniverseFilter) (*models.AllocationResult, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	candidates := s.reference.Candidates(filter.Sectors, filter.AssetClasses)
	if len(candidates) > filter.NumStocks {
		candidates = candidates[:filter.NumStocks]
	}
	if len(candidates) < models.MinUniverseSize {
		return nil, &models.InsufficientDataError{Viable: len(candidates)}
	}

	now := s.now()
	window := marketdata.LookbackWindow(now, s.config.Market.LookbackYears)
	gateway := marketdata.NewGateway(s.client, s.logger)

	histories, failed := gateway.Histories(ctx, candidates, window)
	if len(failed) > 0 {
		s.logger.Warn().Strs("tickers", failed).Msg("Candidate histories unresolved")
	}

	returns := make(map[string]models.ReturnSeries, len(histories))
	for ticker, series := range histories {
		if r := stats.ToReturns(series); len(r) >= 2 {
			returns[ticker] = r
		}
	}

	aligned := stats.Align(returns)
	n := len(aligned.Tickers)
	if n < models.MinUniverseSize {
		return nil, &models.InsufficientDataError{Viable: n}
	}

	ppy := s.config.Market.PeriodsPerYear
	rf := s.config.Market.RiskFreeRate

	mu := aligned.Means()
	for i := range mu {
		mu[i] = stats.Annualize(mu[i], ppy)
	}
	sigma := aligned.Covariance(ppy)
	ridgeRegularize(sigma)

	weights, err := solveWeights(filter.Objective, mu, sigma, aligned.Returns, rf)
	if err != nil {
		return nil, err
	}

	result := &models.AllocationResult{
		SelectedStocks: aligned.Tickers,
		Weights:        make(map[string]float64, n),
		WeightTable:    make([]models.WeightRow, 0, n),
		Metrics:        s.metrics(weights, mu, sigma, rf),
	}
	for i, ticker := range aligned.Tickers {
		result.Weights[ticker] = weights[i]
		result.WeightTable = append(result.WeightTable, s.weightRow(ticker, weights[i]))
	}

	benchmark, benchErr := gateway.History(ctx, s.config.Market.Benchmark, window)
	if benchErr != nil {
		// Missing benchmark data propagates as nulls, not a failure.
		s.logger.Warn().Err(benchErr).Str("benchmark", s.config.Market.Benchmark).Msg("Benchmark series unavailable")
	}

	result.BenchmarkReturns = s.benchmarkReturns(aligned.Tickers, weights, histories, benchmark, now)
	result.ChartData = s.chartData(aligned, weights, benchmark, now)

	s.logger.Info().
		Str("objective", string(filter.Objective)).
		Int("universe", n).
		Float64("annualized_return", result.Metrics.AnnualizedReturn).
		Float64("annualized_volatility", result.Metrics.AnnualizedVolatility).
		Msg("Optimization complete")

	return result, nil
}

// metrics computes the realized metrics for the chosen weights:
// return w'mu, volatility sqrt(w'Sigma w), and the Sharpe ratio with a
// zero-volatility denominator defined to yield 0.
func (s *Service) metrics(weights, mu []float64, sigma *mat.SymDense, rf float64) models.AllocationMetrics {
	ret := dot(weights, mu)
	vol := math.Sqrt(quadForm(weights, sigma))
	sharpe := 0.0
	if vol > 0 {
		sharpe = (ret - rf) / vol
	}
	return models.AllocationMetrics{
		AnnualizedReturn:     ret,
		AnnualizedVolatility: vol,
		Sharpe:               sharpe,
	}
}

func (s *Service) weightRow(ticker string, weight float64) models.WeightRow {
	row := models.WeightRow{
		Ticker:     ticker,
		Symbol:     ticker,
		Sector:     models.UnknownCategory,
		AssetClass: models.UnknownCategory,
		Weight:     weight,
	}
	if rec, ok := s.reference.Record(ticker); ok {
		row.Symbol = rec.Symbol
		row.Sector = rec.Sector
		row.AssetClass = rec.AssetClass
	}
	return row
}

// benchmarkReturns compares the portfolio and benchmark trailing
// returns for every standard period. The portfolio period return is
// the weighted sum of each asset's period return; a period where any
// constituent (or the benchmark) lacks the window propagates nil.
func (s *Service) benchmarkReturns(tickers []string, weights []float64, histories map[string]models.PriceSeries, benchmark models.PriceSeries, now time.Time) map[string]models.PeriodComparison {
	comparisons := make(map[string]models.PeriodComparison, len(stats.Periods))

	for _, label := range stats.Periods {
		var portfolio *float64
		total := 0.0
		complete := true
		for i, ticker := range tickers {
			r := stats.PeriodReturn(histories[ticker], label, now)
			if r == nil {
				complete = false
				break
			}
			total += weights[i] * *r
		}
		if complete {
			v := total
			portfolio = &v
		}

		comparisons[label] = models.PeriodComparison{
			Portfolio: portfolio,
			Benchmark: stats.PeriodReturn(benchmark, label, now),
		}
	}

	return comparisons
}

// chartData builds the cumulative growth indexes of the portfolio and
// the benchmark, aligned on shared dates, sliced per period label.
func (s *Service) chartData(aligned stats.Aligned, weights []float64, benchmark models.PriceSeries, now time.Time) map[string]models.ChartSeries {
	benchReturns := stats.ToReturns(benchmark)
	benchByDate := make(map[int64]float64, len(benchReturns))
	for _, r := range benchReturns {
		benchByDate[r.Date.Unix()] = r.Value
	}

	// Intersect portfolio dates with benchmark dates so both indexes
	// cover the same path.
	var dates []time.Time
	var portReturns, benchPath []float64
	for i, d := range aligned.Dates {
		bench, ok := benchByDate[d.Unix()]
		if !ok {
			continue
		}
		dates = append(dates, d)
		portReturns = append(portReturns, dot(aligned.Returns.RawRowView(i), weights))
		benchPath = append(benchPath, bench)
	}
	if len(dates) < 2 {
		return map[string]models.ChartSeries{}
	}

	portIndex := stats.CumulativePath(portReturns)
	benchIndex := stats.CumulativePath(benchPath)

	charts := make(map[string]models.ChartSeries, len(stats.Periods))
	for _, label := range stats.Periods {
		start, ok := stats.PeriodStart(label, now)
		if !ok {
			continue
		}
		series := models.ChartSeries{}
		for i, d := range dates {
			if d.Before(start) {
				continue
			}
			series.Dates = append(series.Dates, d.Format("2006-01-02"))
			series.Portfolio = append(series.Portfolio, portIndex[i])
			series.Benchmark = append(series.Benchmark, benchIndex[i])
		}
		if len(series.Dates) >= 2 {
			charts[label] = series
		}
	}
	return charts
}

// Ensure Service implements PortfolioOptimizer
var _ interfaces.PortfolioOptimizer = (*Service)(nil)
