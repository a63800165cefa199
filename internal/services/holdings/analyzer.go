package holdings

import (
	"context"
	"sort"

	"github.com/anupamdhas/artha/internal/common"
	"github.com/anupamdhas/artha/internal/interfaces"
	"github.com/anupamdhas/artha/internal/models"
	"github.com/anupamdhas/artha/internal/services/marketdata"
)

// rankingSize bounds the top gainers/losers lists.
const rankingSize = 5

// Analyzer values holdings against live prices and summarizes
// performance. Price resolution goes through a fresh request-scoped
// gateway on every call.
type Analyzer struct {
	client    interfaces.MarketDataClient
	reference interfaces.ReferenceStore
	logger    *common.Logger
}

// NewAnalyzer creates a holdings analyzer.
func NewAnalyzer(client interfaces.MarketDataClient, reference interfaces.ReferenceStore, logger *common.Logger) *Analyzer {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Analyzer{client: client, reference: reference, logger: logger}
}

// Analyze computes per-holding and aggregate P&L, rankings, and
// allocation breakdowns. A ticker whose price cannot be resolved falls
// back to its entry price (flat apparent gain) and remains in the
// table; it is only flagged unmapped when its sector is also unknown.
// An empty holdings list yields an all-zero summary, no error.
func (a *Analyzer) Analyze(ctx context.Context, holdings []models.Holding) (*models.PortfolioSummary, error) {
	summary := models.NewEmptySummary()
	summary.TotalHoldings = len(holdings)
	if len(holdings) == 0 {
		return summary, nil
	}

	tickers := make([]string, 0, len(holdings))
	for _, h := range holdings {
		tickers = append(tickers, h.Ticker)
	}

	gateway := marketdata.NewGateway(a.client, a.logger)
	prices, failed := gateway.CurrentPrices(ctx, tickers)
	summary.PricesFetched = len(prices)
	if len(failed) > 0 {
		a.logger.Warn().Int("count", len(failed)).Strs("tickers", failed).Msg("Prices unresolved, falling back to entry prices")
	}

	unmapped := make(map[string]struct{})
	details := make([]models.HoldingDetail, 0, len(holdings))

	for _, h := range holdings {
		currentPrice, ok := prices[h.Ticker]
		if !ok {
			currentPrice = h.EntryPrice
		}

		sector := a.reference.SectorOf(h.Ticker)
		assetClass := a.reference.AssetClassOf(h.Ticker)
		if sector == models.UnknownCategory {
			unmapped[h.Ticker] = struct{}{}
		}

		invested := h.EntryPrice * h.Quantity
		currentValue := currentPrice * h.Quantity
		gainLossPct := 0.0
		if h.EntryPrice > 0 {
			gainLossPct = currentPrice/h.EntryPrice - 1
		}

		details = append(details, models.HoldingDetail{
			Ticker:         h.Ticker,
			Quantity:       h.Quantity,
			EntryPrice:     h.EntryPrice,
			CurrentPrice:   currentPrice,
			InvestedAmount: invested,
			CurrentValue:   currentValue,
			GainLoss:       currentValue - invested,
			GainLossPct:    gainLossPct,
			Sector:         sector,
			AssetClass:     assetClass,
		})

		summary.TotalInvested += invested
		summary.PortfolioValue += currentValue
	}

	summary.TotalGainLoss = summary.PortfolioValue - summary.TotalInvested
	if summary.TotalInvested > 0 {
		summary.TotalReturn = summary.TotalGainLoss / summary.TotalInvested
	}

	summary.PortfolioDetails = details
	summary.TopGainers = rank(details, false)
	summary.TopLosers = rank(details, true)

	for _, d := range details {
		if summary.PortfolioValue <= 0 {
			break
		}
		weight := d.CurrentValue / summary.PortfolioValue
		summary.SectorExposure[d.Sector] += weight
		summary.AssetAllocation[d.AssetClass] += weight
	}

	for t := range unmapped {
		summary.UnmappedTickers = append(summary.UnmappedTickers, t)
	}
	sort.Strings(summary.UnmappedTickers)

	return summary, nil
}

// rank sorts by per-holding return, descending for gainers and
// ascending for losers, ties broken by ticker ascending, and takes the
// top entries.
func rank(details []models.HoldingDetail, ascending bool) []models.RankedHolding {
	sorted := make([]models.HoldingDetail, len(details))
	copy(sorted, details)

	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].GainLossPct != sorted[j].GainLossPct {
			if ascending {
				return sorted[i].GainLossPct < sorted[j].GainLossPct
			}
			return sorted[i].GainLossPct > sorted[j].GainLossPct
		}
		return sorted[i].Ticker < sorted[j].Ticker
	})

	if len(sorted) > rankingSize {
		sorted = sorted[:rankingSize]
	}

	ranked := make([]models.RankedHolding, len(sorted))
	for i, d := range sorted {
		ranked[i] = models.RankedHolding{Ticker: d.Ticker, GainLossPct: d.GainLossPct}
	}
	return ranked
}

// Ensure Analyzer implements HoldingsAnalyzer
var _ interfaces.HoldingsAnalyzer = (*Analyzer)(nil)
