// Package marketdata implements the market data gateway: batched,
// request-scoped price resolution over the live price client. A Gateway
// is constructed per request and discarded with it, so cached fetches
// never leak across unrelated requests.
package marketdata

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/anupamdhas/artha/internal/common"
	"github.com/anupamdhas/artha/internal/interfaces"
	"github.com/anupamdhas/artha/internal/models"
)

// historyConcurrency bounds parallel EOD fetches within one request.
const historyConcurrency = 5

// Window is the trailing span of history to fetch.
type Window struct {
	From time.Time
	To   time.Time
}

// LookbackWindow returns the trailing window of the given number of
// years ending at now.
func LookbackWindow(now time.Time, years int) Window {
	if years < 1 {
		years = 1
	}
	return Window{From: now.AddDate(-years, 0, 0), To: now}
}

// Gateway deduplicates price and history fetches for the lifetime of
// one request. Failures are recorded per ticker and reported as data,
// never as an error for the batch.
type Gateway struct {
	client interfaces.MarketDataClient
	logger *common.Logger

	mu            sync.Mutex
	prices        map[string]float64
	priceMisses   map[string]struct{}
	history       map[string]models.PriceSeries
	historyMisses map[string]struct{}
}

// NewGateway creates a gateway scoped to a single request.
func NewGateway(client interfaces.MarketDataClient, logger *common.Logger) *Gateway {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Gateway{
		client:        client,
		logger:        logger,
		prices:        make(map[string]float64),
		priceMisses:   make(map[string]struct{}),
		history:       make(map[string]models.PriceSeries),
		historyMisses: make(map[string]struct{}),
	}
}

// normalize uppercases and de-duplicates tickers, preserving ascending order.
func normalize(tickers []string) []string {
	seen := make(map[string]struct{}, len(tickers))
	out := make([]string, 0, len(tickers))
	for _, t := range tickers {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// CurrentPrices resolves the latest price for every distinct ticker in
// one batched call. The returned map holds resolved prices; failed
// holds the tickers that could not be resolved, sorted ascending.
func (g *Gateway) CurrentPrices(ctx context.Context, tickers []string) (map[string]float64, []string) {
	wanted := normalize(tickers)

	g.mu.Lock()
	var missing []string
	for _, t := range wanted {
		_, cached := g.prices[t]
		_, missed := g.priceMisses[t]
		if !cached && !missed {
			missing = append(missing, t)
		}
	}
	g.mu.Unlock()

	if len(missing) > 0 {
		quotes, err := g.client.GetRealTimeQuotes(ctx, missing)
		g.mu.Lock()
		if err != nil {
			g.logger.Warn().Err(err).Int("tickers", len(missing)).Msg("Batched quote fetch failed")
			for _, t := range missing {
				g.priceMisses[t] = struct{}{}
			}
		} else {
			for _, q := range quotes {
				code := strings.ToUpper(q.Code)
				if q.Close > 0 {
					g.prices[code] = q.Close
				}
			}
			for _, t := range missing {
				if _, ok := g.prices[t]; !ok {
					g.priceMisses[t] = struct{}{}
				}
			}
		}
		g.mu.Unlock()
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	resolved := make(map[string]float64, len(wanted))
	var failed []string
	for _, t := range wanted {
		if p, ok := g.prices[t]; ok {
			resolved[t] = p
		} else {
			failed = append(failed, t)
		}
	}
	return resolved, failed
}

// History resolves the price series for one ticker over the window,
// hitting the request-scoped cache on repeated calls.
func (g *Gateway) History(ctx context.Context, ticker string, w Window) (models.PriceSeries, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	g.mu.Lock()
	if series, ok := g.history[ticker]; ok {
		g.mu.Unlock()
		return series, nil
	}
	if _, missed := g.historyMisses[ticker]; missed {
		g.mu.Unlock()
		return nil, models.ErrTickerNotFound
	}
	g.mu.Unlock()

	series, err := g.client.GetEOD(ctx, ticker,
		interfaces.WithDateRange(w.From, w.To),
		interfaces.WithOrder("a"),
	)

	g.mu.Lock()
	defer g.mu.Unlock()
	if err != nil || len(series) == 0 {
		if err != nil {
			g.logger.Warn().Err(err).Str("ticker", ticker).Msg("History fetch failed")
		}
		g.historyMisses[ticker] = struct{}{}
		return nil, models.ErrTickerNotFound
	}

	g.history[ticker] = series
	return series, nil
}

// Histories resolves price series for a set of tickers over the window,
// fetching in parallel under a bounded semaphore. Unresolved tickers
// are returned sorted in failed; they never abort the batch.
func (g *Gateway) Histories(ctx context.Context, tickers []string, w Window) (map[string]models.PriceSeries, []string) {
	wanted := normalize(tickers)

	sem := make(chan struct{}, historyConcurrency)
	var wg sync.WaitGroup
	for _, ticker := range wanted {
		wg.Add(1)
		go func(t string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			g.History(ctx, t, w) // outcome lands in the shared cache either way
		}(ticker)
	}
	wg.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()
	resolved := make(map[string]models.PriceSeries, len(wanted))
	var failed []string
	for _, t := range wanted {
		if series, ok := g.history[t]; ok {
			resolved[t] = series
		} else {
			failed = append(failed, t)
		}
	}
	return resolved, failed
}
