package marketdata

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anupamdhas/artha/internal/interfaces"
	"github.com/anupamdhas/artha/internal/models"
)

// fakeClient is a scriptable MarketDataClient that counts calls.
type fakeClient struct {
	mu           sync.Mutex
	prices       map[string]float64
	histories    map[string]models.PriceSeries
	quoteCalls   int
	historyCalls int
}

func (f *fakeClient) GetRealTimeQuote(ctx context.Context, ticker string) (*models.Quote, error) {
	quotes, err := f.GetRealTimeQuotes(ctx, []string{ticker})
	if err != nil || len(quotes) == 0 {
		return nil, models.ErrTickerNotFound
	}
	return quotes[0], nil
}

func (f *fakeClient) GetRealTimeQuotes(ctx context.Context, tickers []string) ([]*models.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quoteCalls++
	var quotes []*models.Quote
	for _, t := range tickers {
		if p, ok := f.prices[t]; ok {
			quotes = append(quotes, &models.Quote{Code: t, Close: p, Timestamp: time.Now()})
		}
	}
	return quotes, nil
}

func (f *fakeClient) GetEOD(ctx context.Context, ticker string, opts ...interfaces.EODOption) (models.PriceSeries, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.historyCalls++
	if s, ok := f.histories[ticker]; ok {
		return s, nil
	}
	return nil, errors.New("no data")
}

func TestCurrentPrices_BatchedAndDeduplicated(t *testing.T) {
	client := &fakeClient{prices: map[string]float64{"AAA.NS": 100, "BBB.NS": 200}}
	gw := NewGateway(client, nil)

	prices, failed := gw.CurrentPrices(context.Background(), []string{"aaa.ns", "BBB.NS", "AAA.NS"})

	require.Len(t, prices, 2)
	assert.Equal(t, 100.0, prices["AAA.NS"])
	assert.Equal(t, 200.0, prices["BBB.NS"])
	assert.Empty(t, failed)
	assert.Equal(t, 1, client.quoteCalls, "duplicates must collapse into one batched call")

	// A second call within the request hits the cache.
	gw.CurrentPrices(context.Background(), []string{"AAA.NS", "BBB.NS"})
	assert.Equal(t, 1, client.quoteCalls, "repeat call must be served from the cache")
}

func TestCurrentPrices_FailuresReportedAsData(t *testing.T) {
	client := &fakeClient{prices: map[string]float64{"AAA.NS": 100}}
	gw := NewGateway(client, nil)

	prices, failed := gw.CurrentPrices(context.Background(), []string{"ZZZ.NS", "AAA.NS", "MMM.NS"})

	require.Len(t, prices, 1)
	assert.Equal(t, []string{"MMM.NS", "ZZZ.NS"}, failed, "failed tickers sorted ascending")

	// Known misses are not refetched.
	gw.CurrentPrices(context.Background(), []string{"ZZZ.NS"})
	assert.Equal(t, 1, client.quoteCalls)
}

func TestHistories_CachedPerRequest(t *testing.T) {
	series := models.PriceSeries{
		{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Close: 100},
		{Date: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Close: 101},
	}
	client := &fakeClient{histories: map[string]models.PriceSeries{"AAA.NS": series}}
	gw := NewGateway(client, nil)
	w := LookbackWindow(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), 1)

	resolved, failed := gw.Histories(context.Background(), []string{"AAA.NS", "BBB.NS"}, w)

	require.Len(t, resolved, 1)
	assert.Len(t, resolved["AAA.NS"], 2)
	assert.Equal(t, []string{"BBB.NS"}, failed)
	assert.Equal(t, 2, client.historyCalls)

	// Both the hit and the miss are cached for the rest of the request.
	gw.Histories(context.Background(), []string{"AAA.NS", "BBB.NS"}, w)
	assert.Equal(t, 2, client.historyCalls)

	_, err := gw.History(context.Background(), "BBB.NS", w)
	assert.ErrorIs(t, err, models.ErrTickerNotFound)
	assert.Equal(t, 2, client.historyCalls)
}

func TestLookbackWindow(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	w := LookbackWindow(now, 1)
	assert.Equal(t, time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), w.From)
	assert.Equal(t, now, w.To)

	// Zero years clamps to one.
	w = LookbackWindow(now, 0)
	assert.Equal(t, time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), w.From)
}
