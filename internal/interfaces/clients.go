// Package interfaces defines the contracts between the service layer
// and its collaborators, enabling deterministic testing via fakes.
package interfaces

import (
	"context"
	"time"

	"github.com/anupamdhas/artha/internal/models"
)

// EODParams holds query parameters for end-of-day history requests.
type EODParams struct {
	Period string // "d", "w", "m"
	Order  string // "a" ascending, "d" descending
	From   time.Time
	To     time.Time
}

// EODOption configures an EOD history request.
type EODOption func(*EODParams)

// WithPeriod sets the bar period.
func WithPeriod(period string) EODOption {
	return func(p *EODParams) { p.Period = period }
}

// WithOrder sets the sort order of returned bars.
func WithOrder(order string) EODOption {
	return func(p *EODParams) { p.Order = order }
}

// WithDateRange bounds the history window.
func WithDateRange(from, to time.Time) EODOption {
	return func(p *EODParams) {
		p.From = from
		p.To = to
	}
}

// MarketDataClient is the contract for the live quote and price history
// provider. Implementations must honor the context on every call.
type MarketDataClient interface {
	// GetRealTimeQuote fetches a live snapshot for one ticker.
	GetRealTimeQuote(ctx context.Context, ticker string) (*models.Quote, error)

	// GetRealTimeQuotes fetches live snapshots for a set of tickers in a
	// single round trip. Tickers absent from the result failed resolution.
	GetRealTimeQuotes(ctx context.Context, tickers []string) ([]*models.Quote, error)

	// GetEOD fetches daily closes for one ticker, ascending by date.
	GetEOD(ctx context.Context, ticker string, opts ...EODOption) (models.PriceSeries, error)
}
