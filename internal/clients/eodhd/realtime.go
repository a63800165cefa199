package eodhd

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/anupamdhas/artha/internal/models"
)

// realTimeResponse represents the API response for real-time quotes
type realTimeResponse struct {
	Code          string      `json:"code"`
	Timestamp     int64       `json:"timestamp"`
	Open          flexFloat64 `json:"open"`
	High          flexFloat64 `json:"high"`
	Low           flexFloat64 `json:"low"`
	Close         flexFloat64 `json:"close"`
	PreviousClose flexFloat64 `json:"previousClose"`
	Volume        flexFloat64 `json:"volume"`
}

func (r realTimeResponse) toQuote() *models.Quote {
	return &models.Quote{
		Code:          r.Code,
		Timestamp:     time.Unix(r.Timestamp, 0),
		Open:          float64(r.Open),
		High:          float64(r.High),
		Low:           float64(r.Low),
		Close:         float64(r.Close),
		PreviousClose: float64(r.PreviousClose),
		Volume:        int64(r.Volume),
	}
}

// GetRealTimeQuote retrieves a live quote for a single ticker
func (c *Client) GetRealTimeQuote(ctx context.Context, ticker string) (*models.Quote, error) {
	path := fmt.Sprintf("/real-time/%s", ticker)

	var resp realTimeResponse
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, err
	}

	return resp.toQuote(), nil
}

// GetRealTimeQuotes retrieves live quotes for a set of tickers in a
// single round trip. The API takes the first ticker on the path and the
// rest via the "s" parameter, returning an array when more than one
// ticker is requested.
func (c *Client) GetRealTimeQuotes(ctx context.Context, tickers []string) ([]*models.Quote, error) {
	if len(tickers) == 0 {
		return nil, nil
	}

	if len(tickers) == 1 {
		quote, err := c.GetRealTimeQuote(ctx, tickers[0])
		if err != nil {
			return nil, err
		}
		return []*models.Quote{quote}, nil
	}

	path := fmt.Sprintf("/real-time/%s", tickers[0])
	params := url.Values{}
	params.Set("s", strings.Join(tickers[1:], ","))

	var resp []realTimeResponse
	if err := c.get(ctx, path, params, &resp); err != nil {
		return nil, err
	}

	quotes := make([]*models.Quote, 0, len(resp))
	for _, r := range resp {
		quotes = append(quotes, r.toQuote())
	}

	return quotes, nil
}
