// Package models defines the typed records exchanged between the
// market data gateway, the statistics engine, and the service layer.
package models

import "time"

// PricePoint is one closing price for a ticker on a trading day.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// PriceSeries is an ordered sequence of closes, ascending by date with
// no duplicate dates. It is never mutated after fetch.
type PriceSeries []PricePoint

// Last returns the most recent point in the series.
func (s PriceSeries) Last() (PricePoint, bool) {
	if len(s) == 0 {
		return PricePoint{}, false
	}
	return s[len(s)-1], true
}

// Since returns the suffix of the series on or after start.
func (s PriceSeries) Since(start time.Time) PriceSeries {
	for i, p := range s {
		if !p.Date.Before(start) {
			return s[i:]
		}
	}
	return nil
}

// ReturnPoint is one periodic simple return, dated by the end of its period.
type ReturnPoint struct {
	Date  time.Time
	Value float64
}

// ReturnSeries is the periodic return sequence derived from a PriceSeries.
// It is empty when fewer than two price points exist.
type ReturnSeries []ReturnPoint

// Quote is a live OHLCV snapshot from the real-time price source.
type Quote struct {
	Code          string    `json:"code"`
	Timestamp     time.Time `json:"timestamp"`
	Open          float64   `json:"open"`
	High          float64   `json:"high"`
	Low           float64   `json:"low"`
	Close         float64   `json:"close"`
	PreviousClose float64   `json:"previousClose"`
	Volume        int64     `json:"volume"`
}
