package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// UnknownCategory is the reserved grouping label for tickers whose sector
// or asset class cannot be resolved from reference data.
const UnknownCategory = "Unknown"

// Holding is one user position parsed from an uploaded CSV row.
// Quantity and EntryPrice are validated positive at parse time.
type Holding struct {
	Ticker     string    `json:"ticker"`
	EntryDate  time.Time `json:"entry_date"`
	EntryPrice float64   `json:"entry_price"`
	Quantity   float64   `json:"quantity"`
}

// HoldingDetail is one row of the holdings analysis response.
type HoldingDetail struct {
	Ticker         string  `json:"ticker"`
	Quantity       float64 `json:"quantity"`
	EntryPrice     float64 `json:"entry_price"`
	CurrentPrice   float64 `json:"current_price"`
	InvestedAmount float64 `json:"invested_amount"`
	CurrentValue   float64 `json:"current_value"`
	GainLoss       float64 `json:"gain_loss"`
	GainLossPct    float64 `json:"gain_loss_pct"`
	Sector         string  `json:"sector"`
	AssetClass     string  `json:"asset_class"`
}

// RankedHolding is a (ticker, return) entry in the top gainers/losers
// lists. It serializes as a two-element [ticker, pct] array.
type RankedHolding struct {
	Ticker      string
	GainLossPct float64
}

func (r RankedHolding) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{r.Ticker, r.GainLossPct})
}

func (r *RankedHolding) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	if len(parts) != 2 {
		return fmt.Errorf("ranked holding: expected [ticker, pct], got %d elements", len(parts))
	}
	if err := json.Unmarshal(parts[0], &r.Ticker); err != nil {
		return err
	}
	return json.Unmarshal(parts[1], &r.GainLossPct)
}

// PortfolioSummary is the aggregate output of the holdings analyzer.
// Field names are the wire contract for the analysis response.
type PortfolioSummary struct {
	PortfolioValue   float64            `json:"portfolioValue"`
	TotalInvested    float64            `json:"totalInvested"`
	TotalGainLoss    float64            `json:"totalGainLoss"`
	TotalReturn      float64            `json:"totalReturn"`
	TotalHoldings    int                `json:"totalHoldings"`
	PricesFetched    int                `json:"pricesFetched"`
	UnmappedTickers  []string           `json:"unmappedTickers"`
	TopGainers       []RankedHolding    `json:"topGainers"`
	TopLosers        []RankedHolding    `json:"topLosers"`
	AssetAllocation  map[string]float64 `json:"assetAllocation"`
	SectorExposure   map[string]float64 `json:"sectorExposure"`
	PortfolioDetails []HoldingDetail    `json:"portfolioDetails"`
}

// NewEmptySummary returns an all-zero summary with non-nil collections,
// the defined result for an empty holdings list.
func NewEmptySummary() *PortfolioSummary {
	return &PortfolioSummary{
		UnmappedTickers:  []string{},
		TopGainers:       []RankedHolding{},
		TopLosers:        []RankedHolding{},
		AssetAllocation:  map[string]float64{},
		SectorExposure:   map[string]float64{},
		PortfolioDetails: []HoldingDetail{},
	}
}
