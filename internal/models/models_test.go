package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankedHolding_WireFormat(t *testing.T) {
	data, err := json.Marshal(RankedHolding{Ticker: "RELIANCE.NS", GainLossPct: 0.1})
	require.NoError(t, err)
	assert.JSONEq(t, `["RELIANCE.NS", 0.1]`, string(data))

	var rh RankedHolding
	require.NoError(t, json.Unmarshal([]byte(`["TCS.NS", -0.05]`), &rh))
	assert.Equal(t, "TCS.NS", rh.Ticker)
	assert.Equal(t, -0.05, rh.GainLossPct)

	assert.Error(t, json.Unmarshal([]byte(`["TCS.NS"]`), &rh))
	assert.Error(t, json.Unmarshal([]byte(`{"ticker":"TCS.NS"}`), &rh))
}

func TestPeriodComparison_NullSerialization(t *testing.T) {
	v := 0.12
	data, err := json.Marshal(PeriodComparison{Portfolio: &v, Benchmark: nil})
	require.NoError(t, err)
	assert.JSONEq(t, `{"Portfolio": 0.12, "Nifty": null}`, string(data))
}

func TestUniverseFilter_Validate(t *testing.T) {
	valid := UniverseFilter{
		Sectors:      []string{"Energy"},
		AssetClasses: []string{"Equity"},
		NumStocks:    10,
		Objective:    ObjectiveSharpe,
	}
	assert.NoError(t, valid.Validate())

	cases := map[string]func(f *UniverseFilter){
		"no sectors":       func(f *UniverseFilter) { f.Sectors = nil },
		"no asset classes": func(f *UniverseFilter) { f.AssetClasses = nil },
		"too few stocks":   func(f *UniverseFilter) { f.NumStocks = 1 },
		"too many stocks":  func(f *UniverseFilter) { f.NumStocks = 51 },
		"bad objective":    func(f *UniverseFilter) { f.Objective = "momentum" },
		"empty objective":  func(f *UniverseFilter) { f.Objective = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			f := valid
			mutate(&f)
			err := f.Validate()
			var invalid *InvalidFilterError
			require.ErrorAs(t, err, &invalid)
		})
	}
}

func TestEmptySummary_SerializesCollectionsNotNulls(t *testing.T) {
	data, err := json.Marshal(NewEmptySummary())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"topGainers":[]`)
	assert.Contains(t, string(data), `"sectorExposure":{}`)
	assert.NotContains(t, string(data), "null")
}
