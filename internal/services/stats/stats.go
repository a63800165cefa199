// Package stats is the statistical core shared by the holdings analyzer
// and the portfolio optimizer: price-return conversion, annualization,
// covariance estimation, and drawdown analysis. All functions are pure
// and perform no I/O.
package stats

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/anupamdhas/artha/internal/models"
)

// Periods are the standard trailing window labels for benchmark comparison.
var Periods = []string{"1M", "3M", "6M", "YTD", "1Y"}

// ToReturns converts a price series into simple periodic returns,
// return[i] = price[i]/price[i-1] - 1, dated by the end of each period.
// Fewer than two price points yield an empty series. Non-positive
// prices cannot produce a meaningful return and break the chain.
func ToReturns(series models.PriceSeries) models.ReturnSeries {
	if len(series) < 2 {
		return nil
	}

	returns := make(models.ReturnSeries, 0, len(series)-1)
	for i := 1; i < len(series); i++ {
		prev := series[i-1].Close
		if prev <= 0 {
			continue
		}
		returns = append(returns, models.ReturnPoint{
			Date:  series[i].Date,
			Value: series[i].Close/prev - 1,
		})
	}
	return returns
}

// Values extracts the raw return values of a series.
func Values(returns models.ReturnSeries) []float64 {
	vals := make([]float64, len(returns))
	for i, r := range returns {
		vals[i] = r.Value
	}
	return vals
}

// Mean returns the arithmetic mean of the periodic returns, 0 for an
// empty series.
func Mean(returns models.ReturnSeries) float64 {
	if len(returns) == 0 {
		return 0
	}
	return stat.Mean(Values(returns), nil)
}

// Annualize compounds a periodic mean return over periodsPerYear,
// (1+mean)^p - 1. Compounding avoids the bias of simple multiplication
// on long lookbacks.
func Annualize(periodicMean float64, periodsPerYear int) float64 {
	return math.Pow(1+periodicMean, float64(periodsPerYear)) - 1
}

// AnnualizedReturn is the compound-annualized mean of a return series.
func AnnualizedReturn(returns models.ReturnSeries, periodsPerYear int) float64 {
	return Annualize(Mean(returns), periodsPerYear)
}

// AnnualizedVolatility is the sample standard deviation of the periodic
// returns scaled by sqrt(periodsPerYear). Fewer than two returns yield 0.
func AnnualizedVolatility(returns models.ReturnSeries, periodsPerYear int) float64 {
	if len(returns) < 2 {
		return 0
	}
	sd := stat.StdDev(Values(returns), nil)
	if math.IsNaN(sd) {
		return 0
	}
	return sd * math.Sqrt(float64(periodsPerYear))
}

// PeriodStart resolves a trailing window label relative to now.
// Unknown labels return false.
func PeriodStart(label string, now time.Time) (time.Time, bool) {
	switch label {
	case "1M":
		return now.AddDate(0, -1, 0), true
	case "3M":
		return now.AddDate(0, -3, 0), true
	case "6M":
		return now.AddDate(0, -6, 0), true
	case "YTD":
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()), true
	case "1Y":
		return now.AddDate(-1, 0, 0), true
	}
	return time.Time{}, false
}

// PeriodReturn computes last/first - 1 over the trailing window named by
// label. Nil means the window holds fewer than two points; the missing
// value is surfaced as such, never as zero.
func PeriodReturn(series models.PriceSeries, label string, now time.Time) *float64 {
	start, ok := PeriodStart(label, now)
	if !ok {
		return nil
	}

	sub := series.Since(start)
	if len(sub) < 2 || sub[0].Close <= 0 {
		return nil
	}

	r := sub[len(sub)-1].Close/sub[0].Close - 1
	return &r
}

// CumulativePath builds the growth index prod(1+r) of a return path.
// The result has the same length as the input; an empty input yields nil.
func CumulativePath(returns []float64) []float64 {
	if len(returns) == 0 {
		return nil
	}
	path := make([]float64, len(returns))
	acc := 1.0
	for i, r := range returns {
		acc *= 1 + r
		path[i] = acc
	}
	return path
}

// MaxDrawdown returns the magnitude of the largest peak-to-trough
// decline in a cumulative growth path, 0 for a monotonically
// non-decreasing path.
func MaxDrawdown(path []float64) float64 {
	worst := 0.0
	peak := math.Inf(-1)
	for _, v := range path {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			dd := (peak - v) / peak
			if dd > worst {
				worst = dd
			}
		}
	}
	return worst
}
