package stats

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/anupamdhas/artha/internal/models"
)

// Aligned holds return series aligned on their shared observation dates.
// Tickers are in ascending order; Returns has one row per date and one
// column per ticker, matching the Tickers ordering.
type Aligned struct {
	Tickers []string
	Dates   []time.Time
	Returns *mat.Dense
}

// Align intersects the observation dates of the given return series and
// builds the aligned return matrix. Tickers with fewer than two returns
// are dropped up front; if the shared date set of the survivors still
// has fewer than two observations, the sparsest ticker is dropped and
// the intersection recomputed, so one gappy series cannot hollow out
// the whole universe. Ties break by ticker ascending.
func Align(series map[string]models.ReturnSeries) Aligned {
	kept := make([]string, 0, len(series))
	for ticker, returns := range series {
		if len(returns) >= 2 {
			kept = append(kept, ticker)
		}
	}
	sort.Strings(kept)

	for len(kept) > 0 {
		dates := intersectDates(series, kept)
		if len(dates) >= 2 {
			return buildAligned(series, kept, dates)
		}

		// Drop the ticker with the fewest observations and retry.
		sparsest := 0
		for i := 1; i < len(kept); i++ {
			if len(series[kept[i]]) < len(series[kept[sparsest]]) {
				sparsest = i
			}
		}
		kept = append(kept[:sparsest], kept[sparsest+1:]...)
	}

	return Aligned{}
}

func intersectDates(series map[string]models.ReturnSeries, tickers []string) []time.Time {
	counts := make(map[int64]int)
	for _, ticker := range tickers {
		for _, r := range series[ticker] {
			counts[r.Date.Unix()]++
		}
	}

	var shared []time.Time
	for ts, n := range counts {
		if n == len(tickers) {
			shared = append(shared, time.Unix(ts, 0).UTC())
		}
	}
	sort.Slice(shared, func(i, j int) bool { return shared[i].Before(shared[j]) })
	return shared
}

func buildAligned(series map[string]models.ReturnSeries, tickers []string, dates []time.Time) Aligned {
	index := make(map[int64]int, len(dates))
	for i, d := range dates {
		index[d.Unix()] = i
	}

	data := mat.NewDense(len(dates), len(tickers), nil)
	for col, ticker := range tickers {
		for _, r := range series[ticker] {
			if row, ok := index[r.Date.Unix()]; ok {
				data.Set(row, col, r.Value)
			}
		}
	}

	return Aligned{Tickers: tickers, Dates: dates, Returns: data}
}

// Means returns the periodic mean return per ticker column.
func (a Aligned) Means() []float64 {
	if a.Returns == nil {
		return nil
	}
	rows, cols := a.Returns.Dims()
	means := make([]float64, cols)
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, a.Returns)
		means[j] = stat.Mean(col, nil)
	}
	return means
}

// Covariance returns the sample covariance matrix of the aligned
// returns, annualized by periodsPerYear.
func (a Aligned) Covariance(periodsPerYear int) *mat.SymDense {
	if a.Returns == nil {
		return nil
	}
	rows, cols := a.Returns.Dims()
	sigma := mat.NewSymDense(cols, nil)

	x := make([]float64, rows)
	y := make([]float64, rows)
	for i := 0; i < cols; i++ {
		mat.Col(x, i, a.Returns)
		for j := i; j < cols; j++ {
			mat.Col(y, j, a.Returns)
			sigma.SetSym(i, j, stat.Covariance(x, y, nil)*float64(periodsPerYear))
		}
	}
	return sigma
}

// Covariance aligns the given return series on their shared dates and
// returns the kept tickers together with the annualized covariance
// matrix. Tickers dropped during alignment must have their weight fixed
// at 0 downstream.
func Covariance(series map[string]models.ReturnSeries, periodsPerYear int) ([]string, *mat.SymDense) {
	aligned := Align(series)
	return aligned.Tickers, aligned.Covariance(periodsPerYear)
}
