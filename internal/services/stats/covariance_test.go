package stats

import (
	"testing"
	"time"

	"github.com/anupamdhas/artha/internal/models"
)

func returnsOn(days []int, values []float64) models.ReturnSeries {
	r := make(models.ReturnSeries, len(days))
	for i, d := range days {
		r[i] = models.ReturnPoint{Date: day(d), Value: values[i]}
	}
	return r
}

func TestAlign_IntersectsDates(t *testing.T) {
	series := map[string]models.ReturnSeries{
		// B is missing day 3; the shared date set is {2, 4}.
		"AAA.NS": returnsOn([]int{2, 3, 4}, []float64{0.01, 0.02, 0.03}),
		"BBB.NS": returnsOn([]int{2, 4}, []float64{0.05, 0.07}),
	}

	aligned := Align(series)
	if len(aligned.Tickers) != 2 {
		t.Fatalf("expected 2 tickers, got %v", aligned.Tickers)
	}
	if aligned.Tickers[0] != "AAA.NS" || aligned.Tickers[1] != "BBB.NS" {
		t.Errorf("tickers not ascending: %v", aligned.Tickers)
	}
	if len(aligned.Dates) != 2 {
		t.Fatalf("expected 2 shared dates, got %d", len(aligned.Dates))
	}
	if !aligned.Dates[0].Equal(day(2).UTC()) {
		t.Errorf("first shared date = %v, want %v", aligned.Dates[0], day(2))
	}

	// Matrix rows follow the shared dates: AAA contributes 0.01 and 0.03.
	if got := aligned.Returns.At(0, 0); !approxEqual(got, 0.01, 1e-12) {
		t.Errorf("aligned[0][AAA] = %v, want 0.01", got)
	}
	if got := aligned.Returns.At(1, 0); !approxEqual(got, 0.03, 1e-12) {
		t.Errorf("aligned[1][AAA] = %v, want 0.03", got)
	}
}

func TestAlign_DropsDegenerateSeries(t *testing.T) {
	series := map[string]models.ReturnSeries{
		"AAA.NS": returnsOn([]int{2, 3, 4}, []float64{0.01, 0.02, 0.03}),
		"BBB.NS": returnsOn([]int{2, 3, 4}, []float64{0.02, 0.01, 0.02}),
		"CCC.NS": returnsOn([]int{2}, []float64{0.09}), // one return only
	}

	aligned := Align(series)
	if len(aligned.Tickers) != 2 {
		t.Fatalf("expected degenerate ticker dropped, got %v", aligned.Tickers)
	}
	for _, ticker := range aligned.Tickers {
		if ticker == "CCC.NS" {
			t.Errorf("CCC.NS should have been dropped")
		}
	}
}

func TestAlign_DropsSparsestWhenIntersectionCollapses(t *testing.T) {
	series := map[string]models.ReturnSeries{
		"AAA.NS": returnsOn([]int{2, 3, 4, 5}, []float64{0.01, 0.02, 0.03, 0.01}),
		"BBB.NS": returnsOn([]int{2, 3, 4, 5}, []float64{0.02, 0.01, 0.02, 0.03}),
		// Disjoint dates: keeping this ticker would leave no shared dates.
		"ZZZ.NS": returnsOn([]int{20, 21}, []float64{0.05, 0.06}),
	}

	aligned := Align(series)
	if len(aligned.Tickers) != 2 {
		t.Fatalf("expected the disjoint ticker dropped, got %v", aligned.Tickers)
	}
	if len(aligned.Dates) != 4 {
		t.Errorf("expected 4 shared dates among survivors, got %d", len(aligned.Dates))
	}
}

func TestCovariance_KnownValues(t *testing.T) {
	// Two perfectly anti-correlated series:
	//   A: +0.01, -0.01   B: -0.01, +0.01
	// Sample variance of each = ((0.01)^2 + (0.01)^2)/(2-1)... taking
	// deviations from mean 0: var = (0.0001+0.0001)/1 = 0.0002.
	// Covariance(A,B) = -0.0002. Annualized x252.
	series := map[string]models.ReturnSeries{
		"AAA.NS": returnsOn([]int{2, 3}, []float64{0.01, -0.01}),
		"BBB.NS": returnsOn([]int{2, 3}, []float64{-0.01, 0.01}),
	}

	tickers, sigma := Covariance(series, 252)
	if len(tickers) != 2 {
		t.Fatalf("expected 2 tickers, got %v", tickers)
	}

	wantVar := 0.0002 * 252
	if got := sigma.At(0, 0); !approxEqual(got, wantVar, 1e-9) {
		t.Errorf("var(A) = %v, want %v", got, wantVar)
	}
	if got := sigma.At(1, 1); !approxEqual(got, wantVar, 1e-9) {
		t.Errorf("var(B) = %v, want %v", got, wantVar)
	}
	if got := sigma.At(0, 1); !approxEqual(got, -wantVar, 1e-9) {
		t.Errorf("cov(A,B) = %v, want %v", got, -wantVar)
	}
	if got, gotT := sigma.At(0, 1), sigma.At(1, 0); got != gotT {
		t.Errorf("matrix not symmetric: %v vs %v", got, gotT)
	}
}

func TestAlign_Empty(t *testing.T) {
	aligned := Align(map[string]models.ReturnSeries{})
	if len(aligned.Tickers) != 0 || aligned.Returns != nil {
		t.Errorf("empty input should align to nothing")
	}
	if means := aligned.Means(); means != nil {
		t.Errorf("Means of empty alignment = %v, want nil", means)
	}
	if sigma := aligned.Covariance(252); sigma != nil {
		t.Errorf("Covariance of empty alignment should be nil")
	}
}

// sanity check the date helper used across these tests
func TestDayHelper(t *testing.T) {
	if !day(2).Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("day helper misconfigured")
	}
}
