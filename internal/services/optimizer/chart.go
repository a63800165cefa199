package optimizer

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/anupamdhas/artha/internal/models"
)

// RenderComparisonChart renders a PNG line chart of the portfolio and
// benchmark cumulative growth indexes for one period label.
// Two series: Portfolio (blue solid) and Nifty (gray dashed).
// Returns raw PNG bytes.
func (s *Service) RenderComparisonChart(result *models.AllocationResult, period string) ([]byte, error) {
	series, ok := result.ChartData[period]
	if !ok {
		return nil, fmt.Errorf("no chart data for period %q", period)
	}
	if len(series.Dates) < 2 {
		return nil, fmt.Errorf("need at least 2 data points, got %d", len(series.Dates))
	}

	xValues := make([]time.Time, len(series.Dates))
	for i, d := range series.Dates {
		t, err := time.Parse("2006-01-02", d)
		if err != nil {
			return nil, fmt.Errorf("malformed chart date %q: %w", d, err)
		}
		xValues[i] = t
	}

	portfolioSeries := chart.TimeSeries{
		Name: "Portfolio",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"), // blue-600
			StrokeWidth: 2.5,
		},
		XValues: xValues,
		YValues: series.Portfolio,
	}

	benchmarkSeries := chart.TimeSeries{
		Name: "Nifty",
		Style: chart.Style{
			StrokeColor:     drawing.ColorFromHex("9ca3af"), // gray-400
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{5.0, 3.0},
		},
		XValues: xValues,
		YValues: series.Benchmark,
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("Portfolio vs Benchmark (%s)", period),
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 06")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.2fx", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			portfolioSeries,
			benchmarkSeries,
		},
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
