package optimizer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anupamdhas/artha/internal/common"
	"github.com/anupamdhas/artha/internal/models"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestRenderComparisonChart(t *testing.T) {
	svc := NewService(nil, &fakeReference{}, testConfig(), common.NewSilentLogger())
	result := &models.AllocationResult{
		ChartData: map[string]models.ChartSeries{
			"1M": {
				Dates:     []string{"2024-06-03", "2024-06-04", "2024-06-05"},
				Portfolio: []float64{1.0, 1.01, 1.005},
				Benchmark: []float64{1.0, 1.002, 1.004},
			},
		},
	}

	png, err := svc.RenderComparisonChart(result, "1M")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic), "output must be a PNG")
}

func TestRenderComparisonChart_MissingPeriod(t *testing.T) {
	svc := NewService(nil, &fakeReference{}, testConfig(), common.NewSilentLogger())
	result := &models.AllocationResult{ChartData: map[string]models.ChartSeries{}}

	_, err := svc.RenderComparisonChart(result, "1Y")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1Y")
}
