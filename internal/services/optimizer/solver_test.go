package optimizer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/anupamdhas/artha/internal/models"
)

// twoAssetCase is a hand-checkable universe: one calm asset, one wild
// one, uncorrelated.
func twoAssetCase() (mu []float64, sigma *mat.SymDense, realized *mat.Dense) {
	mu = []float64{0.08, 0.20}
	sigma = mat.NewSymDense(2, []float64{
		0.01, 0.0,
		0.0, 0.09,
	})
	realized = mat.NewDense(4, 2, []float64{
		0.001, 0.02,
		-0.001, -0.03,
		0.002, 0.025,
		-0.0005, -0.01,
	})
	return mu, sigma, realized
}

func checkSimplex(t *testing.T, w []float64) {
	t.Helper()
	sum := 0.0
	for _, v := range w {
		require.False(t, math.IsNaN(v))
		assert.GreaterOrEqual(t, v, 0.0)
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestSolveWeights_MinVolFavorsCalmAsset(t *testing.T) {
	mu, sigma, realized := twoAssetCase()

	w, err := solveWeights(models.ObjectiveMinVol, mu, sigma, realized, 0)
	require.NoError(t, err)
	checkSimplex(t, w)

	// Uncorrelated min-variance weights are inversely proportional to
	// variance: 0.09/0.10 = 0.9 on the calm asset.
	assert.InDelta(t, 0.9, w[0], 0.02)
}

func TestSolveWeights_NeverDominatedByVertexOrEqualWeight(t *testing.T) {
	mu, sigma, realized := twoAssetCase()

	for _, objective := range []models.Objective{models.ObjectiveSharpe, models.ObjectiveMinVol, models.ObjectiveMinDrawdown} {
		t.Run(string(objective), func(t *testing.T) {
			w, err := solveWeights(objective, mu, sigma, realized, 0)
			require.NoError(t, err)
			checkSimplex(t, w)

			f := buildObjective(objective, mu, sigma, realized, 0)
			solved := f(w)
			for _, candidate := range polishCandidates(len(mu)) {
				assert.LessOrEqual(t, solved, f(candidate)+1e-12)
			}
		})
	}
}

func TestSolveWeights_UnknownObjective(t *testing.T) {
	mu, sigma, realized := twoAssetCase()
	_, err := solveWeights("momentum", mu, sigma, realized, 0)
	var solverErr *models.SolverError
	require.ErrorAs(t, err, &solverErr)
}

func TestNormalize(t *testing.T) {
	w := normalize([]float64{2, 1, 1})
	assert.InDelta(t, 0.5, w[0], 1e-12)
	assert.InDelta(t, 0.25, w[1], 1e-12)

	// Noise below the floor is zeroed, then the rest renormalizes.
	w = normalize([]float64{1, 1e-12, 1})
	assert.Zero(t, w[1])
	assert.InDelta(t, 0.5, w[0], 1e-12)

	// A degenerate all-zero vector falls back to equal weights.
	w = normalize([]float64{0, 0})
	assert.Equal(t, []float64{0.5, 0.5}, w)
}

func TestClampUnit(t *testing.T) {
	assert.Equal(t, []float64{0, 1, 0.3}, clampUnit([]float64{-0.5, 1.8, 0.3}))
}

func TestRidgeRegularize_SingularMatrix(t *testing.T) {
	// Rank-1 matrix: perfectly correlated assets.
	sigma := mat.NewSymDense(2, []float64{
		0.04, 0.04,
		0.04, 0.04,
	})
	ridgeRegularize(sigma)

	var chol mat.Cholesky
	assert.True(t, chol.Factorize(sigma), "regularized matrix must factorize")
	// Off-diagonals are untouched.
	assert.Equal(t, 0.04, sigma.At(0, 1))
}

func TestRidgeRegularize_HealthyMatrixUntouched(t *testing.T) {
	sigma := mat.NewSymDense(2, []float64{
		0.04, 0.01,
		0.01, 0.09,
	})
	ridgeRegularize(sigma)
	assert.Equal(t, 0.04, sigma.At(0, 0))
	assert.Equal(t, 0.09, sigma.At(1, 1))
}

func TestQuadFormAndDot(t *testing.T) {
	sigma := mat.NewSymDense(2, []float64{
		0.04, 0.01,
		0.01, 0.09,
	})
	w := []float64{0.5, 0.5}
	// 0.25*0.04 + 2*0.25*0.01 + 0.25*0.09 = 0.0375
	assert.InDelta(t, 0.0375, quadForm(w, sigma), 1e-12)
	assert.InDelta(t, 0.14, dot(w, []float64{0.08, 0.20}), 1e-12)
}
