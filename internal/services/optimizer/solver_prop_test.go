package optimizer

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"gonum.org/v1/gonum/mat"

	"github.com/anupamdhas/artha/internal/models"
)

// randomUniverse derives a deterministic synthetic universe of n assets
// from a seed: annualized means, a positive-definite covariance, and a
// short realized return matrix.
func randomUniverse(n int, seed int64) (mu []float64, sigma *mat.SymDense, realized *mat.Dense) {
	next := func() float64 {
		// xorshift keeps the generator dependency-free and repeatable.
		seed ^= seed << 13
		seed ^= seed >> 7
		seed ^= seed << 17
		return float64(seed%1000) / 1000.0
	}

	mu = make([]float64, n)
	for i := range mu {
		mu[i] = -0.2 + 0.6*next()
	}

	// A'A + diag is symmetric positive definite.
	a := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			a.Set(i, j, 0.1*next())
		}
	}
	sigma = mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := 0.0
			for k := 0; k < n; k++ {
				v += a.At(k, i) * a.At(k, j)
			}
			if i == j {
				v += 0.01
			}
			sigma.SetSym(i, j, v)
		}
	}

	const rows = 30
	realized = mat.NewDense(rows, n, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < n; j++ {
			realized.Set(i, j, -0.03+0.06*next())
		}
	}
	return mu, sigma, realized
}

func TestSolveWeights_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 40
	properties := gopter.NewProperties(parameters)

	objectives := []models.Objective{models.ObjectiveSharpe, models.ObjectiveMinVol, models.ObjectiveMinDrawdown}

	properties.Property("weights lie on the probability simplex", prop.ForAll(
		func(n int, seed int64, objIdx int) bool {
			mu, sigma, realized := randomUniverse(n, seed)
			w, err := solveWeights(objectives[objIdx], mu, sigma, realized, 0)
			if err != nil {
				return false
			}
			sum := 0.0
			for _, v := range w {
				if math.IsNaN(v) || v < 0 || v > 1+1e-9 {
					return false
				}
				sum += v
			}
			return math.Abs(sum-1) < 1e-9
		},
		gen.IntRange(2, 8),
		gen.Int64Range(1, 1<<40),
		gen.IntRange(0, len(objectives)-1),
	))

	properties.Property("solution never loses to a vertex or equal weights", prop.ForAll(
		func(n int, seed int64, objIdx int) bool {
			mu, sigma, realized := randomUniverse(n, seed)
			objective := objectives[objIdx]
			w, err := solveWeights(objective, mu, sigma, realized, 0)
			if err != nil {
				return false
			}
			f := buildObjective(objective, mu, sigma, realized, 0)
			solved := f(w)
			for _, candidate := range polishCandidates(n) {
				if solved > f(candidate)+1e-9 {
					return false
				}
			}
			return true
		},
		gen.IntRange(2, 6),
		gen.Int64Range(1, 1<<40),
		gen.IntRange(0, len(objectives)-1),
	))

	properties.Property("identical inputs give identical weights", prop.ForAll(
		func(n int, seed int64) bool {
			mu, sigma, realized := randomUniverse(n, seed)
			first, err := solveWeights(models.ObjectiveMinVol, mu, sigma, realized, 0)
			if err != nil {
				return false
			}
			mu2, sigma2, realized2 := randomUniverse(n, seed)
			second, err := solveWeights(models.ObjectiveMinVol, mu2, sigma2, realized2, 0)
			if err != nil {
				return false
			}
			for i := range first {
				if first[i] != second[i] {
					return false
				}
			}
			return true
		},
		gen.IntRange(2, 6),
		gen.Int64Range(1, 1<<40),
	))

	properties.TestingRun(t)
}
