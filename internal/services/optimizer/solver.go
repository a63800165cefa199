package optimizer

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	"github.com/anupamdhas/artha/internal/models"
	"github.com/anupamdhas/artha/internal/services/stats"
)

const (
	simplexPenalty = 1000.0
	weightFloor    = 1e-9
)

// objectiveFunc evaluates a candidate weight vector that already lies
// on the probability simplex. Lower is better for every objective.
type objectiveFunc func(w []float64) float64

// buildObjective returns the simplex-point objective for the requested
// optimization target.
//
//	sharpe: minimize -(w'mu - rf) / sqrt(w'Sigma w)
//	vol:    minimize w'Sigma w
//	mdd:    minimize the max drawdown of the realized weighted return path
func buildObjective(objective models.Objective, mu []float64, sigma *mat.SymDense, realized *mat.Dense, rf float64) objectiveFunc {
	switch objective {
	case models.ObjectiveSharpe:
		return func(w []float64) float64 {
			vol := math.Sqrt(quadForm(w, sigma))
			if vol <= 0 {
				return 0
			}
			return -(dot(w, mu) - rf) / vol
		}
	case models.ObjectiveMinVol:
		return func(w []float64) float64 {
			return quadForm(w, sigma)
		}
	case models.ObjectiveMinDrawdown:
		rows, _ := realized.Dims()
		return func(w []float64) float64 {
			port := make([]float64, rows)
			for i := 0; i < rows; i++ {
				port[i] = dot(realized.RawRowView(i), w)
			}
			return stats.MaxDrawdown(stats.CumulativePath(port))
		}
	}
	return nil
}

// solveWeights searches the probability simplex (sum w = 1, w >= 0) for
// the weights minimizing the objective. The search is a penalty-method
// Nelder-Mead from an equal-weight start with a BFGS fallback, followed
// by a deterministic polish against the equal-weight portfolio and
// every single-asset vertex: the best observed feasible point wins, so
// the result is never dominated by a trivial vertex portfolio.
// Identical inputs always produce identical weights.
func solveWeights(objective models.Objective, mu []float64, sigma *mat.SymDense, realized *mat.Dense, rf float64) ([]float64, error) {
	n := len(mu)
	f := buildObjective(objective, mu, sigma, realized, rf)
	if f == nil {
		return nil, &models.SolverError{Objective: objective, Detail: "no objective function"}
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			w := clampUnit(x)
			obj := f(w)

			sum := 0.0
			for _, v := range w {
				sum += v
			}
			return obj + simplexPenalty*(sum-1)*(sum-1)
		},
	}

	initial := equalWeights(n)

	result, err := optimize.Minimize(problem, initial, &optimize.Settings{}, &optimize.NelderMead{})
	if err != nil || !converged(result) {
		result, err = optimize.Minimize(problem, initial, &optimize.Settings{}, &optimize.BFGS{})
		if err != nil {
			return nil, &models.SolverError{Objective: objective, Detail: err.Error()}
		}
		if !converged(result) {
			return nil, &models.SolverError{Objective: objective, Detail: fmt.Sprintf("did not converge: status=%v", result.Status)}
		}
	}

	best := normalize(clampUnit(result.X))
	bestVal := f(best)

	// Polish against the deterministic candidate set.
	for _, candidate := range polishCandidates(n) {
		if v := f(candidate); v < bestVal {
			best = candidate
			bestVal = v
		}
	}

	return best, nil
}

func converged(result *optimize.Result) bool {
	switch result.Status {
	case optimize.Success, optimize.GradientThreshold, optimize.FunctionConvergence:
		return true
	}
	return false
}

// polishCandidates is the equal-weight portfolio plus every vertex.
func polishCandidates(n int) [][]float64 {
	candidates := make([][]float64, 0, n+1)
	candidates = append(candidates, equalWeights(n))
	for i := 0; i < n; i++ {
		vertex := make([]float64, n)
		vertex[i] = 1
		candidates = append(candidates, vertex)
	}
	return candidates
}

func equalWeights(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1 / float64(n)
	}
	return w
}

// clampUnit projects each coordinate to [0, 1].
func clampUnit(x []float64) []float64 {
	w := make([]float64, len(x))
	for i, v := range x {
		w[i] = math.Min(1, math.Max(0, v))
	}
	return w
}

// normalize scales non-negative weights to sum to 1, zeroing entries
// below the floor so noise never reads as a position.
func normalize(w []float64) []float64 {
	out := make([]float64, len(w))
	sum := 0.0
	for _, v := range w {
		sum += v
	}
	if sum <= 0 {
		return equalWeights(len(w))
	}
	for i, v := range w {
		v /= sum
		if v < weightFloor {
			v = 0
		}
		out[i] = v
	}
	// Renormalize after flooring.
	sum = 0
	for _, v := range out {
		sum += v
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

func dot(a, b []float64) float64 {
	total := 0.0
	for i := range a {
		total += a[i] * b[i]
	}
	return total
}

func quadForm(w []float64, sigma *mat.SymDense) float64 {
	n := len(w)
	total := 0.0
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			total += w[i] * w[j] * sigma.At(i, j)
		}
	}
	return total
}

// ridgeRegularize adds a small diagonal term to a near-singular
// covariance matrix until it factorizes, keeping the quadratic form
// well-posed. The ridge starts at a fraction of the mean diagonal and
// grows by an order of magnitude per attempt.
func ridgeRegularize(sigma *mat.SymDense) {
	n := sigma.SymmetricDim()
	var chol mat.Cholesky
	if chol.Factorize(sigma) {
		return
	}

	meanDiag := 0.0
	for i := 0; i < n; i++ {
		meanDiag += sigma.At(i, i)
	}
	meanDiag /= float64(n)
	if meanDiag <= 0 {
		meanDiag = 1e-8
	}

	ridge := meanDiag * 1e-8
	for attempt := 0; attempt < 8; attempt++ {
		for i := 0; i < n; i++ {
			sigma.SetSym(i, i, sigma.At(i, i)+ridge)
		}
		if chol.Factorize(sigma) {
			return
		}
		ridge *= 10
	}
}
