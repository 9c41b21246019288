package atlas

import (
	"fmt"
	"math"
)

const (
	// DefaultKeplerTolerance is the Newton-Raphson step tolerance used by the reference runs.
	DefaultKeplerTolerance = 1e-10
	// DefaultKeplerMaxIterations bounds the Newton-Raphson loop.
	DefaultKeplerMaxIterations = 100
	// DefaultKeplerResidual is the largest |e sinh(H) - H - M| accepted by KeplerSolver.Solve.
	DefaultKeplerResidual = 1e-8
)

// DefaultKeplerSolver is the strict solver used when none is configured.
var DefaultKeplerSolver = KeplerSolver{Tolerance: DefaultKeplerTolerance, MaxIterations: DefaultKeplerMaxIterations, Residual: DefaultKeplerResidual}

// SolveHyperbolicKepler solves M = e sinh(H) - H for the hyperbolic eccentric anomaly H
// with Newton-Raphson. It returns the best estimate after maxIter iterations and never fails.
// The initial guess (M/e for M > 0, M*e otherwise) is adequate for moderate e and |M| but
// converges slowly for large negative M*e: use KeplerSolver when convergence matters.
// The eccentricity must be strictly greater than one.
func SolveHyperbolicKepler(M, e, tol float64, maxIter int) float64 {
	H, _, _ := newtonHyperbolic(M, e, initialGuess(M, e), tol, maxIter)
	return H
}

func initialGuess(M, e float64) float64 {
	if M > 0 {
		return M / e
	}
	return M * e
}

// newtonHyperbolic iterates from H0 and returns the last iterate, the number of iterations
// and whether successive iterates came within tol.
func newtonHyperbolic(M, e, H0, tol float64, maxIter int) (H float64, iter int, converged bool) {
	H = H0
	for iter = 0; iter < maxIter; iter++ {
		sinhH, coshH := math.Sinh(H), math.Cosh(H)
		f := e*sinhH - H - M
		df := e*coshH - 1
		if math.Abs(df) < tol {
			// Near singular derivative: stop before dividing.
			return H, iter, false
		}
		Hn := H - f/df
		if math.Abs(Hn-H) < tol {
			return Hn, iter + 1, true
		}
		H = Hn
	}
	return H, iter, false
}

// keplerResidual returns e sinh(H) - H - M.
func keplerResidual(M, e, H float64) float64 {
	return e*math.Sinh(H) - H - M
}

// KeplerSolver is a strict hyperbolic Kepler solver.
type KeplerSolver struct {
	Tolerance     float64 // Newton-Raphson step tolerance
	MaxIterations int
	Residual      float64 // largest accepted |e sinh(H) - H - M|
}

// Validate returns an error if the solver cannot be used.
func (s KeplerSolver) Validate() error {
	if !(s.Tolerance > 0) {
		return fmt.Errorf("solver tolerance must be positive, got %g", s.Tolerance)
	}
	if s.MaxIterations <= 0 {
		return fmt.Errorf("solver max iterations must be positive, got %d", s.MaxIterations)
	}
	if s.Residual < 0 {
		return fmt.Errorf("solver residual must not be negative, got %g", s.Residual)
	}
	return nil
}

// Solve returns H such that e sinh(H) - H = M. It starts from the same guess as
// SolveHyperbolicKepler; if that runs out of iterations, it restarts once from
// asinh(M/e) before giving up with ErrKeplerDivergence.
func (s KeplerSolver) Solve(M, e float64) (H float64, iterations int, err error) {
	if !(e > 1) {
		return 0, 0, fmt.Errorf("%w: hyperbolic solver requires e > 1, got %g", ErrInvalidOrbitalElements, e)
	}
	if math.IsNaN(M) || math.IsInf(M, 0) {
		return 0, 0, fmt.Errorf("%w: mean anomaly is %g", ErrKeplerDivergence, M)
	}
	resBound := s.Residual
	if resBound == 0 {
		resBound = DefaultKeplerResidual
	}
	var converged bool
	H, iterations, converged = newtonHyperbolic(M, e, initialGuess(M, e), s.Tolerance, s.MaxIterations)
	if !converged {
		var retry int
		H, retry, converged = newtonHyperbolic(M, e, math.Asinh(M/e), s.Tolerance, s.MaxIterations)
		iterations += retry
	}
	res := keplerResidual(M, e, H)
	if !converged || math.IsNaN(res) || math.Abs(res) > resBound*math.Max(1, math.Abs(M)) {
		return H, iterations, fmt.Errorf("%w: M=%g e=%g H=%g residual=%g after %d iterations", ErrKeplerDivergence, M, e, H, res, iterations)
	}
	return H, iterations, nil
}

// TrueAnomaly returns the true anomaly θ (radians) of the hyperbolic eccentric anomaly H.
// θ has the sign of H, and lies strictly within the asymptotes ±acos(-1/e).
func TrueAnomaly(H, e float64) float64 {
	return 2 * math.Atan(math.Sqrt((e-1)/(e+1))*math.Tanh(H/2))
}

// Anomaly holds the anomalies of one instant on a hyperbolic orbit.
type Anomaly struct {
	M, H, ν    float64 // mean, hyperbolic eccentric and true anomalies in radians
	Iterations int     // Newton-Raphson iterations spent on H
}

// True returns the true anomaly θ.
func (a Anomaly) True() float64 {
	return a.ν
}

func (a Anomaly) String() string {
	return fmt.Sprintf("M=%.6f H=%.6f ν=%.4f°", a.M, a.H, Rad2deg180(a.ν))
}
