package atlas

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats/scalar"
)

const (
	eccentricityε = 5e-5                         // 0.00005
	angleε        = (5e-3 / 360) * (2 * math.Pi) // 0.005 degrees
	distanceε     = 1e-6                         // in AU
)

// HyperbolicOrbit defines an open orbit about the Sun via its classical orbital elements.
// It is immutable once created.
type HyperbolicOrbit struct {
	Name    string
	e, q    float64   // eccentricity and perihelion distance (AU)
	i, Ω, ω float64   // in radians
	Tp      time.Time // perihelion epoch, where the true anomaly is zero
}

// NewHyperbolicOrbit creates an orbit from the orbital elements.
// WARNING: Angles must be in degrees not radian, each in [0; 360[.
func NewHyperbolicOrbit(name string, e, q, i, Ω, ω float64, tp time.Time) (*HyperbolicOrbit, error) {
	for _, el := range []struct {
		name string
		val  float64
	}{{"e", e}, {"q", q}, {"i", i}, {"Ω", Ω}, {"ω", ω}} {
		if math.IsNaN(el.val) || math.IsInf(el.val, 0) {
			return nil, fmt.Errorf("%w: %s is %g", ErrInvalidOrbitalElements, el.name, el.val)
		}
	}
	if !(e > 1) {
		return nil, fmt.Errorf("%w: eccentricity %g is not hyperbolic (e > 1)", ErrInvalidOrbitalElements, e)
	}
	if !(q > 0) {
		return nil, fmt.Errorf("%w: perihelion distance %g AU must be positive", ErrInvalidOrbitalElements, q)
	}
	for _, angle := range []struct {
		name string
		deg  float64
	}{{"i", i}, {"Ω", Ω}, {"ω", ω}} {
		if angle.deg < 0 || angle.deg >= 360 {
			return nil, fmt.Errorf("%w: %s=%g° is outside of [0; 360[", ErrInvalidOrbitalElements, angle.name, angle.deg)
		}
	}
	if tp.IsZero() {
		return nil, fmt.Errorf("%w: perihelion epoch is not set", ErrInvalidOrbitalElements)
	}
	return &HyperbolicOrbit{Name: name, e: e, q: q, i: Deg2rad(i), Ω: Deg2rad(Ω), ω: Deg2rad(ω), Tp: tp.UTC()}, nil
}

// Eccentricity returns e.
func (o HyperbolicOrbit) Eccentricity() float64 {
	return o.e
}

// SemiMajorAxis returns a = q / (1 - e), which is negative for hyperbolic orbits.
func (o HyperbolicOrbit) SemiMajorAxis() float64 {
	return o.q / (1 - o.e)
}

// SemiParameter returns the semi parameter a(1 - e²), which is positive.
func (o HyperbolicOrbit) SemiParameter() float64 {
	return o.SemiMajorAxis() * (1 - o.e*o.e)
}

// Periapsis returns the perihelion distance q.
func (o HyperbolicOrbit) Periapsis() float64 {
	return o.q
}

// MeanMotion returns n = sqrt(GM / |a|³) in radians per day.
func (o HyperbolicOrbit) MeanMotion() float64 {
	return math.Sqrt(GMSunAUDay / math.Pow(math.Abs(o.SemiMajorAxis()), 3))
}

// AsymptoteAnomaly returns the true anomaly of the asymptotes, acos(-1/e).
// Valid true anomalies lie strictly within ±AsymptoteAnomaly.
func (o HyperbolicOrbit) AsymptoteAnomaly() float64 {
	return math.Acos(-1 / o.e)
}

// Angles returns the inclination, longitude of ascending node and argument of perihelion in degrees.
func (o HyperbolicOrbit) Angles() (i, Ω, ω float64) {
	return Rad2deg(o.i), Rad2deg(o.Ω), Rad2deg(o.ω)
}

// EpochAt returns the date at the provided offset from perihelion.
func (o HyperbolicOrbit) EpochAt(offsetDays float64) time.Time {
	return o.Tp.Add(time.Duration(offsetDays * 24 * float64(time.Hour)))
}

// AnomalyAt returns the anomalies at offsetDays from the perihelion epoch.
func (o HyperbolicOrbit) AnomalyAt(offsetDays float64, solver KeplerSolver) (Anomaly, error) {
	M := o.MeanMotion() * offsetDays
	H, iterations, err := solver.Solve(M, o.e)
	if err != nil {
		return Anomaly{M: M, H: H, Iterations: iterations}, err
	}
	return Anomaly{M: M, H: H, ν: TrueAnomaly(H, o.e), Iterations: iterations}, nil
}

// RNorm returns the heliocentric distance at true anomaly ν, without checking the asymptotes.
func (o HyperbolicOrbit) RNorm(ν float64) float64 {
	return o.SemiParameter() / (1 + o.e*math.Cos(ν))
}

// PQW returns the position in the orbital plane, with x toward perihelion.
func (o HyperbolicOrbit) PQW(ν float64) (Vector, error) {
	denom := 1 + o.e*math.Cos(ν)
	if denom <= 0 {
		return Vector{}, fmt.Errorf("%w: ν=%.4f° beyond ±%.4f°", ErrDomain, Rad2deg180(ν), Rad2deg(o.AsymptoteAnomaly()))
	}
	r := o.SemiParameter() / denom
	sinν, cosν := math.Sincos(ν)
	return Vector{r * cosν, r * sinν, 0}, nil
}

// PositionAt returns the heliocentric position (AU) at true anomaly ν.
func (o HyperbolicOrbit) PositionAt(ν float64) (Vector, error) {
	R, err := o.PQW(ν)
	if err != nil {
		return Vector{}, err
	}
	return Rot313Vec(o.i, o.ω, o.Ω, R), nil
}

// String implements the stringer interface (hence the value receiver)
func (o HyperbolicOrbit) String() string {
	return fmt.Sprintf("%s: a=%.4f e=%.4f q=%.4f i=%.3f Ω=%.3f ω=%.3f Tp=%s", o.Name, o.SemiMajorAxis(), o.e, o.q, Rad2deg(o.i), Rad2deg(o.Ω), Rad2deg(o.ω), o.Tp.Format(dateFormat))
}

// Equals returns whether two orbits are identical within tolerance.
func (o HyperbolicOrbit) Equals(o1 HyperbolicOrbit) (bool, error) {
	if !scalar.EqualWithinAbs(o.q, o1.q, distanceε) {
		return false, errors.New("perihelion distance invalid")
	}
	if !scalar.EqualWithinAbs(o.e, o1.e, eccentricityε) {
		return false, errors.New("eccentricity invalid")
	}
	if !scalar.EqualWithinAbs(o.i, o1.i, angleε) {
		return false, errors.New("inclination invalid")
	}
	if !scalar.EqualWithinAbs(o.Ω, o1.Ω, angleε) {
		return false, errors.New("RAAN invalid")
	}
	if !scalar.EqualWithinAbs(o.ω, o1.ω, angleε) {
		return false, errors.New("argument of perihelion invalid")
	}
	if !o.Tp.Equal(o1.Tp) {
		return false, errors.New("perihelion epoch invalid")
	}
	return true, nil
}
