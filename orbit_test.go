package atlas

import (
	"errors"
	"math"
	"testing"
	"time"

	"gonum.org/v1/gonum/floats/scalar"
)

var perihelion = time.Date(2025, 10, 29, 0, 0, 0, 0, time.UTC)

func atlasOrbit(t *testing.T) *HyperbolicOrbit {
	o, err := NewHyperbolicOrbit("3I/ATLAS", 6.1386, 1.3563, 175.1130, 322.1559, 128.0111, perihelion)
	if err != nil {
		t.Fatal(err)
	}
	return o
}

func TestHyperbolicOrbitValidation(t *testing.T) {
	for _, tc := range []struct {
		name          string
		e, q, i, Ω, ω float64
		tp            time.Time
	}{
		{"circular", 0, 1.3563, 175, 322, 128, perihelion},
		{"elliptical", 0.9, 1.3563, 175, 322, 128, perihelion},
		{"parabolic", 1, 1.3563, 175, 322, 128, perihelion},
		{"NaN e", math.NaN(), 1.3563, 175, 322, 128, perihelion},
		{"zero q", 6.1386, 0, 175, 322, 128, perihelion},
		{"negative q", 6.1386, -1, 175, 322, 128, perihelion},
		{"infinite q", 6.1386, math.Inf(1), 175, 322, 128, perihelion},
		{"i=360", 6.1386, 1.3563, 360, 322, 128, perihelion},
		{"negative Ω", 6.1386, 1.3563, 175, -1, 128, perihelion},
		{"NaN ω", 6.1386, 1.3563, 175, 322, math.NaN(), perihelion},
		{"no epoch", 6.1386, 1.3563, 175, 322, 128, time.Time{}},
	} {
		if _, err := NewHyperbolicOrbit(tc.name, tc.e, tc.q, tc.i, tc.Ω, tc.ω, tc.tp); !errors.Is(err, ErrInvalidOrbitalElements) {
			t.Fatalf("%s: expected invalid elements, got %v", tc.name, err)
		}
	}
}

func TestHyperbolicOrbitDerived(t *testing.T) {
	o := atlasOrbit(t)
	a := o.SemiMajorAxis()
	if a >= 0 {
		t.Fatalf("a=%f should be negative", a)
	}
	if !scalar.EqualWithinAbs(a, 1.3563/(1-6.1386), 1e-15) {
		t.Fatalf("a=%f", a)
	}
	if !scalar.EqualWithinAbs(o.SemiParameter(), 1.3563*(1+6.1386), 1e-12) {
		t.Fatalf("p=%f != q(1+e)", o.SemiParameter())
	}
	if n := o.MeanMotion(); !scalar.EqualWithinAbs(n, math.Sqrt(GMSunAUDay/math.Pow(-a, 3)), 1e-15) {
		t.Fatalf("n=%f", n)
	}
	i, Ω, ω := o.Angles()
	if !scalar.EqualWithinAbs(i, 175.1130, 1e-9) || !scalar.EqualWithinAbs(Ω, 322.1559, 1e-9) || !scalar.EqualWithinAbs(ω, 128.0111, 1e-9) {
		t.Fatalf("angles changed: %f %f %f", i, Ω, ω)
	}
	if !o.EpochAt(-60).Equal(perihelion.AddDate(0, 0, -60)) {
		t.Fatalf("epoch at -60 d: %s", o.EpochAt(-60))
	}
}

func TestHyperbolicOrbitPerihelion(t *testing.T) {
	o := atlasOrbit(t)
	anomaly, err := o.AnomalyAt(0, DefaultKeplerSolver)
	if err != nil {
		t.Fatal(err)
	}
	if anomaly.M != 0 || anomaly.H != 0 || anomaly.True() != 0 {
		t.Fatalf("expected M = H = θ = 0 at perihelion, got %s", anomaly)
	}
	R, err := o.PositionAt(anomaly.True())
	if err != nil {
		t.Fatal(err)
	}
	if !scalar.EqualWithinAbs(R.Norm(), o.Periapsis(), 1e-12) {
		t.Fatalf("r=%f != q=%f at perihelion", R.Norm(), o.Periapsis())
	}
}

func TestHyperbolicOrbitZeroAngles(t *testing.T) {
	o, err := NewHyperbolicOrbit("flat", 2.5, 1, 0, 0, 0, perihelion)
	if err != nil {
		t.Fatal(err)
	}
	for ν := -1.0; ν <= 1; ν += 0.125 {
		pqw, err := o.PQW(ν)
		if err != nil {
			t.Fatal(err)
		}
		R, err := o.PositionAt(ν)
		if err != nil {
			t.Fatal(err)
		}
		if !vectorsEqual(pqw, R, 1e-15) {
			t.Fatalf("ν=%f: rotations by zero changed %s into %s", ν, pqw, R)
		}
		if pqw[2] != 0 {
			t.Fatalf("orbital plane position has a z component: %s", pqw)
		}
	}
}

func TestHyperbolicOrbitRotationKeepsRadius(t *testing.T) {
	o := atlasOrbit(t)
	for ν := -1.5; ν <= 1.5; ν += 0.1 {
		R, err := o.PositionAt(ν)
		if err != nil {
			t.Fatal(err)
		}
		if !scalar.EqualWithinAbs(R.Norm(), o.RNorm(ν), 1e-12) {
			t.Fatalf("ν=%f: |R|=%f r=%f", ν, R.Norm(), o.RNorm(ν))
		}
		if R.Norm() < o.Periapsis()-1e-12 {
			t.Fatalf("ν=%f: r=%f within perihelion", ν, R.Norm())
		}
	}
}

func TestHyperbolicOrbitDomain(t *testing.T) {
	o := atlasOrbit(t)
	asymptote := o.AsymptoteAnomaly()
	for _, ν := range []float64{asymptote + 1e-3, -asymptote - 1e-3, math.Pi} {
		if _, err := o.PositionAt(ν); !errors.Is(err, ErrDomain) {
			t.Fatalf("ν=%f: expected a domain error, got %v", ν, err)
		}
	}
	if _, err := o.PositionAt(asymptote - 1e-3); err != nil {
		t.Fatalf("ν just within the asymptote: %s", err)
	}
}

func TestHyperbolicOrbitEquals(t *testing.T) {
	o0 := atlasOrbit(t)
	o1 := atlasOrbit(t)
	if ok, err := o0.Equals(*o1); !ok {
		t.Fatalf("identical orbits differ: %s", err)
	}
	o2, _ := NewHyperbolicOrbit("3I/ATLAS", 6.1386, 1.3563, 175.1130, 322.1559, 128.0111, perihelion.Add(time.Hour))
	if ok, _ := o0.Equals(*o2); ok {
		t.Fatal("orbits with different epochs are equal")
	}
	o3, _ := NewHyperbolicOrbit("3I/ATLAS", 6.1386, 1.3563, 175.1130, 322.1559, 129, perihelion)
	if ok, _ := o0.Equals(*o3); ok {
		t.Fatal("orbits with different arguments of perihelion are equal")
	}
}
