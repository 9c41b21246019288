package atlas

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

const (
	deg2rad = math.Pi / 180
)

// Vector is a Cartesian vector. Positions are in AU unless noted otherwise.
type Vector [3]float64

// Norm returns the Euclidean norm of this vector.
func (v Vector) Norm() float64 {
	return floats.Norm(v[:], 2)
}

// Sub returns v - w.
func (v Vector) Sub(w Vector) Vector {
	return Vector{v[0] - w[0], v[1] - w[1], v[2] - w[2]}
}

// Scale returns v scaled by s.
func (v Vector) Scale(s float64) Vector {
	return Vector{s * v[0], s * v[1], s * v[2]}
}

// Unit returns the unit vector, or the nil vector if the norm is zero.
func (v Vector) Unit() Vector {
	n := v.Norm()
	if scalar.EqualWithinAbs(n, 0, 1e-12) {
		return Vector{}
	}
	return v.Scale(1 / n)
}

// Dot returns the inner product.
func (v Vector) Dot(w Vector) float64 {
	return floats.Dot(v[:], w[:])
}

// Cross returns the cross product v x w.
func (v Vector) Cross(w Vector) Vector {
	return Vector{v[1]*w[2] - v[2]*w[1],
		v[2]*w[0] - v[0]*w[2],
		v[0]*w[1] - v[1]*w[0]}
}

func (v Vector) String() string {
	return fmt.Sprintf("[%+.6f %+.6f %+.6f]", v[0], v[1], v[2])
}

// sign returns the sign of a given number.
func sign(v float64) float64 {
	if scalar.EqualWithinAbs(v, 0, 1e-12) {
		return 1
	}
	return v / math.Abs(v)
}

// vectorsEqual compares two vectors component-wise.
func vectorsEqual(a, b Vector, tol float64) bool {
	return floats.EqualApprox(a[:], b[:], tol)
}

// Spherical2Cartesian returns the Cartesian vector of the provided longitude, latitude (radians)
// and radius.
func Spherical2Cartesian(lon, lat, r float64) Vector {
	sB, cB := math.Sincos(lat)
	sL, cL := math.Sincos(lon)
	return Vector{r * cB * cL, r * cB * sL, r * sB}
}

// Deg2rad converts degrees to radians, and enforced only positive numbers.
func Deg2rad(a float64) float64 {
	if a < 0 {
		a += 360
	}
	return math.Mod(a*deg2rad, 2*math.Pi)
}

// Rad2deg converts radians to degrees, and enforced only positive numbers.
func Rad2deg(a float64) float64 {
	if a < 0 {
		a += 2 * math.Pi
	}
	return math.Mod(a/deg2rad, 360)
}

// Rad2deg180 converts radians to degrees in ]-180; 180].
func Rad2deg180(a float64) float64 {
	d := Rad2deg(a)
	if d > 180 {
		d -= 360
	}
	return d
}
