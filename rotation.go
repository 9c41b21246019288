package atlas

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// R1 rotation about the 1st axis.
func R1(x float64) *mat.Dense {
	s, c := math.Sincos(x)
	return mat.NewDense(3, 3, []float64{1, 0, 0, 0, c, s, 0, -s, c})
}

// R2 rotation about the 2nd axis.
func R2(x float64) *mat.Dense {
	s, c := math.Sincos(x)
	return mat.NewDense(3, 3, []float64{c, 0, -s, 0, 1, 0, s, 0, c})
}

// R3 rotation about the 3rd axis.
func R3(x float64) *mat.Dense {
	s, c := math.Sincos(x)
	return mat.NewDense(3, 3, []float64{c, s, 0, -s, c, 0, 0, 0, 1})
}

// MxV33 multiplies a matrix with a vector. Note that there is no dimension check!
func MxV33(m mat.Matrix, v Vector) Vector {
	var rVec mat.VecDense
	rVec.MulVec(m, mat.NewVecDense(3, []float64{v[0], v[1], v[2]}))
	return Vector{rVec.AtVec(0), rVec.AtVec(1), rVec.AtVec(2)}
}

// PQW2Helio returns the rotation from the perifocal frame to the heliocentric ecliptic frame.
// The in-plane rotation by ω is applied first, then the inclination about the node line,
// and finally Ω about the ecliptic pole. All angles are in radians.
func PQW2Helio(i, ω, Ω float64) *mat.Dense {
	var m mat.Dense
	m.Mul(R3(-Ω), R1(-i))
	m.Mul(&m, R3(-ω))
	return &m
}

// Rot313Vec converts a given vector from the perifocal frame to the heliocentric frame.
func Rot313Vec(i, ω, Ω float64, v Vector) Vector {
	return MxV33(PQW2Helio(i, ω, Ω), v)
}
