package atlas

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/soniakeys/meeus/v3/planetposition"
)

const (
	// AU is one astronomical unit in kilometers.
	AU = 1.495978707e8
	// GMSunAUDay is the heliocentric gravitational parameter in AU³/day², from Kepler's third law
	// with a Julian year.
	GMSunAUDay = 4 * math.Pi * math.Pi / (365.25 * 365.25)
	// GMSunSI is the heliocentric gravitational parameter in m³/s². Only use with meters.
	GMSunSI = 1.32712440018e20

	dateFormat = "2006-01-02 15:04:05"
)

// Body defines a planet whose heliocentric position comes from an ephemeris.
type Body struct {
	Name     string
	vsop87   int        // VSOP87 planet index
	Distance float64    // Mean heliocentric distance in AU, used for approximate positions
	Period   float64    // Sidereal period in days
	Color    color.RGBA // Display color
	Size     float64    // Display size in points
}

// String implements the Stringer interface.
func (b Body) String() string {
	return b.Name
}

// Equals returns whether the provided body is the same.
func (b Body) Equals(o Body) bool {
	return b.Name == o.Name && b.vsop87 == o.vsop87
}

// BodyFromString returns the body from its name
func BodyFromString(name string) (Body, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mercury":
		return Mercury, nil
	case "venus":
		return Venus, nil
	case "earth":
		return Earth, nil
	case "mars":
		return Mars, nil
	case "jupiter":
		return Jupiter, nil
	case "saturn":
		return Saturn, nil
	default:
		return Body{}, fmt.Errorf("%w: '%s'", ErrUnknownBody, name)
	}
}

/* Definitions */

// Mercury is the fastest.
var Mercury = Body{"Mercury", planetposition.Mercury, 0.39, 87.969, color.RGBA{128, 128, 128, 255}, 4}

// Venus is poisonous.
var Venus = Body{"Venus", planetposition.Venus, 0.72, 224.701, color.RGBA{255, 165, 0, 255}, 5}

// Earth is home.
var Earth = Body{"Earth", planetposition.Earth, 1.0, 365.256, color.RGBA{0, 0, 255, 255}, 5.5}

// Mars is the vacation place.
var Mars = Body{"Mars", planetposition.Mars, 1.52, 686.980, color.RGBA{255, 0, 0, 255}, 4.5}

// Jupiter is big.
var Jupiter = Body{"Jupiter", planetposition.Jupiter, 5.2, 4332.59, color.RGBA{165, 42, 42, 255}, 8}

// Saturn floats and that's really cool.
var Saturn = Body{"Saturn", planetposition.Saturn, 9.5, 10759.22, color.RGBA{218, 165, 32, 255}, 7.5}

// Planets lists every body of the catalogue, from the Sun outward.
var Planets = []Body{Mercury, Venus, Earth, Mars, Jupiter, Saturn}
