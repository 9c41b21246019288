package atlas

import "errors"

var (
	// ErrInvalidOrbitalElements is returned when a set of elements does not describe a hyperbolic orbit.
	ErrInvalidOrbitalElements = errors.New("invalid orbital elements")
	// ErrKeplerDivergence is returned by the strict solver when Newton-Raphson did not converge.
	ErrKeplerDivergence = errors.New("hyperbolic Kepler equation did not converge")
	// ErrDomain is returned when a true anomaly lies outside of the asymptotes of the hyperbola.
	ErrDomain = errors.New("true anomaly outside of the hyperbola asymptotes")
	// ErrUnknownBody is returned when a body name is not in the catalogue.
	ErrUnknownBody = errors.New("unknown body")
	// ErrEphemerisUnavailable is returned when no precise position could be computed for a body.
	ErrEphemerisUnavailable = errors.New("ephemeris unavailable")
)
