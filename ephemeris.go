package atlas

import (
	"fmt"
	"strings"
	"time"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/planetposition"
)

// Ephemeris returns heliocentric positions of the planets.
type Ephemeris interface {
	// HelioPosition returns the heliocentric ecliptic J2000 position in AU.
	HelioPosition(b Body, dt time.Time) (Vector, error)
}

// VSOP87Ephemeris computes planet positions from the VSOP87B series files.
// The files are loaded once per planet, on first use. Not safe for concurrent use.
type VSOP87Ephemeris struct {
	dir     string
	planets map[int]*planetposition.V87Planet
}

// NewVSOP87Ephemeris returns an ephemeris reading the VSOP87B.* files from dir.
func NewVSOP87Ephemeris(dir string) *VSOP87Ephemeris {
	return &VSOP87Ephemeris{dir: dir, planets: make(map[int]*planetposition.V87Planet)}
}

// HelioPosition implements the Ephemeris interface.
func (e *VSOP87Ephemeris) HelioPosition(b Body, dt time.Time) (Vector, error) {
	pp, ok := e.planets[b.vsop87]
	if !ok {
		var err error
		if pp, err = planetposition.LoadPlanetPath(b.vsop87, e.dir); err != nil {
			return Vector{}, fmt.Errorf("%w: could not load %s from %s: %s", ErrEphemerisUnavailable, b.Name, e.dir, err)
		}
		e.planets[b.vsop87] = pp
	}
	l, β, r := pp.Position2000(julian.TimeToJD(dt))
	return Spherical2Cartesian(l.Rad(), β.Rad(), r), nil
}

// Quality tells whether a position comes from an ephemeris or from a fallback.
type Quality uint8

const (
	// Precise positions come from the ephemeris.
	Precise Quality = iota + 1
	// Approximate positions are placeholders at the mean distance on the x axis.
	Approximate
)

func (q Quality) String() string {
	switch q {
	case Precise:
		return "precise"
	case Approximate:
		return "approximate"
	default:
		return "unknown"
	}
}

// EphemerisResult is the position of a body at a date, labeled with its quality.
type EphemerisResult struct {
	Body     Body
	Date     time.Time
	Position Vector
	Quality  Quality
	Err      error // why the position is approximate, if it is
}

func (r EphemerisResult) String() string {
	return fmt.Sprintf("%s @ %s: %s (%s)", r.Body, r.Date.Format(dateFormat), r.Position, r.Quality)
}

// ResilientEphemeris wraps an ephemeris so that a failed lookup yields a labeled
// approximate position instead of an error.
type ResilientEphemeris struct {
	Source  Ephemeris          // may be nil, in which case every position is approximate
	Offsets map[string]float64 // per body date offset in days, keyed by lower case name
	Logger  kitlog.Logger
	Metrics *Metrics
}

// ApproximateResult returns the fallback position of a body.
func ApproximateResult(b Body, dt time.Time, cause error) EphemerisResult {
	return EphemerisResult{Body: b, Date: dt, Position: Vector{b.Distance, 0, 0}, Quality: Approximate, Err: cause}
}

func (r ResilientEphemeris) dateOf(b Body, dt time.Time) time.Time {
	if days, ok := r.Offsets[strings.ToLower(b.Name)]; ok && days != 0 {
		return dt.Add(time.Duration(days * 24 * float64(time.Hour)))
	}
	return dt
}

// Lookup returns the position of b at dt, or its approximate position if the source fails.
func (r ResilientEphemeris) Lookup(b Body, dt time.Time) EphemerisResult {
	rslt := r.lookup(b, r.dateOf(b, dt))
	if rslt.Quality == Approximate {
		level.Warn(loggerOrNop(r.Logger)).Log("msg", "using approximate position", "body", b.Name, "date", dt.Format(dateFormat), "err", rslt.Err)
	}
	r.Metrics.EphemerisLookup(rslt)
	return rslt
}

func (r ResilientEphemeris) lookup(b Body, dt time.Time) EphemerisResult {
	if r.Source == nil {
		return ApproximateResult(b, dt, ErrEphemerisUnavailable)
	}
	R, err := r.Source.HelioPosition(b, dt)
	if err != nil {
		return ApproximateResult(b, dt, err)
	}
	return EphemerisResult{Body: b, Date: dt, Position: R, Quality: Precise}
}

// Track samples one sidereal period of b centered on the provided date. Points which the
// source cannot provide are skipped, so the track may be shorter than requested or empty.
func (r ResilientEphemeris) Track(b Body, center time.Time, points int) []Vector {
	logger := loggerOrNop(r.Logger)
	if r.Source == nil || points < 2 {
		return nil
	}
	track := make([]Vector, 0, points)
	for i := 0; i < points; i++ {
		fraction := float64(i) / float64(points-1)
		dt := center.Add(time.Duration((fraction - 0.5) * b.Period * 24 * float64(time.Hour)))
		R, err := r.Source.HelioPosition(b, dt)
		if err != nil {
			level.Debug(logger).Log("msg", "skipping track point", "body", b.Name, "date", dt.Format(dateFormat), "err", err)
			continue
		}
		track = append(track, R)
	}
	if len(track) < points {
		level.Warn(logger).Log("msg", "incomplete track", "body", b.Name, "points", len(track), "requested", points)
	}
	return track
}
