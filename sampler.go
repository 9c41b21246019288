package atlas

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
)

// TimeDomain is a uniformly sampled range of offsets from perihelion, in days.
type TimeDomain struct {
	FromDays, ToDays float64
	Samples          int
}

// Validate returns an error if the domain cannot be sampled.
func (d TimeDomain) Validate() error {
	if math.IsNaN(d.FromDays) || math.IsInf(d.FromDays, 0) || math.IsNaN(d.ToDays) || math.IsInf(d.ToDays, 0) {
		return fmt.Errorf("time domain bounds must be finite: [%g; %g]", d.FromDays, d.ToDays)
	}
	if d.Samples < 1 {
		return fmt.Errorf("time domain needs at least one sample, got %d", d.Samples)
	}
	if d.Samples > 1 && d.FromDays >= d.ToDays {
		return fmt.Errorf("time domain must be increasing: [%g; %g]", d.FromDays, d.ToDays)
	}
	return nil
}

// Offsets returns all offsets of the domain.
func (d TimeDomain) Offsets() []float64 {
	if d.Samples == 1 {
		return []float64{d.FromDays}
	}
	return floats.Span(make([]float64, d.Samples), d.FromDays, d.ToDays)
}

// Offset returns the i-th offset without allocating the whole domain.
func (d TimeDomain) Offset(i int) float64 {
	if d.Samples == 1 {
		return d.FromDays
	}
	step := (d.ToDays - d.FromDays) / float64(d.Samples-1)
	return d.FromDays + step*float64(i)
}

func (d TimeDomain) String() string {
	return fmt.Sprintf("[%+.1f d; %+.1f d] x%d", d.FromDays, d.ToDays, d.Samples)
}

// Phase is the leg of the trajectory a sample is on.
type Phase uint8

const (
	// Approaching is before perihelion.
	Approaching Phase = iota + 1
	// AtPerihelion is exactly the perihelion epoch.
	AtPerihelion
	// Departing is after perihelion.
	Departing
)

func (p Phase) String() string {
	switch p {
	case Approaching:
		return "APPROACHING"
	case AtPerihelion:
		return "CLOSEST APPROACH"
	case Departing:
		return "DEPARTING"
	default:
		return "unknown"
	}
}

// Sample is the state of the body at one offset from perihelion.
type Sample struct {
	Index      int
	OffsetDays float64
	Date       time.Time
	Anomaly    Anomaly
	Position   Vector  // heliocentric, in AU
	Radius     float64 // heliocentric distance, in AU
	Speed      float64 // vis-viva speed, in km/s
}

// Phase returns whether this sample is before, at or after perihelion.
func (s Sample) Phase() Phase {
	switch {
	case s.OffsetDays < 0:
		return Approaching
	case s.OffsetDays == 0:
		return AtPerihelion
	default:
		return Departing
	}
}

// Countdown returns a human readable distance in time to perihelion.
func (s Sample) Countdown() string {
	switch s.Phase() {
	case Approaching:
		return fmt.Sprintf("%d days before perihelion", int(math.Abs(s.OffsetDays)))
	case AtPerihelion:
		return "AT PERIHELION!"
	default:
		return fmt.Sprintf("%d days after perihelion", int(s.OffsetDays))
	}
}

func (s Sample) String() string {
	return fmt.Sprintf("#%04d %s (%+.2f d) r=%.4f AU v=%.2f km/s %s", s.Index, s.Date.Format(dateFormat), s.OffsetDays, s.Radius, s.Speed, s.Position)
}

// VisViva returns the heliocentric speed in km/s at distance r (AU) on an orbit of
// semi-major axis a (AU), for a hyperbolic orbit: v² = GM (2/r + 1/|a|).
func VisViva(rAU, aAU float64) float64 {
	rMeters := rAU * AU * 1e3
	aMeters := math.Abs(aAU) * AU * 1e3
	return math.Sqrt(GMSunSI*(2/rMeters+1/aMeters)) / 1e3
}

// Sampler evaluates a hyperbolic orbit over a time domain. Each sample is a pure
// function of its offset, so iteration is lazy and may be restarted at will.
type Sampler struct {
	Orbit  *HyperbolicOrbit
	Solver KeplerSolver
	Domain TimeDomain
	// OnSkip, if set, is called for every sample which could not be computed.
	OnSkip func(index int, offsetDays float64, err error)
}

// NewSampler returns a sampler after validating its inputs.
func NewSampler(o *HyperbolicOrbit, solver KeplerSolver, domain TimeDomain) (*Sampler, error) {
	if o == nil {
		return nil, errors.New("sampler requires an orbit")
	}
	if err := solver.Validate(); err != nil {
		return nil, err
	}
	if err := domain.Validate(); err != nil {
		return nil, err
	}
	return &Sampler{Orbit: o, Solver: solver, Domain: domain}, nil
}

// Len returns the number of offsets of the domain, including those which may be skipped.
func (s *Sampler) Len() int {
	return s.Domain.Samples
}

// SampleAt computes the state at an arbitrary offset from perihelion.
func (s *Sampler) SampleAt(offsetDays float64) (Sample, error) {
	anomaly, err := s.Orbit.AnomalyAt(offsetDays, s.Solver)
	if err != nil {
		return Sample{}, err
	}
	R, err := s.Orbit.PositionAt(anomaly.ν)
	if err != nil {
		return Sample{}, err
	}
	r := R.Norm()
	return Sample{
		OffsetDays: offsetDays,
		Date:       s.Orbit.EpochAt(offsetDays),
		Anomaly:    anomaly,
		Position:   R,
		Radius:     r,
		Speed:      VisViva(r, s.Orbit.SemiMajorAxis()),
	}, nil
}

// At computes the i-th sample of the domain.
func (s *Sampler) At(i int) (Sample, error) {
	if i < 0 || i >= s.Domain.Samples {
		return Sample{}, fmt.Errorf("sample index %d out of [0; %d[", i, s.Domain.Samples)
	}
	smpl, err := s.SampleAt(s.Domain.Offset(i))
	if err != nil {
		return Sample{}, fmt.Errorf("sample #%d: %w", i, err)
	}
	smpl.Index = i
	return smpl, nil
}

// All yields every computable sample in index order. Samples which fail are reported to
// OnSkip and skipped, so that one bad offset never aborts the trajectory.
func (s *Sampler) All() iter.Seq2[int, Sample] {
	return func(yield func(int, Sample) bool) {
		for i := 0; i < s.Domain.Samples; i++ {
			smpl, err := s.At(i)
			if err != nil {
				if s.OnSkip != nil {
					s.OnSkip(i, s.Domain.Offset(i), err)
				}
				continue
			}
			if !yield(i, smpl) {
				return
			}
		}
	}
}

// Collect returns every computable sample.
func (s *Sampler) Collect() []Sample {
	samples := make([]Sample, 0, s.Domain.Samples)
	for _, smpl := range s.All() {
		samples = append(samples, smpl)
	}
	return samples
}
