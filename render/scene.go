package render

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	atlas "github.com/JdPG23/ATLAS-3I"
	"gonum.org/v1/plot/vg"
)

// Context is everything about a frame which is not part of the scene.
type Context struct {
	Frame, Total  int
	Camera        Camera
	Width, Height vg.Length
	DPI           int
	Dir           string
}

// Path returns the file of this frame.
func (c Context) Path() string {
	return filepath.Join(c.Dir, fmt.Sprintf("frame_%04d.png", c.Frame))
}

// Scene is what one frame shows.
type Scene struct {
	Name        string
	Body        atlas.Sample
	Tail        []atlas.Vector // previous positions, oldest first
	Trajectory  []atlas.Vector
	Planets     []atlas.EphemerisResult
	Tracks      map[string][]atlas.Vector // keyed by planet name
	Uncertainty atlas.Vector              // semi-axes in AU along x, y and z
}

// TailOf returns up to length positions preceding samples[idx].
func TailOf(samples []atlas.Sample, idx, length int) []atlas.Vector {
	if idx > len(samples) {
		idx = len(samples)
	}
	start := idx - length
	if start < 0 {
		start = 0
	}
	tail := make([]atlas.Vector, 0, idx-start)
	for _, smpl := range samples[start:idx] {
		tail = append(tail, smpl.Position)
	}
	return tail
}

// Title returns the date and phase of the body.
func (s Scene) Title() string {
	return s.Body.Date.Format("January 02, 2006") + "\n" + s.Body.Phase().String()
}

// Info returns the one line summary of the body state.
func (s Scene) Info() string {
	return fmt.Sprintf("%s | Dist. to Sun: %.0fM km | %s | Vel. w.r.t. Sun: %.0f km/s",
		s.Name, s.Body.Radius*atlas.AU/1e6, s.Body.Countdown(), s.Body.Speed)
}

// Legend describes the uncertainty ellipses in millions of km.
func (s Scene) Legend() string {
	mkm := s.Uncertainty.Scale(atlas.AU / 1e6)
	var b strings.Builder
	b.WriteString("UNCERTAINTY ELLIPSES (3σ = 99.7%):\n")
	fmt.Fprintf(&b, "XY plane (red): %.1f × %.1f M km\n", mkm[0], mkm[1])
	fmt.Fprintf(&b, "XZ plane (green): %.1f × %.1f M km\n", mkm[0], mkm[2])
	fmt.Fprintf(&b, "YZ plane (blue): %.1f × %.1f M km", mkm[1], mkm[2])
	return b.String()
}

// plane is one of the principal ellipses of the uncertainty ellipsoid.
type plane struct {
	name string
	u, v int // axes spanning the plane
}

var principalPlanes = []plane{{"XY", 0, 1}, {"XZ", 0, 2}, {"YZ", 1, 2}}

// ellipse returns n+1 points of the closed principal ellipse in the provided plane.
func ellipse(center, axes atlas.Vector, p plane, n int) []atlas.Vector {
	pts := make([]atlas.Vector, n+1)
	for k := 0; k <= n; k++ {
		s, c := math.Sincos(2 * math.Pi * float64(k) / float64(n))
		pt := center
		pt[p.u] += axes[p.u] * c
		pt[p.v] += axes[p.v] * s
		pts[k] = pt
	}
	return pts
}

func planetLabel(r atlas.EphemerisResult) string {
	if r.Quality == atlas.Approximate {
		return r.Body.Name + " (approx.)"
	}
	return r.Body.Name
}
