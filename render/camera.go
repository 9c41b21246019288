package render

import (
	"fmt"
	"math"

	atlas "github.com/JdPG23/ATLAS-3I"
)

// Camera is an orthographic view of the scene.
type Camera struct {
	Elevation float64      // degrees above the ecliptic
	Azimuth   float64      // degrees
	Zoom      float64      // half width of the view in AU
	Center    atlas.Vector // point at the middle of the frame
}

// Project returns the screen coordinates (AU) of v relative to the camera center.
func (c Camera) Project(v atlas.Vector) (x, y float64) {
	sEl, cEl := math.Sincos(c.Elevation * math.Pi / 180)
	sAz, cAz := math.Sincos(c.Azimuth * math.Pi / 180)
	right := atlas.Vector{-sAz, cAz, 0}
	up := atlas.Vector{-sEl * cAz, -sEl * sAz, cEl}
	rel := v.Sub(c.Center)
	return rel.Dot(right), rel.Dot(up)
}

func (c Camera) String() string {
	return fmt.Sprintf("elev=%.1f° azim=%.1f° zoom=%.3f AU", c.Elevation, c.Azimuth, c.Zoom)
}

// Path is the camera motion over an animation.
// Elevation and zoom are eased with a smoothstep, the azimuth turns at constant rate.
type Path struct {
	ElevationStart, ElevationEnd float64
	AzimuthStart, AzimuthEnd     float64
	ZoomStart, ZoomEnd           float64
}

// DefaultPath starts close above the body and ends on a wide oblique view.
var DefaultPath = Path{
	ElevationStart: 85, ElevationEnd: 45,
	AzimuthStart: 0, AzimuthEnd: 180,
	ZoomStart: 0.1, ZoomEnd: 1.2,
}

// At returns the camera of the provided frame, out of total frames.
func (p Path) At(frame, total int) Camera {
	phase := 0.0
	if total > 0 {
		phase = math.Min(math.Max(float64(frame)/float64(total), 0), 1)
	}
	t := smoothstep(phase)
	return Camera{
		Elevation: p.ElevationStart + t*(p.ElevationEnd-p.ElevationStart),
		Azimuth:   p.AzimuthStart + phase*(p.AzimuthEnd-p.AzimuthStart),
		Zoom:      p.ZoomStart + t*(p.ZoomEnd-p.ZoomStart),
	}
}

// CameraAt returns the camera of the default path.
func CameraAt(frame, total int) Camera {
	return DefaultPath.At(frame, total)
}

func smoothstep(t float64) float64 {
	return t * t * (3 - 2*t)
}
