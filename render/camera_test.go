package render

import (
	"math"
	"testing"

	atlas "github.com/JdPG23/ATLAS-3I"
	"gonum.org/v1/gonum/floats/scalar"
)

func TestCameraAt(t *testing.T) {
	for _, tc := range []struct {
		frame, total int
		exp          Camera
	}{
		{0, 100, Camera{Elevation: 85, Azimuth: 0, Zoom: 0.1}},
		{50, 100, Camera{Elevation: 65, Azimuth: 90, Zoom: 0.65}},
		{100, 100, Camera{Elevation: 45, Azimuth: 180, Zoom: 1.2}},
		{7, 0, Camera{Elevation: 85, Azimuth: 0, Zoom: 0.1}},
		{200, 100, Camera{Elevation: 45, Azimuth: 180, Zoom: 1.2}},
	} {
		cam := CameraAt(tc.frame, tc.total)
		if !scalar.EqualWithinAbs(cam.Elevation, tc.exp.Elevation, 1e-12) ||
			!scalar.EqualWithinAbs(cam.Azimuth, tc.exp.Azimuth, 1e-12) ||
			!scalar.EqualWithinAbs(cam.Zoom, tc.exp.Zoom, 1e-12) {
			t.Fatalf("frame %d/%d: %s, expected %s", tc.frame, tc.total, cam, tc.exp)
		}
	}
}

func TestCameraPathIsSmooth(t *testing.T) {
	total := 1000
	prev := CameraAt(0, total)
	for frame := 1; frame <= total; frame++ {
		cam := CameraAt(frame, total)
		if cam.Zoom < prev.Zoom || cam.Elevation > prev.Elevation || cam.Azimuth <= prev.Azimuth {
			t.Fatalf("frame %d: camera goes back from %s to %s", frame, prev, cam)
		}
		// Eased ends move slower than the middle of the path.
		if frame == 1 || frame == total/2 {
			step := cam.Zoom - prev.Zoom
			if frame == 1 && step > 1e-5 {
				t.Fatalf("zoom starts with a step of %g", step)
			}
			if frame == total/2 && step < 1e-3 {
				t.Fatalf("zoom mid path step of %g", step)
			}
		}
		prev = cam
	}
}

func TestCameraProject(t *testing.T) {
	cam := Camera{Elevation: 30, Azimuth: 40, Zoom: 1, Center: atlas.Vector{1, -2, 0.5}}
	if x, y := cam.Project(cam.Center); x != 0 || y != 0 {
		t.Fatalf("center projected on (%f, %f)", x, y)
	}
	sEl, cEl := math.Sincos(30 * math.Pi / 180)
	sAz, cAz := math.Sincos(40 * math.Pi / 180)
	eye := atlas.Vector{cEl * cAz, cEl * sAz, sEl}
	if x, y := cam.Project(cam.Center.Sub(eye.Scale(-3))); !scalar.EqualWithinAbs(x, 0, 1e-12) || !scalar.EqualWithinAbs(y, 0, 1e-12) {
		t.Fatalf("line of sight projected on (%f, %f)", x, y)
	}
	// Seen from the pole, the ecliptic keeps its lengths.
	top := Camera{Elevation: 90, Azimuth: 0, Zoom: 1}
	for _, v := range []atlas.Vector{{1, 0, 0}, {0, 2, 0}, {3, 4, 0}} {
		x, y := top.Project(v)
		if !scalar.EqualWithinAbs(math.Hypot(x, y), v.Norm(), 1e-12) {
			t.Fatalf("%s projected on (%f, %f)", v, x, y)
		}
	}
	// Seen edge on, the ecliptic pole points up.
	edge := Camera{Elevation: 0, Azimuth: 0, Zoom: 1}
	if x, y := edge.Project(atlas.Vector{0, 0, 1}); x != 0 || y != 1 {
		t.Fatalf("pole projected on (%f, %f)", x, y)
	}
}
