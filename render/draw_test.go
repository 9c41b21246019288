package render

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	atlas "github.com/JdPG23/ATLAS-3I"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"gonum.org/v1/plot/vg"
)

func testScene(t *testing.T) Scene {
	samples := atlasSamples(t, -10, 10, 21)
	eph := atlas.ResilientEphemeris{}
	planets := []atlas.EphemerisResult{eph.Lookup(atlas.Earth, samples[5].Date), eph.Lookup(atlas.Mars, samples[5].Date)}
	trajectory := make([]atlas.Vector, len(samples))
	for k, smpl := range samples {
		trajectory[k] = smpl.Position
	}
	return Scene{
		Name:        "3I/ATLAS",
		Body:        samples[5],
		Tail:        TailOf(samples, 5, 20),
		Trajectory:  trajectory,
		Planets:     planets,
		Tracks:      map[string][]atlas.Vector{"Earth": {{1, 0, 0}, {0, 1, 0}, {-1, 0, 0}}},
		Uncertainty: atlas.Vector{0.02, 0.01, 0.007},
	}
}

func TestPlot(t *testing.T) {
	sc := testScene(t)
	ctx := Context{Frame: 5, Total: 21, Camera: CameraAt(5, 21), Width: 4 * vg.Inch, Height: 3 * vg.Inch, DPI: 50}
	ctx.Camera.Center = sc.Body.Position
	p, err := Plot(ctx, sc)
	if err != nil {
		t.Fatal(err)
	}
	zoom := ctx.Camera.Zoom
	if p.X.Min != -zoom || p.X.Max != zoom || p.Y.Min != -0.75*zoom || p.Y.Max != 0.75*zoom {
		t.Fatalf("view [%f; %f]x[%f; %f] for a zoom of %f", p.X.Min, p.X.Max, p.Y.Min, p.Y.Max, zoom)
	}
	if p.Title.Text != sc.Title() {
		t.Fatalf("title %q", p.Title.Text)
	}
	ctx.Camera.Zoom = 0
	if _, err := Plot(ctx, sc); err == nil {
		t.Fatal("plotted without zoom")
	}
}

func TestDraw(t *testing.T) {
	sc := testScene(t)
	ctx := Context{Frame: 7, Total: 21, Camera: CameraAt(7, 21), Width: 2 * vg.Inch, Height: 1.5 * vg.Inch, DPI: 40, Dir: t.TempDir()}
	if err := Draw(ctx, sc); err != nil {
		t.Fatal(err)
	}
	if filepath.Base(ctx.Path()) != "frame_0007.png" {
		t.Fatalf("frame file %s", ctx.Path())
	}
	f, err := os.Open(ctx.Path())
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 80 || b.Dy() != 60 {
		t.Fatalf("frame of %dx%d pixels", b.Dx(), b.Dy())
	}
	ctx.DPI = 0
	if err := Draw(ctx, sc); err == nil {
		t.Fatal("drew a frame without resolution")
	}
}

func TestAnimation(t *testing.T) {
	m := atlas.NewMetrics()
	anim := Animation{
		Name:        "3I/ATLAS",
		Samples:     atlasSamples(t, -2, 2, 3),
		Ephemeris:   atlas.ResilientEphemeris{Metrics: m},
		Planets:     []atlas.Body{atlas.Earth, atlas.Mars},
		TrackCenter: perihelion,
		TrackPoints: 10,
		Path:        DefaultPath,
		Tail:        20,
		Uncertainty: atlas.Vector{0.02, 0.01, 0.007},
		Width:       2 * vg.Inch,
		Height:      1.5 * vg.Inch,
		DPI:         30,
		Dir:         filepath.Join(t.TempDir(), "frames"),
		Metrics:     m,
	}
	frames, err := anim.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if frames != 3 {
		t.Fatalf("%d frames", frames)
	}
	for i := 0; i < frames; i++ {
		if _, err := os.Stat(filepath.Join(anim.Dir, fmt.Sprintf("frame_%04d.png", i))); err != nil {
			t.Fatal(err)
		}
	}
	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatal(err)
	}
	for _, mf := range families {
		if mf.GetName() == "atlas_frames_rendered" {
			if got := mf.GetMetric()[0].GetGauge().GetValue(); got != 3 {
				t.Fatalf("%f frames rendered", got)
			}
		}
	}
	if n, err := testutil.GatherAndCount(m.Registry(), "atlas_ephemeris_lookups_total"); err != nil || n != 2 {
		t.Fatalf("%d lookup series: %v", n, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if frames, err := anim.Run(ctx); !errors.Is(err, context.Canceled) || frames != 0 {
		t.Fatalf("%d frames after cancellation: %v", frames, err)
	}
	anim.Samples = nil
	if _, err := anim.Run(context.Background()); err == nil {
		t.Fatal("rendered an empty animation")
	}
}
