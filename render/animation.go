package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	atlas "github.com/JdPG23/ATLAS-3I"
	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"gonum.org/v1/plot/vg"
)

// Animation renders one frame per sample.
type Animation struct {
	Name        string
	Samples     []atlas.Sample
	Ephemeris   atlas.ResilientEphemeris
	Planets     []atlas.Body
	TrackCenter time.Time // date around which the planet tracks are drawn
	TrackPoints int
	Path        Path
	Tail        int
	Uncertainty atlas.Vector
	Width       vg.Length
	Height      vg.Length
	DPI         int
	Dir         string
	Logger      kitlog.Logger
	Metrics     *atlas.Metrics
}

// Scene returns the scene of the i-th sample. The tracks are shared between scenes.
func (a Animation) Scene(i int, trajectory []atlas.Vector, tracks map[string][]atlas.Vector) Scene {
	smpl := a.Samples[i]
	planets := make([]atlas.EphemerisResult, len(a.Planets))
	for k, b := range a.Planets {
		planets[k] = a.Ephemeris.Lookup(b, smpl.Date)
	}
	return Scene{
		Name:        a.Name,
		Body:        smpl,
		Tail:        TailOf(a.Samples, i, a.Tail),
		Trajectory:  trajectory,
		Planets:     planets,
		Tracks:      tracks,
		Uncertainty: a.Uncertainty,
	}
}

// Run renders every frame and returns how many were written. It stops at the first
// failed frame or when ctx is done.
func (a Animation) Run(ctx context.Context) (int, error) {
	logger := a.Logger
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	if len(a.Samples) == 0 {
		return 0, errors.New("no samples to render")
	}
	if err := os.MkdirAll(a.Dir, 0o755); err != nil {
		return 0, err
	}
	trajectory := make([]atlas.Vector, len(a.Samples))
	for i, smpl := range a.Samples {
		trajectory[i] = smpl.Position
	}
	tracks := make(map[string][]atlas.Vector, len(a.Planets))
	for _, b := range a.Planets {
		tracks[b.Name] = a.Ephemeris.Track(b, a.TrackCenter, a.TrackPoints)
	}

	total := len(a.Samples)
	level.Info(logger).Log("msg", "rendering", "frames", total, "dir", a.Dir)
	frames := 0
	defer func() { a.Metrics.FramesRendered(frames) }()
	for i := range a.Samples {
		if err := ctx.Err(); err != nil {
			return frames, err
		}
		cam := a.Path.At(i, total)
		cam.Center = a.Samples[i].Position
		rctx := Context{Frame: i, Total: total, Camera: cam, Width: a.Width, Height: a.Height, DPI: a.DPI, Dir: a.Dir}
		if err := Draw(rctx, a.Scene(i, trajectory, tracks)); err != nil {
			return frames, fmt.Errorf("frame %d: %w", i, err)
		}
		frames++
		level.Debug(logger).Log("msg", "frame", "index", i, "camera", cam, "file", rctx.Path())
		if frames%100 == 0 {
			level.Info(logger).Log("msg", "progress", "frames", frames, "of", total)
		}
	}
	level.Info(logger).Log("msg", "done", "frames", frames)
	return frames, nil
}
