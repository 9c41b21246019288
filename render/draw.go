package render

import (
	"bufio"
	"fmt"
	"image/color"
	"os"

	atlas "github.com/JdPG23/ATLAS-3I"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

var (
	background   = color.RGBA{0, 0, 0, 255}
	foreground   = color.RGBA{255, 255, 255, 255}
	bodyColor    = color.RGBA{0, 255, 255, 255}
	sunColor     = color.RGBA{255, 255, 0, 255}
	pathColor    = color.RGBA{0, 255, 255, 90}
	ellipseColor = []color.RGBA{{255, 51, 51, 180}, {51, 255, 51, 180}, {51, 51, 255, 180}}
)

const ellipsePoints = 60

// Plot builds the plot of a scene as seen by the camera of the context.
func Plot(ctx Context, sc Scene) (*plot.Plot, error) {
	cam := ctx.Camera
	if cam.Zoom <= 0 {
		return nil, fmt.Errorf("camera zoom must be positive, got %g", cam.Zoom)
	}
	p := plot.New()
	p.HideAxes()
	p.BackgroundColor = background
	p.Title.Text = sc.Title()
	p.Title.TextStyle.Color = foreground
	p.Title.TextStyle.Font.Size = vg.Points(16)

	project := func(pts []atlas.Vector) plotter.XYs {
		xys := make(plotter.XYs, len(pts))
		for k, pt := range pts {
			xys[k].X, xys[k].Y = cam.Project(pt)
		}
		return xys
	}
	addLine := func(pts []atlas.Vector, c color.Color, width vg.Length, dashed bool) error {
		if len(pts) < 2 {
			return nil
		}
		l, err := plotter.NewLine(project(pts))
		if err != nil {
			return err
		}
		l.LineStyle.Color = c
		l.LineStyle.Width = width
		if dashed {
			l.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		}
		p.Add(l)
		return nil
	}
	addPoint := func(pt atlas.Vector, c color.Color, radius vg.Length) error {
		s, err := plotter.NewScatter(project([]atlas.Vector{pt}))
		if err != nil {
			return err
		}
		s.GlyphStyle.Color = c
		s.GlyphStyle.Radius = radius
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)
		return nil
	}

	if err := addLine(sc.Trajectory, pathColor, vg.Points(1), true); err != nil {
		return nil, err
	}
	for _, planet := range sc.Planets {
		if err := addLine(sc.Tracks[planet.Body.Name], planet.Body.Color, vg.Points(0.5), false); err != nil {
			return nil, err
		}
	}
	if err := addPoint(atlas.Vector{}, sunColor, vg.Points(10)); err != nil {
		return nil, err
	}
	for _, planet := range sc.Planets {
		if err := addPoint(planet.Position, planet.Body.Color, vg.Points(planet.Body.Size)); err != nil {
			return nil, err
		}
	}
	tail := append(append(make([]atlas.Vector, 0, len(sc.Tail)+1), sc.Tail...), sc.Body.Position)
	if err := addLine(tail, bodyColor, vg.Points(2.5), false); err != nil {
		return nil, err
	}
	for k, pl := range principalPlanes {
		if err := addLine(ellipse(sc.Body.Position, sc.Uncertainty, pl, ellipsePoints), ellipseColor[k], vg.Points(2), false); err != nil {
			return nil, err
		}
		axis := atlas.Vector{}
		axis[k] = sc.Uncertainty[k]
		ends := []atlas.Vector{sc.Body.Position.Sub(axis), sc.Body.Position.Sub(axis.Scale(-1))}
		if err := addLine(ends, ellipseColor[k], vg.Points(1), false); err != nil {
			return nil, err
		}
	}
	if err := addPoint(sc.Body.Position, bodyColor, vg.Points(4)); err != nil {
		return nil, err
	}

	// Labels are attached to the positions in the view.
	labelPos := []atlas.Vector{{}, sc.Body.Position}
	labelTxt := []string{"Sun", sc.Name}
	for _, planet := range sc.Planets {
		labelPos = append(labelPos, planet.Position)
		labelTxt = append(labelTxt, planetLabel(planet))
	}
	aspect := 1.0
	if ctx.Width > 0 {
		aspect = float64(ctx.Height / ctx.Width)
	}
	xMax, yMax := cam.Zoom, cam.Zoom*aspect
	xys := project(labelPos)
	xys = append(xys, plotter.XY{X: -0.95 * xMax, Y: -0.9 * yMax}, plotter.XY{X: -0.95 * xMax, Y: 0.6 * yMax})
	labelTxt = append(labelTxt, sc.Info(), sc.Legend())
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labelTxt})
	if err != nil {
		return nil, err
	}
	for k := range labels.TextStyle {
		labels.TextStyle[k].Color = foreground
		labels.TextStyle[k].Font.Size = vg.Points(9)
	}
	p.Add(labels)

	p.X.Min, p.X.Max = -xMax, xMax
	p.Y.Min, p.Y.Max = -yMax, yMax
	return p, nil
}

// Draw renders the scene into the PNG file of the context. It keeps no state between calls.
func Draw(ctx Context, sc Scene) error {
	if ctx.Width <= 0 || ctx.Height <= 0 || ctx.DPI <= 0 {
		return fmt.Errorf("invalid frame size %vx%v @ %d dpi", ctx.Width, ctx.Height, ctx.DPI)
	}
	p, err := Plot(ctx, sc)
	if err != nil {
		return err
	}
	c := vgimg.NewWith(
		vgimg.UseWH(ctx.Width, ctx.Height),
		vgimg.UseDPI(ctx.DPI),
		vgimg.UseBackgroundColor(background),
	)
	p.Draw(draw.New(c))

	f, err := os.Create(ctx.Path())
	if err != nil {
		return fmt.Errorf("cannot create frame: %w", err)
	}
	bw := bufio.NewWriter(f)
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(bw); err != nil {
		f.Close()
		return fmt.Errorf("cannot write frame: %w", err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
