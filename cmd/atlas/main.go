package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	atlas "github.com/JdPG23/ATLAS-3I"
	"github.com/JdPG23/ATLAS-3I/render"
	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"
)

// run holds what every subcommand needs.
type run struct {
	conf    atlas.Config
	logger  kitlog.Logger
	metrics *atlas.Metrics
	sampler *atlas.Sampler
}

var (
	configPath string
	debug      bool
	current    *run
)

var rootCmd = &cobra.Command{
	Use:   "atlas",
	Short: "Trajectory of the interstellar comet 3I/ATLAS",
	Long: `Computes the heliocentric hyperbolic trajectory of an interstellar body from its
orbital elements, exports it, and renders it among the planets as PNG frames.

The configuration file is read from --config, or from $ATLAS_CONFIG.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		r, err := setup()
		if err != nil {
			return err
		}
		current = r
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if current == nil || current.conf.MetricsFile == "" {
			return nil
		}
		if err := current.metrics.WriteToTextfile(current.conf.MetricsFile); err != nil {
			return fmt.Errorf("could not write metrics: %w", err)
		}
		level.Debug(current.logger).Log("msg", "metrics written", "file", current.conf.MetricsFile)
		return nil
	},
}

func setup() (*run, error) {
	path := configPath
	if path == "" {
		path = os.Getenv(atlas.ConfigEnv)
	}
	conf, err := atlas.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	logger := atlas.NewLogger(os.Stderr, debug || conf.Verbose)
	logger = kitlog.With(logger, "run", conf.Name)
	metrics := atlas.NewMetrics()
	sampler, err := conf.Sampler()
	if err != nil {
		return nil, err
	}
	sampler.OnSkip = func(index int, offsetDays float64, err error) {
		level.Warn(logger).Log("msg", "sample skipped", "index", index, "offset", offsetDays, "err", err)
		metrics.SampleSkipped(err)
	}
	level.Info(logger).Log("msg", "configuration loaded", "config", path, "orbit", sampler.Orbit)
	return &run{conf: conf, logger: logger, metrics: metrics, sampler: sampler}, nil
}

// samples computes the whole trajectory and records it in the metrics.
func (r *run) samples() []atlas.Sample {
	samples := r.sampler.Collect()
	for _, smpl := range samples {
		r.metrics.SampleComputed(smpl)
	}
	level.Info(r.logger).Log("msg", "trajectory sampled", "samples", len(samples), "requested", r.sampler.Len())
	return samples
}

func (r *run) ephemeris() atlas.ResilientEphemeris {
	dir := r.conf.VSOP87Dir
	if dir == "" {
		dir = os.Getenv("VSOP87")
	}
	eph := atlas.ResilientEphemeris{Offsets: r.conf.Offsets, Logger: r.logger, Metrics: r.metrics}
	if dir != "" {
		eph.Source = atlas.NewVSOP87Ephemeris(dir)
	} else {
		level.Warn(r.logger).Log("msg", "no VSOP87 directory, planet positions are approximate")
	}
	return eph
}

var every int

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Print the trajectory samples",
	RunE: func(cmd *cobra.Command, args []string) error {
		if every < 1 {
			return fmt.Errorf("--every must be positive, got %d", every)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, current.sampler.Orbit)
		for i, smpl := range current.sampler.All() {
			current.metrics.SampleComputed(smpl)
			if i%every != 0 && i != current.sampler.Len()-1 {
				continue
			}
			fmt.Fprintf(out, "%s %s %s\n", smpl, smpl.Anomaly, smpl.Countdown())
		}
		return nil
	},
}

var exportConf atlas.ExportConfig

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the trajectory as Cosmographia and CSV files",
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportConf.Filename == "" {
			exportConf.Filename = "atlas"
		}
		paths, err := atlas.Export(current.conf.OutputDir, exportConf, current.sampler, current.samples())
		for _, path := range paths {
			level.Info(current.logger).Log("msg", "saved", "file", path)
		}
		return err
	},
}

var frameLimit int

var framesCmd = &cobra.Command{
	Use:   "frames",
	Short: "Render the trajectory among the planets as PNG frames",
	RunE: func(cmd *cobra.Command, args []string) error {
		samples := current.samples()
		if frameLimit > 0 && frameLimit < len(samples) {
			samples = samples[:frameLimit]
		}
		rc := current.conf.Render
		path := render.DefaultPath
		path.ZoomStart, path.ZoomEnd = rc.ZoomStart, rc.ZoomEnd
		anim := render.Animation{
			Name:        current.conf.Name,
			Samples:     samples,
			Ephemeris:   current.ephemeris(),
			Planets:     current.conf.Planets,
			TrackCenter: current.sampler.Orbit.Tp,
			TrackPoints: current.conf.TrackPoints,
			Path:        path,
			Tail:        rc.Tail,
			Uncertainty: rc.Uncertainty,
			Width:       vg.Length(rc.Width) * vg.Inch,
			Height:      vg.Length(rc.Height) * vg.Inch,
			DPI:         rc.DPI,
			Dir:         filepath.Join(current.conf.OutputDir, "frames"),
			Logger:      current.logger,
			Metrics:     current.metrics,
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		_, err := anim.Run(ctx)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "TOML configuration file (default $"+atlas.ConfigEnv+")")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log debug lines")

	sampleCmd.Flags().IntVar(&every, "every", 50, "print one sample out of every N")

	exportCmd.Flags().StringVar(&exportConf.Filename, "name", "atlas", "base name of the exported files")
	exportCmd.Flags().BoolVar(&exportConf.Cosmo, "cosmo", true, "export a Cosmographia catalog and trajectory")
	exportCmd.Flags().BoolVar(&exportConf.AsCSV, "csv", true, "export the samples as CSV")
	exportCmd.Flags().BoolVar(&exportConf.Timestamp, "timestamp", false, "append the current time to the file names")

	framesCmd.Flags().IntVar(&frameLimit, "limit", 0, "only render the first N frames (0 renders all)")

	rootCmd.AddCommand(sampleCmd, exportCmd, framesCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
