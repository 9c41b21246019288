package atlas

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/spf13/viper"
)

// ConfigEnv is the environment variable holding the path of the configuration file.
const ConfigEnv = "ATLAS_CONFIG"

// Config is the configuration of a run. The zero configuration file reproduces the
// 3I/ATLAS reference run.
type Config struct {
	Name                             string
	Eccentricity, Perihelion         float64 // e and q (AU)
	Inclination, Node, ArgPerihelion float64 // i, Ω, ω in degrees
	Epoch                            time.Time
	Domain                           TimeDomain
	Solver                           KeplerSolver
	VSOP87Dir                        string
	Planets                          []Body
	Offsets                          map[string]float64
	TrackPoints                      int
	Render                           RenderConfig
	OutputDir                        string
	MetricsFile                      string
	Verbose                          bool
}

// RenderConfig configures the frames.
type RenderConfig struct {
	Width, Height      float64 // in inches
	DPI                int
	Tail               int     // number of past samples drawn behind the body
	Uncertainty        Vector  // 3σ ellipsoid semi-axes in AU
	ZoomStart, ZoomEnd float64 // half width of the view in AU
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("orbit.name", "3I/ATLAS")
	v.SetDefault("orbit.e", 6.1386)
	v.SetDefault("orbit.q", 1.3563)
	v.SetDefault("orbit.i", 175.1130)
	v.SetDefault("orbit.node", 322.1559)
	v.SetDefault("orbit.peri", 128.0111)
	v.SetDefault("orbit.perihelion", "2025-10-29 00:00:00")
	v.SetDefault("sampling.from", -60.0)
	v.SetDefault("sampling.to", 60.0)
	v.SetDefault("sampling.samples", 1000)
	v.SetDefault("solver.tolerance", DefaultKeplerTolerance)
	v.SetDefault("solver.max_iterations", DefaultKeplerMaxIterations)
	v.SetDefault("solver.residual", DefaultKeplerResidual)
	v.SetDefault("ephemeris.vsop87", "")
	v.SetDefault("ephemeris.planets", []string{"mercury", "venus", "earth", "mars", "jupiter", "saturn"})
	v.SetDefault("ephemeris.track_points", 300)
	v.SetDefault("render.width", 14.0)
	v.SetDefault("render.height", 10.0)
	v.SetDefault("render.dpi", 100)
	v.SetDefault("render.tail", 20)
	v.SetDefault("render.uncertainty", []float64{0.02, 0.01, 0.007})
	v.SetDefault("render.zoom_start", 0.1)
	v.SetDefault("render.zoom_end", 1.2)
	v.SetDefault("general.output_path", "output")
	v.SetDefault("general.verbose", false)
	v.SetDefault("metrics.textfile", "")
}

// LoadConfig reads the TOML configuration at path. An empty path only uses the defaults
// and the ATLAS_* environment variables (e.g. ATLAS_ORBIT_E).
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("ATLAS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("could not read %s: %w", path, err)
		}
	}
	return configFrom(v)
}

func configFrom(v *viper.Viper) (Config, error) {
	epoch, err := confReadJDEorTime(v, "orbit.perihelion")
	if err != nil {
		return Config{}, err
	}
	conf := Config{
		Name:          v.GetString("orbit.name"),
		Eccentricity:  v.GetFloat64("orbit.e"),
		Perihelion:    v.GetFloat64("orbit.q"),
		Inclination:   v.GetFloat64("orbit.i"),
		Node:          v.GetFloat64("orbit.node"),
		ArgPerihelion: v.GetFloat64("orbit.peri"),
		Epoch:         epoch,
		Domain: TimeDomain{
			FromDays: v.GetFloat64("sampling.from"),
			ToDays:   v.GetFloat64("sampling.to"),
			Samples:  v.GetInt("sampling.samples"),
		},
		Solver: KeplerSolver{
			Tolerance:     v.GetFloat64("solver.tolerance"),
			MaxIterations: v.GetInt("solver.max_iterations"),
			Residual:      v.GetFloat64("solver.residual"),
		},
		VSOP87Dir:   v.GetString("ephemeris.vsop87"),
		Offsets:     make(map[string]float64),
		TrackPoints: v.GetInt("ephemeris.track_points"),
		Render: RenderConfig{
			Width:     v.GetFloat64("render.width"),
			Height:    v.GetFloat64("render.height"),
			DPI:       v.GetInt("render.dpi"),
			Tail:      v.GetInt("render.tail"),
			ZoomStart: v.GetFloat64("render.zoom_start"),
			ZoomEnd:   v.GetFloat64("render.zoom_end"),
		},
		OutputDir:   v.GetString("general.output_path"),
		MetricsFile: v.GetString("metrics.textfile"),
		Verbose:     v.GetBool("general.verbose"),
	}
	for _, name := range v.GetStringSlice("ephemeris.planets") {
		b, err := BodyFromString(name)
		if err != nil {
			return Config{}, fmt.Errorf("ephemeris.planets: %w", err)
		}
		conf.Planets = append(conf.Planets, b)
		key := "ephemeris.offsets." + strings.ToLower(b.Name)
		if v.IsSet(key) {
			conf.Offsets[strings.ToLower(b.Name)] = v.GetFloat64(key)
		}
	}
	axes, err := floatSlice(v.Get("render.uncertainty"))
	if err != nil || len(axes) != 3 {
		return Config{}, fmt.Errorf("render.uncertainty must hold three semi-axes in AU, got %v", v.Get("render.uncertainty"))
	}
	conf.Render.Uncertainty = Vector{axes[0], axes[1], axes[2]}
	return conf, conf.Validate()
}

// confReadJDEorTime reads either a Julian date or a date string under key.
func confReadJDEorTime(v *viper.Viper, key string) (time.Time, error) {
	if jd := v.GetFloat64(key + "_jd"); jd != 0 {
		return julian.JDToTime(jd).UTC(), nil
	}
	str := v.GetString(key)
	for _, layout := range []string{dateFormat, "2006-01-02", time.RFC3339} {
		if dt, err := time.Parse(layout, str); err == nil {
			return dt.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("could not understand `%s`: %q", key, str)
}

func floatSlice(raw interface{}) ([]float64, error) {
	switch vals := raw.(type) {
	case []float64:
		return vals, nil
	case []interface{}:
		out := make([]float64, len(vals))
		for i, val := range vals {
			switch f := val.(type) {
			case float64:
				out[i] = f
			case int64:
				out[i] = float64(f)
			case int:
				out[i] = float64(f)
			default:
				return nil, fmt.Errorf("not a number: %v", val)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("not a list: %v", raw)
	}
}

// Validate checks the configuration and the orbital elements.
func (c Config) Validate() error {
	if _, err := c.Orbit(); err != nil {
		return err
	}
	if err := c.Domain.Validate(); err != nil {
		return err
	}
	if err := c.Solver.Validate(); err != nil {
		return err
	}
	if c.Render.Width <= 0 || c.Render.Height <= 0 || c.Render.DPI <= 0 {
		return fmt.Errorf("render size must be positive, got %gx%g in @ %d dpi", c.Render.Width, c.Render.Height, c.Render.DPI)
	}
	if c.Render.Tail < 0 {
		return errors.New("render.tail must not be negative")
	}
	if c.Render.ZoomStart <= 0 || c.Render.ZoomEnd <= 0 {
		return errors.New("render zoom must be positive")
	}
	return nil
}

// Orbit returns the orbit of the configured orbital elements.
func (c Config) Orbit() (*HyperbolicOrbit, error) {
	return NewHyperbolicOrbit(c.Name, c.Eccentricity, c.Perihelion, c.Inclination, c.Node, c.ArgPerihelion, c.Epoch)
}

// Sampler returns the sampler of the configured orbit and time domain.
func (c Config) Sampler() (*Sampler, error) {
	o, err := c.Orbit()
	if err != nil {
		return nil, err
	}
	return NewSampler(o, c.Solver, c.Domain)
}

func (c Config) String() string {
	return fmt.Sprintf("%s e=%g q=%g i=%g Ω=%g ω=%g Tp=%s %s", c.Name, c.Eccentricity, c.Perihelion, c.Inclination, c.Node, c.ArgPerihelion, c.Epoch.Format(dateFormat), c.Domain)
}
