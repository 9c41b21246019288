package atlas

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// CgCatalog is a Cosmographia catalog.
type CgCatalog struct {
	Version string     `json:"version"`
	Name    string     `json:"name"`
	Items   []*CgItems `json:"items"`
	Require []string   `json:"require,omitempty"`
}

func (c *CgCatalog) String() string {
	return c.Name + "(" + c.Version + ")"
}

// CgItems definition.
type CgItems struct {
	Class           string            `json:"class"`
	Name            string            `json:"name"`
	StartTime       string            `json:"startTime"`
	EndTime         string            `json:"endTime"`
	Center          string            `json:"center"`
	TrajectoryFrame string            `json:"trajectoryFrame"`
	Trajectory      *CgTrajectory     `json:"trajectory,omitempty"`
	Label           *CgLabel          `json:"label,omitempty"`
	TrajectoryPlot  *CgTrajectoryPlot `json:"trajectoryPlot,omitempty"`
}

// CgTrajectory definition.
type CgTrajectory struct {
	Type   string `json:"type,omitempty"`
	Source string `json:"source,omitempty"`
}

// Validate validates a CgTrajectory.
func (t *CgTrajectory) Validate() error {
	if t.Type != "InterpolatedStates" || !strings.HasSuffix(t.Source, "xyzv") {
		return errors.New("only InterpolatedStates are supported as Cosmographia trajectory types")
	}
	return nil
}

func (t *CgTrajectory) String() string {
	return t.Source + " as " + t.Type
}

// CgLabel definition.
type CgLabel struct {
	Color    []float64 `json:"color,omitempty"`
	FadeSize int       `json:"fadeSize,omitempty"`
	ShowText bool      `json:"showText,omitempty"`
}

// CgTrajectoryPlot definition.
type CgTrajectoryPlot struct {
	Color       []float64 `json:"color,omitempty"`
	LineWidth   int       `json:"lineWidth,omitempty"`
	Duration    string    `json:"duration,omitempty"`
	Lead        string    `json:"lead,omitempty"`
	Fade        int       `json:"fade,omitempty"`
	SampleCount int       `json:"sampleCount,omitempty"`
}

// CgInterpolatedState is one record of an .xyzv file.
type CgInterpolatedState struct {
	JD       float64
	Position Vector // km
	Velocity Vector // km/s
}

// FromText initializes from a record of seven items.
func (i *CgInterpolatedState) FromText(record []string) error {
	if len(record) != 7 {
		return fmt.Errorf("expected 7 fields, got %d", len(record))
	}
	var vals [7]float64
	for j, field := range record {
		val, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return fmt.Errorf("field %d: %w", j, err)
		}
		vals[j] = val
	}
	i.JD = vals[0]
	i.Position = Vector{vals[1], vals[2], vals[3]}
	i.Velocity = Vector{vals[4], vals[5], vals[6]}
	return nil
}

// ToText converts to text for written output.
func (i *CgInterpolatedState) ToText() string {
	return fmt.Sprintf("%f %f %f %f %f %f %f", i.JD, i.Position[0], i.Position[1], i.Position[2], i.Velocity[0], i.Velocity[1], i.Velocity[2])
}

// ParseInterpolatedStates reads the records of an .xyzv file, skipping comments.
func ParseInterpolatedStates(r io.Reader) ([]CgInterpolatedState, error) {
	var states []CgInterpolatedState
	cr := csv.NewReader(r)
	cr.Comma = ' '
	cr.Comment = '#'
	for {
		record, err := cr.Read()
		if err == io.EOF {
			return states, nil
		}
		if err != nil {
			return nil, err
		}
		var state CgInterpolatedState
		if err := state.FromText(record); err != nil {
			return nil, fmt.Errorf("record %d: %w", len(states), err)
		}
		states = append(states, state)
	}
}

// velocityStep is the half width of the central difference, in days.
const velocityStep = 1.0 / 1440

// StateOf returns the interpolated state of a sample. The velocity is the central
// difference of the positions one minute around the sample.
func StateOf(s *Sampler, smpl Sample) (CgInterpolatedState, error) {
	before, err := s.SampleAt(smpl.OffsetDays - velocityStep)
	if err != nil {
		return CgInterpolatedState{}, err
	}
	after, err := s.SampleAt(smpl.OffsetDays + velocityStep)
	if err != nil {
		return CgInterpolatedState{}, err
	}
	vel := after.Position.Sub(before.Position).Scale(AU / (2 * velocityStep * 86400))
	return CgInterpolatedState{
		JD:       julian.TimeToJD(smpl.Date),
		Position: smpl.Position.Scale(AU),
		Velocity: vel,
	}, nil
}

// WriteInterpolatedStates writes the .xyzv records of the samples to w.
func WriteInterpolatedStates(w io.Writer, s *Sampler, samples []Sample) error {
	if len(samples) == 0 {
		return errors.New("no samples to export")
	}
	if _, err := fmt.Fprintf(w, `# Creation date (UTC): %s
# Records are <jd> <x> <y> <z> <vel x> <vel y> <vel z>
#   Heliocentric ecliptic J2000 of %s
#   Position in km
#   Velocity in km/sec
#   Trajectory start (UTC): %s`, time.Now().UTC(), s.Orbit.Name, samples[0].Date.Format(dateFormat)); err != nil {
		return err
	}
	for _, smpl := range samples {
		state, err := StateOf(s, smpl)
		if err != nil {
			return fmt.Errorf("sample #%d: %w", smpl.Index, err)
		}
		if _, err := io.WriteString(w, "\n"+state.ToText()); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\n# Trajectory end (UTC): %s\n", samples[len(samples)-1].Date.Format(dateFormat))
	return err
}

// NewCatalog returns the catalog of a heliocentric trajectory stored in source.
func NewCatalog(name, source string, first, last time.Time) CgCatalog {
	color := []float64{0.6, 1, 1}
	days := int(last.Sub(first).Hours()/24) + 1
	item := &CgItems{
		Class:           "spacecraft",
		Name:            name,
		StartTime:       first.UTC().Format(time.RFC3339),
		EndTime:         last.UTC().Format(time.RFC3339),
		Center:          "Sun",
		TrajectoryFrame: "EclipticJ2000",
		Trajectory:      &CgTrajectory{Type: "InterpolatedStates", Source: source},
		Label:           &CgLabel{Color: color, FadeSize: 1000000, ShowText: true},
		TrajectoryPlot:  &CgTrajectoryPlot{Color: color, LineWidth: 1, Duration: fmt.Sprintf("%d d", days), Lead: "0 d", SampleCount: 10},
	}
	return CgCatalog{Version: "1.0", Name: name, Items: []*CgItems{item}}
}

// CSVHeader is the header of the sample exports.
var CSVHeader = []string{"date", "offset_days", "nu_deg", "x_au", "y_au", "z_au", "r_au", "v_kms", "phase"}

// WriteCSV writes one row per sample to w.
func WriteCSV(w io.Writer, samples []Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, smpl := range samples {
		row := []string{
			smpl.Date.Format(dateFormat),
			strconv.FormatFloat(smpl.OffsetDays, 'f', 6, 64),
			strconv.FormatFloat(Rad2deg180(smpl.Anomaly.ν), 'f', 6, 64),
			strconv.FormatFloat(smpl.Position[0], 'f', 9, 64),
			strconv.FormatFloat(smpl.Position[1], 'f', 9, 64),
			strconv.FormatFloat(smpl.Position[2], 'f', 9, 64),
			strconv.FormatFloat(smpl.Radius, 'f', 9, 64),
			strconv.FormatFloat(smpl.Speed, 'f', 6, 64),
			smpl.Phase().String(),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportConfig configures the exporting of a trajectory.
type ExportConfig struct {
	Filename  string
	Cosmo     bool
	AsCSV     bool
	Timestamp bool
}

// IsUseless returns whether this config doesn't actually do anything.
func (c ExportConfig) IsUseless() bool {
	return !c.Cosmo && !c.AsCSV
}

func (c ExportConfig) basename() string {
	name := c.Filename
	if c.Timestamp {
		t := time.Now()
		name = fmt.Sprintf("%s-%d-%02d-%02dT%02d.%02d.%02d", name, t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second())
	}
	return name
}

// Export writes the requested files to dir and returns their paths.
func Export(dir string, conf ExportConfig, s *Sampler, samples []Sample) ([]string, error) {
	if conf.IsUseless() {
		return nil, errors.New("nothing to export")
	}
	if len(samples) == 0 {
		return nil, errors.New("no samples to export")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	base := conf.basename()
	var paths []string
	if conf.Cosmo {
		source := "traj-" + base + ".xyzv"
		if err := writeFile(filepath.Join(dir, source), func(w io.Writer) error {
			return WriteInterpolatedStates(w, s, samples)
		}); err != nil {
			return paths, err
		}
		paths = append(paths, filepath.Join(dir, source))
		catalog := NewCatalog(s.Orbit.Name, source, samples[0].Date, samples[len(samples)-1].Date)
		catPath := filepath.Join(dir, "catalog-"+base+".json")
		if err := writeFile(catPath, func(w io.Writer) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(catalog)
		}); err != nil {
			return paths, err
		}
		paths = append(paths, catPath)
	}
	if conf.AsCSV {
		csvPath := filepath.Join(dir, "samples-"+base+".csv")
		if err := writeFile(csvPath, func(w io.Writer) error {
			return WriteCSV(w, samples)
		}); err != nil {
			return paths, err
		}
		paths = append(paths, csvPath)
	}
	return paths, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
