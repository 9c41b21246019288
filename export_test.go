package atlas

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/soniakeys/meeus/v3/julian"
	"gonum.org/v1/gonum/floats/scalar"
)

func TestInterpolatedStates(t *testing.T) {
	s := atlasSampler(t, TimeDomain{FromDays: -60, ToDays: 60, Samples: 13})
	samples := s.Collect()
	var buf bytes.Buffer
	if err := WriteInterpolatedStates(&buf, s, samples); err != nil {
		t.Fatal(err)
	}
	states, err := ParseInterpolatedStates(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(states) != len(samples) {
		t.Fatalf("%d states for %d samples", len(states), len(samples))
	}
	for k, state := range states {
		smpl := samples[k]
		if !scalar.EqualWithinAbs(state.JD, julian.TimeToJD(smpl.Date), 1e-6) {
			t.Fatalf("state #%d at JD %f", k, state.JD)
		}
		if !scalar.EqualWithinAbs(state.Position.Norm(), smpl.Radius*AU, 1e-3) {
			t.Fatalf("state #%d at %f km instead of %f", k, state.Position.Norm(), smpl.Radius*AU)
		}
		if v := state.Velocity.Norm(); v < 1 || v > 200 {
			t.Fatalf("state #%d moves at %f km/s", k, v)
		}
	}
	// At perihelion, the velocity is normal to the position.
	peri := states[6]
	if cosine := peri.Position.Unit().Dot(peri.Velocity.Unit()); !scalar.EqualWithinAbs(cosine, 0, 1e-6) {
		t.Fatalf("cos(R, V) = %f at perihelion", cosine)
	}
	if err := WriteInterpolatedStates(&buf, s, nil); err == nil {
		t.Fatal("exported an empty trajectory")
	}
}

func TestInterpolatedStateFromText(t *testing.T) {
	var state CgInterpolatedState
	if err := state.FromText([]string{"2460977.5", "1", "2", "3", "4", "5", "6"}); err != nil {
		t.Fatal(err)
	}
	if state.JD != 2460977.5 || state.Position != (Vector{1, 2, 3}) || state.Velocity != (Vector{4, 5, 6}) {
		t.Fatalf("parsed %+v", state)
	}
	if err := state.FromText([]string{"1", "2"}); err == nil {
		t.Fatal("short record accepted")
	}
	if err := state.FromText([]string{"1", "2", "3", "x", "5", "6", "7"}); err == nil {
		t.Fatal("invalid number accepted")
	}
}

func TestCatalog(t *testing.T) {
	o := atlasOrbit(t)
	c := NewCatalog(o.Name, "traj-atlas.xyzv", o.EpochAt(-60), o.EpochAt(60))
	if len(c.Items) != 1 {
		t.Fatalf("%d items", len(c.Items))
	}
	item := c.Items[0]
	if err := item.Trajectory.Validate(); err != nil {
		t.Fatal(err)
	}
	if item.Center != "Sun" || item.TrajectoryFrame != "EclipticJ2000" || item.TrajectoryPlot.Duration != "121 d" {
		t.Fatalf("item %+v", item)
	}
	data, err := json.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}
	var back CgCatalog
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.Items[0].Trajectory.Source != "traj-atlas.xyzv" {
		t.Fatalf("catalog %s", data)
	}
	bad := CgTrajectory{Type: "Keplerian", Source: "atlas.xyzv"}
	if bad.Validate() == nil {
		t.Fatal("only interpolated states are supported")
	}
}

func TestWriteCSV(t *testing.T) {
	s := atlasSampler(t, TimeDomain{FromDays: -1, ToDays: 1, Samples: 3})
	var buf bytes.Buffer
	if err := WriteCSV(&buf, s.Collect()); err != nil {
		t.Fatal(err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 4 {
		t.Fatalf("%d records", len(records))
	}
	if strings.Join(records[0], ",") != strings.Join(CSVHeader, ",") {
		t.Fatalf("header %v", records[0])
	}
	for k, exp := range []string{"APPROACHING", "CLOSEST APPROACH", "DEPARTING"} {
		if got := records[k+1][len(CSVHeader)-1]; got != exp {
			t.Fatalf("row %d: phase %s", k, got)
		}
	}
	if records[2][0] != "2025-10-29 00:00:00" {
		t.Fatalf("perihelion date %s", records[2][0])
	}
}

func TestExport(t *testing.T) {
	s := atlasSampler(t, TimeDomain{FromDays: -5, ToDays: 5, Samples: 11})
	dir := filepath.Join(t.TempDir(), "out")
	conf := ExportConfig{Filename: "atlas", Cosmo: true, AsCSV: true}
	paths, err := Export(dir, conf, s, s.Collect())
	if err != nil {
		t.Fatal(err)
	}
	exp := []string{"traj-atlas.xyzv", "catalog-atlas.json", "samples-atlas.csv"}
	if len(paths) != len(exp) {
		t.Fatalf("exported %v", paths)
	}
	for k, name := range exp {
		if paths[k] != filepath.Join(dir, name) {
			t.Fatalf("file #%d is %s", k, paths[k])
		}
		if info, err := os.Stat(paths[k]); err != nil || info.Size() == 0 {
			t.Fatalf("%s: %v", paths[k], err)
		}
	}
	if _, err := Export(dir, ExportConfig{Filename: "none"}, s, s.Collect()); err == nil {
		t.Fatal("useless export accepted")
	}
	if _, err := Export(dir, conf, s, nil); err == nil {
		t.Fatal("empty export accepted")
	}
}
