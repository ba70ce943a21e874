package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/san-kum/dpend/internal/dynamo"
)

func sampleTrajectory() *dynamo.Trajectory {
	return &dynamo.Trajectory{
		Params: dynamo.DefaultParams(),
		Dt:     0.02,
		Samples: []dynamo.Sample{
			{Time: 0, State: dynamo.State{math.Pi / 4, 0, math.Pi / 4, 0}},
			{Time: 0.02, State: dynamo.State{0.7834567891234567, -0.1234567890123456, 0.78, 1e-17}},
		},
	}
}

func sampleMeta() RunMetadata {
	return RunMetadata{
		Params:    dynamo.DefaultParams(),
		Initial:   dynamo.State{math.Pi / 4, 0, math.Pi / 4, 0},
		Dt:        0.02,
		Duration:  0.02,
		Method:    "dopri5",
		Tolerance: dynamo.DefaultTolerance(),
		Metrics:   map[string]float64{"energy": -12.5},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	tr := sampleTrajectory()
	runID, err := st.Save(sampleMeta(), tr)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Method != "dopri5" {
		t.Errorf("expected method 'dopri5', got '%s'", meta.Method)
	}
	if meta.Samples != 2 {
		t.Errorf("expected 2 samples, got %d", meta.Samples)
	}
	if meta.Metrics["energy"] != -12.5 {
		t.Errorf("expected energy -12.5, got %f", meta.Metrics["energy"])
	}

	_, loaded, err := st.LoadTrajectory(runID[:8])
	if err != nil {
		t.Fatalf("load trajectory failed: %v", err)
	}
	if diff := cmp.Diff(tr, loaded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	for i := 0; i < 2; i++ {
		if _, err := st.Save(sampleMeta(), sampleTrajectory()); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestStoreSaveFailureLeavesNoRun(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	meta := sampleMeta()
	meta.Metrics = map[string]float64{"lyapunov": math.NaN()}
	if _, err := st.Save(meta, sampleTrajectory()); err == nil {
		t.Fatal("expected save to fail on unencodable metrics")
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no run directories, found %d", len(entries))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(sampleMeta(), sampleTrajectory())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	if _, err := os.Stat(filepath.Join(runDir, "metadata.json")); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}

	data, err := os.ReadFile(filepath.Join(runDir, "trajectory.csv"))
	if err != nil {
		t.Fatalf("trajectory.csv not created: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if lines[0] != "t,theta1,omega1,theta2,omega2" {
		t.Errorf("header = %q", lines[0])
	}
	if len(lines) != 3 {
		t.Errorf("expected 3 lines, got %d", len(lines))
	}
}

func TestStoreResolve(t *testing.T) {
	st := New(t.TempDir())

	if _, err := st.Load("missing"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("err = %v, want ErrRunNotFound", err)
	}

	for _, dir := range []string{"abc1", "abc2"} {
		if err := os.MkdirAll(filepath.Join(st.baseDir, dir), 0755); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := st.Resolve("abc"); !errors.Is(err, ErrAmbiguousRun) {
		t.Errorf("err = %v, want ErrAmbiguousRun", err)
	}
	if id, err := st.Resolve("abc2"); err != nil || id != "abc2" {
		t.Errorf("Resolve(abc2) = %q, %v", id, err)
	}
}

func TestChecksum(t *testing.T) {
	a, b := sampleTrajectory(), sampleTrajectory()
	if Checksum(a) != Checksum(b) {
		t.Error("identical trajectories must share a checksum")
	}
	b.Samples[1].State[dynamo.Omega2] = math.Nextafter(b.Samples[1].State[dynamo.Omega2], 1)
	if Checksum(a) == Checksum(b) {
		t.Error("a one-ulp change must alter the checksum")
	}
}

func TestLoadDetectsTampering(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(sampleMeta(), sampleTrajectory())
	if err != nil {
		t.Fatal(err)
	}

	csvPath := filepath.Join(tmpDir, runID, "trajectory.csv")
	data, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatal(err)
	}
	tampered := strings.Replace(string(data), "0.78,", "0.79,", 1)
	if err := os.WriteFile(csvPath, []byte(tampered), 0644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := st.LoadTrajectory(runID); !errors.Is(err, ErrChecksum) {
		t.Errorf("err = %v, want ErrChecksum", err)
	}
}

func TestReadCSVRejectsBadRows(t *testing.T) {
	in := "t,theta1,omega1,theta2,omega2\n0,1,2,x,4\n"
	if _, err := ReadCSV(strings.NewReader(in)); err == nil {
		t.Error("expected parse error")
	}

	in = "t,theta1,omega1,theta2,omega2\n0,1,2\n"
	if _, err := ReadCSV(strings.NewReader(in)); err == nil {
		t.Error("expected field count error")
	}
}

func TestWriteJSON(t *testing.T) {
	tr := sampleTrajectory()
	var buf bytes.Buffer
	if err := WriteJSON(&buf, NewExportData("dopri5", 0.02, tr, nil)); err != nil {
		t.Fatal(err)
	}

	var got ExportData
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Steps != 2 || len(got.Positions) != 2 {
		t.Fatalf("steps = %d, positions = %d", got.Steps, len(got.Positions))
	}
	want := dynamo.PositionOf(tr.Samples[0].State)
	if math.Abs(got.Positions[0].X2-want.X2) > 1e-15 {
		t.Errorf("x2 = %v, want %v", got.Positions[0].X2, want.X2)
	}
}
