package storage

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/throwsim/internal/flight"
)

func sampleResult() *flight.Result {
	return &flight.Result{
		Times: []float64{0.0, 0.5, 1.0},
		States: []flight.State{
			{0, 2, 2, 8, 4, -7},
			{4, 2.775, -1.5, 8, -0.9, -7},
			{8, 1.1, -5, 8, -5.8, -7},
		},
		Metrics: map[string]float64{
			"apex_height": 2.816327,
		},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save("axe", "rk4", 0.5, 1.0, map[string]float64{"gravity": 9.81}, sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Fatal("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if meta.Body != "axe" {
		t.Errorf("expected body 'axe', got '%s'", meta.Body)
	}
	if meta.Integrator != "rk4" {
		t.Errorf("expected integrator 'rk4', got '%s'", meta.Integrator)
	}
	if meta.Metrics["apex_height"] != 2.816327 {
		t.Errorf("metric lost: %f", meta.Metrics["apex_height"])
	}
	if meta.Params["gravity"] != 9.81 {
		t.Errorf("params lost: %v", meta.Params)
	}
	if len(meta.Release) != flight.StateLen || meta.Release[flight.IOmega] != -7 {
		t.Errorf("release state lost: %v", meta.Release)
	}

	states, times, err := st.LoadStates(runID)
	if err != nil {
		t.Fatalf("load states failed: %v", err)
	}
	if len(states) != 3 || len(times) != 3 {
		t.Fatalf("expected 3 samples, got %d states / %d times", len(states), len(times))
	}
	if math.Abs(states[2][flight.IY]-1.1) > 1e-6 {
		t.Errorf("final y roundtrip: got %f, want 1.1", states[2][flight.IY])
	}
	if times[1] != 0.5 {
		t.Errorf("time roundtrip: got %f, want 0.5", times[1])
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if _, err := st.Save("axe", "rk4", 0.01, 1.0, nil, sampleResult()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := st.Save("knife", "euler", 0.01, 1.0, nil, sampleResult()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}

	// Distinct IDs even for back-to-back saves.
	if runs[0].ID == runs[1].ID {
		t.Error("run ids collided")
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "never-created"))
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected empty list, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save("axe", "rk4", 0.5, 1.0, nil, sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	if st.Dir(runID) != runDir {
		t.Errorf("Dir mismatch: %s vs %s", st.Dir(runID), runDir)
	}

	if _, err := os.Stat(filepath.Join(runDir, "metadata.json")); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}

	csvData, err := os.ReadFile(filepath.Join(runDir, "states.csv"))
	if err != nil {
		t.Fatalf("states.csv not created: %v", err)
	}
	header := strings.SplitN(string(csvData), "\n", 2)[0]
	if header != "time,x,y,theta,vx,vy,omega" {
		t.Errorf("unexpected header: %q", header)
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportJSON(&buf, "axe", "rk4", 0.5, 1.0, sampleResult()); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("export not valid JSON: %v", err)
	}

	if data.Body != "axe" || data.Steps != 3 {
		t.Errorf("unexpected export envelope: %+v", data)
	}
	if len(data.States) != 3 || data.States[2][flight.ITheta] != -5 {
		t.Errorf("states not exported: %v", data.States)
	}
}

func TestExportCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportCSV(&buf, sampleResult()); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + 3 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[3], "1.000000,8.000000,1.100000,-5.000000") {
		t.Errorf("unexpected final row: %q", lines[3])
	}
}

func TestExportCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportCSV(&buf, &flight.Result{}); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output for empty result, got %q", buf.String())
	}
}
