package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nzeal/picongpu/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if om != nil {
		t.Fatal("expected nil manager when output is disabled")
	}

	// All writes on a nil manager are no-ops.
	if err := om.WriteSuperCells(CollectSuperCells(testResult())); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := om.WriteSummary(Summary{}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := om.WritePerf(PerfStats{}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if om.Dir() != "" {
		t.Error("expected empty dir for disabled output")
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer om.Close()

	res := testResult()
	if err := om.WriteSuperCells(CollectSuperCells(res)); err != nil {
		t.Fatalf("writing supercells: %v", err)
	}
	// Second batch must not repeat the header.
	if err := om.WriteSuperCells(CollectSuperCells(res)); err != nil {
		t.Fatalf("writing supercells again: %v", err)
	}

	if err := om.WriteSummary(Summarize(res)); err != nil {
		t.Fatalf("writing summary: %v", err)
	}
	if err := om.WritePerf(PerfStats{Total: time.Millisecond, PhasePct: map[string]float64{}}); err != nil {
		t.Fatalf("writing perf: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("closing: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "supercells.csv"))
	if err != nil {
		t.Fatalf("reading supercells.csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	// Header + two batches of five rows.
	if len(lines) != 11 {
		t.Fatalf("expected 11 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "species") || !strings.Contains(lines[0], "particles") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if strings.Contains(lines[1], "species") {
		t.Error("expected the header to appear once")
	}

	summary, err := os.ReadFile(filepath.Join(dir, "summary.csv"))
	if err != nil {
		t.Fatalf("reading summary.csv: %v", err)
	}
	if !strings.Contains(string(summary), "total_particles") {
		t.Error("expected summary header")
	}

	perf, err := os.ReadFile(filepath.Join(dir, "perf.csv"))
	if err != nil {
		t.Fatalf("reading perf.csv: %v", err)
	}
	if !strings.Contains(string(perf), "total_us") {
		t.Error("expected perf header")
	}
}

func TestOutputManagerWritesConfigSnapshot(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer om.Close()

	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	snapshot := filepath.Join(dir, "config.yaml")
	if _, err := config.Load(snapshot); err != nil {
		t.Errorf("expected snapshot to load back, got %v", err)
	}
}
