package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/nzeal/picongpu/config"
)

// OutputManager handles structured seeding output with CSV logging.
type OutputManager struct {
	dir          string
	superCells   *os.File
	summary      *os.File
	perf         *os.File

	// Track if headers have been written
	superCellsHeaderWritten bool
	summaryHeaderWritten    bool
	perfHeaderWritten       bool
}

// NewOutputManager creates an output manager and initializes the output
// directory. Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "supercells.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating supercells.csv: %w", err)
	}
	om.superCells = f

	f, err = os.Create(filepath.Join(dir, "summary.csv"))
	if err != nil {
		om.superCells.Close()
		return nil, fmt.Errorf("creating summary.csv: %w", err)
	}
	om.summary = f

	f, err = os.Create(filepath.Join(dir, "perf.csv"))
	if err != nil {
		om.superCells.Close()
		om.summary.Close()
		return nil, fmt.Errorf("creating perf.csv: %w", err)
	}
	om.perf = f

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteSuperCells writes per-supercell rows to supercells.csv.
func (om *OutputManager) WriteSuperCells(rows []SuperCellStats) error {
	if om == nil || len(rows) == 0 {
		return nil
	}

	if !om.superCellsHeaderWritten {
		if err := gocsv.Marshal(rows, om.superCells); err != nil {
			return fmt.Errorf("writing supercells: %w", err)
		}
		om.superCellsHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(rows, om.superCells); err != nil {
			return fmt.Errorf("writing supercells: %w", err)
		}
	}
	return nil
}

// WriteSummary writes a species summary record to summary.csv.
func (om *OutputManager) WriteSummary(s Summary) error {
	if om == nil {
		return nil
	}

	records := []Summary{s}
	if !om.summaryHeaderWritten {
		if err := gocsv.Marshal(records, om.summary); err != nil {
			return fmt.Errorf("writing summary: %w", err)
		}
		om.summaryHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.summary); err != nil {
			return fmt.Errorf("writing summary: %w", err)
		}
	}
	return nil
}

// WritePerf writes a run timing record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats) error {
	if om == nil {
		return nil
	}

	records := []PerfStatsCSV{stats.ToCSV()}
	if !om.perfHeaderWritten {
		if err := gocsv.Marshal(records, om.perf); err != nil {
			return fmt.Errorf("writing perf: %w", err)
		}
		om.perfHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.perf); err != nil {
			return fmt.Errorf("writing perf: %w", err)
		}
	}
	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, f := range []*os.File{om.superCells, om.summary, om.perf} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
