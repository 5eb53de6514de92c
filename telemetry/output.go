package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/shallows/components"
	"github.com/pthm-cable/shallows/config"
)

// OutputManager handles structured experiment output with CSV logging.
type OutputManager struct {
	dir           string
	telemetryFile *os.File
	perfFile      *os.File

	// Track if headers have been written
	telemetryHeaderWritten bool
	perfHeaderWritten      bool
}

// ParticleRecord is one row of a particle snapshot CSV.
type ParticleRecord struct {
	ID            int     `csv:"id"`
	Attr          string  `csv:"attr"`
	X             float64 `csv:"x"`
	Y             float64 `csv:"y"`
	VX            float64 `csv:"vx"`
	VY            float64 `csv:"vy"`
	Height        float64 `csv:"height"`
	Density       float64 `csv:"density"`
	InterpDensity float64 `csv:"interp_density"`
	R             float64 `csv:"r"`
	G             float64 `csv:"g"`
	B             float64 `csv:"b"`
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	// Create output directory
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	// Open telemetry.csv
	telemetryPath := filepath.Join(dir, "telemetry.csv")
	f, err := os.Create(telemetryPath)
	if err != nil {
		return nil, fmt.Errorf("creating telemetry.csv: %w", err)
	}
	om.telemetryFile = f

	// Open perf.csv
	perfPath := filepath.Join(dir, "perf.csv")
	f, err = os.Create(perfPath)
	if err != nil {
		om.telemetryFile.Close()
		return nil, fmt.Errorf("creating perf.csv: %w", err)
	}
	om.perfFile = f

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	configPath := filepath.Join(om.dir, "config.yaml")
	return cfg.WriteYAML(configPath)
}

// WriteTelemetry writes a window stats record to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}

	records := []WindowStats{stats}

	if !om.telemetryHeaderWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, om.telemetryFile); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
		om.telemetryHeaderWritten = true
	} else {
		// Subsequent writes skip headers
		if err := gocsv.MarshalWithoutHeaders(records, om.telemetryFile); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
	}

	return nil
}

// WritePerf writes a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int64) error {
	if om == nil {
		return nil
	}

	csvRecord := stats.ToCSV(windowEnd)
	records := []PerfStatsCSV{csvRecord}

	if !om.perfHeaderWritten {
		if err := gocsv.Marshal(records, om.perfFile); err != nil {
			return fmt.Errorf("writing perf: %w", err)
		}
		om.perfHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.perfFile); err != nil {
			return fmt.Errorf("writing perf: %w", err)
		}
	}

	return nil
}

// ParticleRecords flattens a snapshot into CSV rows.
func ParticleRecords(snap *components.Snapshot) []ParticleRecord {
	records := make([]ParticleRecord, snap.Len())
	for i := range records {
		records[i] = ParticleRecord{
			ID:            i,
			Attr:          snap.Attr[i].String(),
			X:             snap.Pos[i].X,
			Y:             snap.Pos[i].Y,
			VX:            snap.Vel[i].X,
			VY:            snap.Vel[i].Y,
			Height:        snap.Height[i],
			Density:       snap.Density[i],
			InterpDensity: snap.InterpDensity[i],
			R:             snap.Color[i].X,
			G:             snap.Color[i].Y,
			B:             snap.Color[i].Z,
		}
	}
	return records
}

// WriteParticles saves a full particle snapshot to particles_<step>.csv.
func (om *OutputManager) WriteParticles(snap *components.Snapshot) error {
	if om == nil {
		return nil
	}

	path := filepath.Join(om.dir, fmt.Sprintf("particles_%08d.csv", snap.Step))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating particle snapshot: %w", err)
	}
	defer f.Close()

	if err := gocsv.Marshal(ParticleRecords(snap), f); err != nil {
		return fmt.Errorf("writing particle snapshot: %w", err)
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

	if om.telemetryFile != nil {
		if err := om.telemetryFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if om.perfFile != nil {
		if err := om.perfFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
