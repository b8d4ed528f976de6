// internal/storage/memory/export.go
package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rescuesim/simulator/internal/model"
	"github.com/rescuesim/simulator/pkg/core"
)

// RunExport is the root JSON structure of the artifact file.
type RunExport struct {
	Simulation *model.Simulation   `json:"simulation"`
	Summary    core.Summary        `json:"summary"`
	Events     []core.TickEvents   `json:"events"`
	Snapshots  []core.TickSnapshot `json:"snapshots,omitempty"`
}

// exportJSON writes the run data to a JSON file, gzipped when configured.
// Callers hold b.mu.
func (b *Backend) exportJSON() error {
	export := RunExport{
		Simulation: b.sim,
		Summary:    b.summary,
		Events:     b.events,
		Snapshots:  b.snapshots,
	}

	var seed int64
	if b.sim != nil {
		seed = b.sim.Seed
	}
	timestamp := time.Now().Format("20060102_150405")

	var filename string
	if b.cfg.CompressOutput {
		filename = fmt.Sprintf("run_%d_%s.json.gz", seed, timestamp)
	} else {
		filename = fmt.Sprintf("run_%d_%s.json", seed, timestamp)
	}

	outputPath := filepath.Join(b.cfg.OutputDir, filename)

	if err := os.MkdirAll(b.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if b.cfg.CompressOutput {
		if err := writeGzipJSON(outputPath, export); err != nil {
			return err
		}
	} else {
		if err := writeJSON(outputPath, export); err != nil {
			return err
		}
	}

	b.exportedPath = outputPath
	return nil
}

func writeJSON(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	return nil
}

func writeGzipJSON(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	enc := json.NewEncoder(gz)
	if err := enc.Encode(v); err != nil {
		gz.Close()
		return fmt.Errorf("failed to encode export: %w", err)
	}
	return gz.Close()
}
