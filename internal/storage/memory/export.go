// internal/storage/memory/export.go
package memory

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/trafficlab/roadsim/pkg/core"
)

// Export is the root JSON structure written on EndExperiment.
type Export struct {
	Experiment core.Experiment   `json:"experiment"`
	Summary    *core.Summary     `json:"summary,omitempty"`
	Runs       []core.RunResult  `json:"runs"`
	Traces     []core.TraceEvent `json:"traces,omitempty"`
}

// exportJSON writes the experiment data to a (optionally gzipped) JSON file.
// Caller holds the lock.
func (b *Backend) exportJSON() error {
	export := Export{
		Experiment: *b.experiment,
		Summary:    b.summary,
		Runs:       b.runs,
		Traces:     b.traces,
	}

	// Build filename
	name := strings.ReplaceAll(b.experiment.Name, " ", "_")
	name = strings.ReplaceAll(name, ":", "_")
	timestamp := b.experiment.StartedAt.Format("20060102_150405")

	var filename string
	if b.cfg.CompressOutput {
		filename = fmt.Sprintf("%s_%s.json.gz", name, timestamp)
	} else {
		filename = fmt.Sprintf("%s_%s.json", name, timestamp)
	}

	outputPath := filepath.Join(b.cfg.OutputDir, filename)

	// Ensure output directory exists
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

	b.lastExportPath = outputPath
	return nil
}

func writeJSON(path string, v any) error {
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

func writeGzipJSON(path string, v any) error {
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
