// internal/storage/memory/memory.go
package memory

import (
	"fmt"
	"sync"

	"github.com/trafficlab/roadsim/internal/config"
	"github.com/trafficlab/roadsim/pkg/core"
)

// Backend stores experiment data in memory and exports to JSON on
// EndExperiment.
type Backend struct {
	cfg        config.MemoryConfig
	experiment *core.Experiment
	summary    *core.Summary

	runs   []core.RunResult
	traces []core.TraceEvent

	lastExportPath string
	mu             sync.RWMutex
}

// New creates a new memory backend
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{
		cfg: cfg,
	}
}

// Init initializes the backend
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

// StartExperiment begins recording a new experiment
func (b *Backend) StartExperiment(e *core.Experiment) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	e.ID = 1
	b.experiment = e
	b.summary = nil
	b.runs = nil
	b.traces = nil

	return nil
}

// EndExperiment finalizes and exports the experiment data
func (b *Backend) EndExperiment(s *core.Summary) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.experiment == nil {
		return fmt.Errorf("no experiment in progress")
	}
	b.summary = s

	return b.exportJSON()
}

// RecordRun records one run result
func (b *Backend) RecordRun(r *core.RunResult) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.runs = append(b.runs, *r)
	return nil
}

// RecordTrace records one per-tick trace event
func (b *Backend) RecordTrace(t *core.TraceEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.traces = append(b.traces, *t)
	return nil
}

// Runs returns a copy of the recorded run results.
func (b *Backend) Runs() []core.RunResult {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]core.RunResult, len(b.runs))
	copy(out, b.runs)
	return out
}

// ExportedFilePath returns the path of the last JSON export.
func (b *Backend) ExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastExportPath
}
