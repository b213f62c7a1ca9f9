// internal/storage/storage.go
package storage

import "github.com/trafficlab/roadsim/pkg/core"

// Backend is the interface all storage implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Experiment management (StartExperiment assigns ID to the passed pointer)
	StartExperiment(e *core.Experiment) error
	EndExperiment(s *core.Summary) error

	// Result recording
	RecordRun(r *core.RunResult) error
	RecordTrace(t *core.TraceEvent) error
}

// Exportable is an optional interface for storage backends that produce a
// result file on EndExperiment.
type Exportable interface {
	ExportedFilePath() string
}
