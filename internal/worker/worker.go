package worker

import (
	"github.com/trafficlab/roadsim/internal/logging"
	"github.com/trafficlab/roadsim/internal/queue"
	"github.com/trafficlab/roadsim/internal/storage"
	"github.com/trafficlab/roadsim/pkg/core"
)

// Dependencies holds all dependencies for the worker manager
type Dependencies struct {
	LogManager *logging.SlogManager
}

// Manager bridges dispatcher events to the storage backend. Trace events
// are buffered per run and flushed at run boundaries.
type Manager struct {
	deps    Dependencies
	backend storage.Backend

	traceQueue *queue.Queue[core.TraceEvent]
}

// NewManager creates a new worker manager
func NewManager(deps Dependencies, backend storage.Backend) *Manager {
	return &Manager{
		deps:       deps,
		backend:    backend,
		traceQueue: queue.New[core.TraceEvent](),
	}
}

// flushTraces writes all buffered trace events to the backend.
func (m *Manager) flushTraces() error {
	for _, t := range m.traceQueue.Drain() {
		if err := m.backend.RecordTrace(&t); err != nil {
			return err
		}
	}
	return nil
}
