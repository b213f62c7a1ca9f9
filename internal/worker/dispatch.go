package worker

import (
	"fmt"

	"github.com/trafficlab/roadsim/internal/dispatcher"
	"github.com/trafficlab/roadsim/pkg/core"
)

// Commands routed through the dispatcher.
const (
	CmdExperimentStart = ":EXPERIMENT:START:"
	CmdExperimentEnd   = ":EXPERIMENT:END:"
	CmdRunResult       = ":RUN:RESULT:"
	CmdTrace           = ":TICK:TRACE:"
)

// RegisterHandlers registers all event handlers with the dispatcher.
func (m *Manager) RegisterHandlers(d *dispatcher.Dispatcher) {
	// Experiment lifecycle - sync (the experiment row must exist before
	// runs arrive)
	d.Register(CmdExperimentStart, m.handleExperimentStart, dispatcher.Logged())
	d.Register(CmdExperimentEnd, m.handleExperimentEnd, dispatcher.Logged())

	// Run results - sync (each marks a run boundary and flushes the
	// trace buffer; must land before the experiment summary closes out)
	d.Register(CmdRunResult, m.handleRunResult, dispatcher.Logged())

	// High-volume per-tick trace - a sync push into the batch queue;
	// the queue, not the channel, provides the buffering here
	d.Register(CmdTrace, m.handleTrace)
}

func (m *Manager) handleExperimentStart(e dispatcher.Event) (any, error) {
	exp, ok := e.Payload.(*core.Experiment)
	if !ok {
		return nil, fmt.Errorf("unexpected payload for %s: %T", e.Command, e.Payload)
	}

	if err := m.backend.StartExperiment(exp); err != nil {
		return nil, fmt.Errorf("failed to start experiment: %w", err)
	}
	return nil, nil
}

func (m *Manager) handleExperimentEnd(e dispatcher.Event) (any, error) {
	summary, ok := e.Payload.(*core.Summary)
	if !ok {
		return nil, fmt.Errorf("unexpected payload for %s: %T", e.Command, e.Payload)
	}

	// Flush any traces from the final run before closing out.
	if err := m.flushTraces(); err != nil {
		return nil, fmt.Errorf("failed to flush trace events: %w", err)
	}

	if err := m.backend.EndExperiment(summary); err != nil {
		return nil, fmt.Errorf("failed to end experiment: %w", err)
	}
	return nil, nil
}

func (m *Manager) handleRunResult(e dispatcher.Event) (any, error) {
	res, ok := e.Payload.(*core.RunResult)
	if !ok {
		return nil, fmt.Errorf("unexpected payload for %s: %T", e.Command, e.Payload)
	}

	// A run result marks a run boundary; flush its buffered traces first.
	if err := m.flushTraces(); err != nil {
		return nil, fmt.Errorf("failed to flush trace events: %w", err)
	}

	if err := m.backend.RecordRun(res); err != nil {
		return nil, fmt.Errorf("failed to record run: %w", err)
	}
	return nil, nil
}

func (m *Manager) handleTrace(e dispatcher.Event) (any, error) {
	t, ok := e.Payload.(core.TraceEvent)
	if !ok {
		return nil, fmt.Errorf("unexpected payload for %s: %T", e.Command, e.Payload)
	}

	m.traceQueue.Push(t)
	return nil, nil
}
