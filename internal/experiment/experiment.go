// Package experiment drives repeated simulation runs and aggregates their
// finished counts into a summary. It sits outside the engine: it consumes
// only run results and never reaches into per-tick state.
package experiment

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/trafficlab/roadsim/internal/config"
	"github.com/trafficlab/roadsim/internal/dispatcher"
	"github.com/trafficlab/roadsim/internal/influx"
	"github.com/trafficlab/roadsim/internal/logging"
	"github.com/trafficlab/roadsim/internal/sim"
	"github.com/trafficlab/roadsim/internal/worker"
	"github.com/trafficlab/roadsim/pkg/core"
)

// Dependencies holds all dependencies for the experiment driver
type Dependencies struct {
	LogManager *logging.SlogManager
	Dispatcher *dispatcher.Dispatcher
	// Influx is optional; nil disables metric writes.
	Influx *influx.Manager
}

// Driver runs the configured number of simulations and aggregates results.
type Driver struct {
	deps   Dependencies
	simCfg sim.Config
	expCfg config.ExperimentConfig
}

// NewDriver creates an experiment driver.
func NewDriver(deps Dependencies, simCfg sim.Config, expCfg config.ExperimentConfig) *Driver {
	return &Driver{
		deps:   deps,
		simCfg: simCfg,
		expCfg: expCfg,
	}
}

// traceForwarder adapts the engine's trace sink to dispatcher events.
type traceForwarder struct {
	d        *dispatcher.Dispatcher
	runIndex int
	expID    uint
}

func (f *traceForwarder) Record(ev sim.TraceEvent) {
	notes := make([]string, len(ev.Notes))
	for i, n := range ev.Notes {
		notes[i] = string(n)
	}
	f.d.Dispatch(dispatcher.Event{
		Command: worker.CmdTrace,
		Payload: core.TraceEvent{
			ExperimentID: f.expID,
			RunIndex:     f.runIndex,
			VehicleID:    ev.VehicleID,
			Tick:         ev.Tick,
			Position:     ev.Position,
			Speed:        ev.Speed,
			Notes:        notes,
		},
		Timestamp: time.Now(),
	})
}

// Run executes the whole experiment and returns its summary. Each run gets
// its own stream seeded from the base seed plus the run index, so runs are
// independently reproducible.
func (d *Driver) Run() (core.Summary, error) {
	if err := d.simCfg.Validate(); err != nil {
		return core.Summary{}, fmt.Errorf("invalid simulation config: %w", err)
	}
	if d.expCfg.Runs <= 0 {
		return core.Summary{}, fmt.Errorf("experiment runs must be positive, got %d", d.expCfg.Runs)
	}

	log := d.deps.LogManager.Logger()

	exp := &core.Experiment{
		Name:        d.expCfg.Name,
		StartedAt:   time.Now(),
		Seed:        d.expCfg.Seed,
		Runs:        d.expCfg.Runs,
		NumVehicles: d.simCfg.NumVehicles,
		TimeLimit:   d.simCfg.TimeLimit,
		RoadLength:  d.simCfg.RoadLength,
	}
	if _, err := d.deps.Dispatcher.Dispatch(dispatcher.Event{
		Command:   worker.CmdExperimentStart,
		Payload:   exp,
		Timestamp: time.Now(),
	}); err != nil {
		return core.Summary{}, fmt.Errorf("failed to start experiment: %w", err)
	}

	log.Info("Experiment started",
		"name", d.expCfg.Name,
		"runs", d.expCfg.Runs,
		"vehicles", d.simCfg.NumVehicles,
		"timeLimit", d.simCfg.TimeLimit,
		"roadLength", d.simCfg.RoadLength)

	counts := make([]float64, d.expCfg.Runs)
	for i := 0; i < d.expCfg.Runs; i++ {
		runSeed := d.expCfg.Seed + uint64(i)
		stream := sim.NewStream(runSeed)

		var trace sim.TraceSink
		if d.expCfg.Trace {
			trace = &traceForwarder{d: d.deps.Dispatcher, runIndex: i, expID: exp.ID}
		}

		start := time.Now()
		res, err := sim.Run(d.simCfg, stream, trace)
		if err != nil {
			return core.Summary{}, fmt.Errorf("run %d failed: %w", i, err)
		}

		result := &core.RunResult{
			ExperimentID: exp.ID,
			Index:        i,
			Seed:         runSeed,
			Finished:     len(res.Finished),
			TimedOut:     d.simCfg.NumVehicles - len(res.Finished),
			Duration:     time.Since(start),
		}
		if _, err := d.deps.Dispatcher.Dispatch(dispatcher.Event{
			Command:   worker.CmdRunResult,
			Payload:   result,
			Timestamp: time.Now(),
		}); err != nil {
			return core.Summary{}, fmt.Errorf("failed to record run %d: %w", i, err)
		}

		if d.deps.Influx != nil {
			d.deps.Influx.WriteRunResult(d.expCfg.Name, result)
		}

		counts[i] = float64(result.Finished)
		log.Debug("Run complete", "run", i, "finished", result.Finished, "duration", result.Duration)
	}

	summary := Summarize(counts)

	if d.expCfg.HistogramPath != "" {
		if err := WriteHistogram(counts, d.expCfg.HistogramPath); err != nil {
			// The summary is still valid without the plot.
			log.Error("Failed to write histogram", "path", d.expCfg.HistogramPath, "error", err)
		} else {
			log.Info("Histogram written", "path", d.expCfg.HistogramPath)
		}
	}

	if _, err := d.deps.Dispatcher.Dispatch(dispatcher.Event{
		Command:   worker.CmdExperimentEnd,
		Payload:   &summary,
		Timestamp: time.Now(),
	}); err != nil {
		return core.Summary{}, fmt.Errorf("failed to end experiment: %w", err)
	}

	log.Info("Experiment complete",
		"runs", summary.Runs,
		"meanFinished", summary.Mean,
		"stdDev", summary.StdDev,
		"min", summary.Min,
		"max", summary.Max)

	return summary, nil
}

// Summarize aggregates per-run finished counts.
func Summarize(counts []float64) core.Summary {
	s := core.Summary{
		Runs:    len(counts),
		EndedAt: time.Now(),
	}
	if len(counts) == 0 {
		return s
	}

	s.Mean = stat.Mean(counts, nil)
	if len(counts) > 1 {
		s.StdDev = stat.StdDev(counts, nil)
	}

	s.Min = int(counts[0])
	s.Max = int(counts[0])
	for _, c := range counts[1:] {
		if int(c) < s.Min {
			s.Min = int(c)
		}
		if int(c) > s.Max {
			s.Max = int(c)
		}
	}
	return s
}
