// Package core holds the plain record types exchanged between the
// experiment driver, the dispatcher handlers, and the storage backends.
// They carry no behavior and no storage tags.
package core

import "time"

// Experiment describes one batch of simulation runs.
type Experiment struct {
	ID          uint
	Name        string
	StartedAt   time.Time
	Seed        uint64
	Runs        int
	NumVehicles int
	TimeLimit   int
	RoadLength  int
}

// RunResult is the outcome of a single run within an experiment.
type RunResult struct {
	ExperimentID uint
	Index        int
	Seed         uint64
	Finished     int
	TimedOut     int
	Duration     time.Duration
}

// TraceEvent is one per-tick observation of a vehicle, recorded only when
// tracing is enabled.
type TraceEvent struct {
	ExperimentID uint
	RunIndex     int
	VehicleID    int
	Tick         int
	Position     int
	Speed        int
	Notes        []string
}

// Summary aggregates the finished counts of all runs in an experiment.
type Summary struct {
	Runs    int
	Mean    float64
	StdDev  float64
	Min     int
	Max     int
	EndedAt time.Time
}
