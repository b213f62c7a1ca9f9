package model

import (
	"database/sql"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&Experiment{},
	&Run{},
	&TraceEvent{},
}

// Experiment is one batch of simulation runs with a shared configuration.
type Experiment struct {
	gorm.Model
	Name         string `json:"name" gorm:"size:127"`
	Seed         uint64 `json:"seed"`
	Runs         int    `json:"runs"`
	NumVehicles  int    `json:"numVehicles"`
	TimeLimit    int    `json:"timeLimit"`
	RoadLength   int    `json:"roadLength"`
	StartedAt    time.Time
	EndedAt      sql.NullTime
	MeanFinished float64 `json:"meanFinished"`
	StdDev       float64 `json:"stdDev"`
	MinFinished  int     `json:"minFinished"`
	MaxFinished  int     `json:"maxFinished"`
}

func (*Experiment) TableName() string {
	return "experiments"
}

// Run is the result of a single simulation run.
type Run struct {
	gorm.Model
	ExperimentID uint       `json:"experimentId" gorm:"index:idx_run_experiment_id"`
	Experiment   Experiment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:ExperimentID;"`
	RunIndex     int        `json:"runIndex"`
	Seed         uint64     `json:"seed"`
	Finished     int        `json:"finished"`
	TimedOut     int        `json:"timedOut"`
	DurationMs   float32    `json:"durationMs"`
}

func (*Run) TableName() string {
	return "runs"
}

// TraceEvent is one per-tick observation of a vehicle within a run.
type TraceEvent struct {
	ID           uint `gorm:"primarykey"`
	ExperimentID uint `json:"experimentId" gorm:"index:idx_trace_experiment_id"`
	RunIndex     int  `json:"runIndex"`
	VehicleID    int  `json:"vehicleId"`
	Tick         int  `json:"tick"`
	Position     int  `json:"position"`
	Speed        int  `json:"speed"`
	// Notes is a JSON array of effect signals emitted this tick.
	Notes datatypes.JSON `json:"notes"`
}

func (*TraceEvent) TableName() string {
	return "trace_events"
}
