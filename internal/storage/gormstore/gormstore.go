// Package gormstore implements the storage.Backend interface against any
// gorm-backed database. The SQLite and Postgres backends wrap it via
// composition and only add connection and persistence concerns.
package gormstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/trafficlab/roadsim/internal/logging"
	"github.com/trafficlab/roadsim/internal/model"
	"github.com/trafficlab/roadsim/pkg/core"
)

// Dependencies holds what the backend needs to operate.
type Dependencies struct {
	DB         *gorm.DB
	LogManager *logging.SlogManager
}

// Backend persists experiments, runs and trace events through gorm.
type Backend struct {
	deps Dependencies

	// current experiment row id, set by StartExperiment
	experimentID uint
}

// New creates a gorm-backed storage backend.
func New(deps Dependencies) *Backend {
	return &Backend{deps: deps}
}

// Init migrates the schema.
func (b *Backend) Init() error {
	if err := b.deps.DB.AutoMigrate(model.DatabaseModels...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Close closes the underlying sql connection.
func (b *Backend) Close() error {
	sqlDB, err := b.deps.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	return sqlDB.Close()
}

// StartExperiment creates the experiment row and assigns its ID to the
// passed pointer.
func (b *Backend) StartExperiment(e *core.Experiment) error {
	row := model.Experiment{
		Name:        e.Name,
		Seed:        e.Seed,
		Runs:        e.Runs,
		NumVehicles: e.NumVehicles,
		TimeLimit:   e.TimeLimit,
		RoadLength:  e.RoadLength,
		StartedAt:   e.StartedAt,
	}
	if err := b.deps.DB.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to create experiment: %w", err)
	}
	b.experimentID = row.ID
	e.ID = row.ID
	return nil
}

// EndExperiment writes the summary onto the experiment row.
func (b *Backend) EndExperiment(s *core.Summary) error {
	updates := map[string]any{
		"ended_at":      sql.NullTime{Time: s.EndedAt, Valid: true},
		"mean_finished": s.Mean,
		"std_dev":       s.StdDev,
		"min_finished":  s.Min,
		"max_finished":  s.Max,
	}
	err := b.deps.DB.Model(&model.Experiment{}).
		Where("id = ?", b.experimentID).
		Updates(updates).Error
	if err != nil {
		return fmt.Errorf("failed to finalize experiment: %w", err)
	}
	return nil
}

// RecordRun persists one run result.
func (b *Backend) RecordRun(r *core.RunResult) error {
	row := model.Run{
		ExperimentID: b.experimentID,
		RunIndex:     r.Index,
		Seed:         r.Seed,
		Finished:     r.Finished,
		TimedOut:     r.TimedOut,
		DurationMs:   float32(r.Duration) / float32(time.Millisecond),
	}
	if err := b.deps.DB.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// RecordTrace persists one per-tick trace event.
func (b *Backend) RecordTrace(t *core.TraceEvent) error {
	notes, err := json.Marshal(t.Notes)
	if err != nil {
		return fmt.Errorf("failed to marshal trace notes: %w", err)
	}
	row := model.TraceEvent{
		ExperimentID: b.experimentID,
		RunIndex:     t.RunIndex,
		VehicleID:    t.VehicleID,
		Tick:         t.Tick,
		Position:     t.Position,
		Speed:        t.Speed,
		Notes:        datatypes.JSON(notes),
	}
	if err := b.deps.DB.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to record trace event: %w", err)
	}
	return nil
}
