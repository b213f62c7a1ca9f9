// Package pgstorage implements the storage.Backend interface against a
// Postgres database, wrapping the gormstore backend via composition.
package pgstorage

import (
	"fmt"

	"github.com/trafficlab/roadsim/internal/database"
	"github.com/trafficlab/roadsim/internal/logging"
	"github.com/trafficlab/roadsim/internal/storage/gormstore"
)

// Backend wraps the gormstore backend over a Postgres connection.
type Backend struct {
	*gormstore.Backend
}

// New connects to Postgres using viper config and creates the backend.
func New(logManager *logging.SlogManager) (*Backend, error) {
	db, err := database.GetPostgresDB()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql interface: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to validate connection: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)

	return &Backend{
		Backend: gormstore.New(gormstore.Dependencies{
			DB:         db,
			LogManager: logManager,
		}),
	}, nil
}
