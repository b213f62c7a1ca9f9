// internal/storage/factory.go
package storage

import (
	"fmt"

	"github.com/trafficlab/roadsim/internal/config"
	"github.com/trafficlab/roadsim/internal/logging"
	"github.com/trafficlab/roadsim/internal/storage/memory"
	pgstorage "github.com/trafficlab/roadsim/internal/storage/postgres"
	sqlitestorage "github.com/trafficlab/roadsim/internal/storage/sqlite"
)

// NewBackend creates a storage backend based on configuration
func NewBackend(cfg config.StorageConfig, logManager *logging.SlogManager) (Backend, error) {
	switch cfg.Type {
	case "postgres":
		backend, err := pgstorage.New(logManager)
		if err != nil {
			return nil, fmt.Errorf("failed to create Postgres backend: %w", err)
		}
		return backend, nil
	case "sqlite":
		backend, err := sqlitestorage.New(sqlitestorage.Config{
			DumpInterval: cfg.SQLite.DumpInterval,
			DumpPath:     cfg.SQLite.DumpPath,
		}, logManager)
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite backend: %w", err)
		}
		return backend, nil
	case "memory":
		return memory.New(cfg.Memory), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
