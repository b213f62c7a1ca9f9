package influx

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/trafficlab/roadsim/pkg/core"
)

// Manager handles InfluxDB connections and per-run metric writes.
type Manager struct {
	Client       influxdb2.Client
	Writer       influxdb2_api.WriteAPI
	BackupWriter *gzip.Writer
	IsValid      bool
	Logger       zerolog.Logger
	BackupPath   string
}

// NewManager creates a new InfluxDB manager.
func NewManager(log zerolog.Logger, backupPath string) *Manager {
	return &Manager{
		IsValid:    false,
		Logger:     log,
		BackupPath: backupPath,
	}
}

// Connect establishes a connection to InfluxDB. If the server is
// unreachable, points are appended to a gzip backup file instead.
func (m *Manager) Connect() error {
	if !viper.GetBool("influx.enabled") {
		return errors.New("influx.enabled is false")
	}

	m.Client = influxdb2.NewClientWithOptions(
		fmt.Sprintf(
			"%s://%s:%s",
			viper.GetString("influx.protocol"),
			viper.GetString("influx.host"),
			viper.GetString("influx.port"),
		),
		viper.GetString("influx.token"),
		influxdb2.DefaultOptions().
			SetBatchSize(2500).
			SetFlushInterval(1000),
	)

	// validate client connection health
	running, err := m.Client.Ping(context.Background())

	if err != nil || !running {
		m.IsValid = false
		if m.BackupWriter == nil {
			m.Logger.Info().Str("backupPath", m.BackupPath).
				Msg("Failed to initialize InfluxDB client, writing to backup file")

			file, err := os.OpenFile(m.BackupPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
			if err != nil {
				return fmt.Errorf("error creating backup file: %v", err)
			}
			m.BackupWriter = gzip.NewWriter(file)
		}
		return nil
	}

	m.IsValid = true
	m.Writer = m.Client.WriteAPI(
		viper.GetString("influx.org"),
		viper.GetString("influx.bucket"),
	)
	return nil
}

// WriteRunResult writes one simulation_run point.
func (m *Manager) WriteRunResult(experiment string, r *core.RunResult) {
	p := influxdb2_write.NewPoint(
		"simulation_run",
		map[string]string{
			"experiment": experiment,
		},
		map[string]interface{}{
			"run_index":   r.Index,
			"finished":    r.Finished,
			"timed_out":   r.TimedOut,
			"duration_ms": float64(r.Duration) / float64(time.Millisecond),
		},
		time.Now(),
	)

	if m.IsValid {
		m.Writer.WritePoint(p)
		return
	}

	if m.BackupWriter != nil {
		line := influxdb2_write.PointToLineProtocol(p, time.Nanosecond)
		if _, err := m.BackupWriter.Write([]byte(line)); err != nil {
			m.Logger.Error().Err(err).Msg("Failed to write point to backup file")
		}
	}
}

// Close flushes pending writes and releases the client or backup file.
func (m *Manager) Close() {
	if m.IsValid {
		m.Writer.Flush()
		m.Client.Close()
	}
	if m.BackupWriter != nil {
		if err := m.BackupWriter.Close(); err != nil {
			m.Logger.Error().Err(err).Msg("Failed to close backup writer")
		}
	}
}
