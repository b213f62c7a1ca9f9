package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/trafficlab/roadsim/internal/config"
	"github.com/trafficlab/roadsim/internal/dispatcher"
	"github.com/trafficlab/roadsim/internal/experiment"
	"github.com/trafficlab/roadsim/internal/influx"
	"github.com/trafficlab/roadsim/internal/logging"
	"github.com/trafficlab/roadsim/internal/storage"
	"github.com/trafficlab/roadsim/internal/worker"
)

const appName = "roadsim"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	configDir := flag.String("config", ".", "directory containing roadsim.cfg.json")
	flag.Parse()

	sessionStart := time.Now()

	if err := config.Load(*configDir); err != nil {
		return err
	}

	slogMgr := logging.NewSlogManager()
	logsDir := config.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}
	logFile, err := os.Create(logging.LogFilePath(logsDir, appName, sessionStart))
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	defer logFile.Close()
	slogMgr.Setup(logFile, config.GetString("logLevel"))
	logger := slogMgr.Logger()

	simCfg, err := config.GetSimConfig()
	if err != nil {
		return err
	}
	if err := simCfg.Validate(); err != nil {
		return fmt.Errorf("invalid simulation config: %w", err)
	}

	backend, err := storage.NewBackend(config.GetStorageConfig(), slogMgr)
	if err != nil {
		return fmt.Errorf("failed to create storage backend: %w", err)
	}
	if err := backend.Init(); err != nil {
		return fmt.Errorf("failed to initialize storage backend: %w", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logger.Error("Failed to close storage backend", "error", err)
		}
	}()
	logger.Info("Storage backend initialized", "type", config.GetString("storage.type"))

	eventDispatcher, err := dispatcher.New(logger)
	if err != nil {
		return fmt.Errorf("failed to create dispatcher: %w", err)
	}
	workerManager := worker.NewManager(worker.Dependencies{LogManager: slogMgr}, backend)
	workerManager.RegisterHandlers(eventDispatcher)

	var influxManager *influx.Manager
	if config.GetBool("influx.enabled") {
		zl := zerolog.New(os.Stdout).With().Timestamp().Logger()
		influxManager = influx.NewManager(zl, filepath.Join(logsDir, "influx_backup.gz"))
		if err := influxManager.Connect(); err != nil {
			logger.Warn("InfluxDB disabled", "error", err)
			influxManager = nil
		} else {
			defer influxManager.Close()
		}
	}

	driver := experiment.NewDriver(experiment.Dependencies{
		LogManager: slogMgr,
		Dispatcher: eventDispatcher,
		Influx:     influxManager,
	}, simCfg, config.GetExperimentConfig())

	summary, err := driver.Run()
	if err != nil {
		return err
	}

	if exp, ok := backend.(storage.Exportable); ok && exp.ExportedFilePath() != "" {
		logger.Info("Results exported", "path", exp.ExportedFilePath())
	}

	fmt.Printf("Average vehicles finished over %d runs: %.2f (min %d, max %d, stddev %.2f)\n",
		summary.Runs, summary.Mean, summary.Min, summary.Max, summary.StdDev)
	return nil
}
