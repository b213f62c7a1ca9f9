package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/trafficlab/roadsim/internal/sim"
)

// MemoryConfig holds in-memory/JSON storage backend settings.
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// SQLiteConfig holds SQLite storage backend settings.
type SQLiteConfig struct {
	DumpInterval time.Duration `json:"dumpInterval" mapstructure:"dumpInterval"`
	DumpPath     string        `json:"dumpPath" mapstructure:"dumpPath"`
}

// StorageConfig selects and configures the storage backend.
type StorageConfig struct {
	Type   string       `json:"type" mapstructure:"type"`
	Memory MemoryConfig `json:"memory" mapstructure:"memory"`
	SQLite SQLiteConfig `json:"sqlite" mapstructure:"sqlite"`
}

// ExperimentConfig holds the many-runs driver settings.
type ExperimentConfig struct {
	Name          string `json:"name" mapstructure:"name"`
	Runs          int    `json:"runs" mapstructure:"runs"`
	Seed          uint64 `json:"seed" mapstructure:"seed"`
	HistogramPath string `json:"histogramPath" mapstructure:"histogramPath"`
	Trace         bool   `json:"trace" mapstructure:"trace"`
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	// Set default values
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./roadsimlogs")

	viper.SetDefault("sim.numVehicles", 200)
	viper.SetDefault("sim.timeLimit", 90)
	viper.SetDefault("sim.roadLength", 100)
	viper.SetDefault("sim.speedLimit", 15)
	viper.SetDefault("sim.bumpAmount", 5)
	viper.SetDefault("sim.congestionFumes", 0.0)
	viper.SetDefault("sim.speedValues", []int{10, 15, 20, 25, 30})
	viper.SetDefault("sim.speedWeights", []float64{1, 3, 5, 3, 1})

	viper.SetDefault("experiment.name", "roadsim")
	viper.SetDefault("experiment.runs", 100)
	viper.SetDefault("experiment.seed", 1)
	viper.SetDefault("experiment.histogramPath", "")
	viper.SetDefault("experiment.trace", false)

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.memory.outputDir", "./results")
	viper.SetDefault("storage.memory.compressOutput", true)
	viper.SetDefault("storage.sqlite.dumpInterval", "1m")
	viper.SetDefault("storage.sqlite.dumpPath", "")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "roadsim")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "roadsim-metrics")
	viper.SetDefault("influx.bucket", "simulation_runs")

	viper.SetConfigName("roadsim.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetSimConfig returns the simulation parameters. The returned config has
// not been validated; callers run sim.Config.Validate before use.
func GetSimConfig() (sim.Config, error) {
	var f struct {
		NumVehicles     int       `mapstructure:"numVehicles"`
		TimeLimit       int       `mapstructure:"timeLimit"`
		RoadLength      int       `mapstructure:"roadLength"`
		SpeedLimit      int       `mapstructure:"speedLimit"`
		BumpAmount      int       `mapstructure:"bumpAmount"`
		CongestionFumes float64   `mapstructure:"congestionFumes"`
		SpeedValues     []int     `mapstructure:"speedValues"`
		SpeedWeights    []float64 `mapstructure:"speedWeights"`
	}
	if err := viper.UnmarshalKey("sim", &f); err != nil {
		return sim.Config{}, fmt.Errorf("error unmarshalling sim config: %w", err)
	}
	return sim.Config{
		NumVehicles:     f.NumVehicles,
		TimeLimit:       f.TimeLimit,
		RoadLength:      f.RoadLength,
		SpeedLimit:      f.SpeedLimit,
		BumpAmount:      f.BumpAmount,
		CongestionFumes: f.CongestionFumes,
		SpeedValues:     f.SpeedValues,
		SpeedWeights:    f.SpeedWeights,
	}, nil
}

// GetExperimentConfig returns the experiment driver settings.
func GetExperimentConfig() ExperimentConfig {
	return ExperimentConfig{
		Name:          viper.GetString("experiment.name"),
		Runs:          viper.GetInt("experiment.runs"),
		Seed:          viper.GetUint64("experiment.seed"),
		HistogramPath: viper.GetString("experiment.histogramPath"),
		Trace:         viper.GetBool("experiment.trace"),
	}
}

// GetStorageConfig returns the storage backend settings.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		Memory: MemoryConfig{
			OutputDir:      viper.GetString("storage.memory.outputDir"),
			CompressOutput: viper.GetBool("storage.memory.compressOutput"),
		},
		SQLite: SQLiteConfig{
			DumpInterval: viper.GetDuration("storage.sqlite.dumpInterval"),
			DumpPath:     viper.GetString("storage.sqlite.dumpPath"),
		},
	}
}
