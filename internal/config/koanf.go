// Boxoffice - Movie Revenue Modeling Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxoffice

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"boxoffice.yaml",
	"boxoffice.yml",
	"config.yaml",
	"config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with the reference analysis defaults.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			MoviesPath:  "data/imdb_movies.csv",
			OscarsPath:  "data/the_oscar_award.csv",
			WinnersOnly: true,
		},
		Output: OutputConfig{
			Dir:      "output",
			CleanCSV: "movies_clean.csv",
			Report:   "report.json",
		},
		Cleaning: CleaningConfig{
			MaxMissingFraction: 0.10,
		},
		Split: SplitConfig{
			Seed:          42,
			TrainFraction: 0.8,
			StrataBins:    4,
			Folds:         10,
		},
		Tuning: TuningConfig{
			Workers: 0, // 0 = use runtime.NumCPU()
			KNN: KNNGridConfig{
				NeighborsMin: 1,
				NeighborsMax: 10,
				Levels:       10,
			},
			Forest: ForestGridConfig{
				MtryMin:  1,
				MtryMax:  8,
				TreesMin: 200,
				TreesMax: 600,
				MinNMin:  10,
				MinNMax:  20,
				Levels:   6,
			},
		},
		Checkpoint: CheckpointConfig{
			Enabled: true,
			Path:    "output/checkpoints",
		},
		Models: ModelsConfig{
			Enabled: true,
			Path:    "output/models",
			Keep:    5,
		},
		Warehouse: WarehouseConfig{
			Enabled:   false, // opt-in
			Path:      "output/boxoffice.duckdb",
			MaxMemory: "1GB",
			Threads:   0,
		},
		Metrics: MetricsConfig{
			Textfile: "",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Default returns the built-in configuration without reading files or the
// environment.
func Default() *Config {
	return defaultConfig()
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: built-in values
//  2. Config File: optional YAML config file (if exists)
//  3. Environment Variables: override any mapped setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// MOVIES_PATH -> input.movies_path, SPLIT_SEED -> split.seed
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envMappings maps lower-cased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Input
	"movies_path":         "input.movies_path",
	"oscars_path":         "input.oscars_path",
	"oscars_winners_only": "input.winners_only",

	// Output
	"output_dir":       "output.dir",
	"output_clean_csv": "output.clean_csv",
	"output_report":    "output.report",

	// Cleaning
	"max_missing_fraction": "cleaning.max_missing_fraction",

	// Split
	"split_seed":           "split.seed",
	"split_train_fraction": "split.train_fraction",
	"split_strata_bins":    "split.strata_bins",
	"split_folds":          "split.folds",

	// Tuning
	"tuning_workers":    "tuning.workers",
	"knn_neighbors_min": "tuning.knn.neighbors_min",
	"knn_neighbors_max": "tuning.knn.neighbors_max",
	"knn_levels":        "tuning.knn.levels",
	"forest_mtry_min":   "tuning.forest.mtry_min",
	"forest_mtry_max":   "tuning.forest.mtry_max",
	"forest_trees_min":  "tuning.forest.trees_min",
	"forest_trees_max":  "tuning.forest.trees_max",
	"forest_min_n_min":  "tuning.forest.min_n_min",
	"forest_min_n_max":  "tuning.forest.min_n_max",
	"forest_levels":     "tuning.forest.levels",

	// Persistence
	"checkpoint_enabled":  "checkpoint.enabled",
	"checkpoint_path":     "checkpoint.path",
	"checkpoint_reset":    "checkpoint.reset",
	"model_store_enabled": "models.enabled",
	"model_store_path":    "models.path",
	"model_store_keep":    "models.keep",
	"warehouse_enabled":   "warehouse.enabled",
	"duckdb_path":         "warehouse.path",
	"duckdb_max_memory":   "warehouse.max_memory",
	"duckdb_threads":      "warehouse.threads",

	// Observability
	"metrics_textfile": "metrics.textfile",
	"log_level":        "logging.level",
	"log_format":       "logging.format",
	"log_caller":       "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - MOVIES_PATH -> input.movies_path
//   - SPLIT_SEED -> split.seed
//   - FOREST_TREES_MAX -> tuning.forest.trees_max
//   - DUCKDB_PATH -> warehouse.path
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// Unmapped keys are skipped so random environment variables cannot
	// pollute the config.
	return ""
}
