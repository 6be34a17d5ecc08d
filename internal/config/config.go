// Boxoffice - Movie Revenue Modeling Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxoffice

package config

import "path/filepath"

// Config holds all pipeline configuration.
//
// Example:
//
//	cfg, err := config.LoadWithKoanf()
//	if err != nil {
//	    logging.Error().Err(err).Msg("Failed to load configuration")
//	    return 1
//	}
//	p, err := pipeline.New(ctx, cfg)
type Config struct {
	Input      InputConfig      `koanf:"input"`
	Output     OutputConfig     `koanf:"output"`
	Cleaning   CleaningConfig   `koanf:"cleaning"`
	Split      SplitConfig      `koanf:"split"`
	Tuning     TuningConfig     `koanf:"tuning"`
	Checkpoint CheckpointConfig `koanf:"checkpoint"`
	Models     ModelsConfig     `koanf:"models"`
	Warehouse  WarehouseConfig  `koanf:"warehouse"`
	Metrics    MetricsConfig    `koanf:"metrics"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// InputConfig locates the two source files.
type InputConfig struct {
	MoviesPath string `koanf:"movies_path" validate:"required"`
	OscarsPath string `koanf:"oscars_path" validate:"required"`

	// WinnersOnly keeps only rows flagged as winners when the awards file has a
	// winner column. Files without the column are used as-is.
	WinnersOnly bool `koanf:"winners_only"`
}

// OutputConfig controls where run artifacts are written.
type OutputConfig struct {
	Dir      string `koanf:"dir" validate:"required"`
	CleanCSV string `koanf:"clean_csv" validate:"required"`
	Report   string `koanf:"report" validate:"required"`
}

// CleanCSVPath returns the full path of the cleaned dataset.
func (o OutputConfig) CleanCSVPath() string {
	return filepath.Join(o.Dir, o.CleanCSV)
}

// ReportPath returns the full path of the JSON run report.
func (o OutputConfig) ReportPath() string {
	return filepath.Join(o.Dir, o.Report)
}

// CleaningConfig holds the missing-data policy.
type CleaningConfig struct {
	// MaxMissingFraction is the largest share of incomplete records that may be
	// dropped without imputation before the run fails.
	MaxMissingFraction float64 `koanf:"max_missing_fraction" validate:"gte=0,lte=1"`
}

// SplitConfig holds the resampling design.
type SplitConfig struct {
	Seed          int64   `koanf:"seed"`
	TrainFraction float64 `koanf:"train_fraction" validate:"gt=0,lt=1"`
	StrataBins    int     `koanf:"strata_bins" validate:"gte=1"`
	Folds         int     `koanf:"folds" validate:"gte=2"`
}

// TuningConfig holds the grid search settings.
type TuningConfig struct {
	// Workers bounds concurrent fold fits. 0 = runtime.NumCPU().
	Workers int              `koanf:"workers" validate:"gte=0"`
	KNN     KNNGridConfig    `koanf:"knn"`
	Forest  ForestGridConfig `koanf:"forest"`
}

// KNNGridConfig describes the neighbor-count grid.
type KNNGridConfig struct {
	NeighborsMin int `koanf:"neighbors_min" validate:"gte=1"`
	NeighborsMax int `koanf:"neighbors_max" validate:"gte=1"`
	Levels       int `koanf:"levels" validate:"gte=1"`
}

// ForestGridConfig describes the random forest grid. Every parameter gets the
// same number of regular levels.
type ForestGridConfig struct {
	MtryMin  int `koanf:"mtry_min" validate:"gte=1"`
	MtryMax  int `koanf:"mtry_max" validate:"gte=1"`
	TreesMin int `koanf:"trees_min" validate:"gte=1"`
	TreesMax int `koanf:"trees_max" validate:"gte=1"`
	MinNMin  int `koanf:"min_n_min" validate:"gte=2"`
	MinNMax  int `koanf:"min_n_max" validate:"gte=2"`
	Levels   int `koanf:"levels" validate:"gte=1"`
}

// CheckpointConfig controls BadgerDB stage checkpoints.
type CheckpointConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`

	// Reset discards the checkpoints and stored final models of the current
	// fingerprint before tuning, forcing a full recompute.
	Reset bool `koanf:"reset"`
}

// ModelsConfig controls the final model store.
type ModelsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`

	// Keep is the number of model versions retained after a save. 0 = keep all.
	Keep int `koanf:"keep" validate:"gte=0"`
}

// WarehouseConfig controls the optional DuckDB export.
type WarehouseConfig struct {
	Enabled   bool   `koanf:"enabled"`
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads" validate:"gte=0"`
}

// MetricsConfig controls the Prometheus textfile export.
type MetricsConfig struct {
	// Textfile is the .prom file written at the end of the run. Empty disables it.
	Textfile string `koanf:"textfile"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}
