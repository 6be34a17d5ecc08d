// Boxoffice - Movie Revenue Modeling Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxoffice

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// chdirTemp moves the test into an empty directory so DefaultConfigPaths
// never match a file from the repository.
func chdirTemp(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	origDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Failed to change to temp directory: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(origDir); err != nil {
			t.Errorf("Failed to restore working directory: %v", err)
		}
	})
	return tmpDir
}

// TestDefaultConfig verifies that defaultConfig() returns the reference analysis values
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Split.Seed != 42 {
		t.Errorf("Split.Seed = %d, want 42", cfg.Split.Seed)
	}
	if cfg.Split.TrainFraction != 0.8 {
		t.Errorf("Split.TrainFraction = %v, want 0.8", cfg.Split.TrainFraction)
	}
	if cfg.Split.StrataBins != 4 {
		t.Errorf("Split.StrataBins = %d, want 4", cfg.Split.StrataBins)
	}
	if cfg.Split.Folds != 10 {
		t.Errorf("Split.Folds = %d, want 10", cfg.Split.Folds)
	}
	if cfg.Cleaning.MaxMissingFraction != 0.10 {
		t.Errorf("Cleaning.MaxMissingFraction = %v, want 0.10", cfg.Cleaning.MaxMissingFraction)
	}

	knn := cfg.Tuning.KNN
	if knn.NeighborsMin != 1 || knn.NeighborsMax != 10 || knn.Levels != 10 {
		t.Errorf("Tuning.KNN = %+v, want 1..10 with 10 levels", knn)
	}

	rf := cfg.Tuning.Forest
	if rf.MtryMin != 1 || rf.MtryMax != 8 {
		t.Errorf("Forest mtry = %d..%d, want 1..8", rf.MtryMin, rf.MtryMax)
	}
	if rf.TreesMin != 200 || rf.TreesMax != 600 {
		t.Errorf("Forest trees = %d..%d, want 200..600", rf.TreesMin, rf.TreesMax)
	}
	if rf.MinNMin != 10 || rf.MinNMax != 20 {
		t.Errorf("Forest min_n = %d..%d, want 10..20", rf.MinNMin, rf.MinNMax)
	}
	if rf.Levels != 6 {
		t.Errorf("Forest levels = %d, want 6", rf.Levels)
	}

	if cfg.Warehouse.Enabled {
		t.Error("Warehouse.Enabled should be false by default")
	}
	if cfg.Checkpoint.Reset {
		t.Error("Checkpoint.Reset should be false by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaultConfig().Validate() error = %v", err)
	}
}

// TestEnvTransformFunc verifies environment variable name transformation
func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"MOVIES_PATH", "input.movies_path"},
		{"OSCARS_PATH", "input.oscars_path"},
		{"OUTPUT_DIR", "output.dir"},
		{"SPLIT_SEED", "split.seed"},
		{"SPLIT_FOLDS", "split.folds"},
		{"TUNING_WORKERS", "tuning.workers"},
		{"FOREST_TREES_MAX", "tuning.forest.trees_max"},
		{"DUCKDB_PATH", "warehouse.path"},
		{"LOG_LEVEL", "logging.level"},
		{"log_format", "logging.format"},
		{"HOME", ""},
		{"PATH", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if result := envTransformFunc(tt.input); result != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

// TestFindConfigFile verifies config file discovery
func TestFindConfigFile(t *testing.T) {
	tmpDir := chdirTemp(t)

	t.Run("no config file exists", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "")
		if result := findConfigFile(); result != "" {
			t.Errorf("findConfigFile() = %q, want empty string", result)
		}
	})

	t.Run("boxoffice.yaml exists", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "")
		if err := os.WriteFile(filepath.Join(tmpDir, "boxoffice.yaml"), []byte("split: {}"), 0o644); err != nil {
			t.Fatalf("Failed to create config file: %v", err)
		}
		defer os.Remove(filepath.Join(tmpDir, "boxoffice.yaml"))

		if result := findConfigFile(); result != "boxoffice.yaml" {
			t.Errorf("findConfigFile() = %q, want boxoffice.yaml", result)
		}
	})

	t.Run("CONFIG_PATH env var takes precedence", func(t *testing.T) {
		customPath := filepath.Join(tmpDir, "custom.yaml")
		if err := os.WriteFile(customPath, []byte("split: {}"), 0o644); err != nil {
			t.Fatalf("Failed to create custom config file: %v", err)
		}
		t.Setenv(ConfigPathEnvVar, customPath)

		if result := findConfigFile(); result != customPath {
			t.Errorf("findConfigFile() = %q, want %q", result, customPath)
		}
	})

	t.Run("CONFIG_PATH env var with non-existent file", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "/non/existent/config.yaml")
		if result := findConfigFile(); result != "" {
			t.Errorf("findConfigFile() = %q, want empty string", result)
		}
	})
}

// TestLoadWithKoanfEnvVars tests loading configuration from environment variables
func TestLoadWithKoanfEnvVars(t *testing.T) {
	chdirTemp(t)
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("MOVIES_PATH", "/data/movies.csv")
	t.Setenv("SPLIT_SEED", "7")
	t.Setenv("TUNING_WORKERS", "3")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("WAREHOUSE_ENABLED", "true")
	t.Setenv("CHECKPOINT_RESET", "true")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Input.MoviesPath != "/data/movies.csv" {
		t.Errorf("Input.MoviesPath = %q, want /data/movies.csv", cfg.Input.MoviesPath)
	}
	if cfg.Split.Seed != 7 {
		t.Errorf("Split.Seed = %d, want 7", cfg.Split.Seed)
	}
	if cfg.Tuning.Workers != 3 {
		t.Errorf("Tuning.Workers = %d, want 3", cfg.Tuning.Workers)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if !cfg.Warehouse.Enabled {
		t.Error("Warehouse.Enabled = false, want true")
	}
	if !cfg.Checkpoint.Reset {
		t.Error("Checkpoint.Reset = false, want true")
	}

	// Defaults remain for unset values
	if cfg.Split.Folds != 10 {
		t.Errorf("Split.Folds = %d, want 10 (default)", cfg.Split.Folds)
	}
	if cfg.Input.OscarsPath != "data/the_oscar_award.csv" {
		t.Errorf("Input.OscarsPath = %q, want default", cfg.Input.OscarsPath)
	}
}

// TestLoadWithKoanfEnvOverridesFile tests that env vars override the config file
func TestLoadWithKoanfEnvOverridesFile(t *testing.T) {
	tmpDir := chdirTemp(t)

	configContent := `
input:
  movies_path: "from-file.csv"
split:
  seed: 11
  folds: 5
logging:
  level: "warn"
tuning:
  forest:
    levels: 3
`
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("Failed to create config file: %v", err)
	}

	t.Setenv(ConfigPathEnvVar, configPath)
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Input.MoviesPath != "from-file.csv" {
		t.Errorf("Input.MoviesPath = %q, want from-file.csv (from file)", cfg.Input.MoviesPath)
	}
	if cfg.Split.Seed != 11 || cfg.Split.Folds != 5 {
		t.Errorf("Split = %+v, want seed 11 folds 5 (from file)", cfg.Split)
	}
	if cfg.Tuning.Forest.Levels != 3 {
		t.Errorf("Forest.Levels = %d, want 3 (from file)", cfg.Tuning.Forest.Levels)
	}
	if cfg.Tuning.Forest.TreesMax != 600 {
		t.Errorf("Forest.TreesMax = %d, want 600 (default)", cfg.Tuning.Forest.TreesMax)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("Logging.Level = %q, want error (env override)", cfg.Logging.Level)
	}
}

// TestLoadWithKoanfValidation tests that invalid values are rejected
func TestLoadWithKoanfValidation(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		errMsg  string
	}{
		{
			name:    "train fraction out of range",
			envVars: map[string]string{"SPLIT_TRAIN_FRACTION": "1.5"},
			errMsg:  "split.train_fraction",
		},
		{
			name:    "too few folds",
			envVars: map[string]string{"SPLIT_FOLDS": "1"},
			errMsg:  "split.folds",
		},
		{
			name:    "inverted knn range",
			envVars: map[string]string{"KNN_NEIGHBORS_MIN": "12"},
			errMsg:  "tuning.knn.neighbors_min",
		},
		{
			name:    "invalid log level",
			envVars: map[string]string{"LOG_LEVEL": "verbose"},
			errMsg:  "logging.level",
		},
		{
			name:    "missing fraction above one",
			envVars: map[string]string{"MAX_MISSING_FRACTION": "2"},
			errMsg:  "cleaning.max_missing_fraction",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdirTemp(t)
			t.Setenv(ConfigPathEnvVar, "")
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			_, err := LoadWithKoanf()
			if err == nil {
				t.Fatal("LoadWithKoanf() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("error = %v, want message containing %q", err, tt.errMsg)
			}
		})
	}
}

func TestValidatePersistence(t *testing.T) {
	cfg := defaultConfig()
	cfg.Warehouse.Enabled = true
	cfg.Warehouse.Path = ""

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "warehouse.path") {
		t.Errorf("Validate() error = %v, want warehouse.path error", err)
	}
}

func TestOutputPaths(t *testing.T) {
	out := OutputConfig{Dir: "out", CleanCSV: "clean.csv", Report: "r.json"}
	if got := out.CleanCSVPath(); got != filepath.Join("out", "clean.csv") {
		t.Errorf("CleanCSVPath() = %q", got)
	}
	if got := out.ReportPath(); got != filepath.Join("out", "r.json") {
		t.Errorf("ReportPath() = %q", got)
	}
}
