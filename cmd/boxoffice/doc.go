// Boxoffice - Movie Revenue Modeling Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxoffice

/*
Package main is the entry point for the boxoffice batch pipeline.

Boxoffice predicts a movie's worldwide gross revenue from a public movie
catalog joined with Academy Award history. A single invocation loads both
CSV files, derives features, cleans the table, splits it into a stratified
80/20 train/test partition with 10 stratified folds, tunes three model
families by cross-validation, refits the winner on the full training set and
scores it once on the held-out test set.

# Pipeline Stages

	load         read imdb_movies.csv and the_oscar_award.csv
	build        genre, release year, budget, revenue, crew oscar winners
	clean        missingness check, drop incomplete rows, fingerprint
	reset        optional: discard checkpoints and models of the fingerprint
	export       write the cleaned table as CSV
	split        stratified initial split and V-fold resampling
	folds        per-fold one-hot encoding plus center/scale
	tune_linear  ordinary least squares (single configuration)
	tune_knn     k-nearest neighbors, neighbors 1..10, one-SE rule
	tune_forest  random forest, 6x6x6 grid over mtry, trees and min_n
	evaluate     choose winner, refit (or reuse a stored model), score test
	warehouse    optional DuckDB export of movies and results
	report       JSON report and optional Prometheus textfile

Tuning results are checkpointed in Badger keyed by a fingerprint of the
cleaned data and the resampling and grid settings, and the final model is
saved as a versioned gzip artifact. A rerun with the same inputs resumes
from both instead of recomputing.

# Configuration

Configuration is loaded via Koanf v2 with layered sources (highest priority wins):

	Priority: Environment variables > Config file > Defaults

Core environment variables:

	# Inputs and outputs
	MOVIES_PATH=data/imdb_movies.csv
	OSCARS_PATH=data/the_oscar_award.csv
	OUTPUT_DIR=output

	# Resampling
	SPLIT_SEED=42
	SPLIT_FOLDS=10
	SPLIT_TRAIN_FRACTION=0.8

	# Tuning
	TUNING_WORKERS=0             # 0 = runtime.NumCPU()

	# Persistence
	CHECKPOINT_ENABLED=true
	CHECKPOINT_PATH=output/checkpoints
	CHECKPOINT_RESET=false       # discard this fingerprint's checkpoints and models
	MODEL_STORE_PATH=output/models
	WAREHOUSE_ENABLED=false
	DUCKDB_PATH=output/boxoffice.duckdb

	# Observability
	METRICS_TEXTFILE=            # node_exporter textfile path
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console

A YAML file named boxoffice.yaml (or the path in CONFIG_PATH) may set any of
the same keys.

# Exit Status

The process exits 0 when the report has been written and 1 on any
configuration, input or pipeline error. SIGINT and SIGTERM cancel the run
between grid cells; completed family checkpoints are kept.
*/
package main
