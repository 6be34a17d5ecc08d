// Boxoffice - Movie Revenue Modeling Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxoffice

/*
Package config provides configuration management for the boxoffice pipeline.

Configuration is loaded with Koanf v2 from three layers, later layers winning:

 1. Defaults: built-in values matching the reference analysis (seed 42,
    80/20 split, 4 revenue strata, 10 folds, the KNN and random forest grids)
 2. Config file: optional YAML file found via CONFIG_PATH or DefaultConfigPaths
 3. Environment variables: mapped explicitly (MOVIES_PATH, OSCARS_PATH,
    OUTPUT_DIR, SPLIT_SEED, TUNING_WORKERS, LOG_LEVEL, ...)

Unmapped environment variables are ignored so an unrelated shell environment
cannot leak into the run.

Example config.yaml:

	input:
	  movies_path: data/imdb_movies.csv
	  oscars_path: data/the_oscar_award.csv
	split:
	  seed: 42
	  folds: 10
	tuning:
	  workers: 8
	  forest:
	    levels: 6

Validation runs in two passes: struct tags checked by internal/validation,
then cross-field checks (range bounds, grid sizes) in Validate.
*/
package config
