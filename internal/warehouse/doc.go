// Boxoffice - Movie Revenue Modeling Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxoffice

// Package warehouse exports pipeline outputs to a DuckDB database for ad-hoc
// analysis.
//
// Three tables are maintained, each keyed by run id so repeated runs can be
// compared side by side:
//
//   - movies: the cleaned dataset
//   - tuning_results: one row per tuned configuration, with per-fold scores
//     stored as JSON
//   - final_metrics: the winning model and its held-out scores
//
// Writing a run replaces any rows previously written under the same run id.
//
// Example queries:
//
//	SELECT family, MIN(mean_rmse) FROM tuning_results WHERE n > 0 GROUP BY family;
//	SELECT main_genre, AVG(revenue) FROM movies GROUP BY main_genre ORDER BY 2 DESC;
package warehouse
