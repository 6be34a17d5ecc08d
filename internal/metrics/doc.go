// Boxoffice - Movie Revenue Modeling Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxoffice

/*
Package metrics provides Prometheus metrics for pipeline runs.

The pipeline is a batch job with no HTTP surface, so metrics are not scraped.
Instead the default registry is written once at the end of a run in the text
exposition format, following the node-exporter textfile collector convention:

	metrics:
	  textfile: /var/lib/node_exporter/textfile/boxoffice.prom

# Available Metrics

Stages:
  - boxoffice_stage_duration_seconds{stage}
  - boxoffice_stage_errors_total{stage}
  - boxoffice_records_total{stage,outcome}

Tuning:
  - boxoffice_fold_fits_total{family,outcome}
  - boxoffice_fold_fit_duration_seconds{family}
  - boxoffice_best_cv_rmse{family}

Evaluation:
  - boxoffice_test_rmse
  - boxoffice_test_rsq

Persistence:
  - boxoffice_checkpoint_lookups_total{stage,result}
  - boxoffice_warehouse_rows_written_total{table}
  - boxoffice_last_run_success_timestamp_seconds

# Usage

	start := time.Now()
	records, stats, err := movies.LoadMovies(ctx, path)
	metrics.RecordStage("load", time.Since(start), err)
	metrics.RecordRecords("load", "skipped", stats.RowsSkipped)

All helpers are safe for concurrent use.
*/
package metrics
