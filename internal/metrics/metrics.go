// Boxoffice - Movie Revenue Modeling Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxoffice

package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Stage Metrics
	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "boxoffice_stage_duration_seconds",
			Help:    "Duration of pipeline stages in seconds",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 15, 60, 300, 900, 3600},
		},
		[]string{"stage"}, // "load", "clean", "split", "tune_lm", "tune_knn", "tune_rf", "evaluate"
	)

	StageErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boxoffice_stage_errors_total",
			Help: "Total number of failed pipeline stages",
		},
		[]string{"stage"},
	)

	// Record Metrics
	RecordsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boxoffice_records_total",
			Help: "Total number of movie records by stage and outcome",
		},
		[]string{"stage", "outcome"}, // outcome: "read", "skipped", "kept", "dropped"
	)

	// Tuning Metrics
	FoldFits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boxoffice_fold_fits_total",
			Help: "Total number of fold fits by model family and outcome",
		},
		[]string{"family", "outcome"}, // outcome: "scored", "degenerate"
	)

	FoldFitDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "boxoffice_fold_fit_duration_seconds",
			Help:    "Duration of a single fold fit and assessment in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10), // 1ms .. ~4.4min
		},
		[]string{"family"},
	)

	BestCVRMSE = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "boxoffice_best_cv_rmse",
			Help: "Mean cross-validated RMSE of the selected configuration per model family",
		},
		[]string{"family"},
	)

	// Evaluation Metrics
	TestRMSE = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "boxoffice_test_rmse",
			Help: "RMSE of the winning model on the held-out test partition",
		},
	)

	TestRSquared = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "boxoffice_test_rsq",
			Help: "Squared correlation of predictions and outcomes on the test partition",
		},
	)

	// Persistence Metrics
	CheckpointLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boxoffice_checkpoint_lookups_total",
			Help: "Total number of checkpoint lookups by result",
		},
		[]string{"stage", "result"}, // result: "hit", "miss"
	)

	WarehouseRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boxoffice_warehouse_rows_written_total",
			Help: "Total number of rows written to the DuckDB warehouse",
		},
		[]string{"table"},
	)

	LastRunSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "boxoffice_last_run_success_timestamp_seconds",
			Help: "Unix timestamp of the last successful pipeline run",
		},
	)
)

// RecordStage records a pipeline stage duration and failure.
func RecordStage(stage string, duration time.Duration, err error) {
	StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
	if err != nil {
		StageErrors.WithLabelValues(stage).Inc()
	}
}

// RecordRecords adds n records to the stage/outcome counter.
func RecordRecords(stage, outcome string, n int) {
	if n <= 0 {
		return
	}
	RecordsProcessed.WithLabelValues(stage, outcome).Add(float64(n))
}

// RecordFoldFit records one grid cell.
func RecordFoldFit(family string, duration time.Duration, degenerate bool) {
	outcome := "scored"
	if degenerate {
		outcome = "degenerate"
	}
	FoldFits.WithLabelValues(family, outcome).Inc()
	FoldFitDuration.WithLabelValues(family).Observe(duration.Seconds())
}

// SetBestCVRMSE publishes the selected configuration's mean RMSE for a family.
func SetBestCVRMSE(family string, rmse float64) {
	BestCVRMSE.WithLabelValues(family).Set(rmse)
}

// SetTestMetrics publishes the final held-out scores.
func SetTestMetrics(rmse, rsq float64) {
	TestRMSE.Set(rmse)
	TestRSquared.Set(rsq)
}

// RecordCheckpoint records a checkpoint lookup result.
func RecordCheckpoint(stage string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CheckpointLookups.WithLabelValues(stage, result).Inc()
}

// RecordWarehouseRows adds n rows written to table.
func RecordWarehouseRows(table string, n int) {
	if n <= 0 {
		return
	}
	WarehouseRows.WithLabelValues(table).Add(float64(n))
}

// MarkRunSuccess stamps the last successful run time.
func MarkRunSuccess() {
	LastRunSuccess.Set(float64(time.Now().Unix()))
}

// WriteTextfile writes every registered metric in the text exposition format
// for the node-exporter textfile collector. The file is replaced atomically.
func WriteTextfile(path string) error {
	return WriteTextfileFrom(prometheus.DefaultGatherer, path)
}

// WriteTextfileFrom writes metrics gathered from g to path.
func WriteTextfileFrom(g prometheus.Gatherer, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create metrics directory: %w", err)
		}
	}
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
