// Boxoffice - Movie Revenue Modeling Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxoffice

package pipeline

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/boxoffice/internal/evaluate"
	"github.com/tomtom215/boxoffice/internal/movies"
	"github.com/tomtom215/boxoffice/internal/regression"
	"github.com/tomtom215/boxoffice/internal/tuning"
	"github.com/tomtom215/boxoffice/internal/warehouse"
)

// Report summarizes a completed run.
type Report struct {
	RunID       string    `json:"run_id"`
	Fingerprint string    `json:"fingerprint"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
	DurationMS  int64     `json:"duration_ms"`

	Load      LoadSummary       `json:"load"`
	Clean     movies.CleanStats `json:"clean"`
	Reset     *ResetSummary     `json:"reset,omitempty"`
	Split     SplitSummary      `json:"split"`
	Families  []FamilyReport    `json:"families"`
	Winner    tuning.Result     `json:"winner"`
	Test      TestMetrics       `json:"test"`
	Model     ModelSummary      `json:"model"`
	Warehouse *WarehouseSummary `json:"warehouse,omitempty"`
	Stages    []StageTiming     `json:"stages"`
	Outputs   Outputs           `json:"outputs"`
}

// LoadSummary counts rows read from the input files.
type LoadSummary struct {
	Movies       movies.LoadStats `json:"movies"`
	Oscars       movies.LoadStats `json:"oscars"`
	OscarWinners int              `json:"oscar_winner_names"`
	Records      int              `json:"records"`
}

// ResetSummary counts the persisted state discarded before tuning.
type ResetSummary struct {
	Checkpoints int `json:"checkpoints"`
	Models      int `json:"models"`
}

// SplitSummary describes the resampling design.
type SplitSummary struct {
	Seed      int64   `json:"seed"`
	Train     int     `json:"train"`
	Test      int     `json:"test"`
	Folds     int     `json:"folds"`
	FoldSizes []int   `json:"assessment_sizes"`
	Fraction  float64 `json:"train_fraction"`
}

// FamilyReport holds one family's tuning table and selected configuration.
type FamilyReport struct {
	Family     regression.Family `json:"family"`
	Rule       string            `json:"selection_rule"`
	Configs    int               `json:"configs"`
	Eligible   int               `json:"eligible"`
	Resumed    bool              `json:"resumed"`
	Best       tuning.Result     `json:"best"`
	Results    []tuning.Result   `json:"results"`
	DurationMS int64             `json:"duration_ms"`
}

// TestMetrics is the held-out performance. Undefined values are null.
type TestMetrics struct {
	RMSE                *float64 `json:"rmse"`
	RSquared            *float64 `json:"rsq"`
	TraditionalRSquared *float64 `json:"rsq_trad"`
	N                   int      `json:"n"`
}

// ModelSummary describes the final model artifact.
type ModelSummary struct {
	Family   regression.Family `json:"family"`
	Params   regression.Params `json:"params"`
	Features []string          `json:"features"`
	Version  int               `json:"version,omitempty"`
	Reused   bool              `json:"reused"`
}

// WarehouseSummary is read back from DuckDB after the run's rows are written.
type WarehouseSummary struct {
	Movies        int                    `json:"movies"`
	TuningResults int                    `json:"tuning_results"`
	FinalMetrics  int                    `json:"final_metrics"`
	Best          []warehouse.FamilyBest `json:"best"`
}

// StageTiming is the wall time of one stage.
type StageTiming struct {
	Stage      string `json:"stage"`
	DurationMS int64  `json:"duration_ms"`
}

// Outputs lists files written by the run.
type Outputs struct {
	CleanCSV  string `json:"clean_csv"`
	Report    string `json:"report"`
	Warehouse string `json:"warehouse,omitempty"`
	Metrics   string `json:"metrics,omitempty"`
}

func testMetrics(m evaluate.Metrics) TestMetrics {
	return TestMetrics{
		RMSE:                finitePtr(m.RMSE),
		RSquared:            finitePtr(m.RSquared),
		TraditionalRSquared: finitePtr(m.TraditionalRSquared),
		N:                   m.N,
	}
}

func finitePtr(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// writeReport writes r as indented JSON to path.
func writeReport(path string, r *Report) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil { //nolint:gosec // report is not sensitive
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// ReadReport loads a report written by a previous run.
func ReadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("unmarshal report: %w", err)
	}
	return &r, nil
}
