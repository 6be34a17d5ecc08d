// Boxoffice - Movie Revenue Modeling Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxoffice

package warehouse

import (
	"context"
	"database/sql"
	"math"
	"path/filepath"
	"testing"

	"github.com/tomtom215/boxoffice/internal/movies"
	"github.com/tomtom215/boxoffice/internal/regression"
	"github.com/tomtom215/boxoffice/internal/tuning"
)

func openTestWarehouse(t *testing.T) *Warehouse {
	t.Helper()
	w, err := Open(context.Background(), Config{Path: ":memory:", Threads: 1})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })
	return w
}

func sampleRecords() []movies.MovieRecord {
	return []movies.MovieRecord{
		{Name: "Alpha", OriginalLanguage: "English", Country: "AU", MainGenre: "Drama", ReleaseMonth: "03", ReleaseYear: "2001", Budget: 1e6, Revenue: 5e6, OscarWinners: 1},
		{Name: "Beta", OriginalLanguage: "French", Country: "FR", MainGenre: "Comedy", ReleaseMonth: "11", ReleaseYear: "1999", Budget: 2e6, Revenue: 1e6},
	}
}

func sampleResults() []tuning.Result {
	return []tuning.Result{
		{Family: regression.FamilyLinear, Mean: 10, StdErr: 1, N: 10, Folds: []tuning.FoldScore{{Fold: "Fold01", RMSE: 10}}},
		{Family: regression.FamilyKNN, Config: 0, Params: regression.Params{Neighbors: 1}, Mean: 12, StdErr: 2, N: 10},
		{Family: regression.FamilyKNN, Config: 1, Params: regression.Params{Neighbors: 2}, Mean: 9, StdErr: 2, N: 10},
		{Family: regression.FamilyForest, Params: regression.Params{Mtry: 8, Trees: 200, MinN: 10}, Degenerate: []string{"Fold01"}},
	}
}

func TestWriteMovies(t *testing.T) {
	w := openTestWarehouse(t)
	ctx := context.Background()

	n, err := w.WriteMovies(ctx, "run-1", sampleRecords())
	if err != nil {
		t.Fatalf("WriteMovies() error = %v", err)
	}
	if n != 2 {
		t.Errorf("WriteMovies() = %d, want 2", n)
	}

	// Rewriting a run replaces its rows.
	if _, err := w.WriteMovies(ctx, "run-1", sampleRecords()[:1]); err != nil {
		t.Fatalf("WriteMovies() error = %v", err)
	}
	if _, err := w.WriteMovies(ctx, "run-2", sampleRecords()); err != nil {
		t.Fatalf("WriteMovies() error = %v", err)
	}

	tests := []struct {
		runID string
		want  int
	}{
		{"run-1", 1},
		{"run-2", 2},
		{"run-3", 0},
	}
	for _, tt := range tests {
		got, err := w.CountRows(ctx, "movies", tt.runID)
		if err != nil {
			t.Fatalf("CountRows() error = %v", err)
		}
		if got != tt.want {
			t.Errorf("CountRows(%s) = %d, want %d", tt.runID, got, tt.want)
		}
	}
}

func TestWriteTuningResults(t *testing.T) {
	w := openTestWarehouse(t)
	ctx := context.Background()

	if _, err := w.WriteTuningResults(ctx, "run-1", sampleResults()); err != nil {
		t.Fatalf("WriteTuningResults() error = %v", err)
	}

	best, err := w.BestByFamily(ctx, "run-1")
	if err != nil {
		t.Fatalf("BestByFamily() error = %v", err)
	}
	want := []FamilyBest{
		{Family: "linear_reg", MeanRMSE: 10, Configs: 1},
		{Family: "nearest_neighbor", MeanRMSE: 9, Configs: 2},
	}
	if len(best) != len(want) {
		t.Fatalf("BestByFamily() = %+v, want %+v", best, want)
	}
	for i := range want {
		if best[i] != want[i] {
			t.Errorf("BestByFamily()[%d] = %+v, want %+v", i, best[i], want[i])
		}
	}

	var mean sql.NullFloat64
	if err := w.db.QueryRowContext(ctx,
		"SELECT mean_rmse FROM tuning_results WHERE run_id = ? AND family = ?", "run-1", "rand_forest").Scan(&mean); err != nil {
		t.Fatalf("query forest row: %v", err)
	}
	if mean.Valid {
		t.Errorf("ineligible mean_rmse = %v, want NULL", mean.Float64)
	}
}

func TestWriteFinal(t *testing.T) {
	w := openTestWarehouse(t)
	ctx := context.Background()

	row := FinalRow{
		RunID:               "run-1",
		Fingerprint:         "abc",
		Family:              "linear_reg",
		Params:              "none",
		CVRMSE:              1.5,
		TestRMSE:            1.25,
		RSquared:            math.NaN(),
		TraditionalRSquared: 0.5,
		TestRows:            20,
	}
	if err := w.WriteFinal(ctx, row); err != nil {
		t.Fatalf("WriteFinal() error = %v", err)
	}
	if err := w.WriteFinal(ctx, row); err != nil {
		t.Fatalf("WriteFinal() error = %v", err)
	}

	n, err := w.CountRows(ctx, "final_metrics", "run-1")
	if err != nil {
		t.Fatalf("CountRows() error = %v", err)
	}
	if n != 1 {
		t.Errorf("final_metrics rows = %d, want 1", n)
	}

	var rsq sql.NullFloat64
	var testRMSE float64
	if err := w.db.QueryRowContext(ctx,
		"SELECT rsq, test_rmse FROM final_metrics WHERE run_id = ?", "run-1").Scan(&rsq, &testRMSE); err != nil {
		t.Fatalf("query final row: %v", err)
	}
	if rsq.Valid || testRMSE != 1.25 {
		t.Errorf("rsq = %+v, test_rmse = %v", rsq, testRMSE)
	}
}

func TestCountRows_UnknownTable(t *testing.T) {
	w := openTestWarehouse(t)
	if _, err := w.CountRows(context.Background(), "users; DROP TABLE movies", "run-1"); err == nil {
		t.Error("CountRows() should reject unknown tables")
	}
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "boxoffice.duckdb")
	ctx := context.Background()

	w, err := Open(ctx, Config{Path: path, MaxMemory: "256MB", Threads: 1})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, err := w.WriteMovies(ctx, "run-1", sampleRecords()); err != nil {
		t.Fatalf("WriteMovies() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := Open(ctx, Config{Path: path, Threads: 1})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer reopened.Close()

	n, err := reopened.CountRows(ctx, "movies", "run-1")
	if err != nil {
		t.Fatalf("CountRows() error = %v", err)
	}
	if n != 2 {
		t.Errorf("CountRows() = %d, want 2", n)
	}
}
