// Boxoffice - Movie Revenue Modeling Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxoffice

package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/goccy/go-json"

	"github.com/tomtom215/boxoffice/internal/logging"
	"github.com/tomtom215/boxoffice/internal/metrics"
	"github.com/tomtom215/boxoffice/internal/movies"
	"github.com/tomtom215/boxoffice/internal/tuning"
)

// Config holds connection settings.
type Config struct {
	// Path is the database file, or ":memory:".
	Path string

	// MaxMemory is a DuckDB memory limit such as "1GB". Empty keeps the default.
	MaxMemory string

	// Threads bounds DuckDB worker threads. 0 = runtime.NumCPU().
	Threads int
}

// FinalRow is the stored summary of a run's winning model.
type FinalRow struct {
	RunID               string
	Fingerprint         string
	Family              string
	Params              string
	CVRMSE              float64
	TestRMSE            float64
	RSquared            float64
	TraditionalRSquared float64
	TestRows            int
}

// FamilyBest is the lowest mean RMSE of a family within one run.
type FamilyBest struct {
	Family   string  `json:"family"`
	MeanRMSE float64 `json:"mean_rmse"`
	Configs  int     `json:"configs"`
}

// Warehouse writes pipeline outputs to DuckDB.
type Warehouse struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens the database at cfg.Path and creates the schema.
func Open(ctx context.Context, cfg Config) (*Warehouse, error) {
	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create warehouse directory %s: %w", dir, err)
			}
		}
	}

	params := []string{
		fmt.Sprintf("threads=%d", threads),
		"autoinstall_known_extensions=false",
		"autoload_known_extensions=false",
	}
	if cfg.MaxMemory != "" {
		params = append(params, "max_memory="+cfg.MaxMemory)
	}
	connStr := path + "?" + strings.Join(params, "&")

	db, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open warehouse: %w", err)
	}

	w := New(db)
	if err := w.CreateTables(ctx); err != nil {
		_ = db.Close() //nolint:errcheck // already failing
		return nil, err
	}
	return w, nil
}

// New wraps an open connection. The caller creates the schema with
// CreateTables.
func New(db *sql.DB) *Warehouse {
	return &Warehouse{db: db}
}

// Close closes the connection.
func (w *Warehouse) Close() error {
	return w.db.Close()
}

// CreateTables creates the tables if they don't exist.
func (w *Warehouse) CreateTables(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS movies (
			run_id TEXT NOT NULL,
			name TEXT NOT NULL,
			original_language TEXT NOT NULL,
			country TEXT NOT NULL,
			main_genre TEXT NOT NULL,
			release_month TEXT NOT NULL,
			release_year TEXT NOT NULL,
			budget DOUBLE NOT NULL,
			revenue DOUBLE NOT NULL,
			number_of_oscar_winners INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS tuning_results (
			run_id TEXT NOT NULL,
			family TEXT NOT NULL,
			config INTEGER NOT NULL,
			params JSON NOT NULL,
			mean_rmse DOUBLE,
			std_err DOUBLE,
			n INTEGER NOT NULL,
			folds JSON NOT NULL,
			degenerate_folds JSON NOT NULL
		);

		CREATE TABLE IF NOT EXISTS final_metrics (
			run_id TEXT NOT NULL,
			fingerprint TEXT NOT NULL,
			family TEXT NOT NULL,
			params TEXT NOT NULL,
			cv_rmse DOUBLE,
			test_rmse DOUBLE,
			rsq DOUBLE,
			rsq_trad DOUBLE,
			test_rows INTEGER NOT NULL,
			created_at TIMESTAMP NOT NULL
		);
	`

	for _, stmt := range strings.Split(query, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := w.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}
	return nil
}

// withTx runs fn in a transaction after deleting table rows of runID.
func (w *Warehouse) withTx(ctx context.Context, table, runID string, fn func(tx *sql.Tx) (int, error)) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin %s transaction: %w", table, err)
	}
	defer func() { _ = tx.Rollback() }() //nolint:errcheck // no-op after commit

	//nolint:gosec // table is one of the package's constant names
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE run_id = ?", runID); err != nil {
		return 0, fmt.Errorf("clear %s: %w", table, err)
	}

	n, err := fn(tx)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit %s: %w", table, err)
	}

	metrics.RecordWarehouseRows(table, n)
	logging.Ctx(ctx).Debug().Str("table", table).Int("rows", n).Msg("Warehouse table written")
	return n, nil
}

// WriteMovies stores the cleaned dataset of a run.
func (w *Warehouse) WriteMovies(ctx context.Context, runID string, records []movies.MovieRecord) (int, error) {
	return w.withTx(ctx, "movies", runID, func(tx *sql.Tx) (int, error) {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO movies (run_id, name, original_language, country, main_genre,
				release_month, release_year, budget, revenue, number_of_oscar_winners)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return 0, fmt.Errorf("prepare movies insert: %w", err)
		}
		defer stmt.Close()

		for i := range records {
			r := &records[i]
			if _, err := stmt.ExecContext(ctx, runID, r.Name, r.OriginalLanguage, r.Country, r.MainGenre,
				r.ReleaseMonth, r.ReleaseYear, r.Budget, r.Revenue, r.OscarWinners); err != nil {
				return 0, fmt.Errorf("insert movie %q: %w", r.Name, err)
			}
		}
		return len(records), nil
	})
}

// WriteTuningResults stores every tuned configuration of a run.
func (w *Warehouse) WriteTuningResults(ctx context.Context, runID string, results []tuning.Result) (int, error) {
	return w.withTx(ctx, "tuning_results", runID, func(tx *sql.Tx) (int, error) {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO tuning_results (run_id, family, config, params, mean_rmse, std_err, n, folds, degenerate_folds)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return 0, fmt.Errorf("prepare tuning insert: %w", err)
		}
		defer stmt.Close()

		for i := range results {
			r := &results[i]
			params, err := json.Marshal(r.Params)
			if err != nil {
				return 0, fmt.Errorf("marshal params: %w", err)
			}
			folds, err := json.Marshal(nonNil(r.Folds))
			if err != nil {
				return 0, fmt.Errorf("marshal folds: %w", err)
			}
			degenerate, err := json.Marshal(nonNil(r.Degenerate))
			if err != nil {
				return 0, fmt.Errorf("marshal degenerate folds: %w", err)
			}

			mean := sql.NullFloat64{Float64: r.Mean, Valid: r.Eligible()}
			stdErr := sql.NullFloat64{Float64: r.StdErr, Valid: r.N > 1}
			if _, err := stmt.ExecContext(ctx, runID, string(r.Family), r.Config, string(params),
				mean, stdErr, r.N, string(folds), string(degenerate)); err != nil {
				return 0, fmt.Errorf("insert %s config %d: %w", r.Family, r.Config, err)
			}
		}
		return len(results), nil
	})
}

// WriteFinal stores the winning model summary of a run.
//
//nolint:gocritic // row passed by value is acceptable for this write operation
func (w *Warehouse) WriteFinal(ctx context.Context, row FinalRow) error {
	_, err := w.withTx(ctx, "final_metrics", row.RunID, func(tx *sql.Tx) (int, error) {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO final_metrics (run_id, fingerprint, family, params, cv_rmse, test_rmse, rsq, rsq_trad, test_rows, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			row.RunID, row.Fingerprint, row.Family, row.Params,
			finite(row.CVRMSE), finite(row.TestRMSE), finite(row.RSquared), finite(row.TraditionalRSquared),
			row.TestRows, time.Now().UTC()); err != nil {
			return 0, fmt.Errorf("insert final metrics: %w", err)
		}
		return 1, nil
	})
	return err
}

// BestByFamily returns the lowest eligible mean RMSE per family for a run.
func (w *Warehouse) BestByFamily(ctx context.Context, runID string) ([]FamilyBest, error) {
	rows, err := w.db.QueryContext(ctx, `
		SELECT family, MIN(mean_rmse), COUNT(*)
		FROM tuning_results
		WHERE run_id = ? AND n > 0
		GROUP BY family
		ORDER BY family`, runID)
	if err != nil {
		return nil, fmt.Errorf("query best by family: %w", err)
	}
	defer rows.Close()

	var out []FamilyBest
	for rows.Next() {
		var b FamilyBest
		if err := rows.Scan(&b.Family, &b.MeanRMSE, &b.Configs); err != nil {
			return nil, fmt.Errorf("scan best by family: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating best by family: %w", err)
	}
	return out, nil
}

// CountRows returns the number of rows of table written under runID.
func (w *Warehouse) CountRows(ctx context.Context, table, runID string) (int, error) {
	switch table {
	case "movies", "tuning_results", "final_metrics":
	default:
		return 0, fmt.Errorf("unknown table %q", table)
	}
	var n int
	//nolint:gosec // table is validated above
	if err := w.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table+" WHERE run_id = ?", runID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// finite maps NaN and infinities to NULL.
func finite(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: !math.IsNaN(v) && !math.IsInf(v, 0)}
}
