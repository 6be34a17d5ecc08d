// Boxoffice - Movie Revenue Modeling Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxoffice

package tuning

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/tomtom215/boxoffice/internal/logging"
	"github.com/tomtom215/boxoffice/internal/metrics"
	"github.com/tomtom215/boxoffice/internal/regression"
)

// FoldScore is the assessment RMSE of one configuration on one fold.
type FoldScore struct {
	Fold string  `json:"fold"`
	RMSE float64 `json:"rmse"`
}

// Result is the cross-validated performance of one configuration.
type Result struct {
	Family regression.Family `json:"family"`
	Config int               `json:"config"`
	Params regression.Params `json:"params"`

	// Folds holds the scored folds only.
	Folds []FoldScore `json:"folds"`

	// Degenerate lists folds whose fit was degenerate for this configuration.
	Degenerate []string `json:"degenerate_folds,omitempty"`

	// Mean and StdErr summarize Folds. Both are 0 when N is 0; StdErr is 0
	// when N is 1.
	Mean   float64 `json:"mean_rmse"`
	StdErr float64 `json:"std_err"`
	N      int     `json:"n"`
}

// Eligible reports whether the configuration has at least one scored fold.
func (r *Result) Eligible() bool {
	return r.N > 0
}

// Config configures a Tuner.
type Config struct {
	// Workers bounds concurrent cells. 0 = runtime.NumCPU().
	Workers int

	// Seed is the run seed stochastic models derive their seeds from.
	Seed int64
}

// Tuner scores hyperparameter grids over prepared folds.
type Tuner struct {
	workers int
	seed    int64
}

// New creates a Tuner.
func New(cfg Config) *Tuner {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Tuner{workers: workers, seed: cfg.Seed}
}

// Workers returns the effective worker count.
func (t *Tuner) Workers() int {
	return t.workers
}

// Tune scores every configuration of grid on every fold. Results are returned
// in grid order. Cancellation stops the search between cells.
func (t *Tuner) Tune(ctx context.Context, family regression.Family, grid []regression.Params, folds []FoldData) ([]Result, error) {
	if len(grid) == 0 {
		return nil, fmt.Errorf("tune %s: empty grid", family)
	}
	if len(folds) == 0 {
		return nil, fmt.Errorf("tune %s: no folds", family)
	}

	logger := logging.Ctx(ctx).With().Str("component", "tuning").Str("family", string(family)).Logger()
	logger.Info().
		Int("configs", len(grid)).
		Int("folds", len(folds)).
		Int("workers", t.workers).
		Msg("Starting grid search")
	start := time.Now()

	// scores[c][f] is NaN for a degenerate cell.
	scores := make([][]float64, len(grid))
	for c := range scores {
		scores[c] = make([]float64, len(folds))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.workers)
	for c := range grid {
		for f := range folds {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				rmse, err := t.scoreCell(gctx, family, grid[c], int64(c), int64(f), &folds[f])
				if err != nil {
					return fmt.Errorf("%s %s on %s: %w", family, grid[c].String(family), folds[f].ID, err)
				}
				scores[c][f] = rmse
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("tune %s: %w", family, err)
	}

	results := make([]Result, len(grid))
	for c := range grid {
		results[c] = summarize(family, c, grid[c], folds, scores[c])
	}

	logger.Info().
		Dur("duration", time.Since(start)).
		Int("cells", len(grid)*len(folds)).
		Msg("Grid search complete")
	return results, nil
}

// scoreCell fits one configuration on one fold and returns the assessment
// RMSE, or NaN when the fit is degenerate.
func (t *Tuner) scoreCell(ctx context.Context, family regression.Family, p regression.Params, config, fold int64, fd *FoldData) (float64, error) {
	start := time.Now()
	degenerate := func() (float64, error) {
		metrics.RecordFoldFit(string(family), time.Since(start), true)
		return math.NaN(), nil
	}

	if fd.Err != nil {
		return degenerate()
	}

	model, err := regression.New(family, p,
		regression.WithSeed(regression.DeriveSeed(t.seed, config, fold)),
		regression.WithWorkers(1),
	)
	if err != nil {
		return 0, err
	}

	if err := model.Fit(ctx, fd.XAnalysis, fd.YAnalysis); err != nil {
		if errors.Is(err, regression.ErrDegenerate) {
			logging.Ctx(ctx).Debug().
				Str("family", string(family)).
				Str("params", p.String(family)).
				Str("fold", fd.ID).
				Err(err).
				Msg("Degenerate cell")
			return degenerate()
		}
		return 0, err
	}

	pred, err := model.Predict(fd.XAssessment)
	if err != nil {
		return 0, err
	}

	rmse := regression.RMSE(fd.YAssessment, pred)
	if math.IsNaN(rmse) || math.IsInf(rmse, 0) {
		return degenerate()
	}
	metrics.RecordFoldFit(string(family), time.Since(start), false)
	return rmse, nil
}

// summarize aggregates the scored folds of one configuration.
func summarize(family regression.Family, config int, p regression.Params, folds []FoldData, scores []float64) Result {
	r := Result{Family: family, Config: config, Params: p}

	vals := make([]float64, 0, len(scores))
	for f, s := range scores {
		if math.IsNaN(s) {
			r.Degenerate = append(r.Degenerate, folds[f].ID)
			continue
		}
		r.Folds = append(r.Folds, FoldScore{Fold: folds[f].ID, RMSE: s})
		vals = append(vals, s)
	}

	r.N = len(vals)
	switch {
	case r.N == 0:
		return r
	case r.N == 1:
		r.Mean = vals[0]
	default:
		mean, sd := stat.MeanStdDev(vals, nil)
		r.Mean = mean
		r.StdErr = sd / math.Sqrt(float64(r.N))
	}
	return r
}
