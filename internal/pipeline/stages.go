// Boxoffice - Movie Revenue Modeling Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxoffice

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/tomtom215/boxoffice/internal/checkpoint"
	"github.com/tomtom215/boxoffice/internal/evaluate"
	"github.com/tomtom215/boxoffice/internal/logging"
	"github.com/tomtom215/boxoffice/internal/metrics"
	"github.com/tomtom215/boxoffice/internal/regression"
	"github.com/tomtom215/boxoffice/internal/storage"
	"github.com/tomtom215/boxoffice/internal/tuning"
	"github.com/tomtom215/boxoffice/internal/warehouse"
)

func (p *Pipeline) workers() int {
	if p.cfg.Tuning.Workers > 0 {
		return p.cfg.Tuning.Workers
	}
	return runtime.NumCPU()
}

// Grid returns the configured hyperparameter grid of family.
func (p *Pipeline) Grid(family regression.Family) []regression.Params {
	t := p.cfg.Tuning
	switch family {
	case regression.FamilyKNN:
		return tuning.KNNGrid(t.KNN.NeighborsMin, t.KNN.NeighborsMax, t.KNN.Levels)
	case regression.FamilyForest:
		return tuning.ForestGrid(tuning.ForestRanges{
			MtryMin: t.Forest.MtryMin, MtryMax: t.Forest.MtryMax,
			TreesMin: t.Forest.TreesMin, TreesMax: t.Forest.TreesMax,
			MinNMin: t.Forest.MinNMin, MinNMax: t.Forest.MinNMax,
			Levels: t.Forest.Levels,
		})
	default:
		return tuning.LinearGrid()
	}
}

func selectionRule(family regression.Family) string {
	if family == regression.FamilyKNN {
		return "one_std_err_fewest_neighbors"
	}
	return "min_mean_rmse"
}

// tuneFamily returns the stage that tunes one family, resuming from a
// checkpoint when the fingerprint matches.
func (p *Pipeline) tuneFamily(family regression.Family) func(context.Context, *run) error {
	return func(ctx context.Context, r *run) error {
		start := time.Now()
		stage := logging.StageFromContext(ctx)
		grid := p.Grid(family)

		results, resumed := p.loadResults(ctx, stage, r.report.Fingerprint, len(grid))
		if !resumed {
			tuner := tuning.New(tuning.Config{Workers: p.workers(), Seed: p.cfg.Split.Seed})
			var err error
			results, err = tuner.Tune(ctx, family, grid, r.folds)
			if err != nil {
				return err
			}
			p.saveResults(ctx, stage, r.report.Fingerprint, results)
		}
		r.allResults = append(r.allResults, results...)

		fr := FamilyReport{
			Family:  family,
			Rule:    selectionRule(family),
			Configs: len(results),
			Resumed: resumed,
			Results: results,
		}
		for i := range results {
			if results[i].Eligible() {
				fr.Eligible++
			}
		}

		best, err := tuning.SelectFor(family, results)
		switch {
		case errors.Is(err, tuning.ErrNoEligible):
			logging.Ctx(ctx).Warn().Str("family", string(family)).Msg("No eligible configuration")
		case err != nil:
			return err
		default:
			fr.Best = best
			r.best = append(r.best, best)
			metrics.SetBestCVRMSE(string(family), best.Mean)
			logging.Ctx(ctx).Info().
				Str("family", string(family)).
				Str("params", best.Params.String(family)).
				Float64("mean_rmse", best.Mean).
				Float64("std_err", best.StdErr).
				Int("folds", best.N).
				Bool("resumed", resumed).
				Msg("Family tuned")
		}

		fr.DurationMS = time.Since(start).Milliseconds()
		r.report.Families = append(r.report.Families, fr)
		return nil
	}
}

// loadResults returns a checkpointed tuning table of the expected size.
func (p *Pipeline) loadResults(ctx context.Context, stage, fingerprint string, want int) ([]tuning.Result, bool) {
	if p.checkpoints == nil {
		return nil, false
	}

	var results []tuning.Result
	_, err := p.checkpoints.Load(ctx, fingerprint, stage, &results)
	hit := err == nil && len(results) == want
	metrics.RecordCheckpoint(stage, hit)

	switch {
	case hit:
		return results, true
	case err == nil:
		logging.Ctx(ctx).Warn().Int("stored", len(results)).Int("want", want).Msg("Checkpoint size mismatch, recomputing")
	case !errors.Is(err, checkpoint.ErrNotFound):
		logging.Ctx(ctx).Warn().Err(err).Msg("Checkpoint unreadable, recomputing")
	}
	return nil, false
}

func (p *Pipeline) saveResults(ctx context.Context, stage, fingerprint string, results []tuning.Result) {
	if p.checkpoints == nil {
		return
	}
	if err := p.checkpoints.Save(ctx, fingerprint, stage, results); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Failed to save checkpoint")
	}
}

// reset discards the checkpoints and stored final models of the run
// fingerprint when checkpoint.reset is set.
func (p *Pipeline) reset(ctx context.Context, r *run) error {
	if !p.cfg.Checkpoint.Reset {
		return nil
	}
	fp := r.report.Fingerprint
	summary := &ResetSummary{}

	if p.checkpoints != nil {
		n, err := p.checkpoints.Clear(ctx, fp)
		if err != nil {
			return err
		}
		summary.Checkpoints = n
	}

	if p.models != nil {
		for {
			meta, err := p.models.FindByFingerprint(ctx, finalModelName, fp)
			if errors.Is(err, storage.ErrModelNotFound) {
				break
			}
			if err != nil {
				return err
			}
			if err := p.models.Delete(ctx, finalModelName, meta.Version); err != nil {
				return err
			}
			summary.Models++
		}
	}

	r.report.Reset = summary
	ev := logging.Ctx(ctx).Info().
		Int("checkpoints", summary.Checkpoints).
		Int("models", summary.Models)
	if p.models != nil {
		if v, ok := p.models.GetLatestVersion(finalModelName); ok {
			ev = ev.Int("latest_version", v)
		}
	}
	ev.Msg("Discarded persisted state for fingerprint")
	return nil
}

func (p *Pipeline) evaluate(ctx context.Context, r *run) error {
	winner, err := evaluate.ChooseWinner(r.best)
	if err != nil {
		return err
	}

	fm, version := p.loadFinal(ctx, r.report.Fingerprint, &winner)
	reused := fm != nil
	if !reused {
		fm, err = evaluate.Refit(ctx, &winner, r.train, r.yTrain, p.cfg.Split.Seed, p.workers())
		if err != nil {
			return err
		}
		fm.Fingerprint = r.report.Fingerprint
		if version, err = p.saveFinal(ctx, fm); err != nil {
			return err
		}
	}

	res, err := evaluate.ScoreWinner(ctx, fm, &winner, r.test, r.yTest)
	if err != nil {
		return err
	}
	r.final, r.eval = fm, res
	metrics.SetTestMetrics(res.Metrics.RMSE, res.Metrics.RSquared)

	r.report.Winner = winner
	r.report.Test = testMetrics(res.Metrics)
	r.report.Model = ModelSummary{
		Family:   fm.Family,
		Params:   fm.Params,
		Features: fm.Recipe.Columns(),
		Version:  version,
		Reused:   reused,
	}
	return nil
}

// loadFinal returns a stored final model fitted on the same fingerprint with
// the same winning configuration.
func (p *Pipeline) loadFinal(ctx context.Context, fingerprint string, winner *tuning.Result) (*evaluate.FinalModel, int) {
	if p.models == nil {
		return nil, 0
	}

	meta, err := p.models.FindByFingerprint(ctx, finalModelName, fingerprint)
	if err != nil {
		if !errors.Is(err, storage.ErrModelNotFound) {
			logging.Ctx(ctx).Warn().Err(err).Msg("Model store lookup failed")
		}
		return nil, 0
	}

	var fm evaluate.FinalModel
	if _, err := p.models.Load(ctx, finalModelName, meta.Version, &fm); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Int("version", meta.Version).Msg("Stored model unreadable, refitting")
		return nil, 0
	}
	if fm.Family != winner.Family || fm.Params != winner.Params {
		return nil, 0
	}

	logging.Ctx(ctx).Info().Int("version", meta.Version).Msg("Reusing stored final model")
	return &fm, meta.Version
}

// logModelStore reports what the model store holds when the pipeline opens it.
func (p *Pipeline) logModelStore(ctx context.Context) {
	stored, err := p.models.ListModels(ctx)
	if err != nil {
		p.logger.Warn().Err(err).Msg("Failed to list stored models")
		return
	}
	for i := range stored {
		p.logger.Debug().
			Str("name", stored[i].Name).
			Int("version", stored[i].Version).
			Str("family", stored[i].Family).
			Str("fingerprint", stored[i].Fingerprint).
			Msg("Stored model")
	}
	p.logger.Info().
		Str("path", p.cfg.Models.Path).
		Int("models", len(stored)).
		Msg("Model store opened")
}

func (p *Pipeline) saveFinal(ctx context.Context, fm *evaluate.FinalModel) (int, error) {
	if p.models == nil {
		return 0, nil
	}

	meta := storage.ModelMetadata{
		Family:             string(fm.Family),
		Params:             fm.Params.String(fm.Family),
		Fingerprint:        fm.Fingerprint,
		TrainedAt:          fm.TrainedAt,
		TrainRows:          fm.TrainRows,
		Features:           len(fm.Recipe.Features),
		TrainingDurationMS: fm.Duration.Milliseconds(),
	}
	version, err := p.models.SaveNext(ctx, finalModelName, fm, meta)
	if err != nil {
		return 0, fmt.Errorf("save final model: %w", err)
	}

	if keep := p.cfg.Models.Keep; keep > 0 {
		removed, err := p.models.Prune(ctx, finalModelName, keep)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("Failed to prune model store")
		} else if removed > 0 {
			logging.Ctx(ctx).Debug().Int("removed", removed).Msg("Pruned old model versions")
		}
	}

	logging.Ctx(ctx).Info().Int("version", version).Msg("Final model saved")
	return version, nil
}

func (p *Pipeline) exportWarehouse(ctx context.Context, r *run) error {
	if p.warehouse == nil {
		return nil
	}
	runID := r.report.RunID

	if _, err := p.warehouse.WriteMovies(ctx, runID, r.records); err != nil {
		return err
	}
	if _, err := p.warehouse.WriteTuningResults(ctx, runID, r.allResults); err != nil {
		return err
	}

	m := r.eval.Metrics
	if err := p.warehouse.WriteFinal(ctx, warehouse.FinalRow{
		RunID:               runID,
		Fingerprint:         r.report.Fingerprint,
		Family:              string(r.final.Family),
		Params:              r.final.Params.String(r.final.Family),
		CVRMSE:              r.eval.Winner.Mean,
		TestRMSE:            m.RMSE,
		RSquared:            m.RSquared,
		TraditionalRSquared: m.TraditionalRSquared,
		TestRows:            m.N,
	}); err != nil {
		return err
	}

	summary, err := p.readBackWarehouse(ctx, runID)
	if err != nil {
		return err
	}
	r.report.Warehouse = summary
	r.report.Outputs.Warehouse = p.cfg.Warehouse.Path
	return nil
}

// readBackWarehouse queries the rows just written for runID.
func (p *Pipeline) readBackWarehouse(ctx context.Context, runID string) (*WarehouseSummary, error) {
	s := &WarehouseSummary{}
	for _, c := range []struct {
		table string
		dst   *int
	}{
		{"movies", &s.Movies},
		{"tuning_results", &s.TuningResults},
		{"final_metrics", &s.FinalMetrics},
	} {
		n, err := p.warehouse.CountRows(ctx, c.table, runID)
		if err != nil {
			return nil, err
		}
		*c.dst = n
	}

	best, err := p.warehouse.BestByFamily(ctx, runID)
	if err != nil {
		return nil, err
	}
	s.Best = best
	for _, b := range best {
		logging.Ctx(ctx).Info().
			Str("family", b.Family).
			Float64("mean_rmse", b.MeanRMSE).
			Int("configs", b.Configs).
			Msg("Warehouse family best")
	}
	return s, nil
}

func (p *Pipeline) writeOutputs(ctx context.Context, r *run) error {
	path := p.cfg.Output.ReportPath()
	r.report.Outputs.Report = path
	if p.cfg.Metrics.Textfile != "" {
		r.report.Outputs.Metrics = p.cfg.Metrics.Textfile
	}

	if err := writeReport(path, r.report); err != nil {
		return err
	}

	if p.cfg.Metrics.Textfile != "" {
		metrics.MarkRunSuccess()
		if err := metrics.WriteTextfile(p.cfg.Metrics.Textfile); err != nil {
			return err
		}
	}

	logging.Ctx(ctx).Info().Str("report", path).Msg("Run outputs written")
	return nil
}
