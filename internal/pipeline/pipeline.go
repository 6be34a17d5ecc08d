// Boxoffice - Movie Revenue Modeling Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxoffice

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/boxoffice/internal/checkpoint"
	"github.com/tomtom215/boxoffice/internal/config"
	"github.com/tomtom215/boxoffice/internal/evaluate"
	"github.com/tomtom215/boxoffice/internal/logging"
	"github.com/tomtom215/boxoffice/internal/metrics"
	"github.com/tomtom215/boxoffice/internal/movies"
	"github.com/tomtom215/boxoffice/internal/preprocess"
	"github.com/tomtom215/boxoffice/internal/regression"
	"github.com/tomtom215/boxoffice/internal/resample"
	"github.com/tomtom215/boxoffice/internal/storage"
	"github.com/tomtom215/boxoffice/internal/tuning"
	"github.com/tomtom215/boxoffice/internal/warehouse"
)

// finalModelName is the model store name of the fitted winner.
const finalModelName = "final"

// Pipeline runs the workflow described by a Config.
type Pipeline struct {
	cfg    *config.Config
	logger zerolog.Logger

	checkpoints checkpoint.Store
	models      *storage.Store
	warehouse   *warehouse.Warehouse

	// owned resources are closed by Close
	owned []func() error
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithCheckpointStore uses s instead of opening the configured BadgerDB.
func WithCheckpointStore(s checkpoint.Store) Option {
	return func(p *Pipeline) { p.checkpoints = s }
}

// WithWarehouse uses w instead of opening the configured DuckDB file.
func WithWarehouse(w *warehouse.Warehouse) Option {
	return func(p *Pipeline) { p.warehouse = w }
}

// New opens the persistence layers enabled in cfg.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Pipeline, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	p := &Pipeline{
		cfg:    cfg,
		logger: logging.WithComponent("pipeline"),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.checkpoints == nil && cfg.Checkpoint.Enabled {
		s, err := checkpoint.Open(cfg.Checkpoint.Path)
		if err != nil {
			return nil, err
		}
		p.checkpoints = s
		p.owned = append(p.owned, s.Close)
	}

	if cfg.Models.Enabled {
		s, err := storage.NewStore(cfg.Models.Path)
		if err != nil {
			_ = p.Close()
			return nil, fmt.Errorf("open model store: %w", err)
		}
		p.models = s
		p.logModelStore(ctx)
	}

	if p.warehouse == nil && cfg.Warehouse.Enabled {
		w, err := warehouse.Open(ctx, warehouse.Config{
			Path:      cfg.Warehouse.Path,
			MaxMemory: cfg.Warehouse.MaxMemory,
			Threads:   cfg.Warehouse.Threads,
		})
		if err != nil {
			_ = p.Close()
			return nil, err
		}
		p.warehouse = w
		p.owned = append(p.owned, w.Close)
	}

	return p, nil
}

// Close releases resources opened by New.
func (p *Pipeline) Close() error {
	var errs []error
	for i := len(p.owned) - 1; i >= 0; i-- {
		if err := p.owned[i](); err != nil {
			errs = append(errs, err)
		}
	}
	p.owned = nil
	return errors.Join(errs...)
}

// run carries the intermediate state of one Run.
type run struct {
	report *Report

	raws    []movies.RawMovie
	winners *movies.OscarWinnerSet
	records []movies.MovieRecord

	train, test   *preprocess.Frame
	yTrain, yTest []float64
	splitFolds    []resample.Fold
	folds         []tuning.FoldData

	best       []tuning.Result
	allResults []tuning.Result

	final *evaluate.FinalModel
	eval  *evaluate.Result
}

// Run executes every stage and returns the report. The context carries a new
// run id unless one is already present.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	if logging.RunIDFromContext(ctx) == "" {
		ctx = logging.ContextWithNewRunID(ctx)
	}
	ctx = logging.ContextWithLogger(ctx, p.logger)

	start := time.Now()
	r := &run{report: &Report{
		RunID:     logging.RunIDFromContext(ctx),
		StartedAt: start.UTC(),
	}}

	logging.Ctx(ctx).Info().
		Str("movies", p.cfg.Input.MoviesPath).
		Str("oscars", p.cfg.Input.OscarsPath).
		Msg("Starting pipeline run")

	stages := []struct {
		name string
		fn   func(context.Context, *run) error
	}{
		{"load", p.load},
		{"build", p.build},
		{"clean", p.clean},
		{"reset", p.reset},
		{"export", p.export},
		{"split", p.split},
		{"folds", p.prepareFolds},
		{"tune_linear", p.tuneFamily(regression.FamilyLinear)},
		{"tune_knn", p.tuneFamily(regression.FamilyKNN)},
		{"tune_forest", p.tuneFamily(regression.FamilyForest)},
		{"evaluate", p.evaluate},
		{"warehouse", p.exportWarehouse},
	}
	for _, s := range stages {
		if err := p.stage(ctx, r, s.name, s.fn); err != nil {
			return nil, err
		}
	}

	r.report.FinishedAt = time.Now().UTC()
	r.report.DurationMS = time.Since(start).Milliseconds()
	if err := p.stage(ctx, r, "report", p.writeOutputs); err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Info().
		Str("winner", string(r.report.Winner.Family)).
		Dur("duration", time.Since(start)).
		Msg("Pipeline run complete")
	return r.report, nil
}

// stage runs fn with a stage-tagged context and records its timing.
func (p *Pipeline) stage(ctx context.Context, r *run, name string, fn func(context.Context, *run) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ctx = logging.ContextWithStage(ctx, name)

	start := time.Now()
	err := fn(ctx, r)
	d := time.Since(start)
	metrics.RecordStage(name, d, err)

	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Dur("duration", d).Msg("Stage failed")
		return fmt.Errorf("%s: %w", name, err)
	}
	r.report.Stages = append(r.report.Stages, StageTiming{Stage: name, DurationMS: d.Milliseconds()})
	logging.Ctx(ctx).Debug().Dur("duration", d).Msg("Stage complete")
	return nil
}

func (p *Pipeline) load(ctx context.Context, r *run) error {
	raws, mstats, err := movies.LoadMovies(ctx, p.cfg.Input.MoviesPath)
	if err != nil {
		return err
	}
	winners, ostats, err := movies.LoadOscarWinners(ctx, p.cfg.Input.OscarsPath, p.cfg.Input.WinnersOnly)
	if err != nil {
		return err
	}

	r.raws, r.winners = raws, winners
	r.report.Load = LoadSummary{Movies: mstats, Oscars: ostats, OscarWinners: winners.Len()}
	metrics.RecordRecords("load", "read", mstats.RowsRead)
	metrics.RecordRecords("load", "skipped", mstats.RowsSkipped)
	return nil
}

func (p *Pipeline) build(_ context.Context, r *run) error {
	r.records = movies.BuildRecords(r.raws, r.winners)
	r.raws = nil
	r.report.Load.Records = len(r.records)
	return nil
}

func (p *Pipeline) clean(ctx context.Context, r *run) error {
	kept, stats, err := movies.Clean(r.records, p.cfg.Cleaning.MaxMissingFraction)
	r.report.Clean = stats
	if err != nil {
		return err
	}
	r.records = kept
	metrics.RecordRecords("clean", "kept", stats.Kept)
	metrics.RecordRecords("clean", "dropped", stats.Dropped)

	logging.Ctx(ctx).Info().
		Int("input", stats.Input).
		Int("kept", stats.Kept).
		Int("dropped", stats.Dropped).
		Float64("missing_fraction", stats.MissingFraction).
		Msg("Records cleaned")

	fp, err := Fingerprint(r.records, p.cfg)
	if err != nil {
		return err
	}
	r.report.Fingerprint = fp
	return nil
}

func (p *Pipeline) export(_ context.Context, r *run) error {
	path := p.cfg.Output.CleanCSVPath()
	if err := movies.WriteCleanCSV(path, r.records); err != nil {
		return err
	}
	r.report.Outputs.CleanCSV = path
	return nil
}

func (p *Pipeline) split(ctx context.Context, r *run) error {
	frame, y := movies.ToFrame(r.records)
	sc := p.cfg.Split

	//nolint:gosec // math/rand is fine for resampling
	rng := rand.New(rand.NewSource(sc.Seed))
	s, err := resample.InitialSplit(y, sc.TrainFraction, sc.StrataBins, rng)
	if err != nil {
		return err
	}
	r.train, r.yTrain = frame.Subset(s.Train), preprocess.SubsetFloats(y, s.Train)
	r.test, r.yTest = frame.Subset(s.Test), preprocess.SubsetFloats(y, s.Test)

	folds, err := resample.VFold(r.yTrain, sc.Folds, sc.StrataBins, rng)
	if err != nil {
		return err
	}
	r.report.Split = SplitSummary{
		Seed:     sc.Seed,
		Train:    len(s.Train),
		Test:     len(s.Test),
		Folds:    len(folds),
		Fraction: sc.TrainFraction,
	}
	for _, f := range folds {
		r.report.Split.FoldSizes = append(r.report.Split.FoldSizes, len(f.Assessment))
	}

	r.splitFolds = folds

	logging.Ctx(ctx).Info().
		Int("train", len(s.Train)).
		Int("test", len(s.Test)).
		Int("folds", len(folds)).
		Msg("Data split")
	return nil
}

func (p *Pipeline) prepareFolds(ctx context.Context, r *run) error {
	prepared, err := tuning.PrepareFolds(ctx, r.train, r.yTrain, r.splitFolds, p.workers())
	if err != nil {
		return err
	}
	r.folds = prepared

	degenerate := 0
	for i := range r.folds {
		if r.folds[i].Err != nil {
			degenerate++
			logging.Ctx(ctx).Warn().
				Str("fold", r.folds[i].ID).
				Err(r.folds[i].Err).
				Msg("Fold preprocessing degenerate")
		}
	}
	if degenerate == len(r.folds) {
		return fmt.Errorf("preprocessing failed on every fold")
	}
	return nil
}
