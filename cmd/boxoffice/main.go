// Boxoffice - Movie Revenue Modeling Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxoffice

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/tomtom215/boxoffice/internal/config"
	"github.com/tomtom215/boxoffice/internal/logging"
	"github.com/tomtom215/boxoffice/internal/pipeline"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load configuration first to get logging settings
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Error().Err(err).Msg("Failed to load configuration")
		return 1
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	logging.Info().
		Str("movies", cfg.Input.MoviesPath).
		Str("oscars", cfg.Input.OscarsPath).
		Str("output_dir", cfg.Output.Dir).
		Int64("seed", cfg.Split.Seed).
		Int("folds", cfg.Split.Folds).
		Bool("checkpoints", cfg.Checkpoint.Enabled).
		Bool("warehouse", cfg.Warehouse.Enabled).
		Msg("Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := pipeline.New(ctx, cfg)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to initialize pipeline")
		return 1
	}
	defer func() {
		if err := p.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing pipeline stores")
		}
	}()

	report, err := p.Run(ctx)
	if err != nil {
		logging.Error().Err(err).Msg("Pipeline failed")
		return 1
	}

	logSummary(report)
	return 0
}

func logSummary(r *pipeline.Report) {
	ev := logging.Info().
		Str("run_id", r.RunID).
		Str("fingerprint", r.Fingerprint).
		Str("winner", string(r.Winner.Family)).
		Str("params", r.Winner.Params.String(r.Winner.Family)).
		Float64("cv_rmse", r.Winner.Mean).
		Int("test_rows", r.Test.N).
		Bool("model_reused", r.Model.Reused).
		Int64("duration_ms", r.DurationMS).
		Str("report", r.Outputs.Report)
	ev = optionalFloat(ev, "test_rmse", r.Test.RMSE)
	ev = optionalFloat(ev, "test_rsq", r.Test.RSquared)
	ev.Msg("Pipeline complete")
}

func optionalFloat(ev *zerolog.Event, key string, v *float64) *zerolog.Event {
	if v == nil {
		return ev
	}
	return ev.Float64(key, *v)
}
