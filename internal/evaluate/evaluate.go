// Boxoffice - Movie Revenue Modeling Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxoffice

package evaluate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/boxoffice/internal/logging"
	"github.com/tomtom215/boxoffice/internal/preprocess"
	"github.com/tomtom215/boxoffice/internal/regression"
	"github.com/tomtom215/boxoffice/internal/tuning"
)

// ErrNoCandidate is returned when no family has an eligible configuration.
var ErrNoCandidate = errors.New("evaluate: no eligible candidate")

// Metrics is the held-out performance of the final model.
type Metrics struct {
	RMSE                float64 `json:"rmse"`
	RSquared            float64 `json:"rsq"`
	TraditionalRSquared float64 `json:"rsq_trad"`
	N                   int     `json:"n"`
}

// FinalModel is a fitted preprocessing recipe plus model state.
type FinalModel struct {
	Family      regression.Family
	Params      regression.Params
	Recipe      *preprocess.Recipe
	State       *regression.State
	Fingerprint string
	TrainRows   int
	TrainedAt   time.Time
	Duration    time.Duration
}

// Result is the outcome of evaluation.
type Result struct {
	Winner      tuning.Result `json:"winner"`
	Metrics     Metrics       `json:"metrics"`
	Predictions []float64     `json:"-"`
}

// ChooseWinner returns the eligible candidate with the lowest mean RMSE.
// Ties keep the earlier candidate.
func ChooseWinner(candidates []tuning.Result) (tuning.Result, error) {
	winner, err := tuning.SelectBest(candidates)
	if errors.Is(err, tuning.ErrNoEligible) {
		return tuning.Result{}, ErrNoCandidate
	}
	return winner, err
}

// Refit fits preprocessing and the winning configuration on the training
// partition.
func Refit(ctx context.Context, winner *tuning.Result, train *preprocess.Frame, y []float64, seed int64, workers int) (*FinalModel, error) {
	start := time.Now()

	recipe, err := preprocess.Fit(train)
	if err != nil {
		return nil, fmt.Errorf("fit preprocessing: %w", err)
	}
	x, err := recipe.Transform(train)
	if err != nil {
		return nil, fmt.Errorf("transform training data: %w", err)
	}

	model, err := regression.New(winner.Family, winner.Params,
		regression.WithSeed(seed),
		regression.WithWorkers(workers),
	)
	if err != nil {
		return nil, err
	}
	if err := model.Fit(ctx, x, y); err != nil {
		return nil, fmt.Errorf("fit %s %s: %w", winner.Family, winner.Params.String(winner.Family), err)
	}

	st, err := model.State()
	if err != nil {
		return nil, err
	}

	fm := &FinalModel{
		Family:    winner.Family,
		Params:    winner.Params,
		Recipe:    recipe,
		State:     st,
		TrainRows: len(y),
		TrainedAt: time.Now(),
		Duration:  time.Since(start),
	}
	logging.Ctx(ctx).Info().
		Str("family", string(fm.Family)).
		Str("params", fm.Params.String(fm.Family)).
		Int("features", len(recipe.Features)).
		Int("rows", fm.TrainRows).
		Dur("duration", fm.Duration).
		Msg("Final model fitted")
	return fm, nil
}

// Predict applies the recipe and the restored model to f.
func (m *FinalModel) Predict(f *preprocess.Frame) ([]float64, error) {
	if m.Recipe == nil || m.State == nil {
		return nil, regression.ErrNotFitted
	}
	x, err := m.Recipe.Transform(f)
	if err != nil {
		return nil, fmt.Errorf("transform: %w", err)
	}
	model, err := regression.Restore(m.State)
	if err != nil {
		return nil, err
	}
	return model.Predict(x)
}

// Score predicts f once and compares against y.
func Score(m *FinalModel, f *preprocess.Frame, y []float64) (Metrics, []float64, error) {
	pred, err := m.Predict(f)
	if err != nil {
		return Metrics{}, nil, err
	}
	if len(pred) != len(y) {
		return Metrics{}, nil, fmt.Errorf("score: %d predictions for %d outcomes", len(pred), len(y))
	}
	return Metrics{
		RMSE:                regression.RMSE(y, pred),
		RSquared:            regression.RSquared(y, pred),
		TraditionalRSquared: regression.TraditionalRSquared(y, pred),
		N:                   len(y),
	}, pred, nil
}

// Evaluate chooses the winner among candidates, refits it on the training
// partition and scores it on the test partition.
func Evaluate(ctx context.Context, candidates []tuning.Result, train *preprocess.Frame, yTrain []float64, test *preprocess.Frame, yTest []float64, seed int64, workers int) (*Result, *FinalModel, error) {
	winner, err := ChooseWinner(candidates)
	if err != nil {
		return nil, nil, err
	}

	fm, err := Refit(ctx, &winner, train, yTrain, seed, workers)
	if err != nil {
		return nil, nil, err
	}

	res, err := ScoreWinner(ctx, fm, &winner, test, yTest)
	if err != nil {
		return nil, nil, err
	}
	return res, fm, nil
}

// ScoreWinner scores an already fitted final model on the test partition.
func ScoreWinner(ctx context.Context, fm *FinalModel, winner *tuning.Result, test *preprocess.Frame, yTest []float64) (*Result, error) {
	metrics, pred, err := Score(fm, test, yTest)
	if err != nil {
		return nil, fmt.Errorf("score test partition: %w", err)
	}

	logging.Ctx(ctx).Info().
		Str("family", string(winner.Family)).
		Float64("rmse", metrics.RMSE).
		Float64("rsq", metrics.RSquared).
		Float64("rsq_trad", metrics.TraditionalRSquared).
		Int("rows", metrics.N).
		Msg("Test partition scored")

	return &Result{Winner: *winner, Metrics: metrics, Predictions: pred}, nil
}
