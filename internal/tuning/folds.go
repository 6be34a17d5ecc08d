// Boxoffice - Movie Revenue Modeling Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxoffice

package tuning

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/tomtom215/boxoffice/internal/preprocess"
	"github.com/tomtom215/boxoffice/internal/resample"
)

// FoldData is one fold with its preprocessing applied.
type FoldData struct {
	ID          string
	XAnalysis   *mat.Dense
	YAnalysis   []float64
	XAssessment *mat.Dense
	YAssessment []float64

	// Err is set when preprocessing could not be fit on the analysis rows.
	// Every cell on such a fold is degenerate.
	Err error
}

// PrepareFolds fits a recipe on each fold's analysis rows and transforms both
// sides. frame and y hold the training partition; fold indices refer to it.
func PrepareFolds(ctx context.Context, frame *preprocess.Frame, y []float64, folds []resample.Fold, workers int) ([]FoldData, error) {
	out := make([]FoldData, len(folds))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for k := range folds {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fd, err := prepareFold(frame, y, &folds[k])
			if err != nil {
				return fmt.Errorf("fold %s: %w", folds[k].ID, err)
			}
			out[k] = fd
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func prepareFold(frame *preprocess.Frame, y []float64, fold *resample.Fold) (FoldData, error) {
	fd := FoldData{
		ID:          fold.ID,
		YAnalysis:   preprocess.SubsetFloats(y, fold.Analysis),
		YAssessment: preprocess.SubsetFloats(y, fold.Assessment),
	}

	analysis := frame.Subset(fold.Analysis)
	recipe, err := preprocess.Fit(analysis)
	if errors.Is(err, preprocess.ErrTooFewRows) || errors.Is(err, preprocess.ErrNoFeatures) {
		fd.Err = err
		return fd, nil
	}
	if err != nil {
		return fd, err
	}

	if fd.XAnalysis, err = recipe.Transform(analysis); err != nil {
		return fd, err
	}
	if fd.XAssessment, err = recipe.Transform(frame.Subset(fold.Assessment)); err != nil {
		if errors.Is(err, preprocess.ErrEmptyFrame) {
			fd.Err = err
			return fd, nil
		}
		return fd, err
	}
	return fd, nil
}
