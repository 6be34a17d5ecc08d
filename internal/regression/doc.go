// Boxoffice - Movie Revenue Modeling Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxoffice

// Package regression implements the three model families compared by the
// pipeline: ordinary least squares, k-nearest-neighbors and random forest.
//
// Every model implements Regressor. Models are fit on a preprocessed design
// matrix (gonum mat.Matrix, one row per observation) and a revenue vector.
//
// # Degenerate Fits
//
// Fit returns ErrDegenerate when the training data cannot support the
// requested configuration, for example more neighbors than rows or more
// features per split than predictors. Callers treat such a fit as a missing
// score rather than a failure.
//
// # Persistence
//
// State returns a plain, gob-encodable snapshot of a fitted model and Restore
// rebuilds a ready-to-predict Regressor from it.
//
// # Thread Safety
//
// Fit takes an exclusive lock and Predict a shared one, so a fitted model can
// serve concurrent predictions.
package regression
