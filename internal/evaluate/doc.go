// Boxoffice - Movie Revenue Modeling Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxoffice

// Package evaluate chooses the winning model family, refits it on the whole
// training partition and scores it once on the held-out test partition.
//
// # Winner Selection
//
// Each family contributes its tuned best configuration. The winner is the
// eligible candidate with the lowest mean cross-validated RMSE; ties keep the
// earlier family in report order (linear, nearest neighbor, random forest).
//
// # Final Fit
//
// Preprocessing is refit on the training partition only and applied unchanged
// to the test partition. The fitted recipe and model state together form a
// FinalModel, which is plain data and can be persisted and restored.
//
// # Metrics
//
// Test performance is reported as RMSE, R² as the squared Pearson correlation
// between predictions and outcomes, and the traditional 1 - SSres/SStot.
package evaluate
