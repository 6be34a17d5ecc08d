// Boxoffice - Movie Revenue Modeling Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxoffice

// Package pipeline runs the movie revenue modeling workflow end to end.
//
// # Stages
//
// A run executes these stages in order, each logged with a stage field and
// timed into the boxoffice_stage_duration_seconds histogram:
//
//  1. load: read the movies file and the Oscar winners file
//  2. build: derive main genre, release month/year and Oscar winner counts
//  3. clean: drop incomplete records under the missingness limit
//  4. reset: with checkpoint.reset, discard this fingerprint's checkpoints
//     and stored final models
//  5. export: write the cleaned CSV
//  6. split: stratified train/test split, then stratified folds of the
//     training partition
//  7. folds: fit preprocessing per fold on analysis rows
//  8. tune_linear, tune_knn, tune_forest: cross-validated grid search
//  9. evaluate: choose the winner, refit on the training partition, score
//     the test partition once
//  10. warehouse: optional DuckDB export, read back into the report
//  11. report: JSON run report and optional Prometheus textfile
//
// # Resumability
//
// The run fingerprint is a SHA-256 over the cleaned dataset, the resampling
// design and the grids. Tuning tables are checkpointed under it in BadgerDB and
// the final model is stored under it in the model store, so a rerun on the
// same inputs reuses both instead of recomputing.
//
// # Determinism
//
// One seeded source drives the split and the folds. Random forest seeds are
// derived from the run seed and the cell position, so results do not depend on
// worker count or scheduling.
package pipeline
