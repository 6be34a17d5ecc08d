// Boxoffice - Movie Revenue Modeling Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxoffice

// Package tuning runs cross-validated grid searches over regression families.
//
// A search has three steps:
//
//  1. PrepareFolds fits one preprocessing recipe per fold on its analysis rows
//     and applies it to both sides of the fold. The matrices are shared
//     read-only by every configuration.
//  2. Tuner.Tune scores each (configuration, fold) cell on a bounded worker
//     pool. Each cell writes only its own slot. Degenerate cells are recorded
//     as missing and left out of the configuration's mean.
//  3. SelectBest or SelectOneStdErr picks the configuration to carry forward.
//
// Stochastic models are seeded from (run seed, configuration index, fold
// index), so results do not depend on worker count or scheduling.
package tuning
