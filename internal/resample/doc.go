// Boxoffice - Movie Revenue Modeling Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxoffice

// Package resample builds stratified train/test splits and v-fold
// cross-validation partitions.
//
// Stratification bins the outcome into quantile strata and resamples each
// stratum independently, so the outcome distribution is approximately the same
// in every partition. All randomness comes from the *rand.Rand the caller
// passes in; the same seed always yields the same partitions.
//
// Index sets are sorted ascending and refer to positions in the outcome slice
// given to the function.
package resample
