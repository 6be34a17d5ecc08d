// Boxoffice - Movie Revenue Modeling Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxoffice

// Package movies loads, derives and cleans the movie records used for revenue modeling.
//
// The package covers the first three pipeline stages:
//
//  1. Loading: LoadMovies and LoadOscarWinners read the two delimited inputs.
//     Columns are matched by header name (with the aliases used by the public
//     IMDB dataset) and malformed rows are counted and skipped.
//  2. Feature derivation: BuildRecords turns each RawMovie into a MovieRecord
//     with a main genre, release month and year, and the number of distinct
//     crew members found in the OscarWinnerSet.
//  3. Cleaning: Clean drops every record with a missing retained column and
//     refuses to do so when the share of incomplete records is too high.
//
// # Missing Values
//
// Missing strings are empty and missing numbers are NaN until Clean runs.
// Every record Clean returns is complete.
package movies
