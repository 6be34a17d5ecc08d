// Boxoffice - Movie Revenue Modeling Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxoffice

// Package preprocess turns a mixed categorical and numeric Frame into a
// centered and scaled design matrix.
//
// A Recipe is fit on one set of rows (the analysis set of a fold, or the whole
// training partition for the final model) and applied unchanged to any other
// rows. Fitting learns:
//
//   - the sorted level set of each categorical column; the first level is the
//     reference and gets no indicator column, levels unseen at fit time encode
//     as all zeros
//   - the sample mean and standard deviation of every resulting column
//
// Columns with zero variance in the fitting rows are removed. Recipes hold only
// exported plain fields so they can be gob-encoded with a fitted model.
package preprocess
