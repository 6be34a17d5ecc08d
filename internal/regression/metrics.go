// Boxoffice - Movie Revenue Modeling Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxoffice

package regression

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// RMSE returns the root mean squared error of pred against y.
// Mismatched or empty inputs yield NaN.
func RMSE(y, pred []float64) float64 {
	if len(y) == 0 || len(y) != len(pred) {
		return math.NaN()
	}
	var ss float64
	for i := range y {
		d := y[i] - pred[i]
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(y)))
}

// RSquared returns the squared Pearson correlation of pred and y. It is NaN
// when either side is constant.
func RSquared(y, pred []float64) float64 {
	if len(y) < 2 || len(y) != len(pred) {
		return math.NaN()
	}
	r := stat.Correlation(y, pred, nil)
	return r * r
}

// TraditionalRSquared returns 1 - SSres/SStot.
func TraditionalRSquared(y, pred []float64) float64 {
	if len(y) < 2 || len(y) != len(pred) {
		return math.NaN()
	}
	return stat.RSquaredFrom(pred, y, nil)
}
