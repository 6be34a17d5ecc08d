// Boxoffice - Movie Revenue Modeling Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxoffice

package tuning

import (
	"math"

	"github.com/tomtom215/boxoffice/internal/regression"
)

// RegularLevels returns n evenly spaced values over [lo, hi] rounded to
// integers (half to even), with duplicates removed.
func RegularLevels(lo, hi, n int) []int {
	if n <= 1 || lo == hi {
		return []int{lo}
	}

	out := make([]int, 0, n)
	step := float64(hi-lo) / float64(n-1)
	for k := 0; k < n; k++ {
		v := int(math.RoundToEven(float64(lo) + float64(k)*step))
		if len(out) == 0 || v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

// LinearGrid is the single configuration of the hyperparameter-free linear model.
func LinearGrid() []regression.Params {
	return []regression.Params{{}}
}

// KNNGrid returns one configuration per neighbor count level.
func KNNGrid(lo, hi, levels int) []regression.Params {
	ks := RegularLevels(lo, hi, levels)
	grid := make([]regression.Params, len(ks))
	for i, k := range ks {
		grid[i] = regression.Params{Neighbors: k}
	}
	return grid
}

// ForestRanges bounds the random forest grid.
type ForestRanges struct {
	MtryMin, MtryMax   int
	TreesMin, TreesMax int
	MinNMin, MinNMax   int
	Levels             int
}

// ForestGrid returns the full factorial grid with mtry varying fastest.
func ForestGrid(r ForestRanges) []regression.Params {
	mtry := RegularLevels(r.MtryMin, r.MtryMax, r.Levels)
	trees := RegularLevels(r.TreesMin, r.TreesMax, r.Levels)
	minN := RegularLevels(r.MinNMin, r.MinNMax, r.Levels)

	grid := make([]regression.Params, 0, len(mtry)*len(trees)*len(minN))
	for _, n := range minN {
		for _, t := range trees {
			for _, m := range mtry {
				grid = append(grid, regression.Params{Mtry: m, Trees: t, MinN: n})
			}
		}
	}
	return grid
}
