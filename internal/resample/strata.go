// Boxoffice - Movie Revenue Modeling Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxoffice

package resample

import (
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Strata assigns each value of y to a quantile bin in [0, bins).
// With fewer than 2*bins values every row falls in stratum 0.
func Strata(y []float64, bins int) []int {
	out := make([]int, len(y))
	if bins <= 1 || len(y) < 2*bins {
		return out
	}

	sorted := append([]float64(nil), y...)
	sort.Float64s(sorted)

	breaks := make([]float64, 0, bins-1)
	for k := 1; k < bins; k++ {
		q := stat.Quantile(float64(k)/float64(bins), stat.Empirical, sorted, nil)
		if len(breaks) == 0 || q > breaks[len(breaks)-1] {
			breaks = append(breaks, q)
		}
	}

	for i, v := range y {
		out[i] = sort.SearchFloat64s(breaks, v)
	}
	return out
}

// groups returns the row indices of each non-empty stratum in stratum order,
// each list ascending.
func groups(strata []int) [][]int {
	byStratum := make(map[int][]int)
	keys := make([]int, 0)
	for i, s := range strata {
		if _, ok := byStratum[s]; !ok {
			keys = append(keys, s)
		}
		byStratum[s] = append(byStratum[s], i)
	}
	sort.Ints(keys)

	out := make([][]int, len(keys))
	for k, s := range keys {
		out[k] = byStratum[s]
	}
	return out
}

func shuffle(rows []int, rng *rand.Rand) []int {
	out := append([]int(nil), rows...)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
