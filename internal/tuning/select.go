// Boxoffice - Movie Revenue Modeling Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxoffice

package tuning

import (
	"errors"

	"github.com/tomtom215/boxoffice/internal/regression"
)

// ErrNoEligible is returned when no configuration has a scored fold.
var ErrNoEligible = errors.New("no configuration has a scored fold")

// SelectBest returns the eligible result with the lowest mean RMSE. Ties keep
// the earlier configuration.
func SelectBest(results []Result) (Result, error) {
	best := -1
	for i := range results {
		if !results[i].Eligible() {
			continue
		}
		if best < 0 || results[i].Mean < results[best].Mean {
			best = i
		}
	}
	if best < 0 {
		return Result{}, ErrNoEligible
	}
	return results[best], nil
}

// SelectOneStdErr applies the one-standard-error rule: among eligible results
// whose mean RMSE is within one standard error of the best mean, it returns
// the simplest according to simpler. Equally simple candidates fall back to
// the lower mean.
func SelectOneStdErr(results []Result, simpler func(a, b regression.Params) bool) (Result, error) {
	best, err := SelectBest(results)
	if err != nil {
		return Result{}, err
	}
	limit := best.Mean + best.StdErr

	chosen := best
	for i := range results {
		r := results[i]
		if !r.Eligible() || r.Mean > limit {
			continue
		}
		switch {
		case simpler(r.Params, chosen.Params):
			chosen = r
		case !simpler(chosen.Params, r.Params) && r.Mean < chosen.Mean:
			chosen = r
		}
	}
	return chosen, nil
}

// FewerNeighbors orders KNN configurations by neighbor count; fewer is simpler.
func FewerNeighbors(a, b regression.Params) bool {
	return a.Neighbors < b.Neighbors
}

// SelectFor applies the family's selection rule: the one-standard-error rule
// with fewest neighbors for KNN, the minimum mean RMSE otherwise.
func SelectFor(family regression.Family, results []Result) (Result, error) {
	if family == regression.FamilyKNN {
		return SelectOneStdErr(results, FewerNeighbors)
	}
	return SelectBest(results)
}
