// Boxoffice - Movie Revenue Modeling Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxoffice

package resample

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// ErrTooFewRows is returned when a partition would leave a side empty.
var ErrTooFewRows = errors.New("resample: too few rows")

// Split is an immutable train/test partition.
type Split struct {
	Train []int `json:"train"`
	Test  []int `json:"test"`
}

// Fold is one cross-validation fold of a training partition.
type Fold struct {
	ID         string `json:"id"`
	Analysis   []int  `json:"analysis"`
	Assessment []int  `json:"assessment"`
}

// InitialSplit puts floor(prop*n) rows of every revenue stratum in Train and
// the rest in Test.
func InitialSplit(y []float64, prop float64, bins int, rng *rand.Rand) (Split, error) {
	if prop <= 0 || prop >= 1 {
		return Split{}, fmt.Errorf("resample: proportion %v outside (0, 1)", prop)
	}
	if len(y) < 2 {
		return Split{}, fmt.Errorf("%w: %d rows for a train/test split", ErrTooFewRows, len(y))
	}

	var s Split
	for _, rows := range groups(Strata(y, bins)) {
		rows = shuffle(rows, rng)
		nTrain := int(math.Floor(prop * float64(len(rows))))
		s.Train = append(s.Train, rows[:nTrain]...)
		s.Test = append(s.Test, rows[nTrain:]...)
	}

	if len(s.Train) == 0 || len(s.Test) == 0 {
		return Split{}, fmt.Errorf("%w: split of %d rows leaves an empty partition", ErrTooFewRows, len(y))
	}

	sort.Ints(s.Train)
	sort.Ints(s.Test)
	return s, nil
}

// VFold partitions len(y) rows into v stratified folds. Inside each stratum
// rows are shuffled and dealt to folds in turn; the dealing position carries
// across strata so fold sizes differ by at most one.
func VFold(y []float64, v, bins int, rng *rand.Rand) ([]Fold, error) {
	if v < 2 {
		return nil, fmt.Errorf("resample: need at least 2 folds, got %d", v)
	}
	if len(y) < v {
		return nil, fmt.Errorf("%w: %d rows for %d folds", ErrTooFewRows, len(y), v)
	}

	assign := make([]int, len(y))
	next := 0
	for _, rows := range groups(Strata(y, bins)) {
		for _, i := range shuffle(rows, rng) {
			assign[i] = next
			next = (next + 1) % v
		}
	}

	folds := make([]Fold, v)
	width := len(fmt.Sprint(v))
	for k := range folds {
		folds[k].ID = fmt.Sprintf("Fold%0*d", width, k+1)
	}
	for i, k := range assign {
		folds[k].Assessment = append(folds[k].Assessment, i)
		for other := range folds {
			if other != k {
				folds[other].Analysis = append(folds[other].Analysis, i)
			}
		}
	}
	return folds, nil
}

// Map translates indices through base, so fold indices into a training
// partition become indices into the full dataset.
func Map(idx, base []int) []int {
	out := make([]int, len(idx))
	for k, i := range idx {
		out[k] = base[i]
	}
	return out
}
