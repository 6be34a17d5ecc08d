// Boxoffice - Movie Revenue Modeling Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxoffice

package preprocess

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrTooFewRows is returned when a recipe is fit on fewer than two rows,
	// where a sample standard deviation is undefined.
	ErrTooFewRows = errors.New("preprocess: at least two rows are required")

	// ErrNoFeatures is returned when every candidate column has zero variance.
	ErrNoFeatures = errors.New("preprocess: no predictor has nonzero variance")

	// ErrEmptyFrame is returned when transforming a frame with no rows.
	ErrEmptyFrame = errors.New("preprocess: frame has no rows")
)

// Feature is one output column of a fitted Recipe.
type Feature struct {
	// Name is the numeric column name or "<categorical>_<level>".
	Name string

	// Source indexes Frame.Categorical when Dummy is true, Frame.Numeric otherwise.
	Source int
	Dummy  bool
	Level  string

	Mean  float64
	Scale float64
}

// Recipe is a fitted dummy-encode, center and scale transformation.
type Recipe struct {
	CategoricalNames []string
	NumericNames     []string
	Features         []Feature

	// Dropped lists candidate columns removed for zero variance.
	Dropped []string
}

// Fit learns encodings and scaling statistics from f.
func Fit(f *Frame) (*Recipe, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	n := f.Rows()
	if n < 2 {
		return nil, ErrTooFewRows
	}

	r := &Recipe{
		CategoricalNames: append([]string(nil), f.CategoricalNames...),
		NumericNames:     append([]string(nil), f.NumericNames...),
	}

	col := make([]float64, n)
	consider := func(feat Feature) {
		fillColumn(col, f, &feat)
		mean, sd := stat.MeanStdDev(col, nil)
		if sd == 0 || math.IsNaN(sd) || math.IsInf(sd, 0) {
			r.Dropped = append(r.Dropped, feat.Name)
			return
		}
		feat.Mean, feat.Scale = mean, sd
		r.Features = append(r.Features, feat)
	}

	for j, name := range f.CategoricalNames {
		for _, level := range nonReferenceLevels(f.Categorical[j]) {
			consider(Feature{Name: name + "_" + level, Source: j, Dummy: true, Level: level})
		}
	}
	for j, name := range f.NumericNames {
		consider(Feature{Name: name, Source: j})
	}

	if len(r.Features) == 0 {
		return nil, ErrNoFeatures
	}
	return r, nil
}

// nonReferenceLevels returns the sorted distinct levels minus the first.
func nonReferenceLevels(values []string) []string {
	seen := make(map[string]struct{})
	for _, v := range values {
		seen[v] = struct{}{}
	}
	levels := make([]string, 0, len(seen))
	for v := range seen {
		levels = append(levels, v)
	}
	sort.Strings(levels)
	if len(levels) <= 1 {
		return nil
	}
	return levels[1:]
}

// fillColumn writes the unscaled values of feat for every row of f into dst.
func fillColumn(dst []float64, f *Frame, feat *Feature) {
	if feat.Dummy {
		src := f.Categorical[feat.Source]
		for i, v := range src {
			if v == feat.Level {
				dst[i] = 1
			} else {
				dst[i] = 0
			}
		}
		return
	}
	copy(dst, f.Numeric[feat.Source])
}

// Columns returns the output column names.
func (r *Recipe) Columns() []string {
	names := make([]string, len(r.Features))
	for i := range r.Features {
		names[i] = r.Features[i].Name
	}
	return names
}

// Transform applies the fitted recipe to f. The result has one row per frame
// row and one column per Feature.
func (r *Recipe) Transform(f *Frame) (*mat.Dense, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if !equalNames(r.CategoricalNames, f.CategoricalNames) || !equalNames(r.NumericNames, f.NumericNames) {
		return nil, fmt.Errorf("preprocess: frame columns do not match recipe")
	}

	n, p := f.Rows(), len(r.Features)
	if n == 0 {
		return nil, ErrEmptyFrame
	}
	if p == 0 {
		return nil, ErrNoFeatures
	}

	out := mat.NewDense(n, p, nil)
	col := make([]float64, n)
	for j := range r.Features {
		feat := &r.Features[j]
		fillColumn(col, f, feat)
		for i, v := range col {
			out.Set(i, j, (v-feat.Mean)/feat.Scale)
		}
	}
	return out, nil
}

func equalNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
