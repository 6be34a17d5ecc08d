// Boxoffice - Movie Revenue Modeling Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxoffice

package preprocess

import "fmt"

// Frame holds predictor columns. Categorical[j][i] and Numeric[j][i] are
// row i of column j.
type Frame struct {
	CategoricalNames []string
	Categorical      [][]string
	NumericNames     []string
	Numeric          [][]float64
}

// Rows returns the number of rows.
func (f *Frame) Rows() int {
	if len(f.Categorical) > 0 {
		return len(f.Categorical[0])
	}
	if len(f.Numeric) > 0 {
		return len(f.Numeric[0])
	}
	return 0
}

// Validate checks that names match columns and every column has the same length.
func (f *Frame) Validate() error {
	if len(f.CategoricalNames) != len(f.Categorical) {
		return fmt.Errorf("frame: %d categorical names for %d columns", len(f.CategoricalNames), len(f.Categorical))
	}
	if len(f.NumericNames) != len(f.Numeric) {
		return fmt.Errorf("frame: %d numeric names for %d columns", len(f.NumericNames), len(f.Numeric))
	}
	n := f.Rows()
	for j, col := range f.Categorical {
		if len(col) != n {
			return fmt.Errorf("frame: column %s has %d rows, want %d", f.CategoricalNames[j], len(col), n)
		}
	}
	for j, col := range f.Numeric {
		if len(col) != n {
			return fmt.Errorf("frame: column %s has %d rows, want %d", f.NumericNames[j], len(col), n)
		}
	}
	return nil
}

// Subset returns a new Frame holding the given rows in order.
func (f *Frame) Subset(rows []int) *Frame {
	out := &Frame{
		CategoricalNames: f.CategoricalNames,
		Categorical:      make([][]string, len(f.Categorical)),
		NumericNames:     f.NumericNames,
		Numeric:          make([][]float64, len(f.Numeric)),
	}
	for j, col := range f.Categorical {
		sub := make([]string, len(rows))
		for k, i := range rows {
			sub[k] = col[i]
		}
		out.Categorical[j] = sub
	}
	for j, col := range f.Numeric {
		sub := make([]float64, len(rows))
		for k, i := range rows {
			sub[k] = col[i]
		}
		out.Numeric[j] = sub
	}
	return out
}

// SubsetFloats returns v[rows] in order.
func SubsetFloats(v []float64, rows []int) []float64 {
	out := make([]float64, len(rows))
	for k, i := range rows {
		out[k] = v[i]
	}
	return out
}
