// Boxoffice - Movie Revenue Modeling Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxoffice

package movies

import "github.com/tomtom215/boxoffice/internal/preprocess"

// CategoricalPredictors are dummy-encoded before modeling.
var CategoricalPredictors = []string{ColMainGenre, ColCountry, ColLanguage, ColReleaseMonth, ColReleaseYear}

// NumericPredictors are centered and scaled before modeling.
var NumericPredictors = []string{ColBudget, ColOscarWinners}

// ToFrame splits cleaned records into a predictor Frame and the revenue outcome.
func ToFrame(records []MovieRecord) (*preprocess.Frame, []float64) {
	n := len(records)
	f := &preprocess.Frame{
		CategoricalNames: append([]string(nil), CategoricalPredictors...),
		Categorical:      make([][]string, len(CategoricalPredictors)),
		NumericNames:     append([]string(nil), NumericPredictors...),
		Numeric:          make([][]float64, len(NumericPredictors)),
	}
	for j := range f.Categorical {
		f.Categorical[j] = make([]string, n)
	}
	for j := range f.Numeric {
		f.Numeric[j] = make([]float64, n)
	}

	y := make([]float64, n)
	for i := range records {
		m := &records[i]
		f.Categorical[0][i] = m.MainGenre
		f.Categorical[1][i] = m.Country
		f.Categorical[2][i] = m.OriginalLanguage
		f.Categorical[3][i] = m.ReleaseMonth
		f.Categorical[4][i] = m.ReleaseYear
		f.Numeric[0][i] = m.Budget
		f.Numeric[1][i] = float64(m.OscarWinners)
		y[i] = m.Revenue
	}
	return f, y
}
