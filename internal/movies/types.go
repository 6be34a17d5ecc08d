// Boxoffice - Movie Revenue Modeling Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxoffice

package movies

import (
	"math"
	"sort"
	"strings"
)

// RawMovie is one row of the movies file before feature derivation.
type RawMovie struct {
	Name             string
	Date             string
	Score            string
	Genre            string
	Overview         string
	Crew             string
	OriginalTitle    string
	Status           string
	OriginalLanguage string
	Country          string
	Budget           float64
	Revenue          float64
}

// MovieRecord is one film with its derived predictors and the revenue target.
type MovieRecord struct {
	Name             string  `json:"name"`
	OriginalLanguage string  `json:"original_language"`
	Country          string  `json:"country"`
	MainGenre        string  `json:"main_genre"`
	ReleaseMonth     string  `json:"release_month"`
	ReleaseYear      string  `json:"release_year"`
	Budget           float64 `json:"budget"`
	Revenue          float64 `json:"revenue"`
	OscarWinners     int     `json:"number_of_oscar_winners"`
}

// Column names of a cleaned record, in output order.
const (
	ColName         = "name"
	ColLanguage     = "original_language"
	ColCountry      = "country"
	ColMainGenre    = "main_genre"
	ColReleaseMonth = "release_month"
	ColReleaseYear  = "release_year"
	ColBudget       = "budget"
	ColRevenue      = "revenue"
	ColOscarWinners = "number_of_oscar_winners"
)

// CleanColumns is the header of the cleaned dataset.
var CleanColumns = []string{
	ColName,
	ColLanguage,
	ColCountry,
	ColMainGenre,
	ColReleaseMonth,
	ColReleaseYear,
	ColBudget,
	ColRevenue,
	ColOscarWinners,
}

// MissingColumns returns the retained columns that have no usable value.
func (m *MovieRecord) MissingColumns() []string {
	var missing []string
	text := []struct {
		col string
		val string
	}{
		{ColName, m.Name},
		{ColLanguage, m.OriginalLanguage},
		{ColCountry, m.Country},
		{ColMainGenre, m.MainGenre},
		{ColReleaseMonth, m.ReleaseMonth},
		{ColReleaseYear, m.ReleaseYear},
	}
	for _, f := range text {
		if strings.TrimSpace(f.val) == "" {
			missing = append(missing, f.col)
		}
	}
	if !isFinite(m.Budget) {
		missing = append(missing, ColBudget)
	}
	if !isFinite(m.Revenue) {
		missing = append(missing, ColRevenue)
	}
	if m.OscarWinners < 0 {
		missing = append(missing, ColOscarWinners)
	}
	return missing
}

// Complete reports whether every retained column has a value.
func (m *MovieRecord) Complete() bool {
	return len(m.MissingColumns()) == 0
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// OscarWinnerSet is an immutable set of award recipient names.
// A nil set contains nothing.
type OscarWinnerSet struct {
	names map[string]struct{}
}

// NewOscarWinnerSet builds a set from names. Names are trimmed and empty
// names are ignored; matching is case-sensitive.
func NewOscarWinnerSet(names []string) *OscarWinnerSet {
	set := &OscarWinnerSet{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		set.names[n] = struct{}{}
	}
	return set
}

// Contains reports whether name is in the set.
func (s *OscarWinnerSet) Contains(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.names[name]
	return ok
}

// Len returns the number of distinct names.
func (s *OscarWinnerSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

// Names returns the names in sorted order.
func (s *OscarWinnerSet) Names() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.names))
	for n := range s.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
