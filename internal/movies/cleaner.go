// Boxoffice - Movie Revenue Modeling Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxoffice

package movies

import (
	"errors"
	"fmt"
)

// ErrExcessiveMissingness is returned when too many records are incomplete
// for listwise deletion to be acceptable.
var ErrExcessiveMissingness = errors.New("excessive missingness")

// CleanStats describes what Clean removed.
type CleanStats struct {
	Input           int            `json:"input"`
	Kept            int            `json:"kept"`
	Dropped         int            `json:"dropped"`
	MissingByColumn map[string]int `json:"missing_by_column"`
	MissingFraction float64        `json:"missing_fraction"`
}

// Clean returns the records with no missing retained column. Nothing is
// imputed. If the share of incomplete records exceeds maxMissingFraction the
// records are not dropped and ErrExcessiveMissingness is returned instead.
func Clean(records []MovieRecord, maxMissingFraction float64) ([]MovieRecord, CleanStats, error) {
	stats := CleanStats{
		Input:           len(records),
		MissingByColumn: make(map[string]int),
	}

	kept := make([]MovieRecord, 0, len(records))
	for i := range records {
		missing := records[i].MissingColumns()
		if len(missing) == 0 {
			kept = append(kept, records[i])
			continue
		}
		for _, col := range missing {
			stats.MissingByColumn[col]++
		}
		stats.Dropped++
	}
	stats.Kept = len(kept)

	if stats.Input > 0 {
		stats.MissingFraction = float64(stats.Dropped) / float64(stats.Input)
	}
	if stats.MissingFraction > maxMissingFraction {
		return nil, stats, fmt.Errorf("%w: %.4f of records incomplete, limit %.4f",
			ErrExcessiveMissingness, stats.MissingFraction, maxMissingFraction)
	}

	return kept, stats, nil
}
