// Boxoffice - Movie Revenue Modeling Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxoffice

package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/tomtom215/boxoffice/internal/config"
	"github.com/tomtom215/boxoffice/internal/movies"
)

// Fingerprint identifies everything tuning and the final fit depend on: the
// cleaned records, the resampling design and the grids. Worker counts and
// output paths are excluded.
func Fingerprint(records []movies.MovieRecord, cfg *config.Config) (string, error) {
	h := sha256.New()
	if err := movies.WriteClean(h, records); err != nil {
		return "", fmt.Errorf("hash records: %w", err)
	}
	fmt.Fprintf(h, "split seed=%d fraction=%g bins=%d folds=%d\n",
		cfg.Split.Seed, cfg.Split.TrainFraction, cfg.Split.StrataBins, cfg.Split.Folds)
	fmt.Fprintf(h, "knn %+v\n", cfg.Tuning.KNN)
	fmt.Fprintf(h, "forest %+v\n", cfg.Tuning.Forest)
	return hex.EncodeToString(h.Sum(nil)), nil
}
