// Boxoffice - Movie Revenue Modeling Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxoffice

package movies

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/tomtom215/boxoffice/internal/logging"
)

// ErrMissingColumn is returned when a required header is absent.
var ErrMissingColumn = errors.New("missing required column")

// ctxCheckInterval is how many rows are read between cancellation checks.
const ctxCheckInterval = 1000

// LoadStats summarizes one file load.
type LoadStats struct {
	RowsRead    int `json:"rows_read"`
	RowsSkipped int `json:"rows_skipped"`
}

// movieColumns maps each RawMovie field to its accepted header names.
var movieColumns = []struct {
	field    string
	aliases  []string
	required bool
}{
	{"name", []string{"name", "names", "title"}, true},
	{"date", []string{"date", "date_x", "release_date"}, true},
	{"score", []string{"score", "user_rating", "rating"}, false},
	{"genre", []string{"genre", "genres"}, true},
	{"overview", []string{"overview"}, false},
	{"crew", []string{"crew"}, true},
	{"orig_title", []string{"orig_title", "original_title"}, false},
	{"status", []string{"status"}, false},
	{"orig_lang", []string{"orig_lang", "original_language", "language"}, true},
	{"budget", []string{"budget", "budget_x"}, true},
	{"revenue", []string{"revenue"}, true},
	{"country", []string{"country"}, true},
}

// LoadMovies reads the movies file at path.
func LoadMovies(ctx context.Context, path string) ([]RawMovie, LoadStats, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("open movies file: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // read-only file

	raws, stats, err := ReadMovies(ctx, f)
	if err != nil {
		return nil, stats, fmt.Errorf("read movies file %s: %w", path, err)
	}

	logging.Ctx(ctx).Info().
		Str("path", path).
		Int("rows", stats.RowsRead).
		Int("skipped", stats.RowsSkipped).
		Msg("Loaded movies")
	return raws, stats, nil
}

// ReadMovies parses movie rows from r. Malformed rows are skipped and counted.
func ReadMovies(ctx context.Context, r io.Reader) ([]RawMovie, LoadStats, error) {
	var stats LoadStats

	cr := newReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, stats, fmt.Errorf("read header: %w", err)
	}
	index := headerIndex(header)

	cols := make(map[string]int, len(movieColumns))
	for _, c := range movieColumns {
		pos := lookup(index, c.aliases)
		if pos < 0 && c.required {
			return nil, stats, fmt.Errorf("%w: %s", ErrMissingColumn, c.field)
		}
		cols[c.field] = pos
	}

	var raws []RawMovie
	for {
		if (stats.RowsRead+stats.RowsSkipped)%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, stats, err
			}
		}

		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if skipRow(ctx, err) {
				stats.RowsSkipped++
				continue
			}
			return nil, stats, err
		}

		get := func(field string) string { return cell(rec, cols[field]) }
		raws = append(raws, RawMovie{
			Name:             get("name"),
			Date:             get("date"),
			Score:            get("score"),
			Genre:            get("genre"),
			Overview:         get("overview"),
			Crew:             get("crew"),
			OriginalTitle:    get("orig_title"),
			Status:           get("status"),
			OriginalLanguage: get("orig_lang"),
			Country:          get("country"),
			Budget:           parseNumber(get("budget")),
			Revenue:          parseNumber(get("revenue")),
		})
		stats.RowsRead++
	}

	return raws, stats, nil
}

// LoadOscarWinners reads the awards file at path. When winnersOnly is set and
// the file has a winner column, only rows marked as winners are kept.
func LoadOscarWinners(ctx context.Context, path string, winnersOnly bool) (*OscarWinnerSet, LoadStats, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("open oscars file: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // read-only file

	set, stats, err := ReadOscarWinners(ctx, f, winnersOnly)
	if err != nil {
		return nil, stats, fmt.Errorf("read oscars file %s: %w", path, err)
	}

	logging.Ctx(ctx).Info().
		Str("path", path).
		Int("rows", stats.RowsRead).
		Int("skipped", stats.RowsSkipped).
		Int("names", set.Len()).
		Bool("winners_only", winnersOnly).
		Msg("Loaded Oscar winners")
	return set, stats, nil
}

// ReadOscarWinners parses award rows from r into a name set.
func ReadOscarWinners(ctx context.Context, r io.Reader, winnersOnly bool) (*OscarWinnerSet, LoadStats, error) {
	var stats LoadStats

	cr := newReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, stats, fmt.Errorf("read header: %w", err)
	}
	index := headerIndex(header)

	nameCol := lookup(index, []string{"name"})
	if nameCol < 0 {
		return nil, stats, fmt.Errorf("%w: name", ErrMissingColumn)
	}
	winnerCol := -1
	if winnersOnly {
		winnerCol = lookup(index, []string{"winner"})
	}

	var names []string
	for {
		if (stats.RowsRead+stats.RowsSkipped)%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, stats, err
			}
		}

		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if skipRow(ctx, err) {
				stats.RowsSkipped++
				continue
			}
			return nil, stats, err
		}
		stats.RowsRead++

		if winnerCol >= 0 {
			won, err := strconv.ParseBool(strings.TrimSpace(cell(rec, winnerCol)))
			if err != nil || !won {
				continue
			}
		}
		names = append(names, cell(rec, nameCol))
	}

	return NewOscarWinnerSet(names), stats, nil
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(bufio.NewReader(r))
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	return cr
}

// skipRow reports whether a read error only affects the current row.
func skipRow(ctx context.Context, err error) bool {
	var pe *csv.ParseError
	if !errors.As(err, &pe) {
		return false
	}
	logging.Ctx(ctx).Debug().Err(err).Int("line", pe.Line).Msg("Skipping malformed row")
	return true
}

// headerIndex maps normalized header names to their position.
func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		h = strings.ToLower(strings.TrimSpace(h))
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}
	return index
}

func lookup(index map[string]int, aliases []string) int {
	for _, a := range aliases {
		if pos, ok := index[a]; ok {
			return pos
		}
	}
	return -1
}

func cell(rec []string, pos int) string {
	if pos < 0 || pos >= len(rec) {
		return ""
	}
	return rec[pos]
}

// parseNumber parses a numeric cell, tolerating currency symbols and
// thousands separators. Empty or invalid cells are NaN.
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer("$", "", ",", "").Replace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
