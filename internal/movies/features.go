// Boxoffice - Movie Revenue Modeling Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxoffice

package movies

import (
	"fmt"
	"strconv"
	"strings"
)

// splitList splits a comma-separated field into trimmed, non-empty entries.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// CrewSize returns the number of non-empty comma-separated crew entries.
func CrewSize(crew string) int {
	return len(splitList(crew))
}

// CountOscarWinners returns the number of distinct crew entries that exactly
// match a name in winners. An empty crew yields 0.
func CountOscarWinners(crew string, winners *OscarWinnerSet) int {
	matched := make(map[string]struct{})
	for _, member := range splitList(crew) {
		if winners.Contains(member) {
			matched[member] = struct{}{}
		}
	}
	return len(matched)
}

// MainGenre returns the first comma-separated genre, trimmed.
// MainGenre(MainGenre(g)) == MainGenre(g).
func MainGenre(genre string) string {
	first, _, _ := strings.Cut(genre, ",")
	return strings.TrimSpace(first)
}

// ParseReleaseDate extracts a zero-padded month and a four-digit year from a
// month/day/year date. ok is false when the string does not conform.
func ParseReleaseDate(date string) (month, year string, ok bool) {
	parts := strings.Split(strings.TrimSpace(date), "/")
	if len(parts) != 3 {
		return "", "", false
	}

	m, okM := parseDatePart(parts[0], 1, 2, 1, 12)
	_, okD := parseDatePart(parts[1], 1, 2, 1, 31)
	y, okY := parseDatePart(parts[2], 4, 4, 0, 9999)
	if !okM || !okD || !okY {
		return "", "", false
	}

	return fmt.Sprintf("%02d", m), fmt.Sprintf("%04d", y), true
}

// parseDatePart parses an all-digit field of minLen..maxLen digits within [lo, hi].
func parseDatePart(s string, minLen, maxLen, lo, hi int) (int, bool) {
	if len(s) < minLen || len(s) > maxLen {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < lo || v > hi {
		return 0, false
	}
	return v, true
}

// BuildRecord derives the modeling columns of a raw movie. The crew, genre
// list and date are not carried over. A date that does not parse leaves the
// release month and year empty so Clean drops the record.
func BuildRecord(raw *RawMovie, winners *OscarWinnerSet) MovieRecord {
	month, year, _ := ParseReleaseDate(raw.Date)
	return MovieRecord{
		Name:             strings.TrimSpace(raw.Name),
		OriginalLanguage: strings.TrimSpace(raw.OriginalLanguage),
		Country:          strings.TrimSpace(raw.Country),
		MainGenre:        MainGenre(raw.Genre),
		ReleaseMonth:     month,
		ReleaseYear:      year,
		Budget:           raw.Budget,
		Revenue:          raw.Revenue,
		OscarWinners:     CountOscarWinners(raw.Crew, winners),
	}
}

// BuildRecords derives every raw movie in order.
func BuildRecords(raws []RawMovie, winners *OscarWinnerSet) []MovieRecord {
	out := make([]MovieRecord, len(raws))
	for i := range raws {
		out[i] = BuildRecord(&raws[i], winners)
	}
	return out
}
