// Boxoffice - Movie Revenue Modeling Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxoffice

package movies

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// WriteCleanCSV writes records to path with the CleanColumns header.
func WriteCleanCSV(path string, records []MovieRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	f, err := os.Create(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return fmt.Errorf("create clean csv: %w", err)
	}

	bw := bufio.NewWriter(f)
	if err := WriteClean(bw, records); err != nil {
		_ = f.Close() //nolint:errcheck // write error takes precedence
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close() //nolint:errcheck // flush error takes precedence
		return fmt.Errorf("flush clean csv: %w", err)
	}
	return f.Close()
}

// WriteClean writes records as CSV to w.
func WriteClean(w io.Writer, records []MovieRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CleanColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(CleanColumns))
	for i := range records {
		m := &records[i]
		row[0] = m.Name
		row[1] = m.OriginalLanguage
		row[2] = m.Country
		row[3] = m.MainGenre
		row[4] = m.ReleaseMonth
		row[5] = m.ReleaseYear
		row[6] = strconv.FormatFloat(m.Budget, 'f', -1, 64)
		row[7] = strconv.FormatFloat(m.Revenue, 'f', -1, 64)
		row[8] = strconv.Itoa(m.OscarWinners)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
