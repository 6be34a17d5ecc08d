// Boxoffice - Movie Revenue Modeling Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxoffice

package movies

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const imdbSample = `names,date_x,score,genre,overview,crew,orig_title,status,orig_lang,budget_x,revenue,country
Creed III,03/02/2023,73,"Drama, Action","After dominating the boxing world...","Michael B. Jordan, Adonis Creed, Tessa Thompson, Bianca Taylor",Creed III,Released,English,75000000.00,271616668.00,AU
Avatar: The Way of Water,12/15/2022,78,"Science Fiction, Adventure, Action","Set more than a decade...","Sam Worthington, Jake Sully",Avatar: The Way of Water,Released,English,460000000.00,2316794914.00,AU
No Budget,01/01/2020,50,Drama,,Someone,No Budget,Released,English,,1000,US
`

func TestReadMovies(t *testing.T) {
	raws, stats, err := ReadMovies(context.Background(), strings.NewReader(imdbSample))
	if err != nil {
		t.Fatalf("ReadMovies() error = %v", err)
	}
	if stats.RowsRead != 3 || stats.RowsSkipped != 0 {
		t.Errorf("stats = %+v, want 3 read 0 skipped", stats)
	}
	if len(raws) != 3 {
		t.Fatalf("got %d rows, want 3", len(raws))
	}

	first := raws[0]
	if first.Name != "Creed III" || first.Date != "03/02/2023" || first.Genre != "Drama, Action" {
		t.Errorf("first row = %+v", first)
	}
	if first.Budget != 75e6 || first.Revenue != 271616668 {
		t.Errorf("first row budget/revenue = %v/%v", first.Budget, first.Revenue)
	}
	if first.OriginalLanguage != "English" || first.Country != "AU" {
		t.Errorf("first row language/country = %q/%q", first.OriginalLanguage, first.Country)
	}
	if !math.IsNaN(raws[2].Budget) {
		t.Errorf("empty budget = %v, want NaN", raws[2].Budget)
	}
}

func TestReadMovies_MissingColumn(t *testing.T) {
	input := "names,date_x,genre,crew,orig_lang,budget_x,country\nA,01/01/2000,Drama,X,English,1,US\n"

	_, _, err := ReadMovies(context.Background(), strings.NewReader(input))
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("ReadMovies() error = %v, want ErrMissingColumn", err)
	}
	if !strings.Contains(err.Error(), "revenue") {
		t.Errorf("error %q should name the revenue column", err)
	}
}

func TestReadMovies_HeaderAliasesAndBOM(t *testing.T) {
	input := "\ufeffName,Release_Date,Genre,Crew,Original_Language,Budget,Revenue,Country\n" +
		"A,01/01/2000,Drama,X,English,\"$1,500\",2000,US\n"

	raws, _, err := ReadMovies(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadMovies() error = %v", err)
	}
	if len(raws) != 1 || raws[0].Name != "A" || raws[0].Budget != 1500 {
		t.Errorf("raws = %+v", raws)
	}
}

func TestReadMovies_ShortRowsTolerated(t *testing.T) {
	input := "name,date,genre,crew,orig_lang,budget,revenue,country\n" +
		"A,01/01/2000,Drama\n" +
		"B,01/01/2000,Drama,X,English,1,2,US,extra\n"

	raws, stats, err := ReadMovies(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadMovies() error = %v", err)
	}
	if stats.RowsRead != 2 {
		t.Errorf("RowsRead = %d, want 2", stats.RowsRead)
	}
	if raws[0].Country != "" || !math.IsNaN(raws[0].Revenue) {
		t.Errorf("short row should have missing trailing fields: %+v", raws[0])
	}
	if raws[1].Country != "US" {
		t.Errorf("long row country = %q, want US", raws[1].Country)
	}
}

func TestReadMovies_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := ReadMovies(ctx, strings.NewReader(imdbSample))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ReadMovies() error = %v, want context.Canceled", err)
	}
}

const oscarSample = `year_film,year_ceremony,ceremony,category,name,film,winner
1927,1928,1,ACTOR,Richard Barthelmess,The Noose,False
1927,1928,1,ACTOR,Emil Jannings,The Last Command,True
1927,1928,1,ACTRESS,Janet Gaynor,7th Heaven,TRUE
1927,1928,1,ACTRESS, Janet Gaynor ,Street Angel,True
1927,1928,1,DIRECTING,,Two Arabian Knights,True
`

func TestReadOscarWinners(t *testing.T) {
	tests := []struct {
		name        string
		winnersOnly bool
		wantLen     int
		wantIn      []string
		wantOut     []string
	}{
		{
			name:        "winners only",
			winnersOnly: true,
			wantLen:     2,
			wantIn:      []string{"Emil Jannings", "Janet Gaynor"},
			wantOut:     []string{"Richard Barthelmess"},
		},
		{
			name:        "all nominees",
			winnersOnly: false,
			wantLen:     3,
			wantIn:      []string{"Richard Barthelmess", "Emil Jannings", "Janet Gaynor"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, stats, err := ReadOscarWinners(context.Background(), strings.NewReader(oscarSample), tt.winnersOnly)
			if err != nil {
				t.Fatalf("ReadOscarWinners() error = %v", err)
			}
			if stats.RowsRead != 5 {
				t.Errorf("RowsRead = %d, want 5", stats.RowsRead)
			}
			if set.Len() != tt.wantLen {
				t.Errorf("Len() = %d, want %d (%v)", set.Len(), tt.wantLen, set.Names())
			}
			for _, n := range tt.wantIn {
				if !set.Contains(n) {
					t.Errorf("Contains(%q) = false, want true", n)
				}
			}
			for _, n := range tt.wantOut {
				if set.Contains(n) {
					t.Errorf("Contains(%q) = true, want false", n)
				}
			}
		})
	}
}

func TestReadOscarWinners_NoWinnerColumn(t *testing.T) {
	input := "name\nA\nB\n"
	set, _, err := ReadOscarWinners(context.Background(), strings.NewReader(input), true)
	if err != nil {
		t.Fatalf("ReadOscarWinners() error = %v", err)
	}
	if set.Len() != 2 {
		t.Errorf("Len() = %d, want 2 when no winner column exists", set.Len())
	}
}

func TestReadOscarWinners_MissingName(t *testing.T) {
	_, _, err := ReadOscarWinners(context.Background(), strings.NewReader("film,winner\nX,True\n"), true)
	if !errors.Is(err, ErrMissingColumn) {
		t.Errorf("ReadOscarWinners() error = %v, want ErrMissingColumn", err)
	}
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	moviesPath := filepath.Join(dir, "movies.csv")
	oscarsPath := filepath.Join(dir, "oscars.csv")
	if err := os.WriteFile(moviesPath, []byte(imdbSample), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := os.WriteFile(oscarsPath, []byte(oscarSample), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	raws, _, err := LoadMovies(context.Background(), moviesPath)
	if err != nil {
		t.Fatalf("LoadMovies() error = %v", err)
	}
	if len(raws) != 3 {
		t.Errorf("LoadMovies() rows = %d, want 3", len(raws))
	}

	set, _, err := LoadOscarWinners(context.Background(), oscarsPath, true)
	if err != nil {
		t.Fatalf("LoadOscarWinners() error = %v", err)
	}
	if set.Len() != 2 {
		t.Errorf("LoadOscarWinners() names = %d, want 2", set.Len())
	}

	if _, _, err := LoadMovies(context.Background(), filepath.Join(dir, "missing.csv")); err == nil {
		t.Error("LoadMovies() expected error for missing file")
	}
}
