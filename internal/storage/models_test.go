// Boxoffice - Movie Revenue Modeling Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxoffice

package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/gob"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"
)

type testState struct {
	Family       string
	Intercept    float64
	Coefficients []float64
	Levels       map[string]int
}

func sampleState(v float64) testState {
	return testState{
		Family:       "linear_reg",
		Intercept:    v,
		Coefficients: []float64{1.5, -2, v},
		Levels:       map[string]int{"Drama": 1, "Action": 2},
	}
}

func TestNewStore(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
	}{
		{
			name: "creates directory if not exists",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "new_dir")
			},
		},
		{
			name: "uses existing directory",
			setup: func(t *testing.T) string {
				return t.TempDir()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := NewStore(tt.setup(t))
			if err != nil {
				t.Fatalf("NewStore() error = %v", err)
			}
			if store == nil {
				t.Fatal("NewStore() returned nil store without error")
			}
		})
	}
}

func TestStore_SaveAndLoad(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	ctx := context.Background()

	want := sampleState(3)
	meta := ModelMetadata{
		Family:      "linear_reg",
		Fingerprint: "abc",
		TrainRows:   100,
		TrainedAt:   time.Now(),
	}
	if err := store.Save(ctx, "final", 1, want, meta); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	var got testState
	loaded, err := store.Load(ctx, "final", 1, &got)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Load() state = %+v, want %+v", got, want)
	}
	if loaded.Name != "final" || loaded.Version != 1 || loaded.Fingerprint != "abc" || loaded.TrainRows != 100 {
		t.Errorf("metadata = %+v", loaded)
	}
	if loaded.Checksum == "" || loaded.SizeBytes == 0 || loaded.SavedAt.IsZero() {
		t.Errorf("metadata not populated: %+v", loaded)
	}
}

func TestStore_SaveNextAndLoadLatest(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		v, err := store.SaveNext(ctx, "final", sampleState(float64(i)), ModelMetadata{})
		if err != nil {
			t.Fatalf("SaveNext() error = %v", err)
		}
		if v != i {
			t.Errorf("SaveNext() version = %d, want %d", v, i)
		}
	}

	var got testState
	meta, err := store.Load(ctx, "final", 0, &got)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if meta.Version != 3 || got.Intercept != 3 {
		t.Errorf("latest = v%d intercept %v, want v3 intercept 3", meta.Version, got.Intercept)
	}

	// A fresh store picks up existing versions.
	reopened, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if v, ok := reopened.GetLatestVersion("final"); !ok || v != 3 {
		t.Errorf("GetLatestVersion() = %d, %v, want 3, true", v, ok)
	}
}

func TestStore_LoadMissing(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	var got testState
	if _, err := store.Load(context.Background(), "final", 0, &got); !errors.Is(err, ErrModelNotFound) {
		t.Errorf("Load(latest) error = %v, want ErrModelNotFound", err)
	}
	if _, err := store.Load(context.Background(), "final", 7, &got); !errors.Is(err, ErrModelNotFound) {
		t.Errorf("Load(v7) error = %v, want ErrModelNotFound", err)
	}
}

func TestStore_FindByFingerprint(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	ctx := context.Background()

	for i, fp := range []string{"aaa", "bbb", "aaa"} {
		if err := store.Save(ctx, "final", i+1, sampleState(float64(i)), ModelMetadata{Fingerprint: fp}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	tests := []struct {
		fingerprint string
		wantVersion int
		wantErr     error
	}{
		{"aaa", 3, nil},
		{"bbb", 2, nil},
		{"ccc", 0, ErrModelNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.fingerprint, func(t *testing.T) {
			meta, err := store.FindByFingerprint(ctx, "final", tt.fingerprint)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("FindByFingerprint() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("FindByFingerprint() error = %v", err)
			}
			if meta.Version != tt.wantVersion {
				t.Errorf("version = %d, want %d", meta.Version, tt.wantVersion)
			}
		})
	}
}

func TestStore_ListModels(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	ctx := context.Background()

	for _, name := range []string{"final", "baseline"} {
		if err := store.Save(ctx, name, 1, sampleState(1), ModelMetadata{}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	models, err := store.ListModels(ctx)
	if err != nil {
		t.Fatalf("ListModels() error = %v", err)
	}
	if len(models) != 2 || models[0].Name != "baseline" || models[1].Name != "final" {
		t.Errorf("ListModels() = %+v", models)
	}
}

func TestStore_Delete(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	ctx := context.Background()

	for v := 1; v <= 2; v++ {
		if err := store.Save(ctx, "final", v, sampleState(float64(v)), ModelMetadata{}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	if err := store.Delete(ctx, "final", 2); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if v, ok := store.GetLatestVersion("final"); !ok || v != 1 {
		t.Errorf("GetLatestVersion() = %d, %v, want 1, true", v, ok)
	}

	if err := store.Delete(ctx, "final", 1); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok := store.GetLatestVersion("final"); ok {
		t.Error("GetLatestVersion() should report no versions")
	}

	if err := store.Delete(ctx, "final", 1); !errors.Is(err, ErrModelNotFound) {
		t.Errorf("Delete(missing) error = %v, want ErrModelNotFound", err)
	}
}

func TestStore_Prune(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	ctx := context.Background()

	for v := 1; v <= 5; v++ {
		if err := store.Save(ctx, "final", v, sampleState(float64(v)), ModelMetadata{}); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	removed, err := store.Prune(ctx, "final", 2)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if removed != 3 {
		t.Errorf("Prune() removed = %d, want 3", removed)
	}

	for v, want := range map[int]bool{1: false, 2: false, 3: false, 4: true, 5: true} {
		_, err := os.Stat(store.modelPath("final", v))
		if exists := err == nil; exists != want {
			t.Errorf("v%d exists = %v, want %v", v, exists, want)
		}
	}
}

func TestStore_ChecksumValidation(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	// Hand-write a file whose payload does not match its checksum.
	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(sampleState(1)); err != nil {
		t.Fatalf("encode: %v", err)
	}
	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(raw.Bytes()); err != nil {
		t.Fatalf("compress: %v", err)
	}
	if err := gzw.Close(); err != nil {
		t.Fatalf("compress: %v", err)
	}

	f, err := os.Create(filepath.Join(dir, "final_v1.gob.gz"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	sf := storedFile{
		Metadata:       ModelMetadata{Name: "final", Version: 1, Checksum: "deadbeef"},
		CompressedData: compressed.Bytes(),
	}
	if err := gob.NewEncoder(f).Encode(sf); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	var got testState
	if _, err := store.Load(context.Background(), "final", 1, &got); !errors.Is(err, ErrChecksumMismatch) {
		t.Errorf("Load() error = %v, want ErrChecksumMismatch", err)
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.SaveNext(ctx, "final", sampleState(float64(i)), ModelMetadata{}); err != nil {
				t.Errorf("SaveNext() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if v, ok := store.GetLatestVersion("final"); !ok || v != 10 {
		t.Errorf("GetLatestVersion() = %d, %v, want 10, true", v, ok)
	}
}

func TestParseModelFilename(t *testing.T) {
	tests := []struct {
		base        string
		wantName    string
		wantVersion int
	}{
		{"final_v3", "final", 3},
		{"best_vote_v12", "best_vote", 12},
		{"final", "", 0},
		{"final_vx", "", 0},
		{"_v1", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			name, v := parseModelFilename(tt.base)
			if name != tt.wantName || v != tt.wantVersion {
				t.Errorf("parseModelFilename(%q) = %q, %d, want %q, %d", tt.base, name, v, tt.wantName, tt.wantVersion)
			}
		})
	}
}
