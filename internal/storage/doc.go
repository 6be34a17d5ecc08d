// Boxoffice - Movie Revenue Modeling Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxoffice

// Package storage persists fitted models as versioned files.
//
// # Storage Format
//
// Each model version is one file:
//
//	filename: {name}_v{version}.gob.gz
//
//	structure:
//	  - Metadata (ModelMetadata)
//	  - CompressedData (gzip-compressed gob-encoded model state)
//
// The checksum in the metadata is the SHA-256 of the uncompressed gob bytes
// and is verified on every load; a mismatch returns ErrChecksumMismatch.
//
// # Usage Example
//
//	store, err := storage.NewStore("output/models")
//	if err != nil {
//	    return err
//	}
//
//	meta := storage.ModelMetadata{
//	    Family:      "linear_reg",
//	    Fingerprint: fp,
//	    TrainRows:   len(yTrain),
//	    TrainedAt:   time.Now(),
//	}
//	version, err := store.SaveNext(ctx, "final", model, meta)
//
//	var restored evaluate.FinalModel
//	meta, err := store.Load(ctx, "final", 0, &restored) // 0 = latest
//
// FindByFingerprint returns the newest version trained on a given run
// fingerprint, which lets a rerun skip refitting an unchanged model.
//
// # Thread Safety
//
// Store methods are safe for concurrent use. Saves and deletes take the write
// lock; loads share the read lock.
package storage
