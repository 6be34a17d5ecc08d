// Boxoffice - Movie Revenue Modeling Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxoffice

// Package checkpoint persists completed pipeline stages so an interrupted or
// repeated run can resume without recomputing them.
//
// Entries are keyed by run fingerprint and stage name:
//
//	checkpoint:{fingerprint}:{stage}
//
// The fingerprint covers everything a stage's output depends on (cleaned data,
// seed, fold count and grids), so a changed input simply misses the cache.
// Values are JSON envelopes holding the stage payload and save time.
//
// Two implementations are provided: BadgerStore persists to a BadgerDB
// directory and MemoryStore keeps entries in process for tests and for runs
// with checkpointing disabled.
package checkpoint
