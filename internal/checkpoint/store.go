// Boxoffice - Movie Revenue Modeling Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxoffice

package checkpoint

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

const keyPrefix = "checkpoint:"

var (
	// ErrNotFound is returned when no checkpoint exists for a stage.
	ErrNotFound = errors.New("checkpoint not found")

	// ErrClosed is returned when using a closed store.
	ErrClosed = errors.New("checkpoint store closed")
)

// Store saves and loads stage outputs.
type Store interface {
	// Save records v as the output of stage for fingerprint.
	Save(ctx context.Context, fingerprint, stage string, v any) error

	// Load decodes the saved output of stage into v. It returns ErrNotFound
	// when the stage has no checkpoint.
	Load(ctx context.Context, fingerprint, stage string, v any) (*Entry, error)

	// Clear removes every checkpoint of fingerprint and returns how many
	// were removed.
	Clear(ctx context.Context, fingerprint string) (int, error)

	Close() error
}

// Entry is the stored envelope of one checkpoint.
type Entry struct {
	Fingerprint string          `json:"fingerprint"`
	Stage       string          `json:"stage"`
	SavedAt     time.Time       `json:"saved_at"`
	Payload     json.RawMessage `json:"payload"`
}

func key(fingerprint, stage string) []byte {
	return []byte(keyPrefix + fingerprint + ":" + stage)
}

func encode(fingerprint, stage string, v any) ([]byte, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", stage, err)
	}
	data, err := json.Marshal(Entry{
		Fingerprint: fingerprint,
		Stage:       stage,
		SavedAt:     time.Now().UTC(),
		Payload:     payload,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal %s checkpoint: %w", stage, err)
	}
	return data, nil
}

func decode(data []byte, v any) (*Entry, error) {
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("unmarshal checkpoint: %w", err)
	}
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return nil, fmt.Errorf("unmarshal %s payload: %w", e.Stage, err)
	}
	return &e, nil
}

// BadgerStore implements Store using BadgerDB for persistence.
type BadgerStore struct {
	db     *badger.DB
	owned  bool
	mu     sync.RWMutex
	closed bool
}

// Open opens (or creates) a BadgerDB directory at path.
func Open(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Suppress BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for checkpoints: %w", err)
	}
	s := NewBadgerStore(db)
	s.owned = true
	return s, nil
}

// NewBadgerStore wraps an existing database. Close does not close db.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

func (s *BadgerStore) check() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

// Save persists v under fingerprint and stage.
func (s *BadgerStore) Save(ctx context.Context, fingerprint, stage string, v any) error {
	if err := s.check(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := encode(fingerprint, stage, v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(fingerprint, stage), data)
	})
}

// Load retrieves a checkpoint into v.
func (s *BadgerStore) Load(ctx context.Context, fingerprint, stage string, v any) (*Entry, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var entry *Entry
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(fingerprint, stage))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			e, err := decode(val, v)
			entry = e
			return err
		})
	})
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, stage)
	}
	if err != nil {
		return nil, fmt.Errorf("load checkpoint %s: %w", stage, err)
	}
	return entry, nil
}

// Clear removes all checkpoints of fingerprint.
func (s *BadgerStore) Clear(ctx context.Context, fingerprint string) (int, error) {
	if err := s.check(); err != nil {
		return 0, err
	}

	count := 0
	err := s.db.Update(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefix + fingerprint + ":")
		opts.PrefetchValues = false // Keys only
		it := txn.NewIterator(opts)
		defer it.Close()

		var keysToDelete [][]byte
		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			keysToDelete = append(keysToDelete, it.Item().KeyCopy(nil))
		}

		for _, k := range keysToDelete {
			if err := txn.Delete(k); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("clear checkpoints: %w", err)
	}
	return count, nil
}

// Close marks the store closed and closes the database if Open created it.
func (s *BadgerStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.owned {
		return s.db.Close()
	}
	return nil
}

// MemoryStore implements Store in memory.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]byte)}
}

// Save stores the encoded checkpoint.
func (s *MemoryStore) Save(_ context.Context, fingerprint, stage string, v any) error {
	data, err := encode(fingerprint, stage, v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[string(key(fingerprint, stage))] = data
	return nil
}

// Load decodes a stored checkpoint into v.
func (s *MemoryStore) Load(_ context.Context, fingerprint, stage string, v any) (*Entry, error) {
	s.mu.RLock()
	data, ok := s.entries[string(key(fingerprint, stage))]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, stage)
	}
	return decode(data, v)
}

// Clear removes all checkpoints of fingerprint.
func (s *MemoryStore) Clear(_ context.Context, fingerprint string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefix := keyPrefix + fingerprint + ":"
	count := 0
	for k := range s.entries {
		if strings.HasPrefix(k, prefix) {
			delete(s.entries, k)
			count++
		}
	}
	return count, nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
