// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package store persists extraction results across runs.
//
// Extraction is deterministic over (file content, widget rules, schema
// version), so results are cached by a content hash of exactly those
// inputs. Any change to the file, the rules, or the output schema
// produces a different hash; the previous entry becomes unreachable and
// expires via TTL without an explicit invalidation API.
package store

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	dgbadger "github.com/dgraph-io/badger/v4"

	"github.com/AleutianAI/williwaw/services/uic/config"
	badgerstore "github.com/AleutianAI/williwaw/services/uic/store/badger"
)

// resultCacheDefaultTTL is the default lifetime of a cached extraction
// entry. Long enough to survive a working week of unchanged files.
const resultCacheDefaultTTL = 7 * 24 * time.Hour

// resultCacheKeyPrefix is prepended to the content hash to form the
// BadgerDB key. Versioned to allow future format changes without
// collision.
const resultCacheKeyPrefix = "ext/v1/"

// errCacheMiss distinguishes "key not found" from a storage error.
var errCacheMiss = errors.New("cache miss")

// Entry is one cached extraction result.
type Entry struct {
	// RunID identifies the pipeline run that produced the payload.
	RunID string

	// Payload is the serialized file result (JSON).
	Payload []byte

	// CreatedAt is when the entry was stored.
	CreatedAt time.Time
}

// ResultCacheStore persists serialized extraction results between runs.
//
// Both methods are nil-safe at the call site: the pipeline checks for a
// nil store and skips persistence, operating in in-memory-only mode.
//
// Thread Safety: Implementations must be safe for concurrent use.
type ResultCacheStore interface {
	// Load retrieves the cached entry for the given content hash.
	//
	// Returns (nil, nil) on cache miss (key absent or TTL expired).
	// Returns (nil, error) on storage failure.
	Load(ctx context.Context, contentHash string) (*Entry, error)

	// Save persists an entry for the given content hash with the store's
	// TTL. Persistence failure is non-fatal for callers: the result is
	// recomputed on the next run.
	Save(ctx context.Context, contentHash string, entry *Entry) error
}

// BadgerResultCacheStore implements ResultCacheStore backed by BadgerDB.
//
// Entries are gob-encoded. TTL is enforced by Badger's native GC; expired
// keys return ErrKeyNotFound, which this store treats as a miss.
//
// Thread Safety: Safe for concurrent use.
type BadgerResultCacheStore struct {
	db     *badgerstore.DB
	ttl    time.Duration
	logger *slog.Logger
}

// NewBadgerResultCacheStore creates a store backed by the given DB.
//
// Inputs:
//   - db: Opened BadgerDB wrapper. Must not be nil; the caller owns its
//     lifecycle.
//   - ttl: Lifetime for each entry. Pass 0 for the default (7 days).
//   - logger: Logger for hit/miss diagnostics. May be nil.
func NewBadgerResultCacheStore(db *badgerstore.DB, ttl time.Duration, logger *slog.Logger) *BadgerResultCacheStore {
	if db == nil {
		panic("NewBadgerResultCacheStore: db must not be nil")
	}
	if ttl <= 0 {
		ttl = resultCacheDefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BadgerResultCacheStore{db: db, ttl: ttl, logger: logger}
}

// Load retrieves the cached entry under ext/v1/{contentHash}.
func (s *BadgerResultCacheStore) Load(ctx context.Context, contentHash string) (*Entry, error) {
	key := resultCacheKey(contentHash)

	var raw []byte
	err := s.db.WithReadTxn(ctx, func(txn *dgbadger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, dgbadger.ErrKeyNotFound) {
			return errCacheMiss
		}
		if err != nil {
			return fmt.Errorf("get cache key: %w", err)
		}
		raw, err = item.ValueCopy(nil)
		if err != nil {
			return fmt.Errorf("copy value: %w", err)
		}
		return nil
	})

	if errors.Is(err, errCacheMiss) {
		s.logger.Debug("result cache: miss", slog.String("hash", shortHash(contentHash)))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("result cache load: %w", err)
	}

	var entry Entry
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&entry); err != nil {
		return nil, fmt.Errorf("result cache decode: %w", err)
	}

	s.logger.Debug("result cache: hit",
		slog.String("hash", shortHash(contentHash)),
		slog.String("run_id", entry.RunID),
	)
	return &entry, nil
}

// Save persists the entry under ext/v1/{contentHash} with the store TTL.
func (s *BadgerResultCacheStore) Save(ctx context.Context, contentHash string, entry *Entry) error {
	if entry == nil || len(entry.Payload) == 0 {
		return nil
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(entry); err != nil {
		return fmt.Errorf("result cache encode: %w", err)
	}

	key := resultCacheKey(contentHash)
	err := s.db.WithTxn(ctx, func(txn *dgbadger.Txn) error {
		e := dgbadger.NewEntry(key, buf.Bytes()).WithTTL(s.ttl)
		return txn.SetEntry(e)
	})
	if err != nil {
		return fmt.Errorf("result cache save: %w", err)
	}

	s.logger.Debug("result cache: saved",
		slog.String("hash", shortHash(contentHash)),
		slog.Int("payload_bytes", len(entry.Payload)),
		slog.Duration("ttl", s.ttl),
	)
	return nil
}

// =============================================================================
// Content hash
// =============================================================================

// ContentHash computes a deterministic SHA256 over everything that
// determines an extraction result: the file content, the widget rules,
// and the output schema version.
//
// Rule slices are sorted before hashing so YAML ordering does not change
// the digest.
//
// Outputs:
//   - string: Lowercase hex-encoded SHA256 digest (64 characters).
func ContentHash(content []byte, rules *config.WidgetRules, schemaVersion string) string {
	h := sha256.New()
	h.Write(content)
	h.Write([]byte{0})

	if rules != nil {
		for _, list := range [][]string{
			rules.KnownWidgets,
			rules.CallbackPrefixes,
			rules.CallbackSuffixes,
			rules.BuilderNames,
			rules.BuilderSuffixes,
			rules.ChildNames,
			rules.ChildrenNames,
			rules.ContainerTypes,
			rules.BuilderMethodSubstrings,
		} {
			sorted := make([]string, len(list))
			copy(sorted, list)
			sort.Strings(sorted)
			for _, s := range sorted {
				fmt.Fprintf(h, "%s\t", s)
			}
			fmt.Fprintln(h)
		}
		fmt.Fprintf(h, "%s\t%s\t%s\t%s\n",
			rules.RootWidgetType, rules.StateHolderType, rules.BuildMethod, rules.BuildContextType)
	}
	fmt.Fprintf(h, "schema=%s\n", schemaVersion)

	return hex.EncodeToString(h.Sum(nil))
}

// =============================================================================
// Helpers
// =============================================================================

func resultCacheKey(contentHash string) []byte {
	return []byte(resultCacheKeyPrefix + contentHash)
}

// shortHash returns the first 8 characters of a hash for log display.
func shortHash(h string) string {
	if len(h) > 8 {
		return h[:8] + "..."
	}
	return h
}
