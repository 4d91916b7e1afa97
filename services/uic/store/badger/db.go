// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package badger wraps a BadgerDB instance behind context-aware transaction
// helpers. The DB is opened once at startup and shared; callers never touch
// badger.DB directly.
package badger

import (
	"context"
	"fmt"
	"log/slog"

	dgbadger "github.com/dgraph-io/badger/v4"
)

// DB is an opened BadgerDB handle.
//
// Thread Safety: Safe for concurrent use; transactions are per-goroutine.
type DB struct {
	db     *dgbadger.DB
	logger *slog.Logger
}

// Open opens (or creates) a BadgerDB at the given directory.
//
// Inputs:
//   - dir: Storage directory. Created if absent.
//   - logger: Logger for lifecycle events. May be nil.
//
// Outputs:
//   - *DB: Opened handle. The caller owns the lifecycle and must Close it.
//   - error: Non-nil when the directory cannot be opened.
func Open(dir string, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts := dgbadger.DefaultOptions(dir)
	// Badger's own logger is chatty at INFO; route everything through slog
	// by silencing it and logging lifecycle events ourselves.
	opts.Logger = nil

	db, err := dgbadger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %s: %w", dir, err)
	}
	logger.Debug("badger opened", slog.String("dir", dir))
	return &DB{db: db, logger: logger}, nil
}

// Close flushes and closes the underlying database.
func (d *DB) Close() error {
	if err := d.db.Close(); err != nil {
		return fmt.Errorf("close badger: %w", err)
	}
	return nil
}

// WithReadTxn runs fn inside a read-only transaction. The context is
// checked before the transaction starts; Badger transactions themselves
// are not cancellable mid-flight.
func (d *DB) WithReadTxn(ctx context.Context, fn func(txn *dgbadger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.db.View(fn)
}

// WithTxn runs fn inside a read-write transaction.
func (d *DB) WithTxn(ctx context.Context, fn func(txn *dgbadger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.db.Update(fn)
}

// RunValueLogGC triggers one round of value-log garbage collection.
// ErrNoRewrite from Badger is reported as (false, nil): nothing to do.
func (d *DB) RunValueLogGC(discardRatio float64) (bool, error) {
	err := d.db.RunValueLogGC(discardRatio)
	if err == dgbadger.ErrNoRewrite {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("badger value log gc: %w", err)
	}
	return true, nil
}
