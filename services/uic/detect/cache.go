// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package detect

import "github.com/AleutianAI/williwaw/services/uic/syntax"

// DefaultCacheSize is the default hard bound on cached query results.
const DefaultCacheSize = 4096

// queryKey identifies one memoized dispatch: the operation plus either a
// node identity (pointer) or a property name.
type queryKey struct {
	op   string
	node syntax.Node
	name string
}

// queryCache memoizes Registry dispatches with a hard size bound.
//
// Description:
//
//	Eviction is FIFO over insertion order: when the cache is full, the
//	oldest entry is dropped before the new one is stored. That is not
//	strict LRU, but it is bounded and deterministic within a run, which
//	is all the pipeline requires.
//
// Thread Safety:
//
//	NOT safe for concurrent use. Each cache belongs to one Registry,
//	which is confined to one file run.
type queryCache struct {
	capacity int
	entries  map[queryKey]any

	// order holds live keys oldest-first for FIFO eviction.
	order []queryKey

	hits   uint64
	misses uint64
	perOp  map[string]uint64
}

func newQueryCache(capacity int) *queryCache {
	if capacity <= 0 {
		capacity = DefaultCacheSize
	}
	return &queryCache{
		capacity: capacity,
		entries:  make(map[queryKey]any, capacity),
		perOp:    make(map[string]uint64),
	}
}

// get returns the cached value for key. A hit bumps the hit counter and
// the per-operation count; a miss bumps nothing (put accounts for it).
func (c *queryCache) get(key queryKey) (any, bool) {
	v, ok := c.entries[key]
	if ok {
		c.hits++
		c.perOp[key.op]++
	}
	return v, ok
}

// put stores a computed value, evicting the oldest entry when full, and
// bumps the miss counter and the per-operation count.
func (c *queryCache) put(key queryKey, value any) {
	c.misses++
	c.perOp[key.op]++

	if _, exists := c.entries[key]; exists {
		c.entries[key] = value
		return
	}

	if len(c.entries) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[key] = value
	c.order = append(c.order, key)
}

// size returns the live entry count.
func (c *queryCache) size() int {
	return len(c.entries)
}
