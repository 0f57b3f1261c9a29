// Copyright (c) 2025 The herald-go developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package claimtrie

import "fmt"

// Stats counts the claim-layer operations an Indexer has applied since
// construction. It exists purely for observability — nothing in this
// package reads it back to make decisions.
type Stats struct {
	ClaimsAdded      uint64
	ClaimsUpdated    uint64
	ClaimsAbandoned  uint64
	SupportsAdded    uint64
	SupportsAbandoned uint64
	BlocksAdvanced   uint64
	BlocksRolledBack uint64
}

// Indexer is the claim index: the six on-disk stores, their write-back
// caches, and the configuration governing how claims are built and
// validated. advance.go and rollback.go are its two state transitions;
// query.go is its read surface.
type Indexer struct {
	cfg    Config
	stores *Stores
	cache  *caches
	stats  Stats
}

// NewIndexer opens the six stores under cfg.DataDir and returns a ready
// Indexer.
func NewIndexer(cfg Config) (*Indexer, error) {
	if cfg.Params == nil {
		return nil, fmt.Errorf("claimtrie: config must set Params")
	}
	stores, err := OpenStores(cfg.DataDir, cfg.OpenMode)
	if err != nil {
		return nil, err
	}
	return &Indexer{
		cfg:    cfg,
		stores: stores,
		cache:  newCaches(stores),
	}, nil
}

// Stats returns a snapshot of the operation counters.
func (ix *Indexer) Stats() Stats {
	return ix.stats
}

// SetOpenMode switches the underlying stores between sync and serving
// tuning, flushing first so the switch never straddles unflushed writes.
func (ix *Indexer) SetOpenMode(mode OpenMode) error {
	if err := ix.Flush(); err != nil {
		return err
	}
	if err := ix.stores.SetOpenMode(mode); err != nil {
		return err
	}
	ix.cfg.OpenMode = mode
	return nil
}

// Flush commits every staged mutation to disk in the fixed store order
// cache.go enforces and clears the write-back caches.
func (ix *Indexer) Flush() error {
	return ix.cache.flush()
}

// Close flushes pending writes and closes the underlying stores.
func (ix *Indexer) Close() error {
	if err := ix.Flush(); err != nil {
		_ = ix.stores.Close()
		return err
	}
	return ix.stores.Close()
}

// lookupClaim resolves a claim id against the cache, falling back to disk.
// It is the hook buildClaimInfo uses to find a referenced certificate.
func (ix *Indexer) lookupClaim(id ClaimID) (*ClaimInfo, error) {
	return ix.cache.getClaimInfo(id)
}
