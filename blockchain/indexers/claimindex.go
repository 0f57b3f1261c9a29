// Copyright (c) 2025 The herald-go developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package indexers adapts base-chain block connect/disconnect notifications
// into the claim index's two state transitions. A full node wires ClaimIndex
// in next to its other optional indexes (address index, transaction index)
// the same way btcd's blockchain/indexers package does.
package indexers

import (
	"fmt"

	"github.com/lbryio/herald-go/claimtrie"
)

// ClaimIndex bridges a base-chain node's block notifications to a claim
// Indexer. It owns no chain state of its own; it only translates connect
// and disconnect callbacks into AdvanceBlock/RollbackBlock calls and keeps
// the index flushed at each boundary.
type ClaimIndex struct {
	indexer *claimtrie.Indexer
}

// NewClaimIndex wraps an already-open claim Indexer for use as a block
// notification target.
func NewClaimIndex(indexer *claimtrie.Indexer) *ClaimIndex {
	return &ClaimIndex{indexer: indexer}
}

// Name identifies this index in logs and index-selection flags, matching
// the convention btcd's other indexers use.
func (ci *ClaimIndex) Name() string {
	return "claim index"
}

// ConnectBlock advances the claim index by one block and flushes the
// write-back caches so the block's effects survive a crash before the next
// one arrives.
func (ci *ClaimIndex) ConnectBlock(height uint32, txs []claimtrie.AdvanceTx) error {
	if err := ci.indexer.AdvanceBlock(height, txs); err != nil {
		return fmt.Errorf("indexers: advancing claim index to height %d: %w", height, err)
	}
	return ci.indexer.Flush()
}

// DisconnectBlock reverses one block via the undo journal, for use when the
// base chain's tip is being rolled back during a reorg.
func (ci *ClaimIndex) DisconnectBlock(height uint32) error {
	if err := ci.indexer.RollbackBlock(height); err != nil {
		return fmt.Errorf("indexers: rolling back claim index from height %d: %w", height, err)
	}
	return ci.indexer.Flush()
}

// ClaimIDForName is a small convenience lookup for callers that only have a
// human-readable name: it returns the id of the claim with sequence number 1
// under that name. It does not decide which claim controls the name.
func (ci *ClaimIndex) ClaimIDForName(name []byte) (claimtrie.ClaimID, bool, error) {
	claims, err := ci.indexer.GetClaimsForName(name)
	if err != nil {
		return claimtrie.ClaimID{}, false, err
	}
	if len(claims) == 0 {
		return claimtrie.ClaimID{}, false, nil
	}
	return claims[0].ClaimID, true, nil
}
