// Copyright (c) 2025 The herald-go developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package claimtrie

import (
	"encoding/hex"
	"fmt"
)

// NamedClaim pairs a claim id with its current sequence number under a
// name, as returned by GetClaimsForName.
type NamedClaim struct {
	ClaimID ClaimID
	Seq     uint32
}

// GetClaimInfo returns the current record for a claim id, or (nil, nil) if
// no live claim has that id.
func (ix *Indexer) GetClaimInfo(id ClaimID) (*ClaimInfo, error) {
	return ix.cache.getClaimInfo(id)
}

// GetClaimsForName returns every claim currently registered under name,
// in sequence order (the order the renumbering keeps contiguous).
func (ix *Indexer) GetClaimsForName(name []byte) ([]NamedClaim, error) {
	entries, err := ix.cache.getNameIndex(name)
	if err != nil {
		return nil, err
	}
	out := make([]NamedClaim, len(entries))
	for i, e := range entries {
		out[i] = NamedClaim{ClaimID: e.ClaimID, Seq: e.Seq}
	}
	return out, nil
}

// GetClaimIDFromOutpoint resolves the claim id currently living at an
// outpoint, if any.
func (ix *Indexer) GetClaimIDFromOutpoint(op OutpointKey) (ClaimID, bool, error) {
	return ix.cache.getOutpointClaimID(op)
}

// GetSupportsForName returns every support currently registered under name,
// grouped by the claim id they support.
func (ix *Indexer) GetSupportsForName(name []byte) (map[ClaimID][]Support, error) {
	return ix.cache.getSupportsByName(name)
}

// GetSupportedClaimNameIDFromOutpoint resolves the (name, claim id) a
// support output at op currently backs, if the outpoint is a live support.
func (ix *Indexer) GetSupportedClaimNameIDFromOutpoint(op OutpointKey) (name []byte, claimID ClaimID, found bool, err error) {
	sv, ok, err := ix.cache.getSupportOutpoint(op)
	if err != nil || !ok {
		return nil, ClaimID{}, ok, err
	}
	return sv.Name, sv.ClaimID, true, nil
}

// StratumClaimInfo is the composite record a client query surface returns
// for a single claim: the stored fields plus the derived ranking data
// (sequence, confirmation depth, effective amount, supports) a Stratum-style
// RPC layer needs without recomputing them itself.
type StratumClaimInfo struct {
	ClaimInfo
	ClaimSequence   uint32
	Depth           uint32
	EffectiveAmount uint64
	Supports        []Support
}

// GetStratumClaimInfo assembles the composite record for a claim id at the
// given current chain height.
func (ix *Indexer) GetStratumClaimInfo(id ClaimID, currentHeight uint32) (*StratumClaimInfo, error) {
	info, err := ix.cache.getClaimInfo(id)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, nil
	}

	seq := uint32(0)
	entries, err := ix.cache.getNameIndex(info.Name)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.ClaimID == id {
			seq = e.Seq
			break
		}
	}

	depth := uint32(0)
	if currentHeight >= info.Height {
		depth = currentHeight - info.Height
	}

	effective := info.Amount
	supports, err := ix.cache.getSupportsByName(info.Name)
	if err != nil {
		return nil, err
	}
	for _, s := range supports[id] {
		effective += s.Amount
	}

	return &StratumClaimInfo{
		ClaimInfo:       *info,
		ClaimSequence:   seq,
		Depth:           depth,
		EffectiveAmount: effective,
		Supports:        supports[id],
	}, nil
}

// HeightFromConfirmations converts a confirmation count reported against
// the current chain tip into the absolute block height it refers to.
func HeightFromConfirmations(currentHeight, confirmations uint32) uint32 {
	if confirmations == 0 || confirmations > currentHeight {
		return currentHeight
	}
	return currentHeight - confirmations
}

// ErrInvalidTxHash is returned by ValidateTxHash for a string that is not a
// well-formed 32-byte hex transaction hash.
var ErrInvalidTxHash = fmt.Errorf("claimtrie: invalid transaction hash")

// ValidateTxHash checks that s is exactly 64 hex characters, the shape a
// client-facing lookup by transaction hash must have before it is worth
// querying the index with.
func ValidateTxHash(s string) error {
	if len(s) != 64 {
		return fmt.Errorf("%w: want 64 hex characters, got %d", ErrInvalidTxHash, len(s))
	}
	if _, err := hex.DecodeString(s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTxHash, err)
	}
	return nil
}

// ErrInvalidClaimID is returned by ValidateClaimID for a string that is not
// a well-formed 20-byte hex claim id.
var ErrInvalidClaimID = fmt.Errorf("claimtrie: invalid claim id")

// ValidateClaimID checks that s is exactly 40 hex characters.
func ValidateClaimID(s string) error {
	if len(s) != 2*ClaimIDSize {
		return fmt.Errorf("%w: want %d hex characters, got %d", ErrInvalidClaimID, 2*ClaimIDSize, len(s))
	}
	if _, err := hex.DecodeString(s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidClaimID, err)
	}
	return nil
}
