// Copyright (c) 2025 The herald-go developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package claimtrie

import "fmt"

// ErrMissingUndoJournal is returned by RollbackBlock when no undo record was
// ever written for the height being disconnected. This can
// only mean the journal and the live index have already diverged, so the
// caller should treat it as fatal rather than retry.
var ErrMissingUndoJournal = fmt.Errorf("claimtrie: no undo journal for this height")

// ErrCorruptUndoEntry is returned when an undo entry's claim id is absent
// from both the live claims store and its own recorded prior state — a
// state the forward Advance path can never produce, so its presence means
// the index is corrupt.
var ErrCorruptUndoEntry = fmt.Errorf("claimtrie: corrupt undo entry")

// RollbackBlock reverses everything AdvanceBlock staged for height: it reads
// that height's undo journal and replays its entries in reverse order,
// restoring each claim id to its pre-block state. Use this to disconnect
// the tip block during a reorg.
func (ix *Indexer) RollbackBlock(height uint32) error {
	bu, found, err := ix.cache.getUndo(height)
	if err != nil {
		return err
	}
	if !found {
		return fatal(fmt.Errorf("%w: height %d", ErrMissingUndoJournal, height))
	}

	for i := len(bu.Supports) - 1; i >= 0; i-- {
		ix.revertSupportEntry(bu.Supports[i])
	}
	for i := len(bu.Claims) - 1; i >= 0; i-- {
		if err := ix.revertEntry(bu.Claims[i]); err != nil {
			return err
		}
	}

	ix.cache.deleteUndo(height)
	ix.stats.BlocksRolledBack++
	return nil
}

// revertSupportEntry undoes one support change: an added support is
// removed; an abandoned support is restored from the record captured at
// abandon time.
func (ix *Indexer) revertSupportEntry(e supportUndoEntry) {
	if e.Added {
		byName, err := ix.cache.getSupportsByName(e.Name)
		if err != nil {
			log.Errorf("support index %q unreadable while reverting add: %v", e.Name, err)
			return
		}
		list := byName[e.ClaimID]
		for i, s := range list {
			if s.Outpoint() == e.Outpoint {
				list = append(list[:i], list[i+1:]...)
				break
			}
		}
		if len(list) == 0 {
			delete(byName, e.ClaimID)
		} else {
			byName[e.ClaimID] = list
		}
		ix.cache.putSupportsByName(e.Name, byName)
		ix.cache.deleteSupportOutpoint(e.Outpoint)
		return
	}

	byName, err := ix.cache.getSupportsByName(e.Name)
	if err != nil {
		log.Errorf("support index %q unreadable while reverting abandon: %v", e.Name, err)
		return
	}
	byName[e.ClaimID] = append(byName[e.ClaimID], e.Support)
	ix.cache.putSupportsByName(e.Name, byName)
	ix.cache.putSupportOutpoint(e.Outpoint, supportOutpointValue{Name: e.Name, ClaimID: e.ClaimID})
}

func (ix *Indexer) revertEntry(e undoEntry) error {
	current, err := ix.cache.getClaimInfo(e.ClaimID)
	if err != nil {
		return err
	}

	switch {
	case current != nil && e.Prior != nil:
		return ix.revertUpdate(e.ClaimID, current, e.Prior)
	case current != nil && e.Prior == nil:
		return ix.revertFreshClaim(e.ClaimID, current)
	case current == nil && e.Prior != nil:
		return ix.revertAbandon(e.ClaimID, e.Prior)
	default:
		return fatal(fmt.Errorf("%w: claim id %x missing on both sides", ErrCorruptUndoEntry, e.ClaimID))
	}
}

// revertUpdate undoes a claim update: the claim id existed both before and
// after the block, so its name-index membership and sequence number are
// unaffected — only the content record and the outpoint/cert indexes move
// back to the prior value.
func (ix *Indexer) revertUpdate(id ClaimID, current, prior *ClaimInfo) error {
	ix.cache.deleteOutpointClaimID(current.Outpoint())
	ix.cache.putOutpointClaimID(prior.Outpoint(), id)

	if current.HasCertID && (!prior.HasCertID || current.CertID != prior.CertID) {
		ix.removeFromCertIndex(current.CertID, id)
	}
	if prior.HasCertID && (!current.HasCertID || current.CertID != prior.CertID) {
		ix.addToCertIndex(prior.CertID, id)
	}

	ix.cache.putClaimInfo(id, prior)
	return nil
}

// revertFreshClaim undoes a name claim created within the block being
// disconnected: the claim id existed after the block but not before, so it
// is fully removed.
func (ix *Indexer) revertFreshClaim(id ClaimID, current *ClaimInfo) error {
	if err := ix.removeFromNameIndex(current.Name, id); err != nil {
		return err
	}
	if current.HasCertID {
		ix.removeFromCertIndex(current.CertID, id)
	}
	ix.cache.deleteClaimInfo(id)
	ix.cache.deleteOutpointClaimID(current.Outpoint())
	return nil
}

// revertAbandon undoes an abandonment that happened within the block being
// disconnected: the claim id existed before the block but not after, so it
// is fully restored. The restored entry is appended to the end of its
// name's sequence list rather than reinserted at its exact prior position;
// see DESIGN.md for why this does not affect any property this package
// guarantees.
func (ix *Indexer) revertAbandon(id ClaimID, prior *ClaimInfo) error {
	entries, err := ix.cache.getNameIndex(prior.Name)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.ClaimID == id {
			return nil // already present; nothing to restore
		}
	}
	entries = append(entries, nameSeq{ClaimID: id, Seq: uint32(len(entries) + 1)})
	ix.cache.putNameIndex(prior.Name, entries)

	ix.cache.putClaimInfo(id, prior)
	ix.cache.putOutpointClaimID(prior.Outpoint(), id)
	if prior.HasCertID {
		ix.addToCertIndex(prior.CertID, id)
	}
	return nil
}
