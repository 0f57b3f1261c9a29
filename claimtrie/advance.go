// Copyright (c) 2025 The herald-go developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package claimtrie

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/lbryio/herald-go/txscript"
)

// AdvanceInput is the (previous outpoint) half of a transaction input the
// block-advance engine needs: enough to detect that a prior claim or
// support output has been spent, without depending on a full base-chain
// transaction type.
type AdvanceInput struct {
	PrevTxid chainhash.Hash
	PrevNout uint32
}

func (in AdvanceInput) outpoint() OutpointKey {
	return NewOutpointKey(in.PrevTxid, in.PrevNout)
}

// AdvanceOutput is the half of a transaction output the engine needs: its
// locking script (which may carry a claim-layer opcode) and its value.
type AdvanceOutput struct {
	PkScript []byte
	Value    uint64
}

// AdvanceTx is one transaction's worth of inputs and outputs, in block
// order, as the advance engine needs them.
type AdvanceTx struct {
	Txid    chainhash.Hash
	Inputs  []AdvanceInput
	Outputs []AdvanceOutput
}

// blockChanges accumulates the undo log for one block as it is advanced,
// in the order changes are applied.
type blockChanges struct {
	claims   []undoEntry
	supports []supportUndoEntry
}

func (bc *blockChanges) record(id ClaimID, priorIfAny *ClaimInfo) {
	bc.claims = append(bc.claims, undoEntry{ClaimID: id, Prior: priorIfAny.clone()})
}

func (bc *blockChanges) recordSupportAdded(op OutpointKey, name []byte, claimID ClaimID, s Support) {
	bc.supports = append(bc.supports, supportUndoEntry{Added: true, Outpoint: op, Name: name, ClaimID: claimID, Support: s})
}

func (bc *blockChanges) recordSupportAbandoned(op OutpointKey, name []byte, claimID ClaimID, s Support) {
	bc.supports = append(bc.supports, supportUndoEntry{Added: false, Outpoint: op, Name: name, ClaimID: claimID, Support: s})
}

// AdvanceBlock applies one block's transactions to the claim index: new
// name claims, claim updates, claim supports, and the abandonment of any
// claim or support whose current outpoint is spent without being consumed
// by a matching update in the same block. Mutations are staged in the
// write-back caches; call Flush to commit them.
func (ix *Indexer) AdvanceBlock(height uint32, txs []AdvanceTx) error {
	changes := &blockChanges{}

	// consumedByUpdate marks outpoints whose spend in this block is the
	// input half of a valid claim update, so the abandon pass below must
	// not also treat them as abandoned.
	consumedByUpdate := make(map[OutpointKey]struct{})

	for _, tx := range txs {
		inputSet := make(map[OutpointKey]struct{}, len(tx.Inputs))
		for _, in := range tx.Inputs {
			inputSet[in.outpoint()] = struct{}{}
		}

		for nout, out := range tx.Outputs {
			cs, err := txscript.Parse(out.PkScript)
			if err != nil {
				continue // malformed claim-layer prefix: index as a plain output
			}

			switch cs.Kind {
			case txscript.KindNameClaim:
				if err := ix.applyNameClaim(changes, cs, tx.Txid, uint32(nout), out.Value, height); err != nil {
					return err
				}

			case txscript.KindClaimUpdate:
				consumedOutpoint, ok, err := ix.applyClaimUpdate(changes, cs, tx.Txid, uint32(nout), out.Value, height, inputSet)
				if err != nil {
					return err
				}
				if ok {
					consumedByUpdate[consumedOutpoint] = struct{}{}
				}

			case txscript.KindClaimSupport:
				if err := ix.applyClaimSupport(changes, cs, tx.Txid, uint32(nout), out.Value, height, inputSet); err != nil {
					return err
				}
			}
		}
	}

	for _, tx := range txs {
		for _, in := range tx.Inputs {
			op := in.outpoint()
			if _, skip := consumedByUpdate[op]; skip {
				continue
			}
			if err := ix.abandonIfClaim(changes, op); err != nil {
				return err
			}
			if err := ix.abandonIfSupport(changes, op); err != nil {
				return err
			}
		}
	}

	ix.cache.putUndo(height, blockUndo{Claims: changes.claims, Supports: changes.supports})
	ix.stats.BlocksAdvanced++
	return nil
}

func (ix *Indexer) applyNameClaim(changes *blockChanges, cs *txscript.ClaimScript, txid chainhash.Hash, nout uint32, value uint64, height uint32) error {
	claimID := DeriveClaimID(txid, nout)
	info := buildClaimInfo(cs, txid, nout, value, height, ix.cfg.Params, ix.cfg.ValidateClaimSignatures, ix.lookupClaim)

	entries, err := ix.cache.getNameIndex(info.Name)
	if err != nil {
		return err
	}
	entries = append(entries, nameSeq{ClaimID: claimID, Seq: uint32(len(entries) + 1)})
	ix.cache.putNameIndex(info.Name, entries)

	ix.cache.putClaimInfo(claimID, info)
	ix.cache.putOutpointClaimID(info.Outpoint(), claimID)
	if info.HasCertID {
		ix.addToCertIndex(info.CertID, claimID)
	}

	changes.record(claimID, nil)
	ix.stats.ClaimsAdded++
	return nil
}

// applyClaimUpdate validates and applies an update output. It returns the
// outpoint of the claim it consumed and true when the update is valid; a
// false return means the output carried an update opcode that did not
// validate, in which case
// the output is left unindexed.
func (ix *Indexer) applyClaimUpdate(changes *blockChanges, cs *txscript.ClaimScript, txid chainhash.Hash, nout uint32, value uint64, height uint32, inputSet map[OutpointKey]struct{}) (OutpointKey, bool, error) {
	claimID, ok := ClaimIDFromBytes(cs.ClaimID)
	if !ok {
		return OutpointKey{}, false, nil
	}

	prior, err := ix.cache.getClaimInfo(claimID)
	if err != nil {
		return OutpointKey{}, false, err
	}
	if prior == nil {
		return OutpointKey{}, false, nil
	}
	priorOutpoint := prior.Outpoint()
	if _, spent := inputSet[priorOutpoint]; !spent {
		return OutpointKey{}, false, nil
	}

	info := buildClaimInfo(cs, txid, nout, value, height, ix.cfg.Params, ix.cfg.ValidateClaimSignatures, ix.lookupClaim)
	info.Name = prior.Name // an update cannot change which name its sequence entry belongs to

	if prior.HasCertID && (!info.HasCertID || info.CertID != prior.CertID) {
		ix.removeFromCertIndex(prior.CertID, claimID)
	}
	if info.HasCertID && (!prior.HasCertID || info.CertID != prior.CertID) {
		ix.addToCertIndex(info.CertID, claimID)
	}

	ix.cache.deleteOutpointClaimID(priorOutpoint)
	ix.cache.putOutpointClaimID(info.Outpoint(), claimID)
	ix.cache.putClaimInfo(claimID, info)

	changes.record(claimID, prior)
	ix.stats.ClaimsUpdated++
	return priorOutpoint, true, nil
}

func (ix *Indexer) applyClaimSupport(changes *blockChanges, cs *txscript.ClaimScript, txid chainhash.Hash, nout uint32, value uint64, height uint32, inputSet map[OutpointKey]struct{}) error {
	claimID, ok := ClaimIDFromBytes(cs.ClaimID)
	if !ok {
		return nil
	}
	support := Support{Txid: txid, Nout: nout, Height: height, Amount: value}

	if _, spentInSameTx := inputSet[support.Outpoint()]; spentInSameTx {
		// a support that dies in its own creating block is never indexed.
		return nil
	}

	byName, err := ix.cache.getSupportsByName(cs.Name)
	if err != nil {
		return err
	}
	byName[claimID] = append(byName[claimID], support)
	ix.cache.putSupportsByName(cs.Name, byName)
	ix.cache.putSupportOutpoint(support.Outpoint(), supportOutpointValue{Name: cs.Name, ClaimID: claimID})

	changes.recordSupportAdded(support.Outpoint(), cs.Name, claimID, support)
	ix.stats.SupportsAdded++
	return nil
}

// abandonIfClaim removes the claim currently living at op, if any, renumbering
// its name's remaining sequence so sequence numbers stay contiguous.
func (ix *Indexer) abandonIfClaim(changes *blockChanges, op OutpointKey) error {
	claimID, found, err := ix.cache.getOutpointClaimID(op)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}
	info, err := ix.cache.getClaimInfo(claimID)
	if err != nil {
		return err
	}
	if info == nil {
		return nil
	}

	if err := ix.removeFromNameIndex(info.Name, claimID); err != nil {
		return err
	}
	if info.HasCertID {
		ix.removeFromCertIndex(info.CertID, claimID)
	}
	ix.cache.deleteClaimInfo(claimID)
	ix.cache.deleteOutpointClaimID(op)

	changes.record(claimID, info)
	ix.stats.ClaimsAbandoned++
	return nil
}

func (ix *Indexer) abandonIfSupport(changes *blockChanges, op OutpointKey) error {
	sv, found, err := ix.cache.getSupportOutpoint(op)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}

	byName, err := ix.cache.getSupportsByName(sv.Name)
	if err != nil {
		return err
	}
	list := byName[sv.ClaimID]
	var removed Support
	for i, s := range list {
		if s.Outpoint() == op {
			removed = s
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(byName, sv.ClaimID)
	} else {
		byName[sv.ClaimID] = list
	}
	ix.cache.putSupportsByName(sv.Name, byName)
	ix.cache.deleteSupportOutpoint(op)

	changes.recordSupportAbandoned(op, sv.Name, sv.ClaimID, removed)
	ix.stats.SupportsAbandoned++
	return nil
}

func (ix *Indexer) removeFromNameIndex(name []byte, claimID ClaimID) error {
	entries, err := ix.cache.getNameIndex(name)
	if err != nil {
		return err
	}
	idx := -1
	for i, e := range entries {
		if e.ClaimID == claimID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	removedSeq := entries[idx].Seq
	entries = append(entries[:idx], entries[idx+1:]...)
	for i := range entries {
		if entries[i].Seq > removedSeq {
			entries[i].Seq--
		}
	}
	ix.cache.putNameIndex(name, entries)
	return nil
}

func (ix *Indexer) addToCertIndex(certID, claimID ClaimID) {
	ids, err := ix.cache.getCertIndex(certID)
	if err != nil {
		log.Errorf("cert index %x unreadable, not recording signed claim %x: %v", certID, claimID, err)
		return
	}
	ids = append(ids, claimID)
	ix.cache.putCertIndex(certID, ids)
}

func (ix *Indexer) removeFromCertIndex(certID, claimID ClaimID) {
	ids, err := ix.cache.getCertIndex(certID)
	if err != nil {
		log.Errorf("cert index %x unreadable, not removing claim %x: %v", certID, claimID, err)
		return
	}
	for i, id := range ids {
		if id == claimID {
			ids = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	ix.cache.putCertIndex(certID, ids)
}
