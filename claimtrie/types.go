// Copyright (c) 2025 The herald-go developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package claimtrie

import (
	"encoding/binary"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// OutpointKeySize is the length of a serialized outpoint key: a 32-byte
// txid followed by a big-endian uint32 output index.
const OutpointKeySize = 32 + 4

// OutpointKey is the raw 36-byte key used by the outpoint and
// support-by-outpoint stores.
type OutpointKey [OutpointKeySize]byte

// NewOutpointKey builds the canonical key for (txid, vout).
func NewOutpointKey(txid chainhash.Hash, vout uint32) OutpointKey {
	var key OutpointKey
	copy(key[:32], txid[:])
	binary.BigEndian.PutUint32(key[32:], vout)
	return key
}

// Txid extracts the transaction hash half of the key.
func (k OutpointKey) Txid() chainhash.Hash {
	var h chainhash.Hash
	copy(h[:], k[:32])
	return h
}

// Vout extracts the output-index half of the key.
func (k OutpointKey) Vout() uint32 {
	return binary.BigEndian.Uint32(k[32:])
}

// ClaimInfo is the full record kept for a live or historical claim. A
// ClaimInfo is immutable once built: an update produces a new
// ClaimInfo rather than mutating the old one, so that the old value can be
// captured verbatim into the undo journal.
type ClaimInfo struct {
	Name      []byte
	Value     []byte
	Txid      chainhash.Hash
	Nout      uint32
	Amount    uint64
	Address   []byte
	Height    uint32
	CertID    ClaimID
	HasCertID bool
}

// Outpoint returns the (txid, vout) this claim currently lives at.
func (c *ClaimInfo) Outpoint() OutpointKey {
	return NewOutpointKey(c.Txid, c.Nout)
}

// clone returns a deep copy, used when handing a ClaimInfo to the undo
// journal so later mutation of the live record can't retroactively corrupt
// the pre-image.
func (c *ClaimInfo) clone() *ClaimInfo {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Name = append([]byte(nil), c.Name...)
	cp.Value = append([]byte(nil), c.Value...)
	cp.Address = append([]byte(nil), c.Address...)
	return &cp
}

// Support is one claim-support output: a (txid, nout) paying additional
// weight to claimID under a name, without altering the claim's content.
type Support struct {
	Txid   chainhash.Hash
	Nout   uint32
	Height uint32
	Amount uint64
}

// Outpoint returns this support's own outpoint (the spending of which
// retracts the support —, SupportIndexByOutpoint).
func (s Support) Outpoint() OutpointKey {
	return NewOutpointKey(s.Txid, s.Nout)
}
