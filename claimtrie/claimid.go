// Copyright (c) 2025 The herald-go developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package claimtrie

import (
	"crypto/sha256"
	"encoding/binary"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // deprecated upstream, still the reference hash here
)

// ClaimIDSize is the length in bytes of a claim identifier.
const ClaimIDSize = 20

// ClaimID identifies a claim independent of its current outpoint: it is
// derived once, from the outpoint of the transaction output that first
// created the claim, and carried forward across updates.
type ClaimID [ClaimIDSize]byte

// IsZero reports whether id is the zero value. Certificate presence on a
// ClaimInfo is tracked by its HasCertID flag, not by a zero CertID.
func (id ClaimID) IsZero() bool {
	return id == ClaimID{}
}

// Bytes returns the claim id as a newly allocated byte slice.
func (id ClaimID) Bytes() []byte {
	out := make([]byte, ClaimIDSize)
	copy(out, id[:])
	return out
}

// ClaimIDFromBytes copies b into a ClaimID, requiring an exact 20-byte length.
func ClaimIDFromBytes(b []byte) (ClaimID, bool) {
	var id ClaimID
	if len(b) != ClaimIDSize {
		return id, false
	}
	copy(id[:], b)
	return id, true
}

// DeriveClaimID computes a claim's identifier from the outpoint of the
// output that first created it: RIPEMD160(SHA256(txid || big-endian vout)).
// This is the only place a new claim id is ever minted — claim updates and
// supports carry the id forward instead of recomputing it.
func DeriveClaimID(txid [32]byte, vout uint32) ClaimID {
	var packed [36]byte
	copy(packed[:32], txid[:])
	binary.BigEndian.PutUint32(packed[32:], vout)

	sum := sha256.Sum256(packed[:])

	h := ripemd160.New()
	h.Write(sum[:])

	var id ClaimID
	copy(id[:], h.Sum(nil))
	return id
}
