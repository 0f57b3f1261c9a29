// Copyright (c) 2025 The herald-go developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package claimtrie

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
)

// valueEnvelope is the claim value blob's self-describing layout: an
// optional signing-certificate reference, an optional DER signature over
// the remaining payload (canonicalized with the claim's address), and the
// payload itself.
type valueEnvelope struct {
	certID    ClaimID
	hasCertID bool
	signature []byte
	payload   []byte
}

const (
	flagHasCertID    = 1 << 0
	flagHasSignature = 1 << 1
)

// ErrMalformedValue is returned by parseValue when the blob does not follow
// the envelope layout. This is always recoverable.
var ErrMalformedValue = errors.New("claimtrie: malformed value blob")

// parseValue decodes a claim value blob. The certificate id, when present,
// is stored little-endian on the wire (mirroring how the base chain reverses
// hashes for display) and is reversed back to this package's canonical
// big-endian ClaimID orientation here.
func parseValue(value []byte) (*valueEnvelope, error) {
	if len(value) < 1 {
		return nil, fmt.Errorf("%w: empty", ErrMalformedValue)
	}
	env := &valueEnvelope{}
	flags := value[0]
	pos := 1

	if flags&flagHasCertID != 0 {
		if pos+ClaimIDSize > len(value) {
			return nil, fmt.Errorf("%w: truncated cert id", ErrMalformedValue)
		}
		var reversed ClaimID
		copy(reversed[:], value[pos:pos+ClaimIDSize])
		env.certID = reverseClaimID(reversed)
		env.hasCertID = true
		pos += ClaimIDSize
	}

	if flags&flagHasSignature != 0 {
		if pos+2 > len(value) {
			return nil, fmt.Errorf("%w: truncated signature length", ErrMalformedValue)
		}
		sigLen := int(binary.BigEndian.Uint16(value[pos : pos+2]))
		pos += 2
		if pos+sigLen > len(value) {
			return nil, fmt.Errorf("%w: truncated signature", ErrMalformedValue)
		}
		env.signature = value[pos : pos+sigLen]
		pos += sigLen
	}

	env.payload = value[pos:]
	return env, nil
}

func reverseClaimID(id ClaimID) ClaimID {
	var out ClaimID
	for i := range id {
		out[i] = id[len(id)-1-i]
	}
	return out
}

// verifyClaimSignature checks that signature is a valid ECDSA signature,
// under the certificate claim's public key (its value payload), over
// sha256(address || payload), with the claiming output's own address used
// as the canonicalization input.
func verifyClaimSignature(certClaim *ClaimInfo, address, payload, signature []byte) bool {
	if certClaim == nil || len(signature) == 0 {
		return false
	}
	certEnv, err := parseValue(certClaim.Value)
	if err != nil {
		return false
	}
	pubKey, err := btcec.ParsePubKey(certEnv.payload)
	if err != nil {
		return false
	}
	sig, err := ecdsa.ParseDERSignature(signature)
	if err != nil {
		return false
	}
	digest := sha256.Sum256(append(append([]byte(nil), address...), payload...))
	return sig.Verify(digest[:], pubKey)
}
