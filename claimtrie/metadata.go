// Copyright (c) 2025 The herald-go developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package claimtrie

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/lbryio/herald-go/addresses"
	"github.com/lbryio/herald-go/chaincfg"
	"github.com/lbryio/herald-go/txscript"
)

// classifyOutput parses a single output's locking script for an embedded
// claim operation. A plain payment output yields KindNone, not an error.
func classifyOutput(pkScript []byte) (*txscript.ClaimScript, error) {
	return txscript.Parse(pkScript)
}

// buildClaimInfo constructs the ClaimInfo for a name-claim or claim-update
// output: the address is derived from the output's locking script, the name is
// validated as a URI component, and the value blob's certificate reference
// is extracted and, when signature validation is enabled, cryptographically
// checked. Any failure in URI validation, value parsing, or signature
// verification is swallowed — the claim is still indexed, just without a
// certificate association.
func buildClaimInfo(cs *txscript.ClaimScript, txid chainhash.Hash, nout uint32, amount uint64,
	height uint32, params *chaincfg.Params, validateSignatures bool, lookupCert func(ClaimID) (*ClaimInfo, error)) *ClaimInfo {

	info := &ClaimInfo{
		Name:   append([]byte(nil), cs.Name...),
		Value:  append([]byte(nil), cs.Value...),
		Txid:   txid,
		Nout:   nout,
		Amount: amount,
		Height: height,
	}

	if addr, err := addresses.FromScript(cs.PkScript, params); err == nil {
		info.Address = []byte(addr.String())
	}

	if err := txscript.ParseURI(string(cs.Name)); err != nil {
		return info
	}

	env, err := parseValue(cs.Value)
	if err != nil || !env.hasCertID {
		return info
	}

	if !validateSignatures {
		info.CertID = env.certID
		info.HasCertID = true
		return info
	}

	certClaim, err := lookupCert(env.certID)
	if err != nil || certClaim == nil {
		return info
	}
	if !verifyClaimSignature(certClaim, info.Address, env.payload, env.signature) {
		return info
	}

	info.CertID = env.certID
	info.HasCertID = true
	return info
}
