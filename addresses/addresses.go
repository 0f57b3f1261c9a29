// Copyright (c) 2025 The herald-go developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package addresses derives human-readable base-chain addresses from locking
// scripts and public key hashes. It exists because claim metadata extraction
// needs an address for every claim, support and update
// output, and the base indexer proper is out of scope for this repository.
package addresses

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	btctxscript "github.com/btcsuite/btcd/txscript"

	"github.com/lbryio/herald-go/chaincfg"
)

const (
	// AddressTypeP2PKH identifies a pay-to-pubkey-hash address.
	AddressTypeP2PKH = "p2pkh"

	// AddressTypeP2SH identifies a pay-to-script-hash address.
	AddressTypeP2SH = "p2sh"

	// AddressTypeP2WPKH identifies a segwit v0 pay-to-witness-pubkey-hash
	// address.
	AddressTypeP2WPKH = "p2wpkh"
)

// ErrInvalidAddress is returned when an address string fails to decode.
var ErrInvalidAddress = errors.New("addresses: invalid address encoding")

// ErrUnsupportedScript is returned when a locking script does not match any
// address pattern this package knows how to render.
var ErrUnsupportedScript = errors.New("addresses: unsupported locking script")

// Address is a base-chain address: a human-readable rendering of a locking
// script's pubkey-hash or script-hash payload.
type Address interface {
	// String returns the base58check or bech32 encoding of the address.
	String() string

	// Hash returns the raw hash payload (pubkey hash or script hash).
	Hash() []byte

	// AddressType reports which of the AddressType* constants this is.
	AddressType() string
}

type hashAddress struct {
	kind   string
	hash   []byte
	params *chaincfg.Params
}

func (a *hashAddress) Hash() []byte        { return a.hash }
func (a *hashAddress) AddressType() string { return a.kind }

func (a *hashAddress) String() string {
	switch a.kind {
	case AddressTypeP2WPKH:
		conv, err := bech32.ConvertBits(a.hash, 8, 5, true)
		if err != nil {
			return ""
		}
		data := append([]byte{0x00}, conv...)
		encoded, err := bech32.Encode(a.params.Bech32HRPSegwit, data)
		if err != nil {
			return ""
		}
		return encoded
	default:
		var version byte
		if a.kind == AddressTypeP2SH {
			version = a.params.ScriptHashAddrID
		} else {
			version = a.params.PubKeyHashAddrID
		}
		payload := make([]byte, 0, 25)
		payload = append(payload, version)
		payload = append(payload, a.hash...)
		checksum := chainhash.DoubleHashB(payload)[:4]
		return base58.Encode(append(payload, checksum...))
	}
}

// NewP2PKHAddress builds a pay-to-pubkey-hash address from a 20-byte hash.
func NewP2PKHAddress(pubKeyHash []byte, params *chaincfg.Params) (Address, error) {
	if len(pubKeyHash) != 20 {
		return nil, fmt.Errorf("addresses: pubkey hash must be 20 bytes, got %d", len(pubKeyHash))
	}
	return &hashAddress{kind: AddressTypeP2PKH, hash: append([]byte(nil), pubKeyHash...), params: params}, nil
}

// NewP2SHAddress builds a pay-to-script-hash address from a 20-byte hash.
func NewP2SHAddress(scriptHash []byte, params *chaincfg.Params) (Address, error) {
	if len(scriptHash) != 20 {
		return nil, fmt.Errorf("addresses: script hash must be 20 bytes, got %d", len(scriptHash))
	}
	return &hashAddress{kind: AddressTypeP2SH, hash: append([]byte(nil), scriptHash...), params: params}, nil
}

// FromScript classifies a locking script and renders the address it pays to.
// It recognizes standard P2PKH, P2SH and P2WPKH patterns; any other script
// (bare multisig, nulldata, non-standard) returns ErrUnsupportedScript, which
// the caller (claimtrie's buildClaimInfo) treats as a recoverable condition
// and stores an empty address rather than aborting the claim.
func FromScript(script []byte, params *chaincfg.Params) (Address, error) {
	switch {
	case isP2PKH(script):
		return NewP2PKHAddress(script[3:23], params)
	case isP2SH(script):
		return NewP2SHAddress(script[2:22], params)
	case isP2WPKH(script):
		return &hashAddress{kind: AddressTypeP2WPKH, hash: append([]byte(nil), script[2:22]...), params: params}, nil
	default:
		return nil, ErrUnsupportedScript
	}
}

// isP2PKH reports whether script is OP_DUP OP_HASH160 <20 bytes> OP_EQUALVERIFY OP_CHECKSIG.
func isP2PKH(script []byte) bool {
	return len(script) == 25 &&
		script[0] == byte(btctxscript.OP_DUP) &&
		script[1] == byte(btctxscript.OP_HASH160) &&
		script[2] == 0x14 &&
		script[23] == byte(btctxscript.OP_EQUALVERIFY) &&
		script[24] == byte(btctxscript.OP_CHECKSIG)
}

// isP2SH reports whether script is OP_HASH160 <20 bytes> OP_EQUAL.
func isP2SH(script []byte) bool {
	return len(script) == 23 &&
		script[0] == byte(btctxscript.OP_HASH160) &&
		script[1] == 0x14 &&
		script[22] == byte(btctxscript.OP_EQUAL)
}

// isP2WPKH reports whether script is OP_0 <20 bytes>.
func isP2WPKH(script []byte) bool {
	return len(script) == 22 &&
		script[0] == byte(btctxscript.OP_0) &&
		script[1] == 0x14
}

// P2PKHScript builds a standard pay-to-pubkey-hash locking script for the
// given 20-byte hash, used by tests that need to synthesize claim outputs.
func P2PKHScript(pubKeyHash []byte) ([]byte, error) {
	return btctxscript.NewScriptBuilder().
		AddOp(btctxscript.OP_DUP).
		AddOp(btctxscript.OP_HASH160).
		AddData(pubKeyHash).
		AddOp(btctxscript.OP_EQUALVERIFY).
		AddOp(btctxscript.OP_CHECKSIG).
		Script()
}

// HashPubKey hashes a serialized public key the way a P2PKH output would.
func HashPubKey(pubKey []byte) []byte {
	return btcutil.Hash160(pubKey)
}
