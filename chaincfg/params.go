// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2025 The herald-go developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chaincfg holds the address-encoding parameters of the base chain
// that the claim index sits on top of. Consensus parameters (proof-of-work
// limits, checkpoints, soft-fork deployments, DNS seeds) belong to the base
// indexer and are out of scope here: the claim index only ever needs to turn
// a locking script into a human-readable address.
package chaincfg

// Params defines the address-encoding magics of a base-chain network. It
// mirrors the subset of btcsuite/btcd's chaincfg.Params that claim metadata
// extraction (see claimtrie/metadata.go) actually consumes.
type Params struct {
	// Name is a human-readable identifier for the network, e.g. "mainnet".
	Name string

	// Bech32HRPSegwit is the human-readable part for bech32 encoded
	// segwit addresses, as defined in BIP 173.
	Bech32HRPSegwit string

	// PubKeyHashAddrID is the first byte of a P2PKH address.
	PubKeyHashAddrID byte

	// ScriptHashAddrID is the first byte of a P2SH address.
	ScriptHashAddrID byte

	// WitnessPubKeyHashAddrID is the first byte of a P2WPKH address.
	WitnessPubKeyHashAddrID byte

	// WitnessScriptHashAddrID is the first byte of a P2WSH address.
	WitnessScriptHashAddrID byte
}

// MainNetParams are the address parameters for the production network.
var MainNetParams = Params{
	Name:                    "mainnet",
	Bech32HRPSegwit:         "lbc",
	PubKeyHashAddrID:        0x55,
	ScriptHashAddrID:        0x7a,
	WitnessPubKeyHashAddrID: 0x06,
	WitnessScriptHashAddrID: 0x0a,
}

// TestNetParams are the address parameters for the public test network.
var TestNetParams = Params{
	Name:                    "testnet",
	Bech32HRPSegwit:         "tlbc",
	PubKeyHashAddrID:        0x6f,
	ScriptHashAddrID:        0xc4,
	WitnessPubKeyHashAddrID: 0x03,
	WitnessScriptHashAddrID: 0x28,
}

// RegressionNetParams are the address parameters used by local regtest
// networks for testing.
var RegressionNetParams = Params{
	Name:                    "regtest",
	Bech32HRPSegwit:         "rlbc",
	PubKeyHashAddrID:        0x6f,
	ScriptHashAddrID:        0xc4,
	WitnessPubKeyHashAddrID: 0x03,
	WitnessScriptHashAddrID: 0x28,
}

// IsPubKeyHashAddrID returns whether id is the network's P2PKH version byte.
func (p *Params) IsPubKeyHashAddrID(id byte) bool {
	return p.PubKeyHashAddrID == id
}

// IsScriptHashAddrID returns whether id is the network's P2SH version byte.
func (p *Params) IsScriptHashAddrID(id byte) bool {
	return p.ScriptHashAddrID == id
}
