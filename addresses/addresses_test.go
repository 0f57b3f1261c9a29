// Copyright (c) 2025 The herald-go developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package addresses

import (
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/lbryio/herald-go/chaincfg"
)

func TestP2PKHAddressRoundTrip(t *testing.T) {
	privKey, err := btcec.NewPrivateKey()
	if err != nil {
		t.Fatalf("failed to create private key: %v", err)
	}
	hash := HashPubKey(privKey.PubKey().SerializeCompressed())

	params := &chaincfg.MainNetParams

	t.Run("CreateAndRenderAddress", func(t *testing.T) {
		addr, err := NewP2PKHAddress(hash, params)
		if err != nil {
			t.Fatalf("failed to create p2pkh address: %v", err)
		}
		if addr.AddressType() != AddressTypeP2PKH {
			t.Errorf("expected type %s, got %s", AddressTypeP2PKH, addr.AddressType())
		}
		if addr.String() == "" {
			t.Error("address string should not be empty")
		}
	})

	t.Run("InvalidHashLength", func(t *testing.T) {
		if _, err := NewP2PKHAddress(hash[:10], params); err == nil {
			t.Error("expected error for short hash")
		}
	})
}

func TestFromScript(t *testing.T) {
	privKey, err := btcec.NewPrivateKey()
	if err != nil {
		t.Fatalf("failed to create private key: %v", err)
	}
	hash := HashPubKey(privKey.PubKey().SerializeCompressed())
	params := &chaincfg.MainNetParams

	t.Run("P2PKHScript", func(t *testing.T) {
		script, err := P2PKHScript(hash)
		if err != nil {
			t.Fatalf("failed to build script: %v", err)
		}
		addr, err := FromScript(script, params)
		if err != nil {
			t.Fatalf("failed to derive address from script: %v", err)
		}
		if got := addr.Hash(); string(got) != string(hash) {
			t.Errorf("expected hash %x, got %x", hash, got)
		}
	})

	t.Run("UnsupportedScript", func(t *testing.T) {
		if _, err := FromScript([]byte{0x6a, 0x01, 0x02}, params); err != ErrUnsupportedScript {
			t.Errorf("expected ErrUnsupportedScript, got %v", err)
		}
	})

	t.Run("Bech32Prefix", func(t *testing.T) {
		addr, err := NewP2PKHAddress(hash, params)
		if err != nil {
			t.Fatalf("failed to create address: %v", err)
		}
		if strings.HasPrefix(addr.String(), params.Bech32HRPSegwit) {
			t.Error("a P2PKH address should not use the bech32 HRP")
		}
	})
}
