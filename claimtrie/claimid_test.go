// Copyright (c) 2025 The herald-go developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package claimtrie

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveClaimID(t *testing.T) {
	t.Run("Deterministic", func(t *testing.T) {
		var txid [32]byte
		txid[0] = 0xAB
		id1 := DeriveClaimID(txid, 3)
		id2 := DeriveClaimID(txid, 3)
		assert.Equal(t, id1, id2)
	})

	t.Run("VoutChangesID", func(t *testing.T) {
		var txid [32]byte
		txid[0] = 0xAB
		id1 := DeriveClaimID(txid, 0)
		id2 := DeriveClaimID(txid, 1)
		assert.NotEqual(t, id1, id2)
	})

	t.Run("TxidChangesID", func(t *testing.T) {
		var txid1, txid2 [32]byte
		txid1[0] = 0x01
		txid2[0] = 0x02
		assert.NotEqual(t, DeriveClaimID(txid1, 0), DeriveClaimID(txid2, 0))
	})
}

func TestClaimIDFromBytes(t *testing.T) {
	t.Run("ExactLength", func(t *testing.T) {
		raw := make([]byte, ClaimIDSize)
		raw[5] = 0x42
		id, ok := ClaimIDFromBytes(raw)
		require.True(t, ok)
		assert.Equal(t, byte(0x42), id[5])
	})

	t.Run("WrongLength", func(t *testing.T) {
		_, ok := ClaimIDFromBytes([]byte{0x01, 0x02})
		assert.False(t, ok)
	})
}

func TestClaimIDIsZero(t *testing.T) {
	var id ClaimID
	assert.True(t, id.IsZero())
	id[0] = 1
	assert.False(t, id.IsZero())
}
