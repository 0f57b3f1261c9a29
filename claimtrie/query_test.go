// Copyright (c) 2025 The herald-go developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package claimtrie

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStratumClaimInfoComposite(t *testing.T) {
	ix := newTestIndexerInstance()

	claimTx := AdvanceTx{Txid: txid(0x01), Outputs: []AdvanceOutput{{PkScript: buildNameClaimScript(t, []byte("n"), []byte("v")), Value: 100}}}
	require.NoError(t, ix.AdvanceBlock(10, []AdvanceTx{claimTx}))
	claimID := DeriveClaimID(claimTx.Txid, 0)

	supportTx := AdvanceTx{Txid: txid(0x02), Outputs: []AdvanceOutput{{PkScript: buildSupportClaimScript(t, []byte("n"), claimID), Value: 50}}}
	require.NoError(t, ix.AdvanceBlock(11, []AdvanceTx{supportTx}))

	info, err := ix.GetStratumClaimInfo(claimID, 20)
	require.NoError(t, err)
	require.NotNil(t, info)

	assert.Equal(t, uint32(1), info.ClaimSequence)
	assert.Equal(t, uint32(10), info.Depth) // 20 - height(10)
	assert.Equal(t, uint64(150), info.EffectiveAmount)
}

func TestGetStratumClaimInfoMissingClaim(t *testing.T) {
	ix := newTestIndexerInstance()
	info, err := ix.GetStratumClaimInfo(ClaimID{1}, 10)
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestHeightFromConfirmations(t *testing.T) {
	t.Run("Typical", func(t *testing.T) {
		assert.Equal(t, uint32(90), HeightFromConfirmations(100, 10))
	})
	t.Run("ZeroConfirmationsMeansTip", func(t *testing.T) {
		assert.Equal(t, uint32(100), HeightFromConfirmations(100, 0))
	})
	t.Run("ConfirmationsExceedsHeight", func(t *testing.T) {
		assert.Equal(t, uint32(100), HeightFromConfirmations(100, 500))
	})
}

func TestValidateTxHash(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		good := make([]byte, 64)
		for i := range good {
			good[i] = 'a'
		}
		assert.NoError(t, ValidateTxHash(string(good)))
	})
	t.Run("WrongLength", func(t *testing.T) {
		assert.ErrorIs(t, ValidateTxHash("abcd"), ErrInvalidTxHash)
	})
	t.Run("NonHex", func(t *testing.T) {
		bad := make([]byte, 64)
		for i := range bad {
			bad[i] = 'z'
		}
		assert.ErrorIs(t, ValidateTxHash(string(bad)), ErrInvalidTxHash)
	})
}

func TestValidateClaimID(t *testing.T) {
	t.Run("WrongLength", func(t *testing.T) {
		assert.ErrorIs(t, ValidateClaimID("abcd"), ErrInvalidClaimID)
	})
	t.Run("NonHex", func(t *testing.T) {
		bad := make([]byte, 40)
		for i := range bad {
			bad[i] = 'z'
		}
		assert.ErrorIs(t, ValidateClaimID(string(bad)), ErrInvalidClaimID)
	})
	t.Run("Valid", func(t *testing.T) {
		good := make([]byte, 40)
		for i := range good {
			good[i] = 'a'
		}
		assert.NoError(t, ValidateClaimID(string(good)))
	})
}
