// Copyright (c) 2025 The herald-go developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package claimtrie

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lbryio/herald-go/addresses"
	"github.com/lbryio/herald-go/chaincfg"
)

const (
	testOpDrop  = 0x75
	testOp2Drop = 0x6d
)

func push(data []byte) []byte {
	if len(data) > 0x4b {
		panic("test helper only supports direct pushes")
	}
	return append([]byte{byte(len(data))}, data...)
}

// scriptT is the part of *testing.T the script builders use, so that rapid
// property checks can pass their *rapid.T to them as well.
type scriptT interface {
	Helper()
	require.TestingT
}

func testPayScript(t scriptT) []byte {
	t.Helper()
	script, err := addresses.P2PKHScript(addresses.HashPubKey([]byte("test-pubkey-bytes-32-bytes-long")))
	require.NoError(t, err)
	return script
}

func buildNameClaimScript(t scriptT, name, value []byte) []byte {
	t.Helper()
	out := []byte{0xb5} // OP_CLAIMNAME
	out = append(out, push(name)...)
	out = append(out, push(value)...)
	out = append(out, testOp2Drop, testOpDrop)
	return append(out, testPayScript(t)...)
}

func buildUpdateClaimScript(t *testing.T, name []byte, claimID ClaimID, value []byte) []byte {
	t.Helper()
	out := []byte{0xb7} // OP_UPDATECLAIM
	out = append(out, push(name)...)
	out = append(out, push(claimID[:])...)
	out = append(out, push(value)...)
	out = append(out, testOp2Drop, testOp2Drop)
	return append(out, testPayScript(t)...)
}

func buildSupportClaimScript(t *testing.T, name []byte, claimID ClaimID) []byte {
	t.Helper()
	out := []byte{0xb6} // OP_SUPPORTCLAIM
	out = append(out, push(name)...)
	out = append(out, push(claimID[:])...)
	out = append(out, testOp2Drop, testOpDrop)
	return append(out, testPayScript(t)...)
}

func txid(b byte) chainhash.Hash {
	var h chainhash.Hash
	h[0] = b
	return h
}

func newTestIndexerInstance() *Indexer {
	c, _ := newTestCaches()
	return &Indexer{
		cfg:   Config{Params: &chaincfg.MainNetParams},
		cache: c,
	}
}

func TestAdvanceBlockNameClaim(t *testing.T) {
	ix := newTestIndexerInstance()

	tx := AdvanceTx{
		Txid: txid(0x01),
		Outputs: []AdvanceOutput{
			{PkScript: buildNameClaimScript(t, []byte("movie"), []byte("value-blob")), Value: 1000},
		},
	}

	require.NoError(t, ix.AdvanceBlock(100, []AdvanceTx{tx}))

	claimID := DeriveClaimID(tx.Txid, 0)
	info, err := ix.GetClaimInfo(claimID)
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "movie", string(info.Name))
	assert.Equal(t, uint64(1000), info.Amount)
	assert.Equal(t, uint32(100), info.Height)

	claims, err := ix.GetClaimsForName([]byte("movie"))
	require.NoError(t, err)
	require.Len(t, claims, 1)
	assert.Equal(t, uint32(1), claims[0].Seq)
	assert.Equal(t, uint64(1), ix.Stats().ClaimsAdded)
}

func TestAdvanceBlockUpdateConsumesOnlyMatchingOutpoint(t *testing.T) {
	ix := newTestIndexerInstance()

	createTx := AdvanceTx{
		Txid: txid(0x01),
		Outputs: []AdvanceOutput{
			{PkScript: buildNameClaimScript(t, []byte("movie"), []byte("v1")), Value: 1000},
		},
	}
	require.NoError(t, ix.AdvanceBlock(100, []AdvanceTx{createTx}))
	claimID := DeriveClaimID(createTx.Txid, 0)

	updateTx := AdvanceTx{
		Txid:    txid(0x02),
		Inputs:  []AdvanceInput{{PrevTxid: createTx.Txid, PrevNout: 0}},
		Outputs: []AdvanceOutput{{PkScript: buildUpdateClaimScript(t, []byte("movie"), claimID, []byte("v2")), Value: 2000}},
	}
	require.NoError(t, ix.AdvanceBlock(101, []AdvanceTx{updateTx}))

	info, err := ix.GetClaimInfo(claimID)
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "v2", string(info.Value))
	assert.Equal(t, uint64(2000), info.Amount)

	// the claim id must still resolve from its new outpoint and no longer
	// from the consumed one.
	newID, found, err := ix.GetClaimIDFromOutpoint(NewOutpointKey(updateTx.Txid, 0))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, claimID, newID)

	_, found, err = ix.GetClaimIDFromOutpoint(NewOutpointKey(createTx.Txid, 0))
	require.NoError(t, err)
	assert.False(t, found)

	assert.Equal(t, uint64(1), ix.Stats().ClaimsUpdated)
	assert.Equal(t, uint64(0), ix.Stats().ClaimsAbandoned, "a valid update must not also count as an abandon")
}

func TestAdvanceBlockAbandonRenumbersSequence(t *testing.T) {
	ix := newTestIndexerInstance()

	tx1 := AdvanceTx{Txid: txid(0x01), Outputs: []AdvanceOutput{{PkScript: buildNameClaimScript(t, []byte("n"), []byte("v1")), Value: 10}}}
	tx2 := AdvanceTx{Txid: txid(0x02), Outputs: []AdvanceOutput{{PkScript: buildNameClaimScript(t, []byte("n"), []byte("v2")), Value: 10}}}
	tx3 := AdvanceTx{Txid: txid(0x03), Outputs: []AdvanceOutput{{PkScript: buildNameClaimScript(t, []byte("n"), []byte("v3")), Value: 10}}}
	require.NoError(t, ix.AdvanceBlock(1, []AdvanceTx{tx1, tx2, tx3}))

	id1 := DeriveClaimID(tx1.Txid, 0)
	id2 := DeriveClaimID(tx2.Txid, 0)
	id3 := DeriveClaimID(tx3.Txid, 0)

	abandonTx := AdvanceTx{
		Txid:   txid(0x04),
		Inputs: []AdvanceInput{{PrevTxid: tx2.Txid, PrevNout: 0}},
	}
	require.NoError(t, ix.AdvanceBlock(2, []AdvanceTx{abandonTx}))

	claims, err := ix.GetClaimsForName([]byte("n"))
	require.NoError(t, err)
	require.Len(t, claims, 2)

	seqByID := map[ClaimID]uint32{}
	for _, c := range claims {
		seqByID[c.ClaimID] = c.Seq
	}
	assert.Equal(t, uint32(1), seqByID[id1])
	assert.Equal(t, uint32(2), seqByID[id3], "claim after the abandoned one must shift down to fill the gap")
	_, stillThere := seqByID[id2]
	assert.False(t, stillThere)

	gone, err := ix.GetClaimInfo(id2)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestAdvanceBlockSupportRoundTrip(t *testing.T) {
	ix := newTestIndexerInstance()

	claimTx := AdvanceTx{Txid: txid(0x01), Outputs: []AdvanceOutput{{PkScript: buildNameClaimScript(t, []byte("n"), []byte("v")), Value: 10}}}
	require.NoError(t, ix.AdvanceBlock(1, []AdvanceTx{claimTx}))
	claimID := DeriveClaimID(claimTx.Txid, 0)

	supportTx := AdvanceTx{Txid: txid(0x02), Outputs: []AdvanceOutput{{PkScript: buildSupportClaimScript(t, []byte("n"), claimID), Value: 5}}}
	require.NoError(t, ix.AdvanceBlock(2, []AdvanceTx{supportTx}))

	supports, err := ix.GetSupportsForName([]byte("n"))
	require.NoError(t, err)
	require.Len(t, supports[claimID], 1)
	assert.Equal(t, uint64(5), supports[claimID][0].Amount)

	name, id, found, err := ix.GetSupportedClaimNameIDFromOutpoint(NewOutpointKey(supportTx.Txid, 0))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "n", string(name))
	assert.Equal(t, claimID, id)

	spendTx := AdvanceTx{Txid: txid(0x03), Inputs: []AdvanceInput{{PrevTxid: supportTx.Txid, PrevNout: 0}}}
	require.NoError(t, ix.AdvanceBlock(3, []AdvanceTx{spendTx}))

	supports, err = ix.GetSupportsForName([]byte("n"))
	require.NoError(t, err)
	assert.Empty(t, supports[claimID])
}

func TestAdvanceBlockSupportSpentInSameTxIsNotIndexed(t *testing.T) {
	ix := newTestIndexerInstance()

	claimTx := AdvanceTx{Txid: txid(0x01), Outputs: []AdvanceOutput{{PkScript: buildNameClaimScript(t, []byte("n"), []byte("v")), Value: 10}}}
	require.NoError(t, ix.AdvanceBlock(1, []AdvanceTx{claimTx}))
	claimID := DeriveClaimID(claimTx.Txid, 0)

	// a transaction that creates a support output at nout 0 and, in the
	// same transaction, spends that very outpoint as an input: the support
	// dies in its own creating block and must never be indexed.
	selfSpendTxid := txid(0x02)
	supportAndSpendTx := AdvanceTx{
		Txid:    selfSpendTxid,
		Inputs:  []AdvanceInput{{PrevTxid: selfSpendTxid, PrevNout: 0}},
		Outputs: []AdvanceOutput{{PkScript: buildSupportClaimScript(t, []byte("n"), claimID), Value: 5}},
	}
	require.NoError(t, ix.AdvanceBlock(2, []AdvanceTx{supportAndSpendTx}))

	supports, err := ix.GetSupportsForName([]byte("n"))
	require.NoError(t, err)
	assert.Empty(t, supports[claimID])

	_, _, found, err := ix.GetSupportedClaimNameIDFromOutpoint(NewOutpointKey(selfSpendTxid, 0))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestAdvanceBlockEmptyBlockThenFlushSucceeds(t *testing.T) {
	ix := newTestIndexerInstance()
	require.NoError(t, ix.AdvanceBlock(1, nil))
	require.NoError(t, ix.Flush())
}
