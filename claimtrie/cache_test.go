// Copyright (c) 2025 The herald-go developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package claimtrie

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memBatch and memStore are an in-process KVStore double, used so the
// write-back cache tests exercise Flush's batching and commit-order
// behavior without touching disk.
type memBatch struct {
	puts    map[string][]byte
	deletes map[string]struct{}
	order   []string
}

func newMemBatch() *memBatch {
	return &memBatch{puts: map[string][]byte{}, deletes: map[string]struct{}{}}
}

func (b *memBatch) Put(key, value []byte) {
	b.puts[string(key)] = append([]byte(nil), value...)
	b.order = append(b.order, string(key))
}

func (b *memBatch) Delete(key []byte) {
	b.deletes[string(key)] = struct{}{}
	b.order = append(b.order, string(key))
}

func (b *memBatch) Len() int { return len(b.order) }

type memStore struct {
	data map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}}
}

func (s *memStore) Get(key []byte) ([]byte, error) {
	v, ok := s.data[string(key)]
	if !ok {
		return nil, ErrNotFound
	}
	return v, nil
}

func (s *memStore) Put(key, value []byte) error {
	s.data[string(key)] = append([]byte(nil), value...)
	return nil
}

func (s *memStore) Delete(key []byte) error {
	delete(s.data, string(key))
	return nil
}

func (s *memStore) NewBatch() Batch { return newMemBatch() }

func (s *memStore) WriteBatch(b Batch) error {
	mb := b.(*memBatch)
	for k, v := range mb.puts {
		s.data[k] = v
	}
	for k := range mb.deletes {
		delete(s.data, k)
	}
	return nil
}

func (s *memStore) Close() error { return nil }

// newTestCaches wires a caches value directly against six independent
// memStores, bypassing Stores/OpenStores and goleveldb entirely; no test in
// this package opens the on-disk stores.
func newTestCaches() (*caches, [6]*memStore) {
	var stores [6]*memStore
	for i := range stores {
		stores[i] = newMemStore()
	}
	c := &caches{
		claims:     newByteCache(stores[storeClaims]),
		names:      newByteCache(stores[storeNamesIdx]),
		signatures: newByteCache(stores[storeSignatures]),
		outpoints:  newByteCache(stores[storeOutpoints]),
		supports:   newByteCache(stores[storeSupports]),
		undo:       newByteCache(stores[storeUndo]),
	}
	return c, stores
}

func TestByteCacheStagesBeforeFlush(t *testing.T) {
	store := newMemStore()
	bc := newByteCache(store)

	bc.put([]byte("a"), []byte("1"))
	v, ok, err := bc.get([]byte("a"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("1"), v)

	_, storeHasIt := store.data["a"]
	assert.False(t, storeHasIt, "a staged put must not be visible in the backing store yet")
}

func TestByteCacheTombstoneIsNotNilValue(t *testing.T) {
	store := newMemStore()
	store.data["a"] = []byte("")

	bc := newByteCache(store)
	bc.delete([]byte("a"))

	_, ok, err := bc.get([]byte("a"))
	require.NoError(t, err)
	assert.False(t, ok, "a staged delete must read back as absent, not as an empty present value")
}

func TestCachesFlushClearsStaging(t *testing.T) {
	c, _ := newTestCaches()

	id := ClaimID{1, 2, 3}
	c.putClaimInfo(id, &ClaimInfo{Name: []byte("test"), Value: []byte("v")})
	assert.False(t, c.isEmpty())

	require.NoError(t, c.flush())
	assert.True(t, c.isEmpty())

	got, err := c.getClaimInfo(id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "test", string(got.Name))
}

func TestCachesFlushOfEmptyCachesIsNoOp(t *testing.T) {
	c, mem := newTestCaches()
	require.NoError(t, c.flush())
	for _, s := range mem {
		assert.Empty(t, s.data)
	}
}

func TestCachesNameIndexRoundTrip(t *testing.T) {
	c, _ := newTestCaches()

	name := []byte("alice")
	entries, err := c.getNameIndex(name)
	require.NoError(t, err)
	assert.Empty(t, entries)

	id := ClaimID{9}
	c.putNameIndex(name, []nameSeq{{ClaimID: id, Seq: 1}})

	entries, err = c.getNameIndex(name)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, id, entries[0].ClaimID)
	assert.Equal(t, uint32(1), entries[0].Seq)

	c.putNameIndex(name, nil)
	entries, err = c.getNameIndex(name)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCachesSupportsByNameDeletesWhenEmpty(t *testing.T) {
	c, _ := newTestCaches()
	name := []byte("bob")
	id := ClaimID{7}

	c.putSupportsByName(name, map[ClaimID][]Support{id: {{Amount: 5}}})
	m, err := c.getSupportsByName(name)
	require.NoError(t, err)
	assert.Len(t, m[id], 1)

	c.putSupportsByName(name, map[ClaimID][]Support{id: {}})
	m, err = c.getSupportsByName(name)
	require.NoError(t, err)
	assert.Empty(t, m)
}
