// Copyright (c) 2025 The herald-go developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package claimtrie

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// cacheEntry is a tagged "Present(value) | Tombstone" variant: a bare nil
// value can't distinguish "staged delete" from "store legitimately holds an
// empty value" (e.g. an emptied certificate list), so presence is tracked
// explicitly instead of overloading nil.
type cacheEntry struct {
	present bool
	value   []byte
}

// byteCache is one write-back cache over one KVStore: reads consult staged
// mutations first and fall back to the store; writes only ever touch the
// staged map until Flush.
type byteCache struct {
	store  KVStore
	staged map[string]cacheEntry
}

func newByteCache(store KVStore) *byteCache {
	return &byteCache{store: store, staged: make(map[string]cacheEntry)}
}

// get returns the fully materialized value for key and whether it exists.
// Reads never populate the cache.
func (c *byteCache) get(key []byte) ([]byte, bool, error) {
	if e, ok := c.staged[string(key)]; ok {
		return e.value, e.present, nil
	}
	v, err := c.store.Get(key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return v, true, nil
}

func (c *byteCache) put(key, value []byte) {
	c.staged[string(key)] = cacheEntry{present: true, value: value}
}

func (c *byteCache) delete(key []byte) {
	c.staged[string(key)] = cacheEntry{present: false}
}

func (c *byteCache) isEmpty() bool {
	return len(c.staged) == 0
}

func (c *byteCache) flushInto(b Batch) {
	for k, e := range c.staged {
		if e.present {
			b.Put([]byte(k), e.value)
		} else {
			b.Delete([]byte(k))
		}
	}
}

func (c *byteCache) clear() {
	c.staged = make(map[string]cacheEntry)
}

// caches bundles the five content caches plus the undo-journal cache, one
// per store. It owns no domain logic beyond (de)serializing
// the typed records this package works with — everything else lives in
// advance.go/rollback.go/query.go.
type caches struct {
	claims     *byteCache
	names      *byteCache
	signatures *byteCache
	outpoints  *byteCache
	supports   *byteCache
	undo       *byteCache
}

func newCaches(s *Stores) *caches {
	return &caches{
		claims:     newByteCache(s.dbs[storeClaims]),
		names:      newByteCache(s.dbs[storeNamesIdx]),
		signatures: newByteCache(s.dbs[storeSignatures]),
		outpoints:  newByteCache(s.dbs[storeOutpoints]),
		supports:   newByteCache(s.dbs[storeSupports]),
		undo:       newByteCache(s.dbs[storeUndo]),
	}
}

// --- claims ---

func (c *caches) getClaimInfo(id ClaimID) (*ClaimInfo, error) {
	v, ok, err := c.claims.get(id[:])
	if err != nil || !ok {
		return nil, err
	}
	return decodeClaimInfo(v)
}

func (c *caches) putClaimInfo(id ClaimID, info *ClaimInfo) {
	c.claims.put(id[:], encodeClaimInfo(info))
}

func (c *caches) deleteClaimInfo(id ClaimID) {
	c.claims.delete(id[:])
}

// --- names ---

func (c *caches) getNameIndex(name []byte) ([]nameSeq, error) {
	v, ok, err := c.names.get(name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return decodeNameIndex(v)
}

func (c *caches) putNameIndex(name []byte, entries []nameSeq) {
	if len(entries) == 0 {
		c.names.delete(name)
		return
	}
	c.names.put(name, encodeNameIndex(entries))
}

// --- signatures (cert -> claim ids) ---

func (c *caches) getCertIndex(certID ClaimID) ([]ClaimID, error) {
	v, ok, err := c.signatures.get(certID[:])
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return decodeCertIndex(v)
}

func (c *caches) putCertIndex(certID ClaimID, ids []ClaimID) {
	if len(ids) == 0 {
		c.signatures.delete(certID[:])
		return
	}
	c.signatures.put(certID[:], encodeCertIndex(ids))
}

// --- outpoint -> claim id ---

func (c *caches) getOutpointClaimID(key OutpointKey) (ClaimID, bool, error) {
	v, ok, err := c.outpoints.get(key[:])
	if err != nil || !ok {
		return ClaimID{}, ok, err
	}
	id, valid := ClaimIDFromBytes(v)
	if !valid {
		return ClaimID{}, false, fmt.Errorf("claimtrie: corrupt outpoint entry, want %d bytes got %d", ClaimIDSize, len(v))
	}
	return id, true, nil
}

func (c *caches) putOutpointClaimID(key OutpointKey, id ClaimID) {
	c.outpoints.put(key[:], id[:])
}

func (c *caches) deleteOutpointClaimID(key OutpointKey) {
	c.outpoints.delete(key[:])
}

// --- supports (shared keyspace: name bytes or 36-byte outpoint) ---

func (c *caches) getSupportsByName(name []byte) (map[ClaimID][]Support, error) {
	v, ok, err := c.supports.get(name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return map[ClaimID][]Support{}, nil
	}
	return decodeSupportsByName(v)
}

func (c *caches) putSupportsByName(name []byte, m map[ClaimID][]Support) {
	anyLeft := false
	for _, v := range m {
		if len(v) > 0 {
			anyLeft = true
			break
		}
	}
	if !anyLeft {
		c.supports.delete(name)
		return
	}
	c.supports.put(name, encodeSupportsByName(m))
}

func (c *caches) getSupportOutpoint(key OutpointKey) (supportOutpointValue, bool, error) {
	v, ok, err := c.supports.get(key[:])
	if err != nil || !ok {
		return supportOutpointValue{}, ok, err
	}
	sv, err := decodeSupportOutpoint(v)
	if err != nil {
		return supportOutpointValue{}, false, err
	}
	return sv, true, nil
}

func (c *caches) putSupportOutpoint(key OutpointKey, v supportOutpointValue) {
	c.supports.put(key[:], encodeSupportOutpoint(v))
}

func (c *caches) deleteSupportOutpoint(key OutpointKey) {
	c.supports.delete(key[:])
}

// --- undo journal ---

func undoKey(height uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], height)
	return b[:]
}

func (c *caches) getUndo(height uint32) (blockUndo, bool, error) {
	v, ok, err := c.undo.get(undoKey(height))
	if err != nil || !ok {
		return blockUndo{}, ok, err
	}
	bu, err := decodeBlockUndo(v)
	if err != nil {
		return blockUndo{}, false, err
	}
	return bu, true, nil
}

func (c *caches) putUndo(height uint32, bu blockUndo) {
	c.undo.put(undoKey(height), encodeBlockUndo(bu))
}

func (c *caches) deleteUndo(height uint32) {
	c.undo.delete(undoKey(height))
}

// --- flush / assertFlushed ---

// flush opens one batch per store, drains every cache into it, commits each
// non-empty batch, then clears the caches. Batches commit one store at a
// time in the fixed order claims, names, signatures, outpoints, supports,
// and last the undo journal; a failed commit returns a FatalError and leaves
// the batches before it already committed. Each byteCache already holds the
// store it backs, so flush needs no separate store handle.
func (c *caches) flush() error {
	subCaches := []*byteCache{c.claims, c.names, c.signatures, c.outpoints, c.supports, c.undo}
	batches := make([]Batch, len(subCaches))
	for i, sc := range subCaches {
		b := sc.store.NewBatch()
		sc.flushInto(b)
		batches[i] = b
	}
	for i, sc := range subCaches {
		if batches[i].Len() == 0 {
			continue
		}
		if err := sc.store.WriteBatch(batches[i]); err != nil {
			return fatal(fmt.Errorf("flush %s: %w", storeNames[i], err))
		}
	}
	c.clear()
	return nil
}

func (c *caches) clear() {
	c.claims.clear()
	c.names.clear()
	c.signatures.clear()
	c.outpoints.clear()
	c.supports.clear()
	c.undo.clear()
}

// isEmpty reports whether every cache has no staged mutations, used by
// assertFlushed-style invariants in tests.
func (c *caches) isEmpty() bool {
	return c.claims.isEmpty() && c.names.isEmpty() && c.signatures.isEmpty() &&
		c.outpoints.isEmpty() && c.supports.isEmpty() && c.undo.isEmpty()
}
