// Copyright (c) 2025 The herald-go developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package claimtrie

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/syndtr/goleveldb/leveldb"
	lderrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

// ErrNotFound is returned by KVStore.Get when the key is absent.
var ErrNotFound = errors.New("claimtrie: key not found")

// Batch accumulates puts and deletes for a single atomic write.
type Batch interface {
	Put(key, value []byte)
	Delete(key []byte)
	Len() int
}

// KVStore is the minimal byte-string key-value contract the claim index
// needs from its embedded ordered store: point get/put/delete
// and scoped write-batches. Ordered iteration is not needed by any
// operation this core implements, so it is intentionally omitted from the
// interface even though the underlying engine supports it.
type KVStore interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Delete(key []byte) error
	NewBatch() Batch
	WriteBatch(b Batch) error
	Close() error
}

// OpenMode selects how the underlying engine tunes itself: ModeSync favors
// bulk sequential writes during initial sync, ModeServing favors random
// reads once caught up. Switching modes closes and reopens
// every store.
type OpenMode int

const (
	ModeServing OpenMode = iota
	ModeSync
)

func optionsForMode(mode OpenMode) *opt.Options {
	switch mode {
	case ModeSync:
		return &opt.Options{
			WriteBuffer:            64 * opt.MiB,
			CompactionTableSize:    16 * opt.MiB,
			DisableSeeksCompaction: true,
			BlockCacheCapacity:     8 * opt.MiB,
		}
	default: // ModeServing
		return &opt.Options{
			WriteBuffer:        4 * opt.MiB,
			BlockCacheCapacity: 64 * opt.MiB,
			OpenFilesCacheCapacity: 256,
		}
	}
}

// levelDBStore adapts a goleveldb handle to KVStore.
type levelDBStore struct {
	db *leveldb.DB
}

func openLevelDB(dir string, mode OpenMode) (*levelDBStore, error) {
	db, err := leveldb.OpenFile(dir, optionsForMode(mode))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dir, err)
	}
	return &levelDBStore{db: db}, nil
}

func (s *levelDBStore) Get(key []byte) ([]byte, error) {
	v, err := s.db.Get(key, nil)
	if err != nil {
		if errors.Is(err, lderrors.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

func (s *levelDBStore) Put(key, value []byte) error {
	return s.db.Put(key, value, nil)
}

func (s *levelDBStore) Delete(key []byte) error {
	return s.db.Delete(key, nil)
}

type levelDBBatch struct {
	b   *leveldb.Batch
	len int
}

func (b *levelDBBatch) Put(key, value []byte) {
	b.b.Put(key, value)
	b.len++
}

func (b *levelDBBatch) Delete(key []byte) {
	b.b.Delete(key)
	b.len++
}

func (b *levelDBBatch) Len() int { return b.len }

func (s *levelDBStore) NewBatch() Batch {
	return &levelDBBatch{b: new(leveldb.Batch)}
}

func (s *levelDBStore) WriteBatch(b Batch) error {
	lb, ok := b.(*levelDBBatch)
	if !ok {
		return fmt.Errorf("claimtrie: batch from a different store implementation")
	}
	return s.db.Write(lb.b, nil)
}

func (s *levelDBStore) Close() error {
	return s.db.Close()
}

// storeNames enumerates the six logical databases behind the index:
// five content stores plus the undo journal.
var storeNames = [...]string{"claims", "names", "signatures", "outpoint_claim_id", "supports", "claim_undo"}

const (
	storeClaims = iota
	storeNamesIdx
	storeSignatures
	storeOutpoints
	storeSupports
	storeUndo
)

// Stores bundles the six on-disk databases the claim index reads and
// writes, opened side by side under one base directory.
type Stores struct {
	baseDir string
	mode    OpenMode
	dbs     [len(storeNames)]*levelDBStore
}

// OpenStores opens (or creates) all six databases under baseDir in the
// given mode.
func OpenStores(baseDir string, mode OpenMode) (*Stores, error) {
	s := &Stores{baseDir: baseDir, mode: mode}
	for i, name := range storeNames {
		db, err := openLevelDB(filepath.Join(baseDir, name), mode)
		if err != nil {
			s.closeOpened(i)
			return nil, err
		}
		s.dbs[i] = db
	}
	return s, nil
}

func (s *Stores) closeOpened(upTo int) {
	for i := 0; i < upTo; i++ {
		if s.dbs[i] != nil {
			_ = s.dbs[i].Close()
		}
	}
}

// SetOpenMode closes and reopens all six stores under a new mode, logging
// the transition between sync and serving tuning.
func (s *Stores) SetOpenMode(mode OpenMode) error {
	if s.mode == mode {
		return nil
	}
	reason := "serving"
	if mode == ModeSync {
		reason = "sync"
	}
	log.Infof("closing claim databases to re-open for %s", reason)
	for _, db := range s.dbs {
		if err := db.Close(); err != nil {
			return fmt.Errorf("close store while switching mode: %w", err)
		}
	}
	for i, name := range storeNames {
		db, err := openLevelDB(filepath.Join(s.baseDir, name), mode)
		if err != nil {
			return fmt.Errorf("reopen %s for %s: %w", name, reason, err)
		}
		s.dbs[i] = db
	}
	s.mode = mode
	log.Infof("opened claim databases for %s", reason)
	return nil
}

// Close closes every underlying database.
func (s *Stores) Close() error {
	var firstErr error
	for _, db := range s.dbs {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
