// Copyright (c) 2025 The herald-go developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package claimtrie

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// This file implements the on-disk encodings for the five content stores
// and the undo journal. Every store value is a self-delimiting
// binary record: a length-prefixed field is written as a uint32 big-endian
// length followed by that many raw bytes. No third-party serialization
// library is used here — see DESIGN.md for why: every value shape is a
// small, fixed-arity bespoke record, never an open-ended struct a generic
// codec would help with.

func putBytes(buf *bytes.Buffer, b []byte) {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(b)))
	buf.Write(lenBuf[:])
	buf.Write(b)
}

func getBytes(r *bytes.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := r.Read(lenBuf[:]); err != nil {
		return nil, fmt.Errorf("read length prefix: %w", err)
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	out := make([]byte, n)
	if n > 0 {
		if _, err := r.Read(out); err != nil {
			return nil, fmt.Errorf("read %d byte field: %w", n, err)
		}
	}
	return out, nil
}

func putUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func getUint32(r *bytes.Reader) (uint32, error) {
	var b [4]byte
	if _, err := r.Read(b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b[:]), nil
}

func putUint64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}

func getUint64(r *bytes.Reader) (uint64, error) {
	var b [8]byte
	if _, err := r.Read(b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b[:]), nil
}

// encodeClaimInfo serializes a ClaimInfo:
// name | value | txid(32) | nout(u32) | amount(u64) | address | height(u32) | cert_id(20 or empty).
func encodeClaimInfo(c *ClaimInfo) []byte {
	var buf bytes.Buffer
	putBytes(&buf, c.Name)
	putBytes(&buf, c.Value)
	buf.Write(c.Txid[:])
	putUint32(&buf, c.Nout)
	putUint64(&buf, c.Amount)
	putBytes(&buf, c.Address)
	putUint32(&buf, c.Height)
	if c.HasCertID {
		buf.Write(c.CertID[:])
	}
	// An empty cert_id field (length implied by total remaining bytes) means
	// "no certificate"; decodeClaimInfo distinguishes by remaining length.
	return buf.Bytes()
}

func decodeClaimInfo(data []byte) (*ClaimInfo, error) {
	r := bytes.NewReader(data)
	c := &ClaimInfo{}

	name, err := getBytes(r)
	if err != nil {
		return nil, fmt.Errorf("claim info name: %w", err)
	}
	value, err := getBytes(r)
	if err != nil {
		return nil, fmt.Errorf("claim info value: %w", err)
	}
	var txid [32]byte
	if _, err := r.Read(txid[:]); err != nil {
		return nil, fmt.Errorf("claim info txid: %w", err)
	}
	nout, err := getUint32(r)
	if err != nil {
		return nil, fmt.Errorf("claim info nout: %w", err)
	}
	amount, err := getUint64(r)
	if err != nil {
		return nil, fmt.Errorf("claim info amount: %w", err)
	}
	address, err := getBytes(r)
	if err != nil {
		return nil, fmt.Errorf("claim info address: %w", err)
	}
	height, err := getUint32(r)
	if err != nil {
		return nil, fmt.Errorf("claim info height: %w", err)
	}

	c.Name = name
	c.Value = value
	c.Txid = txid
	c.Nout = nout
	c.Amount = amount
	c.Address = address
	c.Height = height

	remaining := r.Len()
	if remaining == ClaimIDSize {
		var certID ClaimID
		if _, err := r.Read(certID[:]); err != nil {
			return nil, fmt.Errorf("claim info cert id: %w", err)
		}
		c.CertID = certID
		c.HasCertID = true
	} else if remaining != 0 {
		return nil, fmt.Errorf("claim info: %d trailing bytes", remaining)
	}
	return c, nil
}

// nameSeq pairs a claim id with its 1-based sequence number under a name.
type nameSeq struct {
	ClaimID ClaimID
	Seq     uint32
}

// encodeNameIndex serializes the claim-id -> sequence map for one name.
func encodeNameIndex(entries []nameSeq) []byte {
	var buf bytes.Buffer
	putUint32(&buf, uint32(len(entries)))
	for _, e := range entries {
		buf.Write(e.ClaimID[:])
		putUint32(&buf, e.Seq)
	}
	return buf.Bytes()
}

func decodeNameIndex(data []byte) ([]nameSeq, error) {
	r := bytes.NewReader(data)
	count, err := getUint32(r)
	if err != nil {
		return nil, fmt.Errorf("name index count: %w", err)
	}
	out := make([]nameSeq, 0, count)
	for i := uint32(0); i < count; i++ {
		var id ClaimID
		if _, err := r.Read(id[:]); err != nil {
			return nil, fmt.Errorf("name index entry %d id: %w", i, err)
		}
		seq, err := getUint32(r)
		if err != nil {
			return nil, fmt.Errorf("name index entry %d seq: %w", i, err)
		}
		out = append(out, nameSeq{ClaimID: id, Seq: seq})
	}
	return out, nil
}

// encodeCertIndex serializes an ordered list of claim ids signed by a
// certificate.
func encodeCertIndex(ids []ClaimID) []byte {
	var buf bytes.Buffer
	putUint32(&buf, uint32(len(ids)))
	for _, id := range ids {
		buf.Write(id[:])
	}
	return buf.Bytes()
}

func decodeCertIndex(data []byte) ([]ClaimID, error) {
	r := bytes.NewReader(data)
	count, err := getUint32(r)
	if err != nil {
		return nil, fmt.Errorf("cert index count: %w", err)
	}
	out := make([]ClaimID, 0, count)
	for i := uint32(0); i < count; i++ {
		var id ClaimID
		if _, err := r.Read(id[:]); err != nil {
			return nil, fmt.Errorf("cert index entry %d: %w", i, err)
		}
		out = append(out, id)
	}
	return out, nil
}

// encodeSupportsByName serializes the claim-id -> []Support map for a name.
func encodeSupportsByName(m map[ClaimID][]Support) []byte {
	var buf bytes.Buffer
	putUint32(&buf, uint32(len(m)))
	for id, supports := range m {
		buf.Write(id[:])
		putUint32(&buf, uint32(len(supports)))
		for _, s := range supports {
			buf.Write(s.Txid[:])
			putUint32(&buf, s.Nout)
			putUint32(&buf, s.Height)
			putUint64(&buf, s.Amount)
		}
	}
	return buf.Bytes()
}

func decodeSupportsByName(data []byte) (map[ClaimID][]Support, error) {
	r := bytes.NewReader(data)
	count, err := getUint32(r)
	if err != nil {
		return nil, fmt.Errorf("supports by name count: %w", err)
	}
	out := make(map[ClaimID][]Support, count)
	for i := uint32(0); i < count; i++ {
		var id ClaimID
		if _, err := r.Read(id[:]); err != nil {
			return nil, fmt.Errorf("supports by name entry %d id: %w", i, err)
		}
		n, err := getUint32(r)
		if err != nil {
			return nil, fmt.Errorf("supports by name entry %d count: %w", i, err)
		}
		supports := make([]Support, 0, n)
		for j := uint32(0); j < n; j++ {
			var s Support
			var txid [32]byte
			if _, err := r.Read(txid[:]); err != nil {
				return nil, fmt.Errorf("support %d/%d txid: %w", i, j, err)
			}
			s.Txid = txid
			if s.Nout, err = getUint32(r); err != nil {
				return nil, fmt.Errorf("support %d/%d nout: %w", i, j, err)
			}
			if s.Height, err = getUint32(r); err != nil {
				return nil, fmt.Errorf("support %d/%d height: %w", i, j, err)
			}
			if s.Amount, err = getUint64(r); err != nil {
				return nil, fmt.Errorf("support %d/%d amount: %w", i, j, err)
			}
			supports = append(supports, s)
		}
		out[id] = supports
	}
	return out, nil
}

// supportOutpointValue is the (name, claim-id) pair recorded under a
// support's own outpoint key.
type supportOutpointValue struct {
	Name    []byte
	ClaimID ClaimID
}

func encodeSupportOutpoint(v supportOutpointValue) []byte {
	var buf bytes.Buffer
	putBytes(&buf, v.Name)
	buf.Write(v.ClaimID[:])
	return buf.Bytes()
}

func decodeSupportOutpoint(data []byte) (supportOutpointValue, error) {
	r := bytes.NewReader(data)
	var v supportOutpointValue
	name, err := getBytes(r)
	if err != nil {
		return v, fmt.Errorf("support outpoint name: %w", err)
	}
	var id ClaimID
	if _, err := r.Read(id[:]); err != nil {
		return v, fmt.Errorf("support outpoint claim id: %w", err)
	}
	v.Name = name
	v.ClaimID = id
	return v, nil
}

// undoEntry is one (claim-id, prior ClaimInfo or nil) pair recorded in the
// per-block undo journal.
type undoEntry struct {
	ClaimID ClaimID
	Prior   *ClaimInfo // nil means "this claim-id didn't exist before this action"
}

// encodeUndoEntries serializes a block's ordered undo list.
func encodeUndoEntries(entries []undoEntry) []byte {
	var buf bytes.Buffer
	putUint32(&buf, uint32(len(entries)))
	for _, e := range entries {
		buf.Write(e.ClaimID[:])
		if e.Prior == nil {
			putUint32(&buf, 0)
		} else {
			encoded := encodeClaimInfo(e.Prior)
			putUint32(&buf, 1)
			putBytes(&buf, encoded)
		}
	}
	return buf.Bytes()
}

func decodeUndoEntries(data []byte) ([]undoEntry, error) {
	r := bytes.NewReader(data)
	count, err := getUint32(r)
	if err != nil {
		return nil, fmt.Errorf("undo entry count: %w", err)
	}
	out := make([]undoEntry, 0, count)
	for i := uint32(0); i < count; i++ {
		var e undoEntry
		if _, err := r.Read(e.ClaimID[:]); err != nil {
			return nil, fmt.Errorf("undo entry %d id: %w", i, err)
		}
		present, err := getUint32(r)
		if err != nil {
			return nil, fmt.Errorf("undo entry %d presence: %w", i, err)
		}
		if present == 1 {
			raw, err := getBytes(r)
			if err != nil {
				return nil, fmt.Errorf("undo entry %d claim info: %w", i, err)
			}
			prior, err := decodeClaimInfo(raw)
			if err != nil {
				return nil, fmt.Errorf("undo entry %d decode: %w", i, err)
			}
			e.Prior = prior
		}
		out = append(out, e)
	}
	return out, nil
}

// supportUndoEntry is one support-journal change within a block: either a
// support added at Outpoint (undo removes it) or one abandoned at Outpoint
// (undo restores it in full, since nothing else records its content).
type supportUndoEntry struct {
	Added    bool
	Outpoint OutpointKey
	Name     []byte
	ClaimID  ClaimID
	Support  Support
}

func encodeSupportUndoEntries(entries []supportUndoEntry) []byte {
	var buf bytes.Buffer
	putUint32(&buf, uint32(len(entries)))
	for _, e := range entries {
		if e.Added {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
		buf.Write(e.Outpoint[:])
		putBytes(&buf, e.Name)
		buf.Write(e.ClaimID[:])
		buf.Write(e.Support.Txid[:])
		putUint32(&buf, e.Support.Nout)
		putUint32(&buf, e.Support.Height)
		putUint64(&buf, e.Support.Amount)
	}
	return buf.Bytes()
}

func decodeSupportUndoEntries(data []byte) ([]supportUndoEntry, error) {
	r := bytes.NewReader(data)
	count, err := getUint32(r)
	if err != nil {
		return nil, fmt.Errorf("support undo entry count: %w", err)
	}
	out := make([]supportUndoEntry, 0, count)
	for i := uint32(0); i < count; i++ {
		var e supportUndoEntry
		added, err := r.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("support undo entry %d flag: %w", i, err)
		}
		e.Added = added == 1
		if _, err := r.Read(e.Outpoint[:]); err != nil {
			return nil, fmt.Errorf("support undo entry %d outpoint: %w", i, err)
		}
		name, err := getBytes(r)
		if err != nil {
			return nil, fmt.Errorf("support undo entry %d name: %w", i, err)
		}
		e.Name = name
		if _, err := r.Read(e.ClaimID[:]); err != nil {
			return nil, fmt.Errorf("support undo entry %d claim id: %w", i, err)
		}
		var txid [32]byte
		if _, err := r.Read(txid[:]); err != nil {
			return nil, fmt.Errorf("support undo entry %d txid: %w", i, err)
		}
		e.Support.Txid = txid
		if e.Support.Nout, err = getUint32(r); err != nil {
			return nil, fmt.Errorf("support undo entry %d nout: %w", i, err)
		}
		if e.Support.Height, err = getUint32(r); err != nil {
			return nil, fmt.Errorf("support undo entry %d height: %w", i, err)
		}
		if e.Support.Amount, err = getUint64(r); err != nil {
			return nil, fmt.Errorf("support undo entry %d amount: %w", i, err)
		}
		out = append(out, e)
	}
	return out, nil
}

// blockUndo bundles a block's claim-level and support-level undo entries
// into the single record stored per height in the undo journal.
type blockUndo struct {
	Claims   []undoEntry
	Supports []supportUndoEntry
}

func encodeBlockUndo(bu blockUndo) []byte {
	var buf bytes.Buffer
	putBytes(&buf, encodeUndoEntries(bu.Claims))
	putBytes(&buf, encodeSupportUndoEntries(bu.Supports))
	return buf.Bytes()
}

func decodeBlockUndo(data []byte) (blockUndo, error) {
	r := bytes.NewReader(data)
	claimsRaw, err := getBytes(r)
	if err != nil {
		return blockUndo{}, fmt.Errorf("block undo claims: %w", err)
	}
	supportsRaw, err := getBytes(r)
	if err != nil {
		return blockUndo{}, fmt.Errorf("block undo supports: %w", err)
	}
	claims, err := decodeUndoEntries(claimsRaw)
	if err != nil {
		return blockUndo{}, err
	}
	supports, err := decodeSupportUndoEntries(supportsRaw)
	if err != nil {
		return blockUndo{}, err
	}
	return blockUndo{Claims: claims, Supports: supports}, nil
}
