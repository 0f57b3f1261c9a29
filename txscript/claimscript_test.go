// Copyright (c) 2025 The herald-go developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"testing"
)

func push(b []byte) []byte {
	if len(b) > opMaxDir {
		panic("test helper only supports direct pushes")
	}
	return append([]byte{byte(len(b))}, b...)
}

func buildNameClaim(name, value, pkScript []byte) []byte {
	var buf bytes.Buffer
	buf.WriteByte(OP_CLAIMNAME)
	buf.Write(push(name))
	buf.Write(push(value))
	buf.Write([]byte{op2Drop, opDrop})
	buf.Write(pkScript)
	return buf.Bytes()
}

func buildSupportClaim(name, claimID, pkScript []byte) []byte {
	var buf bytes.Buffer
	buf.WriteByte(OP_SUPPORTCLAIM)
	buf.Write(push(name))
	buf.Write(push(claimID))
	buf.Write([]byte{op2Drop, opDrop})
	buf.Write(pkScript)
	return buf.Bytes()
}

func buildUpdateClaim(name, claimID, value, pkScript []byte) []byte {
	var buf bytes.Buffer
	buf.WriteByte(OP_UPDATECLAIM)
	buf.Write(push(name))
	buf.Write(push(claimID))
	buf.Write(push(value))
	buf.Write([]byte{op2Drop, op2Drop})
	buf.Write(pkScript)
	return buf.Bytes()
}

func TestParseNameClaim(t *testing.T) {
	pk := []byte{0x76, 0xa9, 0x14}
	script := buildNameClaim([]byte("foo"), []byte("bar"), pk)

	cs, err := Parse(script)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cs.Kind != KindNameClaim {
		t.Fatalf("expected KindNameClaim, got %v", cs.Kind)
	}
	if string(cs.Name) != "foo" || string(cs.Value) != "bar" {
		t.Errorf("unexpected name/value: %q/%q", cs.Name, cs.Value)
	}
	if !bytes.Equal(cs.PkScript, pk) {
		t.Errorf("expected pkscript %x, got %x", pk, cs.PkScript)
	}
}

func TestParseSupportClaim(t *testing.T) {
	claimID := bytes.Repeat([]byte{0xAB}, 20)
	pk := []byte{0x76, 0xa9, 0x14}
	script := buildSupportClaim([]byte("foo"), claimID, pk)

	cs, err := Parse(script)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cs.Kind != KindClaimSupport {
		t.Fatalf("expected KindClaimSupport, got %v", cs.Kind)
	}
	if !bytes.Equal(cs.ClaimID, claimID) {
		t.Errorf("unexpected claim id: %x", cs.ClaimID)
	}
}

func TestParseUpdateClaim(t *testing.T) {
	claimID := bytes.Repeat([]byte{0xCD}, 20)
	pk := []byte{0x76, 0xa9, 0x14}
	script := buildUpdateClaim([]byte("foo"), claimID, []byte("newvalue"), pk)

	cs, err := Parse(script)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cs.Kind != KindClaimUpdate {
		t.Fatalf("expected KindClaimUpdate, got %v", cs.Kind)
	}
	if string(cs.Value) != "newvalue" {
		t.Errorf("unexpected value: %q", cs.Value)
	}
}

func TestParseNoClaimOpcode(t *testing.T) {
	pk := []byte{0x76, 0xa9, 0x14, 0x00}
	cs, err := Parse(pk)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cs.Kind != KindNone {
		t.Fatalf("expected KindNone, got %v", cs.Kind)
	}
	if !bytes.Equal(cs.PkScript, pk) {
		t.Errorf("expected passthrough pkscript")
	}
}

func TestParseMalformedWrongClaimIDLength(t *testing.T) {
	script := buildSupportClaim([]byte("foo"), []byte{0x01, 0x02}, nil)
	if _, err := Parse(script); err == nil {
		t.Error("expected error for short claim id")
	}
}

func TestParseMalformedTruncated(t *testing.T) {
	script := []byte{OP_CLAIMNAME, 0x05, 0x01, 0x02} // push declares 5 bytes, only 2 present
	if _, err := Parse(script); err == nil {
		t.Error("expected error for truncated push")
	}
}
