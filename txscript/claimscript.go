// Copyright (c) 2025 The herald-go developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package txscript provides extraction of claim-layer metadata (name claims,
// claim updates, claim supports) embedded in a base-chain output's locking
// script, ahead of the spending half of that same script.
package txscript

import (
	"errors"
	"fmt"
)

// Claim-layer opcodes, prepended to an otherwise ordinary locking script.
// Values match the reserved opcode range used by the reference chain this
// index was built against.
const (
	OP_CLAIMNAME    = 0xb5
	OP_SUPPORTCLAIM = 0xb6
	OP_UPDATECLAIM  = 0xb7

	opDrop   = 0x75
	op2Drop  = 0x6d
	opPush1  = 0x4c
	opPush2  = 0x4d
	opPush4  = 0x4e
	opMaxDir = 0x4b // direct pushes of length 1..0x4b encode their own length
)

// Kind classifies a transaction output's claim-layer payload.
type Kind int

const (
	// KindNone means the output carries no claim-layer opcode.
	KindNone Kind = iota
	KindNameClaim
	KindClaimUpdate
	KindClaimSupport
)

// ErrMalformedScript is returned when a claim opcode is present but its
// operands cannot be parsed. This is always recoverable: the
// caller still indexes the output, just without claim metadata.
var ErrMalformedScript = errors.New("txscript: malformed claim script")

// ClaimScript holds everything decoded from the claim-layer prefix of a
// locking script, plus the remaining spending script.
type ClaimScript struct {
	Kind      Kind
	Name      []byte
	Value     []byte // set for KindNameClaim and KindClaimUpdate
	ClaimID   []byte // set for KindClaimUpdate and KindClaimSupport (20 bytes)
	PkScript  []byte // the spending script following the claim-layer prefix
}

// Parse inspects a locking script's first opcode and, if it is one of the
// claim-layer opcodes, decodes the pushed operands that follow. A script
// with no leading claim opcode returns a ClaimScript with Kind == KindNone
// and PkScript equal to the input, unchanged.
func Parse(script []byte) (*ClaimScript, error) {
	if len(script) == 0 {
		return &ClaimScript{Kind: KindNone, PkScript: script}, nil
	}

	switch script[0] {
	case OP_CLAIMNAME:
		return parseNameClaim(script)
	case OP_SUPPORTCLAIM:
		return parseSupportClaim(script)
	case OP_UPDATECLAIM:
		return parseUpdateClaim(script)
	default:
		return &ClaimScript{Kind: KindNone, PkScript: script}, nil
	}
}

// parseNameClaim decodes OP_CLAIMNAME <name> <value> OP_2DROP OP_DROP <pkscript>.
func parseNameClaim(script []byte) (*ClaimScript, error) {
	r := &reader{data: script[1:]}
	name, err := r.readPush()
	if err != nil {
		return nil, fmt.Errorf("%w: name: %v", ErrMalformedScript, err)
	}
	value, err := r.readPush()
	if err != nil {
		return nil, fmt.Errorf("%w: value: %v", ErrMalformedScript, err)
	}
	if err := r.expectDropCleanup(2); err != nil {
		return nil, err
	}
	return &ClaimScript{
		Kind:     KindNameClaim,
		Name:     name,
		Value:    value,
		PkScript: r.rest(),
	}, nil
}

// parseUpdateClaim decodes OP_UPDATECLAIM <name> <claimid> <value> OP_2DROP OP_2DROP <pkscript>.
func parseUpdateClaim(script []byte) (*ClaimScript, error) {
	r := &reader{data: script[1:]}
	name, err := r.readPush()
	if err != nil {
		return nil, fmt.Errorf("%w: name: %v", ErrMalformedScript, err)
	}
	claimID, err := r.readPush()
	if err != nil {
		return nil, fmt.Errorf("%w: claim id: %v", ErrMalformedScript, err)
	}
	if len(claimID) != 20 {
		return nil, fmt.Errorf("%w: claim id must be 20 bytes, got %d", ErrMalformedScript, len(claimID))
	}
	value, err := r.readPush()
	if err != nil {
		return nil, fmt.Errorf("%w: value: %v", ErrMalformedScript, err)
	}
	if err := r.expectDropCleanup(3); err != nil {
		return nil, err
	}
	return &ClaimScript{
		Kind:     KindClaimUpdate,
		Name:     name,
		ClaimID:  claimID,
		Value:    value,
		PkScript: r.rest(),
	}, nil
}

// parseSupportClaim decodes OP_SUPPORTCLAIM <name> <claimid> OP_2DROP OP_DROP <pkscript>.
func parseSupportClaim(script []byte) (*ClaimScript, error) {
	r := &reader{data: script[1:]}
	name, err := r.readPush()
	if err != nil {
		return nil, fmt.Errorf("%w: name: %v", ErrMalformedScript, err)
	}
	claimID, err := r.readPush()
	if err != nil {
		return nil, fmt.Errorf("%w: claim id: %v", ErrMalformedScript, err)
	}
	if len(claimID) != 20 {
		return nil, fmt.Errorf("%w: claim id must be 20 bytes, got %d", ErrMalformedScript, len(claimID))
	}
	if err := r.expectDropCleanup(2); err != nil {
		return nil, err
	}
	return &ClaimScript{
		Kind:     KindClaimSupport,
		Name:     name,
		ClaimID:  claimID,
		PkScript: r.rest(),
	}, nil
}

// reader walks push-data operands off the front of a claim-layer script.
type reader struct {
	data []byte
	pos  int
}

func (r *reader) readPush() ([]byte, error) {
	if r.pos >= len(r.data) {
		return nil, errors.New("unexpected end of script")
	}
	op := r.data[r.pos]
	r.pos++

	var length int
	switch {
	case op >= 0x01 && op <= opMaxDir:
		length = int(op)
	case op == opPush1:
		if r.pos >= len(r.data) {
			return nil, errors.New("truncated OP_PUSHDATA1 length")
		}
		length = int(r.data[r.pos])
		r.pos++
	case op == opPush2:
		if r.pos+2 > len(r.data) {
			return nil, errors.New("truncated OP_PUSHDATA2 length")
		}
		length = int(r.data[r.pos]) | int(r.data[r.pos+1])<<8
		r.pos += 2
	case op == opPush4:
		if r.pos+4 > len(r.data) {
			return nil, errors.New("truncated OP_PUSHDATA4 length")
		}
		length = int(r.data[r.pos]) | int(r.data[r.pos+1])<<8 | int(r.data[r.pos+2])<<16 | int(r.data[r.pos+3])<<24
		r.pos += 4
	default:
		return nil, fmt.Errorf("opcode 0x%02x is not a push", op)
	}

	if r.pos+length > len(r.data) {
		return nil, errors.New("push data exceeds script length")
	}
	out := r.data[r.pos : r.pos+length]
	r.pos += length
	return out, nil
}

// expectDropCleanup consumes the trailing OP_2DROP/OP_DROP sequence that
// balances numOperands pushed values off the stack. Two operands clean up
// with a single OP_2DROP OP_DROP (support, name-claim); three operands with
// OP_2DROP OP_2DROP (update).
func (r *reader) expectDropCleanup(numOperands int) error {
	var want []byte
	switch numOperands {
	case 2:
		want = []byte{op2Drop, opDrop}
	case 3:
		want = []byte{op2Drop, op2Drop}
	default:
		return fmt.Errorf("%w: unsupported operand count %d", ErrMalformedScript, numOperands)
	}
	if r.pos+len(want) > len(r.data) {
		return fmt.Errorf("%w: missing stack cleanup", ErrMalformedScript)
	}
	for i, b := range want {
		if r.data[r.pos+i] != b {
			return fmt.Errorf("%w: expected cleanup opcode 0x%02x, got 0x%02x", ErrMalformedScript, b, r.data[r.pos+i])
		}
	}
	r.pos += len(want)
	return nil
}

func (r *reader) rest() []byte {
	return r.data[r.pos:]
}
