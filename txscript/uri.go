// Copyright (c) 2025 The herald-go developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"errors"
	"strings"
)

// ErrInvalidURI is returned by ParseURI when a name does not form a valid
// claim URI. This is always recoverable: an invalid name
// just means the claim's cert_id comes back empty, not that the claim is
// rejected.
var ErrInvalidURI = errors.New("txscript: invalid claim uri")

// reservedURIChars mirrors the characters the reference URI grammar
// disallows inside a bare claim name (delimiters used by the "name#claimid"
// and "name:n" addressing forms, plus path/query separators).
const reservedURIChars = "#:/?&="

// ParseURI validates that name is usable as a claim name: non-empty and free
// of the delimiter characters reserved for claim-id and sequence-number
// qualifiers. It does not resolve a name to a claim; that is the base
// node's job.
func ParseURI(name string) error {
	if len(name) == 0 {
		return ErrInvalidURI
	}
	if strings.ContainsAny(name, reservedURIChars) {
		return ErrInvalidURI
	}
	if !strings.HasPrefix(name, "lbry://") {
		return nil
	}
	rest := strings.TrimPrefix(name, "lbry://")
	if len(rest) == 0 {
		return ErrInvalidURI
	}
	return nil
}
