// Copyright (c) 2025 The herald-go developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package claimtrie

import "github.com/lbryio/herald-go/chaincfg"

// Config controls one Indexer instance. It is deliberately small: detailed
// engine tuning (cache sizes, compaction knobs) lives instead in store.go's
// OpenMode, which covers the same ground with two presets rather than a
// dozen free parameters.
type Config struct {
	// DataDir is the base directory under which all six databases are
	// opened.
	DataDir string

	// OpenMode selects the sync/serving tuning profile store.go applies.
	OpenMode OpenMode

	// ValidateClaimSignatures enables cryptographic certificate signature
	// checking during metadata extraction. Disabled, a
	// claim's certificate reference is trusted at face value; enabled, an
	// unverifiable signature drops the certificate association instead of
	// rejecting the claim.
	ValidateClaimSignatures bool

	// Params supplies the address-encoding prefixes used when rendering a
	// claim's paying address.
	Params *chaincfg.Params
}
