// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dte implements Digram Tree Encoding, a byte-level recursive-pair
// substitution codec: every byte value unused by the input is repurposed as
// a symbol that expands to an ordered pair of bytes, which may themselves
// expand recursively. The compressor greedily picks the most frequent
// surviving pair and substitutes it until no substitution would occur often
// enough to be worthwhile.
package dte

import "github.com/pinobatch/chrtools/internal/errors"

// Error is the wrapper type for errors specific to this package.
type Error string

func (e Error) Error() string { return "dte: " + string(e) }

var (
	// ErrCyclicTable is returned by Expand when the digram table contains a
	// cycle: repeated substitution can never reach a literal.
	ErrCyclicTable error = Error("digram table contains a cycle")

	// ErrTruncatedTable is returned by ReadTable when fewer than the
	// expected number of bytes are available.
	ErrTruncatedTable error = Error("failed to read the full range of the digram table")
)

// errRecover is the standard panic/recover trampoline used by this module's
// decoders; see internal/errors. It is errors.Recover itself rather than a
// wrapper, because recover only takes effect when called directly by the
// deferred function.
var errRecover = errors.Recover
