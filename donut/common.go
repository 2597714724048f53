// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package donut implements the Donut codec for NES "CHR" tile graphics.
//
// A Donut stream is a concatenation of variable-length compressed blocks,
// each decoding to exactly one 64-byte tile block (eight 8-byte bit-planes,
// taken in L/M pairs). There is no framing header or trailer; the decoder
// stops at EOF.
// The encoder searches a small space of header/plane-definition shapes for
// each tile and keeps the smallest one that a simulated 6502 decoder could
// execute within a caller-supplied cycle budget.
package donut

// TileSize is the number of raw bytes that every compressed block decodes
// to, and the unit the plain encoder consumes per block.
const TileSize = 64

// MaxBlockSize is the largest a single compressed block can be: a header
// byte, an optional plane-def byte, and up to 8 9-byte PB8 planes.
const MaxBlockSize = 1 + 1 + 8*9

// literalHeader is the block header that means "the next 64 bytes are the
// tile, verbatim".
const literalHeader = 0x2a

// undefinedHeaderMin is the first header value reserved for future use.
// Headers in [undefinedHeaderMin, 0xff] are rejected by the decoder.
const undefinedHeaderMin = 0xc0

// MinCycleLimit is the smallest cycle budget the encoder will accept; the
// literal fallback always costs exactly this many cycles, so anything
// lower could never produce a single valid block.
const MinCycleLimit = 1268

// literalCost is the fixed decode cost of a literal-escape block.
const literalCost = 1268

var shortPlaneDefs = [4]byte{0x00, 0x55, 0xaa, 0xff}

// Error is the wrapper type for errors specific to this package.
type Error string

func (e Error) Error() string { return "donut: " + string(e) }

var (
	// ErrUndefinedBlock is returned when a decoder encounters a block
	// header in [0xc0, 0xff], which this format reserves.
	ErrUndefinedBlock error = Error("encountered undefined block header")

	// ErrCycleLimit is returned when a caller requests an encoder cycle
	// limit too small to ever produce a valid block.
	ErrCycleLimit error = Error("cycle limit must be at least 1268")
)

// Status reports the outcome of one call into the block codec's streaming
// entry points.
type Status int

const (
	// DestFull means the destination region reached its limit; the
	// caller should drain it and call again.
	DestFull Status = iota
	// SourceEmpty means there is no more input to process; the caller
	// should refill the source region (or, at EOF, stop).
	SourceEmpty
	// SourcePartial means a block was incomplete and partial decoding was
	// not permitted; the caller should refill without discarding what it
	// has already supplied.
	SourcePartial
	// UndefinedBlock means a reserved header byte was encountered. This
	// is fatal: no further bytes are emitted for that block.
	UndefinedBlock
)

func (s Status) String() string {
	switch s {
	case DestFull:
		return "destination full"
	case SourceEmpty:
		return "source empty"
	case SourcePartial:
		return "source partial"
	case UndefinedBlock:
		return "undefined block"
	default:
		return "unknown status"
	}
}

// popcount8 returns the number of set bits in x.
func popcount8(x uint8) int {
	x = (x & 0x55) + ((x >> 1) & 0x55)
	x = (x & 0x33) + ((x >> 2) & 0x33)
	x = (x & 0x0f) + ((x >> 4) & 0x0f)
	return int(x)
}
