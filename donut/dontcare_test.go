// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package donut

import (
	"math/rand"
	"testing"
)

// TestFillDontCareBitsPreservesKnownBits checks the invariant documented on
// fillDontCareBits: bits outside mask are never altered.
func TestFillDontCareBitsPreservesKnownBits(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 200; trial++ {
		plane := rng.Uint64()
		mask := rng.Uint64()
		xorBG := rng.Uint64()
		top := byte(rng.Intn(256))

		got := fillDontCareBits(plane, mask, xorBG, top)
		if got&^mask != plane&^mask {
			t.Fatalf("trial %d: fillDontCareBits altered known bits: plane=%#x mask=%#x got=%#x", trial, plane, mask, got)
		}
	}
}

func TestFillDontCareBitsNoMaskIsIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	for trial := 0; trial < 20; trial++ {
		plane := rng.Uint64()
		if got := fillDontCareBits(plane, 0, 0, byte(rng.Intn(256))); got != plane {
			t.Errorf("trial %d: fillDontCareBits with a zero mask changed the plane: got %#x, want %#x", trial, got, plane)
		}
	}
}

// TestCompressBlocksDontCareFullMaskDecodes confirms a unit whose mask frees
// every bit still produces a block that decodes cleanly to a full tile.
func TestCompressBlocksDontCareFullMaskDecodes(t *testing.T) {
	cfg := DefaultEncoderConfig()
	rng := rand.New(rand.NewSource(9))
	var data, mask [TileSize]byte
	rng.Read(data[:])
	for i := range mask {
		mask[i] = 0xff
	}

	var sb SplitBuffer
	sb.Src = append(append([]byte(nil), data[:]...), mask[:]...)
	if status := CompressBlocksDontCare(&sb, cfg, true); status != SourceEmpty {
		t.Fatalf("CompressBlocksDontCare status = %v, want SourceEmpty", status)
	}

	var dec SplitBuffer
	dec.Src = append([]byte(nil), sb.Dest...)
	if status := DecodeBlocks(&dec, true); status != SourceEmpty {
		t.Fatalf("DecodeBlocks status = %v, want SourceEmpty", status)
	}
	if len(dec.Dest) != TileSize {
		t.Fatalf("decoded %d bytes, want %d", len(dec.Dest), TileSize)
	}
}

// TestCompressBlocksDontCareZeroMaskRoundTrips confirms that an
// all-zero-mask unit (no don't-care bits at all) round-trips to exactly the
// original tile data.
func TestCompressBlocksDontCareZeroMaskRoundTrips(t *testing.T) {
	cfg := DefaultEncoderConfig()
	rng := rand.New(rand.NewSource(10))
	var data, mask [TileSize]byte
	rng.Read(data[:])

	var sb SplitBuffer
	sb.Src = append(append([]byte(nil), data[:]...), mask[:]...)
	if status := CompressBlocksDontCare(&sb, cfg, true); status != SourceEmpty {
		t.Fatalf("CompressBlocksDontCare status = %v, want SourceEmpty", status)
	}

	var dec SplitBuffer
	dec.Src = append([]byte(nil), sb.Dest...)
	if status := DecodeBlocks(&dec, true); status != SourceEmpty {
		t.Fatalf("DecodeBlocks status = %v, want SourceEmpty", status)
	}
	for i := range data {
		if dec.Dest[i] != data[i] {
			t.Fatalf("byte %d: got %#x, want %#x", i, dec.Dest[i], data[i])
		}
	}
}

// TestCompressBlocksDontCarePartialUnit confirms that a unit truncated to
// fewer than TileSize bytes at EOF is treated exactly like the plain
// encoder's partial tile: the mask is discarded entirely, and the data is
// zero-padded past whatever was available. (A partial unit between TileSize
// and 2*TileSize bytes behaves differently: see dontcare.go's doc comment --
// the reference implementation discards everything past the first TileSize
// bytes in that range rather than emitting a second block for the rest.)
func TestCompressBlocksDontCarePartialUnit(t *testing.T) {
	cfg := DefaultEncoderConfig()
	rng := rand.New(rand.NewSource(11))
	partial := make([]byte, 40) // well under TileSize
	rng.Read(partial)

	var dc SplitBuffer
	dc.Src = append([]byte(nil), partial...)
	if status := CompressBlocksDontCare(&dc, cfg, true); status != SourceEmpty {
		t.Fatalf("CompressBlocksDontCare status = %v, want SourceEmpty", status)
	}

	var plain SplitBuffer
	plain.Src = append([]byte(nil), partial...)
	if status := CompressBlocks(&plain, cfg, true); status != SourceEmpty {
		t.Fatalf("CompressBlocks status = %v, want SourceEmpty", status)
	}

	if len(dc.Dest) != len(plain.Dest) {
		t.Fatalf("don't-care partial unit produced %d bytes, plain encoder produced %d", len(dc.Dest), len(plain.Dest))
	}
	for i := range plain.Dest {
		if dc.Dest[i] != plain.Dest[i] {
			t.Fatalf("byte %d differs: don't-care=%#x plain=%#x", i, dc.Dest[i], plain.Dest[i])
		}
	}
}

// TestCompressBlocksDontCareDiscardsPastFirstTile documents an asymmetry
// with the plain encoder: when a unit has between TileSize and 2*TileSize
// bytes available at EOF, the don't-care encoder consumes the whole unit
// but only encodes its first TileSize bytes, discarding the rest -- it
// never emits a second, smaller block the way CompressBlocks would.
func TestCompressBlocksDontCareDiscardsPastFirstTile(t *testing.T) {
	cfg := DefaultEncoderConfig()
	rng := rand.New(rand.NewSource(12))
	partial := make([]byte, 100) // between TileSize and 2*TileSize
	rng.Read(partial)

	var dc SplitBuffer
	dc.Src = append([]byte(nil), partial...)
	if status := CompressBlocksDontCare(&dc, cfg, true); status != SourceEmpty {
		t.Fatalf("CompressBlocksDontCare status = %v, want SourceEmpty", status)
	}

	var dec SplitBuffer
	dec.Src = append([]byte(nil), dc.Dest...)
	if status := DecodeBlocks(&dec, true); status != SourceEmpty {
		t.Fatalf("DecodeBlocks status = %v, want SourceEmpty", status)
	}
	if len(dec.Dest) != TileSize {
		t.Fatalf("decoded %d bytes, want exactly one tile (%d)", len(dec.Dest), TileSize)
	}
	for i := 0; i < TileSize; i++ {
		if dec.Dest[i] != partial[i] {
			t.Fatalf("byte %d differs: got %#x, want %#x", i, dec.Dest[i], partial[i])
		}
	}
}
