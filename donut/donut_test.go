// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package donut

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pinobatch/chrtools/internal/testutil"
)

func roundTrip(t *testing.T, tiles [][TileSize]byte, cfg EncoderConfig) {
	t.Helper()

	var src []byte
	for _, tile := range tiles {
		src = append(src, tile[:]...)
	}

	var enc SplitBuffer
	enc.Src = append([]byte(nil), src...)
	if status := CompressBlocks(&enc, cfg, true); status != SourceEmpty {
		t.Fatalf("CompressBlocks status = %v, want SourceEmpty", status)
	}

	var dec SplitBuffer
	dec.Src = append([]byte(nil), enc.Dest...)
	if status := DecodeBlocks(&dec, true); status != SourceEmpty {
		t.Fatalf("DecodeBlocks status = %v, want SourceEmpty", status)
	}

	if diff := cmp.Diff(src, dec.Dest); diff != "" {
		t.Errorf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundTripUniform(t *testing.T) {
	cfg := DefaultEncoderConfig()
	vals := []byte{0x00, 0xff, 0x55, 0xaa, 0x01}
	for _, v := range vals {
		var tile [TileSize]byte
		for i := range tile {
			tile[i] = v
		}
		t.Run("", func(t *testing.T) {
			roundTrip(t, [][TileSize]byte{tile}, cfg)
		})
	}
}

func TestRoundTripRandom(t *testing.T) {
	cfg := DefaultEncoderConfig()
	rng := rand.New(rand.NewSource(1))
	var tiles [][TileSize]byte
	for i := 0; i < 16; i++ {
		var tile [TileSize]byte
		rng.Read(tile[:])
		tiles = append(tiles, tile)
	}
	roundTrip(t, tiles, cfg)
}

// TestRoundTripSinglePlane exercises the short plane-def and duplicate-plane
// block shapes by setting only one of the eight bit-planes (bytes 16-23) to
// non-zero values, leaving the rest of the tile zero.
func TestRoundTripSinglePlane(t *testing.T) {
	cfg := DefaultEncoderConfig()
	var tile [TileSize]byte
	for i := 0; i < 8; i++ {
		tile[2*8+i] = byte(i*16 + 1)
	}
	roundTrip(t, [][TileSize]byte{tile}, cfg)
}

// TestRoundTripOneBytePerturbation confirms a single differing byte in an
// otherwise-uniform tile still round-trips exactly.
func TestRoundTripOneBytePerturbation(t *testing.T) {
	cfg := DefaultEncoderConfig()
	var tile [TileSize]byte
	for i := range tile {
		tile[i] = 0x55
	}
	tile[37] = 0xa3
	roundTrip(t, [][TileSize]byte{tile}, cfg)
}

func TestRoundTripNoBitFlip(t *testing.T) {
	cfg := DefaultEncoderConfig()
	cfg.UseBitFlip = false
	rng := rand.New(rand.NewSource(2))
	var tile [TileSize]byte
	rng.Read(tile[:])
	roundTrip(t, [][TileSize]byte{tile}, cfg)
}

func TestRoundTripMultipleTiles(t *testing.T) {
	cfg := DefaultEncoderConfig()
	rng := rand.New(rand.NewSource(3))
	var tiles [][TileSize]byte
	patterns := []func(i int) byte{
		func(i int) byte { return 0 },
		func(i int) byte { return 0xff },
		func(i int) byte { return byte(i) },
		func(i int) byte { return byte(rng.Intn(256)) },
	}
	for _, pat := range patterns {
		var tile [TileSize]byte
		for i := range tile {
			tile[i] = pat(i)
		}
		tiles = append(tiles, tile)
	}
	roundTrip(t, tiles, cfg)
}

// TestFlipPlaneBits135 checks the documented fixed points and
// involution property of the transform used by the r=1 encoder candidates.
func TestFlipPlaneBits135(t *testing.T) {
	for _, p := range []uint64{0, 0xffffffffffffffff} {
		if got := FlipPlaneBits135(p); got != p {
			t.Errorf("FlipPlaneBits135(%#x) = %#x, want fixed point", p, got)
		}
	}

	rng := rand.New(rand.NewSource(4))
	for i := 0; i < 100; i++ {
		p := rng.Uint64()
		if got := FlipPlaneBits135(FlipPlaneBits135(p)); got != p {
			t.Errorf("FlipPlaneBits135 is not an involution at %#x: got %#x", p, got)
		}
	}
}

// TestCycleLimitMonotonicity checks that raising the cycle budget never
// produces a larger encoded block for the same tile: more candidates become
// eligible, never fewer.
func TestCycleLimitMonotonicity(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	var tile [TileSize]byte
	rng.Read(tile[:])

	limits := []int{MinCycleLimit, 2000, 5000, 10000, 100000}
	prevLen := -1
	for _, limit := range limits {
		cfg := EncoderConfig{CycleLimit: limit, UseBitFlip: true}
		block := encodeTile(&tile, cfg)
		if prevLen != -1 && len(block) > prevLen {
			t.Errorf("cycle limit %d produced a larger block (%d bytes) than a stricter limit (%d bytes)", limit, len(block), prevLen)
		}
		prevLen = len(block)
	}
}

func TestEncoderConfigValidate(t *testing.T) {
	cfg := EncoderConfig{CycleLimit: MinCycleLimit - 1}
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() = nil for a cycle limit below MinCycleLimit, want ErrCycleLimit")
	}
	cfg.CycleLimit = MinCycleLimit
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v for MinCycleLimit, want nil", err)
	}
}

func TestDecodeUndefinedBlock(t *testing.T) {
	var sb SplitBuffer
	sb.Src = []byte{0xc0}
	if status := DecodeBlocks(&sb, true); status != UndefinedBlock {
		t.Errorf("DecodeBlocks status = %v, want UndefinedBlock", status)
	}
}

func TestDecodeSourcePartial(t *testing.T) {
	var sb SplitBuffer
	sb.Src = []byte{0x02} // PB8 header claiming a plane-def byte that never arrives
	if status := DecodeBlocks(&sb, false); status != SourcePartial {
		t.Errorf("DecodeBlocks status = %v, want SourcePartial", status)
	}
}

// decodePB8 mirrors the inline PB8 decode loop in DecodeBlocks: ctrl's bits,
// read MSB first, each select either a repeat of the previous byte or the
// next literal byte from buf.
func decodePB8(ctrl byte, buf []byte, top byte) uint64 {
	var plane uint64
	b := top
	for j := 0; j < 8; j++ {
		if ctrl&0x80 != 0 {
			b = buf[0]
			buf = buf[1:]
		}
		ctrl <<= 1
		plane <<= 8
		plane |= uint64(b)
	}
	return plane
}

// TestRoundTripDeterministicRandom uses testutil's AES-based generator
// instead of math/rand, so the tile data (and thus the exact bytes exercised
// by the encoder's search) stays fixed across Go versions.
func TestRoundTripDeterministicRandom(t *testing.T) {
	cfg := DefaultEncoderConfig()
	rng := testutil.NewRand(42)
	var tiles [][TileSize]byte
	for i := 0; i < 8; i++ {
		var tile [TileSize]byte
		copy(tile[:], rng.Bytes(TileSize))
		tiles = append(tiles, tile)
	}
	roundTrip(t, tiles, cfg)
}

func TestPackPB8RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	for trial := 0; trial < 50; trial++ {
		plane := rng.Uint64()
		top := byte(rng.Intn(256))

		var buf [9]byte
		n := packPB8(buf[:], plane, top)

		got := decodePB8(buf[0], buf[1:n], top)
		if got != plane {
			t.Errorf("trial %d: PB8 round trip = %#x, want %#x", trial, got, plane)
		}
	}
}
