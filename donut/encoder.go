// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package donut

// EncoderConfig controls the candidate search the plain and don't-care
// encoders perform for every tile.
type EncoderConfig struct {
	// CycleLimit is the maximum number of simulated 6502 cycles a chosen
	// block may cost to decode. Must be >= MinCycleLimit.
	CycleLimit int
	// UseBitFlip enables the r=1 candidates that apply the 135 degree
	// bit-flip transform before packing. Corresponds to --no-bit-flip.
	UseBitFlip bool
}

// DefaultEncoderConfig mirrors the reference encoder's defaults: an
// effectively generous cycle budget and bit-flip candidates enabled.
func DefaultEncoderConfig() EncoderConfig {
	return EncoderConfig{CycleLimit: 10000, UseBitFlip: true}
}

// Validate reports ErrCycleLimit if the configured cycle limit could never
// admit a single valid candidate.
func (cfg EncoderConfig) Validate() error {
	if cfg.CycleLimit < MinCycleLimit {
		return ErrCycleLimit
	}
	return nil
}

// CompressBlocks consumes raw 64-byte tiles from sb.Src and appends their
// smallest valid compressed encoding to sb.Dest, until a terminal
// condition in Status is reached.
func CompressBlocks(sb *SplitBuffer, cfg EncoderConfig, allowPartial bool) Status {
	for {
		if sb.destFull() {
			return DestFull
		}
		n := len(sb.Src)
		if n <= 0 {
			return SourceEmpty
		}
		var tile [TileSize]byte
		l := TileSize
		if n < TileSize {
			if !allowPartial {
				return SourcePartial
			}
			copy(tile[:], sb.Src)
			l = n
		} else {
			copy(tile[:], sb.Src[:TileSize])
		}
		sb.Src = sb.Src[l:]

		sb.Dest = append(sb.Dest, encodeTile(&tile, cfg)...)
	}
}

// encodeTile runs the (r, a) candidate search of spec.md 4.3 over one
// 64-byte tile and returns the smallest compressed block that decodes
// within cfg.CycleLimit.
func encodeTile(tile *[TileSize]byte, cfg EncoderConfig) []byte {
	var bestArr [MaxBlockSize]byte
	bestArr[0] = literalHeader
	copy(bestArr[1:], tile[:])
	bestLen := 1 + TileSize
	leastCost := literalCost

	var planes [8]uint64
	for i := range planes {
		planes[i] = readPlane(tile[i*8:])
	}

	var scratch [MaxBlockSize]byte
	for r := 0; r < 2; r++ {
		if r == 1 {
			if !cfg.UseBitFlip {
				break
			}
			for i := range planes {
				planes[i] = FlipPlaneBits135(planes[i])
			}
		}
		for a := 0; a < 0xc; a++ {
			cand := buildCandidate(scratch[:], planes, r, a)
			if len(cand) <= bestLen {
				cost := BlockCost(cand)
				if cost != 0 && cost <= cfg.CycleLimit && (len(cand) < bestLen || cost < leastCost) {
					copy(bestArr[:], cand)
					bestLen = len(cand)
					leastCost = cost
				}
			}
		}
	}

	out := make([]byte, bestLen)
	copy(out, bestArr[:bestLen])
	return out
}

// buildCandidate computes the single best block shape (explicit plane-def,
// short plane-def, or duplicate-plane) for one (r, a) combination, writing
// into scratch (which must have capacity for MaxBlockSize bytes) and
// returning the slice of scratch actually used.
//
// r selects whether planes have already had the 135 degree bit-flip
// applied (for header bit 0); a is the 4-bit combine/background selector
// {BG_M, BG_L, flip_M, flip_L} described in spec.md 4.3.
func buildCandidate(scratch []byte, planes [8]uint64, r, a int) []byte {
	pos := 2
	var planeDef byte
	numPB8Planes := 0
	planesMatch := true
	firstPB8Len := 0
	var firstNonZeroPlane, firstNonZeroPredict uint64

	for i := 0; i < 8; i++ {
		plane := planes[i]
		var predict uint64
		if i&1 == 1 {
			if a&0x1 != 0 {
				predict = ^uint64(0)
			}
			if a&0x4 != 0 {
				plane ^= planes[i-1]
			}
		} else {
			if a&0x2 != 0 {
				predict = ^uint64(0)
			}
			if a&0x8 != 0 {
				plane ^= planes[i+1]
			}
		}
		planeDef <<= 1
		if plane != predict {
			n := packPB8(scratch[pos:], plane, byte(predict))
			pos += n
			planeDef |= 1
			switch {
			case numPB8Planes == 0:
				firstNonZeroPredict = predict
				firstNonZeroPlane = plane
				firstPB8Len = n
			case firstNonZeroPlane != plane:
				planesMatch = false
			case firstNonZeroPredict != predict:
				planesMatch = false
			}
			numPB8Planes++
		}
	}
	if numPB8Planes <= 1 {
		// A block of 0 duplicate planes is 1 byte larger than the normal
		// form, and a normal block of exactly 1 plane is 1 cycle cheaper
		// to decode than the duplicate-plane form.
		planesMatch = false
	}

	scratch[0] = byte(r) | byte(a<<4) | 0x02
	scratch[1] = planeDef

	if allPB8PlanesMatch(scratch[2:], firstPB8Len, numPB8Planes) {
		scratch[0] = byte(r) | byte(a<<4) | 0x06
		return scratch[:2+firstPB8Len]
	}
	if planesMatch {
		scratch[0] = byte(r) | byte(a<<4) | 0x06
		n := packPB8(scratch[2:], firstNonZeroPlane, ^byte(firstNonZeroPlane))
		return scratch[:2+n]
	}
	for i := 0; i < 4; i++ {
		if planeDef == shortPlaneDefs[i] {
			scratch[1] = byte(r) | byte(a<<4) | byte(i<<2)
			return scratch[1:pos]
		}
	}
	return scratch[:pos]
}
