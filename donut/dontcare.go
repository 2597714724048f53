// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package donut

// fillDontCareBits chooses values for the masked ("don't care") bit
// positions of plane so that it compresses better as a PB8 plane, given a
// prediction byte (the row above, top) and an optional XOR background
// (the paired plane, xorBG, when XOR prediction is active).
//
// Two passes run along the 8 plane bytes. The forward pass propagates top
// through masked byte positions -- each masked byte inherits the previous
// byte's chosen value -- then XORs xorBG through the mask. The backward
// pass re-walks from the last byte upward: where the next-known
// (unmasked) bits already match the value being carried, that value
// keeps propagating; otherwise the forward pass's result ("smudge") fills
// the masked bits. The net effect extends runs of equal bytes through
// masked regions in both directions, maximizing PB8 repeat control bits.
//
// Unmasked bits of plane are always preserved: result&^mask == plane&^mask.
func fillDontCareBits(plane, mask, xorBG uint64, top byte) uint64 {
	if mask == 0 {
		return plane
	}

	var smudge uint64
	cur := uint64(top)
	for i := uint(0); i < 8; i++ {
		m := mask & (uint64(0xff) << (i * 8))
		invM := ^mask & (uint64(0xff) << (i * 8))
		cur = (cur & m) | (plane & invM)
		smudge |= cur
		cur <<= 8
	}
	smudge ^= xorBG & mask

	var result uint64
	cur = uint64(top) << 56
	for i := uint(0); i < 8; i++ {
		shift := 8 * (7 - i)
		m := mask & (uint64(0xff) << shift)
		invM := ^mask & (uint64(0xff) << shift)
		if plane&invM == cur&invM {
			cur = (cur & m) | (plane & invM)
		} else {
			cur = (smudge & m) | (plane & invM)
		}
		result |= cur
		cur >>= 8
	}
	return result
}

// CompressBlocksDontCare is the "don't-care" variant of CompressBlocks: it
// consumes 128-byte units from sb.Src (64 bytes of tile data followed by
// a 64-byte bit-mask where a set bit marks a "don't care" position) and
// fills masked bits to minimize the encoded size, per spec.md 4.4.
//
// If a unit is truncated to fewer than 128 bytes at EOF, the mask is
// treated as entirely zero (no don't-cares) and the whole short unit is
// consumed: its first 64 bytes (zero-padded if fewer are available) are
// encoded as one tile, and any bytes past the first 64 are discarded.
func CompressBlocksDontCare(sb *SplitBuffer, cfg EncoderConfig, allowPartial bool) Status {
	for {
		if sb.destFull() {
			return DestFull
		}
		avail := len(sb.Src)
		if avail <= 0 {
			return SourceEmpty
		}

		var data, mask [TileSize]byte
		if avail < 2*TileSize {
			if !allowPartial {
				return SourcePartial
			}
			n := avail
			if n > TileSize {
				n = TileSize
			}
			copy(data[:n], sb.Src[:n])
			sb.Src = sb.Src[avail:]
		} else {
			copy(data[:], sb.Src[:TileSize])
			copy(mask[:], sb.Src[TileSize:2*TileSize])
			sb.Src = sb.Src[2*TileSize:]
		}

		sb.Dest = append(sb.Dest, encodeTileDontCare(&data, &mask, cfg)...)
	}
}

// encodeTileDontCare is encodeTile, but with each plane's masked bits
// filled via fillDontCareBits before the shared (r, a) candidate search.
func encodeTileDontCare(data, mask *[TileSize]byte, cfg EncoderConfig) []byte {
	var bestArr [MaxBlockSize]byte
	bestArr[0] = literalHeader
	copy(bestArr[1:], data[:])
	bestLen := 1 + TileSize
	leastCost := literalCost

	var origPlanes, maskPlanes [8]uint64
	for i := range origPlanes {
		origPlanes[i] = readPlane(data[i*8:])
		maskPlanes[i] = readPlane(mask[i*8:])
	}

	var scratch [MaxBlockSize]byte
	for r := 0; r < 2; r++ {
		if r == 1 {
			if !cfg.UseBitFlip {
				break
			}
			for i := range origPlanes {
				origPlanes[i] = FlipPlaneBits135(origPlanes[i])
				maskPlanes[i] = FlipPlaneBits135(maskPlanes[i])
			}
		}
		for a := 0; a < 0xc; a++ {
			var filled [8]uint64
			for i := 0; i < 8; i += 2 {
				var predictL, predictM uint64
				if a&0x2 != 0 {
					predictL = ^uint64(0)
				}
				if a&0x1 != 0 {
					predictM = ^uint64(0)
				}
				filled[i] = fillDontCareBits(origPlanes[i], maskPlanes[i], 0, byte(predictL))
				filled[i+1] = fillDontCareBits(origPlanes[i+1], maskPlanes[i+1], 0, byte(predictM))
				if a&0x8 != 0 {
					filled[i] = fillDontCareBits(filled[i], maskPlanes[i], filled[i+1], byte(predictL))
				}
				if a&0x4 != 0 {
					filled[i+1] = fillDontCareBits(filled[i+1], maskPlanes[i+1], filled[i], byte(predictM))
				}
			}

			cand := buildCandidate(scratch[:], filled, r, a)
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
