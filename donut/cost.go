// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package donut

// BlockCost returns the number of simulated 6502 cycles a decoder would
// spend decoding the compressed block in b. It is a pure function used
// only to gate encoder candidates; it never touches actual hardware.
//
// If b is too short to be gradeable (missing bytes its own header claims
// it needs), BlockCost returns 0, which the encoder treats as
// "ineligible" rather than "free".
func BlockCost(b []byte) int {
	l := len(b)
	if l < 1 {
		return 0
	}
	header := b[0]
	l--
	if header >= undefinedHeaderMin {
		return 0
	}
	if header == literalHeader {
		if l < TileSize {
			return 0
		}
		return literalCost
	}

	cycles := 1298
	if header&0xc0 != 0 {
		cycles += 640
	}
	if header&0x20 != 0 {
		cycles += 4
	}
	if header&0x10 != 0 {
		cycles += 4
	}

	var planeDef byte
	decodeOnly1PB8Plane := false
	if header&0x02 != 0 {
		if l < 1 {
			return 0
		}
		planeDef = b[1]
		l--
		cycles += 5
		decodeOnly1PB8Plane = header&0x04 != 0 && planeDef != 0x00
	} else {
		planeDef = shortPlaneDefs[(header&0x0c)>>2]
	}

	pb8Count := popcount8(planeDef)
	storedPlanes := pb8Count
	if decodeOnly1PB8Plane {
		storedPlanes = 1
	}
	for p, pos := 0, len(b)-l; p < storedPlanes; p++ {
		if pos >= len(b) {
			return 0
		}
		pos += 1 + popcount8(b[pos])
		if pos > len(b) {
			return 0
		}
	}
	if header&0x01 != 0 {
		cycles += pb8Count * 614
	} else {
		cycles += pb8Count * 75
	}

	if !decodeOnly1PB8Plane {
		l -= pb8Count
		cycles += l * 6
	} else {
		l--
		cycles += 1 * pb8Count
		cycles += l * 6 * pb8Count
	}
	return cycles
}
