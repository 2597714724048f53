// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package bzip2 provides the CRC-32 checksum-combine arithmetic that the
// BZip2 format uses to stitch together independently-checksummed blocks.
//
// The reference pack this was adapted from also carried a full BZip2
// reader and writer (run-length encoding, Burrows-Wheeler transform,
// move-to-front encoding, and prefix coding); those pieces aren't part of
// this module's CHR-codec domain and were dropped (see DESIGN.md), leaving
// only the combine-CRC utility that cmd/chrbench uses to illustrate the
// cost of joining two compressed streams' checksums without rescanning
// their concatenation.
package bzip2

import "hash/crc32"
import "github.com/pinobatch/chrtools/internal"
import "github.com/dsnet/golib/hashutil"

// updateCRC returns the result of adding the bytes in buf to the crc.
func updateCRC(crc uint32, buf []byte) uint32 {
	// The CRC-32 computation in bzip2 treats bytes as having bits in big-endian
	// order. That is, the MSB is read before the LSB. Thus, we can use the
	// standard library version of CRC-32 IEEE with some minor adjustments.
	crc = internal.ReverseUint32(crc)
	var arr [4096]byte
	for len(buf) > 0 {
		cnt := copy(arr[:], buf)
		buf = buf[cnt:]
		for i, b := range arr[:cnt] {
			arr[i] = internal.ReverseLUT[b]
		}
		crc = crc32.Update(crc, crc32.IEEETable, arr[:cnt])
	}
	return internal.ReverseUint32(crc)
}

// combineCRC combines two CRC-32 checksums together.
func combineCRC(crc1, crc2 uint32, len2 int64) uint32 {
	crc1 = internal.ReverseUint32(crc1)
	crc2 = internal.ReverseUint32(crc2)
	crc := hashutil.CombineCRC32(crc32.IEEE, crc1, crc2, len2)
	return internal.ReverseUint32(crc)
}

// CombineCRC exports combineCRC for callers outside this package (notably
// cmd/chrbench) that want to report checksum-combine costs without
// depending on bzip2's block-splitting internals.
func CombineCRC(crc1, crc2 uint32, len2 int64) uint32 {
	return combineCRC(crc1, crc2, len2)
}
