// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command chrbench measures Donut and DTE throughput against the generic
// compressors in internal/benchmark, and times a CRC-32 combine of the two
// halves of the corpus as a cheap proxy for the cost of joining
// independently-checksummed streams.
package main

import (
	"flag"
	"fmt"
	"hash/crc32"
	"math/bits"
	"time"

	"github.com/pinobatch/chrtools/bzip2"
	"github.com/pinobatch/chrtools/donut"
	"github.com/pinobatch/chrtools/dte"
	"github.com/pinobatch/chrtools/internal/benchmark"
)

func main() {
	file := flag.String("file", "", "input file to benchmark (defaults to a synthetic corpus)")
	size := flag.Int("size", 1 << 20, "size in bytes of the corpus to benchmark")
	codecs := flag.String("codecs", "std,kp,xz", "comma-separated codec names from internal/benchmark to compare against")
	flag.Parse()

	data, err := loadCorpus(*file, *size)
	if err != nil {
		fmt.Println("error loading corpus:", err)
		return
	}

	fmt.Printf("corpus: %d bytes\n", len(data))
	benchDonut(data)
	benchDTE(data)
	benchGeneric(data, splitCodecs(*codecs))
	benchCombineCRC(data)
}

func loadCorpus(file string, size int) ([]byte, error) {
	if file != "" {
		return benchmark.LoadFile(file, size)
	}
	// A synthetic CHR-like corpus: repeating tile patterns, which Donut's
	// PB8 repeat-control bits and DTE's digram substitution both exploit
	// well, giving a rough but dependency-free stand-in for real ROM data.
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i % 37)
	}
	return data, nil
}

func splitCodecs(s string) []string {
	var out []string
	cur := ""
	for _, r := range s {
		if r == ',' {
			if cur != "" {
				out = append(out, cur)
			}
			cur = ""
			continue
		}
		cur += string(r)
	}
	if cur != "" {
		out = append(out, cur)
	}
	return out
}

func benchDonut(data []byte) {
	cfg := donut.DefaultEncoderConfig()

	t0 := time.Now()
	var sb donut.SplitBuffer
	sb.Src = append([]byte(nil), data...)
	donut.CompressBlocks(&sb, cfg, true)
	encDur := time.Since(t0)
	compressed := sb.Dest

	t0 = time.Now()
	var db donut.SplitBuffer
	db.Src = append([]byte(nil), compressed...)
	donut.DecodeBlocks(&db, true)
	decDur := time.Since(t0)

	fmt.Printf("donut:  encode %8.2f MB/s  decode %8.2f MB/s  ratio %.2fx (%d => %d bytes)\n",
		rate(len(data), encDur), rate(len(data), decDur),
		float64(len(data))/float64(max(1, len(compressed))), len(data), len(compressed))
}

func benchDTE(data []byte) {
	var states [256]dte.CharState

	buf := append([]byte(nil), data...)
	t0 := time.Now()
	compressed, table := dte.Compress(buf, dte.CompressOptions{States: states, MinFreq: 3})
	encDur := time.Since(t0)

	t0 = time.Now()
	expanded, err := dte.Expand(compressed, table)
	decDur := time.Since(t0)
	if err != nil {
		fmt.Println("dte: expand error:", err)
		return
	}
	_ = expanded

	fmt.Printf("dte:    encode %8.2f MB/s  decode %8.2f MB/s  ratio %.2fx (%d => %d bytes)\n",
		rate(len(data), encDur), rate(len(compressed), decDur),
		float64(len(data))/float64(max(1, len(compressed))), len(data), len(compressed))
}

func benchGeneric(data []byte, names []string) {
	for _, name := range names {
		enc := findEncoder(name)
		if enc == nil {
			fmt.Printf("%s: no encoder registered (skipped)\n", name)
			continue
		}
		w := &countingWriter{}
		t0 := time.Now()
		zw := enc(w, 6)
		zw.Write(data)
		zw.Close()
		dur := time.Since(t0)
		fmt.Printf("%-7s encode %8.2f MB/s  ratio %.2fx (%d => %d bytes)\n",
			name, rate(len(data), dur), float64(len(data))/float64(max(1, w.n)), len(data), w.n)
	}
}

// benchCombineCRC demonstrates the checksum-combine cost of joining the two
// halves of the corpus without recomputing a CRC over their concatenation
// from scratch -- the operation bzip2 uses internally to stitch together
// its independently-checksummed blocks.
func benchCombineCRC(data []byte) {
	half := len(data) / 2
	crc1 := crc32.ChecksumIEEE(data[:half])
	crc2 := crc32.ChecksumIEEE(data[half:])

	t0 := time.Now()
	const trials = 100000
	var combined uint32
	for i := 0; i < trials; i++ {
		// bzip2.CombineCRC works on bzip2's bit-reversed CRCs, so the IEEE
		// CRCs are reversed on the way in and the result on the way out.
		combined = bits.Reverse32(bzip2.CombineCRC(bits.Reverse32(crc1), bits.Reverse32(crc2), int64(len(data)-half)))
	}
	dur := time.Since(t0)

	want := crc32.ChecksumIEEE(data)
	fmt.Printf("combineCRC: %v/op, matches whole-buffer CRC: %v\n", dur/trials, combined == want)
}

// findEncoder looks up name across every registered format (FormatFlate's
// "std"/"kp", FormatXZ's "xz"), since a codec name is unique across
// benchmark.Encoders regardless of which format registered it.
func findEncoder(name string) benchmark.Encoder {
	for _, byName := range benchmark.Encoders {
		if enc, ok := byName[name]; ok {
			return enc
		}
	}
	return nil
}

func rate(n int, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(n) / d.Seconds() / (1 << 20)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

type countingWriter struct{ n int }

func (w *countingWriter) Write(p []byte) (int, error) {
	w.n += len(p)
	return len(p), nil
}
