// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command donut compresses or decompresses NES CHR tile graphics using the
// Donut block codec.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pinobatch/chrtools/donut"
)

const ioChunkSize = 1 << 16

func main() {
	var (
		decompress   = flag.Bool("d", false, "decompress instead of compress")
		output       = flag.String("o", "", "output file (defaults to the second positional argument, or stdout with -c)")
		useStdio     = flag.Bool("c", false, "read/write standard input/output when filenames are absent")
		force        = flag.Bool("f", false, "overwrite the output file without prompting")
		verbose      = flag.Bool("v", false, "report the compression ratio on exit")
		quiet        = flag.Bool("q", false, "suppress error messages")
		noBitFlip    = flag.Bool("no-bit-flip", false, "disable the 135 degree bit-flip candidates during encoding")
		dontCare     = flag.Bool("interleaved-dont-care-bits", false, "input is 128-byte data+mask units; fill don't-care bits during encoding")
		cycleLimit   = flag.Int("cycle-limit", 10000, "reject encoder candidates costing more simulated cycles than this")
	)
	flag.Parse()

	args := flag.Args()
	var inputName, outputName string
	if len(args) > 0 {
		inputName = args[0]
	}
	if *output != "" {
		outputName = *output
	} else if len(args) > 1 {
		outputName = args[1]
	}

	if inputName == "" && outputName == "" && !*useStdio {
		fatal(*quiet, "Input and output filenames required. Try --help for more info.\n")
	}

	cfg := donut.DefaultEncoderConfig()
	cfg.UseBitFlip = !*noBitFlip
	cfg.CycleLimit = *cycleLimit
	if err := cfg.Validate(); err != nil {
		fatal(*quiet, "Invalid parameter for --cycle-limit. Must be a integer >= %d.\n", donut.MinCycleLimit)
	}

	in, err := openInput(inputName, *useStdio)
	if err != nil {
		fatal(*quiet, "%v\n", err)
	}
	defer in.Close()

	out, err := openOutput(outputName, *useStdio, *force, *quiet)
	if err != nil {
		fatal(*quiet, "%v\n", err)
	}
	defer out.Close()

	bytesIn, bytesOut, err := run(in, out, *decompress, *dontCare, cfg)
	if err != nil {
		fatal(*quiet, "%v\n", err)
	}

	if *verbose {
		var ratio float64
		if *decompress {
			if bytesOut != 0 {
				ratio = (1 - float64(bytesIn)/float64(bytesOut)) * 100
			}
		} else {
			if bytesIn != 0 {
				ratio = (1 - float64(bytesOut)/float64(bytesIn)) * 100
			}
		}
		fmt.Fprintf(os.Stderr, "%s: %5.1f%% (%d => %d bytes)\n", displayName(outputName, *useStdio), ratio, bytesIn, bytesOut)
	}
}

// run drains r into the donut engine and streams the result to w, growing
// the split buffer's source as needed and flushing its destination in
// ioChunkSize pieces, until EOF is reached and fully consumed.
func run(r io.Reader, w io.Writer, decompress, dontCare bool, cfg donut.EncoderConfig) (bytesIn, bytesOut int64, err error) {
	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)
	defer func() {
		if ferr := bw.Flush(); err == nil {
			err = ferr
		}
	}()

	var sb donut.SplitBuffer
	sb.MaxDest = ioChunkSize
	chunk := make([]byte, ioChunkSize)
	eof := false

	for {
		if !eof && len(sb.Src) < ioChunkSize {
			n, rerr := br.Read(chunk)
			if n > 0 {
				sb.Src = append(sb.Src, chunk[:n]...)
				bytesIn += int64(n)
			}
			if rerr == io.EOF {
				eof = true
			} else if rerr != nil {
				return bytesIn, bytesOut, rerr
			}
		}

		var status donut.Status
		switch {
		case decompress:
			status = donut.DecodeBlocks(&sb, eof)
		case dontCare:
			status = donut.CompressBlocksDontCare(&sb, cfg, eof)
		default:
			status = donut.CompressBlocks(&sb, cfg, eof)
		}

		if len(sb.Dest) > 0 {
			n, werr := bw.Write(sb.Dest)
			bytesOut += int64(n)
			if werr != nil {
				return bytesIn, bytesOut, werr
			}
			sb.Dest = sb.Dest[:0]
		}

		if status == donut.UndefinedBlock {
			return bytesIn, bytesOut, donut.ErrUndefinedBlock
		}
		if eof && status == donut.SourceEmpty {
			return bytesIn, bytesOut, nil
		}
	}
}

func openInput(name string, useStdio bool) (io.ReadCloser, error) {
	if name == "" {
		if useStdio {
			return io.NopCloser(os.Stdin), nil
		}
		return nil, fmt.Errorf("input filename required. Try --help for more info.")
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func openOutput(name string, useStdio, force, quiet bool) (io.WriteCloser, error) {
	if name == "" {
		if useStdio {
			return nopWriteCloser{os.Stdout}, nil
		}
		return nil, fmt.Errorf("output filename required. Try --help for more info.")
	}
	if !force {
		if _, err := os.Stat(name); err == nil {
			if !promptOverwrite(name, quiet) {
				os.Exit(1)
			}
		}
	}
	f, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// promptOverwrite asks on stderr/stdin whether an existing output file may
// be overwritten, matching the reference driver's "(y/N)" prompt. A quiet
// run refuses silently rather than blocking on stdin.
func promptOverwrite(name string, quiet bool) bool {
	if quiet {
		return false
	}
	fmt.Fprintf(os.Stderr, "%s already exists; do you wish to overwrite (y/N) ? ", name)
	var reply string
	fmt.Fscanln(os.Stdin, &reply)
	return reply == "y" || reply == "Y"
}

func displayName(name string, useStdio bool) string {
	if name == "" {
		return "<stdout>"
	}
	return name
}

func fatal(quiet bool, format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stderr, format, args...)
	}
	os.Exit(1)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
