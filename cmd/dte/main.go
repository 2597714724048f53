// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command dte re-encodes a file to use unused byte values as recursive
// digram references, or reverses that encoding.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/pinobatch/chrtools/dte"
)

func main() {
	var (
		decode    = flag.Bool("d", false, "apply the digram table to the file (expand)")
		output    = flag.String("o", "", "output file (defaults to the second positional argument)")
		tableName = flag.String("t", "", "read/write the replacement table from/to FILE (defaults to the third positional argument, or prepended to the data file)")
		useStdio  = flag.Bool("c", false, "use standard input/output when filenames are absent")
		force     = flag.Bool("f", false, "overwrite output file(s) without prompting")
		tableRng  = flag.String("r", "", "size the replacement table to this inclusive character range (default 0-255)")
		exclude   multiFlag
		minFreq   = flag.Int("m", 3, "stop substituting once a digram occurs fewer than this many times")
		quiet     = flag.Bool("q", false, "suppress error messages")
		verbose   = flag.Bool("v", false, "report the compression ratio on exit")
	)
	flag.Var(&exclude, "e", "forbid a character or range N|MIN-MAX from appearing in digrams (repeatable)")
	flag.Parse()

	if *minFreq <= 0 {
		fatal(*quiet, "-m (minimum frequency) must be greater than 0.\n")
	}

	tableMin, tableMax := 0, 255
	if *tableRng != "" {
		min, max, ok := dte.ParseRange(*tableRng)
		if !ok {
			fatal(*quiet, "Error parsing table range.\n")
		}
		tableMin, tableMax = clampByte(min), clampByte(max)
	}

	var excludedChar [256]bool
	for _, s := range exclude {
		min, max, ok := dte.ParseRange(s)
		if !ok {
			fatal(*quiet, "Error parsing exclude range.\n")
		}
		for i := clampByte(min); i <= clampByte(max); i++ {
			excludedChar[i] = true
		}
	}

	args := flag.Args()
	var inputName, outputName, tableFileName string
	if len(args) > 0 {
		inputName = args[0]
	}
	if len(args) > 1 {
		outputName = args[1]
	}
	if len(args) > 2 {
		tableFileName = args[2]
	}
	if *output != "" {
		outputName = *output
	}
	if *tableName != "" {
		tableFileName = *tableName
	}

	if !*useStdio && inputName == "" && outputName == "" {
		fatal(*quiet, "Input and output filenames required. Try --help for more info.\n")
	}

	in, _, err := openInput(inputName, *useStdio)
	if err != nil {
		fatal(*quiet, "%v\n", err)
	}
	defer in.Close()

	data, err := ioutil.ReadAll(in)
	if err != nil {
		fatal(*quiet, "%v\n", err)
	}

	out, outDisplay, err := openOutput(outputName, *useStdio, *force, *quiet)
	if err != nil {
		fatal(*quiet, "%v\n", err)
	}
	defer out.Close()

	var tableFile *os.File
	if tableFileName != "" {
		if *decode {
			tableFile, err = os.Open(tableFileName)
		} else {
			if !*force {
				if _, serr := os.Stat(tableFileName); serr == nil && !promptOverwrite(tableFileName, *quiet) {
					os.Exit(1)
				}
			}
			tableFile, err = os.Create(tableFileName)
		}
		if err != nil {
			fatal(*quiet, "%v\n", err)
		}
		defer tableFile.Close()
	}

	bytesIn := len(data)
	var bytesOut int

	if *decode {
		table := dte.NewIdentityTable()
		if tableFile != nil {
			if err := dte.ReadTable(tableFile, table, tableMin, tableMax); err != nil {
				fatal(*quiet, "%v\n", err)
			}
		} else {
			n := 2 * (tableMax - tableMin + 1)
			if len(data) < n {
				fatal(*quiet, "%v\n", dte.ErrTruncatedTable)
			}
			if err := dte.ReadTable(bytes.NewReader(data[:n]), table, tableMin, tableMax); err != nil {
				fatal(*quiet, "%v\n", err)
			}
			data = data[n:]
		}

		expanded, err := dte.Expand(data, table)
		if err != nil {
			fatal(*quiet, "%v\n", err)
		}
		if _, err := out.Write(expanded); err != nil {
			fatal(*quiet, "%v\n", err)
		}
		bytesOut = len(expanded)
	} else {
		var states [256]dte.CharState
		for i := 0; i < 256; i++ {
			if i < tableMin || i > tableMax {
				states[i] = dte.Used
			}
			if excludedChar[i] {
				states[i] = dte.Forbidden
			}
		}

		compressed, table := dte.Compress(data, dte.CompressOptions{States: states, MinFreq: *minFreq})

		tableDest := out
		if tableFile != nil {
			tableDest = tableFile
		}
		if err := dte.WriteTable(tableDest, table, tableMin, tableMax); err != nil {
			fatal(*quiet, "%v\n", err)
		}
		if _, err := out.Write(compressed); err != nil {
			fatal(*quiet, "%v\n", err)
		}
		bytesOut = len(compressed)
	}

	if *verbose {
		var ratio float64
		if *decode {
			if bytesOut != 0 {
				ratio = (1 - float64(bytesIn)/float64(bytesOut)) * 100
			}
		} else {
			if bytesIn != 0 {
				ratio = (1 - float64(bytesOut)/float64(bytesIn)) * 100
			}
		}
		fmt.Fprintf(os.Stderr, "%s: %5.1f%% (%d => %d bytes)\n", outDisplay, ratio, bytesIn, bytesOut)
	}
}

func clampByte(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

type multiFlag []string

func (m *multiFlag) String() string { return fmt.Sprint([]string(*m)) }
func (m *multiFlag) Set(s string) error {
	*m = append(*m, s)
	return nil
}

func openInput(name string, useStdio bool) (io.ReadCloser, string, error) {
	if name == "" {
		if useStdio {
			return io.NopCloser(os.Stdin), "<stdin>", nil
		}
		return nil, "", fmt.Errorf("input filename required. Try --help for more info.")
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, "", err
	}
	return f, name, nil
}

func openOutput(name string, useStdio, force, quiet bool) (io.WriteCloser, string, error) {
	if name == "" {
		if useStdio {
			return nopWriteCloser{os.Stdout}, "<stdout>", nil
		}
		return nil, "", fmt.Errorf("output filename required. Try --help for more info.")
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
		return nil, "", err
	}
	return f, name, nil
}

func promptOverwrite(name string, quiet bool) bool {
	if quiet {
		return false
	}
	fmt.Fprintf(os.Stderr, "%s already exists; do you wish to overwrite (y/N) ? ", name)
	var reply string
	fmt.Fscanln(os.Stdin, &reply)
	return reply == "y" || reply == "Y"
}

func fatal(quiet bool, format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stderr, format, args...)
	}
	os.Exit(1)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
