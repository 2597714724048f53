// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dte

import "io"

// Pair is an ordered pair of bytes: what a substitution symbol expands to.
type Pair struct {
	Left, Right byte
}

// Table is the fixed 256-entry digram table. Entry c is a literal -- c
// stands for itself rather than expanding -- iff Table[c].Left == c; Right
// is ignored for literal entries, matching the reference decoder's check.
type Table [256]Pair

// NewIdentityTable returns a table where every entry is a literal.
func NewIdentityTable() *Table {
	var t Table
	for i := range t {
		t[i] = Pair{Left: byte(i), Right: 0}
	}
	return &t
}

// WriteTable writes the [min, max] slice of t as 2*(max-min+1) bytes, each
// entry stored (Left, Right) in ascending order.
func WriteTable(w io.Writer, t *Table, min, max int) error {
	buf := make([]byte, 0, 2*(max-min+1))
	for i := min; i <= max; i++ {
		buf = append(buf, t[i].Left, t[i].Right)
	}
	_, err := w.Write(buf)
	return err
}

// ReadTable reads 2*(max-min+1) bytes from r into the [min, max] slice of
// t. It returns ErrTruncatedTable if r runs out early.
func ReadTable(r io.Reader, t *Table, min, max int) error {
	n := 2 * (max - min + 1)
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return ErrTruncatedTable
	}
	for i := min; i <= max; i++ {
		off := 2 * (i - min)
		t[i] = Pair{Left: buf[off], Right: buf[off+1]}
	}
	return nil
}
