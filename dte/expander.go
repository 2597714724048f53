// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dte

import "github.com/pinobatch/chrtools/internal/errors"

// maxStackDepth is the largest number of deferred right-halves Expand will
// carry at once before concluding the table is cyclic.
const maxStackDepth = 256

// Expand applies table to input recursively: a byte whose table entry is
// not a literal is replaced by its left half followed (after the left
// half's own expansion) by its right half, and so on. It returns
// ErrCyclicTable if that recursion never bottoms out in a literal.
//
// An empty input expands to nothing; a one-byte input is expanded like any
// other.
func Expand(input []byte, table *Table) (output []byte, err error) {
	defer errRecover(&err)

	if len(input) == 0 {
		return nil, nil
	}

	// Initial capacity estimate of input*2 (a typical compression ratio for
	// English-like text), taken as the first step of a Fibonacci-like
	// sequence starting at 64 that reaches it. Past that capacity, out grows
	// through append.
	capacity, prevStep := 0, 64
	for capacity < len(input)*2 {
		capacity, prevStep = capacity+prevStep, capacity
	}
	out := make([]byte, 0, capacity)

	var stack [maxStackDepth]byte
	stackSize := 0

	i := 0
	c := input[i]
	i++
	for {
		if table[c].Left == c {
			out = append(out, c)
			if stackSize > 0 {
				stackSize--
				c = stack[stackSize]
				continue
			}
			if i >= len(input) {
				break
			}
			c = input[i]
			i++
			continue
		}

		if stackSize >= maxStackDepth {
			errors.Panic(ErrCyclicTable)
		}
		stack[stackSize] = table[c].Right
		stackSize++
		c = table[c].Left
	}

	return out, nil
}
