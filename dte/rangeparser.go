// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dte

import (
	"math"
	"strconv"
)

// ParseRange parses the small range grammar used by cmd/dte's -r (table
// range) and -e (exclude) options: "7" (a single value), "10-31" or "0xa-0x1f" (inclusive
// bounds, hex accepted), "-90" (everything <= 90), "90-" (everything >=
// 90), "~" (unbounded both ways), "10~20" (dash and tilde are
// interchangeable separators).
//
// It returns the normalized (min, max) bounds with min <= max, and ok=false
// if the string could not be parsed as a range at all (the caller should
// then treat it as an error) -- note this is the inverse of the reference
// parser's boolean, which returns true for "no change" (parse failure).
func ParseRange(s string) (min, max int, ok bool) {
	rest := s

	minTildePrefixed := false
	i := 0
	for i < len(rest) {
		c := rest[i]
		if c == '-' || c == '~' {
			minTildePrefixed = true
		}
		if isDigit(c) {
			break
		}
		i++
	}
	rest = rest[i:]

	minVal, minLen := parseLeadingInt(rest)
	if minLen == 0 {
		if minTildePrefixed {
			return math.MinInt32, math.MaxInt32, true
		}
		return 0, 0, false
	}
	rest = rest[minLen:]

	maxTildePrefixed := false
	i = 0
	for i < len(rest) {
		c := rest[i]
		if c == '-' || c == '~' || c == ',' {
			maxTildePrefixed = true
		}
		if isDigit(c) {
			break
		}
		i++
	}
	rest = rest[i:]

	maxVal, maxLen := parseLeadingInt(rest)
	if maxLen == 0 {
		if minTildePrefixed && maxTildePrefixed {
			return 0, 0, false
		}
		if minTildePrefixed {
			min = math.MinInt32
		} else {
			min = minVal
		}
		if maxTildePrefixed {
			max = math.MaxInt32
		} else {
			max = minVal
		}
		return min, max, true
	}

	if minVal < maxVal {
		return minVal, maxVal, true
	}
	return maxVal, minVal, true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// parseLeadingInt parses as much of a C-style strtol(..., 0) integer
// (decimal, or 0x-prefixed hex) as it can from the front of s, returning
// the value and the number of bytes consumed -- the longest prefix of s
// that parses as an integer. It returns consumed=0 if no such prefix
// exists, matching strtol's "endptr == nptr" failure signal.
func parseLeadingInt(s string) (val, consumed int) {
	for n := len(s); n > 0; n-- {
		if v, err := strconv.ParseInt(s[:n], 0, 64); err == nil {
			return int(v), n
		}
	}
	return 0, 0
}
