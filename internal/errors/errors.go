// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package errors implements functions to manipulate and categorize errors
// generated by the codec packages in this module.
//
// The donut and dte packages' sentinel errors are values of their own Error
// string types and carry no Kind; of this package, dte uses only Panic and
// Recover.
package errors

import (
	"fmt"
	"runtime"
)

// Kind reports the broad category of an Error so that callers can
// distinguish a malformed stream from a programmer mistake without
// resorting to string matching.
type Kind uint8

const (
	// Corrupted means the encoded stream itself is invalid.
	Corrupted Kind = iota
	// Invalid means the caller supplied a nonsensical argument.
	Invalid
	// Deprecated means the input uses a format variant this package
	// intentionally does not support.
	Deprecated
	// IO wraps an error from the underlying io.Reader or io.Writer.
	IO
)

func (k Kind) String() string {
	switch k {
	case Corrupted:
		return "corrupted"
	case Invalid:
		return "invalid"
	case Deprecated:
		return "deprecated"
	case IO:
		return "I/O"
	default:
		return "unknown"
	}
}

// Error is the wrapper type for errors generated by this module's codecs.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// IsCorrupted reports whether err was generated with kind Corrupted.
func IsCorrupted(err error) bool { return kindOf(err) == Corrupted }

// IsInvalid reports whether err was generated with kind Invalid.
func IsInvalid(err error) bool { return kindOf(err) == Invalid }

func kindOf(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return Kind(255)
}

// errorf constructs an *Error of the given kind.
func errorf(k Kind, format string, a ...interface{}) error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, a...)}
}

// New constructs an *Error of the given kind with a fixed message.
func New(k Kind, msg string) error { return &Error{Kind: k, Msg: msg} }

// Errorf constructs an *Error of the given kind with a formatted message.
func Errorf(k Kind, format string, a ...interface{}) error { return errorf(k, format, a...) }

// Panic panics with err, to be caught by a deferred call to Recover.
func Panic(err error) { panic(err) }

// Panicf is the panicking counterpart to Errorf, for fast paths that are
// wrapped by a deferred Recover.
func Panicf(k Kind, format string, a ...interface{}) { panic(errorf(k, format, a...)) }

// Recover recovers from a panic raised by Panic or Panicf and stores it in
// *err. Runtime errors (nil pointer dereferences, index out of range, and
// so on) are not swallowed; they continue to panic since they indicate a
// bug in this module rather than a malformed input.
func Recover(err *error) {
	switch ex := recover().(type) {
	case nil:
		// Do nothing.
	case runtime.Error:
		panic(ex)
	case error:
		*err = ex
	default:
		panic(ex)
	}
}
