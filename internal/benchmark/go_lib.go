// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package benchmark

import "io"
import kpflate "github.com/klauspost/compress/flate"
import "github.com/ulikunitz/xz"

func init() {
	registerEncoder(FormatFlate, "kp",
		func(w io.Writer, lvl int) io.WriteCloser {
			zw, err := kpflate.NewWriter(w, lvl)
			if err != nil {
				panic(err)
			}
			return zw
		})

	registerEncoder(FormatXZ, "xz",
		func(w io.Writer, lvl int) io.WriteCloser {
			// The xz format has no notion of a numeric compression level;
			// lvl is accepted only to satisfy the common Encoder signature.
			zw, err := xz.NewWriter(w)
			if err != nil {
				panic(err)
			}
			return zw
		})
}
