//go:build gofuzz || go1.18

// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2015-2023 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecdsa

import (
	"strings"
	"testing"
)

func FuzzParseDERSignature(f *testing.F) {
	// Seeds covering representative accepted encodings, including the out
	// of range integers that canonicalize to zero and a long form length.
	seeds := []string{
		"304402201008e236fa8cd0f25df4482dddbb622e8a8b26ef0ba731719458de3c" +
			"cd93805b022032f8ebe514ba5f672466eba334639282616bb3c2f0ab0999" +
			"8037513d1f9e3d6d",
		"30450220090ebfb3690a0ff115bb1b38b8b323a667b7653454f1bccb06d4bbdc" +
			"a42c2079022100ec95778b51e7071cb1205f8bde9af6592fc978b0452daf" +
			"e599481c46d6b2e479",
		"3006020101020101",
		"3006020100020101",
		"3026022100fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e" +
			"8cd0364141020101",
		"3081860281807f" + strings.Repeat("00", 127) + "020101",
	}
	for _, seed := range seeds {
		f.Add(hexToBytes(seed))
	}

	f.Fuzz(func(t *testing.T, input []byte) {
		sig, err := ParseDERSignature(input)
		if sig == nil && err == nil {
			panic("sig==nil && err==nil")
		}
		if sig != nil && err != nil {
			panic("sig!=nil yet err!=nil")
		}
		if err != nil {
			return
		}

		// Whatever was accepted must reserialize into a canonical encoding
		// that is never larger than the accepted input and parses back to
		// the same signature.
		serialized := sig.Serialize()
		if len(serialized) > len(input) {
			panic("canonical serialization larger than accepted input")
		}
		reparsed, err := ParseDERSignature(serialized)
		if err != nil {
			panic("canonical serialization failed to parse: " + err.Error())
		}
		if !sig.IsEqual(reparsed) {
			panic("signature changed across serialize and parse round trip")
		}
	})
}
