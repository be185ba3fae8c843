// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2015-2023 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecdsa

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
)

// References:
//   [GECC]: Guide to Elliptic Curve Cryptography (Hankerson, Menezes, Vanstone)
//
//   [ISO/IEC 8825-1]: Information technology — ASN.1 encoding rules:
//     Specification of Basic Encoding Rules (BER), Canonical Encoding Rules
//     (CER) and Distinguished Encoding Rules (DER)
//
//   [SEC1]: Elliptic Curve Cryptography (May 31, 2009, Version 2.0)
//     https://www.secg.org/sec1-v2.pdf

// Signature is a type representing an ECDSA signature.
type Signature struct {
	r btcec.ModNScalar
	s btcec.ModNScalar
}

const (
	// asn1SequenceID is the ASN.1 identifier for a sequence and is used
	// when parsing and serializing signatures encoded with the
	// Distinguished Encoding Rules (DER) format per section 10 of
	// [ISO/IEC 8825-1].
	asn1SequenceID = 0x30

	// asn1IntegerID is the ASN.1 identifier for an integer and is used
	// when parsing and serializing signatures encoded with the
	// Distinguished Encoding Rules (DER) format per section 10 of
	// [ISO/IEC 8825-1].
	asn1IntegerID = 0x02
)

// groupOrderBytes is the order of the secp256k1 curve group serialized as 32
// big-endian bytes.  It is defined here as a static table to avoid computing
// it from the curve parameters at run time.
var groupOrderBytes = [32]byte{
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xfe,
	0xba, 0xae, 0xdc, 0xe6, 0xaf, 0x48, 0xa0, 0x3b,
	0xbf, 0xd2, 0x5e, 0x8c, 0xd0, 0x36, 0x41, 0x41,
}

// orderAsFieldVal is the order of the secp256k1 curve group stored as a field
// value.  It is initialized once from groupOrderBytes and never mutated.
var orderAsFieldVal btcec.FieldVal

func init() {
	orderAsFieldVal.SetBytes(&groupOrderBytes)
}

// NewSignature instantiates a new signature given some r and s values.
func NewSignature(r, s *btcec.ModNScalar) *Signature {
	return &Signature{*r, *s}
}

// R returns a copy of the r component of the signature.
func (sig *Signature) R() btcec.ModNScalar {
	return sig.r
}

// S returns a copy of the s component of the signature.
func (sig *Signature) S() btcec.ModNScalar {
	return sig.s
}

// IsEqual compares this Signature instance to the one passed, returning true
// if both Signatures are equivalent.  A signature is equivalent to another,
// if they both have the same scalar value for R and S.
func (sig *Signature) IsEqual(otherSig *Signature) bool {
	return sig.r.Equals(&otherSig.r) && sig.s.Equals(&otherSig.s)
}

// canonicalPrefix returns the number of bytes to discard from a buffer
// holding a zero byte followed by a fixed 32-byte big-endian value in order
// to obtain the minimal DER encoding of that value as a positive integer.
// Leading zero bytes are discarded so long as the byte that follows does not
// have the high bit set, which would flip the sign, and at least one byte
// always remains.
func canonicalPrefix(buf *[33]byte) int {
	discard := 0
	for discard < 32 && buf[discard] == 0x00 && buf[discard+1]&0x80 == 0 {
		discard++
	}
	return discard
}

// SerializedLen returns the number of bytes the signature occupies when
// serialized with the Distinguished Encoding Rules (DER) format.  The size
// varies with the magnitude of the R and S components and is at most 72.
func (sig *Signature) SerializedLen() int {
	var rBuf, sBuf [33]byte
	sig.r.PutBytesUnchecked(rBuf[1:])
	sig.s.PutBytesUnchecked(sBuf[1:])
	return 6 + (33 - canonicalPrefix(&rBuf)) + (33 - canonicalPrefix(&sBuf))
}

// SerializeTo serializes the signature with the Distinguished Encoding Rules
// (DER) format per section 10 of [ISO/IEC 8825-1] into the provided buffer
// and returns the number of bytes written.
//
// When the buffer is too small to hold the encoded signature, nothing is
// written and the returned count is the required size along with an error
// with kind ErrBufferTooSmall, so the caller can retry with adequate
// capacity.
//
// The R and S components are serialized exactly as held by the signature.
// In particular no low-S normalization takes place here since signing
// already produces the canonical form, and parsing followed by serializing
// must round trip.
func (sig *Signature) SerializeTo(buf []byte) (int, error) {
	// The format of a DER encoded signature is as follows:
	//
	// 0x30 <total length> 0x02 <length of R> <R> 0x02 <length of S> <S>
	//   - 0x30 is the ASN.1 identifier for a sequence
	//   - Total length is 1 byte and specifies length of all remaining data
	//   - 0x02 is the ASN.1 identifier that specifies an integer follows
	//   - Length of R is 1 byte and specifies how many bytes R occupies
	//   - R is the arbitrary length big-endian encoded number which
	//     represents the R value of the signature.  DER encoding dictates
	//     that the value must be encoded using the minimum possible number
	//     of bytes.  This implies the first byte can only be null if the
	//     highest bit of the next byte is set in order to prevent it from
	//     being interpreted as a negative number.
	//   - 0x02 is once again the ASN.1 integer identifier
	//   - Length of S is 1 byte and specifies how many bytes S occupies
	//   - S is the arbitrary length big-endian encoded number which
	//     represents the S value of the signature.  The encoding rules are
	//     identical as those for R.
	var rBuf, sBuf [33]byte
	sig.r.PutBytesUnchecked(rBuf[1:])
	sig.s.PutBytesUnchecked(sBuf[1:])
	canonR := rBuf[canonicalPrefix(&rBuf):]
	canonS := sBuf[canonicalPrefix(&sBuf):]

	// Total length of the signature is 1 byte for each magic and length
	// (6 total), plus the lengths of R and S.
	totalLen := 6 + len(canonR) + len(canonS)
	if len(buf) < totalLen {
		str := fmt.Sprintf("serialized signature requires %d bytes, but "+
			"the buffer only holds %d", totalLen, len(buf))
		return totalLen, signatureError(ErrBufferTooSmall, str)
	}

	buf[0] = asn1SequenceID
	buf[1] = byte(totalLen - 2)
	buf[2] = asn1IntegerID
	buf[3] = byte(len(canonR))
	copy(buf[4:], canonR)
	buf[4+len(canonR)] = asn1IntegerID
	buf[5+len(canonR)] = byte(len(canonS))
	copy(buf[6+len(canonR):], canonS)
	return totalLen, nil
}

// Serialize returns the signature serialized with the Distinguished Encoding
// Rules (DER) format per section 10 of [ISO/IEC 8825-1].  The R and S
// components are emitted exactly as held, see SerializeTo.
func (sig *Signature) Serialize() []byte {
	buf := make([]byte, sig.SerializedLen())
	n, _ := sig.SerializeTo(buf)
	return buf[:n]
}

// derReadLen decodes DER length octets starting at pos in sig and returns
// the decoded length along with the position of the first byte following
// them.  Both the short form and the long form are supported, with every
// distinguished encoding restriction enforced: the reserved octet 0xff and
// the indefinite form are rejected, the long form must be the shortest
// possible encoding of the length, and the length may not exceed the number
// of input bytes that remain.
func derReadLen(sig []byte, pos int) (int, int, error) {
	if pos >= len(sig) {
		return 0, 0, signatureError(ErrSigTooShort, "malformed signature: "+
			"truncated before length octets")
	}
	b1 := sig[pos]
	pos++

	// X.690-0207 8.1.3.5.c: the value 0xff shall not be used.
	if b1 == 0xff {
		return 0, 0, signatureError(ErrSigInvalidLen, "malformed signature: "+
			"reserved length octet 0xff")
	}

	// X.690-0207 8.1.3.4: short form length octets.
	if b1&0x80 == 0 {
		return int(b1), pos, nil
	}

	// Indefinite length is not allowed in DER.
	if b1 == 0x80 {
		return 0, 0, signatureError(ErrSigInvalidLen, "malformed signature: "+
			"indefinite length")
	}

	// X.690-0207 8.1.3.5: long form length octets.
	numOctets := int(b1 & 0x7f)
	if numOctets > len(sig)-pos {
		return 0, 0, signatureError(ErrSigInvalidLen, "malformed signature: "+
			"length octets exceed input")
	}
	if sig[pos] == 0x00 {
		// Not the shortest possible length encoding.
		return 0, 0, signatureError(ErrSigInvalidLen, "malformed signature: "+
			"leading zero length octet")
	}
	if numOctets > 8 {
		// The resulting length could not possibly describe the remaining
		// input.
		return 0, 0, signatureError(ErrSigInvalidLen, "malformed signature: "+
			"too many length octets")
	}
	var decoded uint64
	for i := 0; i < numOctets; i++ {
		decoded = decoded<<8 | uint64(sig[pos])
		pos++
	}
	if decoded > uint64(len(sig)-pos) {
		return 0, 0, signatureError(ErrSigInvalidLen, "malformed signature: "+
			"declared length exceeds input")
	}
	if decoded < 128 {
		// Values below 128 require the short form.
		return 0, 0, signatureError(ErrSigInvalidLen, "malformed signature: "+
			"long form length where short form sufficed")
	}
	return int(decoded), pos, nil
}

// derParseInt parses a DER integer starting at pos in sig into the provided
// scalar and returns the position of the first byte following it.
//
// Strictness and canonicalization follow the signature codec policy rather
// than generic ASN.1 integer conversion:
//
//   - Non-minimal two's complement padding is rejected.
//   - A set high bit on the first content byte conceptually describes a
//     negative number.  Scalars are unsigned, so the condition is treated as
//     an overflow, not an error.
//   - Values wider than 32 bytes after discarding a single sign padding
//     byte, and values greater than or equal to the group order, also
//     overflow.
//   - An overflowed integer parses successfully with the scalar forced to
//     zero and the declared length consumed.  The zero value is in turn
//     refused by signature verification, never by the parser.
func derParseInt(sig []byte, pos int, scalar *btcec.ModNScalar) (int, error) {
	// X.690-0207 8.3.1: a primitive integer.
	if pos >= len(sig) || sig[pos] != asn1IntegerID {
		return 0, signatureError(ErrSigInvalidIntID, "malformed signature: "+
			"integer identifier missing")
	}
	pos++

	intLen, next, err := derReadLen(sig, pos)
	if err != nil {
		return 0, err
	}
	pos = next

	// X.690-0207 8.3.1: at least one content octet.
	if intLen == 0 || intLen > len(sig)-pos {
		return 0, signatureError(ErrSigInvalidIntLen, "malformed signature: "+
			"integer length out of bounds")
	}

	// Excessive 0x00 padding.
	if sig[pos] == 0x00 && intLen > 1 && sig[pos+1]&0x80 == 0 {
		return 0, signatureError(ErrSigTooMuchPadding, "malformed signature: "+
			"excessive zero padding on integer")
	}

	// Excessive 0xff padding.
	if sig[pos] == 0xff && intLen > 1 && sig[pos+1]&0x80 == 0x80 {
		return 0, signatureError(ErrSigTooMuchPadding, "malformed signature: "+
			"excessive 0xff padding on integer")
	}

	// A set high bit describes a negative number.
	overflow := sig[pos]&0x80 == 0x80

	// There is at most one leading zero byte here because two would have
	// already failed the padding check above.  Skip it.
	if sig[pos] == 0x00 {
		pos++
		intLen--
	}
	if intLen > 32 {
		overflow = true
	}
	if !overflow {
		var buf [32]byte
		copy(buf[32-intLen:], sig[pos:pos+intLen])
		overflow = scalar.SetBytes(&buf) != 0
	}
	if overflow {
		scalar.SetInt(0)
	}
	return pos + intLen, nil
}

// ParseDERSignature parses a signature in the Distinguished Encoding Rules
// (DER) format per section 10 of [ISO/IEC 8825-1]: a sequence holding the R
// and S components as two big-endian integers.  Unlike lenient BER parsers,
// any deviation from the single valid encoding of the sequence and length
// octets is rejected, including trailing bytes and long length forms where
// a short form suffices.
//
// Integers that decode to a value outside the valid range for secp256k1
// scalars are not rejected; the affected component is canonicalized to zero
// instead and refused later by verification.  See derParseInt for the exact
// policy.
func ParseDERSignature(sig []byte) (*Signature, error) {
	// The encoding must start with a constructed sequence
	// (X.690-0207 8.9.1).
	if len(sig) == 0 {
		return nil, signatureError(ErrSigTooShort, "malformed signature: "+
			"no data")
	}
	if sig[0] != asn1SequenceID {
		str := fmt.Sprintf("malformed signature: format has wrong type: %#x",
			sig[0])
		return nil, signatureError(ErrSigInvalidSeqID, str)
	}

	dataLen, pos, err := derReadLen(sig, 1)
	if err != nil {
		return nil, err
	}

	// The declared sequence length must describe exactly the bytes that
	// remain, so the input is neither truncated nor followed by garbage.
	if dataLen != len(sig)-pos {
		str := fmt.Sprintf("malformed signature: bad length: %d != %d",
			dataLen, len(sig)-pos)
		return nil, signatureError(ErrSigInvalidDataLen, str)
	}

	var r, s btcec.ModNScalar
	pos, err = derParseInt(sig, pos, &r)
	if err != nil {
		return nil, err
	}
	pos, err = derParseInt(sig, pos, &s)
	if err != nil {
		return nil, err
	}

	// No bytes may remain inside the sequence after both integers.
	if pos != len(sig) {
		return nil, signatureError(ErrSigInvalidDataLen, "malformed "+
			"signature: trailing bytes inside sequence")
	}

	return &Signature{r: r, s: s}, nil
}

// fieldToModNScalar converts a field value to a scalar modulo the group
// order and returns the scalar along with either 1 if it was reduced (aka it
// overflowed) or 0 otherwise.
//
// Note that a bool is not used here because it is not possible in Go to
// convert from a bool to numeric value in constant time and many
// constant-time operations require a numeric value.
func fieldToModNScalar(v *btcec.FieldVal) (btcec.ModNScalar, uint32) {
	var buf [32]byte
	v.PutBytes(&buf)
	var s btcec.ModNScalar
	overflow := s.SetBytes(&buf)
	zeroArray32(&buf)
	return s, overflow
}

// modNScalarToField converts a scalar modulo the group order to a field
// value.
func modNScalarToField(v *btcec.ModNScalar) btcec.FieldVal {
	var buf [32]byte
	v.PutBytes(&buf)
	var fv btcec.FieldVal
	fv.SetBytes(&buf)
	return fv
}

// Verify returns whether or not the signature is valid for the provided hash
// and secp256k1 public key.
func (sig *Signature) Verify(hash []byte, pubKey *btcec.PublicKey) bool {
	// The algorithm for verifying an ECDSA signature is given as algorithm
	// 4.30 in [GECC].
	//
	// The following is a paraphrased version for reference:
	//
	// G = curve generator
	// N = curve order
	// Q = public key
	// m = message
	// R, S = signature
	//
	// 1. Fail if R and S are not in [1, N-1]
	// 2. e = H(m)
	// 3. w = S^-1 mod N
	// 4. u1 = e * w mod N
	//    u2 = R * w mod N
	// 5. X = u1G + u2Q
	// 6. Fail if X is the point at infinity
	// 7. x = X.x mod N (X.x is the x coordinate of X)
	// 8. Verified if x == R
	//
	// All group operations are done internally in Jacobian projective
	// space, so the algorithm is modified slightly here in order to avoid
	// an expensive inversion back into affine coordinates at step 7.
	//
	// Ordinarily step 7 would calculate x = X.x / X.z^2 (mod P) followed
	// by the remainder mod N.  Since R is the x coordinate mod N of a
	// point that was originally mod P, and the cofactor of the secp256k1
	// curve is 1, there are only two x coordinates mod P the original
	// point could have had to produce R: R itself, and R+N when R+N < P.
	// A naive single comparison would miss valid signatures whose nonce
	// point has an x coordinate in [N, P).
	//
	// The signature is therefore valid if either:
	//
	// a) R * X.z^2 == X.x (mod P)
	// --or--
	// b) R + N < P && (R + N) * X.z^2 == X.x (mod P)
	//
	// The modified algorithm:
	//
	// 1. Fail if R and S are not in [1, N-1]
	// 2. e = H(m)
	// 3. w = S^-1 mod N
	// 4. u1 = e * w mod N
	//    u2 = R * w mod N
	// 5. X = u1G + u2Q
	// 6. Fail if X is the point at infinity
	// 7. z = (X.z)^2 mod P (X.z is the z coordinate of X)
	// 8. Verified if R * z == X.x (mod P)
	// 9. Fail if R + N >= P
	// 10. Verified if (R + N) * z == X.x (mod P)
	//
	// The verification inputs are all public, so variable-time scalar and
	// field operations are used throughout.

	// Step 1.
	//
	// Fail if R and S are not in [1, N-1].
	if sig.r.IsZero() || sig.s.IsZero() {
		return false
	}

	// Step 2.
	//
	// e = H(m)
	var e btcec.ModNScalar
	e.SetByteSlice(hash)

	// Step 3.
	//
	// w = S^-1 mod N
	w := new(btcec.ModNScalar).InverseValNonConst(&sig.s)

	// Step 4.
	//
	// u1 = e * w mod N
	// u2 = R * w mod N
	u1 := new(btcec.ModNScalar).Mul2(&e, w)
	u2 := new(btcec.ModNScalar).Mul2(&sig.r, w)

	// Step 5.
	//
	// X = u1G + u2Q
	var X, Q, u1G, u2Q btcec.JacobianPoint
	pubKey.AsJacobian(&Q)
	btcec.ScalarBaseMultNonConst(u1, &u1G)
	btcec.ScalarMultNonConst(u2, &Q, &u2Q)
	btcec.AddNonConst(&u1G, &u2Q, &X)

	// Step 6.
	//
	// Fail if X is the point at infinity.
	if (X.X.IsZero() && X.Y.IsZero()) || X.Z.IsZero() {
		return false
	}

	// Step 7.
	//
	// z = (X.z)^2 mod P (X.z is the z coordinate of X)
	z := new(btcec.FieldVal).SquareVal(&X.Z)

	// Step 8.
	//
	// Verified if R * z == X.x (mod P)
	sigRModP := modNScalarToField(&sig.r)
	result := new(btcec.FieldVal).Mul2(&sigRModP, z).Normalize()
	if result.Equals(&X.X) {
		return true
	}

	// Step 9.
	//
	// Fail if R + N >= P
	if sigRModP.IsGtOrEqPrimeMinusOrder() {
		return false
	}

	// Step 10.
	//
	// Verified if (R + N) * z == X.x (mod P)
	sigRModP.Add(&orderAsFieldVal)
	result.Mul2(&sigRModP, z).Normalize()
	return result.Equals(&X.X)
}

// RecoveryCode describes which of the candidate nonce points produced a
// signature so the public key can later be recovered from the signature and
// message hash alone.  It is combined into its 2-bit wire representation
// only at the compact signature boundary.
type RecoveryCode struct {
	// Overflowed indicates the X coordinate of the nonce point was greater
	// than or equal to the group order before reduction.  Hasse's theorem
	// puts the chance of that near 1 in 2^127, yet such points exist and
	// the condition must be tracked rather than assumed away.
	Overflowed bool

	// OddY indicates the Y coordinate of the nonce point is odd.  The flag
	// follows the low-S negation performed while signing since negating S
	// mirrors the nonce point over the X axis.
	OddY bool
}

const (
	// recoveryCodeOddnessBit specifies the bit that indicates the oddness
	// of the Y coordinate of the nonce point in the wire representation of
	// a recovery code.
	recoveryCodeOddnessBit = 1 << 0

	// recoveryCodeOverflowBit specifies the bit that indicates the X
	// coordinate of the nonce point was >= N in the wire representation of
	// a recovery code.
	recoveryCodeOverflowBit = 1 << 1
)

// value packs the recovery code into its 2-bit wire representation.
func (code RecoveryCode) value() byte {
	var v byte
	if code.Overflowed {
		v |= recoveryCodeOverflowBit
	}
	if code.OddY {
		v |= recoveryCodeOddnessBit
	}
	return v
}

// parseRecoveryCode unpacks the 2-bit wire representation produced by value.
func parseRecoveryCode(v byte) RecoveryCode {
	return RecoveryCode{
		Overflowed: v&recoveryCodeOverflowBit != 0,
		OddY:       v&recoveryCodeOddnessBit != 0,
	}
}

// sign generates an ECDSA signature over the secp256k1 curve for the
// provided hash using the given private key and nonce scalars.  It returns
// the signature along with the recovery code needed to recover the public
// key from it.
func sign(privKey, nonce *btcec.ModNScalar, hash []byte) (*Signature, RecoveryCode, error) {
	// The algorithm for producing an ECDSA signature is given as algorithm
	// 4.29 in [GECC] with an externally supplied nonce:
	//
	// G = curve generator
	// N = curve order
	// d = private key
	// k = nonce
	// m = message
	// r, s = signature
	//
	// 1. Compute kG
	// 2. r = kG.x mod N (kG.x is the x coordinate of the point kG)
	// 3. e = H(m)
	// 4. s = k^-1(e + dr) mod N
	// 5. s = -s if s > N/2 so the result is the canonical low-S form
	// 6. Fail if r = 0 or s = 0
	//
	// The recovery code records, before the negation in step 5, whether
	// kG.x overflowed N in step 2 and whether kG.y is odd, then flips the
	// oddness flag alongside the negation.

	// Step 1.
	//
	// Compute kG
	//
	// Note that the point must be in affine coordinates.
	var kG btcec.JacobianPoint
	btcec.ScalarBaseMultNonConst(nonce, &kG)
	kG.ToAffine()

	// Step 2.
	//
	// r = kG.x mod N
	r, overflow := fieldToModNScalar(&kG.X)
	code := RecoveryCode{Overflowed: overflow != 0, OddY: kG.Y.IsOdd()}

	// Step 3.
	//
	// e = H(m)
	//
	// Note that this sets e = H(m) mod N which is correct since it is only
	// used in step 4 which itself is mod N.
	var e btcec.ModNScalar
	e.SetByteSlice(hash)

	// Step 4.
	//
	// s = k^-1(e + dr) mod N
	kInv := new(btcec.ModNScalar).InverseValNonConst(nonce)
	s := new(btcec.ModNScalar).Mul2(privKey, &r).Add(&e).Mul(kInv)

	// The nonce point and the inverted nonce are secret dependent.  Wipe
	// them before the result checks so every exit path below leaves no
	// trace of them.  The caller retains ownership of the nonce itself.
	kInv.Zero()
	kG.X.Zero()
	kG.Y.Zero()
	kG.Z.Zero()

	// Step 5.
	//
	// s = -s if s > N/2
	//
	// Both s and its negation are valid signatures modulo the order, so
	// this forces a consistent choice to reduce signature malleability.
	// Negating s corresponds to the nonce point mirrored over the X axis,
	// which necessarily has the opposite Y oddness since N is prime.
	if s.IsOverHalfOrder() {
		s.Negate()
		code.OddY = !code.OddY
	}

	// Step 6.
	//
	// Fail if r = 0 or s = 0.  Hitting either case requires finding the
	// discrete log of a point whose x coordinate is 0 mod N, which is
	// cryptographically unreachable, but it would name an invalid
	// signature and so must still be checked.  Both checks run after the
	// full computation so valid and invalid secret inputs share one code
	// path.
	if r.IsZero() {
		return nil, RecoveryCode{}, signatureError(ErrSigRIsZero, "the "+
			"nonce produced an R value of zero")
	}
	if s.IsZero() {
		return nil, RecoveryCode{}, signatureError(ErrSigSIsZero, "the "+
			"nonce produced an S value of zero")
	}

	return NewSignature(&r, s), code, nil
}

// SignWithNonce generates an ECDSA signature over the secp256k1 curve for
// the provided hash using the given private key and a caller-supplied nonce
// scalar.  It exists for protocol layers that derive the nonce themselves;
// ordinary signing should use Sign, which derives a deterministic nonce per
// RFC6979.  The returned recovery code identifies the nonce point for
// public key recovery.
//
// The nonce is not consumed and must be zeroed by the caller once it is no
// longer needed.  A nonce whose point produces an R or S value of zero
// yields an error with kind ErrSigRIsZero or ErrSigSIsZero; the caller must
// derive a fresh nonce in that case.
//
// Note that the current signing implementation has a few remaining variable
// time aspects which make use of the private key and the nonce, which can
// expose the signer to constant time attacks.  As a result, this function
// should not be used in situations where attackers can observe and measure
// the precise signing time.
func SignWithNonce(privKey *btcec.PrivateKey, hash []byte, nonce *btcec.ModNScalar) (*Signature, RecoveryCode, error) {
	return sign(&privKey.Key, nonce, hash)
}

// signRFC6979 generates a deterministic ECDSA signature according to RFC
// 6979 and BIP0062 and returns it along with the recovery code for public
// key recovery.
func signRFC6979(privKey *btcec.PrivateKey, hash []byte) (*Signature, RecoveryCode) {
	privKeyScalar := &privKey.Key
	var privKeyBytes [32]byte
	privKeyScalar.PutBytes(&privKeyBytes)
	defer zeroArray32(&privKeyBytes)
	for iteration := uint32(0); ; iteration++ {
		// Generate a deterministic nonce in [1, N-1] parameterized by the
		// private key, the message being signed, and an iteration count.
		k := btcec.NonceRFC6979(privKeyBytes[:], hash, nil, nil, iteration)
		sig, code, err := sign(privKeyScalar, k, hash)
		k.Zero()
		if err != nil {
			// A zero R or S value is cryptographically unreachable for any
			// realistic nonce, but the contract requires trying the next
			// deterministic nonce rather than accepting it.
			continue
		}
		return sig, code
	}
}

// Sign generates an ECDSA signature over the secp256k1 curve for the
// provided hash (which should be the result of hashing a larger message)
// using the given private key.  The produced signature is deterministic
// (same message and same key yield the same signature) and canonical in
// accordance with RFC6979 and BIP0062.
//
// Note that the current signing implementation has a few remaining variable
// time aspects which make use of the private key and the generated nonce,
// which can expose the signer to constant time attacks.  As a result, this
// function should not be used in situations where attackers can observe and
// measure the precise signing time.
func Sign(privKey *btcec.PrivateKey, hash []byte) *Signature {
	sig, _ := signRFC6979(privKey, hash)
	return sig
}

const (
	// compactSigSize is the size of a compact signature.  It consists of a
	// compact signature recovery code byte followed by the R and S
	// components serialized as 32-byte big-endian values.  1+32*2 = 65.
	compactSigSize = 65

	// compactSigMagicOffset is a value used when creating the compact
	// signature recovery code inherited from Bitcoin and has no meaning,
	// but has been retained for compatibility.  For historical purposes,
	// it was originally picked to avoid a binary representation that
	// would allow compact signatures to be mistaken for other components.
	compactSigMagicOffset = 27

	// compactSigCompPubKey is a value used when creating the compact
	// signature recovery code to indicate the original public key was
	// compressed.
	compactSigCompPubKey = 4
)

// SerializeCompact returns the signature serialized in the 65-byte compact
// format that supports public key recovery.  The recovery code must be the
// one produced alongside the signature and the isCompressedKey parameter
// specifies if the produced signature should reference a compressed public
// key or not.
//
// Compact signature format:
// <1-byte compact sig recovery code><32-byte R><32-byte S>
//
// The compact sig recovery code is the value 27 + public key recovery code
// + 4 if the compact signature was created with a compressed public key.
func (sig *Signature) SerializeCompact(code RecoveryCode, isCompressedKey bool) []byte {
	compactSigRecoveryCode := compactSigMagicOffset + code.value()
	if isCompressedKey {
		compactSigRecoveryCode += compactSigCompPubKey
	}

	// Output <compactSigRecoveryCode><32-byte R><32-byte S>.
	var b [compactSigSize]byte
	b[0] = compactSigRecoveryCode
	sig.r.PutBytesUnchecked(b[1:33])
	sig.s.PutBytesUnchecked(b[33:])
	return b[:]
}

// SignCompact produces a compact signature of the data in hash with the
// given private key on the secp256k1 curve.  The isCompressedKey parameter
// specifies if the produced signature should reference a compressed public
// key or not.
//
// See SerializeCompact for the format of the produced signature.
func SignCompact(privKey *btcec.PrivateKey, hash []byte, isCompressedKey bool) ([]byte, error) {
	// Create the signature and associated pubkey recovery code and output
	// it in the compact format.
	sig, code := signRFC6979(privKey, hash)
	return sig.SerializeCompact(code, isCompressedKey), nil
}

// RecoverCompact attempts to recover the secp256k1 public key from the
// provided compact signature and message hash.  It first verifies the
// signature, and, if the signature matches then the recovered public key
// will be returned as well as a boolean indicating whether or not the
// original key was compressed.
func RecoverCompact(signature, hash []byte) (*btcec.PublicKey, bool, error) {
	// The following is very loosely based on the information and algorithm
	// that describes recovering a public key from an ECDSA signature in
	// section 4.1.6 of [SEC1].
	//
	// Given the following parameters:
	//
	// G = curve generator
	// N = group order
	// P = field prime
	// Q = public key
	// m = message
	// e = hash of the message
	// r, s = signature
	// X = random point used when creating signature whose x coordinate is r
	//
	// The equation to recover a public key candidate from an ECDSA
	// signature is:
	// Q = r^-1(sX - eG)
	//
	// This can be verified by plugging it in for Q in the sig verification
	// equation:
	// X = s^-1(eG + rQ) (mod N)
	//  => s^-1(eG + r(r^-1(sX - eG))) (mod N)
	//  => s^-1(eG + sX - eG) (mod N)
	//  => s^-1(sX) (mod N)
	//  => X (mod N)
	//
	// Note that r is the x coordinate mod N of a point that was originally
	// mod P, so there are four possible points the original could have
	// been: (r,y), (r,-y), (r+N,y), and (r+N,-y).  The recovery code
	// produced at signing time uniquely identifies which one applies:
	//
	// 1. Fail if r and s are not in [1, N-1]
	// 2. Convert r to integer mod P
	// 3. If the recovery code overflow flag is set:
	//    3.1 Fail if r + N >= P
	//    3.2 r = r + N (mod P)
	// 4. y = +sqrt(r^3 + 7) (mod P)
	//    4.1 Fail if y does not exist
	//    4.2 y = -y if its oddness does not match the recovery code
	// 5. X = (r, y)
	// 6. e = H(m) mod N
	// 7. w = r^-1 mod N
	// 8. u1 = -(e * w) mod N
	//    u2 = s * w mod N
	// 9. Q = u1G + u2X
	// 10. Fail if Q is the point at infinity

	// A compact signature consists of a recovery byte followed by the R
	// and S components serialized as 32-byte big-endian values.
	if len(signature) != compactSigSize {
		str := fmt.Sprintf("malformed signature: wrong size: %d != %d",
			len(signature), compactSigSize)
		return nil, false, signatureError(ErrInvalidCompactSigSize, str)
	}

	// Parse and validate the compact signature recovery code.
	const (
		minValidCode = compactSigMagicOffset
		maxValidCode = compactSigMagicOffset + compactSigCompPubKey + 3
	)
	if signature[0] < minValidCode || signature[0] > maxValidCode {
		str := fmt.Sprintf("invalid compact signature recovery code: %d",
			signature[0])
		return nil, false, signatureError(ErrInvalidCompactSigCode, str)
	}
	sigRecoveryCode := signature[0] - compactSigMagicOffset
	wasCompressed := sigRecoveryCode&compactSigCompPubKey != 0
	code := parseRecoveryCode(sigRecoveryCode & 3)

	// Step 1.
	//
	// Parse and validate the R and S signature components.
	//
	// Fail if r and s are not in [1, N-1].
	var r, s btcec.ModNScalar
	if overflow := r.SetByteSlice(signature[1:33]); overflow {
		str := "invalid compact signature: R >= group order"
		return nil, false, signatureError(ErrSigRTooBig, str)
	}
	if r.IsZero() {
		str := "invalid compact signature: R is 0"
		return nil, false, signatureError(ErrSigRIsZero, str)
	}
	if overflow := s.SetByteSlice(signature[33:]); overflow {
		str := "invalid compact signature: S >= group order"
		return nil, false, signatureError(ErrSigSTooBig, str)
	}
	if s.IsZero() {
		str := "invalid compact signature: S is 0"
		return nil, false, signatureError(ErrSigSIsZero, str)
	}

	// Step 2.
	//
	// Convert r to integer mod P.
	fieldR := modNScalarToField(&r)

	// Step 3.
	//
	// If the recovery code overflow flag is set:
	if code.Overflowed {
		// Step 3.1.
		//
		// Fail if r + N >= P.
		//
		// Either the signature or the recovery code must be invalid if the
		// overflow flag is set and adding N to the R component would
		// exceed the field prime since R originally came from the X
		// coordinate of a random point on the curve.
		if fieldR.IsGtOrEqPrimeMinusOrder() {
			str := "invalid compact signature: signature R + N >= P"
			return nil, false, signatureError(ErrSigOverflowsPrime, str)
		}

		// Step 3.2.
		//
		// r = r + N (mod P)
		fieldR.Add(&orderAsFieldVal)
	}

	// Step 4.
	//
	// y = +sqrt(r^3 + 7) (mod P)
	// Fail if y does not exist.
	// y = -y if its oddness does not match the recovery code.
	var y btcec.FieldVal
	if valid := btcec.DecompressY(&fieldR, code.OddY, &y); !valid {
		str := "invalid compact signature: not for a valid curve point"
		return nil, false, signatureError(ErrPointNotOnCurve, str)
	}

	// Step 5.
	//
	// X = (r, y)
	var X btcec.JacobianPoint
	X.X.Set(fieldR.Normalize())
	X.Y.Set(y.Normalize())
	X.Z.SetInt(1)

	// Step 6.
	//
	// e = H(m) mod N
	var e btcec.ModNScalar
	e.SetByteSlice(hash)

	// Step 7.
	//
	// w = r^-1 mod N
	w := new(btcec.ModNScalar).InverseValNonConst(&r)

	// Step 8.
	//
	// u1 = -(e * w) mod N
	// u2 = s * w mod N
	u1 := new(btcec.ModNScalar).Mul2(&e, w).Negate()
	u2 := new(btcec.ModNScalar).Mul2(&s, w)

	// Step 9.
	//
	// Q = u1G + u2X
	var Q, u1G, u2X btcec.JacobianPoint
	btcec.ScalarBaseMultNonConst(u1, &u1G)
	btcec.ScalarMultNonConst(u2, &X, &u2X)
	btcec.AddNonConst(&u1G, &u2X, &Q)

	// Step 10.
	//
	// Fail if Q is the point at infinity.
	//
	// Either the signature or the recovery code must be invalid if the
	// recovered pubkey is the point at infinity.
	if (Q.X.IsZero() && Q.Y.IsZero()) || Q.Z.IsZero() {
		str := "invalid compact signature: recovered pubkey is the point " +
			"at infinity"
		return nil, false, signatureError(ErrPubKeyAtInfinity, str)
	}

	// Notice that the public key is in affine coordinates.
	Q.ToAffine()
	pubKey := btcec.NewPublicKey(&Q.X, &Q.Y)
	return pubKey, wasCompressed, nil
}

// zeroArray32 zeroes the provided 32-byte buffer.
func zeroArray32(b *[32]byte) {
	copy(b[:], zero32[:])
}

// zero32 is an array of 32 zero bytes used to zero out the private portions
// of keys and nonces copied into byte arrays.
var zero32 = [32]byte{}
