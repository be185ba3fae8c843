// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2015-2023 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecdsa

// ErrorKind identifies a kind of error.  It has full support for errors.Is
// and errors.As, so the caller can directly check against an error kind
// when determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific Error.
const (
	// ErrSigTooShort is returned when a signature that should be a DER
	// signature is empty or is otherwise truncated before its sequence
	// header is complete.
	ErrSigTooShort = ErrorKind("ErrSigTooShort")

	// ErrSigInvalidSeqID is returned when a signature that should be a DER
	// signature does not start with the ASN.1 sequence identifier.
	ErrSigInvalidSeqID = ErrorKind("ErrSigInvalidSeqID")

	// ErrSigInvalidLen is returned when the length octets of a DER
	// signature violate the distinguished encoding rules: the reserved
	// 0xff octet, indefinite length, a non-minimal long form, a leading
	// zero length octet, or a length that exceeds the available input.
	ErrSigInvalidLen = ErrorKind("ErrSigInvalidLen")

	// ErrSigInvalidDataLen is returned when the declared length of the
	// sequence does not match the number of input bytes it must describe,
	// either because the input is truncated, has bytes beyond the
	// sequence, or has bytes left over inside it after both integers.
	ErrSigInvalidDataLen = ErrorKind("ErrSigInvalidDataLen")

	// ErrSigInvalidIntID is returned when either integer of a DER
	// signature does not start with the ASN.1 integer identifier.
	ErrSigInvalidIntID = ErrorKind("ErrSigInvalidIntID")

	// ErrSigInvalidIntLen is returned when either integer of a DER
	// signature is zero length or its length exceeds the remaining input.
	ErrSigInvalidIntLen = ErrorKind("ErrSigInvalidIntLen")

	// ErrSigTooMuchPadding is returned when either integer of a DER
	// signature carries a padding byte the minimal two's complement
	// encoding would not have: a leading 0x00 followed by a byte with the
	// high bit clear, or a leading 0xff followed by a byte with the high
	// bit set.
	ErrSigTooMuchPadding = ErrorKind("ErrSigTooMuchPadding")

	// ErrSigRIsZero is returned when the R component of a signature is
	// zero during signing or compact signature recovery.  A zero R can
	// only arise from a pathological nonce and never names a valid
	// signature.
	ErrSigRIsZero = ErrorKind("ErrSigRIsZero")

	// ErrSigSIsZero is returned when the S component of a signature is
	// zero during signing or compact signature recovery.
	ErrSigSIsZero = ErrorKind("ErrSigSIsZero")

	// ErrSigRTooBig is returned during compact signature recovery when the
	// R component of the signature is greater than or equal to the group
	// order.
	ErrSigRTooBig = ErrorKind("ErrSigRTooBig")

	// ErrSigSTooBig is returned during compact signature recovery when the
	// S component of the signature is greater than or equal to the group
	// order.
	ErrSigSTooBig = ErrorKind("ErrSigSTooBig")

	// ErrBufferTooSmall is returned when the buffer handed to SerializeTo
	// cannot hold the encoded signature.  The accompanying description
	// names the required size and nothing is written.
	ErrBufferTooSmall = ErrorKind("ErrBufferTooSmall")

	// ErrInvalidCompactSigSize is returned when a compact signature is not
	// exactly 65 bytes.
	ErrInvalidCompactSigSize = ErrorKind("ErrInvalidCompactSigSize")

	// ErrInvalidCompactSigCode is returned when the recovery code byte of
	// a compact signature is outside the valid range.
	ErrInvalidCompactSigCode = ErrorKind("ErrInvalidCompactSigCode")

	// ErrSigOverflowsPrime is returned during compact signature recovery
	// when the recovery code indicates the X coordinate of the nonce point
	// overflowed the group order and yet adding the order to the R
	// component would equal or exceed the field prime.
	ErrSigOverflowsPrime = ErrorKind("ErrSigOverflowsPrime")

	// ErrPointNotOnCurve is returned during compact signature recovery
	// when the X coordinate described by the signature and recovery code
	// does not belong to a point on the curve.
	ErrPointNotOnCurve = ErrorKind("ErrPointNotOnCurve")

	// ErrPubKeyAtInfinity is returned during compact signature recovery
	// when the recovered public key is the point at infinity.
	ErrPubKeyAtInfinity = ErrorKind("ErrPubKeyAtInfinity")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Error identifies an error related to an ECDSA signature.  It has full
// support for errors.Is and errors.As, so the caller can ascertain the
// specific reason for the error by checking the underlying error.
type Error struct {
	Err         error
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e Error) Unwrap() error {
	return e.Err
}

// signatureError creates an Error given a set of arguments.
func signatureError(kind ErrorKind, desc string) Error {
	return Error{Err: kind, Description: desc}
}
