package group

import (
	"bytes"
	"encoding/base64"

	"go.dedis.ch/kyber/v3"

	"github.com/pangea-net/fdc/pkg/fdcerr"
)

// PointLen is the canonical encoded length of a Point, in bytes.
const PointLen = 32

// Point is an element of the group (a PublicKey, or an intermediate
// value such as an ephemeral DH term).
type Point struct {
	v kyber.Point
}

// ZeroPoint returns the group identity (point at infinity).
func ZeroPoint() Point { return Point{v: suite.Point().Null()} }

// BasePoint returns the fixed generator G.
func BasePoint() Point { return Point{v: suite.Point().Base()} }

// Add returns p + other.
func (p Point) Add(other Point) Point {
	return Point{v: suite.Point().Add(p.v, other.v)}
}

// Sub returns p - other.
func (p Point) Sub(other Point) Point {
	return Point{v: suite.Point().Sub(p.v, other.v)}
}

// Neg returns -p.
func (p Point) Neg() Point {
	return Point{v: suite.Point().Neg(p.v)}
}

// Mul returns s*p, the same product as Scalar.MulPoint with the
// receivers swapped.
func (p Point) Mul(s Scalar) Point {
	return Point{v: suite.Point().Mul(s.v, p.v)}
}

// Equal reports whether p and other encode the same group element.
func (p Point) Equal(other Point) bool {
	return p.v.Equal(other.v)
}

// IsZero reports whether p is the group identity.
func (p Point) IsZero() bool {
	return p.Equal(ZeroPoint())
}

// Bytes returns the 32-byte canonical compressed encoding.
func (p Point) Bytes() []byte {
	b, err := p.v.MarshalBinary()
	if err != nil {
		// kyber's edwards25519 point marshaling never fails.
		panic("group: point marshal: " + err.Error())
	}
	return b
}

// Encode returns the base64 (RFC 4648, standard alphabet, padded)
// encoding of the canonical compressed representation.
func (p Point) Encode() string {
	return base64.StdEncoding.EncodeToString(p.Bytes())
}

// DecodePoint parses a base64-encoded Point, rejecting malformed
// base64, short input, non-canonical encodings, and encodings that do
// not land on a valid curve point in the prime-order subgroup.
func DecodePoint(value string) (Point, error) {
	data, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return Point{}, fdcerr.Wrap(fdcerr.BadEncoding, "PublicKey: invalid base64", err)
	}
	return DecodePointBytes(data)
}

// DecodePointBytes parses the raw canonical encoding of a Point,
// applying the same length and canonicality checks as DecodePoint.
func DecodePointBytes(data []byte) (Point, error) {
	if len(data) < PointLen {
		return Point{}, fdcerr.New(fdcerr.BadEncoding, "PublicKey: decoded value is less than 32 bytes")
	}
	raw := data[:PointLen]

	pt := suite.Point()
	if err := pt.UnmarshalBinary(raw); err != nil {
		return Point{}, fdcerr.Wrap(fdcerr.BadEncoding, "PublicKey: unable to decode point", err)
	}

	reencoded, err := pt.MarshalBinary()
	if err != nil || !bytes.Equal(reencoded, raw) {
		return Point{}, fdcerr.New(fdcerr.BadEncoding, "PublicKey: point encoding is not canonical")
	}

	return Point{v: pt}, nil
}
