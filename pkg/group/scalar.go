package group

import (
	"bytes"
	"encoding/base64"

	"go.dedis.ch/kyber/v3"

	"github.com/pangea-net/fdc/internal/randutil"
	"github.com/pangea-net/fdc/pkg/fdcerr"
)

// ScalarLen is the canonical encoded length of a Scalar, in bytes.
const ScalarLen = 32

// Scalar is an element of the group's scalar field Z/qZ. The zero value
// is not meaningful; use ZeroScalar, OneScalar, RandScalar, FromHash,
// FromUint32, or FromUint64.
type Scalar struct {
	v kyber.Scalar
}

// ZeroScalar returns the additive identity.
func ZeroScalar() Scalar { return Scalar{v: suite.Scalar().Zero()} }

// OneScalar returns the multiplicative identity.
func OneScalar() Scalar { return Scalar{v: suite.Scalar().One()} }

// RandScalar draws a uniformly random scalar via a 64-byte wide reduction
// over the process CSPRNG, matching the reference's rand_scalar().
func RandScalar() Scalar {
	var wide [64]byte
	b, err := randutil.Bytes(64)
	if err != nil {
		// crypto/rand failing is unrecoverable for the whole process;
		// the reference has no fallible path here either.
		panic("group: crypto RNG unavailable: " + err.Error())
	}
	copy(wide[:], b)
	return Scalar{v: suite.Scalar().SetBytes(wide[:])}
}

// FromHash reduces a 512-bit digest into a scalar via wide reduction, as
// used by the Schnorr nonce and LambdaKey-adjacent derivations.
func FromHash(digest []byte) Scalar {
	return Scalar{v: suite.Scalar().SetBytes(digest)}
}

// FromUint32 maps a non-negative integer into the field.
func FromUint32(x uint32) Scalar { return Scalar{v: suite.Scalar().SetInt64(int64(x))} }

// FromUint64 maps a non-negative integer into the field.
func FromUint64(x uint64) Scalar {
	// Split into 32-bit halves so values >= 2^63 do not wrap negative
	// through the int64 conversion.
	hi := suite.Scalar().SetInt64(int64(x >> 32))
	lo := suite.Scalar().SetInt64(int64(x & 0xffffffff))
	shift := suite.Scalar().SetInt64(1 << 32)
	return Scalar{v: suite.Scalar().Add(suite.Scalar().Mul(hi, shift), lo)}
}

// Add returns s + other.
func (s Scalar) Add(other Scalar) Scalar {
	return Scalar{v: suite.Scalar().Add(s.v, other.v)}
}

// Sub returns s - other.
func (s Scalar) Sub(other Scalar) Scalar {
	return Scalar{v: suite.Scalar().Sub(s.v, other.v)}
}

// Neg returns -s.
func (s Scalar) Neg() Scalar {
	return Scalar{v: suite.Scalar().Neg(s.v)}
}

// Mul returns s * other.
func (s Scalar) Mul(other Scalar) Scalar {
	return Scalar{v: suite.Scalar().Mul(s.v, other.v)}
}

// Invert returns s^-1. Undefined (kyber panics) if s is zero.
func (s Scalar) Invert() Scalar {
	return Scalar{v: suite.Scalar().Inv(s.v)}
}

// MulPoint returns s*P, the cross-type product of a Scalar and a Point.
// Point.Mul(Scalar) is the commutative counterpart.
func (s Scalar) MulPoint(p Point) Point {
	return Point{v: suite.Point().Mul(s.v, p.v)}
}

// Equal reports whether s and other encode the same field element.
func (s Scalar) Equal(other Scalar) bool {
	return s.v.Equal(other.v)
}

// IsZero reports whether s is the additive identity.
func (s Scalar) IsZero() bool {
	return s.Equal(ZeroScalar())
}

// Zero overwrites s's internal representation with the additive
// identity, mirroring the reference's Drop impl for secret scalars.
// Callers holding a secret scalar past the lifetime of a single
// operation (a trapdoor, an ephemeral nonce) should defer Zero to avoid
// leaving key material live on the heap. s remains a valid (zero)
// Scalar afterward, just no longer usable as a secret.
func (s *Scalar) Zero() {
	s.v.Zero()
}

// Bytes returns the 32-byte canonical little-endian encoding.
func (s Scalar) Bytes() []byte {
	b, err := s.v.MarshalBinary()
	if err != nil {
		// kyber's edwards25519 scalar marshaling never fails.
		panic("group: scalar marshal: " + err.Error())
	}
	return b
}

// Encode returns the base64 (RFC 4648, standard alphabet, padded)
// encoding of the canonical 32-byte representation.
func (s Scalar) Encode() string {
	return base64.StdEncoding.EncodeToString(s.Bytes())
}

// DecodeScalar parses a base64-encoded Scalar, rejecting malformed
// base64, short input, and non-canonical encodings (>= group order).
func DecodeScalar(value string) (Scalar, error) {
	data, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return Scalar{}, fdcerr.Wrap(fdcerr.BadEncoding, "SecretKey: invalid base64", err)
	}
	return DecodeScalarBytes(data)
}

// DecodeScalarBytes parses the raw canonical encoding of a Scalar,
// applying the same length and canonicality checks as DecodeScalar.
func DecodeScalarBytes(data []byte) (Scalar, error) {
	if len(data) < ScalarLen {
		return Scalar{}, fdcerr.New(fdcerr.BadEncoding, "SecretKey: decoded value is less than 32 bytes")
	}
	raw := data[:ScalarLen]

	sc := suite.Scalar()
	if err := sc.UnmarshalBinary(raw); err != nil {
		return Scalar{}, fdcerr.Wrap(fdcerr.BadEncoding, "SecretKey: unable to decode scalar", err)
	}

	// Canonical check: a non-canonical (>= q) encoding reduces to a
	// different value than it started as, so round-tripping through
	// marshal must reproduce the exact input bytes.
	reencoded, err := sc.MarshalBinary()
	if err != nil || !bytes.Equal(reencoded, raw) {
		return Scalar{}, fdcerr.New(fdcerr.BadEncoding, "SecretKey: scalar encoding is not canonical")
	}

	return Scalar{v: sc}, nil
}
