// Package schnorr implements Schnorr signatures over the group scalar
// field, following the commit-challenge-response construction in the
// reference crypto layer (fdc-core/src/crypto/signatures.rs), adapted
// onto pkg/group's Scalar/Point types and keyed by SHA-512 as the
// teacher's Feldman commitments (pkg/crypto/dkg/kyber) also rely on
// SHA-256/512-based kyber suites for their own challenge hashing.
package schnorr

import (
	"crypto/sha512"

	"github.com/pangea-net/fdc/pkg/fdcerr"
	"github.com/pangea-net/fdc/pkg/group"
)

// Signature is a plain Schnorr signature over a pre-hashed message
// digest. Verification requires the signer's PublicKey out of band.
type Signature struct {
	C group.Scalar
	P group.Scalar
}

// Sign produces a Signature over dhash under kp's secret key. dhash is
// expected to already be a digest (e.g. a SHA-512 hash of the data
// actually being attested), not the raw message.
func Sign(kp group.KeyPair, dhash []byte) Signature {
	h := sha512.New()
	h.Write(kp.Secret.Bytes())
	h.Write(dhash)
	m := group.FromHash(h.Sum(nil))
	M := m.MulPoint(group.BasePoint())

	h = sha512.New()
	h.Write(kp.Key.Bytes())
	h.Write(M.Bytes())
	h.Write(dhash)
	c := group.FromHash(h.Sum(nil))

	p := m.Sub(c.Mul(kp.Secret))
	return Signature{C: c, P: p}
}

// Verify reports whether sig is a valid signature over dhash under
// key.
func (sig Signature) Verify(key group.Point, dhash []byte) bool {
	M := sig.C.MulPoint(key).Add(sig.P.MulPoint(group.BasePoint()))

	h := sha512.New()
	h.Write(key.Bytes())
	h.Write(M.Bytes())
	h.Write(dhash)
	c := group.FromHash(h.Sum(nil))

	return c.Equal(sig.C)
}

// CheckVerify is the same check as Verify but returns a tagged error
// instead of a bare bool, for call sites that want to propagate the
// failure kind directly.
func (sig Signature) CheckVerify(key group.Point, dhash []byte) error {
	if !sig.Verify(key, dhash) {
		return fdcerr.New(fdcerr.InvalidSignature, "schnorr signature verification failed")
	}
	return nil
}

// Encode returns the fixed 64-byte concatenation of C || P.
func (sig Signature) Encode() []byte {
	out := make([]byte, 0, group.ScalarLen*2)
	out = append(out, sig.C.Bytes()...)
	out = append(out, sig.P.Bytes()...)
	return out
}

// DecodeSignature parses the 64-byte encoding produced by Encode.
func DecodeSignature(data []byte) (Signature, error) {
	if len(data) < group.ScalarLen*2 {
		return Signature{}, fdcerr.New(fdcerr.BadEncoding, "signature shorter than 64 bytes")
	}
	c, err := group.DecodeScalarBytes(data[:group.ScalarLen])
	if err != nil {
		return Signature{}, err
	}
	p, err := group.DecodeScalarBytes(data[group.ScalarLen : group.ScalarLen*2])
	if err != nil {
		return Signature{}, err
	}
	return Signature{C: c, P: p}, nil
}

// ExtSignature bundles a Signature with the signer's PublicKey so a
// verifier does not need the key from any other source.
type ExtSignature struct {
	Sig Signature
	Key group.Point
}

// SignExt produces a self-identifying signature over dhash under kp.
func SignExt(kp group.KeyPair, dhash []byte) ExtSignature {
	return ExtSignature{Sig: Sign(kp, dhash), Key: kp.Key}
}

// Verify reports whether sig is valid over dhash under its embedded
// key.
func (sig ExtSignature) Verify(dhash []byte) bool {
	return sig.Sig.Verify(sig.Key, dhash)
}

// CheckVerify is Verify with a tagged error return.
func (sig ExtSignature) CheckVerify(dhash []byte) error {
	if !sig.Verify(dhash) {
		return fdcerr.New(fdcerr.InvalidSignature, "schnorr signature verification failed")
	}
	return nil
}

// Encode returns the fixed 96-byte concatenation of the inner
// signature's encoding followed by the signer's public key.
func (sig ExtSignature) Encode() []byte {
	out := make([]byte, 0, group.ScalarLen*2+group.PointLen)
	out = append(out, sig.Sig.Encode()...)
	out = append(out, sig.Key.Bytes()...)
	return out
}

// DecodeExtSignature parses the encoding produced by Encode.
func DecodeExtSignature(data []byte) (ExtSignature, error) {
	sigLen := group.ScalarLen * 2
	if len(data) < sigLen+group.PointLen {
		return ExtSignature{}, fdcerr.New(fdcerr.BadEncoding, "extended signature shorter than expected")
	}
	sig, err := DecodeSignature(data[:sigLen])
	if err != nil {
		return ExtSignature{}, err
	}
	key, err := group.DecodePointBytes(data[sigLen : sigLen+group.PointLen])
	if err != nil {
		return ExtSignature{}, err
	}
	return ExtSignature{Sig: sig, Key: key}, nil
}
