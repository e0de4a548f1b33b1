// Package record implements the append-only unit of the subject chain:
// RDataRef/RData/REncData/Record, following the construction in
// fdc-core/src/model/records.rs. Unlike the reference, RData stores the
// caller's requested key size verbatim (the reference hardcodes
// KeySize::S128 in both RData::head and RData::tail, which looks like a
// copy-paste bug: the ksize argument is computed into dn's length and
// then silently discarded.
package record

import (
	"crypto/sha512"

	"github.com/pangea-net/fdc/internal/randutil"
	"github.com/pangea-net/fdc/internal/wire"
	"github.com/pangea-net/fdc/pkg/fdcerr"
	"github.com/pangea-net/fdc/pkg/group"
	"github.com/pangea-net/fdc/pkg/schnorr"
	"github.com/pangea-net/fdc/pkg/symmetric"
)

// Salt binds a record chain to its subject: SHA-512(id || table). It is
// the hprev of the head record and the KDF salt for the head's lambda.
func Salt(id, table string) []byte {
	h := sha512.New()
	h.Write([]byte(id))
	h.Write([]byte(table))
	return h.Sum(nil)
}

// RDataRef is the part of a record's plaintext that is always present:
// the requested key size, a nonce, and a reference to externally stored
// content.
type RDataRef struct {
	KSize symmetric.KeySize
	Dn    []byte
	Hfile []byte
}

func (r RDataRef) encode(w *wire.Writer) {
	w.WriteTag(r.KSize.Tag())
	w.WriteBytes(r.Dn)
	w.WriteBytes(r.Hfile)
}

func decodeRDataRef(r *wire.Reader) (RDataRef, error) {
	tag, err := r.ReadTag()
	if err != nil {
		return RDataRef{}, err
	}
	ksize, err := symmetric.DecodeKeySizeTag(tag)
	if err != nil {
		return RDataRef{}, err
	}
	dn, err := r.ReadBytes()
	if err != nil {
		return RDataRef{}, err
	}
	hfile, err := r.ReadBytes()
	if err != nil {
		return RDataRef{}, err
	}
	return RDataRef{KSize: ksize, Dn: dn, Hfile: hfile}, nil
}

// RData is the plaintext payload encrypted into a Record: a reference
// to the externally stored content, plus the previous record's lambda
// for tails (absent for heads), which lets a holder of the chain's
// trapdoor walk the chain backwards without needing every ephemeral kn.
type RData struct {
	LPrev *symmetric.LambdaKey
	Ref   RDataRef
}

// Head builds the plaintext of a chain's first record. lprev is absent.
func Head(ksize symmetric.KeySize, hfile []byte) (RData, error) {
	dn, err := randutil.Bytes(ksize.Bytes())
	if err != nil {
		return RData{}, fdcerr.Wrap(fdcerr.BadEncoding, "unable to draw dn", err)
	}
	return RData{Ref: RDataRef{KSize: ksize, Dn: dn, Hfile: append([]byte(nil), hfile...)}}, nil
}

// Tail builds the plaintext of a non-head record, carrying the previous
// record's lambda forward for backward recovery.
func Tail(ksize symmetric.KeySize, lprev symmetric.LambdaKey, hfile []byte) (RData, error) {
	dn, err := randutil.Bytes(ksize.Bytes())
	if err != nil {
		return RData{}, fdcerr.Wrap(fdcerr.BadEncoding, "unable to draw dn", err)
	}
	return RData{LPrev: &lprev, Ref: RDataRef{KSize: ksize, Dn: dn, Hfile: append([]byte(nil), hfile...)}}, nil
}

func (d RData) encode() []byte {
	w := wire.NewWriter(128)
	if d.LPrev != nil {
		w.WriteTag(wire.Present)
		w.WriteFixed(d.LPrev.K512())
	} else {
		w.WriteTag(wire.Absent)
	}
	d.Ref.encode(w)
	return w.Bytes()
}

func decodeRData(data []byte) (RData, error) {
	r := wire.NewReader(data)
	tag, err := r.ReadTag()
	if err != nil {
		return RData{}, fdcerr.Wrap(fdcerr.DecryptFailed, "RData: truncated lprev tag", err)
	}

	var lprev *symmetric.LambdaKey
	if tag == wire.Present {
		raw, err := r.ReadFixed(64)
		if err != nil {
			return RData{}, fdcerr.Wrap(fdcerr.DecryptFailed, "RData: truncated lprev", err)
		}
		lk := symmetric.LambdaKeyFromBytes(raw)
		lprev = &lk
	}

	ref, err := decodeRDataRef(r)
	if err != nil {
		return RData{}, fdcerr.Wrap(fdcerr.DecryptFailed, "RData: bad dref", err)
	}
	return RData{LPrev: lprev, Ref: ref}, nil
}

// schemeFor maps a requested key size onto a concrete AES-CBC scheme.
// S512 has no AES width of its own; it falls back to AesCbc256, using
// only the first 32 bytes of the 64-byte lambda as the AES key.
func schemeFor(ksize symmetric.KeySize) symmetric.EncryptScheme {
	scheme, ok := symmetric.SchemeFor(ksize)
	if !ok {
		return symmetric.AesCbc256
	}
	return scheme
}

// REncData is the encrypted form of an RData, plus the ephemeral public
// key needed to derive its decryption lambda given the recipient's
// secret (or, for trapdoor recovery, given the chain's master secret).
type REncData struct {
	Kn         group.Point
	Ciphertext []byte
}

func newREncData(ekey group.Point, salt []byte, rd RData) (symmetric.LambdaKey, REncData, error) {
	k := group.RandScalar()
	defer k.Zero()
	alpha := k.MulPoint(ekey)
	lambda := symmetric.NewLambdaKey(alpha, salt)

	ciphertext, err := symmetric.Encrypt(schemeFor(rd.Ref.KSize), lambda, rd.encode())
	if err != nil {
		return symmetric.LambdaKey{}, REncData{}, err
	}

	return lambda, REncData{Kn: k.MulPoint(group.BasePoint()), Ciphertext: ciphertext}, nil
}

func (e REncData) decrypt(scheme symmetric.EncryptScheme, lambda symmetric.LambdaKey) (RData, error) {
	defer lambda.Zero()
	plaintext, err := symmetric.Decrypt(scheme, lambda, e.Ciphertext)
	if err != nil {
		return RData{}, err
	}
	return decodeRData(plaintext)
}

func (e REncData) encode() []byte {
	w := wire.NewWriter(64 + len(e.Ciphertext))
	w.WriteFixed(e.Kn.Bytes())
	w.WriteBytes(e.Ciphertext)
	return w.Bytes()
}

func decodeREncData(r *wire.Reader) (REncData, error) {
	knBytes, err := r.ReadFixed(group.PointLen)
	if err != nil {
		return REncData{}, err
	}
	kn, err := group.DecodePointBytes(knBytes)
	if err != nil {
		return REncData{}, err
	}
	ciphertext, err := r.ReadBytes()
	if err != nil {
		return REncData{}, err
	}
	return REncData{Kn: kn, Ciphertext: ciphertext}, nil
}

// Record is one immutable, signed, hash-chained entry in a subject's
// history.
type Record struct {
	HPrev []byte
	Enc   REncData
	Sig   schnorr.ExtSignature
}

// hashRecord computes SHA-512(hprev || encode(data)), the digest every
// Record's signature covers.
func hashRecord(hprev []byte, data REncData) []byte {
	h := sha512.New()
	h.Write(hprev)
	h.Write(data.encode())
	return h.Sum(nil)
}

// Owner returns the public key that signed this record.
func (r Record) Owner() group.Point { return r.Sig.Key }

// Data decrypts and deserializes this record's plaintext under lambda.
// The caller must already know or have derived the correct scheme for
// the ksize they expect; since ksize lives inside the ciphertext, a
// wrong scheme simply surfaces as DecryptFailed rather than silently
// misreading bytes.
func (r Record) Data(scheme symmetric.EncryptScheme, lambda symmetric.LambdaKey) (RData, error) {
	return r.Enc.decrypt(scheme, lambda)
}

// Head builds and signs the first record of a chain. hprev and salt are
// the same value: Salt(id, table).
func Head(kp group.KeyPair, ekey group.Point, salt []byte, rd RData) (symmetric.LambdaKey, Record, error) {
	return create(kp, ekey, salt, salt, rd)
}

// Tail builds and signs a non-head record appended after hprev.
func Tail(kp group.KeyPair, ekey group.Point, hprev, salt []byte, rd RData) (symmetric.LambdaKey, Record, error) {
	return create(kp, ekey, hprev, salt, rd)
}

func create(kp group.KeyPair, ekey group.Point, hprev, salt []byte, rd RData) (symmetric.LambdaKey, Record, error) {
	lambda, data, err := newREncData(ekey, salt, rd)
	if err != nil {
		return symmetric.LambdaKey{}, Record{}, err
	}

	dhash := hashRecord(hprev, data)
	sig := schnorr.SignExt(kp, dhash)

	return lambda, Record{HPrev: append([]byte(nil), hprev...), Enc: data, Sig: sig}, nil
}

// Check verifies the record's signature and returns the digest it
// covers, which callers use as the next record's expected hprev.
func (r Record) Check() ([]byte, error) {
	dhash := hashRecord(r.HPrev, r.Enc)
	if err := r.Sig.CheckVerify(dhash); err != nil {
		return nil, err
	}
	return dhash, nil
}

// Encode serializes a Record to the canonical wire format, the same
// encoding used on disk and transported whole by pkg/transport/noisetcp.
func (r Record) Encode() []byte {
	w := wire.NewWriter(128 + len(r.Enc.Ciphertext))
	w.WriteBytes(r.HPrev)
	w.WriteFixed(r.Enc.encode())
	sigBytes := r.Sig.Encode()
	w.WriteBytes(sigBytes)
	return w.Bytes()
}

// Decode parses a Record previously produced by Encode.
func Decode(data []byte) (Record, error) {
	r := wire.NewReader(data)

	hprev, err := r.ReadBytes()
	if err != nil {
		return Record{}, fdcerr.Wrap(fdcerr.BadEncoding, "Record: truncated hprev", err)
	}

	enc, err := decodeREncData(r)
	if err != nil {
		return Record{}, fdcerr.Wrap(fdcerr.BadEncoding, "Record: bad data", err)
	}

	sigBytes, err := r.ReadBytes()
	if err != nil {
		return Record{}, fdcerr.Wrap(fdcerr.BadEncoding, "Record: truncated signature", err)
	}
	sig, err := schnorr.DecodeExtSignature(sigBytes)
	if err != nil {
		return Record{}, err
	}

	return Record{HPrev: hprev, Enc: enc, Sig: sig}, nil
}
