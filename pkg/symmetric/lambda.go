// Package symmetric derives per-record symmetric keying material from a
// group element and encrypts/decrypts record payloads under it,
// following the reference crypto layer's LambdaKey and EncryptScheme
// (fdc-core/src/crypto/keys.rs, fdc-core/src/crypto/encrypt.rs), wired
// onto Go's standard crypto/aes and crypto/cipher CBC mode in place of
// the reference's aesni/aesstream crates.
package symmetric

import (
	"crypto/sha512"

	"github.com/pangea-net/fdc/pkg/fdcerr"
	"github.com/pangea-net/fdc/pkg/group"
)

// KeySize names the AES key width (or "full keying material") that a
// LambdaKey can be sliced to. The numeric values are bit widths, as in
// the reference KeySize enum.
type KeySize int

const (
	S128 KeySize = 128
	S192 KeySize = 192
	S256 KeySize = 256
	S512 KeySize = 512
)

// Bytes returns the byte width corresponding to the key size. S512 is
// not an AES key width; it denotes the full 64-byte LambdaKey, and there
// is no AesCbc512 scheme for it.
func (k KeySize) Bytes() int {
	return int(k) / 8
}

// Tag returns the one-byte wire enum discriminant for k.
func (k KeySize) Tag() byte {
	switch k {
	case S128:
		return 0
	case S192:
		return 1
	case S256:
		return 2
	default:
		return 3
	}
}

// DecodeKeySizeTag reverses Tag.
func DecodeKeySizeTag(tag byte) (KeySize, error) {
	switch tag {
	case 0:
		return S128, nil
	case 1:
		return S192, nil
	case 2:
		return S256, nil
	case 3:
		return S512, nil
	default:
		return 0, fdcerr.New(fdcerr.BadEncoding, "unknown KeySize tag")
	}
}

// LambdaKey is the per-record symmetric secret, derived from an
// ephemeral group element and a per-record salt. It carries the full
// 64-byte SHA-512 digest; K128/K192/K256 take prefixes of it sized for
// AES, and K512 exposes the digest whole.
type LambdaKey struct {
	bytes [sha512.Size]byte
}

// NewLambdaKey derives LambdaKey = SHA-512(alpha.Bytes() || salt), the
// same construction as LambdaKey::new in the reference.
func NewLambdaKey(alpha group.Point, salt []byte) LambdaKey {
	h := sha512.New()
	h.Write(alpha.Bytes())
	h.Write(salt)

	var lk LambdaKey
	copy(lk.bytes[:], h.Sum(nil))
	return lk
}

// K128 returns the first 16 bytes, suitable for AES-128.
func (lk LambdaKey) K128() []byte { return lk.bytes[:16] }

// K192 returns the first 24 bytes, suitable for AES-192.
func (lk LambdaKey) K192() []byte { return lk.bytes[:24] }

// K256 returns the first 32 bytes, suitable for AES-256.
func (lk LambdaKey) K256() []byte { return lk.bytes[:32] }

// K512 returns the full 64-byte digest as raw keying material.
func (lk LambdaKey) K512() []byte { return lk.bytes[:] }

// LambdaKeyFromBytes rebuilds a LambdaKey from a previously exported
// 64-byte digest, used when a record's lprev field is decoded off the
// wire rather than freshly derived.
func LambdaKeyFromBytes(raw []byte) LambdaKey {
	var lk LambdaKey
	copy(lk.bytes[:], raw)
	return lk
}

// Equal reports whether two LambdaKeys carry the same digest.
func (lk LambdaKey) Equal(other LambdaKey) bool {
	return lk.bytes == other.bytes
}

// Zero overwrites the key material in place. Callers that hold a
// LambdaKey past the lifetime of a single encrypt/decrypt call should
// defer Zero to avoid leaving key bytes live on the heap, mirroring the
// reference's Drop impl for LambdaKey.
func (lk *LambdaKey) Zero() {
	for i := range lk.bytes {
		lk.bytes[i] = 0
	}
}

// KeyFor returns the slice of key material appropriate for scheme.
func (lk LambdaKey) KeyFor(scheme EncryptScheme) []byte {
	switch scheme {
	case AesCbc128:
		return lk.K128()
	case AesCbc192:
		return lk.K192()
	case AesCbc256:
		return lk.K256()
	default:
		return lk.K256()
	}
}
