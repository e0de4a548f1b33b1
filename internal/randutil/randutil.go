// Package randutil centralizes the process-wide cryptographic RNG used by
// the group algebra and record layers, mirroring the reference's top-level
// rand() helper (fdc-core/src/lib.rs).
package randutil

import (
	"crypto/rand"
	"io"
)

// Bytes returns n freshly drawn cryptographically secure random bytes. It
// backs RDataRef.dn and the record ephemeral nonce material.
func Bytes(n int) ([]byte, error) {
	out := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, out); err != nil {
		return nil, err
	}
	return out, nil
}
