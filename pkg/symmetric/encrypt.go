package symmetric

import (
	"crypto/aes"
	"crypto/cipher"

	"github.com/pangea-net/fdc/internal/randutil"
	"github.com/pangea-net/fdc/pkg/fdcerr"
)

// EncryptScheme names a supported AES-CBC key width, mirroring the
// reference's EncryptScheme enum. Unlike the reference, the scheme is
// never hardcoded by a constructor; callers pick it from the ksize a
// caller actually requested.
type EncryptScheme int

const (
	AesCbc128 EncryptScheme = iota
	AesCbc192
	AesCbc256
)

// SchemeFor maps a KeySize onto the matching AES-CBC scheme. S512 has
// no AES-CBC scheme of its own, so SchemeFor reports ok=false for it;
// pkg/record encrypts S512 records with AesCbc256 instead.
func SchemeFor(size KeySize) (EncryptScheme, bool) {
	switch size {
	case S128:
		return AesCbc128, true
	case S192:
		return AesCbc192, true
	case S256:
		return AesCbc256, true
	default:
		return 0, false
	}
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padLen)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padLen)
	}
	return padded
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fdcerr.New(fdcerr.DecryptFailed, "ciphertext is not a multiple of the block size")
	}
	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > blockSize || padLen > len(data) {
		return nil, fdcerr.New(fdcerr.DecryptFailed, "invalid PKCS7 padding")
	}
	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, fdcerr.New(fdcerr.DecryptFailed, "invalid PKCS7 padding")
		}
	}
	return data[:len(data)-padLen], nil
}

// Encrypt pads and AES-CBC encrypts plaintext under key, prefixing the
// result with a fresh random IV, the same framing the reference's
// AesWriter stream produces.
func Encrypt(scheme EncryptScheme, key LambdaKey, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key.KeyFor(scheme))
	if err != nil {
		return nil, fdcerr.Wrap(fdcerr.DecryptFailed, "unable to create AES cipher", err)
	}

	iv, err := randutil.Bytes(aes.BlockSize)
	if err != nil {
		return nil, fdcerr.Wrap(fdcerr.DecryptFailed, "unable to generate IV", err)
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	out := make([]byte, 0, len(iv)+len(ciphertext))
	out = append(out, iv...)
	out = append(out, ciphertext...)
	return out, nil
}

// Decrypt reverses Encrypt. It fails with fdcerr.DecryptFailed on
// truncated input or invalid padding; it cannot otherwise distinguish
// a wrong key from corrupted ciphertext, matching CBC's lack of
// built-in authentication.
func Decrypt(scheme EncryptScheme, key LambdaKey, data []byte) ([]byte, error) {
	block, err := aes.NewCipher(key.KeyFor(scheme))
	if err != nil {
		return nil, fdcerr.Wrap(fdcerr.DecryptFailed, "unable to create AES cipher", err)
	}

	if len(data) < aes.BlockSize {
		return nil, fdcerr.New(fdcerr.DecryptFailed, "ciphertext shorter than one block")
	}
	iv, ciphertext := data[:aes.BlockSize], data[aes.BlockSize:]
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, fdcerr.New(fdcerr.DecryptFailed, "ciphertext is not a multiple of the block size")
	}

	padded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, ciphertext)

	return pkcs7Unpad(padded, aes.BlockSize)
}
