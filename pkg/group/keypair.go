package group

// KeyPair couples a SecretKey with its corresponding PublicKey, where
// Key == Secret*G. The zero value is not a valid pair; use RandKeyPair
// or LoadKeyPair.
type KeyPair struct {
	Secret Scalar
	Key    Point
}

// RandKeyPair draws a fresh secret and derives its public key.
func RandKeyPair() KeyPair {
	secret := RandScalar()
	return KeyPair{Secret: secret, Key: secret.MulPoint(BasePoint())}
}

// LoadKeyPair rebuilds a pair from a previously generated secret,
// recomputing the public half.
func LoadKeyPair(secret Scalar) KeyPair {
	return KeyPair{Secret: secret, Key: secret.MulPoint(BasePoint())}
}
