// Package group implements the prime-order group algebra this module is
// built on: a fixed generator, its scalar field, and the Scalar/Point
// semantic wrappers (SecretKey/PublicKey/KeyPair) layered on top.
//
// The group is realized with go.dedis.ch/kyber/v3's edwards25519 suite,
// the same suite pkg/crypto/dkg's kyber-based DKG code uses for its
// Feldman VSS commitments. Kyber's Ed25519 scalar field is already
// reduced mod the prime subgroup order l, and every Scalar*G product
// lands in that prime-order subgroup by construction: the cofactor
// never surfaces in the arithmetic, which is the same no-cofactor
// guarantee a Ristretto-over-Curve25519 group provides. See DESIGN.md
// for the full rationale.
package group

import (
	"go.dedis.ch/kyber/v3/group/edwards25519"
)

// suite is the single process-wide group instance. kyber groups are
// stateless value factories (Scalar()/Point() return fresh zero values),
// so sharing one instance across goroutines is safe.
var suite = edwards25519.NewBlakeSHA256Ed25519()
