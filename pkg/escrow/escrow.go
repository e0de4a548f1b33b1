// Package escrow splits a chain's master secret scalar across t-of-n
// custodians for disaster recovery, using dealer-based byte-level
// Shamir sharing from github.com/hashicorp/vault/shamir, the same
// primitive the DistributeFileKey/ReconstructKey dealer flow in
// pkg/crypto/dkg/real_dkg.go uses to distribute symmetric file keys.
//
// This is a deliberately different sharing domain than pkg/shamir: that
// package shares a scalar algebraically, under Lagrange interpolation
// in the group's field, so a recipient's share can be verified against
// a published polynomial without a trusted dealer. Here the trapdoor is
// opaque and only ever used whole, so a custodian's share is simply a
// GF(2^8) byte fragment of its 32-byte encoding. There is no public
// verification step: the tradeoff is a trusted dealer (whoever runs
// Split) in exchange for not needing group operations at
// reconstruction.
package escrow

import (
	vaultshamir "github.com/hashicorp/vault/shamir"

	"github.com/pangea-net/fdc/pkg/fdcerr"
	"github.com/pangea-net/fdc/pkg/group"
)

// Split divides e's raw 32-byte encoding into n shares, any threshold
// of which reconstruct it exactly.
func Split(e group.Scalar, n, threshold int) ([][]byte, error) {
	shares, err := vaultshamir.Split(e.Bytes(), n, threshold)
	if err != nil {
		return nil, fdcerr.Wrap(fdcerr.BadShare, "unable to split trapdoor scalar", err)
	}
	return shares, nil
}

// Combine reconstructs the trapdoor scalar from a set of shares
// previously produced by Split. It fails with fdcerr.BadShare if the
// vault combiner rejects the set (for example fewer than two shares) or
// the combined bytes do not decode to a canonical scalar (a corrupted or
// foreign share set). Combine does not know the threshold used by Split:
// a set of at least two but fewer than threshold shares is not detected
// as such and yields a different scalar whenever its bytes happen to be
// canonical.
func Combine(shares [][]byte) (group.Scalar, error) {
	raw, err := vaultshamir.Combine(shares)
	if err != nil {
		return group.Scalar{}, fdcerr.Wrap(fdcerr.BadShare, "unable to combine trapdoor shares", err)
	}

	e, err := group.DecodeScalarBytes(raw)
	if err != nil {
		return group.Scalar{}, fdcerr.Wrap(fdcerr.BadShare, "combined trapdoor bytes are not a canonical scalar", err)
	}
	return e, nil
}
