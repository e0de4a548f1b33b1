// Package shamir implements Shamir secret sharing over the group scalar
// field, with Feldman-style public commitments so a share can be
// verified against the dealer's polynomial without learning the secret.
// The polynomial evaluation and Lagrange recombination follow the same
// structure as the Feldman DKG round functions in
// pkg/crypto/dkg/kyber/kyber_dkg.go (Round1GenerateCommitments,
// Round2GenerateShares, and RecoverSecret), generalized here to operate
// on an arbitrary pre-chosen secret rather than a freshly drawn one.
package shamir

import (
	"github.com/pangea-net/fdc/pkg/fdcerr"
	"github.com/pangea-net/fdc/pkg/group"
)

// Share is one participant's point on the dealer's polynomial.
type Share struct {
	Index uint32
	Value group.Scalar
}

// ShareVector is a set of shares gathered for reconstruction.
type ShareVector []Share

// Public maps s into the Feldman commitment domain, s.Value*G.
func (s Share) Public() PublicShare {
	return PublicShare{Index: s.Index, Value: s.Value.MulPoint(group.BasePoint())}
}

// Public maps every share in sv into the public domain, giving a
// PublicShareVector a holder of the shares (rather than the secret)
// can combine via PublicShareVector.Recover.
func (sv ShareVector) Public() PublicShareVector {
	out := make(PublicShareVector, len(sv))
	for i, s := range sv {
		out[i] = s.Public()
	}
	return out
}

// PublicShare is the image of a Share in the group: the same index with
// Value = share.Value*G, so it can be published without revealing the
// share itself.
type PublicShare struct {
	Index uint32
	Value group.Point
}

// PublicShareVector mirrors ShareVector in the public (Point) domain.
type PublicShareVector []PublicShare

// Polynomial is a degree-(threshold-1) polynomial over the scalar
// field, with coefficients[0] holding the shared secret.
type Polynomial struct {
	coefficients []group.Scalar
}

// NewPolynomial draws a random polynomial of the given threshold whose
// constant term is secret. threshold is the number of shares required
// to reconstruct (degree = threshold-1).
func NewPolynomial(secret group.Scalar, threshold int) *Polynomial {
	coeffs := make([]group.Scalar, threshold)
	coeffs[0] = secret
	for i := 1; i < threshold; i++ {
		coeffs[i] = group.RandScalar()
	}
	return &Polynomial{coefficients: coeffs}
}

// Threshold returns the number of shares required to reconstruct.
func (p *Polynomial) Threshold() int { return len(p.coefficients) }

// Secret returns the polynomial's constant term.
func (p *Polynomial) Secret() group.Scalar { return p.coefficients[0] }

// evalAt evaluates the polynomial at x via Horner's rule.
func (p *Polynomial) evalAt(x group.Scalar) group.Scalar {
	result := group.ZeroScalar()
	for i := len(p.coefficients) - 1; i >= 0; i-- {
		result = result.Mul(x).Add(p.coefficients[i])
	}
	return result
}

// Share evaluates the polynomial at a 1-based participant index.
func (p *Polynomial) Share(index uint32) Share {
	x := group.FromUint32(index)
	return Share{Index: index, Value: p.evalAt(x)}
}

// Shares evaluates the polynomial for indices 1..n.
func (p *Polynomial) Shares(n int) ShareVector {
	out := make(ShareVector, n)
	for i := 0; i < n; i++ {
		out[i] = p.Share(uint32(i + 1))
	}
	return out
}

// Commit publishes the Feldman commitments to every coefficient,
// C_k = a_k*G, letting any recipient verify a share without the
// dealer disclosing the polynomial itself.
func (p *Polynomial) Commit() *PublicPolynomial {
	commits := make([]group.Point, len(p.coefficients))
	for i, c := range p.coefficients {
		commits[i] = c.MulPoint(group.BasePoint())
	}
	return &PublicPolynomial{commitments: commits}
}

// PublicPolynomial is the Feldman commitment to a dealer's Polynomial.
type PublicPolynomial struct {
	commitments []group.Point
}

// Threshold returns the number of shares required to reconstruct.
func (pp *PublicPolynomial) Threshold() int { return len(pp.commitments) }

// PublicKey returns the commitment to the constant term, i.e. the
// public key corresponding to the shared secret.
func (pp *PublicPolynomial) PublicKey() group.Point { return pp.commitments[0] }

// evalAt computes sum_k(C_k * x^k), the public counterpart of
// Polynomial.evalAt.
func (pp *PublicPolynomial) evalAt(x group.Scalar) group.Point {
	result := group.ZeroPoint()
	xPower := group.OneScalar()
	for _, c := range pp.commitments {
		result = result.Add(c.Mul(xPower))
		xPower = xPower.Mul(x)
	}
	return result
}

// Verify checks that share.Value*G equals the polynomial evaluated in
// the public domain at share.Index, without ever seeing the secret.
func (pp *PublicPolynomial) Verify(share Share) bool {
	x := group.FromUint32(share.Index)
	expected := pp.evalAt(x)
	actual := share.Value.MulPoint(group.BasePoint())
	return actual.Equal(expected)
}

// lagrangeAtZero computes l_i(0) = prod_{j != i} (-x_j) / (x_i - x_j)
// for the share at position i within indices.
func lagrangeAtZero(indices []uint32, i int) group.Scalar {
	xi := group.FromUint32(indices[i])
	num := group.OneScalar()
	den := group.OneScalar()

	for j, xj := range indices {
		if j == i {
			continue
		}
		xjs := group.FromUint32(xj)
		num = num.Mul(xjs.Neg())
		den = den.Mul(xi.Sub(xjs))
	}

	return num.Mul(den.Invert())
}

// Reconstruct recombines the secret from at least Threshold shares via
// Lagrange interpolation at x=0. Shares with duplicate indices are
// rejected as they indicate a corrupted or adversarial input set.
func Reconstruct(shares ShareVector, threshold int) (group.Scalar, error) {
	if len(shares) < threshold {
		return group.Scalar{}, fdcerr.New(fdcerr.BadShare, "not enough shares to reconstruct the secret")
	}

	used := shares[:threshold]
	indices := make([]uint32, len(used))
	seen := make(map[uint32]bool, len(used))
	for i, s := range used {
		if seen[s.Index] {
			return group.Scalar{}, fdcerr.New(fdcerr.BadShare, "duplicate share index in reconstruction set")
		}
		seen[s.Index] = true
		indices[i] = s.Index
	}

	secret := group.ZeroScalar()
	for i, s := range used {
		li := lagrangeAtZero(indices, i)
		secret = secret.Add(s.Value.Mul(li))
	}
	return secret, nil
}

// Recover combines at least threshold public shares via the same
// Lagrange interpolation as Reconstruct, but carried out entirely in
// the group: it recovers s*G from shares of s without ever learning s
// itself. For any threshold-sized subset of a single dealer's shares,
// shares(n).Public().Recover(threshold) == s*G.
func (psv PublicShareVector) Recover(threshold int) (group.Point, error) {
	if len(psv) < threshold {
		return group.Point{}, fdcerr.New(fdcerr.BadShare, "not enough public shares to recover the commitment")
	}

	used := psv[:threshold]
	indices := make([]uint32, len(used))
	seen := make(map[uint32]bool, len(used))
	for i, s := range used {
		if seen[s.Index] {
			return group.Point{}, fdcerr.New(fdcerr.BadShare, "duplicate share index in recovery set")
		}
		seen[s.Index] = true
		indices[i] = s.Index
	}

	result := group.ZeroPoint()
	for i, s := range used {
		li := lagrangeAtZero(indices, i)
		result = result.Add(s.Value.Mul(li))
	}
	return result, nil
}
