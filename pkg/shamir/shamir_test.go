package shamir

import (
	"testing"

	"github.com/pangea-net/fdc/pkg/group"
)

func TestReconstructExactThreshold(t *testing.T) {
	secret := group.RandScalar()
	poly := NewPolynomial(secret, 16)
	shares := poly.Shares(49)

	recovered, err := Reconstruct(shares[:16], 16)
	if err != nil {
		t.Fatalf("Reconstruct: %v", err)
	}
	if !recovered.Equal(secret) {
		t.Fatalf("recovered secret does not match original")
	}
}

func TestReconstructDifferentSubsetsAgree(t *testing.T) {
	secret := group.RandScalar()
	poly := NewPolynomial(secret, 5)
	shares := poly.Shares(10)

	a, err := Reconstruct(shares[0:5], 5)
	if err != nil {
		t.Fatalf("Reconstruct subset a: %v", err)
	}
	b, err := Reconstruct(shares[5:10], 5)
	if err != nil {
		t.Fatalf("Reconstruct subset b: %v", err)
	}
	if !a.Equal(b) || !a.Equal(secret) {
		t.Fatalf("different subsets of shares reconstructed different secrets")
	}
}

func TestReconstructInsufficientShares(t *testing.T) {
	secret := group.RandScalar()
	poly := NewPolynomial(secret, 5)
	shares := poly.Shares(10)

	if _, err := Reconstruct(shares[0:4], 5); err == nil {
		t.Fatalf("expected error reconstructing with fewer than threshold shares")
	}
}

func TestReconstructRejectsDuplicateIndices(t *testing.T) {
	secret := group.RandScalar()
	poly := NewPolynomial(secret, 3)
	shares := poly.Shares(3)
	dup := ShareVector{shares[0], shares[0], shares[1]}

	if _, err := Reconstruct(dup, 3); err == nil {
		t.Fatalf("expected error reconstructing with duplicate share indices")
	}
}

func TestPublicPolynomialVerifiesGenuineShares(t *testing.T) {
	secret := group.RandScalar()
	poly := NewPolynomial(secret, 4)
	pub := poly.Commit()

	for _, s := range poly.Shares(8) {
		if !pub.Verify(s) {
			t.Fatalf("genuine share at index %d failed verification", s.Index)
		}
	}
}

func TestPublicPolynomialRejectsCorruptShare(t *testing.T) {
	secret := group.RandScalar()
	poly := NewPolynomial(secret, 4)
	pub := poly.Commit()

	shares := poly.Shares(4)
	corrupted := shares[0]
	corrupted.Value = corrupted.Value.Add(group.OneScalar())

	if pub.Verify(corrupted) {
		t.Fatalf("corrupted share unexpectedly passed verification")
	}
}

func TestPublicShareVectorRecoverMatchesSecretTimesG(t *testing.T) {
	secret := group.RandScalar()
	poly := NewPolynomial(secret, 16)
	shares := poly.Shares(49)

	recovered, err := shares[:16].Public().Recover(16)
	if err != nil {
		t.Fatalf("Recover: %v", err)
	}

	expected := secret.MulPoint(group.BasePoint())
	if !recovered.Equal(expected) {
		t.Fatalf("recovered commitment does not equal secret*G")
	}
}

func TestPublicShareVectorRecoverDifferentSubsetsAgree(t *testing.T) {
	secret := group.RandScalar()
	poly := NewPolynomial(secret, 5)
	shares := poly.Shares(10).Public()

	a, err := shares[0:5].Recover(5)
	if err != nil {
		t.Fatalf("Recover subset a: %v", err)
	}
	b, err := shares[5:10].Recover(5)
	if err != nil {
		t.Fatalf("Recover subset b: %v", err)
	}
	expected := secret.MulPoint(group.BasePoint())
	if !a.Equal(b) || !a.Equal(expected) {
		t.Fatalf("different subsets of public shares recovered different commitments")
	}
}

func TestPublicShareVectorRecoverInsufficientShares(t *testing.T) {
	secret := group.RandScalar()
	poly := NewPolynomial(secret, 5)
	shares := poly.Shares(10).Public()

	if _, err := shares[0:4].Recover(5); err == nil {
		t.Fatalf("expected error recovering with fewer than threshold public shares")
	}
}

func TestPublicPolynomialPublicKeyMatchesSecret(t *testing.T) {
	secret := group.RandScalar()
	poly := NewPolynomial(secret, 3)
	pub := poly.Commit()

	expected := secret.MulPoint(group.BasePoint())
	if !pub.PublicKey().Equal(expected) {
		t.Fatalf("PublicPolynomial.PublicKey() does not equal secret*G")
	}
}
