package escrow

import (
	"testing"

	"github.com/pangea-net/fdc/pkg/group"
)

func TestSplitCombineRoundtrip(t *testing.T) {
	e := group.RandScalar()

	shares, err := Split(e, 5, 3)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(shares) != 5 {
		t.Fatalf("expected 5 shares, got %d", len(shares))
	}

	recovered, err := Combine(shares[:3])
	if err != nil {
		t.Fatalf("Combine: %v", err)
	}
	if !recovered.Equal(e) {
		t.Fatalf("recovered trapdoor does not match original")
	}
}

func TestCombineDifferentSubsetsAgree(t *testing.T) {
	e := group.RandScalar()
	shares, err := Split(e, 6, 4)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}

	a, err := Combine(shares[0:4])
	if err != nil {
		t.Fatalf("Combine a: %v", err)
	}
	b, err := Combine(shares[2:6])
	if err != nil {
		t.Fatalf("Combine b: %v", err)
	}
	if !a.Equal(e) || !b.Equal(e) {
		t.Fatalf("reconstructed trapdoor does not match original across subsets")
	}
}

func TestCombineFailsWithASingleShare(t *testing.T) {
	e := group.RandScalar()
	shares, err := Split(e, 5, 3)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}

	if _, err := Combine(shares[:1]); err == nil {
		t.Fatalf("expected Combine to fail with a single share")
	}
}
