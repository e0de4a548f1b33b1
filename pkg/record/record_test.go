package record

import (
	"bytes"
	"testing"

	"github.com/pangea-net/fdc/pkg/group"
	"github.com/pangea-net/fdc/pkg/symmetric"
)

func TestHeadRecordWriteLoad(t *testing.T) {
	salt := Salt("subject-id", "table-id")

	ekp := group.RandKeyPair() // master key pair
	skp := group.RandKeyPair() // source key pair

	rd1, err := Head(symmetric.S128, []byte("data-url"))
	if err != nil {
		t.Fatalf("Head: %v", err)
	}

	_, r1, err := Head(skp, ekp.Key, salt, rd1)
	if err != nil {
		t.Fatalf("record.Head: %v", err)
	}
	if _, err := r1.Check(); err != nil {
		t.Fatalf("Check: %v", err)
	}

	alpha := ekp.Secret.MulPoint(r1.Enc.Kn)
	lambda := symmetric.NewLambdaKey(alpha, salt)

	rd2, err := r1.Data(symmetric.AesCbc128, lambda)
	if err != nil {
		t.Fatalf("Data: %v", err)
	}

	if !bytes.Equal(rd1.Ref.Dn, rd2.Ref.Dn) || !bytes.Equal(rd1.Ref.Hfile, rd2.Ref.Hfile) {
		t.Fatalf("round-tripped RData does not match the original")
	}
	if rd2.LPrev != nil {
		t.Fatalf("head record's decrypted RData unexpectedly carries lprev")
	}
}

func TestCheckFailsOnTamperedCiphertext(t *testing.T) {
	salt := Salt("subject-id", "table-id")
	ekp := group.RandKeyPair()
	skp := group.RandKeyPair()

	rd1, err := Head(symmetric.S128, []byte("data-url"))
	if err != nil {
		t.Fatalf("Head: %v", err)
	}
	_, r1, err := Head(skp, ekp.Key, salt, rd1)
	if err != nil {
		t.Fatalf("record.Head: %v", err)
	}

	r1.Enc.Ciphertext[0] ^= 0xff
	if _, err := r1.Check(); err == nil {
		t.Fatalf("expected Check to fail after tampering with ciphertext")
	}
}

func TestHeadThenTailChaining(t *testing.T) {
	salt := Salt("subject-id", "table-id")
	ekp := group.RandKeyPair()
	skp := group.RandKeyPair()

	rd1, err := Head(symmetric.S256, []byte("doc-1"))
	if err != nil {
		t.Fatalf("Head: %v", err)
	}
	lambda1, r1, err := Head(skp, ekp.Key, salt, rd1)
	if err != nil {
		t.Fatalf("record.Head: %v", err)
	}
	dhash1, err := r1.Check()
	if err != nil {
		t.Fatalf("Check r1: %v", err)
	}

	rd2, err := Tail(symmetric.S256, lambda1, []byte("doc-2"))
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	_, r2, err := Tail(skp, ekp.Key, dhash1, salt, rd2)
	if err != nil {
		t.Fatalf("record.Tail: %v", err)
	}
	dhash2, err := r2.Check()
	if err != nil {
		t.Fatalf("Check r2: %v", err)
	}
	if !bytes.Equal(r2.HPrev, dhash1) {
		t.Fatalf("tail's hprev does not match head's check digest")
	}
	if len(dhash2) == 0 {
		t.Fatalf("expected a non-empty digest from r2.Check")
	}
}

func TestRecordEncodeDecodeRoundtrip(t *testing.T) {
	salt := Salt("subject-id", "table-id")
	ekp := group.RandKeyPair()
	skp := group.RandKeyPair()

	rd1, err := Head(symmetric.S128, []byte("data-url"))
	if err != nil {
		t.Fatalf("Head: %v", err)
	}
	_, r1, err := Head(skp, ekp.Key, salt, rd1)
	if err != nil {
		t.Fatalf("record.Head: %v", err)
	}

	encoded := r1.Encode()
	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if _, err := decoded.Check(); err != nil {
		t.Fatalf("decoded record failed Check: %v", err)
	}
	if !decoded.Owner().Equal(r1.Owner()) {
		t.Fatalf("decoded record owner mismatch")
	}
}
