package chain

import (
	"testing"

	"github.com/pangea-net/fdc/pkg/fdcerr"
	"github.com/pangea-net/fdc/pkg/group"
	"github.com/pangea-net/fdc/pkg/record"
	"github.com/pangea-net/fdc/pkg/symmetric"
)

func buildHead(t *testing.T, id, table string, ekey group.Point, skp group.KeyPair, hfile string) (symmetric.LambdaKey, record.Record) {
	t.Helper()
	salt := record.Salt(id, table)
	rd, err := record.Head(symmetric.S128, []byte(hfile))
	if err != nil {
		t.Fatalf("record.Head data: %v", err)
	}
	lambda, rec, err := record.Head(skp, ekey, salt, rd)
	if err != nil {
		t.Fatalf("record.Head: %v", err)
	}
	return lambda, rec
}

func buildTail(t *testing.T, hprev []byte, ekey group.Point, skp group.KeyPair, lprev symmetric.LambdaKey, hfile string) (symmetric.LambdaKey, record.Record) {
	t.Helper()
	rd, err := record.Tail(symmetric.S128, lprev, []byte(hfile))
	if err != nil {
		t.Fatalf("record.Tail data: %v", err)
	}
	lambda, rec, err := record.Tail(skp, ekey, hprev, hprev, rd)
	if err != nil {
		t.Fatalf("record.Tail: %v", err)
	}
	return lambda, rec
}

func TestNewAndPushAppendChain(t *testing.T) {
	ekp := group.RandKeyPair()
	skp := group.RandKeyPair()

	l0, head := buildHead(t, "subject", "table", ekp.Key, skp, "doc-0")
	c, err := New("subject", "table", head)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	l1, tail1 := buildTail(t, c.LastHash(), ekp.Key, skp, l0, "doc-1")
	if err := c.Push(tail1); err != nil {
		t.Fatalf("Push tail1: %v", err)
	}

	_, tail2 := buildTail(t, c.LastHash(), ekp.Key, skp, l1, "doc-2")
	if err := c.Push(tail2); err != nil {
		t.Fatalf("Push tail2: %v", err)
	}

	if c.Len() != 3 {
		t.Fatalf("expected chain length 3, got %d", c.Len())
	}
}

func TestNewRejectsNonHeadRecord(t *testing.T) {
	ekp := group.RandKeyPair()
	skp := group.RandKeyPair()

	_, head := buildHead(t, "subject", "table", ekp.Key, skp, "doc-0")
	if _, err := New("subject", "other-table", head); !fdcerr.Is(err, fdcerr.NotHeadRecord) {
		t.Fatalf("expected NotHeadRecord, got %v", err)
	}
}

func TestPushRejectsBrokenChain(t *testing.T) {
	ekp := group.RandKeyPair()
	skp := group.RandKeyPair()

	l0, head := buildHead(t, "subject", "table", ekp.Key, skp, "doc-0")
	c, err := New("subject", "table", head)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	wrongHPrev := []byte("not the chain's lhash")
	_, tail := buildTail(t, wrongHPrev, ekp.Key, skp, l0, "doc-1")
	if err := c.Push(tail); !fdcerr.Is(err, fdcerr.BrokenChain) {
		t.Fatalf("expected BrokenChain, got %v", err)
	}
}

func TestFullChainRecovery(t *testing.T) {
	ekp := group.RandKeyPair()
	skp := group.RandKeyPair()

	l0, head := buildHead(t, "subject", "table", ekp.Key, skp, "doc-0")
	c, err := New("subject", "table", head)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	l1, tail1 := buildTail(t, c.LastHash(), ekp.Key, skp, l0, "doc-1")
	if err := c.Push(tail1); err != nil {
		t.Fatalf("Push tail1: %v", err)
	}

	_, tail2 := buildTail(t, c.LastHash(), ekp.Key, skp, l1, "doc-2")
	if err := c.Push(tail2); err != nil {
		t.Fatalf("Push tail2: %v", err)
	}

	refs, err := c.Recover(ekp.Secret)
	if err != nil {
		t.Fatalf("Recover: %v", err)
	}
	if len(refs) != 3 {
		t.Fatalf("expected 3 recovered refs, got %d", len(refs))
	}

	want := []string{"doc-0", "doc-1", "doc-2"}
	for i, w := range want {
		if string(refs[i].Hfile) != w {
			t.Fatalf("refs[%d].Hfile = %q, want %q", i, refs[i].Hfile, w)
		}
	}
}

func TestRecoveryFailsWithWrongTrapdoor(t *testing.T) {
	ekp := group.RandKeyPair()
	skp := group.RandKeyPair()

	l0, head := buildHead(t, "subject", "table", ekp.Key, skp, "doc-0")
	c, err := New("subject", "table", head)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, tail1 := buildTail(t, c.LastHash(), ekp.Key, skp, l0, "doc-1")
	if err := c.Push(tail1); err != nil {
		t.Fatalf("Push tail1: %v", err)
	}

	wrong := group.RandScalar()
	if _, err := c.Recover(wrong); err == nil {
		t.Fatalf("expected recovery to fail with the wrong trapdoor scalar")
	}
}
