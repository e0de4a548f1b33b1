package noisetcp

import (
	"crypto/rand"
	"net"
	"testing"
	"time"

	"github.com/flynn/noise"
	"github.com/multiformats/go-multiaddr"
	manet "github.com/multiformats/go-multiaddr/net"

	"github.com/pangea-net/fdc/pkg/chain"
	"github.com/pangea-net/fdc/pkg/client"
	"github.com/pangea-net/fdc/pkg/group"
	"github.com/pangea-net/fdc/pkg/record"
	"github.com/pangea-net/fdc/pkg/symmetric"
)

func buildTestChain(t *testing.T) (*chain.RecordChain, group.Scalar) {
	t.Helper()

	ekp := group.RandKeyPair()
	skp := group.RandKeyPair()

	salt := record.Salt("subject", "table")
	headData, err := record.Head(symmetric.S128, []byte("doc-0"))
	if err != nil {
		t.Fatalf("record.Head data: %v", err)
	}
	lambda0, head, err := record.Head(skp, ekp.Key, salt, headData)
	if err != nil {
		t.Fatalf("record.Head: %v", err)
	}

	c, err := chain.New("subject", "table", head)
	if err != nil {
		t.Fatalf("chain.New: %v", err)
	}

	tailData, err := record.Tail(symmetric.S128, lambda0, []byte("doc-1"))
	if err != nil {
		t.Fatalf("record.Tail data: %v", err)
	}
	_, tail, err := record.Tail(skp, ekp.Key, c.LastHash(), c.LastHash(), tailData)
	if err != nil {
		t.Fatalf("record.Tail: %v", err)
	}
	if err := c.Push(tail); err != nil {
		t.Fatalf("Push tail: %v", err)
	}

	return c, ekp.Secret
}

// freeLoopbackAddr picks an ephemeral TCP port on loopback by briefly
// listening on it, closes that listener so the port is free, and
// returns the address in multiaddr form.
func freeLoopbackAddr(t *testing.T) multiaddr.Multiaddr {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("reserve loopback port: %v", err)
	}
	addr := l.Addr().(*net.TCPAddr)
	l.Close()

	maddr, err := manet.FromNetAddr(&net.TCPAddr{IP: addr.IP, Port: addr.Port})
	if err != nil {
		t.Fatalf("convert to multiaddr: %v", err)
	}
	return maddr
}

func TestConnectFetchesRecordsOverHandshake(t *testing.T) {
	c, secret := buildTestChain(t)

	listenAddr := freeLoopbackAddr(t)

	serverKey, err := noise.DH25519.GenerateKeypair(rand.Reader)
	if err != nil {
		t.Fatalf("generate server static key: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- Serve(listenAddr, serverKey, c, 5*time.Second)
	}()

	// give the listener a moment to bind before dialing
	time.Sleep(50 * time.Millisecond)

	n, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	sess, err := n.Connect(secret, client.Config{"addr": listenAddr.String()})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer sess.Close()

	got, err := sess.Records()
	if err != nil {
		t.Fatalf("Records: %v", err)
	}

	if got.ID != "subject" || got.Table != "table" {
		t.Fatalf("got chain id/table = %q/%q, want subject/table", got.ID, got.Table)
	}
	if got.Len() != c.Len() {
		t.Fatalf("got chain length %d, want %d", got.Len(), c.Len())
	}

	if err := <-serverErr; err != nil {
		t.Fatalf("Serve: %v", err)
	}
}

func TestConnectRejectsMissingAddr(t *testing.T) {
	n, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	secret := group.RandScalar()

	if _, err := n.Connect(secret, client.Config{}); err == nil {
		t.Fatalf("expected Connect to fail without an \"addr\" config entry")
	}
}
