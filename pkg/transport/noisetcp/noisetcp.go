// Package noisetcp implements a concrete client.FdpNetwork over a raw
// TCP connection secured with a Noise XX handshake, the same cipher
// suite and handshake pattern as network.go's performHandshake
// (DH25519 / CipherChaChaPoly / HashBLAKE2b). It
// frames request/response messages and whole RecordChain values with
// the same canonical encoder (internal/wire) used on disk, so there is
// only ever one wire format. Addresses are multiaddrs and requests
// carry a UUID for correlation, matching the addressing and request
// bookkeeping conventions elsewhere in the corpus.
//
// This is the only package in the module allowed to import net; every
// other package is synchronous and free of I/O; symmetric encryption
// works on caller-supplied byte slices, not streams.
package noisetcp

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/flynn/noise"
	"github.com/google/uuid"
	"github.com/multiformats/go-multiaddr"
	manet "github.com/multiformats/go-multiaddr/net"

	"github.com/pangea-net/fdc/internal/wire"
	"github.com/pangea-net/fdc/pkg/chain"
	"github.com/pangea-net/fdc/pkg/client"
	"github.com/pangea-net/fdc/pkg/group"
	"github.com/pangea-net/fdc/pkg/record"
)

var cipherSuite = noise.NewCipherSuite(noise.DH25519, noise.CipherChaChaPoly, noise.HashBLAKE2b)

// Network is a client.FdpNetwork backed by Noise-secured TCP.
type Network struct {
	staticKey noise.DHKey
}

// New generates a fresh Noise static keypair and returns a Network
// ready to Connect.
func New() (*Network, error) {
	staticKey, err := noise.DH25519.GenerateKeypair(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("noisetcp: generate static keypair: %w", err)
	}
	return &Network{staticKey: staticKey}, nil
}

// Connect dials config["addr"] (a multiaddr such as
// "/ip4/127.0.0.1/tcp/4433"), completes a Noise XX handshake as the
// initiator, and returns a Session for fetching the peer's chain. The
// handshake authenticates with the Network's own Noise static key;
// secret is kept on the session but is not sent with any request.
func (n *Network) Connect(secret group.Scalar, config client.Config) (client.Session, error) {
	addrStr, ok := config["addr"]
	if !ok {
		return nil, fmt.Errorf("noisetcp: config missing \"addr\"")
	}
	maddr, err := multiaddr.NewMultiaddr(addrStr)
	if err != nil {
		return nil, fmt.Errorf("noisetcp: invalid multiaddr %q: %w", addrStr, err)
	}

	conn, err := manet.Dial(maddr)
	if err != nil {
		return nil, fmt.Errorf("noisetcp: dial %s: %w", addrStr, err)
	}

	cs, err := handshake(conn, n.staticKey, true)
	if err != nil {
		conn.Close()
		return nil, err
	}

	return &session{conn: conn, send: cs.send, recv: cs.recv, secret: secret}, nil
}

type cipherStates struct {
	send *noise.CipherState
	recv *noise.CipherState
}

// handshake runs the 3-message Noise XX pattern over conn, exactly as
// network.go's performHandshake does, returning the resulting
// transport (send, recv) cipher states from the caller's own
// perspective (the responder's pair is the initiator's, swapped).
func handshake(conn net.Conn, staticKey noise.DHKey, initiator bool) (*cipherStates, error) {
	hs, err := noise.NewHandshakeState(noise.Config{
		CipherSuite:   cipherSuite,
		Random:        rand.Reader,
		Pattern:       noise.HandshakeXX,
		Initiator:     initiator,
		StaticKeypair: staticKey,
	})
	if err != nil {
		return nil, fmt.Errorf("noisetcp: new handshake state: %w", err)
	}

	if initiator {
		msg, _, _, err := hs.WriteMessage(nil, nil)
		if err != nil {
			return nil, fmt.Errorf("noisetcp: handshake message 1: %w", err)
		}
		if err := writeFramed(conn, msg); err != nil {
			return nil, err
		}

		resp, err := readFramed(conn)
		if err != nil {
			return nil, err
		}
		if _, _, _, err := hs.ReadMessage(nil, resp); err != nil {
			return nil, fmt.Errorf("noisetcp: handshake message 2: %w", err)
		}

		msg, cs1, cs2, err := hs.WriteMessage(nil, nil)
		if err != nil {
			return nil, fmt.Errorf("noisetcp: handshake message 3: %w", err)
		}
		if err := writeFramed(conn, msg); err != nil {
			return nil, err
		}
		return &cipherStates{send: cs1, recv: cs2}, nil
	}

	msg, err := readFramed(conn)
	if err != nil {
		return nil, err
	}
	if _, _, _, err := hs.ReadMessage(nil, msg); err != nil {
		return nil, fmt.Errorf("noisetcp: handshake message 1: %w", err)
	}

	resp, _, _, err := hs.WriteMessage(nil, nil)
	if err != nil {
		return nil, fmt.Errorf("noisetcp: handshake message 2: %w", err)
	}
	if err := writeFramed(conn, resp); err != nil {
		return nil, err
	}

	final, err := readFramed(conn)
	if err != nil {
		return nil, err
	}
	_, cs1, cs2, err := hs.ReadMessage(nil, final)
	if err != nil {
		return nil, fmt.Errorf("noisetcp: handshake message 3: %w", err)
	}
	return &cipherStates{send: cs2, recv: cs1}, nil
}

// writeFramed/readFramed carry a uint32 length prefix ahead of every
// message, the simplest TCP framing and the one performHandshake's own
// buffered-read loop implicitly assumes via fixed-size reads.
func writeFramed(conn net.Conn, payload []byte) error {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	if _, err := conn.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("noisetcp: write frame length: %w", err)
	}
	if _, err := conn.Write(payload); err != nil {
		return fmt.Errorf("noisetcp: write frame payload: %w", err)
	}
	return nil
}

func readFramed(conn net.Conn) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(conn, lenBuf[:]); err != nil {
		return nil, fmt.Errorf("noisetcp: read frame length: %w", err)
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	buf := make([]byte, n)
	if _, err := io.ReadFull(conn, buf); err != nil {
		return nil, fmt.Errorf("noisetcp: read frame payload: %w", err)
	}
	return buf, nil
}

// requestRecords discriminates the single request type this stub
// transport supports today.
const requestRecords byte = 1

type session struct {
	conn   net.Conn
	send   *noise.CipherState
	recv   *noise.CipherState
	secret group.Scalar
}

// Records requests the subject's chain, correlating the request with a
// fresh UUID, and decodes the response as (id, table, [Record...]).
func (s *session) Records() (*chain.RecordChain, error) {
	reqID := uuid.New()

	w := wire.NewWriter(32)
	w.WriteFixed(reqID[:])
	w.WriteTag(requestRecords)

	ciphertext, err := s.send.Encrypt(nil, nil, w.Bytes())
	if err != nil {
		return nil, fmt.Errorf("noisetcp: encrypt request: %w", err)
	}
	if err := writeFramed(s.conn, ciphertext); err != nil {
		return nil, err
	}

	encResp, err := readFramed(s.conn)
	if err != nil {
		return nil, err
	}
	plainResp, err := s.recv.Decrypt(nil, nil, encResp)
	if err != nil {
		return nil, fmt.Errorf("noisetcp: decrypt response: %w", err)
	}

	return decodeChainResponse(plainResp)
}

// Close releases the underlying connection.
func (s *session) Close() error {
	return s.conn.Close()
}

// decodeChainResponse parses (id, table, [Record...]) off the wire and
// rebuilds the RecordChain by replaying New/Push, so the same
// invariant checks that apply to a locally built chain apply to one
// fetched over the network.
func decodeChainResponse(data []byte) (*chain.RecordChain, error) {
	r := wire.NewReader(data)

	idBytes, err := r.ReadBytes()
	if err != nil {
		return nil, fmt.Errorf("noisetcp: decode id: %w", err)
	}
	tableBytes, err := r.ReadBytes()
	if err != nil {
		return nil, fmt.Errorf("noisetcp: decode table: %w", err)
	}
	count, err := r.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("noisetcp: decode record count: %w", err)
	}

	if count == 0 {
		return nil, fmt.Errorf("noisetcp: chain response carries no records")
	}

	headBytes, err := r.ReadBytes()
	if err != nil {
		return nil, fmt.Errorf("noisetcp: decode head record: %w", err)
	}
	head, err := record.Decode(headBytes)
	if err != nil {
		return nil, err
	}

	c, err := chain.New(string(idBytes), string(tableBytes), head)
	if err != nil {
		return nil, err
	}

	for i := uint32(1); i < count; i++ {
		tailBytes, err := r.ReadBytes()
		if err != nil {
			return nil, fmt.Errorf("noisetcp: decode tail record %d: %w", i, err)
		}
		tail, err := record.Decode(tailBytes)
		if err != nil {
			return nil, err
		}
		if err := c.Push(tail); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Serve is a minimal responder loop for testing the client against a
// local peer: it accepts one connection, performs the handshake,
// answers a single request with the records of c, and returns.
func Serve(listenAddr multiaddr.Multiaddr, staticKey noise.DHKey, c *chain.RecordChain, timeout time.Duration) error {
	l, err := manet.Listen(listenAddr)
	if err != nil {
		return fmt.Errorf("noisetcp: listen on %s: %w", listenAddr, err)
	}
	defer l.Close()

	conn, err := l.Accept()
	if err != nil {
		return fmt.Errorf("noisetcp: accept: %w", err)
	}
	defer conn.Close()

	if timeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(timeout))
	}

	cs, err := handshake(conn, staticKey, false)
	if err != nil {
		return err
	}

	encReq, err := readFramed(conn)
	if err != nil {
		return err
	}
	if _, err := cs.recv.Decrypt(nil, nil, encReq); err != nil {
		return fmt.Errorf("noisetcp: decrypt request: %w", err)
	}

	resp := encodeChainResponse(c)
	ciphertext, err := cs.send.Encrypt(nil, nil, resp)
	if err != nil {
		return fmt.Errorf("noisetcp: encrypt response: %w", err)
	}
	return writeFramed(conn, ciphertext)
}

func encodeChainResponse(c *chain.RecordChain) []byte {
	records := c.Records()

	w := wire.NewWriter(256)
	w.WriteBytes([]byte(c.ID))
	w.WriteBytes([]byte(c.Table))
	w.WriteUint32(uint32(len(records)))
	for _, rec := range records {
		w.WriteBytes(rec.Encode())
	}
	return w.Bytes()
}
