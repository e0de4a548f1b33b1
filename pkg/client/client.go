// Package client defines the transport-facing surface a subject uses
// to fetch their record chain: a flat Config, a connect-returns-Session
// flow, and the FdpNetwork collaborator interface that concrete
// transports (pkg/transport/noisetcp, or any other) implement. The
// shape mirrors pkg/api.NodeManager, which is likewise
// built around small collaborator interfaces (NodeStore, NetworkManager,
// RPCServer) injected into a thin orchestrating type rather than one
// monolithic client.
package client

import (
	"github.com/pangea-net/fdc/pkg/chain"
	"github.com/pangea-net/fdc/pkg/group"
)

// Config carries transport-specific connection parameters as a flat
// string map, the same shape the core uses throughout since it does
// not prescribe wire formats for external collaborators.
type Config map[string]string

// Session is a live handle to a subject's chain, returned by
// FdpNetwork.Connect.
type Session interface {
	// Records fetches the caller's chain in full.
	Records() (*chain.RecordChain, error)

	// Close releases any resources (connections, file handles) held by
	// the session.
	Close() error
}

// FdpNetwork is the external transport collaborator. The core neither
// prescribes nor depends on its wire format; pkg/transport/noisetcp is
// one concrete implementation.
type FdpNetwork interface {
	// Connect opens a Session on behalf of the holder of secret against
	// the transport-specific endpoint described by config. Whether and
	// how secret is used to authenticate is up to the transport.
	Connect(secret group.Scalar, config Config) (Session, error)
}
