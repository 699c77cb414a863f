package service

import (
	"context"
	"net/netip"

	"github.com/iotsys/iotsys-go/pkg/group"
	"github.com/iotsys/iotsys-go/pkg/persistence"
	"github.com/iotsys/iotsys-go/pkg/wire"
)

// Transport delivers the messages a node originates and manages its
// multicast memberships.
type Transport interface {
	// SendMessage sends m to a unicast peer.
	SendMessage(ctx context.Context, to netip.AddrPort, m *wire.Message) error

	// SendGroup sends payload to a multicast group on behalf of a resource.
	SendGroup(ctx context.Context, addr netip.Addr, source group.HandlerID, payload []byte) error

	// JoinGroup starts receiving traffic addressed to addr.
	JoinGroup(addr netip.Addr) error

	// LeaveGroup stops receiving traffic addressed to addr.
	LeaveGroup(addr netip.Addr) error
}

// Compile-time check: every Transport can serve group fan-out.
var _ group.Sender = Transport(nil)

// StateStore persists the node state across restarts. It is satisfied by
// *persistence.NodeStateStore.
type StateStore interface {
	Save(state *persistence.NodeState) error
	Load() (*persistence.NodeState, error)
}

// Compile-time check: *persistence.NodeStateStore implements StateStore.
var _ StateStore = (*persistence.NodeStateStore)(nil)
