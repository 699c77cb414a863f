package transport

import (
	"context"
	"net/netip"

	"github.com/iotsys/iotsys-go/pkg/wire"
)

// Handler handles decoded messages. dst is the local destination address
// of the datagram, invalid when the socket cannot report it. A non-nil
// reply is sent back to from.
type Handler interface {
	HandleMessage(ctx context.Context, from netip.AddrPort, dst netip.Addr, m *wire.Message) *wire.Message
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, from netip.AddrPort, dst netip.Addr, m *wire.Message) *wire.Message

// HandleMessage calls f.
func (f HandlerFunc) HandleMessage(ctx context.Context, from netip.AddrPort, dst netip.Addr, m *wire.Message) *wire.Message {
	return f(ctx, from, dst, m)
}
