package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/ipv6"

	"github.com/iotsys/iotsys-go/pkg/group"
	"github.com/iotsys/iotsys-go/pkg/log"
	"github.com/iotsys/iotsys-go/pkg/wire"
)

// Transport defaults.
const (
	// DefaultPort is the CoAP port.
	DefaultPort = 5683

	// DefaultMaxDatagramSize bounds received datagrams.
	DefaultMaxDatagramSize = 1152

	// MaxPeers is the number of peers exchange IDs are kept for.
	MaxPeers = 64
)

// Transport errors.
var (
	ErrNotRunning           = errors.New("transport not running")
	ErrAlreadyRunning       = errors.New("transport already running")
	ErrMulticastUnsupported = errors.New("multicast requires an IPv6 socket")
	ErrNotMulticast         = errors.New("not a multicast address")
)

// ServerConfig configures a Server.
type ServerConfig struct {
	// Address to listen on (e.g., "[::]:5683"). Default: all addresses on
	// DefaultPort.
	Address string

	// Interface is the network interface used for multicast. Empty selects
	// the system default.
	Interface string

	// GroupPort is the destination port of group messages.
	// Default: DefaultPort.
	GroupPort uint16

	// MaxDatagramSize is the receive buffer size.
	MaxDatagramSize int

	// Node names the local node in exchange events.
	Node string

	// Logger for exchange logging (optional).
	Logger log.Logger

	// OnError is called for datagrams that cannot be processed.
	OnError func(from netip.AddrPort, err error)
}

// Server is a CoAP endpoint on a UDP socket.
type Server struct {
	config  ServerConfig
	handler Handler

	conn  *net.UDPConn
	pconn *ipv6.PacketConn
	ifi   *net.Interface

	groupsMu sync.Mutex
	groups   map[netip.Addr]struct{}

	peersMu sync.Mutex
	peers   map[netip.AddrPort]string

	mid atomic.Uint32

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewServer creates a server passing received messages to handler.
func NewServer(config ServerConfig, handler Handler) (*Server, error) {
	if handler == nil {
		return nil, fmt.Errorf("handler is required")
	}
	if config.Address == "" {
		config.Address = fmt.Sprintf("[::]:%d", DefaultPort)
	}
	if config.GroupPort == 0 {
		config.GroupPort = DefaultPort
	}
	if config.MaxDatagramSize <= 0 {
		config.MaxDatagramSize = DefaultMaxDatagramSize
	}

	s := &Server{
		config:  config,
		handler: handler,
		groups:  make(map[netip.Addr]struct{}),
		peers:   make(map[netip.AddrPort]string),
	}
	s.mid.Store(uint32(time.Now().UnixNano()))
	return s, nil
}

// Start opens the socket and begins serving.
func (s *Server) Start(ctx context.Context) error {
	if s.running.Load() {
		return ErrAlreadyRunning
	}

	laddr, err := net.ResolveUDPAddr("udp", s.config.Address)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", s.config.Address, err)
	}
	conn, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	s.conn = conn

	if s.config.Interface != "" {
		s.ifi, err = net.InterfaceByName(s.config.Interface)
		if err != nil {
			conn.Close()
			return fmt.Errorf("multicast interface: %w", err)
		}
	}

	if laddr.IP == nil || laddr.IP.To4() == nil {
		if err := s.setupIPv6(conn); err != nil {
			conn.Close()
			return err
		}
	}

	s.ctx, s.cancel = context.WithCancel(ctx)
	s.running.Store(true)

	s.wg.Add(1)
	go s.readLoop()

	return nil
}

func (s *Server) setupIPv6(conn *net.UDPConn) error {
	p := ipv6.NewPacketConn(conn)
	if err := p.SetControlMessage(ipv6.FlagDst|ipv6.FlagInterface, true); err != nil {
		return fmt.Errorf("enable destination control messages: %w", err)
	}
	if s.ifi != nil {
		if err := p.SetMulticastInterface(s.ifi); err != nil {
			return fmt.Errorf("set multicast interface: %w", err)
		}
	}
	if err := p.SetMulticastLoopback(true); err != nil {
		return fmt.Errorf("set multicast loopback: %w", err)
	}
	s.pconn = p
	return nil
}

// Stop leaves all groups, closes the socket and waits for the read loop.
func (s *Server) Stop() error {
	if !s.running.Swap(false) {
		return nil
	}
	s.cancel()

	for _, addr := range s.Groups() {
		_ = s.LeaveGroup(addr)
	}

	err := s.conn.Close()
	s.wg.Wait()
	return err
}

// Addr returns the local address of the socket.
func (s *Server) Addr() netip.AddrPort {
	if s.conn == nil {
		return netip.AddrPort{}
	}
	return s.conn.LocalAddr().(*net.UDPAddr).AddrPort()
}

// Groups returns the joined multicast groups.
func (s *Server) Groups() []netip.Addr {
	s.groupsMu.Lock()
	defer s.groupsMu.Unlock()

	out := make([]netip.Addr, 0, len(s.groups))
	for addr := range s.groups {
		out = append(out, addr)
	}
	return out
}

// JoinGroup joins the multicast group addr on the configured interface.
func (s *Server) JoinGroup(addr netip.Addr) error {
	if !addr.IsMulticast() {
		return fmt.Errorf("%w: %s", ErrNotMulticast, addr)
	}
	if s.pconn == nil {
		return ErrMulticastUnsupported
	}

	s.groupsMu.Lock()
	defer s.groupsMu.Unlock()

	if _, ok := s.groups[addr]; ok {
		return nil
	}
	if err := s.pconn.JoinGroup(s.ifi, &net.UDPAddr{IP: addr.AsSlice()}); err != nil {
		return fmt.Errorf("join %s: %w", addr, err)
	}
	s.groups[addr] = struct{}{}
	return nil
}

// LeaveGroup leaves the multicast group addr.
func (s *Server) LeaveGroup(addr netip.Addr) error {
	if s.pconn == nil {
		return ErrMulticastUnsupported
	}

	s.groupsMu.Lock()
	defer s.groupsMu.Unlock()

	if _, ok := s.groups[addr]; !ok {
		return nil
	}
	delete(s.groups, addr)
	if err := s.pconn.LeaveGroup(s.ifi, &net.UDPAddr{IP: addr.AsSlice()}); err != nil {
		return fmt.Errorf("leave %s: %w", addr, err)
	}
	return nil
}

// SendMessage sends m to a unicast peer.
func (s *Server) SendMessage(ctx context.Context, to netip.AddrPort, m *wire.Message) error {
	if !s.running.Load() {
		return ErrNotRunning
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.write(to, m, false)
}

// SendGroup sends payload as a non-confirmable PUT to the group addr. The
// Uri-Path names the source resource.
func (s *Server) SendGroup(ctx context.Context, addr netip.Addr, source group.HandlerID, payload []byte) error {
	if !s.running.Load() {
		return ErrNotRunning
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if !addr.IsMulticast() {
		return fmt.Errorf("%w: %s", ErrNotMulticast, addr)
	}
	if s.pconn == nil {
		return ErrMulticastUnsupported
	}

	m := &wire.Message{
		Type:      wire.NonConfirmable,
		Code:      wire.PUT,
		MessageID: uint16(s.mid.Add(1)),
		Payload:   payload,
	}
	m.SetPath(string(source))
	m.Options = m.Options.SetUint(wire.ContentFormat, uint32(wire.AppXML))

	if s.ifi != nil && addr.Zone() == "" {
		addr = addr.WithZone(s.ifi.Name)
	}
	return s.write(netip.AddrPortFrom(addr, s.config.GroupPort), m, true)
}

func (s *Server) write(to netip.AddrPort, m *wire.Message, multicast bool) error {
	data, err := wire.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	if _, err := s.conn.WriteToUDPAddrPort(data, to); err != nil {
		s.logError(to, "write", err)
		return fmt.Errorf("send to %s: %w", to, err)
	}

	s.logDatagram(to, log.DirectionOut, data, m, multicast)
	return nil
}

// readLoop receives datagrams until the socket is closed.
func (s *Server) readLoop() {
	defer s.wg.Done()

	buf := make([]byte, s.config.MaxDatagramSize)
	for {
		n, from, dst, err := s.read(buf)
		if err != nil {
			if !s.running.Load() || errors.Is(err, net.ErrClosed) {
				return
			}
			s.reportError(netip.AddrPort{}, fmt.Errorf("read: %w", err))
			continue
		}

		data := make([]byte, n)
		copy(data, buf[:n])
		s.handleDatagram(from, dst, data)
	}
}

func (s *Server) read(buf []byte) (int, netip.AddrPort, netip.Addr, error) {
	if s.pconn == nil {
		n, from, err := s.conn.ReadFromUDPAddrPort(buf)
		return n, unmap(from), netip.Addr{}, err
	}

	n, cm, src, err := s.pconn.ReadFrom(buf)
	if err != nil {
		return 0, netip.AddrPort{}, netip.Addr{}, err
	}

	var from netip.AddrPort
	if ua, ok := src.(*net.UDPAddr); ok {
		from = unmap(ua.AddrPort())
	}
	var dst netip.Addr
	if cm != nil && cm.Dst != nil {
		dst, _ = netip.AddrFromSlice(cm.Dst)
		dst = dst.Unmap()
	}
	return n, from, dst, nil
}

func unmap(ap netip.AddrPort) netip.AddrPort {
	return netip.AddrPortFrom(ap.Addr().Unmap(), ap.Port())
}

func (s *Server) handleDatagram(from netip.AddrPort, dst netip.Addr, data []byte) {
	multicast := dst.IsValid() && dst.IsMulticast()

	m, err := wire.Unmarshal(data)
	if err != nil {
		s.logDatagram(from, log.DirectionIn, data, nil, multicast)
		s.logError(from, "decode", err)
		s.reportError(from, err)
		return
	}
	s.logDatagram(from, log.DirectionIn, data, m, multicast)

	start := time.Now()
	ctx := log.WithExchangeID(s.ctx, s.exchangeID(from))
	reply := s.handler.HandleMessage(ctx, from, dst, m)
	if reply == nil || multicast {
		return
	}

	if err := s.write(from, reply, false); err != nil {
		s.reportError(from, err)
		return
	}
	s.logProcessingTime(from, reply, time.Since(start))
}

func (s *Server) reportError(from netip.AddrPort, err error) {
	if s.config.OnError != nil {
		s.config.OnError(from, err)
	}
}

// exchangeID returns the exchange ID of a peer, creating one on first
// contact.
func (s *Server) exchangeID(peer netip.AddrPort) string {
	s.peersMu.Lock()
	defer s.peersMu.Unlock()

	if id, ok := s.peers[peer]; ok {
		return id
	}
	if len(s.peers) >= MaxPeers {
		clear(s.peers)
	}
	id := uuid.New().String()
	s.peers[peer] = id
	return id
}

func (s *Server) logDatagram(peer netip.AddrPort, dir log.Direction, data []byte, m *wire.Message, multicast bool) {
	if s.config.Logger == nil {
		return
	}

	exchangeID := s.exchangeID(peer)
	now := time.Now()
	s.config.Logger.Log(log.Event{
		Timestamp:  now,
		ExchangeID: exchangeID,
		Direction:  dir,
		Layer:      log.LayerTransport,
		Category:   log.CategoryMessage,
		Node:       s.config.Node,
		RemoteAddr: peer.String(),
		Frame:      log.NewFrameEvent(data, multicast),
	})
	if m == nil {
		return
	}
	s.config.Logger.Log(log.Event{
		Timestamp:  now,
		ExchangeID: exchangeID,
		Direction:  dir,
		Layer:      log.LayerWire,
		Category:   log.CategoryMessage,
		Node:       s.config.Node,
		RemoteAddr: peer.String(),
		Path:       m.Path(),
		Message:    log.NewMessageEvent(m),
	})
}

func (s *Server) logProcessingTime(peer netip.AddrPort, reply *wire.Message, d time.Duration) {
	if s.config.Logger == nil {
		return
	}
	ev := log.NewMessageEvent(reply)
	ev.ProcessingTime = &d
	s.config.Logger.Log(log.Event{
		Timestamp:  time.Now(),
		ExchangeID: s.exchangeID(peer),
		Direction:  log.DirectionOut,
		Layer:      log.LayerService,
		Category:   log.CategoryMessage,
		Node:       s.config.Node,
		RemoteAddr: peer.String(),
		Message:    ev,
	})
}

func (s *Server) logError(peer netip.AddrPort, op string, err error) {
	if s.config.Logger == nil {
		return
	}
	s.config.Logger.Log(log.Event{
		Timestamp:  time.Now(),
		ExchangeID: s.exchangeID(peer),
		Layer:      log.LayerTransport,
		Category:   log.CategoryError,
		Node:       s.config.Node,
		RemoteAddr: peer.String(),
		Error: &log.ErrorEventData{
			Layer:   log.LayerTransport,
			Message: err.Error(),
			Context: op,
		},
	})
}
