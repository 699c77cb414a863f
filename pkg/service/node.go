package service

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"net/netip"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/iotsys/iotsys-go/pkg/blockwise"
	"github.com/iotsys/iotsys-go/pkg/group"
	"github.com/iotsys/iotsys-go/pkg/log"
	"github.com/iotsys/iotsys-go/pkg/model"
	"github.com/iotsys/iotsys-go/pkg/sensor"
	"github.com/iotsys/iotsys-go/pkg/subscription"
	"github.com/iotsys/iotsys-go/pkg/wire"
)

// sentHistory is the number of notification message IDs remembered for
// matching resets.
const sentHistory = 32

type interrupt struct {
	line sensor.Line
	reg  uint8
}

type sentNotification struct {
	mid      uint16
	observer subscription.Observer
}

// Node is a sensor node serving its resources.
type Node struct {
	config NodeConfig
	hw     sensor.Hardware
	tx     blockwise.Transmitter
	nodeID string

	mu    sync.RWMutex
	state NodeState
	out   Transport
	store StateStore

	subs   *subscription.Manager
	groups *group.Table

	// Owned by the loop goroutine.
	res      model.State
	slots    map[string]*blockwise.Slot
	handlers map[group.HandlerID]*groupHandler
	sent     [sentHistory]sentNotification
	sentNext int

	jobs chan func()
	irqs chan interrupt
	mid  atomic.Uint32

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running atomic.Bool

	logger *slog.Logger
	exlog  log.Logger
}

// NewNode creates a node on top of hw.
func NewNode(hw sensor.Hardware, config NodeConfig) (*Node, error) {
	if hw == nil {
		return nil, ErrNoHardware
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	n := &Node{
		config: config,
		hw:     hw,
		tx:     blockwise.NewTransmitter(config.BlockBudget, config.MaxChunkSize),
		nodeID: uuid.New().String(),
		subs: subscription.NewManagerWithConfig(subscription.Config{
			MaxSubscriptions:  config.MaxObservers,
			SuppressUnchanged: config.SuppressUnchanged,
		}),
		groups:   group.NewTable(),
		slots:    make(map[string]*blockwise.Slot),
		handlers: make(map[group.HandlerID]*groupHandler),
		jobs:     make(chan func(), config.QueueSize),
		irqs:     make(chan interrupt, config.QueueSize),
		logger:   logger.With("node", config.Name),
		exlog:    log.OrNoop(config.ExchangeLogger),
	}
	n.mid.Store(rand.Uint32())

	for _, r := range model.Resources() {
		n.slots[r.Path] = blockwise.NewSlot(r.Capacity)
		if r.Groupable {
			h := &groupHandler{node: n, res: r}
			n.handlers[h.ID()] = h
		}
	}
	n.slots[model.WellKnownCore] = blockwise.NewSlot(config.BlockBudget)

	n.subs.OnNotification(n.deliver)
	return n, nil
}

// SetTransport sets the outbound transport. Must be called before Start.
func (n *Node) SetTransport(t Transport) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.out = t
}

// SetStateStore sets the store used to persist group memberships and
// actuator values. Must be called before Start.
func (n *Node) SetStateStore(s StateStore) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.store = s
}

// ID returns the node instance identifier.
func (n *Node) ID() string {
	return n.nodeID
}

// Config returns the node configuration.
func (n *Node) Config() NodeConfig {
	return n.config
}

// State returns the lifecycle state.
func (n *Node) State() NodeState {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.state
}

// Groups returns the group table.
func (n *Node) Groups() *group.Table {
	return n.groups
}

// Observers returns the observer registry.
func (n *Node) Observers() *subscription.Manager {
	return n.subs
}

// Start restores persisted state and starts the event loop.
func (n *Node) Start(ctx context.Context) error {
	n.mu.Lock()
	if n.state != StateIdle {
		n.mu.Unlock()
		return ErrAlreadyStarted
	}
	n.state = StateRunning
	n.mu.Unlock()

	n.ctx, n.cancel = context.WithCancel(ctx)

	if err := n.restore(); err != nil {
		n.logger.Warn("restore state failed", "error", err)
	}

	n.hw.OnInterrupt(n.Interrupt)

	n.running.Store(true)
	n.wg.Add(1)
	go n.run()

	n.logger.Info("node started",
		"id", n.nodeID,
		"temperature_period", n.config.TemperaturePeriod,
		"battery_period", n.config.BatteryPeriod)
	return nil
}

// Stop stops the event loop and drops all observers.
func (n *Node) Stop() error {
	n.mu.Lock()
	if n.state != StateRunning {
		n.mu.Unlock()
		return ErrNotStarted
	}
	n.state = StateStopped
	n.mu.Unlock()

	n.running.Store(false)
	n.hw.OnInterrupt(nil)
	n.cancel()
	n.wg.Wait()

	n.subs.ClearAll()
	n.logger.Info("node stopped")
	return nil
}

func (n *Node) run() {
	defer n.wg.Done()

	temp := time.NewTicker(n.config.TemperaturePeriod)
	defer temp.Stop()
	battery := time.NewTicker(n.config.BatteryPeriod)
	defer battery.Stop()

	tempValue, _ := model.Lookup("temp/value")
	batteryValue, _ := model.Lookup("battery/value")

	for {
		select {
		case <-n.ctx.Done():
			return
		case job := <-n.jobs:
			job()
		case irq := <-n.irqs:
			n.handleInterrupt(irq)
		case <-temp.C:
			n.tick(tempValue)
		case <-battery.C:
			n.tick(batteryValue)
		}
	}
}

// do runs fn on the loop and waits for it to finish.
func (n *Node) do(ctx context.Context, fn func()) error {
	if !n.running.Load() {
		return ErrNotStarted
	}

	done := make(chan struct{})
	job := func() {
		defer close(done)
		fn()
	}

	select {
	case n.jobs <- job:
	case <-ctx.Done():
		return ctx.Err()
	case <-n.ctx.Done():
		return ErrStopped
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-n.ctx.Done():
		return ErrStopped
	}
}

// Interrupt posts an accelerometer interrupt to the loop. It never blocks;
// interrupts arriving while the queue is full are dropped.
func (n *Node) Interrupt(line sensor.Line, reg uint8) {
	if !n.running.Load() {
		return
	}
	select {
	case n.irqs <- interrupt{line: line, reg: reg}:
	default:
		n.logger.Warn("interrupt dropped", "line", line, "reg", reg)
	}
}

// HandleRequest runs req on the loop. A nil response means no reply is
// sent, which is the case for group traffic.
func (n *Node) HandleRequest(ctx context.Context, req *Request) (*Response, error) {
	var resp *Response
	err := n.do(ctx, func() {
		resp = n.handle(req)
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// HandleMessage handles a decoded CoAP message received from a peer on the
// local address dst and returns the reply, or nil.
func (n *Node) HandleMessage(ctx context.Context, from netip.AddrPort, dst netip.Addr, m *wire.Message) *wire.Message {
	switch m.Type {
	case wire.Reset:
		_ = n.do(ctx, func() { n.handleReset(from, m.MessageID) })
		return nil
	case wire.Acknowledgement:
		return nil
	}

	if m.Code == wire.Empty {
		// Ping.
		if m.Type == wire.Confirmable {
			return &wire.Message{Type: wire.Reset, MessageID: m.MessageID}
		}
		return nil
	}
	if !m.Code.IsRequest() {
		return nil
	}

	req, err := NewRequest(from, dst, m)
	if err != nil {
		n.logger.Debug("bad request", "remote", from, "error", err)
		return errorResponse(wire.BadOption, MsgBadBlockOption).Message(m, n.nextMID())
	}

	req.ExchangeID = log.ExchangeIDFromContext(ctx)

	resp, err := n.HandleRequest(ctx, req)
	if err != nil {
		n.logger.Debug("request not handled", "remote", from, "error", err)
		if m.Type == wire.Confirmable {
			return errorResponse(wire.ServiceUnavailable, MsgServiceStopped).Message(m, n.nextMID())
		}
		return nil
	}
	if resp == nil {
		return nil
	}
	return resp.Message(m, n.nextMID())
}

// Notify forces a notification of the resource at path, sampling periodic
// sensors first.
func (n *Node) Notify(ctx context.Context, path string) error {
	r, err := model.Lookup(path)
	if err != nil {
		return err
	}
	if !r.Observable {
		return model.ErrResourceNotFound
	}
	return n.do(ctx, func() {
		if r.Trigger == model.TriggerPeriodic {
			n.tick(r)
			return
		}
		n.notify(r, false)
	})
}

// Snapshot returns a copy of the resource state.
func (n *Node) Snapshot(ctx context.Context) (model.State, error) {
	var st model.State
	err := n.do(ctx, func() {
		st = n.res
	})
	return st, err
}

func (n *Node) nextMID() uint16 {
	return uint16(n.mid.Add(1))
}

func (n *Node) transport() Transport {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.out
}

func (n *Node) stateStore() StateStore {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.store
}

func (n *Node) logEvent(ev log.Event) {
	ev.Timestamp = time.Now()
	ev.Layer = log.LayerService
	ev.Node = n.config.Name
	if ev.ExchangeID == "" {
		ev.ExchangeID = n.nodeID
	}
	n.exlog.Log(ev)
}
