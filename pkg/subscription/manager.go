package subscription

import (
	"bytes"
	"net/netip"
	"sync"
	"time"
)

// Notification is one notification to deliver to one observer.
type Notification struct {
	// SubscriptionID identifies the subscription.
	SubscriptionID uint32

	// Path is the observed resource.
	Path string

	// Observer receives the notification.
	Observer Observer

	// Sequence is the resource sequence value for the Observe option.
	Sequence uint32

	// Payload is the rendered representation. It is shared by all
	// notifications of one Notify call and must not be modified.
	Payload []byte

	// Timestamp is when the notification was generated.
	Timestamp time.Time
}

// Manager manages the observers of a node.
type Manager struct {
	mu sync.RWMutex

	// Configuration
	config Config

	// Active subscriptions by ID
	subscriptions map[uint32]*Subscription

	// Index by path for notification fan-out, in registration order
	pathIndex map[string][]*Subscription

	// Per-resource sequence counters
	sequences map[string]uint32

	// Last notified value token per resource
	lastValues map[string][]byte

	// Callbacks
	onNotification func(Notification)
}

// NewManager creates a new subscription manager with default configuration.
func NewManager() *Manager {
	return NewManagerWithConfig(DefaultConfig())
}

// NewManagerWithConfig creates a new subscription manager with custom configuration.
func NewManagerWithConfig(config Config) *Manager {
	if config.MaxSubscriptions <= 0 {
		config.MaxSubscriptions = DefaultMaxSubscriptions
	}

	return &Manager{
		config:        config,
		subscriptions: make(map[uint32]*Subscription),
		pathIndex:     make(map[string][]*Subscription),
		sequences:     make(map[string]uint32),
		lastValues:    make(map[string][]byte),
	}
}

// Config returns the manager configuration.
func (m *Manager) Config() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// Observe registers observer on path and returns the subscription ID and
// the current sequence value of the resource. A registration from an
// address that already observes path replaces the previous one.
func (m *Manager) Observe(path string, observer Observer) (uint32, uint32, error) {
	if len(observer.Token) > MaxTokenLength {
		return 0, 0, ErrInvalidToken
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if old := m.findLocked(path, observer.Addr); old != nil {
		m.removeLocked(old)
	} else if len(m.subscriptions) >= m.config.MaxSubscriptions {
		return 0, 0, ErrResourceExhausted
	}

	sub := NewSubscription(nextID(), path, observer)
	m.subscriptions[sub.ID] = sub
	m.pathIndex[path] = append(m.pathIndex[path], sub)

	return sub.ID, m.sequences[path], nil
}

// Cancel removes a subscription by ID.
func (m *Manager) Cancel(subscriptionID uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sub, exists := m.subscriptions[subscriptionID]
	if !exists {
		return ErrSubscriptionNotFound
	}
	m.removeLocked(sub)
	return nil
}

// CancelObserver removes the observation of path by addr, as requested by a
// GET with Observe set to 1.
func (m *Manager) CancelObserver(path string, addr netip.AddrPort) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sub := m.findLocked(path, addr)
	if sub == nil {
		return ErrSubscriptionNotFound
	}
	m.removeLocked(sub)
	return nil
}

// CancelByToken removes every observation of addr carrying token. It is
// used when a notification is answered with a reset.
func (m *Manager) CancelByToken(addr netip.AddrPort, token []byte) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []*Subscription
	for _, sub := range m.subscriptions {
		if sub.Observer.Addr == addr && bytes.Equal(sub.Observer.Token, token) {
			matched = append(matched, sub)
		}
	}
	for _, sub := range matched {
		m.removeLocked(sub)
	}
	return len(matched)
}

// Notify advances the sequence counter of path and delivers payload to every
// observer of path through the notification callback. It returns the new
// sequence value and the number of observers notified. The counter advances
// even when nobody observes the resource.
func (m *Manager) Notify(path string, payload []byte) (uint32, int) {
	m.mu.Lock()
	seq := nextSequence(m.sequences[path])
	m.sequences[path] = seq
	subs := make([]*Subscription, len(m.pathIndex[path]))
	copy(subs, m.pathIndex[path])
	onNotify := m.onNotification
	m.mu.Unlock()

	now := time.Now()
	for _, sub := range subs {
		sub.RecordNotification(seq)
		if onNotify != nil {
			onNotify(Notification{
				SubscriptionID: sub.ID,
				Path:           path,
				Observer:       sub.Observer,
				Sequence:       seq,
				Payload:        payload,
				Timestamp:      now,
			})
		}
	}
	return seq, len(subs)
}

// Sequence returns the current sequence value of path.
func (m *Manager) Sequence(path string) uint32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sequences[path]
}

// Unchanged reports whether token equals the last value recorded for path
// and suppression is enabled. A resource with no recorded value is never
// unchanged.
func (m *Manager) Unchanged(path string, token []byte) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.config.SuppressUnchanged {
		return false
	}
	last, ok := m.lastValues[path]
	return ok && bytes.Equal(last, token)
}

// Record stores token as the last notified value of path.
func (m *Manager) Record(path string, token []byte) {
	v := make([]byte, len(token))
	copy(v, token)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastValues[path] = v
}

// ClearAll removes all subscriptions. Sequence counters are kept.
func (m *Manager) ClearAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, sub := range m.subscriptions {
		sub.Deactivate()
	}
	m.subscriptions = make(map[uint32]*Subscription)
	m.pathIndex = make(map[string][]*Subscription)
}

// Count returns the number of active subscriptions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subscriptions)
}

// Observers returns the observers of path in registration order.
func (m *Manager) Observers(path string) []Observer {
	m.mu.RLock()
	defer m.mu.RUnlock()

	subs := m.pathIndex[path]
	out := make([]Observer, 0, len(subs))
	for _, sub := range subs {
		out = append(out, sub.Observer)
	}
	return out
}

// Get returns a subscription by ID.
func (m *Manager) Get(subscriptionID uint32) (*Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sub, exists := m.subscriptions[subscriptionID]
	if !exists {
		return nil, ErrSubscriptionNotFound
	}
	return sub, nil
}

// OnNotification sets the callback for notifications.
func (m *Manager) OnNotification(fn func(Notification)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onNotification = fn
}

func (m *Manager) findLocked(path string, addr netip.AddrPort) *Subscription {
	for _, sub := range m.pathIndex[path] {
		if sub.Observer.Addr == addr {
			return sub
		}
	}
	return nil
}

func (m *Manager) removeLocked(sub *Subscription) {
	sub.Deactivate()
	delete(m.subscriptions, sub.ID)

	subs := m.pathIndex[sub.Path]
	for i, s := range subs {
		if s.ID == sub.ID {
			m.pathIndex[sub.Path] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(m.pathIndex[sub.Path]) == 0 {
		delete(m.pathIndex, sub.Path)
	}
}
