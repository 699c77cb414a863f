package subscription

import (
	"bytes"
	"errors"
	"net/netip"
	"sync"
	"sync/atomic"
	"time"
)

// Subscription errors.
var (
	ErrResourceExhausted    = errors.New("maximum observers reached")
	ErrSubscriptionNotFound = errors.New("observer not found")
	ErrInvalidToken         = errors.New("invalid observe token")
)

// Default limits.
const (
	DefaultMaxSubscriptions = 16
	MaxTokenLength          = 8
)

// SequenceMask limits the observe sequence to the width of the Observe option.
const SequenceMask = 0xFFFFFF

// Config holds subscription manager configuration.
type Config struct {
	// MaxSubscriptions is the maximum number of observers over all resources.
	MaxSubscriptions int

	// SuppressUnchanged skips notifications whose value token equals the last
	// notified one. Only consulted through Unchanged.
	SuppressUnchanged bool
}

// DefaultConfig returns the default subscription configuration.
func DefaultConfig() Config {
	return Config{
		MaxSubscriptions:  DefaultMaxSubscriptions,
		SuppressUnchanged: true,
	}
}

// Observer is the remote party of an observation.
type Observer struct {
	// Addr is the transport address notifications are sent to.
	Addr netip.AddrPort

	// Token is the request token echoed in every notification.
	Token []byte
}

// Equal reports whether o and other name the same observer and token.
func (o Observer) Equal(other Observer) bool {
	return o.Addr == other.Addr && bytes.Equal(o.Token, other.Token)
}

// Subscription is one registered observation.
type Subscription struct {
	mu sync.RWMutex

	// ID is the unique subscription identifier.
	ID uint32

	// Path is the observed resource.
	Path string

	// Observer receives the notifications.
	Observer Observer

	// Created is the registration time.
	Created time.Time

	// lastNotified is when the last notification was sent.
	lastNotified time.Time

	// lastSequence is the sequence of the last notification.
	lastSequence uint32

	// notifications counts notifications sent.
	notifications uint64

	// active indicates if the subscription is active.
	active bool
}

// NewSubscription creates a new subscription.
func NewSubscription(id uint32, path string, observer Observer) *Subscription {
	token := make([]byte, len(observer.Token))
	copy(token, observer.Token)
	observer.Token = token

	return &Subscription{
		ID:       id,
		Path:     path,
		Observer: observer,
		Created:  time.Now(),
		active:   true,
	}
}

// IsActive returns whether the subscription is active.
func (s *Subscription) IsActive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Deactivate marks the subscription as inactive.
func (s *Subscription) Deactivate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
}

// RecordNotification records a notification sent with seq.
func (s *Subscription) RecordNotification(seq uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastNotified = time.Now()
	s.lastSequence = seq
	s.notifications++
}

// Notifications returns the number of notifications sent.
func (s *Subscription) Notifications() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notifications
}

// LastSequence returns the sequence of the last notification.
func (s *Subscription) LastSequence() uint32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSequence
}

// TimeSinceLastNotification returns the time since the last notification,
// or since registration if none was sent.
func (s *Subscription) TimeSinceLastNotification() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastNotified.IsZero() {
		return time.Since(s.Created)
	}
	return time.Since(s.lastNotified)
}

// nextSequence advances a sequence counter within the Observe width.
func nextSequence(seq uint32) uint32 {
	return (seq + 1) & SequenceMask
}

// idGenerator generates unique subscription IDs.
var idGenerator atomic.Uint32

// nextID returns the next subscription ID.
func nextID() uint32 {
	return idGenerator.Add(1)
}
