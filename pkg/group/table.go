package group

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"sync"
)

// Table dimensions.
const (
	MaxGroups   = 5
	MaxHandlers = 2
)

// HandlerID identifies a handler independently of its value.
type HandlerID string

// Handler receives payloads addressed to a group it joined.
type Handler interface {
	ID() HandlerID
	Receive(payload []byte)
}

// Sender sends a payload to a multicast group on behalf of a local handler.
type Sender interface {
	SendGroup(ctx context.Context, addr netip.Addr, source HandlerID, payload []byte) error
}

// Entry is one row of the table. An entry with GroupID 0 is free.
type Entry struct {
	GroupID  uint16
	Handlers [MaxHandlers]Handler
}

func (e *Entry) indexOf(id HandlerID) int {
	for i, h := range e.Handlers {
		if h != nil && h.ID() == id {
			return i
		}
	}
	return -1
}

func (e *Entry) free() int {
	for i, h := range e.Handlers {
		if h == nil {
			return i
		}
	}
	return -1
}

// Membership is one (group, handler) binding.
type Membership struct {
	GroupID uint16
	Handler HandlerID
}

// Table maps group identifiers to handlers.
type Table struct {
	mu      sync.Mutex
	entries [MaxGroups]Entry
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{}
}

func (t *Table) find(id uint16) *Entry {
	for i := range t.entries {
		if t.entries[i].GroupID == id {
			return &t.entries[i]
		}
	}
	return nil
}

// Join binds h to the group id. Joining twice is a no-op. It reports
// whether h is bound after the call; a full table or a full entry drops the
// join. Group id 0 is never stored.
func (t *Table) Join(id uint16, h Handler) bool {
	if id == 0 || h == nil {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	e := t.find(id)
	if e == nil {
		e = t.find(0)
	}
	if e == nil {
		return false
	}

	if e.indexOf(h.ID()) >= 0 {
		return true
	}
	slot := e.free()
	if slot < 0 {
		return false
	}
	e.GroupID = id
	e.Handlers[slot] = h
	return true
}

// Leave unbinds h from the group id. The entry keeps its identifier.
// It reports whether a binding was removed.
func (t *Table) Leave(id uint16, h HandlerID) bool {
	if id == 0 {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	e := t.find(id)
	if e == nil {
		return false
	}
	i := e.indexOf(h)
	if i < 0 {
		return false
	}
	e.Handlers[i] = nil
	return true
}

// Dispatch delivers payload to every handler bound to the group of addr
// and returns the number of handlers invoked. Handlers run after the table
// lock is released and may call back into the table.
func (t *Table) Dispatch(addr netip.Addr, payload []byte) int {
	id := GroupIDFromAddress(addr)
	if id == 0 {
		return 0
	}

	t.mu.Lock()
	var targets []Handler
	if e := t.find(id); e != nil {
		for _, h := range e.Handlers {
			if h != nil {
				targets = append(targets, h)
			}
		}
	}
	t.mu.Unlock()

	for _, h := range targets {
		h.Receive(payload)
	}
	return len(targets)
}

// Groups returns the groups handler h is bound to, in table order.
func (t *Table) Groups(h HandlerID) []uint16 {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out []uint16
	for i := range t.entries {
		e := &t.entries[i]
		if e.GroupID != 0 && e.indexOf(h) >= 0 {
			out = append(out, e.GroupID)
		}
	}
	return out
}

// SendUpdate sends payload to the multicast address of every group handler
// h is bound to. All groups are attempted; the errors are joined.
func (t *Table) SendUpdate(ctx context.Context, s Sender, payload []byte, h HandlerID) error {
	var errs []error
	for _, id := range t.Groups(h) {
		addr := MulticastAddress(id).Addr()
		if err := s.SendGroup(ctx, addr, h, payload); err != nil {
			errs = append(errs, fmt.Errorf("send to group %#04x: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// Entries returns a copy of the table rows.
func (t *Table) Entries() [MaxGroups]Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.entries
}

// Memberships returns all bindings in table order.
func (t *Table) Memberships() []Membership {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out []Membership
	for _, e := range t.entries {
		if e.GroupID == 0 {
			continue
		}
		for _, h := range e.Handlers {
			if h != nil {
				out = append(out, Membership{GroupID: e.GroupID, Handler: h.ID()})
			}
		}
	}
	return out
}
