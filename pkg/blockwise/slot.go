package blockwise

// Slot holds the rendered message of the transfer in flight for one
// resource. A slot serves a single transfer at a time: starting a new one
// replaces the message of the previous.
type Slot struct {
	msg    []byte
	active bool
}

// NewSlot returns a slot whose buffer is preallocated to capacity bytes.
func NewSlot(capacity int) *Slot {
	return &Slot{msg: make([]byte, 0, capacity)}
}

// NeedsRender reports whether a request at cursor must compose a fresh
// message. Only a continuation of an active transfer reuses the stored one.
func (s *Slot) NeedsRender(cursor Cursor) bool {
	return cursor <= 0 || !s.active
}

// Buffer returns the slot storage, emptied, for rendering into.
func (s *Slot) Buffer() []byte {
	return s.msg[:0]
}

// Store keeps msg as the message of the active transfer.
func (s *Slot) Store(msg []byte) {
	s.msg = msg
	s.active = true
}

// Message returns the stored message.
func (s *Slot) Message() []byte {
	return s.msg
}

// Release ends the active transfer. The buffer is kept for reuse.
func (s *Slot) Release() {
	s.active = false
}

// Active reports whether a transfer is in flight.
func (s *Slot) Active() bool {
	return s.active
}
