package blockwise

import (
	"errors"
	"fmt"
)

// Defaults of the chunked transfer.
const (
	// DefaultBudget is the largest offset a transfer may reach.
	DefaultBudget = 1024

	// DefaultMaxChunkSize is used when the preferred chunk size is absent
	// or out of range.
	DefaultMaxChunkSize = 64

	// MaxETagChunkSize is the largest chunk whose length fits the ETag.
	MaxETagChunkSize = 128
)

// Transfer errors.
var (
	// ErrOutOfScope is returned for a cursor at or beyond the budget.
	ErrOutOfScope = errors.New("block out of scope")

	// ErrLength is returned when the cursor leaves nothing to send.
	ErrLength = errors.New("calculation of message length error")
)

// Cursor is a byte offset into the rendered message.
type Cursor int32

// Complete means no further chunk follows.
const Complete Cursor = -1

// Done reports whether the cursor marks a finished transfer.
func (c Cursor) Done() bool {
	return c == Complete
}

// Chunk is one slice of a rendered message.
type Chunk struct {
	// Payload aliases the output buffer passed to Transmit.
	Payload []byte

	// Next is the cursor for the following request, or Complete.
	Next Cursor

	// ETag is the one-byte response marker, equal to the chunk length.
	// Nodes cap MaxChunkSize at MaxETagChunkSize so it does not wrap.
	ETag byte
}

// Last reports whether this is the final chunk of the transfer.
func (c Chunk) Last() bool {
	return c.Next.Done()
}

// Transmitter emits chunks of a rendered message. The zero value uses
// DefaultBudget and DefaultMaxChunkSize.
type Transmitter struct {
	Budget       int
	MaxChunkSize int
}

// NewTransmitter returns a transmitter with the given limits. Non-positive
// values select the defaults.
func NewTransmitter(budget, maxChunkSize int) Transmitter {
	return Transmitter{Budget: budget, MaxChunkSize: maxChunkSize}
}

func (t Transmitter) budget() int {
	if t.Budget <= 0 {
		return DefaultBudget
	}
	return t.Budget
}

func (t Transmitter) maxChunkSize() int {
	if t.MaxChunkSize <= 0 {
		return DefaultMaxChunkSize
	}
	return t.MaxChunkSize
}

// ChunkSize clamps a preferred chunk size to the transmitter limit.
func (t Transmitter) ChunkSize(preferred int) int {
	limit := t.maxChunkSize()
	if preferred <= 0 || preferred > limit {
		return limit
	}
	return preferred
}

// InScope reports whether a transfer may continue at cursor.
func (t Transmitter) InScope(cursor Cursor) bool {
	return int(cursor) < t.budget()
}

// Transmit copies the chunk of msg starting at cursor into out and returns
// it together with the next cursor. A negative cursor starts the transfer
// at offset 0. out is grown when it lacks capacity.
func (t Transmitter) Transmit(msg []byte, cursor Cursor, preferred int, out []byte) (Chunk, error) {
	budget := t.budget()
	if !t.InScope(cursor) {
		return Chunk{}, fmt.Errorf("%w: cursor %d, budget %d", ErrOutOfScope, cursor, budget)
	}

	offset := max(int(cursor), 0)
	remaining := len(msg) - offset
	if remaining <= 0 {
		return Chunk{}, fmt.Errorf("%w: cursor %d, message %d bytes", ErrLength, cursor, len(msg))
	}

	size := t.ChunkSize(preferred)
	next := Complete
	n := remaining
	if remaining > size {
		n = size
		if offset+size > budget {
			n = budget - offset
		} else {
			next = Cursor(offset + size)
		}
	}

	if cap(out) < n {
		out = make([]byte, n)
	}
	out = out[:n]
	copy(out, msg[offset:offset+n])

	return Chunk{Payload: out, Next: next, ETag: byte(n)}, nil
}
