package log

import (
	"time"

	"github.com/iotsys/iotsys-go/pkg/wire"
)

// Event represents an exchange log event captured at any layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// ExchangeID correlates the events of one peer (UUID).
	ExchangeID string `cbor:"2,keyasint"`

	// Direction indicates message flow.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// Node is the name of the logging node.
	Node string `cbor:"6,keyasint,omitempty"`

	// RemoteAddr is the peer address (IP:port).
	RemoteAddr string `cbor:"7,keyasint,omitempty"`

	// Path is the resource the event concerns.
	Path string `cbor:"8,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Frame   *FrameEvent     `cbor:"10,keyasint,omitempty"` // Transport layer
	Message *MessageEvent   `cbor:"11,keyasint,omitempty"` // Wire layer (decoded)
	Block   *BlockEvent     `cbor:"12,keyasint,omitempty"` // Chunked transfer step
	Notify  *NotifyEvent    `cbor:"13,keyasint,omitempty"` // Observe notification
	Group   *GroupEvent     `cbor:"14,keyasint,omitempty"` // Group table activity
	Error   *ErrorEventData `cbor:"15,keyasint,omitempty"` // Errors at any layer
}

// Direction indicates the direction of message flow.
type Direction uint8

const (
	// DirectionIn indicates an incoming message.
	DirectionIn Direction = 0
	// DirectionOut indicates an outgoing message.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which layer captured the event.
type Layer uint8

const (
	// LayerTransport is the datagram layer (raw bytes).
	LayerTransport Layer = 0
	// LayerWire is the CoAP message layer.
	LayerWire Layer = 1
	// LayerService is the resource layer.
	LayerService Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerTransport:
		return "TRANSPORT"
	case LayerWire:
		return "WIRE"
	case LayerService:
		return "SERVICE"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryMessage indicates a CoAP message or datagram.
	CategoryMessage Category = 0
	// CategoryBlock indicates one step of a chunked transfer.
	CategoryBlock Category = 1
	// CategoryNotify indicates an observe notification.
	CategoryNotify Category = 2
	// CategoryGroup indicates group table activity.
	CategoryGroup Category = 3
	// CategoryError indicates an error event.
	CategoryError Category = 4
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryMessage:
		return "MESSAGE"
	case CategoryBlock:
		return "BLOCK"
	case CategoryNotify:
		return "NOTIFY"
	case CategoryGroup:
		return "GROUP"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// FrameEvent captures a raw datagram at the transport layer.
type FrameEvent struct {
	// Size is the datagram size in bytes.
	Size int `cbor:"1,keyasint"`

	// Data is the raw datagram (may be truncated for large datagrams).
	Data []byte `cbor:"2,keyasint,omitempty"`

	// Truncated indicates if Data was truncated.
	Truncated bool `cbor:"3,keyasint,omitempty"`

	// Multicast is set for datagrams addressed to a group.
	Multicast bool `cbor:"4,keyasint,omitempty"`
}

// MaxFrameData is the number of datagram bytes kept in a FrameEvent.
const MaxFrameData = 256

// NewFrameEvent returns a FrameEvent for data, truncating the copy kept.
func NewFrameEvent(data []byte, multicast bool) *FrameEvent {
	n := min(len(data), MaxFrameData)
	kept := make([]byte, n)
	copy(kept, data)
	return &FrameEvent{
		Size:      len(data),
		Data:      kept,
		Truncated: n < len(data),
		Multicast: multicast,
	}
}

// MessageEvent captures a decoded CoAP message at the wire layer.
type MessageEvent struct {
	// Type is the CoAP message type.
	Type wire.Type `cbor:"1,keyasint"`

	// Code is the method or response code.
	Code wire.Code `cbor:"2,keyasint"`

	// MessageID is the CoAP message ID.
	MessageID uint16 `cbor:"3,keyasint"`

	// Token correlates requests, responses and notifications.
	Token []byte `cbor:"4,keyasint,omitempty"`

	// Observe is the Observe option value, if present.
	Observe *uint32 `cbor:"5,keyasint,omitempty"`

	// Block2 is the raw Block2 option value, if present.
	Block2 *uint32 `cbor:"6,keyasint,omitempty"`

	// ContentFormat is the Content-Format option value, if present.
	ContentFormat *uint16 `cbor:"7,keyasint,omitempty"`

	// PayloadSize is the payload length in bytes.
	PayloadSize int `cbor:"8,keyasint,omitempty"`

	// ProcessingTime is the duration from request receipt to response send
	// (responses only). Stored as nanoseconds.
	ProcessingTime *time.Duration `cbor:"9,keyasint,omitempty"`
}

// NewMessageEvent summarizes m.
func NewMessageEvent(m *wire.Message) *MessageEvent {
	ev := &MessageEvent{
		Type:        m.Type,
		Code:        m.Code,
		MessageID:   m.MessageID,
		Token:       append([]byte(nil), m.Token...),
		PayloadSize: len(m.Payload),
	}
	if v, ok := m.Options.Uint(wire.Observe); ok {
		ev.Observe = &v
	}
	if v, ok := m.Options.Uint(wire.Block2); ok {
		ev.Block2 = &v
	}
	if v, ok := m.Options.Uint(wire.ContentFormat); ok {
		cf := uint16(v)
		ev.ContentFormat = &cf
	}
	return ev
}

// BlockEvent captures one step of a chunked transfer.
type BlockEvent struct {
	// Cursor is the requested offset.
	Cursor int32 `cbor:"1,keyasint"`

	// Length is the chunk length.
	Length int `cbor:"2,keyasint"`

	// Next is the cursor of the following chunk, -1 when complete.
	Next int32 `cbor:"3,keyasint"`

	// Total is the length of the rendered message.
	Total int `cbor:"4,keyasint"`

	// Rendered is set when this step composed a fresh message.
	Rendered bool `cbor:"5,keyasint,omitempty"`
}

// NotifyEvent captures an observe notification.
type NotifyEvent struct {
	// Sequence is the resource sequence value sent.
	Sequence uint32 `cbor:"1,keyasint"`

	// Observers is the number of observers notified.
	Observers int `cbor:"2,keyasint"`

	// Value is the formatted value token.
	Value string `cbor:"3,keyasint,omitempty"`

	// Suppressed is set when the notification was skipped as unchanged.
	Suppressed bool `cbor:"4,keyasint,omitempty"`
}

// GroupEvent captures group table activity.
type GroupEvent struct {
	// Action is what happened.
	Action GroupAction `cbor:"1,keyasint"`

	// GroupID is the 16-bit group identifier.
	GroupID uint16 `cbor:"2,keyasint"`

	// Handler is the handler concerned (join, leave, send).
	Handler string `cbor:"3,keyasint,omitempty"`

	// Applied is false when a join was dropped or a leave found nothing.
	Applied bool `cbor:"4,keyasint,omitempty"`

	// Handlers is the number of handlers a dispatch reached.
	Handlers int `cbor:"5,keyasint,omitempty"`
}

// GroupAction identifies a group table operation.
type GroupAction uint8

const (
	// GroupJoin binds a handler to a group.
	GroupJoin GroupAction = 0
	// GroupLeave unbinds a handler.
	GroupLeave GroupAction = 1
	// GroupDispatch delivers an inbound multicast payload.
	GroupDispatch GroupAction = 2
	// GroupSend fans a local update out to a group.
	GroupSend GroupAction = 3
)

// String returns the action name.
func (a GroupAction) String() string {
	switch a {
	case GroupJoin:
		return "JOIN"
	case GroupLeave:
		return "LEAVE"
	case GroupDispatch:
		return "DISPATCH"
	case GroupSend:
		return "SEND"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Code is the CoAP response code sent for the error (if applicable).
	Code *int `cbor:"3,keyasint,omitempty"`

	// Context describes what operation was being performed.
	Context string `cbor:"4,keyasint,omitempty"`
}
