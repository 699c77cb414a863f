package service

import (
	"fmt"
	"net/netip"
	"strings"

	"github.com/iotsys/iotsys-go/pkg/blockwise"
	"github.com/iotsys/iotsys-go/pkg/model"
	"github.com/iotsys/iotsys-go/pkg/wire"
)

// ObserveAction is what a GET asks of the observer registry.
type ObserveAction uint8

const (
	ObserveNone ObserveAction = iota
	ObserveRegister
	ObserveDeregister
)

// Group sub-resource actions.
const (
	ActionJoinGroup  = "joinGroup"
	ActionLeaveGroup = "leaveGroup"
)

// Request is a resource request as seen by the node.
type Request struct {
	// ExchangeID correlates the events of one peer.
	ExchangeID string

	// Source is the requesting peer.
	Source netip.AddrPort

	// Destination is the local address the request was sent to. A
	// multicast destination marks group traffic.
	Destination netip.Addr

	Method  model.Method
	Path    string
	Token   []byte
	Payload []byte

	// Cursor is the offset of the requested chunk.
	Cursor blockwise.Cursor

	// Preferred is the requested chunk size, 0 when absent.
	Preferred int

	// Block is set when the request carried a Block2 option.
	Block bool

	Observe ObserveAction
}

// Multicast reports whether the request was addressed to a group.
func (r *Request) Multicast() bool {
	return r.Destination.IsValid() && r.Destination.IsMulticast()
}

// Action splits a group sub-resource off the path. It returns the
// resource path and the action, or the path unchanged and "".
func (r *Request) Action() (string, string) {
	path := strings.Trim(r.Path, "/")
	i := strings.LastIndexByte(path, '/')
	if i < 0 {
		return path, ""
	}
	switch last := path[i+1:]; last {
	case ActionJoinGroup, ActionLeaveGroup:
		return path[:i], last
	}
	return path, ""
}

// Response is the outcome of a request.
type Response struct {
	Code    wire.Code
	Format  wire.MediaType
	Payload []byte

	// Offset is the position of Payload in the representation.
	Offset int

	// Next is the cursor of the following chunk, or blockwise.Complete.
	Next blockwise.Cursor

	// ChunkSize is the negotiated chunk size.
	ChunkSize int

	// Block is set when the reply must carry a Block2 option.
	Block bool

	// ETag is the chunk marker, nil for error replies.
	ETag []byte

	// Observe carries the sequence value of a fresh observe registration.
	Observe *uint32
}

func errorResponse(code wire.Code, msg string) *Response {
	return &Response{
		Code:    code,
		Format:  wire.TextPlain,
		Payload: []byte(msg),
		Next:    blockwise.Complete,
	}
}

var methods = map[wire.Code]model.Method{
	wire.GET:    model.MethodGet,
	wire.POST:   model.MethodPost,
	wire.PUT:    model.MethodPut,
	wire.DELETE: model.MethodDelete,
}

// NewRequest converts a decoded CoAP request.
func NewRequest(from netip.AddrPort, dst netip.Addr, m *wire.Message) (*Request, error) {
	method, ok := methods[m.Code]
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a method", wire.ErrInvalidHeader, m.Code)
	}

	req := &Request{
		Source:      from,
		Destination: dst,
		Method:      method,
		Path:        m.Path(),
		Token:       m.Token,
		Payload:     m.Payload,
	}

	b, ok, err := m.Block2()
	if err != nil {
		return nil, err
	}
	if ok {
		req.Block = true
		req.Cursor = blockwise.Cursor(b.Offset())
		req.Preferred = b.Size()
	}

	if v, ok := m.Observe(); ok {
		switch v {
		case 0:
			req.Observe = ObserveRegister
		case 1:
			req.Observe = ObserveDeregister
		}
	}
	return req, nil
}

// Message encodes resp as the reply to req. Confirmable requests get a
// piggybacked acknowledgement; everything else gets a non-confirmable
// reply with message ID mid.
func (resp *Response) Message(req *wire.Message, mid uint16) *wire.Message {
	m := &wire.Message{
		Type:      wire.NonConfirmable,
		Code:      resp.Code,
		MessageID: mid,
		Token:     req.Token,
		Payload:   resp.Payload,
	}
	if req.Type == wire.Confirmable {
		m.Type = wire.Acknowledgement
		m.MessageID = req.MessageID
	}

	if resp.ETag != nil {
		m.Options = m.Options.Add(wire.ETag, resp.ETag)
	}
	if resp.Observe != nil {
		m.Options = m.Options.SetUint(wire.Observe, *resp.Observe)
	}
	if len(resp.Payload) > 0 {
		m.Options = m.Options.SetUint(wire.ContentFormat, uint32(resp.Format))
	}
	if resp.Block && resp.ChunkSize > 0 {
		b := wire.Block{
			Num:  uint32(resp.Offset / resp.ChunkSize),
			More: !resp.Next.Done(),
			SZX:  wire.SZXForSize(resp.ChunkSize),
		}
		m.Options = m.Options.SetUint(wire.Block2, b.Value())
	}
	return m
}
