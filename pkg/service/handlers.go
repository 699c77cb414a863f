package service

import (
	"errors"

	"github.com/iotsys/iotsys-go/pkg/blockwise"
	"github.com/iotsys/iotsys-go/pkg/log"
	"github.com/iotsys/iotsys-go/pkg/model"
	"github.com/iotsys/iotsys-go/pkg/obix"
	"github.com/iotsys/iotsys-go/pkg/subscription"
	"github.com/iotsys/iotsys-go/pkg/wire"
)

// handle routes a request to its resource. Runs on the loop.
func (n *Node) handle(req *Request) *Response {
	if req.Multicast() {
		n.handleGroupTraffic(req)
		return nil
	}

	if req.Path == model.WellKnownCore {
		if req.Method != model.MethodGet {
			return errorResponse(wire.MethodNotAllowed, MsgMethodNotAllowed)
		}
		return n.transfer(req, discoveryResource, wire.Content)
	}

	path, action := req.Action()
	r, err := model.Lookup(path)
	if err != nil {
		return errorResponse(wire.NotFound, MsgNotFound)
	}

	if action != "" {
		if !r.Groupable {
			return errorResponse(wire.NotFound, MsgNotFound)
		}
		if req.Method != model.MethodPost {
			return errorResponse(wire.MethodNotAllowed, MsgMethodNotAllowed)
		}
		return n.handleGroupRequest(req, r, action)
	}

	if !r.Methods.Allows(req.Method) {
		return errorResponse(wire.MethodNotAllowed, MsgMethodNotAllowed)
	}

	switch req.Method {
	case model.MethodGet:
		resp := n.transfer(req, r, wire.Content)
		if resp.Code == wire.Content && r.Observable && req.Cursor <= 0 {
			n.observe(req, r, resp)
		}
		return resp
	case model.MethodPut:
		n.apply(r, obix.BoolValue(req.Payload), true)
		n.persist()
		return n.transfer(req, r, wire.Changed)
	default:
		return errorResponse(wire.MethodNotAllowed, MsgUnsupportedMethod)
	}
}

// discoveryResource describes the link format listing served on
// .well-known/core.
var discoveryResource = model.Resource{
	Path:     model.WellKnownCore,
	Methods:  model.MethodGet,
	Capacity: blockwise.DefaultBudget,
}

// transfer renders r when the request starts a transfer and returns the
// chunk at the request cursor.
func (n *Node) transfer(req *Request, r model.Resource, code wire.Code) *Response {
	slot := n.slots[r.Path]
	if !n.tx.InScope(req.Cursor) {
		n.logError(req, r.Path, wire.BadOption, blockwise.ErrOutOfScope)
		return errorResponse(wire.BadOption, MsgBlockOutOfScope)
	}

	rendered := false
	if slot.NeedsRender(req.Cursor) {
		msg, err := n.render(slot.Buffer(), r)
		if err != nil {
			slot.Release()
			n.logger.Debug("create message failed", "path", r.Path, "error", err)
			n.logError(req, r.Path, wire.InternalServerError, err)
			return errorResponse(wire.InternalServerError, MsgCreateFailed)
		}
		slot.Store(msg)
		rendered = true
	}

	chunk, err := n.tx.Transmit(slot.Message(), req.Cursor, req.Preferred, nil)
	switch {
	case errors.Is(err, blockwise.ErrOutOfScope):
		n.logError(req, r.Path, wire.BadOption, err)
		return errorResponse(wire.BadOption, MsgBlockOutOfScope)
	case err != nil:
		slot.Release()
		n.logError(req, r.Path, wire.InternalServerError, err)
		return errorResponse(wire.InternalServerError, MsgLengthFailed)
	}
	if chunk.Last() {
		slot.Release()
	}

	offset := max(int(req.Cursor), 0)
	size := n.tx.ChunkSize(req.Preferred)
	n.logEvent(log.Event{
		ExchangeID: req.ExchangeID,
		Direction:  log.DirectionOut,
		Category:   log.CategoryBlock,
		RemoteAddr: req.Source.String(),
		Path:       r.Path,
		Block: &log.BlockEvent{
			Cursor:   int32(req.Cursor),
			Length:   len(chunk.Payload),
			Next:     int32(chunk.Next),
			Total:    len(slot.Message()),
			Rendered: rendered,
		},
	})

	format := wire.AppXML
	if r.Path == model.WellKnownCore {
		format = wire.LinkFormat
	}
	return &Response{
		Code:      code,
		Format:    format,
		Payload:   chunk.Payload,
		Offset:    offset,
		Next:      chunk.Next,
		ChunkSize: size,
		Block:     req.Block || !chunk.Last(),
		ETag:      []byte{chunk.ETag},
	}
}

// render composes the representation of r into buf. Polled sensors are
// read first.
func (n *Node) render(buf []byte, r model.Resource) ([]byte, error) {
	if r.Path == model.WellKnownCore {
		return append(buf, model.LinkFormat(model.Resources())...), nil
	}
	if err := n.sample(r.Kind); err != nil {
		return buf, err
	}
	return obix.Render(buf, &n.res, r)
}

// apply sets the value of an actuator or of the virtual button. local is
// false for values received from a group.
func (n *Node) apply(r model.Resource, on bool, local bool) {
	switch r.Kind {
	case model.KindLED:
		if err := n.hw.SetLED(r.Color, on); err != nil {
			n.logger.Warn("set led failed", "color", r.Color, "error", err)
			return
		}
		n.res.LEDs.Set(r.Color, on)
	case model.KindButton:
		n.res.Button = on
		n.notifyEvent(r, local)
	}
}

// observe applies the Observe option of a GET.
func (n *Node) observe(req *Request, r model.Resource, resp *Response) {
	switch req.Observe {
	case ObserveRegister:
		_, seq, err := n.subs.Observe(r.Path, subscription.Observer{
			Addr:  req.Source,
			Token: append([]byte(nil), req.Token...),
		})
		if err != nil {
			n.logger.Debug("observe rejected", "path", r.Path, "remote", req.Source, "error", err)
			return
		}
		resp.Observe = &seq
	case ObserveDeregister:
		_ = n.subs.CancelObserver(r.Path, req.Source)
	}
}

func (n *Node) logError(req *Request, path string, code wire.Code, err error) {
	c := int(code)
	n.logEvent(log.Event{
		ExchangeID: req.ExchangeID,
		Direction:  log.DirectionOut,
		Category:   log.CategoryError,
		RemoteAddr: req.Source.String(),
		Path:       path,
		Error: &log.ErrorEventData{
			Layer:   log.LayerService,
			Message: err.Error(),
			Code:    &c,
			Context: req.Method.String() + " " + path,
		},
	})
}
