package service

import (
	"net/netip"

	"github.com/iotsys/iotsys-go/pkg/group"
	"github.com/iotsys/iotsys-go/pkg/log"
	"github.com/iotsys/iotsys-go/pkg/model"
	"github.com/iotsys/iotsys-go/pkg/obix"
	"github.com/iotsys/iotsys-go/pkg/wire"
)

// groupHandler applies group payloads to one resource. Receive runs on the
// loop because dispatch does.
type groupHandler struct {
	node *Node
	res  model.Resource
}

// ID returns the resource path.
func (h *groupHandler) ID() group.HandlerID {
	return group.HandlerID(h.res.Path)
}

// Receive applies the boolean carried by payload.
func (h *groupHandler) Receive(payload []byte) {
	h.node.apply(h.res, obix.BoolValue(payload), false)
}

// handleGroupRequest serves joinGroup and leaveGroup on r.
func (n *Node) handleGroupRequest(req *Request, r model.Resource, action string) *Response {
	addr, err := group.ParseMulticastAddress(string(req.Payload))
	if err != nil {
		n.logError(req, r.Path+"/"+action, wire.BadRequest, err)
		return errorResponse(wire.BadRequest, MsgMalformedGroup)
	}

	// Bindings are keyed by the group id alone, so the socket always
	// subscribes the canonical FF12::id address.
	id := addr.GroupID()
	h := n.handlers[group.HandlerID(r.Path)]

	ev := &log.GroupEvent{GroupID: id, Handler: string(h.ID())}
	switch action {
	case ActionJoinGroup:
		ev.Action = log.GroupJoin
		wasBound := n.bound(id)
		ev.Applied = n.groups.Join(id, h)
		if ev.Applied && !wasBound {
			n.subscribeGroup(group.MulticastAddress(id).Addr())
		}
		if !ev.Applied {
			n.logger.Debug("group join dropped", "group", id, "handler", h.ID())
		}
	case ActionLeaveGroup:
		ev.Action = log.GroupLeave
		ev.Applied = n.groups.Leave(id, h.ID())
		if ev.Applied && !n.bound(id) {
			n.unsubscribeGroup(group.MulticastAddress(id).Addr())
		}
	}

	n.logEvent(log.Event{
		ExchangeID: req.ExchangeID,
		Direction:  log.DirectionIn,
		Category:   log.CategoryGroup,
		RemoteAddr: req.Source.String(),
		Path:       r.Path,
		Group:      ev,
	})
	if ev.Applied {
		n.persist()
	}

	return n.transfer(req, r, wire.Changed)
}

// handleGroupTraffic dispatches a request addressed to a multicast group.
func (n *Node) handleGroupTraffic(req *Request) {
	if req.Method != model.MethodPut && req.Method != model.MethodPost {
		return
	}
	count := n.groups.Dispatch(req.Destination, req.Payload)
	n.logEvent(log.Event{
		ExchangeID: req.ExchangeID,
		Direction:  log.DirectionIn,
		Category:   log.CategoryGroup,
		RemoteAddr: req.Source.String(),
		Path:       req.Path,
		Group: &log.GroupEvent{
			Action:   log.GroupDispatch,
			GroupID:  group.GroupIDFromAddress(req.Destination),
			Applied:  count > 0,
			Handlers: count,
		},
	})
	if count > 0 {
		n.persist()
	}
}

// bound reports whether any handler is bound to the group id.
func (n *Node) bound(id uint16) bool {
	for _, m := range n.groups.Memberships() {
		if m.GroupID == id {
			return true
		}
	}
	return false
}

func (n *Node) subscribeGroup(addr netip.Addr) {
	out := n.transport()
	if out == nil {
		return
	}
	if err := out.JoinGroup(addr); err != nil {
		n.logger.Warn("join multicast group failed", "group", addr, "error", err)
	}
}

func (n *Node) unsubscribeGroup(addr netip.Addr) {
	out := n.transport()
	if out == nil {
		return
	}
	if err := out.LeaveGroup(addr); err != nil {
		n.logger.Warn("leave multicast group failed", "group", addr, "error", err)
	}
}
