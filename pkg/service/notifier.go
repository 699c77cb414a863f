package service

import (
	"net/netip"

	"github.com/iotsys/iotsys-go/pkg/group"
	"github.com/iotsys/iotsys-go/pkg/log"
	"github.com/iotsys/iotsys-go/pkg/model"
	"github.com/iotsys/iotsys-go/pkg/obix"
	"github.com/iotsys/iotsys-go/pkg/sensor"
	"github.com/iotsys/iotsys-go/pkg/subscription"
	"github.com/iotsys/iotsys-go/pkg/wire"
)

// tick samples a periodic sensor and notifies its observers.
func (n *Node) tick(r model.Resource) {
	if err := n.sample(r.Kind); err != nil {
		n.logger.Debug("sample failed", "path", r.Path, "error", err)
		return
	}
	n.notify(r, n.config.SuppressUnchanged)
}

func (n *Node) sample(kind model.Kind) error {
	switch kind {
	case model.KindTemperature:
		raw, err := n.hw.ReadTemperature()
		if err != nil {
			return err
		}
		n.res.TemperatureRaw = raw
	case model.KindBattery:
		raw, err := n.hw.ReadBattery()
		if err != nil {
			return err
		}
		n.res.BatteryRaw = raw
	}
	return nil
}

// handleInterrupt applies an accelerometer interrupt.
func (n *Node) handleInterrupt(irq interrupt) {
	switch irq.line {
	case sensor.LineTap:
		if !sensor.IsTap(irq.reg) {
			return
		}
		n.res.Button = !n.res.Button
		r, _ := model.Lookup("button/value")
		n.notifyEvent(r, true)
	case sensor.LineActivity:
		acc, ok := sensor.ClassifyActivity(irq.reg)
		if !ok {
			return
		}
		n.res.Acceleration = acc
		r, _ := model.Lookup("acc/value")
		n.notifyEvent(r, true)
	}
}

// notifyEvent notifies the observers of an event resource. Local changes
// of a group-bound resource are also sent to its groups.
func (n *Node) notifyEvent(r model.Resource, local bool) {
	payload, ok := n.notify(r, false)
	if !ok || !local || !r.Groupable {
		return
	}
	n.sendGroups(r, payload)
}

// notify pushes the standalone representation of r to its observers and
// returns it. Formatting failures abort the notification.
func (n *Node) notify(r model.Resource, suppress bool) ([]byte, bool) {
	token, err := obix.AppendValue(nil, &n.res, r.Kind, r.Color)
	if err != nil {
		n.logger.Debug("create message failed", "path", r.Path, "error", err)
		return nil, false
	}

	if suppress && n.subs.Unchanged(r.Path, token) {
		n.logEvent(log.Event{
			Direction: log.DirectionOut,
			Category:  log.CategoryNotify,
			Path:      r.Path,
			Notify: &log.NotifyEvent{
				Sequence:   n.subs.Sequence(r.Path),
				Value:      string(token),
				Suppressed: true,
			},
		})
		return nil, false
	}

	payload, err := obix.Render(nil, &n.res, r)
	if err != nil {
		n.logger.Debug("create message failed", "path", r.Path, "error", err)
		return nil, false
	}
	n.subs.Record(r.Path, token)

	seq, count := n.subs.Notify(r.Path, payload)
	n.logEvent(log.Event{
		Direction: log.DirectionOut,
		Category:  log.CategoryNotify,
		Path:      r.Path,
		Notify: &log.NotifyEvent{
			Sequence:  seq,
			Observers: count,
			Value:     string(token),
		},
	})
	n.logger.Debug("notified", "path", r.Path, "value", string(token), "seq", seq, "observers", count)
	return payload, true
}

// deliver sends one notification. It runs on the loop, called back from
// the observer registry.
func (n *Node) deliver(note subscription.Notification) {
	out := n.transport()
	if out == nil {
		return
	}

	mid := n.nextMID()
	m := &wire.Message{
		Type:      wire.NonConfirmable,
		Code:      wire.Content,
		MessageID: mid,
		Token:     note.Observer.Token,
		Payload:   note.Payload,
	}
	m.Options = m.Options.SetUint(wire.Observe, note.Sequence)
	m.Options = m.Options.SetUint(wire.ContentFormat, uint32(wire.AppXML))

	n.sent[n.sentNext] = sentNotification{mid: mid, observer: note.Observer}
	n.sentNext = (n.sentNext + 1) % sentHistory

	if err := out.SendMessage(n.ctx, note.Observer.Addr, m); err != nil {
		n.logger.Warn("notification not sent",
			"path", note.Path,
			"remote", note.Observer.Addr,
			"error", err)
	}
}

// handleReset drops the observation a reset answers.
func (n *Node) handleReset(from netip.AddrPort, mid uint16) {
	for _, s := range n.sent {
		if s.mid != mid || s.observer.Addr != from {
			continue
		}
		if removed := n.subs.CancelByToken(from, s.observer.Token); removed > 0 {
			n.logger.Debug("observer reset", "remote", from, "removed", removed)
		}
		return
	}
}

// sendGroups fans payload out to the groups r joined.
func (n *Node) sendGroups(r model.Resource, payload []byte) {
	out := n.transport()
	if out == nil {
		return
	}

	h := group.HandlerID(r.Path)
	groups := n.groups.Groups(h)
	if len(groups) == 0 {
		return
	}
	if err := n.groups.SendUpdate(n.ctx, out, payload, h); err != nil {
		n.logger.Warn("group update failed", "path", r.Path, "error", err)
	}
	for _, id := range groups {
		n.logEvent(log.Event{
			Direction: log.DirectionOut,
			Category:  log.CategoryGroup,
			Path:      r.Path,
			Group: &log.GroupEvent{
				Action:  log.GroupSend,
				GroupID: id,
				Handler: string(h),
				Applied: true,
			},
		})
	}
}
