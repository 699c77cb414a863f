package service

import (
	"fmt"
	"time"

	"github.com/iotsys/iotsys-go/pkg/group"
	"github.com/iotsys/iotsys-go/pkg/model"
	"github.com/iotsys/iotsys-go/pkg/persistence"
)

// persist saves group memberships and actuator values. Runs on the loop.
func (n *Node) persist() {
	store := n.stateStore()
	if store == nil {
		return
	}

	st := &persistence.NodeState{
		Version: persistence.StateVersion,
		SavedAt: time.Now(),
		Actuators: &persistence.ActuatorState{
			Red:    n.res.LEDs.Red,
			Green:  n.res.LEDs.Green,
			Blue:   n.res.LEDs.Blue,
			Button: n.res.Button,
		},
	}
	for _, m := range n.groups.Memberships() {
		st.Groups = append(st.Groups, persistence.GroupMembership{
			GroupID: m.GroupID,
			Handler: string(m.Handler),
		})
	}

	if err := store.Save(st); err != nil {
		n.logger.Warn("save state failed", "error", err)
	}
}

// restore applies persisted state. It runs before the loop starts.
func (n *Node) restore() error {
	store := n.stateStore()
	if store == nil {
		return nil
	}

	st, err := store.Load()
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	if st == nil {
		return nil
	}

	if a := st.Actuators; a != nil {
		n.res.Button = a.Button
		leds := model.LEDs{Red: a.Red, Green: a.Green, Blue: a.Blue}
		for _, c := range model.Colors {
			if err := n.hw.SetLED(c, leds.Get(c)); err != nil {
				n.logger.Warn("restore led failed", "color", c, "error", err)
				continue
			}
			n.res.LEDs.Set(c, leds.Get(c))
		}
	}

	joined := make(map[uint16]bool)
	for _, m := range st.Groups {
		h, ok := n.handlers[group.HandlerID(m.Handler)]
		if !ok {
			n.logger.Warn("unknown group handler in state", "handler", m.Handler)
			continue
		}
		if !n.groups.Join(m.GroupID, h) {
			n.logger.Warn("group binding not restored", "group", m.GroupID, "handler", m.Handler)
			continue
		}
		if !joined[m.GroupID] {
			joined[m.GroupID] = true
			n.subscribeGroup(group.MulticastAddress(m.GroupID).Addr())
		}
	}

	n.logger.Info("state restored", "groups", len(st.Groups), "saved_at", st.SavedAt)
	return nil
}
