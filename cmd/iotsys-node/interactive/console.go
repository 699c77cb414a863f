// Package interactive provides the interactive command-line interface
// for the iotsys node.
package interactive

import (
	"context"
	"fmt"
	"io"
	"net/netip"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/iotsys/iotsys-go/pkg/blockwise"
	"github.com/iotsys/iotsys-go/pkg/group"
	"github.com/iotsys/iotsys-go/pkg/model"
	"github.com/iotsys/iotsys-go/pkg/obix"
	"github.com/iotsys/iotsys-go/pkg/sensor"
	"github.com/iotsys/iotsys-go/pkg/service"
)

// consoleSource is the peer address console requests are made from.
var consoleSource = netip.AddrPortFrom(netip.IPv6Loopback(), 0)

// requestTimeout bounds one console request on the node loop.
const requestTimeout = 2 * time.Second

// Console handles interactive mode for iotsys-node.
type Console struct {
	node *service.Node
	sim  *sensor.Simulator
	rl   *readline.Instance
	out  io.Writer
}

// New creates the console. The node is attached later with Attach so that
// loggers can write through Stdout before the node exists.
func New() (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "iotsys> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &Console{rl: rl, out: rl.Stdout()}, nil
}

// Attach binds the console to a node and its simulated hardware. sim may be
// nil when the node runs on other hardware.
func (c *Console) Attach(node *service.Node, sim *sensor.Simulator) {
	c.node = node
	c.sim = sim
}

// Stdout returns a writer that properly coordinates with the readline input.
// Use this for log output to avoid interfering with the command prompt.
func (c *Console) Stdout() io.Writer {
	return c.rl.Stdout()
}

// Close releases the terminal.
func (c *Console) Close() error {
	return c.rl.Close()
}

// Run starts the interactive command loop.
func (c *Console) Run(ctx context.Context, cancel context.CancelFunc) {
	defer c.rl.Close()

	c.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.out, "Exiting...")
			cancel()
			return
		}

		if !c.Execute(ctx, line) {
			fmt.Fprintln(c.out, "Exiting...")
			cancel()
			return
		}
	}
}

// Execute runs one command line. It returns false when the console should
// exit.
func (c *Console) Execute(ctx context.Context, line string) bool {
	parts := strings.Fields(strings.TrimSpace(line))
	if len(parts) == 0 {
		return true
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		c.printHelp()
	case "get", "g":
		c.cmdGet(ctx, args)
	case "put", "p":
		c.cmdPut(ctx, args)
	case "join", "leave":
		c.cmdGroup(ctx, cmd, args)
	case "groups":
		c.cmdGroups()
	case "observers", "obs":
		c.cmdObservers()
	case "notify", "n":
		c.cmdNotify(ctx, args)
	case "state", "s":
		c.cmdState(ctx)
	case "tap":
		c.cmdTap()
	case "activity":
		c.cmdActivity(args)
	case "temp":
		c.cmdTemp(args)
	case "battery":
		c.cmdBattery(args)
	case "quit", "exit", "q":
		return false
	default:
		fmt.Fprintf(c.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return true
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.out, `
iotsys Node Commands:
  Resources:
    get <path>               - Read a resource (all chunks)
    put <path> <true|false>  - Write an LED channel or the button
    notify <path>            - Force a notification of an observable resource
    state                    - Show the resource state

  Groups:
    join <path> <address>    - Bind a resource to a multicast group
    leave <path> <address>   - Unbind a resource from a multicast group
    groups                   - Show the group table
    observers                - List observers per resource

  Simulation:
    tap                      - Tap the accelerometer
    activity <act|inact|ff>  - Raise an activity interrupt
    temp <celsius>           - Set the temperature
    battery <percent>        - Set the battery level

  General:
    help                     - Show this help
    quit                     - Exit node`)
}

// request runs req on the node, fetching every chunk of the response.
func (c *Console) request(ctx context.Context, req service.Request) (*service.Response, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req.Source = consoleSource
	var body []byte
	for {
		resp, err := c.node.HandleRequest(ctx, &req)
		if err != nil {
			return nil, nil, err
		}
		if resp == nil {
			return nil, body, nil
		}
		body = append(body, resp.Payload...)
		if resp.Next == blockwise.Complete || resp.Code.Class() != 2 {
			return resp, body, nil
		}
		req.Cursor = resp.Next
	}
}

func (c *Console) cmdGet(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage: get <path>")
		return
	}
	resp, body, err := c.request(ctx, service.Request{Method: model.MethodGet, Path: args[0]})
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "%s (%d bytes)\n%s\n", resp.Code, len(body), body)
}

func (c *Console) cmdPut(ctx context.Context, args []string) {
	if len(args) != 2 {
		fmt.Fprintln(c.out, "Usage: put <path> <true|false>")
		return
	}
	on, err := strconv.ParseBool(args[1])
	if err != nil {
		fmt.Fprintf(c.out, "Invalid value: %s\n", args[1])
		return
	}
	resp, body, err := c.request(ctx, service.Request{
		Method:  model.MethodPut,
		Path:    args[0],
		Payload: []byte(strconv.FormatBool(on)),
	})
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "%s\n%s\n", resp.Code, body)
}

func (c *Console) cmdGroup(ctx context.Context, cmd string, args []string) {
	if len(args) != 2 {
		fmt.Fprintf(c.out, "Usage: %s <path> <address>\n", cmd)
		return
	}
	action := service.ActionJoinGroup
	if cmd == "leave" {
		action = service.ActionLeaveGroup
	}
	resp, body, err := c.request(ctx, service.Request{
		Method:  model.MethodPost,
		Path:    strings.Trim(args[0], "/") + "/" + action,
		Payload: []byte(args[1]),
	})
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	if resp.Code.Class() != 2 {
		fmt.Fprintf(c.out, "%s: %s\n", resp.Code, body)
		return
	}
	fmt.Fprintf(c.out, "%s\n", resp.Code)
	c.cmdGroups()
}

func (c *Console) cmdGroups() {
	entries := c.node.Groups().Entries()

	fmt.Fprintln(c.out, "Group table:")
	used := 0
	for i, e := range entries {
		if e.GroupID == 0 {
			continue
		}
		used++
		var handlers []string
		for _, h := range e.Handlers {
			if h != nil {
				handlers = append(handlers, string(h.ID()))
			}
		}
		if len(handlers) == 0 {
			handlers = []string{"-"}
		}
		fmt.Fprintf(c.out, "  [%d] %-28s %s\n", i, group.MulticastAddress(e.GroupID), strings.Join(handlers, ", "))
	}
	if used == 0 {
		fmt.Fprintln(c.out, "  (empty)")
	}
}

func (c *Console) cmdObservers() {
	subs := c.node.Observers()
	if subs.Count() == 0 {
		fmt.Fprintln(c.out, "No observers")
		return
	}
	for _, r := range model.Resources() {
		if !r.Observable {
			continue
		}
		obs := subs.Observers(r.Path)
		fmt.Fprintf(c.out, "  %-14s seq=%-8d observers=%d\n", r.Path, subs.Sequence(r.Path), len(obs))
		for _, o := range obs {
			fmt.Fprintf(c.out, "    %s token=%x\n", o.Addr, o.Token)
		}
	}
}

func (c *Console) cmdNotify(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage: notify <path>")
		return
	}
	if err := c.node.Notify(ctx, args[0]); err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "Notified %s (seq %d)\n", args[0], c.node.Observers().Sequence(args[0]))
}

func (c *Console) cmdState(ctx context.Context) {
	st, err := c.node.Snapshot(ctx)
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	temp, _ := obix.AppendTemperature(nil, st.TemperatureRaw)

	fmt.Fprintf(c.out, "Node:         %s (%s)\n", c.node.Config().Name, c.node.ID())
	fmt.Fprintf(c.out, "State:        %s\n", c.node.State())
	fmt.Fprintf(c.out, "Temperature:  %s C (raw %#04x)\n", temp, uint16(st.TemperatureRaw))
	fmt.Fprintf(c.out, "Button:       %t\n", st.Button)
	fmt.Fprintf(c.out, "Acceleration: %s\n", st.Acceleration)
	fmt.Fprintf(c.out, "LEDs:         red=%t green=%t blue=%t\n", st.LEDs.Red, st.LEDs.Green, st.LEDs.Blue)
	fmt.Fprintf(c.out, "Battery:      %d%% (raw %d)\n", obix.BatteryPercent(st.BatteryRaw), st.BatteryRaw)
}

func (c *Console) simulator() bool {
	if c.sim == nil {
		fmt.Fprintln(c.out, "Simulation not available")
		return false
	}
	return true
}

func (c *Console) cmdTap() {
	if !c.simulator() {
		return
	}
	c.sim.Tap()
	fmt.Fprintln(c.out, "Tap")
}

func (c *Console) cmdActivity(args []string) {
	if !c.simulator() {
		return
	}
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage: activity <act|inact|ff>")
		return
	}
	var reg uint8
	switch args[0] {
	case "act", "activity":
		reg = sensor.IntActivity
	case "inact", "inactivity":
		reg = sensor.IntInactivity
	case "ff", "freefall":
		reg = sensor.IntFreeFall
	default:
		fmt.Fprintf(c.out, "Unknown activity: %s\n", args[0])
		return
	}
	c.sim.Raise(sensor.LineActivity, reg)
}

func (c *Console) cmdTemp(args []string) {
	if !c.simulator() {
		return
	}
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage: temp <celsius>")
		return
	}
	v, err := strconv.ParseFloat(args[0], 64)
	if err != nil || v < -128 || v >= 128 {
		fmt.Fprintf(c.out, "Invalid temperature: %s\n", args[0])
		return
	}
	// 12-bit resolution: the low nibble is always zero.
	raw := int16(v*16) << 4
	c.sim.SetTemperature(raw)
	fmt.Fprintf(c.out, "Temperature set (raw %#04x)\n", uint16(raw))
}

func (c *Console) cmdBattery(args []string) {
	if !c.simulator() {
		return
	}
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage: battery <percent>")
		return
	}
	pct, err := strconv.Atoi(args[0])
	if err != nil || pct < 0 || pct > 100 {
		fmt.Fprintf(c.out, "Invalid battery level: %s\n", args[0])
		return
	}
	raw := uint16(pct * obix.BatteryFullScale / 100)
	c.sim.SetBattery(raw)
	fmt.Fprintf(c.out, "Battery set (raw %d)\n", raw)
}
