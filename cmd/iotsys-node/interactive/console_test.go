package interactive

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iotsys/iotsys-go/pkg/sensor"
	"github.com/iotsys/iotsys-go/pkg/service"
)

func newConsole(t *testing.T) (*Console, *bytes.Buffer) {
	t.Helper()

	config := service.DefaultNodeConfig()
	config.TemperaturePeriod = time.Hour
	config.BatteryPeriod = time.Hour

	sim := sensor.NewSimulator(7)
	node, err := service.NewNode(sim, config)
	require.NoError(t, err)
	require.NoError(t, node.Start(context.Background()))
	t.Cleanup(func() { _ = node.Stop() })

	var out bytes.Buffer
	c := &Console{out: &out}
	c.Attach(node, sim)
	return c, &out
}

func TestExecuteGetFetchesAllChunks(t *testing.T) {
	c, out := newConsole(t)

	require.True(t, c.Execute(context.Background(), "get leds"))
	assert.Contains(t, out.String(), "2.05")
	assert.Contains(t, out.String(), `<obj href="leds" is="iot:LedsActuator">`)
	assert.Contains(t, out.String(), `<bool href="leds/blue" val="false"/></obj>`)
}

func TestExecutePutAndState(t *testing.T) {
	c, out := newConsole(t)
	ctx := context.Background()

	require.True(t, c.Execute(ctx, "put leds/red true"))
	assert.Contains(t, out.String(), "2.04")
	assert.True(t, c.sim.LEDs().Red)

	out.Reset()
	c.Execute(ctx, "state")
	assert.Contains(t, out.String(), "red=true green=false blue=false")

	out.Reset()
	c.Execute(ctx, "put leds/red maybe")
	assert.Contains(t, out.String(), "Invalid value")
}

func TestExecuteGroups(t *testing.T) {
	c, out := newConsole(t)
	ctx := context.Background()

	c.Execute(ctx, "groups")
	assert.Contains(t, out.String(), "(empty)")

	out.Reset()
	c.Execute(ctx, "join leds/green ff15::3")
	assert.Contains(t, out.String(), "2.04")
	assert.Contains(t, out.String(), "leds/green")

	out.Reset()
	c.Execute(ctx, "join leds/green not-an-address")
	assert.Contains(t, out.String(), "MalformedGroupAddress")

	out.Reset()
	c.Execute(ctx, "leave leds/green ff15::3")
	assert.Contains(t, out.String(), "2.04")
	assert.NotContains(t, out.String(), "leds/green", "entry is kept without handlers")
}

func TestExecuteSimulation(t *testing.T) {
	c, out := newConsole(t)
	ctx := context.Background()

	c.Execute(ctx, "temp 25")
	raw, _ := c.sim.ReadTemperature()
	assert.Equal(t, int16(0x1900), raw)

	c.Execute(ctx, "temp -1.5")
	raw, _ = c.sim.ReadTemperature()
	assert.Equal(t, int16(-0x0180), raw)

	c.Execute(ctx, "battery 50")
	batt, _ := c.sim.ReadBattery()
	assert.Equal(t, uint16(1024), batt)

	out.Reset()
	c.Execute(ctx, "battery 150")
	assert.Contains(t, out.String(), "Invalid battery level")

	out.Reset()
	c.Execute(ctx, "activity sideways")
	assert.Contains(t, out.String(), "Unknown activity")
}

func TestExecuteNotifyAndObservers(t *testing.T) {
	c, out := newConsole(t)
	ctx := context.Background()

	c.Execute(ctx, "observers")
	assert.Contains(t, out.String(), "No observers")

	out.Reset()
	c.Execute(ctx, "notify button/value")
	assert.Contains(t, out.String(), "Notified button/value (seq 1)")

	out.Reset()
	c.Execute(ctx, "notify leds")
	assert.Contains(t, out.String(), "Error:")
}

func TestExecuteControl(t *testing.T) {
	c, out := newConsole(t)
	ctx := context.Background()

	assert.True(t, c.Execute(ctx, ""))
	assert.True(t, c.Execute(ctx, "bogus"))
	assert.Contains(t, out.String(), "Unknown command: bogus")
	assert.False(t, c.Execute(ctx, "quit"))

	c.sim = nil
	out.Reset()
	c.Execute(ctx, "tap")
	assert.Contains(t, out.String(), "Simulation not available")
}
