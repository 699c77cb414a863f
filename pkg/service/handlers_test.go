package service

import (
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iotsys/iotsys-go/pkg/blockwise"
	"github.com/iotsys/iotsys-go/pkg/model"
	"github.com/iotsys/iotsys-go/pkg/sensor"
	"github.com/iotsys/iotsys-go/pkg/wire"
)

// brokenThermometer fails every temperature read once broken and counts
// the reads.
type brokenThermometer struct {
	*sensor.Simulator
	broken atomic.Bool
	reads  atomic.Int32
}

func (b *brokenThermometer) ReadTemperature() (int16, error) {
	b.reads.Add(1)
	if b.broken.Load() {
		return 0, errors.New("i2c timeout")
	}
	return b.Simulator.ReadTemperature()
}

const ledsAllOff = `<obj href="leds" is="iot:LedsActuator">` +
	`<bool href="leds/red" val="false"/>` +
	`<bool href="leds/green" val="false"/>` +
	`<bool href="leds/blue" val="false"/></obj>`

func TestGetValue(t *testing.T) {
	tn := newTestNode(t, nil)
	tn.sim.SetTemperature(0x1900)
	tn.sim.SetBattery(1024)

	tests := []struct {
		path string
		want string
	}{
		{"temp/value", `<real href="value" units="obix:units/celsius" val="25.0"/>`},
		{"/temp/value/", `<real href="value" units="obix:units/celsius" val="25.0"/>`},
		{"battery/value", `<int href="value" units="obix:units/percent" val="50"/>`},
		{"button/value", `<bool href="value" val="false"/>`},
		{"acc/value", `<bool href="active" val="inactivity"/>`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp := tn.get(t, tt.path)
			require.Equal(t, wire.Content, resp.Code, string(resp.Payload))
			assert.Equal(t, wire.AppXML, resp.Format)
			assert.Equal(t, tt.want, string(resp.Payload))
			assert.True(t, resp.Next.Done())
			assert.Equal(t, []byte{byte(len(tt.want))}, resp.ETag)
		})
	}
}

func TestChunkedTransferReusesRenderedMessage(t *testing.T) {
	tn := newTestNode(t, nil)

	var got []byte
	cursor := blockwise.Cursor(0)
	for i := 0; ; i++ {
		resp := tn.getChunk(t, "leds", cursor, 16)
		require.Equal(t, wire.Content, resp.Code, string(resp.Payload))
		assert.LessOrEqual(t, len(resp.Payload), 16)
		assert.Equal(t, []byte{byte(len(resp.Payload))}, resp.ETag)
		assert.Equal(t, int(max(cursor, 0)), resp.Offset)
		assert.True(t, resp.Block)
		got = append(got, resp.Payload...)

		if i == 0 {
			// A change mid-transfer does not alter the message in flight.
			put := tn.put(t, "leds/red", "true")
			require.Equal(t, wire.Changed, put.Code)
		}
		if resp.Next.Done() {
			break
		}
		cursor = resp.Next
	}
	assert.Equal(t, ledsAllOff, string(got))

	// A new transfer renders the current state.
	resp := tn.getChunk(t, "leds", 0, 64)
	rest := tn.getChunk(t, "leds", resp.Next, 64)
	assert.True(t, strings.HasPrefix(string(resp.Payload)+string(rest.Payload),
		`<obj href="leds" is="iot:LedsActuator"><bool href="leds/red" val="true"/>`))
}

func TestChunkSizeClampedToMaximum(t *testing.T) {
	tn := newTestNode(t, func(c *NodeConfig) { c.MaxChunkSize = 32 })

	resp := tn.getChunk(t, "leds", 0, 1024)
	assert.Len(t, resp.Payload, 32)
	assert.Equal(t, 32, resp.ChunkSize)
	assert.Equal(t, blockwise.Cursor(32), resp.Next)

	// Unchunked requests get the maximum too.
	resp = tn.get(t, "leds")
	assert.Len(t, resp.Payload, 32)
	assert.True(t, resp.Block, "more chunks follow")
}

func TestTransferTruncatedAtBudget(t *testing.T) {
	tn := newTestNode(t, func(c *NodeConfig) { c.BlockBudget = 40 })

	first := tn.getChunk(t, "leds", 0, 16)
	second := tn.getChunk(t, "leds", first.Next, 16)
	third := tn.getChunk(t, "leds", second.Next, 16)

	require.Equal(t, wire.Content, third.Code)
	assert.Len(t, third.Payload, 8)
	assert.True(t, third.Next.Done())
	assert.Equal(t, ledsAllOff[:40], string(first.Payload)+string(second.Payload)+string(third.Payload))
}

func TestTransferErrors(t *testing.T) {
	tn := newTestNode(t, nil)

	resp := tn.getChunk(t, "leds", 1024, 64)
	assert.Equal(t, wire.BadOption, resp.Code)
	assert.Equal(t, MsgBlockOutOfScope, string(resp.Payload))
	assert.Equal(t, wire.TextPlain, resp.Format)
	assert.Nil(t, resp.ETag)

	assert.False(t, tn.slots["leds"].Active())

	resp = tn.getChunk(t, "button/value", 64, 64)
	assert.Equal(t, wire.InternalServerError, resp.Code)
	assert.Equal(t, MsgLengthFailed, string(resp.Payload))
}

func TestOutOfScopeCursorSkipsRender(t *testing.T) {
	hw := &brokenThermometer{Simulator: sensor.NewSimulator(1)}
	config := DefaultNodeConfig()
	config.TemperaturePeriod = time.Hour
	config.BatteryPeriod = time.Hour
	node, err := NewNode(hw, config)
	require.NoError(t, err)
	tn := &testNode{Node: node, sim: hw.Simulator}
	tn.start(t)

	hw.broken.Store(true)
	before := hw.reads.Load()

	resp := tn.getChunk(t, "temp/value", blockwise.Cursor(config.BlockBudget), 64)
	assert.Equal(t, wire.BadOption, resp.Code)
	assert.Equal(t, MsgBlockOutOfScope, string(resp.Payload))
	assert.Equal(t, before, hw.reads.Load(), "sensor must not be sampled")
	assert.False(t, tn.slots["temp/value"].Active())
}

func TestRoutingErrors(t *testing.T) {
	tn := newTestNode(t, nil)

	tests := []struct {
		name   string
		method model.Method
		path   string
		code   wire.Code
	}{
		{"unknown", model.MethodGet, "humidity", wire.NotFound},
		{"unknown child", model.MethodGet, "temp/value/raw", wire.NotFound},
		{"put sensor", model.MethodPut, "temp/value", wire.MethodNotAllowed},
		{"delete", model.MethodDelete, "leds/red", wire.MethodNotAllowed},
		{"post value", model.MethodPost, "leds/red", wire.MethodNotAllowed},
		{"group on sensor", model.MethodPost, "temp/value/joinGroup", wire.NotFound},
		{"group with get", model.MethodGet, "leds/red/joinGroup", wire.MethodNotAllowed},
		{"put discovery", model.MethodPut, model.WellKnownCore, wire.MethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := tn.send(t, &Request{Method: tt.method, Path: tt.path})
			assert.Equal(t, tt.code, resp.Code)
			assert.Equal(t, wire.TextPlain, resp.Format)
		})
	}
}

func TestPutLED(t *testing.T) {
	tn := newTestNode(t, nil)

	resp := tn.put(t, "leds/green", `<bool val="true"/>`)
	require.Equal(t, wire.Changed, resp.Code)
	assert.Equal(t, `<bool href="green" val="true"/>`, string(resp.Payload))
	assert.True(t, tn.sim.LEDs().Green)

	resp = tn.put(t, "leds/green", "false")
	assert.Equal(t, `<bool href="green" val="false"/>`, string(resp.Payload))
	assert.False(t, tn.sim.LEDs().Green)
}

func TestPutButtonNotifiesWithoutGroups(t *testing.T) {
	tn := newTestNode(t, nil)

	resp := tn.put(t, "button/value", "true")
	require.Equal(t, wire.Changed, resp.Code)
	assert.Equal(t, `<bool href="value" val="true"/>`, string(resp.Payload))
	assert.Equal(t, uint32(1), tn.Observers().Sequence("button/value"))
}

func TestWellKnownCore(t *testing.T) {
	tn := newTestNode(t, nil)

	var got []byte
	cursor := blockwise.Cursor(0)
	for {
		resp := tn.getChunk(t, model.WellKnownCore, cursor, 64)
		require.Equal(t, wire.Content, resp.Code)
		assert.Equal(t, wire.LinkFormat, resp.Format)
		got = append(got, resp.Payload...)
		if resp.Next.Done() {
			break
		}
		cursor = resp.Next
	}

	assert.Equal(t, string(model.LinkFormat(model.Resources())), string(got))
	assert.Contains(t, string(got), `</temp/value>;title="Temperature Value";rt="obix:Real";obs`)
}
