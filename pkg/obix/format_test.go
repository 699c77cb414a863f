package obix

import (
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iotsys/iotsys-go/pkg/model"
)

func TestAppendTemperature(t *testing.T) {
	tests := []struct {
		raw  int16
		want string
	}{
		{0x0000, "0.0"},
		{0x1900, "25.0"},
		{0x0190, "1.5"},
		{0x1980, "25.5"},
		{0x1910, "25.0"}, // 1/16 truncates to 0
		{0x1920, "25.1"},
		{0x7FF0, "127.9"},
		{-0x0190, "-1.5"},
		{-0x0080, "-0.5"},
		{-0x1900, "-25.0"},
		{math.MinInt16, "-128.0"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, err := AppendTemperature(nil, tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestAppendTemperatureReconstruction(t *testing.T) {
	var buf []byte
	for raw := math.MinInt16; raw <= math.MaxInt16; raw += 16 {
		var err error
		buf, err = AppendTemperature(buf[:0], int16(raw))
		require.NoError(t, err, "raw %#04x", raw)

		s := string(buf)
		dot := strings.IndexByte(s, '.')
		require.Equal(t, len(s)-2, dot, "one decimal for %q", s)

		got, err := strconv.ParseFloat(s, 64)
		require.NoError(t, err)

		want := float64(raw) / 256
		assert.Less(t, math.Abs(got-want), 0.1, "raw %#04x rendered %q", raw, s)
		assert.LessOrEqual(t, math.Abs(got), math.Abs(want), "fraction truncates toward zero")
	}
}

func TestAppendTemperatureAppends(t *testing.T) {
	got, err := AppendTemperature([]byte("t="), 0x1900)
	require.NoError(t, err)
	assert.Equal(t, "t=25.0", string(got))
}

func TestBatteryPercent(t *testing.T) {
	assert.Equal(t, uint32(0), BatteryPercent(0))
	assert.Equal(t, uint32(50), BatteryPercent(1024))
	assert.Equal(t, uint32(99), BatteryPercent(2047))
	assert.Equal(t, uint32(100), BatteryPercent(2048))
	assert.Equal(t, uint32(100), BatteryPercent(2457))
	assert.Equal(t, uint32(100), BatteryPercent(0xFFFF))

	got, err := AppendBattery(nil, 2457)
	require.NoError(t, err)
	assert.Equal(t, "100", string(got))
}

func TestAppendBoolAndAcceleration(t *testing.T) {
	got, err := AppendBool(nil, true)
	require.NoError(t, err)
	assert.Equal(t, "true", string(got))

	got, err = AppendBool(got[:0], false)
	require.NoError(t, err)
	assert.Equal(t, "false", string(got))

	for _, a := range []model.Acceleration{model.AccInactivity, model.AccActivity, model.AccFreefall} {
		got, err = AppendAcceleration(nil, a)
		require.NoError(t, err)
		assert.Equal(t, a.String(), string(got))
		assert.LessOrEqual(t, len(got), AccelerationWidth-1)
	}
}

func TestBoundedRollsBack(t *testing.T) {
	dst := []byte("keep")
	got, err := AppendAcceleration(dst, model.Acceleration(99)) // "unknown" fits
	require.NoError(t, err)
	assert.Equal(t, "keepunknown", string(got))

	got, err = bounded([]byte("keep123456"), 4, 4)
	assert.ErrorIs(t, err, ErrFormat)
	assert.Equal(t, "keep", string(got))
}

func TestAppendValue(t *testing.T) {
	st := &model.State{
		TemperatureRaw: 0x1780,
		Button:         true,
		Acceleration:   model.AccFreefall,
		LEDs:           model.LEDs{Green: true},
		BatteryRaw:     1536,
	}

	tests := []struct {
		kind  model.Kind
		color model.Color
		want  string
	}{
		{model.KindTemperature, model.ColorNone, "23.5"},
		{model.KindButton, model.ColorNone, "true"},
		{model.KindAcceleration, model.ColorNone, "freefall"},
		{model.KindLED, model.ColorRed, "false"},
		{model.KindLED, model.ColorGreen, "true"},
		{model.KindBattery, model.ColorNone, "75"},
	}
	for _, tt := range tests {
		got, err := AppendValue(nil, st, tt.kind, tt.color)
		require.NoError(t, err)
		assert.Equal(t, tt.want, string(got), "%s %s", tt.kind, tt.color)
	}

	_, err := AppendValue(nil, st, model.Kind(0), model.ColorNone)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestBoolValue(t *testing.T) {
	assert.True(t, BoolValue([]byte("true")))
	assert.True(t, BoolValue([]byte(`<bool val="true"/>`)))
	assert.False(t, BoolValue([]byte("false")))
	assert.False(t, BoolValue(nil))
	assert.False(t, BoolValue([]byte("TRUE")))
}
