package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	r, err := Lookup("/temp/value")
	require.NoError(t, err)
	assert.Equal(t, KindTemperature, r.Kind)
	assert.True(t, r.Observable)
	assert.Equal(t, TriggerPeriodic, r.Trigger)
	assert.Equal(t, "temp", r.Name())

	_, err = Lookup("nope")
	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestResourceTableInvariants(t *testing.T) {
	seen := map[string]bool{}
	for _, r := range Resources() {
		assert.False(t, seen[r.Path], "duplicate path %s", r.Path)
		seen[r.Path] = true

		assert.True(t, r.Methods.Allows(MethodGet), "%s must be readable", r.Path)
		assert.Positive(t, r.Capacity, r.Path)

		if r.Object {
			assert.False(t, r.Observable, "object %s is not observable", r.Path)
			assert.True(t, strings.HasPrefix(r.Type, "iot:"), r.Path)
		}
		if r.Trigger == TriggerPeriodic {
			assert.Positive(t, r.Period, r.Path)
		}
		if r.Kind == KindLED && !r.Object {
			assert.NotEqual(t, ColorNone, r.Color, r.Path)
		}
	}
	assert.Len(t, Values(), 7)
}

func TestMethodAllows(t *testing.T) {
	m := MethodGet | MethodPut
	assert.True(t, m.Allows(MethodGet))
	assert.True(t, m.Allows(MethodPut))
	assert.False(t, m.Allows(MethodPost))
	assert.False(t, m.Allows(0))
}

func TestLEDs(t *testing.T) {
	var l LEDs
	l.Set(ColorGreen, true)
	assert.True(t, l.Get(ColorGreen))
	assert.False(t, l.Get(ColorRed))
	assert.False(t, l.Get(ColorNone))

	c, ok := ParseColor("blue")
	require.True(t, ok)
	assert.Equal(t, ColorBlue, c)
	_, ok = ParseColor("purple")
	assert.False(t, ok)
}

func TestLinkFormat(t *testing.T) {
	temp, _ := Lookup("temp")
	value, _ := Lookup("temp/value")

	got := string(LinkFormat([]Resource{temp, value}))
	assert.Equal(t,
		`</temp>;title="Temperature Sensor";rt="iot:TemperatureSensor",`+
			`</temp/value>;title="Temperature Value";rt="obix:Real";obs`,
		got)
}

func TestTypes(t *testing.T) {
	types := Types()
	assert.Equal(t, "iot:TemperatureSensor", types[0])
	assert.Equal(t, "obix:Real", types[1])
	assert.Contains(t, types, "obix:Int")
	assert.Equal(t, 1, strings.Count(strings.Join(types, ","), "obix:Bool"))
}
