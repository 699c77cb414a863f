package obix

import (
	"bytes"
	"errors"
	"strconv"

	"github.com/iotsys/iotsys-go/pkg/model"
)

// ErrFormat is returned when a value does not fit its formatting width.
var ErrFormat = errors.New("obix: value does not fit formatting width")

// Formatting widths, including the terminator slot of the fixed buffers
// the representation format was sized for.
const (
	TemperatureWidth  = 7  // -128.9
	ButtonWidth       = 6  // false
	AccelerationWidth = 11 // inactivity
	BatteryWidth      = 4  // 100
)

// BatteryFullScale is the ADC sample that maps to 100 percent.
const BatteryFullScale = 2048

// AppendTemperature appends the one-decimal rendering of a TMP102 register
// value. Only integer arithmetic is used; the fraction is truncated.
func AppendTemperature(dst []byte, raw int16) ([]byte, error) {
	start := len(dst)

	abs := uint16(raw)
	negative := raw < 0
	if negative {
		abs = (abs ^ 0xFFFF) + 1
	}

	whole := abs >> 8
	frac := ((abs >> 4) % 16) * 625 / 1000

	if negative {
		dst = append(dst, '-')
	}
	dst = strconv.AppendUint(dst, uint64(whole), 10)
	dst = append(dst, '.', byte('0'+frac))

	return bounded(dst, start, TemperatureWidth)
}

// AppendBool appends "true" or "false".
func AppendBool(dst []byte, v bool) ([]byte, error) {
	start := len(dst)
	dst = strconv.AppendBool(dst, v)
	return bounded(dst, start, ButtonWidth)
}

// AppendAcceleration appends the activity label.
func AppendAcceleration(dst []byte, a model.Acceleration) ([]byte, error) {
	start := len(dst)
	dst = append(dst, a.String()...)
	return bounded(dst, start, AccelerationWidth)
}

// BatteryPercent scales a raw ADC sample to 0..100.
func BatteryPercent(raw uint16) uint32 {
	p := uint32(raw) * 100 / BatteryFullScale
	if p > 100 {
		p = 100
	}
	return p
}

// AppendBattery appends the battery charge in percent.
func AppendBattery(dst []byte, raw uint16) ([]byte, error) {
	start := len(dst)
	dst = strconv.AppendUint(dst, uint64(BatteryPercent(raw)), 10)
	return bounded(dst, start, BatteryWidth)
}

// AppendValue appends the token for one scalar of the node state.
// color is only consulted for model.KindLED.
func AppendValue(dst []byte, st *model.State, kind model.Kind, color model.Color) ([]byte, error) {
	switch kind {
	case model.KindTemperature:
		return AppendTemperature(dst, st.TemperatureRaw)
	case model.KindButton:
		return AppendBool(dst, st.Button)
	case model.KindAcceleration:
		return AppendAcceleration(dst, st.Acceleration)
	case model.KindLED:
		return AppendBool(dst, st.LEDs.Get(color))
	case model.KindBattery:
		return AppendBattery(dst, st.BatteryRaw)
	default:
		return dst, ErrFormat
	}
}

// bounded rejects tokens longer than width-1 bytes and rolls dst back.
func bounded(dst []byte, start, width int) ([]byte, error) {
	if len(dst)-start > width-1 {
		return dst[:start], ErrFormat
	}
	return dst, nil
}

// BoolValue reports whether a written oBIX payload carries a true value.
// Any payload containing "true" counts as true.
func BoolValue(payload []byte) bool {
	return bytes.Contains(payload, []byte("true"))
}
