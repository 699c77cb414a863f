package model

// Acceleration is the last activity event reported by the accelerometer.
type Acceleration uint8

const (
	AccInactivity Acceleration = iota
	AccActivity
	AccFreefall
)

// String returns the label used in representations.
func (a Acceleration) String() string {
	switch a {
	case AccInactivity:
		return "inactivity"
	case AccActivity:
		return "activity"
	case AccFreefall:
		return "freefall"
	default:
		return "unknown"
	}
}

// Color selects one channel of the RGB LED actuator.
type Color uint8

const (
	ColorNone Color = iota
	ColorRed
	ColorGreen
	ColorBlue
)

// Colors lists the LED channels in representation order.
var Colors = []Color{ColorRed, ColorGreen, ColorBlue}

// String returns the channel name.
func (c Color) String() string {
	switch c {
	case ColorRed:
		return "red"
	case ColorGreen:
		return "green"
	case ColorBlue:
		return "blue"
	default:
		return ""
	}
}

// ParseColor parses a channel name.
func ParseColor(s string) (Color, bool) {
	for _, c := range Colors {
		if c.String() == s {
			return c, true
		}
	}
	return ColorNone, false
}

// LEDs holds the on/off state of the three LED channels.
type LEDs struct {
	Red   bool
	Green bool
	Blue  bool
}

// Get returns the state of one channel.
func (l LEDs) Get(c Color) bool {
	switch c {
	case ColorRed:
		return l.Red
	case ColorGreen:
		return l.Green
	case ColorBlue:
		return l.Blue
	default:
		return false
	}
}

// Set changes the state of one channel.
func (l *LEDs) Set(c Color, on bool) {
	switch c {
	case ColorRed:
		l.Red = on
	case ColorGreen:
		l.Green = on
	case ColorBlue:
		l.Blue = on
	}
}

// State is the resource state of a node.
type State struct {
	// TemperatureRaw is the TMP102 temperature register: whole degrees in
	// the high byte, sixteenths of a degree in bits 7..4, two's complement.
	TemperatureRaw int16

	// Button is the virtual push button toggled by tap events.
	Button bool

	// Acceleration is the last classified accelerometer event.
	Acceleration Acceleration

	// LEDs is the actuator state.
	LEDs LEDs

	// BatteryRaw is the last 12-bit battery ADC sample.
	BatteryRaw uint16
}
