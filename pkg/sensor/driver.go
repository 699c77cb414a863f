package sensor

import "github.com/iotsys/iotsys-go/pkg/model"

// Thermometer reads the raw TMP102 temperature register.
type Thermometer interface {
	ReadTemperature() (int16, error)
}

// BatteryMonitor samples the battery ADC.
type BatteryMonitor interface {
	ReadBattery() (uint16, error)
}

// LEDDriver switches one LED channel.
type LEDDriver interface {
	SetLED(c model.Color, on bool) error
}

// InterruptFunc receives an accelerometer interrupt and the value of the
// interrupt source register. It runs in interrupt context and must not block.
type InterruptFunc func(line Line, reg uint8)

// Accelerometer delivers interrupts to a registered callback.
type Accelerometer interface {
	OnInterrupt(fn InterruptFunc)
}

// Hardware bundles the collaborators of a node.
type Hardware interface {
	Thermometer
	BatteryMonitor
	LEDDriver
	Accelerometer
}
