package sensor

import (
	"math/rand/v2"
	"sync"

	"github.com/iotsys/iotsys-go/pkg/model"
)

// Simulator is an in-memory Hardware implementation.
type Simulator struct {
	mu          sync.Mutex
	temperature int16
	battery     uint16
	leds        model.LEDs
	onInterrupt InterruptFunc
	rng         *rand.Rand
}

// NewSimulator returns a simulator at 21.5 degrees with a full battery.
func NewSimulator(seed uint64) *Simulator {
	return &Simulator{
		temperature: 0x1580,
		battery:     2048,
		rng:         rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15)),
	}
}

// ReadTemperature implements Thermometer.
func (s *Simulator) ReadTemperature() (int16, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.temperature, nil
}

// ReadBattery implements BatteryMonitor.
func (s *Simulator) ReadBattery() (uint16, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.battery, nil
}

// SetLED implements LEDDriver.
func (s *Simulator) SetLED(c model.Color, on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leds.Set(c, on)
	return nil
}

// OnInterrupt implements Accelerometer.
func (s *Simulator) OnInterrupt(fn InterruptFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onInterrupt = fn
}

// LEDs returns the simulated LED state.
func (s *Simulator) LEDs() model.LEDs {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.leds
}

// SetTemperature sets the raw temperature register.
func (s *Simulator) SetTemperature(raw int16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.temperature = raw
}

// SetBattery sets the raw battery sample, limited to 12 bits.
func (s *Simulator) SetBattery(raw uint16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.battery = raw & 0x0FFF
}

// Tap raises a single tap on the tap line.
func (s *Simulator) Tap() {
	s.Raise(LineTap, IntSingleTap)
}

// Raise delivers reg on line to the registered callback.
func (s *Simulator) Raise(line Line, reg uint8) {
	s.mu.Lock()
	fn := s.onInterrupt
	s.mu.Unlock()

	if fn != nil {
		fn(line, reg)
	}
}

// Step advances the simulation: the temperature drifts by at most a
// quarter degree, the battery drains slowly and now and then the
// accelerometer reports activity or a tap.
func (s *Simulator) Step() {
	s.mu.Lock()
	drift := int16(s.rng.IntN(9)-4) << 4
	s.temperature = clampTemperature(int32(s.temperature) + int32(drift))
	if s.battery > 0 && s.rng.IntN(10) == 0 {
		s.battery--
	}
	roll := s.rng.IntN(20)
	s.mu.Unlock()

	switch roll {
	case 0:
		s.Tap()
	case 1:
		s.Raise(LineActivity, IntActivity)
	case 2:
		s.Raise(LineActivity, IntInactivity)
	}
}

func clampTemperature(v int32) int16 {
	const (
		lo = -40 << 8
		hi = 85 << 8
	)
	return int16(min(max(v, lo), hi))
}

// Compile-time interface satisfaction check.
var _ Hardware = (*Simulator)(nil)
