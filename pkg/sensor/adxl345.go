package sensor

import "github.com/iotsys/iotsys-go/pkg/model"

// ADXL345 INT_SOURCE register bits.
const (
	IntDataReady  uint8 = 0x80
	IntSingleTap  uint8 = 0x40
	IntDoubleTap  uint8 = 0x20
	IntActivity   uint8 = 0x10
	IntInactivity uint8 = 0x08
	IntFreeFall   uint8 = 0x04
	IntWatermark  uint8 = 0x02
	IntOverrun    uint8 = 0x01

	// IntTap is the tap condition the node reacts to.
	IntTap = IntSingleTap
)

// Line is an accelerometer interrupt line.
type Line uint8

const (
	// LineActivity carries activity, inactivity and free fall.
	LineActivity Line = 1
	// LineTap carries tap detection.
	LineTap Line = 2
)

// String returns the line name.
func (l Line) String() string {
	switch l {
	case LineActivity:
		return "activity"
	case LineTap:
		return "tap"
	default:
		return "unknown"
	}
}

// IsTap reports whether reg signals a tap.
func IsTap(reg uint8) bool {
	return reg&IntTap != 0
}

// ClassifyActivity maps an interrupt source register to an acceleration
// event. Inactivity wins over free fall, which wins over activity. It
// reports false when none of the three is set.
func ClassifyActivity(reg uint8) (model.Acceleration, bool) {
	switch {
	case reg&IntInactivity != 0:
		return model.AccInactivity, true
	case reg&IntFreeFall != 0:
		return model.AccFreefall, true
	case reg&IntActivity != 0:
		return model.AccActivity, true
	default:
		return 0, false
	}
}
