package model

import (
	"errors"
	"slices"
	"strings"
	"time"
)

// ErrResourceNotFound is returned when no resource matches a path.
var ErrResourceNotFound = errors.New("resource not found")

// Kind identifies the sensor or actuator behind a resource.
type Kind uint8

const (
	KindTemperature Kind = iota + 1
	KindButton
	KindAcceleration
	KindLED
	KindBattery
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindTemperature:
		return "temperature"
	case KindButton:
		return "button"
	case KindAcceleration:
		return "acceleration"
	case KindLED:
		return "led"
	case KindBattery:
		return "battery"
	default:
		return "unknown"
	}
}

// Method is a bit set of request methods a resource accepts.
type Method uint8

const (
	MethodGet Method = 1 << iota
	MethodPost
	MethodPut
	MethodDelete
)

// Allows reports whether all methods in m are accepted.
func (m Method) Allows(other Method) bool {
	return other != 0 && m&other == other
}

// String returns the method name for a single method.
func (m Method) String() string {
	switch m {
	case MethodGet:
		return "GET"
	case MethodPost:
		return "POST"
	case MethodPut:
		return "PUT"
	case MethodDelete:
		return "DELETE"
	default:
		return "UNKNOWN"
	}
}

// Trigger says what causes observers of a resource to be notified.
type Trigger uint8

const (
	TriggerNone Trigger = iota
	TriggerPeriodic
	TriggerEvent
)

// Message buffer budgets per resource family.
const (
	SensorMessageCapacity = 140
	LEDMessageCapacity    = 240
)

// Default notification periods.
const (
	DefaultTemperaturePeriod = 5 * time.Second
	DefaultBatteryPeriod     = 30 * time.Second
)

// Resource describes one addressable resource.
type Resource struct {
	// Path is the URI path without leading slash.
	Path string

	// Kind selects the value domain.
	Kind Kind

	// Color selects the LED channel for KindLED value resources.
	Color Color

	// Object marks a container resource rendered with an <obj> wrapper.
	Object bool

	// Type is the oBIX contract (objects) or primitive type (values).
	Type string

	// Title is the human readable title published in link format.
	Title string

	// Methods lists the accepted request methods.
	Methods Method

	// Observable resources accept observe registrations.
	Observable bool

	// Trigger and Period drive notifications.
	Trigger Trigger
	Period  time.Duration

	// Groupable resources accept joinGroup/leaveGroup requests.
	Groupable bool

	// Capacity is the rendered message budget in bytes.
	Capacity int
}

// Name returns the object href, i.e. the first path segment.
func (r Resource) Name() string {
	if i := strings.IndexByte(r.Path, '/'); i >= 0 {
		return r.Path[:i]
	}
	return r.Path
}

var resources = []Resource{
	{
		Path: "temp", Kind: KindTemperature, Object: true,
		Type: "iot:TemperatureSensor", Title: "Temperature Sensor",
		Methods: MethodGet, Capacity: SensorMessageCapacity,
	},
	{
		Path: "temp/value", Kind: KindTemperature,
		Type: "obix:Real", Title: "Temperature Value",
		Methods: MethodGet, Observable: true,
		Trigger: TriggerPeriodic, Period: DefaultTemperaturePeriod,
		Capacity: SensorMessageCapacity,
	},
	{
		Path: "button", Kind: KindButton, Object: true,
		Type: "iot:PushButton", Title: "VButton Sensor",
		Methods: MethodGet, Capacity: SensorMessageCapacity,
	},
	{
		Path: "button/value", Kind: KindButton,
		Type: "obix:Bool", Title: "VButton Value",
		Methods: MethodGet | MethodPut, Observable: true,
		Trigger: TriggerEvent, Groupable: true,
		Capacity: SensorMessageCapacity,
	},
	{
		Path: "acc", Kind: KindAcceleration, Object: true,
		Type: "iot:ActivitySensor", Title: "Acceleration Sensor",
		Methods: MethodGet, Capacity: SensorMessageCapacity,
	},
	{
		Path: "acc/value", Kind: KindAcceleration,
		Type: "obix:Bool", Title: "Acceleration Value",
		Methods: MethodGet, Observable: true,
		Trigger: TriggerEvent, Capacity: SensorMessageCapacity,
	},
	{
		Path: "leds", Kind: KindLED, Object: true,
		Type: "iot:LedsActuator", Title: "Leds Actuator",
		Methods: MethodGet, Capacity: LEDMessageCapacity,
	},
	{
		Path: "leds/red", Kind: KindLED, Color: ColorRed,
		Type: "obix:Bool", Title: "Red led",
		Methods: MethodGet | MethodPut, Groupable: true,
		Capacity: SensorMessageCapacity,
	},
	{
		Path: "leds/green", Kind: KindLED, Color: ColorGreen,
		Type: "obix:Bool", Title: "Green led",
		Methods: MethodGet | MethodPut, Groupable: true,
		Capacity: SensorMessageCapacity,
	},
	{
		Path: "leds/blue", Kind: KindLED, Color: ColorBlue,
		Type: "obix:Bool", Title: "Blue led",
		Methods: MethodGet | MethodPut, Groupable: true,
		Capacity: SensorMessageCapacity,
	},
	{
		Path: "battery", Kind: KindBattery, Object: true,
		Type: "iot:Battery", Title: "Battery",
		Methods: MethodGet, Capacity: SensorMessageCapacity,
	},
	{
		Path: "battery/value", Kind: KindBattery,
		Type: "obix:Int", Title: "Battery Value",
		Methods: MethodGet, Observable: true,
		Trigger: TriggerPeriodic, Period: DefaultBatteryPeriod,
		Capacity: SensorMessageCapacity,
	},
}

// Resources returns the resource table in registration order.
func Resources() []Resource {
	out := make([]Resource, len(resources))
	copy(out, resources)
	return out
}

// Lookup returns the resource registered under path. Leading and trailing
// slashes are ignored.
func Lookup(path string) (Resource, error) {
	path = strings.Trim(path, "/")
	for _, r := range resources {
		if r.Path == path {
			return r, nil
		}
	}
	return Resource{}, ErrResourceNotFound
}

// Values returns the value resources, i.e. the resources with a single scalar.
func Values() []Resource {
	var out []Resource
	for _, r := range resources {
		if !r.Object {
			out = append(out, r)
		}
	}
	return out
}

// Types returns the distinct resource types of the table in registration
// order.
func Types() []string {
	var out []string
	for _, r := range resources {
		if !slices.Contains(out, r.Type) {
			out = append(out, r.Type)
		}
	}
	return out
}
