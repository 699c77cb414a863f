// Package model describes the resources exposed by an IoTSyS sensor node
// and the state behind them.
//
// # Resources
//
// A node exposes a fixed, flat set of resources. Each sensor or actuator
// has an object resource and one or more value resources below it:
//
//	temp              iot:TemperatureSensor
//	└── temp/value    real, periodic, observable
//	button            iot:PushButton
//	└── button/value  bool, event driven, observable
//	acc               iot:ActivitySensor
//	└── acc/value     bool (activity label), event driven, observable
//	leds              iot:LedsActuator
//	├── leds/red      bool, writable
//	├── leds/green    bool, writable
//	└── leds/blue     bool, writable
//	battery           iot:Battery
//	└── battery/value int (percent), periodic, observable
//
// # State
//
// State holds the raw readings the representations are rendered from. It is
// a plain value owned by whoever drives the node; it carries no locking.
package model
