// Package sensor defines the hardware collaborators of a node and a
// simulated implementation for hosts without the hardware.
//
// The accelerometer is an ADXL345 wired with two interrupt lines: line 1
// reports activity, inactivity and free fall, line 2 reports taps. The
// temperature sensor is a TMP102 and the battery is sampled by a 12-bit ADC.
package sensor
