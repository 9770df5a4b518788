// Package drivers defines the hardware boundary of brewshell: the
// operations a relay board or PID controller supports, independent of the
// serial protocol underneath.
//
// Implementations live in subpackages:
//
//   - waveshare: Waveshare Modbus RTU relay board (goburrow/modbus)
//   - str1: STR1xx relay board, framed packets over tarm/serial
//   - cn7500: Omega CN7500 PID controller (goburrow/modbus)
//
// Package connect opens the right implementation for a configured device.
//
// Handles are short-lived by contract: open, run one command, close. The
// boards have been seen to stop answering on long-lived handles, so nothing
// above this package keeps a connection between commands.
package drivers
