package drivers

import (
	"fmt"
	"strings"
)

// State is the binary state of a relay.
type State bool

// Relay states.
const (
	Off State = false
	On  State = true
)

// String returns "On" or "Off".
func (s State) String() string {
	if s {
		return "On"
	}
	return "Off"
}

// ParseState recognises the relay state literals on, off, 1 and 0,
// case-insensitively.
func ParseState(s string) (State, bool) {
	switch strings.ToLower(s) {
	case "on", "1":
		return On, true
	case "off", "0":
		return Off, true
	default:
		return Off, false
	}
}

// Degree is the temperature display unit of a PID controller.
type Degree int

// Degree units.
const (
	Celsius Degree = iota
	Fahrenheit
)

// String returns the unit name.
func (d Degree) String() string {
	if d == Fahrenheit {
		return "Fahrenheit"
	}
	return "Celsius"
}

// ParseDegree recognises F and C, case-insensitively.
func ParseDegree(s string) (Degree, bool) {
	switch strings.ToUpper(s) {
	case "F":
		return Fahrenheit, true
	case "C":
		return Celsius, true
	default:
		return Celsius, false
	}
}

// Revision is a board firmware revision.
type Revision struct {
	Major int
	Minor int
}

// String formats the revision as Vmajor.minor with two minor digits.
func (r Revision) String() string {
	return fmt.Sprintf("V%d.%02d", r.Major, r.Minor)
}

// RelayBoard is an open handle to one relay controller.
//
// A handle is valid for a single command. Callers open a new one for every
// operation and Close it afterwards; boards are not assumed to keep session
// state between calls.
type RelayBoard interface {
	GetRelay(addr uint8) (State, error)
	SetRelay(addr uint8, state State) error

	// GetAllRelays returns the state of every relay on the board, indexed
	// by relay address.
	GetAllRelays() ([]State, error)
	SetAllRelays(state State) error

	// GetAddress asks the board which controller number it is set to,
	// independent of the configured one.
	GetAddress() (uint8, error)
	SetAddress(addr uint8) error

	SoftwareRevision() (Revision, error)

	Close() error
}

// PIDController is an open handle to one PID temperature controller.
// The same one-handle-per-command rule as RelayBoard applies.
type PIDController interface {
	// GetPV returns the process value (measured temperature).
	GetPV() (float64, error)

	// GetSV returns the setpoint value (target temperature).
	GetSV() (float64, error)
	SetSV(sv float64) error

	IsRunning() (bool, error)
	Run() error
	Stop() error

	SetDegrees(unit Degree) error

	Close() error
}
