package rtu

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DriverKind is the closed set of physical controller types a Device can be.
// It selects the sub-command vocabulary and the hardware driver.
type DriverKind int

// Driver kinds.
const (
	KindUnknown DriverKind = iota

	// KindRelayBoardA is the Waveshare Modbus RTU relay board.
	KindRelayBoardA

	// KindRelayBoardB is the STR1xx serial relay board.
	KindRelayBoardB

	// KindPIDController is the Omega CN7500 PID temperature controller.
	KindPIDController
)

// AllKinds returns every valid driver kind.
func AllKinds() []DriverKind {
	return []DriverKind{KindRelayBoardA, KindRelayBoardB, KindPIDController}
}

// String returns the board name used in tables and log output.
func (k DriverKind) String() string {
	switch k {
	case KindRelayBoardA:
		return "Waveshare"
	case KindRelayBoardB:
		return "STR1"
	case KindPIDController:
		return "CN7500"
	default:
		return "Unknown"
	}
}

// IsRelay reports whether the kind is one of the relay boards.
func (k DriverKind) IsRelay() bool {
	return k == KindRelayBoardA || k == KindRelayBoardB
}

// ParseDriverKind converts a conf driver name into a DriverKind.
// Both board names and generic names are accepted, case-insensitively.
func ParseDriverKind(s string) (DriverKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "waveshare", "relay_board_a":
		return KindRelayBoardA, nil
	case "str1", "relay_board_b":
		return KindRelayBoardB, nil
	case "cn7500", "pid_controller":
		return KindPIDController, nil
	default:
		return KindUnknown, fmt.Errorf("%w: %q", ErrUnknownDriver, s)
	}
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (k *DriverKind) UnmarshalYAML(node *yaml.Node) error {
	var name string
	if err := node.Decode(&name); err != nil {
		return err
	}
	kind, err := ParseDriverKind(name)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*k = kind
	return nil
}

// Device is one configured controllable unit.
//
// Many devices may share a ControllerAddr and Port (several relays on one
// board). Each is dispatched independently.
type Device struct {
	ID   string
	Name string
	Kind DriverKind

	// ControllerAddr is the bus address of the physical board.
	ControllerAddr uint8

	// Addr is the relay index on the board. Unused for PID controllers.
	Addr uint8

	// Port, BaudRate and Timeout are passed through to the driver.
	Port     string
	BaudRate int
	Timeout  time.Duration
}

// RTU is the loaded device configuration of one Remote Terminal Unit.
type RTU struct {
	ID      string
	Name    string
	Devices []Device
}
