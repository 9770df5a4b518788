package rtu

import (
	"fmt"
	"regexp"
	"strings"
)

// Address domains per driver kind.
const (
	maxRelayControllerAddr = 254
	minPIDControllerAddr   = 1
	maxPIDControllerAddr   = 247 // Modbus slave address range
)

// relayCounts is the number of relays on each relay board.
var relayCounts = map[DriverKind]int{
	KindRelayBoardA: 8,
	KindRelayBoardB: 16,
}

// RelayCount returns the number of relays on a board of the given kind,
// or 0 for non-relay kinds.
func RelayCount(kind DriverKind) int {
	return relayCounts[kind]
}

// IDs become shell command names, so they must be a single word.
var idRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// validate checks the whole file and reports every problem at once.
func (fc *fileConfig) validate() error {
	var errs []string

	if len(fc.Devices) == 0 {
		errs = append(errs, "devices: at least one device is required")
	}

	seen := make(map[string]int, len(fc.Devices))
	for i, dc := range fc.Devices {
		prefix := fmt.Sprintf("devices[%d]", i)
		if dc.ID != "" {
			prefix = fmt.Sprintf("devices[%d] (%s)", i, dc.ID)
		}

		for _, msg := range dc.validate() {
			errs = append(errs, prefix+": "+msg)
		}

		if dc.ID == "" {
			continue
		}
		if first, dup := seen[dc.ID]; dup {
			errs = append(errs, fmt.Sprintf("%s: %v (first defined at devices[%d])", prefix, ErrDuplicateID, first))
			continue
		}
		seen[dc.ID] = i
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(errs, "; "))
	}
	return nil
}

// validate returns the problems with a single device entry.
func (dc *deviceConfig) validate() []string {
	var errs []string

	switch {
	case dc.ID == "":
		errs = append(errs, "id is required")
	case !idRegex.MatchString(dc.ID):
		errs = append(errs, fmt.Sprintf("id %q must be a single word (letters, digits, _ . -)", dc.ID))
	}

	if dc.Port == "" {
		errs = append(errs, "port is required")
	}
	if dc.BaudRate < 0 {
		errs = append(errs, "baud_rate must be positive")
	}
	if dc.Timeout < 0 {
		errs = append(errs, "timeout must be positive")
	}

	switch {
	case dc.Driver == KindUnknown:
		errs = append(errs, "driver is required (waveshare, str1, cn7500)")
	case dc.Driver.IsRelay():
		if dc.ControllerAddr < 0 || dc.ControllerAddr > maxRelayControllerAddr {
			errs = append(errs, fmt.Sprintf("controller_address %d out of range 0-%d", dc.ControllerAddr, maxRelayControllerAddr))
		}
		if n := RelayCount(dc.Driver); dc.Addr < 0 || dc.Addr >= n {
			errs = append(errs, fmt.Sprintf("device_address %d out of range 0-%d for %s", dc.Addr, n-1, dc.Driver))
		}
	case dc.Driver == KindPIDController:
		if dc.ControllerAddr < minPIDControllerAddr || dc.ControllerAddr > maxPIDControllerAddr {
			errs = append(errs, fmt.Sprintf("controller_address %d out of range %d-%d", dc.ControllerAddr, minPIDControllerAddr, maxPIDControllerAddr))
		}
	}

	return errs
}
