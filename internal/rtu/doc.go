// Package rtu holds the in-memory model of the brewery's Remote Terminal
// Unit: the configured relay boards and PID controllers reachable over the
// serial bus.
//
// The RTU conf is a YAML file listing devices:
//
//	id: brewery-rtu
//	name: Brew House
//	devices:
//	  - id: relay1
//	    name: Mash pump
//	    driver: waveshare        # waveshare | str1 | cn7500
//	    controller_address: 5
//	    device_address: 2
//	    port: /dev/ttyUSB0
//	    baud_rate: 9600          # optional, per-kind default
//	    timeout: 100             # optional, milliseconds
//
// Load parses and validates the file; the result feeds NewRegistry, which is
// immutable for the rest of the process. Every device id becomes a shell
// command, and Registry.Resolve is the lookup behind it.
package rtu
