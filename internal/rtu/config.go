package rtu

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Per-kind transport defaults, applied when the conf leaves a field unset.
const (
	defaultRelayBaudRate = 9600
	defaultPIDBaudRate   = 19200
	defaultTimeout       = 100 * time.Millisecond
)

// fileConfig mirrors the RTU conf YAML layout.
type fileConfig struct {
	ID      string         `yaml:"id"`
	Name    string         `yaml:"name"`
	Devices []deviceConfig `yaml:"devices"`
}

// deviceConfig is one entry of the devices list.
// Addresses are decoded as int so out-of-range values get a validation
// message instead of a YAML type error.
type deviceConfig struct {
	ID             string     `yaml:"id"`
	Name           string     `yaml:"name"`
	Driver         DriverKind `yaml:"driver"`
	ControllerAddr int        `yaml:"controller_address"`
	Addr           int        `yaml:"device_address"`
	Port           string     `yaml:"port"`
	BaudRate       int        `yaml:"baud_rate"`

	// Timeout is in milliseconds.
	Timeout int `yaml:"timeout"`
}

// Load reads and validates an RTU conf file.
//
// Any failure here is a configuration error. The caller is expected to
// treat it as fatal, since a shell without a registry has nothing to do.
func Load(path string) (*RTU, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rtu config: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates RTU conf YAML.
func Parse(data []byte) (*RTU, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parsing rtu config: %w", err)
	}

	if err := fc.validate(); err != nil {
		return nil, err
	}

	r := &RTU{
		ID:      fc.ID,
		Name:    fc.Name,
		Devices: make([]Device, 0, len(fc.Devices)),
	}
	for _, dc := range fc.Devices {
		r.Devices = append(r.Devices, dc.toDevice())
	}
	return r, nil
}

// toDevice converts a validated entry, applying transport defaults.
func (dc deviceConfig) toDevice() Device {
	d := Device{
		ID:             dc.ID,
		Name:           dc.Name,
		Kind:           dc.Driver,
		ControllerAddr: uint8(dc.ControllerAddr), // #nosec G115 -- range checked in validate
		Addr:           uint8(dc.Addr),           // #nosec G115 -- range checked in validate
		Port:           dc.Port,
		BaudRate:       dc.BaudRate,
		Timeout:        time.Duration(dc.Timeout) * time.Millisecond,
	}

	if d.BaudRate == 0 {
		d.BaudRate = defaultRelayBaudRate
		if d.Kind == KindPIDController {
			d.BaudRate = defaultPIDBaudRate
		}
	}
	if d.Timeout == 0 {
		d.Timeout = defaultTimeout
	}
	return d
}
